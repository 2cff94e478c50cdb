package ingest

import "amtconsole/internal/model"

type DemoTable string

const (
	DemoHITs  DemoTable = "hits"
	DemoUsers DemoTable = "users"
)

// demoRows is shown when no source file is configured.
func demoRows(t DemoTable) []model.Row {
	if t == DemoUsers {
		return []model.Row{
			{"id": "admin", "password": "admin", "is_admin": "True"},
			{"id": "worker1", "password": "s3cret", "is_admin": "False"},
			{"id": "worker2", "password": "hunter2", "is_admin": "False"},
		}
	}
	return []model.Row{
		{"id": "1", "type": "txt", "question": "What is 2 + 2?", "answer": "4", "template": "text_hit.html", "img_src": "", "completed": "True"},
		{"id": "2", "type": "img", "question": "Is there a cat in this picture?", "answer": "", "template": "pict_hit.html", "img_src": "https://example.org/cat.jpg", "completed": "False"},
		{"id": "3", "type": "txt", "question": "Translate 'hello' to Spanish", "answer": "hola", "template": "text_hit.html", "img_src": "", "completed": "True"},
		{"id": "4", "type": "html", "question": "Rate this sentence", "answer": "", "template": "custom_rating.html", "img_src": "", "completed": "False"},
		{"id": "5", "type": "img", "question": "How many dogs are visible?", "answer": "2", "template": "pict_hit.html", "img_src": "https://example.org/dogs.jpg", "completed": "True"},
	}
}
