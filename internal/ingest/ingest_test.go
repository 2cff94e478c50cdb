package ingest

import (
	"context"
	"errors"
	"os"
	"path/filepath"
	"strings"
	"testing"
	"time"

	"amtconsole/internal/model"
)

func TestDecodeArrayAndLinesAgree(t *testing.T) {
	arr := `  [{"id":"1","completed":true,"variables":{"x":1}},{"id":"2","completed":false}]`
	lines := "{\"id\":\"1\",\"completed\":true,\"variables\":{\"x\":1}}\n\n{\"id\":\"2\",\"completed\":false}\n"
	a, err := Decode(strings.NewReader(arr), 0)
	if err != nil {
		t.Fatal(err)
	}
	l, err := Decode(strings.NewReader(lines), 0)
	if err != nil {
		t.Fatal(err)
	}
	if len(a) != 2 || len(l) != 2 {
		t.Fatalf("lens %d %d", len(a), len(l))
	}
	for i := range a {
		if len(a[i]) != len(l[i]) {
			t.Fatalf("row %d differs: %v vs %v", i, a[i], l[i])
		}
		for k, v := range a[i] {
			if l[i][k] != v {
				t.Fatalf("row %d key %s: %q vs %q", i, k, v, l[i][k])
			}
		}
	}
	if a[0]["completed"] != "True" || a[1]["completed"] != "False" {
		t.Fatalf("completed rendering: %v", a)
	}
}

func TestDecodeEmptyAndMalformed(t *testing.T) {
	rows, err := Decode(strings.NewReader("   \n"), 0)
	if err != nil || len(rows) != 0 {
		t.Fatalf("empty: %v %v", rows, err)
	}
	if _, err := Decode(strings.NewReader("{\"id\":1}\nnot json\n"), 0); err == nil {
		t.Fatalf("expected error for malformed line")
	}
}

func TestReadFileEmitsResetBatch(t *testing.T) {
	p := filepath.Join(t.TempDir(), "users.json")
	if err := os.WriteFile(p, []byte(`[{"id":"alice","password":"x","is_admin":true}]`), 0o644); err != nil {
		t.Fatal(err)
	}
	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()
	out, errs := Read(ctx, Options{Source: SourceFile, Path: p})
	var batches []Batch
	for b := range out {
		batches = append(batches, b)
	}
	for err := range errs {
		t.Fatalf("unexpected error: %v", err)
	}
	if len(batches) != 1 || !batches[0].Reset || len(batches[0].Rows) != 1 {
		t.Fatalf("batches: %+v", batches)
	}
	if got := batches[0].Rows[0]; got.ID() != "alice" || got["is_admin"] != "True" {
		t.Fatalf("row: %v", got)
	}
}

func TestReadMissingFileReportsError(t *testing.T) {
	out, errs := Read(context.Background(), Options{Source: SourceFile, Path: filepath.Join(t.TempDir(), "nope.json")})
	for range out {
	}
	if err := <-errs; err == nil {
		t.Fatalf("expected error")
	}
}

func TestReadDemo(t *testing.T) {
	out, _ := Read(context.Background(), Options{Source: SourceDemo, Demo: DemoUsers})
	b := <-out
	if !b.Reset || len(b.Rows) == 0 {
		t.Fatalf("demo batch: %+v", b)
	}
	for _, r := range b.Rows {
		for _, k := range model.UserAttributes().Keys() {
			if _, ok := r.Get(k); !ok {
				t.Fatalf("demo user row lacks %s: %v", k, r)
			}
		}
	}
}

func TestReportGivesUpWhenCancelled(t *testing.T) {
	errs := make(chan error, 1)
	errs <- errors.New("first")
	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	done := make(chan bool, 1)
	go func() { done <- report(ctx, errs, errors.New("second")) }()
	select {
	case ok := <-done:
		if ok {
			t.Fatalf("report claimed delivery into a full channel")
		}
	case <-time.After(time.Second):
		t.Fatalf("report blocked after cancel")
	}

	ok := report(context.Background(), make(chan error, 1), errors.New("x"))
	if !ok {
		t.Fatalf("report failed with room in the channel")
	}
}
