package backend

import (
	"context"
	"net/http"
	"net/http/httptest"
	"testing"
)

func TestPostFormEncodesBody(t *testing.T) {
	type seen struct{ contentType, user, reqID string }
	got := make(chan seen, 1)
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if err := r.ParseForm(); err != nil {
			t.Errorf("parse form: %v", err)
		}
		got <- seen{r.Header.Get("Content-Type"), r.PostForm.Get("user"), r.Header.Get("X-Request-Id")}
		w.WriteHeader(http.StatusCreated)
		w.Write([]byte("ok"))
	}))
	defer srv.Close()

	c, err := New(Options{BaseURL: srv.URL})
	if err != nil {
		t.Fatal(err)
	}
	resp, err := c.PostForm(context.Background(), "/delUser", map[string][]string{"user": {"bob smith"}})
	if err != nil {
		t.Fatal(err)
	}
	if !resp.OK() || resp.Body != "ok" {
		t.Fatalf("resp: %+v", resp)
	}
	s := <-got
	if s.contentType != formContentType {
		t.Errorf("content type: %q", s.contentType)
	}
	if s.user != "bob smith" {
		t.Errorf("user: %q", s.user)
	}
	if s.reqID == "" {
		t.Errorf("missing request id")
	}
}

func TestNonSuccessStatusIsNotAnError(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		http.Error(w, "user exists", http.StatusConflict)
	}))
	defer srv.Close()
	c, _ := New(Options{BaseURL: srv.URL})
	resp, err := c.PostForm(context.Background(), "/addUser", nil)
	if err != nil {
		t.Fatal(err)
	}
	if resp.OK() || resp.Status != http.StatusConflict || resp.Body != "user exists\n" {
		t.Fatalf("resp: %+v", resp)
	}
}

func TestResolve(t *testing.T) {
	c, err := New(Options{BaseURL: "http://127.0.0.1:5000/"})
	if err != nil {
		t.Fatal(err)
	}
	cases := map[string]string{
		"/downloadTable":                  "http://127.0.0.1:5000/downloadTable",
		"static/UserSavedTables/f1.txt":   "http://127.0.0.1:5000/static/UserSavedTables/f1.txt",
		"https://example.org/getAnswers": "https://example.org/getAnswers",
	}
	for in, want := range cases {
		got, err := c.Resolve(in)
		if err != nil || got != want {
			t.Errorf("Resolve(%q) = %q, %v; want %q", in, got, err, want)
		}
	}
}

func TestNewRejectsRelativeBase(t *testing.T) {
	if _, err := New(Options{BaseURL: "localhost"}); err == nil {
		t.Fatalf("expected error")
	}
}
