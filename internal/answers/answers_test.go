package answers

import (
	"context"
	"errors"
	"net/http"
	"net/http/httptest"
	"testing"

	"amtconsole/internal/backend"
)

func TestPayloadSingleInput(t *testing.T) {
	got := Payload([]Input{{Name: "a", Value: "1", Collectible: true}})
	if got != "answers=1" {
		t.Fatalf("got %q", got)
	}
}

func TestPayloadMultipleInputs(t *testing.T) {
	got := Payload([]Input{
		{Name: "a", Value: "1", Collectible: true},
		{Name: "skip", Value: "x"},
		{Name: "b", Value: "2", Collectible: true},
	})
	if got != "answers=/a:1/,/b:2/" {
		t.Fatalf("got %q", got)
	}
}

func TestPayloadNoInputs(t *testing.T) {
	if got := Payload(nil); got != "answers=" {
		t.Fatalf("got %q", got)
	}
}

func TestParseRoundTrip(t *testing.T) {
	fields, ok := Parse(Serialize([]Input{
		{Name: "q1", Value: "yes", Collectible: true},
		{Name: "q2", Value: "10:30", Collectible: true},
	}))
	if !ok {
		t.Fatalf("expected flattened answer")
	}
	if fields["q1"] != "yes" || fields["q2"] != "10:30" {
		t.Fatalf("fields: %v", fields)
	}
	if _, ok := Parse("plain answer"); ok {
		t.Fatalf("plain value parsed as flattened")
	}
}

func TestSubmitBlocksUntilDelivered(t *testing.T) {
	got := make(chan string, 1)
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if r.URL.Path != "/getAnswers" {
			t.Errorf("path: %s", r.URL.Path)
		}
		got <- r.FormValue(Field)
		w.Write([]byte("Thank you for your input!"))
	}))
	defer srv.Close()

	c, err := backend.New(backend.Options{BaseURL: "http://unused.invalid"})
	if err != nil {
		t.Fatal(err)
	}
	s := NewSubmitter(c, srv.URL+"/getAnswers")
	err = s.Submit(context.Background(), []Input{
		{Name: "a", Value: "1", Collectible: true},
		{Name: "b", Value: "2", Collectible: true},
	})
	if err != nil {
		t.Fatal(err)
	}
	// Submit has returned, so the handler has already run.
	select {
	case v := <-got:
		if v != "/a:1/,/b:2/" {
			t.Fatalf("server saw %q", v)
		}
	default:
		t.Fatalf("submit returned before the server saw the request")
	}
}

func TestSubmitWithoutEndpoint(t *testing.T) {
	s := NewSubmitter(nil, " ")
	if err := s.Submit(context.Background(), nil); !errors.Is(err, ErrNoEndpoint) {
		t.Fatalf("got %v", err)
	}
}

func TestParseArg(t *testing.T) {
	in, err := ParseArg("q1=a=b")
	if err != nil || in.Name != "q1" || in.Value != "a=b" || !in.Collectible {
		t.Fatalf("got %+v %v", in, err)
	}
	if _, err := ParseArg("=x"); err == nil {
		t.Fatalf("expected error")
	}
}
