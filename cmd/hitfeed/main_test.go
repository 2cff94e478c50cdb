package main

import (
	"bytes"
	"context"
	"math/rand"
	"strings"
	"testing"

	"amtconsole/internal/ingest"
)

func TestFeedWritesParseableRows(t *testing.T) {
	var buf bytes.Buffer
	rng := rand.New(rand.NewSource(1))
	if err := feed(context.Background(), &buf, 1000, 3, func() map[string]any { return genHIT(rng) }); err != nil {
		t.Fatal(err)
	}
	rows, err := ingest.Decode(strings.NewReader(buf.String()), 0)
	if err != nil {
		t.Fatal(err)
	}
	if len(rows) != 3 {
		t.Fatalf("rows: %d", len(rows))
	}
	for _, r := range rows {
		if c := r["completed"]; c != "True" && c != "False" {
			t.Fatalf("completed not normalized: %q", c)
		}
		if r.ID() == "" {
			t.Fatalf("row without id: %v", r)
		}
	}
}

func TestFeedStopsOnCancel(t *testing.T) {
	ctx, cancel := context.WithCancel(context.Background())
	cancel()
	var buf bytes.Buffer
	rng := rand.New(rand.NewSource(1))
	if err := feed(ctx, &buf, 1, 0, func() map[string]any { return genUser(rng) }); err != nil {
		t.Fatal(err)
	}
	if n := strings.Count(buf.String(), "\n"); n != 1 {
		t.Fatalf("expected one row before stopping, got %d", n)
	}
}
