// Command hitfeed appends simulated HIT or user rows as NDJSON, for trying
// the console's --follow mode without a backend.
package main

import (
	"bufio"
	"context"
	"encoding/json"
	"flag"
	"fmt"
	"io"
	"math/rand"
	"os"
	"os/signal"
	"path/filepath"
	"syscall"
	"time"

	"github.com/google/uuid"
)

const (
	tableHITs  = "hits"
	tableUsers = "users"
)

func main() {
	var (
		table       string
		rate        float64
		outPath     string
		toStdout    bool
		durationStr string
		count       int
	)
	flag.StringVar(&table, "table", tableHITs, "Rows to generate: hits or users")
	flag.Float64Var(&rate, "rate", 2.0, "Rows per second")
	flag.StringVar(&outPath, "out", "", "Output file path. Defaults to simulateddata/<table>.ndjson")
	flag.BoolVar(&toStdout, "stdout", false, "Write to stdout instead of a file")
	flag.StringVar(&durationStr, "duration", "", "Optional run duration (e.g., 30s, 2m). Empty means run until interrupted")
	flag.IntVar(&count, "count", 0, "Stop after this many rows (0 = unlimited)")
	flag.Parse()

	if table != tableHITs && table != tableUsers {
		fmt.Fprintf(os.Stderr, "unknown table %q (want hits|users)\n", table)
		os.Exit(2)
	}
	if rate <= 0 {
		rate = 1
	}

	ctx, cancel := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer cancel()
	if durationStr != "" {
		d, err := time.ParseDuration(durationStr)
		if err != nil {
			fmt.Fprintf(os.Stderr, "invalid duration: %v\n", err)
			os.Exit(2)
		}
		var stop context.CancelFunc
		ctx, stop = context.WithTimeout(ctx, d)
		defer stop()
	}

	var w io.Writer = os.Stdout
	if !toStdout {
		if outPath == "" {
			outPath = filepath.Join("simulateddata", table+".ndjson")
		}
		if err := os.MkdirAll(filepath.Dir(outPath), 0o755); err != nil {
			fmt.Fprintf(os.Stderr, "failed to create %s: %v\n", filepath.Dir(outPath), err)
			os.Exit(1)
		}
		f, err := os.OpenFile(outPath, os.O_CREATE|os.O_WRONLY|os.O_APPEND, 0o644)
		if err != nil {
			fmt.Fprintf(os.Stderr, "open %s: %v\n", outPath, err)
			os.Exit(1)
		}
		defer f.Close()
		w = f
		fmt.Fprintf(os.Stderr, "generating %s rows -> %s at %.2f rows/s\n", table, outPath, rate)
	}

	rng := rand.New(rand.NewSource(time.Now().UnixNano()))
	gen := genHIT
	if table == tableUsers {
		gen = genUser
	}
	if err := feed(ctx, w, rate, count, func() map[string]any { return gen(rng) }); err != nil {
		fmt.Fprintf(os.Stderr, "write: %v\n", err)
		os.Exit(1)
	}
}

// feed writes one row per tick until ctx ends or count rows are written.
func feed(ctx context.Context, w io.Writer, rate float64, count int, next func() map[string]any) error {
	bw := bufio.NewWriter(w)
	enc := json.NewEncoder(bw)
	interval := time.Duration(float64(time.Second) / rate)
	t := time.NewTicker(interval)
	defer t.Stop()
	for n := 0; count <= 0 || n < count; n++ {
		if err := enc.Encode(next()); err != nil {
			return err
		}
		// flush per row so a tailing reader sees complete lines
		if err := bw.Flush(); err != nil {
			return err
		}
		select {
		case <-ctx.Done():
			return nil
		case <-t.C:
		}
	}
	return nil
}

var (
	hitTypes  = []string{"txt", "img", "html"}
	questions = map[string][]string{
		"txt":  {"Translate this sentence", "Summarize the paragraph", "Is this review positive?"},
		"img":  {"Is there a cat in this picture?", "How many people are visible?", "Describe the scene"},
		"html": {"Rate this sentence", "Pick the best title"},
	}
	templates = map[string]string{"txt": "text_hit.html", "img": "pict_hit.html", "html": "custom_rating.html"}
)

func genHIT(rng *rand.Rand) map[string]any {
	typ := hitTypes[rng.Intn(len(hitTypes))]
	qs := questions[typ]
	completed := rng.Intn(3) == 0
	row := map[string]any{
		"id":        uuid.NewString(),
		"type":      typ,
		"question":  qs[rng.Intn(len(qs))],
		"answer":    "",
		"template":  templates[typ],
		"img_src":   "",
		"completed": completed,
	}
	if typ == "img" {
		row["img_src"] = fmt.Sprintf("https://example.org/img/%d.jpg", rng.Intn(1000))
	}
	if completed {
		row["answer"] = fmt.Sprintf("/q1:%d/", rng.Intn(10))
	}
	return row
}

func genUser(rng *rand.Rand) map[string]any {
	return map[string]any{
		"id":       fmt.Sprintf("worker%04d", rng.Intn(10000)),
		"password": uuid.NewString()[:8],
		"is_admin": rng.Intn(10) == 0,
	}
}
