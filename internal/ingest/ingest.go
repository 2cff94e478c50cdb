// Package ingest loads table rows from a file the backend (or a feeder)
// writes: either a JSON array, the format of a table export, or NDJSON.
package ingest

import (
	"bufio"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"os"
	"strings"

	"github.com/nxadm/tail"

	"amtconsole/internal/model"
	"amtconsole/internal/util/logx"
)

type SourceKind string

const (
	SourceFile SourceKind = "file"
	SourceDemo SourceKind = "demo"
)

type Options struct {
	Source SourceKind
	Path   string
	Follow bool
	// Demo selects the built-in table when Source is SourceDemo.
	Demo        DemoTable
	ScanBufSize int // per-line max (bytes)
}

// Batch is one load: the initial contents (Reset) or rows appended later.
type Batch struct {
	Rows  []model.Row
	Reset bool
}

var log = logx.Named("ingest")

// Read emits the initial contents as one Reset batch and, when following,
// every appended line as its own batch.
func Read(ctx context.Context, opt Options) (<-chan Batch, <-chan error) {
	out := make(chan Batch, 64)
	errs := make(chan error, 4)

	go func() {
		defer close(out)
		defer close(errs)

		switch opt.Source {
		case SourceDemo:
			send(ctx, out, Batch{Rows: demoRows(opt.Demo), Reset: true})
		case SourceFile:
			rows, err := LoadFile(opt.Path, opt.ScanBufSize)
			if err != nil {
				report(ctx, errs, err)
				return
			}
			log.Infof("loaded %d rows from %s", len(rows), opt.Path)
			if !send(ctx, out, Batch{Rows: rows, Reset: true}) {
				return
			}
			if opt.Follow {
				readFromTail(ctx, opt.Path, out, errs)
			}
		default:
			report(ctx, errs, errors.New("unknown source kind"))
		}
	}()

	return out, errs
}

func send(ctx context.Context, out chan<- Batch, b Batch) bool {
	select {
	case out <- b:
		return true
	case <-ctx.Done():
		return false
	}
}

// report hands err to the reader unless ctx ends first.
func report(ctx context.Context, errs chan<- error, err error) bool {
	select {
	case errs <- err:
		return true
	case <-ctx.Done():
		return false
	}
}

// LoadFile reads a whole rows file.
func LoadFile(path string, maxBuf int) ([]model.Row, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, err
	}
	defer f.Close()
	return Decode(f, maxBuf)
}

// Decode accepts a JSON array of objects or one object per line.
func Decode(r io.Reader, maxBuf int) ([]model.Row, error) {
	br := bufio.NewReader(r)
	first, err := peekNonSpace(br)
	if err == io.EOF {
		return nil, nil
	}
	if err != nil {
		return nil, err
	}
	if first == '[' {
		dec := json.NewDecoder(br)
		dec.UseNumber()
		var objs []map[string]any
		if err := dec.Decode(&objs); err != nil {
			return nil, fmt.Errorf("decode json array: %w", err)
		}
		rows := make([]model.Row, 0, len(objs))
		for _, o := range objs {
			rows = append(rows, model.RowFromMap(o))
		}
		return rows, nil
	}
	return decodeLines(br, maxBuf)
}

func decodeLines(r io.Reader, maxBuf int) ([]model.Row, error) {
	if maxBuf <= 0 {
		maxBuf = 1024 * 1024
	}
	scanner := bufio.NewScanner(r)
	scanner.Buffer(make([]byte, 0, 64*1024), maxBuf)
	var rows []model.Row
	n := 0
	for scanner.Scan() {
		n++
		row, ok, err := ParseLine(scanner.Text())
		if err != nil {
			return nil, fmt.Errorf("line %d: %w", n, err)
		}
		if ok {
			rows = append(rows, row)
		}
	}
	if err := scanner.Err(); err != nil {
		return nil, err
	}
	return rows, nil
}

// ParseLine decodes one NDJSON line. Blank lines report ok=false.
func ParseLine(line string) (model.Row, bool, error) {
	line = strings.TrimSpace(line)
	if line == "" {
		return nil, false, nil
	}
	dec := json.NewDecoder(strings.NewReader(line))
	dec.UseNumber()
	var obj map[string]any
	if err := dec.Decode(&obj); err != nil {
		return nil, false, err
	}
	return model.RowFromMap(obj), true, nil
}

func peekNonSpace(br *bufio.Reader) (byte, error) {
	for {
		b, err := br.ReadByte()
		if err != nil {
			return 0, err
		}
		switch b {
		case ' ', '\t', '\r', '\n':
			continue
		}
		return b, br.UnreadByte()
	}
}

func readFromTail(ctx context.Context, path string, out chan<- Batch, errs chan<- error) {
	t, err := tail.TailFile(path, tail.Config{
		Follow:    true,
		ReOpen:    true,
		MustExist: true,
		Logger:    tail.DiscardingLogger,
		Poll:      true,
		Location:  &tail.SeekInfo{Offset: 0, Whence: io.SeekEnd},
	})
	if err != nil {
		report(ctx, errs, err)
		return
	}
	defer t.Cleanup()
	for {
		select {
		case <-ctx.Done():
			t.Stop()
			return
		case l, ok := <-t.Lines:
			if !ok {
				return
			}
			if l.Err != nil {
				if !report(ctx, errs, l.Err) {
					t.Stop()
					return
				}
				continue
			}
			row, ok, err := ParseLine(l.Text)
			if err != nil {
				log.Warnf("skipping malformed line from %s: %v", path, err)
				continue
			}
			if ok && !send(ctx, out, Batch{Rows: []model.Row{row}}) {
				t.Stop()
				return
			}
		}
	}
}
