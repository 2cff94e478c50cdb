// Package export saves a finished table export to a local file.
package export

import (
	"bufio"
	"context"
	"encoding/csv"
	"encoding/json"
	"errors"
	"fmt"
	"os"
	"strings"

	"github.com/xuri/excelize/v2"

	"amtconsole/internal/backend"
	"amtconsole/internal/ingest"
	"amtconsole/internal/model"
)

const (
	FormatCSV  = "csv"
	FormatJSON = "json"
	FormatXLSX = "xlsx"
)

const sheet = "Sheet1"

var ErrNoRows = errors.New("no rows")

// Getter is satisfied by *backend.Client.
type Getter interface {
	Get(ctx context.Context, path string) (backend.Response, error)
}

// Fetch downloads the JSON file behind an export link.
func Fetch(ctx context.Context, c Getter, link string) ([]model.Row, error) {
	resp, err := c.Get(ctx, link)
	if err != nil {
		return nil, err
	}
	if !resp.OK() {
		return nil, fmt.Errorf("fetch export: status %d", resp.Status)
	}
	return ingest.Decode(strings.NewReader(resp.Body), 0)
}

// Write saves rows to path in the given format.
func Write(format, path string, rows []model.Row, attrs model.AttributeSet) error {
	switch strings.ToLower(format) {
	case FormatCSV:
		return ToCSV(path, rows, attrs)
	case FormatJSON:
		return ToNDJSON(path, rows)
	case FormatXLSX:
		return ToXLSX(path, rows, attrs)
	}
	return fmt.Errorf("unknown export format %q", format)
}

func ToCSV(path string, rows []model.Row, attrs model.AttributeSet) error {
	if len(rows) == 0 {
		return ErrNoRows
	}
	f, err := os.Create(path)
	if err != nil {
		return err
	}
	defer f.Close()
	w := csv.NewWriter(f)
	cols := attrs.ColumnOrder(rows)
	if err := w.Write(cols); err != nil {
		return err
	}
	for _, r := range rows {
		if err := w.Write(cells(r, cols)); err != nil {
			return err
		}
	}
	w.Flush()
	return w.Error()
}

func ToNDJSON(path string, rows []model.Row) error {
	f, err := os.Create(path)
	if err != nil {
		return err
	}
	defer f.Close()
	bw := bufio.NewWriter(f)
	for _, r := range rows {
		b, err := json.Marshal(r)
		if err != nil {
			return err
		}
		if _, err := bw.Write(append(b, '\n')); err != nil {
			return err
		}
	}
	return bw.Flush()
}

func ToXLSX(path string, rows []model.Row, attrs model.AttributeSet) error {
	if len(rows) == 0 {
		return ErrNoRows
	}
	f := excelize.NewFile()
	defer func() { _ = f.Close() }()
	cols := attrs.ColumnOrder(rows)
	header := make([]interface{}, len(cols))
	for i, c := range cols {
		header[i] = attrs.Label(c)
	}
	if err := f.SetSheetRow(sheet, "A1", &header); err != nil {
		return fmt.Errorf("write header: %w", err)
	}
	for i, r := range rows {
		vals := cells(r, cols)
		line := make([]interface{}, len(vals))
		for j, v := range vals {
			line[j] = v
		}
		cell, err := excelize.CoordinatesToCellName(1, i+2)
		if err != nil {
			return err
		}
		if err := f.SetSheetRow(sheet, cell, &line); err != nil {
			return fmt.Errorf("write row %d: %w", i+1, err)
		}
	}
	return f.SaveAs(path)
}

func cells(r model.Row, cols []string) []string {
	out := make([]string, len(cols))
	for i, c := range cols {
		out[i], _ = r.Get(c)
	}
	return out
}
