// Package sheet reads and writes tasks as a single spreadsheet with a fixed
// header row. Writes always replace the whole sheet.
package sheet

import (
	"context"
	"errors"
	"strconv"
	"strings"

	"github.com/harrisonrobin/auditboard/pkg/model"
	"github.com/harrisonrobin/auditboard/pkg/normalize"
)

// Backend is a spreadsheet holding the task table.
type Backend interface {
	// Read returns one record per non-empty data row, keyed by header, with
	// model.KeySourceRow set to the 1-based sheet row.
	Read(ctx context.Context) ([]model.Record, error)
	// Write overwrites the sheet with the header row and tasks.
	Write(ctx context.Context, tasks []model.Task) error
}

// ErrRowDelete is returned when a per-id deletion is requested from a
// spreadsheet; rows there are positional and are removed by rewriting.
var ErrRowDelete = errors.New("spreadsheet backends cannot delete a single row by id")

// Rows renders the header row followed by one row per task in the fixed
// column order.
func Rows(tasks []model.Task) [][]any {
	rows := make([][]any, 0, len(tasks)+1)
	header := make([]any, len(model.Fields))
	for i, h := range model.Headers() {
		header[i] = h
	}
	rows = append(rows, header)
	for _, t := range tasks {
		row := make([]any, len(model.Fields))
		for i, f := range model.Fields {
			v := t.WireValue(f.Name)
			if v == nil {
				v = ""
			}
			row[i] = v
		}
		rows = append(rows, row)
	}
	return rows
}

// Records maps data rows onto the header row. Columns are matched by header
// text, so a sheet with reordered or extra columns still loads.
func Records(rows [][]any) []model.Record {
	if len(rows) == 0 {
		return []model.Record{}
	}
	header := make([]string, len(rows[0]))
	for i, cell := range rows[0] {
		header[i] = normalize.Text(cell)
	}

	records := make([]model.Record, 0, len(rows)-1)
	for r, row := range rows[1:] {
		rec := model.Record{}
		for i, cell := range row {
			if i >= len(header) || header[i] == "" {
				continue
			}
			if blank(cell) {
				continue
			}
			rec[header[i]] = typed(header[i], cell)
		}
		if len(rec) == 0 {
			continue
		}
		rec[model.KeySourceRow] = r + 2
		records = append(records, rec)
	}
	return records
}

// typed turns a numeric due-date cell into a float so it is read as a
// spreadsheet date serial rather than as date text.
func typed(header string, cell any) any {
	s, ok := cell.(string)
	if !ok {
		return cell
	}
	if f, known := model.LookupField(header); known && f.Name == model.FieldDueDate {
		if n, err := strconv.ParseFloat(strings.TrimSpace(s), 64); err == nil {
			return n
		}
	}
	return s
}

func blank(cell any) bool {
	switch c := cell.(type) {
	case nil:
		return true
	case string:
		return strings.TrimSpace(c) == ""
	}
	return false
}
