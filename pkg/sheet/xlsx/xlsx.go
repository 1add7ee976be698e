// Package xlsx keeps the task table in a local Excel workbook.
package xlsx

import (
	"context"
	"fmt"
	"os"
	"path/filepath"

	"github.com/harrisonrobin/auditboard/pkg/model"
	"github.com/harrisonrobin/auditboard/pkg/sheet"
	"github.com/harrisonrobin/auditboard/pkg/store"
	"github.com/xuri/excelize/v2"
)

const defaultSheet = "Sheet1"

// File is a sheet.Backend over one worksheet of a workbook. An empty Sheet
// reads the first worksheet and writes "Sheet1".
type File struct {
	Path  string
	Sheet string
}

func New(path, sheetName string) *File {
	return &File{Path: path, Sheet: sheetName}
}

func (f *File) Read(ctx context.Context) ([]model.Record, error) {
	wb, err := excelize.OpenFile(f.Path)
	if err != nil {
		return nil, &store.ConnectionError{Op: "open " + f.Path, Err: err}
	}
	defer wb.Close()

	name := f.Sheet
	if name == "" {
		sheets := wb.GetSheetList()
		if len(sheets) == 0 {
			return []model.Record{}, nil
		}
		name = sheets[0]
	}

	// Raw values keep date cells as serial numbers instead of locale text.
	rows, err := wb.GetRows(name, excelize.Options{RawCellValue: true})
	if err != nil {
		return nil, fmt.Errorf("read sheet %q: %w", name, err)
	}
	cells := make([][]any, len(rows))
	for i, row := range rows {
		cells[i] = make([]any, len(row))
		for j, c := range row {
			cells[i][j] = c
		}
	}
	return sheet.Records(cells), nil
}

// Write replaces the workbook with a single sheet holding tasks.
func (f *File) Write(ctx context.Context, tasks []model.Task) error {
	wb := excelize.NewFile()
	defer wb.Close()

	name := f.Sheet
	if name == "" {
		name = defaultSheet
	}
	if name != defaultSheet {
		if err := wb.SetSheetName(defaultSheet, name); err != nil {
			return fmt.Errorf("rename sheet: %w", err)
		}
	}

	for i, row := range sheet.Rows(tasks) {
		cell, err := excelize.CoordinatesToCellName(1, i+1)
		if err != nil {
			return err
		}
		if err := wb.SetSheetRow(name, cell, &row); err != nil {
			return fmt.Errorf("write row %d: %w", i+1, err)
		}
	}

	if dir := filepath.Dir(f.Path); dir != "" {
		if err := os.MkdirAll(dir, 0700); err != nil {
			return &store.ConnectionError{Op: "write " + f.Path, Err: err}
		}
	}
	if err := wb.SaveAs(f.Path); err != nil {
		return &store.ConnectionError{Op: "write " + f.Path, Err: err}
	}
	return nil
}
