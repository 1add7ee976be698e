// Package gsheets keeps the task table in a Google Sheets spreadsheet.
package gsheets

import (
	"context"
	"errors"
	"fmt"
	"net/http"

	"github.com/harrisonrobin/auditboard/pkg/model"
	"github.com/harrisonrobin/auditboard/pkg/sheet"
	"github.com/harrisonrobin/auditboard/pkg/store"
	"google.golang.org/api/googleapi"
	"google.golang.org/api/option"
	"google.golang.org/api/sheets/v4"
)

// DefaultRange is the A1 range holding the table: the whole first sheet.
const DefaultRange = "Sheet1"

// Sheet is a sheet.Backend over one range of a spreadsheet.
type Sheet struct {
	srv           *sheets.Service
	spreadsheetID string
	rng           string
}

// New creates the Sheets service for spreadsheetID.
func New(ctx context.Context, spreadsheetID, rng string, opts ...option.ClientOption) (*Sheet, error) {
	if spreadsheetID == "" {
		return nil, errors.New("gsheets: spreadsheet id is required")
	}
	if rng == "" {
		rng = DefaultRange
	}
	srv, err := sheets.NewService(ctx, opts...)
	if err != nil {
		return nil, &store.ConnectionError{Op: "connect", Err: err}
	}
	return &Sheet{srv: srv, spreadsheetID: spreadsheetID, rng: rng}, nil
}

func (s *Sheet) Read(ctx context.Context) ([]model.Record, error) {
	resp, err := s.srv.Spreadsheets.Values.Get(s.spreadsheetID, s.rng).
		ValueRenderOption("UNFORMATTED_VALUE").
		DateTimeRenderOption("SERIAL_NUMBER").
		Context(ctx).
		Do()
	if err != nil {
		return nil, classify("read", err)
	}
	return sheet.Records(resp.Values), nil
}

// Write clears the range and writes the full table back.
func (s *Sheet) Write(ctx context.Context, tasks []model.Task) error {
	if _, err := s.srv.Spreadsheets.Values.Clear(s.spreadsheetID, s.rng, &sheets.ClearValuesRequest{}).Context(ctx).Do(); err != nil {
		return classify("clear", err)
	}
	vr := &sheets.ValueRange{Values: sheet.Rows(tasks)}
	if _, err := s.srv.Spreadsheets.Values.Update(s.spreadsheetID, s.rng, vr).ValueInputOption("RAW").Context(ctx).Do(); err != nil {
		return classify("update", err)
	}
	return nil
}

// classify treats auth failures and anything without an API status (network
// errors) as the spreadsheet being unreachable.
func classify(op string, err error) error {
	var apiErr *googleapi.Error
	if errors.As(err, &apiErr) {
		switch apiErr.Code {
		case http.StatusUnauthorized, http.StatusForbidden, http.StatusServiceUnavailable:
			return &store.ConnectionError{Op: op, Err: err}
		}
		return fmt.Errorf("sheets %s: %w", op, err)
	}
	return &store.ConnectionError{Op: op, Err: err}
}
