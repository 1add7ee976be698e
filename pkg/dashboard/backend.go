package dashboard

import (
	"context"
	"fmt"

	"github.com/harrisonrobin/auditboard/pkg/model"
	"github.com/harrisonrobin/auditboard/pkg/reconcile"
	"github.com/harrisonrobin/auditboard/pkg/sheet"
	"github.com/harrisonrobin/auditboard/pkg/store"
)

// Backend is where the dashboard loads tasks from and saves them to.
type Backend interface {
	Load(ctx context.Context) ([]model.Record, error)
	Save(ctx context.Context, tasks []model.Task) (*reconcile.Result, error)
	Delete(ctx context.Context, id string) error
}

// DocumentBackend persists through a document store with per-row
// reconciliation.
type DocumentBackend struct {
	store      store.DocumentStore
	reconciler *reconcile.Reconciler
}

func NewDocumentBackend(st store.DocumentStore, r *reconcile.Reconciler) *DocumentBackend {
	return &DocumentBackend{store: st, reconciler: r}
}

// Load streams every document, exposing the document id under "id".
func (b *DocumentBackend) Load(ctx context.Context) ([]model.Record, error) {
	docs, err := b.store.Stream(ctx)
	if err != nil {
		return nil, err
	}
	records := make([]model.Record, 0, len(docs))
	for _, d := range docs {
		rec := make(model.Record, len(d.Data)+1)
		for k, v := range d.Data {
			rec[k] = v
		}
		rec[model.FieldID] = d.ID
		records = append(records, rec)
	}
	return records, nil
}

func (b *DocumentBackend) Save(ctx context.Context, tasks []model.Task) (*reconcile.Result, error) {
	return b.reconciler.Save(ctx, tasks), nil
}

func (b *DocumentBackend) Delete(ctx context.Context, id string) error {
	return b.store.Delete(ctx, id)
}

// SheetBackend persists by overwriting the whole spreadsheet. It has no
// per-field merge: every save writes the full table.
type SheetBackend struct {
	sheet sheet.Backend
}

func NewSheetBackend(s sheet.Backend) *SheetBackend {
	return &SheetBackend{sheet: s}
}

func (b *SheetBackend) Load(ctx context.Context) ([]model.Record, error) {
	return b.sheet.Read(ctx)
}

// Save writes the table in one overwrite; the outcome is all rows or none.
func (b *SheetBackend) Save(ctx context.Context, tasks []model.Task) (*reconcile.Result, error) {
	if err := b.sheet.Write(ctx, tasks); err != nil {
		return nil, fmt.Errorf("overwrite spreadsheet: %w", err)
	}
	res := &reconcile.Result{Strategy: reconcile.ContinueOnError, OK: len(tasks) > 0}
	for i := range tasks {
		res.Outcomes = append(res.Outcomes, reconcile.RowOutcome{Index: i})
	}
	return res, nil
}

func (b *SheetBackend) Delete(ctx context.Context, id string) error {
	return sheet.ErrRowDelete
}

// UnavailableBackend stands in for a backend that could not be opened.
// Every call fails with the open error, so loads render the empty table
// with a message instead of ending the interaction.
type UnavailableBackend struct {
	Err error
}

func Unavailable(err error) *UnavailableBackend {
	return &UnavailableBackend{Err: err}
}

func (b *UnavailableBackend) Load(ctx context.Context) ([]model.Record, error) {
	return nil, b.Err
}

func (b *UnavailableBackend) Save(ctx context.Context, tasks []model.Task) (*reconcile.Result, error) {
	return nil, b.Err
}

func (b *UnavailableBackend) Delete(ctx context.Context, id string) error {
	return b.Err
}
