// Package reconcile turns edited table rows into per-row create or merge
// writes against a document store.
package reconcile

import (
	"context"
	"fmt"

	"github.com/harrisonrobin/auditboard/pkg/model"
	"github.com/harrisonrobin/auditboard/pkg/store"
	"github.com/sirupsen/logrus"
)

// Strategy decides what happens after a row fails to write.
type Strategy int

const (
	// ContinueOnError records the failure and keeps writing later rows. This
	// is the interactive save path.
	ContinueOnError Strategy = iota
	// AbortOnFirstError stops the batch at the first failed row. This is the
	// bulk migration path.
	AbortOnFirstError
)

func (s Strategy) String() string {
	switch s {
	case ContinueOnError:
		return "continue-on-error"
	case AbortOnFirstError:
		return "abort-on-first-error"
	}
	return fmt.Sprintf("Strategy(%d)", int(s))
}

// Row is one task to persist plus extra write-metadata fields (for example
// the migration's source row marker).
type Row struct {
	Task  model.Task
	Extra map[string]any
}

// WriteError is a single row's failed persist operation.
type WriteError struct {
	Row   int
	ID    string
	Cause error
}

func (e *WriteError) Error() string {
	if e.ID != "" {
		return fmt.Sprintf("write row %d (id %s): %v", e.Row, e.ID, e.Cause)
	}
	return fmt.Sprintf("write row %d: %v", e.Row, e.Cause)
}

func (e *WriteError) Unwrap() error {
	return e.Cause
}

// RowOutcome is the result of one row. Err is a *WriteError when the write
// failed.
type RowOutcome struct {
	Index   int    `json:"index"`
	ID      string `json:"id,omitempty"`
	Created bool   `json:"created"`
	Err     error  `json:"-"`
}

// Result reports a reconcile pass. OK is true when at least one row was
// written.
type Result struct {
	Strategy Strategy     `json:"-"`
	OK       bool         `json:"ok"`
	Aborted  bool         `json:"aborted"`
	Outcomes []RowOutcome `json:"outcomes"`
}

// Succeeded counts the rows that were written.
func (r *Result) Succeeded() int {
	n := 0
	for _, o := range r.Outcomes {
		if o.Err == nil {
			n++
		}
	}
	return n
}

// Failures returns the outcomes of rows that failed.
func (r *Result) Failures() []RowOutcome {
	var failed []RowOutcome
	for _, o := range r.Outcomes {
		if o.Err != nil {
			failed = append(failed, o)
		}
	}
	return failed
}

// Reconciler writes rows to a store under one Strategy.
type Reconciler struct {
	store    store.DocumentStore
	strategy Strategy
	log      logrus.FieldLogger

	// OnRow, when set, is called after every attempted row.
	OnRow func(o RowOutcome, total int)
}

func New(st store.DocumentStore, strategy Strategy, log logrus.FieldLogger) *Reconciler {
	if log == nil {
		log = logrus.StandardLogger()
	}
	return &Reconciler{store: st, strategy: strategy, log: log}
}

func (r *Reconciler) Strategy() Strategy {
	return r.strategy
}

// Save reconciles edited tasks.
func (r *Reconciler) Save(ctx context.Context, tasks []model.Task) *Result {
	rows := make([]Row, len(tasks))
	for i, t := range tasks {
		rows[i] = Row{Task: t}
	}
	return r.SaveRows(ctx, rows)
}

// SaveRows writes each row independently: rows with an id are merged into
// their document, rows without one are created.
func (r *Reconciler) SaveRows(ctx context.Context, rows []Row) *Result {
	res := &Result{Strategy: r.strategy, Outcomes: make([]RowOutcome, 0, len(rows))}
	for i, row := range rows {
		out := r.write(ctx, i, row)
		res.Outcomes = append(res.Outcomes, out)
		if r.OnRow != nil {
			r.OnRow(out, len(rows))
		}
		if out.Err == nil {
			res.OK = true
			continue
		}
		r.log.WithFields(logrus.Fields{
			"row":      i,
			"id":       out.ID,
			"strategy": r.strategy.String(),
		}).WithError(out.Err).Warn("row write failed")
		if r.strategy == AbortOnFirstError {
			res.Aborted = true
			break
		}
	}
	return res
}

func (r *Reconciler) write(ctx context.Context, i int, row Row) RowOutcome {
	id, data := Payload(row.Task)
	for k, v := range row.Extra {
		data[k] = v
	}
	data[model.KeyUpdatedAt] = store.ServerTimestamp

	if id != "" {
		if err := r.store.SetMerge(ctx, id, data); err != nil {
			return RowOutcome{Index: i, ID: id, Err: &WriteError{Row: i, ID: id, Cause: err}}
		}
		return RowOutcome{Index: i, ID: id}
	}
	newID, err := r.store.Add(ctx, data)
	if err != nil {
		return RowOutcome{Index: i, Err: &WriteError{Row: i, Cause: err}}
	}
	return RowOutcome{Index: i, ID: newID, Created: true}
}

// Payload splits a task into its id and the header-keyed fields to write.
// Empty fields are dropped, so clearing a cell in the editor leaves the
// stored value in place.
func Payload(t model.Task) (string, map[string]any) {
	data := make(map[string]any, len(model.Fields))
	for _, f := range model.Fields {
		if v := t.WireValue(f.Name); v != nil {
			data[f.Header] = v
		}
	}
	return t.ID, data
}
