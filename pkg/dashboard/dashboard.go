// Package dashboard runs one user interaction against a backend: load,
// normalize, filter and sort for display, or reconcile edits back.
package dashboard

import (
	"context"
	"errors"
	"fmt"
	"time"

	"cloud.google.com/go/civil"

	"github.com/harrisonrobin/auditboard/pkg/aggregate"
	"github.com/harrisonrobin/auditboard/pkg/filter"
	"github.com/harrisonrobin/auditboard/pkg/model"
	"github.com/harrisonrobin/auditboard/pkg/normalize"
	"github.com/harrisonrobin/auditboard/pkg/overdue"
	"github.com/harrisonrobin/auditboard/pkg/reconcile"
	"github.com/harrisonrobin/auditboard/pkg/sorter"
	"github.com/harrisonrobin/auditboard/pkg/store"
	"github.com/sirupsen/logrus"
)

// Query selects the rows shown for one interaction. OverdueAsOf, when set,
// keeps only open tasks due before that day.
type Query struct {
	Criteria       []filter.Criterion
	SortByPriority bool
	OverdueAsOf    *civil.Date
}

// RowGaps lists the required fields a displayed row is missing.
type RowGaps struct {
	Index  int                   `json:"index"`
	Fields []model.ValidationGap `json:"fields"`
}

// View is what the presentation layer renders. When loading failed, Table
// is empty (with its full column set) and Message says why.
type View struct {
	Table   model.Table `json:"table"`
	Gaps    []RowGaps   `json:"gaps"`
	Message string      `json:"message,omitempty"`
}

// Stats is the grouped completion summary.
type Stats struct {
	Field   string            `json:"field"`
	Groups  []aggregate.Group `json:"groups"`
	Totals  aggregate.Totals  `json:"totals"`
	Overdue []overdue.Entry   `json:"overdue"`
	Message string            `json:"message,omitempty"`
}

type Dashboard struct {
	backend    Backend
	normalizer *normalize.Normalizer
	log        logrus.FieldLogger
	now        func() time.Time
}

func New(b Backend, log logrus.FieldLogger) *Dashboard {
	if log == nil {
		log = logrus.StandardLogger()
	}
	return &Dashboard{backend: b, normalizer: normalize.New(log), log: log, now: time.Now}
}

// Table loads and normalizes the full, unfiltered table. A failed load
// returns an empty table together with the error.
func (d *Dashboard) Table(ctx context.Context) (model.Table, error) {
	records, err := d.backend.Load(ctx)
	if err != nil {
		return model.NewTable(nil), err
	}
	return d.normalizer.Table(records), nil
}

// Load builds the view for q. It never fails: load errors are reported in
// View.Message over an empty table.
func (d *Dashboard) Load(ctx context.Context, q Query) View {
	table, err := d.Table(ctx)
	if err != nil {
		d.log.WithError(err).Error("load tasks")
		return View{Table: table, Gaps: []RowGaps{}, Message: userMessage(err)}
	}

	rows := filter.Apply(table.Rows, q.Criteria...)
	if q.OverdueAsOf != nil {
		rows = overdue.Filter(rows, *q.OverdueAsOf)
	}
	if q.SortByPriority {
		rows = sorter.ByPriority(rows)
	}
	view := View{Table: model.NewTable(rows), Gaps: []RowGaps{}}
	for i, t := range rows {
		if gaps := t.Gaps(); len(gaps) > 0 {
			view.Gaps = append(view.Gaps, RowGaps{Index: i, Fields: gaps})
		}
	}
	return view
}

// Save reconciles edited tasks back to the backend.
func (d *Dashboard) Save(ctx context.Context, tasks []model.Task) (*reconcile.Result, error) {
	res, err := d.backend.Save(ctx, tasks)
	if err != nil {
		d.log.WithError(err).Error("save tasks")
		return nil, err
	}
	entry := d.log.WithFields(logrus.Fields{"rows": len(tasks), "written": res.Succeeded()})
	if failed := res.Failures(); len(failed) > 0 {
		entry.WithField("failed", len(failed)).Warn("saved with failures")
	} else {
		entry.Info("saved")
	}
	return res, nil
}

// SaveRecords converts raw editor rows and saves them.
func (d *Dashboard) SaveRecords(ctx context.Context, records []model.Record) (*reconcile.Result, error) {
	return d.Save(ctx, d.normalizer.EditedRows(records))
}

// Delete removes one persisted task by id.
func (d *Dashboard) Delete(ctx context.Context, id string) error {
	if id == "" {
		return errors.New("delete: id is required")
	}
	if err := d.backend.Delete(ctx, id); err != nil {
		return fmt.Errorf("delete %s: %w", id, err)
	}
	d.log.WithField("id", id).Info("deleted")
	return nil
}

// Today is the local calendar day used for overdue checks.
func (d *Dashboard) Today() civil.Date {
	return civil.DateOf(d.now())
}

// Stats aggregates the unfiltered table by field and lists the overdue
// tasks as of today.
func (d *Dashboard) Stats(ctx context.Context, field string) Stats {
	table, err := d.Table(ctx)
	stats := Stats{
		Field:  field,
		Groups: aggregate.By(table.Rows, field),
		Totals: aggregate.Summarize(table.Rows),
	}
	stats.Overdue = overdue.Sweep(table.Rows, d.Today())
	if stats.Overdue == nil {
		stats.Overdue = []overdue.Entry{}
	}
	if err != nil {
		d.log.WithError(err).Error("load tasks for stats")
		stats.Message = userMessage(err)
	}
	return stats
}

func userMessage(err error) string {
	if store.IsConnection(err) {
		return fmt.Sprintf("Could not reach the task store: %v", err)
	}
	return fmt.Sprintf("Could not load tasks: %v", err)
}
