// Package migrate uploads a spreadsheet into the document store in one pass,
// stopping at the first row that fails to write.
package migrate

import (
	"context"
	"fmt"

	"github.com/harrisonrobin/auditboard/pkg/model"
	"github.com/harrisonrobin/auditboard/pkg/normalize"
	"github.com/harrisonrobin/auditboard/pkg/reconcile"
	"github.com/harrisonrobin/auditboard/pkg/sheet"
	"github.com/harrisonrobin/auditboard/pkg/store"
	"github.com/sirupsen/logrus"
)

// progressEvery is how often (in rows) upload progress is logged.
const progressEvery = 10

// Report summarises a migration. Failed is set when the batch was aborted;
// FailedRecord holds the raw spreadsheet row for diagnosis.
type Report struct {
	Total        int
	Uploaded     int
	Failed       *reconcile.RowOutcome
	FailedRecord model.Record
	Result       *reconcile.Result
}

// OK reports whether anything was uploaded.
func (r *Report) OK() bool {
	return r.Uploaded > 0
}

// Run reads every row of src and creates one document per row. Each
// document carries the upload time and its sheet row number.
func Run(ctx context.Context, src sheet.Backend, dst store.DocumentStore, log logrus.FieldLogger) (*Report, error) {
	if log == nil {
		log = logrus.StandardLogger()
	}

	records, err := src.Read(ctx)
	if err != nil {
		return nil, fmt.Errorf("load spreadsheet: %w", err)
	}
	log.WithField("rows", len(records)).Info("spreadsheet loaded")

	n := normalize.New(log)
	rows := make([]reconcile.Row, len(records))
	for i, rec := range records {
		task := n.Edited(rec)
		// Migrated rows are always new documents.
		task.ID = ""
		sourceRow := task.SourceRow
		if sourceRow == 0 {
			sourceRow = i + 2
		}
		rows[i] = reconcile.Row{
			Task: task,
			Extra: map[string]any{
				model.KeyUploadedAt: store.ServerTimestamp,
				model.KeySourceRow:  sourceRow,
			},
		}
	}

	r := reconcile.New(dst, reconcile.AbortOnFirstError, log)
	r.OnRow = func(o reconcile.RowOutcome, total int) {
		if o.Err == nil && ((o.Index+1)%progressEvery == 0 || o.Index+1 == total) {
			log.Infof("uploaded %d/%d documents", o.Index+1, total)
		}
	}
	res := r.SaveRows(ctx, rows)

	report := &Report{Total: len(records), Uploaded: res.Succeeded(), Result: res}
	if failed := res.Failures(); len(failed) > 0 {
		report.Failed = &failed[0]
		report.FailedRecord = records[failed[0].Index]
		diagnose(log, failed[0], records[failed[0].Index], rows[failed[0].Index])
	}
	return report, nil
}

// diagnose logs the failing row with the type of every field it carried.
func diagnose(log logrus.FieldLogger, o reconcile.RowOutcome, rec model.Record, row reconcile.Row) {
	fields := logrus.Fields{"sheet_row": row.Extra[model.KeySourceRow]}
	for k, v := range rec {
		if k == model.KeySourceRow {
			continue
		}
		fields["field."+k] = fmt.Sprintf("(%T) %s", v, clip(fmt.Sprint(v), 40))
	}
	log.WithFields(fields).WithError(o.Err).Error("upload stopped at first failed row")
}

func clip(s string, n int) string {
	r := []rune(s)
	if len(r) <= n {
		return s
	}
	return string(r[:n])
}
