// Package normalize converts raw store and spreadsheet records into the
// canonical task schema. It is the only place untyped values are handled;
// nothing past it sees a raw field.
package normalize

import (
	"cloud.google.com/go/civil"
	"github.com/harrisonrobin/auditboard/pkg/model"
	"github.com/sirupsen/logrus"
)

// Normalizer turns raw records into tasks. Field parse failures degrade to
// defaults and are logged at debug level; they never abort a record.
type Normalizer struct {
	log logrus.FieldLogger
}

func New(log logrus.FieldLogger) *Normalizer {
	if log == nil {
		log = logrus.StandardLogger()
	}
	return &Normalizer{log: log}
}

// Table normalizes a loaded collection. Missing status and priority default
// to NOT_STARTED and NORMAL. An empty input yields an empty table with the
// full column set.
func (n *Normalizer) Table(records []model.Record) model.Table {
	rows := make([]model.Task, 0, len(records))
	for _, rec := range records {
		rows = append(rows, n.Task(rec))
	}
	return model.NewTable(rows)
}

// Task normalizes a single loaded record.
func (n *Normalizer) Task(rec model.Record) model.Task {
	return n.convert(rec, true)
}

// Edited converts a row coming back from the editor. Values are coerced the
// same way as on load, but an empty status or priority stays empty so the
// save path can drop it instead of overwriting the stored value.
func (n *Normalizer) Edited(rec model.Record) model.Task {
	return n.convert(rec, false)
}

// EditedRows converts a batch of editor rows.
func (n *Normalizer) EditedRows(records []model.Record) []model.Task {
	tasks := make([]model.Task, 0, len(records))
	for _, rec := range records {
		tasks = append(tasks, n.Edited(rec))
	}
	return tasks
}

func (n *Normalizer) convert(rec model.Record, defaults bool) model.Task {
	t := model.Task{
		ID:        recordID(rec),
		SourceRow: Serial(rec[model.KeySourceRow]),
	}
	for _, f := range model.Fields {
		v, _ := rec.Get(f)
		switch f.Name {
		case model.FieldSerial:
			t.Serial = n.serial(v)
		case model.FieldDueDate:
			t.DueDate = n.date(v)
		case model.FieldPriority:
			t.Priority = n.priority(v, defaults)
		case model.FieldStatus:
			t.Status = n.status(v, defaults)
		default:
			setText(&t, f.Name, Text(v))
		}
	}
	return t
}

func (n *Normalizer) serial(v any) int {
	s := Serial(v)
	if s == 0 && Text(v) != "" && Text(v) != "0" {
		n.log.WithField("value", v).Debug("non-numeric serial, using 0")
	}
	return s
}

func (n *Normalizer) date(v any) *civil.Date {
	d, ok := Date(v)
	if !ok {
		if Text(v) != "" {
			n.log.WithField("value", v).Debug("unparseable due date, leaving empty")
		}
		return nil
	}
	return &d
}

func (n *Normalizer) priority(v any, defaults bool) model.Priority {
	raw := Text(v)
	if p, ok := model.ParsePriority(raw); ok {
		return p
	}
	if raw == "" && !defaults {
		return ""
	}
	if raw != "" {
		n.log.WithField("value", raw).Debug("unknown priority, using NORMAL")
	}
	return model.PriorityNormal
}

func (n *Normalizer) status(v any, defaults bool) model.Status {
	raw := Text(v)
	if s, ok := model.ParseStatus(raw); ok {
		return s
	}
	if raw == "" && !defaults {
		return ""
	}
	if raw != "" {
		n.log.WithField("value", raw).Debug("unknown status, using NOT_STARTED")
	}
	return model.StatusNotStarted
}

func recordID(rec model.Record) string {
	if id := Text(rec[model.FieldID]); id != "" {
		return id
	}
	return Text(rec[model.KeyLegacyDocID])
}

func setText(t *model.Task, field, value string) {
	switch field {
	case model.FieldStandard:
		t.Standard = value
	case model.FieldCategory:
		t.Category = value
	case model.FieldSubcategory:
		t.Subcategory = value
	case model.FieldClause:
		t.Clause = value
	case model.FieldTitle:
		t.Title = value
	case model.FieldDetail:
		t.Detail = value
	case model.FieldDepartment:
		t.Department = value
	case model.FieldNotes:
		t.Notes = value
	case model.FieldEstimatedDuration:
		t.EstimatedDuration = value
	}
}
