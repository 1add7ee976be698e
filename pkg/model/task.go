package model

import (
	"fmt"

	"cloud.google.com/go/civil"
)

// Task is one compliance/audit work item.
type Task struct {
	ID                string      `json:"id,omitempty"`
	Serial            int         `json:"serial"`
	Standard          string      `json:"standard"`
	Category          string      `json:"category"`
	Subcategory       string      `json:"subcategory"`
	Clause            string      `json:"clause"`
	Title             string      `json:"title"`
	Detail            string      `json:"detail"`
	Department        string      `json:"department"`
	DueDate           *civil.Date `json:"due_date"`
	Priority          Priority    `json:"priority"`
	Status            Status      `json:"status"`
	Notes             string      `json:"notes"`
	EstimatedDuration string      `json:"estimated_duration"`
	// SourceRow is the positional identity of a spreadsheet-origin row (1-based,
	// header is row 1). Zero for store-origin tasks.
	SourceRow int `json:"source_row,omitempty"`
}

// Persisted reports whether the store has assigned an id to the task.
func (t Task) Persisted() bool {
	return t.ID != ""
}

// Value returns the text of a field, used for filtering and grouping.
// Enumerations are returned by their canonical name.
func (t Task) Value(field string) string {
	switch field {
	case FieldID:
		return t.ID
	case FieldSerial:
		if t.Serial == 0 {
			return ""
		}
		return fmt.Sprint(t.Serial)
	case FieldStandard:
		return t.Standard
	case FieldCategory:
		return t.Category
	case FieldSubcategory:
		return t.Subcategory
	case FieldClause:
		return t.Clause
	case FieldTitle:
		return t.Title
	case FieldDetail:
		return t.Detail
	case FieldDepartment:
		return t.Department
	case FieldDueDate:
		if t.DueDate == nil {
			return ""
		}
		return t.DueDate.String()
	case FieldPriority:
		return string(t.Priority)
	case FieldStatus:
		return string(t.Status)
	case FieldNotes:
		return t.Notes
	case FieldEstimatedDuration:
		return t.EstimatedDuration
	}
	return ""
}

// ValidationGap marks a required field that is empty. Gaps never block load or
// save; the presentation layer highlights them.
type ValidationGap struct {
	Field string `json:"field"`
}

func (g ValidationGap) Error() string {
	return fmt.Sprintf("required field %q is empty", g.Field)
}

// Gaps returns the required fields of t that need user input.
func (t Task) Gaps() []ValidationGap {
	var gaps []ValidationGap
	if t.Title == "" {
		gaps = append(gaps, ValidationGap{Field: FieldTitle})
	}
	if t.Priority == "" {
		gaps = append(gaps, ValidationGap{Field: FieldPriority})
	}
	if t.Status == "" {
		gaps = append(gaps, ValidationGap{Field: FieldStatus})
	}
	return gaps
}

// Table is the normalized, editable view of the store. Columns is always the
// full fixed column set, even when there are no rows.
type Table struct {
	Columns []string `json:"columns"`
	Rows    []Task   `json:"rows"`
}

// NewTable wraps rows in a table carrying the fixed column set.
func NewTable(rows []Task) Table {
	if rows == nil {
		rows = []Task{}
	}
	return Table{Columns: Columns(), Rows: rows}
}
