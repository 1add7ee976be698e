// Package filter applies composable predicates to a normalized task table.
package filter

import (
	"strings"

	"github.com/harrisonrobin/auditboard/pkg/model"
)

// Criterion accepts a task when its Field matches any of Values.
// A criterion with no values accepts everything.
type Criterion struct {
	Field  string   `json:"field"`
	Values []string `json:"values"`
}

// Empty reports whether the criterion is a no-op.
func (c Criterion) Empty() bool {
	for _, v := range c.Values {
		if strings.TrimSpace(v) != "" {
			return false
		}
	}
	return true
}

// Match reports whether t satisfies the criterion.
func (c Criterion) Match(t model.Task) bool {
	if c.Empty() {
		return true
	}
	for _, v := range c.Values {
		if v == "" {
			continue
		}
		if c.Field == model.FieldStatus {
			if statusContains(t.Status, v) {
				return true
			}
			continue
		}
		if exact(t, c.Field, v) {
			return true
		}
	}
	return false
}

// Apply returns the tasks satisfying all criteria, in input order.
// The input slice is never modified.
func Apply(tasks []model.Task, criteria ...Criterion) []model.Task {
	out := make([]model.Task, 0, len(tasks))
	for _, t := range tasks {
		if matchAll(t, criteria) {
			out = append(out, t)
		}
	}
	return out
}

func matchAll(t model.Task, criteria []Criterion) bool {
	for _, c := range criteria {
		if !c.Match(t) {
			return false
		}
	}
	return true
}

// statusContains matches a selected status against the task's status text
// by containment, so "✅ בוצע", "בוצע" and "DONE" all select DONE tasks.
func statusContains(s model.Status, selected string) bool {
	if s == "" {
		return false
	}
	sel := strings.TrimSpace(selected)
	for _, text := range []string{s.Label(), string(s)} {
		if strings.Contains(sel, text) || strings.Contains(text, sel) {
			return true
		}
	}
	parsed, ok := model.ParseStatus(sel)
	return ok && parsed == s
}

// exact matches enumerations by name or stored label, and text fields by
// equality.
func exact(t model.Task, field, value string) bool {
	switch field {
	case model.FieldPriority:
		return t.Priority != "" && (value == string(t.Priority) || value == t.Priority.Label())
	default:
		return t.Value(field) == value
	}
}
