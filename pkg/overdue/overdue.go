// Package overdue finds open tasks whose due date has passed.
package overdue

import (
	"sort"

	"cloud.google.com/go/civil"
	"github.com/harrisonrobin/auditboard/pkg/model"
)

// Entry is an overdue task and how many days late it is.
type Entry struct {
	Task     model.Task `json:"task"`
	DaysLate int        `json:"days_late"`
}

// Is reports whether t is open and due before today.
func Is(t model.Task, today civil.Date) bool {
	return t.Status != model.StatusDone && t.DueDate != nil && t.DueDate.Before(today)
}

// Sweep returns the overdue tasks, most overdue first. Tasks without a due
// date are never overdue.
func Sweep(tasks []model.Task, today civil.Date) []Entry {
	var swept []Entry
	for _, t := range tasks {
		if Is(t, today) {
			swept = append(swept, Entry{Task: t, DaysLate: today.DaysSince(*t.DueDate)})
		}
	}
	sort.SliceStable(swept, func(i, j int) bool {
		return swept[i].DaysLate > swept[j].DaysLate
	})
	return swept
}

// Filter keeps the overdue tasks in input order.
func Filter(tasks []model.Task, today civil.Date) []model.Task {
	out := make([]model.Task, 0, len(tasks))
	for _, t := range tasks {
		if Is(t, today) {
			out = append(out, t)
		}
	}
	return out
}
