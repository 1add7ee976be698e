// Package aggregate computes per-group completion statistics.
package aggregate

import (
	"fmt"

	"github.com/harrisonrobin/auditboard/pkg/model"
)

// Group holds the completion statistics of one grouping value.
type Group struct {
	Value      string `json:"value"`
	Total      int    `json:"total"`
	Done       int    `json:"done"`
	Completion string `json:"completion"`
}

// Totals summarises a whole table.
type Totals struct {
	Total        int    `json:"total"`
	Done         int    `json:"done"`
	InProgress   int    `json:"in_progress"`
	Stuck        int    `json:"stuck"`
	NotStarted   int    `json:"not_started"`
	OpenCritical int    `json:"open_critical"`
	Completion   string `json:"completion"`
}

// By groups tasks on field. Groups appear in order of first occurrence;
// tasks with an empty grouping value belong to no group.
func By(tasks []model.Task, field string) []Group {
	groups := []Group{}
	index := map[string]int{}
	for _, t := range tasks {
		v := t.Value(field)
		if v == "" {
			continue
		}
		i, ok := index[v]
		if !ok {
			i = len(groups)
			index[v] = i
			groups = append(groups, Group{Value: v})
		}
		groups[i].Total++
		if t.Status == model.StatusDone {
			groups[i].Done++
		}
	}
	for i := range groups {
		groups[i].Completion = Completion(groups[i].Done, groups[i].Total)
	}
	return groups
}

// Summarize counts tasks by status across the whole table.
func Summarize(tasks []model.Task) Totals {
	var s Totals
	for _, t := range tasks {
		s.Total++
		switch t.Status {
		case model.StatusDone:
			s.Done++
		case model.StatusInProgress:
			s.InProgress++
		case model.StatusStuck:
			s.Stuck++
		default:
			s.NotStarted++
		}
		if t.Priority == model.PriorityCritical && t.Status != model.StatusDone {
			s.OpenCritical++
		}
	}
	s.Completion = Completion(s.Done, s.Total)
	return s
}

// Completion formats done/total as a percentage with one decimal place.
// A zero total yields "0%".
func Completion(done, total int) string {
	if total == 0 {
		return "0%"
	}
	return fmt.Sprintf("%.1f%%", float64(done)/float64(total)*100)
}
