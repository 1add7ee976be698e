package model

import (
	"strings"
	"unicode"
)

type Priority string

const (
	PriorityCritical Priority = "CRITICAL"
	PriorityNormal   Priority = "NORMAL"
	PriorityLow      Priority = "LOW"
)

// Priorities lists the priorities in rank order.
var Priorities = []Priority{PriorityCritical, PriorityNormal, PriorityLow}

var priorityLabels = map[Priority]string{
	PriorityCritical: "קריטי",
	PriorityNormal:   "רגיל",
	PriorityLow:      "נמוך",
}

// Label is the stored (display) text of the priority.
func (p Priority) Label() string {
	if l, ok := priorityLabels[p]; ok {
		return l
	}
	return string(p)
}

// Rank orders priorities: CRITICAL(0) < NORMAL(1) < LOW(2) < anything else(3).
func (p Priority) Rank() int {
	for i, known := range Priorities {
		if p == known {
			return i
		}
	}
	return len(Priorities)
}

// ParsePriority resolves raw stored text to a priority. Decorations around
// the word ("🔴 קריטי") are ignored; see matches.
func ParsePriority(raw string) (Priority, bool) {
	s := bare(raw)
	if s == "" {
		return "", false
	}
	for _, p := range Priorities {
		if matches(s, priorityLabels[p], string(p)) {
			return p, true
		}
	}
	return "", false
}

type Status string

const (
	StatusNotStarted Status = "NOT_STARTED"
	StatusInProgress Status = "IN_PROGRESS"
	StatusDone       Status = "DONE"
	StatusStuck      Status = "STUCK"
)

var Statuses = []Status{StatusNotStarted, StatusInProgress, StatusDone, StatusStuck}

var statusLabels = map[Status]string{
	StatusNotStarted: "טרם התחיל",
	StatusInProgress: "בטיפול",
	StatusDone:       "בוצע",
	StatusStuck:      "נתקע",
}

func (s Status) Label() string {
	if l, ok := statusLabels[s]; ok {
		return l
	}
	return string(s)
}

// ParseStatus resolves raw stored text to a status, tolerating icon
// prefixes such as "✅ בוצע". Negated text ("לא בוצע", "not done") does
// not resolve.
func ParseStatus(raw string) (Status, bool) {
	s := bare(raw)
	if s == "" {
		return "", false
	}
	for _, st := range Statuses {
		if matches(s, statusLabels[st], string(st)) {
			return st, true
		}
	}
	return "", false
}

// bare canonicalizes raw and strips the non-letter runes around it, such as
// icons and punctuation.
func bare(raw string) string {
	return strings.TrimFunc(canonical(raw), func(r rune) bool {
		return !unicode.IsLetter(r)
	})
}

// matches reports whether s is one of the given words, or starts with one
// followed by a separator ("בוצע (verified)").
func matches(s string, words ...string) bool {
	for _, w := range words {
		w = canonical(w)
		if s == w || strings.HasPrefix(s, w+"_") {
			return true
		}
	}
	return false
}

// canonical upper-cases latin text and folds spaces and dashes into
// underscores so "in progress" and "In-Progress" match IN_PROGRESS.
func canonical(raw string) string {
	s := strings.TrimSpace(raw)
	if s == "" {
		return ""
	}
	return strings.NewReplacer(" ", "_", "-", "_").Replace(strings.ToUpper(s))
}
