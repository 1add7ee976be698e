package sorter

import (
	"sort"

	"github.com/harrisonrobin/auditboard/pkg/model"
)

// ByPriority returns a copy of tasks ordered CRITICAL, NORMAL, LOW, then
// anything unrecognised. Equal priorities keep their relative order.
func ByPriority(tasks []model.Task) []model.Task {
	sorted := make([]model.Task, len(tasks))
	copy(sorted, tasks)
	sort.SliceStable(sorted, func(i, j int) bool {
		return sorted[i].Priority.Rank() < sorted[j].Priority.Rank()
	})
	return sorted
}
