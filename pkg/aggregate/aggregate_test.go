package aggregate

import (
	"testing"

	"github.com/harrisonrobin/auditboard/pkg/model"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestByStandard(t *testing.T) {
	tasks := []model.Task{
		{Standard: "ISO 9001", Status: model.StatusDone},
		{Standard: "BRC", Status: model.StatusInProgress},
		{Standard: "ISO 9001", Status: model.StatusDone},
		{Standard: "ISO 9001", Status: model.StatusStuck},
		{Standard: "", Status: model.StatusDone},
		{Standard: "ISO 9001", Status: model.StatusDone},
	}

	groups := By(tasks, model.FieldStandard)

	require.Len(t, groups, 2)
	assert.Equal(t, Group{Value: "ISO 9001", Total: 4, Done: 3, Completion: "75.0%"}, groups[0])
	assert.Equal(t, Group{Value: "BRC", Total: 1, Done: 0, Completion: "0.0%"}, groups[1])
}

func TestByDepartmentSkipsMissing(t *testing.T) {
	tasks := []model.Task{
		{Department: "", Status: model.StatusDone},
		{Department: "QA", Status: model.StatusNotStarted},
	}

	groups := By(tasks, model.FieldDepartment)

	require.Len(t, groups, 1)
	assert.Equal(t, "QA", groups[0].Value)
}

func TestByEmptyTable(t *testing.T) {
	groups := By(nil, model.FieldStandard)

	assert.NotNil(t, groups)
	assert.Empty(t, groups)
}

func TestCompletion(t *testing.T) {
	assert.Equal(t, "0%", Completion(0, 0))
	assert.Equal(t, "33.3%", Completion(1, 3))
	assert.Equal(t, "100.0%", Completion(2, 2))
}

func TestSummarize(t *testing.T) {
	tasks := []model.Task{
		{Status: model.StatusDone, Priority: model.PriorityCritical},
		{Status: model.StatusInProgress, Priority: model.PriorityCritical},
		{Status: model.StatusStuck, Priority: model.PriorityLow},
		{Status: model.StatusNotStarted, Priority: model.PriorityNormal},
	}

	s := Summarize(tasks)

	assert.Equal(t, Totals{
		Total:        4,
		Done:         1,
		InProgress:   1,
		Stuck:        1,
		NotStarted:   1,
		OpenCritical: 1,
		Completion:   "25.0%",
	}, s)
}
