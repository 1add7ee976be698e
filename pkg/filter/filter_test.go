package filter

import (
	"testing"

	"github.com/harrisonrobin/auditboard/pkg/model"
	"github.com/stretchr/testify/assert"
)

func fixture() []model.Task {
	return []model.Task{
		{ID: "1", Title: "a", Standard: "ISO 9001", Department: "QA", Priority: model.PriorityCritical, Status: model.StatusDone},
		{ID: "2", Title: "b", Standard: "BRC", Department: "QA", Priority: model.PriorityNormal, Status: model.StatusInProgress},
		{ID: "3", Title: "c", Standard: "ISO 9001", Department: "Production", Priority: model.PriorityLow, Status: model.StatusStuck},
		{ID: "4", Title: "d", Standard: "BRC", Department: "Production", Priority: model.PriorityCritical, Status: model.StatusNotStarted},
		{ID: "5", Title: "e", Standard: "ISO 9001", Department: "QA", Priority: model.PriorityNormal, Status: model.StatusDone},
	}
}

func ids(tasks []model.Task) []string {
	out := make([]string, len(tasks))
	for i, t := range tasks {
		out[i] = t.ID
	}
	return out
}

func TestApplyNoCriteriaIsIdentity(t *testing.T) {
	tasks := fixture()

	assert.Equal(t, tasks, Apply(tasks))
	assert.Equal(t, tasks, Apply(tasks, Criterion{Field: model.FieldStatus}))
	assert.Equal(t, tasks, Apply(tasks, Criterion{Field: model.FieldPriority, Values: []string{""}}))
}

func TestApplyStatusContainment(t *testing.T) {
	tasks := fixture()

	for _, sel := range []string{"✅ בוצע", "בוצע", "DONE"} {
		got := Apply(tasks, Criterion{Field: model.FieldStatus, Values: []string{sel}})
		assert.Equal(t, []string{"1", "5"}, ids(got), sel)
	}
}

func TestApplyOrWithinCriterion(t *testing.T) {
	got := Apply(fixture(), Criterion{Field: model.FieldPriority, Values: []string{"CRITICAL", "נמוך"}})

	assert.Equal(t, []string{"1", "3", "4"}, ids(got))
}

func TestApplyIntersection(t *testing.T) {
	tasks := fixture()
	standard := Criterion{Field: model.FieldStandard, Values: []string{"ISO 9001"}}
	department := Criterion{Field: model.FieldDepartment, Values: []string{"QA"}}

	both := Apply(tasks, standard, department)
	chained := Apply(Apply(tasks, standard), department)

	assert.Equal(t, []string{"1", "5"}, ids(both))
	assert.Equal(t, ids(chained), ids(both))
}

func TestApplyDoesNotMutateInput(t *testing.T) {
	tasks := fixture()
	before := append([]model.Task(nil), tasks...)

	Apply(tasks, Criterion{Field: model.FieldDepartment, Values: []string{"Production"}})

	assert.Equal(t, before, tasks)
}

func TestApplyEmptyTable(t *testing.T) {
	got := Apply(nil, Criterion{Field: model.FieldStatus, Values: []string{"DONE"}})

	assert.NotNil(t, got)
	assert.Empty(t, got)
}
