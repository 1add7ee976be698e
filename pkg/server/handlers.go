package server

import (
	"net/http"
	"strings"

	"github.com/gin-gonic/gin"
	"github.com/harrisonrobin/auditboard/pkg/dashboard"
	"github.com/harrisonrobin/auditboard/pkg/filter"
	"github.com/harrisonrobin/auditboard/pkg/model"
	"github.com/harrisonrobin/auditboard/pkg/reconcile"
)

// filterParams maps query parameters to the fields they filter on.
var filterParams = []string{
	model.FieldStatus,
	model.FieldPriority,
	model.FieldStandard,
	model.FieldDepartment,
}

// Option is one selectable enum value.
type Option struct {
	Name  string `json:"name"`
	Label string `json:"label"`
}

// Options feeds the editor's dropdowns and filter selectors.
type Options struct {
	Columns     []string `json:"columns"`
	Statuses    []Option `json:"statuses"`
	Priorities  []Option `json:"priorities"`
	Standards   []string `json:"standards"`
	Departments []string `json:"departments"`
}

// RowFailure is one row that could not be saved.
type RowFailure struct {
	Index int    `json:"index"`
	ID    string `json:"id,omitempty"`
	Error string `json:"error"`
}

// SaveResult reports a save. OK is true when at least one row was written.
type SaveResult struct {
	OK       bool                   `json:"ok"`
	Aborted  bool                   `json:"aborted"`
	Written  int                    `json:"written"`
	Failed   []RowFailure           `json:"failed"`
	Outcomes []reconcile.RowOutcome `json:"outcomes"`
}

func (s *Server) health(c *gin.Context) {
	c.JSON(http.StatusOK, gin.H{"status": "ok"})
}

// listTasks serves the filtered table. A store failure still answers 200
// with an empty table and the reason in the envelope message.
func (s *Server) listTasks(c *gin.Context) {
	q := dashboard.Query{SortByPriority: c.Query("sort") == model.FieldPriority}
	if c.Query("overdue") == "true" {
		today := s.dash.Today()
		q.OverdueAsOf = &today
	}
	for _, param := range filterParams {
		if values := queryValues(c, param); len(values) > 0 {
			q.Criteria = append(q.Criteria, filter.Criterion{Field: param, Values: values})
		}
	}

	view := s.dash.Load(c.Request.Context(), q)
	success(c, view.Message, view)
}

func (s *Server) saveTasks(c *gin.Context) {
	var records []model.Record
	if err := c.ShouldBindJSON(&records); err != nil {
		fail(c, http.StatusBadRequest, "invalid request body: "+err.Error())
		return
	}

	res, err := s.dash.SaveRecords(c.Request.Context(), records)
	if err != nil {
		failErr(c, err)
		return
	}

	out := SaveResult{
		OK:       res.OK,
		Aborted:  res.Aborted,
		Written:  res.Succeeded(),
		Failed:   []RowFailure{},
		Outcomes: res.Outcomes,
	}
	for _, o := range res.Failures() {
		out.Failed = append(out.Failed, RowFailure{Index: o.Index, ID: o.ID, Error: o.Err.Error()})
	}

	message := "saved"
	switch {
	case len(records) == 0:
		message = "nothing to save"
	case !res.OK:
		message = "no rows were saved"
	case len(out.Failed) > 0:
		message = "saved with failures"
	}
	success(c, message, out)
}

func (s *Server) deleteTask(c *gin.Context) {
	if err := s.dash.Delete(c.Request.Context(), c.Param("id")); err != nil {
		failErr(c, err)
		return
	}
	success(c, "deleted", gin.H{"id": c.Param("id")})
}

func (s *Server) stats(c *gin.Context) {
	field := c.DefaultQuery("group", model.FieldStandard)
	f, ok := model.LookupField(field)
	if !ok {
		fail(c, http.StatusBadRequest, "unknown group field: "+field)
		return
	}
	st := s.dash.Stats(c.Request.Context(), f.Name)
	success(c, st.Message, st)
}

func (s *Server) options(c *gin.Context) {
	opts := Options{
		Columns:     model.Columns(),
		Statuses:    make([]Option, 0, len(model.Statuses)),
		Priorities:  make([]Option, 0, len(model.Priorities)),
		Standards:   []string{},
		Departments: []string{},
	}
	for _, st := range model.Statuses {
		opts.Statuses = append(opts.Statuses, Option{Name: string(st), Label: st.Label()})
	}
	for _, p := range model.Priorities {
		opts.Priorities = append(opts.Priorities, Option{Name: string(p), Label: p.Label()})
	}

	table, err := s.dash.Table(c.Request.Context())
	opts.Standards = distinct(table.Rows, model.FieldStandard)
	opts.Departments = distinct(table.Rows, model.FieldDepartment)
	message := ""
	if err != nil {
		message = err.Error()
	}
	success(c, message, opts)
}

// queryValues accepts both repeated parameters and comma separated lists.
func queryValues(c *gin.Context, key string) []string {
	var values []string
	for _, raw := range c.QueryArray(key) {
		for _, v := range strings.Split(raw, ",") {
			if v = strings.TrimSpace(v); v != "" {
				values = append(values, v)
			}
		}
	}
	return values
}

func distinct(tasks []model.Task, field string) []string {
	out := []string{}
	seen := map[string]bool{}
	for _, t := range tasks {
		v := t.Value(field)
		if v == "" || seen[v] {
			continue
		}
		seen[v] = true
		out = append(out, v)
	}
	return out
}
