package cmd

import (
	"encoding/json"
	"fmt"
	"io"
	"strings"

	"github.com/charmbracelet/lipgloss"
	"github.com/charmbracelet/lipgloss/table"
	"github.com/harrisonrobin/auditboard/pkg/aggregate"
	"github.com/harrisonrobin/auditboard/pkg/model"
	"github.com/harrisonrobin/auditboard/pkg/overdue"
)

var (
	headerStyle  = lipgloss.NewStyle().Bold(true).Padding(0, 1)
	cellStyle    = lipgloss.NewStyle().Padding(0, 1)
	missingStyle = cellStyle.Foreground(lipgloss.Color("9"))
	messageStyle = lipgloss.NewStyle().Foreground(lipgloss.Color("11"))
)

// listColumns are the columns printed by list; the full record is available
// with --json.
var listColumns = []string{
	model.FieldSerial,
	model.FieldStandard,
	model.FieldTitle,
	model.FieldDepartment,
	model.FieldDueDate,
	model.FieldPriority,
	model.FieldStatus,
	model.FieldID,
}

func writeJSON(w io.Writer, v any) error {
	enc := json.NewEncoder(w)
	enc.SetIndent("", "  ")
	return enc.Encode(v)
}

func writeMessage(w io.Writer, msg string) {
	if msg != "" {
		fmt.Fprintln(w, messageStyle.Render(msg))
	}
}

// renderTasks prints rows as a table, marking empty required cells.
func renderTasks(w io.Writer, rows []model.Task) {
	data := make([][]string, len(rows))
	for i, t := range rows {
		data[i] = make([]string, len(listColumns))
		for j, col := range listColumns {
			data[i][j] = displayValue(t, col)
		}
	}

	t := table.New().
		Border(lipgloss.NormalBorder()).
		Headers(listColumns...).
		Rows(data...).
		StyleFunc(func(row, col int) lipgloss.Style {
			if row == table.HeaderRow {
				return headerStyle
			}
			if row >= 0 && row < len(data) && data[row][col] == "" && listColumns[col] == model.FieldTitle {
				return missingStyle
			}
			return cellStyle
		})
	fmt.Fprintln(w, t.Render())
	fmt.Fprintf(w, "%d tasks\n", len(rows))
}

func renderStats(w io.Writer, field string, groups []aggregate.Group, totals aggregate.Totals, late []overdue.Entry) {
	data := make([][]string, 0, len(groups))
	for _, g := range groups {
		data = append(data, []string{g.Value, fmt.Sprint(g.Total), fmt.Sprint(g.Done), g.Completion})
	}
	t := table.New().
		Border(lipgloss.NormalBorder()).
		Headers(field, "total", "done", "completion").
		Rows(data...).
		StyleFunc(func(row, col int) lipgloss.Style {
			if row == table.HeaderRow {
				return headerStyle
			}
			return cellStyle
		})
	fmt.Fprintln(w, t.Render())

	summary := []string{
		fmt.Sprintf("total %d", totals.Total),
		fmt.Sprintf("done %d", totals.Done),
		fmt.Sprintf("in progress %d", totals.InProgress),
		fmt.Sprintf("stuck %d", totals.Stuck),
		fmt.Sprintf("not started %d", totals.NotStarted),
		fmt.Sprintf("open critical %d", totals.OpenCritical),
		fmt.Sprintf("completion %s", totals.Completion),
	}
	fmt.Fprintln(w, strings.Join(summary, " | "))

	for _, e := range late {
		fmt.Fprintf(w, "overdue %3dd  %s  %s\n", e.DaysLate, e.Task.Value(model.FieldDueDate), e.Task.Title)
	}
}

// displayValue shows enumerations by their stored label.
func displayValue(t model.Task, col string) string {
	switch col {
	case model.FieldPriority:
		if t.Priority == "" {
			return ""
		}
		return t.Priority.Label()
	case model.FieldStatus:
		if t.Status == "" {
			return ""
		}
		return t.Status.Label()
	}
	return t.Value(col)
}
