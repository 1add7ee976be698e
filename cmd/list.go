package cmd

import (
	"fmt"

	"github.com/harrisonrobin/auditboard/pkg/dashboard"
	"github.com/harrisonrobin/auditboard/pkg/filter"
	"github.com/harrisonrobin/auditboard/pkg/model"
	"github.com/spf13/cobra"
)

var listCmd = &cobra.Command{
	Use:   "list",
	Short: "Print the filtered task table",
	Long: `Print the task table. Filters on the same field are alternatives,
filters on different fields must all match. Status filters match by
containment, so --status DONE and --status "בוצע" select the same rows.`,
	RunE: func(cmd *cobra.Command, args []string) error {
		d, err := current.Dashboard(cmd.Context())
		if err != nil {
			return fmt.Errorf("failed to open %s backend: %w", current.cfg.Backend, err)
		}

		q := dashboard.Query{}
		q.SortByPriority, _ = cmd.Flags().GetBool("sort-priority")
		if late, _ := cmd.Flags().GetBool("overdue"); late {
			today := d.Today()
			q.OverdueAsOf = &today
		}
		for _, field := range []string{model.FieldStatus, model.FieldPriority, model.FieldStandard, model.FieldDepartment} {
			values, _ := cmd.Flags().GetStringSlice(field)
			if len(values) > 0 {
				q.Criteria = append(q.Criteria, filter.Criterion{Field: field, Values: values})
			}
		}

		view := d.Load(cmd.Context(), q)
		out := cmd.OutOrStdout()
		if asJSON, _ := cmd.Flags().GetBool("json"); asJSON {
			return writeJSON(out, view)
		}
		writeMessage(cmd.ErrOrStderr(), view.Message)
		renderTasks(out, view.Table.Rows)
		if len(view.Gaps) > 0 {
			fmt.Fprintf(out, "%d tasks have missing required fields\n", len(view.Gaps))
		}
		return nil
	},
}

func init() {
	listCmd.Flags().StringSlice(model.FieldStatus, nil, "status filter (name or label)")
	listCmd.Flags().StringSlice(model.FieldPriority, nil, "priority filter (name or label)")
	listCmd.Flags().StringSlice(model.FieldStandard, nil, "standard filter")
	listCmd.Flags().StringSlice(model.FieldDepartment, nil, "department filter")
	listCmd.Flags().Bool("sort-priority", false, "sort CRITICAL first")
	listCmd.Flags().Bool("overdue", false, "only open tasks past their due date")
	listCmd.Flags().Bool("json", false, "print the view as JSON")
	rootCmd.AddCommand(listCmd)
}
