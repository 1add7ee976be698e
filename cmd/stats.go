package cmd

import (
	"fmt"

	"github.com/harrisonrobin/auditboard/pkg/model"
	"github.com/spf13/cobra"
)

var statsCmd = &cobra.Command{
	Use:   "stats",
	Short: "Print completion statistics",
	RunE: func(cmd *cobra.Command, args []string) error {
		group, _ := cmd.Flags().GetString("group")
		f, ok := model.LookupField(group)
		if !ok {
			return fmt.Errorf("unknown group field %q", group)
		}

		d, err := current.Dashboard(cmd.Context())
		if err != nil {
			return fmt.Errorf("failed to open %s backend: %w", current.cfg.Backend, err)
		}
		st := d.Stats(cmd.Context(), f.Name)

		out := cmd.OutOrStdout()
		if asJSON, _ := cmd.Flags().GetBool("json"); asJSON {
			return writeJSON(out, st)
		}
		writeMessage(cmd.ErrOrStderr(), st.Message)
		renderStats(out, f.Name, st.Groups, st.Totals, st.Overdue)
		return nil
	},
}

func init() {
	statsCmd.Flags().String("group", model.FieldStandard, "field to group by")
	statsCmd.Flags().Bool("json", false, "print the statistics as JSON")
	rootCmd.AddCommand(statsCmd)
}
