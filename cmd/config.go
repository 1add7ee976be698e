package cmd

import (
	"fmt"

	"github.com/harrisonrobin/auditboard/pkg/config"
	"github.com/spf13/cobra"
)

var configCmd = &cobra.Command{
	Use:   "config",
	Short: "Manage the config file",
}

var configSetCmd = &cobra.Command{
	Use:     "set <key> <value>",
	Short:   "Set one config key",
	Example: "  auditboard config set backend xlsx\n  auditboard config set xlsx.path ~/audit/tasks.xlsx",
	Args:    cobra.ExactArgs(2),
	RunE: func(cmd *cobra.Command, args []string) error {
		if err := config.Set(cfgPath, args[0], args[1]); err != nil {
			return fmt.Errorf("error saving config: %w", err)
		}
		fmt.Fprintf(cmd.OutOrStdout(), "%s set to: %s\n", args[0], args[1])
		return nil
	},
}

func init() {
	configCmd.AddCommand(configSetCmd)
	rootCmd.AddCommand(configCmd)
}
