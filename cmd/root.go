package cmd

import (
	"fmt"
	"os"

	"github.com/harrisonrobin/auditboard/pkg/config"
	"github.com/harrisonrobin/auditboard/pkg/logging"
	"github.com/spf13/cobra"
)

var (
	cfgPath     string
	backendFlag string
	logLevel    string

	current *app
)

var rootCmd = &cobra.Command{
	Use:   "auditboard",
	Short: "Audit preparation task dashboard",
	Long: `auditboard keeps the audit preparation task table in sync with its
store: a Firestore collection, an Excel workbook or a Google Sheet.
It serves the dashboard API, prints filtered views and completion
statistics, and migrates a spreadsheet into Firestore.`,
	SilenceUsage: true,
	PersistentPreRunE: func(cmd *cobra.Command, args []string) error {
		current = nil
		if cmd.Name() == "set" {
			return nil
		}
		cfg, err := config.Load(cfgPath)
		if err != nil {
			return fmt.Errorf("failed to load config: %w", err)
		}
		if backendFlag != "" {
			cfg.Backend = backendFlag
			if err := cfg.Validate(); err != nil {
				return err
			}
		}
		if logLevel != "" {
			cfg.Log.Level = logLevel
		}
		current = newApp(cfg, logging.New(cfg.Log, os.Stderr))
		return nil
	},
	PersistentPostRunE: func(cmd *cobra.Command, args []string) error {
		return closeApp()
	},
}

// Execute runs the root command. It is called once by main.
func Execute() {
	err := rootCmd.Execute()
	// Post-run hooks are skipped when a command fails.
	if cerr := closeApp(); cerr != nil {
		fmt.Fprintln(os.Stderr, cerr)
	}
	if err != nil {
		os.Exit(1)
	}
}

func closeApp() error {
	if current == nil {
		return nil
	}
	err := current.Close()
	current = nil
	return err
}

func init() {
	rootCmd.PersistentFlags().StringVar(&cfgPath, "config", "", "config file (default $HOME/.config/auditboard/config.yaml)")
	rootCmd.PersistentFlags().StringVar(&backendFlag, "backend", "", "task store: firestore, xlsx, gsheets or memory (overrides config)")
	rootCmd.PersistentFlags().StringVar(&logLevel, "log-level", "", "log level (overrides config)")
}
