package cmd

import (
	"errors"
	"fmt"

	"github.com/harrisonrobin/auditboard/pkg/config"
	"github.com/harrisonrobin/auditboard/pkg/migrate"
	"github.com/harrisonrobin/auditboard/pkg/model"
	"github.com/spf13/cobra"
)

var migrateCmd = &cobra.Command{
	Use:   "migrate",
	Short: "Upload a spreadsheet into the document store",
	Long: `Upload every row of an Excel workbook or Google Sheet as a new
document. Each document records its source row and upload time. The
upload stops at the first row that fails and reports it.`,
	Example: "  auditboard migrate --xlsx tasks.xlsx\n  auditboard migrate --spreadsheet-id 1AbC... --to memory",
	RunE: func(cmd *cobra.Command, args []string) error {
		ctx := cmd.Context()
		flags := cmd.Flags()

		x := current.cfg.XLSX
		g := current.cfg.GSheets
		if v, _ := flags.GetString("xlsx"); v != "" {
			x.Path = v
		}
		if v, _ := flags.GetString("sheet"); v != "" {
			x.Sheet = v
		}
		if v, _ := flags.GetString("spreadsheet-id"); v != "" {
			g.SpreadsheetID = v
		}
		if v, _ := flags.GetString("range"); v != "" {
			g.Range = v
		}

		var source string
		switch {
		case x.Path != "":
			source = config.BackendXLSX
		case g.SpreadsheetID != "":
			source = config.BackendGSheets
		default:
			return errors.New("no source spreadsheet: pass --xlsx or --spreadsheet-id")
		}

		to, _ := flags.GetString("to")
		if to == "" {
			to = config.BackendFirestore
			if current.cfg.Backend == config.BackendMemory {
				to = config.BackendMemory
			}
		}

		src, err := current.openSheet(ctx, source, x, g)
		if err != nil {
			return fmt.Errorf("failed to open %s source: %w", source, err)
		}
		dst, err := current.openStore(ctx, to)
		if err != nil {
			return fmt.Errorf("failed to open %s store: %w", to, err)
		}

		report, err := migrate.Run(ctx, src, dst, current.log)
		if err != nil {
			return err
		}

		out := cmd.OutOrStdout()
		fmt.Fprintf(out, "uploaded %d/%d rows\n", report.Uploaded, report.Total)
		if report.Failed != nil {
			return fmt.Errorf("migration stopped at sheet row %v: %w", report.FailedRecord[model.KeySourceRow], report.Failed.Err)
		}
		if !report.OK() {
			return errors.New("nothing was uploaded")
		}
		return nil
	},
}

func init() {
	migrateCmd.Flags().String("xlsx", "", "source Excel workbook")
	migrateCmd.Flags().String("sheet", "", "worksheet in the workbook (default: first)")
	migrateCmd.Flags().String("spreadsheet-id", "", "source Google Sheet id")
	migrateCmd.Flags().String("range", "", "range in the Google Sheet")
	migrateCmd.Flags().String("to", "", "destination store: firestore or memory")
	rootCmd.AddCommand(migrateCmd)
}
