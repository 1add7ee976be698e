package cmd

import (
	"errors"
	"fmt"
	"os"
	"path/filepath"

	"github.com/harrisonrobin/auditboard/pkg/auth"
	"github.com/spf13/cobra"
)

var loginCmd = &cobra.Command{
	Use:   "login",
	Short: "Authorize Google Sheets access as yourself",
	Long: `Run the OAuth flow for the gsheets backend with gsheets.auth set to
"user". The OAuth client is read from credentials.json in the config
directory; the token is cached next to it. An existing token is replaced.`,
	RunE: func(cmd *cobra.Command, args []string) error {
		dir, err := auth.GetXdgHome()
		if err != nil {
			return fmt.Errorf("could not find path to configuration file: %w", err)
		}

		tokenFile := filepath.Join(dir, auth.TokenFile)
		if _, err := os.Stat(tokenFile); err == nil {
			current.log.WithField("path", tokenFile).Info("removing existing token file")
			if err := os.Remove(tokenFile); err != nil {
				return fmt.Errorf("could not delete token file %s, please delete it manually: %w", tokenFile, err)
			}
		} else if !errors.Is(err, os.ErrNotExist) {
			current.log.WithError(err).Warnf("could not check token file %s", tokenFile)
		}

		if err := auth.Login(cmd.Context(), auth.SheetsScopes, current.log); err != nil {
			return fmt.Errorf("authentication failed: %w", err)
		}
		fmt.Fprintln(cmd.OutOrStdout(), "Authentication successful!")
		return nil
	},
}

func init() {
	rootCmd.AddCommand(loginCmd)
}
