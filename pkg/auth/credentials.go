// Package auth resolves Google credentials for the Firestore and Sheets
// backends.
package auth

import (
	"context"
	"errors"
	"fmt"
	"os"
	"path/filepath"

	"github.com/harrisonrobin/auditboard/pkg/store"
	"golang.org/x/oauth2/google"
	"google.golang.org/api/option"
	"google.golang.org/api/sheets/v4"
)

const (
	// ServiceAccountKeyFile is the service account key looked up in the
	// working directory and then the config directory.
	ServiceAccountKeyFile = "serviceAccountKey.json"

	xdgAppName = "auditboard"
)

var (
	FirestoreScopes = []string{"https://www.googleapis.com/auth/datastore"}
	SheetsScopes    = []string{sheets.SpreadsheetsScope}
)

// Source says where service account credentials come from. JSON (an inline
// key, usually from a secret) wins over File.
type Source struct {
	JSON string
	File string
}

// Credentials resolves credentials from src, then the default key file
// locations, then Application Default Credentials. Failures are connection
// errors: without credentials the store cannot be reached.
func Credentials(ctx context.Context, src Source, scopes ...string) (*google.Credentials, error) {
	if src.JSON != "" {
		creds, err := google.CredentialsFromJSON(ctx, []byte(src.JSON), scopes...)
		if err != nil {
			return nil, &store.ConnectionError{Op: "credentials", Err: fmt.Errorf("parse inline key: %w", err)}
		}
		return creds, nil
	}

	path, err := keyFile(src.File)
	if err != nil {
		return nil, &store.ConnectionError{Op: "credentials", Err: err}
	}
	if path != "" {
		b, err := os.ReadFile(path)
		if err != nil {
			return nil, &store.ConnectionError{Op: "credentials", Err: fmt.Errorf("read key file %s: %w", path, err)}
		}
		creds, err := google.CredentialsFromJSON(ctx, b, scopes...)
		if err != nil {
			return nil, &store.ConnectionError{Op: "credentials", Err: fmt.Errorf("parse key file %s: %w", path, err)}
		}
		return creds, nil
	}

	creds, err := google.FindDefaultCredentials(ctx, scopes...)
	if err != nil {
		return nil, &store.ConnectionError{Op: "credentials", Err: err}
	}
	return creds, nil
}

// ClientOptions returns the client options for src along with the project id
// embedded in the credentials, if any.
func ClientOptions(ctx context.Context, src Source, scopes ...string) ([]option.ClientOption, string, error) {
	creds, err := Credentials(ctx, src, scopes...)
	if err != nil {
		return nil, "", err
	}
	return []option.ClientOption{option.WithCredentials(creds)}, creds.ProjectID, nil
}

// keyFile picks the explicit file, or the first default location that
// exists. An explicit file that does not exist is an error; a missing default
// is not.
func keyFile(explicit string) (string, error) {
	if explicit != "" {
		if _, err := os.Stat(explicit); err != nil {
			return "", fmt.Errorf("key file %s: %w", explicit, err)
		}
		return explicit, nil
	}
	candidates := []string{ServiceAccountKeyFile}
	if dir, err := GetXdgHome(); err == nil {
		candidates = append(candidates, filepath.Join(dir, ServiceAccountKeyFile))
	}
	for _, c := range candidates {
		if _, err := os.Stat(c); err == nil {
			return c, nil
		} else if !errors.Is(err, os.ErrNotExist) {
			return "", err
		}
	}
	return "", nil
}

// GetXdgHome returns the application's config directory.
func GetXdgHome() (string, error) {
	home, err := os.UserHomeDir()
	if err != nil {
		return "", err
	}
	return filepath.Join(home, ".config", xdgAppName), nil
}
