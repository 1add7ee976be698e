package auth

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"net"
	"net/http"
	"net/url"
	"os"
	"path/filepath"
	"time"

	"github.com/sirupsen/logrus"
	"golang.org/x/oauth2"
	"golang.org/x/oauth2/google"
)

const (
	// ClientSecretsFile is the OAuth desktop client downloaded from the Google
	// Cloud console, read from the config directory.
	ClientSecretsFile = "credentials.json"

	// TokenFile caches the user's access and refresh token.
	TokenFile = "token.json"

	// LocalhostAuthPort receives the OAuth redirect during Login.
	LocalhostAuthPort = "6789"
)

// UserConfig builds the OAuth client config from ClientSecretsFile, forcing
// the redirect onto the local callback port.
func UserConfig(scopes []string) (*oauth2.Config, error) {
	dir, err := GetXdgHome()
	if err != nil {
		return nil, err
	}
	path := filepath.Join(dir, ClientSecretsFile)
	b, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("unable to read client secret file %s: %w", path, err)
	}
	config, err := google.ConfigFromJSON(b, scopes...)
	if err != nil {
		return nil, fmt.Errorf("unable to parse client secret file to config: %w", err)
	}

	redirect := &url.URL{Scheme: "http", Host: "localhost:" + LocalhostAuthPort, Path: "/oauth2callback"}
	if parsed, err := url.Parse(config.RedirectURL); err == nil && parsed.Path != "" && parsed.Hostname() == "localhost" {
		redirect.Path = parsed.Path
	}
	config.RedirectURL = redirect.String()
	return config, nil
}

// UserTokenSource returns a refreshing token source for the cached user
// token. It fails when Login has not been run.
func UserTokenSource(ctx context.Context, scopes []string) (oauth2.TokenSource, error) {
	config, err := UserConfig(scopes)
	if err != nil {
		return nil, err
	}
	dir, err := GetXdgHome()
	if err != nil {
		return nil, err
	}
	tok, err := tokenFromFile(filepath.Join(dir, TokenFile))
	if err != nil {
		return nil, fmt.Errorf("no cached user token, run login first: %w", err)
	}
	return config.TokenSource(ctx, tok), nil
}

// Login runs the authorization code flow through a local callback server and
// caches the resulting token. Any existing token is replaced.
func Login(ctx context.Context, scopes []string, log logrus.FieldLogger) error {
	config, err := UserConfig(scopes)
	if err != nil {
		return err
	}
	dir, err := GetXdgHome()
	if err != nil {
		return err
	}

	tok, err := tokenFromWeb(ctx, config, log)
	if err != nil {
		return fmt.Errorf("failed to get token from web: %w", err)
	}
	path := filepath.Join(dir, TokenFile)
	if err := saveToken(path, tok); err != nil {
		return err
	}
	log.WithField("path", path).Info("token saved")
	return nil
}

func tokenFromWeb(ctx context.Context, config *oauth2.Config, log logrus.FieldLogger) (*oauth2.Token, error) {
	codeCh := make(chan string, 1)
	errCh := make(chan error, 1)

	listener, err := net.Listen("tcp", "localhost:"+LocalhostAuthPort)
	if err != nil {
		return nil, fmt.Errorf("failed to start listener on port %s: %w", LocalhostAuthPort, err)
	}
	defer listener.Close()

	server := &http.Server{
		Handler: http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			code := r.URL.Query().Get("code")
			if code == "" {
				http.Error(w, "Authorization code not found", http.StatusBadRequest)
				errCh <- errors.New("authorization code not found in redirect URL")
				return
			}
			fmt.Fprintf(w, "Authentication successful! You can close this window.")
			codeCh <- code
		}),
		ReadTimeout:  10 * time.Second,
		WriteTimeout: 10 * time.Second,
	}
	go func() {
		if err := server.Serve(listener); err != nil && !errors.Is(err, http.ErrServerClosed) {
			errCh <- fmt.Errorf("HTTP server error: %w", err)
		}
	}()
	defer server.Shutdown(context.Background())

	authURL := config.AuthCodeURL("state-token", oauth2.AccessTypeOffline, oauth2.SetAuthURLParam("prompt", "consent"))
	fmt.Printf("Open the following URL in your browser to authorize auditboard:\n%s\n", authURL)
	log.Info("waiting for authorization code")

	select {
	case code := <-codeCh:
		exchangeCtx, cancel := context.WithTimeout(ctx, 30*time.Second)
		defer cancel()
		tok, err := config.Exchange(exchangeCtx, code)
		if err != nil {
			return nil, fmt.Errorf("unable to retrieve token from Google: %w", err)
		}
		return tok, nil
	case err := <-errCh:
		return nil, err
	case <-ctx.Done():
		return nil, ctx.Err()
	case <-time.After(5 * time.Minute):
		return nil, errors.New("authorization timed out, please try again")
	}
}

func tokenFromFile(file string) (*oauth2.Token, error) {
	f, err := os.Open(file)
	if err != nil {
		return nil, err
	}
	defer f.Close()
	tok := &oauth2.Token{}
	if err := json.NewDecoder(f).Decode(tok); err != nil {
		return nil, fmt.Errorf("failed to decode token from file %s: %w", file, err)
	}
	return tok, nil
}

func saveToken(path string, token *oauth2.Token) error {
	if err := os.MkdirAll(filepath.Dir(path), 0700); err != nil {
		return fmt.Errorf("could not create token directory: %w", err)
	}
	f, err := os.OpenFile(path, os.O_RDWR|os.O_CREATE|os.O_TRUNC, 0600)
	if err != nil {
		return fmt.Errorf("unable to cache OAuth token to %s: %w", path, err)
	}
	defer f.Close()
	return json.NewEncoder(f).Encode(token)
}
