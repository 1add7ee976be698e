package cmd

import (
	"context"
	"errors"
	"fmt"
	"path/filepath"
	"sync"

	"github.com/harrisonrobin/auditboard/pkg/auth"
	"github.com/harrisonrobin/auditboard/pkg/config"
	"github.com/harrisonrobin/auditboard/pkg/dashboard"
	"github.com/harrisonrobin/auditboard/pkg/reconcile"
	"github.com/harrisonrobin/auditboard/pkg/sheet"
	"github.com/harrisonrobin/auditboard/pkg/sheet/gsheets"
	"github.com/harrisonrobin/auditboard/pkg/sheet/xlsx"
	"github.com/harrisonrobin/auditboard/pkg/store"
	"github.com/harrisonrobin/auditboard/pkg/store/firestore"
	"github.com/harrisonrobin/auditboard/pkg/store/memory"
	"github.com/sirupsen/logrus"
	"google.golang.org/api/option"
)

// memorySnapshot is the default snapshot file of the memory backend, inside
// the config directory.
const memorySnapshot = "tasks.json"

// app holds what one CLI invocation shares: the config, the logger and the
// lazily opened backend.
type app struct {
	cfg *config.Config
	log *logrus.Logger

	once    sync.Once
	dash    *dashboard.Dashboard
	err     error
	closers []func() error
}

func newApp(cfg *config.Config, log *logrus.Logger) *app {
	return &app{cfg: cfg, log: log}
}

// Dashboard opens the configured backend on first use. A backend that
// cannot be reached still yields a dashboard: its loads report the
// connection error over an empty table. Other open errors are returned.
func (a *app) Dashboard(ctx context.Context) (*dashboard.Dashboard, error) {
	a.once.Do(func() {
		b, err := a.backend(ctx)
		switch {
		case err == nil:
			a.dash = dashboard.New(b, a.log)
		case store.IsConnection(err):
			a.log.WithError(err).WithField("backend", a.cfg.Backend).Error("task store unavailable")
			a.dash = dashboard.New(dashboard.Unavailable(err), a.log)
		default:
			a.err = err
		}
	})
	return a.dash, a.err
}

func (a *app) backend(ctx context.Context) (dashboard.Backend, error) {
	switch a.cfg.Backend {
	case config.BackendXLSX, config.BackendGSheets:
		s, err := a.openSheet(ctx, a.cfg.Backend, a.cfg.XLSX, a.cfg.GSheets)
		if err != nil {
			return nil, err
		}
		return dashboard.NewSheetBackend(s), nil
	default:
		st, err := a.openStore(ctx, a.cfg.Backend)
		if err != nil {
			return nil, err
		}
		return dashboard.NewDocumentBackend(st, reconcile.New(st, reconcile.ContinueOnError, a.log)), nil
	}
}

// openStore opens a document store backend and registers it for Close.
func (a *app) openStore(ctx context.Context, backend string) (store.DocumentStore, error) {
	var (
		st  store.DocumentStore
		err error
	)
	switch backend {
	case config.BackendMemory:
		st, err = a.openMemory()
	case config.BackendFirestore:
		st, err = a.openFirestore(ctx)
	default:
		return nil, fmt.Errorf("%s is not a document store backend", backend)
	}
	if err != nil {
		return nil, err
	}
	a.closers = append(a.closers, st.Close)
	return st, nil
}

func (a *app) openMemory() (store.DocumentStore, error) {
	path := a.cfg.Memory.Path
	if path == "" {
		dir, err := auth.GetXdgHome()
		if err != nil {
			return nil, err
		}
		path = filepath.Join(dir, memorySnapshot)
	}
	a.log.WithField("path", path).Debug("opening memory store")
	return memory.Open(path)
}

func (a *app) openFirestore(ctx context.Context) (store.DocumentStore, error) {
	src := auth.Source{JSON: a.cfg.Credentials.JSON, File: a.cfg.Credentials.File}
	opts, projectID, err := auth.ClientOptions(ctx, src, auth.FirestoreScopes...)
	if err != nil {
		return nil, err
	}
	if a.cfg.Firestore.ProjectID != "" {
		projectID = a.cfg.Firestore.ProjectID
	}
	a.log.WithFields(logrus.Fields{
		"project":    projectID,
		"collection": a.cfg.Firestore.Collection,
	}).Debug("opening firestore")
	return firestore.New(ctx, projectID, a.cfg.Firestore.Collection, opts...)
}

func (a *app) openSheet(ctx context.Context, backend string, x config.XLSXConfig, g config.GSheetsConfig) (sheet.Backend, error) {
	switch backend {
	case config.BackendXLSX:
		if x.Path == "" {
			return nil, errors.New("xlsx path is required")
		}
		return xlsx.New(x.Path, x.Sheet), nil
	case config.BackendGSheets:
		opts, err := a.sheetsOptions(ctx, g.Auth)
		if err != nil {
			return nil, err
		}
		return gsheets.New(ctx, g.SpreadsheetID, g.Range, opts...)
	}
	return nil, fmt.Errorf("%s is not a spreadsheet backend", backend)
}

func (a *app) sheetsOptions(ctx context.Context, mode string) ([]option.ClientOption, error) {
	if mode == "user" {
		ts, err := auth.UserTokenSource(ctx, auth.SheetsScopes)
		if err != nil {
			return nil, &store.ConnectionError{Op: "credentials", Err: err}
		}
		return []option.ClientOption{option.WithTokenSource(ts)}, nil
	}
	src := auth.Source{JSON: a.cfg.Credentials.JSON, File: a.cfg.Credentials.File}
	opts, _, err := auth.ClientOptions(ctx, src, auth.SheetsScopes...)
	return opts, err
}

// Close releases every backend opened during the invocation.
func (a *app) Close() error {
	var errs []error
	for _, c := range a.closers {
		if err := c(); err != nil {
			errs = append(errs, err)
		}
	}
	return errors.Join(errs...)
}
