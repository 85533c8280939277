package main

import (
	"context"
	"errors"
	"fmt"
	"io"
	"log/slog"
	"path/filepath"

	"github.com/spf13/cobra"
	"github.com/ukaji3/xlview-go/internal/config"
	"github.com/ukaji3/xlview-go/internal/logging"
	"github.com/ukaji3/xlview-go/pkg/xlview/catalog"
	"github.com/ukaji3/xlview-go/pkg/xlview/registry"
	"github.com/ukaji3/xlview-go/pkg/xlview/viewer"
)

// app is the wiring shared by every command.
type app struct {
	cfg      *config.Config
	logger   *slog.Logger
	registry *registry.Registry
	catalog  *catalog.Catalog
	closers  []func() error
}

// sqliteFileName is the database used by the sqlite settings backend.
const sqliteFileName = "settings.db"

// newApp loads configuration and opens the settings store. Interactive
// sessions log to a file so the terminal stays clean.
func newApp(cmd *cobra.Command, interactive bool) (*app, error) {
	cfgFile, _ := cmd.Flags().GetString("config")
	cfg, err := config.Load(cfgFile, cmd.Flags())
	if err != nil {
		return nil, err
	}

	a := &app{cfg: cfg}
	if err := a.initLogger(cmd.ErrOrStderr(), interactive); err != nil {
		return nil, err
	}

	store, err := a.openStore(cmd.Context())
	if err != nil {
		a.close()
		return nil, err
	}

	a.registry = registry.New(cmd.Context(), store, a.logger)
	a.catalog = catalog.New(catalog.OSFileSystem{}, catalog.Options{
		Locale:     cfg.Catalog.Locale,
		Extensions: cfg.Catalog.Extensions,
	}, a.logger)
	a.logger.Debug("configuration loaded", "file", cfg.File, "backend", cfg.Settings.Backend)
	return a, nil
}

func (a *app) initLogger(stderr io.Writer, interactive bool) error {
	level, err := a.cfg.LogLevel()
	if err != nil {
		return err
	}

	w := stderr
	if interactive || a.cfg.Log.File != "" {
		f, err := logging.OpenFile(a.cfg.LogFile())
		if err != nil {
			return err
		}
		a.closers = append(a.closers, f.Close)
		w = f
	}

	a.logger, err = logging.New(w, level, a.cfg.Log.Format)
	return err
}

func (a *app) openStore(ctx context.Context) (registry.Store, error) {
	switch a.cfg.Settings.Backend {
	case config.BackendMemory:
		return registry.NewMemoryStore(), nil
	case config.BackendSQLite:
		store, err := registry.OpenSQLiteStore(ctx, filepath.Join(a.cfg.Settings.Dir, sqliteFileName))
		if err != nil {
			return nil, err
		}
		a.closers = append(a.closers, store.Close)
		return store, nil
	default:
		return registry.NewFileStore(a.cfg.Settings.Dir), nil
	}
}

type openerKey struct{}

// openerFromContext returns the opener stored in the command context, or the
// system opener.
func openerFromContext(cmd *cobra.Command) viewer.Opener {
	if o, ok := cmd.Context().Value(openerKey{}).(viewer.Opener); ok {
		return o
	}
	return viewer.SystemOpener{}
}

// newViewer builds a viewing session over the app's registry and catalog.
func (a *app) newViewer(opener viewer.Opener) *viewer.Viewer {
	v := viewer.New(viewer.Config{
		Registry:      a.registry,
		Catalog:       a.catalog,
		FS:            catalog.OSFileSystem{},
		Opener:        opener,
		DecodeOptions: a.cfg.DecodeOptions(),
		Logger:        a.logger,
	})
	a.closers = append(a.closers, func() error {
		v.Close()
		return nil
	})
	return v
}

func (a *app) close() error {
	var errs []error
	for i := len(a.closers) - 1; i >= 0; i-- {
		if err := a.closers[i](); err != nil {
			errs = append(errs, err)
		}
	}
	a.closers = nil
	if err := errors.Join(errs...); err != nil {
		return fmt.Errorf("failed to close: %w", err)
	}
	return nil
}
