package main

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"os"
	"os/signal"
	"path/filepath"
	"sort"
	"syscall"

	theme "github.com/goliatone/go-theme"
	"github.com/spf13/cobra"
	"go.uber.org/zap"
	"golang.org/x/sync/errgroup"

	"github.com/goliatone/go-formbuilder/internal/config"
	"github.com/goliatone/go-formbuilder/internal/metrics"
	"github.com/goliatone/go-formbuilder/internal/server"
	"github.com/goliatone/go-formbuilder/pkg/catalog"
	"github.com/goliatone/go-formbuilder/pkg/themes"
)

func serveCmd(a *app) *cobra.Command {
	cmd := &cobra.Command{
		Use:   "serve",
		Short: "Serve the builder over HTTP",
		RunE: func(cmd *cobra.Command, _ []string) error {
			ctx, stop := signal.NotifyContext(cmd.Context(), os.Interrupt, syscall.SIGTERM)
			defer stop()
			return runServe(ctx, a.cfg, a.logger)
		},
	}
	flags := cmd.Flags()
	flags.String("addr", ":8080", "Listen address")
	flags.String("title", "", "Heading rendered above the drop zone")
	flags.String("catalog", "", "Catalog YAML file (built-in palette when empty)")
	flags.Bool("watch-catalog", false, "Reload the catalog file when it changes")
	flags.String("theme", "", "Default theme name")
	flags.String("variant", "", "Default theme variant")
	flags.String("theme-dir", "", "Directory with theme manifests, templates and assets")
	shutdownTimeoutFlag(cmd)
	return cmd
}

func runServe(ctx context.Context, cfg config.Config, logger *zap.Logger) error {
	source, watcher, err := openCatalog(cfg, logger)
	if err != nil {
		return err
	}

	selector, err := openThemes(cfg.ThemeDir)
	if err != nil {
		return err
	}

	m := metrics.New()
	srv, err := server.New(
		server.WithCatalog(source),
		server.WithTitle(cfg.Title),
		server.WithThemeSelector(selector, cfg.Theme, cfg.Variant),
		server.WithThemeDir(cfg.ThemeDir),
		server.WithAssetsPrefix(cfg.AssetsPrefix),
		server.WithSessionTTL(cfg.SessionTTL),
		server.WithMetrics(m),
		server.WithLogger(logger),
	)
	if err != nil {
		return err
	}

	httpServer := &http.Server{
		Addr:    cfg.Addr,
		Handler: srv.Handler(),
	}

	g, gctx := errgroup.WithContext(ctx)
	g.Go(func() error {
		logger.Info("listening", zap.String("addr", cfg.Addr))
		if err := httpServer.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			return fmt.Errorf("listen: %w", err)
		}
		return nil
	})
	g.Go(func() error {
		<-gctx.Done()
		shutdownCtx, cancel := context.WithTimeout(context.Background(), cfg.ShutdownTimeout)
		defer cancel()
		if err := httpServer.Shutdown(shutdownCtx); err != nil {
			return fmt.Errorf("shutdown: %w", err)
		}
		logger.Info("server stopped")
		return nil
	})
	g.Go(func() error {
		return srv.Run(gctx)
	})
	if watcher != nil {
		g.Go(func() error {
			return watcher.Run(gctx)
		})
	}
	return g.Wait()
}

// openCatalog returns the palette source. A watcher is returned only when the
// catalog file should be reloaded on change; its Run loop is the caller's.
func openCatalog(cfg config.Config, logger *zap.Logger) (catalog.Source, *catalog.Watcher, error) {
	if cfg.Catalog == "" {
		return catalog.Default(), nil, nil
	}
	if !cfg.WatchCatalog {
		c, err := catalog.LoadFile(cfg.Catalog)
		if err != nil {
			return nil, nil, err
		}
		return c, nil, nil
	}
	watcher, err := catalog.NewWatcher(cfg.Catalog, catalog.WithLogger(logger))
	if err != nil {
		return nil, nil, err
	}
	return watcher, watcher, nil
}

// openThemes registers the built-in theme plus every *.yaml manifest in dir.
func openThemes(dir string) (*themes.Selector, error) {
	manifests := []*theme.Manifest{themes.Default()}
	if dir != "" {
		paths, err := filepath.Glob(filepath.Join(dir, "*.yaml"))
		if err != nil {
			return nil, fmt.Errorf("themes: %w", err)
		}
		sort.Strings(paths)
		for _, path := range paths {
			manifest, err := themes.LoadManifestFile(path)
			if err != nil {
				return nil, err
			}
			manifests = append(manifests, manifest)
		}
	}
	return themes.NewSelector(themes.DefaultTheme, "", manifests...)
}
