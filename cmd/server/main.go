package main

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/spf13/cobra"

	"github.com/flinthills/movequote/internal/app"
	"github.com/flinthills/movequote/internal/auth"
	"github.com/flinthills/movequote/internal/catalog"
	"github.com/flinthills/movequote/internal/config"
	"github.com/flinthills/movequote/internal/logging"
	"github.com/flinthills/movequote/internal/migrations"
	"github.com/flinthills/movequote/internal/seed"
)

const (
	sessionTTL      = 12 * time.Hour
	shutdownTimeout = 10 * time.Second
)

func main() {
	if err := newRootCmd().ExecuteContext(context.Background()); err != nil {
		logging.Fatal("command failed", "err", err)
	}
}

func newRootCmd() *cobra.Command {
	var cfg config.Config

	root := &cobra.Command{
		Use:           "movequote",
		Short:         "Moving and packing quote tool",
		SilenceUsage:  true,
		SilenceErrors: true,
		PersistentPreRunE: func(cmd *cobra.Command, args []string) error {
			loaded, err := config.Load()
			if err != nil {
				return err
			}
			cfg = loaded
			logging.Setup(cfg.LogLevel)
			return nil
		},
	}

	root.AddCommand(
		&cobra.Command{
			Use:   "serve",
			Short: "Serve the JSON API used by the quoting front end",
			RunE: func(cmd *cobra.Command, args []string) error {
				return runServe(cmd.Context(), cfg)
			},
		},
		&cobra.Command{
			Use:   "sync",
			Short: "Copy the authoritative catalog into the local cache",
			RunE: func(cmd *cobra.Command, args []string) error {
				return runSync(cmd.Context(), cfg)
			},
		},
		&cobra.Command{
			Use:   "migrate",
			Short: "Apply migrations to the authoritative store",
			RunE: func(cmd *cobra.Command, args []string) error {
				return runMigrate(cmd.Context(), cfg)
			},
		},
		newSeedCmd(&cfg),
	)
	return root
}

func newSeedCmd(cfg *config.Config) *cobra.Command {
	var dir string
	cmd := &cobra.Command{
		Use:   "seed",
		Short: "Insert missing catalog rows from JSON fixtures",
		RunE: func(cmd *cobra.Command, args []string) error {
			if dir == "" {
				dir = cfg.SeedDir
			}
			return runSeed(cmd.Context(), *cfg, dir)
		},
	}
	cmd.Flags().StringVar(&dir, "dir", "", "fixture directory (default SEED_DIR)")
	return cmd
}

func runServe(ctx context.Context, cfg config.Config) error {
	ctx, stop := signal.NotifyContext(ctx, os.Interrupt, syscall.SIGTERM)
	defer stop()

	session, err := app.Open(ctx, cfg)
	if err != nil {
		return fmt.Errorf("open session: %w", err)
	}
	defer session.Close()

	srv, err := newServer(ctx, session, auth.NewSessions(cfg.SessionSecret, sessionTTL))
	if err != nil {
		return err
	}

	httpSrv := &http.Server{
		Addr:              ":" + cfg.Port,
		Handler:           srv.routes(),
		ReadHeaderTimeout: 10 * time.Second,
	}

	errCh := make(chan error, 1)
	go func() {
		slog.Info("listening", "addr", httpSrv.Addr, "online", session.Online())
		errCh <- httpSrv.ListenAndServe()
	}()

	select {
	case err := <-errCh:
		if !errors.Is(err, http.ErrServerClosed) {
			return fmt.Errorf("server stopped: %w", err)
		}
	case <-ctx.Done():
		shutdownCtx, cancel := context.WithTimeout(context.Background(), shutdownTimeout)
		defer cancel()
		if err := httpSrv.Shutdown(shutdownCtx); err != nil {
			slog.Error("shutdown", "err", err)
		}
	}

	return srv.saveSelection(context.Background())
}

func runSync(ctx context.Context, cfg config.Config) error {
	session, err := app.Open(ctx, cfg)
	if err != nil {
		return fmt.Errorf("open session: %w", err)
	}
	defer session.Close()

	report, err := session.Sync(ctx)
	if err != nil {
		return err
	}
	slog.Info("sync finished", "sync_id", report.ID.String(), "counts", report.Counts,
		"duration", report.Finished.Sub(report.Started).String())
	return nil
}

func runMigrate(ctx context.Context, cfg config.Config) error {
	if !cfg.Online() {
		return errors.New("DATABASE_URL is not set")
	}
	pool, err := catalog.NewPool(ctx, cfg.DatabaseURL)
	if err != nil {
		return fmt.Errorf("connect: %w", err)
	}
	defer pool.Close()

	if err := migrations.UpPostgres(pool); err != nil {
		return err
	}
	slog.Info("migrations applied")
	return nil
}

func runSeed(ctx context.Context, cfg config.Config, dir string) error {
	if !cfg.Online() {
		return errors.New("DATABASE_URL is not set")
	}
	pool, err := catalog.NewPool(ctx, cfg.DatabaseURL)
	if err != nil {
		return fmt.Errorf("connect: %w", err)
	}
	defer pool.Close()

	stats, err := seed.Run(ctx, catalog.NewPgStore(pool), os.DirFS(dir))
	if err != nil {
		return err
	}
	slog.Info("seed finished", "dir", dir, "inserts", stats.Inserts, "skipped", stats.Skipped)
	return nil
}
