package main

import (
	"context"
	"errors"
	"fmt"
	"io"
	"log/slog"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/spf13/cobra"

	"github.com/alexjbarnes/notion-docs-sync/internal/config"
	"github.com/alexjbarnes/notion-docs-sync/internal/logging"
	"github.com/alexjbarnes/notion-docs-sync/internal/notion"
	"github.com/alexjbarnes/notion-docs-sync/internal/ratelimit"
	"github.com/alexjbarnes/notion-docs-sync/internal/state"
	"github.com/alexjbarnes/notion-docs-sync/internal/syncer"
)

var Version = "dev"

func main() {
	if err := newRootCmd(os.Stdout).Execute(); err != nil {
		fmt.Fprintf(os.Stderr, "error: %v\n", err)
		os.Exit(1)
	}
}

// flags holds command line overrides. Only flags the user actually set
// replace the environment values.
type flags struct {
	source      string
	destination string
	dryRun      bool
	watch       bool
}

func newRootCmd(stdout io.Writer) *cobra.Command {
	var f flags

	cmd := &cobra.Command{
		Use:   "notion-docs-sync",
		Short: "Sync a directory of markdown into Notion pages",
		Long: `Sync a directory of markdown files into a tree of Notion pages.

The root README.md becomes the content of the destination page. Every other
markdown file syncs to a child page titled after the file. Unchanged blocks
are left alone; only changed content is deleted and re-appended.

Configuration comes from the environment (NOTION_TOKEN,
NOTION_DESTINATION_ID, SYNC_SOURCE, ...) and an optional .env file. Flags
override the environment.`,
		SilenceUsage:  true,
		SilenceErrors: true,
		Args:          cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			ctx, stop := signal.NotifyContext(cmd.Context(), syscall.SIGINT, syscall.SIGTERM)
			defer stop()

			return run(ctx, overrides(cmd, f), stdout)
		},
	}

	fl := cmd.Flags()
	fl.StringVarP(&f.source, "source", "s", "", "markdown directory to sync (overrides SYNC_SOURCE)")
	fl.StringVarP(&f.destination, "destination", "d", "", "destination page id or URL (overrides NOTION_DESTINATION_ID)")
	fl.BoolVar(&f.dryRun, "dry-run", false, "plan and log every change without touching Notion")
	fl.BoolVarP(&f.watch, "watch", "w", false, "keep running and re-sync when files change")

	cmd.AddCommand(&cobra.Command{
		Use:   "version",
		Short: "Print the version",
		Args:  cobra.NoArgs,
		Run: func(cmd *cobra.Command, args []string) {
			fmt.Fprintf(cmd.OutOrStdout(), "notion-docs-sync %s\n", Version)
		},
	})

	return cmd
}

// overrides turns the flags that were set into config options.
func overrides(cmd *cobra.Command, f flags) []config.Option {
	var opts []config.Option

	fl := cmd.Flags()

	if fl.Changed("source") {
		opts = append(opts, func(c *config.Config) { c.Source = f.source })
	}

	if fl.Changed("destination") {
		opts = append(opts, func(c *config.Config) { c.DestinationID = f.destination })
	}

	if fl.Changed("dry-run") {
		opts = append(opts, func(c *config.Config) { c.DryRun = f.dryRun })
	}

	if fl.Changed("watch") {
		opts = append(opts, func(c *config.Config) { c.Watch = f.watch })
	}

	return opts
}

func run(ctx context.Context, opts []config.Option, stdout io.Writer) error {
	cfg, err := config.Load(opts...)
	if err != nil {
		return fmt.Errorf("loading config: %w", err)
	}

	logger, logCloser := logging.NewLogger(cfg.Environment, cfg.LogFile)
	defer logCloser.Close()

	logger.Info("notion-docs-sync starting",
		slog.String("version", Version),
		slog.String("source", cfg.Source),
		slog.String("destination", cfg.DestinationID),
		slog.Bool("dry_run", cfg.DryRun),
		slog.Bool("watch", cfg.Watch),
	)

	var (
		store    syncer.DestinationStore
		appState *state.State
	)

	if cfg.StatePath != "" {
		appState, err = state.LoadAt(cfg.StatePath)
		if err != nil {
			return fmt.Errorf("loading state: %w", err)
		}
		defer appState.Close()

		store = appState
	}

	client := notion.NewClient(cfg.Token, notion.Options{
		BaseURL:    cfg.APIURL,
		Version:    cfg.NotionVersion,
		HTTPClient: &http.Client{Timeout: cfg.HTTPTimeout},
		Limiter:    ratelimit.New(cfg.RateLimitRequests, cfg.RateLimitInterval),
		Logger:     logger,
	})

	engine := syncer.New(syncer.Config{
		Remote:          client,
		Store:           store,
		DryRun:          cfg.DryRun,
		HydrateChildren: cfg.HydrateChildren,
	}, logger)

	r := &runner{
		cfg:      cfg,
		engine:   engine,
		appState: appState,
		stdout:   stdout,
		logger:   logger,
	}

	res := r.syncOnce(ctx)
	if res.Status == syncer.StatusFailed {
		return res.Err()
	}

	if !cfg.Watch {
		return nil
	}

	watcher := syncer.NewWatcher(cfg.Source, cfg.WatchDebounce, func(ctx context.Context) {
		r.syncOnce(ctx)
	}, logger)

	if err := watcher.Watch(ctx); err != nil && !errors.Is(err, context.Canceled) {
		return fmt.Errorf("watching %s: %w", cfg.Source, err)
	}

	logger.Info("shutting down")

	return nil
}

// runner performs one sync and reports it.
type runner struct {
	cfg      *config.Config
	engine   *syncer.Engine
	appState *state.State
	stdout   io.Writer
	logger   *slog.Logger
}

func (r *runner) syncOnce(ctx context.Context) syncer.Result {
	res := r.engine.Run(ctx, r.cfg.DestinationID, r.cfg.Source)

	for _, msg := range res.Errors {
		r.logger.Error("sync error", slog.String("error", msg))
	}

	if err := writeResult(r.stdout, res); err != nil {
		r.logger.Warn("writing result", slog.String("error", err.Error()))
	}

	if r.cfg.GitHubOutput != "" {
		if err := writeGitHubOutput(r.cfg.GitHubOutput, res); err != nil {
			r.logger.Warn("writing GitHub outputs", slog.String("error", err.Error()))
		}
	}

	if r.appState != nil && !r.cfg.DryRun {
		err := r.appState.SetLastRun(r.cfg.DestinationID, state.RunRecord{
			Status:       string(res.Status),
			UpdatedPages: res.UpdatedPages,
			Errors:       res.Errors,
			FinishedAt:   time.Now().UTC(),
		})
		if err != nil {
			r.logger.Warn("recording run", slog.String("error", err.Error()))
		}
	}

	return res
}
