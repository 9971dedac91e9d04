package main

import (
	"context"
	"fmt"
	"log/slog"
	"net/http"
	"os"
	"os/signal"
	"syscall"

	"github.com/prometheus/client_golang/prometheus/promhttp"
	"github.com/spf13/cobra"

	"mercator-hq/meridian/pkg/compliance"
	"mercator-hq/meridian/pkg/deal"
	"mercator-hq/meridian/pkg/entity"
	"mercator-hq/meridian/pkg/policy"
	"mercator-hq/meridian/pkg/review"
)

var reviewCmd = &cobra.Command{
	Use:   "review",
	Short: "Re-run compliance checks over open deals",
}

var reviewRunCmd = &cobra.Command{
	Use:   "run",
	Short: "Execute one re-review pass now",
	RunE: func(cmd *cobra.Command, args []string) error {
		_, reviewer, closeStore, err := newReviewer()
		if err != nil {
			return err
		}
		defer closeStore()

		result, err := reviewer.Run(context.Background())
		if err != nil {
			return err
		}
		fmt.Printf("reviewed %d, flagged %d, skipped %d\n",
			result.Reviewed, result.Flagged, result.Skipped)
		return nil
	},
}

var reviewWatchCmd = &cobra.Command{
	Use:   "watch",
	Short: "Run the scheduler and policy watcher until interrupted",
	Long: `Watch starts the cron-driven re-review scheduler (per the configured
schedule) and watches the policy file for changes, hot-swapping reloaded
policies into the running engine. Blocks until SIGINT or SIGTERM.`,
	RunE: func(cmd *cobra.Command, args []string) error {
		cfg, reviewer, closeStore, err := newReviewer()
		if err != nil {
			return err
		}
		defer closeStore()

		ctx, cancel := signal.NotifyContext(context.Background(),
			os.Interrupt, syscall.SIGTERM)
		defer cancel()

		if err := reviewer.Start(ctx); err != nil {
			return err
		}

		if cfg.MetricsAddr != "" {
			go serveMetrics(cfg.MetricsAddr)
		}

		watcher := policy.NewWatcher(reviewEngine, policy.WatcherConfig{
			Path: cfg.PolicyFile,
		})
		return watcher.Watch(ctx)
	},
}

// reviewEngine is the shared policy engine for the watch loop so the
// fsnotify watcher can hot-swap reloaded policies into it.
var reviewEngine *policy.Engine

type reviewPaths struct {
	PolicyFile  string
	MetricsAddr string
}

// serveMetrics exposes the Prometheus registry on /metrics.
func serveMetrics(addr string) {
	mux := http.NewServeMux()
	mux.Handle("/metrics", promhttp.Handler())
	slog.Default().With("component", "metrics").Info("serving metrics", "addr", addr)
	if err := http.ListenAndServe(addr, mux); err != nil {
		slog.Default().With("component", "metrics").Error("metrics server failed", "error", err)
	}
}

// newReviewer wires the deal store, validator, and reviewer from the
// loaded configuration.
func newReviewer() (*reviewPaths, *review.Reviewer, func(), error) {
	cfg, err := loadConfig()
	if err != nil {
		return nil, nil, nil, err
	}

	store, err := deal.NewFileStore(cfg.Paths.DealDir)
	if err != nil {
		return nil, nil, nil, err
	}

	policyCfg, err := policy.Load(cfg.Paths.PolicyFile)
	if err != nil {
		store.Close()
		return nil, nil, nil, err
	}
	reviewEngine = policy.NewEngine(policyCfg)

	rules, err := entity.LoadJurisdictionRules(cfg.Paths.JurisdictionRules)
	if err != nil {
		store.Close()
		return nil, nil, nil, err
	}

	manager := deal.NewManager(store, reviewEngine, deal.NewMetrics(), deal.ManagerConfig{})
	validator := compliance.NewValidator(compliance.ValidatorConfig{
		Rules:   rules,
		Metrics: compliance.NewMetrics(),
	}, reviewEngine)
	reviewer := review.NewReviewer(review.Config{
		Schedule:  cfg.Review.Schedule,
		EntityDir: cfg.Paths.EntityDir,
	}, manager, validator)

	paths := &reviewPaths{
		PolicyFile:  cfg.Paths.PolicyFile,
		MetricsAddr: cfg.Metrics.Addr,
	}
	return paths, reviewer, func() { store.Close() }, nil
}

func init() {
	reviewCmd.AddCommand(reviewRunCmd, reviewWatchCmd)
	rootCmd.AddCommand(reviewCmd)
}
