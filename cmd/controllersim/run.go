package main

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"os"
	"os/signal"
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promhttp"
	"github.com/spf13/cobra"
	"go.uber.org/zap"

	"github.com/tribalctl/scripted-ai/audit"
	"github.com/tribalctl/scripted-ai/config"
	"github.com/tribalctl/scripted-ai/persist"
	"github.com/tribalctl/scripted-ai/server/dashboard"
	"github.com/tribalctl/scripted-ai/server/metrics"
)

func newRunCmd() *cobra.Command {
	var (
		steps       int
		seed        int64
		configPath  string
		catalogPath string
		dashAddr    string
		metricsAddr string
	)
	cmd := &cobra.Command{
		Use:   "run",
		Short: "Run the controller against a built-in two-team scenario",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			return doRun(cmd, steps, seed, configPath, catalogPath, dashAddr, metricsAddr)
		},
	}
	cmd.Flags().IntVar(&steps, "steps", 2000, "number of ticks to simulate")
	cmd.Flags().Int64Var(&seed, "seed", 1, "RNG seed")
	cmd.Flags().StringVar(&configPath, "config", "", "path to a difficulty/weights tuning YAML file (optional, live-reloaded)")
	cmd.Flags().StringVar(&catalogPath, "catalog", "", "path to a persisted evolutionary role catalog JSON file (optional)")
	cmd.Flags().StringVar(&dashAddr, "dashboard-addr", "", "if set, serve the live telemetry dashboard on this address (e.g. :8090)")
	cmd.Flags().StringVar(&metricsAddr, "metrics-addr", "", "if set, serve Prometheus metrics on this address (e.g. :9090)")
	return cmd
}

func doRun(cmd *cobra.Command, steps int, seed int64, configPath, catalogPath, dashAddr, metricsAddr string) error {
	log, err := zap.NewDevelopment()
	if err != nil {
		return fmt.Errorf("building logger: %w", err)
	}
	defer log.Sync() //nolint:errcheck // best-effort flush on exit

	sc := buildScenario(seed)
	sc.ctl.Audit = audit.New(audit.LevelFromEnv(), log)

	if configPath != "" {
		root, err := config.Load(configPath)
		if err != nil {
			return fmt.Errorf("loading config: %w", err)
		}
		root.ApplyGathererWeights()
		sc.ctl.SetDifficulty(1, root.DifficultyFor("1"))
		sc.ctl.SetDifficulty(2, root.DifficultyFor("2"))

		watcher, err := config.NewWatcher(configPath, func(reloaded *config.Root) {
			sc.ctl.SetDifficulty(1, reloaded.DifficultyFor("1"))
			sc.ctl.SetDifficulty(2, reloaded.DifficultyFor("2"))
			log.Info("config reloaded", zap.String("path", configPath))
		})
		if err != nil {
			return fmt.Errorf("watching config: %w", err)
		}
		defer watcher.Close()
	}

	var catalog *persist.Catalog
	if catalogPath != "" {
		catalog, err = persist.Load(catalogPath)
		if err != nil {
			return fmt.Errorf("loading role catalog: %w", err)
		}
		log.Info("loaded role catalog", zap.Int("roles", len(catalog.Roles)), zap.Int("behaviors", len(catalog.Behaviors)))
	}

	var dash *dashboard.Dashboard
	if dashAddr != "" {
		dash = dashboard.New(log.Named("dashboard"))
		go func() {
			if err := http.ListenAndServe(dashAddr, dash.Handler()); err != nil && !errors.Is(err, http.ErrServerClosed) {
				log.Error("dashboard server exited", zap.Error(err))
			}
		}()
		log.Info("dashboard serving", zap.String("addr", dashAddr))
	}

	if metricsAddr != "" {
		reg := prometheus.NewRegistry()
		sc.ctl.Metrics = metrics.New(reg)
		mux := http.NewServeMux()
		mux.Handle("/metrics", promhttp.HandlerFor(reg, promhttp.HandlerOpts{}))
		go func() {
			if err := http.ListenAndServe(metricsAddr, mux); err != nil && !errors.Is(err, http.ErrServerClosed) {
				log.Error("metrics server exited", zap.Error(err))
			}
		}()
		log.Info("metrics serving", zap.String("addr", metricsAddr))
	}

	ctx, cancel := signal.NotifyContext(context.Background(), os.Interrupt)
	defer cancel()

	lastStep := 0
	for step := 0; step < steps; step++ {
		lastStep = step
		tickStart := time.Now()
		sc.ctl.Dispatch(step, sc.agentIDs)
		if dash != nil {
			dash.Publish(sc.ctl.Snapshot(step), time.Since(tickStart).Seconds())
		}
		if ctx.Err() != nil {
			log.Info("interrupted, stopping early", zap.Int("step", step))
			break
		}
	}

	if catalog != nil {
		if err := persist.Save(catalogPath, catalog); err != nil {
			return fmt.Errorf("saving role catalog: %w", err)
		}
	}

	snap := sc.ctl.Snapshot(lastStep + 1)
	fmt.Fprintf(cmd.OutOrStdout(), "ran %d ticks, final snapshot:\n", lastStep+1)
	for _, t := range snap.Teams {
		fmt.Fprintf(cmd.OutOrStdout(), "  team %d: difficulty=%s requests=%d reservations=%d threat=%.1f population=%d\n",
			t.Team, t.DifficultyLevel, t.RequestQueue, t.ReservationCount, t.ThreatTotal, t.PopulationCount)
	}
	return nil
}
