package main

import (
	"context"
	"fmt"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/rs/zerolog/log"
	"github.com/spf13/cobra"

	"PairWatch/internal/cache"
	"PairWatch/internal/collector"
	"PairWatch/internal/config"
	"PairWatch/internal/dashboard"
	"PairWatch/internal/model"
	"PairWatch/internal/notifier"
	"PairWatch/internal/scheduler"
	"PairWatch/internal/util"
)

func main() {
	if err := newRootCmd().Execute(); err != nil {
		os.Exit(1)
	}
}

func newRootCmd() *cobra.Command {
	var cfgPath string
	root := &cobra.Command{
		Use:          "pairwatch",
		Short:        "Rolling return correlation between two tickers",
		SilenceUsage: true,
	}
	defaultPath := "configs/config.yaml"
	if v := os.Getenv("CONFIG_PATH"); v != "" {
		defaultPath = v
	}
	root.PersistentFlags().StringVar(&cfgPath, "config", defaultPath, "path to YAML config")

	root.AddCommand(newServeCmd(&cfgPath), newReportCmd(&cfgPath))
	return root
}

// setup loads config, installs the logger and builds the collector stack.
func setup(cfgPath string) (*config.Config, *collector.Collector, *collector.GuardedFetcher, error) {
	cfg, err := config.Load(cfgPath)
	if err != nil {
		return nil, nil, nil, fmt.Errorf("load config: %w", err)
	}
	if err := cfg.Validate(); err != nil {
		return nil, nil, nil, err
	}
	log.Logger = util.NewLogger(cfg.App.LogLevel)

	var fetcher collector.Fetcher
	if cfg.DataSource.BaseURL != "" {
		fetcher = collector.NewBarsAPIFetcher(cfg.DataSource.BaseURL, cfg.DataSource.APIKey, cfg.Proxy, cfg.DataSource.Timeout)
	} else {
		fetcher = collector.NewYahooFetcher(cfg.Proxy, cfg.DataSource.Timeout)
	}
	log.Info().Str("source", fetcher.Name()).Msg("data source selected")

	guarded := collector.NewGuardedFetcher(fetcher, collector.GuardOptions{
		RatePerSec: cfg.DataSource.RatePerSec,
		Burst:      cfg.DataSource.Burst,
		Trips:      cfg.DataSource.BreakerTrips,
	})
	// The process owns the cache; a zero TTL keeps series until restart.
	cached := collector.NewCachedFetcher(guarded, cache.New(cfg.Cache.TTL, cfg.Cache.MaxEntries))
	return cfg, collector.NewCollector(cached), guarded, nil
}

func configuredPair(cfg *config.Config) model.Pair {
	return model.Pair{A: cfg.Pair.SymbolA, B: cfg.Pair.SymbolB}
}

func newServeCmd(cfgPath *string) *cobra.Command {
	var addr string
	cmd := &cobra.Command{
		Use:   "serve",
		Short: "Serve the dashboard over HTTP",
		RunE: func(cmd *cobra.Command, _ []string) error {
			cfg, col, guarded, err := setup(*cfgPath)
			if err != nil {
				return err
			}
			if addr != "" {
				cfg.HTTP.Addr = addr
			}

			ctx, cancel := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
			defer cancel()

			var sender scheduler.Sender
			var tn *notifier.TelegramNotifier
			if cfg.TelegramEnabled() {
				tn = notifier.NewTelegramNotifier(cfg.Telegram.BotToken, cfg.Telegram.ChatID, cfg.Proxy)
				sender = tn
			}
			sched := scheduler.NewScheduler(ctx, col, sender, configuredPair(cfg), cfg.Pair.LookbackDays)
			if err := sched.Register(cfg.Schedule.RefreshCron); err != nil {
				return err
			}
			sched.Start()
			defer sched.Stop()
			if tn != nil {
				go tn.StartPolling(ctx, sched.HandleCommand)
				log.Info().Msg("telegram polling started")
			}
			if os.Getenv("RUN_ON_START") == "true" {
				go sched.RunNow()
			}

			h, err := dashboard.NewHandlers(col, dashboard.Defaults{
				Title:        cfg.App.Title,
				Caption:      cfg.App.Caption,
				Pair:         configuredPair(cfg),
				LookbackDays: cfg.Pair.LookbackDays,
			})
			if err != nil {
				return fmt.Errorf("load templates: %w", err)
			}
			srv := dashboard.NewServer(dashboard.ServerConfig{
				Addr:         cfg.HTTP.Addr,
				ReadTimeout:  cfg.HTTP.ReadTimeout,
				WriteTimeout: cfg.HTTP.WriteTimeout,
			}, h)

			log.Info().Str("pair", configuredPair(cfg).String()).Str("breaker", guarded.State()).Msg("pairwatch running")
			return srv.Run(ctx)
		},
	}
	cmd.Flags().StringVar(&addr, "addr", "", "listen address, overrides http.addr")
	return cmd
}

func newReportCmd(cfgPath *string) *cobra.Command {
	var a, b string
	var days int
	cmd := &cobra.Command{
		Use:   "report",
		Short: "Print the correlation report once and exit",
		RunE: func(cmd *cobra.Command, _ []string) error {
			cfg, col, _, err := setup(*cfgPath)
			if err != nil {
				return err
			}
			pair := configuredPair(cfg)
			if a != "" {
				pair.A = a
			}
			if b != "" {
				pair.B = b
			}
			if days == 0 {
				days = cfg.Pair.LookbackDays
			}
			if days < 2 {
				return fmt.Errorf("--days must be at least 2")
			}

			ctx, cancel := context.WithTimeout(cmd.Context(), 2*cfg.DataSource.Timeout+5*time.Second)
			defer cancel()
			rep, err := col.Collect(ctx, pair, days)
			if err != nil {
				return err
			}
			v, err := dashboard.BuildView(cfg.App.Title, cfg.App.Caption, rep)
			if err != nil {
				return err
			}
			out := cmd.OutOrStdout()
			fmt.Fprintf(out, "%s\n%s to %s\n\n", v.Title, v.Start, v.End)
			for _, m := range v.Metrics {
				if m.Delta != "" {
					fmt.Fprintf(out, "%-24s %s (%s)\n", m.Label, m.Value, m.Delta)
					continue
				}
				fmt.Fprintf(out, "%-24s %s\n", m.Label, m.Value)
			}
			fmt.Fprintf(out, "\n%s\n", v.Headline)
			return nil
		},
	}
	cmd.Flags().StringVar(&a, "a", "", "first ticker")
	cmd.Flags().StringVar(&b, "b", "", "second ticker")
	cmd.Flags().IntVar(&days, "days", 0, "trailing lookback in days")
	return cmd
}
