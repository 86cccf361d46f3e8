package cmd

import (
	"context"
	"fmt"
	"net/http"
	"os"
	"os/signal"
	"syscall"

	"github.com/dariuskan/archivecrawler/internal/cdxseed"
	"github.com/dariuskan/archivecrawler/internal/config"
	"github.com/dariuskan/archivecrawler/internal/fetcher"
	"github.com/dariuskan/archivecrawler/internal/frontier"
	"github.com/dariuskan/archivecrawler/internal/logging"
	"github.com/dariuskan/archivecrawler/internal/parser"
	"github.com/dariuskan/archivecrawler/internal/scheduler"
	"github.com/dariuskan/archivecrawler/internal/stats"
	"github.com/dariuskan/archivecrawler/internal/storage"
	"github.com/rs/zerolog"
	"github.com/spf13/cobra"
)

var (
	configPath   string
	domainsFile  string
	patternsFile string
	dryRun       bool
	metricsAddr  string
)

// rootCmd is archivecrawler's single command: there is no subcommand tree,
// only flags layered over the YAML/env-configured crawl.
var rootCmd = &cobra.Command{
	Use:   "archivecrawler",
	Short: "Crawls archived snapshots of configured domains for keyword matches.",
	Long: `archivecrawler walks a third-party time-travel archive's CDX index for a
configured list of domains, fetches the snapshots it finds, and scans each
page's text, markup, and outbound links for configured keyword patterns.`,
	RunE: runRoot,
}

func init() {
	rootCmd.Flags().StringVar(&configPath, "config", "", "path to a YAML config file")
	rootCmd.Flags().StringVar(&domainsFile, "domains-file", "", "override cdx.target_domains_file")
	rootCmd.Flags().StringVar(&patternsFile, "patterns-file", "", "override parser.patterns_file")
	rootCmd.Flags().BoolVar(&dryRun, "dry-run", false, "seed the crawl and report counts without fetching")
	rootCmd.Flags().StringVar(&metricsAddr, "metrics-addr", "", "address to serve Prometheus /metrics on (empty disables it)")
}

// Execute runs the root command. It is the only entry point main calls.
func Execute() error {
	return rootCmd.Execute()
}

func runRoot(cmd *cobra.Command, args []string) error {
	if domainsFile != "" {
		os.Setenv("ARCHIVECRAWLER_CDX_TARGET_DOMAINS_FILE", domainsFile)
	}
	if patternsFile != "" {
		os.Setenv("ARCHIVECRAWLER_PARSER_PATTERNS_FILE", patternsFile)
	}

	cfg, err := config.Load(configPath)
	if err != nil {
		return fmt.Errorf("load config: %w", err)
	}

	log, closeLog, err := logging.New(cfg.Log())
	if err != nil {
		return fmt.Errorf("init logging: %w", err)
	}
	defer closeLog()

	st, err := storage.New(cfg.Storage())
	if err != nil {
		return fmt.Errorf("init storage: %w", err)
	}
	if err := st.Load(); err != nil {
		return fmt.Errorf("load storage state: %w", err)
	}

	ft, err := fetcher.New(cfg, st, log)
	if err != nil {
		return fmt.Errorf("init fetcher: %w", err)
	}

	ps, err := parser.New(cfg)
	if err != nil {
		return fmt.Errorf("init parser: %w", err)
	}

	mirror := stats.NewPrometheusMirror()
	stt := stats.NewWithMirror(mirror)

	if metricsAddr != "" {
		go serveMetrics(metricsAddr, log)
	}

	client := cdxseed.NewClient(cfg.CDX())
	seeder := cdxseed.NewSeeder(client, cfg.CDX(), st, stt, log)

	if dryRun {
		return runDryRun(cmd.Context(), seeder, stt, log)
	}

	fr := frontier.New(cfg.QueueSize())
	sched := scheduler.New(cfg, fr, st, ft, ps, seeder, stt, log)

	ctx, stop := signal.NotifyContext(cmd.Context(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	go func() {
		<-ctx.Done()
		log.Info().Msg("shutdown signal received")
		sched.Shutdown(context.Background())
	}()

	if err := sched.Run(ctx); err != nil {
		return fmt.Errorf("crawl aborted: %w", err)
	}
	return nil
}

// runDryRun seeds from the CDX index and reports counts without starting any
// workers, so an operator can check a configuration's reach before
// committing to a real crawl.
func runDryRun(ctx context.Context, seeder *cdxseed.Seeder, stt *stats.Stats, log zerolog.Logger) error {
	urls, err := seeder.SeedURLs(ctx, "20040101000000", "20041231235959")
	if err != nil {
		log.Error().Err(err).Msg("dry run: cdx seeding failed")
	}
	log.Info().
		Int("seed_urls", len(urls)).
		Int("total_snapshots", stt.TotalSnapshots()).
		Int("new_snapshots", stt.NewSnapshots()).
		Msg("dry run complete")
	return nil
}

func serveMetrics(addr string, log zerolog.Logger) {
	mux := http.NewServeMux()
	mux.Handle("/metrics", stats.Handler())
	log.Info().Str("addr", addr).Msg("serving /metrics")
	if err := http.ListenAndServe(addr, mux); err != nil {
		log.Error().Err(err).Msg("metrics server stopped")
	}
}
