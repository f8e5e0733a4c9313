package cli

import (
	"fmt"
	"os"
	"time"

	"github.com/spf13/cobra"

	"github.com/explorastur/explorastur/internal/config"
	"github.com/explorastur/explorastur/internal/logger"
	"github.com/explorastur/explorastur/internal/pipeline"
	"github.com/explorastur/explorastur/internal/render"
	"github.com/explorastur/explorastur/internal/source"
)

const (
	ExitSuccess        = 0
	ExitError          = 1
	ExitAllSourcesDown = 2
)

var (
	flagConfig   string
	flagFormat   string
	flagOutput   string
	flagSource   string
	flagMaxPages int
	flagTimeout  time.Duration
	flagVerbose  bool
	flagDryRun   bool
)

// NewRootCmd creates the root command.
func NewRootCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "explorastur",
		Short: "Aggregate event listings from configured sites into one report",
		Long: `Fetches event listings from the configured sources, normalizes their
Spanish date text, filters past events and writes a chronologically
ordered report grouped by source.`,
		SilenceUsage: true,
		RunE:         runAggregate,
	}

	cmd.Flags().StringVar(&flagConfig, "config", "config.yaml", "Path to the YAML source configuration")
	cmd.Flags().StringVar(&flagFormat, "format", "md", "Output format: md or json")
	cmd.Flags().StringVar(&flagOutput, "output", "", "Output file (default: stdout)")
	cmd.Flags().StringVar(&flagSource, "source", "", "Only process the source with this id")
	cmd.Flags().IntVar(&flagMaxPages, "max-pages", 0, "Override max pages per source (0 = per-source setting)")
	cmd.Flags().DurationVar(&flagTimeout, "timeout", 0, "Override HTTP timeout (0 = configured value)")
	cmd.Flags().BoolVar(&flagVerbose, "verbose", false, "Enable debug logging")
	cmd.Flags().BoolVar(&flagDryRun, "dry-run", false, "Validate the configuration and exit without fetching")

	return cmd
}

func runAggregate(cmd *cobra.Command, args []string) error {
	level := logger.LevelInfo
	if flagVerbose {
		level = logger.LevelDebug
	}
	logger.SetDefault(logger.New(level, os.Stderr))

	format := render.Format(flagFormat)
	if format != render.FormatMarkdown && format != render.FormatJSON {
		return fmt.Errorf("invalid format: %s (must be 'md' or 'json')", flagFormat)
	}

	cfg, err := config.Load(flagConfig)
	if err != nil {
		return err
	}
	applyOverrides(cfg)

	sources := cfg.Sources
	if flagSource != "" {
		sources = nil
		for _, s := range cfg.Sources {
			if s.ID == flagSource {
				sources = append(sources, s)
			}
		}
		if len(sources) == 0 {
			return fmt.Errorf("unknown source id: %s", flagSource)
		}
	}

	if flagDryRun {
		for _, s := range sources {
			if err := s.Validate(); err != nil {
				return err
			}
		}
		fmt.Fprintf(os.Stderr, "Configuration OK: %d sources\n", len(sources))
		return nil
	}

	client := source.NewClient(cfg.HTTP.Timeout, cfg.HTTP.UserAgent, cfg.HTTP.MaxRetries, cfg.HTTP.RetryDelay)
	counters := logger.NewCounters()
	runner := &pipeline.Runner{
		Sources:  sources,
		Today:    time.Now().UTC(),
		Counters: counters,
		NewFetcher: func(sc config.Source) (source.Fetcher, error) {
			return source.New(sc, client, cfg.LLM)
		},
	}

	groups, summary := runner.Run(cmd.Context())
	reportSummary(summary, counters)

	out := os.Stdout
	if flagOutput != "" {
		f, err := os.Create(flagOutput)
		if err != nil {
			return fmt.Errorf("creating output file: %w", err)
		}
		defer f.Close()
		out = f
	}

	doc := render.Document{
		Title:       cfg.Title,
		GeneratedAt: summary.GeneratedAt,
		Groups:      groups,
	}
	if err := render.Write(out, doc, format); err != nil {
		return fmt.Errorf("writing output: %w", err)
	}

	if summary.AllFailed() {
		os.Exit(ExitAllSourcesDown)
	}
	return nil
}

func applyOverrides(cfg *config.Config) {
	if flagMaxPages > 0 {
		for i := range cfg.Sources {
			cfg.Sources[i].MaxPages = flagMaxPages
		}
	}
	if flagTimeout > 0 {
		cfg.HTTP.Timeout = flagTimeout
	}
}

// reportSummary logs the end-of-run accounting: per source fetched, kept and
// dropped-by-reason counts, and which sources failed.
func reportSummary(summary pipeline.Summary, counters *logger.Counters) {
	for _, src := range summary.Sources {
		fields := logger.Fields{
			"source":  src.SourceID,
			"pages":   src.Pages,
			"fetched": src.Fetched,
			"kept":    src.Kept,
		}
		for reason, n := range src.Dropped {
			fields["dropped."+string(reason)] = n
		}
		if src.Failed() {
			fields["error"] = src.Error
			logger.Warn("source failed", fields)
			continue
		}
		logger.Info("source summary", fields)
	}
	totals := logger.Fields{}
	for _, name := range counters.Names() {
		totals[name] = counters.Get(name)
	}
	logger.Info("run totals", totals)
}

// Execute runs the CLI.
func Execute() {
	if err := NewRootCmd().Execute(); err != nil {
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		os.Exit(ExitError)
	}
}
