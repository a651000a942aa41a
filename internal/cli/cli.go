package cli

import (
	"context"
	"errors"
	"fmt"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/google/uuid"
	"github.com/spf13/cobra"

	"github.com/pfrederiksen/bom-oscars/internal/aggregate"
	"github.com/pfrederiksen/bom-oscars/internal/bestpicture"
	"github.com/pfrederiksen/bom-oscars/internal/config"
	"github.com/pfrederiksen/bom-oscars/internal/export"
	"github.com/pfrederiksen/bom-oscars/internal/fetcher"
	"github.com/pfrederiksen/bom-oscars/internal/logger"
	"github.com/pfrederiksen/bom-oscars/internal/oscar"
	"github.com/pfrederiksen/bom-oscars/internal/pipeline"
	"github.com/pfrederiksen/bom-oscars/internal/search"
)

const (
	ExitSuccess     = 0
	ExitError       = 1
	ExitInterrupted = 130
)

// StdoutPath selects standard output instead of a file.
const StdoutPath = "-"

var (
	flagConfig  string
	flagStrict  bool
	flagSort    string
	flagSummary string
)

// NewRootCmd creates the root command
func NewRootCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "bom-oscars",
		Short: "Collect Oscar nominations and box-office grosses of best picture nominees",
		Long: `A CLI tool that reads Box Office Mojo's yearly best picture charts,
follows every nominee to its nomination history and writes one table row
per movie with its grosses, per-category nomination counts and whether it
won best picture.`,
		SilenceUsage: true,
	}

	pf := cmd.PersistentFlags()
	pf.StringVar(&flagConfig, "config", "", "Config file (default ./bom-oscars.yaml if present)")
	pf.String("base-url", config.DefaultBaseURL, "Box Office Mojo base URL")
	pf.Duration("timeout", 0, "HTTP request timeout (0 waits indefinitely)")
	pf.String("user-agent", "", "User-Agent header for requests")
	pf.String("categories", "", "YAML category catalog (default built-in list)")
	pf.String("log-level", "info", "Log level: debug, info, warn or error")
	pf.String("format", "", "Output format: csv or xlsx (default from --out extension)")
	pf.StringVar(&flagSummary, "summary", string(FormatText), "Summary format: text or json")

	cmd.AddCommand(newRunCmd(), newNomsCmd())
	return cmd
}

func newRunCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "run",
		Short: "Build the best picture table for a range of years",
		Args:  cobra.NoArgs,
		RunE:  runCollect,
	}

	cmd.Flags().Int("start", config.DefaultStartYear, "First year to collect")
	cmd.Flags().Int("end", config.DefaultEndYear, "Last year to collect")
	cmd.Flags().String("out", config.DefaultOutputPath, "Output file, or - for stdout")
	cmd.Flags().String("noms-out", "", "Also write the flat nomination records to this file")
	cmd.Flags().Bool("search-fallback", false, "Resolve listing rows without a nomination link by title search")
	cmd.Flags().BoolVar(&flagStrict, "strict", false, "Fail on malformed listing rows instead of skipping them")
	cmd.Flags().StringVar(&flagSort, "sort", string(SortByYear), "Row order: year, title or gross")

	return cmd
}

func newNomsCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "noms TITLE...",
		Short: "Look up nominations for movie titles",
		Long: `Searches Box Office Mojo for each title and prints its Oscar nominations.
When a search returns several movies and none matches exactly, you are
asked to pick one.`,
		Args: cobra.MinimumNArgs(1),
		RunE: runNoms,
	}

	cmd.Flags().String("noms-out", "", "Write the nomination records to this file instead of stdout")

	return cmd
}

// env bundles what every command needs after configuration is loaded.
type env struct {
	cfg     *config.Config
	log     *logger.Logger
	metrics *logger.Metrics
	fetcher *fetcher.Fetcher
	cats    aggregate.Categories
	runID   string
}

func setup(cmd *cobra.Command) (*env, error) {
	cfg, err := config.Load(flagConfig, cmd.Flags())
	if err != nil {
		return nil, fmt.Errorf("loading config: %w", err)
	}
	if flagStrict {
		cfg.Lenient = false
	}
	if err := cfg.Validate(); err != nil {
		return nil, fmt.Errorf("invalid config: %w", err)
	}

	runID := uuid.NewString()
	log := logger.New(logger.ParseLevel(cfg.Log.Level), cmd.ErrOrStderr()).
		With(logger.Fields{"run_id": runID})
	logger.SetDefault(log)

	cats, err := aggregate.LoadCategories(cfg.CategoriesFile)
	if err != nil {
		return nil, err
	}

	metrics := logger.NewMetrics()
	f := fetcher.New(
		fetcher.WithTimeout(cfg.HTTP.Timeout),
		fetcher.WithUserAgent(cfg.HTTP.UserAgent),
		fetcher.WithMetrics(metrics),
	)

	return &env{cfg: cfg, log: log, metrics: metrics, fetcher: f, cats: cats, runID: runID}, nil
}

func (e *env) newPipeline(cmd *cobra.Command) *pipeline.Pipeline {
	resolver := search.NewTerminalResolver(cmd.InOrStdin(), cmd.ErrOrStderr())
	return pipeline.New(
		bestpicture.New(e.fetcher, e.cfg.BaseURL, bestpicture.Options{
			Lenient:      e.cfg.Lenient,
			KeepUnlinked: e.cfg.SearchFallback,
		}, e.log, e.metrics),
		oscar.NewExtractor(e.fetcher, e.cfg.BaseURL),
		search.NewMatcher(e.fetcher, e.cfg.BaseURL, resolver),
		e.log,
		e.metrics,
	)
}

// runCollect is the run command logic
func runCollect(cmd *cobra.Command, args []string) error {
	summaryFormat, err := parseSummaryFormat(flagSummary)
	if err != nil {
		return err
	}
	order, err := parseSortOrder(flagSort)
	if err != nil {
		return err
	}

	e, err := setup(cmd)
	if err != nil {
		return err
	}

	e.log.Info("Starting run", logger.Fields{
		"start_year":      e.cfg.StartYear,
		"end_year":        e.cfg.EndYear,
		"lenient":         e.cfg.Lenient,
		"search_fallback": e.cfg.SearchFallback,
	})

	result, err := e.newPipeline(cmd).Run(cmd.Context(), pipeline.Options{
		Years:          e.cfg.Years(),
		Categories:     e.cats,
		SearchFallback: e.cfg.SearchFallback,
	})
	if err != nil {
		return err
	}
	sortRows(result.Rows, order)

	format, err := outputFormat(e.cfg)
	if err != nil {
		return err
	}
	if err := writeTable(cmd, e.cfg.Output.Path, export.MovieTable(result.Rows, result.Categories), format); err != nil {
		return fmt.Errorf("writing table: %w", err)
	}
	if p := e.cfg.Output.NominationsPath; p != "" {
		if err := writeTable(cmd, p, export.NominationTable(result.Nominations), export.FormatForPath(p, format)); err != nil {
			return fmt.Errorf("writing nominations: %w", err)
		}
	}

	e.log.Debug("Metrics", logger.Fields{"metrics": e.metrics.GetSnapshot()})

	if e.cfg.Output.Path == StdoutPath {
		return nil
	}
	return WriteSummary(cmd.OutOrStdout(), &Summary{
		RunID:       e.runID,
		CompletedAt: time.Now().UTC(),
		StartYear:   e.cfg.StartYear,
		EndYear:     e.cfg.EndYear,
		Movies:      len(result.Rows),
		Nominations: len(result.Nominations),
		Output:      e.cfg.Output.Path,
		Collisions:  collisionTitles(result),
	}, summaryFormat)
}

// runNoms is the noms command logic
func runNoms(cmd *cobra.Command, args []string) error {
	summaryFormat, err := parseSummaryFormat(flagSummary)
	if err != nil {
		return err
	}

	e, err := setup(cmd)
	if err != nil {
		return err
	}

	noms, err := e.newPipeline(cmd).Nominations(cmd.Context(), args)
	if err != nil {
		return err
	}

	if p := e.cfg.Output.NominationsPath; p != "" {
		format, err := outputFormat(e.cfg)
		if err != nil {
			return err
		}
		return writeTable(cmd, p, export.NominationTable(noms), export.FormatForPath(p, format))
	}
	return WriteNominations(cmd.OutOrStdout(), noms, summaryFormat)
}

// outputFormat returns the configured format, or the one implied by the
// output path.
func outputFormat(cfg *config.Config) (export.Format, error) {
	if cfg.Output.Format != "" {
		return export.ParseFormat(cfg.Output.Format)
	}
	return export.FormatForPath(cfg.Output.Path, export.FormatCSV), nil
}

func writeTable(cmd *cobra.Command, path string, t export.Table, format export.Format) error {
	if path == StdoutPath {
		return export.Write(cmd.OutOrStdout(), t, format)
	}
	return export.WriteFile(path, t, format)
}

func collisionTitles(result *pipeline.Result) []string {
	var titles []string
	for _, c := range result.Collisions {
		titles = append(titles, c.Titles[0])
	}
	return titles
}

// Execute runs the CLI
func Execute() {
	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)

	err := NewRootCmd().ExecuteContext(ctx)
	stop()
	if err == nil {
		os.Exit(ExitSuccess)
	}

	fmt.Fprintf(os.Stderr, "Error: %v\n", err)
	if errors.Is(err, context.Canceled) {
		os.Exit(ExitInterrupted)
	}
	os.Exit(ExitError)
}
