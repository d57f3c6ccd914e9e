// Command contentflow turns one product description into product, FAQ, and
// comparison pages.
//
// Usage:
//
//	contentflow -input product.json
//	contentflow -text "Glow Serum, 10% Vitamin C, $50, for oily skin"
//	contentflow -input notes.txt -provider openai -out site/ -report run.md
//
// Settings come from the environment (see package config), optionally a
// config file (-config), and finally the flags below.
package main

import (
	"context"
	"errors"
	"flag"
	"fmt"
	"io"
	"log/slog"
	"os"
	"os/signal"
	"syscall"

	"github.com/randalmurphal/contentflow/pkg/contentflow"
	"github.com/randalmurphal/contentflow/pkg/contentflow/agents"
	"github.com/randalmurphal/contentflow/pkg/contentflow/artifact"
	"github.com/randalmurphal/contentflow/pkg/contentflow/config"
	cferrors "github.com/randalmurphal/contentflow/pkg/contentflow/errors"
	"github.com/randalmurphal/contentflow/pkg/contentflow/journal"
	"github.com/randalmurphal/contentflow/pkg/contentflow/llm"
	"github.com/randalmurphal/contentflow/pkg/contentflow/observability"
	"github.com/randalmurphal/contentflow/pkg/contentflow/prompt"
)

// Exit codes.
const (
	exitOK      = 0
	exitFailed  = 1
	exitUsage   = 2
	exitAborted = 130
)

const serviceName = "contentflow"

func main() {
	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	code := run(ctx, os.Args[1:], os.Stdin, os.Stdout, os.Stderr)
	stop()
	os.Exit(code)
}

type flags struct {
	input    string
	text     string
	config   string
	envFile  string
	provider string
	out      string
	maxSteps int
	journal  string
	report   string
	runID    string
}

func parseFlags(args []string, stderr io.Writer) (*flags, error) {
	fs := flag.NewFlagSet("contentflow", flag.ContinueOnError)
	fs.SetOutput(stderr)

	f := &flags{}
	fs.StringVar(&f.input, "input", "", `product file: a JSON record or raw text ("-" for stdin)`)
	fs.StringVar(&f.text, "text", "", "raw product description")
	fs.StringVar(&f.config, "config", "", "YAML or JSON config file")
	fs.StringVar(&f.envFile, "env-file", ".env", "dotenv file loaded before reading the environment")
	fs.StringVar(&f.provider, "provider", "", "LLM provider: gemini, openai, anthropic, or mock")
	fs.StringVar(&f.out, "out", "", "output directory for generated pages")
	fs.IntVar(&f.maxSteps, "max-steps", 0, "maximum worker dispatches")
	fs.StringVar(&f.journal, "journal", "", "SQLite journal path")
	fs.StringVar(&f.report, "report", "", "write a Markdown run report to this path")
	fs.StringVar(&f.runID, "run-id", "", "run identifier (generated if empty)")

	if err := fs.Parse(args); err != nil {
		return nil, err
	}
	if f.input == "" && f.text == "" {
		return nil, errors.New("one of -input or -text is required")
	}
	if f.input != "" && f.text != "" {
		return nil, errors.New("-input and -text are mutually exclusive")
	}
	return f, nil
}

// loadSettings resolves settings from env, config file, and flags, in that order.
func loadSettings(f *flags) (*config.Settings, error) {
	settings, err := config.LoadSettings(f.envFile)
	if err != nil {
		return nil, err
	}

	if f.config != "" {
		cfg, err := config.FromFile(f.config)
		if err != nil {
			return nil, err
		}
		settings.Apply(cfg)
	}

	if f.provider != "" {
		settings.Provider = f.provider
	}
	if f.out != "" {
		settings.OutputDir = f.out
	}
	if f.maxSteps > 0 {
		settings.MaxSteps = f.maxSteps
	}
	if f.journal != "" {
		settings.JournalPath = f.journal
	}

	if err := settings.Validate(); err != nil {
		return nil, fmt.Errorf("invalid configuration: %w", err)
	}
	return settings, nil
}

func newLogger(w io.Writer, settings *config.Settings) *slog.Logger {
	level, _ := config.ParseLevel(settings.LogLevel)
	return slog.New(slog.NewJSONHandler(w, &slog.HandlerOptions{Level: level})).
		With(slog.String("env", settings.Env))
}

func newClient(ctx context.Context, settings *config.Settings, logger *slog.Logger) (llm.Client, error) {
	provider := llm.Provider(settings.Provider)
	if provider == llm.ProviderMock {
		return demoClient(), nil
	}

	client, err := llm.New(ctx, provider, settings.APIKey(), settings.Model)
	if err != nil {
		return nil, err
	}
	return llm.WithRetry(client, cferrors.NewRetryConfig(cferrors.WithMaxAttempts(settings.MaxRetries)), logger), nil
}

func newRegistry(client llm.Client, prompts *prompt.Set, settings *config.Settings) *contentflow.Registry {
	opts := []agents.Option{
		agents.WithPrompts(prompts),
		agents.WithTemperature(settings.Temperature),
		agents.WithFAQAnswers(settings.AnswerFAQ),
	}
	return contentflow.NewRegistry(map[contentflow.Agent]contentflow.Worker{
		contentflow.AgentIngestor:   agents.NewIngestor(client, opts...),
		contentflow.AgentResearcher: agents.NewResearcher(client, opts...),
		contentflow.AgentDrafter:    agents.NewDrafter(client, opts...),
		contentflow.AgentReviewer:   contentflow.NewReviewer(contentflow.WithReviewMetrics(reviewMetrics(settings))),
	})
}

func reviewMetrics(settings *config.Settings) observability.MetricsRecorder {
	if settings.Telemetry {
		return observability.NewMetricsRecorder()
	}
	return observability.NoopMetrics{}
}

// openJournal returns the journal for the run. A report without a
// configured journal path is built from an in-memory journal.
func openJournal(settings *config.Settings, wantReport bool) (journal.Store, error) {
	switch {
	case settings.JournalPath != "":
		return journal.NewSQLiteStore(settings.JournalPath)
	case wantReport:
		return journal.NewMemoryStore(), nil
	default:
		return nil, nil
	}
}

func run(ctx context.Context, args []string, stdin io.Reader, stdout, stderr io.Writer) int {
	f, err := parseFlags(args, stderr)
	if err != nil {
		if !errors.Is(err, flag.ErrHelp) {
			fmt.Fprintln(stderr, "contentflow:", err)
		}
		return exitUsage
	}

	settings, err := loadSettings(f)
	if err != nil {
		fmt.Fprintln(stderr, "contentflow:", err)
		return exitUsage
	}

	logger := newLogger(stderr, settings)

	if settings.Telemetry {
		tel, err := observability.SetupTelemetry(ctx, settings.OTelEndpoint, serviceName)
		if err != nil {
			logger.Error("telemetry setup failed", slog.String("error", err.Error()))
			return exitFailed
		}
		defer func() {
			if counters, err := tel.Counters(context.Background()); err == nil {
				logger.Info("telemetry counters", slog.Any("counters", counters))
			}
			if err := tel.Shutdown(context.Background()); err != nil {
				logger.Warn("telemetry shutdown failed", slog.String("error", err.Error()))
			}
		}()
	}

	initial, err := readInput(f, stdin)
	if err != nil {
		logger.Error("read input failed", slog.String("error", err.Error()))
		return exitUsage
	}

	prompts, err := prompt.Load(settings.PromptsPath)
	if err != nil {
		logger.Error("load prompts failed", slog.String("error", err.Error()))
		return exitFailed
	}

	client, err := newClient(ctx, settings, logger)
	if err != nil {
		logger.Error("llm client setup failed", slog.String("error", err.Error()))
		return exitFailed
	}

	store, err := openJournal(settings, f.report != "")
	if err != nil {
		logger.Error("open journal failed", slog.String("error", err.Error()))
		return exitFailed
	}
	if store != nil {
		defer store.Close()
	}

	runCtx := contentflow.NewContext(ctx,
		contentflow.WithContextLogger(logger),
		contentflow.WithContextRunID(f.runID))
	runID := runCtx.RunID()

	runOpts := []contentflow.RunOption{
		contentflow.WithMaxSteps(settings.MaxSteps),
		contentflow.WithMetrics(settings.Telemetry),
		contentflow.WithTracing(settings.Telemetry),
	}
	if store != nil {
		runOpts = append(runOpts, contentflow.WithJournal(store))
	}

	orch := contentflow.NewOrchestrator(contentflow.NewSupervisor(), newRegistry(client, prompts, settings))
	final, runErr := orch.Run(runCtx, initial, runOpts...)

	var cancelled *contentflow.CancellationError
	if runErr != nil && !errors.As(runErr, &cancelled) {
		logger.Error("run failed", slog.String("error", runErr.Error()))
		return exitFailed
	}

	exporter := artifact.NewExporter(artifact.Config{Dir: settings.OutputDir, Logger: logger})
	paths, err := exporter.Export(final)
	if err != nil {
		logger.Error("export failed", slog.String("error", err.Error()))
		return exitFailed
	}
	summaryPath, err := exporter.WriteSummary(runID, final)
	if err != nil {
		logger.Error("write summary failed", slog.String("error", err.Error()))
		return exitFailed
	}

	if f.report != "" {
		if err := writeReport(f.report, store, runID); err != nil {
			logger.Warn("write report failed", slog.String("error", err.Error()))
		}
	}

	outcome := contentflow.Classify(final)
	printSummary(stdout, runID, outcome, final, append(paths, summaryPath))

	switch {
	case cancelled != nil:
		return exitAborted
	case outcome == contentflow.OutcomeSuccess:
		return exitOK
	default:
		return exitFailed
	}
}

func writeReport(path string, store journal.Store, runID string) error {
	entries, err := journal.ReadRun(store, runID)
	if err != nil {
		return err
	}
	out, err := os.Create(path)
	if err != nil {
		return err
	}
	if err := journal.RenderReport(out, entries); err != nil {
		out.Close()
		return err
	}
	return out.Close()
}

func printSummary(w io.Writer, runID string, outcome contentflow.Outcome, final contentflow.State, paths []string) {
	fmt.Fprintf(w, "run %s: %s\n", runID, outcome)
	for _, msg := range final.ErrorStrings() {
		fmt.Fprintf(w, "  error: %s\n", msg)
	}
	for _, p := range paths {
		fmt.Fprintf(w, "  wrote %s\n", p)
	}
}
