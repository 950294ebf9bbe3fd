package main

import (
	"context"
	"encoding/json"
	"flag"
	"fmt"
	"io"
	"os"
	"time"

	"github.com/rs/zerolog"

	"github.com/dvloznov/finance-dashboard/internal/advisor"
	"github.com/dvloznov/finance-dashboard/internal/analytics"
	"github.com/dvloznov/finance-dashboard/internal/config"
	"github.com/dvloznov/finance-dashboard/internal/domain"
	"github.com/dvloznov/finance-dashboard/internal/gcs"
	"github.com/dvloznov/finance-dashboard/internal/gemini"
	"github.com/dvloznov/finance-dashboard/internal/logger"
	"github.com/dvloznov/finance-dashboard/internal/pipeline"
	"github.com/dvloznov/finance-dashboard/internal/tabular"
)

func main() {
	cfg, err := config.Load()
	if err != nil {
		bootLog := logger.New()
		bootLog.Fatal().Err(err).Msg("Failed to load configuration")
	}

	log := logger.NewWithOptions(logger.Options{Level: cfg.LogLevel, Format: cfg.LogFormat, Out: os.Stderr})

	if len(os.Args) < 2 {
		printUsage()
		os.Exit(1)
	}

	switch os.Args[1] {
	case "parse":
		runParse(log)
	case "summary":
		runSummary(cfg, log)
	case "ask":
		runAsk(cfg, log)
	case "help", "-h", "--help":
		printUsage()
	default:
		fmt.Fprintf(os.Stderr, "Unknown command: %s\n\n", os.Args[1])
		printUsage()
		os.Exit(1)
	}
}

func printUsage() {
	fmt.Println("Finance Dashboard CLI")
	fmt.Println("\nUsage:")
	fmt.Println("  cli <command> [options]")
	fmt.Println("\nCommands:")
	fmt.Println("  parse     Split a CSV export into rows (no model calls)")
	fmt.Println("  summary   Reconcile a CSV export and print totals, categories and trends")
	fmt.Println("  ask       Ask the advisor a question about the transactions")
	fmt.Println("  help      Show this help message")
	fmt.Println("\nSources: -file PATH (use - for stdin), -gcs-uri gs://bucket/object, or -sample.")
	fmt.Println("\nRun 'cli <command> -h' for more information on a command.")
}

// source selects where transactions come from.
type source struct {
	file   string
	gcsURI string
	sample bool
	domain string
}

func (s *source) register(fs *flag.FlagSet, defaultHint domain.DomainHint) {
	fs.StringVar(&s.file, "file", "", "Path to a CSV export, or - for stdin")
	fs.StringVar(&s.gcsURI, "gcs-uri", "", "GCS URI of a CSV export")
	fs.BoolVar(&s.sample, "sample", false, "Use the built-in sample transactions")
	fs.StringVar(&s.domain, "domain", string(defaultHint), "Domain framing: personal or business")
}

func runParse(log zerolog.Logger) {
	fs := flag.NewFlagSet("parse", flag.ExitOnError)
	file := fs.String("file", "", "Path to a CSV export, or - for stdin")
	fs.Parse(os.Args[2:])

	if *file == "" {
		log.Fatal().Msg("Usage: cli parse -file PATH")
	}

	in, err := openInput(*file)
	if err != nil {
		log.Fatal().Err(err).Msg("Failed to open input")
	}
	defer in.Close()

	rows, err := tabular.ParseReader(in)
	if err != nil {
		log.Fatal().Err(err).Msg("Parse failed")
	}

	enc := json.NewEncoder(os.Stdout)
	enc.SetIndent("", "  ")
	if err := enc.Encode(rows); err != nil {
		log.Fatal().Err(err).Msg("Failed to write rows")
	}
}

func runSummary(cfg *config.Config, log zerolog.Logger) {
	fs := flag.NewFlagSet("summary", flag.ExitOnError)
	var src source
	src.register(fs, cfg.DomainHint)
	fs.Parse(os.Args[2:])

	hint, err := domain.ParseDomainHint(src.domain)
	if err != nil {
		log.Fatal().Err(err).Msg("Invalid -domain")
	}

	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Minute)
	defer cancel()
	ctx = logger.WithContext(ctx, log)

	txs, err := loadTransactions(ctx, cfg, log, src, hint)
	if err != nil {
		log.Fatal().Err(err).Msg("Failed to load transactions")
	}

	renderSummary(os.Stdout, analytics.Compute(txs, hint))
}

func runAsk(cfg *config.Config, log zerolog.Logger) {
	fs := flag.NewFlagSet("ask", flag.ExitOnError)
	var src source
	src.register(fs, cfg.DomainHint)
	question := fs.String("question", "", "Question for the advisor")
	fs.Parse(os.Args[2:])

	if *question == "" {
		log.Fatal().Msg("Usage: cli ask -question TEXT [-file PATH | -gcs-uri URI | -sample]")
	}

	hint, err := domain.ParseDomainHint(src.domain)
	if err != nil {
		log.Fatal().Err(err).Msg("Invalid -domain")
	}

	if err := cfg.Validate(); err != nil {
		log.Fatal().Err(err).Msg("Invalid configuration")
	}

	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Minute)
	defer cancel()
	ctx = logger.WithContext(ctx, log)

	txs, err := loadTransactions(ctx, cfg, log, src, hint)
	if err != nil {
		log.Fatal().Err(err).Msg("Failed to load transactions")
	}

	model, err := gemini.NewClient(ctx, cfg.GeminiAPIKey, cfg.ModelName)
	if err != nil {
		log.Fatal().Err(err).Msg("Failed to create Gemini client")
	}

	answer, err := advisor.New(model).Ask(ctx, txs, *question, hint)
	if err != nil {
		log.Fatal().Err(err).Msg("Advisor failed")
	}

	fmt.Println(answer)
}

// loadTransactions reconciles the selected source. With no source the
// sample data is used.
func loadTransactions(ctx context.Context, cfg *config.Config, log zerolog.Logger, src source, hint domain.DomainHint) ([]domain.Transaction, error) {
	var text string
	switch {
	case src.file != "":
		data, err := readFile(src.file)
		if err != nil {
			return nil, err
		}
		text = data
	case src.gcsURI != "":
		data, err := gcs.NewStorage(cfg.GCSCredentialsFile).Fetch(ctx, src.gcsURI)
		if err != nil {
			return nil, err
		}
		text = string(data)
	default:
		if !src.sample {
			log.Info().Msg("No source given, using sample transactions")
		}
		return domain.SampleTransactions(), nil
	}

	if err := cfg.Validate(); err != nil {
		return nil, err
	}

	model, err := gemini.NewClient(ctx, cfg.GeminiAPIKey, cfg.ModelName)
	if err != nil {
		return nil, err
	}

	return pipeline.ImportText(ctx, pipeline.NewReconciler(pipeline.NewGeminiColumnMapper(model)), text, hint)
}

// openInput opens path, or stdin for "-".
func openInput(path string) (io.ReadCloser, error) {
	if path == "-" {
		return io.NopCloser(os.Stdin), nil
	}
	f, err := os.Open(path)
	if err != nil {
		return nil, fmt.Errorf("open %q: %w", path, err)
	}
	return f, nil
}

func readFile(path string) (string, error) {
	in, err := openInput(path)
	if err != nil {
		return "", err
	}
	defer in.Close()

	data, err := io.ReadAll(in)
	if err != nil {
		return "", fmt.Errorf("read %q: %w", path, err)
	}
	return string(data), nil
}
