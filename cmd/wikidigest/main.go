package main

import (
	"context"
	"errors"
	"flag"
	"fmt"
	"os"
	"os/signal"
	"time"

	"github.com/rs/zerolog"
	"github.com/rs/zerolog/log"

	"github.com/hyperifyio/wikidigest/internal/app"
)

func main() {
	// Logging setup
	zerolog.TimeFieldFormat = time.RFC3339
	log.Logger = log.Output(zerolog.ConsoleWriter{Out: os.Stderr, TimeFormat: time.RFC3339})

	var (
		articleURL      string
		outputPath      string
		dataDir         string
		llmBaseURL      string
		llmModel        string
		llmKey          string
		minSectionChars int
		maxAttempts     int
		baseDelay       time.Duration
		sectionPause    time.Duration
		attemptTimeout  time.Duration
		fetchTimeout    time.Duration
		userAgent       string
		enablePDF       bool
		outputPDF       string
		configPath      string
		envFile         string
		verbose         bool
	)

	flag.StringVar(&articleURL, "url", "", "Article URL to digest (e.g. https://en.wikipedia.org/wiki/Alexander_the_Great)")
	flag.StringVar(&outputPath, "output", "data/summarized_output.md", "Path to write the Markdown digest")
	flag.StringVar(&dataDir, "data.dir", "data", "Directory for intermediate artifacts (raw text and JSON); empty disables")
	flag.StringVar(&llmBaseURL, "llm.base", "", "OpenAI-compatible base URL (default: Groq)")
	flag.StringVar(&llmModel, "llm.model", "", "Model name")
	flag.StringVar(&llmKey, "llm.key", "", "API key (default: GROQ_API_KEY or LLM_API_KEY from environment)")
	flag.IntVar(&minSectionChars, "min.sectionChars", 0, "Minimum section length in characters before it is summarized (default 50)")
	flag.IntVar(&maxAttempts, "max.attempts", 0, "Completion attempts per section (default 3)")
	flag.DurationVar(&baseDelay, "retry.baseDelay", 0, "Base delay for exponential backoff (default 1s)")
	flag.DurationVar(&sectionPause, "section.pause", 0, "Courtesy pause between sections (default 500ms)")
	flag.DurationVar(&attemptTimeout, "timeout.attempt", 0, "Timeout per completion attempt (default 30s)")
	flag.DurationVar(&fetchTimeout, "timeout.fetch", 0, "Timeout for the article fetch (default 30s)")
	flag.StringVar(&userAgent, "ua", "", "Custom User-Agent for the article fetch")
	flag.BoolVar(&enablePDF, "enable.pdf", false, "Also render the digest as PDF")
	flag.StringVar(&outputPDF, "output.pdf", "", "PDF output path (default: digest path with .pdf extension)")
	flag.StringVar(&configPath, "config", "", "Optional YAML or JSON config file")
	flag.StringVar(&envFile, "env.file", ".env", "Dotenv file to load before reading the environment")
	flag.BoolVar(&verbose, "v", false, "Verbose logging")
	flag.Parse()

	if err := app.LoadEnvFiles(envFile); err != nil {
		log.Error().Err(err).Str("path", envFile).Msg("load dotenv failed")
		os.Exit(1)
	}

	cfg := app.Config{
		URL:             articleURL,
		OutputPath:      outputPath,
		DataDir:         dataDir,
		LLMBaseURL:      llmBaseURL,
		LLMModel:        llmModel,
		LLMAPIKey:       llmKey,
		MinSectionChars: minSectionChars,
		MaxAttempts:     maxAttempts,
		BaseDelay:       baseDelay,
		SectionPause:    sectionPause,
		AttemptTimeout:  attemptTimeout,
		UserAgent:       userAgent,
		FetchTimeout:    fetchTimeout,
		EnablePDF:       enablePDF,
		OutputPDF:       outputPDF,
		Verbose:         verbose,
	}
	if configPath != "" {
		fc, err := app.LoadConfigFile(configPath)
		if err != nil {
			log.Error().Err(err).Str("path", configPath).Msg("load config failed")
			os.Exit(1)
		}
		app.MergeFileConfig(&cfg, fc)
	}
	app.ApplyEnvToConfig(&cfg)

	if cfg.Verbose {
		zerolog.SetGlobalLevel(zerolog.DebugLevel)
	} else {
		zerolog.SetGlobalLevel(zerolog.InfoLevel)
	}

	if err := run(cfg); err != nil {
		log.Error().Err(err).Msg("run failed")
		// Exit code policy: 2 when the pipeline completed but produced no
		// summaries, 1 for configuration and infrastructure failures.
		if errors.Is(err, app.ErrNoSummaries) {
			os.Exit(2)
		}
		os.Exit(1)
	}
}

func run(cfg app.Config) error {
	// Interrupt aborts the batch immediately; partial results are not
	// salvaged into the output.
	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt)
	defer stop()

	a, err := app.New(cfg)
	if err != nil {
		return fmt.Errorf("init app: %w", err)
	}
	return a.Run(ctx)
}
