package app

import (
	"context"
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"time"

	"github.com/rs/zerolog/log"
	openai "github.com/sashabaranov/go-openai"

	"github.com/hyperifyio/wikidigest/internal/article"
	"github.com/hyperifyio/wikidigest/internal/fetch"
	"github.com/hyperifyio/wikidigest/internal/llm"
	"github.com/hyperifyio/wikidigest/internal/scrape"
	"github.com/hyperifyio/wikidigest/internal/summarize"
)

// ErrNoSummaries is returned when no section survived summarization. Per the
// exit code policy the run is unsuccessful and no digest file is written.
var ErrNoSummaries = errors.New("no summaries generated")

// App wires the fetcher, extractor, summarizer and formatter into one
// sequential pipeline: one article in, one Markdown digest out.
type App struct {
	cfg       Config
	fetcher   *fetch.Client
	extractor scrape.Extractor
	client    llm.Client
}

// New validates the configuration and builds the pipeline. Validation
// happens here so a missing credential fails before any network use.
func New(cfg Config) (*App, error) {
	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	fetchTimeout := cfg.FetchTimeout
	if fetchTimeout <= 0 {
		fetchTimeout = 30 * time.Second
	}
	a := &App{
		cfg: cfg,
		fetcher: &fetch.Client{
			UserAgent:         cfg.UserAgent,
			MaxAttempts:       3,
			PerRequestTimeout: fetchTimeout,
		},
		extractor: scrape.WikipediaExtractor{MinParagraphChars: cfg.MinParagraphChars},
		client:    llm.NewProvider(cfg.LLMAPIKey, cfg.LLMBaseURL),
	}
	return a, nil
}

// Run executes the pipeline end to end. Partial section failures degrade to
// omissions; only a fully empty result or an infrastructure failure is an
// error.
func (a *App) Run(ctx context.Context) error {
	start := time.Now()

	a.preflight(ctx)

	// 1) Fetch and extract
	log.Info().Str("url", a.cfg.URL).Msg("fetching article")
	page, err := a.fetcher.Get(ctx, a.cfg.URL)
	if err != nil {
		return fmt.Errorf("fetch article: %w", err)
	}
	doc, err := a.extractor.Extract(page)
	if err != nil {
		return fmt.Errorf("extract content: %w", err)
	}
	log.Info().Int("sections", doc.Len()).Msg("extracted sections")

	// 2) Intermediate artifacts
	if err := a.writeArtifacts(doc); err != nil {
		return err
	}

	// 3) Summarize all sections in order
	summarizer := summarize.New(a.client, summarize.Options{
		Model:           a.cfg.LLMModel,
		MinSectionChars: a.cfg.MinSectionChars,
		MaxAttempts:     a.cfg.MaxAttempts,
		BaseDelay:       a.cfg.BaseDelay,
		AttemptTimeout:  a.cfg.AttemptTimeout,
	})
	orch := summarize.NewOrchestrator(summarizer, a.cfg.SectionPause)
	summaries, stats, err := orch.Process(ctx, doc)
	if err != nil {
		return fmt.Errorf("summarize sections: %w", err)
	}

	// 4) Render and write the digest; zero survivors means no output file.
	if len(summaries) == 0 {
		log.Warn().Int("sections", stats.Total).Msg("no sections were successfully summarized")
		return ErrNoSummaries
	}
	markdown := article.RenderMarkdown(summaries)
	if err := writeFile(a.cfg.OutputPath, []byte(markdown)); err != nil {
		return fmt.Errorf("write digest: %w", err)
	}
	if a.cfg.EnablePDF {
		pdfPath := a.cfg.OutputPDF
		if pdfPath == "" {
			pdfPath = replaceExt(a.cfg.OutputPath, ".pdf")
		}
		if err := writeSimplePDF(markdown, pdfPath); err != nil {
			// PDF is a convenience artifact; a render failure does not void
			// the Markdown digest.
			log.Warn().Err(err).Str("path", pdfPath).Msg("PDF render failed")
		} else {
			log.Info().Str("path", pdfPath).Msg("wrote PDF digest")
		}
	}

	log.Info().
		Str("out", a.cfg.OutputPath).
		Int("sections", stats.Total).
		Int("summarized", stats.Summarized).
		Int("tooShort", stats.TooShort).
		Int("failed", stats.Failed).
		Dur("elapsed", time.Since(start)).
		Msg("digest complete")
	return nil
}

// preflight lists models on backends that support it and warns when the
// configured model is not advertised. Best effort: the summarizer surfaces
// real failures per section, so an unreachable listing never blocks the run.
func (a *App) preflight(ctx context.Context) {
	lister, ok := a.client.(llm.ModelLister)
	if !ok {
		return
	}
	ctx, cancel := context.WithTimeout(ctx, 5*time.Second)
	defer cancel()
	models, err := lister.ListModels(ctx)
	if err != nil {
		log.Warn().Err(err).Msg("model list failed; continuing")
		return
	}
	if len(models.Models) == 0 {
		log.Warn().Msg("backend returned zero models")
		return
	}
	log.Debug().Int("count", len(models.Models)).Msg("models available")
	if a.cfg.LLMModel != "" && !modelAdvertised(models, a.cfg.LLMModel) {
		log.Warn().Str("model", a.cfg.LLMModel).Msg("configured model not advertised by backend")
	}
}

func modelAdvertised(models openai.ModelsList, id string) bool {
	for _, m := range models.Models {
		if m.ID == id {
			return true
		}
	}
	return false
}

func writeFile(path string, data []byte) error {
	if dir := filepath.Dir(path); dir != "." && dir != "" {
		if err := os.MkdirAll(dir, 0o755); err != nil {
			return fmt.Errorf("mkdir %s: %w", dir, err)
		}
	}
	return os.WriteFile(path, data, 0o644)
}

func replaceExt(path, ext string) string {
	old := filepath.Ext(path)
	return path[:len(path)-len(old)] + ext
}
