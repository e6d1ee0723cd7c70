package summarize

import (
	"context"
	"time"

	"github.com/rs/zerolog/log"

	"github.com/hyperifyio/wikidigest/internal/article"
)

// Stats counts per-run orchestration outcomes.
type Stats struct {
	Total      int
	Summarized int
	TooShort   int
	Failed     int
}

// Orchestrator drives the Summarizer over every section of a document in
// order, sequentially. Sections that skip are dropped from the output and
// counted; they never abort the batch.
type Orchestrator struct {
	Summarizer *Summarizer
	// SectionPause is a courtesy delay between sections to stay under the
	// remote service's rate limits. Zero means 500ms; negative disables.
	SectionPause time.Duration
	// sleep is swapped in tests.
	sleep func(time.Duration)
}

// NewOrchestrator builds an Orchestrator with the default section pause.
func NewOrchestrator(s *Summarizer, pause time.Duration) *Orchestrator {
	return &Orchestrator{Summarizer: s, SectionPause: pause, sleep: time.Sleep}
}

// Process summarizes every section of the document, returning surviving
// summaries in document order. Zero survivors is not an error here; the
// caller decides what an empty result means. The only error returned is
// context cancellation, which aborts the batch immediately.
func (o *Orchestrator) Process(ctx context.Context, doc *article.Document) ([]article.SectionSummary, Stats, error) {
	sections := doc.Sections()
	stats := Stats{Total: len(sections)}
	summaries := make([]article.SectionSummary, 0, len(sections))

	for i, sec := range sections {
		if err := ctx.Err(); err != nil {
			return nil, stats, err
		}
		log.Info().Int("index", i+1).Int("total", stats.Total).Str("section", sec.Key).Msg("summarizing section")

		summary, reason, err := o.Summarizer.Summarize(ctx, sec.Key, sec.Paragraphs)
		if err != nil {
			return nil, stats, err
		}
		switch reason {
		case SkipNone:
			summaries = append(summaries, article.SectionSummary{Key: sec.Key, Summary: summary})
			stats.Summarized++
		case SkipTooShort:
			stats.TooShort++
		case SkipAPIFailure:
			stats.Failed++
			log.Warn().Str("section", sec.Key).Msg("section dropped after exhausting retries")
		}

		if i < len(sections)-1 {
			o.pause()
		}
	}

	log.Info().Int("total", stats.Total).Int("summarized", stats.Summarized).
		Int("tooShort", stats.TooShort).Int("failed", stats.Failed).
		Msg("summarization pass complete")
	return summaries, stats, nil
}

func (o *Orchestrator) pause() {
	d := o.SectionPause
	if d == 0 {
		d = 500 * time.Millisecond
	}
	if d < 0 {
		return
	}
	sleep := o.sleep
	if sleep == nil {
		sleep = time.Sleep
	}
	sleep(d)
}
