package summarize

import (
	"context"
	"errors"
	"strings"
	"time"

	"github.com/rs/zerolog/log"
	openai "github.com/sashabaranov/go-openai"

	"github.com/hyperifyio/wikidigest/internal/llm"
)

// SkipReason enumerates why a section was omitted from the output.
type SkipReason int

const (
	// SkipNone means the section was summarized.
	SkipNone SkipReason = iota
	// SkipTooShort means the concatenated text was below the minimum length.
	SkipTooShort
	// SkipAPIFailure means every completion attempt failed.
	SkipAPIFailure
)

func (r SkipReason) String() string {
	switch r {
	case SkipNone:
		return "none"
	case SkipTooShort:
		return "too short"
	case SkipAPIFailure:
		return "api failure"
	default:
		return "unknown"
	}
}

// callOutcome classifies a single completion attempt so the retry loop can
// distinguish retryable from terminal results without inspecting messages.
type callOutcome int

const (
	outcomeOK callOutcome = iota
	outcomeRateLimited
	outcomeTransient
	outcomeFatal
)

const systemPrompt = "You are a helpful summarizer. Provide concise, accurate summaries that capture the key information and main points."

// Options configures a Summarizer. Zero fields take defaults so tests can
// vary single knobs.
type Options struct {
	// Model names the completion model. Empty selects llm.DefaultModel.
	Model string
	// MinSectionChars is the shortest concatenated section text that gets
	// sent to the model. Zero means 50.
	MinSectionChars int
	// MaxAttempts bounds completion attempts per section. Zero means 3.
	MaxAttempts int
	// BaseDelay seeds the exponential backoff (BaseDelay × 2^attempt).
	// Zero means 1s.
	BaseDelay time.Duration
	// AttemptTimeout bounds each completion attempt. Zero means 30s.
	AttemptTimeout time.Duration
	// Sampling parameters. Zero values select 0.3, 200 and 0.9.
	Temperature float32
	MaxTokens   int
	TopP        float32
}

func (o Options) withDefaults() Options {
	if o.Model == "" {
		o.Model = llm.DefaultModel
	}
	if o.MinSectionChars <= 0 {
		o.MinSectionChars = 50
	}
	if o.MaxAttempts <= 0 {
		o.MaxAttempts = 3
	}
	if o.BaseDelay <= 0 {
		o.BaseDelay = time.Second
	}
	if o.AttemptTimeout <= 0 {
		o.AttemptTimeout = 30 * time.Second
	}
	if o.Temperature == 0 {
		o.Temperature = 0.3
	}
	if o.MaxTokens <= 0 {
		o.MaxTokens = 200
	}
	if o.TopP == 0 {
		o.TopP = 0.9
	}
	return o
}

// Summarizer produces a short summary of one section's text via a chat
// completion call, retrying transient failures with exponential backoff.
type Summarizer struct {
	client llm.Client
	opts   Options
	// sleep is swapped in tests for deterministic backoff assertions.
	sleep func(time.Duration)
}

// New builds a Summarizer over the given client with defaulted options.
func New(client llm.Client, opts Options) *Summarizer {
	return &Summarizer{client: client, opts: opts.withDefaults(), sleep: time.Sleep}
}

// Summarize condenses a section's paragraphs into a few sentences. A skipped
// section is not an error: the returned error is non-nil only when the
// context is canceled, which aborts the whole batch.
func (s *Summarizer) Summarize(ctx context.Context, key string, paragraphs []string) (string, SkipReason, error) {
	text := strings.TrimSpace(strings.Join(paragraphs, "\n\n"))
	if len(text) < s.opts.MinSectionChars {
		log.Debug().Str("section", key).Int("chars", len(text)).Msg("section below minimum length, skipping")
		return "", SkipTooShort, nil
	}

	req := openai.ChatCompletionRequest{
		Model: s.opts.Model,
		Messages: []openai.ChatCompletionMessage{
			{Role: openai.ChatMessageRoleSystem, Content: systemPrompt},
			{Role: openai.ChatMessageRoleUser, Content: userPrompt(text)},
		},
		Temperature: s.opts.Temperature,
		MaxTokens:   s.opts.MaxTokens,
		TopP:        s.opts.TopP,
		N:           1,
	}

	for attempt := 0; attempt < s.opts.MaxAttempts; attempt++ {
		summary, outcome, cause := s.tryOnce(ctx, req)
		switch outcome {
		case outcomeOK:
			return summary, SkipNone, nil
		case outcomeFatal:
			return "", SkipAPIFailure, cause
		case outcomeRateLimited:
			log.Warn().Str("section", key).Int("attempt", attempt+1).Msg("rate limited, backing off")
		case outcomeTransient:
			log.Warn().Str("section", key).Int("attempt", attempt+1).Err(cause).Msg("completion attempt failed")
		}
		if attempt < s.opts.MaxAttempts-1 {
			s.sleep(s.backoff(attempt))
		}
	}
	return "", SkipAPIFailure, nil
}

// tryOnce performs a single bounded completion attempt and classifies it.
func (s *Summarizer) tryOnce(ctx context.Context, req openai.ChatCompletionRequest) (string, callOutcome, error) {
	attemptCtx, cancel := context.WithTimeout(ctx, s.opts.AttemptTimeout)
	defer cancel()

	resp, err := s.client.CreateChatCompletion(attemptCtx, req)
	if err != nil {
		// Parent cancellation is terminal; an expired attempt deadline is a
		// timeout and retryable.
		if ctx.Err() != nil {
			return "", outcomeFatal, ctx.Err()
		}
		var apiErr *openai.APIError
		if errors.As(err, &apiErr) && apiErr.HTTPStatusCode == 429 {
			return "", outcomeRateLimited, err
		}
		return "", outcomeTransient, err
	}
	if len(resp.Choices) == 0 {
		return "", outcomeTransient, errors.New("empty choices in response")
	}
	out := strings.TrimSpace(resp.Choices[0].Message.Content)
	if out == "" {
		return "", outcomeTransient, errors.New("empty completion content")
	}
	return out, outcomeOK, nil
}

func (s *Summarizer) backoff(attempt int) time.Duration {
	return s.opts.BaseDelay * time.Duration(1<<uint(attempt))
}

func userPrompt(text string) string {
	var b strings.Builder
	b.WriteString("Summarize the following text in 2-4 concise, coherent sentences. Focus on the main points and key information:\n\n")
	b.WriteString(text)
	return b.String()
}
