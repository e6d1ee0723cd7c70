package summarize

import (
	"context"
	"errors"
	"strings"
	"testing"
	"time"

	openai "github.com/sashabaranov/go-openai"
)

const longSection = "Alexander III of Macedon succeeded his father Philip II to the throne in 336 BC at the age of twenty, and spent most of his ruling years conducting a lengthy military campaign through Western Asia and Egypt."

// scriptedClient returns one scripted result per call, in order, repeating
// the last entry when the script runs out.
type scriptedClient struct {
	script []scriptedCall
	calls  int
	reqs   []openai.ChatCompletionRequest
}

type scriptedCall struct {
	content string
	err     error
}

func (c *scriptedClient) CreateChatCompletion(ctx context.Context, req openai.ChatCompletionRequest) (openai.ChatCompletionResponse, error) {
	c.reqs = append(c.reqs, req)
	i := c.calls
	if i >= len(c.script) {
		i = len(c.script) - 1
	}
	c.calls++
	step := c.script[i]
	if step.err != nil {
		return openai.ChatCompletionResponse{}, step.err
	}
	return openai.ChatCompletionResponse{
		Choices: []openai.ChatCompletionChoice{{
			Message: openai.ChatCompletionMessage{Role: openai.ChatMessageRoleAssistant, Content: step.content},
		}},
	}, nil
}

func rateLimitErr() error {
	return &openai.APIError{HTTPStatusCode: 429, Message: "rate limited"}
}

func serverErr() error {
	return &openai.APIError{HTTPStatusCode: 500, Message: "internal error"}
}

func newTestSummarizer(c *scriptedClient, opts Options) (*Summarizer, *[]time.Duration) {
	s := New(c, opts)
	var delays []time.Duration
	s.sleep = func(d time.Duration) { delays = append(delays, d) }
	return s, &delays
}

func TestSummarize_TooShortSkipsWithoutNetworkCall(t *testing.T) {
	c := &scriptedClient{script: []scriptedCall{{content: "should not be called"}}}
	s, _ := newTestSummarizer(c, Options{})

	out, reason, err := s.Summarize(context.Background(), "Stub", []string{"Short."})
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if reason != SkipTooShort || out != "" {
		t.Fatalf("expected too-short skip, got reason=%v out=%q", reason, out)
	}
	if c.calls != 0 {
		t.Fatalf("expected zero network calls, got %d", c.calls)
	}
}

func TestSummarize_RateLimitedTwiceThenSuccess(t *testing.T) {
	c := &scriptedClient{script: []scriptedCall{
		{err: rateLimitErr()},
		{err: rateLimitErr()},
		{content: " A fine summary. "},
	}}
	s, delays := newTestSummarizer(c, Options{BaseDelay: time.Second})

	out, reason, err := s.Summarize(context.Background(), "History", []string{longSection})
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if reason != SkipNone || out != "A fine summary." {
		t.Fatalf("expected trimmed summary, got reason=%v out=%q", reason, out)
	}
	if c.calls != 3 {
		t.Fatalf("expected exactly 3 calls, got %d", c.calls)
	}
	want := []time.Duration{1 * time.Second, 2 * time.Second}
	if len(*delays) != len(want) {
		t.Fatalf("expected %d backoff sleeps, got %v", len(want), *delays)
	}
	for i := range want {
		if (*delays)[i] != want[i] {
			t.Fatalf("backoff %d: got %v want %v", i, (*delays)[i], want[i])
		}
	}
}

func TestSummarize_PersistentServerErrorExhaustsRetries(t *testing.T) {
	c := &scriptedClient{script: []scriptedCall{{err: serverErr()}}}
	s, _ := newTestSummarizer(c, Options{MaxAttempts: 3})

	out, reason, err := s.Summarize(context.Background(), "History", []string{longSection})
	if err != nil {
		t.Fatalf("skip must not surface as error, got %v", err)
	}
	if reason != SkipAPIFailure || out != "" {
		t.Fatalf("expected api-failure skip, got reason=%v out=%q", reason, out)
	}
	if c.calls != 3 {
		t.Fatalf("expected exactly 3 calls, got %d", c.calls)
	}
}

func TestSummarize_TransportErrorRetries(t *testing.T) {
	c := &scriptedClient{script: []scriptedCall{
		{err: errors.New("connection reset by peer")},
		{content: "Recovered summary."},
	}}
	s, _ := newTestSummarizer(c, Options{})

	out, reason, err := s.Summarize(context.Background(), "History", []string{longSection})
	if err != nil || reason != SkipNone {
		t.Fatalf("expected recovery, got reason=%v err=%v", reason, err)
	}
	if out != "Recovered summary." {
		t.Fatalf("unexpected summary: %q", out)
	}
	if c.calls != 2 {
		t.Fatalf("expected 2 calls, got %d", c.calls)
	}
}

func TestSummarize_EmptyChoicesRetries(t *testing.T) {
	c := &scriptedClient{script: []scriptedCall{{content: ""}}}
	s, _ := newTestSummarizer(c, Options{MaxAttempts: 2})

	_, reason, err := s.Summarize(context.Background(), "History", []string{longSection})
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if reason != SkipAPIFailure || c.calls != 2 {
		t.Fatalf("empty content should retry then skip; reason=%v calls=%d", reason, c.calls)
	}
}

func TestSummarize_RequestShape(t *testing.T) {
	c := &scriptedClient{script: []scriptedCall{{content: "ok summary"}}}
	s, _ := newTestSummarizer(c, Options{Model: "test-model"})

	if _, _, err := s.Summarize(context.Background(), "History", []string{longSection}); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	req := c.reqs[0]
	if req.Model != "test-model" {
		t.Fatalf("unexpected model: %q", req.Model)
	}
	if req.Temperature != 0.3 || req.MaxTokens != 200 || req.TopP != 0.9 {
		t.Fatalf("unexpected sampling params: %+v", req)
	}
	if len(req.Messages) != 2 || req.Messages[0].Role != openai.ChatMessageRoleSystem || req.Messages[1].Role != openai.ChatMessageRoleUser {
		t.Fatalf("unexpected message shape: %+v", req.Messages)
	}
	if !strings.Contains(req.Messages[1].Content, "2-4 concise, coherent sentences") {
		t.Fatalf("user prompt missing sentence target:\n%s", req.Messages[1].Content)
	}
	if !strings.Contains(req.Messages[1].Content, longSection) {
		t.Fatalf("user prompt missing section text")
	}
}

func TestSummarize_CanceledContextIsTerminal(t *testing.T) {
	ctx, cancel := context.WithCancel(context.Background())
	cancel()
	c := &scriptedClient{script: []scriptedCall{{err: ctx.Err()}}}
	s, _ := newTestSummarizer(c, Options{})

	_, _, err := s.Summarize(ctx, "History", []string{longSection})
	if !errors.Is(err, context.Canceled) {
		t.Fatalf("expected context cancellation to surface, got %v", err)
	}
	if c.calls != 1 {
		t.Fatalf("cancellation must not retry; got %d calls", c.calls)
	}
}
