package app

import (
	"errors"
	"fmt"
	"net/url"
	"strings"
	"time"
)

// Config holds runtime configuration for one pipeline run.
type Config struct {
	// URL of the article to digest.
	URL string
	// OutputPath is the final Markdown digest location.
	OutputPath string
	// DataDir receives the intermediate artifacts (raw text and JSON dump).
	DataDir string

	// LLM
	LLMBaseURL string
	LLMModel   string
	LLMAPIKey  string

	// Summarization
	MinSectionChars int
	MaxAttempts     int
	BaseDelay       time.Duration
	SectionPause    time.Duration
	AttemptTimeout  time.Duration

	// Fetching
	UserAgent    string
	FetchTimeout time.Duration

	// Extraction
	MinParagraphChars int

	// Behavior
	EnablePDF bool
	OutputPDF string
	Verbose   bool
}

// ErrMissingAPIKey is the fatal configuration error for a run attempted
// without a credential. It is reported before any network activity.
var ErrMissingAPIKey = errors.New("missing API key: set GROQ_API_KEY (or LLM_API_KEY) in the environment or a .env file")

// Validate checks the parts of the configuration that must fail fast,
// before the pipeline touches the network.
func (c Config) Validate() error {
	if strings.TrimSpace(c.URL) == "" {
		return errors.New("missing article URL")
	}
	u, err := url.Parse(c.URL)
	if err != nil {
		return fmt.Errorf("invalid article URL: %w", err)
	}
	scheme := strings.ToLower(u.Scheme)
	if scheme != "http" && scheme != "https" {
		return fmt.Errorf("article URL must be http(s), got %q", c.URL)
	}
	if strings.TrimSpace(c.LLMAPIKey) == "" {
		return ErrMissingAPIKey
	}
	if strings.TrimSpace(c.OutputPath) == "" {
		return errors.New("missing output path")
	}
	return nil
}
