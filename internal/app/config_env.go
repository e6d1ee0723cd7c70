package app

import (
	"os"
	"strconv"
	"time"
)

// ApplyEnvToConfig populates unset fields of cfg from environment variables.
// Explicit cfg values take precedence over env. GROQ_API_KEY is the primary
// credential name; the generic LLM_* names are honoured so the binary also
// runs against any OpenAI-compatible endpoint.
func ApplyEnvToConfig(cfg *Config) {
	if cfg == nil {
		return
	}

	if cfg.LLMAPIKey == "" {
		v := os.Getenv("GROQ_API_KEY")
		if v == "" {
			v = os.Getenv("LLM_API_KEY")
		}
		cfg.LLMAPIKey = v
	}
	if cfg.LLMBaseURL == "" {
		cfg.LLMBaseURL = os.Getenv("LLM_BASE_URL")
	}
	if cfg.LLMModel == "" {
		cfg.LLMModel = os.Getenv("LLM_MODEL")
	}

	if cfg.DataDir == "" {
		cfg.DataDir = os.Getenv("DATA_DIR")
	}
	if cfg.UserAgent == "" {
		cfg.UserAgent = os.Getenv("USER_AGENT")
	}

	if cfg.MinSectionChars == 0 {
		if n, ok := envInt("MIN_SECTION_CHARS"); ok {
			cfg.MinSectionChars = n
		}
	}
	if cfg.MaxAttempts == 0 {
		if n, ok := envInt("MAX_ATTEMPTS"); ok {
			cfg.MaxAttempts = n
		}
	}
	if cfg.BaseDelay == 0 {
		if d, ok := envDuration("RETRY_BASE_DELAY"); ok {
			cfg.BaseDelay = d
		}
	}
	if cfg.SectionPause == 0 {
		if d, ok := envDuration("SECTION_PAUSE"); ok {
			cfg.SectionPause = d
		}
	}
}

func envInt(name string) (int, bool) {
	v := os.Getenv(name)
	if v == "" {
		return 0, false
	}
	n, err := strconv.Atoi(v)
	if err != nil || n <= 0 {
		return 0, false
	}
	return n, true
}

func envDuration(name string) (time.Duration, bool) {
	v := os.Getenv(name)
	if v == "" {
		return 0, false
	}
	d, err := time.ParseDuration(v)
	if err != nil || d <= 0 {
		return 0, false
	}
	return d, true
}
