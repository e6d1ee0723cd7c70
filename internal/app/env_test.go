package app

import (
	"os"
	"path/filepath"
	"testing"
)

func TestLoadEnvFiles_LoadsKeyValues(t *testing.T) {
	t.Setenv("FOO", "")
	t.Setenv("BAR", "")

	dir := t.TempDir()
	envPath := filepath.Join(dir, ".env.test")
	content := "\n# sample dotenv file\nFOO=alpha\nBAR=\"beta\"\n"
	if err := os.WriteFile(envPath, []byte(content), 0o600); err != nil {
		t.Fatalf("write dotenv: %v", err)
	}

	if err := LoadEnvFiles(envPath); err != nil {
		t.Fatalf("LoadEnvFiles error: %v", err)
	}

	if got := os.Getenv("FOO"); got != "alpha" {
		t.Fatalf("FOO=%q, want alpha", got)
	}
	if got := os.Getenv("BAR"); got != "beta" {
		t.Fatalf("BAR=%q, want beta (quotes stripped)", got)
	}
}

// Later files override earlier ones when loading multiple dotenv files.
func TestLoadEnvFiles_OverrideOrder(t *testing.T) {
	t.Setenv("K", "")
	dir := t.TempDir()
	a := filepath.Join(dir, ".env.a")
	b := filepath.Join(dir, ".env.b")
	if err := os.WriteFile(a, []byte("K=first\n"), 0o600); err != nil {
		t.Fatalf("write a: %v", err)
	}
	if err := os.WriteFile(b, []byte("K=second\n"), 0o600); err != nil {
		t.Fatalf("write b: %v", err)
	}

	if err := LoadEnvFiles(a, b); err != nil {
		t.Fatalf("LoadEnvFiles error: %v", err)
	}
	if got := os.Getenv("K"); got != "second" {
		t.Fatalf("override order failed: got %q, want second", got)
	}
}

func TestLoadEnvFiles_QuoteHandling(t *testing.T) {
	t.Setenv("SINGLE", "")
	t.Setenv("MISMATCH", "")

	dir := t.TempDir()
	envPath := filepath.Join(dir, ".env")
	content := "SINGLE='alpha'\nMISMATCH=\"beta'\n"
	if err := os.WriteFile(envPath, []byte(content), 0o600); err != nil {
		t.Fatalf("write dotenv: %v", err)
	}
	if err := LoadEnvFiles(envPath); err != nil {
		t.Fatalf("LoadEnvFiles error: %v", err)
	}
	if got := os.Getenv("SINGLE"); got != "alpha" {
		t.Fatalf("SINGLE=%q, want single quotes stripped", got)
	}
	if got := os.Getenv("MISMATCH"); got != "\"beta'" {
		t.Fatalf("MISMATCH=%q, mismatched quotes must be kept", got)
	}
}

func TestLoadEnvFiles_MissingFileIsNotFatal(t *testing.T) {
	if err := LoadEnvFiles(filepath.Join(t.TempDir(), "absent.env")); err != nil {
		t.Fatalf("missing dotenv should be skipped, got %v", err)
	}
}

func TestApplyEnvToConfig_CredentialPrecedence(t *testing.T) {
	t.Setenv("GROQ_API_KEY", "groq-key")
	t.Setenv("LLM_API_KEY", "generic-key")

	var cfg Config
	ApplyEnvToConfig(&cfg)
	if cfg.LLMAPIKey != "groq-key" {
		t.Fatalf("expected GROQ_API_KEY to win, got %q", cfg.LLMAPIKey)
	}

	t.Setenv("GROQ_API_KEY", "")
	cfg = Config{}
	ApplyEnvToConfig(&cfg)
	if cfg.LLMAPIKey != "generic-key" {
		t.Fatalf("expected LLM_API_KEY fallback, got %q", cfg.LLMAPIKey)
	}

	cfg = Config{LLMAPIKey: "explicit"}
	ApplyEnvToConfig(&cfg)
	if cfg.LLMAPIKey != "explicit" {
		t.Fatalf("explicit value must win over env, got %q", cfg.LLMAPIKey)
	}
}

func TestApplyEnvToConfig_Knobs(t *testing.T) {
	t.Setenv("LLM_MODEL", "env-model")
	t.Setenv("MIN_SECTION_CHARS", "80")
	t.Setenv("RETRY_BASE_DELAY", "2s")

	var cfg Config
	ApplyEnvToConfig(&cfg)
	if cfg.LLMModel != "env-model" {
		t.Fatalf("LLMModel=%q", cfg.LLMModel)
	}
	if cfg.MinSectionChars != 80 {
		t.Fatalf("MinSectionChars=%d", cfg.MinSectionChars)
	}
	if cfg.BaseDelay.Seconds() != 2 {
		t.Fatalf("BaseDelay=%v", cfg.BaseDelay)
	}
}
