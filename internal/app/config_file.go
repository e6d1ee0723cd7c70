package app

import (
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"
	"strings"
	"time"

	yaml "gopkg.in/yaml.v3"
)

// FileConfig represents the single-file configuration schema. Nested
// sections map naturally to the CLI flags.
type FileConfig struct {
	URL     string `yaml:"url" json:"url"`
	Output  string `yaml:"output" json:"output"`
	DataDir string `yaml:"dataDir" json:"dataDir"`

	LLM struct {
		BaseURL string `yaml:"base" json:"base"`
		Model   string `yaml:"model" json:"model"`
		APIKey  string `yaml:"key" json:"key"`
	} `yaml:"llm" json:"llm"`

	Summarize struct {
		MinSectionChars int           `yaml:"minSectionChars" json:"minSectionChars"`
		MaxAttempts     int           `yaml:"maxAttempts" json:"maxAttempts"`
		BaseDelay       time.Duration `yaml:"baseDelay" json:"baseDelay"`
		SectionPause    time.Duration `yaml:"sectionPause" json:"sectionPause"`
		AttemptTimeout  time.Duration `yaml:"attemptTimeout" json:"attemptTimeout"`
	} `yaml:"summarize" json:"summarize"`

	Fetch struct {
		UserAgent string        `yaml:"userAgent" json:"userAgent"`
		Timeout   time.Duration `yaml:"timeout" json:"timeout"`
	} `yaml:"fetch" json:"fetch"`

	EnablePDF bool   `yaml:"enablePDF" json:"enablePDF"`
	OutputPDF string `yaml:"outputPDF" json:"outputPDF"`
	Verbose   bool   `yaml:"verbose" json:"verbose"`
}

// LoadConfigFile reads YAML or JSON into FileConfig, selecting the format
// by extension (.json decodes as JSON, everything else as YAML).
func LoadConfigFile(path string) (FileConfig, error) {
	var fc FileConfig
	b, err := os.ReadFile(path)
	if err != nil {
		return fc, fmt.Errorf("read config file: %w", err)
	}
	if strings.EqualFold(filepath.Ext(path), ".json") {
		if err := json.Unmarshal(b, &fc); err != nil {
			return fc, fmt.Errorf("parse JSON config: %w", err)
		}
		return fc, nil
	}
	if err := yaml.Unmarshal(b, &fc); err != nil {
		return fc, fmt.Errorf("parse YAML config: %w", err)
	}
	return fc, nil
}

// MergeFileConfig copies file-config values into unset cfg fields. Explicit
// flag values win over the file; the file wins over env defaults applied
// afterwards.
func MergeFileConfig(cfg *Config, fc FileConfig) {
	if cfg == nil {
		return
	}
	if cfg.URL == "" {
		cfg.URL = fc.URL
	}
	if cfg.OutputPath == "" {
		cfg.OutputPath = fc.Output
	}
	if cfg.DataDir == "" {
		cfg.DataDir = fc.DataDir
	}
	if cfg.LLMBaseURL == "" {
		cfg.LLMBaseURL = fc.LLM.BaseURL
	}
	if cfg.LLMModel == "" {
		cfg.LLMModel = fc.LLM.Model
	}
	if cfg.LLMAPIKey == "" {
		cfg.LLMAPIKey = fc.LLM.APIKey
	}
	if cfg.MinSectionChars == 0 {
		cfg.MinSectionChars = fc.Summarize.MinSectionChars
	}
	if cfg.MaxAttempts == 0 {
		cfg.MaxAttempts = fc.Summarize.MaxAttempts
	}
	if cfg.BaseDelay == 0 {
		cfg.BaseDelay = fc.Summarize.BaseDelay
	}
	if cfg.SectionPause == 0 {
		cfg.SectionPause = fc.Summarize.SectionPause
	}
	if cfg.AttemptTimeout == 0 {
		cfg.AttemptTimeout = fc.Summarize.AttemptTimeout
	}
	if cfg.UserAgent == "" {
		cfg.UserAgent = fc.Fetch.UserAgent
	}
	if cfg.FetchTimeout == 0 {
		cfg.FetchTimeout = fc.Fetch.Timeout
	}
	if !cfg.EnablePDF {
		cfg.EnablePDF = fc.EnablePDF
	}
	if cfg.OutputPDF == "" {
		cfg.OutputPDF = fc.OutputPDF
	}
	if !cfg.Verbose {
		cfg.Verbose = fc.Verbose
	}
}
