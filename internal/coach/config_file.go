package coach

import (
	"fmt"
	"os"
	"time"

	yaml "gopkg.in/yaml.v3"
)

// FileConfig is the optional single-file configuration schema. Nested
// sections map naturally to the env and flag names.
type FileConfig struct {
	Listen string `yaml:"listen"`

	LLM struct {
		BaseURL   string `yaml:"base"`
		APIKey    string `yaml:"key"`
		Assistant string `yaml:"assistant"`
		ChatModel string `yaml:"chatModel"`
	} `yaml:"llm"`

	Limits struct {
		MinFileBytes int64 `yaml:"minFileBytes"`
		MaxFileMB    int   `yaml:"maxFileMB"`
		MinTextChars int   `yaml:"minTextChars"`
	} `yaml:"limits"`

	Match struct {
		FuzzyThreshold float64 `yaml:"fuzzyThreshold"`
		ProbeWindow    int     `yaml:"probeWindow"`
		MaxQuoteLen    int     `yaml:"maxQuoteLen"`
	} `yaml:"match"`

	// RunTimeout is a Go duration string, e.g. "90s".
	RunTimeout string `yaml:"runTimeout"`

	Rate struct {
		PerMinute int `yaml:"perMinute"`
	} `yaml:"rate"`

	Verbose bool `yaml:"verbose"`
}

// ApplyFileToConfig merges values from a YAML config file into unset cfg
// fields. Flags and env keep precedence; the file only fills gaps.
func ApplyFileToConfig(cfg *Config, path string) error {
	if cfg == nil || path == "" {
		return nil
	}
	raw, err := os.ReadFile(path)
	if err != nil {
		return fmt.Errorf("read config file: %w", err)
	}
	var fc FileConfig
	if err := yaml.Unmarshal(raw, &fc); err != nil {
		return fmt.Errorf("parse config file: %w", err)
	}

	if cfg.ListenAddr == "" {
		cfg.ListenAddr = fc.Listen
	}
	if cfg.LLMBaseURL == "" {
		cfg.LLMBaseURL = fc.LLM.BaseURL
	}
	if cfg.LLMAPIKey == "" {
		cfg.LLMAPIKey = fc.LLM.APIKey
	}
	if cfg.AssistantID == "" {
		cfg.AssistantID = fc.LLM.Assistant
	}
	if cfg.ChatModel == "" {
		cfg.ChatModel = fc.LLM.ChatModel
	}
	if cfg.MinFileBytes == 0 && fc.Limits.MinFileBytes > 0 {
		cfg.MinFileBytes = fc.Limits.MinFileBytes
	}
	if cfg.MaxFileMB == 0 && fc.Limits.MaxFileMB > 0 {
		cfg.MaxFileMB = fc.Limits.MaxFileMB
	}
	if cfg.MinTextChars == 0 && fc.Limits.MinTextChars > 0 {
		cfg.MinTextChars = fc.Limits.MinTextChars
	}
	if cfg.FuzzyThreshold == 0 && fc.Match.FuzzyThreshold > 0 {
		cfg.FuzzyThreshold = fc.Match.FuzzyThreshold
	}
	if cfg.ProbeWindow == 0 && fc.Match.ProbeWindow > 0 {
		cfg.ProbeWindow = fc.Match.ProbeWindow
	}
	if cfg.MaxQuoteLen == 0 && fc.Match.MaxQuoteLen > 0 {
		cfg.MaxQuoteLen = fc.Match.MaxQuoteLen
	}
	if cfg.RunTimeout == 0 && fc.RunTimeout != "" {
		d, err := time.ParseDuration(fc.RunTimeout)
		if err != nil {
			return fmt.Errorf("parse runTimeout: %w", err)
		}
		cfg.RunTimeout = d
	}
	if cfg.RateLimitPerMinute == 0 && fc.Rate.PerMinute > 0 {
		cfg.RateLimitPerMinute = fc.Rate.PerMinute
	}
	if fc.Verbose {
		cfg.Verbose = true
	}
	return nil
}
