package coach

import (
	"os"
	"strconv"
	"strings"
	"time"
)

// ApplyEnvToConfig populates unset fields of cfg from environment variables.
// Explicit cfg values take precedence over env.
func ApplyEnvToConfig(cfg *Config) {
	if cfg == nil {
		return
	}

	if cfg.AssistantID == "" {
		cfg.AssistantID = os.Getenv("COACH_ASSISTANT_ID")
	}
	if cfg.LLMBaseURL == "" {
		cfg.LLMBaseURL = os.Getenv("LLM_BASE_URL")
	}
	if cfg.LLMAPIKey == "" {
		v := os.Getenv("LLM_API_KEY")
		if v == "" {
			v = os.Getenv("OPENAI_API_KEY")
		}
		cfg.LLMAPIKey = v
	}
	if cfg.ChatModel == "" {
		cfg.ChatModel = os.Getenv("COACH_CHAT_MODEL")
	}
	if cfg.ListenAddr == "" {
		cfg.ListenAddr = os.Getenv("LISTEN_ADDR")
	}

	setInt := func(dst *int, envKey string) {
		if *dst != 0 {
			return
		}
		if n, err := strconv.Atoi(strings.TrimSpace(os.Getenv(envKey))); err == nil && n > 0 {
			*dst = n
		}
	}
	setInt(&cfg.MaxFileMB, "COACH_MAX_FILE_MB")
	setInt(&cfg.MinTextChars, "COACH_MIN_TEXT_CHARS")
	setInt(&cfg.ProbeWindow, "COACH_PROBE_WINDOW")
	setInt(&cfg.MaxQuoteLen, "COACH_MAX_QUOTE_LEN")
	setInt(&cfg.RateLimitPerMinute, "RATE_LIMIT_PER_MINUTE")

	if cfg.MinFileBytes == 0 {
		if n, err := strconv.ParseInt(strings.TrimSpace(os.Getenv("COACH_MIN_FILE_BYTES")), 10, 64); err == nil && n > 0 {
			cfg.MinFileBytes = n
		}
	}
	if cfg.FuzzyThreshold == 0 {
		if f, err := strconv.ParseFloat(strings.TrimSpace(os.Getenv("COACH_FUZZY_THRESHOLD")), 64); err == nil && f > 0 && f <= 1 {
			cfg.FuzzyThreshold = f
		}
	}
	if cfg.RunTimeout == 0 {
		if d, err := time.ParseDuration(strings.TrimSpace(os.Getenv("COACH_RUN_TIMEOUT"))); err == nil && d > 0 {
			cfg.RunTimeout = d
		}
	}

	if !cfg.Verbose {
		switch strings.ToLower(strings.TrimSpace(os.Getenv("VERBOSE"))) {
		case "1", "true", "yes", "on":
			cfg.Verbose = true
		}
	}
}
