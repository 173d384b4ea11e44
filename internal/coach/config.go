package coach

import (
	"time"

	"github.com/hyperifyio/gocoach/internal/locate"
	"github.com/hyperifyio/gocoach/internal/preflight"
	"github.com/hyperifyio/gocoach/internal/probe"
	"github.com/hyperifyio/gocoach/internal/ratelimit"
)

// Config holds runtime configuration for the mediator.
type Config struct {
	// Validation floors and ceiling
	MinFileBytes int64
	MaxFileMB    int
	MinTextChars int

	// Matching
	FuzzyThreshold float64
	ProbeWindow    int
	MaxQuoteLen    int

	// Reasoning service
	AssistantID string
	LLMBaseURL  string
	LLMAPIKey   string
	ChatModel   string
	RunTimeout  time.Duration

	// Host
	ListenAddr         string
	RateLimitPerMinute int
	Verbose            bool
}

// FillDefaults replaces any remaining zero fields with the defaults. Called
// after flags, env and the optional config file have all had their say.
func (c *Config) FillDefaults() {
	def := DefaultConfig()
	if c.MinFileBytes == 0 {
		c.MinFileBytes = def.MinFileBytes
	}
	if c.MaxFileMB == 0 {
		c.MaxFileMB = def.MaxFileMB
	}
	if c.MinTextChars == 0 {
		c.MinTextChars = def.MinTextChars
	}
	if c.FuzzyThreshold == 0 {
		c.FuzzyThreshold = def.FuzzyThreshold
	}
	if c.ProbeWindow == 0 {
		c.ProbeWindow = def.ProbeWindow
	}
	if c.MaxQuoteLen == 0 {
		c.MaxQuoteLen = def.MaxQuoteLen
	}
	if c.RunTimeout == 0 {
		c.RunTimeout = def.RunTimeout
	}
	if c.ListenAddr == "" {
		c.ListenAddr = def.ListenAddr
	}
	if c.RateLimitPerMinute == 0 {
		c.RateLimitPerMinute = def.RateLimitPerMinute
	}
}

// DefaultConfig returns the observed production defaults. The floors and the
// fuzzy threshold have no documented derivation; they are preserved as
// defaults, not assumed optimal.
func DefaultConfig() Config {
	return Config{
		MinFileBytes:       preflight.DefaultMinFileBytes,
		MaxFileMB:          15,
		MinTextChars:       preflight.DefaultMinTextChars,
		FuzzyThreshold:     locate.DefaultThreshold,
		ProbeWindow:        probe.DefaultWindow,
		MaxQuoteLen:        140,
		RunTimeout:         90 * time.Second,
		ListenAddr:         ":8080",
		RateLimitPerMinute: ratelimit.DefaultLimit,
	}
}
