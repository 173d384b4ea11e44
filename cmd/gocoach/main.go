package main

import (
	"context"
	"errors"
	"flag"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/joho/godotenv"
	"github.com/rs/zerolog"
	"github.com/rs/zerolog/log"
	openai "github.com/sashabaranov/go-openai"

	"github.com/hyperifyio/gocoach/internal/chat"
	"github.com/hyperifyio/gocoach/internal/coach"
	"github.com/hyperifyio/gocoach/internal/fetch"
	"github.com/hyperifyio/gocoach/internal/httpapi"
	"github.com/hyperifyio/gocoach/internal/ratelimit"
	"github.com/hyperifyio/gocoach/internal/reasoner"
	"github.com/hyperifyio/gocoach/internal/session"
)

func main() {
	// Optional .env for local development; absence is not an error.
	_ = godotenv.Load()

	// Logging setup
	zerolog.TimeFieldFormat = time.RFC3339
	log.Logger = log.Output(zerolog.ConsoleWriter{Out: os.Stderr, TimeFormat: time.RFC3339})

	var (
		listenAddr     string
		configPath     string
		assistantID    string
		llmBaseURL     string
		llmKey         string
		chatModel      string
		maxFileMB      int
		minFileBytes   int64
		minTextChars   int
		fuzzyThreshold float64
		runTimeout     time.Duration
		ratePerMinute  int
		verbose        bool
	)

	flag.StringVar(&listenAddr, "listen", "", "HTTP listen address (default :8080)")
	flag.StringVar(&configPath, "config", "", "Path to optional YAML config file")
	flag.StringVar(&assistantID, "llm.assistant", "", "Assistant id used for document reasoning")
	flag.StringVar(&llmBaseURL, "llm.base", "", "OpenAI-compatible base URL")
	flag.StringVar(&llmKey, "llm.key", "", "API key for OpenAI-compatible server")
	flag.StringVar(&chatModel, "llm.chatModel", "", "Model name for the fast chat path")
	flag.IntVar(&maxFileMB, "max.fileMB", 0, "Maximum accepted upload size in MiB")
	flag.Int64Var(&minFileBytes, "min.fileBytes", 0, "Minimum accepted upload size in bytes")
	flag.IntVar(&minTextChars, "min.textChars", 0, "Minimum normalized characters for a PDF to count as searchable")
	flag.Float64Var(&fuzzyThreshold, "match.fuzzyThreshold", 0, "Similarity ratio required for a fuzzy page match")
	flag.DurationVar(&runTimeout, "run.timeout", 0, "Upper bound on one reasoning run (e.g. 90s)")
	flag.IntVar(&ratePerMinute, "rate.perMinute", 0, "Per-user requests per minute per mode")
	flag.BoolVar(&verbose, "v", false, "Verbose logging")
	flag.Parse()

	cfg := coach.Config{
		MinFileBytes:       minFileBytes,
		MaxFileMB:          maxFileMB,
		MinTextChars:       minTextChars,
		FuzzyThreshold:     fuzzyThreshold,
		AssistantID:        assistantID,
		LLMBaseURL:         llmBaseURL,
		LLMAPIKey:          llmKey,
		ChatModel:          chatModel,
		RunTimeout:         runTimeout,
		ListenAddr:         listenAddr,
		RateLimitPerMinute: ratePerMinute,
		Verbose:            verbose,
	}
	coach.ApplyEnvToConfig(&cfg)
	if configPath != "" {
		if err := coach.ApplyFileToConfig(&cfg, configPath); err != nil {
			log.Fatal().Err(err).Str("path", configPath).Msg("failed to load config file")
		}
	}
	cfg.FillDefaults()

	if cfg.Verbose {
		zerolog.SetGlobalLevel(zerolog.DebugLevel)
	} else {
		zerolog.SetGlobalLevel(zerolog.InfoLevel)
	}

	if cfg.LLMAPIKey == "" {
		log.Warn().Msg("no API key configured; upstream calls will be rejected")
	}
	if cfg.AssistantID == "" {
		log.Warn().Msg("no assistant id configured; document answers will fail upstream")
	}

	oc := openai.DefaultConfig(cfg.LLMAPIKey)
	if cfg.LLMBaseURL != "" {
		oc.BaseURL = cfg.LLMBaseURL
	}
	client := openai.NewClientWithConfig(oc)

	svc := coach.New(cfg, session.NewMemoryStore(),
		&fetch.Client{
			UserAgent:         "gocoach/1.0 (+https://github.com/hyperifyio/gocoach)",
			MaxAttempts:       3,
			PerRequestTimeout: 30 * time.Second,
			MaxBytes:          int64(cfg.MaxFileMB) << 20,
		},
		&reasoner.Assistant{
			Inner:       client,
			AssistantID: cfg.AssistantID,
			RunTimeout:  cfg.RunTimeout,
		})

	api := &httpapi.Server{
		Coach:   svc,
		Chat:    &chat.Client{Inner: client, Model: cfg.ChatModel},
		Limiter: ratelimit.New(cfg.RateLimitPerMinute, time.Minute),
	}

	srv := &http.Server{
		Addr:              cfg.ListenAddr,
		Handler:           api.Router(),
		ReadHeaderTimeout: 10 * time.Second,
	}

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()
	go func() {
		<-ctx.Done()
		shutdownCtx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
		defer cancel()
		if err := srv.Shutdown(shutdownCtx); err != nil {
			log.Warn().Err(err).Msg("shutdown did not complete cleanly")
		}
	}()

	log.Info().Str("addr", cfg.ListenAddr).Str("assistant", cfg.AssistantID).Msg("gocoach listening")
	if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
		log.Fatal().Err(err).Msg("server failed")
	}
	log.Info().Msg("gocoach stopped")
}
