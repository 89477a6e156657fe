package main

import (
	"io"
	"log/slog"
	"net/http"
	"os"
	"time"

	"github.com/spf13/cobra"

	"github.com/amishk599/talentlens/internal/adapter"
	"github.com/amishk599/talentlens/internal/config"
	"github.com/amishk599/talentlens/internal/model"
	"github.com/amishk599/talentlens/internal/notifier"
	"github.com/amishk599/talentlens/internal/ratelimit"
	"github.com/amishk599/talentlens/internal/retry"
)

var (
	cfgPath string
	debug   bool
)

var rootCmd = &cobra.Command{
	Use:   "talentlens",
	Short: "Screen resumes against a job description",
	Long: "TalentLens uploads resumes and a job description to the screening backend\n" +
		"and reports how well each resume fits the role.",
	SilenceUsage:  true,
	SilenceErrors: true,
}

func init() {
	rootCmd.PersistentFlags().StringVarP(&cfgPath, "config", "c", "", "path to config file (default: TALENTLENS_CONFIG env var or ./talentlens.yaml)")
	rootCmd.PersistentFlags().BoolVar(&debug, "debug", false, "enable debug logging")
}

// loadConfig resolves the config path and parses it.
// Priority: explicit path arg > TALENTLENS_CONFIG env var > "./talentlens.yaml" > built-in defaults.
func loadConfig(path string, logger *slog.Logger) (*config.Config, error) {
	cfg, used, err := config.Resolve(path)
	if err != nil {
		return nil, err
	}
	if used == "" {
		logger.Debug("no config file found, using defaults")
	} else {
		logger.Debug("config loaded", "path", used)
	}
	return cfg, nil
}

// setupLogger logs to stderr; stdout carries command output.
func setupLogger(dbg bool) *slog.Logger {
	logLevel := slog.LevelInfo
	if dbg {
		logLevel = slog.LevelDebug
	}
	return slog.New(slog.NewTextHandler(os.Stderr, &slog.HandlerOptions{Level: logLevel}))
}

func discardLogger() *slog.Logger {
	return slog.New(slog.NewTextHandler(io.Discard, nil))
}

// buildBackend wires the HTTP client with pacing and, when enabled, retries.
// Each retry attempt is paced like a first attempt.
func buildBackend(cfg *config.Config, logger *slog.Logger) model.Backend {
	httpClient := &http.Client{Timeout: cfg.API.Timeout}

	client := adapter.NewBackend(cfg.API.BaseURL, httpClient, logger)
	client.SetUserAgent(cfg.API.UserAgent)

	var backend model.Backend = client
	limiter := ratelimit.NewLimiter(cfg.RateLimit.MinDelay, cfg.RateLimit.Overrides)
	backend = ratelimit.NewBackend(backend, limiter)

	if cfg.Analysis.MaxRetries > 0 {
		backend = retry.NewBackend(backend, cfg.Analysis.MaxRetries, cfg.Analysis.RetryBaseDelay, logger)
	}

	logger.Debug("backend configured",
		"base_url", cfg.API.BaseURL,
		"timeout", cfg.API.Timeout.String(),
		"max_retries", cfg.Analysis.MaxRetries,
		"min_delay", cfg.RateLimit.MinDelay.String(),
	)
	return backend
}

func setupNotifier(cfg *config.Config, logger *slog.Logger) model.Notifier {
	switch cfg.Notification.Type {
	case "slack":
		logger.Debug("using slack notifier")
		return notifier.NewSlackNotifier(cfg.Notification.WebhookURL, &http.Client{Timeout: 30 * time.Second}, logger)
	case "none":
		return notifier.NopNotifier{}
	default:
		return notifier.NewLogNotifier(logger)
	}
}
