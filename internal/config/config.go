package config

import (
	"errors"
	"fmt"
	"io/fs"
	"net/url"
	"os"
	"strings"
	"time"

	"github.com/joho/godotenv"
	"gopkg.in/yaml.v3"
)

const (
	// DefaultPath is used when neither --config nor TALENTLENS_CONFIG is set.
	DefaultPath = "talentlens.yaml"

	EnvConfigPath = "TALENTLENS_CONFIG"
	EnvAPIURL     = "TALENTLENS_API_URL"
)

// Config is the root configuration for the TalentLens client.
type Config struct {
	API          APIConfig
	Analysis     AnalysisConfig
	RateLimit    RateLimitConfig
	Documents    DocumentsConfig
	Notification NotificationConfig
}

// APIConfig points the client at the screening backend.
type APIConfig struct {
	BaseURL   string
	Timeout   time.Duration // per-request timeout
	UserAgent string
}

// AnalysisConfig controls how a batch is dispatched.
type AnalysisConfig struct {
	Concurrency    int // 1 processes resumes sequentially
	MaxRetries     int // 0 disables automatic retries
	RetryBaseDelay time.Duration
}

// RateLimitConfig controls pacing between backend calls of the same kind.
type RateLimitConfig struct {
	MinDelay  time.Duration            // minimum gap between calls of one kind
	Overrides map[string]time.Duration // keyed by call kind: "upload" or "analysis"
}

// MinDelayFor returns the configured delay for the given call kind, falling back to MinDelay.
func (r RateLimitConfig) MinDelayFor(kind string) time.Duration {
	if d, ok := r.Overrides[kind]; ok {
		return d
	}
	return r.MinDelay
}

// DocumentsConfig holds local preflight checks applied before upload.
type DocumentsConfig struct {
	AllowedExtensions []string // lowercase, without the leading dot
	MaxFileSize       int64    // bytes
	RequireText       bool     // require locally extractable text
}

// NotificationConfig controls which notifier is used and its settings.
type NotificationConfig struct {
	Type       string `yaml:"type"`        // "log", "slack" or "none"
	WebhookURL string `yaml:"webhook_url"` // required if type is "slack"
}

var rateLimitKinds = map[string]bool{"upload": true, "analysis": true}

// rawConfig is used for YAML unmarshaling (snake_case fields and durations as strings).
type rawConfig struct {
	API          rawAPIConfig       `yaml:"api"`
	Analysis     rawAnalysisConfig  `yaml:"analysis"`
	RateLimit    rawRateLimitConfig `yaml:"rate_limit"`
	Documents    rawDocumentsConfig `yaml:"documents"`
	Notification NotificationConfig `yaml:"notification"`
}

type rawAPIConfig struct {
	BaseURL   string `yaml:"base_url"`
	Timeout   string `yaml:"timeout"`
	UserAgent string `yaml:"user_agent"`
}

type rawAnalysisConfig struct {
	Concurrency    int    `yaml:"concurrency"`
	MaxRetries     int    `yaml:"max_retries"`
	RetryBaseDelay string `yaml:"retry_base_delay"`
}

type rawRateLimitConfig struct {
	MinDelay  string            `yaml:"min_delay"`
	Overrides map[string]string `yaml:"overrides,omitempty"`
}

type rawDocumentsConfig struct {
	AllowedExtensions []string `yaml:"allowed_extensions"`
	MaxFileSize       int64    `yaml:"max_file_size"`
	RequireText       bool     `yaml:"require_text"`
}

// defaultRaw holds the built-in defaults. YAML is decoded on top of it, so
// keys missing from the file keep these values.
func defaultRaw() rawConfig {
	return rawConfig{
		API: rawAPIConfig{
			BaseURL:   "http://localhost:8000/api/v1",
			Timeout:   "60s",
			UserAgent: "talentlens/dev",
		},
		Analysis: rawAnalysisConfig{
			Concurrency:    1,
			MaxRetries:     0,
			RetryBaseDelay: "2s",
		},
		RateLimit: rawRateLimitConfig{
			MinDelay: "0s",
		},
		Documents: rawDocumentsConfig{
			AllowedExtensions: []string{"pdf", "doc", "docx", "txt"},
			MaxFileSize:       10 << 20,
		},
		Notification: NotificationConfig{Type: "log"},
	}
}

// Default returns the built-in configuration with environment overrides applied.
func Default() *Config {
	cfg, err := build(defaultRaw())
	if err != nil {
		panic(fmt.Sprintf("config: invalid built-in defaults: %v", err))
	}
	return cfg
}

// Resolve picks the config file (flagPath, then $TALENTLENS_CONFIG, then
// ./talentlens.yaml) and loads it. A missing file at the default path is not
// an error: the built-in defaults are used and the returned path is empty.
// A .env file in the working directory is loaded first if present.
func Resolve(flagPath string) (*Config, string, error) {
	if err := godotenv.Load(); err != nil && !errors.Is(err, fs.ErrNotExist) {
		return nil, "", fmt.Errorf("load .env: %w", err)
	}

	path := flagPath
	if path == "" {
		path = os.Getenv(EnvConfigPath)
	}
	if path == "" {
		if _, err := os.Stat(DefaultPath); errors.Is(err, fs.ErrNotExist) {
			return Default(), "", nil
		}
		path = DefaultPath
	}

	cfg, err := Load(path)
	if err != nil {
		return nil, "", err
	}
	return cfg, path, nil
}

// Load reads and parses the YAML config file at path, validates it, and returns Config.
func Load(path string) (*Config, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("read config: %w", err)
	}

	// Expand environment variables
	expanded := os.ExpandEnv(string(data))

	raw := defaultRaw()
	if err := yaml.Unmarshal([]byte(expanded), &raw); err != nil {
		return nil, fmt.Errorf("parse config: %w", err)
	}

	return build(raw)
}

func build(raw rawConfig) (*Config, error) {
	timeout, err := time.ParseDuration(raw.API.Timeout)
	if err != nil {
		return nil, fmt.Errorf("parse api.timeout %q: %w", raw.API.Timeout, err)
	}

	retryDelay, err := time.ParseDuration(raw.Analysis.RetryBaseDelay)
	if err != nil {
		return nil, fmt.Errorf("parse analysis.retry_base_delay %q: %w", raw.Analysis.RetryBaseDelay, err)
	}

	minDelay, err := time.ParseDuration(raw.RateLimit.MinDelay)
	if err != nil {
		return nil, fmt.Errorf("parse rate_limit.min_delay %q: %w", raw.RateLimit.MinDelay, err)
	}

	overrides := make(map[string]time.Duration)
	for kind, s := range raw.RateLimit.Overrides {
		d, err := time.ParseDuration(s)
		if err != nil {
			return nil, fmt.Errorf("parse rate_limit.overrides[%q]: %w", kind, err)
		}
		overrides[kind] = d
	}

	exts := make([]string, 0, len(raw.Documents.AllowedExtensions))
	for _, e := range raw.Documents.AllowedExtensions {
		e = strings.ToLower(strings.TrimPrefix(strings.TrimSpace(e), "."))
		if e != "" {
			exts = append(exts, e)
		}
	}

	baseURL := raw.API.BaseURL
	if env := os.Getenv(EnvAPIURL); env != "" {
		baseURL = env
	}

	notification := raw.Notification
	if notification.Type == "" {
		notification.Type = "log"
	}

	cfg := &Config{
		API: APIConfig{
			BaseURL:   strings.TrimRight(baseURL, "/"),
			Timeout:   timeout,
			UserAgent: raw.API.UserAgent,
		},
		Analysis: AnalysisConfig{
			Concurrency:    raw.Analysis.Concurrency,
			MaxRetries:     raw.Analysis.MaxRetries,
			RetryBaseDelay: retryDelay,
		},
		RateLimit: RateLimitConfig{
			MinDelay:  minDelay,
			Overrides: overrides,
		},
		Documents: DocumentsConfig{
			AllowedExtensions: exts,
			MaxFileSize:       raw.Documents.MaxFileSize,
			RequireText:       raw.Documents.RequireText,
		},
		Notification: notification,
	}

	if err := validate(cfg); err != nil {
		return nil, err
	}

	return cfg, nil
}

func validate(cfg *Config) error {
	u, err := url.Parse(cfg.API.BaseURL)
	if err != nil || (u.Scheme != "http" && u.Scheme != "https") || u.Host == "" {
		return fmt.Errorf("api.base_url must be an absolute http(s) URL, got %q", cfg.API.BaseURL)
	}
	if cfg.API.Timeout <= 0 {
		return fmt.Errorf("api.timeout must be positive, got %v", cfg.API.Timeout)
	}

	if cfg.Analysis.Concurrency < 1 {
		return fmt.Errorf("analysis.concurrency must be at least 1, got %d", cfg.Analysis.Concurrency)
	}
	if cfg.Analysis.MaxRetries < 0 {
		return fmt.Errorf("analysis.max_retries must not be negative, got %d", cfg.Analysis.MaxRetries)
	}
	if cfg.Analysis.RetryBaseDelay < 0 {
		return fmt.Errorf("analysis.retry_base_delay must not be negative, got %v", cfg.Analysis.RetryBaseDelay)
	}

	if cfg.RateLimit.MinDelay < 0 {
		return fmt.Errorf("rate_limit.min_delay must not be negative, got %v", cfg.RateLimit.MinDelay)
	}
	for kind, d := range cfg.RateLimit.Overrides {
		if !rateLimitKinds[kind] {
			return fmt.Errorf("rate_limit.overrides: unknown kind %q (want \"upload\" or \"analysis\")", kind)
		}
		if d < 0 {
			return fmt.Errorf("rate_limit.overrides[%q] must not be negative, got %v", kind, d)
		}
	}

	if cfg.Documents.MaxFileSize <= 0 {
		return fmt.Errorf("documents.max_file_size must be positive, got %d", cfg.Documents.MaxFileSize)
	}

	switch cfg.Notification.Type {
	case "log", "none":
	case "slack":
		if cfg.Notification.WebhookURL == "" {
			return fmt.Errorf("notification.webhook_url is required when type is \"slack\"")
		}
		if !strings.HasPrefix(cfg.Notification.WebhookURL, "https://hooks.slack.com/") {
			return fmt.Errorf("notification.webhook_url must start with https://hooks.slack.com/")
		}
	default:
		return fmt.Errorf("notification.type must be \"log\", \"slack\" or \"none\", got %q", cfg.Notification.Type)
	}

	return nil
}

// YAML renders cfg back into the file format, with the webhook URL masked.
func (c *Config) YAML() ([]byte, error) {
	raw := rawConfig{
		API: rawAPIConfig{
			BaseURL:   c.API.BaseURL,
			Timeout:   c.API.Timeout.String(),
			UserAgent: c.API.UserAgent,
		},
		Analysis: rawAnalysisConfig{
			Concurrency:    c.Analysis.Concurrency,
			MaxRetries:     c.Analysis.MaxRetries,
			RetryBaseDelay: c.Analysis.RetryBaseDelay.String(),
		},
		RateLimit: rawRateLimitConfig{
			MinDelay: c.RateLimit.MinDelay.String(),
		},
		Documents: rawDocumentsConfig{
			AllowedExtensions: c.Documents.AllowedExtensions,
			MaxFileSize:       c.Documents.MaxFileSize,
			RequireText:       c.Documents.RequireText,
		},
		Notification: NotificationConfig{
			Type:       c.Notification.Type,
			WebhookURL: maskWebhook(c.Notification.WebhookURL),
		},
	}
	if len(c.RateLimit.Overrides) > 0 {
		raw.RateLimit.Overrides = make(map[string]string, len(c.RateLimit.Overrides))
		for k, d := range c.RateLimit.Overrides {
			raw.RateLimit.Overrides[k] = d.String()
		}
	}
	return yaml.Marshal(raw)
}

func maskWebhook(u string) string {
	const keep = len("https://hooks.slack.com/")
	if len(u) <= keep {
		return u
	}
	return u[:keep] + "****"
}
