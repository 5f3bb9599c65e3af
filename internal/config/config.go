package config

import (
	"errors"
	"fmt"
	"os"
	"strconv"
	"strings"
	"time"

	"github.com/joho/godotenv"
)

const (
	DefaultPort         = "8080"
	DefaultLoopsBaseURL = "https://app.loops.so/api/v1"
	DefaultLoopsTimeout = 10 * time.Second
	DefaultGeminiModel  = "gemini-1.5-flash"
)

// ErrMissing is wrapped by every Validate error that reports absent keys.
var ErrMissing = errors.New("missing required configuration")

// Config holds the web server configuration.
type Config struct {
	Port           string
	Env            string
	LogLevel       string
	AllowedOrigins []string

	Loops LoopsConfig
	AMQP  AMQPConfig
	Mail  MailConfig
}

type LoopsConfig struct {
	APIKey  string
	BaseURL string
	Timeout time.Duration
}

// AMQPConfig is optional: an empty URL disables subscriber events.
type AMQPConfig struct {
	URL string
}

func (c AMQPConfig) Enabled() bool { return c.URL != "" }

type MailConfig struct {
	Host     string
	Port     int
	User     string
	Password string
	From     string
	NotifyTo string
}

// SuggestConfig holds the settings of the improvement-suggestion CLI.
type SuggestConfig struct {
	GitHubOwner  string
	GitHubRepo   string
	GitHubToken  string
	GeminiAPIKey string
	GeminiModel  string
}

// LoadDotEnv loads .env into the process environment. A missing file is fine.
func LoadDotEnv(files ...string) {
	_ = godotenv.Load(files...)
}

// Load reads the server configuration from the environment.
func Load() (*Config, error) {
	timeout, err := durationEnv("LOOPS_TIMEOUT", DefaultLoopsTimeout)
	if err != nil {
		return nil, err
	}
	mailPort, err := intEnv("MAIL_PORT", 587)
	if err != nil {
		return nil, err
	}

	return &Config{
		Port:           stringEnv("PORT", DefaultPort),
		Env:            stringEnv("APP_ENV", "production"),
		LogLevel:       stringEnv("LOG_LEVEL", "info"),
		AllowedOrigins: listEnv("CORS_ALLOWED_ORIGINS", []string{"*"}),
		Loops: LoopsConfig{
			APIKey:  strings.TrimSpace(os.Getenv("LOOPS_API_KEY")),
			BaseURL: strings.TrimRight(stringEnv("LOOPS_BASE_URL", DefaultLoopsBaseURL), "/"),
			Timeout: timeout,
		},
		AMQP: AMQPConfig{URL: os.Getenv("AMQP_URL")},
		Mail: MailConfig{
			Host:     os.Getenv("MAIL_HOST"),
			Port:     mailPort,
			User:     os.Getenv("MAIL_USER"),
			Password: os.Getenv("MAIL_PASS"),
			From:     stringEnv("MAIL_FROM", "no-reply@robinblocks.com"),
			NotifyTo: os.Getenv("MAIL_NOTIFY_TO"),
		},
	}, nil
}

// Validate checks what the API cannot serve a single subscription without.
func (c *Config) Validate() error {
	var missing []string
	if c.Loops.APIKey == "" {
		missing = append(missing, "LOOPS_API_KEY")
	}
	return missingErr(missing)
}

// ValidateNotifier checks the settings the notification worker needs.
func (c *Config) ValidateNotifier() error {
	var missing []string
	if c.AMQP.URL == "" {
		missing = append(missing, "AMQP_URL")
	}
	if c.Mail.Host == "" {
		missing = append(missing, "MAIL_HOST")
	}
	if c.Mail.NotifyTo == "" {
		missing = append(missing, "MAIL_NOTIFY_TO")
	}
	return missingErr(missing)
}

func (c *Config) IsDevelopment() bool {
	return c.Env == "development"
}

// LoadSuggest reads the suggestion CLI configuration from the environment.
func LoadSuggest() *SuggestConfig {
	return &SuggestConfig{
		GitHubOwner:  os.Getenv("GITHUB_REPO_OWNER"),
		GitHubRepo:   os.Getenv("GITHUB_REPO_NAME"),
		GitHubToken:  os.Getenv("GITHUB_TOKEN"),
		GeminiAPIKey: os.Getenv("GEMINI_API_KEY"),
		GeminiModel:  stringEnv("GEMINI_MODEL", DefaultGeminiModel),
	}
}

func (c *SuggestConfig) Validate() error {
	var missing []string
	if c.GitHubOwner == "" {
		missing = append(missing, "GITHUB_REPO_OWNER")
	}
	if c.GitHubRepo == "" {
		missing = append(missing, "GITHUB_REPO_NAME")
	}
	if c.GeminiAPIKey == "" {
		missing = append(missing, "GEMINI_API_KEY")
	}
	if c.GitHubToken == "" {
		missing = append(missing, "GITHUB_TOKEN")
	}
	return missingErr(missing)
}

func missingErr(keys []string) error {
	if len(keys) == 0 {
		return nil
	}
	return fmt.Errorf("%w: %s", ErrMissing, strings.Join(keys, ", "))
}

func stringEnv(key, fallback string) string {
	if v := strings.TrimSpace(os.Getenv(key)); v != "" {
		return v
	}
	return fallback
}

func listEnv(key string, fallback []string) []string {
	raw := os.Getenv(key)
	if raw == "" {
		return fallback
	}
	var out []string
	for _, part := range strings.Split(raw, ",") {
		if p := strings.TrimSpace(part); p != "" {
			out = append(out, p)
		}
	}
	if len(out) == 0 {
		return fallback
	}
	return out
}

func intEnv(key string, fallback int) (int, error) {
	raw := os.Getenv(key)
	if raw == "" {
		return fallback, nil
	}
	v, err := strconv.Atoi(raw)
	if err != nil {
		return 0, fmt.Errorf("invalid %s: %w", key, err)
	}
	return v, nil
}

func durationEnv(key string, fallback time.Duration) (time.Duration, error) {
	raw := os.Getenv(key)
	if raw == "" {
		return fallback, nil
	}
	v, err := time.ParseDuration(raw)
	if err != nil {
		return 0, fmt.Errorf("invalid %s: %w", key, err)
	}
	return v, nil
}
