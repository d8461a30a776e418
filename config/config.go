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
	"github.com/pelletier/go-toml/v2"
	"github.com/robfig/cron/v3"
)

// Defaults applied when neither the config file nor the environment set a value.
const (
	DefaultCollection     = "incidents"
	DefaultModel          = "gpt-4o-mini"
	DefaultHTTPAddr       = ":8080"
	DefaultReloadSchedule = "*/30 * * * *"
	DefaultSessionTTL     = 24 * time.Hour
	DefaultTitle          = "Construction Safety Insights"
	DefaultSubtitle       = "건설산업 안전사고 분석 대시보드"
)

// Config holds all server settings.
type Config struct {
	FirebaseCredentials string // base64 encoded service account JSON
	Collection          string

	OpenAIKey     string
	OpenAIBaseURL string
	OpenAIModel   string

	HTTPAddr string
	// ReloadSchedule is a standard 5-field cron spec. Empty disables the periodic reload.
	ReloadSchedule string
	SessionTTL     time.Duration

	Title    string
	Subtitle string
}

// fileConfig is the optional TOML file named by DASHBOARD_CONFIG.
type fileConfig struct {
	Server struct {
		Addr       string `toml:"addr"`
		SessionTTL string `toml:"session_ttl"`
	} `toml:"server"`
	Firestore struct {
		Collection string `toml:"collection"`
	} `toml:"firestore"`
	OpenAI struct {
		BaseURL string `toml:"base_url"`
		Model   string `toml:"model"`
	} `toml:"openai"`
	Reload struct {
		Schedule *string `toml:"schedule"`
	} `toml:"reload"`
	Dashboard struct {
		Title    string `toml:"title"`
		Subtitle string `toml:"subtitle"`
	} `toml:"dashboard"`
}

// Default returns the configuration used when nothing is set.
func Default() *Config {
	return &Config{
		Collection:     DefaultCollection,
		OpenAIModel:    DefaultModel,
		HTTPAddr:       DefaultHTTPAddr,
		ReloadSchedule: DefaultReloadSchedule,
		SessionTTL:     DefaultSessionTTL,
		Title:          DefaultTitle,
		Subtitle:       DefaultSubtitle,
	}
}

// Load reads .env (if present), then the TOML file named by DASHBOARD_CONFIG (if
// set), then environment variables. Later sources win.
func Load() (*Config, error) {
	if err := godotenv.Load(); err != nil && !errors.Is(err, fs.ErrNotExist) {
		return nil, fmt.Errorf("load .env: %w", err)
	}

	cfg := Default()
	if path := os.Getenv("DASHBOARD_CONFIG"); path != "" {
		if err := cfg.applyFile(path); err != nil {
			return nil, err
		}
	}
	if err := cfg.applyEnv(); err != nil {
		return nil, err
	}
	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	return cfg, nil
}

func (c *Config) applyFile(path string) error {
	data, err := os.ReadFile(path)
	if err != nil {
		return fmt.Errorf("read config file: %w", err)
	}
	var fc fileConfig
	if err := toml.Unmarshal(data, &fc); err != nil {
		return fmt.Errorf("parse config file %s: %w", path, err)
	}

	setIf(&c.HTTPAddr, fc.Server.Addr)
	setIf(&c.Collection, fc.Firestore.Collection)
	setIf(&c.OpenAIBaseURL, fc.OpenAI.BaseURL)
	setIf(&c.OpenAIModel, fc.OpenAI.Model)
	setIf(&c.Title, fc.Dashboard.Title)
	setIf(&c.Subtitle, fc.Dashboard.Subtitle)
	if fc.Reload.Schedule != nil {
		c.ReloadSchedule = strings.TrimSpace(*fc.Reload.Schedule)
	}
	if fc.Server.SessionTTL != "" {
		ttl, err := time.ParseDuration(fc.Server.SessionTTL)
		if err != nil {
			return fmt.Errorf("invalid server.session_ttl: %w", err)
		}
		c.SessionTTL = ttl
	}
	return nil
}

func (c *Config) applyEnv() error {
	setIf(&c.FirebaseCredentials, os.Getenv("FIREBASE_CREDENTIALS"))
	setIf(&c.Collection, os.Getenv("FIRESTORE_COLLECTION"))
	setIf(&c.OpenAIKey, os.Getenv("OPENAI_API_KEY"))
	setIf(&c.OpenAIBaseURL, os.Getenv("OPENAI_BASE_URL"))
	setIf(&c.OpenAIModel, os.Getenv("OPENAI_MODEL"))
	setIf(&c.HTTPAddr, os.Getenv("HTTP_ADDR"))
	setIf(&c.Title, os.Getenv("DASHBOARD_TITLE"))
	setIf(&c.Subtitle, os.Getenv("DASHBOARD_SUBTITLE"))

	// An explicitly empty RELOAD_SCHEDULE turns the reload off.
	if v, ok := os.LookupEnv("RELOAD_SCHEDULE"); ok {
		c.ReloadSchedule = strings.TrimSpace(v)
	}
	if v := os.Getenv("SESSION_TTL"); v != "" {
		ttl, err := time.ParseDuration(v)
		if err != nil {
			return fmt.Errorf("invalid SESSION_TTL: %w", err)
		}
		c.SessionTTL = ttl
	}
	return nil
}

// Validate checks the settings for values the server cannot start with.
func (c *Config) Validate() error {
	if c.HTTPAddr == "" {
		return errors.New("HTTP_ADDR is required")
	}
	if c.Collection == "" {
		return errors.New("FIRESTORE_COLLECTION is required")
	}
	if c.SessionTTL <= 0 {
		return errors.New("SESSION_TTL must be positive")
	}
	if c.ReloadSchedule != "" {
		if _, err := cron.ParseStandard(c.ReloadSchedule); err != nil {
			return fmt.Errorf("invalid RELOAD_SCHEDULE %q: %w", c.ReloadSchedule, err)
		}
	}
	if c.OpenAIBaseURL != "" {
		u, err := url.Parse(c.OpenAIBaseURL)
		if err != nil || u.Scheme == "" || u.Host == "" {
			return fmt.Errorf("invalid OPENAI_BASE_URL %q", c.OpenAIBaseURL)
		}
	}
	return nil
}

// AIEnabled reports whether an OpenAI key was configured.
func (c *Config) AIEnabled() bool {
	return c.OpenAIKey != ""
}

func setIf(dst *string, v string) {
	if v = strings.TrimSpace(v); v != "" {
		*dst = v
	}
}
