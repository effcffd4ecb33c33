package config

import (
	"fmt"
	"os"
	"strconv"
	"strings"
	"time"

	"gopkg.in/yaml.v3"
)

// Config holds all application configuration.
// It is loaded once at startup and never mutated afterwards.
type Config struct {
	Server     ServerConfig     `yaml:"server"`
	Slack      SlackConfig      `yaml:"slack"`
	Backend    BackendConfig    `yaml:"backend"`
	TimeReport TimeReportConfig `yaml:"timereport"`
	Logging    LoggingConfig    `yaml:"logging"`
}

// ServerConfig holds HTTP server settings.
type ServerConfig struct {
	Port            int           `yaml:"port"`
	ReadTimeout     time.Duration `yaml:"read_timeout"`
	WriteTimeout    time.Duration `yaml:"write_timeout"`
	RequestTimeout  time.Duration `yaml:"request_timeout"`
	ShutdownTimeout time.Duration `yaml:"shutdown_timeout"`
}

// SlackConfig holds Slack integration settings.
type SlackConfig struct {
	SigningSecret string `yaml:"signing_secret"`
	BotToken      string `yaml:"bot_token"` // optional, enables structured confirmations
	APIURL        string `yaml:"api_url"`   // optional, overrides the Slack API endpoint
}

// BackendConfig holds the time-report backend API settings.
type BackendConfig struct {
	URL     string        `yaml:"url"`
	Token   string        `yaml:"token"` // optional bearer token
	Timeout time.Duration `yaml:"timeout"`
}

// TimeReportConfig holds command validation settings.
type TimeReportConfig struct {
	ValidReasons []string `yaml:"valid_reasons"`
	MaxRangeDays int      `yaml:"max_range_days"`
	DefaultHours *float64 `yaml:"default_hours"` // nil means 8; 0 is a valid default
	Timezone     string   `yaml:"timezone"`
}

// Hours returns the hours written when add omits them.
func (t TimeReportConfig) Hours() float64 {
	if t.DefaultHours == nil {
		return defaultHours
	}
	return *t.DefaultHours
}

// LoggingConfig holds logging settings.
type LoggingConfig struct {
	Level  string `yaml:"level"`
	Format string `yaml:"format"`
}

const defaultHours = 8.0

// Load reads configuration from file and environment.
func Load(path string) (*Config, error) {
	cfg := &Config{}

	// Load from file if exists
	if path != "" {
		data, err := os.ReadFile(path)
		if err != nil && !os.IsNotExist(err) {
			return nil, fmt.Errorf("reading config file: %w", err)
		}
		if err == nil {
			// Expand environment variables in YAML
			expandedData := os.ExpandEnv(string(data))
			if err := yaml.Unmarshal([]byte(expandedData), cfg); err != nil {
				return nil, fmt.Errorf("parsing config file: %w", err)
			}
		}
	}

	cfg.overrideFromEnv()
	cfg.applyDefaults()

	if err := cfg.Validate(); err != nil {
		return nil, fmt.Errorf("validating config: %w", err)
	}

	return cfg, nil
}

// overrideFromEnv overrides config values from environment variables.
func (c *Config) overrideFromEnv() {
	// Server
	if v := os.Getenv("SERVER_PORT"); v != "" {
		if port, err := strconv.Atoi(v); err == nil {
			c.Server.Port = port
		}
	}

	// Slack
	if v := os.Getenv("SLACK_SIGNING_SECRET"); v != "" {
		c.Slack.SigningSecret = v
	}
	if v := os.Getenv("SLACK_BOT_TOKEN"); v != "" {
		c.Slack.BotToken = v
	}
	if v := os.Getenv("SLACK_API_URL"); v != "" {
		c.Slack.APIURL = v
	}

	// Backend
	if v := os.Getenv("BACKEND_URL"); v != "" {
		c.Backend.URL = v
	}
	if v := os.Getenv("BACKEND_TOKEN"); v != "" {
		c.Backend.Token = v
	}
	if v := os.Getenv("BACKEND_TIMEOUT"); v != "" {
		if d, err := time.ParseDuration(v); err == nil {
			c.Backend.Timeout = d
		}
	}

	// Time report
	if v := os.Getenv("VALID_REASONS"); v != "" {
		c.TimeReport.ValidReasons = splitList(v)
	}
	if v := os.Getenv("MAX_RANGE_DAYS"); v != "" {
		if n, err := strconv.Atoi(v); err == nil {
			c.TimeReport.MaxRangeDays = n
		}
	}
	if v := os.Getenv("DEFAULT_HOURS"); v != "" {
		if h, err := strconv.ParseFloat(v, 64); err == nil {
			c.TimeReport.DefaultHours = &h
		}
	}
	if v := os.Getenv("TIMEZONE"); v != "" {
		c.TimeReport.Timezone = v
	}

	// Logging
	if v := os.Getenv("LOG_LEVEL"); v != "" {
		c.Logging.Level = v
	}
	if v := os.Getenv("LOG_FORMAT"); v != "" {
		c.Logging.Format = v
	}
}

// splitList splits a comma separated environment value.
func splitList(v string) []string {
	var out []string
	for _, part := range strings.Split(v, ",") {
		if p := strings.TrimSpace(part); p != "" {
			out = append(out, p)
		}
	}
	return out
}

// applyDefaults sets default values for unset config options.
func (c *Config) applyDefaults() {
	// Server defaults
	if c.Server.Port == 0 {
		c.Server.Port = 8080
	}
	if c.Server.ReadTimeout == 0 {
		c.Server.ReadTimeout = 5 * time.Second
	}
	if c.Server.WriteTimeout == 0 {
		c.Server.WriteTimeout = 30 * time.Second
	}
	if c.Server.RequestTimeout == 0 {
		c.Server.RequestTimeout = 25 * time.Second
	}
	if c.Server.ShutdownTimeout == 0 {
		c.Server.ShutdownTimeout = 30 * time.Second
	}

	// Backend defaults
	if c.Backend.Timeout == 0 {
		c.Backend.Timeout = 10 * time.Second
	}

	// Time report defaults
	if len(c.TimeReport.ValidReasons) == 0 {
		c.TimeReport.ValidReasons = []string{"vab", "sick", "intern", "vacation"}
	}
	if c.TimeReport.MaxRangeDays == 0 {
		c.TimeReport.MaxRangeDays = 40
	}
	if c.TimeReport.DefaultHours == nil {
		hours := defaultHours
		c.TimeReport.DefaultHours = &hours
	}
	if c.TimeReport.Timezone == "" {
		c.TimeReport.Timezone = "UTC"
	}

	// Logging defaults
	if c.Logging.Level == "" {
		c.Logging.Level = "info"
	}
	if c.Logging.Format == "" {
		c.Logging.Format = "json"
	}
}

// Location returns the time zone used to resolve "today".
// Validate guarantees the zone name loads.
func (c *Config) Location() *time.Location {
	loc, err := time.LoadLocation(c.TimeReport.Timezone)
	if err != nil {
		return time.UTC
	}
	return loc
}

// IsBotEnabled returns true if structured confirmations can be sent.
func (c *Config) IsBotEnabled() bool {
	return c.Slack.BotToken != ""
}

// IsSignatureCheckEnabled returns true if a signing secret is configured.
func (c *Config) IsSignatureCheckEnabled() bool {
	return c.Slack.SigningSecret != ""
}
