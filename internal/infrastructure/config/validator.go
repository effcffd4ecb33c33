package config

import (
	"fmt"
	"math"
	"net/url"
	"strings"
	"time"
)

// ValidateLogLevel checks if the log level is valid.
func ValidateLogLevel(level string) error {
	validLevels := map[string]bool{
		"debug": true,
		"info":  true,
		"warn":  true,
		"error": true,
	}
	if !validLevels[level] {
		return fmt.Errorf("invalid log level: %s (must be debug, info, warn, or error)", level)
	}
	return nil
}

// ValidateLogFormat checks if the log format is valid.
func ValidateLogFormat(format string) error {
	validFormats := map[string]bool{
		"json": true,
		"text": true,
	}
	if !validFormats[format] {
		return fmt.Errorf("invalid log format: %s (must be json or text)", format)
	}
	return nil
}

// ValidateNonEmpty checks if a string is non-empty.
func ValidateNonEmpty(value string, fieldName string) error {
	if value == "" {
		return fmt.Errorf("%s cannot be empty", fieldName)
	}
	return nil
}

// ValidateDuration checks if a duration is greater than zero.
func ValidateDuration(duration time.Duration, fieldName string) error {
	if duration <= 0 {
		return fmt.Errorf("%s must be greater than 0", fieldName)
	}
	return nil
}

// ValidatePort checks if a port number is valid.
func ValidatePort(port int, fieldName string) error {
	if port < 1 || port > 65535 {
		return fmt.Errorf("%s must be between 1 and 65535, got %d", fieldName, port)
	}
	return nil
}

// ValidateURL checks that value is an absolute http(s) URL.
func ValidateURL(value string, fieldName string) error {
	u, err := url.Parse(value)
	if err != nil {
		return fmt.Errorf("%s is not a valid URL: %w", fieldName, err)
	}
	if u.Scheme != "http" && u.Scheme != "https" {
		return fmt.Errorf("%s must use http or https, got %q", fieldName, value)
	}
	if u.Host == "" {
		return fmt.Errorf("%s must include a host", fieldName)
	}
	return nil
}

// Validate performs comprehensive validation on the configuration.
// Returns an error listing every problem found.
func (c *Config) Validate() error {
	var errors []string

	// Server validation
	if err := ValidatePort(c.Server.Port, "server.port"); err != nil {
		errors = append(errors, err.Error())
	}
	if err := ValidateDuration(c.Server.ReadTimeout, "server.read_timeout"); err != nil {
		errors = append(errors, err.Error())
	}
	if err := ValidateDuration(c.Server.WriteTimeout, "server.write_timeout"); err != nil {
		errors = append(errors, err.Error())
	}
	if err := ValidateDuration(c.Server.RequestTimeout, "server.request_timeout"); err != nil {
		errors = append(errors, err.Error())
	}
	if err := ValidateDuration(c.Server.ShutdownTimeout, "server.shutdown_timeout"); err != nil {
		errors = append(errors, err.Error())
	}

	// Logical constraint: RequestTimeout should be less than WriteTimeout
	if c.Server.RequestTimeout >= c.Server.WriteTimeout {
		errors = append(errors, "server.request_timeout must be less than server.write_timeout")
	}

	// Backend validation
	if err := ValidateNonEmpty(c.Backend.URL, "backend.url"); err != nil {
		errors = append(errors, err.Error())
	} else if err := ValidateURL(c.Backend.URL, "backend.url"); err != nil {
		errors = append(errors, err.Error())
	}
	if err := ValidateDuration(c.Backend.Timeout, "backend.timeout"); err != nil {
		errors = append(errors, err.Error())
	}

	// Slack validation
	if c.Slack.APIURL != "" {
		if err := ValidateURL(c.Slack.APIURL, "slack.api_url"); err != nil {
			errors = append(errors, err.Error())
		}
	}

	// Time report validation
	if len(c.TimeReport.ValidReasons) == 0 {
		errors = append(errors, "timereport.valid_reasons cannot be empty")
	}
	for _, r := range c.TimeReport.ValidReasons {
		if strings.TrimSpace(r) == "" || strings.ContainsAny(r, " \t") {
			errors = append(errors, fmt.Sprintf("timereport.valid_reasons contains invalid reason: %q", r))
		}
	}
	if c.TimeReport.MaxRangeDays < 1 {
		errors = append(errors, "timereport.max_range_days must be at least 1")
	}
	if h := c.TimeReport.Hours(); h < 0 || h > 8 || h != math.Trunc(h) {
		errors = append(errors, fmt.Sprintf("timereport.default_hours must be a whole number between 0 and 8, got %g", h))
	}
	if _, err := time.LoadLocation(c.TimeReport.Timezone); err != nil {
		errors = append(errors, fmt.Sprintf("timereport.timezone is invalid: %s", c.TimeReport.Timezone))
	}

	// Logging validation
	if err := ValidateLogLevel(c.Logging.Level); err != nil {
		errors = append(errors, err.Error())
	}
	if err := ValidateLogFormat(c.Logging.Format); err != nil {
		errors = append(errors, err.Error())
	}

	if len(errors) > 0 {
		return fmt.Errorf("configuration validation failed:\n  - %s", joinErrors(errors))
	}

	return nil
}

// joinErrors joins multiple error messages with newlines and bullets.
func joinErrors(errors []string) string {
	return strings.Join(errors, "\n  - ")
}
