package app

import (
	"log/slog"
	"os"

	"github.com/qj0r9j0vc2/timereport-bridge/internal/infrastructure/config"
)

func (app *Application) loadConfig(configPath string) error {
	cfg, err := config.Load(configPath)
	if err != nil {
		return err
	}
	app.config = cfg
	return nil
}

func (app *Application) setupLogger() {
	app.logger = NewLogger(app.config.Logging.Level, app.config.Logging.Format)

	app.logger.Info("configuration loaded",
		"backend_url", app.config.Backend.URL,
		"signature_check_enabled", app.config.IsSignatureCheckEnabled(),
		"bot_enabled", app.config.IsBotEnabled(),
		"valid_reasons", app.config.TimeReport.ValidReasons,
		"timezone", app.config.TimeReport.Timezone,
	)
	if !app.config.IsSignatureCheckEnabled() {
		app.logger.Warn("slack signing secret is empty, request signatures are not verified")
	}
}

// NewLogger creates a logger writing to stdout.
// level is debug, info, warn or error; format is json or text.
func NewLogger(level, format string) *slog.Logger {
	var logLevel slog.Level
	switch level {
	case "debug":
		logLevel = slog.LevelDebug
	case "warn":
		logLevel = slog.LevelWarn
	case "error":
		logLevel = slog.LevelError
	default:
		logLevel = slog.LevelInfo
	}

	opts := &slog.HandlerOptions{Level: logLevel}

	var handler slog.Handler
	if format == "text" {
		handler = slog.NewTextHandler(os.Stdout, opts)
	} else {
		handler = slog.NewJSONHandler(os.Stdout, opts)
	}

	return slog.New(handler)
}

// slogAdapter adapts slog.Logger to the logger.Logger interface.
type slogAdapter struct {
	logger *slog.Logger
}

func (a *slogAdapter) Debug(msg string, keysAndValues ...any) {
	a.logger.Debug(msg, keysAndValues...)
}

func (a *slogAdapter) Info(msg string, keysAndValues ...any) {
	a.logger.Info(msg, keysAndValues...)
}

func (a *slogAdapter) Warn(msg string, keysAndValues ...any) {
	a.logger.Warn(msg, keysAndValues...)
}

func (a *slogAdapter) Error(msg string, keysAndValues ...any) {
	a.logger.Error(msg, keysAndValues...)
}
