package logging

import (
	"context"
	"io"
	"log/slog"
	"os"
	"strings"
	"time"

	"go.opentelemetry.io/contrib/bridges/otelslog"
	sdklog "go.opentelemetry.io/otel/sdk/log"
)

// SlogManager manages slog-based logging with optional OTel integration.
type SlogManager struct {
	logger *slog.Logger

	// OTel provider for flushing
	logProvider *sdklog.LoggerProvider

	// Optional provider of per-record attributes, set before Setup.
	contextProvider ContextProvider

	// Additional sinks, e.g. a GELF writer. Records go to each as JSON.
	extraWriters []io.Writer
}

// AddWriter registers an extra sink that receives every record as JSON.
// Must be called before Setup to take effect.
func (m *SlogManager) AddWriter(w io.Writer) {
	if w != nil {
		m.extraWriters = append(m.extraWriters, w)
	}
}

// SetContextProvider registers a function whose attributes are attached to
// every record. Must be called before Setup to take effect.
func (m *SlogManager) SetContextProvider(p ContextProvider) {
	m.contextProvider = p
}

// NewSlogManager creates a new slog-based logging manager.
func NewSlogManager() *SlogManager {
	return &SlogManager{}
}

// parseLevel converts a string log level to slog.Level.
func parseLevel(level string) slog.Level {
	switch strings.ToUpper(level) {
	case "DEBUG":
		return slog.LevelDebug
	case "INFO":
		return slog.LevelInfo
	case "WARN":
		return slog.LevelWarn
	case "ERROR":
		return slog.LevelError
	default:
		return slog.LevelInfo
	}
}

// Setup initializes the logging system. Logs go to the given file writer,
// or to stdout when no file is provided; an OTel handler is attached when a
// provider is passed.
func (m *SlogManager) Setup(file io.Writer, level string, provider *sdklog.LoggerProvider) {
	lvl := parseLevel(level)
	m.logProvider = provider

	// Common handler options with RFC3339 time formatting
	handlerOpts := &slog.HandlerOptions{
		Level: lvl,
		ReplaceAttr: func(groups []string, a slog.Attr) slog.Attr {
			if a.Key == slog.TimeKey {
				if t, ok := a.Value.Any().(time.Time); ok {
					a.Value = slog.StringValue(t.UTC().Format(time.RFC3339))
				}
			}
			return a
		},
	}

	var handlers []slog.Handler
	if file != nil {
		handlers = append(handlers, slog.NewTextHandler(file, handlerOpts))
	} else {
		handlers = append(handlers, slog.NewTextHandler(os.Stdout, handlerOpts))
	}

	for _, w := range m.extraWriters {
		handlers = append(handlers, slog.NewJSONHandler(w, handlerOpts))
	}

	if provider != nil {
		otelHandler := otelslog.NewHandler("hytempo", otelslog.WithLoggerProvider(provider))
		handlers = append(handlers, otelHandler)
	}

	var root slog.Handler = NewMultiHandler(handlers...)
	if m.contextProvider != nil {
		root = NewContextHandler(root, m.contextProvider)
	}

	m.logger = slog.New(root)
	m.logger.Info("Logging initialized", "level", level)
}

// Logger returns the configured slog.Logger.
func (m *SlogManager) Logger() *slog.Logger {
	if m.logger == nil {
		// Return a default logger if Setup hasn't been called
		return slog.Default()
	}
	return m.logger
}

// Flush forces a flush of OTel logs if available.
func (m *SlogManager) Flush(ctx context.Context) error {
	if m.logProvider != nil {
		return m.logProvider.ForceFlush(ctx)
	}
	return nil
}
