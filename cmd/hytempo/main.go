package main

import (
	"context"
	"flag"
	"fmt"
	"log/slog"
	"os"
	"path/filepath"
	"time"

	"github.com/Graylog2/go-gelf/gelf"

	"github.com/L1xtopher/hytempo/internal/config"
	"github.com/L1xtopher/hytempo/internal/logging"
	intOtel "github.com/L1xtopher/hytempo/internal/otel"
)

// BuildDate can be set at build time via ldflags
var (
	CurrentVersion string = "0.1.0"
	BuildDate      string = "unknown"
)

// global services
var (
	// SlogManager handles all slog-based logging
	SlogManager *logging.SlogManager

	// Logger is the slog logger (convenience reference)
	Logger *slog.Logger

	// OTelProvider handles OpenTelemetry
	OTelProvider *intOtel.Provider

	SessionStartTime time.Time = time.Now()
)

func main() {
	configDir := flag.String("config", ".", "directory containing hytempo.cfg.json")
	runName := flag.String("name", "hytempo", "base name for this run batch")
	flag.Parse()

	if err := config.Load(*configDir); err != nil {
		fmt.Fprintf(os.Stderr, "config: %v\n", err)
		os.Exit(1)
	}

	if err := setupLogging(); err != nil {
		fmt.Fprintf(os.Stderr, "logging: %v\n", err)
		os.Exit(1)
	}
	Logger.Info("Starting up", "version", CurrentVersion, "buildDate", BuildDate)

	ctx := context.Background()
	if err := run(ctx, *runName); err != nil {
		Logger.Error("Run failed", "error", err)
		shutdown(ctx)
		os.Exit(1)
	}

	shutdown(ctx)
}

// setupLogging wires the log file, the OTel log pipeline and the slog
// manager together.
func setupLogging() error {
	logsDir := config.GetString("logsDir")
	if err := os.MkdirAll(logsDir, 0755); err != nil {
		return fmt.Errorf("failed to create logs dir: %w", err)
	}

	logFilePath := logging.LogFilePath(logsDir, "hytempo", SessionStartTime)
	logFile, err := os.OpenFile(logFilePath, os.O_APPEND|os.O_CREATE|os.O_WRONLY, 0644)
	if err != nil {
		return fmt.Errorf("failed to open log file: %w", err)
	}

	otelCfg := config.OTel()
	var otelLogWriter *os.File
	if otelCfg.Enabled {
		otelLogPath := filepath.Join(logsDir,
			fmt.Sprintf("hytempo.otel.%s.log", SessionStartTime.Format("20060102_150405")))
		otelLogWriter, err = os.OpenFile(otelLogPath, os.O_APPEND|os.O_CREATE|os.O_WRONLY, 0644)
		if err != nil {
			return fmt.Errorf("failed to open otel log file: %w", err)
		}
	}

	OTelProvider, err = intOtel.New(intOtel.Config{
		Enabled:      otelCfg.Enabled,
		ServiceName:  otelCfg.ServiceName,
		BatchTimeout: otelCfg.BatchTimeout,
		LogWriter:    otelLogWriter,
		Endpoint:     otelCfg.Endpoint,
		Insecure:     otelCfg.Insecure,
	})
	if err != nil {
		return fmt.Errorf("failed to create otel provider: %w", err)
	}

	SlogManager = logging.NewSlogManager()
	if config.GetBool("graylog.enabled") {
		gelfWriter, err := gelf.NewWriter(config.GetString("graylog.address"))
		if err != nil {
			return fmt.Errorf("failed to connect to graylog: %w", err)
		}
		SlogManager.AddWriter(gelfWriter)
	}
	SlogManager.SetContextProvider(func() []slog.Attr {
		return []slog.Attr{
			slog.String("session", SessionStartTime.Format("20060102_150405")),
			slog.String("version", CurrentVersion),
		}
	})
	SlogManager.Setup(logFile, config.GetString("logLevel"), OTelProvider.LoggerProvider())
	Logger = SlogManager.Logger()
	return nil
}

func shutdown(ctx context.Context) {
	flushCtx, cancel := context.WithTimeout(ctx, 5*time.Second)
	defer cancel()

	if err := OTelProvider.Flush(flushCtx); err != nil {
		Logger.Warn("OTel flush failed", "error", err)
	}
	if err := OTelProvider.Shutdown(flushCtx); err != nil {
		Logger.Warn("OTel shutdown failed", "error", err)
	}
}
