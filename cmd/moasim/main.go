package main

import (
	"context"
	"fmt"
	"io"
	"log/slog"
	"os"
	"os/signal"
	"path/filepath"
	"strings"
	"syscall"
	"time"

	"github.com/AlexandreSajus/moasim/internal/config"
	"github.com/AlexandreSajus/moasim/internal/influx"
	"github.com/AlexandreSajus/moasim/internal/logging"
	intOtel "github.com/AlexandreSajus/moasim/internal/otel"
	"github.com/AlexandreSajus/moasim/internal/server"

	sdklog "go.opentelemetry.io/otel/sdk/log"
)

// build info - BuildDate can be set at build time via ldflags
var (
	Version   string = "0.0.1"
	BuildDate string = "unknown"

	AppName string = "moasim"
)

var (
	// SlogMgr handles all slog-based logging
	SlogMgr *logging.SlogManager

	// Logger is the slog logger (convenience reference)
	Logger *slog.Logger

	// OTelProvider handles OpenTelemetry
	OTelProvider *intOtel.Provider

	// InfluxManager records per-run telemetry, nil when disabled
	InfluxManager *influx.Manager

	SessionStartTime time.Time = time.Now()

	logFile *os.File
)

func main() {
	setup()
	defer teardown()

	Logger.Info("Starting up...", "version", Version, "buildDate", BuildDate)

	args := os.Args[1:]
	if len(args) == 0 {
		serve()
		return
	}

	switch strings.ToLower(args[0]) {
	case "serve":
		serve()
	case "simulate":
		if err := runSimulateCommand(args[1:]); err != nil {
			Logger.Error("Simulate command failed", "error", err)
			teardown()
			os.Exit(1)
		}
	default:
		fmt.Printf("Unknown command %q. Usage: %s [serve | simulate <distanceMeters> <targetDiameterMeters> <dispersionMOA> [totalShots]]\n", args[0], AppName)
		teardown()
		os.Exit(2)
	}
}

// setup loads config and wires logging, OTel and InfluxDB.
func setup() {
	// console logging until the config and log file are ready
	SlogMgr = logging.NewSlogManager()
	SlogMgr.Setup(nil, "info", nil, nil)
	Logger = SlogMgr.Logger()

	if err := config.Load("."); err != nil {
		Logger.Warn("Failed to load config, using defaults!", "error", err)
	} else {
		Logger.Info("Loaded config")
	}

	logsDir := config.GetString("logsDir")
	if _, err := os.Stat(logsDir); os.IsNotExist(err) {
		os.Mkdir(logsDir, 0755)
	}

	logFilePath := logging.LogFilePath(logsDir, AppName, SessionStartTime)

	var err error
	logFile, err = os.OpenFile(logFilePath, os.O_RDWR|os.O_CREATE|os.O_APPEND, 0666)
	if err != nil {
		Logger.Error("Failed to create/open log file!", "error", err, "path", logFilePath)
	}

	// OTel provider (after log file is created)
	otelCfg := config.GetOTelConfig()
	if otelCfg.Enabled {
		OTelProvider, err = intOtel.New(intOtel.Config{
			Enabled:      otelCfg.Enabled,
			ServiceName:  otelCfg.ServiceName,
			BatchTimeout: otelCfg.BatchTimeout,
			LogWriter:    logFile,
			Endpoint:     otelCfg.Endpoint,
			Insecure:     otelCfg.Insecure,
		})
		if err != nil {
			Logger.Error("Failed to initialize OTel provider", "error", err)
		} else if otelCfg.Endpoint != "" {
			Logger.Info("OTel provider initialized", "file", logFilePath, "endpoint", otelCfg.Endpoint)
		} else {
			Logger.Info("OTel provider initialized", "file", logFilePath)
		}
	}

	// GELF sink
	var gelfSink io.Writer
	graylogCfg := config.GetGraylogConfig()
	if graylogCfg.Enabled {
		gelfSink, err = logging.NewGelfWriter(graylogCfg.Address)
		if err != nil {
			Logger.Warn("Failed to connect GELF writer", "error", err, "address", graylogCfg.Address)
			gelfSink = nil
		}
	}

	// Re-setup logging with file output, GELF and optional OTel
	var otelLogProvider *sdklog.LoggerProvider
	if OTelProvider != nil {
		otelLogProvider = OTelProvider.LoggerProvider()
	}
	SlogMgr.Setup(logFile, config.GetString("logLevel"), otelLogProvider, gelfSink)
	Logger = SlogMgr.Logger()
	Logger.Info("Logging to file", "path", logFilePath)

	// InfluxDB run telemetry
	if config.GetBool("influx.enabled") {
		backupPath := filepath.Join(logsDir, "influx_backup.gz")
		InfluxManager = influx.NewManager(
			logging.NewZerologLogger(logFile, config.GetString("logLevel")),
			backupPath,
		)
		if err := InfluxManager.Connect(); err != nil {
			Logger.Warn("Failed to connect to InfluxDB", "error", err)
			InfluxManager = nil
		}
	}
}

// serve runs the HTTP front end until interrupted.
func serve() {
	srv := server.New(Logger, config.GetSimulationConfig(), config.GetServerConfig(), InfluxManager)

	// report run state on every log record
	SlogMgr.GetRunCount = srv.CompletedRuns
	SlogMgr.IsServing = srv.Serving

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	errCh := make(chan error, 1)
	go func() {
		errCh <- srv.ListenAndServe()
	}()

	select {
	case err := <-errCh:
		if err != nil {
			Logger.Error("HTTP server failed", "error", err)
		}
	case <-ctx.Done():
		Logger.Info("Shutting down...")

		shutdownCtx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
		defer cancel()
		if err := srv.Shutdown(shutdownCtx); err != nil {
			Logger.Error("HTTP server shutdown failed", "error", err)
		}
		<-errCh
	}
}

// teardown flushes telemetry and closes the log file.
func teardown() {
	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()

	if err := SlogMgr.Flush(ctx); err != nil {
		Logger.Warn("Failed to flush logs", "error", err)
	}
	if OTelProvider != nil {
		if err := OTelProvider.Shutdown(ctx); err != nil {
			Logger.Warn("Failed to shut down OTel provider", "error", err)
		}
	}
	if InfluxManager != nil {
		if InfluxManager.BackupWriter != nil {
			InfluxManager.BackupWriter.Close()
		}
		if InfluxManager.Client != nil {
			InfluxManager.Client.Close()
		}
	}
	if logFile != nil {
		logFile.Close()
	}
}
