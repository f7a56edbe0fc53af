package main

import (
	"context"
	"flag"
	"fmt"
	"net/http"
	"os"
	"time"

	"go.uber.org/zap"
	"go.uber.org/zap/zapcore"

	"github.com/nvidia-cloud-ai/llm-router-gateway/internal/routerconfig"
)

func main() {
	configPath := flag.String("config-path", "", "path to the router policy config (YAML)")
	flag.Parse()

	if *configPath == "" {
		fmt.Fprintln(os.Stderr, "llmrouter: --config-path is required")
		os.Exit(1)
	}

	logger := initLogger()
	defer logger.Sync()

	cfg, err := routerconfig.NewLoader().WithConfigPath(*configPath).Load()
	if err != nil {
		logger.Fatal("failed to load config", zap.Error(err))
	}

	logger.Info("config loaded", zap.String("path", *configPath), zap.Int("policies", len(cfg.Policies)))

	srv := NewServer(cfg, logger)
	if err := srv.Start(context.Background()); err != nil {
		logger.Fatal("failed to start server", zap.Error(err))
	}

	srv.WaitForShutdown()
	logger.Info("llmrouter stopped")
}

// initLogger builds a zap logger: JSON encoding in production, console
// encoding when LOG_FORMAT=console, caller info and error-level
// stacktraces always on.
func initLogger() *zap.Logger {
	format := os.Getenv("LOG_FORMAT")

	var encoderConfig zapcore.EncoderConfig
	if format == "console" {
		encoderConfig = zap.NewDevelopmentEncoderConfig()
		encoderConfig.EncodeLevel = zapcore.CapitalColorLevelEncoder
	} else {
		encoderConfig = zap.NewProductionEncoderConfig()
		encoderConfig.TimeKey = "timestamp"
		encoderConfig.EncodeTime = zapcore.ISO8601TimeEncoder
	}

	zapConfig := zap.Config{
		Level:            zap.NewAtomicLevelAt(zapcore.InfoLevel),
		Development:      format == "console",
		Encoding:         "json",
		EncoderConfig:    encoderConfig,
		OutputPaths:      []string{"stderr"},
		ErrorOutputPaths: []string{"stderr"},
	}
	if format == "console" {
		zapConfig.Encoding = "console"
	}

	logger, err := zapConfig.Build(
		zap.AddCaller(),
		zap.AddStacktrace(zapcore.ErrorLevel),
	)
	if err != nil {
		logger, _ = zap.NewProduction()
	}
	return logger
}

// newHTTPClient builds the single *http.Client shared by the classifier
// client and the upstream dispatcher, its transport wrapped for tracing.
func newHTTPClient(transport http.RoundTripper) *http.Client {
	return &http.Client{
		Timeout:   60 * time.Second,
		Transport: transport,
	}
}
