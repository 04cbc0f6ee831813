// Command formdiff-server runs the form comparison toolset as an MCP
// server on stdio.
package main

import (
	"context"
	"fmt"
	"os"

	"go.uber.org/zap"
	"go.uber.org/zap/zapcore"

	"github.com/formlens/formdiff/internal/config"
	"github.com/formlens/formdiff/internal/mcpserver"
	"github.com/formlens/formdiff/internal/service"
	"github.com/formlens/formdiff/internal/store"
)

var version = "dev" // set by build flags

func main() {
	if err := run(); err != nil {
		fmt.Fprintf(os.Stderr, "formdiff-server: %v\n", err)
		os.Exit(1)
	}
}

func run() error {
	cfg, err := config.LoadFromFlags()
	if err != nil {
		return err
	}
	cfg.Version = version

	logger, err := buildLogger(cfg)
	if err != nil {
		return fmt.Errorf("build logger: %w", err)
	}
	defer logger.Sync() //nolint:errcheck

	var st *store.Store
	if cfg.DatabasePath != "" {
		st, err = store.Open(cfg.DatabasePath)
		if err != nil {
			return err
		}
		defer st.Close()
		logger.Info("result store enabled", zap.String("path", cfg.DatabasePath))
	}

	svc := service.New(cfg, st, logger)
	srv, err := mcpserver.NewServer(cfg, svc)
	if err != nil {
		return err
	}

	logger.Info("starting MCP server on stdio",
		zap.String("name", cfg.ServerName),
		zap.String("version", cfg.Version),
		zap.Float64("tolerance", cfg.PositionTolerance))
	return srv.Run(context.Background())
}

// buildLogger sets up zap on stderr; stdout carries the MCP protocol.
func buildLogger(cfg *config.Config) (*zap.Logger, error) {
	level, err := zapcore.ParseLevel(cfg.LogLevel)
	if err != nil {
		return nil, err
	}
	zc := zap.NewProductionConfig()
	zc.Level = zap.NewAtomicLevelAt(level)
	zc.OutputPaths = []string{"stderr"}
	zc.ErrorOutputPaths = []string{"stderr"}
	return zc.Build()
}
