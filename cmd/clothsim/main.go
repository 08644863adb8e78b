// Package main is the entry point for the interactive cloth viewer.
package main

import (
	"fmt"
	"os"

	"go.uber.org/zap"

	"github.com/Faultbox/cloth-sim/internal/app"
	"github.com/Faultbox/cloth-sim/internal/config"
	"github.com/Faultbox/cloth-sim/internal/logger"
)

func main() {
	// Parse CLI flags first
	config.ParseFlags()

	cfg, err := config.Load()
	if err != nil {
		fmt.Fprintf(os.Stderr, "Config error: %v\n", err)
		os.Exit(1)
	}

	if err := logger.Init(cfg.Logging.Level, cfg.Logging.LogFile); err != nil {
		fmt.Fprintf(os.Stderr, "Logger error: %v\n", err)
		os.Exit(1)
	}
	defer logger.Sync()

	logger.Info("=== Cloth Simulation ===")
	if cfg.Source != "" {
		logger.Info("config loaded", zap.String("path", cfg.Source))
	} else {
		logger.Info("no config file found, using defaults")
	}
	logger.Sugar.Debugf("Config: %+v", cfg)

	a, err := app.New(cfg)
	if err != nil {
		logger.Error("failed to create viewer", zap.Error(err))
		os.Exit(1)
	}
	defer a.Close()

	a.Run()

	logger.Info("viewer closed normally")
}
