package main

import (
	"context"
	"flag"
	"fmt"
	"os"
	"os/signal"
	"syscall"

	"github.com/Rezamoghadam8810/dollar-tax-analysis/internal/analyzer"
	"github.com/Rezamoghadam8810/dollar-tax-analysis/internal/config"
	"github.com/Rezamoghadam8810/dollar-tax-analysis/internal/logger"
	"go.uber.org/zap"
)

func main() {
	configPath := flag.String("config", "./configs", "directory containing config.yml")
	flag.Parse()

	// Load application configuration
	cfg, err := config.LoadConfig(*configPath)
	if err != nil {
		// We can't use the logger here because it's not initialized yet.
		fmt.Fprintf(os.Stderr, "could not load config: %v\n", err)
		os.Exit(1)
	}

	// Initialize logger
	log, err := logger.NewLogger(cfg.Logger.Level, cfg.Logger.Format)
	if err != nil {
		fmt.Fprintf(os.Stderr, "could not initialize logger: %v\n", err)
		os.Exit(1)
	}
	defer log.Sync()
	log.Info("Configuration loaded", zap.String("data_dir", cfg.Data.Dir))

	// Setup context so an interrupt stops the run between pipeline stages.
	ctx, cancel := context.WithCancel(context.Background())
	go func() {
		sigchan := make(chan os.Signal, 1)
		signal.Notify(sigchan, syscall.SIGINT, syscall.SIGTERM)
		<-sigchan
		log.Info("Shutdown signal received, stopping analysis...")
		cancel()
	}()

	// Run the analysis pipeline once.
	engine := analyzer.NewEngine(log, &cfg)
	if err := engine.Run(ctx); err != nil {
		log.Fatal("Analysis failed", zap.Error(err))
	}

	log.Info("Analysis finished.")
}
