package main

import (
	"context"
	"flag"
	"os"

	"github.com/Temutjin2k/smartrash/config"
	_ "github.com/Temutjin2k/smartrash/docs"
	"github.com/Temutjin2k/smartrash/internal/app"
	"github.com/Temutjin2k/smartrash/pkg/logger"
)

var (
	helpFlag   = flag.Bool("help", false, "Show help message")
	configPath = flag.String("config-path", "config.yaml", "Path to the config yaml file")
)

func main() {
	flag.Parse()
	if *helpFlag {
		config.PrintHelp()
		return
	}

	ctx := context.Background()
	log := logger.InitLogger("", logger.LevelDebug)

	cfg, err := config.NewConfig(*configPath)
	if err != nil {
		log.Error(ctx, "failed to configure application", err)
		config.PrintHelp()
		os.Exit(2)
	}

	// Printing configuration
	config.PrintConfig(cfg)

	for _, w := range cfg.Warnings() {
		log.Warn(ctx, "insecure configuration", "warning", w)
	}

	if !logger.ValidateLogLevel(cfg.LogLevel) {
		log.Warn(ctx, "unknown log level, using DEBUG", "log_level", cfg.LogLevel)
	}
	log = logger.InitLogger(cfg.Mode.String(), cfg.LogLevel)

	// Creating application
	application, err := app.NewApplication(ctx, *cfg, log)
	if err != nil {
		log.Error(ctx, "failed to init application", err)
		os.Exit(1)
	}

	// Running the application
	if err = application.Run(ctx); err != nil {
		log.Error(ctx, "failed to run application", err)
		os.Exit(1)
	}
}
