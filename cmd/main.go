package main

import (
	"context"
	"os"

	"github.com/urfave/cli/v3"

	"github.com/michaelRS2002/Popfix-front/internal/shared"
)

func main() {
	logger := shared.NewLogger(nil)

	config := shared.DefaultConfig()
	if _, err := os.Stat("config.toml"); err == nil {
		if loadedConfig, err := shared.LoadConfig("config.toml"); err == nil {
			config = loadedConfig
		} else {
			logger.Warn("failed to load config, using defaults", "error", err)
		}
	}

	var runnerOpts = RunnerOpts{Config: config, Logger: logger}

	if db, err := shared.NewDatabase(config.Database.Path); err == nil {
		shared.ConfigureDatabase(db, config.Database.MaxOpenConns, config.Database.MaxIdleConns)
		if err := shared.RunMigrations(db); err != nil {
			logger.Debug("migrations not applied", "error", err)
		}
		runnerOpts.DB = db
		defer db.Close()
	} else {
		logger.Warn("local database unavailable", "error", err)
	}

	runner := NewRunner(runnerOpts)

	app := &cli.Command{
		Name:     "popfix",
		Usage:    "Browse, favorite, and rate PopFix movies from the terminal",
		Version:  "0.3.0",
		Commands: runner.register(),
	}

	if err := app.Run(context.Background(), os.Args); err != nil {
		logger.Fatalf("application error: %v", err)
	}
}
