package main

import (
	"context"
	"flag"
	"fmt"
	"os"

	"github.com/joho/godotenv"

	"greenmetrics/internal/app"
	"greenmetrics/internal/config"
	"greenmetrics/internal/logging"
)

func main() {
	_ = godotenv.Load()

	input := flag.String("input", "", "path to the funding spreadsheet (xlsx)")
	flag.Parse()

	if *input == "" {
		fmt.Fprintln(os.Stderr, "usage: greenmetrics -input <projects.xlsx>")
		os.Exit(2)
	}

	ctx := context.Background()
	cfg := config.Load()
	logger := logging.New(cfg.Logging.Level)

	application := app.New(cfg, logger)

	if err := application.Run(ctx, *input); err != nil {
		logger.Error("report generation failed", "error", err)
		os.Exit(1)
	}
}
