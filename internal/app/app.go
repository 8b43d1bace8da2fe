package app

import (
	"context"
	"log/slog"

	"greenmetrics/internal/config"
	"greenmetrics/internal/infrastructure/llm"
	"greenmetrics/internal/infrastructure/rates"
	"greenmetrics/internal/infrastructure/spreadsheet"
	"greenmetrics/internal/infrastructure/storage"
	"greenmetrics/internal/logging"
	"greenmetrics/internal/ports"
	"greenmetrics/internal/progress"
	"greenmetrics/internal/report"
	"greenmetrics/internal/usecase"
)

// Application wires configs to use cases and lifecycle orchestration.
type Application struct {
	cfg      config.Config
	logger   *slog.Logger
	runner   *usecase.Runner
	register *progress.Register
}

// New builds a runnable application instance.
func New(cfg config.Config, baseLogger *slog.Logger) *Application {
	if baseLogger == nil {
		baseLogger = logging.New(cfg.Logging.Level)
	}

	var classifier ports.Classifier
	if cfg.Classifier.APIKey != "" || cfg.Classifier.BaseURL != "" {
		classifier = llm.NewClassifier(cfg.Classifier, baseLogger.With("component", "classifier"))
	}

	var repository ports.RunRepository
	if cfg.Database.DSN != "" {
		db, err := storage.Open(cfg.Database.DSN)
		if err != nil {
			baseLogger.Warn("run history disabled", "error", err)
		} else {
			repository = storage.NewPostgresRepository(db)
		}
	}

	register := progress.NewRegister()
	pipeline := usecase.NewPipeline(usecase.PipelineDeps{
		Source:     spreadsheet.NewReader(baseLogger.With("component", "reader")),
		Classifier: classifier,
		Rates:      rates.NewClient(cfg.Rates),
		Exporter:   spreadsheet.NewWriter(baseLogger.With("component", "writer")),
		Repository: repository,
		Progress:   register,
		Logger:     baseLogger.With("component", "pipeline"),
	})

	registry := report.NewRegistry()
	registry.Register(pipeline)

	runner := usecase.NewRunner(register, registry, baseLogger.With("component", "runner"))
	return &Application{cfg: cfg, logger: baseLogger, runner: runner, register: register}
}

// Progress exposes the run register for status polling.
func (a *Application) Progress() *progress.Register {
	return a.register
}

// Run generates the research-funds report for the given input spreadsheet,
// synchronously.
func (a *Application) Run(ctx context.Context, inputPath string) error {
	return a.runner.Run(ctx, usecase.ReportID, report.Request{
		InputPath:   inputPath,
		DatasetPath: a.cfg.Output.DatasetFile,
		ReportPath:  a.cfg.Output.ReportFile,
	})
}
