package ports

import (
	"context"

	"greenmetrics/internal/domain"
)

// TableSource loads the raw project spreadsheet into a cleaned table.
type TableSource interface {
	Load(ctx context.Context, path string, required []string) (domain.Table, error)
}

// Classifier asks the external oracle whether a project title relates to
// sustainability. It returns the normalized answer token; callers treat
// anything other than "yes" (including an error) as a negative.
type Classifier interface {
	Classify(ctx context.Context, text string) (string, error)
}

// RateProvider fetches the EUR to USD exchange rate quoted on the last day
// of a calendar year. A returned error degrades to a zero rate at the call
// site rather than failing the batch.
type RateProvider interface {
	FetchRate(ctx context.Context, year int) (float64, error)
}

// DatasetExporter writes the allocated dataset and the financial summary
// to the durable spreadsheet artifacts.
type DatasetExporter interface {
	ExportDataset(ds domain.Dataset, path string) error
	ExportReport(ds domain.Dataset, summary domain.Summary, path string) error
}

// RunRepository persists completed report runs for history and audit.
type RunRepository interface {
	SaveRun(ctx context.Context, run domain.Run) error
	RecentRuns(ctx context.Context, reportID string, limit int) ([]domain.Run, error)
}

// ProgressSink receives coarse progress updates from a running pipeline.
type ProgressSink interface {
	Progress(message string, percent int)
}
