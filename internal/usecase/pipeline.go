package usecase

import (
	"context"
	"fmt"
	"log/slog"
	"time"

	"greenmetrics/internal/allocation"
	"greenmetrics/internal/domain"
	"greenmetrics/internal/ports"
	"greenmetrics/internal/report"
)

// ReportID is the questionnaire item this pipeline produces.
const ReportID = "6.4"

// PipelineDeps wires all driven adapters into the report pipeline.
type PipelineDeps struct {
	Source     ports.TableSource
	Classifier ports.Classifier
	Rates      ports.RateProvider
	Exporter   ports.DatasetExporter
	Repository ports.RunRepository
	Progress   ports.ProgressSink
	Logger     *slog.Logger
}

// Pipeline implements the research-funds report workflow: load the
// funding spreadsheet, impute amounts per calendar year, classify projects
// for sustainability, aggregate, convert to USD and export.
type Pipeline struct {
	source     ports.TableSource
	classifier ports.Classifier
	rates      ports.RateProvider
	exporter   ports.DatasetExporter
	repository ports.RunRepository
	sink       ports.ProgressSink
	logger     *slog.Logger
}

var _ report.Generator = (*Pipeline)(nil)

// NewPipeline constructs the orchestration component.
func NewPipeline(deps PipelineDeps) *Pipeline {
	logger := deps.Logger
	if logger == nil {
		logger = slog.Default()
	}
	return &Pipeline{
		source:     deps.Source,
		classifier: deps.Classifier,
		rates:      deps.Rates,
		exporter:   deps.Exporter,
		repository: deps.Repository,
		sink:       deps.Progress,
		logger:     logger,
	}
}

// ID returns the questionnaire item id.
func (p *Pipeline) ID() string { return ReportID }

// Generate runs the whole batch from the input spreadsheet to the two
// exported artifacts. File and header errors abort the batch; classifier
// and exchange-rate failures degrade as documented on the adapters.
func (p *Pipeline) Generate(ctx context.Context, req report.Request) error {
	p.progress("loading spreadsheet", 5)

	table, err := p.source.Load(ctx, req.InputPath, allocation.RequiredColumns())
	if err != nil {
		return p.fail(req, fmt.Errorf("load spreadsheet: %w", err))
	}

	projects := allocation.ProjectsFromTable(table)
	projects, err = allocation.NormalizeDates(projects)
	if err != nil {
		return p.fail(req, fmt.Errorf("normalize dates: %w", err))
	}
	projects, err = allocation.ComputeDailyRates(projects)
	if err != nil {
		return p.fail(req, fmt.Errorf("compute daily rates: %w", err))
	}

	p.progress("allocating amounts per year", 20)
	years := allocation.YearRange(projects)
	projects = allocation.Allocate(projects, years)
	p.logger.Info("projects allocated", "projects", len(projects), "years", len(years))

	p.progress("classifying projects", 30)
	p.classify(ctx, projects)
	projects = allocation.MirrorSustainable(projects)

	ds := domain.Dataset{
		Projects: projects,
		Years:    years,
		Totals:   allocation.ComputeTotals(projects, years),
	}

	p.progress("exporting dataset", 70)
	if err := p.exporter.ExportDataset(ds, req.DatasetPath); err != nil {
		return p.fail(req, fmt.Errorf("export dataset: %w", err))
	}

	p.progress("converting currency", 80)
	summaryYears := allocation.SummaryYears(years)
	rates := p.fetchRates(ctx, summaryYears)
	summary := allocation.BuildSummary(ds.Totals, summaryYears, rates)

	p.progress("exporting report", 90)
	if err := p.exporter.ExportReport(ds, summary, req.ReportPath); err != nil {
		return p.fail(req, fmt.Errorf("export report: %w", err))
	}

	p.saveRun(ctx, domain.Run{
		ReportID:         ReportID,
		InputFile:        req.InputPath,
		ProjectCount:     len(projects),
		TotalResearchUSD: summary.TotalResearchUSD,
		SustainableUSD:   summary.TotalSustainable,
		RatioPercent:     summary.RatioPercent,
		Status:           domain.RunCompleted,
		CreatedAt:        time.Now().UTC(),
	})

	p.progress("report generated", 100)
	p.logger.Info("report generated",
		"totalResearchUSD", summary.TotalResearchUSD,
		"sustainableUSD", summary.TotalSustainable,
		"ratioPercent", summary.RatioPercent)
	return nil
}

// classify asks the oracle for every project title. Oracle failures count
// as negative votes and never abort the batch.
func (p *Pipeline) classify(ctx context.Context, projects []domain.Project) {
	if p.classifier == nil {
		for i := range projects {
			projects[i].Classified = "no"
		}
		return
	}

	for i := range projects {
		answer, err := p.classifier.Classify(ctx, projects[i].Title)
		if err != nil {
			p.logger.Warn("classification failed, treating as not sustainable",
				"reference", projects[i].Reference, "error", err)
			answer = "no"
		}
		projects[i].Classified = answer

		if len(projects) > 0 {
			p.progress("classifying projects", 30+40*(i+1)/len(projects))
		}
	}
}

// fetchRates resolves one EUR to USD rate per summary year. A failed fetch
// degrades to a zero rate for that year.
func (p *Pipeline) fetchRates(ctx context.Context, years []int) map[int]float64 {
	fetched := make(map[int]float64, len(years))
	for _, year := range years {
		if p.rates == nil {
			fetched[year] = 0
			continue
		}
		rate, err := p.rates.FetchRate(ctx, year)
		if err != nil {
			p.logger.Warn("exchange rate unavailable, using zero rate",
				"year", year, "error", err)
			rate = 0
		}
		fetched[year] = rate
	}
	return fetched
}

func (p *Pipeline) saveRun(ctx context.Context, run domain.Run) {
	if p.repository == nil {
		return
	}
	if err := p.repository.SaveRun(ctx, run); err != nil {
		p.logger.Warn("persist run history failed", "error", err)
	}
}

func (p *Pipeline) progress(message string, percent int) {
	if p.sink != nil {
		p.sink.Progress(message, percent)
	}
}

func (p *Pipeline) fail(req report.Request, err error) error {
	p.saveRun(context.Background(), domain.Run{
		ReportID:  ReportID,
		InputFile: req.InputPath,
		Status:    domain.RunFailed,
		CreatedAt: time.Now().UTC(),
	})
	return err
}
