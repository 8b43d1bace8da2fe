package storage

import (
	"context"
	"database/sql"
	"fmt"

	sq "github.com/Masterminds/squirrel"
	_ "github.com/lib/pq"

	"greenmetrics/internal/domain"
	"greenmetrics/internal/ports"
)

// PostgresRepository persists report runs into Postgres for history/audit.
type PostgresRepository struct {
	db      *sql.DB
	builder sq.StatementBuilderType
}

var _ ports.RunRepository = (*PostgresRepository)(nil)

// Open connects to Postgres and verifies the connection.
func Open(dsn string) (*sql.DB, error) {
	db, err := sql.Open("postgres", dsn)
	if err != nil {
		return nil, fmt.Errorf("open postgres: %w", err)
	}
	if err := db.Ping(); err != nil {
		return nil, fmt.Errorf("ping postgres: %w", err)
	}
	return db, nil
}

// NewPostgresRepository wires a sql.DB implementation.
func NewPostgresRepository(db *sql.DB) *PostgresRepository {
	return &PostgresRepository{
		db:      db,
		builder: sq.StatementBuilder.PlaceholderFormat(sq.Dollar),
	}
}

// SaveRun inserts one completed or failed report run.
func (r *PostgresRepository) SaveRun(ctx context.Context, run domain.Run) error {
	if r.db == nil {
		return nil
	}

	query, args, err := r.builder.
		Insert("report_runs").
		Columns("report_id", "input_file", "project_count",
			"total_research_usd", "sustainable_usd", "ratio_percent",
			"status", "created_at").
		Values(run.ReportID, run.InputFile, run.ProjectCount,
			run.TotalResearchUSD, run.SustainableUSD, run.RatioPercent,
			run.Status, run.CreatedAt).
		ToSql()
	if err != nil {
		return fmt.Errorf("build insert: %w", err)
	}

	if _, err := r.db.ExecContext(ctx, query, args...); err != nil {
		return fmt.Errorf("insert run: %w", err)
	}
	return nil
}

// RecentRuns returns the newest runs of a report, newest first.
func (r *PostgresRepository) RecentRuns(ctx context.Context, reportID string, limit int) ([]domain.Run, error) {
	if r.db == nil {
		return nil, nil
	}
	if limit <= 0 {
		limit = 10
	}

	query, args, err := r.builder.
		Select("report_id", "input_file", "project_count",
			"total_research_usd", "sustainable_usd", "ratio_percent",
			"status", "created_at").
		From("report_runs").
		Where(sq.Eq{"report_id": reportID}).
		OrderBy("created_at DESC").
		Limit(uint64(limit)).
		ToSql()
	if err != nil {
		return nil, fmt.Errorf("build select: %w", err)
	}

	rows, err := r.db.QueryContext(ctx, query, args...)
	if err != nil {
		return nil, fmt.Errorf("query runs: %w", err)
	}
	defer rows.Close()

	var runs []domain.Run
	for rows.Next() {
		var run domain.Run
		if err := rows.Scan(&run.ReportID, &run.InputFile, &run.ProjectCount,
			&run.TotalResearchUSD, &run.SustainableUSD, &run.RatioPercent,
			&run.Status, &run.CreatedAt); err != nil {
			return nil, fmt.Errorf("scan run: %w", err)
		}
		runs = append(runs, run)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("rows iteration: %w", err)
	}

	return runs, nil
}
