package repository

import (
	"context"
	"errors"
	"fmt"

	"github.com/jackc/pgx/v5"
	"github.com/yourusername/form-guide/internal/models"
)

// RunRepository defines the interface for run data access
type RunRepository interface {
	SaveRun(ctx context.Context, run *models.Run) error
	SaveScoredRows(ctx context.Context, run *models.Run, rows []models.ScoredRow) (int64, error)
	SaveValueBets(ctx context.Context, run *models.Run, bets []models.ValueBet) (int64, error)
	GetLatestRun(ctx context.Context) (*models.Run, error)
}

// PostgresRunRepository implements RunRepository for PostgreSQL
type PostgresRunRepository struct {
	db DBTX
}

// NewPostgresRunRepository creates a new run repository
func NewPostgresRunRepository(db DBTX) RunRepository {
	return &PostgresRunRepository{db: db}
}

const insertRunSQL = `
	INSERT INTO runs (id, trigger, strategy, started_at, finished_at, documents, rows, bets, total_stake)
	VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9)
	ON CONFLICT (id) DO UPDATE SET
		finished_at = EXCLUDED.finished_at,
		documents = EXCLUDED.documents,
		rows = EXCLUDED.rows,
		bets = EXCLUDED.bets,
		total_stake = EXCLUDED.total_stake
`

const insertScoredRowSQL = `
	INSERT INTO scored_rows (run_id, row_id, track, date, race, box, runner, trainer, form, distance, grade, prior, prob_win)
	VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10, $11, $12, $13)
	ON CONFLICT (run_id, row_id) DO NOTHING
`

const insertValueBetSQL = `
	INSERT INTO value_bets (run_id, row_id, odds_decimal, implied, edge, kelly, stake)
	VALUES ($1, $2, $3, $4, $5, $6, $7)
	ON CONFLICT (run_id, row_id) DO NOTHING
`

// SaveRun upserts the run header.
func (r *PostgresRunRepository) SaveRun(ctx context.Context, run *models.Run) error {
	_, err := r.db.Exec(ctx, insertRunSQL,
		run.ID, run.Trigger, run.Strategy, run.StartedAt, run.FinishedAt,
		run.Documents, run.Rows, run.Bets, run.TotalStake,
	)
	if err != nil {
		return fmt.Errorf("failed to save run: %w", err)
	}
	return nil
}

// SaveScoredRows inserts every row in one batch and returns how many were new.
func (r *PostgresRunRepository) SaveScoredRows(ctx context.Context, run *models.Run, rows []models.ScoredRow) (int64, error) {
	batch := &pgx.Batch{}
	for _, row := range rows {
		batch.Queue(insertScoredRowSQL,
			run.ID, row.ID(), row.Track, row.Date, row.Race, row.Box, row.Runner,
			row.Trainer, row.Form, row.Distance, row.Grade, row.Prior, row.ProbWin,
		)
	}
	n, err := r.execBatch(ctx, batch)
	if err != nil {
		return n, fmt.Errorf("failed to save scored rows: %w", err)
	}
	return n, nil
}

// SaveValueBets inserts every bet in one batch and returns how many were new.
func (r *PostgresRunRepository) SaveValueBets(ctx context.Context, run *models.Run, bets []models.ValueBet) (int64, error) {
	batch := &pgx.Batch{}
	for _, bet := range bets {
		batch.Queue(insertValueBetSQL,
			run.ID, bet.ID(), bet.OddsDecimal, bet.Implied, bet.Edge, bet.Kelly, bet.Stake,
		)
	}
	n, err := r.execBatch(ctx, batch)
	if err != nil {
		return n, fmt.Errorf("failed to save value bets: %w", err)
	}
	return n, nil
}

func (r *PostgresRunRepository) execBatch(ctx context.Context, batch *pgx.Batch) (int64, error) {
	if batch.Len() == 0 {
		return 0, nil
	}
	results := r.db.SendBatch(ctx, batch)
	defer results.Close()

	var affected int64
	for i := 0; i < batch.Len(); i++ {
		tag, err := results.Exec()
		if err != nil {
			return affected, fmt.Errorf("statement %d: %w", i, err)
		}
		affected += tag.RowsAffected()
	}
	return affected, nil
}

// GetLatestRun returns the most recently finished run.
func (r *PostgresRunRepository) GetLatestRun(ctx context.Context) (*models.Run, error) {
	query := `
		SELECT id, trigger, strategy, started_at, finished_at, documents, rows, bets, total_stake
		FROM runs
		ORDER BY finished_at DESC
		LIMIT 1
	`
	run := &models.Run{}
	err := r.db.QueryRow(ctx, query).Scan(
		&run.ID, &run.Trigger, &run.Strategy, &run.StartedAt, &run.FinishedAt,
		&run.Documents, &run.Rows, &run.Bets, &run.TotalStake,
	)
	if errors.Is(err, pgx.ErrNoRows) {
		return nil, models.ErrNotFound
	}
	if err != nil {
		return nil, fmt.Errorf("failed to get latest run: %w", err)
	}
	return run, nil
}
