// Package repository persists pipeline runs and their outputs.
package repository

import (
	"context"
	"fmt"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgconn"
	"github.com/yourusername/form-guide/internal/database"
)

// DBTX is the subset of the pool used by the repositories; *database.DB
// satisfies it.
type DBTX interface {
	Exec(ctx context.Context, query string, args ...any) (pgconn.CommandTag, error)
	QueryRow(ctx context.Context, query string, args ...any) pgx.Row
	SendBatch(ctx context.Context, b *pgx.Batch) pgx.BatchResults
}

var _ DBTX = (*database.DB)(nil)

// Repositories holds all repository implementations
type Repositories struct {
	Run RunRepository
}

// NewRepositories creates and returns all repository implementations
func NewRepositories(db DBTX) (*Repositories, error) {
	if db == nil {
		return nil, fmt.Errorf("database connection is required")
	}
	return &Repositories{
		Run: NewPostgresRunRepository(db),
	}, nil
}
