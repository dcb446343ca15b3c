// Package adapter defines the interfaces between use cases and the
// integration layer.
package adapter

import (
	"context"

	"github.com/google/uuid"

	"github.com/concilia/backend/internal/domain/entity"
)

// ComparisonRepository persists comparison runs and their divergences.
type ComparisonRepository interface {
	// Create stores a new comparison run.
	Create(ctx context.Context, comparison *entity.Comparison) error

	// Update stores the current state of an existing run, including its
	// divergences and summary counts.
	Update(ctx context.Context, comparison *entity.Comparison) error

	// GetByID loads a run with its divergences.
	GetByID(ctx context.Context, id uuid.UUID) (*entity.Comparison, error)

	// List returns runs newest first, without divergence rows.
	List(ctx context.Context, limit, offset int) ([]*entity.Comparison, error)
}
