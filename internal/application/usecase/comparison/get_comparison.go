package comparison

import (
	"context"

	"github.com/google/uuid"

	"github.com/concilia/backend/internal/application/adapter"
	"github.com/concilia/backend/internal/domain/entity"
)

// GetComparisonUseCase loads one comparison run with its divergences.
type GetComparisonUseCase struct {
	comparisonRepo adapter.ComparisonRepository
}

// NewGetComparisonUseCase creates a new GetComparisonUseCase instance.
func NewGetComparisonUseCase(comparisonRepo adapter.ComparisonRepository) *GetComparisonUseCase {
	return &GetComparisonUseCase{comparisonRepo: comparisonRepo}
}

// Execute returns the run or ErrComparisonNotFound.
func (uc *GetComparisonUseCase) Execute(ctx context.Context, id uuid.UUID) (*entity.Comparison, error) {
	return uc.comparisonRepo.GetByID(ctx, id)
}

// ListComparisonsInput carries pagination for the run listing.
type ListComparisonsInput struct {
	Limit  int
	Offset int
}

// ListComparisonsUseCase lists comparison runs newest first.
type ListComparisonsUseCase struct {
	comparisonRepo adapter.ComparisonRepository
}

// NewListComparisonsUseCase creates a new ListComparisonsUseCase instance.
func NewListComparisonsUseCase(comparisonRepo adapter.ComparisonRepository) *ListComparisonsUseCase {
	return &ListComparisonsUseCase{comparisonRepo: comparisonRepo}
}

// Execute returns one page of runs without their divergence rows.
func (uc *ListComparisonsUseCase) Execute(ctx context.Context, input ListComparisonsInput) ([]*entity.Comparison, error) {
	limit := input.Limit
	if limit <= 0 || limit > 100 {
		limit = 20
	}
	offset := input.Offset
	if offset < 0 {
		offset = 0
	}
	return uc.comparisonRepo.List(ctx, limit, offset)
}
