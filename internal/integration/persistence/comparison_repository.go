// Package persistence implements repository interfaces for database operations.
package persistence

import (
	"context"
	"errors"

	"github.com/google/uuid"
	"gorm.io/gorm"

	"github.com/concilia/backend/internal/application/adapter"
	"github.com/concilia/backend/internal/domain/entity"
	domainerror "github.com/concilia/backend/internal/domain/error"
	"github.com/concilia/backend/internal/integration/persistence/model"
)

// comparisonRepository implements the adapter.ComparisonRepository interface.
type comparisonRepository struct {
	db *gorm.DB
}

// NewComparisonRepository creates a new comparison repository instance.
func NewComparisonRepository(db *gorm.DB) adapter.ComparisonRepository {
	return &comparisonRepository{
		db: db,
	}
}

// Create stores a new comparison run. Runs are created in the processing
// state before any divergence exists.
func (r *comparisonRepository) Create(ctx context.Context, comparison *entity.Comparison) error {
	return r.db.WithContext(ctx).Create(model.ComparisonFromEntity(comparison)).Error
}

// Update stores the current state of a run. Divergence rows are rewritten as
// a whole: a run's divergences are immutable once completed, so a rewrite
// only ever happens on the processing-to-completed transition.
func (r *comparisonRepository) Update(ctx context.Context, comparison *entity.Comparison) error {
	return r.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		// Select("*") writes zero values too, so counts reset correctly.
		result := tx.Model(&model.ComparisonModel{}).
			Where("id = ?", comparison.ID).
			Select("*").Omit("id", "created_at", "Divergences").
			Updates(model.ComparisonFromEntity(comparison))
		if result.Error != nil {
			return result.Error
		}
		if result.RowsAffected == 0 {
			return domainerror.NewComparisonError(domainerror.ErrCodeComparisonNotFound,
				"comparison not found: "+comparison.ID.String(), domainerror.ErrComparisonNotFound)
		}

		if err := tx.Where("comparison_id = ?", comparison.ID).
			Delete(&model.DivergenceModel{}).Error; err != nil {
			return err
		}
		if len(comparison.Divergences) == 0 {
			return nil
		}

		rows := make([]*model.DivergenceModel, 0, len(comparison.Divergences))
		for _, d := range comparison.Divergences {
			rows = append(rows, model.DivergenceFromEntity(comparison.ID, d))
		}
		return tx.Create(rows).Error
	})
}

// GetByID loads a run with its divergences.
func (r *comparisonRepository) GetByID(ctx context.Context, id uuid.UUID) (*entity.Comparison, error) {
	var m model.ComparisonModel
	err := r.db.WithContext(ctx).
		Preload("Divergences").
		Where("id = ?", id).
		First(&m).Error
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, domainerror.NewComparisonError(domainerror.ErrCodeComparisonNotFound,
				"comparison not found: "+id.String(), domainerror.ErrComparisonNotFound)
		}
		return nil, err
	}
	return m.ToEntity(), nil
}

// List returns runs newest first, without divergence rows.
func (r *comparisonRepository) List(ctx context.Context, limit, offset int) ([]*entity.Comparison, error) {
	var models []model.ComparisonModel
	err := r.db.WithContext(ctx).
		Order("created_at DESC").
		Limit(limit).
		Offset(offset).
		Find(&models).Error
	if err != nil {
		return nil, err
	}

	runs := make([]*entity.Comparison, len(models))
	for i := range models {
		runs[i] = models[i].ToEntity()
	}
	return runs, nil
}
