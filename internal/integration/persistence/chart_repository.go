package persistence

import (
	"context"

	"gorm.io/gorm"

	"github.com/concilia/backend/internal/application/adapter"
	"github.com/concilia/backend/internal/domain/entity"
	"github.com/concilia/backend/internal/integration/persistence/model"
)

// chartRepository implements the adapter.ChartRepository interface.
type chartRepository struct {
	db *gorm.DB
}

// NewChartRepository creates a new chart repository instance.
func NewChartRepository(db *gorm.DB) adapter.ChartRepository {
	return &chartRepository{
		db: db,
	}
}

// Replace swaps the stored chart for the accounts of a new upload. The swap
// is transactional so a failed upload never leaves a half-replaced chart.
func (r *chartRepository) Replace(ctx context.Context, sourceTag string, accounts []*entity.ChartAccount) error {
	return r.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		if err := tx.Where("1 = 1").Delete(&model.ChartAccountModel{}).Error; err != nil {
			return err
		}
		if len(accounts) == 0 {
			return nil
		}

		rows := make([]*model.ChartAccountModel, 0, len(accounts))
		for i, a := range accounts {
			rows = append(rows, model.ChartAccountFromEntity(a, i))
		}
		return tx.Create(rows).Error
	})
}

// GetAll returns the stored accounts in upload order.
func (r *chartRepository) GetAll(ctx context.Context) ([]*entity.ChartAccount, error) {
	var models []model.ChartAccountModel
	err := r.db.WithContext(ctx).
		Order("position ASC").
		Find(&models).Error
	if err != nil {
		return nil, err
	}

	accounts := make([]*entity.ChartAccount, len(models))
	for i := range models {
		accounts[i] = models[i].ToEntity()
	}
	return accounts, nil
}
