package persistence

import (
	"context"

	"gorm.io/gorm"

	"github.com/concilia/backend/internal/application/adapter"
	"github.com/concilia/backend/internal/domain/entity"
	"github.com/concilia/backend/internal/integration/persistence/model"
)

// keywordRuleRepository implements the adapter.KeywordRuleRepository interface.
type keywordRuleRepository struct {
	db *gorm.DB
}

// NewKeywordRuleRepository creates a new keyword rule repository instance.
func NewKeywordRuleRepository(db *gorm.DB) adapter.KeywordRuleRepository {
	return &keywordRuleRepository{
		db: db,
	}
}

// GetActive returns active rules ordered by priority.
func (r *keywordRuleRepository) GetActive(ctx context.Context) ([]*entity.KeywordRule, error) {
	var models []model.KeywordRuleModel
	err := r.db.WithContext(ctx).
		Where("is_active = ?", true).
		Order("priority ASC").
		Find(&models).Error
	if err != nil {
		return nil, err
	}

	rules := make([]*entity.KeywordRule, len(models))
	for i := range models {
		rules[i] = models[i].ToEntity()
	}
	return rules, nil
}

// SeedDefaults inserts the default rule set when the table is empty,
// including inactive rows so a deliberately disabled rule is not reseeded.
func (r *keywordRuleRepository) SeedDefaults(ctx context.Context) error {
	return r.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		var count int64
		if err := tx.Model(&model.KeywordRuleModel{}).Count(&count).Error; err != nil {
			return err
		}
		if count > 0 {
			return nil
		}

		defaults := entity.DefaultKeywordRules()
		rows := make([]*model.KeywordRuleModel, 0, len(defaults))
		for _, rule := range defaults {
			rows = append(rows, model.KeywordRuleFromEntity(rule))
		}
		return tx.Create(rows).Error
	})
}
