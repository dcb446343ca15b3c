package adapter

import (
	"context"

	"github.com/concilia/backend/internal/domain/entity"
)

// ChartRepository persists the uploaded chart of accounts.
type ChartRepository interface {
	// Replace swaps the stored chart for the accounts of a new upload.
	Replace(ctx context.Context, sourceTag string, accounts []*entity.ChartAccount) error

	// GetAll returns the stored accounts in upload order. An empty slice
	// means no chart has been uploaded.
	GetAll(ctx context.Context) ([]*entity.ChartAccount, error)
}

// KeywordRuleRepository persists the keyword validation rules.
type KeywordRuleRepository interface {
	// GetActive returns active rules ordered by priority.
	GetActive(ctx context.Context) ([]*entity.KeywordRule, error)

	// SeedDefaults inserts the default rule set when no rules exist yet.
	SeedDefaults(ctx context.Context) error
}
