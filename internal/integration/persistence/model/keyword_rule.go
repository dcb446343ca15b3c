package model

import (
	"encoding/json"
	"time"

	"github.com/google/uuid"

	"github.com/concilia/backend/internal/domain/entity"
)

// KeywordRuleModel represents the keyword_rules table in the database.
type KeywordRuleModel struct {
	ID               uuid.UUID `gorm:"type:uuid;primaryKey"`
	Keyword          string    `gorm:"type:varchar(120);not null;index"`
	ExpectedPrefixes string    `gorm:"type:text;not null"` // JSON array of dotted prefixes
	Rationale        string    `gorm:"type:text"`
	Priority         int       `gorm:"not null;default:0;index"`
	IsActive         bool      `gorm:"not null;default:true"`
	CreatedAt        time.Time `gorm:"not null"`
	UpdatedAt        time.Time `gorm:"not null"`
}

// TableName returns the table name for the KeywordRuleModel.
func (KeywordRuleModel) TableName() string {
	return "keyword_rules"
}

// ToEntity converts a KeywordRuleModel to a domain KeywordRule entity.
func (m *KeywordRuleModel) ToEntity() *entity.KeywordRule {
	rule := &entity.KeywordRule{
		ID:        m.ID,
		Keyword:   m.Keyword,
		Rationale: m.Rationale,
		Priority:  m.Priority,
		IsActive:  m.IsActive,
		CreatedAt: m.CreatedAt,
		UpdatedAt: m.UpdatedAt,
	}
	if m.ExpectedPrefixes != "" {
		_ = json.Unmarshal([]byte(m.ExpectedPrefixes), &rule.ExpectedPrefixes)
	}
	return rule
}

// KeywordRuleFromEntity creates a KeywordRuleModel from a domain KeywordRule entity.
func KeywordRuleFromEntity(rule *entity.KeywordRule) *KeywordRuleModel {
	prefixes := "[]"
	if raw, err := json.Marshal(rule.ExpectedPrefixes); err == nil {
		prefixes = string(raw)
	}

	return &KeywordRuleModel{
		ID:               rule.ID,
		Keyword:          rule.Keyword,
		ExpectedPrefixes: prefixes,
		Rationale:        rule.Rationale,
		Priority:         rule.Priority,
		IsActive:         rule.IsActive,
		CreatedAt:        rule.CreatedAt,
		UpdatedAt:        rule.UpdatedAt,
	}
}
