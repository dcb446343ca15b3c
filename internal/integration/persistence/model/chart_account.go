package model

import (
	"time"

	"github.com/google/uuid"

	"github.com/concilia/backend/internal/domain/entity"
)

// ChartAccountModel represents the chart_accounts table in the database.
// Position preserves the upload order of the source CSV.
type ChartAccountModel struct {
	ID          uuid.UUID `gorm:"type:uuid;primaryKey"`
	Code        string    `gorm:"type:varchar(60);not null;index"`
	Name        string    `gorm:"type:varchar(255);not null"`
	Level       int       `gorm:"not null;default:1"`
	ParentCode  string    `gorm:"type:varchar(60)"`
	AccountType string    `gorm:"type:varchar(40)"`
	Nature      string    `gorm:"type:varchar(40)"`
	SourceTag   string    `gorm:"type:varchar(255);not null"`
	Position    int       `gorm:"not null;default:0;index"`
	CreatedAt   time.Time `gorm:"not null"`
}

// TableName returns the table name for the ChartAccountModel.
func (ChartAccountModel) TableName() string {
	return "chart_accounts"
}

// ToEntity converts a ChartAccountModel to a domain ChartAccount entity.
func (m *ChartAccountModel) ToEntity() *entity.ChartAccount {
	return &entity.ChartAccount{
		ID:         m.ID,
		Code:       m.Code,
		Name:       m.Name,
		Level:      m.Level,
		ParentCode: m.ParentCode,
		Type:       m.AccountType,
		Nature:     m.Nature,
		SourceTag:  m.SourceTag,
		CreatedAt:  m.CreatedAt,
	}
}

// ChartAccountFromEntity creates a ChartAccountModel from a domain ChartAccount entity.
func ChartAccountFromEntity(a *entity.ChartAccount, position int) *ChartAccountModel {
	return &ChartAccountModel{
		ID:          a.ID,
		Code:        a.Code,
		Name:        a.Name,
		Level:       a.Level,
		ParentCode:  a.ParentCode,
		AccountType: a.Type,
		Nature:      a.Nature,
		SourceTag:   a.SourceTag,
		Position:    position,
		CreatedAt:   a.CreatedAt,
	}
}
