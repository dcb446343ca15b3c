// Package model defines database models for persistence layer.
package model

import (
	"encoding/json"
	"time"

	"github.com/google/uuid"

	"github.com/concilia/backend/internal/domain/entity"
)

// ComparisonModel represents the comparisons table in the database.
type ComparisonModel struct {
	ID                  uuid.UUID `gorm:"type:uuid;primaryKey"`
	PeriodStart         time.Time `gorm:"not null"`
	PeriodEnd           time.Time `gorm:"not null"`
	StatementKind       string    `gorm:"type:varchar(20);not null"`
	Status              string    `gorm:"type:varchar(20);not null;index"`
	ErrorMessage        string    `gorm:"type:text"`
	LedgerEntryCount    int       `gorm:"not null;default:0"`
	StatementEntryCount int       `gorm:"not null;default:0"`
	MatchedCount        int       `gorm:"not null;default:0"`
	Diagnostics         string    `gorm:"type:text"` // JSON array of per-file parse diagnostics
	HasValidation       bool      `gorm:"not null;default:false"`
	ValidationTotal     int       `gorm:"not null;default:0"`
	ValidationOK        int       `gorm:"not null;default:0"`
	ValidationInvalid   int       `gorm:"not null;default:0"`
	ValidationUnknown   int       `gorm:"not null;default:0"`
	CreatedAt           time.Time `gorm:"not null;index"`
	UpdatedAt           time.Time `gorm:"not null"`

	// Relationships (not loaded by default, use Preload)
	Divergences []DivergenceModel `gorm:"foreignKey:ComparisonID;references:ID"`
}

// TableName returns the table name for the ComparisonModel.
func (ComparisonModel) TableName() string {
	return "comparisons"
}

// ToEntity converts a ComparisonModel to a domain Comparison entity.
func (m *ComparisonModel) ToEntity() *entity.Comparison {
	c := &entity.Comparison{
		ID:                  m.ID,
		PeriodStart:         m.PeriodStart,
		PeriodEnd:           m.PeriodEnd,
		StatementKind:       entity.SourceKind(m.StatementKind),
		Status:              entity.ComparisonStatus(m.Status),
		ErrorMessage:        m.ErrorMessage,
		LedgerEntryCount:    m.LedgerEntryCount,
		StatementEntryCount: m.StatementEntryCount,
		MatchedCount:        m.MatchedCount,
		CreatedAt:           m.CreatedAt,
		UpdatedAt:           m.UpdatedAt,
	}

	if m.Diagnostics != "" {
		// A malformed diagnostics column loses only diagnostics, not the run.
		_ = json.Unmarshal([]byte(m.Diagnostics), &c.Diagnostics)
	}
	if m.HasValidation {
		c.Validation = &entity.ValidationSummary{
			Total:   m.ValidationTotal,
			OK:      m.ValidationOK,
			Invalid: m.ValidationInvalid,
			Unknown: m.ValidationUnknown,
		}
	}
	for i := range m.Divergences {
		c.Divergences = append(c.Divergences, m.Divergences[i].ToEntity())
	}

	return c
}

// ComparisonFromEntity creates a ComparisonModel from a domain Comparison entity.
func ComparisonFromEntity(c *entity.Comparison) *ComparisonModel {
	m := &ComparisonModel{
		ID:                  c.ID,
		PeriodStart:         c.PeriodStart,
		PeriodEnd:           c.PeriodEnd,
		StatementKind:       string(c.StatementKind),
		Status:              string(c.Status),
		ErrorMessage:        c.ErrorMessage,
		LedgerEntryCount:    c.LedgerEntryCount,
		StatementEntryCount: c.StatementEntryCount,
		MatchedCount:        c.MatchedCount,
		CreatedAt:           c.CreatedAt,
		UpdatedAt:           c.UpdatedAt,
	}

	if len(c.Diagnostics) > 0 {
		if raw, err := json.Marshal(c.Diagnostics); err == nil {
			m.Diagnostics = string(raw)
		}
	}
	if c.Validation != nil {
		m.HasValidation = true
		m.ValidationTotal = c.Validation.Total
		m.ValidationOK = c.Validation.OK
		m.ValidationInvalid = c.Validation.Invalid
		m.ValidationUnknown = c.Validation.Unknown
	}

	return m
}

// DivergenceModel represents the divergences table in the database. The two
// entry snapshots are stored as JSON so the reported values survive schema
// changes to the live entry shape.
type DivergenceModel struct {
	ID           uuid.UUID `gorm:"type:uuid;primaryKey"`
	ComparisonID uuid.UUID `gorm:"type:uuid;not null;index"`
	Kind         string    `gorm:"type:varchar(40);not null;index"`
	Detail       string    `gorm:"type:text;not null"`
	Statement    *string   `gorm:"type:text"`
	Ledger       *string   `gorm:"type:text"`
	CreatedAt    time.Time `gorm:"not null"`
}

// TableName returns the table name for the DivergenceModel.
func (DivergenceModel) TableName() string {
	return "divergences"
}

// ToEntity converts a DivergenceModel to a domain Divergence entity.
func (m *DivergenceModel) ToEntity() *entity.Divergence {
	d := &entity.Divergence{
		ID:        m.ID,
		Kind:      entity.DivergenceKind(m.Kind),
		Detail:    m.Detail,
		CreatedAt: m.CreatedAt,
	}
	if m.Statement != nil {
		var snap entity.EntrySnapshot
		if err := json.Unmarshal([]byte(*m.Statement), &snap); err == nil {
			d.Statement = &snap
		}
	}
	if m.Ledger != nil {
		var snap entity.EntrySnapshot
		if err := json.Unmarshal([]byte(*m.Ledger), &snap); err == nil {
			d.Ledger = &snap
		}
	}
	return d
}

// DivergenceFromEntity creates a DivergenceModel from a domain Divergence entity.
func DivergenceFromEntity(comparisonID uuid.UUID, d *entity.Divergence) *DivergenceModel {
	return &DivergenceModel{
		ID:           d.ID,
		ComparisonID: comparisonID,
		Kind:         string(d.Kind),
		Detail:       d.Detail,
		Statement:    marshalSnapshot(d.Statement),
		Ledger:       marshalSnapshot(d.Ledger),
		CreatedAt:    d.CreatedAt,
	}
}

func marshalSnapshot(s *entity.EntrySnapshot) *string {
	if s == nil {
		return nil
	}
	raw, err := json.Marshal(s)
	if err != nil {
		return nil
	}
	text := string(raw)
	return &text
}
