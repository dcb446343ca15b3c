package entity

import (
	"time"

	"github.com/google/uuid"
)

// ComparisonStatus tracks the lifecycle of a comparison run.
type ComparisonStatus string

const (
	ComparisonStatusProcessing ComparisonStatus = "processing"
	ComparisonStatusCompleted  ComparisonStatus = "completed"
	ComparisonStatusError      ComparisonStatus = "error"
)

// ArtifactDiagnostics records what the parser did with one uploaded file:
// how many entries it produced, how many lines it skipped, and any
// non-fatal issues it noted along the way.
type ArtifactDiagnostics struct {
	FileName     string
	Kind         SourceKind
	EntryCount   int
	SkippedLines int
	Issues       []string
}

// ValidationSummary carries the account-validation counts for one run.
type ValidationSummary struct {
	Total   int
	OK      int
	Invalid int
	Unknown int
}

// Comparison is one reconciliation run: the inputs it received, the
// divergences it produced and summary counts. Entries themselves are not
// persisted; divergences carry snapshots of the entries they concern.
type Comparison struct {
	ID                  uuid.UUID
	PeriodStart         time.Time
	PeriodEnd           time.Time
	StatementKind       SourceKind
	Status              ComparisonStatus
	ErrorMessage        string
	LedgerEntryCount    int
	StatementEntryCount int
	MatchedCount        int
	Divergences         []*Divergence
	Diagnostics         []ArtifactDiagnostics
	Validation          *ValidationSummary // nil when no chart of accounts was available
	CreatedAt           time.Time
	UpdatedAt           time.Time
}

// NewComparison creates a comparison run in the processing state.
func NewComparison(periodStart, periodEnd time.Time, statementKind SourceKind) *Comparison {
	now := time.Now().UTC()

	return &Comparison{
		ID:            uuid.New(),
		PeriodStart:   periodStart,
		PeriodEnd:     periodEnd,
		StatementKind: statementKind,
		Status:        ComparisonStatusProcessing,
		CreatedAt:     now,
		UpdatedAt:     now,
	}
}

// Complete marks the run as finished with its results attached.
func (c *Comparison) Complete(divergences []*Divergence, matched int) {
	c.Status = ComparisonStatusCompleted
	c.Divergences = divergences
	c.MatchedCount = matched
	c.UpdatedAt = time.Now().UTC()
}

// Fail marks the run as failed with the given message.
func (c *Comparison) Fail(message string) {
	c.Status = ComparisonStatusError
	c.ErrorMessage = message
	c.UpdatedAt = time.Now().UTC()
}

// CountByKind tallies divergences per kind.
func (c *Comparison) CountByKind() map[DivergenceKind]int {
	counts := make(map[DivergenceKind]int, len(c.Divergences))
	for _, d := range c.Divergences {
		counts[d.Kind]++
	}
	return counts
}
