package dto

import (
	"time"

	"github.com/concilia/backend/internal/domain/entity"
)

// EntrySnapshotDTO is the reported view of one side of a divergence.
type EntrySnapshotDTO struct {
	Date        string `json:"date"`
	Amount      string `json:"amount"`
	Description string `json:"description"`
	DocumentRef string `json:"document_ref,omitempty"`
	AccountCode string `json:"account_code,omitempty"`
	OriginFile  string `json:"origin_file,omitempty"`
	SourceLine  int    `json:"source_line,omitempty"`
}

// DivergenceDTO is one reconciliation finding.
type DivergenceDTO struct {
	ID        string            `json:"id"`
	Kind      string            `json:"kind"`
	Detail    string            `json:"detail"`
	Statement *EntrySnapshotDTO `json:"statement,omitempty"`
	Ledger    *EntrySnapshotDTO `json:"ledger,omitempty"`
}

// ArtifactDiagnosticsDTO reports what the parser did with one uploaded file.
type ArtifactDiagnosticsDTO struct {
	FileName     string   `json:"file_name"`
	Kind         string   `json:"kind"`
	EntryCount   int      `json:"entry_count"`
	SkippedLines int      `json:"skipped_lines"`
	Issues       []string `json:"issues,omitempty"`
}

// ValidationSummaryDTO carries the account-validation counts of a run.
type ValidationSummaryDTO struct {
	Total   int `json:"total"`
	OK      int `json:"ok"`
	Invalid int `json:"invalid"`
	Unknown int `json:"unknown"`
}

// ComparisonDTO is one comparison run.
type ComparisonDTO struct {
	ID                  string                   `json:"id"`
	PeriodStart         string                   `json:"period_start"`
	PeriodEnd           string                   `json:"period_end"`
	StatementKind       string                   `json:"statement_kind"`
	Status              string                   `json:"status"`
	ErrorMessage        string                   `json:"error_message,omitempty"`
	LedgerEntryCount    int                      `json:"ledger_entry_count"`
	StatementEntryCount int                      `json:"statement_entry_count"`
	MatchedCount        int                      `json:"matched_count"`
	DivergenceCounts    map[string]int           `json:"divergence_counts"`
	Divergences         []DivergenceDTO          `json:"divergences,omitempty"`
	Diagnostics         []ArtifactDiagnosticsDTO `json:"diagnostics,omitempty"`
	Validation          *ValidationSummaryDTO    `json:"validation,omitempty"`
	CreatedAt           string                   `json:"created_at"`
}

// AccountValidationResultDTO is the per-entry account verdict of a run.
type AccountValidationResultDTO struct {
	Date        string `json:"date"`
	Amount      string `json:"amount"`
	Description string `json:"description"`
	AccountCode string `json:"account_code,omitempty"`
	Status      string `json:"status"`
	Reason      string `json:"reason"`
	RuleKeyword string `json:"rule_keyword,omitempty"`
}

// RunComparisonResponseDTO is returned by POST /comparisons.
type RunComparisonResponseDTO struct {
	Comparison ComparisonDTO                `json:"comparison"`
	Validation []AccountValidationResultDTO `json:"validation,omitempty"`
}

// ListComparisonsResponseDTO is returned by GET /comparisons.
type ListComparisonsResponseDTO struct {
	Comparisons []ComparisonDTO `json:"comparisons"`
}

// ToEntrySnapshotDTO maps a snapshot. Nil in, nil out.
func ToEntrySnapshotDTO(s *entity.EntrySnapshot) *EntrySnapshotDTO {
	if s == nil {
		return nil
	}
	return &EntrySnapshotDTO{
		Date:        s.Date.Format("2006-01-02"),
		Amount:      s.Amount.StringFixed(2),
		Description: s.Description,
		DocumentRef: s.DocumentRef,
		AccountCode: s.AccountCode,
		OriginFile:  s.OriginFile,
		SourceLine:  s.SourceLine,
	}
}

// ToComparisonDTO maps a run. Divergences are included only when requested,
// so the listing endpoint stays light.
func ToComparisonDTO(c *entity.Comparison, includeDivergences bool) ComparisonDTO {
	out := ComparisonDTO{
		ID:                  c.ID.String(),
		PeriodStart:         c.PeriodStart.Format("2006-01-02"),
		PeriodEnd:           c.PeriodEnd.Format("2006-01-02"),
		StatementKind:       string(c.StatementKind),
		Status:              string(c.Status),
		ErrorMessage:        c.ErrorMessage,
		LedgerEntryCount:    c.LedgerEntryCount,
		StatementEntryCount: c.StatementEntryCount,
		MatchedCount:        c.MatchedCount,
		DivergenceCounts:    map[string]int{},
		CreatedAt:           c.CreatedAt.UTC().Format(time.RFC3339),
	}

	for kind, n := range c.CountByKind() {
		out.DivergenceCounts[string(kind)] = n
	}
	for _, d := range c.Diagnostics {
		out.Diagnostics = append(out.Diagnostics, ArtifactDiagnosticsDTO{
			FileName:     d.FileName,
			Kind:         string(d.Kind),
			EntryCount:   d.EntryCount,
			SkippedLines: d.SkippedLines,
			Issues:       d.Issues,
		})
	}
	if c.Validation != nil {
		out.Validation = &ValidationSummaryDTO{
			Total:   c.Validation.Total,
			OK:      c.Validation.OK,
			Invalid: c.Validation.Invalid,
			Unknown: c.Validation.Unknown,
		}
	}
	if includeDivergences {
		for _, d := range c.Divergences {
			out.Divergences = append(out.Divergences, DivergenceDTO{
				ID:        d.ID.String(),
				Kind:      string(d.Kind),
				Detail:    d.Detail,
				Statement: ToEntrySnapshotDTO(d.Statement),
				Ledger:    ToEntrySnapshotDTO(d.Ledger),
			})
		}
	}

	return out
}

// ToAccountValidationResultDTO maps a per-entry verdict.
func ToAccountValidationResultDTO(r *entity.AccountValidationResult) AccountValidationResultDTO {
	out := AccountValidationResultDTO{
		Status: string(r.Status),
		Reason: r.Reason,
	}
	if r.Entry != nil {
		out.Date = r.Entry.Date.Format("2006-01-02")
		out.Amount = r.Entry.Amount.StringFixed(2)
		out.Description = r.Entry.Description
		out.AccountCode = r.Entry.AccountCode
	}
	if r.Rule != nil {
		out.RuleKeyword = r.Rule.Keyword
	}
	return out
}
