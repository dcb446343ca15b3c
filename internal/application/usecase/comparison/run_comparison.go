package comparison

import (
	"context"
	"errors"
	"log/slog"
	"time"

	"github.com/concilia/backend/internal/application/adapter"
	"github.com/concilia/backend/internal/application/usecase/accountvalidation"
	"github.com/concilia/backend/internal/domain/entity"
	domainerror "github.com/concilia/backend/internal/domain/error"
	"github.com/concilia/backend/internal/domain/valueobject"
)

// LedgerFileInput is one uploaded ledger TXT export.
type LedgerFileInput struct {
	Name string
	Data []byte
	Role entity.LedgerFileRole
}

// StatementFileInput is the uploaded bank statement.
type StatementFileInput struct {
	Name string
	Data []byte
	Kind entity.SourceKind
}

// RunComparisonInput carries everything one reconciliation run consumes.
type RunComparisonInput struct {
	LedgerFiles []LedgerFileInput
	Statement   StatementFileInput
	PeriodStart time.Time
	PeriodEnd   time.Time
}

// RunComparisonOutput is the completed run plus the per-entry account verdicts.
type RunComparisonOutput struct {
	Comparison *entity.Comparison
	Validation []*entity.AccountValidationResult
}

// RunComparisonUseCase executes the reconciliation pipeline: parse, filter,
// match, classify, validate, persist. The pipeline itself is synchronous
// and touches no shared mutable state; persistence happens only at the
// boundaries, never inside the matching stages.
type RunComparisonUseCase struct {
	comparisonRepo adapter.ComparisonRepository
	chartRepo      adapter.ChartRepository
	ruleRepo       adapter.KeywordRuleRepository
	parser         adapter.ArtifactParser
	validator      *accountvalidation.ValidateAccountsUseCase
	config         valueobject.MatchingConfig
}

// NewRunComparisonUseCase creates a new RunComparisonUseCase instance.
func NewRunComparisonUseCase(
	comparisonRepo adapter.ComparisonRepository,
	chartRepo adapter.ChartRepository,
	ruleRepo adapter.KeywordRuleRepository,
	parser adapter.ArtifactParser,
	config valueobject.MatchingConfig,
) *RunComparisonUseCase {
	return &RunComparisonUseCase{
		comparisonRepo: comparisonRepo,
		chartRepo:      chartRepo,
		ruleRepo:       ruleRepo,
		parser:         parser,
		validator:      accountvalidation.NewValidateAccountsUseCase(),
		config:         config,
	}
}

// Execute runs one comparison end to end. The run record is created before
// parsing starts, so failed runs remain visible with their error message.
func (uc *RunComparisonUseCase) Execute(ctx context.Context, input RunComparisonInput) (*RunComparisonOutput, error) {
	if err := uc.validateInput(input); err != nil {
		return nil, err
	}

	run := entity.NewComparison(input.PeriodStart, input.PeriodEnd, input.Statement.Kind)
	if err := uc.comparisonRepo.Create(ctx, run); err != nil {
		return nil, err
	}

	out, err := uc.execute(ctx, run, input)
	if err != nil {
		run.Fail(err.Error())
		if updateErr := uc.comparisonRepo.Update(ctx, run); updateErr != nil {
			slog.Error("failed to record comparison failure",
				"comparison_id", run.ID, "error", updateErr)
		}
		return nil, err
	}
	return out, nil
}

func (uc *RunComparisonUseCase) execute(ctx context.Context, run *entity.Comparison, input RunComparisonInput) (*RunComparisonOutput, error) {
	// Up to two ledger exports concatenate into one sequence, payable first.
	var ledger []*entity.LedgerEntry
	for _, f := range uc.orderedLedgerFiles(input.LedgerFiles) {
		parsed, err := uc.parser.ParseLedger(f.Name, f.Data, f.Role)
		if err != nil {
			return nil, err
		}
		ledger = append(ledger, parsed.Entries...)
		run.Diagnostics = append(run.Diagnostics, parsed.Diagnostics)
	}

	parsedStatement, err := uc.parser.ParseStatement(input.Statement.Name, input.Statement.Data, input.Statement.Kind)
	if err != nil {
		return nil, err
	}
	statement := parsedStatement.Entries
	run.Diagnostics = append(run.Diagnostics, parsedStatement.Diagnostics)

	ledger = filterLedgerByPeriod(ledger, input.PeriodStart, input.PeriodEnd)
	statement = filterStatementByPeriod(statement, input.PeriodStart, input.PeriodEnd)
	run.LedgerEntryCount = len(ledger)
	run.StatementEntryCount = len(statement)

	rules, err := accountvalidation.LoadRules(ctx, uc.ruleRepo)
	if err != nil {
		return nil, err
	}

	outcome, err := MatchEntries(ledger, statement, uc.config)
	if err != nil {
		return nil, err
	}

	divergences := ClassifyDivergences(outcome, rules)
	if balance := CheckBalances(ledger, statement, uc.config); balance != nil {
		divergences = append(divergences, balance)
	}

	validation, err := uc.validateAccounts(ctx, ledger, rules)
	if err != nil {
		return nil, err
	}
	if validation != nil {
		run.Validation = &validation.Summary
	}

	run.Complete(divergences, len(outcome.Matched))
	if err := uc.comparisonRepo.Update(ctx, run); err != nil {
		return nil, err
	}

	slog.Info("comparison completed",
		"comparison_id", run.ID,
		"ledger_entries", run.LedgerEntryCount,
		"statement_entries", run.StatementEntryCount,
		"matched", run.MatchedCount,
		"divergences", len(divergences))

	output := &RunComparisonOutput{Comparison: run}
	if validation != nil {
		output.Validation = validation.Results
	}
	return output, nil
}

func (uc *RunComparisonUseCase) validateInput(input RunComparisonInput) error {
	if len(input.LedgerFiles) == 0 {
		return domainerror.NewComparisonError(domainerror.ErrCodeMissingArtifact,
			"at least one ledger file is required", domainerror.ErrMissingArtifact)
	}
	if len(input.LedgerFiles) > 2 {
		return domainerror.NewComparisonError(domainerror.ErrCodeTooManyLedgerFiles,
			"at most two ledger files are accepted", domainerror.ErrTooManyLedgerFiles)
	}
	if len(input.Statement.Data) == 0 {
		return domainerror.NewComparisonError(domainerror.ErrCodeMissingArtifact,
			"statement file is required", domainerror.ErrMissingArtifact)
	}
	if input.PeriodStart.IsZero() || input.PeriodEnd.IsZero() || input.PeriodEnd.Before(input.PeriodStart) {
		return domainerror.NewComparisonError(domainerror.ErrCodeInvalidPeriod,
			"period end must not precede period start", domainerror.ErrInvalidPeriod)
	}
	return nil
}

// orderedLedgerFiles returns payable exports before receivable ones,
// preserving upload order within each role.
func (uc *RunComparisonUseCase) orderedLedgerFiles(files []LedgerFileInput) []LedgerFileInput {
	ordered := make([]LedgerFileInput, 0, len(files))
	for _, f := range files {
		if f.Role == entity.RolePayable {
			ordered = append(ordered, f)
		}
	}
	for _, f := range files {
		if f.Role != entity.RolePayable {
			ordered = append(ordered, f)
		}
	}
	return ordered
}

// validateAccounts runs account validation when a chart is available. An
// unusable chart fails the run unless TolerateChartErrors degrades it to
// running without validation.
func (uc *RunComparisonUseCase) validateAccounts(
	ctx context.Context,
	ledger []*entity.LedgerEntry,
	rules []*entity.KeywordRule,
) (*accountvalidation.ValidateAccountsOutput, error) {
	accounts, err := uc.chartRepo.GetAll(ctx)
	if err != nil {
		var configErr *domainerror.ValidationConfigError
		if errors.As(err, &configErr) && uc.config.TolerateChartErrors {
			slog.Warn("chart of accounts unusable, validation skipped", "error", err)
			return nil, nil
		}
		return nil, err
	}
	if len(accounts) == 0 {
		return nil, nil
	}

	return uc.validator.Execute(ctx, accountvalidation.ValidateAccountsInput{
		Entries: ledger,
		Chart:   entity.NewChartOfAccounts(accounts),
		Rules:   rules,
	})
}

func filterLedgerByPeriod(entries []*entity.LedgerEntry, start, end time.Time) []*entity.LedgerEntry {
	filtered := make([]*entity.LedgerEntry, 0, len(entries))
	for _, e := range entries {
		if inPeriod(e.Date, start, end) {
			filtered = append(filtered, e)
		}
	}
	return filtered
}

func filterStatementByPeriod(entries []*entity.StatementEntry, start, end time.Time) []*entity.StatementEntry {
	filtered := make([]*entity.StatementEntry, 0, len(entries))
	for _, e := range entries {
		if inPeriod(e.Date, start, end) {
			filtered = append(filtered, e)
		}
	}
	return filtered
}

// inPeriod checks the inclusive window on calendar days.
func inPeriod(date, start, end time.Time) bool {
	day := time.Date(date.Year(), date.Month(), date.Day(), 0, 0, 0, 0, time.UTC)
	startDay := time.Date(start.Year(), start.Month(), start.Day(), 0, 0, 0, 0, time.UTC)
	endDay := time.Date(end.Year(), end.Month(), end.Day(), 0, 0, 0, 0, time.UTC)
	return !day.Before(startDay) && !day.After(endDay)
}
