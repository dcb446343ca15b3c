package comparison

import (
	"context"
	"errors"
	"sort"
	"testing"
	"time"

	"github.com/google/uuid"

	"github.com/concilia/backend/internal/application/adapter"
	"github.com/concilia/backend/internal/domain/entity"
	domainerror "github.com/concilia/backend/internal/domain/error"
	"github.com/concilia/backend/internal/domain/valueobject"
)

type fakeComparisonRepo struct {
	runs map[uuid.UUID]*entity.Comparison
}

func newFakeComparisonRepo() *fakeComparisonRepo {
	return &fakeComparisonRepo{runs: make(map[uuid.UUID]*entity.Comparison)}
}

func (r *fakeComparisonRepo) Create(_ context.Context, c *entity.Comparison) error {
	r.runs[c.ID] = c
	return nil
}

func (r *fakeComparisonRepo) Update(_ context.Context, c *entity.Comparison) error {
	if _, ok := r.runs[c.ID]; !ok {
		return errors.New("comparison not found")
	}
	r.runs[c.ID] = c
	return nil
}

func (r *fakeComparisonRepo) GetByID(_ context.Context, id uuid.UUID) (*entity.Comparison, error) {
	c, ok := r.runs[id]
	if !ok {
		return nil, domainerror.NewComparisonError(domainerror.ErrCodeComparisonNotFound,
			"comparison not found", domainerror.ErrComparisonNotFound)
	}
	return c, nil
}

func (r *fakeComparisonRepo) List(_ context.Context, limit, offset int) ([]*entity.Comparison, error) {
	all := make([]*entity.Comparison, 0, len(r.runs))
	for _, c := range r.runs {
		all = append(all, c)
	}
	sort.Slice(all, func(a, b int) bool { return all[a].CreatedAt.After(all[b].CreatedAt) })
	if offset >= len(all) {
		return nil, nil
	}
	all = all[offset:]
	if limit < len(all) {
		all = all[:limit]
	}
	return all, nil
}

type fakeChartRepo struct {
	accounts []*entity.ChartAccount
	getErr   error
}

func (r *fakeChartRepo) Replace(_ context.Context, _ string, accounts []*entity.ChartAccount) error {
	r.accounts = accounts
	return nil
}

func (r *fakeChartRepo) GetAll(_ context.Context) ([]*entity.ChartAccount, error) {
	if r.getErr != nil {
		return nil, r.getErr
	}
	return r.accounts, nil
}

type fakeRuleRepo struct {
	rules  []*entity.KeywordRule
	seeded bool
}

func (r *fakeRuleRepo) GetActive(_ context.Context) ([]*entity.KeywordRule, error) {
	return r.rules, nil
}

func (r *fakeRuleRepo) SeedDefaults(_ context.Context) error {
	r.seeded = true
	r.rules = entity.DefaultKeywordRules()
	return nil
}

// fakeParser serves canned entries keyed by file name.
type fakeParser struct {
	ledgers    map[string][]*entity.LedgerEntry
	statements map[string][]*entity.StatementEntry
	parseErr   error
}

func (p *fakeParser) ParseLedger(fileName string, _ []byte, _ entity.LedgerFileRole) (*adapter.ParsedLedger, error) {
	if p.parseErr != nil {
		return nil, p.parseErr
	}
	entries := p.ledgers[fileName]
	return &adapter.ParsedLedger{
		Entries: entries,
		Diagnostics: entity.ArtifactDiagnostics{
			FileName:   fileName,
			Kind:       entity.SourceLedgerTXT,
			EntryCount: len(entries),
		},
	}, nil
}

func (p *fakeParser) ParseStatement(fileName string, _ []byte, kind entity.SourceKind) (*adapter.ParsedStatement, error) {
	if p.parseErr != nil {
		return nil, p.parseErr
	}
	entries := p.statements[fileName]
	return &adapter.ParsedStatement{
		Entries: entries,
		Diagnostics: entity.ArtifactDiagnostics{
			FileName:   fileName,
			Kind:       kind,
			EntryCount: len(entries),
		},
	}, nil
}

func (p *fakeParser) ParseChart(_ string, _ []byte, _ string) ([]*entity.ChartAccount, error) {
	return nil, nil
}

func fixtureInput() RunComparisonInput {
	return RunComparisonInput{
		LedgerFiles: []LedgerFileInput{{Name: "diario.txt", Data: []byte("x"), Role: entity.RoleUnspecified}},
		Statement:   StatementFileInput{Name: "extrato.csv", Data: []byte("x"), Kind: entity.SourceCSVStatement},
		PeriodStart: time.Date(2025, 3, 1, 0, 0, 0, 0, time.UTC),
		PeriodEnd:   time.Date(2025, 3, 31, 0, 0, 0, 0, time.UTC),
	}
}

func TestRunComparison(t *testing.T) {
	newUseCase := func(parser adapter.ArtifactParser, chartRepo adapter.ChartRepository, cfg valueobject.MatchingConfig) (*RunComparisonUseCase, *fakeComparisonRepo, *fakeRuleRepo) {
		comparisonRepo := newFakeComparisonRepo()
		ruleRepo := &fakeRuleRepo{}
		uc := NewRunComparisonUseCase(comparisonRepo, chartRepo, ruleRepo, parser, cfg)
		return uc, comparisonRepo, ruleRepo
	}

	t.Run("balanced inputs complete with no divergences", func(t *testing.T) {
		parser := &fakeParser{
			ledgers: map[string][]*entity.LedgerEntry{"diario.txt": {
				ledgerEntry(t, "2025-03-10", "-1500", "PAGAMENTO FORNECEDOR ACME"),
				ledgerEntry(t, "2025-03-11", "2000", "RECEBIMENTO CLIENTE SILVA"),
				ledgerEntry(t, "2025-03-12", "-45.90", "TARIFA BANCARIA"),
			}},
			statements: map[string][]*entity.StatementEntry{"extrato.csv": {
				statementEntry(t, "2025-03-10", "-1500", "PIX ENVIADO ACME"),
				statementEntry(t, "2025-03-11", "2000", "PIX RECEBIDO SILVA"),
				statementEntry(t, "2025-03-12", "-45.90", "TARIFA PACOTE"),
			}},
		}
		uc, repo, ruleRepo := newUseCase(parser, &fakeChartRepo{}, valueobject.DefaultMatchingConfig())

		out, err := uc.Execute(context.Background(), fixtureInput())
		if err != nil {
			t.Fatalf("unexpected error: %v", err)
		}
		run := out.Comparison
		if run.Status != entity.ComparisonStatusCompleted {
			t.Errorf("status = %s", run.Status)
		}
		if run.MatchedCount != 3 || len(run.Divergences) != 0 {
			t.Errorf("matched = %d, divergences = %d", run.MatchedCount, len(run.Divergences))
		}
		if run.LedgerEntryCount != 3 || run.StatementEntryCount != 3 {
			t.Errorf("counts = %d / %d", run.LedgerEntryCount, run.StatementEntryCount)
		}
		if len(run.Diagnostics) != 2 {
			t.Errorf("diagnostics = %d, want 2", len(run.Diagnostics))
		}
		if !ruleRepo.seeded {
			t.Error("default rules should be seeded on first run")
		}
		stored, err := repo.GetByID(context.Background(), run.ID)
		if err != nil || stored.Status != entity.ComparisonStatusCompleted {
			t.Errorf("stored run = %+v, err = %v", stored, err)
		}
		if out.Validation != nil {
			t.Error("validation should be absent without a chart")
		}
	})

	t.Run("unbalanced inputs report missing entries", func(t *testing.T) {
		parser := &fakeParser{
			ledgers: map[string][]*entity.LedgerEntry{"diario.txt": {
				ledgerEntry(t, "2025-03-10", "-1500", "PAGAMENTO FORNECEDOR ACME"),
				ledgerEntry(t, "2025-03-15", "-999", "LANCAMENTO SOMENTE CONTABIL"),
			}},
			statements: map[string][]*entity.StatementEntry{"extrato.csv": {
				statementEntry(t, "2025-03-10", "-1500", "PIX ENVIADO ACME"),
				statementEntry(t, "2025-03-20", "777", "CREDITO SOMENTE BANCO"),
			}},
		}
		uc, _, _ := newUseCase(parser, &fakeChartRepo{}, valueobject.DefaultMatchingConfig())

		out, err := uc.Execute(context.Background(), fixtureInput())
		if err != nil {
			t.Fatalf("unexpected error: %v", err)
		}
		counts := out.Comparison.CountByKind()
		if counts[entity.DivergenceMissingInStatement] != 1 {
			t.Errorf("missing in statement = %d", counts[entity.DivergenceMissingInStatement])
		}
		if counts[entity.DivergenceMissingInLedger] != 1 {
			t.Errorf("missing in ledger = %d", counts[entity.DivergenceMissingInLedger])
		}
	})

	t.Run("entries outside the period are ignored", func(t *testing.T) {
		parser := &fakeParser{
			ledgers: map[string][]*entity.LedgerEntry{"diario.txt": {
				ledgerEntry(t, "2025-03-10", "-1500", "DENTRO DO PERIODO"),
				ledgerEntry(t, "2025-02-28", "-800", "ANTES DO PERIODO"),
				ledgerEntry(t, "2025-04-01", "-900", "DEPOIS DO PERIODO"),
			}},
			statements: map[string][]*entity.StatementEntry{"extrato.csv": {
				statementEntry(t, "2025-03-10", "-1500", "DENTRO DO PERIODO"),
			}},
		}
		uc, _, _ := newUseCase(parser, &fakeChartRepo{}, valueobject.DefaultMatchingConfig())

		out, err := uc.Execute(context.Background(), fixtureInput())
		if err != nil {
			t.Fatalf("unexpected error: %v", err)
		}
		if out.Comparison.LedgerEntryCount != 1 {
			t.Errorf("ledger entries in period = %d, want 1", out.Comparison.LedgerEntryCount)
		}
		if len(out.Comparison.Divergences) != 0 {
			t.Errorf("divergences = %+v", out.Comparison.Divergences)
		}
	})

	t.Run("period boundaries are inclusive", func(t *testing.T) {
		parser := &fakeParser{
			ledgers: map[string][]*entity.LedgerEntry{"diario.txt": {
				ledgerEntry(t, "2025-03-01", "-100", "PRIMEIRO DIA"),
				ledgerEntry(t, "2025-03-31", "-200", "ULTIMO DIA"),
			}},
			statements: map[string][]*entity.StatementEntry{"extrato.csv": {
				statementEntry(t, "2025-03-01", "-100", "PRIMEIRO DIA"),
				statementEntry(t, "2025-03-31", "-200", "ULTIMO DIA"),
			}},
		}
		uc, _, _ := newUseCase(parser, &fakeChartRepo{}, valueobject.DefaultMatchingConfig())

		out, err := uc.Execute(context.Background(), fixtureInput())
		if err != nil {
			t.Fatalf("unexpected error: %v", err)
		}
		if out.Comparison.MatchedCount != 2 {
			t.Errorf("matched = %d, want 2", out.Comparison.MatchedCount)
		}
	})

	t.Run("chart presence enables account validation", func(t *testing.T) {
		parser := &fakeParser{
			ledgers: map[string][]*entity.LedgerEntry{"diario.txt": {
				func() *entity.LedgerEntry {
					e := ledgerEntry(t, "2025-03-11", "2000", "RECEBIMENTO CLIENTE SILVA")
					e.AccountCode = "1.1.2"
					return e
				}(),
			}},
			statements: map[string][]*entity.StatementEntry{"extrato.csv": {
				statementEntry(t, "2025-03-11", "2000", "PIX RECEBIDO SILVA"),
			}},
		}
		chartRepo := &fakeChartRepo{accounts: []*entity.ChartAccount{
			entity.NewChartAccount("1.1", "ATIVO CIRCULANTE", 2, "1", "", "", "seed"),
			entity.NewChartAccount("1.1.2", "CLIENTES", 3, "1.1", "", "", "seed"),
		}}
		uc, _, _ := newUseCase(parser, chartRepo, valueobject.DefaultMatchingConfig())

		out, err := uc.Execute(context.Background(), fixtureInput())
		if err != nil {
			t.Fatalf("unexpected error: %v", err)
		}
		if out.Comparison.Validation == nil {
			t.Fatal("expected a validation summary")
		}
		if out.Comparison.Validation.OK != 1 {
			t.Errorf("validation summary = %+v", out.Comparison.Validation)
		}
		if len(out.Validation) != 1 || out.Validation[0].Status != entity.AccountStatusOK {
			t.Errorf("validation results = %+v", out.Validation)
		}
	})

	t.Run("unusable chart fails the run by default", func(t *testing.T) {
		parser := &fakeParser{
			ledgers: map[string][]*entity.LedgerEntry{"diario.txt": {
				ledgerEntry(t, "2025-03-10", "-100", "A"),
			}},
			statements: map[string][]*entity.StatementEntry{"extrato.csv": {
				statementEntry(t, "2025-03-10", "-100", "A"),
			}},
		}
		chartRepo := &fakeChartRepo{getErr: domainerror.NewValidationConfigError(
			domainerror.ErrCodeChartUnreadable, "chart unreadable", domainerror.ErrChartUnreadable)}
		uc, repo, _ := newUseCase(parser, chartRepo, valueobject.DefaultMatchingConfig())

		_, err := uc.Execute(context.Background(), fixtureInput())
		if err == nil {
			t.Fatal("expected error")
		}
		runs, _ := repo.List(context.Background(), 10, 0)
		if len(runs) != 1 || runs[0].Status != entity.ComparisonStatusError {
			t.Errorf("runs = %+v", runs)
		}
	})

	t.Run("unusable chart is tolerated when configured", func(t *testing.T) {
		parser := &fakeParser{
			ledgers: map[string][]*entity.LedgerEntry{"diario.txt": {
				ledgerEntry(t, "2025-03-10", "-100", "A"),
			}},
			statements: map[string][]*entity.StatementEntry{"extrato.csv": {
				statementEntry(t, "2025-03-10", "-100", "A"),
			}},
		}
		chartRepo := &fakeChartRepo{getErr: domainerror.NewValidationConfigError(
			domainerror.ErrCodeChartUnreadable, "chart unreadable", domainerror.ErrChartUnreadable)}
		cfg := valueobject.DefaultMatchingConfig()
		cfg.TolerateChartErrors = true
		uc, _, _ := newUseCase(parser, chartRepo, cfg)

		out, err := uc.Execute(context.Background(), fixtureInput())
		if err != nil {
			t.Fatalf("unexpected error: %v", err)
		}
		if out.Comparison.Validation != nil {
			t.Error("validation summary should be absent when the chart is skipped")
		}
	})

	t.Run("parse failure marks the run as error", func(t *testing.T) {
		parser := &fakeParser{parseErr: domainerror.NewEmptyResultError("diario.txt")}
		uc, repo, _ := newUseCase(parser, &fakeChartRepo{}, valueobject.DefaultMatchingConfig())

		_, err := uc.Execute(context.Background(), fixtureInput())
		if !errors.Is(err, domainerror.ErrEmptyResult) {
			t.Fatalf("error = %v", err)
		}
		runs, _ := repo.List(context.Background(), 10, 0)
		if len(runs) != 1 {
			t.Fatalf("runs = %d", len(runs))
		}
		if runs[0].Status != entity.ComparisonStatusError || runs[0].ErrorMessage == "" {
			t.Errorf("run = %+v", runs[0])
		}
	})

	t.Run("rejects missing ledger files", func(t *testing.T) {
		uc, _, _ := newUseCase(&fakeParser{}, &fakeChartRepo{}, valueobject.DefaultMatchingConfig())
		input := fixtureInput()
		input.LedgerFiles = nil

		_, err := uc.Execute(context.Background(), input)
		if !errors.Is(err, domainerror.ErrMissingArtifact) {
			t.Errorf("error = %v", err)
		}
	})

	t.Run("rejects more than two ledger files", func(t *testing.T) {
		uc, _, _ := newUseCase(&fakeParser{}, &fakeChartRepo{}, valueobject.DefaultMatchingConfig())
		input := fixtureInput()
		input.LedgerFiles = []LedgerFileInput{
			{Name: "a", Data: []byte("x")}, {Name: "b", Data: []byte("x")}, {Name: "c", Data: []byte("x")},
		}

		_, err := uc.Execute(context.Background(), input)
		if !errors.Is(err, domainerror.ErrTooManyLedgerFiles) {
			t.Errorf("error = %v", err)
		}
	})

	t.Run("rejects inverted period", func(t *testing.T) {
		uc, _, _ := newUseCase(&fakeParser{}, &fakeChartRepo{}, valueobject.DefaultMatchingConfig())
		input := fixtureInput()
		input.PeriodStart, input.PeriodEnd = input.PeriodEnd, input.PeriodStart

		_, err := uc.Execute(context.Background(), input)
		if !errors.Is(err, domainerror.ErrInvalidPeriod) {
			t.Errorf("error = %v", err)
		}
	})

	t.Run("same inputs produce the same outcome", func(t *testing.T) {
		build := func() *fakeParser {
			return &fakeParser{
				ledgers: map[string][]*entity.LedgerEntry{"diario.txt": {
					ledgerEntry(t, "2025-03-10", "-1500", "PAGAMENTO FORNECEDOR ACME"),
					ledgerEntry(t, "2025-03-15", "-999", "LANCAMENTO SOMENTE CONTABIL"),
				}},
				statements: map[string][]*entity.StatementEntry{"extrato.csv": {
					statementEntry(t, "2025-03-10", "-1500", "PIX ENVIADO ACME"),
					statementEntry(t, "2025-03-20", "777", "CREDITO SOMENTE BANCO"),
				}},
			}
		}

		uc1, _, _ := newUseCase(build(), &fakeChartRepo{}, valueobject.DefaultMatchingConfig())
		uc2, _, _ := newUseCase(build(), &fakeChartRepo{}, valueobject.DefaultMatchingConfig())

		out1, err1 := uc1.Execute(context.Background(), fixtureInput())
		out2, err2 := uc2.Execute(context.Background(), fixtureInput())
		if err1 != nil || err2 != nil {
			t.Fatalf("errors = %v, %v", err1, err2)
		}
		if out1.Comparison.MatchedCount != out2.Comparison.MatchedCount {
			t.Errorf("matched = %d vs %d", out1.Comparison.MatchedCount, out2.Comparison.MatchedCount)
		}
		kinds1 := out1.Comparison.CountByKind()
		kinds2 := out2.Comparison.CountByKind()
		for k, n := range kinds1 {
			if kinds2[k] != n {
				t.Errorf("kind %s = %d vs %d", k, n, kinds2[k])
			}
		}
	})
}
