// Package chart contains chart-of-accounts management use cases.
package chart

import (
	"context"
	"log/slog"

	"github.com/concilia/backend/internal/application/adapter"
	"github.com/concilia/backend/internal/domain/entity"
	domainerror "github.com/concilia/backend/internal/domain/error"
)

// UploadChartInput is an uploaded chart-of-accounts CSV.
type UploadChartInput struct {
	FileName  string
	Data      []byte
	SourceTag string
}

// UploadChartOutput summarizes what was stored.
type UploadChartOutput struct {
	AccountCount int
	SourceTag    string
}

// UploadChartUseCase parses and stores a chart of accounts, replacing any
// previously stored chart.
type UploadChartUseCase struct {
	chartRepo adapter.ChartRepository
	parser    adapter.ArtifactParser
}

// NewUploadChartUseCase creates a new UploadChartUseCase instance.
func NewUploadChartUseCase(chartRepo adapter.ChartRepository, parser adapter.ArtifactParser) *UploadChartUseCase {
	return &UploadChartUseCase{chartRepo: chartRepo, parser: parser}
}

// Execute parses the CSV and swaps the stored chart for its accounts.
func (uc *UploadChartUseCase) Execute(ctx context.Context, input UploadChartInput) (*UploadChartOutput, error) {
	accounts, err := uc.parser.ParseChart(input.FileName, input.Data, input.SourceTag)
	if err != nil {
		return nil, err
	}
	if len(accounts) == 0 {
		return nil, domainerror.NewValidationConfigError(domainerror.ErrCodeChartEmpty,
			"chart file holds no accounts", domainerror.ErrChartEmpty)
	}

	if err := uc.chartRepo.Replace(ctx, input.SourceTag, accounts); err != nil {
		return nil, err
	}

	slog.Info("chart of accounts replaced",
		"source_tag", input.SourceTag, "accounts", len(accounts))

	return &UploadChartOutput{
		AccountCount: len(accounts),
		SourceTag:    input.SourceTag,
	}, nil
}

// ListChartUseCase returns the stored chart accounts.
type ListChartUseCase struct {
	chartRepo adapter.ChartRepository
}

// NewListChartUseCase creates a new ListChartUseCase instance.
func NewListChartUseCase(chartRepo adapter.ChartRepository) *ListChartUseCase {
	return &ListChartUseCase{chartRepo: chartRepo}
}

// Execute returns the accounts in upload order.
func (uc *ListChartUseCase) Execute(ctx context.Context) ([]*entity.ChartAccount, error) {
	return uc.chartRepo.GetAll(ctx)
}
