package parser

import (
	"encoding/csv"
	"strconv"
	"strings"

	"github.com/concilia/backend/internal/domain/entity"
	domainerror "github.com/concilia/backend/internal/domain/error"
)

var (
	chartCodeColumns   = []string{"codigo", "conta", "account code", "cod", "code"}
	chartNameColumns   = []string{"descricao", "nome", "account name", "name", "desc"}
	chartLevelColumns  = []string{"nivel", "level", "niv"}
	chartParentColumns = []string{"pai", "parent", "parent code", "conta pai"}
	chartTypeColumns   = []string{"tipo", "account type", "type"}
	chartNatureColumns = []string{"nature", "natureza", "natureza conta"}
)

// parseChartCSV reads an uploaded chart of accounts. Code and name columns
// are required; level, parent, type and nature are optional. Rows without a
// code are skipped. An unusable file is a validation configuration error,
// not a parse error, because it breaks the validator setup rather than the
// entry pipeline.
func parseChartCSV(fileName string, data []byte, sourceTag string) ([]*entity.ChartAccount, error) {
	text := decodeText(data)

	reader := csv.NewReader(strings.NewReader(text))
	reader.Comma = detectCSVDelimiter(text)
	reader.FieldsPerRecord = -1
	reader.LazyQuotes = true

	records, err := reader.ReadAll()
	if err != nil {
		return nil, domainerror.NewValidationConfigError(domainerror.ErrCodeChartUnreadable,
			"chart csv unreadable: "+fileName, err)
	}
	if len(records) < 1 {
		return nil, domainerror.NewValidationConfigError(domainerror.ErrCodeChartEmpty,
			"chart csv empty: "+fileName, domainerror.ErrChartEmpty)
	}

	header := records[0]
	codeIdx := findColumn(header, chartCodeColumns)
	nameIdx := findColumn(header, chartNameColumns)
	if codeIdx < 0 || nameIdx < 0 {
		return nil, domainerror.NewValidationConfigError(domainerror.ErrCodeChartUnreadable,
			"chart csv missing code or name column: "+strings.Join(header, ","), domainerror.ErrChartUnreadable)
	}
	levelIdx := findColumn(header, chartLevelColumns)
	parentIdx := findColumn(header, chartParentColumns)
	typeIdx := findColumn(header, chartTypeColumns)
	natureIdx := findColumn(header, chartNatureColumns)

	var accounts []*entity.ChartAccount
	for _, row := range records[1:] {
		code := strings.TrimSpace(cell(row, codeIdx))
		if code == "" {
			continue
		}
		name := strings.TrimSpace(cell(row, nameIdx))

		// Dotted depth doubles as the level when the column is absent.
		level := strings.Count(code, ".") + 1
		if v, err := strconv.Atoi(strings.TrimSpace(cell(row, levelIdx))); err == nil && v > 0 {
			level = v
		}

		accounts = append(accounts, entity.NewChartAccount(
			code,
			name,
			level,
			strings.TrimSpace(cell(row, parentIdx)),
			strings.TrimSpace(cell(row, typeIdx)),
			strings.TrimSpace(cell(row, natureIdx)),
			sourceTag,
		))
	}

	if len(accounts) == 0 {
		return nil, domainerror.NewValidationConfigError(domainerror.ErrCodeChartEmpty,
			"chart csv holds no accounts: "+fileName, domainerror.ErrChartEmpty)
	}
	return accounts, nil
}
