package controller

import (
	"errors"
	"io"
	"mime/multipart"
	"net/http"
	"path/filepath"
	"strconv"
	"strings"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"

	"github.com/concilia/backend/internal/application/usecase/comparison"
	"github.com/concilia/backend/internal/domain/entity"
	domainerror "github.com/concilia/backend/internal/domain/error"
	"github.com/concilia/backend/internal/integration/entrypoint/dto"
)

// maxUploadBytes caps one uploaded file. Statements and ledger exports are
// text-heavy but small; anything larger is not a valid artifact.
const maxUploadBytes = 20 << 20

// ComparisonController handles comparison endpoints.
type ComparisonController struct {
	runComparisonUseCase   *comparison.RunComparisonUseCase
	getComparisonUseCase   *comparison.GetComparisonUseCase
	listComparisonsUseCase *comparison.ListComparisonsUseCase
}

// NewComparisonController creates a new comparison controller instance.
func NewComparisonController(
	runComparisonUseCase *comparison.RunComparisonUseCase,
	getComparisonUseCase *comparison.GetComparisonUseCase,
	listComparisonsUseCase *comparison.ListComparisonsUseCase,
) *ComparisonController {
	return &ComparisonController{
		runComparisonUseCase:   runComparisonUseCase,
		getComparisonUseCase:   getComparisonUseCase,
		listComparisonsUseCase: listComparisonsUseCase,
	}
}

// Run handles POST /comparisons requests. The request is multipart: one or
// two "ledger_files" parts with parallel "ledger_roles" values, one
// "statement" part, and "period_start" / "period_end" form values.
func (c *ComparisonController) Run(ctx *gin.Context) {
	form, err := ctx.MultipartForm()
	if err != nil {
		ctx.JSON(http.StatusBadRequest, dto.ErrorResponse{
			Error: "Invalid multipart request: " + err.Error(),
		})
		return
	}

	periodStart, ok := parseFormDate(ctx.PostForm("period_start"))
	if !ok {
		ctx.JSON(http.StatusBadRequest, dto.ErrorResponse{
			Error: "period_start must be a YYYY-MM-DD date",
			Code:  string(domainerror.ErrCodeInvalidPeriod),
		})
		return
	}
	periodEnd, ok := parseFormDate(ctx.PostForm("period_end"))
	if !ok {
		ctx.JSON(http.StatusBadRequest, dto.ErrorResponse{
			Error: "period_end must be a YYYY-MM-DD date",
			Code:  string(domainerror.ErrCodeInvalidPeriod),
		})
		return
	}

	ledgerHeaders := form.File["ledger_files"]
	roles := form.Value["ledger_roles"]
	ledgerFiles := make([]comparison.LedgerFileInput, 0, len(ledgerHeaders))
	for i, header := range ledgerHeaders {
		data, err := readUpload(header)
		if err != nil {
			ctx.JSON(http.StatusBadRequest, dto.ErrorResponse{
				Error: "Could not read ledger file " + header.Filename + ": " + err.Error(),
			})
			return
		}
		role := entity.RoleUnspecified
		if i < len(roles) {
			role = parseLedgerRole(roles[i])
		}
		ledgerFiles = append(ledgerFiles, comparison.LedgerFileInput{
			Name: header.Filename,
			Data: data,
			Role: role,
		})
	}

	var statement comparison.StatementFileInput
	if headers := form.File["statement"]; len(headers) > 0 {
		data, err := readUpload(headers[0])
		if err != nil {
			ctx.JSON(http.StatusBadRequest, dto.ErrorResponse{
				Error: "Could not read statement file: " + err.Error(),
			})
			return
		}
		statement = comparison.StatementFileInput{
			Name: headers[0].Filename,
			Data: data,
			Kind: resolveStatementKind(ctx.PostForm("statement_kind"), headers[0].Filename),
		}
	}

	input := comparison.RunComparisonInput{
		LedgerFiles: ledgerFiles,
		Statement:   statement,
		PeriodStart: periodStart,
		PeriodEnd:   periodEnd,
	}

	output, err := c.runComparisonUseCase.Execute(ctx.Request.Context(), input)
	if err != nil {
		c.handleComparisonError(ctx, err)
		return
	}

	response := dto.RunComparisonResponseDTO{
		Comparison: dto.ToComparisonDTO(output.Comparison, true),
	}
	for _, r := range output.Validation {
		response.Validation = append(response.Validation, dto.ToAccountValidationResultDTO(r))
	}

	ctx.JSON(http.StatusCreated, response)
}

// Get handles GET /comparisons/:id requests.
func (c *ComparisonController) Get(ctx *gin.Context) {
	id, err := uuid.Parse(ctx.Param("id"))
	if err != nil {
		ctx.JSON(http.StatusBadRequest, dto.ErrorResponse{
			Error: "Invalid comparison ID format",
		})
		return
	}

	run, err := c.getComparisonUseCase.Execute(ctx.Request.Context(), id)
	if err != nil {
		c.handleComparisonError(ctx, err)
		return
	}

	ctx.JSON(http.StatusOK, dto.ToComparisonDTO(run, true))
}

// List handles GET /comparisons requests.
func (c *ComparisonController) List(ctx *gin.Context) {
	input := comparison.ListComparisonsInput{}
	if limitStr := ctx.Query("limit"); limitStr != "" {
		if l, err := strconv.Atoi(limitStr); err == nil {
			input.Limit = l
		}
	}
	if offsetStr := ctx.Query("offset"); offsetStr != "" {
		if o, err := strconv.Atoi(offsetStr); err == nil {
			input.Offset = o
		}
	}

	runs, err := c.listComparisonsUseCase.Execute(ctx.Request.Context(), input)
	if err != nil {
		c.handleComparisonError(ctx, err)
		return
	}

	response := dto.ListComparisonsResponseDTO{Comparisons: make([]dto.ComparisonDTO, len(runs))}
	for i, run := range runs {
		response.Comparisons[i] = dto.ToComparisonDTO(run, false)
	}

	ctx.JSON(http.StatusOK, response)
}

// handleComparisonError maps pipeline errors to HTTP responses.
func (c *ComparisonController) handleComparisonError(ctx *gin.Context, err error) {
	var cmpErr *domainerror.ComparisonError
	if errors.As(err, &cmpErr) {
		ctx.JSON(statusForComparisonCode(cmpErr.Code), dto.ErrorResponse{
			Error: cmpErr.Message,
			Code:  string(cmpErr.Code),
		})
		return
	}

	var parseErr *domainerror.ParseError
	if errors.As(err, &parseErr) {
		ctx.JSON(http.StatusUnprocessableEntity, dto.ErrorResponse{
			Error: parseErr.Error(),
			Code:  string(parseErr.Code),
		})
		return
	}

	var cfgErr *domainerror.ValidationConfigError
	if errors.As(err, &cfgErr) {
		ctx.JSON(http.StatusUnprocessableEntity, dto.ErrorResponse{
			Error: cfgErr.Message,
			Code:  string(cfgErr.Code),
		})
		return
	}

	ctx.JSON(http.StatusInternalServerError, dto.ErrorResponse{
		Error: "An internal error occurred",
	})
}

// statusForComparisonCode maps comparison error codes to HTTP status codes.
func statusForComparisonCode(code domainerror.ComparisonErrorCode) int {
	switch code {
	case domainerror.ErrCodeInvalidPeriod,
		domainerror.ErrCodeTooManyLedgerFiles,
		domainerror.ErrCodeMissingArtifact:
		return http.StatusBadRequest
	case domainerror.ErrCodeComparisonNotFound:
		return http.StatusNotFound
	default:
		return http.StatusInternalServerError
	}
}

func parseFormDate(s string) (time.Time, bool) {
	t, err := time.Parse("2006-01-02", strings.TrimSpace(s))
	if err != nil {
		return time.Time{}, false
	}
	return t, true
}

func parseLedgerRole(s string) entity.LedgerFileRole {
	switch strings.ToLower(strings.TrimSpace(s)) {
	case "payable":
		return entity.RolePayable
	case "receivable":
		return entity.RoleReceivable
	default:
		return entity.RoleUnspecified
	}
}

// resolveStatementKind honors an explicit kind and falls back to the file
// extension, leaving issuer detection to the parser for PDFs.
func resolveStatementKind(declared, fileName string) entity.SourceKind {
	switch strings.ToLower(strings.TrimSpace(declared)) {
	case string(entity.SourceCSVStatement):
		return entity.SourceCSVStatement
	case string(entity.SourceOFXStatement):
		return entity.SourceOFXStatement
	case string(entity.SourcePDFNubank):
		return entity.SourcePDFNubank
	case string(entity.SourcePDFSicoob):
		return entity.SourcePDFSicoob
	case string(entity.SourcePDFAuto):
		return entity.SourcePDFAuto
	}

	switch strings.ToLower(filepath.Ext(fileName)) {
	case ".csv":
		return entity.SourceCSVStatement
	case ".ofx":
		return entity.SourceOFXStatement
	default:
		return entity.SourcePDFAuto
	}
}

func readUpload(header *multipart.FileHeader) ([]byte, error) {
	file, err := header.Open()
	if err != nil {
		return nil, err
	}
	defer file.Close()
	return io.ReadAll(io.LimitReader(file, maxUploadBytes))
}
