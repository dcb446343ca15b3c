package controller

import (
	"errors"
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/concilia/backend/internal/application/usecase/chart"
	domainerror "github.com/concilia/backend/internal/domain/error"
	"github.com/concilia/backend/internal/integration/entrypoint/dto"
)

// ChartController handles chart-of-accounts endpoints.
type ChartController struct {
	uploadChartUseCase *chart.UploadChartUseCase
	listChartUseCase   *chart.ListChartUseCase
}

// NewChartController creates a new chart controller instance.
func NewChartController(
	uploadChartUseCase *chart.UploadChartUseCase,
	listChartUseCase *chart.ListChartUseCase,
) *ChartController {
	return &ChartController{
		uploadChartUseCase: uploadChartUseCase,
		listChartUseCase:   listChartUseCase,
	}
}

// Upload handles POST /chart requests. The multipart "file" part carries the
// chart-of-accounts CSV and replaces any previously stored chart.
func (c *ChartController) Upload(ctx *gin.Context) {
	header, err := ctx.FormFile("file")
	if err != nil {
		ctx.JSON(http.StatusBadRequest, dto.ErrorResponse{
			Error: "Chart file is required",
		})
		return
	}
	data, err := readUpload(header)
	if err != nil {
		ctx.JSON(http.StatusBadRequest, dto.ErrorResponse{
			Error: "Could not read chart file: " + err.Error(),
		})
		return
	}

	output, err := c.uploadChartUseCase.Execute(ctx.Request.Context(), chart.UploadChartInput{
		FileName:  header.Filename,
		Data:      data,
		SourceTag: header.Filename,
	})
	if err != nil {
		c.handleChartError(ctx, err)
		return
	}

	ctx.JSON(http.StatusCreated, dto.UploadChartResponseDTO{
		AccountCount: output.AccountCount,
		SourceTag:    output.SourceTag,
	})
}

// List handles GET /chart requests.
func (c *ChartController) List(ctx *gin.Context) {
	accounts, err := c.listChartUseCase.Execute(ctx.Request.Context())
	if err != nil {
		c.handleChartError(ctx, err)
		return
	}

	response := dto.ListChartResponseDTO{Accounts: make([]dto.ChartAccountDTO, len(accounts))}
	for i, a := range accounts {
		response.Accounts[i] = dto.ToChartAccountDTO(a)
	}

	ctx.JSON(http.StatusOK, response)
}

// handleChartError maps chart errors to HTTP responses.
func (c *ChartController) handleChartError(ctx *gin.Context, err error) {
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
