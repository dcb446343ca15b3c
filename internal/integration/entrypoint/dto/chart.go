package dto

import "github.com/concilia/backend/internal/domain/entity"

// ChartAccountDTO is one node of the stored chart of accounts.
type ChartAccountDTO struct {
	Code       string `json:"code"`
	Name       string `json:"name"`
	Level      int    `json:"level"`
	ParentCode string `json:"parent_code,omitempty"`
	Type       string `json:"type,omitempty"`
	Nature     string `json:"nature,omitempty"`
	SourceTag  string `json:"source_tag"`
}

// UploadChartResponseDTO is returned by POST /chart.
type UploadChartResponseDTO struct {
	AccountCount int    `json:"account_count"`
	SourceTag    string `json:"source_tag"`
}

// ListChartResponseDTO is returned by GET /chart.
type ListChartResponseDTO struct {
	Accounts []ChartAccountDTO `json:"accounts"`
}

// ToChartAccountDTO maps a chart account.
func ToChartAccountDTO(a *entity.ChartAccount) ChartAccountDTO {
	return ChartAccountDTO{
		Code:       a.Code,
		Name:       a.Name,
		Level:      a.Level,
		ParentCode: a.ParentCode,
		Type:       a.Type,
		Nature:     a.Nature,
		SourceTag:  a.SourceTag,
	}
}
