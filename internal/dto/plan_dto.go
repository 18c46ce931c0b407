package dto

import "github.com/shopspring/decimal"

type CreatePlanRequest struct {
	Name         string          `json:"name"          validate:"required,min=2,max=120"`
	DownloadMbps int             `json:"download_mbps" validate:"required,gt=0"`
	UploadMbps   int             `json:"upload_mbps"   validate:"required,gt=0"`
	MonthlyPrice decimal.Decimal `json:"monthly_price" validate:"required,gt=0"`
	Description  *string         `json:"description"`
	Active       *bool           `json:"active"`
}

type UpdatePlanRequest struct {
	Name         *string          `json:"name"          validate:"omitempty,min=2,max=120"`
	DownloadMbps *int             `json:"download_mbps" validate:"omitempty,gt=0"`
	UploadMbps   *int             `json:"upload_mbps"   validate:"omitempty,gt=0"`
	MonthlyPrice *decimal.Decimal `json:"monthly_price"`
	Description  *string          `json:"description"`
	Active       *bool            `json:"active"`
}

type PlanResponse struct {
	ID           string          `json:"id"`
	Name         string          `json:"name"`
	DownloadMbps int             `json:"download_mbps"`
	UploadMbps   int             `json:"upload_mbps"`
	MonthlyPrice decimal.Decimal `json:"monthly_price"`
	Description  *string         `json:"description"`
	Active       bool            `json:"active"`
}
