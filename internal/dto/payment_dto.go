package dto

import (
	"time"

	"github.com/shopspring/decimal"
)

// ─── Request DTOs ────────────────────────────────────────────────────────────

type CreateCashPaymentRequest struct {
	CustomerID  string          `json:"customer_id"  validate:"required,uuid"`
	ContractID  *string         `json:"contract_id"  validate:"omitempty,uuid"`
	Amount      decimal.Decimal `json:"amount"       validate:"required,gt=0"`
	Currency    string          `json:"currency"     validate:"omitempty,oneof=ARS"`
	PeriodYear  int             `json:"period_year"  validate:"required,min=2000,max=2100"`
	PeriodMonth int             `json:"period_month" validate:"required,min=1,max=12"`
	Advance     bool            `json:"advance"`
	Concept     string          `json:"concept"      validate:"required,min=2,max=160"`
	Description *string         `json:"description"`
}

// CreateTransferPaymentRequest arrives as multipart form data; the proof file
// is carried separately in ProofUpload.
type CreateTransferPaymentRequest struct {
	CustomerID  string          `form:"customer_id"  validate:"required,uuid"`
	ContractID  *string         `form:"contract_id"  validate:"omitempty,uuid"`
	Amount      decimal.Decimal `form:"amount"       validate:"required,gt=0"`
	Currency    string          `form:"currency"     validate:"omitempty,oneof=ARS"`
	PeriodYear  int             `form:"period_year"  validate:"required,min=2000,max=2100"`
	PeriodMonth int             `form:"period_month" validate:"required,min=1,max=12"`
	Advance     bool            `form:"advance"`
	Concept     string          `form:"concept"      validate:"required,min=2,max=160"`
	Description *string         `form:"description"`
}

// ProofUpload is the proof-of-payment attachment for a bank transfer.
type ProofUpload struct {
	Filename    string
	ContentType string
	Data        []byte
}

// UpdatePaymentRequest: pointer presence marks which fields were supplied.
// Once a payment is confirmed only Description is accepted.
type UpdatePaymentRequest struct {
	Amount      *decimal.Decimal `json:"amount"       validate:"omitempty,gt=0"`
	Currency    *string          `json:"currency"     validate:"omitempty,oneof=ARS"`
	PeriodYear  *int             `json:"period_year"  validate:"omitempty,min=2000,max=2100"`
	PeriodMonth *int             `json:"period_month" validate:"omitempty,min=1,max=12"`
	Advance     *bool            `json:"advance"`
	Concept     *string          `json:"concept"      validate:"omitempty,min=2,max=160"`
	Description *string          `json:"description"`
}

type VoidPaymentRequest struct {
	Reason string `json:"reason" validate:"required,min=3,max=300"`
}

type PaymentSearchRequest struct {
	Page       int              `json:"page"        validate:"omitempty,min=1"`
	Limit      int              `json:"limit"       validate:"omitempty,min=1,max=200"`
	CustomerID *string          `json:"customer_id" validate:"omitempty,uuid"`
	Method     string           `json:"method"      validate:"omitempty,oneof=cash bank_transfer"`
	Status     string           `json:"status"      validate:"omitempty,oneof=pending in_review confirmed voided"`
	DateFrom   *time.Time       `json:"date_from"`
	DateTo     *time.Time       `json:"date_to"`
	AmountMin  *decimal.Decimal `json:"amount_min"`
	AmountMax  *decimal.Decimal `json:"amount_max"`
	SortBy     string           `json:"sort_by"     validate:"omitempty,oneof=date amount period"`
	SortOrder  string           `json:"sort_order"  validate:"omitempty,oneof=asc desc"`
}

// ─── Response DTOs ───────────────────────────────────────────────────────────

type PaymentResponse struct {
	ID            string          `json:"id"`
	CustomerID    string          `json:"customer_id"`
	ContractID    *string         `json:"contract_id"`
	Date          string          `json:"date"`
	Amount        decimal.Decimal `json:"amount"`
	Currency      string          `json:"currency"`
	Method        string          `json:"method"`
	Status        string          `json:"status"`
	PeriodYear    int             `json:"period_year"`
	PeriodMonth   int             `json:"period_month"`
	Advance       bool            `json:"advance"`
	Concept       string          `json:"concept"`
	Description   *string         `json:"description"`
	ProofURL      *string         `json:"proof_url"`
	ReceiptNumber *string         `json:"receipt_number"`
	ReceiptURL    *string         `json:"receipt_url"`
}

type PaymentPageResponse struct {
	Items      []PaymentResponse `json:"items"`
	Page       int               `json:"page"`
	Limit      int               `json:"limit"`
	TotalCount int64             `json:"total_count"`
	TotalPages int               `json:"total_pages"`
	HasPrev    bool              `json:"has_prev"`
	HasNext    bool              `json:"has_next"`
}
