package model

import (
	"time"

	"github.com/shopspring/decimal"
)

// ReceiptSnapshot is the frozen rendering context captured in the same
// transaction that confirms a payment. All later renders (including
// rerenders) read from this snapshot, never from the live Customer, Plan or
// CompanyProfile rows, so the financial record cannot drift.
type ReceiptSnapshot struct {
	ReceiptNumber string    `json:"receipt_number"`
	IssuedAt      time.Time `json:"issued_at"`

	Company  ReceiptCompany  `json:"company"`
	Customer ReceiptCustomer `json:"customer"`
	Payment  ReceiptPayment  `json:"payment"`
}

type ReceiptCompany struct {
	Name    string `json:"name"`
	TaxID   string `json:"tax_id"`
	Address string `json:"address"`
	City    string `json:"city"`
	Contact string `json:"contact"`
}

type ReceiptCustomer struct {
	CustomerNumber string `json:"customer_number"`
	FullName       string `json:"full_name"`
	Document       string `json:"document"`
	Address        string `json:"address"`
}

type ReceiptPayment struct {
	Amount      decimal.Decimal `json:"amount"`
	Currency    string          `json:"currency"`
	Method      string          `json:"method"`
	Concept     string          `json:"concept"`
	PeriodYear  int             `json:"period_year"`
	PeriodMonth int             `json:"period_month"`
	Advance     bool            `json:"advance"`
	Date        time.Time       `json:"date"`
}
