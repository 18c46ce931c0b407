package model

import (
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
)

// Payment methods.
const (
	MethodCash         = "cash"
	MethodBankTransfer = "bank_transfer"
)

// Payment statuses. Voided is terminal.
const (
	PaymentPending   = "pending"
	PaymentInReview  = "in_review"
	PaymentConfirmed = "confirmed"
	PaymentVoided    = "voided"
)

// Payment records money received for a billing period.
// ReceiptNumber is assigned once at confirmation and is globally unique;
// ReceiptSnapshot freezes the rendering context at that moment so the
// financial record never drifts when Customer or Plan rows change later.
type Payment struct {
	ID         uuid.UUID       `gorm:"type:uuid;primaryKey;default:gen_random_uuid()"`
	CustomerID uuid.UUID       `gorm:"type:uuid;index;not null"`
	ContractID *uuid.UUID      `gorm:"type:uuid;index"`
	Date       time.Time       `gorm:"not null"`
	Amount     decimal.Decimal `gorm:"type:decimal(12,2);not null"`
	Currency   string          `gorm:"type:varchar(3);not null;default:'ARS'"`
	Method     string          `gorm:"type:varchar(20);not null;index"`
	Status     string          `gorm:"type:varchar(20);not null;default:'pending';index"`

	// Billing period (YYYY-MM)
	PeriodYear  int  `gorm:"not null"`
	PeriodMonth int  `gorm:"not null"`
	Advance     bool `gorm:"not null;default:false"`

	Concept     string  `gorm:"type:varchar(160);not null"`
	Description *string `gorm:"type:text"`
	VoidReason  *string `gorm:"type:varchar(300)"`

	// Proof of payment (bank transfers) and the immutable receipt
	ProofPath       *string `gorm:"type:varchar(300)"`
	ReceiptNumber   *string `gorm:"type:varchar(32);uniqueIndex"`
	ReceiptPDFPath  *string `gorm:"type:varchar(300)"`
	ReceiptSnapshot []byte  `gorm:"type:jsonb"`

	CreatedAt time.Time
	UpdatedAt time.Time

	Customer *Customer `gorm:"foreignKey:CustomerID"`
}
