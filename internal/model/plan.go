package model

import (
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
)

// Plan is a service tier. Plans are never hard-deleted; Active gates whether
// the plan may be assigned to new or activated contracts.
type Plan struct {
	ID           uuid.UUID       `gorm:"type:uuid;primaryKey;default:gen_random_uuid()"`
	Name         string          `gorm:"type:varchar(120);uniqueIndex;not null"`
	DownloadMbps int             `gorm:"not null"`
	UploadMbps   int             `gorm:"not null"`
	MonthlyPrice decimal.Decimal `gorm:"type:decimal(12,2);not null"`
	Description  *string
	Active       bool `gorm:"not null;default:true"`
	CreatedAt    time.Time
	UpdatedAt    time.Time
}
