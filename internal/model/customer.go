package model

import (
	"time"

	"github.com/google/uuid"
)

// Customer statuses.
const (
	CustomerActive   = "active"
	CustomerInactive = "inactive"
)

// Customer stores a subscriber's identifying data.
// CustomerNumber is assigned once at creation by the sequence allocator and is
// never reused or changed. AccountID is the optional 1:1 link that grants the
// subscriber self-service access.
type Customer struct {
	ID             uuid.UUID  `gorm:"type:uuid;primaryKey;default:gen_random_uuid()"`
	CustomerNumber string     `gorm:"type:varchar(16);uniqueIndex;not null"`
	FirstName      string     `gorm:"type:varchar(80);not null"`
	LastName       string     `gorm:"type:varchar(80);not null"`
	Document       string     `gorm:"type:varchar(11);uniqueIndex;not null"`
	Phone          *string    `gorm:"type:varchar(20)"`
	Email          *string    `gorm:"type:varchar(120);uniqueIndex"`
	Address        string     `gorm:"type:varchar(200);not null"`
	AccountID      *uuid.UUID `gorm:"type:uuid;uniqueIndex"`
	Status         string     `gorm:"type:varchar(10);not null;default:'active'"`
	CreatedAt      time.Time
	UpdatedAt      time.Time

	Account *Account `gorm:"foreignKey:AccountID"`
}
