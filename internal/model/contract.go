package model

import (
	"time"

	"github.com/google/uuid"
)

// Contract statuses. Terminated is terminal: no outgoing transitions.
const (
	ContractDraft      = "draft"
	ContractActive     = "active"
	ContractSuspended  = "suspended"
	ContractTerminated = "terminated"
)

// Contract links one Customer to one Plan at an installation address.
type Contract struct {
	ID             uuid.UUID  `gorm:"type:uuid;primaryKey;default:gen_random_uuid()"`
	CustomerID     uuid.UUID  `gorm:"type:uuid;index;not null"`
	PlanID         uuid.UUID  `gorm:"type:uuid;index;not null"`
	InstallAddress string     `gorm:"type:varchar(200);not null"`
	Status         string     `gorm:"type:varchar(12);not null;default:'draft';index"`
	InstalledOn    *time.Time `gorm:"type:date"`
	ActivatedOn    *time.Time `gorm:"type:date"`
	SuspendedOn    *time.Time `gorm:"type:date"`
	TerminatedOn   *time.Time `gorm:"type:date"`
	CreatedAt      time.Time
	UpdatedAt      time.Time

	Customer *Customer `gorm:"foreignKey:CustomerID"`
	Plan     *Plan     `gorm:"foreignKey:PlanID"`
}
