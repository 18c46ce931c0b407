package model

import (
	"time"

	"github.com/google/uuid"
)

// Roles are a closed set; the authorization guard validates them once at the
// token boundary so downstream code never inspects raw claim maps.
const (
	RoleManager  = "manager"
	RoleOperator = "operator"
	RoleCustomer = "customer"
)

// ValidRole reports whether s names one of the known roles.
func ValidRole(s string) bool {
	switch s {
	case RoleManager, RoleOperator, RoleCustomer:
		return true
	}
	return false
}

// Account stores a login identity with role-based access.
// At least one of Document/Email must be present; accounts are never deleted,
// only deactivated.
type Account struct {
	ID           uuid.UUID `gorm:"type:uuid;primaryKey;default:gen_random_uuid()"`
	Document     *string   `gorm:"type:varchar(11);uniqueIndex"`
	Email        *string   `gorm:"type:varchar(120);uniqueIndex"`
	PasswordHash string    `gorm:"not null"`
	Role         string    `gorm:"type:varchar(20);not null;index"`
	Active       bool      `gorm:"not null;default:true"`
	CreatedAt    time.Time
	UpdatedAt    time.Time
}
