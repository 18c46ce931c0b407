package dto

import "time"

// ─── Request DTOs ────────────────────────────────────────────────────────────

type CreateCustomerRequest struct {
	FirstName string  `json:"first_name" validate:"required,min=1,max=80"`
	LastName  string  `json:"last_name"  validate:"required,min=1,max=80"`
	Document  string  `json:"document"   validate:"required,max=11"`
	Phone     *string `json:"phone"      validate:"omitempty,max=20"`
	Email     *string `json:"email"      validate:"omitempty,email"`
	Address   string  `json:"address"    validate:"required,max=200"`
}

// UpdateCustomerRequest uses pointer fields so that presence is part of the
// type: a nil field was not supplied and stays unchanged, a non-nil field is
// applied (email/phone may be cleared by sending an empty string).
type UpdateCustomerRequest struct {
	FirstName *string `json:"first_name" validate:"omitempty,min=1,max=80"`
	LastName  *string `json:"last_name"  validate:"omitempty,min=1,max=80"`
	Document  *string `json:"document"   validate:"omitempty,min=1,max=11"`
	Phone     *string `json:"phone"      validate:"omitempty,max=20"`
	Email     *string `json:"email"`
	Address   *string `json:"address"    validate:"omitempty,min=1,max=200"`
	Status    *string `json:"status"     validate:"omitempty,oneof=active inactive"`
}

type LinkAccountRequest struct {
	AccountID *string `json:"account_id" validate:"omitempty,uuid"`
}

type CustomerSearchRequest struct {
	Page        int        `json:"page"         validate:"omitempty,min=1"`
	Limit       int        `json:"limit"        validate:"omitempty,min=1,max=200"`
	Query       string     `json:"query"`
	Status      string     `json:"status"       validate:"omitempty,oneof=active inactive"`
	CreatedFrom *time.Time `json:"created_from"`
	CreatedTo   *time.Time `json:"created_to"`
	SortBy      string     `json:"sort_by"      validate:"omitempty,oneof=last_name customer_number created_at"`
	SortOrder   string     `json:"sort_order"   validate:"omitempty,oneof=asc desc"`
	ActiveFirst bool       `json:"active_first"`
}

type CustomerCursorRequest struct {
	Limit      int     `json:"limit"        validate:"omitempty,min=1,max=100"`
	LastSeenID *string `json:"last_seen_id" validate:"omitempty,uuid"`
}

// ─── Response DTOs ───────────────────────────────────────────────────────────

type CustomerResponse struct {
	ID             string  `json:"id"`
	CustomerNumber string  `json:"customer_number"`
	FirstName      string  `json:"first_name"`
	LastName       string  `json:"last_name"`
	Document       string  `json:"document"`
	Phone          *string `json:"phone"`
	Email          *string `json:"email"`
	Address        string  `json:"address"`
	AccountID      *string `json:"account_id"`
	Status         string  `json:"status"`
	CreatedAt      string  `json:"created_at"`
}

type CustomerPageResponse struct {
	Items      []CustomerResponse `json:"items"`
	Page       int                `json:"page"`
	Limit      int                `json:"limit"`
	TotalCount int64              `json:"total_count"`
	TotalPages int                `json:"total_pages"`
	HasPrev    bool               `json:"has_prev"`
	HasNext    bool               `json:"has_next"`
}

type CustomerCursorResponse struct {
	Customers  []CustomerResponse `json:"customers"`
	NextCursor *string            `json:"next_cursor"`
}
