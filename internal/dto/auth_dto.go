package dto

// ─── Request DTOs ────────────────────────────────────────────────────────────

// LoginRequest accepts either an email or a document number as the identity.
type LoginRequest struct {
	Email    string `json:"email"    validate:"omitempty,email"`
	Document string `json:"document" validate:"omitempty,max=11"`
	Password string `json:"password" validate:"required,min=4"`
}

type CreateAccountRequest struct {
	Email    *string `json:"email"    validate:"omitempty,email"`
	Document *string `json:"document" validate:"omitempty,max=11"`
	Password string  `json:"password" validate:"required,min=8"`
	Role     string  `json:"role"     validate:"required,oneof=manager operator customer"`
}

type AccountCursorRequest struct {
	Limit      int     `json:"limit"        validate:"omitempty,min=1,max=100"`
	LastSeenID *string `json:"last_seen_id" validate:"omitempty,uuid"`
}

// ─── Response DTOs ───────────────────────────────────────────────────────────

type AccountResponse struct {
	ID        string  `json:"id"`
	Email     *string `json:"email"`
	Document  *string `json:"document"`
	Role      string  `json:"role"`
	Active    bool    `json:"active"`
	CreatedAt string  `json:"created_at"`
}

type LoginResponse struct {
	Token     string          `json:"token"`
	TokenType string          `json:"token_type"`
	ExpiresIn int             `json:"expires_in"` // seconds
	User      AccountResponse `json:"user"`
}

// MeResponse describes the authenticated caller, including the linked
// customer id when the caller holds the customer role.
type MeResponse struct {
	AccountID  string  `json:"account_id"`
	Subject    string  `json:"subject"`
	Role       string  `json:"role"`
	CustomerID *string `json:"customer_id"`
}

type AccountListResponse struct {
	Accounts   []AccountResponse `json:"accounts"`
	NextCursor *string           `json:"next_cursor"`
}
