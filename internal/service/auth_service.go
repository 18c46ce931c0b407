package service

import (
	"context"
	"time"

	"github.com/EstebanRsh/UP/internal/apierror"
	"github.com/EstebanRsh/UP/internal/config"
	"github.com/EstebanRsh/UP/internal/dto"
	"github.com/EstebanRsh/UP/internal/model"
	"github.com/EstebanRsh/UP/internal/repository"

	"github.com/golang-jwt/jwt/v5"
	"github.com/google/uuid"
	"golang.org/x/crypto/bcrypt"
)

type AuthService interface {
	Login(ctx context.Context, req dto.LoginRequest) (*dto.LoginResponse, error)
	Me(ctx context.Context, accountID uuid.UUID, subject, role string) (*dto.MeResponse, error)
	CreateAccount(ctx context.Context, req dto.CreateAccountRequest) (*dto.AccountResponse, error)
	ListAccounts(ctx context.Context, req dto.AccountCursorRequest) (*dto.AccountListResponse, error)
	DeactivateAccount(ctx context.Context, id uuid.UUID) error
	ReactivateAccount(ctx context.Context, id uuid.UUID) error
}

type authService struct {
	repo         repository.AccountRepository
	customerRepo repository.CustomerRepository
	cfg          *config.Config
}

func NewAuthService(repo repository.AccountRepository, customerRepo repository.CustomerRepository, cfg *config.Config) AuthService {
	return &authService{repo: repo, customerRepo: customerRepo, cfg: cfg}
}

// Login authenticates by email or document. Every failure path returns the
// same message so a caller cannot probe which identities exist.
func (s *authService) Login(ctx context.Context, req dto.LoginRequest) (*dto.LoginResponse, error) {
	if req.Email == "" && req.Document == "" {
		return nil, apierror.Validation("email or document is required")
	}

	var account *model.Account
	var err error
	var subject string
	if req.Email != "" {
		account, err = s.repo.FindByEmail(ctx, req.Email)
		subject = req.Email
	} else {
		account, err = s.repo.FindByDocument(ctx, req.Document)
		subject = req.Document
	}
	if err != nil {
		return nil, apierror.Unauthenticated("", "invalid credentials")
	}
	if !account.Active {
		return nil, apierror.Unauthenticated("", "invalid credentials")
	}
	if err := bcrypt.CompareHashAndPassword([]byte(account.PasswordHash), []byte(req.Password)); err != nil {
		return nil, apierror.Unauthenticated("", "invalid credentials")
	}

	token, err := s.generateToken(account, subject)
	if err != nil {
		return nil, err
	}
	return &dto.LoginResponse{
		Token:     token,
		TokenType: "bearer",
		ExpiresIn: s.cfg.JWTExpirationHours * 3600,
		User:      *accountToResponse(account),
	}, nil
}

func (s *authService) generateToken(account *model.Account, subject string) (string, error) {
	now := time.Now()
	claims := jwt.MapClaims{
		"account_id": account.ID.String(),
		"subject":    subject,
		"role":       account.Role,
		"iat":        now.Unix(),
		"exp":        now.Add(time.Duration(s.cfg.JWTExpirationHours) * time.Hour).Unix(),
	}
	token := jwt.NewWithClaims(jwt.SigningMethodHS256, claims)
	return token.SignedString([]byte(s.cfg.JWTSecret))
}

// Me describes the authenticated caller. Customer-role callers also get the
// id of their linked customer record, which scopes all their reads.
func (s *authService) Me(ctx context.Context, accountID uuid.UUID, subject, role string) (*dto.MeResponse, error) {
	resp := &dto.MeResponse{
		AccountID: accountID.String(),
		Subject:   subject,
		Role:      role,
	}
	if role == model.RoleCustomer {
		if customer, err := s.customerRepo.FindByAccountID(ctx, accountID); err == nil {
			id := customer.ID.String()
			resp.CustomerID = &id
		}
	}
	return resp, nil
}

// CreateAccount registers a login identity. At least one of email/document
// is required since either can be used to sign in.
func (s *authService) CreateAccount(ctx context.Context, req dto.CreateAccountRequest) (*dto.AccountResponse, error) {
	if req.Email == nil && req.Document == nil {
		return nil, apierror.Validation("email or document is required")
	}
	if req.Email != nil {
		if _, err := s.repo.FindByEmail(ctx, *req.Email); err == nil {
			return nil, apierror.Conflict("an account with email %s already exists", *req.Email)
		}
	}
	if req.Document != nil {
		if _, err := s.repo.FindByDocument(ctx, *req.Document); err == nil {
			return nil, apierror.Conflict("an account with document %s already exists", *req.Document)
		}
	}

	hash, err := bcrypt.GenerateFromPassword([]byte(req.Password), bcrypt.DefaultCost)
	if err != nil {
		return nil, err
	}
	account := &model.Account{
		Email:        normalizeEmail(req.Email),
		Document:     req.Document,
		PasswordHash: string(hash),
		Role:         req.Role,
		Active:       true,
	}
	if err := s.repo.Create(ctx, account); err != nil {
		return nil, err
	}
	return accountToResponse(account), nil
}

func (s *authService) ListAccounts(ctx context.Context, req dto.AccountCursorRequest) (*dto.AccountListResponse, error) {
	limit := req.Limit
	if limit <= 0 {
		limit = 50
	}
	var afterID *uuid.UUID
	if req.LastSeenID != nil {
		id, err := uuid.Parse(*req.LastSeenID)
		if err != nil {
			return nil, apierror.Validation("last_seen_id is not a valid uuid")
		}
		afterID = &id
	}
	accounts, err := s.repo.ListCursor(ctx, afterID, limit)
	if err != nil {
		return nil, err
	}
	resp := &dto.AccountListResponse{Accounts: make([]dto.AccountResponse, 0, len(accounts))}
	for i := range accounts {
		resp.Accounts = append(resp.Accounts, *accountToResponse(&accounts[i]))
	}
	if len(accounts) == limit {
		last := accounts[len(accounts)-1].ID.String()
		resp.NextCursor = &last
	}
	return resp, nil
}

// DeactivateAccount disables sign-in without destroying the identity.
// Accounts are never deleted: receipts and audit trails reference them.
func (s *authService) DeactivateAccount(ctx context.Context, id uuid.UUID) error {
	if _, err := s.repo.FindByID(ctx, id); err != nil {
		return notFoundOr(err, "account %s not found", id)
	}
	return s.repo.Deactivate(ctx, id)
}

func (s *authService) ReactivateAccount(ctx context.Context, id uuid.UUID) error {
	if _, err := s.repo.FindByID(ctx, id); err != nil {
		return notFoundOr(err, "account %s not found", id)
	}
	return s.repo.Reactivate(ctx, id)
}

func accountToResponse(a *model.Account) *dto.AccountResponse {
	return &dto.AccountResponse{
		ID:        a.ID.String(),
		Email:     a.Email,
		Document:  a.Document,
		Role:      a.Role,
		Active:    a.Active,
		CreatedAt: a.CreatedAt.UTC().Format(time.RFC3339),
	}
}
