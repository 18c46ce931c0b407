package service

import (
	"context"
	"errors"
	"strings"
	"time"

	"github.com/EstebanRsh/UP/internal/apierror"
	"github.com/EstebanRsh/UP/internal/dto"
	"github.com/EstebanRsh/UP/internal/model"
	"github.com/EstebanRsh/UP/internal/repository"
	"github.com/EstebanRsh/UP/internal/sequence"

	"github.com/google/uuid"
	"github.com/rs/zerolog/log"
	"gorm.io/gorm"
)

type CustomerService interface {
	Create(ctx context.Context, req dto.CreateCustomerRequest) (*dto.CustomerResponse, error)
	Get(ctx context.Context, id uuid.UUID, ownerID *uuid.UUID) (*dto.CustomerResponse, error)
	Update(ctx context.Context, id uuid.UUID, req dto.UpdateCustomerRequest) (*dto.CustomerResponse, error)
	Deactivate(ctx context.Context, id uuid.UUID) error
	LinkAccount(ctx context.Context, id uuid.UUID, req dto.LinkAccountRequest) (*dto.CustomerResponse, error)
	Search(ctx context.Context, filter dto.CustomerSearchRequest) (*dto.CustomerPageResponse, error)
	ListCursor(ctx context.Context, req dto.CustomerCursorRequest) (*dto.CustomerCursorResponse, error)
}

type customerService struct {
	repo        repository.CustomerRepository
	accountRepo repository.AccountRepository
	alloc       *sequence.Allocator
}

func NewCustomerService(
	repo repository.CustomerRepository,
	accountRepo repository.AccountRepository,
	alloc *sequence.Allocator,
) CustomerService {
	return &customerService{repo: repo, accountRepo: accountRepo, alloc: alloc}
}

// Create registers a customer and assigns the next customer number inside
// the same transaction, so a failed insert rolls the counter back and the
// series stays gapless.
func (s *customerService) Create(ctx context.Context, req dto.CreateCustomerRequest) (*dto.CustomerResponse, error) {
	if _, err := s.repo.FindByDocument(ctx, req.Document); err == nil {
		return nil, apierror.Conflict("a customer with document %s already exists", req.Document)
	}
	if req.Email != nil && *req.Email != "" {
		if _, err := s.repo.FindByEmail(ctx, *req.Email); err == nil {
			return nil, apierror.Conflict("a customer with email %s already exists", *req.Email)
		}
	}

	customer := &model.Customer{
		FirstName: strings.TrimSpace(req.FirstName),
		LastName:  strings.TrimSpace(req.LastName),
		Document:  strings.TrimSpace(req.Document),
		Phone:     req.Phone,
		Email:     normalizeEmail(req.Email),
		Address:   strings.TrimSpace(req.Address),
		Status:    model.CustomerActive,
	}

	create := func() error {
		return runTx(ctx, s.repo.DB(), func(tx *gorm.DB) error {
			number, err := s.alloc.NextCustomerNumber(ctx, tx)
			if err != nil {
				return err
			}
			customer.CustomerNumber = number
			return s.repo.Create(ctx, tx, customer)
		})
	}
	err := create()
	if errors.Is(err, gorm.ErrDuplicatedKey) {
		// Either the pre-flight raced a concurrent insert on document/email,
		// or a seeded row already holds the allocated number; the retry picks
		// up the next free number in the latter case.
		log.Warn().Msg("customer insert collision, retrying allocation once")
		err = create()
	}
	if errors.Is(err, gorm.ErrDuplicatedKey) {
		return nil, apierror.Conflict("customer document or email already in use")
	}
	if err != nil {
		return nil, err
	}
	return customerToResponse(customer), nil
}

func (s *customerService) Get(ctx context.Context, id uuid.UUID, ownerID *uuid.UUID) (*dto.CustomerResponse, error) {
	customer, err := s.repo.FindByID(ctx, id)
	if err != nil {
		return nil, notFoundOr(err, "customer %s not found", id)
	}
	if ownerID != nil && customer.ID != *ownerID {
		return nil, apierror.NotFound("customer %s not found", id)
	}
	return customerToResponse(customer), nil
}

// Update applies the supplied fields. The document can change (data entry
// fixes) but never be cleared, and the customer number is never touched.
func (s *customerService) Update(ctx context.Context, id uuid.UUID, req dto.UpdateCustomerRequest) (*dto.CustomerResponse, error) {
	customer, err := s.repo.FindByID(ctx, id)
	if err != nil {
		return nil, notFoundOr(err, "customer %s not found", id)
	}

	if req.FirstName != nil {
		customer.FirstName = strings.TrimSpace(*req.FirstName)
	}
	if req.LastName != nil {
		customer.LastName = strings.TrimSpace(*req.LastName)
	}
	if req.Document != nil {
		doc := strings.TrimSpace(*req.Document)
		if doc == "" {
			return nil, apierror.Validation("document cannot be cleared")
		}
		if existing, err := s.repo.FindByDocument(ctx, doc); err == nil && existing.ID != customer.ID {
			return nil, apierror.Conflict("a customer with document %s already exists", doc)
		}
		customer.Document = doc
	}
	if req.Phone != nil {
		customer.Phone = emptyToNil(*req.Phone)
	}
	if req.Email != nil {
		email := normalizeEmail(req.Email)
		if email != nil {
			if existing, err := s.repo.FindByEmail(ctx, *email); err == nil && existing.ID != customer.ID {
				return nil, apierror.Conflict("a customer with email %s already exists", *email)
			}
		}
		customer.Email = email
	}
	if req.Address != nil {
		customer.Address = strings.TrimSpace(*req.Address)
	}
	if req.Status != nil {
		customer.Status = *req.Status
	}

	if err := s.repo.Update(ctx, customer); err != nil {
		if errors.Is(err, gorm.ErrDuplicatedKey) {
			return nil, apierror.Conflict("customer document or email already in use")
		}
		return nil, err
	}
	return customerToResponse(customer), nil
}

// Deactivate marks the customer inactive. Customers are never hard-deleted:
// payments and receipts reference them forever.
func (s *customerService) Deactivate(ctx context.Context, id uuid.UUID) error {
	if _, err := s.repo.FindByID(ctx, id); err != nil {
		return notFoundOr(err, "customer %s not found", id)
	}
	return s.repo.SetStatus(ctx, id, model.CustomerInactive)
}

// LinkAccount sets or clears the 1:1 self-service account link.
func (s *customerService) LinkAccount(ctx context.Context, id uuid.UUID, req dto.LinkAccountRequest) (*dto.CustomerResponse, error) {
	customer, err := s.repo.FindByID(ctx, id)
	if err != nil {
		return nil, notFoundOr(err, "customer %s not found", id)
	}

	if req.AccountID == nil {
		customer.AccountID = nil
	} else {
		accountID, err := uuid.Parse(*req.AccountID)
		if err != nil {
			return nil, apierror.Validation("account_id is not a valid uuid")
		}
		account, err := s.accountRepo.FindByID(ctx, accountID)
		if err != nil {
			return nil, notFoundOr(err, "account %s not found", *req.AccountID)
		}
		if account.Role != model.RoleCustomer {
			return nil, apierror.Validation("only customer-role accounts can be linked")
		}
		if other, err := s.repo.FindByAccountID(ctx, accountID); err == nil && other.ID != customer.ID {
			return nil, apierror.Conflict("account is already linked to another customer")
		}
		customer.AccountID = &accountID
	}

	if err := s.repo.Update(ctx, customer); err != nil {
		if errors.Is(err, gorm.ErrDuplicatedKey) {
			return nil, apierror.Conflict("account is already linked to another customer")
		}
		return nil, err
	}
	return customerToResponse(customer), nil
}

func (s *customerService) Search(ctx context.Context, filter dto.CustomerSearchRequest) (*dto.CustomerPageResponse, error) {
	if filter.Page <= 0 {
		filter.Page = 1
	}
	if filter.Limit <= 0 {
		filter.Limit = 20
	}
	customers, total, err := s.repo.Search(ctx, filter)
	if err != nil {
		return nil, err
	}

	items := make([]dto.CustomerResponse, 0, len(customers))
	for i := range customers {
		items = append(items, *customerToResponse(&customers[i]))
	}
	totalPages := int((total + int64(filter.Limit) - 1) / int64(filter.Limit))
	return &dto.CustomerPageResponse{
		Items:      items,
		Page:       filter.Page,
		Limit:      filter.Limit,
		TotalCount: total,
		TotalPages: totalPages,
		HasPrev:    filter.Page > 1,
		HasNext:    filter.Page < totalPages,
	}, nil
}

func (s *customerService) ListCursor(ctx context.Context, req dto.CustomerCursorRequest) (*dto.CustomerCursorResponse, error) {
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
	customers, err := s.repo.ListCursor(ctx, afterID, limit)
	if err != nil {
		return nil, err
	}
	resp := &dto.CustomerCursorResponse{Customers: make([]dto.CustomerResponse, 0, len(customers))}
	for i := range customers {
		resp.Customers = append(resp.Customers, *customerToResponse(&customers[i]))
	}
	if len(customers) == limit {
		last := customers[len(customers)-1].ID.String()
		resp.NextCursor = &last
	}
	return resp, nil
}

// ── helpers ───────────────────────────────────────────────────────────────────

func customerToResponse(c *model.Customer) *dto.CustomerResponse {
	resp := &dto.CustomerResponse{
		ID:             c.ID.String(),
		CustomerNumber: c.CustomerNumber,
		FirstName:      c.FirstName,
		LastName:       c.LastName,
		Document:       c.Document,
		Phone:          c.Phone,
		Email:          c.Email,
		Address:        c.Address,
		Status:         c.Status,
		CreatedAt:      c.CreatedAt.UTC().Format(time.RFC3339),
	}
	if c.AccountID != nil {
		id := c.AccountID.String()
		resp.AccountID = &id
	}
	return resp
}

func normalizeEmail(email *string) *string {
	if email == nil {
		return nil
	}
	e := strings.ToLower(strings.TrimSpace(*email))
	if e == "" {
		return nil
	}
	return &e
}

func emptyToNil(s string) *string {
	s = strings.TrimSpace(s)
	if s == "" {
		return nil
	}
	return &s
}
