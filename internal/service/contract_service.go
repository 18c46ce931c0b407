package service

import (
	"context"
	"errors"
	"time"

	"github.com/EstebanRsh/UP/internal/apierror"
	"github.com/EstebanRsh/UP/internal/dto"
	"github.com/EstebanRsh/UP/internal/model"
	"github.com/EstebanRsh/UP/internal/repository"

	"github.com/google/uuid"
	"gorm.io/gorm"
)

// ContractService drives the contract state machine. Transitions take a row
// lock so two concurrent transitions on the same contract serialize and the
// loser re-reads the committed state.
type ContractService interface {
	Create(ctx context.Context, req dto.CreateContractRequest) (*dto.ContractResponse, error)
	Get(ctx context.Context, id uuid.UUID, ownerID *uuid.UUID) (*dto.ContractResponse, error)
	Update(ctx context.Context, id uuid.UUID, req dto.UpdateContractRequest) (*dto.ContractResponse, error)
	Activate(ctx context.Context, id uuid.UUID) (*dto.ContractResponse, error)
	Suspend(ctx context.Context, id uuid.UUID) (*dto.ContractResponse, error)
	Resume(ctx context.Context, id uuid.UUID) (*dto.ContractResponse, error)
	Terminate(ctx context.Context, id uuid.UUID) (*dto.ContractResponse, error)
	ListByCustomer(ctx context.Context, customerID uuid.UUID, ownerID *uuid.UUID) ([]dto.ContractResponse, error)
	ListCursor(ctx context.Context, req dto.ContractCursorRequest) (*dto.ContractCursorResponse, error)
}

type contractService struct {
	repo         repository.ContractRepository
	customerRepo repository.CustomerRepository
	planRepo     repository.PlanRepository
}

func NewContractService(
	repo repository.ContractRepository,
	customerRepo repository.CustomerRepository,
	planRepo repository.PlanRepository,
) ContractService {
	return &contractService{repo: repo, customerRepo: customerRepo, planRepo: planRepo}
}

// Create registers a new contract in draft. The plan must exist and be
// active; draft is the only entry state.
func (s *contractService) Create(ctx context.Context, req dto.CreateContractRequest) (*dto.ContractResponse, error) {
	customerID, err := uuid.Parse(req.CustomerID)
	if err != nil {
		return nil, apierror.Validation("customer_id is not a valid uuid")
	}
	planID, err := uuid.Parse(req.PlanID)
	if err != nil {
		return nil, apierror.Validation("plan_id is not a valid uuid")
	}

	if _, err := s.customerRepo.FindByID(ctx, customerID); err != nil {
		return nil, notFoundOr(err, "customer %s not found", req.CustomerID)
	}
	plan, err := s.planRepo.FindByID(ctx, planID)
	if err != nil {
		return nil, notFoundOr(err, "plan %s not found", req.PlanID)
	}
	if !plan.Active {
		return nil, apierror.InvalidState("plan %s is inactive and cannot be assigned", plan.Name)
	}

	installedOn := dateOnly(time.Now())
	if req.InstalledOn != nil {
		installedOn, err = time.Parse("2006-01-02", *req.InstalledOn)
		if err != nil {
			return nil, apierror.Validation("installed_on must be a YYYY-MM-DD date")
		}
	}

	contract := &model.Contract{
		CustomerID:     customerID,
		PlanID:         planID,
		InstallAddress: req.InstallAddress,
		Status:         model.ContractDraft,
		InstalledOn:    &installedOn,
	}
	if err := s.repo.Create(ctx, contract); err != nil {
		return nil, err
	}
	return contractToResponse(contract), nil
}

func (s *contractService) Get(ctx context.Context, id uuid.UUID, ownerID *uuid.UUID) (*dto.ContractResponse, error) {
	contract, err := s.repo.FindByID(ctx, id)
	if err != nil {
		return nil, notFoundOr(err, "contract %s not found", id)
	}
	// Cross-owner reads are reported as NotFound so the response never
	// confirms the contract exists.
	if ownerID != nil && contract.CustomerID != *ownerID {
		return nil, apierror.NotFound("contract %s not found", id)
	}
	return contractToResponse(contract), nil
}

// Update changes the plan or install address. Terminated contracts are
// frozen; plan reassignment requires the new plan to be active.
func (s *contractService) Update(ctx context.Context, id uuid.UUID, req dto.UpdateContractRequest) (*dto.ContractResponse, error) {
	var contract *model.Contract
	err := runTx(ctx, s.repo.DB(), func(tx *gorm.DB) error {
		var err error
		contract, err = s.repo.FindByIDForUpdate(ctx, tx, id)
		if err != nil {
			return notFoundOr(err, "contract %s not found", id)
		}
		if contract.Status == model.ContractTerminated {
			return apierror.InvalidState("contract is terminated and cannot be modified")
		}
		if req.PlanID != nil {
			planID, err := uuid.Parse(*req.PlanID)
			if err != nil {
				return apierror.Validation("plan_id is not a valid uuid")
			}
			plan, err := s.planRepo.FindByID(ctx, planID)
			if err != nil {
				return notFoundOr(err, "plan %s not found", *req.PlanID)
			}
			if !plan.Active {
				return apierror.InvalidState("plan %s is inactive and cannot be assigned", plan.Name)
			}
			contract.PlanID = planID
		}
		if req.InstallAddress != nil {
			contract.InstallAddress = *req.InstallAddress
		}
		return s.repo.SaveTx(ctx, tx, contract)
	})
	if err != nil {
		return nil, err
	}
	return contractToResponse(contract), nil
}

// Activate moves draft → active or suspended → active (service resumed).
// Activating an already-active contract is an idempotent no-op; the
// first-activation date is never rewritten. The contract's current plan must
// still be active: a contract may never be in service on a retired plan.
func (s *contractService) Activate(ctx context.Context, id uuid.UUID) (*dto.ContractResponse, error) {
	return s.transition(ctx, id, func(c *model.Contract) error {
		switch c.Status {
		case model.ContractDraft, model.ContractSuspended, model.ContractActive:
			if err := s.requireActivePlan(ctx, c.PlanID); err != nil {
				return err
			}
			now := dateOnly(time.Now())
			c.Status = model.ContractActive
			if c.ActivatedOn == nil {
				c.ActivatedOn = &now
			}
			c.SuspendedOn = nil
			return nil
		default:
			return apierror.InvalidState("cannot activate a contract in status %q", c.Status)
		}
	})
}

// Suspend moves active → suspended. Draft contracts were never in service,
// so there is nothing to suspend.
func (s *contractService) Suspend(ctx context.Context, id uuid.UUID) (*dto.ContractResponse, error) {
	return s.transition(ctx, id, func(c *model.Contract) error {
		if c.Status != model.ContractActive {
			return apierror.InvalidState("cannot suspend a contract in status %q", c.Status)
		}
		now := dateOnly(time.Now())
		c.Status = model.ContractSuspended
		c.SuspendedOn = &now
		return nil
	})
}

// Resume is Activate restricted to suspended contracts.
func (s *contractService) Resume(ctx context.Context, id uuid.UUID) (*dto.ContractResponse, error) {
	return s.transition(ctx, id, func(c *model.Contract) error {
		if c.Status != model.ContractSuspended {
			return apierror.InvalidState("cannot resume a contract in status %q", c.Status)
		}
		if err := s.requireActivePlan(ctx, c.PlanID); err != nil {
			return err
		}
		c.Status = model.ContractActive
		c.SuspendedOn = nil
		return nil
	})
}

func (s *contractService) requireActivePlan(ctx context.Context, planID uuid.UUID) error {
	plan, err := s.planRepo.FindByID(ctx, planID)
	if err != nil {
		return notFoundOr(err, "plan %s not found", planID)
	}
	if !plan.Active {
		return apierror.InvalidState("plan %s is inactive and cannot be assigned", plan.Name)
	}
	return nil
}

// Terminate is reachable from every non-terminal status and is final.
func (s *contractService) Terminate(ctx context.Context, id uuid.UUID) (*dto.ContractResponse, error) {
	return s.transition(ctx, id, func(c *model.Contract) error {
		if c.Status == model.ContractTerminated {
			return apierror.InvalidState("contract is already terminated")
		}
		now := dateOnly(time.Now())
		c.Status = model.ContractTerminated
		c.TerminatedOn = &now
		return nil
	})
}

// transition runs a guarded state change under a row lock.
func (s *contractService) transition(ctx context.Context, id uuid.UUID, apply func(*model.Contract) error) (*dto.ContractResponse, error) {
	var contract *model.Contract
	err := runTx(ctx, s.repo.DB(), func(tx *gorm.DB) error {
		var err error
		contract, err = s.repo.FindByIDForUpdate(ctx, tx, id)
		if err != nil {
			return notFoundOr(err, "contract %s not found", id)
		}
		if err := apply(contract); err != nil {
			return err
		}
		return s.repo.SaveTx(ctx, tx, contract)
	})
	if err != nil {
		return nil, err
	}
	return contractToResponse(contract), nil
}

func (s *contractService) ListByCustomer(ctx context.Context, customerID uuid.UUID, ownerID *uuid.UUID) ([]dto.ContractResponse, error) {
	if ownerID != nil && customerID != *ownerID {
		return nil, apierror.NotFound("customer %s not found", customerID)
	}
	contracts, err := s.repo.ListByCustomer(ctx, customerID)
	if err != nil {
		return nil, err
	}
	out := make([]dto.ContractResponse, 0, len(contracts))
	for i := range contracts {
		out = append(out, *contractToResponse(&contracts[i]))
	}
	return out, nil
}

func (s *contractService) ListCursor(ctx context.Context, req dto.ContractCursorRequest) (*dto.ContractCursorResponse, error) {
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
	contracts, err := s.repo.ListCursor(ctx, afterID, limit)
	if err != nil {
		return nil, err
	}
	resp := &dto.ContractCursorResponse{Contracts: make([]dto.ContractResponse, 0, len(contracts))}
	for i := range contracts {
		resp.Contracts = append(resp.Contracts, *contractToResponse(&contracts[i]))
	}
	if len(contracts) == limit {
		last := contracts[len(contracts)-1].ID.String()
		resp.NextCursor = &last
	}
	return resp, nil
}

// ── helpers ───────────────────────────────────────────────────────────────────

func contractToResponse(c *model.Contract) *dto.ContractResponse {
	return &dto.ContractResponse{
		ID:             c.ID.String(),
		CustomerID:     c.CustomerID.String(),
		PlanID:         c.PlanID.String(),
		InstallAddress: c.InstallAddress,
		Status:         c.Status,
		InstalledOn:    formatDatePtr(c.InstalledOn),
		ActivatedOn:    formatDatePtr(c.ActivatedOn),
		SuspendedOn:    formatDatePtr(c.SuspendedOn),
		TerminatedOn:   formatDatePtr(c.TerminatedOn),
		CreatedAt:      c.CreatedAt.UTC().Format(time.RFC3339),
	}
}

func formatDatePtr(t *time.Time) *string {
	if t == nil {
		return nil
	}
	s := t.Format("2006-01-02")
	return &s
}

func dateOnly(t time.Time) time.Time {
	y, m, d := t.UTC().Date()
	return time.Date(y, m, d, 0, 0, 0, 0, time.UTC)
}

// notFoundOr converts gorm's record-not-found into a NotFound rejection and
// passes every other error through untouched.
func notFoundOr(err error, format string, args ...interface{}) error {
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return apierror.NotFound(format, args...)
	}
	return err
}

// runTx executes fn inside a GORM transaction when db is available,
// or calls fn(nil) directly when db is nil (unit test mode).
func runTx(ctx context.Context, db *gorm.DB, fn func(tx *gorm.DB) error) error {
	if db == nil {
		return fn(nil)
	}
	return db.WithContext(ctx).Transaction(fn)
}
