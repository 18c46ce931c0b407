package service

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"time"

	"github.com/EstebanRsh/UP/internal/apierror"
	"github.com/EstebanRsh/UP/internal/config"
	"github.com/EstebanRsh/UP/internal/dto"
	"github.com/EstebanRsh/UP/internal/infra"
	"github.com/EstebanRsh/UP/internal/model"
	"github.com/EstebanRsh/UP/internal/repository"
	"github.com/EstebanRsh/UP/internal/sequence"
	"github.com/EstebanRsh/UP/internal/worker"

	"github.com/google/uuid"
	"github.com/rs/zerolog/log"
	"gorm.io/gorm"
)

// PaymentService drives the payment state machine and owns receipt issuance.
//
// Confirmation is two-phase: the first phase commits the status change, the
// receipt number and the frozen snapshot in one transaction; the second phase
// renders the PDF from that snapshot and may be retried any number of times
// without touching the financial record.
type PaymentService interface {
	CreateCash(ctx context.Context, req dto.CreateCashPaymentRequest) (*dto.PaymentResponse, error)
	CreateBankTransfer(ctx context.Context, req dto.CreateTransferPaymentRequest, proof dto.ProofUpload) (*dto.PaymentResponse, error)
	Confirm(ctx context.Context, id uuid.UUID) (*dto.PaymentResponse, error)
	Void(ctx context.Context, id uuid.UUID, reason, callerRole string) (*dto.PaymentResponse, error)
	Update(ctx context.Context, id uuid.UUID, req dto.UpdatePaymentRequest) (*dto.PaymentResponse, error)
	Get(ctx context.Context, id uuid.UUID, ownerID *uuid.UUID) (*dto.PaymentResponse, error)
	Search(ctx context.Context, filter dto.PaymentSearchRequest, ownerID *uuid.UUID) (*dto.PaymentPageResponse, error)
	RenderReceipt(ctx context.Context, id uuid.UUID) (string, error)
	ReceiptPDFPath(ctx context.Context, id uuid.UUID, ownerID *uuid.UUID) (string, error)
	ProofPath(ctx context.Context, id uuid.UUID, ownerID *uuid.UUID) (string, error)
}

type paymentService struct {
	repo         repository.PaymentRepository
	customerRepo repository.CustomerRepository
	contractRepo repository.ContractRepository
	companyRepo  repository.CompanyRepository
	alloc        *sequence.Allocator
	dispatcher   *worker.Dispatcher
	cfg          *config.Config
}

func NewPaymentService(
	repo repository.PaymentRepository,
	customerRepo repository.CustomerRepository,
	contractRepo repository.ContractRepository,
	companyRepo repository.CompanyRepository,
	alloc *sequence.Allocator,
	dispatcher *worker.Dispatcher,
	cfg *config.Config,
) PaymentService {
	return &paymentService{
		repo:         repo,
		customerRepo: customerRepo,
		contractRepo: contractRepo,
		companyRepo:  companyRepo,
		alloc:        alloc,
		dispatcher:   dispatcher,
		cfg:          cfg,
	}
}

// ── Creation ──────────────────────────────────────────────────────────────────

// CreateCash registers a cash payment. Cash is money already in hand, so the
// payment is born confirmed: the receipt number is allocated and the snapshot
// frozen inside the same transaction that inserts the row.
func (s *paymentService) CreateCash(ctx context.Context, req dto.CreateCashPaymentRequest) (*dto.PaymentResponse, error) {
	customer, contractID, err := s.resolveTarget(ctx, req.CustomerID, req.ContractID)
	if err != nil {
		return nil, err
	}

	payment := &model.Payment{
		CustomerID:  customer.ID,
		ContractID:  contractID,
		Date:        time.Now().UTC(),
		Amount:      req.Amount,
		Currency:    defaultCurrency(req.Currency),
		Method:      model.MethodCash,
		Status:      model.PaymentConfirmed,
		PeriodYear:  req.PeriodYear,
		PeriodMonth: req.PeriodMonth,
		Advance:     req.Advance,
		Concept:     req.Concept,
		Description: req.Description,
	}

	err = s.withNumberingRetry(func() error {
		return runTx(ctx, s.repo.DB(), func(tx *gorm.DB) error {
			if err := s.issueReceipt(ctx, tx, payment, customer); err != nil {
				return err
			}
			return s.repo.Create(ctx, tx, payment)
		})
	})
	if err != nil {
		return nil, err
	}

	s.enqueueRender(ctx, payment, customer.Email)
	return s.toResponse(payment), nil
}

// CreateBankTransfer registers a transfer with its proof attachment. The
// proof is what moves it straight into review; money is not considered
// received until an operator confirms it.
func (s *paymentService) CreateBankTransfer(ctx context.Context, req dto.CreateTransferPaymentRequest, proof dto.ProofUpload) (*dto.PaymentResponse, error) {
	customer, contractID, err := s.resolveTarget(ctx, req.CustomerID, req.ContractID)
	if err != nil {
		return nil, err
	}

	proofPath, err := infra.SaveProof(s.cfg.UploadsDir, proof, int64(s.cfg.MaxUploadMB)<<20)
	if err != nil {
		return nil, err
	}

	payment := &model.Payment{
		CustomerID:  customer.ID,
		ContractID:  contractID,
		Date:        time.Now().UTC(),
		Amount:      req.Amount,
		Currency:    defaultCurrency(req.Currency),
		Method:      model.MethodBankTransfer,
		Status:      model.PaymentInReview,
		PeriodYear:  req.PeriodYear,
		PeriodMonth: req.PeriodMonth,
		Advance:     req.Advance,
		Concept:     req.Concept,
		Description: req.Description,
		ProofPath:   &proofPath,
	}
	if err := s.repo.Create(ctx, nil, payment); err != nil {
		return nil, err
	}
	return s.toResponse(payment), nil
}

// resolveTarget validates the customer and, when supplied, that the contract
// belongs to that customer and is still billable.
func (s *paymentService) resolveTarget(ctx context.Context, customerID string, contractID *string) (*model.Customer, *uuid.UUID, error) {
	cid, err := uuid.Parse(customerID)
	if err != nil {
		return nil, nil, apierror.Validation("customer_id is not a valid uuid")
	}
	customer, err := s.customerRepo.FindByID(ctx, cid)
	if err != nil {
		return nil, nil, notFoundOr(err, "customer %s not found", customerID)
	}

	if contractID == nil {
		return customer, nil, nil
	}
	ctid, err := uuid.Parse(*contractID)
	if err != nil {
		return nil, nil, apierror.Validation("contract_id is not a valid uuid")
	}
	contract, err := s.contractRepo.FindByID(ctx, ctid)
	if err != nil {
		return nil, nil, notFoundOr(err, "contract %s not found", *contractID)
	}
	if contract.CustomerID != customer.ID {
		return nil, nil, apierror.Validation("contract %s does not belong to customer %s", *contractID, customerID)
	}
	if contract.Status == model.ContractTerminated {
		return nil, nil, apierror.InvalidState("contract %s is terminated and cannot receive payments", *contractID)
	}
	return customer, &ctid, nil
}

// ── Confirmation ──────────────────────────────────────────────────────────────

// Confirm finalizes a pending or in-review payment. Confirming an already
// confirmed payment is a no-op that returns the current state, so a retried
// request cannot issue a second receipt.
func (s *paymentService) Confirm(ctx context.Context, id uuid.UUID) (*dto.PaymentResponse, error) {
	var payment *model.Payment
	err := s.withNumberingRetry(func() error {
		return runTx(ctx, s.repo.DB(), func(tx *gorm.DB) error {
			var err error
			payment, err = s.repo.FindByIDForUpdate(ctx, tx, id)
			if err != nil {
				return notFoundOr(err, "payment %s not found", id)
			}
			switch payment.Status {
			case model.PaymentConfirmed:
				return nil // idempotent
			case model.PaymentVoided:
				return apierror.Conflict("payment is voided and cannot be confirmed")
			}

			customer, err := s.customerRepo.FindByID(ctx, payment.CustomerID)
			if err != nil {
				return notFoundOr(err, "customer %s not found", payment.CustomerID)
			}
			payment.Status = model.PaymentConfirmed
			if err := s.issueReceipt(ctx, tx, payment, customer); err != nil {
				return err
			}
			return s.repo.SaveTx(ctx, tx, payment)
		})
	})
	if err != nil {
		return nil, err
	}

	if payment.ReceiptPDFPath == nil {
		var email *string
		if c, err := s.customerRepo.FindByID(ctx, payment.CustomerID); err == nil {
			email = c.Email
		}
		s.enqueueRender(ctx, payment, email)
	}
	return s.toResponse(payment), nil
}

// issueReceipt allocates the receipt number for the current year and freezes
// the snapshot. It must run inside the transaction that persists the payment
// so a rollback also rolls the counter back and the series stays gapless.
func (s *paymentService) issueReceipt(ctx context.Context, tx *gorm.DB, payment *model.Payment, customer *model.Customer) error {
	now := time.Now().UTC()
	number, err := s.alloc.NextReceiptNumber(ctx, tx, now.Year())
	if err != nil {
		return err
	}
	payment.ReceiptNumber = &number

	snap := model.ReceiptSnapshot{
		ReceiptNumber: number,
		IssuedAt:      now,
		Company:       s.companySnapshot(ctx),
		Customer: model.ReceiptCustomer{
			CustomerNumber: customer.CustomerNumber,
			FullName:       customer.LastName + ", " + customer.FirstName,
			Document:       customer.Document,
			Address:        customer.Address,
		},
		Payment: model.ReceiptPayment{
			Amount:      payment.Amount,
			Currency:    payment.Currency,
			Method:      payment.Method,
			Concept:     payment.Concept,
			PeriodYear:  payment.PeriodYear,
			PeriodMonth: payment.PeriodMonth,
			Advance:     payment.Advance,
			Date:        payment.Date,
		},
	}
	data, err := json.Marshal(snap)
	if err != nil {
		return fmt.Errorf("marshal receipt snapshot: %w", err)
	}
	payment.ReceiptSnapshot = data
	return nil
}

// companySnapshot reads the company profile, falling back to configuration
// when the profile row has never been saved.
func (s *paymentService) companySnapshot(ctx context.Context) model.ReceiptCompany {
	if profile, err := s.companyRepo.Get(ctx); err == nil {
		return model.ReceiptCompany{
			Name:    profile.Name,
			TaxID:   deref(profile.TaxID),
			Address: deref(profile.Address),
			City:    deref(profile.City),
			Contact: deref(profile.Contact),
		}
	}
	return model.ReceiptCompany{
		Name:    s.cfg.CompanyName,
		TaxID:   s.cfg.CompanyTaxID,
		Address: s.cfg.CompanyAddress,
		City:    s.cfg.CompanyCity,
		Contact: s.cfg.CompanyContact,
	}
}

// withNumberingRetry retries fn once when a unique constraint rejects the
// allocated number. The counters make collisions nearly impossible; the
// constraint is the backstop and one retry picks up the next free number.
func (s *paymentService) withNumberingRetry(fn func() error) error {
	err := fn()
	if errors.Is(err, gorm.ErrDuplicatedKey) {
		log.Warn().Msg("receipt number collision, retrying allocation once")
		err = fn()
		if errors.Is(err, gorm.ErrDuplicatedKey) {
			return apierror.Conflict("receipt numbering conflict, retry the request")
		}
	}
	return err
}

// ── Void ──────────────────────────────────────────────────────────────────────

// Void cancels a payment. Voiding a confirmed payment reverses an issued
// receipt, so that path is restricted to managers; a second void is a
// Conflict because the first one already consumed the transition.
func (s *paymentService) Void(ctx context.Context, id uuid.UUID, reason, callerRole string) (*dto.PaymentResponse, error) {
	var payment *model.Payment
	err := runTx(ctx, s.repo.DB(), func(tx *gorm.DB) error {
		var err error
		payment, err = s.repo.FindByIDForUpdate(ctx, tx, id)
		if err != nil {
			return notFoundOr(err, "payment %s not found", id)
		}
		if payment.Status == model.PaymentVoided {
			return apierror.Conflict("payment is already voided")
		}
		if payment.Status == model.PaymentConfirmed && callerRole != model.RoleManager {
			return apierror.Forbidden("only a manager can void a confirmed payment")
		}
		payment.Status = model.PaymentVoided
		payment.VoidReason = &reason
		return s.repo.SaveTx(ctx, tx, payment)
	})
	if err != nil {
		return nil, err
	}
	return s.toResponse(payment), nil
}

// ── Update ────────────────────────────────────────────────────────────────────

// Update edits a payment. Once confirmed, the fields captured in the receipt
// snapshot are frozen; only the free-form description stays editable. Voided
// payments are read-only.
func (s *paymentService) Update(ctx context.Context, id uuid.UUID, req dto.UpdatePaymentRequest) (*dto.PaymentResponse, error) {
	var payment *model.Payment
	err := runTx(ctx, s.repo.DB(), func(tx *gorm.DB) error {
		var err error
		payment, err = s.repo.FindByIDForUpdate(ctx, tx, id)
		if err != nil {
			return notFoundOr(err, "payment %s not found", id)
		}
		switch payment.Status {
		case model.PaymentVoided:
			return apierror.InvalidState("payment is voided and cannot be modified")
		case model.PaymentConfirmed:
			if req.Amount != nil || req.Currency != nil || req.PeriodYear != nil ||
				req.PeriodMonth != nil || req.Advance != nil || req.Concept != nil {
				return apierror.InvalidState("payment is confirmed; only the description can change")
			}
		}

		if req.Amount != nil {
			payment.Amount = *req.Amount
		}
		if req.Currency != nil {
			payment.Currency = *req.Currency
		}
		if req.PeriodYear != nil {
			payment.PeriodYear = *req.PeriodYear
		}
		if req.PeriodMonth != nil {
			payment.PeriodMonth = *req.PeriodMonth
		}
		if req.Advance != nil {
			payment.Advance = *req.Advance
		}
		if req.Concept != nil {
			payment.Concept = *req.Concept
		}
		if req.Description != nil {
			payment.Description = req.Description
		}
		return s.repo.SaveTx(ctx, tx, payment)
	})
	if err != nil {
		return nil, err
	}
	return s.toResponse(payment), nil
}

// ── Reads ─────────────────────────────────────────────────────────────────────

func (s *paymentService) Get(ctx context.Context, id uuid.UUID, ownerID *uuid.UUID) (*dto.PaymentResponse, error) {
	payment, err := s.findOwned(ctx, id, ownerID)
	if err != nil {
		return nil, err
	}
	return s.toResponse(payment), nil
}

func (s *paymentService) Search(ctx context.Context, filter dto.PaymentSearchRequest, ownerID *uuid.UUID) (*dto.PaymentPageResponse, error) {
	if filter.Page <= 0 {
		filter.Page = 1
	}
	if filter.Limit <= 0 {
		filter.Limit = 20
	}
	payments, total, err := s.repo.Search(ctx, filter, ownerID)
	if err != nil {
		return nil, err
	}

	items := make([]dto.PaymentResponse, 0, len(payments))
	for i := range payments {
		items = append(items, *s.toResponse(&payments[i]))
	}
	totalPages := int((total + int64(filter.Limit) - 1) / int64(filter.Limit))
	return &dto.PaymentPageResponse{
		Items:      items,
		Page:       filter.Page,
		Limit:      filter.Limit,
		TotalCount: total,
		TotalPages: totalPages,
		HasPrev:    filter.Page > 1,
		HasNext:    filter.Page < totalPages,
	}, nil
}

func (s *paymentService) findOwned(ctx context.Context, id uuid.UUID, ownerID *uuid.UUID) (*model.Payment, error) {
	payment, err := s.repo.FindByID(ctx, id)
	if err != nil {
		return nil, notFoundOr(err, "payment %s not found", id)
	}
	if ownerID != nil && payment.CustomerID != *ownerID {
		return nil, apierror.NotFound("payment %s not found", id)
	}
	return payment, nil
}

// ── Receipt rendering (phase two) ────────────────────────────────────────────

// RenderReceipt produces the PDF from the frozen snapshot and records its
// path. It is safe to call repeatedly: the output is derived only from the
// snapshot, so every render of the same payment is identical.
func (s *paymentService) RenderReceipt(ctx context.Context, id uuid.UUID) (string, error) {
	payment, err := s.repo.FindByID(ctx, id)
	if err != nil {
		return "", notFoundOr(err, "payment %s not found", id)
	}
	if payment.Status != model.PaymentConfirmed || len(payment.ReceiptSnapshot) == 0 {
		return "", apierror.InvalidState("payment has no receipt to render")
	}

	var snap model.ReceiptSnapshot
	if err := json.Unmarshal(payment.ReceiptSnapshot, &snap); err != nil {
		return "", fmt.Errorf("unmarshal receipt snapshot: %w", err)
	}

	path, err := infra.GenerateReceiptPDF(&snap, s.cfg.PDFStoragePath, s.cfg.CurrencySymbol)
	if err != nil {
		return "", apierror.Dependency("receipt render failed: %v", err)
	}

	if err := s.repo.SetReceiptPath(ctx, id, path); err != nil {
		return "", err
	}
	return path, nil
}

// ReceiptPDFPath returns the rendered PDF location for download, rendering
// on demand when the async worker has not produced it yet.
func (s *paymentService) ReceiptPDFPath(ctx context.Context, id uuid.UUID, ownerID *uuid.UUID) (string, error) {
	payment, err := s.findOwned(ctx, id, ownerID)
	if err != nil {
		return "", err
	}
	if payment.Status != model.PaymentConfirmed {
		return "", apierror.InvalidState("payment has no receipt")
	}
	if payment.ReceiptPDFPath != nil {
		return *payment.ReceiptPDFPath, nil
	}
	return s.RenderReceipt(ctx, id)
}

func (s *paymentService) ProofPath(ctx context.Context, id uuid.UUID, ownerID *uuid.UUID) (string, error) {
	payment, err := s.findOwned(ctx, id, ownerID)
	if err != nil {
		return "", err
	}
	if payment.ProofPath == nil {
		return "", apierror.NotFound("payment %s has no proof attachment", id)
	}
	return *payment.ProofPath, nil
}

// enqueueRender pushes the phase-two render job. A queue failure is logged
// and swallowed: the payment is already committed and the receipt can always
// be rendered on demand or through the rerender endpoint.
func (s *paymentService) enqueueRender(ctx context.Context, payment *model.Payment, customerEmail *string) {
	if s.dispatcher == nil {
		return
	}
	job := worker.ReceiptJobPayload{PaymentID: payment.ID.String()}
	if customerEmail != nil {
		job.CustomerEmail = customerEmail
	}
	if err := s.dispatcher.EnqueueReceiptRender(ctx, job); err != nil {
		log.Warn().Err(err).Str("payment_id", payment.ID.String()).Msg("failed to enqueue receipt render")
	}
}

// ── helpers ───────────────────────────────────────────────────────────────────

func (s *paymentService) toResponse(p *model.Payment) *dto.PaymentResponse {
	resp := &dto.PaymentResponse{
		ID:            p.ID.String(),
		CustomerID:    p.CustomerID.String(),
		Date:          p.Date.UTC().Format(time.RFC3339),
		Amount:        p.Amount,
		Currency:      p.Currency,
		Method:        p.Method,
		Status:        p.Status,
		PeriodYear:    p.PeriodYear,
		PeriodMonth:   p.PeriodMonth,
		Advance:       p.Advance,
		Concept:       p.Concept,
		Description:   p.Description,
		ReceiptNumber: p.ReceiptNumber,
	}
	if p.ContractID != nil {
		id := p.ContractID.String()
		resp.ContractID = &id
	}
	if p.ProofPath != nil {
		url := "/api/payments/" + p.ID.String() + "/proof"
		resp.ProofURL = &url
	}
	if p.ReceiptNumber != nil {
		url := "/api/payments/" + p.ID.String() + "/receipt"
		resp.ReceiptURL = &url
	}
	return resp
}

func defaultCurrency(c string) string {
	if c == "" {
		return "ARS"
	}
	return c
}

func deref(s *string) string {
	if s == nil {
		return ""
	}
	return *s
}
