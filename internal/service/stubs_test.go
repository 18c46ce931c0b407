package service

// stubs_test.go
// In-memory repository stubs shared by the service tests. Every stub
// implements its repository interface and returns gorm.ErrRecordNotFound for
// missing rows so the services map errors exactly as they would against
// Postgres. DB() returns nil, which switches runTx into direct-call mode.

import (
	"context"
	"sync"
	"time"

	"github.com/EstebanRsh/UP/internal/dto"
	"github.com/EstebanRsh/UP/internal/model"
	"github.com/EstebanRsh/UP/internal/repository"

	"github.com/google/uuid"
	"gorm.io/gorm"
)

// ── SequenceRepository ───────────────────────────────────────────────────────

type stubSequenceRepo struct {
	mu       sync.Mutex
	counters map[string]int64
	failNext error // next call returns this error once
}

func newStubSequenceRepo() *stubSequenceRepo {
	return &stubSequenceRepo{counters: make(map[string]int64)}
}

func (r *stubSequenceRepo) Next(_ context.Context, _ *gorm.DB, scope string) (int64, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	if r.failNext != nil {
		err := r.failNext
		r.failNext = nil
		return 0, err
	}
	r.counters[scope]++
	return r.counters[scope], nil
}

var _ repository.SequenceRepository = (*stubSequenceRepo)(nil)

// ── CustomerRepository ───────────────────────────────────────────────────────

type stubCustomerRepo struct {
	customers map[uuid.UUID]*model.Customer
	createErr error // next Create returns this error once
}

func newStubCustomerRepo() *stubCustomerRepo {
	return &stubCustomerRepo{customers: make(map[uuid.UUID]*model.Customer)}
}

func (r *stubCustomerRepo) Create(_ context.Context, _ *gorm.DB, c *model.Customer) error {
	if r.createErr != nil {
		err := r.createErr
		r.createErr = nil
		return err
	}
	if c.ID == uuid.Nil {
		c.ID = uuid.New()
	}
	c.CreatedAt = time.Now()
	cloned := *c
	r.customers[c.ID] = &cloned
	return nil
}

func (r *stubCustomerRepo) FindByID(_ context.Context, id uuid.UUID) (*model.Customer, error) {
	c, ok := r.customers[id]
	if !ok {
		return nil, gorm.ErrRecordNotFound
	}
	cloned := *c
	return &cloned, nil
}

func (r *stubCustomerRepo) FindByAccountID(_ context.Context, accountID uuid.UUID) (*model.Customer, error) {
	for _, c := range r.customers {
		if c.AccountID != nil && *c.AccountID == accountID {
			cloned := *c
			return &cloned, nil
		}
	}
	return nil, gorm.ErrRecordNotFound
}

func (r *stubCustomerRepo) FindByDocument(_ context.Context, document string) (*model.Customer, error) {
	for _, c := range r.customers {
		if c.Document == document {
			cloned := *c
			return &cloned, nil
		}
	}
	return nil, gorm.ErrRecordNotFound
}

func (r *stubCustomerRepo) FindByEmail(_ context.Context, email string) (*model.Customer, error) {
	for _, c := range r.customers {
		if c.Email != nil && *c.Email == email {
			cloned := *c
			return &cloned, nil
		}
	}
	return nil, gorm.ErrRecordNotFound
}

func (r *stubCustomerRepo) Search(_ context.Context, _ dto.CustomerSearchRequest) ([]model.Customer, int64, error) {
	var out []model.Customer
	for _, c := range r.customers {
		out = append(out, *c)
	}
	return out, int64(len(out)), nil
}

func (r *stubCustomerRepo) ListCursor(_ context.Context, _ *uuid.UUID, limit int) ([]model.Customer, error) {
	var out []model.Customer
	for _, c := range r.customers {
		if len(out) >= limit {
			break
		}
		out = append(out, *c)
	}
	return out, nil
}

func (r *stubCustomerRepo) Update(_ context.Context, c *model.Customer) error {
	if _, ok := r.customers[c.ID]; !ok {
		return gorm.ErrRecordNotFound
	}
	cloned := *c
	r.customers[c.ID] = &cloned
	return nil
}

func (r *stubCustomerRepo) SetStatus(_ context.Context, id uuid.UUID, status string) error {
	c, ok := r.customers[id]
	if !ok {
		return gorm.ErrRecordNotFound
	}
	c.Status = status
	return nil
}

func (r *stubCustomerRepo) DB() *gorm.DB { return nil }

var _ repository.CustomerRepository = (*stubCustomerRepo)(nil)

// ── AccountRepository ────────────────────────────────────────────────────────

type stubAccountRepo struct {
	accounts map[uuid.UUID]*model.Account
}

func newStubAccountRepo() *stubAccountRepo {
	return &stubAccountRepo{accounts: make(map[uuid.UUID]*model.Account)}
}

func (r *stubAccountRepo) Create(_ context.Context, a *model.Account) error {
	if a.ID == uuid.Nil {
		a.ID = uuid.New()
	}
	a.CreatedAt = time.Now()
	cloned := *a
	r.accounts[a.ID] = &cloned
	return nil
}

func (r *stubAccountRepo) FindByID(_ context.Context, id uuid.UUID) (*model.Account, error) {
	a, ok := r.accounts[id]
	if !ok {
		return nil, gorm.ErrRecordNotFound
	}
	cloned := *a
	return &cloned, nil
}

func (r *stubAccountRepo) FindByEmail(_ context.Context, email string) (*model.Account, error) {
	for _, a := range r.accounts {
		if a.Email != nil && *a.Email == email {
			cloned := *a
			return &cloned, nil
		}
	}
	return nil, gorm.ErrRecordNotFound
}

func (r *stubAccountRepo) FindByDocument(_ context.Context, document string) (*model.Account, error) {
	for _, a := range r.accounts {
		if a.Document != nil && *a.Document == document {
			cloned := *a
			return &cloned, nil
		}
	}
	return nil, gorm.ErrRecordNotFound
}

func (r *stubAccountRepo) List(_ context.Context) ([]model.Account, error) {
	var out []model.Account
	for _, a := range r.accounts {
		out = append(out, *a)
	}
	return out, nil
}

func (r *stubAccountRepo) ListCursor(_ context.Context, _ *uuid.UUID, limit int) ([]model.Account, error) {
	var out []model.Account
	for _, a := range r.accounts {
		if len(out) >= limit {
			break
		}
		out = append(out, *a)
	}
	return out, nil
}

func (r *stubAccountRepo) Update(_ context.Context, a *model.Account) error {
	if _, ok := r.accounts[a.ID]; !ok {
		return gorm.ErrRecordNotFound
	}
	cloned := *a
	r.accounts[a.ID] = &cloned
	return nil
}

func (r *stubAccountRepo) Deactivate(_ context.Context, id uuid.UUID) error {
	a, ok := r.accounts[id]
	if !ok {
		return gorm.ErrRecordNotFound
	}
	a.Active = false
	return nil
}

func (r *stubAccountRepo) Reactivate(_ context.Context, id uuid.UUID) error {
	a, ok := r.accounts[id]
	if !ok {
		return gorm.ErrRecordNotFound
	}
	a.Active = true
	return nil
}

var _ repository.AccountRepository = (*stubAccountRepo)(nil)

// ── PlanRepository ───────────────────────────────────────────────────────────

type stubPlanRepo struct {
	plans map[uuid.UUID]*model.Plan
}

func newStubPlanRepo() *stubPlanRepo {
	return &stubPlanRepo{plans: make(map[uuid.UUID]*model.Plan)}
}

func (r *stubPlanRepo) Create(_ context.Context, p *model.Plan) error {
	if p.ID == uuid.Nil {
		p.ID = uuid.New()
	}
	cloned := *p
	r.plans[p.ID] = &cloned
	return nil
}

func (r *stubPlanRepo) FindByID(_ context.Context, id uuid.UUID) (*model.Plan, error) {
	p, ok := r.plans[id]
	if !ok {
		return nil, gorm.ErrRecordNotFound
	}
	cloned := *p
	return &cloned, nil
}

func (r *stubPlanRepo) FindByName(_ context.Context, name string) (*model.Plan, error) {
	for _, p := range r.plans {
		if p.Name == name {
			cloned := *p
			return &cloned, nil
		}
	}
	return nil, gorm.ErrRecordNotFound
}

func (r *stubPlanRepo) List(_ context.Context, includeInactive bool) ([]model.Plan, error) {
	var out []model.Plan
	for _, p := range r.plans {
		if !includeInactive && !p.Active {
			continue
		}
		out = append(out, *p)
	}
	return out, nil
}

func (r *stubPlanRepo) Update(_ context.Context, p *model.Plan) error {
	if _, ok := r.plans[p.ID]; !ok {
		return gorm.ErrRecordNotFound
	}
	cloned := *p
	r.plans[p.ID] = &cloned
	return nil
}

func (r *stubPlanRepo) SetActive(_ context.Context, id uuid.UUID, active bool) error {
	p, ok := r.plans[id]
	if !ok {
		return gorm.ErrRecordNotFound
	}
	p.Active = active
	return nil
}

var _ repository.PlanRepository = (*stubPlanRepo)(nil)

// ── ContractRepository ───────────────────────────────────────────────────────

type stubContractRepo struct {
	contracts map[uuid.UUID]*model.Contract
}

func newStubContractRepo() *stubContractRepo {
	return &stubContractRepo{contracts: make(map[uuid.UUID]*model.Contract)}
}

func (r *stubContractRepo) Create(_ context.Context, c *model.Contract) error {
	if c.ID == uuid.Nil {
		c.ID = uuid.New()
	}
	c.CreatedAt = time.Now()
	cloned := *c
	r.contracts[c.ID] = &cloned
	return nil
}

func (r *stubContractRepo) FindByID(_ context.Context, id uuid.UUID) (*model.Contract, error) {
	c, ok := r.contracts[id]
	if !ok {
		return nil, gorm.ErrRecordNotFound
	}
	cloned := *c
	return &cloned, nil
}

func (r *stubContractRepo) FindByIDForUpdate(ctx context.Context, _ *gorm.DB, id uuid.UUID) (*model.Contract, error) {
	return r.FindByID(ctx, id)
}

func (r *stubContractRepo) ListByCustomer(_ context.Context, customerID uuid.UUID) ([]model.Contract, error) {
	var out []model.Contract
	for _, c := range r.contracts {
		if c.CustomerID == customerID {
			out = append(out, *c)
		}
	}
	return out, nil
}

func (r *stubContractRepo) ListCursor(_ context.Context, _ *uuid.UUID, limit int) ([]model.Contract, error) {
	var out []model.Contract
	for _, c := range r.contracts {
		if len(out) >= limit {
			break
		}
		out = append(out, *c)
	}
	return out, nil
}

func (r *stubContractRepo) SaveTx(_ context.Context, _ *gorm.DB, c *model.Contract) error {
	cloned := *c
	r.contracts[c.ID] = &cloned
	return nil
}

func (r *stubContractRepo) DB() *gorm.DB { return nil }

var _ repository.ContractRepository = (*stubContractRepo)(nil)

// ── PaymentRepository ────────────────────────────────────────────────────────

type stubPaymentRepo struct {
	payments  map[uuid.UUID]*model.Payment
	createErr error // next Create returns this error once
}

func newStubPaymentRepo() *stubPaymentRepo {
	return &stubPaymentRepo{payments: make(map[uuid.UUID]*model.Payment)}
}

func (r *stubPaymentRepo) Create(_ context.Context, _ *gorm.DB, p *model.Payment) error {
	if r.createErr != nil {
		err := r.createErr
		r.createErr = nil
		return err
	}
	if p.ID == uuid.Nil {
		p.ID = uuid.New()
	}
	p.CreatedAt = time.Now()
	cloned := *p
	r.payments[p.ID] = &cloned
	return nil
}

func (r *stubPaymentRepo) FindByID(_ context.Context, id uuid.UUID) (*model.Payment, error) {
	p, ok := r.payments[id]
	if !ok {
		return nil, gorm.ErrRecordNotFound
	}
	cloned := *p
	return &cloned, nil
}

func (r *stubPaymentRepo) FindByIDForUpdate(ctx context.Context, _ *gorm.DB, id uuid.UUID) (*model.Payment, error) {
	return r.FindByID(ctx, id)
}

func (r *stubPaymentRepo) Search(_ context.Context, _ dto.PaymentSearchRequest, ownerID *uuid.UUID) ([]model.Payment, int64, error) {
	var out []model.Payment
	for _, p := range r.payments {
		if ownerID != nil && p.CustomerID != *ownerID {
			continue
		}
		out = append(out, *p)
	}
	return out, int64(len(out)), nil
}

func (r *stubPaymentRepo) SaveTx(_ context.Context, _ *gorm.DB, p *model.Payment) error {
	cloned := *p
	r.payments[p.ID] = &cloned
	return nil
}

func (r *stubPaymentRepo) SetReceiptPath(_ context.Context, id uuid.UUID, path string) error {
	p, ok := r.payments[id]
	if !ok {
		return gorm.ErrRecordNotFound
	}
	p.ReceiptPDFPath = &path
	return nil
}

func (r *stubPaymentRepo) DB() *gorm.DB { return nil }

var _ repository.PaymentRepository = (*stubPaymentRepo)(nil)

// ── CompanyRepository ────────────────────────────────────────────────────────

type stubCompanyRepo struct {
	profile *model.CompanyProfile
}

func (r *stubCompanyRepo) Get(_ context.Context) (*model.CompanyProfile, error) {
	if r.profile == nil {
		return nil, gorm.ErrRecordNotFound
	}
	cloned := *r.profile
	return &cloned, nil
}

func (r *stubCompanyRepo) Upsert(_ context.Context, p *model.CompanyProfile) error {
	p.ID = 1
	cloned := *p
	r.profile = &cloned
	return nil
}

var _ repository.CompanyRepository = (*stubCompanyRepo)(nil)
