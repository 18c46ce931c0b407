package service

// payment_service_test.go
// Covers the payment state machine: cash confirmed at creation, transfer
// review flow, idempotent confirmation, receipt numbering, snapshot freezing,
// void rules, and post-confirmation immutability.

import (
	"context"
	"encoding/json"
	"fmt"
	"os"
	"testing"
	"time"

	"github.com/EstebanRsh/UP/internal/apierror"
	"github.com/EstebanRsh/UP/internal/config"
	"github.com/EstebanRsh/UP/internal/dto"
	"github.com/EstebanRsh/UP/internal/model"
	"github.com/EstebanRsh/UP/internal/sequence"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"gorm.io/gorm"
)

type paymentFixture struct {
	svc       PaymentService
	payments  *stubPaymentRepo
	customers *stubCustomerRepo
	contracts *stubContractRepo
	company   *stubCompanyRepo
	sequences *stubSequenceRepo
	customer  *model.Customer
	cfg       *config.Config
}

func newPaymentFixture(t *testing.T) *paymentFixture {
	t.Helper()
	payments := newStubPaymentRepo()
	customers := newStubCustomerRepo()
	contracts := newStubContractRepo()
	company := &stubCompanyRepo{}
	sequences := newStubSequenceRepo()

	email := "ana@example.com"
	customer := &model.Customer{
		CustomerNumber: "000001",
		FirstName:      "Ana",
		LastName:       "Gomez",
		Document:       "30111222",
		Email:          &email,
		Address:        "Calle 1",
		Status:         model.CustomerActive,
	}
	require.NoError(t, customers.Create(context.Background(), nil, customer))

	cfg := &config.Config{
		UploadsDir:     t.TempDir(),
		MaxUploadMB:    10,
		ReceiptSeries:  "REC",
		PDFStoragePath: t.TempDir(),
		CompanyName:    "UP-Link",
		CompanyTaxID:   "30-11111111-1",
		CurrencySymbol: "$",
	}
	alloc := sequence.NewAllocator(sequences, "REC")

	return &paymentFixture{
		svc:       NewPaymentService(payments, customers, contracts, company, alloc, nil, cfg),
		payments:  payments,
		customers: customers,
		contracts: contracts,
		company:   company,
		sequences: sequences,
		customer:  customer,
		cfg:       cfg,
	}
}

func (f *paymentFixture) cashRequest() dto.CreateCashPaymentRequest {
	return dto.CreateCashPaymentRequest{
		CustomerID:  f.customer.ID.String(),
		Amount:      decimal.NewFromInt(15000),
		PeriodYear:  2025,
		PeriodMonth: 8,
		Concept:     "Monthly service fee",
	}
}

func (f *paymentFixture) transferRequest() (dto.CreateTransferPaymentRequest, dto.ProofUpload) {
	req := dto.CreateTransferPaymentRequest{
		CustomerID:  f.customer.ID.String(),
		Amount:      decimal.NewFromInt(15000),
		PeriodYear:  2025,
		PeriodMonth: 8,
		Concept:     "Monthly service fee",
	}
	proof := dto.ProofUpload{
		Filename:    "proof.pdf",
		ContentType: "application/pdf",
		Data:        []byte("%PDF-1.4 fake"),
	}
	return req, proof
}

func TestCashPayment_ConfirmedAtCreationWithReceipt(t *testing.T) {
	f := newPaymentFixture(t)

	resp, err := f.svc.CreateCash(context.Background(), f.cashRequest())

	require.NoError(t, err)
	assert.Equal(t, model.PaymentConfirmed, resp.Status)
	require.NotNil(t, resp.ReceiptNumber)
	assert.Equal(t, fmt.Sprintf("REC-%d-000001", time.Now().Year()), *resp.ReceiptNumber)

	stored, err := f.payments.FindByID(context.Background(), mustParse(t, resp.ID))
	require.NoError(t, err)
	assert.NotEmpty(t, stored.ReceiptSnapshot, "snapshot is frozen in the same transaction")
}

func TestTransferPayment_StartsInReviewWithProof(t *testing.T) {
	f := newPaymentFixture(t)
	req, proof := f.transferRequest()

	resp, err := f.svc.CreateBankTransfer(context.Background(), req, proof)

	require.NoError(t, err)
	assert.Equal(t, model.PaymentInReview, resp.Status)
	assert.Nil(t, resp.ReceiptNumber, "no receipt before confirmation")

	stored, err := f.payments.FindByID(context.Background(), mustParse(t, resp.ID))
	require.NoError(t, err)
	require.NotNil(t, stored.ProofPath)
	_, statErr := os.Stat(*stored.ProofPath)
	assert.NoError(t, statErr, "proof file written to disk")
}

func TestTransferPayment_RejectsBadProof(t *testing.T) {
	f := newPaymentFixture(t)
	req, proof := f.transferRequest()
	proof.ContentType = "application/zip"

	_, err := f.svc.CreateBankTransfer(context.Background(), req, proof)
	assert.True(t, apierror.IsKind(err, apierror.KindValidation))

	proof.ContentType = "application/pdf"
	proof.Data = nil
	_, err = f.svc.CreateBankTransfer(context.Background(), req, proof)
	assert.True(t, apierror.IsKind(err, apierror.KindValidation))
}

func TestConfirm_IsIdempotent(t *testing.T) {
	f := newPaymentFixture(t)
	ctx := context.Background()
	req, proof := f.transferRequest()
	created, err := f.svc.CreateBankTransfer(ctx, req, proof)
	require.NoError(t, err)
	id := mustParse(t, created.ID)

	first, err := f.svc.Confirm(ctx, id)
	require.NoError(t, err)
	require.NotNil(t, first.ReceiptNumber)

	second, err := f.svc.Confirm(ctx, id)
	require.NoError(t, err)
	require.NotNil(t, second.ReceiptNumber)

	assert.Equal(t, *first.ReceiptNumber, *second.ReceiptNumber, "repeat confirm must not issue a new receipt")
	scope := fmt.Sprintf("receipt:%d", time.Now().Year())
	assert.Equal(t, int64(1), f.sequences.counters[scope], "counter consumed exactly once")
}

func TestConfirm_VoidedPaymentRejected(t *testing.T) {
	f := newPaymentFixture(t)
	ctx := context.Background()
	req, proof := f.transferRequest()
	created, err := f.svc.CreateBankTransfer(ctx, req, proof)
	require.NoError(t, err)
	id := mustParse(t, created.ID)

	_, err = f.svc.Void(ctx, id, "duplicate entry", model.RoleOperator)
	require.NoError(t, err)

	_, err = f.svc.Confirm(ctx, id)
	assert.True(t, apierror.IsKind(err, apierror.KindConflict))
}

func TestVoid_ConfirmedRequiresManager(t *testing.T) {
	f := newPaymentFixture(t)
	ctx := context.Background()
	created, err := f.svc.CreateCash(ctx, f.cashRequest())
	require.NoError(t, err)
	id := mustParse(t, created.ID)

	_, err = f.svc.Void(ctx, id, "wrong amount", model.RoleOperator)
	assert.True(t, apierror.IsKind(err, apierror.KindForbidden))

	resp, err := f.svc.Void(ctx, id, "wrong amount", model.RoleManager)
	require.NoError(t, err)
	assert.Equal(t, model.PaymentVoided, resp.Status)
	assert.NotNil(t, resp.ReceiptNumber, "the receipt number stays assigned; the series keeps its gap-free history")
}

func TestVoid_TwiceIsConflict(t *testing.T) {
	f := newPaymentFixture(t)
	ctx := context.Background()
	req, proof := f.transferRequest()
	created, err := f.svc.CreateBankTransfer(ctx, req, proof)
	require.NoError(t, err)
	id := mustParse(t, created.ID)

	_, err = f.svc.Void(ctx, id, "duplicate entry", model.RoleOperator)
	require.NoError(t, err)

	_, err = f.svc.Void(ctx, id, "still duplicate", model.RoleManager)
	assert.True(t, apierror.IsKind(err, apierror.KindConflict))
}

func TestUpdate_ConfirmedFreezesReceiptFields(t *testing.T) {
	f := newPaymentFixture(t)
	ctx := context.Background()
	created, err := f.svc.CreateCash(ctx, f.cashRequest())
	require.NoError(t, err)
	id := mustParse(t, created.ID)

	amount := decimal.NewFromInt(99)
	_, err = f.svc.Update(ctx, id, dto.UpdatePaymentRequest{Amount: &amount})
	assert.True(t, apierror.IsKind(err, apierror.KindInvalidState))

	desc := "paid at the front desk"
	resp, err := f.svc.Update(ctx, id, dto.UpdatePaymentRequest{Description: &desc})
	require.NoError(t, err)
	assert.Equal(t, &desc, resp.Description)
}

func TestUpdate_PreConfirmationAcceptsAllFields(t *testing.T) {
	f := newPaymentFixture(t)
	ctx := context.Background()
	req, proof := f.transferRequest()
	created, err := f.svc.CreateBankTransfer(ctx, req, proof)
	require.NoError(t, err)
	id := mustParse(t, created.ID)

	amount := decimal.NewFromInt(18000)
	month := 9
	resp, err := f.svc.Update(ctx, id, dto.UpdatePaymentRequest{Amount: &amount, PeriodMonth: &month})
	require.NoError(t, err)
	assert.True(t, amount.Equal(resp.Amount))
	assert.Equal(t, 9, resp.PeriodMonth)
}

func TestSnapshot_FrozenAgainstLaterEdits(t *testing.T) {
	f := newPaymentFixture(t)
	ctx := context.Background()
	created, err := f.svc.CreateCash(ctx, f.cashRequest())
	require.NoError(t, err)

	// rename the customer after confirmation
	f.customer.LastName = "Martinez"
	require.NoError(t, f.customers.Update(ctx, f.customer))

	stored, err := f.payments.FindByID(ctx, mustParse(t, created.ID))
	require.NoError(t, err)
	var snap model.ReceiptSnapshot
	require.NoError(t, json.Unmarshal(stored.ReceiptSnapshot, &snap))
	assert.Equal(t, "Gomez, Ana", snap.Customer.FullName, "receipt keeps the identity at confirmation time")
	assert.Equal(t, "UP-Link", snap.Company.Name)
}

func TestRenderReceipt_ProducesPDFAndIsRepeatable(t *testing.T) {
	f := newPaymentFixture(t)
	ctx := context.Background()
	created, err := f.svc.CreateCash(ctx, f.cashRequest())
	require.NoError(t, err)
	id := mustParse(t, created.ID)

	path, err := f.svc.RenderReceipt(ctx, id)
	require.NoError(t, err)
	info, statErr := os.Stat(path)
	require.NoError(t, statErr)
	assert.Greater(t, info.Size(), int64(0))

	// rerender hits the same file, derived only from the snapshot
	again, err := f.svc.RenderReceipt(ctx, id)
	require.NoError(t, err)
	assert.Equal(t, path, again)
}

func TestRenderReceipt_NoSnapshotRejected(t *testing.T) {
	f := newPaymentFixture(t)
	ctx := context.Background()
	req, proof := f.transferRequest()
	created, err := f.svc.CreateBankTransfer(ctx, req, proof)
	require.NoError(t, err)

	_, err = f.svc.RenderReceipt(ctx, mustParse(t, created.ID))
	assert.True(t, apierror.IsKind(err, apierror.KindInvalidState))
}

// staleReadPaymentRepo hands out a copy captured before later writes: the
// view an async render job holds while a void lands concurrently.
type staleReadPaymentRepo struct {
	*stubPaymentRepo
	stale *model.Payment
}

func (r *staleReadPaymentRepo) FindByID(_ context.Context, _ uuid.UUID) (*model.Payment, error) {
	cloned := *r.stale
	return &cloned, nil
}

func TestRenderReceipt_DoesNotResurrectVoidedPayment(t *testing.T) {
	f := newPaymentFixture(t)
	ctx := context.Background()
	created, err := f.svc.CreateCash(ctx, f.cashRequest())
	require.NoError(t, err)
	id := mustParse(t, created.ID)

	stale, err := f.payments.FindByID(ctx, id)
	require.NoError(t, err)

	_, err = f.svc.Void(ctx, id, "charged twice", model.RoleManager)
	require.NoError(t, err)

	// render with the pre-void read: only the PDF path may be persisted
	svc := NewPaymentService(
		&staleReadPaymentRepo{stubPaymentRepo: f.payments, stale: stale},
		f.customers, f.contracts, f.company,
		sequence.NewAllocator(f.sequences, "REC"), nil, f.cfg)
	_, err = svc.RenderReceipt(ctx, id)
	require.NoError(t, err)

	current, err := f.payments.FindByID(ctx, id)
	require.NoError(t, err)
	assert.Equal(t, model.PaymentVoided, current.Status)
	assert.NotNil(t, current.VoidReason)
	assert.NotNil(t, current.ReceiptPDFPath)
}

func TestNumberingCollision_RetriedOnce(t *testing.T) {
	f := newPaymentFixture(t)
	f.payments.createErr = gorm.ErrDuplicatedKey

	resp, err := f.svc.CreateCash(context.Background(), f.cashRequest())

	require.NoError(t, err)
	require.NotNil(t, resp.ReceiptNumber)
	// the first allocation was burned by the collision; the retry took the next number
	assert.Equal(t, fmt.Sprintf("REC-%d-000002", time.Now().Year()), *resp.ReceiptNumber)
}

func TestSearch_OwnerSeesOnlyOwnPayments(t *testing.T) {
	f := newPaymentFixture(t)
	ctx := context.Background()

	other := &model.Customer{
		CustomerNumber: "000002",
		FirstName:      "Bruno",
		LastName:       "Diaz",
		Document:       "27999888",
		Address:        "Calle 2",
		Status:         model.CustomerActive,
	}
	require.NoError(t, f.customers.Create(ctx, nil, other))

	_, err := f.svc.CreateCash(ctx, f.cashRequest())
	require.NoError(t, err)
	otherReq := f.cashRequest()
	otherReq.CustomerID = other.ID.String()
	_, err = f.svc.CreateCash(ctx, otherReq)
	require.NoError(t, err)

	page, err := f.svc.Search(ctx, dto.PaymentSearchRequest{}, &f.customer.ID)
	require.NoError(t, err)
	require.Len(t, page.Items, 1)
	assert.Equal(t, f.customer.ID.String(), page.Items[0].CustomerID)
}

func TestGet_CrossOwnerMaskedAsNotFound(t *testing.T) {
	f := newPaymentFixture(t)
	ctx := context.Background()
	created, err := f.svc.CreateCash(ctx, f.cashRequest())
	require.NoError(t, err)

	otherID := uuid.New()
	_, err = f.svc.Get(ctx, mustParse(t, created.ID), &otherID)
	assert.True(t, apierror.IsKind(err, apierror.KindNotFound))
}

func TestPayment_ContractTargetValidated(t *testing.T) {
	f := newPaymentFixture(t)
	ctx := context.Background()

	contract := &model.Contract{
		CustomerID:     f.customer.ID,
		PlanID:         uuid.New(),
		InstallAddress: "Calle 1",
		Status:         model.ContractTerminated,
	}
	require.NoError(t, f.contracts.Create(ctx, contract))

	req := f.cashRequest()
	cid := contract.ID.String()
	req.ContractID = &cid
	_, err := f.svc.CreateCash(ctx, req)
	assert.True(t, apierror.IsKind(err, apierror.KindInvalidState), "terminated contracts cannot receive payments")

	// contract belonging to someone else
	stranger := &model.Contract{
		CustomerID:     uuid.New(),
		PlanID:         uuid.New(),
		InstallAddress: "Calle 9",
		Status:         model.ContractActive,
	}
	require.NoError(t, f.contracts.Create(ctx, stranger))
	sid := stranger.ID.String()
	req.ContractID = &sid
	_, err = f.svc.CreateCash(ctx, req)
	assert.True(t, apierror.IsKind(err, apierror.KindValidation))
}
