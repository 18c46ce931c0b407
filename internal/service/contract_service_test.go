package service

// contract_service_test.go
// Covers the contract state machine: draft entry, activation, suspension,
// termination finality, plan-active guards, and owner masking on reads.

import (
	"context"
	"testing"

	"github.com/EstebanRsh/UP/internal/apierror"
	"github.com/EstebanRsh/UP/internal/dto"
	"github.com/EstebanRsh/UP/internal/model"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type contractFixture struct {
	svc       ContractService
	contracts *stubContractRepo
	customers *stubCustomerRepo
	plans     *stubPlanRepo
	customer  *model.Customer
	plan      *model.Plan
}

func newContractFixture(t *testing.T) *contractFixture {
	t.Helper()
	contracts := newStubContractRepo()
	customers := newStubCustomerRepo()
	plans := newStubPlanRepo()

	customer := &model.Customer{
		CustomerNumber: "000001",
		FirstName:      "Ana",
		LastName:       "Gomez",
		Document:       "30111222",
		Address:        "Calle 1",
		Status:         model.CustomerActive,
	}
	require.NoError(t, customers.Create(context.Background(), nil, customer))

	plan := &model.Plan{
		Name:         "Fiber 300",
		DownloadMbps: 300,
		UploadMbps:   50,
		MonthlyPrice: decimal.NewFromInt(15000),
		Active:       true,
	}
	require.NoError(t, plans.Create(context.Background(), plan))

	return &contractFixture{
		svc:       NewContractService(contracts, customers, plans),
		contracts: contracts,
		customers: customers,
		plans:     plans,
		customer:  customer,
		plan:      plan,
	}
}

func (f *contractFixture) create(t *testing.T) *dto.ContractResponse {
	t.Helper()
	resp, err := f.svc.Create(context.Background(), dto.CreateContractRequest{
		CustomerID:     f.customer.ID.String(),
		PlanID:         f.plan.ID.String(),
		InstallAddress: "Av. Siempreviva 742",
	})
	require.NoError(t, err)
	return resp
}

func mustParse(t *testing.T, s string) uuid.UUID {
	t.Helper()
	id, err := uuid.Parse(s)
	require.NoError(t, err)
	return id
}

func TestContractCreate_StartsInDraft(t *testing.T) {
	f := newContractFixture(t)

	resp := f.create(t)

	assert.Equal(t, model.ContractDraft, resp.Status)
	assert.Nil(t, resp.ActivatedOn)
}

func TestContractCreate_InactivePlanRejected(t *testing.T) {
	f := newContractFixture(t)
	f.plan.Active = false
	require.NoError(t, f.plans.Update(context.Background(), f.plan))

	_, err := f.svc.Create(context.Background(), dto.CreateContractRequest{
		CustomerID:     f.customer.ID.String(),
		PlanID:         f.plan.ID.String(),
		InstallAddress: "Av. Siempreviva 742",
	})

	assert.True(t, apierror.IsKind(err, apierror.KindInvalidState))
}

func TestContractActivate_FromDraft(t *testing.T) {
	f := newContractFixture(t)
	id := mustParse(t, f.create(t).ID)

	resp, err := f.svc.Activate(context.Background(), id)

	require.NoError(t, err)
	assert.Equal(t, model.ContractActive, resp.Status)
	assert.NotNil(t, resp.ActivatedOn)
}

func TestContractActivate_AlreadyActiveIsNoOp(t *testing.T) {
	f := newContractFixture(t)
	id := mustParse(t, f.create(t).ID)

	first, err := f.svc.Activate(context.Background(), id)
	require.NoError(t, err)

	again, err := f.svc.Activate(context.Background(), id)

	require.NoError(t, err)
	assert.Equal(t, model.ContractActive, again.Status)
	assert.Equal(t, first.ActivatedOn, again.ActivatedOn, "first-activation date is kept")
}

func TestContractCreate_DefaultsInstallDate(t *testing.T) {
	f := newContractFixture(t)

	resp := f.create(t)
	require.NotNil(t, resp.InstalledOn, "install date defaults to today when not supplied")

	supplied := "2025-03-15"
	withDate, err := f.svc.Create(context.Background(), dto.CreateContractRequest{
		CustomerID:     f.customer.ID.String(),
		PlanID:         f.plan.ID.String(),
		InstallAddress: "Av. Siempreviva 742",
		InstalledOn:    &supplied,
	})
	require.NoError(t, err)
	require.NotNil(t, withDate.InstalledOn)
	assert.Equal(t, supplied, *withDate.InstalledOn)
}

func TestContractActivate_InactivePlanRejected(t *testing.T) {
	f := newContractFixture(t)
	ctx := context.Background()
	id := mustParse(t, f.create(t).ID)

	// plan retired between contract creation and activation
	f.plan.Active = false
	require.NoError(t, f.plans.Update(ctx, f.plan))

	_, err := f.svc.Activate(ctx, id)
	assert.True(t, apierror.IsKind(err, apierror.KindInvalidState))
}

func TestContractSuspend_RequiresActive(t *testing.T) {
	f := newContractFixture(t)
	id := mustParse(t, f.create(t).ID)

	// draft → suspend must be rejected: the service was never in use
	_, err := f.svc.Suspend(context.Background(), id)
	assert.True(t, apierror.IsKind(err, apierror.KindInvalidState))

	_, err = f.svc.Activate(context.Background(), id)
	require.NoError(t, err)
	resp, err := f.svc.Suspend(context.Background(), id)
	require.NoError(t, err)
	assert.Equal(t, model.ContractSuspended, resp.Status)
	assert.NotNil(t, resp.SuspendedOn)
}

func TestContractResume_ClearsSuspension(t *testing.T) {
	f := newContractFixture(t)
	id := mustParse(t, f.create(t).ID)
	activated, err := f.svc.Activate(context.Background(), id)
	require.NoError(t, err)
	_, err = f.svc.Suspend(context.Background(), id)
	require.NoError(t, err)

	resp, err := f.svc.Resume(context.Background(), id)

	require.NoError(t, err)
	assert.Equal(t, model.ContractActive, resp.Status)
	assert.Nil(t, resp.SuspendedOn)
	assert.Equal(t, activated.ActivatedOn, resp.ActivatedOn, "first-activation date is kept")
}

func TestContractTerminate_FromAnyStatusAndFinal(t *testing.T) {
	f := newContractFixture(t)
	ctx := context.Background()

	// terminate straight from draft
	draftID := mustParse(t, f.create(t).ID)
	resp, err := f.svc.Terminate(ctx, draftID)
	require.NoError(t, err)
	assert.Equal(t, model.ContractTerminated, resp.Status)
	assert.NotNil(t, resp.TerminatedOn)

	// terminated rejects every outgoing transition
	_, err = f.svc.Activate(ctx, draftID)
	assert.True(t, apierror.IsKind(err, apierror.KindInvalidState))
	_, err = f.svc.Suspend(ctx, draftID)
	assert.True(t, apierror.IsKind(err, apierror.KindInvalidState))
	_, err = f.svc.Terminate(ctx, draftID)
	assert.True(t, apierror.IsKind(err, apierror.KindInvalidState))

	// and update is frozen too
	addr := "Nueva 123"
	_, err = f.svc.Update(ctx, draftID, dto.UpdateContractRequest{InstallAddress: &addr})
	assert.True(t, apierror.IsKind(err, apierror.KindInvalidState))
}

func TestContractUpdate_PlanReassignmentRequiresActivePlan(t *testing.T) {
	f := newContractFixture(t)
	ctx := context.Background()
	id := mustParse(t, f.create(t).ID)

	retired := &model.Plan{
		Name:         "Legacy 50",
		DownloadMbps: 50,
		UploadMbps:   10,
		MonthlyPrice: decimal.NewFromInt(5000),
		Active:       false,
	}
	require.NoError(t, f.plans.Create(ctx, retired))

	retiredID := retired.ID.String()
	_, err := f.svc.Update(ctx, id, dto.UpdateContractRequest{PlanID: &retiredID})
	assert.True(t, apierror.IsKind(err, apierror.KindInvalidState))

	fresh := &model.Plan{
		Name:         "Fiber 600",
		DownloadMbps: 600,
		UploadMbps:   100,
		MonthlyPrice: decimal.NewFromInt(22000),
		Active:       true,
	}
	require.NoError(t, f.plans.Create(ctx, fresh))
	freshID := fresh.ID.String()
	resp, err := f.svc.Update(ctx, id, dto.UpdateContractRequest{PlanID: &freshID})
	require.NoError(t, err)
	assert.Equal(t, freshID, resp.PlanID)
}

func TestContractGet_OwnerMaskedAsNotFound(t *testing.T) {
	f := newContractFixture(t)
	ctx := context.Background()
	id := mustParse(t, f.create(t).ID)

	// another customer must not learn the contract exists
	otherID := uuid.New()
	_, err := f.svc.Get(ctx, id, &otherID)
	assert.True(t, apierror.IsKind(err, apierror.KindNotFound))

	// the owner sees it
	resp, err := f.svc.Get(ctx, id, &f.customer.ID)
	require.NoError(t, err)
	assert.Equal(t, id.String(), resp.ID)

	// staff (no owner filter) sees it
	resp, err = f.svc.Get(ctx, id, nil)
	require.NoError(t, err)
	assert.Equal(t, id.String(), resp.ID)
}
