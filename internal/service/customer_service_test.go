package service

import (
	"context"
	"testing"

	"github.com/EstebanRsh/UP/internal/apierror"
	"github.com/EstebanRsh/UP/internal/dto"
	"github.com/EstebanRsh/UP/internal/model"
	"github.com/EstebanRsh/UP/internal/sequence"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"gorm.io/gorm"
)

type customerFixture struct {
	svc       CustomerService
	customers *stubCustomerRepo
	accounts  *stubAccountRepo
	sequences *stubSequenceRepo
}

func newCustomerFixture(t *testing.T) *customerFixture {
	t.Helper()
	customers := newStubCustomerRepo()
	accounts := newStubAccountRepo()
	sequences := newStubSequenceRepo()
	return &customerFixture{
		svc:       NewCustomerService(customers, accounts, sequence.NewAllocator(sequences, "REC")),
		customers: customers,
		accounts:  accounts,
		sequences: sequences,
	}
}

func createCustomerReq(document string) dto.CreateCustomerRequest {
	return dto.CreateCustomerRequest{
		FirstName: "Ana",
		LastName:  "Gomez",
		Document:  document,
		Address:   "Calle 1",
	}
}

func TestCustomerCreate_NumbersAreSequential(t *testing.T) {
	f := newCustomerFixture(t)
	ctx := context.Background()

	first, err := f.svc.Create(ctx, createCustomerReq("30111222"))
	require.NoError(t, err)
	second, err := f.svc.Create(ctx, createCustomerReq("27999888"))
	require.NoError(t, err)

	assert.Equal(t, "000001", first.CustomerNumber)
	assert.Equal(t, "000002", second.CustomerNumber)
	assert.Equal(t, model.CustomerActive, first.Status)
}

func TestCustomerCreate_NumberCollisionRetriedOnce(t *testing.T) {
	f := newCustomerFixture(t)
	f.customers.createErr = gorm.ErrDuplicatedKey

	resp, err := f.svc.Create(context.Background(), createCustomerReq("30111222"))

	require.NoError(t, err)
	// the first allocation was burned by the collision; the retry took the next number
	assert.Equal(t, "000002", resp.CustomerNumber)
}

func TestCustomerCreate_DuplicateDocumentRejected(t *testing.T) {
	f := newCustomerFixture(t)
	ctx := context.Background()

	_, err := f.svc.Create(ctx, createCustomerReq("30111222"))
	require.NoError(t, err)

	_, err = f.svc.Create(ctx, createCustomerReq("30111222"))
	assert.True(t, apierror.IsKind(err, apierror.KindConflict))
	// the failed attempt must not burn a number
	next, err := f.svc.Create(ctx, createCustomerReq("27999888"))
	require.NoError(t, err)
	assert.Equal(t, "000002", next.CustomerNumber)
}

func TestCustomerCreate_DuplicateEmailRejected(t *testing.T) {
	f := newCustomerFixture(t)
	ctx := context.Background()

	email := "ana@example.com"
	req := createCustomerReq("30111222")
	req.Email = &email
	_, err := f.svc.Create(ctx, req)
	require.NoError(t, err)

	same := "ana@example.com"
	other := createCustomerReq("27999888")
	other.Email = &same
	_, err = f.svc.Create(ctx, other)
	assert.True(t, apierror.IsKind(err, apierror.KindConflict))
}

func TestCustomerUpdate_DocumentCannotBeCleared(t *testing.T) {
	f := newCustomerFixture(t)
	ctx := context.Background()
	created, err := f.svc.Create(ctx, createCustomerReq("30111222"))
	require.NoError(t, err)
	id := mustParse(t, created.ID)

	empty := "  "
	_, err = f.svc.Update(ctx, id, dto.UpdateCustomerRequest{Document: &empty})
	assert.True(t, apierror.IsKind(err, apierror.KindValidation))

	fixed := "30111333"
	resp, err := f.svc.Update(ctx, id, dto.UpdateCustomerRequest{Document: &fixed})
	require.NoError(t, err)
	assert.Equal(t, fixed, resp.Document)
	assert.Equal(t, "000001", resp.CustomerNumber, "the customer number never changes")
}

func TestCustomerUpdate_DocumentTakenByAnother(t *testing.T) {
	f := newCustomerFixture(t)
	ctx := context.Background()
	_, err := f.svc.Create(ctx, createCustomerReq("30111222"))
	require.NoError(t, err)
	second, err := f.svc.Create(ctx, createCustomerReq("27999888"))
	require.NoError(t, err)

	taken := "30111222"
	_, err = f.svc.Update(ctx, mustParse(t, second.ID), dto.UpdateCustomerRequest{Document: &taken})
	assert.True(t, apierror.IsKind(err, apierror.KindConflict))
}

func TestCustomerDeactivate_SoftDelete(t *testing.T) {
	f := newCustomerFixture(t)
	ctx := context.Background()
	created, err := f.svc.Create(ctx, createCustomerReq("30111222"))
	require.NoError(t, err)
	id := mustParse(t, created.ID)

	require.NoError(t, f.svc.Deactivate(ctx, id))
	resp, err := f.svc.Get(ctx, id, nil)
	require.NoError(t, err)
	assert.Equal(t, model.CustomerInactive, resp.Status, "the row survives for receipt history")
}

func TestLinkAccount_Rules(t *testing.T) {
	f := newCustomerFixture(t)
	ctx := context.Background()
	created, err := f.svc.Create(ctx, createCustomerReq("30111222"))
	require.NoError(t, err)
	id := mustParse(t, created.ID)

	staff := &model.Account{Role: model.RoleOperator, Active: true}
	require.NoError(t, f.accounts.Create(ctx, staff))
	portal := &model.Account{Role: model.RoleCustomer, Active: true}
	require.NoError(t, f.accounts.Create(ctx, portal))

	staffID := staff.ID.String()
	_, err = f.svc.LinkAccount(ctx, id, dto.LinkAccountRequest{AccountID: &staffID})
	assert.True(t, apierror.IsKind(err, apierror.KindValidation), "staff accounts cannot be linked")

	portalID := portal.ID.String()
	resp, err := f.svc.LinkAccount(ctx, id, dto.LinkAccountRequest{AccountID: &portalID})
	require.NoError(t, err)
	require.NotNil(t, resp.AccountID)
	assert.Equal(t, portalID, *resp.AccountID)

	// the same account cannot serve a second customer
	second, err := f.svc.Create(ctx, createCustomerReq("27999888"))
	require.NoError(t, err)
	_, err = f.svc.LinkAccount(ctx, mustParse(t, second.ID), dto.LinkAccountRequest{AccountID: &portalID})
	assert.True(t, apierror.IsKind(err, apierror.KindConflict))

	// unlink clears the association
	resp, err = f.svc.LinkAccount(ctx, id, dto.LinkAccountRequest{})
	require.NoError(t, err)
	assert.Nil(t, resp.AccountID)
}

func TestCustomerGet_OwnerMasking(t *testing.T) {
	f := newCustomerFixture(t)
	ctx := context.Background()
	created, err := f.svc.Create(ctx, createCustomerReq("30111222"))
	require.NoError(t, err)
	id := mustParse(t, created.ID)

	otherID := uuid.New()
	_, err = f.svc.Get(ctx, id, &otherID)
	assert.True(t, apierror.IsKind(err, apierror.KindNotFound), "cross-owner reads look like missing rows")

	resp, err := f.svc.Get(ctx, id, &id)
	require.NoError(t, err)
	assert.Equal(t, created.ID, resp.ID)
}
