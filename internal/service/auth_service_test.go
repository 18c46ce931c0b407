package service

import (
	"context"
	"testing"

	"github.com/EstebanRsh/UP/internal/apierror"
	"github.com/EstebanRsh/UP/internal/config"
	"github.com/EstebanRsh/UP/internal/dto"
	"github.com/EstebanRsh/UP/internal/model"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"golang.org/x/crypto/bcrypt"
)

type authFixture struct {
	svc       AuthService
	accounts  *stubAccountRepo
	customers *stubCustomerRepo
}

func newAuthFixture(t *testing.T) *authFixture {
	t.Helper()
	accounts := newStubAccountRepo()
	customers := newStubCustomerRepo()
	cfg := &config.Config{JWTSecret: "test-secret", JWTExpirationHours: 8}
	return &authFixture{
		svc:       NewAuthService(accounts, customers, cfg),
		accounts:  accounts,
		customers: customers,
	}
}

func (f *authFixture) seedAccount(t *testing.T, email, document, password, role string, active bool) *model.Account {
	t.Helper()
	hash, err := bcrypt.GenerateFromPassword([]byte(password), bcrypt.MinCost)
	require.NoError(t, err)
	account := &model.Account{
		PasswordHash: string(hash),
		Role:         role,
		Active:       active,
	}
	if email != "" {
		account.Email = &email
	}
	if document != "" {
		account.Document = &document
	}
	require.NoError(t, f.accounts.Create(context.Background(), account))
	return account
}

func TestLogin_ByEmailAndByDocument(t *testing.T) {
	f := newAuthFixture(t)
	f.seedAccount(t, "ops@uplink.com", "30111222", "secret99", model.RoleOperator, true)

	byEmail, err := f.svc.Login(context.Background(), dto.LoginRequest{Email: "ops@uplink.com", Password: "secret99"})
	require.NoError(t, err)
	assert.NotEmpty(t, byEmail.Token)
	assert.Equal(t, "bearer", byEmail.TokenType)
	assert.Equal(t, 8*3600, byEmail.ExpiresIn)

	byDocument, err := f.svc.Login(context.Background(), dto.LoginRequest{Document: "30111222", Password: "secret99"})
	require.NoError(t, err)
	assert.NotEmpty(t, byDocument.Token)
	assert.Equal(t, model.RoleOperator, byDocument.User.Role)
}

func TestLogin_FailuresAreIndistinguishable(t *testing.T) {
	f := newAuthFixture(t)
	f.seedAccount(t, "ops@uplink.com", "", "secret99", model.RoleOperator, true)
	f.seedAccount(t, "gone@uplink.com", "", "secret99", model.RoleOperator, false)

	cases := []dto.LoginRequest{
		{Email: "nobody@uplink.com", Password: "secret99"}, // unknown identity
		{Email: "ops@uplink.com", Password: "wrong"},       // bad password
		{Email: "gone@uplink.com", Password: "secret99"},   // deactivated
	}
	for _, req := range cases {
		_, err := f.svc.Login(context.Background(), req)
		require.Error(t, err)
		assert.True(t, apierror.IsKind(err, apierror.KindUnauthenticated))
		assert.Equal(t, "invalid credentials", err.Error())
	}
}

func TestLogin_RequiresAnIdentity(t *testing.T) {
	f := newAuthFixture(t)
	_, err := f.svc.Login(context.Background(), dto.LoginRequest{Password: "secret99"})
	assert.True(t, apierror.IsKind(err, apierror.KindValidation))
}

func TestCreateAccount_DuplicatesRejected(t *testing.T) {
	f := newAuthFixture(t)
	ctx := context.Background()

	email := "ops@uplink.com"
	_, err := f.svc.CreateAccount(ctx, dto.CreateAccountRequest{
		Email:    &email,
		Password: "secret99",
		Role:     model.RoleOperator,
	})
	require.NoError(t, err)

	_, err = f.svc.CreateAccount(ctx, dto.CreateAccountRequest{
		Email:    &email,
		Password: "other-pass",
		Role:     model.RoleOperator,
	})
	assert.True(t, apierror.IsKind(err, apierror.KindConflict))

	_, err = f.svc.CreateAccount(ctx, dto.CreateAccountRequest{Password: "secret99", Role: model.RoleCustomer})
	assert.True(t, apierror.IsKind(err, apierror.KindValidation), "email or document is required")
}

func TestMe_CustomerRoleGetsLinkedCustomerID(t *testing.T) {
	f := newAuthFixture(t)
	ctx := context.Background()
	account := f.seedAccount(t, "ana@example.com", "", "secret99", model.RoleCustomer, true)

	// not linked yet
	me, err := f.svc.Me(ctx, account.ID, "ana@example.com", model.RoleCustomer)
	require.NoError(t, err)
	assert.Nil(t, me.CustomerID)

	customer := &model.Customer{
		CustomerNumber: "000001",
		FirstName:      "Ana",
		LastName:       "Gomez",
		Document:       "30111222",
		Address:        "Calle 1",
		Status:         model.CustomerActive,
		AccountID:      &account.ID,
	}
	require.NoError(t, f.customers.Create(ctx, nil, customer))

	me, err = f.svc.Me(ctx, account.ID, "ana@example.com", model.RoleCustomer)
	require.NoError(t, err)
	require.NotNil(t, me.CustomerID)
	assert.Equal(t, customer.ID.String(), *me.CustomerID)
}

func TestDeactivateAccount_BlocksLogin(t *testing.T) {
	f := newAuthFixture(t)
	ctx := context.Background()
	account := f.seedAccount(t, "ops@uplink.com", "", "secret99", model.RoleOperator, true)

	require.NoError(t, f.svc.DeactivateAccount(ctx, account.ID))
	_, err := f.svc.Login(ctx, dto.LoginRequest{Email: "ops@uplink.com", Password: "secret99"})
	assert.True(t, apierror.IsKind(err, apierror.KindUnauthenticated))

	require.NoError(t, f.svc.ReactivateAccount(ctx, account.ID))
	_, err = f.svc.Login(ctx, dto.LoginRequest{Email: "ops@uplink.com", Password: "secret99"})
	assert.NoError(t, err)
}
