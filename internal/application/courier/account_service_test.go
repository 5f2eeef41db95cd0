package courier

import (
	"context"
	"errors"
	"testing"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"

	"github.com/commerceos/backend/internal/domain/courier"
	"github.com/commerceos/backend/internal/domain/shared"
)

type mockAccountRepository struct {
	mock.Mock
}

func (m *mockAccountRepository) FindByID(ctx context.Context, id uuid.UUID) (*courier.Account, error) {
	args := m.Called(ctx, id)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*courier.Account), args.Error(1)
}

func (m *mockAccountRepository) FindAll(ctx context.Context, filter shared.Filter) ([]courier.Account, error) {
	args := m.Called(ctx, filter)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]courier.Account), args.Error(1)
}

func (m *mockAccountRepository) Save(ctx context.Context, a *courier.Account) error {
	return m.Called(ctx, a).Error(0)
}

func (m *mockAccountRepository) Delete(ctx context.Context, id uuid.UUID) error {
	return m.Called(ctx, id).Error(0)
}

func (m *mockAccountRepository) Count(ctx context.Context, filter shared.Filter) (int64, error) {
	args := m.Called(ctx, filter)
	return args.Get(0).(int64), args.Error(1)
}

func (m *mockAccountRepository) FindByIDForTenant(ctx context.Context, tenantID, id uuid.UUID) (*courier.Account, error) {
	args := m.Called(ctx, tenantID, id)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*courier.Account), args.Error(1)
}

func (m *mockAccountRepository) FindAllForTenant(ctx context.Context, tenantID uuid.UUID, filter shared.Filter) ([]courier.Account, error) {
	args := m.Called(ctx, tenantID, filter)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]courier.Account), args.Error(1)
}

func (m *mockAccountRepository) FindActiveByType(ctx context.Context, tenantID uuid.UUID, courierType courier.CourierType) (*courier.Account, error) {
	args := m.Called(ctx, tenantID, courierType)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*courier.Account), args.Error(1)
}

func (m *mockAccountRepository) SaveWithLock(ctx context.Context, a *courier.Account) error {
	return m.Called(ctx, a).Error(0)
}

type mockProvider struct {
	mock.Mock
	courierType courier.CourierType
}

func (m *mockProvider) Type() courier.CourierType {
	return m.courierType
}

func (m *mockProvider) ValidateCredentials(ctx context.Context, creds courier.Credentials) error {
	return m.Called(ctx, creds).Error(0)
}

func (m *mockProvider) CreateShipment(ctx context.Context, creds courier.Credentials, req courier.CreateShipmentRequest) (*courier.CreateShipmentResult, error) {
	args := m.Called(ctx, creds, req)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*courier.CreateShipmentResult), args.Error(1)
}

func (m *mockProvider) CheckServiceability(ctx context.Context, creds courier.Credentials, req courier.ServiceabilityRequest) ([]courier.Quote, error) {
	args := m.Called(ctx, creds, req)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]courier.Quote), args.Error(1)
}

func (m *mockProvider) GenerateAWB(ctx context.Context, creds courier.Credentials, externalShipmentID, courierID string) (*courier.AWBResult, error) {
	args := m.Called(ctx, creds, externalShipmentID, courierID)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*courier.AWBResult), args.Error(1)
}

type stubRegistry struct {
	providers map[courier.CourierType]courier.Provider
}

func (r *stubRegistry) Get(courierType courier.CourierType) (courier.Provider, error) {
	p, ok := r.providers[courierType]
	if !ok {
		return nil, shared.NewDomainError("INVALID_INPUT", "no provider for "+string(courierType))
	}
	return p, nil
}

func (r *stubRegistry) Types() []courier.CourierType {
	types := make([]courier.CourierType, 0, len(r.providers))
	for t := range r.providers {
		types = append(types, t)
	}
	return types
}

func newService(t *testing.T) (*AccountService, *mockAccountRepository, *mockProvider) {
	t.Helper()
	repo := new(mockAccountRepository)
	provider := &mockProvider{courierType: courier.CourierTypeShiprocket}
	registry := &stubRegistry{providers: map[courier.CourierType]courier.Provider{
		courier.CourierTypeShiprocket: provider,
	}}
	return NewAccountService(repo, registry, zap.NewNop()), repo, provider
}

func TestCreateAccount(t *testing.T) {
	svc, repo, _ := newService(t)
	tenantID := uuid.New()
	repo.On("Save", mock.Anything, mock.Anything).Return(nil)

	resp, err := svc.CreateAccount(context.Background(), tenantID, &CreateAccountRequest{
		CourierType: string(courier.CourierTypeShiprocket),
		DisplayName: "Shiprocket main",
		Email:       "ops@example.com",
		Password:    "secret",
	})
	require.NoError(t, err)
	assert.Equal(t, "SHIPROCKET", resp.CourierType)
	assert.True(t, resp.IsActive)
	assert.False(t, resp.IsConnected)
}

func TestCreateAccount_UnsupportedType(t *testing.T) {
	svc, repo, _ := newService(t)
	_, err := svc.CreateAccount(context.Background(), uuid.New(), &CreateAccountRequest{
		CourierType: "PIGEON",
		DisplayName: "nope",
	})
	require.Error(t, err)
	repo.AssertNotCalled(t, "Save", mock.Anything, mock.Anything)
}

func TestTestConnection_Success(t *testing.T) {
	svc, repo, provider := newService(t)
	tenantID := uuid.New()
	account, err := courier.NewAccount(tenantID, courier.CourierTypeShiprocket, "main", courier.Credentials{Email: "e", Password: "p"})
	require.NoError(t, err)

	repo.On("FindByIDForTenant", mock.Anything, tenantID, account.ID).Return(account, nil)
	provider.On("ValidateCredentials", mock.Anything, mock.Anything).Return(nil)
	repo.On("SaveWithLock", mock.Anything, account).Return(nil)

	resp, err := svc.TestConnection(context.Background(), tenantID, account.ID)
	require.NoError(t, err)
	assert.True(t, resp.Connected)
	assert.True(t, account.IsConnected)
	assert.NotNil(t, account.LastCheckedAt)
}

func TestTestConnection_FailureStampsDisconnected(t *testing.T) {
	svc, repo, provider := newService(t)
	tenantID := uuid.New()
	account, err := courier.NewAccount(tenantID, courier.CourierTypeShiprocket, "main", courier.Credentials{Email: "e", Password: "p"})
	require.NoError(t, err)
	account.MarkConnectionResult(true)

	repo.On("FindByIDForTenant", mock.Anything, tenantID, account.ID).Return(account, nil)
	provider.On("ValidateCredentials", mock.Anything, mock.Anything).Return(errors.New("invalid credentials"))
	repo.On("SaveWithLock", mock.Anything, account).Return(nil)

	resp, err := svc.TestConnection(context.Background(), tenantID, account.ID)
	require.NoError(t, err)
	assert.False(t, resp.Connected)
	assert.Contains(t, resp.Message, "invalid credentials")
	assert.False(t, account.IsConnected)
}

func TestListAccounts(t *testing.T) {
	svc, repo, _ := newService(t)
	tenantID := uuid.New()
	a1, err := courier.NewAccount(tenantID, courier.CourierTypeShiprocket, "sr", courier.Credentials{Email: "e"})
	require.NoError(t, err)
	a2, err := courier.NewAccount(tenantID, courier.CourierTypeDelhivery, "dlv", courier.Credentials{APIKey: "k"})
	require.NoError(t, err)

	repo.On("FindAllForTenant", mock.Anything, tenantID, mock.Anything).Return([]courier.Account{*a1, *a2}, nil)

	accounts, err := svc.ListAccounts(context.Background(), tenantID)
	require.NoError(t, err)
	require.Len(t, accounts, 2)
	assert.Equal(t, "SHIPROCKET", accounts[0].CourierType)
	assert.Equal(t, "DELHIVERY", accounts[1].CourierType)
}

func TestGetAccount_NotFound(t *testing.T) {
	svc, repo, _ := newService(t)
	tenantID := uuid.New()
	id := uuid.New()
	repo.On("FindByIDForTenant", mock.Anything, tenantID, id).Return(nil, shared.ErrNotFound)

	_, err := svc.GetAccount(context.Background(), tenantID, id)
	assert.ErrorIs(t, err, shared.ErrNotFound)
}
