package courier

import (
	"context"
	"time"

	"github.com/google/uuid"
	"go.uber.org/zap"

	"github.com/commerceos/backend/internal/domain/courier"
	"github.com/commerceos/backend/internal/domain/shared"
)

// AccountResponse is the courier account view returned by the service.
// Credentials are never exposed.
type AccountResponse struct {
	ID            uuid.UUID  `json:"id"`
	CourierType   string     `json:"courier_type"`
	DisplayName   string     `json:"display_name"`
	IsActive      bool       `json:"is_active"`
	IsConnected   bool       `json:"is_connected"`
	LastCheckedAt *time.Time `json:"last_checked_at,omitempty"`
	CreatedAt     time.Time  `json:"created_at"`
}

// CreateAccountRequest registers a tenant's courier account
type CreateAccountRequest struct {
	CourierType string `json:"courier_type" binding:"required"`
	DisplayName string `json:"display_name" binding:"required"`
	Email       string `json:"email,omitempty"`
	Password    string `json:"password,omitempty"`
	APIKey      string `json:"api_key,omitempty"`
}

// TestConnectionResponse reports a connectivity-test outcome
type TestConnectionResponse struct {
	Connected bool   `json:"connected"`
	Message   string `json:"message,omitempty"`
}

// AccountService manages courier accounts and their connectivity tests
type AccountService struct {
	accounts  courier.AccountRepository
	providers courier.Registry
	logger    *zap.Logger
}

// NewAccountService creates a new AccountService
func NewAccountService(accounts courier.AccountRepository, providers courier.Registry, logger *zap.Logger) *AccountService {
	return &AccountService{
		accounts:  accounts,
		providers: providers,
		logger:    logger,
	}
}

// CreateAccount registers a new courier account for the tenant
func (s *AccountService) CreateAccount(ctx context.Context, tenantID uuid.UUID, req *CreateAccountRequest) (*AccountResponse, error) {
	courierType := courier.CourierType(req.CourierType)
	if _, err := s.providers.Get(courierType); err != nil {
		return nil, shared.NewDomainError("INVALID_INPUT", "unsupported courier type: "+req.CourierType)
	}

	account, err := courier.NewAccount(tenantID, courierType, req.DisplayName, courier.Credentials{
		Email:    req.Email,
		Password: req.Password,
		APIKey:   req.APIKey,
	})
	if err != nil {
		return nil, err
	}
	if err := s.accounts.Save(ctx, account); err != nil {
		return nil, err
	}

	s.logger.Info("courier account created",
		zap.String("courier_type", string(courierType)),
		zap.String("account_id", account.ID.String()))
	return toAccountResponse(account), nil
}

// GetAccount returns one courier account
func (s *AccountService) GetAccount(ctx context.Context, tenantID, accountID uuid.UUID) (*AccountResponse, error) {
	account, err := s.accounts.FindByIDForTenant(ctx, tenantID, accountID)
	if err != nil {
		return nil, err
	}
	return toAccountResponse(account), nil
}

// ListAccounts returns all of the tenant's courier accounts
func (s *AccountService) ListAccounts(ctx context.Context, tenantID uuid.UUID) ([]AccountResponse, error) {
	accounts, err := s.accounts.FindAllForTenant(ctx, tenantID, shared.DefaultFilter())
	if err != nil {
		return nil, err
	}
	out := make([]AccountResponse, 0, len(accounts))
	for i := range accounts {
		out = append(out, *toAccountResponse(&accounts[i]))
	}
	return out, nil
}

// TestConnection validates the account's credentials against the carrier
// API and stamps the result onto the account. This is the only path that
// mutates a courier account after creation.
func (s *AccountService) TestConnection(ctx context.Context, tenantID, accountID uuid.UUID) (*TestConnectionResponse, error) {
	account, err := s.accounts.FindByIDForTenant(ctx, tenantID, accountID)
	if err != nil {
		return nil, err
	}
	provider, err := s.providers.Get(account.CourierType)
	if err != nil {
		return nil, err
	}
	creds, err := account.Credentials()
	if err != nil {
		return nil, err
	}

	validationErr := provider.ValidateCredentials(ctx, creds)
	account.MarkConnectionResult(validationErr == nil)
	if err := s.accounts.SaveWithLock(ctx, account); err != nil {
		return nil, err
	}

	if validationErr != nil {
		s.logger.Warn("courier connectivity test failed",
			zap.String("account_id", accountID.String()),
			zap.Error(validationErr))
		return &TestConnectionResponse{Connected: false, Message: validationErr.Error()}, nil
	}
	return &TestConnectionResponse{Connected: true}, nil
}

func toAccountResponse(a *courier.Account) *AccountResponse {
	return &AccountResponse{
		ID:            a.ID,
		CourierType:   string(a.CourierType),
		DisplayName:   a.DisplayName,
		IsActive:      a.IsActive,
		IsConnected:   a.IsConnected,
		LastCheckedAt: a.LastCheckedAt,
		CreatedAt:     a.CreatedAt,
	}
}
