package courier

import (
	"context"

	"github.com/google/uuid"

	"github.com/commerceos/backend/internal/domain/shared"
)

// AccountRepository defines persistence operations for courier accounts
type AccountRepository interface {
	shared.TenantRepository[Account]

	// FindActiveByType returns the active account for a courier type,
	// or shared.ErrNotFound when the tenant has none
	FindActiveByType(ctx context.Context, tenantID uuid.UUID, courierType CourierType) (*Account, error)

	// SaveWithLock saves the account with optimistic locking on Version
	SaveWithLock(ctx context.Context, a *Account) error
}
