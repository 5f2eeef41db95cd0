package order

import (
	"context"

	"github.com/google/uuid"

	"github.com/commerceos/backend/internal/domain/shared"
)

// Repository defines persistence operations for orders
type Repository interface {
	shared.TenantRepository[Order]

	// FindByOrderNumber finds an order by its human-readable number
	FindByOrderNumber(ctx context.Context, tenantID uuid.UUID, orderNumber string) (*Order, error)

	// UpdateStatusIf performs a conditional status write: the update succeeds
	// only when the stored status is one of expected. When the guard fails,
	// shared.ErrConcurrencyConflict is returned so callers can re-read and
	// retry the cascade.
	UpdateStatusIf(ctx context.Context, tenantID, id uuid.UUID, expected []OrderStatus, next OrderStatus) error

	// SaveWithLock saves the order with optimistic locking on Version
	SaveWithLock(ctx context.Context, o *Order) error
}
