package shipping

import (
	"context"

	"github.com/google/uuid"

	"github.com/commerceos/backend/internal/domain/shared"
)

// Repository defines persistence operations for shipments
type Repository interface {
	shared.TenantRepository[Shipment]

	// FindByShipmentNumber finds a shipment by its human-readable number
	FindByShipmentNumber(ctx context.Context, tenantID uuid.UUID, shipmentNumber string) (*Shipment, error)

	// FindByAWB finds a shipment by its AWB number
	FindByAWB(ctx context.Context, tenantID uuid.UUID, awbNumber string) (*Shipment, error)

	// FindActiveByOrder returns the order's non-terminal shipment, or
	// shared.ErrNotFound when every shipment for the order is terminal
	FindActiveByOrder(ctx context.Context, tenantID, orderID uuid.UUID) (*Shipment, error)

	// SaveWithLock saves the shipment with optimistic locking on Version
	SaveWithLock(ctx context.Context, s *Shipment) error

	// GenerateShipmentNumber produces the next human-readable shipment
	// number for the tenant, e.g. SHP-2026-00042
	GenerateShipmentNumber(ctx context.Context, tenantID uuid.UUID) (string, error)
}
