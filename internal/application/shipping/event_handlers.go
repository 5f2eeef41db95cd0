package shipping

import (
	"context"

	"go.uber.org/zap"

	"github.com/commerceos/backend/internal/domain/shared"
	"github.com/commerceos/backend/internal/domain/shipping"
)

// ShipmentAuditLogger writes shipment lifecycle events to the structured
// log, giving operations a queryable audit trail of every booking, AWB
// binding and status transition.
type ShipmentAuditLogger struct {
	logger *zap.Logger
}

// NewShipmentAuditLogger creates a new ShipmentAuditLogger
func NewShipmentAuditLogger(logger *zap.Logger) *ShipmentAuditLogger {
	return &ShipmentAuditLogger{logger: logger.Named("shipment_audit")}
}

// EventTypes returns the shipment events this handler subscribes to
func (h *ShipmentAuditLogger) EventTypes() []string {
	return []string{
		shipping.EventShipmentCreated,
		shipping.EventAWBAssigned,
		shipping.EventShipmentStatusChanged,
	}
}

// Handle logs one shipment lifecycle event
func (h *ShipmentAuditLogger) Handle(ctx context.Context, event shared.DomainEvent) error {
	fields := []zap.Field{
		zap.String("event_type", event.EventType()),
		zap.String("shipment_id", event.AggregateID().String()),
		zap.String("tenant_id", event.TenantID().String()),
		zap.Time("occurred_at", event.OccurredAt()),
	}

	switch ev := event.(type) {
	case *shipping.ShipmentCreatedEvent:
		fields = append(fields,
			zap.String("shipment_number", ev.ShipmentNumber),
			zap.String("order_number", ev.OrderNumber),
			zap.String("courier_type", ev.CourierType))
	case *shipping.AWBAssignedEvent:
		fields = append(fields,
			zap.String("shipment_number", ev.ShipmentNumber),
			zap.String("awb_number", ev.AWBNumber),
			zap.String("courier_name", ev.CourierName))
	case *shipping.ShipmentStatusChangedEvent:
		fields = append(fields,
			zap.String("shipment_number", ev.ShipmentNumber),
			zap.String("from_status", string(ev.FromStatus)),
			zap.String("to_status", string(ev.ToStatus)))
	}

	h.logger.Info("shipment event", fields...)
	return nil
}

var _ shared.EventHandler = (*ShipmentAuditLogger)(nil)
