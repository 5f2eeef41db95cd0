package persistence

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/google/uuid"
	"gorm.io/gorm"

	"github.com/commerceos/backend/internal/domain/shared"
	"github.com/commerceos/backend/internal/domain/shipping"
)

// GormShipmentRepository implements shipping.Repository using GORM
type GormShipmentRepository struct {
	db *gorm.DB
}

// NewGormShipmentRepository creates a new GormShipmentRepository
func NewGormShipmentRepository(db *gorm.DB) *GormShipmentRepository {
	return &GormShipmentRepository{db: db}
}

func (r *GormShipmentRepository) preloaded(ctx context.Context) *gorm.DB {
	return r.db.WithContext(ctx).
		Preload("Items").
		Preload("TrackingEvents", func(db *gorm.DB) *gorm.DB {
			return db.Order("event_time ASC")
		})
}

// FindByID finds a shipment by its ID
func (r *GormShipmentRepository) FindByID(ctx context.Context, id uuid.UUID) (*shipping.Shipment, error) {
	var shipment shipping.Shipment
	if err := r.preloaded(ctx).First(&shipment, "id = ?", id).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, shared.ErrNotFound
		}
		return nil, err
	}
	return &shipment, nil
}

// FindByIDForTenant finds a shipment by ID within a tenant
func (r *GormShipmentRepository) FindByIDForTenant(ctx context.Context, tenantID, id uuid.UUID) (*shipping.Shipment, error) {
	var shipment shipping.Shipment
	if err := r.preloaded(ctx).
		Where("tenant_id = ? AND id = ?", tenantID, id).
		First(&shipment).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, shared.ErrNotFound
		}
		return nil, err
	}
	return &shipment, nil
}

// FindByShipmentNumber finds a shipment by its human-readable number
func (r *GormShipmentRepository) FindByShipmentNumber(ctx context.Context, tenantID uuid.UUID, shipmentNumber string) (*shipping.Shipment, error) {
	var shipment shipping.Shipment
	if err := r.preloaded(ctx).
		Where("tenant_id = ? AND shipment_number = ?", tenantID, shipmentNumber).
		First(&shipment).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, shared.ErrNotFound
		}
		return nil, err
	}
	return &shipment, nil
}

// FindByAWB finds a shipment by AWB number
func (r *GormShipmentRepository) FindByAWB(ctx context.Context, tenantID uuid.UUID, awbNumber string) (*shipping.Shipment, error) {
	var shipment shipping.Shipment
	if err := r.preloaded(ctx).
		Where("tenant_id = ? AND awb_number = ?", tenantID, awbNumber).
		First(&shipment).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, shared.ErrNotFound
		}
		return nil, err
	}
	return &shipment, nil
}

// FindActiveByOrder returns the order's non-terminal shipment
func (r *GormShipmentRepository) FindActiveByOrder(ctx context.Context, tenantID, orderID uuid.UUID) (*shipping.Shipment, error) {
	var shipment shipping.Shipment
	if err := r.preloaded(ctx).
		Where("tenant_id = ? AND order_id = ? AND status NOT IN ?",
			tenantID, orderID, []shipping.ShipmentStatus{shipping.StatusCancelled, shipping.StatusRTODelivered}).
		First(&shipment).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, shared.ErrNotFound
		}
		return nil, err
	}
	return &shipment, nil
}

// FindAll finds shipments matching the filter
func (r *GormShipmentRepository) FindAll(ctx context.Context, filter shared.Filter) ([]shipping.Shipment, error) {
	var shipments []shipping.Shipment
	query := r.applyFilter(r.preloaded(ctx).Model(&shipping.Shipment{}), filter)
	if err := query.Find(&shipments).Error; err != nil {
		return nil, err
	}
	return shipments, nil
}

// FindAllForTenant finds all shipments for a tenant with filtering
func (r *GormShipmentRepository) FindAllForTenant(ctx context.Context, tenantID uuid.UUID, filter shared.Filter) ([]shipping.Shipment, error) {
	var shipments []shipping.Shipment
	query := r.applyFilter(
		r.preloaded(ctx).Model(&shipping.Shipment{}).Where("tenant_id = ?", tenantID),
		filter,
	)
	if err := query.Find(&shipments).Error; err != nil {
		return nil, err
	}
	return shipments, nil
}

// Save creates or updates a shipment together with its children
func (r *GormShipmentRepository) Save(ctx context.Context, shipment *shipping.Shipment) error {
	return r.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		if err := tx.Omit("Items", "TrackingEvents").Save(shipment).Error; err != nil {
			return err
		}
		return r.saveChildren(tx, shipment)
	})
}

// SaveWithLock saves with optimistic locking (version check)
func (r *GormShipmentRepository) SaveWithLock(ctx context.Context, shipment *shipping.Shipment) error {
	return r.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		var count int64
		if err := tx.Model(&shipping.Shipment{}).
			Where("id = ?", shipment.ID).
			Count(&count).Error; err != nil {
			return err
		}
		if count == 0 {
			// first persist of a freshly booked shipment
			if err := tx.Omit("Items", "TrackingEvents").Create(shipment).Error; err != nil {
				return err
			}
			return r.saveChildren(tx, shipment)
		}

		currentVersion := shipment.Version
		shipment.Version++
		shipment.UpdatedAt = time.Now()

		result := tx.Model(&shipping.Shipment{}).
			Where("id = ? AND version = ?", shipment.ID, currentVersion).
			Updates(map[string]interface{}{
				"courier_name":           shipment.CourierName,
				"external_order_id":      shipment.ExternalOrderID,
				"external_shipment_id":   shipment.ExternalShipmentID,
				"awb_number":             shipment.AWBNumber,
				"label_url":              shipment.LabelURL,
				"tracking_url":           shipment.TrackingURL,
				"status":                 shipment.Status,
				"dimensions":             shipment.Dimensions,
				"shipping_cost":          shipment.ShippingCost,
				"picked_up_at":           shipment.PickedUpAt,
				"delivered_at":           shipment.DeliveredAt,
				"expected_delivery_date": shipment.ExpectedDeliveryDate,
				"version":                shipment.Version,
				"updated_at":             shipment.UpdatedAt,
			})
		if result.Error != nil {
			return result.Error
		}
		if result.RowsAffected == 0 {
			shipment.Version = currentVersion
			return shared.ErrConcurrencyConflict
		}
		return r.saveChildren(tx, shipment)
	})
}

// saveChildren upserts items and tracking events. Tracking events are
// append-only, so existing rows are never rewritten destructively.
func (r *GormShipmentRepository) saveChildren(tx *gorm.DB, shipment *shipping.Shipment) error {
	for i := range shipment.Items {
		shipment.Items[i].ShipmentID = shipment.ID
		if err := tx.Save(&shipment.Items[i]).Error; err != nil {
			return err
		}
	}
	for i := range shipment.TrackingEvents {
		shipment.TrackingEvents[i].ShipmentID = shipment.ID
		if err := tx.Save(&shipment.TrackingEvents[i]).Error; err != nil {
			return err
		}
	}
	return nil
}

// Delete soft-deletes a shipment; rows are kept for audit
func (r *GormShipmentRepository) Delete(ctx context.Context, id uuid.UUID) error {
	result := r.db.WithContext(ctx).Delete(&shipping.Shipment{}, "id = ?", id)
	if result.Error != nil {
		return result.Error
	}
	if result.RowsAffected == 0 {
		return shared.ErrNotFound
	}
	return nil
}

// Count counts shipments matching the filter
func (r *GormShipmentRepository) Count(ctx context.Context, filter shared.Filter) (int64, error) {
	var count int64
	query := r.applyFilterWithoutPagination(
		r.db.WithContext(ctx).Model(&shipping.Shipment{}),
		filter,
	)
	if err := query.Count(&count).Error; err != nil {
		return 0, err
	}
	return count, nil
}

// GenerateShipmentNumber generates a unique shipment number for a tenant
// Format: SHP-YYYY-NNNNN (e.g., SHP-2026-00001)
func (r *GormShipmentRepository) GenerateShipmentNumber(ctx context.Context, tenantID uuid.UUID) (string, error) {
	year := time.Now().Year()
	prefix := fmt.Sprintf("SHP-%d-", year)

	var last shipping.Shipment
	err := r.db.WithContext(ctx).
		Unscoped().
		Model(&shipping.Shipment{}).
		Where("tenant_id = ? AND shipment_number LIKE ?", tenantID, prefix+"%").
		Order("shipment_number DESC").
		First(&last).Error
	if err != nil && !errors.Is(err, gorm.ErrRecordNotFound) {
		return "", err
	}

	var nextNum int64 = 1
	if err == nil && last.ShipmentNumber != "" {
		parts := strings.Split(last.ShipmentNumber, "-")
		if len(parts) == 3 {
			var num int64
			if _, parseErr := fmt.Sscanf(parts[2], "%d", &num); parseErr == nil {
				nextNum = num + 1
			}
		}
	}

	return fmt.Sprintf("%s%05d", prefix, nextNum), nil
}

// applyFilter applies filter options to the query
func (r *GormShipmentRepository) applyFilter(query *gorm.DB, filter shared.Filter) *gorm.DB {
	query = r.applyFilterWithoutPagination(query, filter)

	if filter.Page > 0 && filter.PageSize > 0 {
		offset := (filter.Page - 1) * filter.PageSize
		query = query.Offset(offset).Limit(filter.PageSize)
	}

	if filter.OrderBy != "" {
		orderDir := "ASC"
		if strings.ToLower(filter.OrderDir) == "desc" {
			orderDir = "DESC"
		}
		query = query.Order(filter.OrderBy + " " + orderDir)
	} else {
		query = query.Order("created_at DESC")
	}

	return query
}

// applyFilterWithoutPagination applies filter options without pagination
func (r *GormShipmentRepository) applyFilterWithoutPagination(query *gorm.DB, filter shared.Filter) *gorm.DB {
	if filter.Search != "" {
		pattern := "%" + filter.Search + "%"
		query = query.Where("shipment_number LIKE ? OR order_number LIKE ? OR awb_number LIKE ?",
			pattern, pattern, pattern)
	}

	for key, value := range filter.Filters {
		switch key {
		case "status":
			query = query.Where("status = ?", value)
		case "statuses":
			if statuses, ok := value.([]shipping.ShipmentStatus); ok && len(statuses) > 0 {
				query = query.Where("status IN ?", statuses)
			}
		case "order_id":
			query = query.Where("order_id = ?", value)
		case "courier_type":
			query = query.Where("courier_type = ?", value)
		case "start_date":
			if t, ok := value.(time.Time); ok {
				query = query.Where("created_at >= ?", t)
			}
		case "end_date":
			if t, ok := value.(time.Time); ok {
				query = query.Where("created_at <= ?", t)
			}
		}
	}

	return query
}

// Ensure GormShipmentRepository implements shipping.Repository
var _ shipping.Repository = (*GormShipmentRepository)(nil)
