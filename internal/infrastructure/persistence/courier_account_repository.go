package persistence

import (
	"context"
	"errors"
	"strings"
	"time"

	"github.com/google/uuid"
	"gorm.io/gorm"

	"github.com/commerceos/backend/internal/domain/courier"
	"github.com/commerceos/backend/internal/domain/shared"
)

// GormCourierAccountRepository implements courier.AccountRepository using GORM
type GormCourierAccountRepository struct {
	db *gorm.DB
}

// NewGormCourierAccountRepository creates a new GormCourierAccountRepository
func NewGormCourierAccountRepository(db *gorm.DB) *GormCourierAccountRepository {
	return &GormCourierAccountRepository{db: db}
}

// FindByID finds a courier account by its ID
func (r *GormCourierAccountRepository) FindByID(ctx context.Context, id uuid.UUID) (*courier.Account, error) {
	var account courier.Account
	if err := r.db.WithContext(ctx).First(&account, "id = ?", id).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, shared.ErrNotFound
		}
		return nil, err
	}
	return &account, nil
}

// FindByIDForTenant finds a courier account by ID within a tenant
func (r *GormCourierAccountRepository) FindByIDForTenant(ctx context.Context, tenantID, id uuid.UUID) (*courier.Account, error) {
	var account courier.Account
	if err := r.db.WithContext(ctx).
		Where("tenant_id = ? AND id = ?", tenantID, id).
		First(&account).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, shared.ErrNotFound
		}
		return nil, err
	}
	return &account, nil
}

// FindActiveByType finds the tenant's active account for a courier type
func (r *GormCourierAccountRepository) FindActiveByType(ctx context.Context, tenantID uuid.UUID, courierType courier.CourierType) (*courier.Account, error) {
	var account courier.Account
	if err := r.db.WithContext(ctx).
		Where("tenant_id = ? AND courier_type = ? AND is_active = ?", tenantID, courierType, true).
		First(&account).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, shared.ErrNotFound
		}
		return nil, err
	}
	return &account, nil
}

// FindAll finds courier accounts matching the filter
func (r *GormCourierAccountRepository) FindAll(ctx context.Context, filter shared.Filter) ([]courier.Account, error) {
	var accounts []courier.Account
	query := r.applyFilter(r.db.WithContext(ctx).Model(&courier.Account{}), filter)
	if err := query.Find(&accounts).Error; err != nil {
		return nil, err
	}
	return accounts, nil
}

// FindAllForTenant finds all courier accounts for a tenant
func (r *GormCourierAccountRepository) FindAllForTenant(ctx context.Context, tenantID uuid.UUID, filter shared.Filter) ([]courier.Account, error) {
	var accounts []courier.Account
	query := r.applyFilter(
		r.db.WithContext(ctx).Model(&courier.Account{}).Where("tenant_id = ?", tenantID),
		filter,
	)
	if err := query.Find(&accounts).Error; err != nil {
		return nil, err
	}
	return accounts, nil
}

// Save creates or updates a courier account
func (r *GormCourierAccountRepository) Save(ctx context.Context, account *courier.Account) error {
	return r.db.WithContext(ctx).Save(account).Error
}

// SaveWithLock saves with optimistic locking (version check)
func (r *GormCourierAccountRepository) SaveWithLock(ctx context.Context, account *courier.Account) error {
	currentVersion := account.Version
	account.Version++
	account.UpdatedAt = time.Now()

	result := r.db.WithContext(ctx).Model(&courier.Account{}).
		Where("id = ? AND version = ?", account.ID, currentVersion).
		Updates(map[string]interface{}{
			"display_name":     account.DisplayName,
			"is_active":        account.IsActive,
			"is_connected":     account.IsConnected,
			"credentials_json": account.CredentialsJSON,
			"settings_json":    account.SettingsJSON,
			"last_checked_at":  account.LastCheckedAt,
			"version":          account.Version,
			"updated_at":       account.UpdatedAt,
		})
	if result.Error != nil {
		return result.Error
	}
	if result.RowsAffected == 0 {
		account.Version = currentVersion
		return shared.ErrConcurrencyConflict
	}
	return nil
}

// Delete deletes a courier account
func (r *GormCourierAccountRepository) Delete(ctx context.Context, id uuid.UUID) error {
	result := r.db.WithContext(ctx).Delete(&courier.Account{}, "id = ?", id)
	if result.Error != nil {
		return result.Error
	}
	if result.RowsAffected == 0 {
		return shared.ErrNotFound
	}
	return nil
}

// Count counts courier accounts matching the filter
func (r *GormCourierAccountRepository) Count(ctx context.Context, filter shared.Filter) (int64, error) {
	var count int64
	query := r.applyFilterWithoutPagination(r.db.WithContext(ctx).Model(&courier.Account{}), filter)
	if err := query.Count(&count).Error; err != nil {
		return 0, err
	}
	return count, nil
}

// applyFilter applies filter options to the query
func (r *GormCourierAccountRepository) applyFilter(query *gorm.DB, filter shared.Filter) *gorm.DB {
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
func (r *GormCourierAccountRepository) applyFilterWithoutPagination(query *gorm.DB, filter shared.Filter) *gorm.DB {
	if filter.Search != "" {
		pattern := "%" + filter.Search + "%"
		query = query.Where("display_name LIKE ?", pattern)
	}

	for key, value := range filter.Filters {
		switch key {
		case "courier_type":
			query = query.Where("courier_type = ?", value)
		case "is_active":
			query = query.Where("is_active = ?", value)
		case "is_connected":
			query = query.Where("is_connected = ?", value)
		}
	}

	return query
}

// Ensure GormCourierAccountRepository implements courier.AccountRepository
var _ courier.AccountRepository = (*GormCourierAccountRepository)(nil)
