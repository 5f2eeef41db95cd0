package courier

import (
	"encoding/json"
	"time"

	"github.com/google/uuid"

	"github.com/commerceos/backend/internal/domain/shared"
)

// Account holds a tenant's credentials and settings for one courier.
// The shipping core reads accounts; only the connectivity test mutates them.
type Account struct {
	shared.TenantAggregateRoot
	CourierType     CourierType `gorm:"size:30;not null;index" json:"courier_type"`
	DisplayName     string      `gorm:"size:100" json:"display_name"`
	IsActive        bool        `gorm:"not null;default:true" json:"is_active"`
	IsConnected     bool        `gorm:"not null;default:false" json:"is_connected"`
	CredentialsJSON string      `gorm:"type:text" json:"-"`
	SettingsJSON    string      `gorm:"type:text" json:"-"`
	LastCheckedAt   *time.Time  `json:"last_checked_at,omitempty"`
}

// TableName specifies the database table name
func (Account) TableName() string {
	return "courier_accounts"
}

// AccountSettings are tenant-level courier options stored on the account
type AccountSettings struct {
	PickupLocation string        `json:"pickup_location,omitempty"`
	ServiceCode    string        `json:"service_code,omitempty"`
	DefaultPickup  *ContactPoint `json:"default_pickup,omitempty"`
}

// NewAccount creates a new courier account
func NewAccount(tenantID uuid.UUID, courierType CourierType, displayName string, creds Credentials) (*Account, error) {
	if !courierType.IsValid() {
		return nil, shared.NewDomainError("INVALID_INPUT", "unsupported courier type: "+string(courierType))
	}
	credsJSON, err := json.Marshal(creds)
	if err != nil {
		return nil, err
	}
	return &Account{
		TenantAggregateRoot: shared.NewTenantAggregateRoot(tenantID),
		CourierType:         courierType,
		DisplayName:         displayName,
		IsActive:            true,
		CredentialsJSON:     string(credsJSON),
	}, nil
}

// Credentials decodes the stored credentials
func (a *Account) Credentials() (Credentials, error) {
	var creds Credentials
	if a.CredentialsJSON == "" {
		return creds, nil
	}
	if err := json.Unmarshal([]byte(a.CredentialsJSON), &creds); err != nil {
		return Credentials{}, shared.NewDomainError("INVALID_STATE", "courier account credentials are corrupt")
	}
	return creds, nil
}

// Settings decodes the stored account settings
func (a *Account) Settings() (AccountSettings, error) {
	var settings AccountSettings
	if a.SettingsJSON == "" {
		return settings, nil
	}
	if err := json.Unmarshal([]byte(a.SettingsJSON), &settings); err != nil {
		return AccountSettings{}, shared.NewDomainError("INVALID_STATE", "courier account settings are corrupt")
	}
	return settings, nil
}

// IsUsable returns true when the account can be used for booking
func (a *Account) IsUsable() bool {
	return a.IsActive && a.IsConnected
}

// MarkConnectionResult records the outcome of a connectivity test
func (a *Account) MarkConnectionResult(connected bool) {
	a.IsConnected = connected
	now := time.Now()
	a.LastCheckedAt = &now
	a.MarkUpdated()
}
