package courier

import (
	"fmt"

	"github.com/shopspring/decimal"

	"github.com/commerceos/backend/internal/domain/courier"
)

// ProviderRegistry is a static map-based courier.Registry. Providers are
// registered once at startup; lookups are read-only afterwards.
type ProviderRegistry struct {
	providers map[courier.CourierType]courier.Provider
}

// NewProviderRegistry creates a registry holding the given providers
func NewProviderRegistry(providers ...courier.Provider) *ProviderRegistry {
	m := make(map[courier.CourierType]courier.Provider, len(providers))
	for _, p := range providers {
		m[p.Type()] = p
	}
	return &ProviderRegistry{providers: m}
}

// Get returns the provider for a courier type
func (r *ProviderRegistry) Get(courierType courier.CourierType) (courier.Provider, error) {
	p, ok := r.providers[courierType]
	if !ok {
		return nil, fmt.Errorf("%w: %s", courier.ErrProviderNotRegistered, courierType)
	}
	return p, nil
}

// Types returns the registered courier types
func (r *ProviderRegistry) Types() []courier.CourierType {
	types := make([]courier.CourierType, 0, len(r.providers))
	for t := range r.providers {
		types = append(types, t)
	}
	return types
}

// Ensure ProviderRegistry implements courier.Registry
var _ courier.Registry = (*ProviderRegistry)(nil)

func decimalFromFloat(v float64) decimal.Decimal {
	return decimal.NewFromFloat(v)
}

func truncate(body []byte, max int) string {
	if len(body) > max {
		return string(body[:max]) + "..."
	}
	return string(body)
}

// estimateDelhiveryFreight approximates surface freight from chargeable
// weight. Delhivery's pincode API carries no rates, so quotes use the
// published slab pricing as an estimate.
func estimateDelhiveryFreight(weightKg float64) decimal.Decimal {
	const baseCharge = 35.0
	const perHalfKg = 30.0

	if weightKg <= 0.5 {
		return decimal.NewFromFloat(baseCharge)
	}
	slabs := int((weightKg-0.001)/0.5) + 1
	return decimal.NewFromFloat(baseCharge + float64(slabs-1)*perHalfKg)
}
