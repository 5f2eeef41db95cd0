package valueobject

import (
	"database/sql/driver"
	"encoding/json"
	"errors"
	"fmt"
)

// Dimensions is a value object describing the physical package of a shipment:
// weight in kilograms and length/width/height in centimeters. Couriers use
// the greater of actual and volumetric weight for rating.
type Dimensions struct {
	weightKg float64
	lengthCm float64
	widthCm  float64
	heightCm float64
}

// NewDimensions creates Dimensions with all values validated as positive
func NewDimensions(weightKg, lengthCm, widthCm, heightCm float64) (Dimensions, error) {
	if weightKg <= 0 {
		return Dimensions{}, errors.New("weight must be positive")
	}
	if lengthCm <= 0 || widthCm <= 0 || heightCm <= 0 {
		return Dimensions{}, errors.New("dimensions must be positive")
	}
	return Dimensions{
		weightKg: weightKg,
		lengthCm: lengthCm,
		widthCm:  widthCm,
		heightCm: heightCm,
	}, nil
}

// WeightKg returns the actual weight in kilograms
func (d Dimensions) WeightKg() float64 { return d.weightKg }

// LengthCm returns the length in centimeters
func (d Dimensions) LengthCm() float64 { return d.lengthCm }

// WidthCm returns the width in centimeters
func (d Dimensions) WidthCm() float64 { return d.widthCm }

// HeightCm returns the height in centimeters
func (d Dimensions) HeightCm() float64 { return d.heightCm }

// IsZero returns true if no dimensions were set
func (d Dimensions) IsZero() bool {
	return d == Dimensions{}
}

// VolumetricWeightKg returns the volumetric weight using the common courier
// divisor of 5000 (cm^3 per kg).
func (d Dimensions) VolumetricWeightKg() float64 {
	return d.lengthCm * d.widthCm * d.heightCm / 5000
}

// ChargeableWeightKg returns the greater of actual and volumetric weight
func (d Dimensions) ChargeableWeightKg() float64 {
	if v := d.VolumetricWeightKg(); v > d.weightKg {
		return v
	}
	return d.weightKg
}

// Equals returns true if both dimensions are identical
func (d Dimensions) Equals(other Dimensions) bool {
	return d == other
}

// String returns a human-readable representation
func (d Dimensions) String() string {
	return fmt.Sprintf("%.2fkg %gx%gx%gcm", d.weightKg, d.lengthCm, d.widthCm, d.heightCm)
}

// dimensionsJSON is the serialization shape for Dimensions
type dimensionsJSON struct {
	WeightKg float64 `json:"weight_kg"`
	LengthCm float64 `json:"length_cm"`
	WidthCm  float64 `json:"width_cm"`
	HeightCm float64 `json:"height_cm"`
}

// MarshalJSON implements json.Marshaler
func (d Dimensions) MarshalJSON() ([]byte, error) {
	return json.Marshal(dimensionsJSON{
		WeightKg: d.weightKg,
		LengthCm: d.lengthCm,
		WidthCm:  d.widthCm,
		HeightCm: d.heightCm,
	})
}

// UnmarshalJSON implements json.Unmarshaler
func (d *Dimensions) UnmarshalJSON(data []byte) error {
	var v dimensionsJSON
	if err := json.Unmarshal(data, &v); err != nil {
		return err
	}
	d.weightKg = v.WeightKg
	d.lengthCm = v.LengthCm
	d.widthCm = v.WidthCm
	d.heightCm = v.HeightCm
	return nil
}

// Value implements driver.Valuer, storing dimensions as a JSON document
func (d Dimensions) Value() (driver.Value, error) {
	if d.IsZero() {
		return nil, nil
	}
	return json.Marshal(d)
}

// Scan implements sql.Scanner
func (d *Dimensions) Scan(value any) error {
	if value == nil {
		*d = Dimensions{}
		return nil
	}

	var data []byte
	switch v := value.(type) {
	case []byte:
		data = v
	case string:
		data = []byte(v)
	default:
		return fmt.Errorf("cannot scan %T into Dimensions", value)
	}
	if len(data) == 0 {
		*d = Dimensions{}
		return nil
	}
	return json.Unmarshal(data, d)
}
