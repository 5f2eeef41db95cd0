package valueobject

import (
	"encoding/json"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestNewDimensions(t *testing.T) {
	d, err := NewDimensions(1.5, 30, 20, 10)
	require.NoError(t, err)
	assert.Equal(t, 1.5, d.WeightKg())
	assert.Equal(t, 30.0, d.LengthCm())
	assert.False(t, d.IsZero())

	_, err = NewDimensions(0, 30, 20, 10)
	assert.Error(t, err)
	_, err = NewDimensions(1, -1, 20, 10)
	assert.Error(t, err)
	_, err = NewDimensions(1, 30, 0, 10)
	assert.Error(t, err)
}

func TestDimensionsChargeableWeight(t *testing.T) {
	// volumetric: 50*40*30/5000 = 12kg > actual 2kg
	bulky, err := NewDimensions(2, 50, 40, 30)
	require.NoError(t, err)
	assert.InDelta(t, 12.0, bulky.VolumetricWeightKg(), 0.001)
	assert.InDelta(t, 12.0, bulky.ChargeableWeightKg(), 0.001)

	// volumetric: 10*10*10/5000 = 0.2kg < actual 5kg
	dense, err := NewDimensions(5, 10, 10, 10)
	require.NoError(t, err)
	assert.InDelta(t, 5.0, dense.ChargeableWeightKg(), 0.001)
}

func TestDimensionsJSONRoundTrip(t *testing.T) {
	d, err := NewDimensions(1.25, 30, 20, 10)
	require.NoError(t, err)

	data, err := json.Marshal(d)
	require.NoError(t, err)
	assert.JSONEq(t, `{"weight_kg":1.25,"length_cm":30,"width_cm":20,"height_cm":10}`, string(data))

	var decoded Dimensions
	require.NoError(t, json.Unmarshal(data, &decoded))
	assert.True(t, d.Equals(decoded))
}

func TestDimensionsSQLRoundTrip(t *testing.T) {
	d, err := NewDimensions(1.25, 30, 20, 10)
	require.NoError(t, err)

	v, err := d.Value()
	require.NoError(t, err)

	var decoded Dimensions
	require.NoError(t, decoded.Scan(v))
	assert.True(t, d.Equals(decoded))

	var zero Dimensions
	require.NoError(t, zero.Scan(nil))
	assert.True(t, zero.IsZero())
}
