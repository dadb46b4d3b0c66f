package ewaste

import (
	"testing"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
)

func TestEstimate_Zero(t *testing.T) {
	m := NewEstimator(DefaultImpactFactors()).Estimate(0)

	values := map[string]float64{
		"water":    m.WaterLiters,
		"energy":   m.EnergyKWh,
		"co2":      m.CO2Kg,
		"landfill": m.LandfillM3,
		"showers":  m.ShowersEquivalent,
		"homeDays": m.HomeDaysEquivalent,
		"driving":  m.DrivingDaysAvoided,
	}
	for name, v := range values {
		if v != 0 {
			t.Errorf("Expected %s to be 0, got %f", name, v)
		}
	}
}

func TestEstimate_Ten(t *testing.T) {
	m := NewEstimator(DefaultImpactFactors()).Estimate(10)

	if m.WaterLiters != 25.0 {
		t.Errorf("Expected water 25.0, got %v", m.WaterLiters)
	}
	if m.EnergyKWh != 350.0 {
		t.Errorf("Expected energy 350.0, got %v", m.EnergyKWh)
	}
	if m.CO2Kg != 12.0 {
		t.Errorf("Expected co2 12.0, got %v", m.CO2Kg)
	}
	if m.LandfillM3 != 1.0 {
		t.Errorf("Expected landfill 1.0, got %v", m.LandfillM3)
	}

	assert.InDelta(t, 25.0/150, m.ShowersEquivalent, 1e-9)
	assert.InDelta(t, 350.0/30, m.HomeDaysEquivalent, 1e-9)
	assert.InDelta(t, 12.0/2.3, m.DrivingDaysAvoided, 1e-9)
}

func TestEstimate_ExactDecimalArithmetic(t *testing.T) {
	m := NewEstimator(DefaultImpactFactors()).Estimate(3)

	// 0.1 * 3 in binary floating point is 0.30000000000000004.
	if m.LandfillM3 != 0.3 {
		t.Errorf("Expected landfill 0.3, got %v", m.LandfillM3)
	}
	if m.CO2Kg != 3.6 {
		t.Errorf("Expected co2 3.6, got %v", m.CO2Kg)
	}
}

func TestEstimate_NegativeCountsAsZero(t *testing.T) {
	m := NewEstimator(DefaultImpactFactors()).Estimate(-4)

	assert.Equal(t, 0, m.Items)
	assert.Zero(t, m.WaterLiters)
	assert.Zero(t, m.DrivingDaysAvoided)
}

func TestEstimate_ZeroDivisorIsGuarded(t *testing.T) {
	f := DefaultImpactFactors()
	f.LitersPerShower = decimal.Zero

	m := NewEstimator(f).Estimate(10)
	assert.Zero(t, m.ShowersEquivalent)
	assert.Equal(t, 25.0, m.WaterLiters)
}

func TestImpactLines(t *testing.T) {
	lines := NewEstimator(DefaultImpactFactors()).Estimate(10).Lines()

	expected := []ImpactLine{
		{Title: "Water Saved", Value: "25.0L", Caption: "Equivalent to 0.2 showers"},
		{Title: "Energy Saved", Value: "350.0 kWh", Caption: "Could power a home for 11.7 days"},
		{Title: "CO₂ Emissions Reduced", Value: "12.0 kg", Caption: "Equivalent to 5.2 days not driving"},
		{Title: "Landfill Space Saved", Value: "1.00 m³", Caption: "Room for nature to flourish"},
	}
	assert.Equal(t, expected, lines)
}

func TestImpactLines_ZeroValue(t *testing.T) {
	lines := ImpactMetrics{}.Lines()

	assert.Equal(t, "0.0L", lines[0].Value)
	assert.Equal(t, "Equivalent to 0.0 showers", lines[0].Caption)
	assert.Equal(t, "0.00 m³", lines[3].Value)
}
