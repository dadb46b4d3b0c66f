package ewaste

import (
	"github.com/shopspring/decimal"
)

// ImpactFactors are the per-item conversion constants and the divisors used
// for the everyday equivalences.
type ImpactFactors struct {
	WaterLitersPerItem decimal.Decimal
	EnergyKWhPerItem   decimal.Decimal
	CO2KgPerItem       decimal.Decimal
	LandfillM3PerItem  decimal.Decimal

	LitersPerShower  decimal.Decimal
	KWhPerHomeDay    decimal.Decimal
	CO2KgPerDriveDay decimal.Decimal
}

// DefaultImpactFactors returns the fixed estimates shown on the statistics page.
func DefaultImpactFactors() ImpactFactors {
	return ImpactFactors{
		WaterLitersPerItem: decimal.RequireFromString("2.5"),
		EnergyKWhPerItem:   decimal.NewFromInt(35),
		CO2KgPerItem:       decimal.RequireFromString("1.2"),
		LandfillM3PerItem:  decimal.RequireFromString("0.1"),

		LitersPerShower:  decimal.NewFromInt(150),
		KWhPerHomeDay:    decimal.NewFromInt(30),
		CO2KgPerDriveDay: decimal.RequireFromString("2.3"),
	}
}

// ImpactMetrics are the estimated savings if every detected item were recycled.
type ImpactMetrics struct {
	Items              int     `json:"items"`
	WaterLiters        float64 `json:"waterLiters"`
	EnergyKWh          float64 `json:"energyKWh"`
	CO2Kg              float64 `json:"co2Kg"`
	LandfillM3         float64 `json:"landfillM3"`
	ShowersEquivalent  float64 `json:"showersEquivalent"`
	HomeDaysEquivalent float64 `json:"homeDaysEquivalent"`
	DrivingDaysAvoided float64 `json:"drivingDaysAvoided"`

	water, energy, co2, landfill   decimal.Decimal
	showers, homeDays, drivingDays decimal.Decimal
}

// Estimator computes ImpactMetrics from a detection count.
type Estimator struct {
	factors ImpactFactors
}

// NewEstimator returns an estimator using f.
func NewEstimator(f ImpactFactors) *Estimator {
	return &Estimator{factors: f}
}

// Estimate multiplies the per-item factors by totalDetections. Negative totals
// count as zero.
func (e *Estimator) Estimate(totalDetections int) ImpactMetrics {
	if totalDetections < 0 {
		totalDetections = 0
	}
	n := decimal.NewFromInt(int64(totalDetections))

	m := ImpactMetrics{Items: totalDetections}
	m.water = e.factors.WaterLitersPerItem.Mul(n)
	m.energy = e.factors.EnergyKWhPerItem.Mul(n)
	m.co2 = e.factors.CO2KgPerItem.Mul(n)
	m.landfill = e.factors.LandfillM3PerItem.Mul(n)

	m.showers = ratio(m.water, e.factors.LitersPerShower)
	m.homeDays = ratio(m.energy, e.factors.KWhPerHomeDay)
	m.drivingDays = ratio(m.co2, e.factors.CO2KgPerDriveDay)

	m.WaterLiters = m.water.InexactFloat64()
	m.EnergyKWh = m.energy.InexactFloat64()
	m.CO2Kg = m.co2.InexactFloat64()
	m.LandfillM3 = m.landfill.InexactFloat64()
	m.ShowersEquivalent = m.showers.InexactFloat64()
	m.HomeDaysEquivalent = m.homeDays.InexactFloat64()
	m.DrivingDaysAvoided = m.drivingDays.InexactFloat64()
	return m
}

func ratio(v, per decimal.Decimal) decimal.Decimal {
	if per.IsZero() {
		return decimal.Zero
	}
	return v.Div(per)
}

// ImpactLine is one card of the impact section.
type ImpactLine struct {
	Title   string `json:"title"`
	Value   string `json:"value"`
	Caption string `json:"caption"`
}

// Lines formats the metrics the way the statistics page prints them.
func (m ImpactMetrics) Lines() []ImpactLine {
	return []ImpactLine{
		{
			Title:   "Water Saved",
			Value:   m.water.StringFixed(1) + "L",
			Caption: "Equivalent to " + m.showers.StringFixed(1) + " showers",
		},
		{
			Title:   "Energy Saved",
			Value:   m.energy.StringFixed(1) + " kWh",
			Caption: "Could power a home for " + m.homeDays.StringFixed(1) + " days",
		},
		{
			Title:   "CO₂ Emissions Reduced",
			Value:   m.co2.StringFixed(1) + " kg",
			Caption: "Equivalent to " + m.drivingDays.StringFixed(1) + " days not driving",
		},
		{
			Title:   "Landfill Space Saved",
			Value:   m.landfill.StringFixed(2) + " m³",
			Caption: "Room for nature to flourish",
		},
	}
}
