// Package chart derives the ownership pies and value comparison bars shown
// next to a dilution result.
package chart

import (
	"math"

	"github.com/mmynk/dilutionwise/internal/calculator"
)

// Slice colours used by every renderer (web, PDF, terminal).
const (
	ColorHolder   = "#245e4f" // dark green
	ColorOthers   = "#7ac9a7" // mint green
	ColorInvestor = "#e9c46a" // gold
)

// Slice is one wedge of an ownership pie, in percent.
type Slice struct {
	Name  string
	Value float64
	Color string
}

// Bar is one before/after row of the comparison chart.
type Bar struct {
	Name             string
	EquityPercentage float64
	YourValue        float64
	CompanyValue     float64
}

// Data holds everything a chart renderer needs.
type Data struct {
	Before     []Slice
	After      []Slice
	Comparison []Bar
}

// FromResult builds chart series from a dilution result.
// The slices of each pie sum to 100.
func FromResult(r calculator.DilutionResult) Data {
	investor := r.InvestorPercentage()
	others := math.Max(0, 100-r.NewEquityPercentage-investor)

	return Data{
		Before: []Slice{
			{Name: "Your Equity", Value: r.EquityPercentage, Color: ColorHolder},
			{Name: "Other Shareholders", Value: 100 - r.EquityPercentage, Color: ColorOthers},
		},
		After: []Slice{
			{Name: "Your Equity", Value: r.NewEquityPercentage, Color: ColorHolder},
			{Name: "Other Existing Shareholders", Value: others, Color: ColorOthers},
			{Name: "New Investor", Value: investor, Color: ColorInvestor},
		},
		Comparison: []Bar{
			{
				Name:             "Before Investment",
				EquityPercentage: r.EquityPercentage,
				YourValue:        r.EquityValueBeforeDilution,
				CompanyValue:     r.CompanyValuation,
			},
			{
				Name:             "After Investment",
				EquityPercentage: r.NewEquityPercentage,
				YourValue:        r.EquityValueAfterDilution,
				CompanyValue:     r.PostMoneyValuation,
			},
		},
	}
}

// Total sums the slice values of a pie.
func Total(slices []Slice) float64 {
	var sum float64
	for _, s := range slices {
		sum += s.Value
	}
	return sum
}
