package chart

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/mmynk/dilutionwise/internal/calculator"
)

func defaultResult(t *testing.T) calculator.DilutionResult {
	t.Helper()
	r, err := calculator.Calculate(calculator.Input{
		InitialShares:    1_000_000,
		YourShares:       50_000,
		CompanyValuation: 100_000_000,
		InvestmentAmount: 50_000_000,
	})
	require.NoError(t, err)
	return r
}

func TestFromResult_Pies(t *testing.T) {
	data := FromResult(defaultResult(t))

	require.Len(t, data.Before, 2)
	assert.InDelta(t, 5.0, data.Before[0].Value, 1e-9)
	assert.InDelta(t, 95.0, data.Before[1].Value, 1e-9)
	assert.InDelta(t, 100.0, Total(data.Before), 1e-9)

	require.Len(t, data.After, 3)
	assert.Equal(t, "Your Equity", data.After[0].Name)
	assert.InDelta(t, 10.0/3.0, data.After[0].Value, 1e-9)
	assert.Equal(t, "New Investor", data.After[2].Name)
	assert.InDelta(t, 100.0/3.0, data.After[2].Value, 1e-9)
	// 950,000 of 1,500,000 shares stay with the other existing holders
	assert.InDelta(t, 95.0*2.0/3.0, data.After[1].Value, 1e-9)
	assert.InDelta(t, 100.0, Total(data.After), 1e-9)

	assert.Equal(t, ColorHolder, data.After[0].Color)
	assert.Equal(t, ColorInvestor, data.After[2].Color)
}

func TestFromResult_Comparison(t *testing.T) {
	r := defaultResult(t)
	data := FromResult(r)

	require.Len(t, data.Comparison, 2)
	before, after := data.Comparison[0], data.Comparison[1]
	assert.Equal(t, "Before Investment", before.Name)
	assert.Equal(t, r.CompanyValuation, before.CompanyValue)
	assert.Equal(t, r.EquityValueBeforeDilution, before.YourValue)
	assert.Equal(t, "After Investment", after.Name)
	assert.Equal(t, r.PostMoneyValuation, after.CompanyValue)
	assert.Equal(t, r.NewEquityPercentage, after.EquityPercentage)
}

func TestFromResult_SoleHolderHasNoOthers(t *testing.T) {
	r, err := calculator.Calculate(calculator.Input{
		InitialShares:    10,
		YourShares:       10,
		CompanyValuation: 100,
		InvestmentAmount: 100,
	})
	require.NoError(t, err)

	data := FromResult(r)
	assert.InDelta(t, 0.0, data.Before[1].Value, 1e-9)
	assert.GreaterOrEqual(t, data.After[1].Value, 0.0)
	assert.InDelta(t, 0.0, data.After[1].Value, 1e-9)
}
