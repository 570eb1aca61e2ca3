package models

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestHolding_ValuationWithQuote(t *testing.T) {
	h := Holding{
		ID:            "h1",
		Symbol:        "RELIANCE",
		Quantity:      10,
		PurchasePrice: 2400,
		Quote:         &Quote{Symbol: "RELIANCE", Price: 2500},
	}

	assert.Equal(t, 2500.0, h.CurrentPrice())
	assert.Equal(t, 24000.0, h.CostBasis())
	assert.Equal(t, 25000.0, h.MarketValue())
	assert.Equal(t, 1000.0, h.GainLoss())
	assert.InDelta(t, 4.1666, h.GainLossPercent(), 0.001)
}

func TestHolding_ValuationFallsBackToPurchasePrice(t *testing.T) {
	// A holding whose quote failed to resolve values at purchase price,
	// so gain/loss arithmetic never runs through undefined values.
	h := Holding{Symbol: "TCS", Quantity: 5, PurchasePrice: 3500}

	assert.Equal(t, 3500.0, h.CurrentPrice())
	assert.Equal(t, 0.0, h.GainLoss())
	assert.Equal(t, 0.0, h.GainLossPercent())

	// Same when the quote resolved but carries no price.
	h.Quote = &Quote{Symbol: "TCS"}
	assert.Equal(t, 3500.0, h.CurrentPrice())
	assert.Equal(t, 0.0, h.GainLoss())
}

func TestPortfolioDetail_Totals(t *testing.T) {
	d := PortfolioDetail{
		Portfolio: Portfolio{ID: "p1", Name: "Core"},
		Holdings: []Holding{
			{Symbol: "INFY", Quantity: 10, PurchasePrice: 1000, Quote: &Quote{Price: 1100}},
			{Symbol: "TCS", Quantity: 2, PurchasePrice: 3000},
		},
	}

	assert.Equal(t, 16000.0, d.TotalInvestment())
	assert.Equal(t, 17000.0, d.CurrentValue())
	assert.Equal(t, 1000.0, d.TotalGainLoss())
	assert.InDelta(t, 6.25, d.TotalGainLossPercent(), 0.0001)
}

func TestPortfolioDetail_EmptyTotals(t *testing.T) {
	d := PortfolioDetail{}
	assert.Equal(t, 0.0, d.TotalGainLoss())
	assert.Equal(t, 0.0, d.TotalGainLossPercent())
}
