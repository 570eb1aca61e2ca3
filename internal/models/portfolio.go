package models

import "time"

// Portfolio is a named collection of holdings. IDs are opaque strings
// issued by the backend and are never interpreted numerically.
type Portfolio struct {
	ID            string    `json:"id"`
	Name          string    `json:"name"`
	Description   string    `json:"description,omitempty"`
	CreatedAt     time.Time `json:"created_at"`
	HoldingsCount int       `json:"holdings_count"`
}

// Holding is one position inside a portfolio. Quote is joined at view
// time and never persisted.
type Holding struct {
	ID            string  `json:"id"`
	Symbol        string  `json:"symbol"`
	Quantity      float64 `json:"quantity"`
	PurchasePrice float64 `json:"purchase_price"`

	Quote *Quote `json:"-"`
}

// CurrentPrice returns the live quote price, falling back to the
// purchase price when no quote resolved so valuation math stays defined.
func (h *Holding) CurrentPrice() float64 {
	if h.Quote != nil && h.Quote.Price > 0 {
		return h.Quote.Price
	}
	return h.PurchasePrice
}

// CostBasis returns quantity times purchase price.
func (h *Holding) CostBasis() float64 {
	return h.PurchasePrice * h.Quantity
}

// MarketValue returns quantity times current price.
func (h *Holding) MarketValue() float64 {
	return h.CurrentPrice() * h.Quantity
}

// GainLoss returns the absolute gain or loss for this holding.
func (h *Holding) GainLoss() float64 {
	return h.MarketValue() - h.CostBasis()
}

// GainLossPercent returns the gain or loss as a percentage of cost basis.
func (h *Holding) GainLossPercent() float64 {
	cost := h.CostBasis()
	if cost <= 0 {
		return 0
	}
	return h.GainLoss() / cost * 100
}

// PortfolioDetail is a portfolio with its holdings loaded and quotes joined.
type PortfolioDetail struct {
	Portfolio
	Holdings []Holding
}

// TotalInvestment sums the cost basis across holdings.
func (p *PortfolioDetail) TotalInvestment() float64 {
	var total float64
	for i := range p.Holdings {
		total += p.Holdings[i].CostBasis()
	}
	return total
}

// CurrentValue sums the market value across holdings.
func (p *PortfolioDetail) CurrentValue() float64 {
	var total float64
	for i := range p.Holdings {
		total += p.Holdings[i].MarketValue()
	}
	return total
}

// TotalGainLoss returns current value minus total investment.
func (p *PortfolioDetail) TotalGainLoss() float64 {
	return p.CurrentValue() - p.TotalInvestment()
}

// TotalGainLossPercent returns the total gain or loss relative to investment.
func (p *PortfolioDetail) TotalGainLossPercent() float64 {
	inv := p.TotalInvestment()
	if inv <= 0 {
		return 0
	}
	return p.TotalGainLoss() / inv * 100
}
