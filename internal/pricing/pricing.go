// Package pricing derives selling prices from source costs.
package pricing

import "github.com/shopspring/decimal"

var hundred = decimal.NewFromInt(100)

// SellingPrice returns ceil(sourceCost * (1 + markupPercent/100)).
// Rounding always goes up to the next whole currency unit. A non-positive
// source cost yields 0.
func SellingPrice(sourceCost, markupPercent float64) float64 {
	if sourceCost <= 0 {
		return 0
	}
	factor := decimal.NewFromInt(1).Add(decimal.NewFromFloat(markupPercent).Div(hundred))
	price := decimal.NewFromFloat(sourceCost).Mul(factor).Ceil()
	if price.IsNegative() {
		return 0
	}
	return price.InexactFloat64()
}

// Quote is the result of the pitch and inventory price calculators.
type Quote struct {
	SourceCost    float64 `json:"source_cost"`
	MarkupPercent float64 `json:"markup_percent"`
	SellingPrice  float64 `json:"selling_price"`
	Profit        float64 `json:"profit"`
}

// NewQuote prices sourceCost at markupPercent.
func NewQuote(sourceCost, markupPercent float64) Quote {
	price := SellingPrice(sourceCost, markupPercent)
	profit := decimal.NewFromFloat(price).Sub(decimal.NewFromFloat(sourceCost))
	return Quote{
		SourceCost:    sourceCost,
		MarkupPercent: markupPercent,
		SellingPrice:  price,
		Profit:        profit.InexactFloat64(),
	}
}
