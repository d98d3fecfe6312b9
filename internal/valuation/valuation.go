// Package valuation combines a current price, a derived position, and the
// symbol's alert record into P&L and alert-triggered state.
package valuation

import "pulse/internal/model"

// Valuation is the result of valuing one position at the current price.
type Valuation struct {
	CurrentValue float64
	CostBasis    float64
	PnL          float64
	PnLPct       float64
	Alerts       map[string]float64
	Triggered    bool
}

// Evaluate values pos at price and checks the alert bounds. A nil alert, or
// one with both sides disabled, yields an empty alert map and Triggered
// false. P&L is 0 for empty positions and PnLPct is 0 whenever the cost
// basis is zero or negative — never a division by zero.
func Evaluate(price float64, pos model.Position, alert *model.Alert) Valuation {
	v := Valuation{
		CurrentValue: model.Round(pos.Quantity*price, 2),
		CostBasis:    pos.Quantity * pos.AvgPrice,
		Alerts:       map[string]float64{},
	}

	if pos.Quantity > 0 {
		v.PnL = model.Round(pos.Quantity*price-v.CostBasis, 2)
	}
	if v.CostBasis > 0 {
		v.PnLPct = model.Round(v.PnL/v.CostBasis*100, 2)
	}

	if alert != nil {
		if alert.High != 0 {
			v.Alerts["high"] = alert.High
			if price >= alert.High {
				v.Triggered = true
			}
		}
		if alert.Low != 0 {
			v.Alerts["low"] = alert.Low
			if price <= alert.Low {
				v.Triggered = true
			}
		}
	}
	return v
}
