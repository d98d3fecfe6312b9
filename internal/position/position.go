// Package position derives the current holding for a symbol from its
// transaction ledger.
package position

import "pulse/internal/model"

// Compute folds a symbol's full ledger into a Position. The computation is
// commutative, so ledger order is irrelevant.
//
// Net quantity is Σbuy − Σsell, rounded to 4 decimal places. A fully or
// over-sold ledger has no meaningful cost basis and returns {0, 0}.
// Otherwise the average price is the net cost (buy cash in minus sell cash
// out) divided by the net quantity, rounded to 2 decimal places. This is a
// simplified net-cost model, not lot tracking: heavy selling can drive the
// average price negative, which is accepted behavior.
func Compute(txs []model.Transaction) model.Position {
	var bought, sold, netCost float64
	for _, tx := range txs {
		switch tx.Type {
		case model.TradeBuy:
			bought += tx.Quantity
			netCost += tx.Quantity * tx.Price
		case model.TradeSell:
			sold += tx.Quantity
			netCost -= tx.Quantity * tx.Price
		}
	}

	quantity := model.Round(bought-sold, 4)
	if quantity <= 0 {
		return model.Position{}
	}
	return model.Position{
		Quantity: quantity,
		AvgPrice: model.Round(netCost/quantity, 2),
	}
}
