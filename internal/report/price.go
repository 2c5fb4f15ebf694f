package report

import (
	"github.com/shopspring/decimal"

	"github.com/verte-zerg/racereport/internal/model"
)

// ResolvePrice returns the voucher final price when one is attached, else the
// category ticket type price, else zero.
func ResolvePrice(r model.Registration) decimal.Decimal {
	if r.VoucherFinalPrice.Valid {
		return r.VoucherFinalPrice.Decimal
	}
	if r.Price.Valid {
		return r.Price.Decimal
	}
	return decimal.Zero
}

func sumPrices(regs []model.Registration) decimal.Decimal {
	total := decimal.Zero
	for _, r := range regs {
		total = total.Add(ResolvePrice(r))
	}
	return total
}

func money(d decimal.Decimal) float64 {
	return d.InexactFloat64()
}
