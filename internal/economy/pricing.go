// Price engine. Each shop recomputes an item's unit price from the
// transactions accumulated since the last update and its current stock.
package economy

import (
	"math"

	"github.com/talgya/mini-market/internal/config"
)

// UpdatePrice applies the adjustment formula to old. More units sold to the
// shop than bought from it pushes the price up; scarce stock adds a premium
// and a glut a discount. The result is never below 1.
func UpdatePrice(old, sales, purchases, stock int, cfg config.Market) int {
	ratio := float64(sales) / float64(purchases+1)

	var factor float64
	if ratio > 1 {
		factor = 1 + 0.1*(ratio-1)
	} else {
		factor = 1 - 0.1*(1-ratio)
	}

	if stock < cfg.ScarcityStock {
		factor *= 1.1
	}
	if stock > cfg.GlutStock {
		factor *= 0.9
	}

	price := int(math.Round(float64(old) * factor))
	if price < 1 {
		price = 1
	}
	return price
}

// Due reports whether d should be repriced at now: enough transactions since
// the last update, or the refresh window elapsed without one.
func Due(d *ItemDetails, now float64, cfg config.Market) bool {
	if d.Sales+d.Purchases >= cfg.TransactionThreshold {
		return true
	}
	return now-d.LastRepriced > cfg.RefreshWindow
}

// Reprice updates every due item of the shop, resets its counters and
// appends the new price to its history. Returns the keys that changed.
func (s *Shop) Reprice(now float64, cfg config.Market) []ItemKey {
	var updated []ItemKey
	for _, key := range s.Keys() {
		d := s.Items[key]
		if !Due(d, now, cfg) {
			continue
		}
		d.Price = UpdatePrice(d.Price, d.Sales, d.Purchases, d.Stock, cfg)
		d.Sales, d.Purchases = 0, 0
		d.LastRepriced = now
		s.History[key] = append(s.History[key], PriceRecord{Time: now, Price: d.Price})
		updated = append(updated, key)
	}
	return updated
}
