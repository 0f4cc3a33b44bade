// Market interaction: persons resolve Buying and Selling against a shop
// picked uniformly at random from every shop in the world.
package engine

import (
	"github.com/mlange-42/ark/ecs"

	"github.com/talgya/mini-market/internal/agents"
	"github.com/talgya/mini-market/internal/economy"
	"github.com/talgya/mini-market/internal/store"
)

// TradeResult describes one market resolution.
type TradeResult struct {
	Action   agents.Action // Buying or Selling
	Executed bool          // goods and gold changed hands
	Units    int
	Gold     uint64 // gold that changed hands
}

// ResolveTrade resolves p's Buying or Selling action against shop for the
// item key. Buying moves one unit when the person can pay and the shop has
// stock, and always returns the person to Idle. Selling moves the person's
// whole holding and returns it to Idle only if there was something to sell.
func ResolveTrade(p *agents.Person, shop *economy.Shop, key economy.ItemKey) TradeResult {
	res := TradeResult{Action: p.Action}
	if !p.Alive {
		return res
	}

	switch p.Action {
	case agents.ActionBuying:
		d, ok := shop.Details(key)
		if ok && d.Stock > 0 && p.Gold >= uint64(d.Price) {
			d.Stock--
			d.Purchases++
			p.Gold -= uint64(d.Price)
			p.Give(key, 1)
			res.Executed, res.Units, res.Gold = true, 1, uint64(d.Price)
		}
		p.Action = agents.ActionIdle

	case agents.ActionSelling:
		held := p.Holding(key)
		d, ok := shop.Details(key)
		if held == 0 || !ok {
			return res
		}
		p.Take(key, held)
		paid := uint64(d.Price) * uint64(held)
		p.Gold += paid
		d.Stock += held
		d.Sales += held
		p.Action = agents.ActionIdle
		res.Executed, res.Units, res.Gold = true, held, paid
	}
	return res
}

func (s *Simulation) marketSystem() {
	n := s.Store.ShopCount()
	key := s.Commodity.Key
	s.Store.EachPerson(func(_ ecs.Entity, p *agents.Person, _ *store.Home) {
		if !p.Alive || (p.Action != agents.ActionBuying && p.Action != agents.ActionSelling) {
			return
		}
		if n == 0 {
			// Nowhere to trade: buying still clears, selling waits.
			if p.Action == agents.ActionBuying {
				p.Action = agents.ActionIdle
			}
			return
		}

		_, shop := s.Store.ShopAt(s.Rand.Intn(n))
		res := ResolveTrade(p, shop, key)
		if !res.Executed {
			return
		}
		switch res.Action {
		case agents.ActionBuying:
			s.Stats.Purchases++
		case agents.ActionSelling:
			s.Stats.Sales++
			s.Stats.UnitsSold += res.Units
			s.Stats.GoldPaid += res.Gold
		}
	})
}
