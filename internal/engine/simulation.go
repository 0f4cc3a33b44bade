// Simulation ties together all market systems and runs them each tick.
package engine

import (
	"log/slog"
	"sync"

	"github.com/mlange-42/ark/ecs"

	"github.com/talgya/mini-market/internal/agents"
	"github.com/talgya/mini-market/internal/config"
	"github.com/talgya/mini-market/internal/economy"
	"github.com/talgya/mini-market/internal/entropy"
	"github.com/talgya/mini-market/internal/region"
	"github.com/talgya/mini-market/internal/store"
)

// maxEvents bounds the event log.
const maxEvents = 1000

// Simulation holds the complete world state and wires systems together.
// Tick, Mortality and Report take the write lock; the query methods take
// the read lock, so the HTTP API may observe a running simulation.
type Simulation struct {
	mu sync.RWMutex

	Config    config.Config
	Store     *store.Store
	Regions   *region.Hierarchy
	Rand      entropy.Source
	Commodity economy.Item // the one item persons plant, trade and eat

	Elapsed  float64 // simulated seconds at the last tick
	LastTick uint64  // most recent tick processed

	Events []Event // recent events, oldest first
	Stats  SimStats

	// Sink receives a snapshot on every report. Nil disables it.
	Sink Sink

	reportedTick uint64
}

// Event is a notable occurrence in the world.
type Event struct {
	Tick        uint64  `json:"tick"`
	Time        float64 `json:"time"`
	Description string  `json:"description"`
	Category    string  `json:"category"` // "death", "trade", "harvest"
}

// SimStats counts what happened since the simulation started.
type SimStats struct {
	Deaths    int    `json:"deaths"`
	Purchases int    `json:"purchases"`
	Sales     int    `json:"sales"`      // sell resolutions, not units
	UnitsSold int    `json:"units_sold"` // units persons sold to shops
	Harvests  int    `json:"harvests"`
	Meals     int    `json:"meals"`
	Reprices  int    `json:"reprices"`
	GoldPaid  uint64 `json:"gold_paid"` // gold shops paid out to sellers
}

// Tick runs every system once, in order. It is the engine's OnTick.
func (s *Simulation) Tick(tick uint64, elapsed, dt float64) {
	s.mu.Lock()
	defer s.mu.Unlock()

	s.LastTick = tick
	s.Elapsed = elapsed

	s.vitalsSystem(dt)
	s.energySystem(dt)
	s.reasoningSystem()
	s.marketSystem()
	s.priceSystem(elapsed)
	s.feedingSystem()
	s.plantingSystem(dt)
}

func (s *Simulation) vitalsSystem(dt float64) {
	s.Store.EachPerson(func(_ ecs.Entity, p *agents.Person, _ *store.Home) {
		agents.UpdateVitals(p, s.Config.Vitals, dt)
	})
}

func (s *Simulation) energySystem(dt float64) {
	s.Store.EachPerson(func(_ ecs.Entity, p *agents.Person, _ *store.Home) {
		agents.UpdateEnergy(p, s.Config.Vitals, dt)
	})
}

func (s *Simulation) reasoningSystem() {
	key := s.Commodity.Key
	s.Store.EachPerson(func(_ ecs.Entity, p *agents.Person, _ *store.Home) {
		next := agents.Decide(agents.InputOf(p, p.Holding(key)), s.Config.Behavior, s.Rand.Float)
		if next != p.Action {
			slog.Debug("action", "person", p.Name, "from", p.Action, "to", next)
		}
		p.Action = next
	})
}

func (s *Simulation) priceSystem(now float64) {
	s.Store.EachShop(func(_ ecs.Entity, shop *economy.Shop) {
		for _, key := range shop.Reprice(now, s.Config.Market) {
			s.Stats.Reprices++
			slog.Debug("repriced", "shop", shop.Name, "item", key, "price", shop.Items[key].Price)
		}
	})
}

func (s *Simulation) feedingSystem() {
	s.Store.EachPerson(func(_ ecs.Entity, p *agents.Person, _ *store.Home) {
		if agents.Feed(p, s.Commodity) {
			s.Stats.Meals++
		}
	})
}

func (s *Simulation) plantingSystem(dt float64) {
	s.Store.EachPerson(func(_ ecs.Entity, p *agents.Person, _ *store.Home) {
		if agents.Plant(p, s.Commodity.Key, s.Config.Behavior, dt) {
			s.Stats.Harvests++
			s.record("harvest", p.Name+" harvested")
		}
	})
}

// record appends an event stamped with the current tick. Must hold mu.
func (s *Simulation) record(category, description string) {
	s.Events = append(s.Events, Event{
		Tick:        s.LastTick,
		Time:        s.Elapsed,
		Description: description,
		Category:    category,
	})
	if len(s.Events) > maxEvents {
		s.Events = s.Events[len(s.Events)-maxEvents:]
	}
}
