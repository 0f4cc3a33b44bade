package engine

import (
	"fmt"
	"log/slog"

	"github.com/mlange-42/ark/ecs"

	"github.com/talgya/mini-market/internal/agents"
	"github.com/talgya/mini-market/internal/store"
)

// Mortality sweeps the dead. It is registered on a slow cadence.
func (s *Simulation) Mortality(tick uint64, _ float64) {
	s.mu.Lock()
	defer s.mu.Unlock()

	if n := s.sweepDead(); n > 0 {
		slog.Info("mortality sweep", "tick", tick, "removed", n, "time", SimTime(s.Elapsed))
	}
}

// sweepDead removes every dead person from the store and from its city's
// membership. Must hold mu. Returns the number removed.
func (s *Simulation) sweepDead() int {
	type corpse struct {
		e    ecs.Entity
		name string
	}
	var dead []corpse
	// The store cannot remove entities while a query is open.
	s.Store.EachPerson(func(e ecs.Entity, p *agents.Person, _ *store.Home) {
		if !p.Alive {
			dead = append(dead, corpse{e: e, name: p.Name})
		}
	})

	for _, c := range dead {
		s.Regions.RemoveMember(c.e)
		if err := s.Store.RemovePerson(c.e); err != nil {
			slog.Warn("sweep failed", "person", c.name, "error", err)
			continue
		}
		s.Stats.Deaths++
		slog.Info("person died", "name", c.name)
		s.record("death", fmt.Sprintf("%s has died of starvation", c.name))
	}
	return len(dead)
}
