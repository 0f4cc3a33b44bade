// Read-only views for observers such as the HTTP API. Every method takes
// the read lock.
package engine

import (
	"fmt"

	"github.com/talgya/mini-market/internal/region"
	"github.com/talgya/mini-market/internal/stats"
)

// Status is a cheap overview of the running simulation.
type Status struct {
	Tick       uint64   `json:"tick"`
	Elapsed    float64  `json:"elapsed"`
	SimTime    string   `json:"sim_time"`
	Population int      `json:"population"` // person entities, unswept dead included
	Shops      int      `json:"shops"`
	Commodity  string   `json:"commodity"`
	Stats      SimStats `json:"stats"`
}

// Status returns the current overview.
func (s *Simulation) Status() Status {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return Status{
		Tick:       s.LastTick,
		Elapsed:    s.Elapsed,
		SimTime:    SimTime(s.Elapsed),
		Population: s.Store.PersonCount(),
		Shops:      s.Store.ShopCount(),
		Commodity:  s.Commodity.Key.Name,
		Stats:      s.Stats,
	}
}

// RegionInfo describes one country, state or city.
type RegionInfo struct {
	ID       region.NodeID `json:"id"`
	Kind     string        `json:"kind"`
	Name     string        `json:"name"`
	Parent   region.NodeID `json:"parent"`
	Terrain  string        `json:"terrain,omitempty"`
	Children int           `json:"children"`
}

// RegionList lists every country, state and city in creation order.
func (s *Simulation) RegionList() []RegionInfo {
	s.mu.RLock()
	defer s.mu.RUnlock()

	var out []RegionInfo
	for _, kind := range []region.Kind{region.KindCountry, region.KindState, region.KindCity} {
		for _, id := range s.Regions.OfKind(kind) {
			n, _ := s.Regions.Node(id)
			info := RegionInfo{
				ID:       n.ID,
				Kind:     n.Kind.String(),
				Name:     n.Name,
				Parent:   n.Parent,
				Children: len(n.Children),
			}
			if n.Kind == region.KindState {
				info.Terrain = n.Terrain.String()
			}
			out = append(out, info)
		}
	}
	return out
}

// Summary aggregates the region id.
func (s *Simulation) Summary(id region.NodeID) (stats.View, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	sum, err := stats.Aggregate(s.Regions, id, s.Store)
	if err != nil {
		return stats.View{}, fmt.Errorf("region %d: %w", id, err)
	}
	return sum.View(), nil
}

// WorldSummary aggregates every country.
func (s *Simulation) WorldSummary() (stats.View, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	sum, err := stats.World(s.Regions, s.Store)
	if err != nil {
		return stats.View{}, err
	}
	return sum.View(), nil
}

// RecentEvents returns up to n of the newest events, newest last. A
// non-empty category keeps only events of that category.
func (s *Simulation) RecentEvents(n int, category string) []Event {
	s.mu.RLock()
	defer s.mu.RUnlock()

	var out []Event
	for i := len(s.Events) - 1; i >= 0 && len(out) < n; i-- {
		if category != "" && s.Events[i].Category != category {
			continue
		}
		out = append(out, s.Events[i])
	}
	for i, j := 0, len(out)-1; i < j; i, j = i+1, j-1 {
		out[i], out[j] = out[j], out[i]
	}
	return out
}
