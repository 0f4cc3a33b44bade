// Periodic market report: world averages for persons and for shops
// trading the commodity, plus a line per country.
package engine

import (
	"fmt"
	"log/slog"

	"github.com/dustin/go-humanize"

	"github.com/talgya/mini-market/internal/stats"
)

// Snapshot is what a report hands to the Sink.
type Snapshot struct {
	Tick      uint64
	Elapsed   float64
	World     stats.View
	Countries []stats.View
	Stats     SimStats
	Events    []Event // events since the previous report
}

// Sink stores report snapshots.
type Sink interface {
	Record(snap Snapshot) error
}

// Report logs the periodic market report and forwards it to the Sink. It
// is registered on the report cadence.
func (s *Simulation) Report(tick uint64, _ float64) {
	snap, err := s.Snapshot()
	if err != nil {
		slog.Error("report failed", "error", err)
		return
	}
	logSnapshot(snap, s.Commodity.Key.Name)

	s.mu.Lock()
	s.reportedTick = snap.Tick
	s.mu.Unlock()

	if s.Sink != nil {
		if err := s.Sink.Record(snap); err != nil {
			slog.Error("stats sink failed", "tick", tick, "error", err)
		}
	}
}

// Snapshot aggregates the whole world and every country.
func (s *Simulation) Snapshot() (Snapshot, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	w, err := stats.World(s.Regions, s.Store)
	if err != nil {
		return Snapshot{}, fmt.Errorf("aggregate world: %w", err)
	}
	snap := Snapshot{Tick: s.LastTick, Elapsed: s.Elapsed, World: w.View(), Stats: s.Stats}
	for _, e := range s.Events {
		if e.Tick > s.reportedTick {
			snap.Events = append(snap.Events, e)
		}
	}
	for _, id := range s.Regions.Countries() {
		c, err := stats.Aggregate(s.Regions, id, s.Store)
		if err != nil {
			return Snapshot{}, fmt.Errorf("aggregate country %d: %w", id, err)
		}
		snap.Countries = append(snap.Countries, c.View())
	}
	return snap, nil
}

func logSnapshot(snap Snapshot, commodity string) {
	w := snap.World
	slog.Info("people report",
		"tick", humanize.Comma(int64(snap.Tick)),
		"time", SimTime(snap.Elapsed),
		"alive", humanize.Comma(int64(w.Population)),
		"deaths", humanize.Comma(int64(snap.Stats.Deaths)),
		"avg_hunger", fmt.Sprintf("%.1f", w.AvgHunger),
		"avg_health", fmt.Sprintf("%.1f", w.AvgHealth),
		"avg_energy", fmt.Sprintf("%.1f", w.AvgEnergy),
		"avg_gold", fmt.Sprintf("%.1f", w.AvgGold),
	)

	for _, line := range w.Items {
		if line.Item != commodity {
			continue
		}
		inflation := "n/a"
		if line.HasInflation {
			inflation = fmt.Sprintf("%.1f%%", line.Inflation)
		}
		slog.Info("shop report",
			"item", line.Item,
			"shops", line.Shops,
			"in_stock", line.InStock,
			"avg_stock", fmt.Sprintf("%.1f", line.AvgStock),
			"avg_price", fmt.Sprintf("%.1f", line.AvgPrice),
			"avg_sales", fmt.Sprintf("%.1f", line.AvgSales),
			"avg_purchases", fmt.Sprintf("%.1f", line.AvgPurchases),
			"inflation", inflation,
		)
	}

	for _, c := range snap.Countries {
		slog.Info("country report",
			"country", c.Name,
			"population", humanize.Comma(int64(c.Population)),
			"total_gold", humanize.Comma(int64(c.TotalGold)),
			"avg_gold", fmt.Sprintf("%.1f", c.AvgGold),
		)
	}
}
