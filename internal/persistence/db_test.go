package persistence

import (
	"path/filepath"
	"testing"

	"github.com/talgya/mini-market/internal/engine"
	"github.com/talgya/mini-market/internal/stats"
)

func openTemp(t *testing.T, path string) *DB {
	t.Helper()
	db, err := Open(path)
	if err != nil {
		t.Fatalf("open: %v", err)
	}
	t.Cleanup(func() { db.Close() })
	return db
}

func snapshot(tick uint64, avgGold float64, inflation float64, hasInflation bool) engine.Snapshot {
	return engine.Snapshot{
		Tick:    tick,
		Elapsed: float64(tick) / 10,
		World: stats.View{
			Population: 3,
			TotalGold:  60,
			AvgGold:    avgGold,
			Shops:      2,
			Items: []stats.ItemLine{
				{Item: "Apple", Shops: 2, InStock: 1, AvgPrice: 12, Inflation: inflation, HasInflation: hasInflation},
			},
		},
		Stats:  engine.SimStats{Deaths: 1, Sales: 4},
		Events: []engine.Event{{Tick: tick, Time: float64(tick) / 10, Description: "Aldric Voss has died of starvation", Category: "death"}},
	}
}

func TestRecordAndLoadHistory(t *testing.T) {
	db := openTemp(t, filepath.Join(t.TempDir(), "stats.db"))
	if err := db.StartRun(42); err != nil {
		t.Fatalf("start run: %v", err)
	}

	for i, snap := range []engine.Snapshot{
		snapshot(20, 20, 0, false),
		snapshot(40, 25, 50, true),
		snapshot(60, 30, 20, true),
	} {
		if err := db.Record(snap); err != nil {
			t.Fatalf("record %d: %v", i, err)
		}
	}

	rows, err := db.LoadStatsHistory(0, 1<<62, 2)
	if err != nil {
		t.Fatalf("load history: %v", err)
	}
	if len(rows) != 2 || rows[0].Tick != 40 || rows[1].Tick != 60 {
		t.Fatalf("expected the two newest rows oldest first, got %+v", rows)
	}
	if rows[1].AvgGold != 30 || rows[1].Deaths != 1 || rows[1].Sales != 4 {
		t.Fatalf("unexpected row %+v", rows[1])
	}

	points, err := db.LoadPriceHistory("Apple", 10)
	if err != nil {
		t.Fatalf("load prices: %v", err)
	}
	if len(points) != 3 {
		t.Fatalf("expected 3 price points, got %d", len(points))
	}
	if points[0].Inflation != nil {
		t.Fatalf("expected undefined inflation stored as NULL")
	}
	if points[1].Inflation == nil || *points[1].Inflation != 50 {
		t.Fatalf("expected inflation 50, got %v", points[1].Inflation)
	}

	events, err := db.RecentEvents(2)
	if err != nil {
		t.Fatalf("recent events: %v", err)
	}
	if len(events) != 2 || events[0].Tick != 60 || events[0].Category != "death" {
		t.Fatalf("unexpected events %+v", events)
	}
}

func TestRunsAreIsolated(t *testing.T) {
	path := filepath.Join(t.TempDir(), "stats.db")
	first := openTemp(t, path)
	if err := first.Record(snapshot(20, 20, 0, false)); err != nil {
		t.Fatalf("record: %v", err)
	}

	second := openTemp(t, path)
	if second.RunID() == first.RunID() {
		t.Fatalf("expected a fresh run id")
	}
	rows, err := second.LoadStatsHistory(0, 1<<62, 10)
	if err != nil {
		t.Fatalf("load history: %v", err)
	}
	if len(rows) != 0 {
		t.Fatalf("expected no rows for a new run, got %d", len(rows))
	}
}
