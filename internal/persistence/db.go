// Package persistence records market statistics in SQLite. Every report
// snapshot becomes one stats row plus one price row per item, stamped with
// the run that produced it. Simulation state itself is never stored.
package persistence

import (
	"fmt"
	"log/slog"
	"math"
	"time"

	"github.com/google/uuid"
	"github.com/jmoiron/sqlx"
	_ "modernc.org/sqlite"

	"github.com/talgya/mini-market/internal/engine"
)

// DB wraps a SQLite connection for stats history.
type DB struct {
	conn  *sqlx.DB
	runID string
}

// Open opens or creates a SQLite database at the given path and starts a
// new run.
func Open(path string) (*DB, error) {
	conn, err := sqlx.Open("sqlite", path+"?_pragma=busy_timeout(5000)&_pragma=journal_mode(WAL)")
	if err != nil {
		return nil, fmt.Errorf("open db: %w", err)
	}

	db := &DB{conn: conn, runID: uuid.NewString()}
	if err := db.migrate(); err != nil {
		conn.Close()
		return nil, fmt.Errorf("migrate: %w", err)
	}

	return db, nil
}

// Close closes the database connection.
func (db *DB) Close() error {
	return db.conn.Close()
}

// RunID identifies the rows written through this handle.
func (db *DB) RunID() string {
	return db.runID
}

func (db *DB) migrate() error {
	schema := `
	CREATE TABLE IF NOT EXISTS stats_snapshots (
		id INTEGER PRIMARY KEY AUTOINCREMENT,
		run_id TEXT NOT NULL,
		tick INTEGER NOT NULL,
		elapsed REAL NOT NULL,
		population INTEGER NOT NULL,
		dead INTEGER NOT NULL,
		deaths INTEGER NOT NULL,
		total_gold INTEGER NOT NULL,
		avg_gold REAL NOT NULL,
		avg_hunger REAL NOT NULL,
		avg_health REAL NOT NULL,
		avg_energy REAL NOT NULL,
		shops INTEGER NOT NULL,
		purchases INTEGER NOT NULL,
		sales INTEGER NOT NULL,
		harvests INTEGER NOT NULL,
		recorded_at TEXT NOT NULL
	);

	CREATE TABLE IF NOT EXISTS price_points (
		id INTEGER PRIMARY KEY AUTOINCREMENT,
		run_id TEXT NOT NULL,
		tick INTEGER NOT NULL,
		item TEXT NOT NULL,
		shops INTEGER NOT NULL,
		in_stock INTEGER NOT NULL,
		avg_stock REAL NOT NULL,
		avg_price REAL NOT NULL,
		avg_sales REAL NOT NULL,
		avg_purchases REAL NOT NULL,
		inflation REAL
	);

	CREATE TABLE IF NOT EXISTS events (
		id INTEGER PRIMARY KEY AUTOINCREMENT,
		run_id TEXT NOT NULL,
		tick INTEGER NOT NULL,
		sim_time REAL NOT NULL,
		description TEXT NOT NULL,
		category TEXT NOT NULL
	);

	CREATE TABLE IF NOT EXISTS runs (
		run_id TEXT PRIMARY KEY,
		seed INTEGER NOT NULL,
		started_at TEXT NOT NULL
	);

	CREATE INDEX IF NOT EXISTS idx_snapshots_run_tick ON stats_snapshots(run_id, tick);
	CREATE INDEX IF NOT EXISTS idx_prices_run_item ON price_points(run_id, item, tick);
	CREATE INDEX IF NOT EXISTS idx_events_run_tick ON events(run_id, tick);
	`
	_, err := db.conn.Exec(schema)
	return err
}

// StartRun registers the current run and its seed.
func (db *DB) StartRun(seed int64) error {
	_, err := db.conn.Exec(
		"INSERT OR REPLACE INTO runs (run_id, seed, started_at) VALUES (?, ?, ?)",
		db.runID, seed, time.Now().UTC().Format(time.RFC3339),
	)
	return err
}

// Record writes one report snapshot. It implements engine.Sink.
func (db *DB) Record(snap engine.Snapshot) error {
	tx, err := db.conn.Beginx()
	if err != nil {
		return err
	}
	defer tx.Rollback()

	w := snap.World
	_, err = tx.Exec(`INSERT INTO stats_snapshots (
		run_id, tick, elapsed, population, dead, deaths, total_gold,
		avg_gold, avg_hunger, avg_health, avg_energy, shops,
		purchases, sales, harvests, recorded_at
	) VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?)`,
		db.runID, int64(snap.Tick), snap.Elapsed, w.Population, w.Dead, snap.Stats.Deaths, clampInt64(w.TotalGold),
		w.AvgGold, w.AvgHunger, w.AvgHealth, w.AvgEnergy, w.Shops,
		snap.Stats.Purchases, snap.Stats.Sales, snap.Stats.Harvests, time.Now().UTC().Format(time.RFC3339),
	)
	if err != nil {
		return fmt.Errorf("insert snapshot: %w", err)
	}

	for _, line := range w.Items {
		var inflation any
		if line.HasInflation {
			inflation = line.Inflation
		}
		_, err := tx.Exec(`INSERT INTO price_points (
			run_id, tick, item, shops, in_stock, avg_stock, avg_price, avg_sales, avg_purchases, inflation
		) VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?, ?)`,
			db.runID, int64(snap.Tick), line.Item, line.Shops, line.InStock,
			line.AvgStock, line.AvgPrice, line.AvgSales, line.AvgPurchases, inflation,
		)
		if err != nil {
			return fmt.Errorf("insert price point %s: %w", line.Item, err)
		}
	}

	for _, e := range snap.Events {
		_, err := tx.Exec(
			"INSERT INTO events (run_id, tick, sim_time, description, category) VALUES (?, ?, ?, ?, ?)",
			db.runID, int64(e.Tick), e.Time, e.Description, e.Category,
		)
		if err != nil {
			return fmt.Errorf("insert event: %w", err)
		}
	}

	if err := tx.Commit(); err != nil {
		return err
	}
	slog.Debug("stats recorded", "tick", snap.Tick, "items", len(w.Items), "events", len(snap.Events))
	return nil
}

// StatsRow is one persisted snapshot.
type StatsRow struct {
	Tick       int64   `db:"tick" json:"tick"`
	Elapsed    float64 `db:"elapsed" json:"elapsed"`
	Population int     `db:"population" json:"population"`
	Dead       int     `db:"dead" json:"dead"`
	Deaths     int     `db:"deaths" json:"deaths"`
	TotalGold  int64   `db:"total_gold" json:"total_gold"`
	AvgGold    float64 `db:"avg_gold" json:"avg_gold"`
	AvgHunger  float64 `db:"avg_hunger" json:"avg_hunger"`
	AvgHealth  float64 `db:"avg_health" json:"avg_health"`
	AvgEnergy  float64 `db:"avg_energy" json:"avg_energy"`
	Shops      int     `db:"shops" json:"shops"`
	Purchases  int     `db:"purchases" json:"purchases"`
	Sales      int     `db:"sales" json:"sales"`
	Harvests   int     `db:"harvests" json:"harvests"`
}

// LoadStatsHistory returns up to limit snapshots of the current run with
// tick in [fromTick, toTick], oldest first.
func (db *DB) LoadStatsHistory(fromTick, toTick int64, limit int) ([]StatsRow, error) {
	var rows []StatsRow
	err := db.conn.Select(&rows, `
		SELECT tick, elapsed, population, dead, deaths, total_gold,
			avg_gold, avg_hunger, avg_health, avg_energy, shops,
			purchases, sales, harvests
		FROM (
			SELECT * FROM stats_snapshots
			WHERE run_id = ? AND tick >= ? AND tick <= ?
			ORDER BY tick DESC LIMIT ?
		) ORDER BY tick ASC`,
		db.runID, fromTick, toTick, limit,
	)
	return rows, err
}

// PricePoint is one persisted per-item average.
type PricePoint struct {
	Tick         int64    `db:"tick" json:"tick"`
	Item         string   `db:"item" json:"item"`
	Shops        int      `db:"shops" json:"shops"`
	InStock      int      `db:"in_stock" json:"in_stock"`
	AvgStock     float64  `db:"avg_stock" json:"avg_stock"`
	AvgPrice     float64  `db:"avg_price" json:"avg_price"`
	AvgSales     float64  `db:"avg_sales" json:"avg_sales"`
	AvgPurchases float64  `db:"avg_purchases" json:"avg_purchases"`
	Inflation    *float64 `db:"inflation" json:"inflation"` // nil when undefined
}

// LoadPriceHistory returns up to limit price points for item in the
// current run, oldest first.
func (db *DB) LoadPriceHistory(item string, limit int) ([]PricePoint, error) {
	var rows []PricePoint
	err := db.conn.Select(&rows, `
		SELECT tick, item, shops, in_stock, avg_stock, avg_price, avg_sales, avg_purchases, inflation
		FROM (
			SELECT * FROM price_points
			WHERE run_id = ? AND item = ?
			ORDER BY tick DESC LIMIT ?
		) ORDER BY tick ASC`,
		db.runID, item, limit,
	)
	return rows, err
}

// RecentEvents returns the most recent N events of the current run,
// newest first.
func (db *DB) RecentEvents(limit int) ([]engine.Event, error) {
	var events []engine.Event
	err := db.conn.Select(&events,
		"SELECT tick, sim_time AS time, description, category FROM events WHERE run_id = ? ORDER BY id DESC LIMIT ?",
		db.runID, limit,
	)
	return events, err
}

func clampInt64(v uint64) int64 {
	if v > math.MaxInt64 {
		return math.MaxInt64
	}
	return int64(v)
}
