// Package config holds every tunable knob of the market simulation.
// Values come from Default, optionally overlaid by a YAML file and then
// by MARKETSIM_* environment variables.
package config

import (
	"errors"
	"fmt"
	"os"
	"strconv"
	"strings"

	"github.com/joho/godotenv"
	"gopkg.in/yaml.v3"
)

// ErrInvalid is wrapped by every Validate failure.
var ErrInvalid = errors.New("invalid config")

// Config is the complete simulation configuration.
type Config struct {
	Seed int64 `yaml:"seed"`

	// World shape. Persons and shops are dealt round-robin across cities.
	Countries        int    `yaml:"countries"`
	StatesPerCountry int    `yaml:"states_per_country"`
	CitiesPerState   int    `yaml:"cities_per_state"`
	Population       int    `yaml:"population"`
	Shops            int    `yaml:"shops"`
	StartGold        uint64 `yaml:"start_gold"`

	Vitals   Vitals   `yaml:"vitals"`
	Behavior Behavior `yaml:"behavior"`
	Market   Market   `yaml:"market"`
	Clock    Clock    `yaml:"clock"`

	StatsDB  string `yaml:"stats_db"` // "" disables the stats sink
	APIAddr  string `yaml:"api_addr"` // "" disables the HTTP API
	LogLevel string `yaml:"log_level"`
}

// Vitals are the per-second rates driving hunger, health and energy.
type Vitals struct {
	HungerDecayRate    float64 `yaml:"hunger_decay_rate"`
	StarvationRate     float64 `yaml:"starvation_rate"`
	HealthRecoveryRate float64 `yaml:"health_recovery_rate"`
	EnergyHealthyRate  float64 `yaml:"energy_healthy_rate"`
	EnergyHungryRate   float64 `yaml:"energy_hungry_rate"`
	EnergyStarvingRate float64 `yaml:"energy_starving_rate"`
	StarvingHealthCost float64 `yaml:"starving_health_cost"` // health spent per unit of emergency energy
	HungryThreshold    float64 `yaml:"hungry_threshold"`
}

// Behavior tunes the reasoning policy and the planting process.
type Behavior struct {
	GoldThreshold    uint64  `yaml:"gold_threshold"`
	PlantingChance   float64 `yaml:"planting_chance"`
	PlantingDuration float64 `yaml:"planting_duration"` // simulated seconds
	PlantingYield    int     `yaml:"planting_yield"`
}

// Market tunes shop stock and the price engine.
type Market struct {
	TransactionThreshold int     `yaml:"transaction_threshold"`
	RefreshWindow        float64 `yaml:"price_refresh_window"` // simulated seconds
	StartPrice           int     `yaml:"shop_start_price"`
	StartStock           int     `yaml:"shop_start_stock"`
	ScarcityStock        int     `yaml:"scarcity_stock"`
	GlutStock            int     `yaml:"glut_stock"`
}

// Clock maps real time onto simulated time.
type Clock struct {
	TickIntervalMS int     `yaml:"tick_interval_ms"` // real milliseconds between ticks
	TickDelta      float64 `yaml:"tick_delta"`       // simulated seconds per tick
	ReportEvery    float64 `yaml:"report_every"`
	MortalityEvery float64 `yaml:"mortality_every"`
}

// Default returns the reference configuration.
func Default() Config {
	return Config{
		Seed:             42,
		Countries:        1,
		StatesPerCountry: 2,
		CitiesPerState:   2,
		Population:       200,
		Shops:            10,
		StartGold:        20,
		Vitals: Vitals{
			HungerDecayRate:    2.0,
			StarvationRate:     1.0,
			HealthRecoveryRate: 1.0,
			EnergyHealthyRate:  1.0,
			EnergyHungryRate:   0.7,
			EnergyStarvingRate: 10.0,
			StarvingHealthCost: 0.5,
			HungryThreshold:    50,
		},
		Behavior: Behavior{
			GoldThreshold:    30,
			PlantingChance:   0.05,
			PlantingDuration: 10,
			PlantingYield:    10,
		},
		Market: Market{
			TransactionThreshold: 10,
			RefreshWindow:        20,
			StartPrice:           10,
			StartStock:           10,
			ScarcityStock:        5,
			GlutStock:            20,
		},
		Clock: Clock{
			TickIntervalMS: 100,
			TickDelta:      0.1,
			ReportEvery:    2,
			MortalityEvery: 20,
		},
		StatsDB:  "data/marketsim.db",
		APIAddr:  ":8080",
		LogLevel: "info",
	}
}

// Load overlays the YAML file at path on Default. An empty path or a
// missing file yields the defaults unchanged.
func Load(path string) (Config, error) {
	cfg := Default()
	if path == "" {
		return cfg, nil
	}
	raw, err := os.ReadFile(path)
	if errors.Is(err, os.ErrNotExist) {
		return cfg, nil
	}
	if err != nil {
		return cfg, fmt.Errorf("read config: %w", err)
	}
	if err := yaml.Unmarshal(raw, &cfg); err != nil {
		return cfg, fmt.Errorf("%s: %w", path, err)
	}
	return cfg, nil
}

// LoadEnvFile loads KEY=VALUE pairs from a .env file into the process
// environment. A missing file is not an error.
func LoadEnvFile(path string) error {
	if _, err := os.Stat(path); errors.Is(err, os.ErrNotExist) {
		return nil
	}
	if err := godotenv.Load(path); err != nil {
		return fmt.Errorf("load %s: %w", path, err)
	}
	return nil
}

// FromEnv applies MARKETSIM_* overrides to cfg.
func FromEnv(cfg *Config) error {
	ints := map[string]*int{
		"MARKETSIM_POPULATION":            &cfg.Population,
		"MARKETSIM_SHOPS":                 &cfg.Shops,
		"MARKETSIM_COUNTRIES":             &cfg.Countries,
		"MARKETSIM_STATES_PER_COUNTRY":    &cfg.StatesPerCountry,
		"MARKETSIM_CITIES_PER_STATE":      &cfg.CitiesPerState,
		"MARKETSIM_TRANSACTION_THRESHOLD": &cfg.Market.TransactionThreshold,
		"MARKETSIM_TICK_INTERVAL_MS":      &cfg.Clock.TickIntervalMS,
	}
	for key, dst := range ints {
		v, ok := os.LookupEnv(key)
		if !ok {
			continue
		}
		n, err := strconv.Atoi(strings.TrimSpace(v))
		if err != nil {
			return fmt.Errorf("%s: %w", key, err)
		}
		*dst = n
	}

	if v, ok := os.LookupEnv("MARKETSIM_SEED"); ok {
		n, err := strconv.ParseInt(strings.TrimSpace(v), 10, 64)
		if err != nil {
			return fmt.Errorf("MARKETSIM_SEED: %w", err)
		}
		cfg.Seed = n
	}
	if v, ok := os.LookupEnv("MARKETSIM_START_GOLD"); ok {
		n, err := strconv.ParseUint(strings.TrimSpace(v), 10, 64)
		if err != nil {
			return fmt.Errorf("MARKETSIM_START_GOLD: %w", err)
		}
		cfg.StartGold = n
	}
	if v, ok := os.LookupEnv("MARKETSIM_STATS_DB"); ok {
		cfg.StatsDB = v
	}
	if v, ok := os.LookupEnv("MARKETSIM_API_ADDR"); ok {
		cfg.APIAddr = v
	}
	if v, ok := os.LookupEnv("MARKETSIM_LOG_LEVEL"); ok {
		cfg.LogLevel = v
	}
	return nil
}

// Validate reports the first out-of-range option.
func (c Config) Validate() error {
	switch {
	case c.Countries < 1 || c.StatesPerCountry < 1 || c.CitiesPerState < 1:
		return fmt.Errorf("%w: need at least one country, state and city", ErrInvalid)
	case c.Population < 0:
		return fmt.Errorf("%w: population must be >= 0, got %d", ErrInvalid, c.Population)
	case c.Shops < 0:
		return fmt.Errorf("%w: shops must be >= 0, got %d", ErrInvalid, c.Shops)
	case c.Vitals.HungerDecayRate < 0 || c.Vitals.StarvationRate < 0 || c.Vitals.HealthRecoveryRate < 0:
		return fmt.Errorf("%w: vitals rates must be >= 0", ErrInvalid)
	case c.Vitals.EnergyHealthyRate < 0 || c.Vitals.EnergyHungryRate < 0 || c.Vitals.EnergyStarvingRate < 0:
		return fmt.Errorf("%w: energy rates must be >= 0", ErrInvalid)
	case c.Vitals.HungryThreshold <= 0 || c.Vitals.HungryThreshold > 100:
		return fmt.Errorf("%w: hungry_threshold must be in (0,100], got %v", ErrInvalid, c.Vitals.HungryThreshold)
	case c.Behavior.PlantingChance < 0 || c.Behavior.PlantingChance > 1:
		return fmt.Errorf("%w: planting_chance must be in [0,1], got %v", ErrInvalid, c.Behavior.PlantingChance)
	case c.Behavior.PlantingDuration <= 0 || c.Behavior.PlantingYield < 0:
		return fmt.Errorf("%w: planting duration must be > 0 and yield >= 0", ErrInvalid)
	case c.Market.TransactionThreshold < 1:
		return fmt.Errorf("%w: transaction_threshold must be >= 1, got %d", ErrInvalid, c.Market.TransactionThreshold)
	case c.Market.RefreshWindow <= 0:
		return fmt.Errorf("%w: price_refresh_window must be > 0", ErrInvalid)
	case c.Market.StartPrice < 1 || c.Market.StartStock < 0:
		return fmt.Errorf("%w: shop start price must be >= 1 and stock >= 0", ErrInvalid)
	case c.Clock.TickDelta <= 0 || c.Clock.TickIntervalMS < 0:
		return fmt.Errorf("%w: tick_delta must be > 0", ErrInvalid)
	case c.Clock.ReportEvery <= 0 || c.Clock.MortalityEvery <= 0:
		return fmt.Errorf("%w: report and mortality cadences must be > 0", ErrInvalid)
	}
	return nil
}

// Cities returns the total number of cities the config describes.
func (c Config) Cities() int {
	return c.Countries * c.StatesPerCountry * c.CitiesPerState
}
