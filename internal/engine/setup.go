// World bootstrap: the containment hierarchy, shops and the initial
// population, all drawn from the shared random source.
package engine

import (
	"fmt"
	"log/slog"

	"github.com/talgya/mini-market/internal/agents"
	"github.com/talgya/mini-market/internal/config"
	"github.com/talgya/mini-market/internal/economy"
	"github.com/talgya/mini-market/internal/entropy"
	"github.com/talgya/mini-market/internal/region"
	"github.com/talgya/mini-market/internal/store"
	"github.com/talgya/mini-market/internal/world"
)

// Placement spreads, in world units.
const (
	worldSize  = 1000.0
	citySpread = 150.0
	shopSpread = 60.0
)

// NewSimulation builds a fresh world from cfg. Persons and shops are dealt
// round-robin across cities.
func NewSimulation(cfg config.Config, rng entropy.Source) (*Simulation, error) {
	if err := cfg.Validate(); err != nil {
		return nil, err
	}

	s := &Simulation{
		Config:    cfg,
		Store:     store.New(),
		Regions:   region.New(),
		Rand:      rng,
		Commodity: economy.Apple,
	}

	cities, err := s.buildRegions()
	if err != nil {
		return nil, fmt.Errorf("build regions: %w", err)
	}

	catalog := economy.DefaultCatalog(cfg.Market)
	for i := 0; i < cfg.Shops; i++ {
		city := cities[i%len(cities)]
		centre := s.cityCentre(city)
		pos := centre.Add(jitter(rng, shopSpread), jitter(rng, shopSpread))
		name := fmt.Sprintf("%s Market %d", s.cityName(city), i+1)
		shop := economy.NewShop(name, pos, catalog, 0)
		e := s.Store.AddShop(shop, city)
		if _, err := s.Regions.AddMember(city, region.KindShop, name, e); err != nil {
			return nil, fmt.Errorf("add shop: %w", err)
		}
	}

	spawner := agents.NewSpawner(rng)
	for i := 0; i < cfg.Population; i++ {
		city := cities[i%len(cities)]
		p := spawner.Spawn(cfg.StartGold, s.cityCentre(city))
		e := s.Store.AddPerson(p, city)
		if _, err := s.Regions.AddMember(city, region.KindPerson, p.Name, e); err != nil {
			return nil, fmt.Errorf("add person: %w", err)
		}
	}

	slog.Info("world ready",
		"countries", cfg.Countries,
		"states", cfg.Countries*cfg.StatesPerCountry,
		"cities", len(cities),
		"shops", cfg.Shops,
		"persons", cfg.Population,
	)
	return s, nil
}

// buildRegions creates every country, state and city and returns the city
// ids in creation order.
func (s *Simulation) buildRegions() ([]region.NodeID, error) {
	cfg := s.Config
	names := world.PlaceNames(s.Rand, cfg.Countries*(1+cfg.StatesPerCountry*(1+cfg.CitiesPerState)))
	next := func() string {
		n := names[0]
		names = names[1:]
		return n
	}
	terrain := world.NewTerrainField(cfg.Seed)

	var cities []region.NodeID
	for c := 0; c < cfg.Countries; c++ {
		country := s.Regions.AddCountry(next())
		for st := 0; st < cfg.StatesPerCountry; st++ {
			pos := world.Position{X: s.Rand.Float() * worldSize, Y: s.Rand.Float() * worldSize}
			t := terrain.At(pos)
			state, err := s.Regions.AddState(country, next(), pos, t)
			if err != nil {
				return nil, err
			}
			slog.Debug("state", "id", state, "terrain", t)
			for ci := 0; ci < cfg.CitiesPerState; ci++ {
				cpos := pos.Add(jitter(s.Rand, citySpread), jitter(s.Rand, citySpread))
				city, err := s.Regions.AddCity(state, next(), cpos)
				if err != nil {
					return nil, err
				}
				cities = append(cities, city)
			}
		}
	}
	return cities, nil
}

func (s *Simulation) cityCentre(id region.NodeID) world.Position {
	if n, ok := s.Regions.Node(id); ok {
		return n.Position
	}
	return world.Position{}
}

func (s *Simulation) cityName(id region.NodeID) string {
	if n, ok := s.Regions.Node(id); ok {
		return n.Name
	}
	return "Unknown"
}

// jitter returns a uniform offset in [-spread, spread).
func jitter(rng entropy.Source, spread float64) float64 {
	return (rng.Float()*2 - 1) * spread
}
