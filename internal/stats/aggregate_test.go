package stats

import (
	"errors"
	"math"
	"testing"

	"github.com/talgya/mini-market/internal/agents"
	"github.com/talgya/mini-market/internal/config"
	"github.com/talgya/mini-market/internal/economy"
	"github.com/talgya/mini-market/internal/region"
	"github.com/talgya/mini-market/internal/store"
	"github.com/talgya/mini-market/internal/world"
)

type fixture struct {
	h       *region.Hierarchy
	s       *store.Store
	country region.NodeID
	state   region.NodeID
	cities  []region.NodeID
}

func newFixture(t *testing.T) *fixture {
	t.Helper()
	f := &fixture{h: region.New(), s: store.New()}
	f.country = f.h.AddCountry("Avalon")
	state, err := f.h.AddState(f.country, "Ironford", world.Position{}, world.TerrainGrassland)
	if err != nil {
		t.Fatalf("add state: %v", err)
	}
	f.state = state
	for _, name := range []string{"Ashwick", "Brightmoor"} {
		city, err := f.h.AddCity(state, name, world.Position{})
		if err != nil {
			t.Fatalf("add city: %v", err)
		}
		f.cities = append(f.cities, city)
	}
	return f
}

func (f *fixture) person(t *testing.T, city region.NodeID, gold uint64, alive bool) {
	t.Helper()
	p := agents.NewPerson("p", gold, world.Position{})
	p.Alive = alive
	e := f.s.AddPerson(p, city)
	if _, err := f.h.AddMember(city, region.KindPerson, p.Name, e); err != nil {
		t.Fatalf("add member: %v", err)
	}
}

func (f *fixture) shop(t *testing.T, city region.NodeID, prices ...int) *economy.Shop {
	t.Helper()
	shop := economy.NewShop("s", world.Position{}, []economy.Listing{{Item: economy.Apple, Price: prices[0], Stock: 10}}, 0)
	for i, p := range prices[1:] {
		shop.History[economy.Apple.Key] = append(shop.History[economy.Apple.Key], economy.PriceRecord{Time: float64(i + 1), Price: p})
		shop.Items[economy.Apple.Key].Price = p
	}
	e := f.s.AddShop(shop, city)
	if _, err := f.h.AddMember(city, region.KindShop, shop.Name, e); err != nil {
		t.Fatalf("add member: %v", err)
	}
	return f.s.Shop(e)
}

func TestCityAverageGoldExcludesDead(t *testing.T) {
	f := newFixture(t)
	city := f.cities[0]
	f.person(t, city, 10, true)
	f.person(t, city, 20, true)
	f.person(t, city, 30, true)
	f.person(t, city, 700, false)

	sum, err := Aggregate(f.h, city, f.s)
	if err != nil {
		t.Fatalf("aggregate: %v", err)
	}
	if sum.AvgGold() != 20 {
		t.Fatalf("expected average gold 20, got %v", sum.AvgGold())
	}
	if sum.Population != 3 || sum.Dead != 1 {
		t.Fatalf("expected 3 alive 1 dead, got %d %d", sum.Population, sum.Dead)
	}
	if sum.AvgHunger() != 100 {
		t.Fatalf("expected average hunger 100, got %v", sum.AvgHunger())
	}
}

func TestEmptyCityGuardsDivisions(t *testing.T) {
	f := newFixture(t)
	sum, err := Aggregate(f.h, f.cities[1], f.s)
	if err != nil {
		t.Fatalf("aggregate: %v", err)
	}
	if sum.AvgGold() != 0 || sum.AvgHealth() != 0 {
		t.Fatalf("expected zero averages for empty city")
	}
	a := sum.Item(economy.Apple.Key)
	if a.AvgPrice() != 0 {
		t.Fatalf("expected zero price without shops")
	}
	if _, ok := a.AvgInflation(); ok {
		t.Fatalf("expected undefined inflation without shops")
	}
}

func TestStateFoldsCities(t *testing.T) {
	f := newFixture(t)
	f.person(t, f.cities[0], 10, true)
	f.person(t, f.cities[1], 50, true)
	f.shop(t, f.cities[0], 10, 15) // +50%
	f.shop(t, f.cities[1], 10)     // no inflation data
	f.shop(t, f.cities[1], 20, 10) // -50%

	sum, err := Aggregate(f.h, f.state, f.s)
	if err != nil {
		t.Fatalf("aggregate: %v", err)
	}
	if sum.Population != 2 || sum.Gold != 60 || sum.AvgGold() != 30 {
		t.Fatalf("unexpected population/gold %d %d %v", sum.Population, sum.Gold, sum.AvgGold())
	}
	apple := sum.Item(economy.Apple.Key)
	if apple.Shops != 3 || sum.Shops != 3 {
		t.Fatalf("expected 3 shops, got %d", apple.Shops)
	}
	if math.Abs(apple.AvgPrice()-35.0/3) > 1e-9 {
		t.Fatalf("expected average price 35/3, got %v", apple.AvgPrice())
	}
	inf, ok := apple.AvgInflation()
	if !ok || inf != 0 {
		t.Fatalf("expected mean inflation 0 over two samples, got %v %v", inf, ok)
	}
	if apple.InflationSamples != 2 {
		t.Fatalf("expected 2 inflation samples, got %d", apple.InflationSamples)
	}

	country, err := Aggregate(f.h, f.country, f.s)
	if err != nil {
		t.Fatalf("aggregate country: %v", err)
	}
	if country.Population != sum.Population || country.Gold != sum.Gold {
		t.Fatalf("expected country to match its only state")
	}
	w, err := World(f.h, f.s)
	if err != nil || w.Gold != 60 {
		t.Fatalf("expected world gold 60, got %d %v", w.Gold, err)
	}
}

func TestInStockCountsShopsWithStock(t *testing.T) {
	f := newFixture(t)
	f.shop(t, f.cities[0], 10)
	empty := f.shop(t, f.cities[0], 10)
	empty.Items[economy.Apple.Key].Stock = 0

	sum, err := Aggregate(f.h, f.cities[0], f.s)
	if err != nil {
		t.Fatalf("aggregate: %v", err)
	}
	if got := sum.Item(economy.Apple.Key).InStock; got != 1 {
		t.Fatalf("expected 1 shop in stock, got %d", got)
	}
}

func TestSweptPersonLeavesAggregate(t *testing.T) {
	f := newFixture(t)
	p := agents.NewPerson("gone", 40, world.Position{})
	e := f.s.AddPerson(p, f.cities[0])
	if _, err := f.h.AddMember(f.cities[0], region.KindPerson, p.Name, e); err != nil {
		t.Fatalf("add member: %v", err)
	}
	f.h.RemoveMember(e)
	if err := f.s.RemovePerson(e); err != nil {
		t.Fatalf("remove: %v", err)
	}
	sum, err := Aggregate(f.h, f.cities[0], f.s)
	if err != nil {
		t.Fatalf("aggregate: %v", err)
	}
	if sum.Population != 0 || sum.Gold != 0 {
		t.Fatalf("expected empty city after sweep, got %d %d", sum.Population, sum.Gold)
	}
}

func TestAggregateRejectsLeavesAndUnknownNodes(t *testing.T) {
	f := newFixture(t)
	p := agents.NewPerson("p", 0, world.Position{})
	e := f.s.AddPerson(p, f.cities[0])
	leaf, err := f.h.AddMember(f.cities[0], region.KindPerson, p.Name, e)
	if err != nil {
		t.Fatalf("add member: %v", err)
	}
	if _, err := Aggregate(f.h, leaf, f.s); !errors.Is(err, ErrNotAggregatable) {
		t.Fatalf("expected ErrNotAggregatable, got %v", err)
	}
	if _, err := Aggregate(f.h, 999, f.s); !errors.Is(err, region.ErrUnknownNode) {
		t.Fatalf("expected ErrUnknownNode, got %v", err)
	}
}

func TestLinesSortedWithCatalog(t *testing.T) {
	f := newFixture(t)
	shop := economy.NewShop("full", world.Position{}, economy.DefaultCatalog(config.Default().Market), 0)
	e := f.s.AddShop(shop, f.cities[0])
	if _, err := f.h.AddMember(f.cities[0], region.KindShop, shop.Name, e); err != nil {
		t.Fatalf("add member: %v", err)
	}
	sum, err := Aggregate(f.h, f.cities[0], f.s)
	if err != nil {
		t.Fatalf("aggregate: %v", err)
	}
	lines := sum.Lines()
	if len(lines) != 6 || lines[0].Item != "Apple" || lines[5].Item != "Sword" {
		t.Fatalf("unexpected lines %+v", lines)
	}
	v := sum.View()
	if v.Kind != "city" || len(v.Items) != 6 {
		t.Fatalf("unexpected view %+v", v)
	}
}
