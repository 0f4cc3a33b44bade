// Package stats rolls per-entity metrics up the containment hierarchy.
// Nothing is cached: every call walks the tree from the requested node down
// to the leaves and folds the values back up.
package stats

import (
	"errors"
	"fmt"
	"sort"

	"github.com/mlange-42/ark/ecs"

	"github.com/talgya/mini-market/internal/agents"
	"github.com/talgya/mini-market/internal/economy"
	"github.com/talgya/mini-market/internal/region"
)

// ErrNotAggregatable is returned for person and shop leaves.
var ErrNotAggregatable = errors.New("node has no aggregate")

// Lookup resolves leaf entities to their components. A nil result means
// the entity is gone.
type Lookup interface {
	Person(e ecs.Entity) *agents.Person
	Shop(e ecs.Entity) *economy.Shop
}

// ItemAggregate accumulates one item across shops.
type ItemAggregate struct {
	Shops     int // shops listing the item
	InStock   int // shops with stock > 0
	Stock     int
	PriceSum  int
	Sales     int
	Purchases int

	InflationSum     float64
	InflationSamples int // shops whose history defines an inflation
}

func (a *ItemAggregate) merge(b *ItemAggregate) {
	a.Shops += b.Shops
	a.InStock += b.InStock
	a.Stock += b.Stock
	a.PriceSum += b.PriceSum
	a.Sales += b.Sales
	a.Purchases += b.Purchases
	a.InflationSum += b.InflationSum
	a.InflationSamples += b.InflationSamples
}

func perShop(v, shops int) float64 {
	if shops == 0 {
		return 0
	}
	return float64(v) / float64(shops)
}

func (a *ItemAggregate) AvgStock() float64     { return perShop(a.Stock, a.Shops) }
func (a *ItemAggregate) AvgPrice() float64     { return perShop(a.PriceSum, a.Shops) }
func (a *ItemAggregate) AvgSales() float64     { return perShop(a.Sales, a.Shops) }
func (a *ItemAggregate) AvgPurchases() float64 { return perShop(a.Purchases, a.Shops) }

// AvgInflation is the mean inflation over shops that have one. The second
// result is false when no shop does.
func (a *ItemAggregate) AvgInflation() (float64, bool) {
	if a.InflationSamples == 0 {
		return 0, false
	}
	return a.InflationSum / float64(a.InflationSamples), true
}

// Summary is the aggregate of one country, state or city.
type Summary struct {
	Node region.NodeID
	Kind region.Kind
	Name string

	Population int // live persons
	Dead       int // dead persons not yet swept
	Gold       uint64
	HungerSum  float64
	HealthSum  float64
	EnergySum  float64

	Shops int
	Items map[economy.ItemKey]*ItemAggregate
}

func newSummary(n *region.Node) Summary {
	return Summary{
		Node:  n.ID,
		Kind:  n.Kind,
		Name:  n.Name,
		Items: make(map[economy.ItemKey]*ItemAggregate),
	}
}

func perPerson(v float64, n int) float64 {
	if n == 0 {
		return 0
	}
	return v / float64(n)
}

func (s Summary) AvgGold() float64   { return perPerson(float64(s.Gold), s.Population) }
func (s Summary) AvgHunger() float64 { return perPerson(s.HungerSum, s.Population) }
func (s Summary) AvgHealth() float64 { return perPerson(s.HealthSum, s.Population) }
func (s Summary) AvgEnergy() float64 { return perPerson(s.EnergySum, s.Population) }

// Item returns the aggregate for key, zero-valued if no shop lists it.
func (s Summary) Item(key economy.ItemKey) ItemAggregate {
	if a, ok := s.Items[key]; ok {
		return *a
	}
	return ItemAggregate{}
}

func (s *Summary) merge(child Summary) {
	s.Population += child.Population
	s.Dead += child.Dead
	s.Gold += child.Gold
	s.HungerSum += child.HungerSum
	s.HealthSum += child.HealthSum
	s.EnergySum += child.EnergySum
	s.Shops += child.Shops
	for key, a := range child.Items {
		s.item(key).merge(a)
	}
}

func (s *Summary) item(key economy.ItemKey) *ItemAggregate {
	a, ok := s.Items[key]
	if !ok {
		a = &ItemAggregate{}
		s.Items[key] = a
	}
	return a
}

func (s *Summary) addPerson(p *agents.Person) {
	if !p.Alive {
		s.Dead++
		return
	}
	s.Population++
	s.Gold += p.Gold
	s.HungerSum += p.Hunger
	s.HealthSum += p.Health
	s.EnergySum += p.Energy
}

func (s *Summary) addShop(shop *economy.Shop) {
	s.Shops++
	for key, d := range shop.Items {
		a := s.item(key)
		a.Shops++
		if d.Stock > 0 {
			a.InStock++
		}
		a.Stock += d.Stock
		a.PriceSum += d.Price
		a.Sales += d.Sales
		a.Purchases += d.Purchases
		if inf, ok := shop.Inflation(key); ok {
			a.InflationSum += inf
			a.InflationSamples++
		}
	}
}

// Aggregate computes the summary of node id. Cities fold their persons and
// shops; states and countries fold their children's summaries.
func Aggregate(h *region.Hierarchy, id region.NodeID, lookup Lookup) (Summary, error) {
	n, ok := h.Node(id)
	if !ok {
		return Summary{}, fmt.Errorf("%w: %d", region.ErrUnknownNode, id)
	}

	switch n.Kind {
	case region.KindCity:
		sum := newSummary(n)
		for _, cid := range n.Children {
			leaf, ok := h.Node(cid)
			if !ok {
				continue
			}
			switch leaf.Kind {
			case region.KindPerson:
				if p := lookup.Person(leaf.Entity); p != nil {
					sum.addPerson(p)
				}
			case region.KindShop:
				if shop := lookup.Shop(leaf.Entity); shop != nil {
					sum.addShop(shop)
				}
			}
		}
		return sum, nil

	case region.KindState, region.KindCountry:
		sum := newSummary(n)
		for _, cid := range n.Children {
			child, err := Aggregate(h, cid, lookup)
			if err != nil {
				return Summary{}, err
			}
			sum.merge(child)
		}
		return sum, nil
	}

	return Summary{}, fmt.Errorf("%w: %s %d", ErrNotAggregatable, n.Kind, id)
}

// World folds every country into one summary.
func World(h *region.Hierarchy, lookup Lookup) (Summary, error) {
	sum := Summary{Node: region.NoParent, Name: "world", Items: make(map[economy.ItemKey]*ItemAggregate)}
	for _, id := range h.Countries() {
		c, err := Aggregate(h, id, lookup)
		if err != nil {
			return Summary{}, err
		}
		sum.merge(c)
	}
	return sum, nil
}

// ItemLine is the per-shop average view of one item.
type ItemLine struct {
	Item         string  `json:"item"`
	Shops        int     `json:"shops"`
	InStock      int     `json:"in_stock"`
	AvgStock     float64 `json:"avg_stock"`
	AvgPrice     float64 `json:"avg_price"`
	AvgSales     float64 `json:"avg_sales"`
	AvgPurchases float64 `json:"avg_purchases"`
	Inflation    float64 `json:"inflation"`
	HasInflation bool    `json:"has_inflation"`
}

// Lines returns one ItemLine per item, sorted by item name.
func (s Summary) Lines() []ItemLine {
	lines := make([]ItemLine, 0, len(s.Items))
	for key, a := range s.Items {
		inf, ok := a.AvgInflation()
		lines = append(lines, ItemLine{
			Item:         key.Name,
			Shops:        a.Shops,
			InStock:      a.InStock,
			AvgStock:     a.AvgStock(),
			AvgPrice:     a.AvgPrice(),
			AvgSales:     a.AvgSales(),
			AvgPurchases: a.AvgPurchases(),
			Inflation:    inf,
			HasInflation: ok,
		})
	}
	sort.Slice(lines, func(i, j int) bool { return lines[i].Item < lines[j].Item })
	return lines
}

// View is the JSON form of a Summary.
type View struct {
	Node       region.NodeID `json:"node"`
	Kind       string        `json:"kind"`
	Name       string        `json:"name"`
	Population int           `json:"population"`
	Dead       int           `json:"dead"`
	TotalGold  uint64        `json:"total_gold"`
	AvgGold    float64       `json:"avg_gold"`
	AvgHunger  float64       `json:"avg_hunger"`
	AvgHealth  float64       `json:"avg_health"`
	AvgEnergy  float64       `json:"avg_energy"`
	Shops      int           `json:"shops"`
	Items      []ItemLine    `json:"items"`
}

// View flattens s for serialization.
func (s Summary) View() View {
	kind := s.Kind.String()
	if s.Node == region.NoParent {
		kind = "world"
	}
	return View{
		Node:       s.Node,
		Kind:       kind,
		Name:       s.Name,
		Population: s.Population,
		Dead:       s.Dead,
		TotalGold:  s.Gold,
		AvgGold:    s.AvgGold(),
		AvgHunger:  s.AvgHunger(),
		AvgHealth:  s.AvgHealth(),
		AvgEnergy:  s.AvgEnergy(),
		Shops:      s.Shops,
		Items:      s.Lines(),
	}
}
