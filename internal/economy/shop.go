package economy

import (
	"sort"

	"github.com/talgya/mini-market/internal/world"
)

// ItemDetails is a shop's market state for one item.
type ItemDetails struct {
	Price     int `json:"price"` // >= 1
	Stock     int `json:"stock"`
	Sales     int `json:"sales"`     // units sold to the shop since last repricing
	Purchases int `json:"purchases"` // units bought from the shop since last repricing

	LastRepriced float64 `json:"last_repriced"` // simulated seconds
}

// PriceRecord is one append-only price sample.
type PriceRecord struct {
	Time  float64 `json:"time"`
	Price int     `json:"price"`
}

// Shop is a trading post. Items and History are keyed by the stable
// ItemKey; every key in History is also in Items.
type Shop struct {
	Name     string
	Position world.Position
	Items    map[ItemKey]*ItemDetails
	History  map[ItemKey][]PriceRecord
}

// NewShop opens a shop with listings. Each listing's opening price is the
// first record of its history.
func NewShop(name string, pos world.Position, listings []Listing, now float64) Shop {
	s := Shop{
		Name:     name,
		Position: pos,
		Items:    make(map[ItemKey]*ItemDetails, len(listings)),
		History:  make(map[ItemKey][]PriceRecord, len(listings)),
	}
	for _, l := range listings {
		price := l.Price
		if price < 1 {
			price = 1
		}
		stock := l.Stock
		if stock < 0 {
			stock = 0
		}
		s.Items[l.Item.Key] = &ItemDetails{Price: price, Stock: stock, LastRepriced: now}
		s.History[l.Item.Key] = []PriceRecord{{Time: now, Price: price}}
	}
	return s
}

// Details returns the shop's state for key.
func (s *Shop) Details(key ItemKey) (*ItemDetails, bool) {
	d, ok := s.Items[key]
	return d, ok
}

// Keys returns the shop's item keys sorted by name, for stable iteration.
func (s *Shop) Keys() []ItemKey {
	keys := make([]ItemKey, 0, len(s.Items))
	for k := range s.Items {
		keys = append(keys, k)
	}
	sort.Slice(keys, func(i, j int) bool {
		if keys[i].Name != keys[j].Name {
			return keys[i].Name < keys[j].Name
		}
		return keys[i].Kind < keys[j].Kind
	})
	return keys
}

// Inflation returns the shop's inflation for key, see Inflation.
func (s *Shop) Inflation(key ItemKey) (float64, bool) {
	return Inflation(s.History[key])
}

// Inflation is the percentage change between the first and the last record.
// It is undefined with fewer than two records or a zero first price.
func Inflation(history []PriceRecord) (float64, bool) {
	if len(history) < 2 {
		return 0, false
	}
	first := history[0].Price
	if first == 0 {
		return 0, false
	}
	last := history[len(history)-1].Price
	return float64(last-first) / float64(first) * 100, true
}
