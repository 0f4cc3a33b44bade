// Package economy provides items, shops and the price engine.
package economy

import "github.com/talgya/mini-market/internal/config"

// Kind is the type tag of an item.
type Kind uint8

const (
	KindFood Kind = iota
	KindWeapon
)

func (k Kind) String() string {
	switch k {
	case KindFood:
		return "food"
	case KindWeapon:
		return "weapon"
	}
	return "unknown"
}

// ItemKey is the stable identity of an item: name plus type tag. Market
// state (price, stock, counters) lives in ItemDetails, never in the key,
// so a price change cannot split one item into two map entries.
type ItemKey struct {
	Name string `json:"name"`
	Kind Kind   `json:"kind"`
}

func (k ItemKey) String() string { return k.Name }

// Item is an ItemKey plus the attributes of its type tag.
type Item struct {
	Key              ItemKey
	NutritionalValue int // food only
	AttackDamage     int // weapons only
}

// IsFood reports whether the item can be eaten.
func (i Item) IsFood() bool { return i.Key.Kind == KindFood }

// Apple is the commodity persons plant, trade and eat.
var Apple = Item{Key: ItemKey{Name: "Apple", Kind: KindFood}, NutritionalValue: 50}

// Other goods every shop lists. Persons never trade them; they still go
// through repricing and statistics.
var (
	Sword  = Item{Key: ItemKey{Name: "Sword", Kind: KindWeapon}, AttackDamage: 12}
	Potion = Item{Key: ItemKey{Name: "Potion", Kind: KindFood}, NutritionalValue: 10}
	Armor  = Item{Key: ItemKey{Name: "Armor", Kind: KindWeapon}}
	Potato = Item{Key: ItemKey{Name: "Potato", Kind: KindFood}, NutritionalValue: 40}
	Corn   = Item{Key: ItemKey{Name: "Corn", Kind: KindFood}, NutritionalValue: 20}
)

// Listing is a shop's opening line for one item.
type Listing struct {
	Item  Item
	Price int
	Stock int
}

// DefaultCatalog returns the opening listings for a new shop. The apple line
// follows the configured start price and stock.
func DefaultCatalog(cfg config.Market) []Listing {
	return []Listing{
		{Item: Apple, Price: cfg.StartPrice, Stock: cfg.StartStock},
		{Item: Sword, Price: 50, Stock: 10},
		{Item: Potion, Price: 10, Stock: 20},
		{Item: Armor, Price: 100, Stock: 5},
		{Item: Potato, Price: 5, Stock: 100},
		{Item: Corn, Price: 1, Stock: 0},
	}
}

// Lookup finds a catalog item by key.
func Lookup(key ItemKey) (Item, bool) {
	for _, it := range []Item{Apple, Sword, Potion, Armor, Potato, Corn} {
		if it.Key == key {
			return it, true
		}
	}
	return Item{}, false
}
