package economy

import (
	"testing"

	"github.com/talgya/mini-market/internal/config"
	"github.com/talgya/mini-market/internal/world"
)

func TestUpdatePriceFormula(t *testing.T) {
	cfg := config.Default().Market
	cases := []struct {
		name                          string
		old, sales, purchases, stock int
		want                          int
	}{
		// ratio 10/1 = 10 -> factor 1.9
		{"sales heavy", 10, 10, 0, 10, 19},
		// ratio 0 -> factor 0.9
		{"purchases only", 10, 0, 10, 10, 9},
		// ratio 5/6 -> factor 0.98333, scarcity -> 1.08167 -> 10.8 -> 11
		{"scarce stock", 10, 5, 5, 2, 11},
		// ratio 1 -> factor 1, glut -> 0.9
		{"glut", 20, 4, 3, 40, 18},
		// clamps at 1
		{"floor", 1, 0, 50, 100, 1},
	}
	for _, c := range cases {
		if got := UpdatePrice(c.old, c.sales, c.purchases, c.stock, cfg); got != c.want {
			t.Fatalf("%s: expected %d, got %d", c.name, c.want, got)
		}
	}
}

func TestRepriceOnTransactionThreshold(t *testing.T) {
	cfg := config.Default().Market
	shop := NewShop("Shop 0", world.Position{}, DefaultCatalog(cfg), 0)
	d, _ := shop.Details(Apple.Key)
	d.Sales = 10

	updated := shop.Reprice(1, cfg)
	if len(updated) != 1 || updated[0] != Apple.Key {
		t.Fatalf("expected only the apple to reprice, got %v", updated)
	}
	if d.Price != 19 {
		t.Fatalf("expected price 19, got %d", d.Price)
	}
	if d.Sales != 0 || d.Purchases != 0 {
		t.Fatalf("expected counters reset, got %d/%d", d.Sales, d.Purchases)
	}
	hist := shop.History[Apple.Key]
	if len(hist) != 2 || hist[1] != (PriceRecord{Time: 1, Price: 19}) {
		t.Fatalf("expected appended price record, got %v", hist)
	}
}

func TestRepriceOnRefreshWindow(t *testing.T) {
	cfg := config.Default().Market
	shop := NewShop("Shop 0", world.Position{}, []Listing{{Item: Apple, Price: 10, Stock: 10}}, 0)

	if got := shop.Reprice(cfg.RefreshWindow, cfg); len(got) != 0 {
		t.Fatalf("expected no repricing exactly at the window, got %v", got)
	}
	if got := shop.Reprice(cfg.RefreshWindow+0.1, cfg); len(got) != 1 {
		t.Fatalf("expected forced repricing after the window, got %v", got)
	}
	d, _ := shop.Details(Apple.Key)
	if d.Price != 9 {
		t.Fatalf("expected idle item to drift down to 9, got %d", d.Price)
	}
	if got := shop.Reprice(cfg.RefreshWindow+1, cfg); len(got) != 0 {
		t.Fatalf("expected window to restart after repricing, got %v", got)
	}
}

func TestInflation(t *testing.T) {
	got, ok := Inflation([]PriceRecord{{Time: 0, Price: 10}, {Time: 1, Price: 15}})
	if !ok || got != 50 {
		t.Fatalf("expected 50%%, got %v (%v)", got, ok)
	}
	if _, ok := Inflation([]PriceRecord{{Time: 0, Price: 10}}); ok {
		t.Fatalf("expected no inflation data for a single record")
	}
	if _, ok := Inflation([]PriceRecord{{Price: 0}, {Price: 4}}); ok {
		t.Fatalf("expected no inflation data for a zero first price")
	}
	if _, ok := Inflation(nil); ok {
		t.Fatalf("expected no inflation data for empty history")
	}
}

func TestNewShopSeedsHistoryAndClamps(t *testing.T) {
	shop := NewShop("s", world.Position{}, []Listing{{Item: Corn, Price: 0, Stock: -3}}, 5)
	d, ok := shop.Details(Corn.Key)
	if !ok || d.Price != 1 || d.Stock != 0 {
		t.Fatalf("expected clamped opening line, got %+v", d)
	}
	if len(shop.History[Corn.Key]) != 1 {
		t.Fatalf("expected opening price record")
	}
	for key := range shop.History {
		if _, ok := shop.Items[key]; !ok {
			t.Fatalf("history key %v missing from items", key)
		}
	}
}

func TestItemKeyIsStableAcrossPriceChanges(t *testing.T) {
	cfg := config.Default().Market
	shop := NewShop("s", world.Position{}, DefaultCatalog(cfg), 0)
	inventory := map[ItemKey]int{Apple.Key: 3}

	d, _ := shop.Details(Apple.Key)
	d.Sales = 20
	shop.Reprice(1, cfg)

	if inventory[Apple.Key] != 3 {
		t.Fatalf("expected inventory lookup unaffected by repricing")
	}
	if _, ok := shop.Details(Apple.Key); !ok {
		t.Fatalf("expected shop lookup unaffected by repricing")
	}
	if it, ok := Lookup(Apple.Key); !ok || it.NutritionalValue != 50 {
		t.Fatalf("expected catalog lookup of apple")
	}
}
