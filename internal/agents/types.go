// Package agents provides the person model and the per-person processes:
// vitals, energy, reasoning, planting and feeding.
package agents

import (
	"github.com/talgya/mini-market/internal/economy"
	"github.com/talgya/mini-market/internal/world"
)

// Classification is derived every tick from the hunger level.
type Classification uint8

const (
	Healthy Classification = iota
	Hungry
)

func (c Classification) String() string {
	if c == Hungry {
		return "hungry"
	}
	return "healthy"
}

// Action is the person's current behavioural mode. The process systems act
// on it; only the reasoning policy moves a person out of Idle.
type Action uint8

const (
	ActionIdle Action = iota
	ActionWalking
	ActionEating
	ActionHungry
	ActionPlanting
	ActionBuying
	ActionSelling
)

var actionNames = [...]string{"idle", "walking", "eating", "hungry", "planting", "buying", "selling"}

func (a Action) String() string {
	if int(a) < len(actionNames) {
		return actionNames[a]
	}
	return "unknown"
}

// Inventory counts held units per stable item identity.
type Inventory map[economy.ItemKey]int

// Person is the simulated agent.
type Person struct {
	Name string `json:"name"`

	// Vitals, all in [0, 100].
	Health float64 `json:"health"`
	Hunger float64 `json:"hunger"` // 100 = sated, 0 = starving
	Energy float64 `json:"energy"`

	State  Classification `json:"state"`
	Action Action         `json:"action"`

	Gold      uint64    `json:"gold"`
	Inventory Inventory `json:"inventory"`

	PlantingTime float64 `json:"planting_time"` // seconds spent in the current planting run

	Position world.Position `json:"position"`
	Alive    bool           `json:"alive"`
}

// NewPerson returns a fully sated, idle, living person.
func NewPerson(name string, gold uint64, pos world.Position) Person {
	return Person{
		Name:      name,
		Health:    100,
		Hunger:    100,
		Energy:    100,
		State:     Healthy,
		Action:    ActionIdle,
		Gold:      gold,
		Inventory: make(Inventory),
		Position:  pos,
		Alive:     true,
	}
}

// Holding returns how many units of key the person holds. A missing entry
// counts as zero.
func (p *Person) Holding(key economy.ItemKey) int {
	return p.Inventory[key]
}

// Give adds n units of key to the inventory.
func (p *Person) Give(key economy.ItemKey, n int) {
	if p.Inventory == nil {
		p.Inventory = make(Inventory)
	}
	p.Inventory[key] += n
}

// Take removes up to n units of key and returns how many were removed.
func (p *Person) Take(key economy.ItemKey, n int) int {
	held := p.Inventory[key]
	if n > held {
		n = held
	}
	if n <= 0 {
		return 0
	}
	p.Inventory[key] = held - n
	return n
}

func clamp(v, lo, hi float64) float64 {
	if v < lo {
		return lo
	}
	if v > hi {
		return hi
	}
	return v
}
