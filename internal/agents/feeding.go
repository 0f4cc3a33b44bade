package agents

import "github.com/talgya/mini-market/internal/economy"

// Feed resolves the Eating action: one unit of food is consumed and hunger
// restored by its nutritional value. With nothing to eat the action stays
// Eating. Reports whether a unit was eaten.
func Feed(p *Person, food economy.Item) bool {
	if !p.Alive || p.Action != ActionEating {
		return false
	}
	if p.Take(food.Key, 1) == 0 {
		return false
	}
	p.Hunger = clamp(p.Hunger+float64(food.NutritionalValue), 0, 100)
	p.Action = ActionIdle
	return true
}
