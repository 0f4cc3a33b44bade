package agents

import (
	"github.com/talgya/mini-market/internal/config"
	"github.com/talgya/mini-market/internal/economy"
)

// Plant advances the planting timer by dt. A run that reaches the configured
// duration yields the harvest and returns the person to Idle. Any other
// action resets the timer, so interrupted runs earn nothing. Reports whether
// a harvest happened.
func Plant(p *Person, crop economy.ItemKey, cfg config.Behavior, dt float64) bool {
	if !p.Alive {
		return false
	}
	if p.Action != ActionPlanting {
		p.PlantingTime = 0
		return false
	}

	p.PlantingTime += dt
	if p.PlantingTime < cfg.PlantingDuration {
		return false
	}

	p.Give(crop, cfg.PlantingYield)
	p.PlantingTime = 0
	p.Action = ActionIdle
	return true
}
