package agents

import "github.com/talgya/mini-market/internal/config"

// Classify returns Hungry when hunger is below threshold, Healthy otherwise.
func Classify(hunger, threshold float64) Classification {
	if hunger < threshold {
		return Hungry
	}
	return Healthy
}

// UpdateVitals decays hunger over dt seconds. A starving person loses
// health and dies when it reaches zero; a fed one recovers. The
// classification is recomputed every call.
func UpdateVitals(p *Person, cfg config.Vitals, dt float64) {
	if !p.Alive {
		return
	}

	p.Hunger = clamp(p.Hunger-cfg.HungerDecayRate*dt, 0, 100)

	if p.Hunger == 0 {
		p.Health -= cfg.StarvationRate * dt
		if p.Health <= 0 {
			p.Health = 0
			p.Alive = false
		}
	} else {
		p.Health = clamp(p.Health+cfg.HealthRecoveryRate*dt, 0, 100)
	}

	p.State = Classify(p.Hunger, cfg.HungryThreshold)
}

// UpdateEnergy restores energy according to the classification. A starving
// hungry person recovers fast but pays for it in health.
func UpdateEnergy(p *Person, cfg config.Vitals, dt float64) {
	if !p.Alive {
		return
	}

	switch p.State {
	case Healthy:
		p.Energy += cfg.EnergyHealthyRate * dt
	case Hungry:
		if p.Hunger == 0 {
			boost := cfg.EnergyStarvingRate * dt
			p.Energy += boost
			p.Health = clamp(p.Health-boost*cfg.StarvingHealthCost, 0, 100)
		} else {
			p.Energy += cfg.EnergyHungryRate * dt
		}
	}

	if p.Energy > 100 {
		p.Energy = 100
	}
}
