package agents

import (
	"math"
	"testing"

	"github.com/talgya/mini-market/internal/config"
	"github.com/talgya/mini-market/internal/world"
)

func TestHungerDecaysLinearlyAndClassificationFlipsAtThreshold(t *testing.T) {
	cfg := config.Default().Vitals
	p := NewPerson("Aldric Voss", 20, world.Position{})

	// 2.0/s * 0.5s = exactly 1 hunger per step.
	for step := 1; step <= 60; step++ {
		UpdateVitals(&p, cfg, 0.5)
		want := 100 - float64(step)
		if want < 0 {
			want = 0
		}
		if p.Hunger != want {
			t.Fatalf("step %d: expected hunger %v, got %v", step, want, p.Hunger)
		}
		wantState := Healthy
		if p.Hunger < cfg.HungryThreshold {
			wantState = Hungry
		}
		if p.State != wantState {
			t.Fatalf("step %d: hunger %v expected %s, got %s", step, p.Hunger, wantState, p.State)
		}
	}
}

func TestStarvationKillsAtZeroHealth(t *testing.T) {
	cfg := config.Default().Vitals
	p := NewPerson("Brenna Ashford", 20, world.Position{})
	p.Hunger = 0
	p.Health = 1.5

	UpdateVitals(&p, cfg, 1)
	if !p.Alive || p.Health != 0.5 {
		t.Fatalf("expected alive with 0.5 health, got alive=%v health=%v", p.Alive, p.Health)
	}
	UpdateVitals(&p, cfg, 1)
	if p.Alive || p.Health != 0 {
		t.Fatalf("expected death at zero health, got alive=%v health=%v", p.Alive, p.Health)
	}

	before := p
	UpdateVitals(&p, cfg, 10)
	if p.Hunger != before.Hunger || p.Health != before.Health {
		t.Fatalf("expected dead person to be inert")
	}
}

func TestFedPersonRecoversHealthUpTo100(t *testing.T) {
	cfg := config.Default().Vitals
	p := NewPerson("Calla Dunmore", 20, world.Position{})
	p.Health = 99.5

	UpdateVitals(&p, cfg, 1)
	if p.Health != 100 {
		t.Fatalf("expected health clamped at 100, got %v", p.Health)
	}
}

func TestUpdateEnergyPaths(t *testing.T) {
	cfg := config.Default().Vitals

	healthy := NewPerson("a", 0, world.Position{})
	healthy.Energy = 50
	UpdateEnergy(&healthy, cfg, 1)
	if healthy.Energy != 51 {
		t.Fatalf("healthy: expected 51, got %v", healthy.Energy)
	}

	hungry := NewPerson("b", 0, world.Position{})
	hungry.State = Hungry
	hungry.Hunger = 20
	hungry.Energy = 50
	UpdateEnergy(&hungry, cfg, 1)
	if math.Abs(hungry.Energy-50.7) > 1e-9 {
		t.Fatalf("hungry: expected 50.7, got %v", hungry.Energy)
	}

	starving := NewPerson("c", 0, world.Position{})
	starving.State = Hungry
	starving.Hunger = 0
	starving.Energy = 50
	starving.Health = 40
	UpdateEnergy(&starving, cfg, 1)
	if starving.Energy != 60 || starving.Health != 35 {
		t.Fatalf("starving: expected energy 60 health 35, got %v %v", starving.Energy, starving.Health)
	}

	drained := NewPerson("d", 0, world.Position{})
	drained.State = Hungry
	drained.Hunger = 0
	drained.Energy = 95
	drained.Health = 1
	UpdateEnergy(&drained, cfg, 1)
	if drained.Energy != 100 || drained.Health != 0 {
		t.Fatalf("expected energy clamp 100 and health floor 0, got %v %v", drained.Energy, drained.Health)
	}
}

func TestVitalsStayInRange(t *testing.T) {
	cfg := config.Default().Vitals
	p := NewPerson("e", 0, world.Position{})
	for i := 0; i < 2000 && p.Alive; i++ {
		UpdateVitals(&p, cfg, 0.1)
		UpdateEnergy(&p, cfg, 0.1)
		for name, v := range map[string]float64{"hunger": p.Hunger, "health": p.Health, "energy": p.Energy} {
			if v < 0 || v > 100 {
				t.Fatalf("tick %d: %s out of range: %v", i, name, v)
			}
		}
	}
	if p.Alive {
		t.Fatalf("expected an unfed person to starve eventually")
	}
}
