package agents

import (
	"testing"

	"github.com/talgya/mini-market/internal/config"
)

func fixedDraw(v float64) func() float64 {
	return func() float64 { return v }
}

func TestDecideRules(t *testing.T) {
	cfg := config.Default().Behavior
	cases := []struct {
		name string
		in   DecisionInput
		draw float64
		want Action
	}{
		{"sell when poor and holding", DecisionInput{Alive: true, State: Healthy, Held: 3, Gold: 10}, 0.9, ActionSelling},
		{"eat when hungry and holding", DecisionInput{Alive: true, State: Hungry, Held: 2, Gold: 10}, 0.9, ActionEating},
		{"buy when hungry, empty and rich", DecisionInput{Alive: true, State: Hungry, Held: 0, Gold: 50}, 0.9, ActionBuying},
		{"plant when poor and empty", DecisionInput{Alive: true, State: Healthy, Held: 0, Gold: 10}, 0.9, ActionPlanting},
		{"plant overrides when hungry poor and empty", DecisionInput{Alive: true, State: Hungry, Held: 0, Gold: 10}, 0.9, ActionPlanting},
		{"rich and empty stays idle", DecisionInput{Alive: true, State: Healthy, Held: 0, Gold: 50}, 0.9, ActionIdle},
		{"rich holder plants on lucky draw", DecisionInput{Alive: true, State: Healthy, Held: 2, Gold: 50}, 0.01, ActionPlanting},
		{"rich holder idles on unlucky draw", DecisionInput{Alive: true, State: Healthy, Held: 2, Gold: 50}, 0.5, ActionIdle},
		{"last rule overwrites eating", DecisionInput{Alive: true, State: Hungry, Held: 2, Gold: 50}, 0.01, ActionPlanting},
		{"eating kept on unlucky draw", DecisionInput{Alive: true, State: Hungry, Held: 2, Gold: 50}, 0.9, ActionEating},
		{"gold exactly at threshold", DecisionInput{Alive: true, State: Hungry, Held: 0, Gold: 30}, 0.9, ActionIdle},
		{"busy person not interrupted", DecisionInput{Alive: true, State: Hungry, Action: ActionPlanting, Held: 2}, 0.01, ActionPlanting},
		{"dead person skipped", DecisionInput{Alive: false, State: Hungry, Held: 2, Gold: 5, Action: ActionIdle}, 0.01, ActionIdle},
	}
	for _, c := range cases {
		if got := Decide(c.in, cfg, fixedDraw(c.draw)); got != c.want {
			t.Fatalf("%s: expected %s, got %s", c.name, c.want, got)
		}
	}
}

func TestDecideDrawsOnlyForPlantingGamble(t *testing.T) {
	cfg := config.Default().Behavior
	noDraw := func() float64 {
		t.Fatalf("draw consulted outside the planting gamble")
		return 0
	}
	Decide(DecisionInput{Alive: true, State: Healthy, Held: 3, Gold: 10}, cfg, noDraw)
	Decide(DecisionInput{Alive: true, State: Hungry, Held: 0, Gold: 50}, cfg, noDraw)
	Decide(DecisionInput{Alive: true, State: Healthy, Held: 5, Gold: 30}, cfg, noDraw)
}
