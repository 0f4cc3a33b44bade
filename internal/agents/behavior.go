// Reasoning policy: picks the next action for an idle person.
// Every rule is checked in order against the same input and the last
// matching rule wins.
package agents

import "github.com/talgya/mini-market/internal/config"

// DecisionInput is everything the policy reads.
type DecisionInput struct {
	Alive  bool
	State  Classification
	Action Action
	Held   int // units of the traded commodity
	Gold   uint64
}

// InputOf builds the policy input for p holding held units of the commodity.
func InputOf(p *Person, held int) DecisionInput {
	return DecisionInput{
		Alive:  p.Alive,
		State:  p.State,
		Action: p.Action,
		Held:   held,
		Gold:   p.Gold,
	}
}

// Decide returns the next action. A dead or busy person keeps its current
// action. draw is consulted only when the planting gamble applies.
func Decide(in DecisionInput, cfg config.Behavior, draw func() float64) Action {
	if !in.Alive || in.Action != ActionIdle {
		return in.Action
	}

	threshold := cfg.GoldThreshold
	next := ActionIdle

	if in.State == Healthy && in.Held >= 1 && in.Gold < threshold {
		next = ActionSelling
	}
	if in.State == Hungry && in.Held >= 1 {
		next = ActionEating
	}
	if in.State == Hungry && in.Held == 0 && in.Gold > threshold {
		next = ActionBuying
	}
	if in.Gold < threshold && in.Held == 0 {
		next = ActionPlanting
	}
	if in.Gold > threshold && in.Held >= 1 && draw() < cfg.PlantingChance {
		next = ActionPlanting
	}

	return next
}
