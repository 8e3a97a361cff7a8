// Package gatherer implements the villager gathering role's option catalog
// (spec.md §4.5): sub-task selection with hysteresis, flee/heal/trade
// behaviors shared with other roles, camp/granary construction thresholds,
// and the food/wood/stone/gold gathering loop itself.
package gatherer

import (
	"github.com/tribalctl/scripted-ai/agentstate"
	"github.com/tribalctl/scripted-ai/behavior"
	"github.com/tribalctl/scripted-ai/limits"
	"github.com/tribalctl/scripted-ai/worldenv"
)

// PhaseWeights is the early/mid/late resource-priority table (§4.5): lower
// divides the effective stockpile, so lower means higher priority. Exported
// so package config can override the defaults from its tunables YAML.
type PhaseWeights struct {
	Food, Wood, Stone, Gold float64
}

// EarlyWeights, MidWeights and LateWeights are the active phase tables.
// config.Root.ApplyGathererWeights overwrites these at startup when the
// operator's tunables file sets a weights section.
var (
	EarlyWeights = PhaseWeights{Food: 0.5, Wood: 0.75, Stone: 1.0, Gold: 1.5}
	MidWeights   = PhaseWeights{Food: 1.0, Wood: 1.0, Stone: 1.0, Gold: 1.0}
	LateWeights  = PhaseWeights{Food: 1.5, Wood: 1.0, Stone: 0.75, Gold: 0.5}
)

func weightsForProgress(progress float64) PhaseWeights {
	switch {
	case progress < 0.33:
		return EarlyWeights
	case progress >= 0.66:
		return LateWeights
	default:
		return MidWeights
	}
}

func weightFor(w PhaseWeights, res worldenv.Resource) float64 {
	switch res {
	case worldenv.Food:
		return w.Food
	case worldenv.Wood:
		return w.Wood
	case worldenv.Stone:
		return w.Stone
	case worldenv.Gold:
		return w.Gold
	default:
		return 1
	}
}

func taskForResource(res worldenv.Resource) agentstate.GathererTask {
	switch res {
	case worldenv.Food:
		return agentstate.TaskFood
	case worldenv.Wood:
		return agentstate.TaskWood
	case worldenv.Stone:
		return agentstate.TaskStone
	case worldenv.Gold:
		return agentstate.TaskGold
	default:
		return agentstate.TaskNone
	}
}

func resourceForTask(t agentstate.GathererTask) (worldenv.Resource, bool) {
	switch t {
	case agentstate.TaskFood:
		return worldenv.Food, true
	case agentstate.TaskWood:
		return worldenv.Wood, true
	case agentstate.TaskStone:
		return worldenv.Stone, true
	case agentstate.TaskGold:
		return worldenv.Gold, true
	default:
		return 0, false
	}
}

// score returns the weighted score for res: lower is more urgent. Stockpile
// is divided by the phase weight (so a scarce, high-priority resource scores
// low), then a flow-rate penalty is applied when the resource is draining.
func score(stockpile int, w PhaseWeights, res worldenv.Resource, flow float64) float64 {
	s := float64(stockpile) / weightFor(w, res)
	if flow < -0.1 {
		s *= 0.5
	}
	return s
}

// HomeAltarHearts returns the hearts count of the altar at the given position
// and whether that altar is known. The environment has no direct "hearts"
// accessor in this spec's contract, so callers supply it; it may return
// (0, false) when no altar is known yet.
type HomeAltarHearts func(altar worldenv.Pos) (hearts int, known bool)

// UpdateTask recomputes d.State.GathererTask for this tick, applying the
// bottleneck override, the hearts check, the weighted-score selection, and
// the anti-oscillation hysteresis (spec.md §4.5, §8 S6).
func UpdateTask(d *behavior.Deps, heartsOf HomeAltarHearts) {
	switch d.Env.CurrentBottleneck(d.Team) {
	case worldenv.FoodCritical:
		d.State.GathererTask = agentstate.TaskFood
		return
	case worldenv.WoodCritical:
		d.State.GathererTask = agentstate.TaskWood
		return
	}

	altar := d.Env.AgentHomeAltar(d.Agent)
	if hearts, known := heartsOf(altar); known && hearts < 10 {
		d.State.GathererTask = agentstate.TaskHearts
		return
	}

	progress := 0.0
	if max := d.Env.MaxSteps(); max > 0 {
		progress = float64(d.Step) / float64(max)
	}
	w := weightsForProgress(progress)
	flow := d.Env.FlowRate(d.Team)

	type candidate struct {
		res   worldenv.Resource
		score float64
	}
	cands := make([]candidate, 0, 4)
	for _, res := range []worldenv.Resource{worldenv.Food, worldenv.Wood, worldenv.Stone, worldenv.Gold} {
		s := score(d.Env.StockpileCount(d.Team, res), w, res, flow[res])
		cands = append(cands, candidate{res: res, score: s})
	}
	best := cands[0]
	for _, c := range cands[1:] {
		if c.score < best.score {
			best = c
		}
	}

	bestTask := taskForResource(best.res)
	if d.State.GathererTask == agentstate.TaskNone || d.State.GathererTask == agentstate.TaskHearts {
		d.State.GathererTask = bestTask
		return
	}
	currentRes, ok := resourceForTask(d.State.GathererTask)
	if !ok {
		d.State.GathererTask = bestTask
		return
	}
	var currentScore float64
	for _, c := range cands {
		if c.res == currentRes {
			currentScore = c.score
		}
	}
	if currentScore-best.score >= limits.TaskSwitchHysteresis {
		d.State.GathererTask = bestTask
	}
}
