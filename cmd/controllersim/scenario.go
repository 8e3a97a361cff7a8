package main

import (
	"math/rand"
	"strings"

	"github.com/tribalctl/scripted-ai/controller"
	"github.com/tribalctl/scripted-ai/envtest"
	"github.com/tribalctl/scripted-ai/worldenv"
)

// scenario is a small deterministic two-team skirmish: each team gets an
// altar, a stockpile, and a mixed villager/fighter roster on opposite sides
// of an open map. It exists only to give the CLI something concrete to
// dispatch ticks against; the interesting behavior lives in the role
// catalogs, not here.
type scenario struct {
	env      *envtest.Env
	agentIDs []worldenv.AgentID
	ctl      *controller.Controller
}

const scenarioSize = 48

func buildScenario(seed int64) *scenario {
	rows := make([]string, scenarioSize)
	for i := range rows {
		rows[i] = strings.Repeat(".", scenarioSize)
	}
	env := envtest.New(rows, nil)

	left := worldenv.Pos{X: 8, Y: scenarioSize / 2}
	right := worldenv.Pos{X: scenarioSize - 8, Y: scenarioSize / 2}
	env.PlaceThing(worldenv.Thing{Pos: left, Kind: worldenv.KindAltar, Team: 1})
	env.PlaceThing(worldenv.Thing{Pos: right, Kind: worldenv.KindAltar, Team: 2})
	env.SetStockpile(1, worldenv.Wood, 40)
	env.SetStockpile(1, worldenv.Food, 40)
	env.SetStockpile(2, worldenv.Wood, 40)
	env.SetStockpile(2, worldenv.Food, 40)

	var ids []worldenv.AgentID
	next := worldenv.AgentID(1)
	spawnRoster := func(team worldenv.Team, center worldenv.Pos) {
		for i := 0; i < 6; i++ {
			env.SpawnAgent(next, team, center.Add(i%3, i/3), worldenv.ClassVillager, 25)
			ids = append(ids, next)
			next++
		}
		for i := 0; i < 3; i++ {
			env.SpawnAgent(next, team, center.Add(-i, 1), worldenv.ClassMeleeLine, 40)
			ids = append(ids, next)
			next++
		}
	}
	spawnRoster(1, left)
	spawnRoster(2, right)

	heartsOf := func(altar worldenv.Pos) (int, bool) {
		if t, ok := env.Thing(altar); ok && t.Kind == worldenv.KindAltar {
			return 20, true
		}
		return 0, false
	}

	ctl := controller.New(env, heartsOf, rand.New(rand.NewSource(seed)))
	return &scenario{env: env, agentIDs: ids, ctl: ctl}
}
