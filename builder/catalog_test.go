package builder_test

import (
	"math/rand"
	"strings"
	"testing"

	. "github.com/smartystreets/goconvey/convey"

	"github.com/tribalctl/scripted-ai/action"
	"github.com/tribalctl/scripted-ai/agentstate"
	"github.com/tribalctl/scripted-ai/behavior"
	"github.com/tribalctl/scripted-ai/builder"
	"github.com/tribalctl/scripted-ai/coordination"
	"github.com/tribalctl/scripted-ai/difficulty"
	"github.com/tribalctl/scripted-ai/envtest"
	"github.com/tribalctl/scripted-ai/option"
	"github.com/tribalctl/scripted-ai/pathfind"
	"github.com/tribalctl/scripted-ai/teamcache"
	"github.com/tribalctl/scripted-ai/worldenv"
)

func openGrid(n int) []string {
	rows := make([]string, n)
	for i := range rows {
		rows[i] = strings.Repeat(".", n)
	}
	return rows
}

func newBuilderDeps(env *envtest.Env, agent worldenv.AgentID) *behavior.Deps {
	return &behavior.Deps{
		Env:          env,
		Agent:        agent,
		Team:         1,
		Step:         0,
		State:        agentstate.New(),
		Rng:          rand.New(rand.NewSource(1)),
		Threats:      coordination.NewThreatMap(),
		Requests:     coordination.NewRequestRing(),
		Reservations: coordination.NewReservations(),
		Difficulty:   difficulty.New(difficulty.Normal),
		Path:         pathfind.New(),
		Buildings:    &teamcache.BuildingCounts{},
		Population:   &teamcache.Population{},
		AllyThreat:   &teamcache.AllyThreatCache{},
		Damaged:      &teamcache.DamagedBuildings{},
		CountTeamPopulation: func() int { return 1 },
	}
}

func TestBuildCatalogIsNonEmptyAndProducesValidActions(t *testing.T) {
	Convey("Given a villager with nothing built yet", t, func() {
		env := envtest.New(openGrid(24), nil)
		agent := worldenv.AgentID(1)
		env.SpawnAgent(agent, 1, worldenv.Pos{X: 12, Y: 12}, worldenv.ClassVillager, 25)
		env.SetStockpile(1, worldenv.Wood, 50)

		d := newBuilderDeps(env, agent)
		catalog := builder.Build(d)

		Convey("the catalog is non-empty", func() {
			So(len(catalog), ShouldBeGreaterThan, 0)
		})

		Convey("running it for several ticks never panics and only emits defined verbs", func() {
			state := option.NewRunState()
			So(func() {
				for step := 0; step < 30; step++ {
					d.Step = step
					cat := builder.Build(d)
					act := option.RunOptions(&state, cat)
					verb, _ := action.Decode(act)
					So(verb, ShouldBeBetweenOrEqual, action.Noop, action.SetRallyPoint)
				}
			}, ShouldNotPanic)
		})
	})

	Convey("Given a threat-reordered catalog", t, func() {
		env := envtest.New(openGrid(24), nil)
		agent := worldenv.AgentID(1)
		env.SpawnAgent(agent, 1, worldenv.Pos{X: 12, Y: 12}, worldenv.ClassVillager, 25)

		d := newBuilderDeps(env, agent)
		catalog := builder.BuildThreatReordered(d)

		Convey("it is also non-empty", func() {
			So(len(catalog), ShouldBeGreaterThan, 0)
		})
	})
}
