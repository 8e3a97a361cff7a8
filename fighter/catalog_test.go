package fighter_test

import (
	"math/rand"
	"strings"
	"testing"

	. "github.com/smartystreets/goconvey/convey"

	"github.com/tribalctl/scripted-ai/action"
	"github.com/tribalctl/scripted-ai/agentstate"
	"github.com/tribalctl/scripted-ai/behavior"
	"github.com/tribalctl/scripted-ai/coordination"
	"github.com/tribalctl/scripted-ai/difficulty"
	"github.com/tribalctl/scripted-ai/envtest"
	"github.com/tribalctl/scripted-ai/fighter"
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

func newFighterDeps(env *envtest.Env, agent worldenv.AgentID) *behavior.Deps {
	return &behavior.Deps{
		Env:          env,
		Agent:        agent,
		Team:         1,
		Step:         0,
		State:        agentstate.New(),
		Rng:          rand.New(rand.NewSource(2)),
		Threats:      coordination.NewThreatMap(),
		Requests:     coordination.NewRequestRing(),
		Reservations: coordination.NewReservations(),
		Difficulty:   difficulty.New(difficulty.Hard),
		Path:         pathfind.New(),
		Buildings:    &teamcache.BuildingCounts{},
		Population:   &teamcache.Population{},
		AllyThreat:   &teamcache.AllyThreatCache{},
		Damaged:      &teamcache.DamagedBuildings{},
		CountTeamPopulation: func() int { return 2 },
	}
}

func TestFighterCatalogAgainstALoneEnemy(t *testing.T) {
	Convey("Given a melee fighter with a nearby enemy", t, func() {
		env := envtest.New(openGrid(30), nil)
		me := worldenv.AgentID(1)
		enemy := worldenv.AgentID(2)
		env.SpawnAgent(me, 1, worldenv.Pos{X: 10, Y: 10}, worldenv.ClassMeleeLine, 40)
		env.SpawnAgent(enemy, 2, worldenv.Pos{X: 11, Y: 10}, worldenv.ClassMeleeLine, 40)

		d := newFighterDeps(env, me)
		catalog := fighter.Build(d)

		Convey("the catalog is non-empty", func() {
			So(len(catalog), ShouldBeGreaterThan, 0)
		})

		Convey("driving it for several ticks never panics and only emits defined verbs", func() {
			state := option.NewRunState()
			So(func() {
				for step := 0; step < 30; step++ {
					d.Step = step
					cat := fighter.Build(d)
					act := option.RunOptions(&state, cat)
					verb, _ := action.Decode(act)
					So(verb, ShouldBeBetweenOrEqual, action.Noop, action.SetRallyPoint)
				}
			}, ShouldNotPanic)
		})
	})

	Convey("Given a fighter with no enemies in sight", t, func() {
		env := envtest.New(openGrid(30), nil)
		me := worldenv.AgentID(1)
		env.SpawnAgent(me, 1, worldenv.Pos{X: 15, Y: 15}, worldenv.ClassMeleeLine, 40)

		d := newFighterDeps(env, me)

		Convey("the catalog still produces a non-panicking action every tick (falling back to wander/patrol)", func() {
			state := option.NewRunState()
			So(func() {
				for step := 0; step < 20; step++ {
					d.Step = step
					act := option.RunOptions(&state, fighter.Build(d))
					_ = act
				}
			}, ShouldNotPanic)
		})
	})
}
