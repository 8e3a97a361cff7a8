package controller_test

import (
	"math/rand"
	"strings"
	"testing"

	. "github.com/smartystreets/goconvey/convey"

	"github.com/tribalctl/scripted-ai/controller"
	"github.com/tribalctl/scripted-ai/envtest"
	"github.com/tribalctl/scripted-ai/worldenv"
)

func openGrid(n int) []string {
	rows := make([]string, n)
	for i := range rows {
		rows[i] = strings.Repeat(".", n)
	}
	return rows
}

func newSkirmish(seed int64) (*controller.Controller, *envtest.Env, []worldenv.AgentID) {
	const size = 40
	env := envtest.New(openGrid(size), nil)

	left := worldenv.Pos{X: 8, Y: size / 2}
	right := worldenv.Pos{X: size - 8, Y: size / 2}
	env.PlaceThing(worldenv.Thing{Pos: left, Kind: worldenv.KindAltar, Team: 1})
	env.PlaceThing(worldenv.Thing{Pos: right, Kind: worldenv.KindAltar, Team: 2})
	env.SetStockpile(1, worldenv.Wood, 30)
	env.SetStockpile(1, worldenv.Food, 30)
	env.SetStockpile(2, worldenv.Wood, 30)
	env.SetStockpile(2, worldenv.Food, 30)

	var ids []worldenv.AgentID
	next := worldenv.AgentID(1)
	spawn := func(team worldenv.Team, center worldenv.Pos) {
		for i := 0; i < 4; i++ {
			env.SpawnAgent(next, team, center.Add(i, 0), worldenv.ClassVillager, 25)
			ids = append(ids, next)
			next++
		}
		env.SpawnAgent(next, team, center.Add(0, 1), worldenv.ClassMeleeLine, 40)
		ids = append(ids, next)
		next++
	}
	spawn(1, left)
	spawn(2, right)

	heartsOf := func(altar worldenv.Pos) (int, bool) {
		if t, ok := env.Thing(altar); ok && t.Kind == worldenv.KindAltar {
			return 20, true
		}
		return 0, false
	}

	ctl := controller.New(env, heartsOf, rand.New(rand.NewSource(seed)))
	return ctl, env, ids
}

func TestDispatchProducesOneActionPerAgent(t *testing.T) {
	Convey("Given a two-team skirmish", t, func() {
		ctl, _, ids := newSkirmish(1)

		Convey("Dispatch returns exactly one action per requested agent, in the same order", func() {
			acts := ctl.Dispatch(0, ids)
			So(len(acts), ShouldEqual, len(ids))
		})

		Convey("running many ticks never panics", func() {
			So(func() {
				for step := 0; step < 50; step++ {
					ctl.Dispatch(step, ids)
				}
			}, ShouldNotPanic)
		})
	})
}

func TestDispatchIsDeterministicForAFixedSeed(t *testing.T) {
	Convey("Given two controllers built from the same seed and scenario", t, func() {
		const steps = 30

		ctl1, _, ids1 := newSkirmish(42)
		ctl2, _, ids2 := newSkirmish(42)

		Convey("their action streams are identical tick for tick", func() {
			for step := 0; step < steps; step++ {
				a1 := ctl1.Dispatch(step, ids1)
				a2 := ctl2.Dispatch(step, ids2)
				So(a2, ShouldResemble, a1)
			}
		})
	})
}

func TestSnapshotReportsEveryTeam(t *testing.T) {
	Convey("Given a dispatched tick", t, func() {
		ctl, _, ids := newSkirmish(7)
		ctl.Dispatch(0, ids)

		Convey("Snapshot reports telemetry for both teams, sorted by team id", func() {
			snap := ctl.Snapshot(1)
			So(len(snap.Teams), ShouldEqual, 2)
			So(snap.Teams[0].Team, ShouldBeLessThan, snap.Teams[1].Team)
			for _, team := range snap.Teams {
				So(team.PopulationCount, ShouldBeGreaterThan, 0)
			}
		})
	})
}
