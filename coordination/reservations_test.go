package coordination_test

import (
	"testing"

	. "github.com/smartystreets/goconvey/convey"

	"github.com/tribalctl/scripted-ai/coordination"
	"github.com/tribalctl/scripted-ai/envtest"
	"github.com/tribalctl/scripted-ai/worldenv"
)

func TestReservations(t *testing.T) {
	Convey("Given a Reservations store", t, func() {
		r := coordination.NewReservations()
		pos := worldenv.Pos{X: 3, Y: 3}

		Convey("Reserve succeeds for an unheld position", func() {
			ok := r.Reserve(1, pos, 0)
			So(ok, ShouldBeTrue)
			So(r.IsReserved(pos, worldenv.NoAgent), ShouldBeTrue)
		})

		Convey("Reserve fails for a position held by a different agent", func() {
			r.Reserve(1, pos, 0)
			ok := r.Reserve(2, pos, 0)
			So(ok, ShouldBeFalse)
		})

		Convey("An agent reserving a new position drops its prior reservation", func() {
			r.Reserve(1, pos, 0)
			other := worldenv.Pos{X: 9, Y: 9}
			r.Reserve(1, other, 1)
			So(r.IsReserved(pos, worldenv.NoAgent), ShouldBeFalse)
			So(r.IsReserved(other, worldenv.NoAgent), ShouldBeTrue)
		})

		Convey("IsReserved excludes the holder itself when given as excludeAgent", func() {
			r.Reserve(1, pos, 0)
			So(r.IsReserved(pos, 1), ShouldBeFalse)
			So(r.IsReserved(pos, 2), ShouldBeTrue)
		})

		Convey("Release drops the agent's reservation", func() {
			r.Reserve(1, pos, 0)
			r.Release(1)
			So(r.IsReserved(pos, worldenv.NoAgent), ShouldBeFalse)
		})

		Convey("ClearExpired drops reservations whose holder has died", func() {
			env := envtest.New([]string{"."}, nil)
			env.SpawnAgent(1, 0, worldenv.Pos{}, worldenv.ClassVillager, 10)
			r.Reserve(1, pos, 0)
			env.Kill(1)
			r.ClearExpired(env, 0)
			So(r.IsReserved(pos, worldenv.NoAgent), ShouldBeFalse)
		})

		Convey("ClearExpired drops reservations past the expiry window even if the holder lives", func() {
			env := envtest.New([]string{"."}, nil)
			env.SpawnAgent(1, 0, worldenv.Pos{}, worldenv.ClassVillager, 10)
			r.Reserve(1, pos, 0)
			r.ClearExpired(env, 1000)
			So(r.IsReserved(pos, worldenv.NoAgent), ShouldBeFalse)
		})
	})
}
