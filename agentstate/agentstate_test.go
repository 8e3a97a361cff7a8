package agentstate_test

import (
	"testing"

	. "github.com/smartystreets/goconvey/convey"

	"github.com/tribalctl/scripted-ai/agentstate"
	"github.com/tribalctl/scripted-ai/limits"
	"github.com/tribalctl/scripted-ai/worldenv"
)

func TestNewStartsInAFreshResetState(t *testing.T) {
	Convey("Given a newly constructed State", t, func() {
		s := agentstate.New()

		Convey("sentinel fields are initialized rather than zero-valued", func() {
			So(s.LastEngagedEnemy, ShouldEqual, worldenv.NoAgent)
			So(s.LastEngagedStep, ShouldEqual, -1)
			So(s.CachedTargetEnemy, ShouldEqual, worldenv.NoAgent)
			So(s.CachedTargetStep, ShouldEqual, -1)
		})

		Convey("the role defaults to Gatherer and Dead is false", func() {
			So(s.Role, ShouldEqual, agentstate.RoleGatherer)
			So(s.Dead, ShouldBeFalse)
		})

		Convey("the per-kind caches are ready to use without a nil check", func() {
			So(s.KindCaches, ShouldNotBeNil)
			So(s.ClosestOfKind, ShouldNotBeNil)
		})
	})
}

func TestResetClearsMutatedFieldsBackToFreshShape(t *testing.T) {
	Convey("Given a State that has accumulated gameplay mutations", t, func() {
		s := agentstate.New()
		s.GathererTask = agentstate.TaskWood
		s.EscapeMode = true
		s.Dead = true
		s.KindCaches[worldenv.KindHouse] = agentstate.KindCache{RefreshStep: 3}
		s.PushRecentPosition(worldenv.Pos{X: 1, Y: 1})

		Convey("Reset restores the just-spawned shape", func() {
			s.Reset()
			So(s.GathererTask, ShouldEqual, agentstate.TaskNone)
			So(s.EscapeMode, ShouldBeFalse)
			So(s.Dead, ShouldBeFalse)
			So(len(s.KindCaches), ShouldEqual, 0)
			So(s.RecentCount, ShouldEqual, 0)
			So(s.LastEngagedEnemy, ShouldEqual, worldenv.NoAgent)
		})
	})
}

func TestKindCacheStaleness(t *testing.T) {
	Convey("Given a KindCache refreshed at step 10", t, func() {
		k := agentstate.KindCache{RefreshStep: 10}

		Convey("it is not stale within the allowed age", func() {
			So(k.Stale(15, 10), ShouldBeFalse)
		})

		Convey("it becomes stale once the gap exceeds maxAge", func() {
			So(k.Stale(25, 10), ShouldBeTrue)
		})
	})
}

func TestRecentPositionsRingTracksVisitedCellsAndWraps(t *testing.T) {
	Convey("Given a fresh State", t, func() {
		s := agentstate.New()

		Convey("a pushed position is reported visited", func() {
			p := worldenv.Pos{X: 2, Y: 3}
			s.PushRecentPosition(p)
			So(s.VisitedRecently(p), ShouldBeTrue)
			So(s.VisitedRecently(worldenv.Pos{X: 9, Y: 9}), ShouldBeFalse)
		})

		Convey("pushing more than the ring length wraps and evicts the oldest entries", func() {
			for i := 0; i < limits.RecentPositionsLen+2; i++ {
				s.PushRecentPosition(worldenv.Pos{X: i, Y: 0})
			}
			So(s.RecentCount, ShouldEqual, limits.RecentPositionsLen+2)
			So(s.VisitedRecently(worldenv.Pos{X: 0, Y: 0}), ShouldBeFalse)
			So(s.VisitedRecently(worldenv.Pos{X: limits.RecentPositionsLen + 1, Y: 0}), ShouldBeTrue)
		})
	})
}
