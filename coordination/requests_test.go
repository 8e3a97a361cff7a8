package coordination_test

import (
	"testing"

	. "github.com/smartystreets/goconvey/convey"

	"github.com/tribalctl/scripted-ai/coordination"
	"github.com/tribalctl/scripted-ai/limits"
	"github.com/tribalctl/scripted-ai/worldenv"
)

func TestRequestRing(t *testing.T) {
	Convey("Given a RequestRing", t, func() {
		r := coordination.NewRequestRing()

		Convey("AddRequest succeeds for a fresh (requester, kind) pair", func() {
			ok := r.AddRequest(worldenv.Protection, 1, worldenv.Pos{X: 1, Y: 1}, worldenv.Pos{X: 2, Y: 2}, 10, worldenv.Normal)
			So(ok, ShouldBeTrue)
		})

		Convey("A duplicate (requester, kind) within the dedup window is suppressed", func() {
			r.AddRequest(worldenv.Protection, 1, worldenv.Pos{X: 1, Y: 1}, worldenv.Pos{}, 10, worldenv.Normal)
			ok := r.AddRequest(worldenv.Protection, 1, worldenv.Pos{X: 1, Y: 1}, worldenv.Pos{}, 10+limits.RequestDedupWindow-1, worldenv.Normal)
			So(ok, ShouldBeFalse)
		})

		Convey("The same requester can re-request once the dedup window passes", func() {
			r.AddRequest(worldenv.Protection, 1, worldenv.Pos{X: 1, Y: 1}, worldenv.Pos{}, 10, worldenv.Normal)
			ok := r.AddRequest(worldenv.Protection, 1, worldenv.Pos{X: 1, Y: 1}, worldenv.Pos{}, 10+limits.RequestDedupWindow+1, worldenv.Normal)
			So(ok, ShouldBeTrue)
		})

		Convey("Once full, the oldest request is evicted FIFO", func() {
			for i := 0; i < limits.RequestRingCapacity; i++ {
				r.AddRequest(worldenv.Defense, worldenv.AgentID(i), worldenv.Pos{X: i, Y: 0}, worldenv.Pos{}, 0, worldenv.Low)
			}
			r.AddRequest(worldenv.Defense, 999, worldenv.Pos{X: 0, Y: 0}, worldenv.Pos{}, 0, worldenv.Low)
			// requester 0's request should have been evicted; re-requesting it
			// should now succeed rather than being treated as a duplicate.
			ok := r.AddRequest(worldenv.Defense, 0, worldenv.Pos{X: 0, Y: 0}, worldenv.Pos{}, 0, worldenv.Low)
			So(ok, ShouldBeTrue)
		})

		Convey("FindNearestProtection prefers higher priority, then nearer distance", func() {
			r.AddRequest(worldenv.Protection, 1, worldenv.Pos{X: 5, Y: 0}, worldenv.Pos{}, 0, worldenv.Low)
			r.AddRequest(worldenv.Protection, 2, worldenv.Pos{X: 1, Y: 0}, worldenv.Pos{}, 0, worldenv.High)
			req, ok := r.FindNearestProtection(worldenv.Pos{X: 0, Y: 0})
			So(ok, ShouldBeTrue)
			So(req.Requester, ShouldEqual, worldenv.AgentID(2))
		})

		Convey("FindNearestProtection ignores requests beyond the response radius", func() {
			r.AddRequest(worldenv.Protection, 1, worldenv.Pos{X: 100, Y: 100}, worldenv.Pos{}, 0, worldenv.High)
			_, ok := r.FindNearestProtection(worldenv.Pos{X: 0, Y: 0})
			So(ok, ShouldBeFalse)
		})

		Convey("ClearExpired keeps a request one step short of the expiry window", func() {
			r.AddRequest(worldenv.Protection, 1, worldenv.Pos{X: 1, Y: 1}, worldenv.Pos{}, 0, worldenv.Normal)
			r.ClearExpired(limits.RequestExpirySteps - 1)
			So(r.HasUnfulfilled(worldenv.Protection), ShouldBeTrue)
		})

		Convey("ClearExpired drops a request exactly at the expiry window, per S4", func() {
			r.AddRequest(worldenv.Protection, 1, worldenv.Pos{X: 1, Y: 1}, worldenv.Pos{}, 0, worldenv.Normal)
			r.ClearExpired(limits.RequestExpirySteps)
			So(r.HasUnfulfilled(worldenv.Protection), ShouldBeFalse)
		})

		Convey("MarkFulfilled marks the highest-priority unfulfilled instance", func() {
			r.AddRequest(worldenv.SiegeBuild, 1, worldenv.Pos{X: 1, Y: 1}, worldenv.Pos{}, 0, worldenv.Low)
			r.AddRequest(worldenv.SiegeBuild, 2, worldenv.Pos{X: 2, Y: 2}, worldenv.Pos{}, 0, worldenv.High)
			So(r.HasUnfulfilled(worldenv.SiegeBuild), ShouldBeTrue)
			ok := r.MarkFulfilled(worldenv.SiegeBuild)
			So(ok, ShouldBeTrue)
			So(r.HasUnfulfilled(worldenv.SiegeBuild), ShouldBeTrue) // the Low-priority one remains
		})
	})
}
