package spatialsearch_test

import (
	"testing"

	. "github.com/smartystreets/goconvey/convey"

	"github.com/tribalctl/scripted-ai/spatialsearch"
	"github.com/tribalctl/scripted-ai/worldenv"
)

func TestSpiralCoversEveryCellOnceUpToRadius(t *testing.T) {
	Convey("Given a spiral of radius 3 around the origin", t, func() {
		center := worldenv.Pos{X: 0, Y: 0}
		seq := spatialsearch.Spiral(center, 3)

		Convey("it visits every cell in the bounding square exactly once", func() {
			seen := make(map[worldenv.Pos]bool)
			for _, p := range seq {
				So(seen[p], ShouldBeFalse)
				seen[p] = true
			}
			So(len(seq), ShouldEqual, 7*7)
		})

		Convey("the first element is the center itself", func() {
			So(seq[0], ShouldResemble, center)
		})

		Convey("every later cell lies on the ring matching its Chebyshev distance", func() {
			for _, p := range seq[1:] {
				d := worldenv.ChebyshevDist(center, p)
				So(d, ShouldBeBetweenOrEqual, 1, 3)
			}
		})
	})
}

func TestRingMatchesChebyshevBoundary(t *testing.T) {
	Convey("Given ring 2 around a center", t, func() {
		center := worldenv.Pos{X: 5, Y: 5}
		r := spatialsearch.Ring(center, 2)

		Convey("every cell is exactly distance 2 away", func() {
			for _, p := range r {
				So(worldenv.ChebyshevDist(center, p), ShouldEqual, 2)
			}
		})

		Convey("ring 0 is just the center", func() {
			So(spatialsearch.Ring(center, 0), ShouldResemble, []worldenv.Pos{center})
		})
	})
}

func TestNextFromCursorSkipsRejectedAndWraps(t *testing.T) {
	Convey("Given a spiral search that rejects everything", t, func() {
		center := worldenv.Pos{X: 0, Y: 0}
		reject := func(worldenv.Pos) bool { return false }

		Convey("it reports no match instead of looping forever", func() {
			_, _, ok := spatialsearch.NextFromCursor(center, 2, 0, reject)
			So(ok, ShouldBeFalse)
		})
	})

	Convey("Given a spiral search accepting only one far cell", t, func() {
		center := worldenv.Pos{X: 0, Y: 0}
		target := worldenv.Pos{X: 2, Y: 0}
		accept := func(p worldenv.Pos) bool { return p == target }

		Convey("it finds the target and returns a cursor past it", func() {
			found, cursor, ok := spatialsearch.NextFromCursor(center, 2, 0, accept)
			So(ok, ShouldBeTrue)
			So(found, ShouldResemble, target)
			So(cursor, ShouldBeGreaterThan, 0)
		})

		Convey("resuming from a cursor past the target wraps around and still finds it", func() {
			seqLen := len(spatialsearch.Spiral(center, 2))
			found, _, ok := spatialsearch.NextFromCursor(center, 2, seqLen-1, accept)
			So(ok, ShouldBeTrue)
			So(found, ShouldResemble, target)
		})
	})
}

func TestIsAxisSlot(t *testing.T) {
	Convey("Given a center position", t, func() {
		center := worldenv.Pos{X: 10, Y: 10}

		Convey("cardinal and diagonal neighbors are axis slots", func() {
			So(spatialsearch.IsAxisSlot(center, center.Add(3, 0)), ShouldBeTrue)
			So(spatialsearch.IsAxisSlot(center, center.Add(0, -3)), ShouldBeTrue)
			So(spatialsearch.IsAxisSlot(center, center.Add(2, 2)), ShouldBeTrue)
			So(spatialsearch.IsAxisSlot(center, center.Add(-2, 2)), ShouldBeTrue)
		})

		Convey("an off-axis position is not", func() {
			So(spatialsearch.IsAxisSlot(center, center.Add(3, 1)), ShouldBeFalse)
		})
	})
}

func TestNearestAndNearestThing(t *testing.T) {
	Convey("Given a set of candidate positions", t, func() {
		pos := worldenv.Pos{X: 0, Y: 0}
		candidates := []worldenv.Pos{{X: 5, Y: 5}, {X: 1, Y: 1}, {X: 3, Y: 0}}

		Convey("Nearest returns the closest by Chebyshev distance", func() {
			best, ok := spatialsearch.Nearest(pos, candidates)
			So(ok, ShouldBeTrue)
			So(best, ShouldResemble, worldenv.Pos{X: 1, Y: 1})
		})

		Convey("Nearest on an empty slice reports not found", func() {
			_, ok := spatialsearch.Nearest(pos, nil)
			So(ok, ShouldBeFalse)
		})

		Convey("NearestThing mirrors Nearest over Thing values", func() {
			things := []worldenv.Thing{{Pos: worldenv.Pos{X: 5, Y: 5}}, {Pos: worldenv.Pos{X: 1, Y: 1}}}
			best, ok := spatialsearch.NearestThing(pos, things)
			So(ok, ShouldBeTrue)
			So(best.Pos, ShouldResemble, worldenv.Pos{X: 1, Y: 1})
		})
	})
}

func TestCountWithin(t *testing.T) {
	Convey("Given things scattered at various distances", t, func() {
		pos := worldenv.Pos{X: 0, Y: 0}
		things := []worldenv.Thing{
			{Pos: worldenv.Pos{X: 1, Y: 0}},
			{Pos: worldenv.Pos{X: 2, Y: 2}},
			{Pos: worldenv.Pos{X: 9, Y: 9}},
		}

		Convey("it counts only the ones within radius inclusive", func() {
			So(spatialsearch.CountWithin(pos, 2, things), ShouldEqual, 2)
			So(spatialsearch.CountWithin(pos, 9, things), ShouldEqual, 3)
			So(spatialsearch.CountWithin(pos, 0, things), ShouldEqual, 0)
		})
	})
}
