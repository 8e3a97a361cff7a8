package gen

import (
	"testing"
	"time"

	. "github.com/smartystreets/goconvey/convey"
)

func TestFrame(t *testing.T) {
	Convey("Given a Frame cache with a short max age", t, func() {
		f := NewFrame[string, int](10*time.Millisecond, time.Hour)
		base := time.Now()

		Convey("GetOrCompute computes once and memoizes within maxAge", func() {
			calls := 0
			compute := func() int { calls++; return 99 }

			v1 := f.GetOrCompute(base, "k", compute)
			v2 := f.GetOrCompute(base.Add(time.Millisecond), "k", compute)
			So(v1, ShouldEqual, 99)
			So(v2, ShouldEqual, 99)
			So(calls, ShouldEqual, 1)
		})

		Convey("GetOrCompute recomputes once maxAge has elapsed", func() {
			calls := 0
			compute := func() int { calls++; return calls }

			f.GetOrCompute(base, "k", compute)
			v := f.GetOrCompute(base.Add(20*time.Millisecond), "k", compute)
			So(v, ShouldEqual, 2)
			So(calls, ShouldEqual, 2)
		})

		Convey("Invalidate forces recomputation regardless of age", func() {
			calls := 0
			compute := func() int { calls++; return calls }

			f.GetOrCompute(base, "k", compute)
			f.Invalidate("k")
			f.GetOrCompute(base, "k", compute)
			So(calls, ShouldEqual, 2)
		})

		Convey("Distinct keys are memoized independently", func() {
			a := f.GetOrCompute(base, "a", func() int { return 1 })
			b := f.GetOrCompute(base, "b", func() int { return 2 })
			So(a, ShouldEqual, 1)
			So(b, ShouldEqual, 2)
		})
	})
}
