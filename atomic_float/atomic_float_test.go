package atomic_float_test

import (
	"sync"
	"testing"

	. "github.com/smartystreets/goconvey/convey"

	"github.com/tribalctl/scripted-ai/atomic_float"
)

func TestNewAndAtomicRead(t *testing.T) {
	Convey("Given a float constructed with an initial value", t, func() {
		af := atomic_float.NewAtomicFloat64(3.5)

		Convey("AtomicRead returns it", func() {
			So(af.AtomicRead(), ShouldEqual, 3.5)
		})
	})
}

func TestAtomicSet(t *testing.T) {
	Convey("Given a float at zero", t, func() {
		af := atomic_float.NewAtomicFloat64(0)

		Convey("AtomicSet stores the new value and reports success", func() {
			ok := af.AtomicSet(42)
			So(ok, ShouldBeTrue)
			So(af.AtomicRead(), ShouldEqual, 42)
		})
	})
}

func TestAtomicAdd(t *testing.T) {
	Convey("Given a float at 10", t, func() {
		af := atomic_float.NewAtomicFloat64(10)

		Convey("AtomicAdd adds and reports the new total", func() {
			newVal, ok := af.AtomicAdd(5)
			So(ok, ShouldBeTrue)
			So(newVal, ShouldEqual, 15)
			So(af.AtomicRead(), ShouldEqual, 15)
		})
	})
}

func TestConcurrentAddsNeverLoseTheRaceDetectorsTrust(t *testing.T) {
	Convey("Given many goroutines racing AtomicAdd against the same float", t, func() {
		af := atomic_float.NewAtomicFloat64(0)
		const n = 200

		var wg sync.WaitGroup
		for i := 0; i < n; i++ {
			wg.Add(1)
			go func() {
				defer wg.Done()
				for {
					_, ok := af.AtomicAdd(1)
					if ok {
						return
					}
				}
			}()
		}
		wg.Wait()

		Convey("every increment eventually lands, none silently lost", func() {
			So(af.AtomicRead(), ShouldEqual, float64(n))
		})
	})
}
