package option_test

import (
	"testing"

	. "github.com/smartystreets/goconvey/convey"

	"github.com/tribalctl/scripted-ai/action"
	"github.com/tribalctl/scripted-ai/option"
)

// TestPreemption implements spec.md §8 scenario S1: a two-option catalog
// where the lower-priority option starts first, then the higher-priority
// option preempts it once its CanStart flips true.
func TestPreemption(t *testing.T) {
	Convey("Given catalog [A(interruptible, can_start=false), B(interruptible, can_start=true)]", t, func() {
		aCanStart := false
		catalog := option.Catalog{
			option.Def{
				Name:            "A",
				CanStart:        func() bool { return aCanStart },
				ShouldTerminate: func() bool { return !aCanStart },
				Act:             func() action.Action { return action.Encode(action.Move, 7) },
				Interruptible:   true,
			},
			option.Def{
				Name:            "B",
				CanStart:        func() bool { return true },
				ShouldTerminate: func() bool { return false },
				Act:             func() action.Action { return 5 },
				Interruptible:   true,
			},
		}
		state := option.NewRunState()

		Convey("The first tick selects B and returns its action", func() {
			act := option.RunOptions(&state, catalog)
			So(act, ShouldEqual, action.Action(5))
			So(state.ActiveIndex, ShouldEqual, 1)
		})

		Convey("Once A.CanStart flips true, the next tick preempts B with A", func() {
			option.RunOptions(&state, catalog)
			aCanStart = true

			act := option.RunOptions(&state, catalog)
			So(state.ActiveIndex, ShouldEqual, 0)
			So(act, ShouldEqual, action.Encode(action.Move, 7))
			So(state.ActiveTicks, ShouldEqual, 1)
		})
	})
}

// TestEqualPriorityTiesKeepIncumbent checks spec.md §4.2's "equal-priority
// ties keep the incumbent" rule: preemption only scans indices strictly
// before the active one, so an option at the same or lower priority never
// displaces it.
func TestEqualPriorityTiesKeepIncumbent(t *testing.T) {
	Convey("Given an active option at index 1 and CanStart true at index 1 and 2", t, func() {
		catalog := option.Catalog{
			option.Def{
				Name:            "higher",
				CanStart:        func() bool { return false },
				ShouldTerminate: func() bool { return true },
				Act:             func() action.Action { return 0 },
				Interruptible:   true,
			},
			option.Def{
				Name:            "incumbent",
				CanStart:        func() bool { return true },
				ShouldTerminate: func() bool { return false },
				Act:             func() action.Action { return 9 },
				Interruptible:   true,
			},
			option.Def{
				Name:            "lower",
				CanStart:        func() bool { return true },
				ShouldTerminate: func() bool { return false },
				Act:             func() action.Action { return 3 },
				Interruptible:   true,
			},
		}
		state := option.NewRunState()
		option.RunOptions(&state, catalog)
		So(state.ActiveIndex, ShouldEqual, 1)

		Convey("The incumbent keeps running; the lower-priority option never preempts", func() {
			act := option.RunOptions(&state, catalog)
			So(state.ActiveIndex, ShouldEqual, 1)
			So(act, ShouldEqual, action.Action(9))
		})
	})
}

// TestNoopClearsAndRescans covers spec.md §7's "option infinite loop guard":
// an active option returning the no-op action is cleared immediately and the
// catalog is rescanned within the same tick.
func TestNoopClearsAndRescans(t *testing.T) {
	Convey("Given an active option whose Act returns no-op and a fallback that can act", t, func() {
		calls := 0
		catalog := option.Catalog{
			option.Def{
				Name:            "stuck",
				CanStart:        func() bool { return calls == 0 },
				ShouldTerminate: func() bool { return true },
				Act: func() action.Action {
					calls++
					return action.None
				},
				Interruptible: false,
			},
			option.Def{
				Name:            "fallback",
				CanStart:        func() bool { return true },
				ShouldTerminate: func() bool { return false },
				Act:             func() action.Action { return 4 },
				Interruptible:   false,
			},
		}
		state := option.NewRunState()
		state.ActiveIndex = 0

		Convey("The active option is cleared and the fallback produces this tick's action", func() {
			act := option.RunOptions(&state, catalog)
			So(act, ShouldEqual, action.Action(4))
			So(state.ActiveIndex, ShouldEqual, 1)
		})
	})
}

// TestNothingCanActReturnsNoop covers the catalog-exhausted case: no option's
// CanStart returns true, so the tick produces the no-op action.
func TestNothingCanActReturnsNoop(t *testing.T) {
	Convey("Given a catalog where nothing can start", t, func() {
		catalog := option.Catalog{
			option.Def{Name: "never", CanStart: func() bool { return false }, ShouldTerminate: func() bool { return true }, Act: func() action.Action { return 1 }},
		}
		state := option.NewRunState()

		Convey("RunOptions returns the no-op action and leaves no option active", func() {
			act := option.RunOptions(&state, catalog)
			So(action.IsNoop(act), ShouldBeTrue)
			So(state.ActiveIndex, ShouldEqual, option.NoActive)
		})
	})
}
