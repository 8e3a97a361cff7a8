// Package option implements the behavior-option arbitration framework
// spec.md §4.2 describes: each role owns an ordered catalog of OptionDefs,
// and RunOptions drives exactly one of them to produce this tick's action.
package option

import "github.com/tribalctl/scripted-ai/action"

// Def is one named behavior in a role's catalog.
//
// CanStart, ShouldTerminate and Act are invoked up to several times per
// tick, so CanStart and ShouldTerminate must be pure, idempotent and fast —
// they may consult per-step caches freely but must not mutate state. Act is
// the only side-effecting function and must return an encoded action.
type Def struct {
	Name            string
	CanStart        func() bool
	ShouldTerminate func() bool
	Act             func() action.Action
	Interruptible   bool
}

// FromPredicate derives CanStart/ShouldTerminate from a single predicate,
// matching spec.md §4.2's "should_terminate is typically the logical
// negation of can_start" contract.
func FromPredicate(name string, canStart func() bool, act func() action.Action, interruptible bool) Def {
	return Def{
		Name:            name,
		CanStart:        canStart,
		ShouldTerminate: func() bool { return !canStart() },
		Act:             act,
		Interruptible:   interruptible,
	}
}

// Catalog is an ordered, priority-first list of option definitions.
type Catalog []Def

// RunState is the minimal per-agent arbitration state RunOptions reads and
// mutates: which option (by catalog index) is active, and how many ticks it
// has been active. Catalogs are shared across agents; RunState is not.
type RunState struct {
	ActiveIndex   int // -1 means no active option
	ActiveTicks   int
}

// NoActive is the sentinel ActiveIndex value meaning no option is running.
const NoActive = -1

// NewRunState returns a RunState with no active option.
func NewRunState() RunState {
	return RunState{ActiveIndex: NoActive}
}

// RunOptions drives catalog against state for one tick and returns the
// resulting action, per spec.md §4.2's exact arbitration algorithm:
//
//   - If an option is active and interruptible, any earlier (higher-priority)
//     option whose CanStart now returns true preempts it.
//   - The active option's Act is called; on a real action, ShouldTerminate
//     decides whether it stays active. On a no-op, it is cleared and the
//     catalog is rescanned from the top within the same tick.
//   - With no active option, the catalog is scanned top-to-bottom for the
//     first CanStart; Act is called and the same terminate/rescan rule
//     applies.
//   - If nothing in the catalog can act, the tick produces a no-op.
func RunOptions(state *RunState, catalog Catalog) action.Action {
	act, _ := RunOptionsNamed(state, catalog)
	return act
}

// RunOptionsNamed behaves exactly like RunOptions but also returns the name
// of the option that produced the action, or "" on a no-op. Used by the
// optional audit companion (spec.md §7: "record which option/branch fired,
// never change behavior") without touching the hot-path return signature
// every other call site relies on.
func RunOptionsNamed(state *RunState, catalog Catalog) (action.Action, string) {
	if state.ActiveIndex != NoActive {
		i := state.ActiveIndex
		if catalog[i].Interruptible {
			for j := 0; j < i; j++ {
				if catalog[j].CanStart() {
					state.ActiveIndex = j
					state.ActiveTicks = 0
					i = j
					break
				}
			}
		}

		state.ActiveTicks++
		act := catalog[i].Act()
		if !action.IsNoop(act) {
			name := catalog[i].Name
			if catalog[i].ShouldTerminate() {
				state.ActiveIndex = NoActive
			}
			return act, name
		}
		state.ActiveIndex = NoActive
	}

	for i, def := range catalog {
		if !def.CanStart() {
			continue
		}
		state.ActiveIndex = i
		state.ActiveTicks = 0
		act := def.Act()
		if action.IsNoop(act) {
			state.ActiveIndex = NoActive
			continue
		}
		if def.ShouldTerminate() {
			state.ActiveIndex = NoActive
		}
		return act, def.Name
	}

	return action.None, ""
}
