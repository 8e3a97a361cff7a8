package action_test

import (
	"testing"

	. "github.com/smartystreets/goconvey/convey"

	"github.com/tribalctl/scripted-ai/action"
)

func TestEncodeDecodeRoundTrip(t *testing.T) {
	Convey("Given every verb and an in-range argument", t, func() {
		for v := action.Noop; v <= action.SetRallyPoint; v++ {
			for arg := 0; arg < action.ArgumentCount; arg++ {
				Convey("Encode then Decode recovers both", func() {
					got := action.Encode(v, arg)
					gotV, gotArg := action.Decode(got)
					So(gotV, ShouldEqual, v)
					So(gotArg, ShouldEqual, arg)
				})
			}
		}
	})
}

func TestEncodeClampsArgument(t *testing.T) {
	Convey("Given an argument outside [0, ArgumentCount)", t, func() {
		Convey("a negative argument clamps to 0", func() {
			v, arg := action.Decode(action.Encode(action.Move, -5))
			So(v, ShouldEqual, action.Move)
			So(arg, ShouldEqual, 0)
		})

		Convey("an argument at or above ArgumentCount clamps to ArgumentCount-1", func() {
			v, arg := action.Decode(action.Encode(action.Build, action.ArgumentCount+3))
			So(v, ShouldEqual, action.Build)
			So(arg, ShouldEqual, action.ArgumentCount-1)
		})
	})
}

func TestIsNoop(t *testing.T) {
	Convey("None is a no-op and any encoded Move is not", t, func() {
		So(action.IsNoop(action.None), ShouldBeTrue)
		So(action.IsNoop(action.Encode(action.Move, 0)), ShouldBeFalse)
	})
}

func TestMoveToAndAttackAt(t *testing.T) {
	Convey("MoveTo and AttackAt encode their verb with the direction as argument", t, func() {
		mv := action.MoveTo(action.SouthEast)
		v, arg := action.Decode(mv)
		So(v, ShouldEqual, action.Move)
		So(arg, ShouldEqual, int(action.SouthEast))

		atk := action.AttackAt(action.West)
		v, arg = action.Decode(atk)
		So(v, ShouldEqual, action.Attack)
		So(arg, ShouldEqual, int(action.West))
	})
}

func TestDeltasCoverAllDirections(t *testing.T) {
	Convey("Deltas has an entry for every Direction, each a unit step", t, func() {
		for d := action.North; d < action.NumDirections; d++ {
			delta := action.Deltas[d]
			So(delta[0], ShouldBeBetweenOrEqual, -1, 1)
			So(delta[1], ShouldBeBetweenOrEqual, -1, 1)
			So(delta == [2]int{0, 0}, ShouldBeFalse)
		}
	})
}
