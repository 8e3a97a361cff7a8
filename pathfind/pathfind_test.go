package pathfind_test

import (
	"testing"

	. "github.com/smartystreets/goconvey/convey"

	"github.com/tribalctl/scripted-ai/envtest"
	"github.com/tribalctl/scripted-ai/pathfind"
	"github.com/tribalctl/scripted-ai/worldenv"
)

func openLayout(rows, cols int) []string {
	row := ""
	for i := 0; i < cols; i++ {
		row += "."
	}
	layout := make([]string, rows)
	for i := range layout {
		layout[i] = row
	}
	return layout
}

func TestFindPath(t *testing.T) {
	Convey("Given an open 10x10 grid", t, func() {
		env := envtest.New(openLayout(10, 10), nil)
		cache := pathfind.New()
		always := func(worldenv.Pos) bool { return true }

		Convey("A straight-line path is found to a single goal", func() {
			result := cache.FindPath(env, worldenv.Pos{X: 0, Y: 0}, []pathfind.Goal{{Pos: worldenv.Pos{X: 3, Y: 0}}}, always)
			So(result.Found, ShouldBeTrue)
			So(result.Reached, ShouldResemble, worldenv.Pos{X: 3, Y: 0})
			So(len(result.Path), ShouldBeGreaterThan, 0)
			So(result.Path[len(result.Path)-1], ShouldResemble, worldenv.Pos{X: 3, Y: 0})
		})

		Convey("The nearest of several goals is reached", func() {
			goals := []pathfind.Goal{
				{Pos: worldenv.Pos{X: 9, Y: 9}},
				{Pos: worldenv.Pos{X: 1, Y: 0}},
			}
			result := cache.FindPath(env, worldenv.Pos{X: 0, Y: 0}, goals, always)
			So(result.Found, ShouldBeTrue)
			So(result.Reached, ShouldResemble, worldenv.Pos{X: 1, Y: 0})
		})

		Convey("An impassable neighborhood yields no path", func() {
			never := func(worldenv.Pos) bool { return false }
			result := cache.FindPath(env, worldenv.Pos{X: 0, Y: 0}, []pathfind.Goal{{Pos: worldenv.Pos{X: 5, Y: 5}}}, never)
			So(result.Found, ShouldBeFalse)
		})

		Convey("A second Reset-driven query does not see stale state from the first", func() {
			cache.FindPath(env, worldenv.Pos{X: 0, Y: 0}, []pathfind.Goal{{Pos: worldenv.Pos{X: 3, Y: 0}}}, always)
			result := cache.FindPath(env, worldenv.Pos{X: 9, Y: 9}, []pathfind.Goal{{Pos: worldenv.Pos{X: 6, Y: 9}}}, always)
			So(result.Found, ShouldBeTrue)
			So(result.Reached, ShouldResemble, worldenv.Pos{X: 6, Y: 9})
		})

		Convey("No goals produces an unfound result without panicking", func() {
			result := cache.FindPath(env, worldenv.Pos{X: 0, Y: 0}, nil, always)
			So(result.Found, ShouldBeFalse)
		})
	})
}
