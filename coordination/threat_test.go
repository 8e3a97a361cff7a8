package coordination_test

import (
	"testing"

	. "github.com/smartystreets/goconvey/convey"

	"github.com/tribalctl/scripted-ai/coordination"
	"github.com/tribalctl/scripted-ai/limits"
	"github.com/tribalctl/scripted-ai/worldenv"
)

func TestThreatMap(t *testing.T) {
	Convey("Given a ThreatMap", t, func() {
		m := coordination.NewThreatMap()

		Convey("A single report within radius and recency contributes its full strength", func() {
			m.ReportThreat(worldenv.Pos{X: 5, Y: 5}, 3.0, 100, 7, false)
			total := m.TotalThreatStrength(worldenv.Pos{X: 5, Y: 6}, 2, 105)
			So(total, ShouldEqual, 3.0)
		})

		Convey("Reports outside the recency window are excluded", func() {
			m.ReportThreat(worldenv.Pos{X: 5, Y: 5}, 3.0, 0, 7, false)
			total := m.TotalThreatStrength(worldenv.Pos{X: 5, Y: 5}, 2, limits.ThreatRecencyWindow+1)
			So(total, ShouldEqual, 0.0)
		})

		Convey("Reports outside the Chebyshev radius are excluded", func() {
			m.ReportThreat(worldenv.Pos{X: 0, Y: 0}, 3.0, 0, 7, false)
			total := m.TotalThreatStrength(worldenv.Pos{X: 10, Y: 10}, 2, 0)
			So(total, ShouldEqual, 0.0)
		})

		Convey("Once at capacity, the oldest entry is overwritten", func() {
			for i := 0; i < limits.ThreatMapCapacity; i++ {
				m.ReportThreat(worldenv.Pos{X: i, Y: 0}, 1.0, 0, worldenv.AgentID(i), false)
			}
			// This report overwrites the very first one (pos {0,0}).
			m.ReportThreat(worldenv.Pos{X: 0, Y: 0}, 99.0, 0, 999, false)
			total := m.TotalThreatStrength(worldenv.Pos{X: 0, Y: 0}, 0, 0)
			So(total, ShouldEqual, 99.0)
		})
	})
}
