package metrics_test

import (
	"strings"
	"testing"

	"github.com/prometheus/client_golang/prometheus"
	dto "github.com/prometheus/client_model/go"
	. "github.com/smartystreets/goconvey/convey"

	"github.com/tribalctl/scripted-ai/action"
	"github.com/tribalctl/scripted-ai/server/metrics"
	"github.com/tribalctl/scripted-ai/worldenv"
)

func TestNoopSinkNeverPanics(t *testing.T) {
	Convey("Given the package Noop sink", t, func() {
		Convey("every method is safe to call with zero values", func() {
			So(func() {
				metrics.Noop.ObserveAction(1, action.Move)
				metrics.Noop.ObserveNoop(1)
				metrics.Noop.SetRequestQueueDepth(1, 3)
				metrics.Noop.SetReservationCount(1, 2)
				metrics.Noop.SetThreatTotal(1, 5.5)
				metrics.Noop.SetTickDuration(0.01)
			}, ShouldNotPanic)
		})
	})
}

func TestPromSinkRecordsByTeamAndVerb(t *testing.T) {
	Convey("Given a Sink registered against a fresh registry", t, func() {
		reg := prometheus.NewRegistry()
		sink := metrics.New(reg)

		Convey("ObserveAction increments the counter for that team and verb", func() {
			sink.ObserveAction(worldenv.Team(1), action.Move)
			sink.ObserveAction(worldenv.Team(1), action.Move)
			sink.ObserveAction(worldenv.Team(2), action.Attack)

			families, err := reg.Gather()
			So(err, ShouldBeNil)

			var found float64
			for _, fam := range families {
				if fam.GetName() != "scripted_ai_actions_total" {
					continue
				}
				for _, m := range fam.Metric {
					if labelValue(m, "team") == "1" && labelValue(m, "verb") == "move" {
						found = m.GetCounter().GetValue()
					}
				}
			}
			So(found, ShouldEqual, 2)
		})

		Convey("SetThreatTotal and SetReservationCount set per-team gauges", func() {
			sink.SetThreatTotal(worldenv.Team(3), 12.5)
			sink.SetReservationCount(worldenv.Team(3), 4)

			families, err := reg.Gather()
			So(err, ShouldBeNil)

			names := map[string]bool{}
			for _, fam := range families {
				names[fam.GetName()] = true
			}
			So(names["scripted_ai_threat_total_strength"], ShouldBeTrue)
			So(names["scripted_ai_reservation_count"], ShouldBeTrue)
		})

		Convey("registering the same sink twice against the same registry panics via MustRegister", func() {
			So(func() { metrics.New(reg) }, ShouldPanic)
		})
	})
}

func labelValue(m *dto.Metric, name string) string {
	for _, lp := range m.GetLabel() {
		if lp.GetName() == name {
			return lp.GetValue()
		}
	}
	return ""
}

func TestFamilyNamesAreNamespaced(t *testing.T) {
	Convey("Given a freshly registered Sink", t, func() {
		reg := prometheus.NewRegistry()
		metrics.New(reg)
		families, err := reg.Gather()
		So(err, ShouldBeNil)

		Convey("every collector name is under the scripted_ai namespace", func() {
			for _, fam := range families {
				So(strings.HasPrefix(fam.GetName(), "scripted_ai_"), ShouldBeTrue)
			}
		})
	})
}
