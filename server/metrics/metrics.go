// Package metrics is a thin Prometheus abstraction over the controller's
// per-tick telemetry, so the hot path never pays for metric updates when no
// registry is supplied. Grounded on Voskan-arena-cache/pkg/metrics.go's
// metricsSink/noopMetrics/promMetrics split (spec.md §11's DOMAIN STACK).
package metrics

import (
	"strconv"

	"github.com/prometheus/client_golang/prometheus"

	"github.com/tribalctl/scripted-ai/action"
	"github.com/tribalctl/scripted-ai/worldenv"
)

// Sink is the interface the controller talks to; a nil-safe Noop default
// means call sites never special-case "metrics disabled".
type Sink interface {
	ObserveAction(team worldenv.Team, verb action.Verb)
	ObserveNoop(team worldenv.Team)
	SetRequestQueueDepth(team worldenv.Team, depth int)
	SetReservationCount(team worldenv.Team, count int)
	SetThreatTotal(team worldenv.Team, total float64)
	SetTickDuration(seconds float64)
}

type noopSink struct{}

func (noopSink) ObserveAction(worldenv.Team, action.Verb)      {}
func (noopSink) ObserveNoop(worldenv.Team)                     {}
func (noopSink) SetRequestQueueDepth(worldenv.Team, int)       {}
func (noopSink) SetReservationCount(worldenv.Team, int)        {}
func (noopSink) SetThreatTotal(worldenv.Team, float64)         {}
func (noopSink) SetTickDuration(float64)                       {}

// Noop is the default, zero-cost Sink used when no registry is supplied.
var Noop Sink = noopSink{}

// promSink records every Sink method onto Prometheus collectors registered
// against reg.
type promSink struct {
	actions          *prometheus.CounterVec
	noops            *prometheus.CounterVec
	requestQueue     *prometheus.GaugeVec
	reservationCount *prometheus.GaugeVec
	threatTotal      *prometheus.GaugeVec
	tickSeconds      prometheus.Histogram
}

// New registers the controller's telemetry collectors against reg and
// returns a Sink backed by them. A nil reg is invalid; callers that want no
// metrics should use Noop directly instead of calling New.
func New(reg *prometheus.Registry) Sink {
	s := &promSink{
		actions: prometheus.NewCounterVec(prometheus.CounterOpts{
			Namespace: "scripted_ai",
			Name:      "actions_total",
			Help:      "Actions emitted per team per verb.",
		}, []string{"team", "verb"}),
		noops: prometheus.NewCounterVec(prometheus.CounterOpts{
			Namespace: "scripted_ai",
			Name:      "noops_total",
			Help:      "Ticks in which a team's agent produced no action.",
		}, []string{"team"}),
		requestQueue: prometheus.NewGaugeVec(prometheus.GaugeOpts{
			Namespace: "scripted_ai",
			Name:      "coordination_queue_depth",
			Help:      "Current coordination request ring depth per team.",
		}, []string{"team"}),
		reservationCount: prometheus.NewGaugeVec(prometheus.GaugeOpts{
			Namespace: "scripted_ai",
			Name:      "reservation_count",
			Help:      "Current resource reservation count per team.",
		}, []string{"team"}),
		threatTotal: prometheus.NewGaugeVec(prometheus.GaugeOpts{
			Namespace: "scripted_ai",
			Name:      "threat_total_strength",
			Help:      "Sum of threat-map entry strengths per team.",
		}, []string{"team"}),
		tickSeconds: prometheus.NewHistogram(prometheus.HistogramOpts{
			Namespace: "scripted_ai",
			Name:      "tick_duration_seconds",
			Help:      "Wall-clock duration of one Controller.Dispatch call.",
			Buckets:   prometheus.DefBuckets,
		}),
	}
	reg.MustRegister(s.actions, s.noops, s.requestQueue, s.reservationCount, s.threatTotal, s.tickSeconds)
	return s
}

func teamLabel(team worldenv.Team) string { return strconv.Itoa(int(team)) }

func (s *promSink) ObserveAction(team worldenv.Team, verb action.Verb) {
	s.actions.WithLabelValues(teamLabel(team), verbName(verb)).Inc()
}

func (s *promSink) ObserveNoop(team worldenv.Team) {
	s.noops.WithLabelValues(teamLabel(team)).Inc()
}

func (s *promSink) SetRequestQueueDepth(team worldenv.Team, depth int) {
	s.requestQueue.WithLabelValues(teamLabel(team)).Set(float64(depth))
}

func (s *promSink) SetReservationCount(team worldenv.Team, count int) {
	s.reservationCount.WithLabelValues(teamLabel(team)).Set(float64(count))
}

func (s *promSink) SetThreatTotal(team worldenv.Team, total float64) {
	s.threatTotal.WithLabelValues(teamLabel(team)).Set(total)
}

func (s *promSink) SetTickDuration(seconds float64) {
	s.tickSeconds.Observe(seconds)
}

func verbName(v action.Verb) string {
	names := [...]string{
		action.Noop: "noop", action.Move: "move", action.Attack: "attack",
		action.Use: "use", action.Swap: "swap", action.Put: "put",
		action.PlantLantern: "plant_lantern", action.PlantResource: "plant_resource",
		action.Build: "build", action.Orient: "orient", action.SetRallyPoint: "set_rally_point",
	}
	if int(v) < len(names) {
		return names[v]
	}
	return "unknown"
}
