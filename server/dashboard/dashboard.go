// Package dashboard serves a small live-telemetry site for a running match:
// one HTML page plus a websocket feed of per-tick controller.TickSnapshots.
// Routing follows niceyeti-tabular's server package (a page and a websocket,
// wired with gorilla/mux here since mux was in the retrieved pack and the
// teacher's own routes are a natural fit for it); the websocket itself reuses
// server/fastview's generic client rather than reimplementing the ping/pong
// and publish-rate-limiting the teacher wrote there.
package dashboard

import (
	"fmt"
	"html/template"
	"net/http"
	"sync"

	"github.com/gorilla/mux"
	"go.uber.org/zap"

	"github.com/tribalctl/scripted-ai/atomic_float"
	"github.com/tribalctl/scripted-ai/controller"
	"github.com/tribalctl/scripted-ai/server/fastview"
)

// Dashboard fans each tick's TickSnapshot out to every connected browser.
// Unlike the teacher's server (which "assumes this handler is hit only once,
// one client"), Dashboard keeps a small subscriber registry so more than one
// viewer can watch the same match.
type Dashboard struct {
	log    *zap.Logger
	router *mux.Router

	mu     sync.Mutex
	subs   map[int]chan controller.TickSnapshot
	nextID int

	// tickEMA is an exponentially-smoothed tick duration in milliseconds.
	// Publish (the sim loop's goroutine) writes it every tick; serveIndex and
	// serveHealthz (HTTP handler goroutines) read it concurrently, so it uses
	// atomic_float's lock-free float rather than a mutex for this one figure.
	tickEMA *atomic_float.AtomicFloat64
}

const emaAlpha = 0.1

// subscriberBuffer is how many snapshots a slow client can fall behind before
// Publish starts dropping ticks for it rather than blocking the sim loop.
const subscriberBuffer = 4

// New builds a dashboard with its routes registered.
func New(log *zap.Logger) *Dashboard {
	d := &Dashboard{
		log:     log,
		subs:    make(map[int]chan controller.TickSnapshot),
		tickEMA: atomic_float.NewAtomicFloat64(0),
	}
	d.router = mux.NewRouter()
	d.router.HandleFunc("/", d.serveIndex).Methods(http.MethodGet)
	d.router.HandleFunc("/ws", d.serveWS).Methods(http.MethodGet)
	d.router.HandleFunc("/healthz", d.serveHealthz).Methods(http.MethodGet)
	return d
}

// Handler returns the dashboard's http.Handler, for embedding in an outer
// server or serving directly with http.ListenAndServe.
func (d *Dashboard) Handler() http.Handler {
	return d.router
}

// Publish fans snap out to every connected subscriber. A subscriber whose
// channel is still full from the previous tick has the new one dropped
// rather than blocking the caller -- matching the teacher's client.publish,
// which discards updates a peer can't keep up with since a snapshot only
// describes one instant and a later one always supersedes it.
func (d *Dashboard) Publish(snap controller.TickSnapshot, tickSeconds float64) {
	for {
		old := d.tickEMA.AtomicRead()
		next := old + emaAlpha*(tickSeconds*1000-old)
		if d.tickEMA.AtomicSet(next) {
			break
		}
	}

	d.mu.Lock()
	defer d.mu.Unlock()
	for _, ch := range d.subs {
		select {
		case ch <- snap:
		default:
			d.log.Debug("dashboard subscriber lagging, dropped tick", zap.Int("step", snap.Step))
		}
	}
}

func (d *Dashboard) subscribe() (int, chan controller.TickSnapshot) {
	d.mu.Lock()
	defer d.mu.Unlock()
	id := d.nextID
	d.nextID++
	ch := make(chan controller.TickSnapshot, subscriberBuffer)
	d.subs[id] = ch
	return id, ch
}

func (d *Dashboard) unsubscribe(id int) {
	d.mu.Lock()
	defer d.mu.Unlock()
	if ch, ok := d.subs[id]; ok {
		close(ch)
		delete(d.subs, id)
	}
}

func (d *Dashboard) serveWS(w http.ResponseWriter, r *http.Request) {
	id, ch := d.subscribe()
	defer d.unsubscribe(id)

	d.log.Info("dashboard client connected", zap.String("remote", r.RemoteAddr))
	cli, err := fastview.NewClient[controller.TickSnapshot](ch, w, r)
	if err != nil {
		d.log.Warn("dashboard websocket upgrade failed", zap.Error(err))
		return
	}
	if err := cli.Sync(); err != nil {
		d.log.Info("dashboard client disconnected", zap.String("remote", r.RemoteAddr), zap.Error(err))
	}
}

func (d *Dashboard) serveHealthz(w http.ResponseWriter, r *http.Request) {
	fmt.Fprintf(w, "ok tick_ema_ms=%.2f\n", d.tickEMA.AtomicRead())
}

var indexTemplate = template.Must(template.New("index").Parse(`<!DOCTYPE html>
<html>
<head>
	<title>scripted-ai dashboard</title>
	<link rel="icon" href="data:,">
</head>
<body>
	<h1>scripted-ai live telemetry</h1>
	<p>tick EMA at page load: {{printf "%.2f" .TickEMA}}ms</p>
	<table id="teams">
		<thead><tr><th>team</th><th>difficulty</th><th>requests</th><th>reservations</th><th>threat</th><th>population</th></tr></thead>
		<tbody></tbody>
	</table>
	<script>
		const ws = new WebSocket("ws://" + window.location.host + "/ws");
		ws.onmessage = function (event) {
			const snap = JSON.parse(event.data);
			const body = document.querySelector("#teams tbody");
			body.innerHTML = "";
			for (const t of (snap.Teams || [])) {
				const row = document.createElement("tr");
				row.innerHTML = "<td>" + t.Team + "</td><td>" + t.DifficultyLevel + "</td><td>" +
					t.RequestQueue + "</td><td>" + t.ReservationCount + "</td><td>" +
					t.ThreatTotal.toFixed(1) + "</td><td>" + t.PopulationCount + "</td>";
				body.appendChild(row);
			}
		};
		ws.onerror = function (event) { console.log("dashboard websocket error: ", event); };
	</script>
</body>
</html>
`))

func (d *Dashboard) serveIndex(w http.ResponseWriter, r *http.Request) {
	_ = indexTemplate.Execute(w, struct{ TickEMA float64 }{d.tickEMA.AtomicRead()})
}
