package dashboard

import (
	"net/http"
	"net/http/httptest"
	"testing"

	. "github.com/smartystreets/goconvey/convey"
	"go.uber.org/zap"

	"github.com/tribalctl/scripted-ai/controller"
	"github.com/tribalctl/scripted-ai/worldenv"
)

func TestServeIndexAndHealthz(t *testing.T) {
	Convey("Given a fresh dashboard", t, func() {
		d := New(zap.NewNop())

		Convey("serving the index page returns the telemetry table", func() {
			rec := httptest.NewRecorder()
			req := httptest.NewRequest(http.MethodGet, "/", nil)
			d.Handler().ServeHTTP(rec, req)

			So(rec.Code, ShouldEqual, http.StatusOK)
			So(rec.Body.String(), ShouldContainSubstring, "teams")
		})

		Convey("serving /healthz reports the tick EMA", func() {
			rec := httptest.NewRecorder()
			req := httptest.NewRequest(http.MethodGet, "/healthz", nil)
			d.Handler().ServeHTTP(rec, req)

			So(rec.Code, ShouldEqual, http.StatusOK)
			So(rec.Body.String(), ShouldContainSubstring, "tick_ema_ms")
		})
	})
}

func TestPublishFansOutAndDropsWhenFull(t *testing.T) {
	Convey("Given a dashboard with one slow subscriber", t, func() {
		d := New(zap.NewNop())
		id, ch := d.subscribe()
		defer d.unsubscribe(id)

		snap := controller.TickSnapshot{
			Step: 1,
			Teams: []controller.TeamSnapshot{
				{Team: worldenv.Team(1), RequestQueue: 3},
			},
		}

		Convey("a published snapshot is delivered", func() {
			d.Publish(snap, 0.01)
			got := <-ch
			So(got.Step, ShouldEqual, 1)
			So(got.Teams[0].RequestQueue, ShouldEqual, 3)
		})

		Convey("publishing faster than the subscriber drains does not block", func() {
			for i := 0; i < subscriberBuffer+2; i++ {
				d.Publish(controller.TickSnapshot{Step: i}, 0.01)
			}
			So(d.tickEMA.AtomicRead(), ShouldBeGreaterThan, 0)
		})
	})
}
