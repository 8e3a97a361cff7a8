package audit

import (
	"os"
	"testing"

	. "github.com/smartystreets/goconvey/convey"
	"go.uber.org/zap"
	"go.uber.org/zap/zaptest/observer"

	"github.com/tribalctl/scripted-ai/worldenv"
)

func TestLevelFromEnv(t *testing.T) {
	Convey("Given TV_AI_LOG is unset", t, func() {
		os.Unsetenv("TV_AI_LOG")
		Convey("LevelFromEnv returns Off", func() {
			So(LevelFromEnv(), ShouldEqual, Off)
		})
	})

	Convey("Given TV_AI_LOG=2", t, func() {
		os.Setenv("TV_AI_LOG", "2")
		defer os.Unsetenv("TV_AI_LOG")
		Convey("LevelFromEnv returns Verbose", func() {
			So(LevelFromEnv(), ShouldEqual, Verbose)
		})
	})

	Convey("Given TV_AI_LOG holds garbage", t, func() {
		os.Setenv("TV_AI_LOG", "banana")
		defer os.Unsetenv("TV_AI_LOG")
		Convey("LevelFromEnv falls back to Off", func() {
			So(LevelFromEnv(), ShouldEqual, Off)
		})
	})
}

func TestAuditorVerbosity(t *testing.T) {
	Convey("Given an Auditor at Level Off", t, func() {
		core, logs := observer.New(zap.DebugLevel)
		a := New(Off, zap.New(core))

		Convey("When RecordAction is called", func() {
			a.RecordAction(1, worldenv.AgentID(1), worldenv.Team(1), "Kite", false)

			Convey("Then nothing is logged", func() {
				So(logs.Len(), ShouldEqual, 0)
			})
		})
	})

	Convey("Given an Auditor at Level Verbose", t, func() {
		core, logs := observer.New(zap.DebugLevel)
		a := New(Verbose, zap.New(core))

		Convey("When RecordAction is called", func() {
			a.RecordAction(1, worldenv.AgentID(1), worldenv.Team(1), "Kite", false)

			Convey("Then one debug entry is logged", func() {
				So(logs.Len(), ShouldEqual, 1)
				So(logs.All()[0].Message, ShouldEqual, "agent action")
			})
		})
	})

	Convey("Given an Auditor at Level Summary", t, func() {
		core, logs := observer.New(zap.DebugLevel)
		a := New(Summary, zap.New(core))

		Convey("When EndTick is called on a non-interval step", func() {
			a.EndTick(1)
			Convey("Then no summary line is emitted", func() {
				So(logs.Len(), ShouldEqual, 0)
			})
		})

		Convey("When EndTick is called on a SummaryInterval boundary", func() {
			a.EndTick(SummaryInterval)
			Convey("Then a summary line is emitted", func() {
				So(logs.Len(), ShouldEqual, 1)
				So(logs.All()[0].Message, ShouldEqual, "tick summary")
			})
		})
	})
}
