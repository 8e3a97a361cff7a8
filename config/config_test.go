package config

import (
	"os"
	"path/filepath"
	"testing"

	. "github.com/smartystreets/goconvey/convey"

	"github.com/tribalctl/scripted-ai/difficulty"
	"github.com/tribalctl/scripted-ai/gatherer"
)

const sampleYAML = `
kind: tunables
def:
  difficulty:
    red:
      level: hard
      adaptive: true
      targetTerritory: 0.6
      adaptiveCheckInterval: 150
  weights:
    early:
      food: 0.4
      wood: 0.8
      stone: 1.2
      gold: 1.6
`

func writeTempConfig(t *testing.T, body string) string {
	t.Helper()
	dir := t.TempDir()
	path := filepath.Join(dir, "tunables.yaml")
	if err := os.WriteFile(path, []byte(body), 0o644); err != nil {
		t.Fatal(err)
	}
	return path
}

func TestLoad(t *testing.T) {
	Convey("Given a tunables YAML file in the teacher's kind/def envelope", t, func() {
		path := writeTempConfig(t, sampleYAML)

		Convey("When Load decodes it", func() {
			root, err := Load(path)
			So(err, ShouldBeNil)

			Convey("Then the named team's difficulty config reflects the override", func() {
				cfg := root.DifficultyFor("red")
				So(cfg.Level, ShouldEqual, difficulty.Hard)
				So(cfg.Adaptive, ShouldBeTrue)
				So(cfg.TargetTerritory, ShouldEqual, 0.6)
				So(cfg.AdaptiveCheckInterval, ShouldEqual, 150)
			})

			Convey("Then an unconfigured team falls back to Normal defaults", func() {
				cfg := root.DifficultyFor("blue")
				So(cfg.Level, ShouldEqual, difficulty.Normal)
			})

			Convey("Then ApplyGathererWeights overrides only the tiers present in the file", func() {
				root.ApplyGathererWeights()
				So(gatherer.EarlyWeights, ShouldResemble, gatherer.PhaseWeights{Food: 0.4, Wood: 0.8, Stone: 1.2, Gold: 1.6})
			})
		})
	})

	Convey("Given a missing file path", t, func() {
		Convey("When Load is called", func() {
			_, err := Load("/nonexistent/tunables.yaml")
			Convey("Then it returns an error", func() {
				So(err, ShouldNotBeNil)
			})
		})
	})
}
