// Package config loads the controller's tunable configuration from a YAML
// document: per-team difficulty settings and the gatherer resource-weight
// table (spec.md §4.4, §4.5's tuning surface; the rest of the spec's
// capacities stay compile-time constants in package limits). It follows the
// teacher's own two-stage decode, originally written for TrainingConfig in
// tabular/reinforcement/learning.go: viper reads the file into an outer
// {kind, def} envelope, then def is re-marshaled and decoded into the
// concrete typed config below.
package config

import (
	"fmt"
	"path/filepath"
	"strings"

	"github.com/spf13/viper"
	"gopkg.in/yaml.v3"

	"github.com/tribalctl/scripted-ai/difficulty"
	"github.com/tribalctl/scripted-ai/gatherer"
)

// outerConfig mirrors the teacher's reinforcement.OuterConfig envelope.
type outerConfig struct {
	Kind string      `mapstructure:"kind"`
	Def  interface{} `mapstructure:"def"`
}

// TeamDifficulty is one team's difficulty tuning, decoded from YAML. Level
// names match difficulty.Level's String form (case-insensitive).
type TeamDifficulty struct {
	Level                 string  `yaml:"level"`
	Adaptive              bool    `yaml:"adaptive"`
	TargetTerritory       float64 `yaml:"targetTerritory"`
	AdaptiveCheckInterval int     `yaml:"adaptiveCheckInterval"`
}

// ToDifficultyConfig builds a *difficulty.Config from the decoded settings,
// defaulting to Normal and a 200-step adaptive check interval when the YAML
// leaves a field at its zero value.
func (t TeamDifficulty) ToDifficultyConfig() *difficulty.Config {
	cfg := difficulty.New(levelFromName(t.Level))
	cfg.Adaptive = t.Adaptive
	if t.TargetTerritory > 0 {
		cfg.TargetTerritory = t.TargetTerritory
	}
	if t.AdaptiveCheckInterval > 0 {
		cfg.AdaptiveCheckInterval = t.AdaptiveCheckInterval
	}
	return cfg
}

func levelFromName(name string) difficulty.Level {
	switch strings.ToLower(name) {
	case "easy":
		return difficulty.Easy
	case "hard":
		return difficulty.Hard
	case "brutal":
		return difficulty.Brutal
	default:
		return difficulty.Normal
	}
}

// WeightTier is one phase's food/wood/stone/gold weight row.
type WeightTier struct {
	Food  float64 `yaml:"food"`
	Wood  float64 `yaml:"wood"`
	Stone float64 `yaml:"stone"`
	Gold  float64 `yaml:"gold"`
}

func (w WeightTier) toPhaseWeights() gatherer.PhaseWeights {
	return gatherer.PhaseWeights{Food: w.Food, Wood: w.Wood, Stone: w.Stone, Gold: w.Gold}
}

func (w WeightTier) isZero() bool {
	return w == WeightTier{}
}

// GathererWeights is the early/mid/late phase-weight table, overriding
// gatherer's package defaults when present.
type GathererWeights struct {
	Early WeightTier `yaml:"early"`
	Mid   WeightTier `yaml:"mid"`
	Late  WeightTier `yaml:"late"`
}

// Root is the fully decoded tunables document.
type Root struct {
	Difficulty map[string]TeamDifficulty `yaml:"difficulty"`
	Weights    GathererWeights           `yaml:"weights"`
}

// DifficultyFor returns team's decoded difficulty config, or Normal
// defaults if team has no entry in the YAML.
func (r *Root) DifficultyFor(team string) *difficulty.Config {
	if r == nil {
		return difficulty.New(difficulty.Normal)
	}
	if t, ok := r.Difficulty[team]; ok {
		return t.ToDifficultyConfig()
	}
	return difficulty.New(difficulty.Normal)
}

// ApplyGathererWeights overwrites gatherer's package-level phase-weight
// variables with r's, skipping any tier left entirely at its zero value so a
// YAML file that only tunes difficulty doesn't zero out gathering.
func (r *Root) ApplyGathererWeights() {
	if r == nil {
		return
	}
	if !r.Weights.Early.isZero() {
		gatherer.EarlyWeights = r.Weights.Early.toPhaseWeights()
	}
	if !r.Weights.Mid.isZero() {
		gatherer.MidWeights = r.Weights.Mid.toPhaseWeights()
	}
	if !r.Weights.Late.isZero() {
		gatherer.LateWeights = r.Weights.Late.toPhaseWeights()
	}
}

// Load reads path (a YAML file in the teacher's {kind, def} envelope form)
// and decodes it into a Root.
func Load(path string) (*Root, error) {
	vp := viper.New()
	vp.SetConfigFile(filepath.Base(path))
	vp.SetConfigType("yaml")
	vp.AddConfigPath(filepath.Dir(path))
	if err := vp.ReadInConfig(); err != nil {
		return nil, fmt.Errorf("reading config %q: %w", path, err)
	}

	var outer outerConfig
	if err := vp.Unmarshal(&outer); err != nil {
		return nil, fmt.Errorf("decoding config envelope %q: %w", path, err)
	}

	spec, err := yaml.Marshal(outer.Def)
	if err != nil {
		return nil, fmt.Errorf("re-marshaling config def %q: %w", path, err)
	}

	root := &Root{}
	if err := yaml.Unmarshal(spec, root); err != nil {
		return nil, fmt.Errorf("decoding config def %q: %w", path, err)
	}
	return root, nil
}
