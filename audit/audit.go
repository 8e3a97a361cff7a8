// Package audit is the optional logging companion spec.md §6 describes: it
// is never consulted by a decision and never changes an agent's action
// (§7), it only records what happened. Verbosity is gated by the TV_AI_LOG
// environment variable: 0 off, 1 a summary line every 50 steps, 2 a verbose
// line every step. Grounded on Voskan-arena-cache/pkg/config.go's
// WithLogger(*zap.Logger) functional option — a nil/absent logger degrades
// to zap.NewNop() rather than special-casing every call site.
package audit

import (
	"os"
	"strconv"

	"go.uber.org/zap"

	"github.com/tribalctl/scripted-ai/worldenv"
)

// Level is the TV_AI_LOG verbosity.
type Level int

const (
	Off Level = iota
	Summary
	Verbose
)

// LevelFromEnv reads TV_AI_LOG, defaulting to Off on an unset or
// unparseable value.
func LevelFromEnv() Level {
	v, err := strconv.Atoi(os.Getenv("TV_AI_LOG"))
	if err != nil || v < int(Off) || v > int(Verbose) {
		return Off
	}
	return Level(v)
}

// SummaryInterval is the step cadence of Level Summary's roll-up line.
const SummaryInterval = 50

// Auditor wraps a *zap.Logger and the controller's two reporting cadences.
// A zero-value Auditor (no New call) is not usable; use NewNop for a
// guaranteed-silent default.
type Auditor struct {
	log   *zap.Logger
	level Level

	tickActions int
	tickNoops   int
	tickDelays  int
}

// New builds an Auditor at level, logging through log. A nil log degrades
// to zap.NewNop() so callers never need a separate "logging disabled" path.
func New(level Level, log *zap.Logger) *Auditor {
	if log == nil {
		log = zap.NewNop()
	}
	return &Auditor{log: log, level: level}
}

// NewNop returns an Auditor that never logs, for tests and Level Off.
func NewNop() *Auditor {
	return New(Off, zap.NewNop())
}

// RecordAction logs one agent's decided action at Level Verbose, naming the
// option that produced it (spec.md §7's "record which option/branch fired,
// never change behavior").
func (a *Auditor) RecordAction(step int, agent worldenv.AgentID, team worldenv.Team, option string, delayed bool) {
	switch {
	case delayed:
		a.tickDelays++
	default:
		a.tickActions++
	}
	if a.level < Verbose {
		return
	}
	a.log.Debug("agent action",
		zap.Int("step", step),
		zap.Int("agent", int(agent)),
		zap.Int("team", int(team)),
		zap.String("option", option),
		zap.Bool("delayed", delayed),
	)
}

// RecordNoop logs a tick in which a living agent produced no action because
// no option in its catalog produced one. Dead agents are not recorded.
func (a *Auditor) RecordNoop(step int, agent worldenv.AgentID) {
	a.tickNoops++
	if a.level < Verbose {
		return
	}
	a.log.Debug("agent noop", zap.Int("step", step), zap.Int("agent", int(agent)))
}

// EndTick flushes the per-tick counters into a Level Summary line every
// SummaryInterval steps, then resets them for the next window.
func (a *Auditor) EndTick(step int) {
	if a.level >= Summary && step%SummaryInterval == 0 {
		a.log.Info("tick summary",
			zap.Int("step", step),
			zap.Int("actions", a.tickActions),
			zap.Int("noops", a.tickNoops),
			zap.Int("delays", a.tickDelays),
		)
	}
	a.tickActions, a.tickNoops, a.tickDelays = 0, 0, 0
}

// RecordSettlement logs a town-split event (spec.md §4.8) at Level Summary
// or above; settlement events are rare enough to always surface.
func (a *Auditor) RecordSettlement(step int, team worldenv.Team, pos worldenv.Pos, founded bool) {
	if a.level < Summary {
		return
	}
	a.log.Info("settlement",
		zap.Int("step", step),
		zap.Int("team", int(team)),
		zap.Int("x", pos.X), zap.Int("y", pos.Y),
		zap.Bool("founded", founded),
	)
}
