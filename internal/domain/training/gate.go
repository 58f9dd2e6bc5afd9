// Package training decides when a user's sample collection is ready for
// voice model training.
package training

import (
	"context"
	"fmt"

	"voiceforge/internal/platform/config"
	"voiceforge/internal/platform/logging"
	"voiceforge/internal/utils"
)

const logTag = "READY"

// State classifies a collection's progress toward training.
type State string

const (
	StateNoSamples    State = "no_samples"
	StateInsufficient State = "insufficient"
	StateReady        State = "ready"
)

// Requirements echoes the thresholds a collection must meet, so callers can
// render progress without knowing the engine configuration.
type Requirements struct {
	MinSamples          int     `json:"min_samples"`
	MinTotalDuration    float64 `json:"min_total_duration"`
	RecommendedDuration float64 `json:"recommended_duration"`
	MaxSamples          int     `json:"max_samples"`
}

// Verdict is the readiness decision for one user.
type Verdict struct {
	State         State        `json:"state"`
	Ready         bool         `json:"ready"`
	Reason        string       `json:"reason"`
	SampleCount   int          `json:"sample_count"`
	TotalDuration float64      `json:"total_duration"`
	Requirements  Requirements `json:"requirements"`
}

// DurationSource supplies the stored duration of every sample a user has.
type DurationSource interface {
	Durations(ctx context.Context, userID string) ([]float64, error)
}

// Gate evaluates collections against the training thresholds. All checks
// are conjunctive: sample count, accumulated duration, and duration variety
// must all pass.
type Gate struct {
	cfg    config.EngineConfig
	source DurationSource
	logger *logging.Logger
}

func NewGate(cfg config.EngineConfig, source DurationSource, logger *logging.Logger) *Gate {
	return &Gate{cfg: cfg, source: source, logger: logger}
}

// Check evaluates the user's collection and returns the full verdict.
func (g *Gate) Check(ctx context.Context, userID string) (*Verdict, error) {
	durations, err := g.source.Durations(ctx, userID)
	if err != nil {
		return nil, err
	}

	verdict := &Verdict{
		SampleCount:  len(durations),
		Requirements: g.requirements(),
	}
	for _, d := range durations {
		verdict.TotalDuration += d
	}

	switch {
	case len(durations) == 0:
		verdict.State = StateNoSamples
		verdict.Reason = "no samples recorded yet"

	case len(durations) < g.cfg.MinSamples:
		verdict.State = StateInsufficient
		verdict.Reason = fmt.Sprintf("need at least %d samples, have %d",
			g.cfg.MinSamples, len(durations))

	case verdict.TotalDuration < g.cfg.MinTotalDuration:
		verdict.State = StateInsufficient
		verdict.Reason = fmt.Sprintf("need at least %.0fs of audio, have %.0fs",
			g.cfg.MinTotalDuration, verdict.TotalDuration)

	case utils.StdDev(durations) <= g.cfg.VarietyFactor*utils.Mean(durations):
		verdict.State = StateInsufficient
		verdict.Reason = "sample durations too uniform, record clips of varied length"

	default:
		verdict.State = StateReady
		verdict.Ready = true
		verdict.Reason = "collection meets all training requirements"
		g.logger.InfoTag(logTag, "user ready for training", map[string]interface{}{
			"user":     userID,
			"samples":  verdict.SampleCount,
			"duration": verdict.TotalDuration,
		})
	}

	return verdict, nil
}

// Ready is the boolean projection of Check.
func (g *Gate) Ready(ctx context.Context, userID string) (bool, error) {
	verdict, err := g.Check(ctx, userID)
	if err != nil {
		return false, err
	}
	return verdict.Ready, nil
}

func (g *Gate) requirements() Requirements {
	return Requirements{
		MinSamples:          g.cfg.MinSamples,
		MinTotalDuration:    g.cfg.MinTotalDuration,
		RecommendedDuration: g.cfg.RecommendedDuration,
		MaxSamples:          g.cfg.MaxSamples,
	}
}
