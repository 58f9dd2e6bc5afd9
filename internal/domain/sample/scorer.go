package sample

import (
	"voiceforge/internal/domain/audio"
	"voiceforge/internal/platform/config"
)

// Scorer computes the composite quality score for a decoded sample.
//
// Scoring is gated on background noise: a sample whose silent gaps carry too
// much energy is rejected outright rather than scored, since noise corrupts
// both component metrics.
type Scorer struct {
	cfg config.EngineConfig
}

func NewScorer(cfg config.EngineConfig) *Scorer {
	return &Scorer{cfg: cfg}
}

// Score returns the quality score in [0, 1], the mean of voice-band RMS
// energy and spectral contrast over voice-active frames. Returns a
// RejectionError with CodeExcessNoise when gap noise exceeds the ceiling.
func (s *Scorer) Score(buf *audio.Buffer) (float64, error) {
	noise, err := audio.NoiseLevel(buf, s.cfg.SilenceThresholdDB)
	if err != nil {
		return 0, err
	}
	if noise > s.cfg.MaxNoiseLevel {
		return 0, reject(CodeExcessNoise,
			"background noise level %.2f exceeds maximum %.2f", noise, s.cfg.MaxNoiseLevel)
	}

	rms, err := audio.RMSEnergy(buf)
	if err != nil {
		return 0, err
	}
	contrast, err := audio.SpectralContrast(buf)
	if err != nil {
		return 0, err
	}

	score := (rms + contrast) / 2
	if score > 1 {
		score = 1
	}
	return score, nil
}
