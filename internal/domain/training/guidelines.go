package training

import "voiceforge/internal/platform/config"

// Guidelines describes how users should record samples that will pass
// validation and build toward readiness.
type Guidelines struct {
	Requirements Requirements `json:"requirements"`
	MinDuration  float64      `json:"min_sample_duration"`
	MaxDuration  float64      `json:"max_sample_duration"`
	Formats      []string     `json:"formats"`
	Tips         []string     `json:"tips"`
}

// DefaultGuidelines renders the recording guidance for the given thresholds.
func DefaultGuidelines(cfg config.EngineConfig) *Guidelines {
	return &Guidelines{
		Requirements: Requirements{
			MinSamples:          cfg.MinSamples,
			MinTotalDuration:    cfg.MinTotalDuration,
			RecommendedDuration: cfg.RecommendedDuration,
			MaxSamples:          cfg.MaxSamples,
		},
		MinDuration: cfg.MinDuration,
		MaxDuration: cfg.MaxDuration,
		Formats:     []string{"wav", "mp3"},
		Tips: []string{
			"Record in a quiet room without background music or fans",
			"Keep a consistent distance from the microphone",
			"Speak naturally, with normal pauses between sentences",
			"Mix short and long recordings instead of repeating the same length",
			"Read varied material: conversation, narration, questions",
		},
	}
}
