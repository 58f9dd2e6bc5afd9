// Package sample implements acceptance validation for voice samples.
//
// A sample passes through an ordered pipeline of checks: decode, duration
// bounds, quality scoring, and voice-content analysis. The first failed
// check rejects the sample with a typed RejectionError; later checks never
// run, so callers see the most fundamental defect first.
package sample

import (
	"path/filepath"
	"strings"

	"voiceforge/internal/domain/audio"
	"voiceforge/internal/platform/config"
	"voiceforge/internal/platform/logging"
	"voiceforge/internal/utils"
)

const logTag = "VALIDATE"

// Report summarizes an accepted sample.
type Report struct {
	Duration     float64 `json:"duration"`
	QualityScore float64 `json:"quality_score"`
	SegmentCount int     `json:"segment_count"`
}

// Validator runs the full acceptance pipeline against audio files.
type Validator struct {
	cfg    config.EngineConfig
	scorer *Scorer
	logger *logging.Logger
}

func NewValidator(cfg config.EngineConfig, logger *logging.Logger) *Validator {
	return &Validator{
		cfg:    cfg,
		scorer: NewScorer(cfg),
		logger: logger,
	}
}

// SupportedFormat reports whether the filename extension names a decodable
// audio format.
func SupportedFormat(filename string) bool {
	switch strings.ToLower(filepath.Ext(filename)) {
	case ".wav", ".mp3":
		return true
	}
	return false
}

// Validate decodes the file at path and runs every acceptance check.
func (v *Validator) Validate(path string) (*Report, error) {
	if !SupportedFormat(path) {
		return nil, reject(CodeUnsupportedFormat,
			"unsupported audio format %q, expected wav or mp3", filepath.Ext(path))
	}
	buf, err := audio.Decode(path)
	if err != nil {
		return nil, err
	}
	return v.ValidateBuffer(buf)
}

// ValidateBuffer runs the acceptance checks against already-decoded audio.
func (v *Validator) ValidateBuffer(buf *audio.Buffer) (*Report, error) {
	duration := buf.Duration()
	if duration < v.cfg.MinDuration {
		return nil, reject(CodeTooShort,
			"duration %.1fs is below minimum %.0fs", duration, v.cfg.MinDuration)
	}
	if duration > v.cfg.MaxDuration {
		return nil, reject(CodeTooLong,
			"duration %.1fs exceeds maximum %.0fs", duration, v.cfg.MaxDuration)
	}

	score, err := v.scorer.Score(buf)
	if err != nil {
		return nil, err
	}
	if score < v.cfg.MinQualityScore {
		return nil, reject(CodeLowQuality,
			"quality score %.2f is below minimum %.2f", score, v.cfg.MinQualityScore)
	}

	segments, err := audio.VoiceSegments(buf, v.cfg.SilenceThresholdDB)
	if err != nil {
		return nil, err
	}
	if len(segments) < v.cfg.MinVoiceSegments {
		return nil, reject(CodeInsufficientVoice,
			"found %d voice segments, need at least %d", len(segments), v.cfg.MinVoiceSegments)
	}

	durations := make([]float64, len(segments))
	for i, seg := range segments {
		durations[i] = seg.Duration(buf.SampleRate)
	}
	mean := utils.Mean(durations)
	stddev := utils.StdDev(durations)
	if stddev <= v.cfg.VarietyFactor*mean {
		return nil, reject(CodeInsufficientVariety,
			"segment durations too uniform (stddev %.2fs, mean %.2fs)", stddev, mean)
	}

	v.logger.InfoTag(logTag, "sample accepted",
		map[string]interface{}{
			"duration": duration,
			"score":    score,
			"segments": len(segments),
		})

	return &Report{
		Duration:     duration,
		QualityScore: score,
		SegmentCount: len(segments),
	}, nil
}
