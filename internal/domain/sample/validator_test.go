package sample

import (
	"math"
	"os"
	"path/filepath"
	"testing"

	"voiceforge/internal/domain/audio"
	"voiceforge/internal/platform/config"
)

const testRate = 16000

func tone(freq, seconds, amp float64) []float64 {
	n := int(seconds * testRate)
	samples := make([]float64, n)
	for i := range samples {
		if math.Sin(2*math.Pi*freq*float64(i)/testRate) >= 0 {
			samples[i] = amp
		} else {
			samples[i] = -amp
		}
	}
	return samples
}

// speechLike assembles voiced bursts at amp separated by one-second pauses.
func speechLike(burstSeconds []float64, amp float64) *audio.Buffer {
	var samples []float64
	for i, d := range burstSeconds {
		if i > 0 {
			samples = append(samples, make([]float64, testRate)...)
		}
		samples = append(samples, tone(300, d, amp)...)
	}
	return &audio.Buffer{Samples: samples, SampleRate: testRate}
}

// variedBursts is long and uneven enough to pass every acceptance check:
// 33s total, five segments, duration stddev 3.2s against a 1.68s floor.
var variedBursts = []float64{4, 4, 4, 4, 12}

func newTestValidator() *Validator {
	return NewValidator(config.DefaultEngineConfig(), nil)
}

func wantRejection(t *testing.T, err error, code RejectionCode) {
	t.Helper()
	got, ok := IsRejection(err)
	if !ok {
		t.Fatalf("expected rejection %s, got %v", code, err)
	}
	if got != code {
		t.Fatalf("expected rejection %s, got %s", code, got)
	}
}

func TestValidateBuffer_Accepts(t *testing.T) {
	v := newTestValidator()

	report, err := v.ValidateBuffer(speechLike(variedBursts, 0.9))
	if err != nil {
		t.Fatalf("expected acceptance, got %v", err)
	}
	if math.Abs(report.Duration-32) > 0.01 {
		t.Errorf("duration %v, want ~32", report.Duration)
	}
	if report.SegmentCount != 5 {
		t.Errorf("segment count %d, want 5", report.SegmentCount)
	}
	if report.QualityScore < 0.7 || report.QualityScore > 1.0 {
		t.Errorf("quality score %v outside accepted range", report.QualityScore)
	}
}

func TestValidateBuffer_TooShort(t *testing.T) {
	v := newTestValidator()
	_, err := v.ValidateBuffer(speechLike([]float64{3, 3, 3}, 0.9))
	wantRejection(t, err, CodeTooShort)
}

func TestValidateBuffer_TooLong(t *testing.T) {
	cfg := config.DefaultEngineConfig()
	cfg.MinDuration = 5
	cfg.MaxDuration = 20
	v := NewValidator(cfg, nil)

	_, err := v.ValidateBuffer(speechLike(variedBursts, 0.9))
	wantRejection(t, err, CodeTooLong)
}

func TestValidateBuffer_LowQuality(t *testing.T) {
	v := newTestValidator()
	// Whisper-level amplitude halves the composite score.
	_, err := v.ValidateBuffer(speechLike(variedBursts, 0.1))
	wantRejection(t, err, CodeLowQuality)
}

func TestValidateBuffer_InsufficientVoiceContent(t *testing.T) {
	v := newTestValidator()
	_, err := v.ValidateBuffer(speechLike([]float64{15, 16}, 0.9))
	wantRejection(t, err, CodeInsufficientVoice)
}

func TestValidateBuffer_InsufficientVariety(t *testing.T) {
	v := newTestValidator()
	_, err := v.ValidateBuffer(speechLike([]float64{7, 7, 7, 7}, 0.9))
	wantRejection(t, err, CodeInsufficientVariety)
}

func TestValidate_UnsupportedFormat(t *testing.T) {
	v := newTestValidator()
	_, err := v.Validate("greeting.ogg")
	wantRejection(t, err, CodeUnsupportedFormat)
}

func TestValidate_WAVFile(t *testing.T) {
	v := newTestValidator()

	path := filepath.Join(t.TempDir(), "sample.wav")
	data := audio.EncodeWAV(speechLike(variedBursts, 0.9))
	if err := os.WriteFile(path, data, 0o644); err != nil {
		t.Fatalf("write fixture: %v", err)
	}

	report, err := v.Validate(path)
	if err != nil {
		t.Fatalf("expected acceptance, got %v", err)
	}
	if report.SegmentCount != 5 {
		t.Errorf("segment count %d, want 5", report.SegmentCount)
	}
}

func TestSupportedFormat(t *testing.T) {
	for _, name := range []string{"a.wav", "b.MP3", "c.Wav"} {
		if !SupportedFormat(name) {
			t.Errorf("SupportedFormat(%q) = false, want true", name)
		}
	}
	for _, name := range []string{"a.ogg", "b.flac", "noext"} {
		if SupportedFormat(name) {
			t.Errorf("SupportedFormat(%q) = true, want false", name)
		}
	}
}
