package training

import (
	"context"
	"strings"
	"testing"

	"voiceforge/internal/platform/config"
)

type fakeSource struct {
	durations []float64
	err       error
}

func (f *fakeSource) Durations(ctx context.Context, userID string) ([]float64, error) {
	return f.durations, f.err
}

func check(t *testing.T, durations []float64) *Verdict {
	t.Helper()
	g := NewGate(config.DefaultEngineConfig(), &fakeSource{durations: durations}, nil)
	verdict, err := g.Check(context.Background(), "alice")
	if err != nil {
		t.Fatalf("Check failed: %v", err)
	}
	return verdict
}

func TestCheck_NoSamples(t *testing.T) {
	verdict := check(t, nil)
	if verdict.State != StateNoSamples || verdict.Ready {
		t.Fatalf("verdict %+v, want no_samples and not ready", verdict)
	}
	if verdict.Requirements.MinSamples != 10 {
		t.Errorf("requirements not populated: %+v", verdict.Requirements)
	}
}

func TestCheck_TooFewSamples(t *testing.T) {
	verdict := check(t, []float64{60, 45, 90})
	if verdict.State != StateInsufficient || verdict.Ready {
		t.Fatalf("verdict %+v, want insufficient", verdict)
	}
	if !strings.Contains(verdict.Reason, "samples") {
		t.Errorf("reason %q does not mention sample count", verdict.Reason)
	}
	if verdict.SampleCount != 3 {
		t.Errorf("sample count %d, want 3", verdict.SampleCount)
	}
}

func TestCheck_TooLittleAudio(t *testing.T) {
	// Ten samples but only 150 seconds in total.
	durations := []float64{10, 10, 10, 10, 10, 20, 20, 20, 20, 20}
	verdict := check(t, durations)
	if verdict.State != StateInsufficient || verdict.Ready {
		t.Fatalf("verdict %+v, want insufficient", verdict)
	}
	if !strings.Contains(verdict.Reason, "audio") {
		t.Errorf("reason %q does not mention audio duration", verdict.Reason)
	}
}

func TestCheck_UniformDurations(t *testing.T) {
	// Twelve identical 25s clips clear both count and total duration but
	// carry no variety.
	durations := make([]float64, 12)
	for i := range durations {
		durations[i] = 25
	}
	verdict := check(t, durations)
	if verdict.State != StateInsufficient || verdict.Ready {
		t.Fatalf("verdict %+v, want insufficient for uniform clips", verdict)
	}
	if !strings.Contains(verdict.Reason, "uniform") {
		t.Errorf("reason %q does not mention uniformity", verdict.Reason)
	}
}

func TestCheck_Ready(t *testing.T) {
	durations := []float64{15, 15, 15, 15, 15, 45, 45, 45, 45, 90}
	verdict := check(t, durations)
	if verdict.State != StateReady || !verdict.Ready {
		t.Fatalf("verdict %+v, want ready", verdict)
	}
	if verdict.TotalDuration != 345 {
		t.Errorf("total duration %v, want 345", verdict.TotalDuration)
	}
}

func TestReady_Projection(t *testing.T) {
	g := NewGate(config.DefaultEngineConfig(), &fakeSource{
		durations: []float64{15, 15, 15, 15, 15, 45, 45, 45, 45, 90},
	}, nil)
	ready, err := g.Ready(context.Background(), "alice")
	if err != nil {
		t.Fatalf("Ready failed: %v", err)
	}
	if !ready {
		t.Error("Ready = false for a ready collection")
	}
}

func TestDefaultGuidelines(t *testing.T) {
	g := DefaultGuidelines(config.DefaultEngineConfig())
	if g.Requirements.MinSamples != 10 || g.Requirements.MinTotalDuration != 300 {
		t.Errorf("requirements %+v do not reflect thresholds", g.Requirements)
	}
	if len(g.Formats) == 0 || len(g.Tips) == 0 {
		t.Error("guidelines missing formats or tips")
	}
}
