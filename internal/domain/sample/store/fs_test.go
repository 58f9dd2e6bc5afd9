package store

import (
	"context"
	"fmt"
	"math"
	"os"
	"path/filepath"
	"sync"
	"testing"
	"time"

	"voiceforge/internal/domain/audio"
	"voiceforge/internal/domain/sample"
	"voiceforge/internal/platform/config"
	perrors "voiceforge/internal/platform/errors"
	"voiceforge/internal/platform/storage"
)

// Fixtures use a low rate to keep encode/validate cycles cheap.
const fixtureRate = 8000

func squareBursts(burstSeconds []float64, amp float64) *audio.Buffer {
	var samples []float64
	for i, d := range burstSeconds {
		if i > 0 {
			samples = append(samples, make([]float64, fixtureRate)...)
		}
		n := int(d * fixtureRate)
		for j := 0; j < n; j++ {
			if math.Sin(2*math.Pi*300*float64(j)/fixtureRate) >= 0 {
				samples = append(samples, amp)
			} else {
				samples = append(samples, -amp)
			}
		}
	}
	return &audio.Buffer{Samples: samples, SampleRate: fixtureRate}
}

func acceptableWAV() []byte {
	return audio.EncodeWAV(squareBursts([]float64{4, 4, 4, 4, 12}, 0.9))
}

func shortWAV() []byte {
	return audio.EncodeWAV(squareBursts([]float64{2, 2, 2}, 0.9))
}

func newTestStore(t *testing.T) (*FSStore, *storage.SampleRepository) {
	t.Helper()
	db, err := storage.OpenInMemory()
	if err != nil {
		t.Fatalf("open database: %v", err)
	}
	repo := storage.NewSampleRepository(db)
	cfg := Config{DataDir: t.TempDir(), Engine: config.DefaultEngineConfig()}
	s, err := NewFSStore(cfg, repo, sample.NewValidator(cfg.Engine, nil), nil)
	if err != nil {
		t.Fatalf("create store: %v", err)
	}
	return s, repo
}

func TestAddListDelete(t *testing.T) {
	s, _ := newTestStore(t)
	ctx := context.Background()

	rec, report, err := s.Add(ctx, "alice", "greeting.wav", acceptableWAV())
	if err != nil {
		t.Fatalf("Add failed: %v", err)
	}
	if rec.RecordID == "" {
		t.Fatal("record id is empty")
	}
	if report.SegmentCount != 5 {
		t.Errorf("segment count %d, want 5", report.SegmentCount)
	}

	storedPath := filepath.Join(s.cfg.DataDir, "alice", rec.RecordID+".wav")
	if _, err := os.Stat(storedPath); err != nil {
		t.Fatalf("stored file missing: %v", err)
	}

	records, err := s.List(ctx, "alice")
	if err != nil {
		t.Fatalf("List failed: %v", err)
	}
	if len(records) != 1 {
		t.Fatalf("expected 1 record, got %d", len(records))
	}
	if math.Abs(records[0].Duration-32) > 0.1 {
		t.Errorf("listed duration %v, want ~32", records[0].Duration)
	}
	if records[0].Filename != "greeting.wav" {
		t.Errorf("filename %q, want greeting.wav", records[0].Filename)
	}

	existed, err := s.Delete(ctx, "alice", rec.RecordID)
	if err != nil {
		t.Fatalf("Delete failed: %v", err)
	}
	if !existed {
		t.Fatal("Delete reported missing record")
	}
	if _, err := os.Stat(storedPath); !os.IsNotExist(err) {
		t.Errorf("sample file still present after delete")
	}

	// Deleting again is a no-op, not an error.
	existed, err = s.Delete(ctx, "alice", rec.RecordID)
	if err != nil {
		t.Fatalf("second Delete failed: %v", err)
	}
	if existed {
		t.Error("second Delete reported an existing record")
	}
}

func TestAdd_RejectionLeavesNoState(t *testing.T) {
	s, _ := newTestStore(t)
	ctx := context.Background()

	_, _, err := s.Add(ctx, "alice", "clip.wav", shortWAV())
	if code, ok := sample.IsRejection(err); !ok || code != sample.CodeTooShort {
		t.Fatalf("expected too_short rejection, got %v", err)
	}

	count, err := s.Count(ctx, "alice")
	if err != nil {
		t.Fatalf("Count failed: %v", err)
	}
	if count != 0 {
		t.Errorf("count %d after rejection, want 0", count)
	}

	entries, err := os.ReadDir(filepath.Join(s.cfg.DataDir, "alice"))
	if err == nil && len(entries) != 0 {
		t.Errorf("found %d leftover files after rejection", len(entries))
	}
}

func TestAdd_UnsupportedFormat(t *testing.T) {
	s, _ := newTestStore(t)

	_, _, err := s.Add(context.Background(), "alice", "clip.ogg", []byte("OggS"))
	if code, ok := sample.IsRejection(err); !ok || code != sample.CodeUnsupportedFormat {
		t.Fatalf("expected unsupported_format rejection, got %v", err)
	}
}

func TestAdd_CapacityLimit(t *testing.T) {
	s, repo := newTestStore(t)
	ctx := context.Background()

	for i := 0; i < s.cfg.Engine.MaxSamples; i++ {
		row := &storage.SampleRecord{
			RecordID: fmt.Sprintf("seed-%03d", i),
			UserID:   "bob",
			Filename: "clip.wav",
			Path:     "/nonexistent",
			Duration: 40,
		}
		if err := repo.Create(ctx, row); err != nil {
			t.Fatalf("seed record %d: %v", i, err)
		}
	}

	_, _, err := s.Add(ctx, "bob", "clip.wav", acceptableWAV())
	if !perrors.IsKind(err, perrors.KindCapacity) {
		t.Fatalf("expected capacity error, got %v", err)
	}
}

func TestList_SkipsUnreadableFiles(t *testing.T) {
	s, _ := newTestStore(t)
	ctx := context.Background()

	rec, _, err := s.Add(ctx, "carol", "clip.wav", acceptableWAV())
	if err != nil {
		t.Fatalf("Add failed: %v", err)
	}

	storedPath := filepath.Join(s.cfg.DataDir, "carol", rec.RecordID+".wav")
	if err := os.WriteFile(storedPath, []byte("no longer audio"), 0o644); err != nil {
		t.Fatalf("corrupt fixture: %v", err)
	}

	records, err := s.List(ctx, "carol")
	if err != nil {
		t.Fatalf("List failed: %v", err)
	}
	if len(records) != 0 {
		t.Errorf("expected corrupt record skipped, got %d entries", len(records))
	}
}

func TestList_NewestFirst(t *testing.T) {
	s, repo := newTestStore(t)
	ctx := context.Background()

	userDir := filepath.Join(s.cfg.DataDir, "dave")
	if err := os.MkdirAll(userDir, 0o755); err != nil {
		t.Fatalf("mkdir: %v", err)
	}
	data := acceptableWAV()
	base := time.Now().Add(-time.Hour)
	for i, id := range []string{"older", "newer"} {
		path := filepath.Join(userDir, id+".wav")
		if err := os.WriteFile(path, data, 0o644); err != nil {
			t.Fatalf("write fixture: %v", err)
		}
		row := &storage.SampleRecord{
			RecordID:  id,
			UserID:    "dave",
			Filename:  id + ".wav",
			Path:      path,
			Duration:  32,
			CreatedAt: base.Add(time.Duration(i) * time.Minute),
		}
		if err := repo.Create(ctx, row); err != nil {
			t.Fatalf("seed record: %v", err)
		}
	}

	records, err := s.List(ctx, "dave")
	if err != nil {
		t.Fatalf("List failed: %v", err)
	}
	if len(records) != 2 {
		t.Fatalf("expected 2 records, got %d", len(records))
	}
	if records[0].RecordID != "newer" || records[1].RecordID != "older" {
		t.Errorf("order %q, %q; want newer, older", records[0].RecordID, records[1].RecordID)
	}
}

func TestDurations(t *testing.T) {
	s, repo := newTestStore(t)
	ctx := context.Background()

	for i, d := range []float64{35, 42, 58} {
		row := &storage.SampleRecord{
			RecordID: []string{"a", "b", "c"}[i],
			UserID:   "erin",
			Filename: "clip.wav",
			Path:     "/nonexistent",
			Duration: d,
		}
		if err := repo.Create(ctx, row); err != nil {
			t.Fatalf("seed record: %v", err)
		}
	}

	durations, err := s.Durations(ctx, "erin")
	if err != nil {
		t.Fatalf("Durations failed: %v", err)
	}
	var total float64
	for _, d := range durations {
		total += d
	}
	if len(durations) != 3 || math.Abs(total-135) > 1e-9 {
		t.Errorf("durations %v, want three values summing 135", durations)
	}
}

func TestAdd_ConcurrentSameUser(t *testing.T) {
	s, _ := newTestStore(t)
	ctx := context.Background()
	data := acceptableWAV()

	var wg sync.WaitGroup
	errs := make([]error, 3)
	for i := 0; i < 3; i++ {
		i := i
		wg.Add(1)
		go func() {
			defer wg.Done()
			_, _, errs[i] = s.Add(ctx, "frank", "clip.wav", data)
		}()
	}
	wg.Wait()

	for i, err := range errs {
		if err != nil {
			t.Fatalf("concurrent Add %d failed: %v", i, err)
		}
	}
	count, err := s.Count(ctx, "frank")
	if err != nil {
		t.Fatalf("Count failed: %v", err)
	}
	if count != 3 {
		t.Errorf("count %d after concurrent adds, want 3", count)
	}
}
