package store

import (
	"context"
	"fmt"
	"os"
	"path/filepath"
	"sort"
	"strings"
	"sync"

	"github.com/bytedance/sonic"
	"github.com/google/uuid"
	"golang.org/x/sync/errgroup"

	"voiceforge/internal/domain/audio"
	"voiceforge/internal/domain/sample"
	perrors "voiceforge/internal/platform/errors"
	"voiceforge/internal/platform/logging"
	"voiceforge/internal/platform/storage"
)

const logTag = "STORE"

var _ Store = (*FSStore)(nil)

// FSStore keeps sample files under DataDir/<userID>/ and their index rows
// in SQLite. Mutating operations on the same user are serialized.
type FSStore struct {
	cfg       Config
	repo      *storage.SampleRepository
	validator *sample.Validator
	scorer    *sample.Scorer
	logger    *logging.Logger

	mu    sync.Mutex
	locks map[string]*sync.Mutex
}

func NewFSStore(cfg Config, repo *storage.SampleRepository, validator *sample.Validator, logger *logging.Logger) (*FSStore, error) {
	if err := os.MkdirAll(cfg.DataDir, 0o755); err != nil {
		return nil, perrors.Wrap(perrors.KindStorage, "store", "create data dir", err)
	}
	return &FSStore{
		cfg:       cfg,
		repo:      repo,
		validator: validator,
		scorer:    sample.NewScorer(cfg.Engine),
		logger:    logger,
		locks:     make(map[string]*sync.Mutex),
	}, nil
}

// userLock returns the mutex serializing writes for one user, creating it
// on first use.
func (s *FSStore) userLock(userID string) *sync.Mutex {
	s.mu.Lock()
	defer s.mu.Unlock()
	lock, ok := s.locks[userID]
	if !ok {
		lock = &sync.Mutex{}
		s.locks[userID] = lock
	}
	return lock
}

type recordMetadata struct {
	OriginalFilename string `json:"original_filename"`
	SegmentCount     int    `json:"segment_count"`
}

func (s *FSStore) Add(ctx context.Context, userID, filename string, data []byte) (*Record, *sample.Report, error) {
	const op = "store.add"

	if userID == "" {
		return nil, nil, perrors.New(perrors.KindValidation, op, "empty user id")
	}
	if !sample.SupportedFormat(filename) {
		return nil, nil, &sample.RejectionError{
			Code:    sample.CodeUnsupportedFormat,
			Message: fmt.Sprintf("unsupported audio format %q, expected wav or mp3", filepath.Ext(filename)),
		}
	}

	lock := s.userLock(userID)
	lock.Lock()
	defer lock.Unlock()

	count, err := s.repo.CountByUser(ctx, userID)
	if err != nil {
		return nil, nil, perrors.Wrap(perrors.KindStorage, op, "count samples", err)
	}
	if count >= int64(s.cfg.Engine.MaxSamples) {
		return nil, nil, perrors.New(perrors.KindCapacity, op,
			fmt.Sprintf("sample limit reached (%d)", s.cfg.Engine.MaxSamples))
	}

	userDir := filepath.Join(s.cfg.DataDir, userID)
	if err := os.MkdirAll(userDir, 0o755); err != nil {
		return nil, nil, perrors.Wrap(perrors.KindStorage, op, "create user dir", err)
	}

	recordID := uuid.NewString()
	ext := strings.ToLower(filepath.Ext(filename))
	tmpPath := filepath.Join(userDir, ".tmp-"+recordID+ext)
	finalPath := filepath.Join(userDir, recordID+ext)

	if err := os.WriteFile(tmpPath, data, 0o644); err != nil {
		return nil, nil, perrors.Wrap(perrors.KindStorage, op, "write temp file", err)
	}

	report, err := s.validator.Validate(tmpPath)
	if err != nil {
		os.Remove(tmpPath)
		return nil, nil, err
	}

	if err := os.Rename(tmpPath, finalPath); err != nil {
		os.Remove(tmpPath)
		return nil, nil, perrors.Wrap(perrors.KindStorage, op, "commit sample file", err)
	}

	meta, _ := sonic.Marshal(recordMetadata{
		OriginalFilename: filename,
		SegmentCount:     report.SegmentCount,
	})
	row := &storage.SampleRecord{
		RecordID:  recordID,
		UserID:    userID,
		Filename:  filename,
		Path:      finalPath,
		Duration:  report.Duration,
		Quality:   report.QualityScore,
		SizeBytes: int64(len(data)),
		Metadata:  meta,
	}
	if err := s.repo.Create(ctx, row); err != nil {
		os.Remove(finalPath)
		return nil, nil, perrors.Wrap(perrors.KindStorage, op, "index sample", err)
	}

	s.logger.InfoTag(logTag, "sample stored", map[string]interface{}{
		"user":     userID,
		"record":   recordID,
		"duration": report.Duration,
	})

	return recordFromRow(row), report, nil
}

func (s *FSStore) List(ctx context.Context, userID string) ([]Record, error) {
	const op = "store.list"

	rows, err := s.repo.ListByUser(ctx, userID)
	if err != nil {
		return nil, perrors.Wrap(perrors.KindStorage, op, "list samples", err)
	}

	results := make([]*Record, len(rows))
	g, gctx := errgroup.WithContext(ctx)
	g.SetLimit(s.cfg.Engine.ListConcurrency)
	for i := range rows {
		i := i
		g.Go(func() error {
			if err := gctx.Err(); err != nil {
				return err
			}
			row := rows[i]
			buf, err := audio.Decode(row.Path)
			if err != nil {
				s.logger.WarnTag(logTag, "skipping unreadable sample", map[string]interface{}{
					"record": row.RecordID,
					"error":  err.Error(),
				})
				return nil
			}
			rec := recordFromRow(&row)
			rec.Duration = buf.Duration()
			// Fresh quality where scoring still succeeds; a sample that
			// now trips the noise gate keeps its stored score.
			if quality, err := s.scorer.Score(buf); err == nil {
				rec.Quality = quality
			}
			results[i] = rec
			return nil
		})
	}
	if err := g.Wait(); err != nil {
		return nil, perrors.Wrap(perrors.KindStorage, op, "scan samples", err)
	}

	out := make([]Record, 0, len(results))
	for _, rec := range results {
		if rec != nil {
			out = append(out, *rec)
		}
	}
	sort.SliceStable(out, func(i, j int) bool {
		return out[i].CreatedAt.After(out[j].CreatedAt)
	})
	return out, nil
}

func (s *FSStore) Delete(ctx context.Context, userID, recordID string) (bool, error) {
	const op = "store.delete"

	lock := s.userLock(userID)
	lock.Lock()
	defer lock.Unlock()

	row, err := s.repo.Get(ctx, userID, recordID)
	if err != nil {
		if storage.IsNotFound(err) {
			return false, nil
		}
		return false, perrors.Wrap(perrors.KindStorage, op, "load sample record", err)
	}

	if err := os.Remove(row.Path); err != nil && !os.IsNotExist(err) {
		return false, perrors.Wrap(perrors.KindStorage, op, "remove sample file", err)
	}

	existed, err := s.repo.Delete(ctx, userID, recordID)
	if err != nil {
		return false, perrors.Wrap(perrors.KindStorage, op, "remove sample record", err)
	}

	s.logger.InfoTag(logTag, "sample deleted", map[string]interface{}{
		"user":   userID,
		"record": recordID,
	})
	return existed, nil
}

func (s *FSStore) Count(ctx context.Context, userID string) (int64, error) {
	count, err := s.repo.CountByUser(ctx, userID)
	if err != nil {
		return 0, perrors.Wrap(perrors.KindStorage, "store.count", "count samples", err)
	}
	return count, nil
}

func (s *FSStore) Durations(ctx context.Context, userID string) ([]float64, error) {
	rows, err := s.repo.ListByUser(ctx, userID)
	if err != nil {
		return nil, perrors.Wrap(perrors.KindStorage, "store.durations", "list samples", err)
	}
	durations := make([]float64, len(rows))
	for i, row := range rows {
		durations[i] = row.Duration
	}
	return durations, nil
}

func recordFromRow(row *storage.SampleRecord) *Record {
	return &Record{
		RecordID:  row.RecordID,
		Filename:  row.Filename,
		Duration:  row.Duration,
		Quality:   row.Quality,
		SizeBytes: row.SizeBytes,
		CreatedAt: row.CreatedAt,
	}
}
