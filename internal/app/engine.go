// Package app exposes the engine facade that transports and the CLI call
// into. It composes the sample store, the readiness gate, and the event
// bus behind one API.
package app

import (
	"context"

	"gorm.io/gorm"

	"voiceforge/internal/domain/eventbus"
	"voiceforge/internal/domain/sample"
	"voiceforge/internal/domain/sample/store"
	"voiceforge/internal/domain/training"
	"voiceforge/internal/platform/config"
	"voiceforge/internal/platform/logging"
	"voiceforge/internal/platform/storage"
)

const logTag = "ENGINE"

// Options carries everything an Engine needs. All fields are required
// except Logger.
type Options struct {
	Config    config.EngineConfig
	Store     store.Store
	Gate      *training.Gate
	Validator *sample.Validator
	DB        *gorm.DB
	DataDir   string
	Logger    *logging.Logger
}

// Engine is the single entry point for sample management and readiness
// queries.
type Engine struct {
	cfg       config.EngineConfig
	store     store.Store
	gate      *training.Gate
	validator *sample.Validator
	db        *gorm.DB
	dataDir   string
	logger    *logging.Logger
}

func New(opts Options) *Engine {
	e := &Engine{
		cfg:       opts.Config,
		store:     opts.Store,
		gate:      opts.Gate,
		validator: opts.Validator,
		db:        opts.DB,
		dataDir:   opts.DataDir,
		logger:    opts.Logger,
	}
	if e.validator == nil {
		e.validator = sample.NewValidator(opts.Config, opts.Logger)
	}
	return e
}

// ValidateFile runs the acceptance pipeline against a file without storing
// anything, a dry run of AddSample.
func (e *Engine) ValidateFile(path string) (*sample.Report, error) {
	return e.validator.Validate(path)
}

// AddSample validates and stores one uploaded sample, publishing the
// lifecycle event for the outcome. A newly ready collection additionally
// publishes a training readiness event.
func (e *Engine) AddSample(ctx context.Context, userID, filename string, data []byte) (*store.Record, *sample.Report, error) {
	rec, report, err := e.store.Add(ctx, userID, filename, data)
	if err != nil {
		if code, ok := sample.IsRejection(err); ok {
			eventbus.PublishAsync(eventbus.EventSampleRejected, eventbus.SampleEventData{
				UserID:   userID,
				Filename: filename,
				Reason:   string(code),
			})
		}
		return nil, nil, err
	}

	eventbus.PublishAsync(eventbus.EventSampleAccepted, eventbus.SampleEventData{
		UserID:   userID,
		RecordID: rec.RecordID,
		Filename: filename,
		Duration: rec.Duration,
		Quality:  rec.Quality,
	})

	if verdict, gateErr := e.gate.Check(ctx, userID); gateErr == nil && verdict.Ready {
		eventbus.PublishAsync(eventbus.EventTrainingReady, eventbus.TrainingEventData{
			UserID:        userID,
			SampleCount:   verdict.SampleCount,
			TotalDuration: verdict.TotalDuration,
		})
	} else if gateErr != nil {
		e.logger.WarnTag(logTag, "readiness check after add failed", map[string]interface{}{
			"user":  userID,
			"error": gateErr.Error(),
		})
	}

	return rec, report, nil
}

// ListSamples returns the user's stored samples, newest first.
func (e *Engine) ListSamples(ctx context.Context, userID string) ([]store.Record, error) {
	return e.store.List(ctx, userID)
}

// DeleteSample removes one sample, reporting whether it existed.
func (e *Engine) DeleteSample(ctx context.Context, userID, recordID string) (bool, error) {
	existed, err := e.store.Delete(ctx, userID, recordID)
	if err != nil {
		return false, err
	}
	if existed {
		eventbus.PublishAsync(eventbus.EventSampleDeleted, eventbus.SampleEventData{
			UserID:   userID,
			RecordID: recordID,
		})
	}
	return existed, nil
}

// CheckReadiness evaluates whether the user's collection can train a model.
func (e *Engine) CheckReadiness(ctx context.Context, userID string) (*training.Verdict, error) {
	return e.gate.Check(ctx, userID)
}

// IsReady is the boolean projection of CheckReadiness, the call a training
// trigger must make before starting an external training run.
func (e *Engine) IsReady(ctx context.Context, userID string) (bool, error) {
	return e.gate.Ready(ctx, userID)
}

// Guidelines returns the recording guidance for the engine's thresholds.
func (e *Engine) Guidelines() *training.Guidelines {
	return training.DefaultGuidelines(e.cfg)
}

// Stats reports aggregate storage usage across all users.
func (e *Engine) Stats(ctx context.Context) (storage.Stats, error) {
	return storage.CollectStats(ctx, e.db, e.dataDir)
}
