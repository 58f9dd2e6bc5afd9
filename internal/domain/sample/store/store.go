// Package store persists accepted voice samples on disk with a SQLite
// record index.
//
// Writes are two-phase: bytes land in a temp file, validation runs against
// it, and only an accepted sample is renamed into place and indexed. A
// failure at any stage leaves no partial state behind.
package store

import (
	"context"
	"time"

	"voiceforge/internal/domain/sample"
	"voiceforge/internal/platform/config"
)

// Record is the caller-facing view of one stored sample.
type Record struct {
	RecordID  string    `json:"record_id"`
	Filename  string    `json:"filename"`
	Duration  float64   `json:"duration"`
	Quality   float64   `json:"quality"`
	SizeBytes int64     `json:"size_bytes"`
	CreatedAt time.Time `json:"created_at"`
}

// Store manages the per-user sample collections.
type Store interface {
	// Add validates data and, when accepted, persists it under userID.
	Add(ctx context.Context, userID, filename string, data []byte) (*Record, *sample.Report, error)

	// List returns the user's samples newest first, re-reading each file
	// and skipping entries whose audio is no longer decodable.
	List(ctx context.Context, userID string) ([]Record, error)

	// Delete removes a sample, reporting whether it existed.
	Delete(ctx context.Context, userID, recordID string) (bool, error)

	// Count returns the number of stored samples for the user.
	Count(ctx context.Context, userID string) (int64, error)

	// Durations returns the recorded duration of every stored sample,
	// straight from the index without touching the files.
	Durations(ctx context.Context, userID string) ([]float64, error)
}

// Config carries the store's filesystem root and engine thresholds.
type Config struct {
	DataDir string
	Engine  config.EngineConfig
}
