package storage

import (
	"fmt"
	"os"
	"path/filepath"
	"time"

	"gorm.io/datatypes"
	"gorm.io/driver/sqlite"
	"gorm.io/gorm"
	"gorm.io/gorm/logger"
)

// SampleRecord is the persisted index entry for one accepted voice sample.
// Immutable after creation except for deletion.
type SampleRecord struct {
	ID        uint           `gorm:"primaryKey"`
	RecordID  string         `gorm:"type:varchar(64);uniqueIndex;not null" json:"record_id"`
	UserID    string         `gorm:"index;not null"                        json:"user_id"`
	Filename  string         `gorm:"not null"                              json:"filename"`
	Path      string         `gorm:"not null"                              json:"path"`
	Duration  float64        `                                             json:"duration"`
	Quality   float64        `                                             json:"quality"`
	SizeBytes int64          `                                             json:"size_bytes"`
	CreatedAt time.Time      `gorm:"index"                                 json:"created_at"`
	Metadata  datatypes.JSON `                                             json:"metadata,omitempty"`
}

// Open initialises the SQLite database at dbFile and migrates the schema.
func Open(dbFile string) (*gorm.DB, error) {
	if dir := filepath.Dir(dbFile); dir != "." {
		if err := os.MkdirAll(dir, 0o755); err != nil {
			return nil, fmt.Errorf("create database directory: %w", err)
		}
	}

	db, err := gorm.Open(sqlite.Open(dbFile), &gorm.Config{
		Logger: logger.Default.LogMode(logger.Silent),
	})
	if err != nil {
		return nil, fmt.Errorf("open database: %w", err)
	}

	if err := db.AutoMigrate(&SampleRecord{}); err != nil {
		return nil, fmt.Errorf("migrate database: %w", err)
	}

	return db, nil
}

// OpenInMemory returns a fresh in-memory database, used by tests.
func OpenInMemory() (*gorm.DB, error) {
	dsn := fmt.Sprintf("file:mem_%d?mode=memory&cache=shared", time.Now().UnixNano())
	db, err := gorm.Open(sqlite.Open(dsn), &gorm.Config{
		Logger: logger.Default.LogMode(logger.Silent),
	})
	if err != nil {
		return nil, fmt.Errorf("open in-memory database: %w", err)
	}
	if err := db.AutoMigrate(&SampleRecord{}); err != nil {
		return nil, fmt.Errorf("migrate in-memory database: %w", err)
	}
	return db, nil
}
