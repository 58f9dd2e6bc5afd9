package storage

import (
	"context"
	"errors"

	"gorm.io/gorm"
)

// SampleRepository wraps record index access for the sample store.
type SampleRepository struct {
	db *gorm.DB
}

func NewSampleRepository(db *gorm.DB) *SampleRepository {
	return &SampleRepository{db: db}
}

func (r *SampleRepository) Create(ctx context.Context, record *SampleRecord) error {
	return r.db.WithContext(ctx).Create(record).Error
}

// ListByUser returns the user's records ordered newest first.
func (r *SampleRepository) ListByUser(ctx context.Context, userID string) ([]SampleRecord, error) {
	var records []SampleRecord
	err := r.db.WithContext(ctx).
		Where("user_id = ?", userID).
		Order("created_at DESC").
		Find(&records).Error
	if err != nil {
		return nil, err
	}
	return records, nil
}

func (r *SampleRepository) CountByUser(ctx context.Context, userID string) (int64, error) {
	var count int64
	err := r.db.WithContext(ctx).
		Model(&SampleRecord{}).
		Where("user_id = ?", userID).
		Count(&count).Error
	return count, err
}

func (r *SampleRepository) Get(ctx context.Context, userID, recordID string) (SampleRecord, error) {
	var record SampleRecord
	err := r.db.WithContext(ctx).
		Where("user_id = ? AND record_id = ?", userID, recordID).
		First(&record).Error
	return record, err
}

// Delete removes the record and reports whether a row existed.
func (r *SampleRepository) Delete(ctx context.Context, userID, recordID string) (bool, error) {
	result := r.db.WithContext(ctx).
		Where("user_id = ? AND record_id = ?", userID, recordID).
		Delete(&SampleRecord{})
	if result.Error != nil {
		return false, result.Error
	}
	return result.RowsAffected > 0, nil
}

// IsNotFound reports whether err is the record-missing case.
func IsNotFound(err error) bool {
	return err != nil && errors.Is(err, gorm.ErrRecordNotFound)
}
