package storage

import (
	"context"

	"github.com/shirou/gopsutil/v3/disk"
	"gorm.io/gorm"
)

// Stats summarises the sample index and the disk holding the data directory.
type Stats struct {
	TotalRecords    int64   `json:"total_records"`
	TotalUsers      int64   `json:"total_users"`
	TotalBytes      int64   `json:"total_bytes"`
	DiskUsedPercent float64 `json:"disk_used_percent"`
	DiskFreeBytes   uint64  `json:"disk_free_bytes"`
}

// CollectStats gathers index totals plus disk usage for dataDir.
func CollectStats(ctx context.Context, db *gorm.DB, dataDir string) (Stats, error) {
	var stats Stats

	if err := db.WithContext(ctx).Model(&SampleRecord{}).Count(&stats.TotalRecords).Error; err != nil {
		return stats, err
	}
	if err := db.WithContext(ctx).
		Model(&SampleRecord{}).
		Distinct("user_id").
		Count(&stats.TotalUsers).Error; err != nil {
		return stats, err
	}

	var totalBytes *int64
	if err := db.WithContext(ctx).
		Model(&SampleRecord{}).
		Select("SUM(size_bytes)").
		Scan(&totalBytes).Error; err != nil {
		return stats, err
	}
	if totalBytes != nil {
		stats.TotalBytes = *totalBytes
	}

	if usage, err := disk.UsageWithContext(ctx, dataDir); err == nil {
		stats.DiskUsedPercent = usage.UsedPercent
		stats.DiskFreeBytes = usage.Free
	}

	return stats, nil
}
