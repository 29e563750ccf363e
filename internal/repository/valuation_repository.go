// Package repository persists valuation history records.
package repository

import (
	"context"

	"gorm.io/gorm"

	"github.com/dealscope/dealscope/internal/models"
)

// ValuationRepository is the read/write surface over the history store.
type ValuationRepository interface {
	Insert(ctx context.Context, record *models.HistoryRecord) error
	Recent(ctx context.Context, limit int) ([]models.HistoryRecord, error)
	CountByPlatform(ctx context.Context) (map[string]int64, error)
}

type gormValuationRepository struct {
	db *gorm.DB
}

// NewGormValuationRepository creates the gorm-backed repository.
func NewGormValuationRepository(db *gorm.DB) ValuationRepository {
	return &gormValuationRepository{db: db}
}

func (r *gormValuationRepository) Insert(ctx context.Context, record *models.HistoryRecord) error {
	return r.db.WithContext(ctx).Create(record).Error
}

func (r *gormValuationRepository) Recent(ctx context.Context, limit int) ([]models.HistoryRecord, error) {
	if limit <= 0 {
		limit = 20
	}
	var records []models.HistoryRecord
	err := r.db.WithContext(ctx).
		Order("created_at desc").
		Limit(limit).
		Find(&records).Error
	if err != nil {
		return nil, err
	}
	return records, nil
}

func (r *gormValuationRepository) CountByPlatform(ctx context.Context) (map[string]int64, error) {
	type platformCount struct {
		Platform string
		Count    int64
	}
	var rows []platformCount
	err := r.db.WithContext(ctx).
		Model(&models.HistoryRecord{}).
		Select("platform, count(*) as count").
		Group("platform").
		Scan(&rows).Error
	if err != nil {
		return nil, err
	}

	counts := make(map[string]int64, len(rows))
	for _, row := range rows {
		counts[row.Platform] = row.Count
	}
	return counts, nil
}
