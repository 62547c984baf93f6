// internal/repository/progress_repository.go
//go:generate mockery --name ProgressRepository --output ./mocks --outpkg mocks --case=underscore
package repository

import (
	"context"
	"fmt"

	"spellbee/internal/middleware"
	"spellbee/internal/model"

	"gorm.io/gorm"
	"gorm.io/gorm/clause"
)

// ProgressRepository は (user, word) ごとの attempt_count を保存します。
// すべてのクエリは user_id で絞り込む
type ProgressRepository interface {
	FindByUser(ctx context.Context, db *gorm.DB, userID string) ([]*model.ProgressRecord, error)
	UpsertMany(ctx context.Context, tx *gorm.DB, records []*model.ProgressRecord) error // トランザクション対応
	DeleteByUser(ctx context.Context, tx *gorm.DB, userID string) error
}

type gormProgressRepository struct{}

func NewGormProgressRepository() ProgressRepository {
	return &gormProgressRepository{}
}

func (r *gormProgressRepository) FindByUser(ctx context.Context, db *gorm.DB, userID string) ([]*model.ProgressRecord, error) {
	logger := middleware.GetLogger(ctx)
	var records []*model.ProgressRecord

	result := db.WithContext(ctx).Where("user_id = ?", userID).Order("id ASC").Find(&records)
	if result.Error != nil {
		logger.Error("Error finding progress by user in DB", "error", result.Error, "user_id", userID)
		return nil, fmt.Errorf("gormProgressRepository.FindByUser: %w", result.Error)
	}
	return records, nil
}

// UpsertMany は (user_id, word) が既にあれば attempt_count と last_practiced を上書きします
func (r *gormProgressRepository) UpsertMany(ctx context.Context, tx *gorm.DB, records []*model.ProgressRecord) error {
	if len(records) == 0 {
		return nil
	}
	logger := middleware.GetLogger(ctx)

	result := tx.WithContext(ctx).Clauses(clause.OnConflict{
		Columns:   []clause.Column{{Name: "user_id"}, {Name: "word"}},
		DoUpdates: clause.AssignmentColumns([]string{"attempt_count", "last_practiced", "updated_at"}),
	}).Create(&records)
	if result.Error != nil {
		logger.Error("Error upserting progress in DB", "error", result.Error, "count", len(records))
		return fmt.Errorf("gormProgressRepository.UpsertMany: %w", result.Error)
	}
	return nil
}

func (r *gormProgressRepository) DeleteByUser(ctx context.Context, tx *gorm.DB, userID string) error {
	logger := middleware.GetLogger(ctx)

	result := tx.WithContext(ctx).Where("user_id = ?", userID).Delete(&model.ProgressRecord{})
	if result.Error != nil {
		logger.Error("Error deleting progress in DB", "error", result.Error, "user_id", userID)
		return fmt.Errorf("gormProgressRepository.DeleteByUser: %w", result.Error)
	}
	logger.Debug("Progress deleted", "user_id", userID, "rows", result.RowsAffected)
	return nil
}
