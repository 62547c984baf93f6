//go:generate mockery --name SessionRepository --output ./mocks --outpkg mocks --case=underscore
package repository

import (
	"context"
	"errors"
	"fmt"

	"spellbee/internal/middleware"
	"spellbee/internal/model"

	"gorm.io/gorm"
	"gorm.io/gorm/clause"
)

// SessionRepository はユーザーごとに1行の再開用セッションを保存します
type SessionRepository interface {
	FindByUser(ctx context.Context, db *gorm.DB, userID string) (*model.SessionRecord, error)
	Save(ctx context.Context, db *gorm.DB, record *model.SessionRecord) error
	DeleteByUser(ctx context.Context, db *gorm.DB, userID string) error
}

type gormSessionRepository struct{}

func NewGormSessionRepository() SessionRepository {
	return &gormSessionRepository{}
}

func (r *gormSessionRepository) FindByUser(ctx context.Context, db *gorm.DB, userID string) (*model.SessionRecord, error) {
	logger := middleware.GetLogger(ctx)
	var record model.SessionRecord

	result := db.WithContext(ctx).Where("user_id = ?", userID).First(&record)
	if result.Error != nil {
		if errors.Is(result.Error, gorm.ErrRecordNotFound) {
			return nil, model.ErrNotFound
		}
		logger.Error("Error finding session by user in DB", "error", result.Error, "user_id", userID)
		return nil, fmt.Errorf("gormSessionRepository.FindByUser: %w", result.Error)
	}
	return &record, nil
}

// Save は既存の行を常に上書きします (履歴は残さない)
func (r *gormSessionRepository) Save(ctx context.Context, db *gorm.DB, record *model.SessionRecord) error {
	logger := middleware.GetLogger(ctx)

	result := db.WithContext(ctx).Clauses(clause.OnConflict{
		Columns:   []clause.Column{{Name: "user_id"}},
		DoUpdates: clause.AssignmentColumns([]string{"words", "cursor", "updated_at"}),
	}).Create(record)
	if result.Error != nil {
		logger.Error("Error saving session in DB", "error", result.Error, "user_id", record.UserID)
		return fmt.Errorf("gormSessionRepository.Save: %w", result.Error)
	}
	return nil
}

func (r *gormSessionRepository) DeleteByUser(ctx context.Context, db *gorm.DB, userID string) error {
	logger := middleware.GetLogger(ctx)

	result := db.WithContext(ctx).Where("user_id = ?", userID).Delete(&model.SessionRecord{})
	if result.Error != nil {
		logger.Error("Error deleting session in DB", "error", result.Error, "user_id", userID)
		return fmt.Errorf("gormSessionRepository.DeleteByUser: %w", result.Error)
	}
	if result.RowsAffected == 0 {
		logger.Debug("Session not found for deletion (idempotent)", "user_id", userID)
	}
	return nil
}
