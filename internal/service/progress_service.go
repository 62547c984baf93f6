package service

import (
	"context"
	"errors"
	"fmt"
	"maps"
	"slices"
	"time"

	"spellbee/internal/middleware"
	"spellbee/internal/model"
	"spellbee/internal/repository"

	"gorm.io/gorm"
)

// ProgressService はユーザーごとの進捗 (word -> attempt_count) を読み書きします
type ProgressService interface {
	Load(ctx context.Context, userID string) (model.ProgressMap, error)
	Save(ctx context.Context, userID string, progress model.ProgressMap) error
	Reset(ctx context.Context, userID string) error
}

type progressService struct {
	db          *gorm.DB
	progRepo    repository.ProgressRepository
	sessionRepo repository.SessionRepository
	now         func() time.Time
}

func NewProgressService(db *gorm.DB, progRepo repository.ProgressRepository, sessionRepo repository.SessionRepository) ProgressService {
	return &progressService{
		db:          db,
		progRepo:    progRepo,
		sessionRepo: sessionRepo,
		now:         time.Now,
	}
}

// Load は未知のユーザーなら空のマップを返します
func (s *progressService) Load(ctx context.Context, userID string) (model.ProgressMap, error) {
	records, err := s.progRepo.FindByUser(ctx, s.db, userID)
	if err != nil {
		return nil, persistenceError("Progress could not be loaded.", err)
	}
	progress := make(model.ProgressMap, len(records))
	for _, r := range records {
		progress[r.Word] = r.AttemptCount
	}
	return progress, nil
}

// Save はすべてのエントリを1トランザクションで upsert します。
// attempt_count < 1 が1つでもあれば何も書かない
func (s *progressService) Save(ctx context.Context, userID string, progress model.ProgressMap) error {
	logger := middleware.GetLogger(ctx)

	if len(progress) == 0 {
		return nil
	}

	now := s.now().UTC()
	records := make([]*model.ProgressRecord, 0, len(progress))
	for _, word := range slices.Sorted(maps.Keys(progress)) {
		count := progress[word]
		if count < 1 {
			return model.NewAppError("VALIDATION_ERROR", fmt.Sprintf("Attempt count for %q must be at least 1.", word), "attempt_count", model.ErrInvalidInput)
		}
		records = append(records, &model.ProgressRecord{
			UserID:        userID,
			Word:          word,
			AttemptCount:  count,
			LastPracticed: now,
		})
	}

	err := s.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		return s.progRepo.UpsertMany(ctx, tx, records)
	})
	if err != nil {
		return persistenceError("Progress could not be saved.", err)
	}

	logger.Debug("Progress saved", "count", len(records))
	return nil
}

// Reset は進捗と保存済みセッションをまとめて削除します
func (s *progressService) Reset(ctx context.Context, userID string) error {
	logger := middleware.GetLogger(ctx)

	err := s.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		if err := s.progRepo.DeleteByUser(ctx, tx, userID); err != nil {
			return err
		}
		return s.sessionRepo.DeleteByUser(ctx, tx, userID)
	})
	if err != nil {
		return persistenceError("Progress could not be reset.", err)
	}

	logger.Info("Progress reset")
	return nil
}

// BuildSummary はコーパスと進捗から結果一覧を作ります。
// 並びはコーパス順、コーパスに無い単語は後ろにアルファベット順
func BuildSummary(words []string, progress model.ProgressMap) *model.ProgressSummaryResponse {
	summary := &model.ProgressSummaryResponse{Results: []model.WordResult{}}

	seen := make(map[string]struct{}, len(words))
	for _, w := range words {
		if _, dup := seen[w]; dup {
			continue
		}
		seen[w] = struct{}{}
	}
	summary.TotalWords = len(seen)

	add := func(word string, count int) {
		class := model.Classify(count)
		switch class {
		case model.ClassPerfect:
			summary.Perfect++
			summary.Completed++
		case model.ClassLearned:
			summary.Learned++
			summary.Completed++
		case model.ClassNeedsPractice:
			summary.NeedsPractice++
		default:
			return
		}
		summary.Results = append(summary.Results, model.WordResult{Word: word, AttemptCount: count, Classification: class})
	}

	listed := make(map[string]struct{}, len(progress))
	for _, w := range words {
		if _, done := listed[w]; done {
			continue
		}
		if count, ok := progress[w]; ok {
			listed[w] = struct{}{}
			add(w, count)
		}
	}
	for _, w := range slices.Sorted(maps.Keys(progress)) {
		if _, done := listed[w]; !done {
			add(w, progress[w])
		}
	}
	return summary
}

func persistenceError(message string, err error) error {
	var appErr *model.AppError
	if errors.As(err, &appErr) {
		return err
	}
	return model.NewAppError("PERSISTENCE_UNAVAILABLE", message, "", errors.Join(model.ErrPersistenceUnavailable, err))
}
