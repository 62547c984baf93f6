// internal/model/progress.go
package model

import (
	"time"
)

// Classification は attempt_count から決まる単語の状態
type Classification int

const (
	ClassUnknown       Classification = iota // attempt_count < 1 (不正値)
	ClassPerfect                             // 1回目で正解
	ClassLearned                             // 2回目で正解
	ClassNeedsPractice                       // 正解できず答えを表示した
)

func (c Classification) String() string {
	switch c {
	case ClassPerfect:
		return "perfect"
	case ClassLearned:
		return "learned"
	case ClassNeedsPractice:
		return "needs_practice"
	default:
		return "unknown"
	}
}

func (c Classification) MarshalText() ([]byte, error) {
	return []byte(c.String()), nil
}

func (c *Classification) UnmarshalText(text []byte) error {
	switch string(text) {
	case "perfect":
		*c = ClassPerfect
	case "learned":
		*c = ClassLearned
	case "needs_practice":
		*c = ClassNeedsPractice
	default:
		*c = ClassUnknown
	}
	return nil
}

// Classify は attempt_count を3つのバケットに振り分けます
func Classify(attemptCount int) Classification {
	switch {
	case attemptCount == 1:
		return ClassPerfect
	case attemptCount == 2:
		return ClassLearned
	case attemptCount > 2:
		return ClassNeedsPractice
	default:
		return ClassUnknown
	}
}

// ProgressRecord は (user, word) ごとの学習結果です
type ProgressRecord struct {
	ID            uint      `gorm:"primaryKey" json:"-"`
	UserID        string    `gorm:"size:100;not null;uniqueIndex:idx_progress_user_word" json:"-"`
	Word          string    `gorm:"size:200;not null;uniqueIndex:idx_progress_user_word" json:"word"`
	AttemptCount  int       `gorm:"not null" json:"attempt_count"`
	LastPracticed time.Time `gorm:"not null" json:"last_practiced"`
	CreatedAt     time.Time `json:"-"`
	UpdatedAt     time.Time `json:"-"`
}

func (ProgressRecord) TableName() string {
	return "progress_records"
}

// ProgressMap は word -> attempt_count
type ProgressMap map[string]int

// WordResult は結果一覧の1行
type WordResult struct {
	Word           string         `json:"word"`
	AttemptCount   int            `json:"attempt_count"`
	Classification Classification `json:"classification"`
}

// ProgressSummaryResponse は進捗サマリ (サイドバー + 結果一覧)
type ProgressSummaryResponse struct {
	TotalWords    int          `json:"total_words"`
	Completed     int          `json:"completed"`
	Perfect       int          `json:"perfect"`
	Learned       int          `json:"learned"`
	NeedsPractice int          `json:"needs_practice"`
	Results       []WordResult `json:"results"`
	Warnings      []string     `json:"warnings,omitempty"`
}
