package model

import (
	"encoding/json"
	"fmt"
	"time"

	"gorm.io/datatypes"
)

// SessionRecord は再開可能な練習キュー (ユーザーごとに1行、常に上書き)
type SessionRecord struct {
	UserID    string         `gorm:"primaryKey;size:100"`
	Words     datatypes.JSON `gorm:"not null"`
	Cursor    int            `gorm:"not null"`
	UpdatedAt time.Time
}

func (SessionRecord) TableName() string {
	return "session_records"
}

func NewSessionRecord(userID string, words []string, cursor int) (*SessionRecord, error) {
	raw, err := json.Marshal(words)
	if err != nil {
		return nil, fmt.Errorf("NewSessionRecord: %w", err)
	}
	return &SessionRecord{UserID: userID, Words: datatypes.JSON(raw), Cursor: cursor}, nil
}

// WordList は保存された単語リストをデコードします
func (r *SessionRecord) WordList() ([]string, error) {
	var words []string
	if len(r.Words) == 0 {
		return words, nil
	}
	if err := json.Unmarshal(r.Words, &words); err != nil {
		return nil, fmt.Errorf("SessionRecord.WordList: %w", err)
	}
	return words, nil
}
