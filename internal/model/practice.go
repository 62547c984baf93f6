package model

import "time"

const (
	PracticeModeNew   = "new"
	PracticeModeWrong = "wrong"
)

// StartPracticeRequest は練習開始リクエスト
type StartPracticeRequest struct {
	Mode string `json:"mode" validate:"required,oneof=new wrong"`
}

// GuessRequest は回答送信リクエスト。空文字も「不正解」として扱う
type GuessRequest struct {
	Guess string `json:"guess" validate:"max=200"`
}

// ResolutionResponse は単語が確定したときの結果
type ResolutionResponse struct {
	Word           string         `json:"word"`
	AttemptCount   int            `json:"attempt_count"`
	Classification Classification `json:"classification"`
	Correct        bool           `json:"correct"`
}

// PracticeStateResponse は練習セッションの現在位置。出題中の単語そのものは含めない
type PracticeStateResponse struct {
	State    string              `json:"state"`
	Position int                 `json:"position"` // 1始まり
	Total    int                 `json:"total"`
	Attempts int                 `json:"attempts"`
	Message  string              `json:"message,omitempty"`
	Result   *ResolutionResponse `json:"result,omitempty"`
	Warnings []string            `json:"warnings,omitempty"`
}

// ResumeOfferResponse は保存済みセッションの有無
type ResumeOfferResponse struct {
	Available bool       `json:"available"`
	Position  int        `json:"position,omitempty"`
	Total     int        `json:"total,omitempty"`
	UpdatedAt *time.Time `json:"updated_at,omitempty"`
	Warnings  []string   `json:"warnings,omitempty"`
}
