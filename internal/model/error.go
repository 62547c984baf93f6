// internal/model/error.go
package model

import "errors"

// アプリケーション固有のエラー
var (
	ErrNotFound               = errors.New("resource not found")
	ErrInvalidInput           = errors.New("invalid input")   // ValidationError
	ErrConflict               = errors.New("resource conflict") // DuplicateUserError
	ErrAuthenticationFailed   = errors.New("authentication failed")
	ErrForbidden              = errors.New("forbidden")
	ErrPersistenceUnavailable = errors.New("persistence unavailable")
	ErrSynthesisFailed        = errors.New("speech synthesis failed")
	ErrNothingToPractice      = errors.New("nothing to practice")
	ErrNoActiveSession        = errors.New("no active practice session")
	ErrInternalServer         = errors.New("internal server error")
)

// ErrorDetail はクライアントに返すエラー情報です
type ErrorDetail struct {
	Code    string `json:"code"`
	Message string `json:"message"`
	Field   string `json:"field,omitempty"`
}

// APIErrorResponse はAPIエラーレスポンスの構造体
type APIErrorResponse struct {
	Error ErrorDetail `json:"error"`
}

// AppError はクライアント向けの詳細と、原因となったエラーを保持します
type AppError struct {
	Detail ErrorDetail
	Err    error
}

func NewAppError(code, message, field string, err error) *AppError {
	return &AppError{
		Detail: ErrorDetail{Code: code, Message: message, Field: field},
		Err:    err,
	}
}

func (e *AppError) Error() string {
	if e.Err != nil {
		return e.Detail.Code + ": " + e.Err.Error()
	}
	return e.Detail.Code
}

func (e *AppError) Unwrap() error {
	return e.Err
}
