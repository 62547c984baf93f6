package model

import (
	"strings"
	"time"
)

// GuestIDPrefix はゲストIDの接頭辞。登録ユーザー名には使えない
const GuestIDPrefix = "guest-"

// User は資格情報ストアの1行 (登録ユーザーのみ。ゲストは保存しない)
type User struct {
	Username     string    `gorm:"primaryKey;size:100" json:"username"`
	PasswordHash string    `gorm:"not null" json:"-"`
	CreatedAt    time.Time `json:"created_at"`
}

func (User) TableName() string {
	return "users"
}

type ContextKey string

const (
	IdentityKey ContextKey = "identity"
)

// Identity は認証済みリクエストの主体です
type Identity struct {
	UserID string
	Guest  bool
}

func IsGuestID(userID string) bool {
	return strings.HasPrefix(userID, GuestIDPrefix)
}

// RegisterRequest は新規登録APIのリクエストボディ
type RegisterRequest struct {
	Username        string `json:"username" validate:"required,max=100"`
	Password        string `json:"password" validate:"required,max=72"`
	ConfirmPassword string `json:"confirm_password" validate:"required,eqfield=Password"`
}

// UserResponse はクライアントに返すユーザー情報
type UserResponse struct {
	UserID    string     `json:"user_id"`
	Guest     bool       `json:"guest"`
	CreatedAt *time.Time `json:"created_at,omitempty"`
}
