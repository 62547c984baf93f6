package model

import (
	"github.com/golang-jwt/jwt/v5"
)

// LoginRequest はログインAPIのリクエストボディ
type LoginRequest struct {
	Username string `json:"username" validate:"required"`
	Password string `json:"password" validate:"required"`
}

// LoginResponse はログイン成功時のレスポンス
type LoginResponse struct {
	AccessToken string `json:"access_token"`
	UserID      string `json:"user_id"`
	Guest       bool   `json:"guest"`
}

// JWTCustomClaims はJWTに含めるクレーム
type JWTCustomClaims struct {
	Guest bool `json:"guest,omitempty"`
	jwt.RegisteredClaims
}
