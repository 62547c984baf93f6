//go:generate mockery --name AuthService --output ./mocks --outpkg mocks --case=underscore
package service

import (
	"context"
	"errors"
	"strings"
	"sync"
	"time"

	"spellbee/internal/config"
	"spellbee/internal/middleware"
	"spellbee/internal/model"
	"spellbee/internal/repository"

	"github.com/golang-jwt/jwt/v5"
	"github.com/google/uuid"
	"golang.org/x/crypto/bcrypt"
	"gorm.io/gorm"
)

// ログイン失敗時のメッセージは1種類だけ (ユーザー名の存在を推測させない)
const msgInvalidCredentials = "Invalid username or password."

type AuthService interface {
	Register(ctx context.Context, req *model.RegisterRequest) (*model.User, error)
	Verify(ctx context.Context, username, password string) (bool, error)
	Login(ctx context.Context, req *model.LoginRequest) (*model.LoginResponse, error)
	GuestLogin(ctx context.Context) (*model.LoginResponse, error)
	GetUser(ctx context.Context, identity model.Identity) (*model.UserResponse, error)
}

type authService struct {
	db       *gorm.DB
	userRepo repository.UserRepository
	cfg      *config.Config
}

// NewAuthService は AuthService の新しいインスタンスを生成します
func NewAuthService(db *gorm.DB, userRepo repository.UserRepository, cfg *config.Config) AuthService {
	return &authService{
		db:       db,
		userRepo: userRepo,
		cfg:      cfg,
	}
}

var (
	dummyHashOnce sync.Once
	dummyHash     []byte
)

// 存在しないユーザーでも bcrypt の比較を1回行うためのハッシュ
func getDummyHash() []byte {
	dummyHashOnce.Do(func() {
		dummyHash, _ = bcrypt.GenerateFromPassword([]byte("spellbee-dummy-password"), bcrypt.DefaultCost)
	})
	return dummyHash
}

// Register は新しいユーザーを登録します
func (s *authService) Register(ctx context.Context, req *model.RegisterRequest) (*model.User, error) {
	logger := middleware.GetLogger(ctx)

	username := strings.TrimSpace(req.Username)
	switch {
	case username == "":
		return nil, model.NewAppError("VALIDATION_ERROR", "Username is required.", "username", model.ErrInvalidInput)
	case req.Password == "":
		return nil, model.NewAppError("VALIDATION_ERROR", "Password is required.", "password", model.ErrInvalidInput)
	case req.Password != req.ConfirmPassword:
		return nil, model.NewAppError("VALIDATION_ERROR", "Passwords do not match.", "confirm_password", model.ErrInvalidInput)
	case model.IsGuestID(username):
		return nil, model.NewAppError("VALIDATION_ERROR", "Usernames may not start with '"+model.GuestIDPrefix+"'.", "username", model.ErrInvalidInput)
	}

	hashedPassword, err := bcrypt.GenerateFromPassword([]byte(req.Password), bcrypt.DefaultCost)
	if err != nil {
		logger.Error("Failed to hash password", "error", err)
		if errors.Is(err, bcrypt.ErrPasswordTooLong) {
			return nil, model.NewAppError("VALIDATION_ERROR", "Password is too long.", "password", model.ErrInvalidInput)
		}
		return nil, model.NewAppError("INTERNAL_SERVER_ERROR", "Failed to process password.", "", err)
	}

	user := &model.User{
		Username:     username,
		PasswordHash: string(hashedPassword),
	}
	if err := s.userRepo.Create(ctx, s.db, user); err != nil {
		if errors.Is(err, model.ErrConflict) {
			logger.Warn("Username already exists", "username", username)
			return nil, model.NewAppError("DUPLICATE_USER", "Username already exists.", "username", model.ErrConflict)
		}
		logger.Error("Failed to create user in DB", "error", err)
		return nil, model.NewAppError("PERSISTENCE_UNAVAILABLE", "Account storage is unavailable. Please try again later.", "", errors.Join(model.ErrPersistenceUnavailable, err))
	}

	logger.Info("User registered", "username", username)
	return user, nil
}

// Verify はユーザー名とパスワードが一致すれば true を返します。
// 不明なユーザーや不一致は (false, nil)
func (s *authService) Verify(ctx context.Context, username, password string) (bool, error) {
	logger := middleware.GetLogger(ctx)

	user, err := s.userRepo.FindByUsername(ctx, s.db, strings.TrimSpace(username))
	if err != nil {
		if errors.Is(err, model.ErrNotFound) {
			_ = bcrypt.CompareHashAndPassword(getDummyHash(), []byte(password))
			return false, nil
		}
		logger.Error("Verify failed: db error on FindByUsername", "error", err)
		return false, model.NewAppError("PERSISTENCE_UNAVAILABLE", "Account storage is unavailable. Please try again later.", "", errors.Join(model.ErrPersistenceUnavailable, err))
	}

	if err := bcrypt.CompareHashAndPassword([]byte(user.PasswordHash), []byte(password)); err != nil {
		return false, nil
	}
	return true, nil
}

// Login はユーザーを認証し、JWTを返します
func (s *authService) Login(ctx context.Context, req *model.LoginRequest) (*model.LoginResponse, error) {
	username := strings.TrimSpace(req.Username)
	logger := middleware.GetLogger(ctx).With("username", username)

	ok, err := s.Verify(ctx, username, req.Password)
	if err != nil {
		return nil, err
	}
	if !ok {
		logger.Warn("Login failed: invalid credentials")
		return nil, model.NewAppError("AUTHENTICATION_FAILED", msgInvalidCredentials, "", model.ErrAuthenticationFailed)
	}

	signedToken, err := s.issueToken(username, false)
	if err != nil {
		logger.Error("Failed to sign JWT", "error", err)
		return nil, model.NewAppError("INTERNAL_SERVER_ERROR", "Failed to issue token.", "", err)
	}

	logger.Info("Login successful")
	return &model.LoginResponse{AccessToken: signedToken, UserID: username}, nil
}

// GuestLogin は毎回新しいゲストIDを発行します。資格情報ストアには何も書かない
func (s *authService) GuestLogin(ctx context.Context) (*model.LoginResponse, error) {
	logger := middleware.GetLogger(ctx)

	guestID := model.GuestIDPrefix + uuid.NewString()
	signedToken, err := s.issueToken(guestID, true)
	if err != nil {
		logger.Error("Failed to sign guest JWT", "error", err)
		return nil, model.NewAppError("INTERNAL_SERVER_ERROR", "Failed to issue token.", "", err)
	}

	logger.Info("Guest session issued", "user_id", guestID)
	return &model.LoginResponse{AccessToken: signedToken, UserID: guestID, Guest: true}, nil
}

// GetUser は認証済みの主体の情報を返します
func (s *authService) GetUser(ctx context.Context, identity model.Identity) (*model.UserResponse, error) {
	logger := middleware.GetLogger(ctx)

	if identity.Guest || model.IsGuestID(identity.UserID) {
		return &model.UserResponse{UserID: identity.UserID, Guest: true}, nil
	}

	user, err := s.userRepo.FindByUsername(ctx, s.db, identity.UserID)
	if err != nil {
		if errors.Is(err, model.ErrNotFound) {
			logger.Warn("User not found", "user_id", identity.UserID)
			return nil, model.NewAppError("USER_NOT_FOUND", "User not found.", "", model.ErrNotFound)
		}
		logger.Error("Error finding user", "error", err)
		return nil, model.NewAppError("PERSISTENCE_UNAVAILABLE", "Account storage is unavailable. Please try again later.", "", errors.Join(model.ErrPersistenceUnavailable, err))
	}
	createdAt := user.CreatedAt
	return &model.UserResponse{UserID: user.Username, CreatedAt: &createdAt}, nil
}

func (s *authService) issueToken(subject string, guest bool) (string, error) {
	now := time.Now()
	claims := &model.JWTCustomClaims{
		Guest: guest,
		RegisteredClaims: jwt.RegisteredClaims{
			Issuer:    s.cfg.App.Name,
			Subject:   subject,
			ExpiresAt: jwt.NewNumericDate(now.Add(s.cfg.JWT.AccessTokenTTL)),
			IssuedAt:  jwt.NewNumericDate(now),
		},
	}
	token := jwt.NewWithClaims(jwt.SigningMethodHS256, claims)
	return token.SignedString([]byte(s.cfg.JWT.SecretKey))
}
