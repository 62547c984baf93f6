package service_test

import (
	"context"
	"errors"
	"strings"
	"testing"
	"time"

	"spellbee/internal/config"
	"spellbee/internal/model"
	"spellbee/internal/repository/mocks"
	"spellbee/internal/service"

	"github.com/golang-jwt/jwt/v5"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/suite"
	"golang.org/x/crypto/bcrypt"
)

type AuthServiceTestSuite struct {
	suite.Suite

	mockUserRepo *mocks.UserRepository
	cfg          *config.Config
	authService  service.AuthService
}

func (s *AuthServiceTestSuite) SetupTest() {
	s.mockUserRepo = new(mocks.UserRepository)
	s.cfg = &config.Config{
		App: config.AppConfig{Name: "SpellingBee"},
		JWT: config.JWTConfig{
			SecretKey:      "test-secret",
			AccessTokenTTL: 15 * time.Minute,
		},
	}
	s.authService = service.NewAuthService(nil, s.mockUserRepo, s.cfg)
}

func (s *AuthServiceTestSuite) TearDownTest() {
	s.mockUserRepo.AssertExpectations(s.T())
}

func TestAuthService(t *testing.T) {
	suite.Run(t, new(AuthServiceTestSuite))
}

func (s *AuthServiceTestSuite) parseToken(tokenString string) *model.JWTCustomClaims {
	claims := &model.JWTCustomClaims{}
	token, err := jwt.ParseWithClaims(tokenString, claims, func(token *jwt.Token) (interface{}, error) {
		return []byte(s.cfg.JWT.SecretKey), nil
	})
	s.Require().NoError(err)
	s.Require().True(token.Valid)
	return claims
}

func hashOf(password string) string {
	h, _ := bcrypt.GenerateFromPassword([]byte(password), bcrypt.MinCost)
	return string(h)
}

func (s *AuthServiceTestSuite) TestRegister() {
	testCases := []struct {
		name       string
		req        *model.RegisterRequest
		setupMocks func()
		wantErr    error
	}{
		{
			name: "Success - 正常に登録できる",
			req:  &model.RegisterRequest{Username: "alice", Password: "secret", ConfirmPassword: "secret"},
			setupMocks: func() {
				s.mockUserRepo.On("Create", mock.Anything, mock.Anything, mock.MatchedBy(func(u *model.User) bool {
					return u.Username == "alice" &&
						u.PasswordHash != "secret" &&
						bcrypt.CompareHashAndPassword([]byte(u.PasswordHash), []byte("secret")) == nil
				})).Return(nil).Once()
			},
		},
		{
			name:       "Failure - パスワード不一致",
			req:        &model.RegisterRequest{Username: "alice", Password: "secret", ConfirmPassword: "other"},
			setupMocks: func() {},
			wantErr:    model.ErrInvalidInput,
		},
		{
			name:       "Failure - ユーザー名が空",
			req:        &model.RegisterRequest{Username: "  ", Password: "secret", ConfirmPassword: "secret"},
			setupMocks: func() {},
			wantErr:    model.ErrInvalidInput,
		},
		{
			name:       "Failure - パスワードが空",
			req:        &model.RegisterRequest{Username: "alice", Password: "", ConfirmPassword: ""},
			setupMocks: func() {},
			wantErr:    model.ErrInvalidInput,
		},
		{
			name:       "Failure - ゲストの接頭辞は使えない",
			req:        &model.RegisterRequest{Username: "guest-bob", Password: "secret", ConfirmPassword: "secret"},
			setupMocks: func() {},
			wantErr:    model.ErrInvalidInput,
		},
		{
			name: "Failure - ユーザー名が重複",
			req:  &model.RegisterRequest{Username: "alice", Password: "secret", ConfirmPassword: "secret"},
			setupMocks: func() {
				s.mockUserRepo.On("Create", mock.Anything, mock.Anything, mock.AnythingOfType("*model.User")).Return(model.ErrConflict).Once()
			},
			wantErr: model.ErrConflict,
		},
		{
			name: "Failure - ストアが使えない",
			req:  &model.RegisterRequest{Username: "alice", Password: "secret", ConfirmPassword: "secret"},
			setupMocks: func() {
				s.mockUserRepo.On("Create", mock.Anything, mock.Anything, mock.AnythingOfType("*model.User")).Return(errors.New("connection refused")).Once()
			},
			wantErr: model.ErrPersistenceUnavailable,
		},
	}

	for _, tc := range testCases {
		s.Run(tc.name, func() {
			s.SetupTest()
			tc.setupMocks()

			user, err := s.authService.Register(context.Background(), tc.req)
			if tc.wantErr != nil {
				s.ErrorIs(err, tc.wantErr)
				s.Nil(user)
				var appErr *model.AppError
				s.ErrorAs(err, &appErr)
			} else {
				s.NoError(err)
				s.Equal("alice", user.Username)
			}
			s.mockUserRepo.AssertExpectations(s.T())
		})
	}
}

func (s *AuthServiceTestSuite) TestVerify() {
	ctx := context.Background()
	stored := &model.User{Username: "alice", PasswordHash: hashOf("secret")}

	s.Run("一致すれば true", func() {
		s.SetupTest()
		s.mockUserRepo.On("FindByUsername", mock.Anything, mock.Anything, "alice").Return(stored, nil).Once()
		ok, err := s.authService.Verify(ctx, "alice", "secret")
		s.NoError(err)
		s.True(ok)
	})

	s.Run("パスワード違いは false", func() {
		s.SetupTest()
		s.mockUserRepo.On("FindByUsername", mock.Anything, mock.Anything, "alice").Return(stored, nil).Once()
		ok, err := s.authService.Verify(ctx, "alice", "wrong")
		s.NoError(err)
		s.False(ok)
	})

	s.Run("未登録ユーザーは false", func() {
		s.SetupTest()
		s.mockUserRepo.On("FindByUsername", mock.Anything, mock.Anything, "nobody").Return(nil, model.ErrNotFound).Once()
		ok, err := s.authService.Verify(ctx, "nobody", "secret")
		s.NoError(err)
		s.False(ok)
	})

	s.Run("ストアの障害はエラー", func() {
		s.SetupTest()
		s.mockUserRepo.On("FindByUsername", mock.Anything, mock.Anything, "alice").Return(nil, errors.New("db down")).Once()
		_, err := s.authService.Verify(ctx, "alice", "secret")
		s.ErrorIs(err, model.ErrPersistenceUnavailable)
	})
}

func (s *AuthServiceTestSuite) TestLogin() {
	ctx := context.Background()
	stored := &model.User{Username: "alice", PasswordHash: hashOf("secret")}

	s.Run("Success - トークンを発行", func() {
		s.SetupTest()
		s.mockUserRepo.On("FindByUsername", mock.Anything, mock.Anything, "alice").Return(stored, nil).Once()

		resp, err := s.authService.Login(ctx, &model.LoginRequest{Username: "alice", Password: "secret"})
		s.Require().NoError(err)
		s.Equal("alice", resp.UserID)
		s.False(resp.Guest)

		claims := s.parseToken(resp.AccessToken)
		s.Equal("alice", claims.Subject)
		s.False(claims.Guest)
	})

	s.Run("Failure - 未登録とパスワード違いは同じメッセージ", func() {
		s.SetupTest()
		s.mockUserRepo.On("FindByUsername", mock.Anything, mock.Anything, "alice").Return(stored, nil).Once()
		s.mockUserRepo.On("FindByUsername", mock.Anything, mock.Anything, "nobody").Return(nil, model.ErrNotFound).Once()

		_, errWrong := s.authService.Login(ctx, &model.LoginRequest{Username: "alice", Password: "wrong"})
		_, errUnknown := s.authService.Login(ctx, &model.LoginRequest{Username: "nobody", Password: "secret"})

		s.ErrorIs(errWrong, model.ErrAuthenticationFailed)
		s.ErrorIs(errUnknown, model.ErrAuthenticationFailed)

		var a, b *model.AppError
		s.Require().ErrorAs(errWrong, &a)
		s.Require().ErrorAs(errUnknown, &b)
		s.Equal(a.Detail, b.Detail)
	})
}

func (s *AuthServiceTestSuite) TestGuestLogin() {
	ctx := context.Background()

	first, err := s.authService.GuestLogin(ctx)
	s.Require().NoError(err)
	second, err := s.authService.GuestLogin(ctx)
	s.Require().NoError(err)

	s.True(first.Guest)
	s.True(strings.HasPrefix(first.UserID, model.GuestIDPrefix))
	s.NotEqual(first.UserID, second.UserID, "毎回新しいIDになる")

	claims := s.parseToken(first.AccessToken)
	s.Equal(first.UserID, claims.Subject)
	s.True(claims.Guest)

	s.mockUserRepo.AssertNotCalled(s.T(), "Create", mock.Anything, mock.Anything, mock.Anything)
}

func (s *AuthServiceTestSuite) TestGetUser() {
	ctx := context.Background()

	s.Run("ゲストはストアを見ない", func() {
		s.SetupTest()
		resp, err := s.authService.GetUser(ctx, model.Identity{UserID: "guest-123", Guest: true})
		s.NoError(err)
		s.True(resp.Guest)
		s.Nil(resp.CreatedAt)
	})

	s.Run("登録ユーザー", func() {
		s.SetupTest()
		created := time.Date(2026, 1, 2, 3, 4, 5, 0, time.UTC)
		s.mockUserRepo.On("FindByUsername", mock.Anything, mock.Anything, "alice").
			Return(&model.User{Username: "alice", CreatedAt: created}, nil).Once()

		resp, err := s.authService.GetUser(ctx, model.Identity{UserID: "alice"})
		s.Require().NoError(err)
		s.Equal("alice", resp.UserID)
		s.Require().NotNil(resp.CreatedAt)
		s.True(created.Equal(*resp.CreatedAt))
	})

	s.Run("存在しないユーザー", func() {
		s.SetupTest()
		s.mockUserRepo.On("FindByUsername", mock.Anything, mock.Anything, "ghost").Return(nil, model.ErrNotFound).Once()
		_, err := s.authService.GetUser(ctx, model.Identity{UserID: "ghost"})
		s.ErrorIs(err, model.ErrNotFound)
	})
}
