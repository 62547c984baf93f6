package middleware

import (
	"context"
	"errors"
	"net/http"
	"strings"

	"spellbee/internal/config"
	"spellbee/internal/model"
	"spellbee/internal/webutil"

	"github.com/golang-jwt/jwt/v5"
)

// JWTAuthMiddleware は Authorization ヘッダーの Bearer トークンを検証するミドルウェア
func JWTAuthMiddleware(cfg *config.Config) func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			logger := GetLogger(r.Context())

			authHeader := r.Header.Get("Authorization")
			if authHeader == "" {
				logger.Warn("JWT auth failed: Authorization header missing")
				appErr := model.NewAppError("UNAUTHORIZED", "Authorization header is required.", "", model.ErrAuthenticationFailed)
				webutil.HandleError(w, logger, appErr)
				return
			}

			headerParts := strings.Split(authHeader, " ")
			if len(headerParts) != 2 || strings.ToLower(headerParts[0]) != "bearer" {
				logger.Warn("JWT auth failed: Invalid Authorization header format")
				appErr := model.NewAppError("UNAUTHORIZED", "Authorization header format must be 'Bearer {token}'.", "", model.ErrAuthenticationFailed)
				webutil.HandleError(w, logger, appErr)
				return
			}

			claims := &model.JWTCustomClaims{}
			token, err := jwt.ParseWithClaims(headerParts[1], claims, func(token *jwt.Token) (interface{}, error) {
				if _, ok := token.Method.(*jwt.SigningMethodHMAC); !ok {
					return nil, errors.New("unexpected signing method")
				}
				return []byte(cfg.JWT.SecretKey), nil
			})
			if err != nil || !token.Valid {
				logger.Warn("JWT auth failed: Invalid token", "error", err)
				appErr := model.NewAppError("INVALID_TOKEN", "The access token is invalid or expired.", "", model.ErrAuthenticationFailed)
				webutil.HandleError(w, logger, appErr)
				return
			}

			userID, err := claims.GetSubject()
			if err != nil || userID == "" {
				logger.Warn("JWT auth failed: Subject (sub) claim missing", "error", err)
				appErr := model.NewAppError("INVALID_TOKEN", "The access token has no user.", "", model.ErrAuthenticationFailed)
				webutil.HandleError(w, logger, appErr)
				return
			}

			identity := model.Identity{UserID: userID, Guest: claims.Guest}
			ctx := WithIdentity(r.Context(), identity)
			ctx = WithLogger(ctx, logger.With("user_id", userID))
			next.ServeHTTP(w, r.WithContext(ctx))
		})
	}
}

func WithIdentity(ctx context.Context, identity model.Identity) context.Context {
	return context.WithValue(ctx, model.IdentityKey, identity)
}

// GetIdentityFromContext は認証ミドルウェアが設定した主体を返します
func GetIdentityFromContext(ctx context.Context) (model.Identity, error) {
	identity, ok := ctx.Value(model.IdentityKey).(model.Identity)
	if !ok || identity.UserID == "" {
		return model.Identity{}, model.NewAppError("UNAUTHORIZED", "No authenticated user.", "", model.ErrAuthenticationFailed)
	}
	return identity, nil
}
