// internal/middleware/dev_auth.go
package middleware

import (
	"net/http"

	"spellbee/internal/model"
	"spellbee/internal/webutil"
)

// DevUserContextMiddleware は開発時用ミドルウェアです。
// X-User-ID ヘッダーの値をそのままユーザーIDとしてコンテキストに設定します。
// 資格情報の検証は行いません (auth.enabled=false のときだけ使う)。
func DevUserContextMiddleware(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		logger := GetLogger(r.Context())

		userID := r.Header.Get("X-User-ID")
		if userID == "" {
			logger.Warn("[DEV AUTH] Failed: X-User-ID header missing")
			appErr := model.NewAppError("UNAUTHORIZED", "[DEV] Missing X-User-ID header.", "", model.ErrAuthenticationFailed)
			webutil.HandleError(w, logger, appErr)
			return
		}

		logger.Debug("[DEV AUTH] User ID set to context (no validation)", "user_id", userID)

		identity := model.Identity{UserID: userID, Guest: model.IsGuestID(userID)}
		ctx := WithIdentity(r.Context(), identity)
		ctx = WithLogger(ctx, logger.With("user_id", userID))
		next.ServeHTTP(w, r.WithContext(ctx))
	})
}
