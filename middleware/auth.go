package middleware

import (
	"context"
	"log/slog"
	"net/http"
	"strings"
	"time"

	"github.com/brickfolio/marketplace-backend/controllers"
	"github.com/brickfolio/marketplace-backend/session"
	"github.com/brickfolio/marketplace-backend/utils"
)

// AuthMiddleware validates the bearer token's signature and then requires a
// live session for it, so logged-out tokens are refused before expiry.
func AuthMiddleware(jwtKey []byte, sessions session.Store) func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			tokenHeader := r.Header.Get("Authorization")
			if tokenHeader == "" {
				slog.Info("missing Authorization header", "method", r.Method, "url", r.URL.Path)
				http.Error(w, "Missing Authorization header", http.StatusUnauthorized)
				return
			}

			tokenParts := strings.Split(tokenHeader, " ")
			if len(tokenParts) != 2 || tokenParts[0] != "Bearer" {
				slog.Info("invalid Authorization header format", "method", r.Method, "url", r.URL.Path)
				http.Error(w, "Invalid Authorization header format", http.StatusUnauthorized)
				return
			}

			token := tokenParts[1]

			claims, err := utils.ValidateJWT(jwtKey, token)
			if err != nil {
				slog.Info("invalid or expired token", "err", err)
				http.Error(w, "Invalid or expired token", http.StatusUnauthorized)
				return
			}

			ctx, cancel := context.WithTimeout(r.Context(), 5*time.Second)
			sess, err := sessions.Get(ctx, token)
			cancel()
			if err != nil {
				slog.Info("no active session for token", "userID", claims.UserID)
				http.Error(w, "Session expired or revoked", http.StatusUnauthorized)
				return
			}

			reqCtx := context.WithValue(r.Context(), controllers.UserIDKey, sess.UserID)
			reqCtx = context.WithValue(reqCtx, controllers.RoleKey, sess.Role)
			reqCtx = context.WithValue(reqCtx, controllers.TokenKey, token)

			next.ServeHTTP(w, r.WithContext(reqCtx))
		})
	}
}
