package auth

import (
	"context"
	"encoding/json"
	"fmt"
	"log/slog"
	"net/http"
	"strings"

	"github.com/clutchden/clutchden-backend/internal/infrastructure/redis"
	"github.com/golang-jwt/jwt/v5"
)

type ctxKey string

const (
	ctxUserID  ctxKey = "user_id"
	ctxIsAdmin ctxKey = "is_admin"
)

// UserID returns the authenticated user's id from the request context.
func UserID(ctx context.Context) (int64, bool) {
	id, ok := ctx.Value(ctxUserID).(int64)
	return id, ok
}

func IsAdmin(ctx context.Context) bool {
	isAdmin, _ := ctx.Value(ctxIsAdmin).(bool)
	return isAdmin
}

func writeAuthError(w http.ResponseWriter, status int, message, kind string) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	json.NewEncoder(w).Encode(map[string]any{
		"success": false,
		"message": message,
		"error":   kind,
	})
}

// Middleware validates the bearer token and cross-checks it against the
// session copy stored in Redis, so revoked tokens stop working before expiry.
func Middleware(redisClient redis.RedisClient, jwtSecret string) func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			authHeader := r.Header.Get("Authorization")
			if authHeader == "" {
				writeAuthError(w, http.StatusUnauthorized, "authorization header missing", "unauthorized")
				return
			}

			parts := strings.Split(authHeader, " ")
			if len(parts) != 2 || parts[0] != "Bearer" {
				writeAuthError(w, http.StatusUnauthorized, "invalid authorization header", "unauthorized")
				return
			}

			tokenStr := parts[1]
			token, err := jwt.Parse(tokenStr, func(token *jwt.Token) (interface{}, error) {
				if _, ok := token.Method.(*jwt.SigningMethodHMAC); !ok {
					return nil, fmt.Errorf("unexpected signing method: %v", token.Method.Alg())
				}
				return []byte(jwtSecret), nil
			})
			if err != nil || !token.Valid {
				writeAuthError(w, http.StatusUnauthorized, "invalid token", "unauthorized")
				return
			}

			claims, ok := token.Claims.(jwt.MapClaims)
			if !ok {
				writeAuthError(w, http.StatusUnauthorized, "invalid token claims", "unauthorized")
				return
			}

			userIDClaim, ok := claims["user_id"].(float64)
			if !ok {
				writeAuthError(w, http.StatusUnauthorized, "invalid user_id in token", "unauthorized")
				return
			}
			userID := int64(userIDClaim)
			isAdmin, _ := claims["is_admin"].(bool)

			storedToken, err := redisClient.Get(r.Context(), TokenKey(userID))
			if err != nil || storedToken != tokenStr {
				slog.Error("invalid or revoked token", "user_id", userID, "error", err)
				writeAuthError(w, http.StatusUnauthorized, "invalid or revoked token", "unauthorized")
				return
			}

			ctx := context.WithValue(r.Context(), ctxUserID, userID)
			ctx = context.WithValue(ctx, ctxIsAdmin, isAdmin)
			next.ServeHTTP(w, r.WithContext(ctx))
		})
	}
}

// RequireAdmin guards admin-only routes; must run after Middleware.
func RequireAdmin(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if !IsAdmin(r.Context()) {
			writeAuthError(w, http.StatusForbidden, "admin privileges required", "forbidden")
			return
		}
		next.ServeHTTP(w, r)
	})
}

// WithIdentity is a test helper that injects an authenticated identity.
func WithIdentity(ctx context.Context, userID int64, isAdmin bool) context.Context {
	ctx = context.WithValue(ctx, ctxUserID, userID)
	return context.WithValue(ctx, ctxIsAdmin, isAdmin)
}
