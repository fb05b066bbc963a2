package auth

import (
	"fmt"
	"time"

	"github.com/clutchden/clutchden-backend/internal/models"
	"github.com/golang-jwt/jwt/v5"
)

const TokenTTL = 24 * time.Hour

func GenerateToken(user *models.User, secret string) (string, error) {
	token := jwt.NewWithClaims(jwt.SigningMethodHS256, jwt.MapClaims{
		"user_id":  user.ID,
		"is_admin": user.IsAdmin,
		"exp":      time.Now().Add(TokenTTL).Unix(),
	})
	tokenString, err := token.SignedString([]byte(secret))
	if err != nil {
		return "", fmt.Errorf("failed to sign token: %w", err)
	}
	return tokenString, nil
}

// TokenKey is where the session copy of a user's token lives in Redis.
func TokenKey(userID int64) string {
	return fmt.Sprintf("user:%d:token", userID)
}
