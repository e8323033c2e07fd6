package utils

import (
	"time"

	"github.com/golang-jwt/jwt/v5"

	"github.com/tablebook/tablebook-backend/internal/models"
)

// GenerateToken mints a bearer token for a user. The API itself does not
// expose token issuance; this exists for the identity tooling and the tests.
func GenerateToken(user *models.User, secret string) (string, error) {
	claims := jwt.MapClaims{
		"id":    user.ID,
		"email": user.Email,
		"role":  user.Role,
		"exp":   time.Now().Add(time.Hour * 24 * 7).Unix(), // 7 days
	}

	token := jwt.NewWithClaims(jwt.SigningMethodHS256, claims)
	return token.SignedString([]byte(secret))
}

func ValidateToken(tokenString, secret string) (*jwt.Token, error) {
	return jwt.Parse(tokenString, func(token *jwt.Token) (interface{}, error) {
		return []byte(secret), nil
	})
}
