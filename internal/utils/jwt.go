package utils

import (
	"os"
	"time"

	"github.com/golang-jwt/jwt/v5"

	"miam_back_end/internal/models"
)

// GenerateJWT signe un token porteur de l'identité ET du rôle : c'est lui
// que les middlewares relisent pour alimenter les gardes du cycle de vie
func GenerateJWT(user models.User) (string, error) {
	secret := os.Getenv("JWT_SECRET")
	if secret == "" {
		secret = "super_secret"
	}

	claims := jwt.MapClaims{
		"user_id": user.ID.String(),
		"email":   user.Email,
		"role":    user.Role,
		"exp":     time.Now().Add(24 * time.Hour).Unix(),
	}
	if user.RestaurantID != nil {
		claims["restaurant_id"] = user.RestaurantID.String()
	}

	token := jwt.NewWithClaims(jwt.SigningMethodHS256, claims)
	return token.SignedString([]byte(secret))
}
