package middleware

import (
	"net/http"

	"github.com/gin-gonic/gin"

	"miam_back_end/internal/models"
)

// RequireRole restreint une route aux rôles listés
func RequireRole(roles ...string) gin.HandlerFunc {
	return func(c *gin.Context) {
		role := c.GetString("role")
		for _, r := range roles {
			if role == r {
				c.Next()
				return
			}
		}
		c.JSON(http.StatusForbidden, gin.H{"error": "Accès refusé pour ce rôle"})
		c.Abort()
	}
}

// RequireSuperAdmin vérifie que l'utilisateur est super-admin de la plateforme
func RequireSuperAdmin(c *gin.Context) {
	if c.GetString("role") != models.RoleSuperAdmin {
		c.JSON(http.StatusForbidden, gin.H{"error": "Accès réservé aux administrateurs de la plateforme"})
		c.Abort()
		return
	}
	c.Next()
}

// RequireOwnRestaurant vérifie que le restaurateur agit sur SON restaurant
// (l'id du restaurant visé est attendu dans le paramètre :restaurantId)
func RequireOwnRestaurant() gin.HandlerFunc {
	return func(c *gin.Context) {
		role := c.GetString("role")
		if role == models.RoleSuperAdmin {
			c.Next()
			return
		}
		if role != models.RoleRestaurantAdmin {
			c.JSON(http.StatusForbidden, gin.H{"error": "Accès réservé aux restaurateurs"})
			c.Abort()
			return
		}
		if c.GetString("restaurant_id") != c.Param("restaurantId") {
			c.JSON(http.StatusForbidden, gin.H{"error": "Ce restaurant ne vous appartient pas"})
			c.Abort()
			return
		}
		c.Next()
	}
}
