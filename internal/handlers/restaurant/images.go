package restaurant

import (
	"log"
	"net/http"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/gocql/gocql"

	"miam_back_end/internal/cache"
	"miam_back_end/internal/database"
	"miam_back_end/internal/repository"
	"miam_back_end/internal/services"
)

// UploadCoverImage téléverse la photo de couverture du restaurant vers MinIO
func UploadCoverImage(c *gin.Context) {
	restaurantID, err := gocql.ParseUUID(c.Param("restaurantId"))
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "id invalide"})
		return
	}

	file, err := c.FormFile("image")
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Aucune image fournie"})
		return
	}

	url, err := services.UploadImage(c.Request.Context(), "restaurants", restaurantID, file)
	if err != nil {
		log.Printf("❌ Erreur upload image restaurant %s: %v", restaurantID, err)
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Erreur upload image"})
		return
	}

	session, err := database.GetRestaurantsSession()
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Erreur connexion base de données"})
		return
	}

	if err := session.Query("UPDATE restaurants SET cover_image_url = ?, updated_at = ? WHERE restaurant_id = ?",
		url, time.Now().UTC(), restaurantID).Exec(); err != nil {
		log.Printf("❌ Erreur enregistrement URL image: %v", err)
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Erreur mise à jour"})
		return
	}

	cache.InvalidateRestaurantCache(restaurantID)
	log.Printf("📤 Image de couverture mise à jour pour %s", restaurantID)
	c.JSON(http.StatusOK, gin.H{"cover_image_url": url})
}

// UploadItemImage téléverse la photo d'un article du menu
func UploadItemImage(c *gin.Context) {
	restaurantID, err := gocql.ParseUUID(c.Param("restaurantId"))
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "id invalide"})
		return
	}
	itemID, err := gocql.ParseUUID(c.Param("itemId"))
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "id article invalide"})
		return
	}

	item, err := repository.GetMenuItem(restaurantID, itemID)
	if err != nil {
		c.JSON(http.StatusNotFound, gin.H{"error": "Article introuvable"})
		return
	}

	file, err := c.FormFile("image")
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Aucune image fournie"})
		return
	}

	url, err := services.UploadImage(c.Request.Context(), "menu-items", itemID, file)
	if err != nil {
		log.Printf("❌ Erreur upload image article %s: %v", itemID, err)
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Erreur upload image"})
		return
	}

	now := time.Now().UTC()
	item.ImageURL = url
	item.UpdatedAt = &now
	if err := repository.SaveMenuItem(item); err != nil {
		log.Printf("❌ Erreur enregistrement image article: %v", err)
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Erreur mise à jour"})
		return
	}

	cache.InvalidateRestaurantCache(restaurantID)
	c.JSON(http.StatusOK, gin.H{"image_url": url})
}
