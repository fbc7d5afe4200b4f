package admin

import (
	"log"
	"net/http"
	"time"

	"github.com/gin-gonic/gin"

	"miam_back_end/internal/services"
)

// GetSignedImageURL délivre une URL signée temporaire vers un objet du
// bucket, pour prévisualiser les images d'une candidature avant décision
func GetSignedImageURL(c *gin.Context) {
	objectPath := c.Query("path")
	if objectPath == "" {
		c.JSON(http.StatusBadRequest, gin.H{"error": "paramètre path manquant"})
		return
	}

	signedURL, err := services.GenerateSignedURL(c.Request.Context(), objectPath, 15*time.Minute)
	if err != nil {
		log.Printf("❌ Erreur URL signée pour %s: %v", objectPath, err)
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Erreur génération URL signée"})
		return
	}

	c.JSON(http.StatusOK, gin.H{"url": signedURL, "expires_in_seconds": 900})
}
