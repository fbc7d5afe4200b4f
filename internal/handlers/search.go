package handlers

import (
	"log"
	"net/http"

	"github.com/gin-gonic/gin"

	"miam_back_end/internal/service"
)

// Search interroge Elasticsearch sur les restaurants et les plats.
// GET /api/search?q=pizza
func Search(c *gin.Context) {
	query := c.Query("q")
	if query == "" {
		c.JSON(http.StatusBadRequest, gin.H{"error": "paramètre q manquant"})
		return
	}

	results, err := service.Search(query)
	if err != nil {
		log.Printf("❌ Erreur recherche Elasticsearch: %v", err)
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Erreur recherche"})
		return
	}

	c.JSON(http.StatusOK, gin.H{"results": results, "total": len(results)})
}

// Health : sonde de vivacité pour l'orchestrateur
func Health(c *gin.Context) {
	c.JSON(http.StatusOK, gin.H{"status": "ok"})
}
