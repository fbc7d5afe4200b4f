package restaurant

import (
	"log"
	"net/http"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/gocql/gocql"

	"miam_back_end/internal/cache"
	"miam_back_end/internal/database"
	"miam_back_end/internal/models"
	"miam_back_end/internal/repository"
	"miam_back_end/internal/service"
	"miam_back_end/internal/utils"
)

// GetMenu : menu public d'un restaurant (catégories + articles), servi
// depuis Redis quand le cache est chaud
func GetMenu(c *gin.Context) {
	restaurantID, err := gocql.ParseUUID(c.Param("restaurantId"))
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "id invalide"})
		return
	}

	items, found := cache.GetMenuFromCache(restaurantID)
	if !found {
		items, err = repository.ListMenuItems(restaurantID)
		if err != nil {
			log.Printf("❌ Erreur lecture menu %s: %v", restaurantID, err)
			c.JSON(http.StatusInternalServerError, gin.H{"error": "Erreur serveur"})
			return
		}
		cache.SetMenuInCache(restaurantID, items)
	}

	categories, err := repository.ListMenuCategories(restaurantID)
	if err != nil {
		log.Printf("⚠️ Erreur lecture catégories %s: %v", restaurantID, err)
	}

	c.JSON(http.StatusOK, gin.H{"categories": categories, "items": items})
}

// CreateCategory ajoute une catégorie au menu du restaurant
func CreateCategory(c *gin.Context) {
	restaurantID, err := gocql.ParseUUID(c.Param("restaurantId"))
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "id invalide"})
		return
	}

	var input struct {
		Name     string `json:"name" binding:"required"`
		Position int    `json:"position"`
	}
	if err := c.ShouldBindJSON(&input); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}

	session, err := database.GetRestaurantsSession()
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Erreur connexion base de données"})
		return
	}

	now := time.Now().UTC()
	cat := models.MenuCategory{
		ID:           gocql.TimeUUID(),
		RestaurantID: restaurantID,
		Name:         input.Name,
		Position:     input.Position,
		CreatedAt:    &now,
	}

	if err := session.Query(`INSERT INTO menu_categories (category_id, restaurant_id, name, position, created_at)
		VALUES (?, ?, ?, ?, ?)`, cat.ID, cat.RestaurantID, cat.Name, cat.Position, now).Exec(); err != nil {
		log.Printf("❌ Erreur création catégorie: %v", err)
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Erreur création catégorie"})
		return
	}

	cache.InvalidateRestaurantCache(restaurantID)
	c.JSON(http.StatusCreated, cat)
}

// CreateMenuItem ajoute un article au menu
func CreateMenuItem(c *gin.Context) {
	restaurantID, err := gocql.ParseUUID(c.Param("restaurantId"))
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "id invalide"})
		return
	}

	var input struct {
		CategoryID  string   `json:"category_id" binding:"required"`
		Name        string   `json:"name" binding:"required"`
		Description string   `json:"description"`
		PriceCents  int64    `json:"price_cents" binding:"required"`
		Tags        []string `json:"tags"`
		IsAvailable *bool    `json:"is_available"`
	}
	if err := c.ShouldBindJSON(&input); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}
	if input.PriceCents <= 0 {
		c.JSON(http.StatusBadRequest, gin.H{"error": "price_cents doit être strictement positif"})
		return
	}

	categoryID, err := gocql.ParseUUID(input.CategoryID)
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "category_id invalide"})
		return
	}

	available := true
	if input.IsAvailable != nil {
		available = *input.IsAvailable
	}

	now := time.Now().UTC()
	item := models.MenuItem{
		ID:           gocql.TimeUUID(),
		RestaurantID: restaurantID,
		CategoryID:   categoryID,
		Name:         input.Name,
		Description:  input.Description,
		PriceCents:   input.PriceCents,
		Tags:         input.Tags,
		IsAvailable:  available,
		CreatedAt:    &now,
		UpdatedAt:    &now,
	}

	if err := repository.SaveMenuItem(&item); err != nil {
		log.Printf("❌ Erreur création article: %v", err)
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Erreur création article"})
		return
	}

	cache.InvalidateRestaurantCache(restaurantID)
	service.IndexMenuItem(item)

	utils.LogAction(c, utils.ACTION_MENU_ITEM_CREATE, utils.RESOURCE_MENU_ITEM, item.ID.String(), nil, gin.H{
		"name":        item.Name,
		"price_cents": item.PriceCents,
	})
	c.JSON(http.StatusCreated, item)
}

// UpdateMenuItem modifie un article existant
func UpdateMenuItem(c *gin.Context) {
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

	var input struct {
		Name        string   `json:"name"`
		Description string   `json:"description"`
		PriceCents  int64    `json:"price_cents"`
		Tags        []string `json:"tags"`
		IsAvailable *bool    `json:"is_available"`
	}
	if err := c.ShouldBindJSON(&input); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}

	old := gin.H{"name": item.Name, "price_cents": item.PriceCents, "is_available": item.IsAvailable}

	if input.Name != "" {
		item.Name = input.Name
	}
	if input.Description != "" {
		item.Description = input.Description
	}
	if input.PriceCents > 0 {
		item.PriceCents = input.PriceCents
	}
	if input.Tags != nil {
		item.Tags = input.Tags
	}
	if input.IsAvailable != nil {
		item.IsAvailable = *input.IsAvailable
	}
	now := time.Now().UTC()
	item.UpdatedAt = &now

	if err := repository.SaveMenuItem(item); err != nil {
		log.Printf("❌ Erreur mise à jour article %s: %v", itemID, err)
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Erreur mise à jour"})
		return
	}

	cache.InvalidateRestaurantCache(restaurantID)
	if item.IsAvailable {
		service.IndexMenuItem(*item)
	} else {
		service.RemoveMenuItem(itemID.String())
	}

	utils.LogAction(c, utils.ACTION_MENU_ITEM_UPDATE, utils.RESOURCE_MENU_ITEM, itemID.String(), old, input)
	c.JSON(http.StatusOK, item)
}

// DeleteMenuItem retire un article du menu et de l'index de recherche
func DeleteMenuItem(c *gin.Context) {
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

	if err := repository.DeleteMenuItem(restaurantID, itemID); err != nil {
		log.Printf("❌ Erreur suppression article %s: %v", itemID, err)
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Erreur suppression"})
		return
	}

	cache.InvalidateRestaurantCache(restaurantID)
	service.RemoveMenuItem(itemID.String())

	utils.LogAction(c, utils.ACTION_MENU_ITEM_DELETE, utils.RESOURCE_MENU_ITEM, itemID.String(), nil, nil)
	c.JSON(http.StatusOK, gin.H{"message": "Article supprimé"})
}
