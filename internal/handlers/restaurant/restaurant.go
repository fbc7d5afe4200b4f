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
	"miam_back_end/internal/service"
	"miam_back_end/internal/utils"
)

// Apply dépose une candidature de restaurant. Elle reste invisible du
// public tant qu'un super admin ne l'a pas approuvée.
func Apply(c *gin.Context) {
	var input struct {
		Name        string  `json:"name" binding:"required"`
		Description string  `json:"description"`
		CuisineType string  `json:"cuisine_type"`
		Address     string  `json:"address" binding:"required"`
		Lat         float64 `json:"lat"`
		Lng         float64 `json:"lng"`
		Phone       string  `json:"phone"`
	}
	if err := c.ShouldBindJSON(&input); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}

	ownerID, err := gocql.ParseUUID(c.GetString("user_id"))
	if err != nil {
		c.JSON(http.StatusUnauthorized, gin.H{"error": "Non authentifié"})
		return
	}

	session, err := database.GetRestaurantsSession()
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Erreur connexion base de données"})
		return
	}

	// Une seule candidature active par compte
	var existing gocql.UUID
	if err := session.Query("SELECT restaurant_id FROM restaurants_by_owner WHERE owner_id = ?", ownerID).
		Scan(&existing); err == nil {
		c.JSON(http.StatusConflict, gin.H{"error": "Une candidature existe déjà pour ce compte"})
		return
	}

	now := time.Now().UTC()
	r := models.Restaurant{
		ID:                gocql.TimeUUID(),
		OwnerID:           ownerID,
		Name:              input.Name,
		Description:       input.Description,
		CuisineType:       input.CuisineType,
		Address:           input.Address,
		Lat:               input.Lat,
		Lng:               input.Lng,
		Phone:             input.Phone,
		IsOpen:            false,
		ApplicationStatus: models.ApplicationPending,
		CreatedAt:         &now,
		UpdatedAt:         &now,
	}

	if err := session.Query(`INSERT INTO restaurants (restaurant_id, owner_id, name, description, cuisine_type,
		address, lat, lng, phone, cover_image_url, is_open, application_status, rejection_reason, created_at, updated_at)
		VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?)`,
		r.ID, r.OwnerID, r.Name, r.Description, r.CuisineType, r.Address, r.Lat, r.Lng, r.Phone,
		"", r.IsOpen, r.ApplicationStatus, "", now, now).Exec(); err != nil {
		log.Printf("❌ Erreur création candidature restaurant: %v", err)
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Erreur création candidature"})
		return
	}

	if err := session.Query("INSERT INTO restaurants_by_owner (owner_id, restaurant_id) VALUES (?, ?)",
		ownerID, r.ID).Exec(); err != nil {
		log.Printf("⚠️ Erreur index restaurants_by_owner: %v", err)
	}

	utils.LogAction(c, utils.ACTION_RESTAURANT_APPLY, utils.RESOURCE_RESTAURANT, r.ID.String(), nil, gin.H{"name": r.Name})
	log.Printf("📥 Candidature restaurant reçue: %s (%s)", r.Name, r.ID)
	c.JSON(http.StatusCreated, r)
}

// GetRestaurant : fiche publique d'un restaurant approuvé
func GetRestaurant(c *gin.Context) {
	restaurantID, err := gocql.ParseUUID(c.Param("restaurantId"))
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "id invalide"})
		return
	}

	r, err := cache.GetRestaurantFromCache(restaurantID)
	if err != nil {
		c.JSON(http.StatusNotFound, gin.H{"error": "Restaurant introuvable"})
		return
	}
	if r.ApplicationStatus != models.ApplicationApproved {
		c.JSON(http.StatusNotFound, gin.H{"error": "Restaurant introuvable"})
		return
	}

	c.JSON(http.StatusOK, r)
}

// ListRestaurants : liste publique des restaurants approuvés
func ListRestaurants(c *gin.Context) {
	session, err := database.GetRestaurantsSession()
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Erreur connexion base de données"})
		return
	}

	iter := session.Query(`SELECT restaurant_id, owner_id, name, description, cuisine_type, address, lat, lng,
		phone, cover_image_url, is_open, application_status, rejection_reason, created_at, updated_at
		FROM restaurants`).Iter()
	defer iter.Close()

	var restaurants []models.Restaurant
	var r models.Restaurant
	var createdAt, updatedAt time.Time
	for iter.Scan(&r.ID, &r.OwnerID, &r.Name, &r.Description, &r.CuisineType, &r.Address, &r.Lat, &r.Lng,
		&r.Phone, &r.CoverImageURL, &r.IsOpen, &r.ApplicationStatus, &r.RejectionReason, &createdAt, &updatedAt) {
		if r.ApplicationStatus != models.ApplicationApproved {
			r = models.Restaurant{}
			continue
		}
		cr, up := createdAt, updatedAt
		r.CreatedAt = &cr
		r.UpdatedAt = &up
		restaurants = append(restaurants, r)
		r = models.Restaurant{}
	}

	if err := iter.Close(); err != nil {
		log.Printf("❌ Erreur liste restaurants: %v", err)
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Erreur serveur"})
		return
	}

	c.JSON(http.StatusOK, gin.H{"restaurants": restaurants, "total": len(restaurants)})
}

// GetMyRestaurant : fiche du restaurant porté par le token restaurateur
func GetMyRestaurant(c *gin.Context) {
	restaurantID, err := gocql.ParseUUID(c.GetString("restaurant_id"))
	if err != nil {
		c.JSON(http.StatusForbidden, gin.H{"error": "Aucun restaurant associé à ce compte"})
		return
	}

	r, err := cache.GetRestaurantFromCache(restaurantID)
	if err != nil {
		c.JSON(http.StatusNotFound, gin.H{"error": "Restaurant introuvable"})
		return
	}
	c.JSON(http.StatusOK, r)
}

// UpdateRestaurant : mise à jour de la fiche par son restaurateur
func UpdateRestaurant(c *gin.Context) {
	restaurantID, err := gocql.ParseUUID(c.Param("restaurantId"))
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "id invalide"})
		return
	}

	var input struct {
		Name        string  `json:"name"`
		Description string  `json:"description"`
		CuisineType string  `json:"cuisine_type"`
		Address     string  `json:"address"`
		Lat         float64 `json:"lat"`
		Lng         float64 `json:"lng"`
		Phone       string  `json:"phone"`
	}
	if err := c.ShouldBindJSON(&input); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}

	current, err := cache.GetRestaurantFromCache(restaurantID)
	if err != nil {
		c.JSON(http.StatusNotFound, gin.H{"error": "Restaurant introuvable"})
		return
	}

	if input.Name != "" {
		current.Name = input.Name
	}
	if input.Description != "" {
		current.Description = input.Description
	}
	if input.CuisineType != "" {
		current.CuisineType = input.CuisineType
	}
	if input.Address != "" {
		current.Address = input.Address
		current.Lat = input.Lat
		current.Lng = input.Lng
	}
	if input.Phone != "" {
		current.Phone = input.Phone
	}

	session, err := database.GetRestaurantsSession()
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Erreur connexion base de données"})
		return
	}

	now := time.Now().UTC()
	if err := session.Query(`UPDATE restaurants SET name = ?, description = ?, cuisine_type = ?, address = ?,
		lat = ?, lng = ?, phone = ?, updated_at = ? WHERE restaurant_id = ?`,
		current.Name, current.Description, current.CuisineType, current.Address,
		current.Lat, current.Lng, current.Phone, now, restaurantID).Exec(); err != nil {
		log.Printf("❌ Erreur mise à jour restaurant %s: %v", restaurantID, err)
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Erreur mise à jour"})
		return
	}
	current.UpdatedAt = &now

	cache.InvalidateRestaurantCache(restaurantID)
	if current.ApplicationStatus == models.ApplicationApproved {
		service.IndexRestaurant(*current)
	}

	utils.LogAction(c, utils.ACTION_RESTAURANT_UPDATE, utils.RESOURCE_RESTAURANT, restaurantID.String(), nil, input)
	c.JSON(http.StatusOK, current)
}

// SetOpen bascule le restaurant ouvert/fermé. Un restaurant fermé
// n'accepte plus de checkout mais les commandes en cours continuent.
func SetOpen(c *gin.Context) {
	restaurantID, err := gocql.ParseUUID(c.Param("restaurantId"))
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "id invalide"})
		return
	}

	var input struct {
		IsOpen bool `json:"is_open"`
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

	if err := session.Query("UPDATE restaurants SET is_open = ?, updated_at = ? WHERE restaurant_id = ?",
		input.IsOpen, time.Now().UTC(), restaurantID).Exec(); err != nil {
		log.Printf("❌ Erreur changement ouverture %s: %v", restaurantID, err)
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Erreur mise à jour"})
		return
	}

	cache.InvalidateRestaurantCache(restaurantID)
	log.Printf("🍽️ Restaurant %s → is_open=%v", restaurantID, input.IsOpen)
	c.JSON(http.StatusOK, gin.H{"restaurant_id": restaurantID.String(), "is_open": input.IsOpen})
}
