package admin

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

// ListApplications : candidatures de restaurants en attente de décision
func ListApplications(c *gin.Context) {
	session, err := database.GetRestaurantsSession()
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Erreur connexion base de données"})
		return
	}

	iter := session.Query(`SELECT restaurant_id, owner_id, name, description, cuisine_type, address, lat, lng,
		phone, cover_image_url, is_open, application_status, rejection_reason, created_at, updated_at
		FROM restaurants`).Iter()
	defer iter.Close()

	var pending []models.Restaurant
	var r models.Restaurant
	var createdAt, updatedAt time.Time
	for iter.Scan(&r.ID, &r.OwnerID, &r.Name, &r.Description, &r.CuisineType, &r.Address, &r.Lat, &r.Lng,
		&r.Phone, &r.CoverImageURL, &r.IsOpen, &r.ApplicationStatus, &r.RejectionReason, &createdAt, &updatedAt) {
		if r.ApplicationStatus == models.ApplicationPending {
			cr, up := createdAt, updatedAt
			r.CreatedAt = &cr
			r.UpdatedAt = &up
			pending = append(pending, r)
		}
		r = models.Restaurant{}
	}

	if err := iter.Close(); err != nil {
		log.Printf("❌ Erreur liste candidatures: %v", err)
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Erreur serveur"})
		return
	}

	c.JSON(http.StatusOK, gin.H{"applications": pending, "total": len(pending)})
}

// ApproveApplication approuve une candidature : le restaurant devient
// visible et son propriétaire reçoit le rôle restaurant_admin.
func ApproveApplication(c *gin.Context) {
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
	if r.ApplicationStatus != models.ApplicationPending {
		c.JSON(http.StatusConflict, gin.H{"error": "Candidature déjà traitée"})
		return
	}

	restaurantsSession, err := database.GetRestaurantsSession()
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Erreur connexion base de données"})
		return
	}

	now := time.Now().UTC()
	if err := restaurantsSession.Query(`UPDATE restaurants SET application_status = ?, rejection_reason = ?, updated_at = ?
		WHERE restaurant_id = ?`, models.ApplicationApproved, "", now, restaurantID).Exec(); err != nil {
		log.Printf("❌ Erreur approbation restaurant %s: %v", restaurantID, err)
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Erreur mise à jour"})
		return
	}

	// Le propriétaire devient restaurateur, son prochain login portera le
	// restaurant_id dans le token
	usersSession, err := database.GetUsersSession()
	if err == nil {
		if err := usersSession.Query("UPDATE users SET role = ?, restaurant_id = ? WHERE user_id = ?",
			models.RoleRestaurantAdmin, restaurantID, r.OwnerID).Exec(); err != nil {
			log.Printf("⚠️ Erreur promotion propriétaire %s: %v", r.OwnerID, err)
		}
	}

	cache.InvalidateRestaurantCache(restaurantID)
	r.ApplicationStatus = models.ApplicationApproved
	r.UpdatedAt = &now
	service.IndexRestaurant(*r)

	go notifyOwner(r.OwnerID, "✅ Votre restaurant est approuvé !",
		"<p>Félicitations, votre restaurant <b>"+r.Name+"</b> est maintenant visible sur Miam. Reconnectez-vous pour accéder à votre espace restaurateur.</p>")

	utils.LogAction(c, utils.ACTION_RESTAURANT_APPROVE, utils.RESOURCE_RESTAURANT, restaurantID.String(), nil, gin.H{"name": r.Name})
	log.Printf("✅ Restaurant approuvé: %s (%s)", r.Name, restaurantID)
	c.JSON(http.StatusOK, r)
}

// RejectApplication refuse une candidature avec une raison obligatoire
func RejectApplication(c *gin.Context) {
	restaurantID, err := gocql.ParseUUID(c.Param("restaurantId"))
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "id invalide"})
		return
	}

	var input struct {
		Reason string `json:"reason" binding:"required"`
	}
	if err := c.ShouldBindJSON(&input); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "raison de refus obligatoire"})
		return
	}

	r, err := cache.GetRestaurantFromCache(restaurantID)
	if err != nil {
		c.JSON(http.StatusNotFound, gin.H{"error": "Restaurant introuvable"})
		return
	}
	if r.ApplicationStatus != models.ApplicationPending {
		c.JSON(http.StatusConflict, gin.H{"error": "Candidature déjà traitée"})
		return
	}

	session, err := database.GetRestaurantsSession()
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Erreur connexion base de données"})
		return
	}

	now := time.Now().UTC()
	if err := session.Query(`UPDATE restaurants SET application_status = ?, rejection_reason = ?, updated_at = ?
		WHERE restaurant_id = ?`, models.ApplicationRejected, input.Reason, now, restaurantID).Exec(); err != nil {
		log.Printf("❌ Erreur refus restaurant %s: %v", restaurantID, err)
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Erreur mise à jour"})
		return
	}

	cache.InvalidateRestaurantCache(restaurantID)

	go notifyOwner(r.OwnerID, "Votre candidature Miam",
		"<p>Votre candidature pour <b>"+r.Name+"</b> n'a pas été retenue.</p><p>Raison : "+input.Reason+"</p>")

	utils.LogAction(c, utils.ACTION_RESTAURANT_REJECT, utils.RESOURCE_RESTAURANT, restaurantID.String(), nil, gin.H{"reason": input.Reason})
	c.JSON(http.StatusOK, gin.H{"restaurant_id": restaurantID.String(), "application_status": models.ApplicationRejected})
}

// notifyOwner envoie un email de décision au propriétaire, en best effort
func notifyOwner(ownerID gocql.UUID, subject, html string) {
	session, err := database.GetUsersSession()
	if err != nil {
		return
	}

	var email string
	if err := session.Query("SELECT email FROM users WHERE user_id = ?", ownerID).Scan(&email); err != nil {
		log.Printf("⚠️ Email propriétaire introuvable pour %s: %v", ownerID, err)
		return
	}

	if err := utils.SendEmail(email, subject, html, nil); err != nil {
		log.Printf("⚠️ Erreur envoi email décision à %s: %v", email, err)
	}
}
