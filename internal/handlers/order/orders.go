package order

import (
	"log"
	"net/http"
	"strconv"

	"github.com/gin-gonic/gin"
	"github.com/gocql/gocql"

	"miam_back_end/internal/lifecycle"
	"miam_back_end/internal/models"
	"miam_back_end/internal/utils"
)

// canSeeOrder : un client ne voit que ses commandes, un restaurateur celles de
// son restaurant, un livreur celles qui lui sont affectées. Le super admin
// voit tout.
func canSeeOrder(c *gin.Context, o *models.Order) bool {
	role := c.GetString("role")
	switch role {
	case models.RoleSuperAdmin:
		return true
	case models.RoleCustomer:
		return o.CustomerID.String() == c.GetString("user_id")
	case models.RoleRestaurantAdmin:
		return o.RestaurantID.String() == c.GetString("restaurant_id")
	case models.RoleDriver:
		return o.DriverID != nil && o.DriverID.String() == c.GetString("user_id")
	}
	return false
}

// GetOrder retourne le détail d'une commande, avec sa classe d'affichage
func GetOrder(c *gin.Context) {
	orderID, ok := orderIDParam(c)
	if !ok {
		return
	}

	o, err := manager.Get(c.Request.Context(), orderID)
	if err != nil {
		respondLifecycleError(c, err)
		return
	}
	if !canSeeOrder(c, o) {
		c.JSON(http.StatusForbidden, gin.H{"success": false, "error": "Forbidden"})
		return
	}

	respondOrder(c, http.StatusOK, gin.H{"order": o, "status_class": lifecycle.Classify(o.Status)})
}

// GetStatusHistory retourne la piste d'audit des transitions d'une commande
func GetStatusHistory(c *gin.Context) {
	orderID, ok := orderIDParam(c)
	if !ok {
		return
	}

	o, err := manager.Get(c.Request.Context(), orderID)
	if err != nil {
		respondLifecycleError(c, err)
		return
	}
	if !canSeeOrder(c, o) {
		c.JSON(http.StatusForbidden, gin.H{"success": false, "error": "Forbidden"})
		return
	}

	history, err := store.ListStatusLog(c.Request.Context(), orderID)
	if err != nil {
		log.Printf("❌ Erreur lecture historique %s: %v", orderID, err)
		c.JSON(http.StatusInternalServerError, gin.H{"success": false, "error": "Internal"})
		return
	}

	respondOrder(c, http.StatusOK, history)
}

func listLimit(c *gin.Context) int {
	limit, _ := strconv.Atoi(c.DefaultQuery("limit", "50"))
	if limit <= 0 || limit > 200 {
		limit = 50
	}
	return limit
}

// classFilter applique le filtre ?class=new|in_progress|completed|cancelled
func classFilter(c *gin.Context, orders []models.Order) []gin.H {
	wanted := lifecycle.StatusClass(c.Query("class"))
	out := make([]gin.H, 0, len(orders))
	for i := range orders {
		class := lifecycle.Classify(orders[i].Status)
		if wanted != "" && class != wanted {
			continue
		}
		out = append(out, gin.H{"order": orders[i], "status_class": class})
	}
	return out
}

// ListMyOrders : commandes du client connecté
func ListMyOrders(c *gin.Context) {
	customerID, _, ok := actorFromContext(c)
	if !ok {
		return
	}

	orders, err := store.ListByCustomer(c.Request.Context(), customerID, listLimit(c))
	if err != nil {
		log.Printf("❌ Erreur liste commandes client: %v", err)
		c.JSON(http.StatusInternalServerError, gin.H{"success": false, "error": "Internal"})
		return
	}

	respondOrder(c, http.StatusOK, classFilter(c, orders))
}

// ListRestaurantOrders : commandes du restaurant du restaurateur connecté
func ListRestaurantOrders(c *gin.Context) {
	restaurantID, err := gocql.ParseUUID(c.GetString("restaurant_id"))
	if err != nil {
		c.JSON(http.StatusForbidden, gin.H{"success": false, "error": "Forbidden"})
		return
	}

	orders, err := store.ListByRestaurant(c.Request.Context(), restaurantID, listLimit(c))
	if err != nil {
		log.Printf("❌ Erreur liste commandes restaurant: %v", err)
		c.JSON(http.StatusInternalServerError, gin.H{"success": false, "error": "Internal"})
		return
	}

	respondOrder(c, http.StatusOK, classFilter(c, orders))
}

// ListDriverOrders : livraisons affectées au livreur connecté
func ListDriverOrders(c *gin.Context) {
	driverID, _, ok := actorFromContext(c)
	if !ok {
		return
	}

	orders, err := store.ListByDriver(c.Request.Context(), driverID, listLimit(c))
	if err != nil {
		log.Printf("❌ Erreur liste livraisons: %v", err)
		c.JSON(http.StatusInternalServerError, gin.H{"success": false, "error": "Internal"})
		return
	}

	respondOrder(c, http.StatusOK, classFilter(c, orders))
}

// ListReadyForPickup : commandes prêtes sans livreur, visibles des livreurs
// disponibles (l'affectation reste une décision du restaurateur)
func ListReadyForPickup(c *gin.Context) {
	orders, err := store.ListReadyUnassigned(c.Request.Context(), listLimit(c))
	if err != nil {
		log.Printf("❌ Erreur liste commandes prêtes: %v", err)
		c.JSON(http.StatusInternalServerError, gin.H{"success": false, "error": "Internal"})
		return
	}

	out := make([]gin.H, 0, len(orders))
	for i := range orders {
		o := &orders[i]
		out = append(out, gin.H{
			"order_id":           o.ID.String(),
			"order_number":       o.OrderNumber,
			"restaurant_id":      o.RestaurantID.String(),
			"delivery_address":   o.DeliveryAddress,
			"delivery_fee_cents": o.DeliveryFeeCents,
		})
	}
	respondOrder(c, http.StatusOK, out)
}

// GetPickupQR génère le QR code que le livreur présente au comptoir.
// Réservé au livreur affecté et au restaurateur de la commande.
func GetPickupQR(c *gin.Context) {
	orderID, ok := orderIDParam(c)
	if !ok {
		return
	}

	o, err := manager.Get(c.Request.Context(), orderID)
	if err != nil {
		respondLifecycleError(c, err)
		return
	}
	if !canSeeOrder(c, o) {
		c.JSON(http.StatusForbidden, gin.H{"success": false, "error": "Forbidden"})
		return
	}
	if o.Status != models.StatusReady && o.Status != models.StatusPickedUp {
		c.JSON(http.StatusConflict, gin.H{"success": false, "error": "InvalidTransition"})
		return
	}

	qr, err := utils.GeneratePickupQR(o.ID.String(), o.OrderNumber)
	if err != nil {
		log.Printf("❌ Erreur génération QR %s: %v", o.OrderNumber, err)
		c.JSON(http.StatusInternalServerError, gin.H{"success": false, "error": "Internal"})
		return
	}

	respondOrder(c, http.StatusOK, gin.H{"order_number": o.OrderNumber, "qr_code": qr})
}
