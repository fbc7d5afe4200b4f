package admin

import (
	"log"
	"net/http"

	"github.com/gin-gonic/gin"

	"miam_back_end/internal/database"
	"miam_back_end/internal/lifecycle"
	"miam_back_end/internal/models"
)

// GetDashboardStats retourne les statistiques du dashboard super admin
func GetDashboardStats(c *gin.Context) {
	ordersSession, err := database.GetOrdersSession()
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Erreur connexion base de données"})
		return
	}

	// Statistiques des commandes
	var totalOrders int
	var revenueCents int64
	statusCount := make(map[string]int)
	classCount := make(map[lifecycle.StatusClass]int)

	iter := ordersSession.Query("SELECT status, total_cents FROM orders").Iter()
	var status string
	var totalCents int64

	for iter.Scan(&status, &totalCents) {
		totalOrders++
		statusCount[status]++
		classCount[lifecycle.Classify(models.OrderStatus(status))]++
		// Seules les commandes livrées comptent dans le chiffre d'affaires
		if models.OrderStatus(status) == models.StatusDelivered {
			revenueCents += totalCents
		}
	}

	if err := iter.Close(); err != nil {
		log.Printf("❌ Erreur lecture stats commandes: %v", err)
	}

	// Statistiques des restaurants
	restaurantsSession, err := database.GetRestaurantsSession()
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Erreur connexion base de données"})
		return
	}

	var totalRestaurants, openRestaurants, pendingApplications int
	restIter := restaurantsSession.Query("SELECT application_status, is_open FROM restaurants").Iter()
	var appStatus string
	var isOpen bool

	for restIter.Scan(&appStatus, &isOpen) {
		switch appStatus {
		case models.ApplicationApproved:
			totalRestaurants++
			if isOpen {
				openRestaurants++
			}
		case models.ApplicationPending:
			pendingApplications++
		}
	}

	if err := restIter.Close(); err != nil {
		log.Printf("❌ Erreur lecture restaurants: %v", err)
	}

	// Statistiques des utilisateurs
	usersSession, err := database.GetUsersSession()
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Erreur connexion base de données"})
		return
	}

	roleCount := make(map[string]int)
	var totalUsers int
	usersIter := usersSession.Query("SELECT role FROM users").Iter()
	var role string

	for usersIter.Scan(&role) {
		totalUsers++
		roleCount[role]++
	}

	if err := usersIter.Close(); err != nil {
		log.Printf("❌ Erreur lecture utilisateurs: %v", err)
	}

	var averageOrderCents int64
	if delivered := statusCount[string(models.StatusDelivered)]; delivered > 0 {
		averageOrderCents = revenueCents / int64(delivered)
	}

	c.JSON(http.StatusOK, gin.H{
		"orders": gin.H{
			"total":               totalOrders,
			"by_status":           statusCount,
			"by_class":            classCount,
			"revenue_cents":       revenueCents,
			"average_order_cents": averageOrderCents,
		},
		"restaurants": gin.H{
			"total":                totalRestaurants,
			"open":                 openRestaurants,
			"pending_applications": pendingApplications,
		},
		"users": gin.H{
			"total":   totalUsers,
			"by_role": roleCount,
		},
	})
}
