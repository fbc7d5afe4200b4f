package order

import (
	"log"
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/gocql/gocql"

	"miam_back_end/internal/database"
	"miam_back_end/internal/lifecycle"
	"miam_back_end/internal/models"
	"miam_back_end/internal/notifier"
	"miam_back_end/internal/repository"
	"miam_back_end/internal/utils"
)

// Le manager est l'unique point d'entrée des mutations de statut :
// les handlers ne touchent jamais les colonnes status/driver_id directement.
var (
	store   = repository.NewOrderStore()
	manager = lifecycle.NewManager(store, notifier.New())
)

func actorFromContext(c *gin.Context) (gocql.UUID, string, bool) {
	actorID, err := gocql.ParseUUID(c.GetString("user_id"))
	if err != nil {
		c.JSON(http.StatusUnauthorized, gin.H{"success": false, "error": "Forbidden"})
		return gocql.UUID{}, "", false
	}
	return actorID, c.GetString("role"), true
}

func orderIDParam(c *gin.Context) (gocql.UUID, bool) {
	id, err := gocql.ParseUUID(c.Param("id"))
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"success": false, "error": "NotFound"})
		return gocql.UUID{}, false
	}
	return id, true
}

// checkOrderOwnership recharge la commande et vérifie que l'acteur a le droit
// d'y toucher avant toute mutation : un restaurateur ne manipule que les
// commandes de son restaurant, un client uniquement les siennes. Les arêtes
// livreur sont re-vérifiées par le manager contre le driver_id persisté.
func checkOrderOwnership(c *gin.Context, orderID gocql.UUID, auditAction string) bool {
	o, err := manager.Get(c.Request.Context(), orderID)
	if err != nil {
		respondLifecycleError(c, err)
		return false
	}
	if !canSeeOrder(c, o) {
		log.Printf("⚠️ Mutation refusée sur la commande %s: acteur non propriétaire", orderID)
		utils.LogFailedAction(c, auditAction, utils.RESOURCE_ORDER, orderID.String(), "acteur non propriétaire")
		respondLifecycleError(c, lifecycle.ErrForbidden)
		return false
	}
	return true
}

// UpdateStatus applique une transition du pipeline de livraison.
// POST /api/orders/:id/status {"status": "...", "reason": "..."}
func UpdateStatus(c *gin.Context) {
	var input struct {
		Status string `json:"status" binding:"required"`
		Reason string `json:"reason"`
	}
	if err := c.ShouldBindJSON(&input); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"success": false, "error": "statut cible manquant"})
		return
	}

	orderID, ok := orderIDParam(c)
	if !ok {
		return
	}
	actorID, role, ok := actorFromContext(c)
	if !ok {
		return
	}
	if !checkOrderOwnership(c, orderID, utils.ACTION_ORDER_STATUS_CHANGE) {
		return
	}

	updated, err := manager.Transition(c.Request.Context(), orderID, models.OrderStatus(input.Status), role, actorID, input.Reason)
	if err != nil {
		utils.LogFailedAction(c, utils.ACTION_ORDER_STATUS_CHANGE, utils.RESOURCE_ORDER, orderID.String(), err.Error())
		respondLifecycleError(c, err)
		return
	}

	utils.LogAction(c, utils.ACTION_ORDER_STATUS_CHANGE, utils.RESOURCE_ORDER, orderID.String(), nil, gin.H{"status": updated.Status})
	respondOrder(c, http.StatusOK, updated)
}

// Accept : raccourci restaurateur pending → confirmed
func Accept(c *gin.Context) {
	transitionTo(c, models.StatusConfirmed, "", utils.ACTION_ORDER_ACCEPT)
}

// Reject : refus restaurateur, la commande part en cancelled avec raison
func Reject(c *gin.Context) {
	var input struct {
		Reason string `json:"reason" binding:"required"`
	}
	if err := c.ShouldBindJSON(&input); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"success": false, "error": "raison de refus obligatoire"})
		return
	}
	transitionTo(c, models.StatusCancelled, input.Reason, utils.ACTION_ORDER_CANCEL)
}

// Cancel : annulation par le client (pending uniquement) ou un admin
func Cancel(c *gin.Context) {
	var input struct {
		Reason string `json:"reason"`
	}
	_ = c.ShouldBindJSON(&input)
	transitionTo(c, models.StatusCancelled, input.Reason, utils.ACTION_ORDER_CANCEL)
}

func transitionTo(c *gin.Context, target models.OrderStatus, reason, auditAction string) {
	orderID, ok := orderIDParam(c)
	if !ok {
		return
	}
	actorID, role, ok := actorFromContext(c)
	if !ok {
		return
	}
	if !checkOrderOwnership(c, orderID, auditAction) {
		return
	}

	updated, err := manager.Transition(c.Request.Context(), orderID, target, role, actorID, reason)
	if err != nil {
		utils.LogFailedAction(c, auditAction, utils.RESOURCE_ORDER, orderID.String(), err.Error())
		respondLifecycleError(c, err)
		return
	}

	utils.LogAction(c, auditAction, utils.RESOURCE_ORDER, orderID.String(), nil, gin.H{"status": updated.Status})
	respondOrder(c, http.StatusOK, updated)
}

// AssignDriver affecte un livreur à une commande ready.
// Premier écrit gagnant : une deuxième affectation échoue en InvalidAssignment.
func AssignDriver(c *gin.Context) {
	var input struct {
		DriverID string `json:"driver_id" binding:"required"`
	}
	if err := c.ShouldBindJSON(&input); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"success": false, "error": "driver_id manquant"})
		return
	}

	driverID, err := gocql.ParseUUID(input.DriverID)
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"success": false, "error": "driver_id invalide"})
		return
	}

	orderID, ok := orderIDParam(c)
	if !ok {
		return
	}
	_, role, ok := actorFromContext(c)
	if !ok {
		return
	}
	if !checkOrderOwnership(c, orderID, utils.ACTION_ORDER_ASSIGN_DRIVER) {
		return
	}

	// Le compte visé doit exister et porter le rôle driver
	usersSession, err := database.GetUsersSession()
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"success": false, "error": "Internal"})
		return
	}
	var driverRole string
	if err := usersSession.Query("SELECT role FROM users WHERE user_id = ?", driverID).
		Scan(&driverRole); err != nil || driverRole != models.RoleDriver {
		log.Printf("⚠️ Affectation refusée, livreur inconnu: %s", input.DriverID)
		c.JSON(http.StatusConflict, gin.H{"success": false, "error": "InvalidAssignment"})
		return
	}

	updated, err := manager.AssignDriver(c.Request.Context(), orderID, driverID, role)
	if err != nil {
		utils.LogFailedAction(c, utils.ACTION_ORDER_ASSIGN_DRIVER, utils.RESOURCE_ORDER, orderID.String(), err.Error())
		respondLifecycleError(c, err)
		return
	}

	utils.LogAction(c, utils.ACTION_ORDER_ASSIGN_DRIVER, utils.RESOURCE_ORDER, orderID.String(), nil, gin.H{"driver_id": input.DriverID})
	respondOrder(c, http.StatusOK, updated)
}
