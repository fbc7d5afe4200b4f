package utils

import (
	"encoding/json"
	"log"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/gocql/gocql"

	"miam_back_end/internal/database"
	"miam_back_end/internal/models"
)

// LogAction enregistre une action dans les logs d'audit
func LogAction(c *gin.Context, action, resource string, resourceID string, oldValue, newValue interface{}) {
	go func() {
		if err := logActionAsync(c, action, resource, resourceID, oldValue, newValue, true, ""); err != nil {
			log.Printf("❌ Erreur enregistrement log audit: %v", err)
		}
	}()
}

// LogFailedAction enregistre une action échouée dans les logs d'audit
func LogFailedAction(c *gin.Context, action, resource, resourceID, errorMsg string) {
	go func() {
		if err := logActionAsync(c, action, resource, resourceID, nil, nil, false, errorMsg); err != nil {
			log.Printf("❌ Erreur enregistrement log audit: %v", err)
		}
	}()
}

// logActionAsync enregistre de façon asynchrone
func logActionAsync(c *gin.Context, action, resource, resourceID string, oldValue, newValue interface{}, success bool, errorMsg string) error {
	usersSession, err := database.GetUsersSession()
	if err != nil {
		return err
	}

	userID, _ := c.Get("user_id")
	userEmail, _ := c.Get("email")

	// Sérialiser les valeurs
	var oldValueStr, newValueStr string
	if oldValue != nil {
		if oldBytes, err := json.Marshal(oldValue); err == nil {
			oldValueStr = string(oldBytes)
		}
	}
	if newValue != nil {
		if newBytes, err := json.Marshal(newValue); err == nil {
			newValueStr = string(newBytes)
		}
	}

	auditLog := models.AuditLog{
		ID:         gocql.TimeUUID(),
		UserID:     getStringValue(userID),
		UserEmail:  getStringValue(userEmail),
		Action:     action,
		Resource:   resource,
		ResourceID: resourceID,
		OldValue:   oldValueStr,
		NewValue:   newValueStr,
		IPAddress:  c.ClientIP(),
		UserAgent:  c.GetHeader("User-Agent"),
		Success:    success,
		ErrorMsg:   errorMsg,
		Timestamp:  time.Now(),
		SessionID:  c.GetHeader("X-Session-ID"),
	}

	query := `
		INSERT INTO audit_logs (
			id, user_id, user_email, action, resource, resource_id,
			old_value, new_value, ip_address, user_agent, success,
			error_msg, timestamp, session_id
		) VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?)
	`

	return usersSession.Query(query,
		auditLog.ID, auditLog.UserID, auditLog.UserEmail, auditLog.Action,
		auditLog.Resource, auditLog.ResourceID, auditLog.OldValue, auditLog.NewValue,
		auditLog.IPAddress, auditLog.UserAgent, auditLog.Success, auditLog.ErrorMsg,
		auditLog.Timestamp, auditLog.SessionID,
	).Exec()
}

// getStringValue convertit une interface{} en string
func getStringValue(value interface{}) string {
	if value == nil {
		return ""
	}
	if str, ok := value.(string); ok {
		return str
	}
	return ""
}

// Actions d'audit prédéfinies
const (
	// Actions commandes
	ACTION_ORDER_CREATE        = "order.create"
	ACTION_ORDER_ACCEPT        = "order.accept"
	ACTION_ORDER_STATUS_CHANGE = "order.status_change"
	ACTION_ORDER_CANCEL        = "order.cancel"
	ACTION_ORDER_ASSIGN_DRIVER = "order.assign_driver"

	// Actions menus
	ACTION_MENU_ITEM_CREATE = "menu_item.create"
	ACTION_MENU_ITEM_UPDATE = "menu_item.update"
	ACTION_MENU_ITEM_DELETE = "menu_item.delete"

	// Actions restaurants
	ACTION_RESTAURANT_APPLY   = "restaurant.apply"
	ACTION_RESTAURANT_APPROVE = "restaurant.approve"
	ACTION_RESTAURANT_REJECT  = "restaurant.reject"
	ACTION_RESTAURANT_UPDATE  = "restaurant.update"

	// Actions utilisateurs
	ACTION_USER_CREATE = "user.create"
	ACTION_USER_UPDATE = "user.update"

	// Actions système
	ACTION_LOGIN_SUCCESS = "auth.login_success"
	ACTION_LOGIN_FAILED  = "auth.login_failed"
	ACTION_PAYOUT_EXPORT = "payout.export"
)

// Resources d'audit
const (
	RESOURCE_ORDER      = "order"
	RESOURCE_MENU_ITEM  = "menu_item"
	RESOURCE_RESTAURANT = "restaurant"
	RESOURCE_USER       = "user"
	RESOURCE_AUTH       = "auth"
	RESOURCE_PAYOUT     = "payout"
)
