package middleware

import (
	"github.com/gin-gonic/gin"

	"miam_back_end/internal/utils"
)

// AuditCriticalActions middleware pour auditer les actions sensibles
// (transitions de commande, approbations de restaurants, exports de paiements)
func AuditCriticalActions(action, resource string) gin.HandlerFunc {
	return func(c *gin.Context) {
		resourceID := c.Param("id")
		if resourceID == "" {
			resourceID = c.Param("restaurantId")
		}
		if resourceID == "" {
			resourceID = c.Param("driverId")
		}

		c.Next()

		// Auditer après traitement si succès
		if c.Writer.Status() >= 200 && c.Writer.Status() < 300 {
			utils.LogAction(c, action, resource, resourceID, nil, nil)
		} else {
			utils.LogFailedAction(c, action, resource, resourceID, "Action échouée")
		}
	}
}
