package order

import (
	"errors"
	"net/http"

	"github.com/gin-gonic/gin"

	"miam_back_end/internal/lifecycle"
)

// Toutes les réponses de l'API commandes suivent la même enveloppe :
// {success, data?, error?} — le front ne parse jamais autre chose.
func respondOrder(c *gin.Context, status int, data interface{}) {
	c.JSON(status, gin.H{"success": true, "data": data})
}

// respondLifecycleError traduit les erreurs métier du cycle de vie en HTTP.
// Le nom du type d'erreur part tel quel dans le champ "error" : c'est le
// contrat avec les frontends (retry sur ConcurrentModification, etc.)
func respondLifecycleError(c *gin.Context, err error) {
	status, kind := classifyError(err)
	c.JSON(status, gin.H{"success": false, "error": kind})
}

func classifyError(err error) (int, string) {
	switch {
	case errors.Is(err, lifecycle.ErrNotFound):
		return http.StatusNotFound, "NotFound"
	case errors.Is(err, lifecycle.ErrForbidden):
		return http.StatusForbidden, "Forbidden"
	case errors.Is(err, lifecycle.ErrOrderClosed):
		return http.StatusConflict, "OrderClosed"
	case errors.Is(err, lifecycle.ErrInvalidTransition):
		return http.StatusConflict, "InvalidTransition"
	case errors.Is(err, lifecycle.ErrInvalidAssignment):
		return http.StatusConflict, "InvalidAssignment"
	case errors.Is(err, lifecycle.ErrConcurrentModification):
		return http.StatusConflict, "ConcurrentModification"
	default:
		return http.StatusInternalServerError, "Internal"
	}
}
