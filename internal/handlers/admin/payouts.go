package admin

import (
	"log"
	"net/http"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/gocql/gocql"

	"miam_back_end/internal/models"
	"miam_back_end/internal/repository"
	"miam_back_end/internal/utils"
)

var orderStore = repository.NewOrderStore()

// payoutWindow parse les bornes ?from=2026-08-01&to=2026-08-31 (from inclus,
// to exclus après passage au jour suivant)
func payoutWindow(c *gin.Context) (time.Time, time.Time, bool) {
	from, err := time.Parse("2006-01-02", c.DefaultQuery("from", time.Now().UTC().AddDate(0, -1, 0).Format("2006-01-02")))
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "from invalide (AAAA-MM-JJ attendu)"})
		return time.Time{}, time.Time{}, false
	}
	to, err := time.Parse("2006-01-02", c.DefaultQuery("to", time.Now().UTC().Format("2006-01-02")))
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "to invalide (AAAA-MM-JJ attendu)"})
		return time.Time{}, time.Time{}, false
	}
	return from, to.AddDate(0, 0, 1), true
}

// driverPayout agrège les courses livrées d'un livreur sur la fenêtre :
// le versement correspond aux frais de livraison encaissés
func driverPayout(c *gin.Context, driverID gocql.UUID, from, to time.Time) (gin.H, bool) {
	orders, err := orderStore.ListByDriver(c.Request.Context(), driverID, 1000)
	if err != nil {
		log.Printf("❌ Erreur lecture courses livreur %s: %v", driverID, err)
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Erreur serveur"})
		return nil, false
	}

	var deliveries []gin.H
	var payoutCents int64
	for i := range orders {
		o := &orders[i]
		if o.Status != models.StatusDelivered || o.ActualDeliveryAt == nil {
			continue
		}
		if o.ActualDeliveryAt.Before(from) || !o.ActualDeliveryAt.Before(to) {
			continue
		}
		payoutCents += o.DeliveryFeeCents
		deliveries = append(deliveries, gin.H{
			"order_number":       o.OrderNumber,
			"delivered_at":       o.ActualDeliveryAt,
			"delivery_fee_cents": o.DeliveryFeeCents,
		})
	}

	return gin.H{
		"driver_id":    driverID.String(),
		"from":         from.Format("2006-01-02"),
		"to":           to.AddDate(0, 0, -1).Format("2006-01-02"),
		"deliveries":   deliveries,
		"count":        len(deliveries),
		"payout_cents": payoutCents,
	}, true
}

// GetDriverPayout : relevé de versement d'un livreur au format JSON
func GetDriverPayout(c *gin.Context) {
	driverID, err := gocql.ParseUUID(c.Param("driverId"))
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "id livreur invalide"})
		return
	}

	from, to, ok := payoutWindow(c)
	if !ok {
		return
	}

	payout, ok := driverPayout(c, driverID, from, to)
	if !ok {
		return
	}
	c.JSON(http.StatusOK, payout)
}

// ExportDriverPayoutPDF rend le relevé côté frontend admin et le capture
// en PDF via Chrome headless
func ExportDriverPayoutPDF(c *gin.Context) {
	driverID := c.Param("driverId")
	if _, err := gocql.ParseUUID(driverID); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "id livreur invalide"})
		return
	}

	from, to, ok := payoutWindow(c)
	if !ok {
		return
	}

	pdf, err := utils.RenderPayoutStatementPDF(utils.GetPayoutStatementBaseURL(), driverID,
		from.Format("2006-01-02"), to.AddDate(0, 0, -1).Format("2006-01-02"))
	if err != nil {
		log.Printf("❌ Erreur génération PDF relevé %s: %v", driverID, err)
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Erreur génération PDF"})
		return
	}

	utils.LogAction(c, utils.ACTION_PAYOUT_EXPORT, utils.RESOURCE_PAYOUT, driverID, nil, gin.H{
		"from": from.Format("2006-01-02"),
		"to":   to.AddDate(0, 0, -1).Format("2006-01-02"),
	})

	c.Header("Content-Disposition", "attachment; filename=releve-"+driverID+".pdf")
	c.Data(http.StatusOK, "application/pdf", pdf)
}
