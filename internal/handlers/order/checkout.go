package order

import (
	"crypto/rand"
	"encoding/hex"
	"fmt"
	"io"
	"log"
	"net/http"
	"os"
	"strconv"
	"strings"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/gocql/gocql"

	"miam_back_end/internal/cache"
	"miam_back_end/internal/lifecycle"
	"miam_back_end/internal/models"
	"miam_back_end/internal/repository"
	"miam_back_end/internal/utils"
)

// Frais par défaut en centimes, surchargeables par env
func feeCents(envKey string, fallback int64) int64 {
	if v := os.Getenv(envKey); v != "" {
		if n, err := strconv.ParseInt(v, 10, 64); err == nil && n >= 0 {
			return n
		}
	}
	return fallback
}

// generateOrderNumber produit un numéro lisible type MIAM-20260830-A3F2B1
func generateOrderNumber() (string, error) {
	b := make([]byte, 3)
	if _, err := io.ReadFull(rand.Reader, b); err != nil {
		return "", fmt.Errorf("génération numéro de commande: %w", err)
	}
	return fmt.Sprintf("MIAM-%s-%s", time.Now().Format("20060102"), strings.ToUpper(hex.EncodeToString(b))), nil
}

// Checkout crée une commande en statut pending.
// Les prix sont TOUJOURS relus côté serveur depuis le menu : le client
// n'envoie que des ids et des quantités, jamais des montants.
func Checkout(c *gin.Context) {
	var input struct {
		RestaurantID string `json:"restaurant_id" binding:"required"`
		Items        []struct {
			FoodID   string `json:"food_id" binding:"required"`
			Quantity int    `json:"quantity" binding:"required"`
			Notes    string `json:"notes"`
		} `json:"items" binding:"required"`
		DeliveryAddress string  `json:"delivery_address" binding:"required"`
		DeliveryLat     float64 `json:"delivery_lat"`
		DeliveryLng     float64 `json:"delivery_lng"`
	}
	if err := c.ShouldBindJSON(&input); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"success": false, "error": err.Error()})
		return
	}

	customerID, _, ok := actorFromContext(c)
	if !ok {
		return
	}

	restaurantID, err := gocql.ParseUUID(input.RestaurantID)
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"success": false, "error": "restaurant_id invalide"})
		return
	}

	restaurant, err := cache.GetRestaurantFromCache(restaurantID)
	if err != nil {
		c.JSON(http.StatusNotFound, gin.H{"success": false, "error": "Restaurant introuvable"})
		return
	}
	if restaurant.ApplicationStatus != models.ApplicationApproved || !restaurant.IsOpen {
		c.JSON(http.StatusConflict, gin.H{"success": false, "error": "Restaurant fermé ou non approuvé"})
		return
	}

	// Snapshot des articles depuis le menu du restaurant
	menu, found := cache.GetMenuFromCache(restaurantID)
	if !found {
		menu, err = repository.ListMenuItems(restaurantID)
		if err != nil {
			log.Printf("❌ Erreur lecture menu %s: %v", restaurantID, err)
			c.JSON(http.StatusInternalServerError, gin.H{"success": false, "error": "Internal"})
			return
		}
		cache.SetMenuInCache(restaurantID, menu)
	}

	byID := make(map[gocql.UUID]models.MenuItem, len(menu))
	for _, item := range menu {
		byID[item.ID] = item
	}

	var items []models.OrderItem
	var subtotal int64
	for _, in := range input.Items {
		foodID, err := gocql.ParseUUID(in.FoodID)
		if err != nil {
			c.JSON(http.StatusBadRequest, gin.H{"success": false, "error": "food_id invalide"})
			return
		}
		menuItem, ok := byID[foodID]
		if !ok || !menuItem.IsAvailable {
			c.JSON(http.StatusConflict, gin.H{"success": false, "error": fmt.Sprintf("Article indisponible: %s", in.FoodID)})
			return
		}
		if in.Quantity <= 0 {
			c.JSON(http.StatusBadRequest, gin.H{"success": false, "error": "quantité invalide"})
			return
		}
		items = append(items, models.OrderItem{
			FoodID:         foodID,
			FoodName:       menuItem.Name,
			Quantity:       in.Quantity,
			UnitPriceCents: menuItem.PriceCents,
			Notes:          in.Notes,
		})
		subtotal += menuItem.PriceCents * int64(in.Quantity)
	}

	deliveryFee := feeCents("DELIVERY_FEE_CENTS", 299)
	serviceFee := feeCents("SERVICE_FEE_CENTS", 99)

	orderNumber, err := generateOrderNumber()
	if err != nil {
		log.Printf("❌ Erreur génération numéro de commande: %v", err)
		c.JSON(http.StatusInternalServerError, gin.H{"success": false, "error": "Internal"})
		return
	}

	now := time.Now().UTC()
	newOrder := &models.Order{
		ID:               gocql.TimeUUID(),
		OrderNumber:      orderNumber,
		Status:           models.StatusPending,
		CustomerID:       customerID,
		RestaurantID:     restaurantID,
		Items:            items,
		SubtotalCents:    subtotal,
		DeliveryFeeCents: deliveryFee,
		ServiceFeeCents:  serviceFee,
		DiscountCents:    0,
		TotalCents:       subtotal + deliveryFee + serviceFee,
		DeliveryAddress:  input.DeliveryAddress,
		DeliveryLat:      input.DeliveryLat,
		DeliveryLng:      input.DeliveryLng,
		CreatedAt:        now,
		UpdatedAt:        now,
	}

	if err := lifecycle.ValidateNewOrder(newOrder); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"success": false, "error": err.Error()})
		return
	}

	if err := store.CreateOrder(c.Request.Context(), newOrder); err != nil {
		log.Printf("❌ Erreur création commande: %v", err)
		c.JSON(http.StatusInternalServerError, gin.H{"success": false, "error": "Internal"})
		return
	}

	utils.LogAction(c, utils.ACTION_ORDER_CREATE, utils.RESOURCE_ORDER, newOrder.ID.String(), nil, gin.H{
		"order_number": newOrder.OrderNumber,
		"total_cents":  newOrder.TotalCents,
	})

	log.Printf("✅ Commande %s créée pour le restaurant %s (%d centimes)", newOrder.OrderNumber, restaurant.Name, newOrder.TotalCents)
	respondOrder(c, http.StatusCreated, newOrder)
}
