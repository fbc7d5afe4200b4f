package order

import (
	"context"
	"encoding/json"
	"log"
	"net/http"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/gorilla/websocket"

	"miam_back_end/internal/database"
	"miam_back_end/internal/lifecycle"
)

var upgrader = websocket.Upgrader{
	CheckOrigin: func(r *http.Request) bool {
		// Autoriser toutes les origines (à ajuster en production)
		return true
	},
}

// TrackOrder pousse en temps réel les changements de statut d'une commande.
// Le flux est alimenté par le canal Redis order_events:<order_id> que le
// dispatcher publie à chaque transition.
func TrackOrder(c *gin.Context) {
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

	conn, err := upgrader.Upgrade(c.Writer, c.Request, nil)
	if err != nil {
		log.Printf("❌ Erreur upgrade WebSocket: %v", err)
		return
	}
	defer conn.Close()

	ctx := context.Background()
	pubsub := database.Redis.Subscribe(ctx, "order_events:"+orderID.String())
	defer pubsub.Close()
	ch := pubsub.Channel()

	// État initial dès la connexion
	conn.WriteJSON(map[string]interface{}{
		"type":         "connected",
		"order_number": o.OrderNumber,
		"status":       o.Status,
		"status_class": lifecycle.Classify(o.Status),
	})

	for {
		select {
		case msg, open := <-ch:
			if !open {
				return
			}
			var change lifecycle.StatusChange
			if err := json.Unmarshal([]byte(msg.Payload), &change); err != nil {
				continue
			}
			response := map[string]interface{}{
				"type":         "status_changed",
				"order_number": change.OrderNumber,
				"from":         change.From,
				"to":           change.To,
				"status_class": lifecycle.Classify(change.To),
				"reason":       change.Reason,
				"at":           change.At,
			}
			if err := conn.WriteJSON(response); err != nil {
				log.Printf("❌ Erreur envoi WebSocket: %v", err)
				return
			}
			// Plus rien ne bougera après un état terminal
			if change.To.IsTerminal() {
				return
			}
		case <-time.After(30 * time.Second):
			// Ping pour garder la connexion active
			if err := conn.WriteMessage(websocket.PingMessage, nil); err != nil {
				return
			}
		}
	}
}
