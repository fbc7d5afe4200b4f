package notifier

import (
	"context"
	"encoding/json"
	"log"

	"miam_back_end/internal/database"
	"miam_back_end/internal/lifecycle"
	"miam_back_end/internal/utils"
)

// Dispatcher consomme les événements StatusChange du cycle de vie.
// Le manager n'envoie rien lui-même : tout ce qui part vers l'extérieur
// (email client, flux websocket) part d'ici, en best effort.
type Dispatcher struct{}

func New() *Dispatcher {
	return &Dispatcher{}
}

// PublishStatusChange diffuse l'événement :
//  1. canal Redis order_events:<order_id> → repris par les websockets
//  2. email de statut au client (asynchrone, jamais bloquant pour l'API)
func (d *Dispatcher) PublishStatusChange(ctx context.Context, change lifecycle.StatusChange) {
	payload, err := json.Marshal(change)
	if err != nil {
		log.Printf("❌ Erreur sérialisation événement: %v", err)
		return
	}

	if err := database.Redis.Publish(ctx, "order_events:"+change.OrderID.String(), payload).Err(); err != nil {
		log.Printf("⚠️ Erreur publication Redis pour la commande %s: %v", change.OrderNumber, err)
	}

	go d.emailCustomer(change)
}

// emailCustomer retrouve l'email du client et lui envoie la mise à jour.
// L'événement porte déjà le customer_id, inutile de relire la commande.
func (d *Dispatcher) emailCustomer(change lifecycle.StatusChange) {
	usersSession, err := database.GetUsersSession()
	if err != nil {
		log.Printf("⚠️ Notification email abandonnée: %v", err)
		return
	}

	var email string
	if err := usersSession.Query("SELECT email FROM users WHERE user_id = ?", change.CustomerID).
		Scan(&email); err != nil {
		log.Printf("⚠️ Email client introuvable pour %s: %v", change.OrderNumber, err)
		return
	}

	if err := utils.SendOrderStatusEmail(email, change.OrderNumber, change.To, change.Reason); err != nil {
		log.Printf("❌ Erreur envoi email statut pour %s: %v", change.OrderNumber, err)
	}
}
