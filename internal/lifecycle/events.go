package lifecycle

import (
	"context"
	"time"

	"github.com/gocql/gocql"

	"miam_back_end/internal/models"
)

// StatusChange : événement de domaine émis après chaque transition committée.
// Le manager n'envoie jamais de notification lui-même ; il émet l'événement
// et le dispatcher (email, websocket) fait le reste.
type StatusChange struct {
	OrderID     gocql.UUID         `json:"order_id"`
	OrderNumber string             `json:"order_number"`
	CustomerID  gocql.UUID         `json:"customer_id"`
	From        models.OrderStatus `json:"from"`
	To          models.OrderStatus `json:"to"`
	ActorID     gocql.UUID         `json:"actor_id"`
	ActorRole   string             `json:"actor_role"`
	Reason      string             `json:"reason,omitempty"`
	At          time.Time          `json:"at"`
}

// Publisher : collaborateur externe qui consomme les StatusChange
type Publisher interface {
	PublishStatusChange(ctx context.Context, change StatusChange)
}

// NopPublisher ignore les événements (utile pour les tests)
type NopPublisher struct{}

func (NopPublisher) PublishStatusChange(context.Context, StatusChange) {}
