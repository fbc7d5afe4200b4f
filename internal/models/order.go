package models

import (
	"time"

	"github.com/gocql/gocql"
)

// OrderStatus : statut d'une commande dans le pipeline de livraison
type OrderStatus string

const (
	StatusPending    OrderStatus = "pending"
	StatusConfirmed  OrderStatus = "confirmed"
	StatusPreparing  OrderStatus = "preparing"
	StatusReady      OrderStatus = "ready"
	StatusPickedUp   OrderStatus = "picked_up"
	StatusDelivering OrderStatus = "delivering"
	StatusDelivered  OrderStatus = "delivered"
	StatusCancelled  OrderStatus = "cancelled"
)

// IsTerminal : une commande livrée ou annulée n'accepte plus aucune mutation
func (s OrderStatus) IsTerminal() bool {
	return s == StatusDelivered || s == StatusCancelled
}

// OrderItem : snapshot d'un article au moment de la commande,
// jamais recalculé après soumission
type OrderItem struct {
	FoodID         gocql.UUID `json:"food_id"`
	FoodName       string     `json:"food_name"`
	Quantity       int        `json:"quantity"`
	UnitPriceCents int64      `json:"unit_price_cents"`
	Notes          string     `json:"notes,omitempty"`
}

// Order : tous les montants sont en centimes.
// total = subtotal + delivery_fee + service_fee - discount (invariant à la création)
type Order struct {
	ID                 gocql.UUID  `json:"id"`
	OrderNumber        string      `json:"order_number"`
	Status             OrderStatus `json:"status"`
	CustomerID         gocql.UUID  `json:"customer_id"`
	RestaurantID       gocql.UUID  `json:"restaurant_id"`
	DriverID           *gocql.UUID `json:"driver_id,omitempty"`
	Items              []OrderItem `json:"items"`
	SubtotalCents      int64       `json:"subtotal_cents"`
	DeliveryFeeCents   int64       `json:"delivery_fee_cents"`
	ServiceFeeCents    int64       `json:"service_fee_cents"`
	DiscountCents      int64       `json:"discount_cents"`
	TotalCents         int64       `json:"total_cents"`
	DeliveryAddress    string      `json:"delivery_address"`
	DeliveryLat        float64     `json:"delivery_lat"`
	DeliveryLng        float64     `json:"delivery_lng"`
	CancellationReason string      `json:"cancellation_reason,omitempty"`
	CreatedAt          time.Time   `json:"created_at"`
	UpdatedAt          time.Time   `json:"updated_at"`
	EstimatedPickupAt  *time.Time  `json:"estimated_pickup_at,omitempty"`
	ActualPickupAt     *time.Time  `json:"actual_pickup_at,omitempty"`
	EstimatedDeliveryAt *time.Time `json:"estimated_delivery_at,omitempty"`
	ActualDeliveryAt   *time.Time  `json:"actual_delivery_at,omitempty"`
}

// OrderStatusLog : une ligne d'audit par transition, jamais supprimée
type OrderStatusLog struct {
	ID         gocql.UUID  `json:"id"`
	OrderID    gocql.UUID  `json:"order_id"`
	FromStatus OrderStatus `json:"from_status"`
	ToStatus   OrderStatus `json:"to_status"`
	ActorID    gocql.UUID  `json:"actor_id"`
	ActorRole  string      `json:"actor_role"`
	Reason     string      `json:"reason,omitempty"`
	ChangedAt  time.Time   `json:"changed_at"`
}
