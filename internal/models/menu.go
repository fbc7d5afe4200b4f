package models

import (
	"time"

	"github.com/gocql/gocql"
)

type MenuCategory struct {
	ID           gocql.UUID `json:"id"`
	RestaurantID gocql.UUID `json:"restaurant_id"`
	Name         string     `json:"name"`
	Position     int        `json:"position"`
	CreatedAt    *time.Time `json:"created_at,omitempty"`
}

// MenuItem : les prix sont en centimes (jamais de flottants pour l'argent)
type MenuItem struct {
	ID           gocql.UUID `json:"id"`
	RestaurantID gocql.UUID `json:"restaurant_id"`
	CategoryID   gocql.UUID `json:"category_id"`
	Name         string     `json:"name"`
	Description  string     `json:"description,omitempty"`
	PriceCents   int64      `json:"price_cents"`
	ImageURL     string     `json:"image_url,omitempty"`
	Tags         []string   `json:"tags,omitempty"`
	IsAvailable  bool       `json:"is_available"`
	CreatedAt    *time.Time `json:"created_at,omitempty"`
	UpdatedAt    *time.Time `json:"updated_at,omitempty"`
}
