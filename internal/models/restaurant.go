package models

import (
	"time"

	"github.com/gocql/gocql"
)

// Statuts de candidature d'un restaurant
const (
	ApplicationPending  = "pending"
	ApplicationApproved = "approved"
	ApplicationRejected = "rejected"
)

type Restaurant struct {
	ID                gocql.UUID `json:"id"`
	OwnerID           gocql.UUID `json:"owner_id"`
	Name              string     `json:"name"`
	Description       string     `json:"description,omitempty"`
	CuisineType       string     `json:"cuisine_type,omitempty"`
	Address           string     `json:"address"`
	Lat               float64    `json:"lat"`
	Lng               float64    `json:"lng"`
	Phone             string     `json:"phone,omitempty"`
	CoverImageURL     string     `json:"cover_image_url,omitempty"`
	IsOpen            bool       `json:"is_open"`
	ApplicationStatus string     `json:"application_status"`
	RejectionReason   string     `json:"rejection_reason,omitempty"`
	CreatedAt         *time.Time `json:"created_at,omitempty"`
	UpdatedAt         *time.Time `json:"updated_at,omitempty"`
}
