package models

import (
	"time"

	"github.com/gocql/gocql"
)

// Rôles de la plateforme Miam
const (
	RoleCustomer        = "customer"
	RoleRestaurantAdmin = "restaurant_admin"
	RoleDriver          = "driver"
	RoleSuperAdmin      = "super_admin"
)

type User struct {
	ID           gocql.UUID  `json:"user_id"`
	Name         string      `json:"name,omitempty"`
	Email        string      `json:"email"`
	Phone        string      `json:"phone,omitempty"`
	Password     string      `json:"-"`
	Role         string      `json:"role,omitempty"`
	Provider     string      `json:"provider,omitempty"`
	ProviderID   string      `json:"-"`
	RestaurantID *gocql.UUID `json:"restaurant_id,omitempty"`
	CreatedAt    *time.Time  `json:"created_at,omitempty"`
}

// DriverProfile complète un User avec le rôle driver
type DriverProfile struct {
	UserID       gocql.UUID `json:"user_id"`
	VehicleType  string     `json:"vehicle_type"` // bike, scooter, car
	LicensePlate string     `json:"license_plate,omitempty"`
	IsAvailable  bool       `json:"is_available"`
	UpdatedAt    time.Time  `json:"updated_at"`
}
