package cache

import (
	"context"
	"encoding/json"
	"time"

	"github.com/gocql/gocql"

	"miam_back_end/internal/database"
	"miam_back_end/internal/models"
)

const (
	RestaurantCacheTTL = 10 * time.Minute
	MenuCacheTTL       = 5 * time.Minute
)

// GetRestaurantFromCache récupère un restaurant depuis Redis ou ScyllaDB
func GetRestaurantFromCache(restaurantID gocql.UUID) (*models.Restaurant, error) {
	ctx := context.Background()
	key := "restaurant:" + restaurantID.String()

	// 1. Essayer le cache Redis
	data, err := database.Redis.Get(ctx, key).Result()
	if err == nil {
		var r models.Restaurant
		if json.Unmarshal([]byte(data), &r) == nil {
			return &r, nil
		}
	}

	// 2. Récupérer de ScyllaDB
	session, err := database.GetRestaurantsSession()
	if err != nil {
		return nil, err
	}

	var r models.Restaurant
	var createdAt, updatedAt time.Time
	err = session.Query(`SELECT restaurant_id, owner_id, name, description, cuisine_type, address, lat, lng,
		phone, cover_image_url, is_open, application_status, rejection_reason, created_at, updated_at
		FROM restaurants WHERE restaurant_id = ?`, restaurantID).Scan(
		&r.ID, &r.OwnerID, &r.Name, &r.Description, &r.CuisineType, &r.Address, &r.Lat, &r.Lng,
		&r.Phone, &r.CoverImageURL, &r.IsOpen, &r.ApplicationStatus, &r.RejectionReason, &createdAt, &updatedAt)
	if err != nil {
		return nil, err
	}
	r.CreatedAt = &createdAt
	r.UpdatedAt = &updatedAt

	// 3. Mettre en cache pour les prochains appels
	if payload, err := json.Marshal(r); err == nil {
		database.Redis.Set(ctx, key, payload, RestaurantCacheTTL)
	}

	return &r, nil
}

// InvalidateRestaurantCache purge le cache d'un restaurant après modification
func InvalidateRestaurantCache(restaurantID gocql.UUID) {
	ctx := context.Background()
	database.Redis.Del(ctx, "restaurant:"+restaurantID.String())
	database.Redis.Del(ctx, "menu:"+restaurantID.String())
}

// GetMenuFromCache récupère le menu complet d'un restaurant (catégories + plats)
func GetMenuFromCache(restaurantID gocql.UUID) ([]models.MenuItem, bool) {
	ctx := context.Background()
	key := "menu:" + restaurantID.String()

	data, err := database.Redis.Get(ctx, key).Result()
	if err != nil || data == "" {
		return nil, false
	}

	var items []models.MenuItem
	if json.Unmarshal([]byte(data), &items) != nil {
		return nil, false
	}
	return items, true
}

// SetMenuInCache met le menu en cache
func SetMenuInCache(restaurantID gocql.UUID, items []models.MenuItem) {
	ctx := context.Background()
	if payload, err := json.Marshal(items); err == nil {
		database.Redis.Set(ctx, "menu:"+restaurantID.String(), payload, MenuCacheTTL)
	}
}
