package repository

import (
	"fmt"
	"time"

	"github.com/gocql/gocql"

	"miam_back_end/internal/database"
	"miam_back_end/internal/models"
)

// La table menu_items est partitionnée par restaurant : le menu complet
// d'un restaurant se lit en une seule partition.
const menuItemColumns = `item_id, restaurant_id, category_id, name, description, price_cents,
	image_url, tags, is_available, created_at, updated_at`

// ListMenuItems lit tous les articles du menu d'un restaurant
func ListMenuItems(restaurantID gocql.UUID) ([]models.MenuItem, error) {
	session, err := database.GetRestaurantsSession()
	if err != nil {
		return nil, err
	}

	iter := session.Query("SELECT "+menuItemColumns+" FROM menu_items WHERE restaurant_id = ?", restaurantID).Iter()
	defer iter.Close()

	var items []models.MenuItem
	var item models.MenuItem
	var createdAt, updatedAt time.Time
	for iter.Scan(&item.ID, &item.RestaurantID, &item.CategoryID, &item.Name, &item.Description,
		&item.PriceCents, &item.ImageURL, &item.Tags, &item.IsAvailable, &createdAt, &updatedAt) {
		c, u := createdAt, updatedAt
		item.CreatedAt = &c
		item.UpdatedAt = &u
		items = append(items, item)
		item = models.MenuItem{}
	}

	if err := iter.Close(); err != nil {
		return nil, fmt.Errorf("lecture menu %s: %w", restaurantID, err)
	}
	return items, nil
}

// GetMenuItem lit un article précis du menu
func GetMenuItem(restaurantID, itemID gocql.UUID) (*models.MenuItem, error) {
	session, err := database.GetRestaurantsSession()
	if err != nil {
		return nil, err
	}

	var item models.MenuItem
	var createdAt, updatedAt time.Time
	err = session.Query("SELECT "+menuItemColumns+" FROM menu_items WHERE restaurant_id = ? AND item_id = ?",
		restaurantID, itemID).Scan(&item.ID, &item.RestaurantID, &item.CategoryID, &item.Name,
		&item.Description, &item.PriceCents, &item.ImageURL, &item.Tags, &item.IsAvailable, &createdAt, &updatedAt)
	if err != nil {
		return nil, err
	}
	item.CreatedAt = &createdAt
	item.UpdatedAt = &updatedAt
	return &item, nil
}

// SaveMenuItem insère ou remplace un article du menu
func SaveMenuItem(item *models.MenuItem) error {
	session, err := database.GetRestaurantsSession()
	if err != nil {
		return err
	}

	return session.Query(`INSERT INTO menu_items (item_id, restaurant_id, category_id, name, description,
		price_cents, image_url, tags, is_available, created_at, updated_at)
		VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?)`,
		item.ID, item.RestaurantID, item.CategoryID, item.Name, item.Description,
		item.PriceCents, item.ImageURL, item.Tags, item.IsAvailable, item.CreatedAt, item.UpdatedAt).Exec()
}

// DeleteMenuItem supprime un article du menu
func DeleteMenuItem(restaurantID, itemID gocql.UUID) error {
	session, err := database.GetRestaurantsSession()
	if err != nil {
		return err
	}
	return session.Query("DELETE FROM menu_items WHERE restaurant_id = ? AND item_id = ?", restaurantID, itemID).Exec()
}

// ListMenuCategories lit les catégories du menu d'un restaurant
func ListMenuCategories(restaurantID gocql.UUID) ([]models.MenuCategory, error) {
	session, err := database.GetRestaurantsSession()
	if err != nil {
		return nil, err
	}

	iter := session.Query(`SELECT category_id, restaurant_id, name, position, created_at
		FROM menu_categories WHERE restaurant_id = ?`, restaurantID).Iter()
	defer iter.Close()

	var categories []models.MenuCategory
	var cat models.MenuCategory
	var createdAt time.Time
	for iter.Scan(&cat.ID, &cat.RestaurantID, &cat.Name, &cat.Position, &createdAt) {
		c := createdAt
		cat.CreatedAt = &c
		categories = append(categories, cat)
		cat = models.MenuCategory{}
	}

	if err := iter.Close(); err != nil {
		return nil, fmt.Errorf("lecture catégories %s: %w", restaurantID, err)
	}
	return categories, nil
}
