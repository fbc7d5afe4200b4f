package repository

import (
	"context"
	"encoding/json"
	"fmt"
	"time"

	"github.com/gocql/gocql"

	"miam_back_end/internal/database"
	"miam_back_end/internal/lifecycle"
	"miam_back_end/internal/models"
)

// OrderStore : implémentation ScyllaDB du store du cycle de vie.
// Toutes les écritures de statut/livreur passent par des lightweight
// transactions (IF status = ?) : jamais de read-then-write aveugle,
// sinon deux acteurs concurrents s'écraseraient mutuellement.
type OrderStore struct{}

func NewOrderStore() *OrderStore {
	return &OrderStore{}
}

const orderColumns = `order_id, order_number, status, customer_id, restaurant_id, driver_id,
	items_json, subtotal_cents, delivery_fee_cents, service_fee_cents, discount_cents, total_cents,
	delivery_address, delivery_lat, delivery_lng, cancellation_reason, created_at, updated_at,
	estimated_pickup_at, actual_pickup_at, estimated_delivery_at, actual_delivery_at`

// GetOrder relit une commande par son id
func (s *OrderStore) GetOrder(ctx context.Context, id gocql.UUID) (*models.Order, error) {
	session, err := database.GetOrdersSession()
	if err != nil {
		return nil, err
	}

	var (
		o         models.Order
		driverID  gocql.UUID
		itemsJSON string
		reason    string
		estPickup, actPickup, estDelivery, actDelivery time.Time
	)

	query := fmt.Sprintf("SELECT %s FROM orders WHERE order_id = ?", orderColumns)
	err = session.Query(query, id).WithContext(ctx).Scan(
		&o.ID, &o.OrderNumber, &o.Status, &o.CustomerID, &o.RestaurantID, &driverID,
		&itemsJSON, &o.SubtotalCents, &o.DeliveryFeeCents, &o.ServiceFeeCents, &o.DiscountCents, &o.TotalCents,
		&o.DeliveryAddress, &o.DeliveryLat, &o.DeliveryLng, &reason, &o.CreatedAt, &o.UpdatedAt,
		&estPickup, &actPickup, &estDelivery, &actDelivery,
	)
	if err == gocql.ErrNotFound {
		return nil, lifecycle.ErrNotFound
	}
	if err != nil {
		return nil, err
	}

	// Scylla renvoie le zéro pour les colonnes null : on reconstruit les pointeurs
	if driverID != (gocql.UUID{}) {
		o.DriverID = &driverID
	}
	o.CancellationReason = reason
	o.EstimatedPickupAt = nullableTime(estPickup)
	o.ActualPickupAt = nullableTime(actPickup)
	o.EstimatedDeliveryAt = nullableTime(estDelivery)
	o.ActualDeliveryAt = nullableTime(actDelivery)

	if itemsJSON != "" {
		if err := json.Unmarshal([]byte(itemsJSON), &o.Items); err != nil {
			return nil, fmt.Errorf("items corrompus pour la commande %s: %v", id, err)
		}
	}

	return &o, nil
}

func nullableTime(t time.Time) *time.Time {
	if t.IsZero() {
		return nil
	}
	return &t
}

// CreateOrder insère une commande fraîche (statut pending) et alimente
// les tables de listing dénormalisées
func (s *OrderStore) CreateOrder(ctx context.Context, o *models.Order) error {
	session, err := database.GetOrdersSession()
	if err != nil {
		return err
	}

	itemsJSON, err := json.Marshal(o.Items)
	if err != nil {
		return err
	}

	query := `INSERT INTO orders (order_id, order_number, status, customer_id, restaurant_id,
		items_json, subtotal_cents, delivery_fee_cents, service_fee_cents, discount_cents, total_cents,
		delivery_address, delivery_lat, delivery_lng, created_at, updated_at, estimated_pickup_at, estimated_delivery_at)
		VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?)`

	if err := session.Query(query,
		o.ID, o.OrderNumber, o.Status, o.CustomerID, o.RestaurantID,
		string(itemsJSON), o.SubtotalCents, o.DeliveryFeeCents, o.ServiceFeeCents, o.DiscountCents, o.TotalCents,
		o.DeliveryAddress, o.DeliveryLat, o.DeliveryLng, o.CreatedAt, o.UpdatedAt,
		o.EstimatedPickupAt, o.EstimatedDeliveryAt,
	).WithContext(ctx).Exec(); err != nil {
		return err
	}

	// Tables de listing : ids seulement,
	// le détail est relu depuis orders pour ne jamais servir un statut périmé
	if err := session.Query(`INSERT INTO orders_by_customer (customer_id, created_at, order_id) VALUES (?, ?, ?)`,
		o.CustomerID, o.CreatedAt, o.ID).WithContext(ctx).Exec(); err != nil {
		return err
	}
	return session.Query(`INSERT INTO orders_by_restaurant (restaurant_id, created_at, order_id) VALUES (?, ?, ?)`,
		o.RestaurantID, o.CreatedAt, o.ID).WithContext(ctx).Exec()
}

// ApplyStatusUpdate : écriture conditionnelle du statut.
// Retourne false si le statut courant ne vaut plus u.Expected (course perdue).
func (s *OrderStore) ApplyStatusUpdate(ctx context.Context, u lifecycle.StatusUpdate) (bool, error) {
	session, err := database.GetOrdersSession()
	if err != nil {
		return false, err
	}

	set := "status = ?, updated_at = ?"
	args := []interface{}{u.New, u.UpdatedAt}

	if u.ActualPickupAt != nil {
		set += ", actual_pickup_at = ?"
		args = append(args, *u.ActualPickupAt)
	}
	if u.ActualDeliveryAt != nil {
		set += ", actual_delivery_at = ?"
		args = append(args, *u.ActualDeliveryAt)
	}
	if u.CancellationReason != "" {
		set += ", cancellation_reason = ?"
		args = append(args, u.CancellationReason)
	}

	args = append(args, u.OrderID, u.Expected)
	query := fmt.Sprintf("UPDATE orders SET %s WHERE order_id = ? IF status = ?", set)

	var currentStatus string
	applied, err := session.Query(query, args...).WithContext(ctx).ScanCAS(&currentStatus)
	if err != nil {
		return false, err
	}
	return applied, nil
}

// AssignDriver pose le livreur via LWT : premier écrivain gagnant
func (s *OrderStore) AssignDriver(ctx context.Context, orderID, driverID gocql.UUID, at time.Time) (bool, error) {
	session, err := database.GetOrdersSession()
	if err != nil {
		return false, err
	}

	query := `UPDATE orders SET driver_id = ?, updated_at = ?
		WHERE order_id = ? IF status = ? AND driver_id = null`

	applied, err := session.Query(query, driverID, at, orderID, models.StatusReady).
		WithContext(ctx).MapScanCAS(map[string]interface{}{})
	if err != nil {
		return false, err
	}
	if !applied {
		return false, nil
	}

	// Alimente la liste des courses du livreur
	return true, session.Query(`INSERT INTO orders_by_driver (driver_id, created_at, order_id) VALUES (?, ?, ?)`,
		driverID, at, orderID).WithContext(ctx).Exec()
}

// AppendStatusLog : une ligne d'audit par transition, conservée indéfiniment
func (s *OrderStore) AppendStatusLog(ctx context.Context, entry models.OrderStatusLog) error {
	session, err := database.GetOrdersSession()
	if err != nil {
		return err
	}

	return session.Query(`INSERT INTO order_status_log (order_id, changed_at, log_id, from_status, to_status, actor_id, actor_role, reason)
		VALUES (?, ?, ?, ?, ?, ?, ?, ?)`,
		entry.OrderID, entry.ChangedAt, entry.ID, entry.FromStatus, entry.ToStatus,
		entry.ActorID, entry.ActorRole, entry.Reason,
	).WithContext(ctx).Exec()
}

// ListStatusLog retourne l'historique des transitions d'une commande
func (s *OrderStore) ListStatusLog(ctx context.Context, orderID gocql.UUID) ([]models.OrderStatusLog, error) {
	session, err := database.GetOrdersSession()
	if err != nil {
		return nil, err
	}

	iter := session.Query(`SELECT log_id, order_id, from_status, to_status, actor_id, actor_role, reason, changed_at
		FROM order_status_log WHERE order_id = ?`, orderID).WithContext(ctx).Iter()

	var logs []models.OrderStatusLog
	var entry models.OrderStatusLog
	for iter.Scan(&entry.ID, &entry.OrderID, &entry.FromStatus, &entry.ToStatus,
		&entry.ActorID, &entry.ActorRole, &entry.Reason, &entry.ChangedAt) {
		logs = append(logs, entry)
		entry = models.OrderStatusLog{}
	}
	return logs, iter.Close()
}

// listFrom récupère les ids depuis une table de listing puis relit chaque
// commande depuis orders (jamais de statut dénormalisé périmé)
func (s *OrderStore) listFrom(ctx context.Context, table string, key gocql.UUID, limit int) ([]models.Order, error) {
	session, err := database.GetOrdersSession()
	if err != nil {
		return nil, err
	}

	column := map[string]string{
		"orders_by_customer":   "customer_id",
		"orders_by_restaurant": "restaurant_id",
		"orders_by_driver":     "driver_id",
	}[table]

	query := fmt.Sprintf("SELECT order_id FROM %s WHERE %s = ? LIMIT ?", table, column)
	iter := session.Query(query, key, limit).WithContext(ctx).Iter()

	var ids []gocql.UUID
	var id gocql.UUID
	for iter.Scan(&id) {
		ids = append(ids, id)
	}
	if err := iter.Close(); err != nil {
		return nil, err
	}

	orders := make([]models.Order, 0, len(ids))
	for _, oid := range ids {
		o, err := s.GetOrder(ctx, oid)
		if err != nil {
			continue // commande fantôme dans la table de listing : on l'ignore
		}
		orders = append(orders, *o)
	}
	return orders, nil
}

// ListReadyUnassigned : commandes prêtes sans livreur, proposées aux
// livreurs disponibles. Scan filtré côté application, le volume de
// commandes simultanément en ready reste petit.
func (s *OrderStore) ListReadyUnassigned(ctx context.Context, limit int) ([]models.Order, error) {
	session, err := database.GetOrdersSession()
	if err != nil {
		return nil, err
	}

	iter := session.Query("SELECT order_id, status, driver_id FROM orders").WithContext(ctx).Iter()

	var ids []gocql.UUID
	var id, driverID gocql.UUID
	var status string
	var zero gocql.UUID
	for iter.Scan(&id, &status, &driverID) {
		if models.OrderStatus(status) == models.StatusReady && driverID == zero {
			ids = append(ids, id)
			if len(ids) >= limit {
				break
			}
		}
	}
	if err := iter.Close(); err != nil {
		return nil, err
	}

	orders := make([]models.Order, 0, len(ids))
	for _, oid := range ids {
		o, err := s.GetOrder(ctx, oid)
		if err != nil {
			continue
		}
		orders = append(orders, *o)
	}
	return orders, nil
}

func (s *OrderStore) ListByCustomer(ctx context.Context, customerID gocql.UUID, limit int) ([]models.Order, error) {
	return s.listFrom(ctx, "orders_by_customer", customerID, limit)
}

func (s *OrderStore) ListByRestaurant(ctx context.Context, restaurantID gocql.UUID, limit int) ([]models.Order, error) {
	return s.listFrom(ctx, "orders_by_restaurant", restaurantID, limit)
}

func (s *OrderStore) ListByDriver(ctx context.Context, driverID gocql.UUID, limit int) ([]models.Order, error) {
	return s.listFrom(ctx, "orders_by_driver", driverID, limit)
}
