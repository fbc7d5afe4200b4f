package lifecycle

import (
	"context"
	"testing"
	"time"

	"github.com/gocql/gocql"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"miam_back_end/internal/models"
)

// memStore : store en mémoire qui reproduit la sémantique compare-and-set
// des écritures conditionnelles
type memStore struct {
	orders map[gocql.UUID]*models.Order
	logs   []models.OrderStatusLog
}

func newMemStore() *memStore {
	return &memStore{orders: make(map[gocql.UUID]*models.Order)}
}

func (s *memStore) GetOrder(_ context.Context, id gocql.UUID) (*models.Order, error) {
	o, ok := s.orders[id]
	if !ok {
		return nil, ErrNotFound
	}
	cp := *o
	return &cp, nil
}

func (s *memStore) ApplyStatusUpdate(_ context.Context, u StatusUpdate) (bool, error) {
	o, ok := s.orders[u.OrderID]
	if !ok || o.Status != u.Expected {
		return false, nil
	}
	o.Status = u.New
	o.UpdatedAt = u.UpdatedAt
	if u.ActualPickupAt != nil {
		o.ActualPickupAt = u.ActualPickupAt
	}
	if u.ActualDeliveryAt != nil {
		o.ActualDeliveryAt = u.ActualDeliveryAt
	}
	if u.CancellationReason != "" {
		o.CancellationReason = u.CancellationReason
	}
	return true, nil
}

func (s *memStore) AssignDriver(_ context.Context, orderID, driverID gocql.UUID, at time.Time) (bool, error) {
	o, ok := s.orders[orderID]
	if !ok || o.Status != models.StatusReady || o.DriverID != nil {
		return false, nil
	}
	o.DriverID = &driverID
	o.UpdatedAt = at
	return true, nil
}

func (s *memStore) AppendStatusLog(_ context.Context, entry models.OrderStatusLog) error {
	s.logs = append(s.logs, entry)
	return nil
}

type capturePublisher struct {
	events []StatusChange
}

func (p *capturePublisher) PublishStatusChange(_ context.Context, c StatusChange) {
	p.events = append(p.events, c)
}

func newPendingOrder() *models.Order {
	now := time.Now().UTC()
	return &models.Order{
		ID:           gocql.TimeUUID(),
		OrderNumber:  "MIAM-0001",
		Status:       models.StatusPending,
		CustomerID:   gocql.TimeUUID(),
		RestaurantID: gocql.TimeUUID(),
		Items: []models.OrderItem{
			{FoodID: gocql.TimeUUID(), FoodName: "Burger", Quantity: 2, UnitPriceCents: 950},
		},
		SubtotalCents:    1900,
		DeliveryFeeCents: 300,
		ServiceFeeCents:  100,
		DiscountCents:    0,
		TotalCents:       2300,
		DeliveryAddress:  "12 rue de la Paix, Paris",
		CreatedAt:        now,
		UpdatedAt:        now,
	}
}

func setup(t *testing.T) (*Manager, *memStore, *capturePublisher, *models.Order) {
	t.Helper()
	store := newMemStore()
	pub := &capturePublisher{}
	order := newPendingOrder()
	store.orders[order.ID] = order
	return NewManager(store, pub), store, pub, order
}

// advance fait avancer la commande jusqu'au statut voulu via les bons acteurs
func advance(t *testing.T, m *Manager, store *memStore, order *models.Order, target models.OrderStatus) gocql.UUID {
	t.Helper()
	restaurateur := gocql.TimeUUID()
	driver := gocql.TimeUUID()
	steps := []models.OrderStatus{models.StatusConfirmed, models.StatusPreparing, models.StatusReady,
		models.StatusPickedUp, models.StatusDelivering, models.StatusDelivered}

	for _, step := range steps {
		role := models.RoleRestaurantAdmin
		actor := restaurateur
		if step == models.StatusPickedUp || step == models.StatusDelivering || step == models.StatusDelivered {
			role = models.RoleDriver
			actor = driver
		}
		if step == models.StatusPickedUp {
			_, err := m.AssignDriver(context.Background(), order.ID, driver, models.RoleRestaurantAdmin)
			require.NoError(t, err)
		}
		_, err := m.Transition(context.Background(), order.ID, step, role, actor, "")
		require.NoError(t, err)
		if step == target {
			return driver
		}
	}
	return driver
}

func TestAcceptPendingOrder(t *testing.T) {
	m, store, pub, order := setup(t)

	updated, err := m.Transition(context.Background(), order.ID, models.StatusConfirmed,
		models.RoleRestaurantAdmin, gocql.TimeUUID(), "")
	require.NoError(t, err)

	assert.Equal(t, models.StatusConfirmed, updated.Status)
	assert.Nil(t, updated.DriverID)
	assert.True(t, updated.UpdatedAt.After(order.CreatedAt) || updated.UpdatedAt.Equal(order.CreatedAt))

	// un seul événement émis, avec le bon from/to et le client destinataire
	require.Len(t, pub.events, 1)
	assert.Equal(t, models.StatusPending, pub.events[0].From)
	assert.Equal(t, models.StatusConfirmed, pub.events[0].To)
	assert.Equal(t, order.CustomerID, pub.events[0].CustomerID)

	// une ligne d'audit par transition
	require.Len(t, store.logs, 1)
	assert.Equal(t, models.StatusConfirmed, store.logs[0].ToStatus)
}

func TestPickupBeforeReadyIsInvalid(t *testing.T) {
	m, _, _, order := setup(t)

	_, err := m.Transition(context.Background(), order.ID, models.StatusPickedUp,
		models.RoleDriver, gocql.TimeUUID(), "")
	assert.ErrorIs(t, err, ErrInvalidTransition)
}

func TestRoleGating(t *testing.T) {
	tests := []struct {
		name   string
		target models.OrderStatus
		role   string
	}{
		{"client ne peut pas confirmer", models.StatusConfirmed, models.RoleCustomer},
		{"livreur ne peut pas confirmer", models.StatusConfirmed, models.RoleDriver},
		{"livreur ne peut pas annuler en pending", models.StatusCancelled, models.RoleDriver},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			m, _, _, order := setup(t)
			_, err := m.Transition(context.Background(), order.ID, tt.target, tt.role, gocql.TimeUUID(), "raison")
			assert.ErrorIs(t, err, ErrForbidden)
		})
	}
}

func TestCustomerCanCancelPending(t *testing.T) {
	m, _, pub, order := setup(t)

	updated, err := m.Transition(context.Background(), order.ID, models.StatusCancelled,
		models.RoleCustomer, order.CustomerID, "trop long")
	require.NoError(t, err)

	assert.Equal(t, models.StatusCancelled, updated.Status)
	assert.Equal(t, "trop long", updated.CancellationReason)
	require.Len(t, pub.events, 1)
	assert.Equal(t, "trop long", pub.events[0].Reason)
}

func TestCustomerCannotCancelAfterConfirmation(t *testing.T) {
	m, store, _, order := setup(t)
	advance(t, m, store, order, models.StatusConfirmed)

	_, err := m.Transition(context.Background(), order.ID, models.StatusCancelled,
		models.RoleCustomer, order.CustomerID, "j'ai changé d'avis")
	assert.ErrorIs(t, err, ErrForbidden)
}

func TestDriverAssignmentExclusivity(t *testing.T) {
	m, store, _, order := setup(t)
	advance(t, m, store, order, models.StatusReady)

	first := gocql.TimeUUID()
	_, err := m.AssignDriver(context.Background(), order.ID, first, models.RoleRestaurantAdmin)
	require.NoError(t, err)
	require.NotNil(t, store.orders[order.ID].DriverID)

	// le premier livreur assigné ne doit pas être écrasé
	_, err = m.AssignDriver(context.Background(), order.ID, gocql.TimeUUID(), models.RoleSuperAdmin)
	assert.ErrorIs(t, err, ErrInvalidAssignment)
	assert.Equal(t, first, *store.orders[order.ID].DriverID)
}

func TestAssignmentOutsideReady(t *testing.T) {
	m, _, _, order := setup(t)

	_, err := m.AssignDriver(context.Background(), order.ID, gocql.TimeUUID(), models.RoleRestaurantAdmin)
	assert.ErrorIs(t, err, ErrInvalidAssignment)
}

func TestAssignmentRoleGate(t *testing.T) {
	m, store, _, order := setup(t)
	advance(t, m, store, order, models.StatusPreparing)

	_, err := m.AssignDriver(context.Background(), order.ID, gocql.TimeUUID(), models.RoleDriver)
	assert.ErrorIs(t, err, ErrForbidden)
}

func TestPickupSetsTimestampOnce(t *testing.T) {
	m, store, _, order := setup(t)
	advance(t, m, store, order, models.StatusReady)

	driver := gocql.TimeUUID()
	_, err := m.AssignDriver(context.Background(), order.ID, driver, models.RoleRestaurantAdmin)
	require.NoError(t, err)

	updated, err := m.Transition(context.Background(), order.ID, models.StatusPickedUp,
		models.RoleDriver, driver, "")
	require.NoError(t, err)
	require.NotNil(t, updated.ActualPickupAt)
	pickupAt := *updated.ActualPickupAt

	// re-tenter la même transition échoue proprement sans réécrire le timestamp
	_, err = m.Transition(context.Background(), order.ID, models.StatusPickedUp,
		models.RoleDriver, driver, "")
	assert.ErrorIs(t, err, ErrInvalidTransition)
	assert.Equal(t, pickupAt, *store.orders[order.ID].ActualPickupAt)
}

func TestPickupByWrongDriver(t *testing.T) {
	m, store, _, order := setup(t)
	advance(t, m, store, order, models.StatusReady)

	assigne := gocql.TimeUUID()
	_, err := m.AssignDriver(context.Background(), order.ID, assigne, models.RoleRestaurantAdmin)
	require.NoError(t, err)

	autre := gocql.TimeUUID()
	_, err = m.Transition(context.Background(), order.ID, models.StatusPickedUp,
		models.RoleDriver, autre, "")
	assert.ErrorIs(t, err, ErrForbidden)
}

func TestPickupWithoutAssignedDriver(t *testing.T) {
	m, store, _, order := setup(t)
	// atteindre ready sans assigner de livreur
	restaurateur := gocql.TimeUUID()
	for _, step := range []models.OrderStatus{models.StatusConfirmed, models.StatusPreparing, models.StatusReady} {
		_, err := m.Transition(context.Background(), order.ID, step, models.RoleRestaurantAdmin, restaurateur, "")
		require.NoError(t, err)
	}
	_ = store

	_, err := m.Transition(context.Background(), order.ID, models.StatusPickedUp,
		models.RoleDriver, gocql.TimeUUID(), "")
	assert.ErrorIs(t, err, ErrForbidden)
}

func TestDeliveredIsTerminal(t *testing.T) {
	m, store, _, order := setup(t)
	driver := advance(t, m, store, order, models.StatusDelivered)

	require.NotNil(t, store.orders[order.ID].ActualDeliveryAt)

	// double-tap "livré" sur une commande déjà livrée
	_, err := m.Transition(context.Background(), order.ID, models.StatusDelivered,
		models.RoleDriver, driver, "")
	assert.ErrorIs(t, err, ErrOrderClosed)
}

func TestCancelledIsTerminal(t *testing.T) {
	m, store, _, order := setup(t)
	advance(t, m, store, order, models.StatusPreparing)

	_, err := m.Transition(context.Background(), order.ID, models.StatusCancelled,
		models.RoleRestaurantAdmin, gocql.TimeUUID(), "rupture de stock")
	require.NoError(t, err)

	// le livreur ne peut plus rien faire, pas même une assignation
	_, err = m.Transition(context.Background(), order.ID, models.StatusPickedUp,
		models.RoleDriver, gocql.TimeUUID(), "")
	assert.ErrorIs(t, err, ErrOrderClosed)

	_, err = m.AssignDriver(context.Background(), order.ID, gocql.TimeUUID(), models.RoleSuperAdmin)
	assert.ErrorIs(t, err, ErrOrderClosed)
}

func TestConcurrentModificationSurfaces(t *testing.T) {
	store := newMemStore()
	order := newPendingOrder()
	store.orders[order.ID] = order

	// simule une course : le CAS échoue comme si un concurrent avait committé en premier
	m := NewManager(&racingStore{memStore: store}, nil)
	_, err := m.Transition(context.Background(), order.ID, models.StatusConfirmed,
		models.RoleRestaurantAdmin, gocql.TimeUUID(), "")
	assert.ErrorIs(t, err, ErrConcurrentModification)
}

// racingStore fait échouer toutes les écritures conditionnelles,
// comme si un concurrent committait toujours en premier
type racingStore struct {
	*memStore
}

func (s *racingStore) ApplyStatusUpdate(context.Context, StatusUpdate) (bool, error) {
	return false, nil
}

func TestUnknownOrder(t *testing.T) {
	m := NewManager(newMemStore(), nil)

	_, err := m.Transition(context.Background(), gocql.TimeUUID(), models.StatusConfirmed,
		models.RoleRestaurantAdmin, gocql.TimeUUID(), "")
	assert.ErrorIs(t, err, ErrNotFound)
}

func TestMonotonicity(t *testing.T) {
	// la séquence complète ne régresse jamais et chaque transition est loggée
	m, store, pub, order := setup(t)
	advance(t, m, store, order, models.StatusDelivered)

	rank := map[models.OrderStatus]int{
		models.StatusPending: 0, models.StatusConfirmed: 1, models.StatusPreparing: 2,
		models.StatusReady: 3, models.StatusPickedUp: 4, models.StatusDelivering: 5,
		models.StatusDelivered: 6,
	}
	require.Len(t, pub.events, 6)
	for _, ev := range pub.events {
		assert.Greater(t, rank[ev.To], rank[ev.From])
	}
	assert.Len(t, store.logs, 6)
}
