package lifecycle

import (
	"context"
	"fmt"
	"time"

	"github.com/gocql/gocql"

	"miam_back_end/internal/models"
)

// StatusUpdate : écriture conditionnelle d'un changement de statut.
// Le store ne doit l'appliquer QUE si le statut courant vaut encore Expected
// (compare-and-set), sinon une transition concurrente serait écrasée.
type StatusUpdate struct {
	OrderID            gocql.UUID
	Expected           models.OrderStatus
	New                models.OrderStatus
	UpdatedAt          time.Time
	ActualPickupAt     *time.Time
	ActualDeliveryAt   *time.Time
	CancellationReason string
}

// Store : le collaborateur de persistance du cycle de vie.
// ApplyStatusUpdate et AssignDriver retournent (false, nil) quand la
// condition n'a pas été satisfaite au moment de l'écriture.
type Store interface {
	GetOrder(ctx context.Context, id gocql.UUID) (*models.Order, error)
	ApplyStatusUpdate(ctx context.Context, u StatusUpdate) (bool, error)
	AssignDriver(ctx context.Context, orderID, driverID gocql.UUID, at time.Time) (bool, error)
	AppendStatusLog(ctx context.Context, entry models.OrderStatusLog) error
}

// Manager : la machine à états des commandes et ses gardes par rôle.
// Toute mutation de statut ou de livreur passe par ici, aucun handler
// n'écrit ces colonnes directement.
type Manager struct {
	store Store
	pub   Publisher
}

func NewManager(store Store, pub Publisher) *Manager {
	if pub == nil {
		pub = NopPublisher{}
	}
	return &Manager{store: store, pub: pub}
}

// Transition applique une arête du graphe pour le compte d'un acteur.
// Exactement une écriture de statut, une écriture de timestamp quand l'arête
// le demande, et un événement StatusChange émis — rien d'autre.
func (m *Manager) Transition(ctx context.Context, orderID gocql.UUID, target models.OrderStatus, actorRole string, actorID gocql.UUID, reason string) (*models.Order, error) {
	order, err := m.store.GetOrder(ctx, orderID)
	if err != nil {
		return nil, err
	}

	if order.Status.IsTerminal() {
		return nil, fmt.Errorf("%w : commande %s en état %s", ErrOrderClosed, order.OrderNumber, order.Status)
	}

	e, ok := transitions[order.Status][target]
	if !ok {
		return nil, fmt.Errorf("%w : %s → %s", ErrInvalidTransition, order.Status, target)
	}

	if !e.allows(actorRole) {
		return nil, fmt.Errorf("%w : rôle %s refusé pour %s → %s", ErrForbidden, actorRole, order.Status, target)
	}

	// Les arêtes livreur exigent que l'acteur soit LE livreur assigné
	if e.driverOnly {
		if order.DriverID == nil || *order.DriverID != actorID {
			return nil, fmt.Errorf("%w : l'acteur n'est pas le livreur assigné", ErrForbidden)
		}
	}

	now := time.Now().UTC()
	update := StatusUpdate{
		OrderID:   order.ID,
		Expected:  order.Status,
		New:       target,
		UpdatedAt: now,
	}

	// Les timestamps actual_* sont écrits une seule fois, jamais écrasés
	if e.setsPickup && order.ActualPickupAt == nil {
		update.ActualPickupAt = &now
	}
	if e.setsDelivery && order.ActualDeliveryAt == nil {
		update.ActualDeliveryAt = &now
	}
	if e.needsReason {
		update.CancellationReason = reason
	}

	applied, err := m.store.ApplyStatusUpdate(ctx, update)
	if err != nil {
		return nil, err
	}
	if !applied {
		// Une autre transition a gagné la course ; on ne réessaie jamais
		// automatiquement, c'est au client de recharger
		return nil, fmt.Errorf("%w : %s → %s", ErrConcurrentModification, order.Status, target)
	}

	from := order.Status
	order.Status = target
	order.UpdatedAt = now
	if update.ActualPickupAt != nil {
		order.ActualPickupAt = update.ActualPickupAt
	}
	if update.ActualDeliveryAt != nil {
		order.ActualDeliveryAt = update.ActualDeliveryAt
	}
	if e.needsReason {
		order.CancellationReason = reason
	}

	// Trace d'audit : une ligne par transition, best effort
	_ = m.store.AppendStatusLog(ctx, models.OrderStatusLog{
		ID:         gocql.TimeUUID(),
		OrderID:    order.ID,
		FromStatus: from,
		ToStatus:   target,
		ActorID:    actorID,
		ActorRole:  actorRole,
		Reason:     reason,
		ChangedAt:  now,
	})

	m.pub.PublishStatusChange(ctx, StatusChange{
		OrderID:     order.ID,
		OrderNumber: order.OrderNumber,
		CustomerID:  order.CustomerID,
		From:        from,
		To:          target,
		ActorID:     actorID,
		ActorRole:   actorRole,
		Reason:      reason,
		At:          now,
	})

	return order, nil
}

// AssignDriver pose le livreur sur une commande prête. Mutation orthogonale
// au statut : elle ne déplace pas la commande dans le pipeline.
// Premier écrivain gagnant ; la deuxième tentative échoue au lieu d'écraser.
func (m *Manager) AssignDriver(ctx context.Context, orderID, driverID gocql.UUID, actorRole string) (*models.Order, error) {
	if actorRole != models.RoleRestaurantAdmin && actorRole != models.RoleSuperAdmin {
		return nil, fmt.Errorf("%w : rôle %s ne peut pas assigner de livreur", ErrForbidden, actorRole)
	}

	order, err := m.store.GetOrder(ctx, orderID)
	if err != nil {
		return nil, err
	}

	if order.Status.IsTerminal() {
		return nil, fmt.Errorf("%w : commande %s en état %s", ErrOrderClosed, order.OrderNumber, order.Status)
	}
	if order.Status != models.StatusReady {
		return nil, fmt.Errorf("%w : assignation uniquement en état ready (actuel : %s)", ErrInvalidAssignment, order.Status)
	}
	if order.DriverID != nil {
		return nil, fmt.Errorf("%w : un livreur est déjà assigné", ErrInvalidAssignment)
	}

	now := time.Now().UTC()
	applied, err := m.store.AssignDriver(ctx, orderID, driverID, now)
	if err != nil {
		return nil, err
	}
	if !applied {
		// Course perdue : un autre livreur a été posé, ou le statut a bougé
		return nil, fmt.Errorf("%w : la commande a changé entre-temps", ErrInvalidAssignment)
	}

	order.DriverID = &driverID
	order.UpdatedAt = now
	return order, nil
}

// Get relit une commande via le store (ErrNotFound si absente)
func (m *Manager) Get(ctx context.Context, orderID gocql.UUID) (*models.Order, error) {
	return m.store.GetOrder(ctx, orderID)
}

// ValidateNewOrder vérifie les invariants de création avant insertion :
// montants positifs, quantités ≥ 1 et cohérence du total.
// Jamais recontrôlé ensuite, les montants sont immuables.
func ValidateNewOrder(o *models.Order) error {
	if len(o.Items) == 0 {
		return fmt.Errorf("commande sans article")
	}
	for _, item := range o.Items {
		if item.Quantity < 1 {
			return fmt.Errorf("quantité invalide pour %s", item.FoodName)
		}
		if item.UnitPriceCents < 0 {
			return fmt.Errorf("prix unitaire négatif pour %s", item.FoodName)
		}
	}
	if o.SubtotalCents < 0 || o.DeliveryFeeCents < 0 || o.ServiceFeeCents < 0 || o.DiscountCents < 0 {
		return fmt.Errorf("montant négatif")
	}
	if o.TotalCents != o.SubtotalCents+o.DeliveryFeeCents+o.ServiceFeeCents-o.DiscountCents {
		return fmt.Errorf("total incohérent : %d attendu, %d reçu",
			o.SubtotalCents+o.DeliveryFeeCents+o.ServiceFeeCents-o.DiscountCents, o.TotalCents)
	}
	if o.Status != models.StatusPending {
		return fmt.Errorf("une commande naît toujours en pending")
	}
	if o.DriverID != nil {
		return fmt.Errorf("pas de livreur à la création")
	}
	return nil
}
