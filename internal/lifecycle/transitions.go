package lifecycle

import "miam_back_end/internal/models"

// edge : une arête légale du graphe de transitions avec ses gardes
type edge struct {
	roles        []string // rôles autorisés à déclencher l'arête
	driverOnly   bool     // l'acteur doit être le livreur assigné
	setsPickup   bool     // fige actual_pickup_at
	setsDelivery bool     // fige actual_delivery_at
	needsReason  bool     // une raison d'annulation est enregistrée
}

// transitions : la table canonique. Le statut ne régresse jamais ;
// cancelled est la seule sortie latérale, atteignable depuis tout état non terminal.
var transitions = map[models.OrderStatus]map[models.OrderStatus]edge{
	models.StatusPending: {
		models.StatusConfirmed: {roles: []string{models.RoleRestaurantAdmin}},
		models.StatusCancelled: {
			roles:       []string{models.RoleRestaurantAdmin, models.RoleCustomer, models.RoleSuperAdmin},
			needsReason: true,
		},
	},
	models.StatusConfirmed: {
		models.StatusPreparing: {roles: []string{models.RoleRestaurantAdmin}},
		models.StatusCancelled: {
			roles:       []string{models.RoleRestaurantAdmin, models.RoleSuperAdmin},
			needsReason: true,
		},
	},
	models.StatusPreparing: {
		models.StatusReady: {roles: []string{models.RoleRestaurantAdmin}},
		models.StatusCancelled: {
			roles:       []string{models.RoleRestaurantAdmin, models.RoleSuperAdmin},
			needsReason: true,
		},
	},
	models.StatusReady: {
		models.StatusPickedUp: {
			roles:      []string{models.RoleDriver},
			driverOnly: true,
			setsPickup: true,
		},
		models.StatusCancelled: {
			roles:       []string{models.RoleRestaurantAdmin, models.RoleSuperAdmin},
			needsReason: true,
		},
	},
	models.StatusPickedUp: {
		models.StatusDelivering: {
			roles:      []string{models.RoleDriver},
			driverOnly: true,
		},
		models.StatusCancelled: {
			roles:       []string{models.RoleSuperAdmin},
			needsReason: true,
		},
	},
	models.StatusDelivering: {
		models.StatusDelivered: {
			roles:        []string{models.RoleDriver},
			driverOnly:   true,
			setsDelivery: true,
		},
		models.StatusCancelled: {
			roles:       []string{models.RoleSuperAdmin},
			needsReason: true,
		},
	},
}

func (e edge) allows(role string) bool {
	for _, r := range e.roles {
		if r == role {
			return true
		}
	}
	return false
}

// CanTransition indique si target est directement atteignable depuis from,
// indépendamment du rôle de l'acteur
func CanTransition(from, to models.OrderStatus) bool {
	_, ok := transitions[from][to]
	return ok
}

// StatusClass : classification grossière partagée par tous les frontends.
// Chaque app mappait son propre regroupement d'onglets ; la mapping vit
// désormais ici et nulle part ailleurs.
type StatusClass string

const (
	ClassNew        StatusClass = "new"
	ClassInProgress StatusClass = "in_progress"
	ClassCompleted  StatusClass = "completed"
	ClassCancelled  StatusClass = "cancelled"
)

// Classify mappe un statut granulaire vers sa classe d'affichage
func Classify(s models.OrderStatus) StatusClass {
	switch s {
	case models.StatusPending:
		return ClassNew
	case models.StatusDelivered:
		return ClassCompleted
	case models.StatusCancelled:
		return ClassCancelled
	default:
		return ClassInProgress
	}
}
