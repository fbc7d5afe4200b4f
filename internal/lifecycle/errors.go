package lifecycle

import "errors"

// Erreurs typées du cycle de vie : les handlers les mappent vers des codes HTTP
// avec errors.Is, jamais de panique à travers la frontière API
var (
	// ErrInvalidTransition : le statut cible n'est pas atteignable depuis le statut courant
	ErrInvalidTransition = errors.New("transition invalide")

	// ErrForbidden : le rôle ou l'identité de l'acteur n'est pas autorisé pour cette arête
	ErrForbidden = errors.New("acteur non autorisé pour cette transition")

	// ErrOrderClosed : la commande est déjà dans un état terminal
	ErrOrderClosed = errors.New("commande clôturée")

	// ErrInvalidAssignment : assignation de livreur hors de l'état ready,
	// ou sur une commande qui a déjà un livreur
	ErrInvalidAssignment = errors.New("assignation de livreur invalide")

	// ErrNotFound : l'identifiant de commande ne résout pas
	ErrNotFound = errors.New("commande introuvable")

	// ErrConcurrentModification : l'écriture conditionnelle a échoué car une autre
	// transition a été committée en premier ; le client doit recharger et réessayer
	ErrConcurrentModification = errors.New("modification concurrente détectée")
)
