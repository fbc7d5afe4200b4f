package lifecycle

import (
	"testing"

	"github.com/stretchr/testify/assert"

	"miam_back_end/internal/models"
)

func TestCanTransition(t *testing.T) {
	tests := []struct {
		from, to models.OrderStatus
		want     bool
	}{
		{models.StatusPending, models.StatusConfirmed, true},
		{models.StatusPending, models.StatusCancelled, true},
		{models.StatusPending, models.StatusPreparing, false},
		{models.StatusConfirmed, models.StatusPreparing, true},
		{models.StatusPreparing, models.StatusReady, true},
		{models.StatusReady, models.StatusPickedUp, true},
		{models.StatusPickedUp, models.StatusDelivering, true},
		{models.StatusDelivering, models.StatusDelivered, true},
		// jamais de régression
		{models.StatusConfirmed, models.StatusPending, false},
		{models.StatusDelivering, models.StatusPickedUp, false},
		// les états terminaux ne sortent nulle part
		{models.StatusDelivered, models.StatusCancelled, false},
		{models.StatusCancelled, models.StatusPending, false},
	}
	for _, tt := range tests {
		assert.Equal(t, tt.want, CanTransition(tt.from, tt.to), "%s → %s", tt.from, tt.to)
	}
}

func TestCancelReachableFromEveryNonTerminalState(t *testing.T) {
	for _, s := range []models.OrderStatus{
		models.StatusPending, models.StatusConfirmed, models.StatusPreparing,
		models.StatusReady, models.StatusPickedUp, models.StatusDelivering,
	} {
		assert.True(t, CanTransition(s, models.StatusCancelled), "annulation impossible depuis %s", s)
	}
}

func TestClassify(t *testing.T) {
	assert.Equal(t, ClassNew, Classify(models.StatusPending))
	assert.Equal(t, ClassCompleted, Classify(models.StatusDelivered))
	assert.Equal(t, ClassCancelled, Classify(models.StatusCancelled))
	for _, s := range []models.OrderStatus{
		models.StatusConfirmed, models.StatusPreparing, models.StatusReady,
		models.StatusPickedUp, models.StatusDelivering,
	} {
		assert.Equal(t, ClassInProgress, Classify(s))
	}
}

func TestValidateNewOrder(t *testing.T) {
	valid := newPendingOrder()
	assert.NoError(t, ValidateNewOrder(valid))

	broken := newPendingOrder()
	broken.TotalCents = broken.TotalCents + 1
	assert.Error(t, ValidateNewOrder(broken))

	empty := newPendingOrder()
	empty.Items = nil
	assert.Error(t, ValidateNewOrder(empty))

	badQty := newPendingOrder()
	badQty.Items[0].Quantity = 0
	assert.Error(t, ValidateNewOrder(badQty))

	negative := newPendingOrder()
	negative.DiscountCents = -100
	assert.Error(t, ValidateNewOrder(negative))

	notPending := newPendingOrder()
	notPending.Status = models.StatusConfirmed
	assert.Error(t, ValidateNewOrder(notPending))
}
