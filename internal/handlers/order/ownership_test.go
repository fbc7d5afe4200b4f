package order

import (
	"context"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/gocql/gocql"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"miam_back_end/internal/lifecycle"
	"miam_back_end/internal/models"
)

// stubStore : un seul ordre en mémoire, assez pour exercer les handlers
type stubStore struct {
	order *models.Order
}

func (s *stubStore) GetOrder(_ context.Context, id gocql.UUID) (*models.Order, error) {
	if s.order == nil || s.order.ID != id {
		return nil, lifecycle.ErrNotFound
	}
	cp := *s.order
	return &cp, nil
}

func (s *stubStore) ApplyStatusUpdate(_ context.Context, u lifecycle.StatusUpdate) (bool, error) {
	if s.order.Status != u.Expected {
		return false, nil
	}
	s.order.Status = u.New
	s.order.UpdatedAt = u.UpdatedAt
	return true, nil
}

func (s *stubStore) AssignDriver(_ context.Context, _, driverID gocql.UUID, at time.Time) (bool, error) {
	if s.order.Status != models.StatusReady || s.order.DriverID != nil {
		return false, nil
	}
	s.order.DriverID = &driverID
	s.order.UpdatedAt = at
	return true, nil
}

func (s *stubStore) AppendStatusLog(context.Context, models.OrderStatusLog) error {
	return nil
}

func newStubOrder() *models.Order {
	now := time.Now().UTC()
	return &models.Order{
		ID:           gocql.TimeUUID(),
		OrderNumber:  "MIAM-0042",
		Status:       models.StatusPending,
		CustomerID:   gocql.TimeUUID(),
		RestaurantID: gocql.TimeUUID(),
		TotalCents:   1500,
		CreatedAt:    now,
		UpdatedAt:    now,
	}
}

// swapManager remplace le manager du package pendant le test
func swapManager(t *testing.T, o *models.Order) {
	t.Helper()
	saved := manager
	manager = lifecycle.NewManager(&stubStore{order: o}, lifecycle.NopPublisher{})
	t.Cleanup(func() { manager = saved })
}

func requestContext(t *testing.T, o *models.Order, role, userID, restaurantID, body string) (*gin.Context, *httptest.ResponseRecorder) {
	t.Helper()
	gin.SetMode(gin.TestMode)
	rec := httptest.NewRecorder()
	c, _ := gin.CreateTestContext(rec)
	c.Request = httptest.NewRequest(http.MethodPost, "/", strings.NewReader(body))
	c.Request.Header.Set("Content-Type", "application/json")
	c.Params = gin.Params{{Key: "id", Value: o.ID.String()}}
	c.Set("user_id", userID)
	c.Set("email", "test@miam.fr")
	c.Set("role", role)
	c.Set("restaurant_id", restaurantID)
	return c, rec
}

func TestAcceptRejectsForeignRestaurant(t *testing.T) {
	o := newStubOrder()
	swapManager(t, o)

	// restaurateur d'un autre restaurant : la commande ne doit pas bouger
	c, rec := requestContext(t, o, models.RoleRestaurantAdmin,
		gocql.TimeUUID().String(), gocql.TimeUUID().String(), "")
	Accept(c)

	assert.Equal(t, http.StatusForbidden, rec.Code)
	assert.Contains(t, rec.Body.String(), "Forbidden")
	assert.Equal(t, models.StatusPending, o.Status)
}

func TestAcceptByOwningRestaurant(t *testing.T) {
	o := newStubOrder()
	swapManager(t, o)

	c, rec := requestContext(t, o, models.RoleRestaurantAdmin,
		gocql.TimeUUID().String(), o.RestaurantID.String(), "")
	Accept(c)

	require.Equal(t, http.StatusOK, rec.Code)
	assert.Equal(t, models.StatusConfirmed, o.Status)
}

func TestCancelRejectsForeignCustomer(t *testing.T) {
	o := newStubOrder()
	swapManager(t, o)

	c, rec := requestContext(t, o, models.RoleCustomer,
		gocql.TimeUUID().String(), "", `{"reason":"pas ma commande"}`)
	Cancel(c)

	assert.Equal(t, http.StatusForbidden, rec.Code)
	assert.Equal(t, models.StatusPending, o.Status)
}

func TestCancelByOwningCustomer(t *testing.T) {
	o := newStubOrder()
	swapManager(t, o)

	c, rec := requestContext(t, o, models.RoleCustomer,
		o.CustomerID.String(), "", `{"reason":"trop long"}`)
	Cancel(c)

	require.Equal(t, http.StatusOK, rec.Code)
	assert.Equal(t, models.StatusCancelled, o.Status)
}

func TestUpdateStatusRejectsForeignRestaurant(t *testing.T) {
	o := newStubOrder()
	o.Status = models.StatusConfirmed
	swapManager(t, o)

	c, rec := requestContext(t, o, models.RoleRestaurantAdmin,
		gocql.TimeUUID().String(), gocql.TimeUUID().String(), `{"status":"preparing"}`)
	UpdateStatus(c)

	assert.Equal(t, http.StatusForbidden, rec.Code)
	assert.Equal(t, models.StatusConfirmed, o.Status)
}
