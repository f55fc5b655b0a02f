package handlers

import (
	"context"
	"encoding/csv"
	"encoding/json"
	"errors"
	"fmt"
	"net/http"
	"strings"
	"testing"

	"github.com/agamariel/polofashions/internal/models"
	"github.com/agamariel/polofashions/internal/orderflow"
	"github.com/agamariel/polofashions/internal/services"
	"github.com/agamariel/polofashions/internal/storage"
	"github.com/google/uuid"
	"github.com/labstack/echo/v4"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type fakeFeed struct {
	served int
}

func (f *fakeFeed) ServeWS(w http.ResponseWriter, _ *http.Request) {
	f.served++
	w.WriteHeader(http.StatusSwitchingProtocols)
}

func newAdminHandler(orders *mockOrderService) *AdminHandler {
	return NewAdminHandler(orders, &mockUserService{}, statsFunc(func(context.Context) (*models.DashboardStats, error) {
		return &models.DashboardStats{TotalOrders: 3}, nil
	}), &fakeFeed{})
}

func TestAdminHandler_UpdateOrderStatus(t *testing.T) {
	adminID := uuid.New()
	order := sampleOrder(uuid.New(), orderflow.StatusStitching)

	tests := []struct {
		name           string
		id             string
		body           string
		err            error
		expectedStatus int
	}{
		{"legal transition", order.ID.String(), `{"status":"buttoning"}`, nil, http.StatusOK},
		{"illegal transition", order.ID.String(), `{"status":"ironing"}`, services.ErrInvalidTransition, http.StatusUnprocessableEntity},
		{"unknown status", order.ID.String(), `{"status":"shipped"}`, services.ErrUnknownStatus, http.StatusBadRequest},
		{"missing status", order.ID.String(), `{}`, nil, http.StatusBadRequest},
		{"not found", order.ID.String(), `{"status":"buttoning"}`, storage.ErrOrderNotFound, http.StatusNotFound},
		{"bad id", "abc", `{"status":"buttoning"}`, nil, http.StatusBadRequest},
		{"internal error", order.ID.String(), `{"status":"buttoning"}`, errors.New("db error"), http.StatusInternalServerError},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			svc := &mockOrderService{
				UpdateStatusFunc: func(_ context.Context, actorID uuid.UUID, id uuid.UUID, status string) (*models.Order, error) {
					assert.Equal(t, adminID, actorID)
					if tt.err != nil {
						return nil, tt.err
					}
					updated := *order
					updated.Status = orderflow.Normalize(status)
					return &updated, nil
				},
			}
			c, rec := newContext(http.MethodPatch, "/api/admin/orders/"+tt.id+"/status", tt.body, adminID, models.RoleAdmin)
			withParams(c, map[string]string{"id": tt.id})

			err := newAdminHandler(svc).UpdateOrderStatus(c)
			requireStatus(t, err, rec, tt.expectedStatus)
			if tt.expectedStatus == http.StatusOK {
				var resp models.OrderResponse
				require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &resp))
				assert.Equal(t, orderflow.StatusButtoning, resp.Status)
				assert.Equal(t, "cyan", resp.StatusColor)
				assert.Equal(t, orderflow.StatusIroning, resp.NextStatuses[0].Value)
			}
		})
	}
}

func TestAdminHandler_CancelOrder(t *testing.T) {
	adminID := uuid.New()
	order := sampleOrder(uuid.New(), orderflow.StatusIroning)

	svc := &mockOrderService{
		CancelFunc: func(_ context.Context, _ uuid.UUID, id uuid.UUID) (*models.Order, error) {
			if id != order.ID {
				return nil, services.ErrCannotCancel
			}
			updated := *order
			updated.Status = orderflow.StatusCancelled
			return &updated, nil
		},
	}
	h := newAdminHandler(svc)

	c, rec := newContext(http.MethodPost, "/", "", adminID, models.RoleAdmin)
	withParams(c, map[string]string{"id": order.ID.String()})
	require.NoError(t, h.CancelOrder(c))
	assert.Contains(t, rec.Body.String(), `"status":"cancelled"`)
	assert.Contains(t, rec.Body.String(), `"next_statuses":[]`)

	c, _ = newContext(http.MethodPost, "/", "", adminID, models.RoleAdmin)
	withParams(c, map[string]string{"id": uuid.NewString()})
	requireHTTPError(t, h.CancelOrder(c), http.StatusUnprocessableEntity)
}

func TestAdminHandler_ListOrders(t *testing.T) {
	var gotStatus string
	svc := &mockOrderService{
		ListFunc: func(_ context.Context, status string) ([]*models.Order, error) {
			gotStatus = status
			if status == "shipped" {
				return nil, services.ErrUnknownStatus
			}
			return []*models.Order{sampleOrder(uuid.New(), orderflow.StatusReadyForPickup)}, nil
		},
	}
	h := newAdminHandler(svc)

	c, rec := newContext(http.MethodGet, "/api/admin/orders?status=ready_for_pickup", "", uuid.New(), models.RoleAdmin)
	require.NoError(t, h.ListOrders(c))
	assert.Equal(t, "ready_for_pickup", gotStatus)
	assert.Contains(t, rec.Body.String(), `"status_label":"Ready for Pickup"`)

	c, _ = newContext(http.MethodGet, "/api/admin/orders?status=shipped", "", uuid.New(), models.RoleAdmin)
	requireHTTPError(t, h.ListOrders(c), http.StatusBadRequest)
}

func TestAdminHandler_OrderHistory(t *testing.T) {
	orderID := uuid.New()
	svc := &mockOrderService{
		HistoryFunc: func(_ context.Context, id uuid.UUID) ([]*models.StatusChange, error) {
			if id != orderID {
				return nil, storage.ErrOrderNotFound
			}
			return []*models.StatusChange{{OrderID: id, FromStatus: orderflow.StatusPlaced, ToStatus: orderflow.StatusProcessing}}, nil
		},
	}
	h := newAdminHandler(svc)

	c, rec := newContext(http.MethodGet, "/", "", uuid.New(), models.RoleAdmin)
	withParams(c, map[string]string{"id": orderID.String()})
	require.NoError(t, h.OrderHistory(c))
	assert.Contains(t, rec.Body.String(), `"to_status":"processing"`)

	c, _ = newContext(http.MethodGet, "/", "", uuid.New(), models.RoleAdmin)
	withParams(c, map[string]string{"id": uuid.NewString()})
	requireHTTPError(t, h.OrderHistory(c), http.StatusNotFound)
}

func TestAdminHandler_ExportOrders(t *testing.T) {
	svc := &mockOrderService{
		ListFunc: func(context.Context, string) ([]*models.Order, error) {
			return []*models.Order{sampleOrder(uuid.New(), orderflow.StatusButtoning)}, nil
		},
	}
	h := newAdminHandler(svc)

	c, rec := newContext(http.MethodGet, "/api/admin/orders/export?format=csv", "", uuid.New(), models.RoleAdmin)
	require.NoError(t, h.ExportOrders(c))
	assert.Equal(t, "text/csv", rec.Header().Get(echo.HeaderContentType))
	assert.Contains(t, rec.Header().Get(echo.HeaderContentDisposition), ".csv")

	records, err := csv.NewReader(strings.NewReader(rec.Body.String())).ReadAll()
	require.NoError(t, err)
	require.Len(t, records, 2)
	assert.Equal(t, "Buttoning", records[1][8])
	assert.Equal(t, "Ironing", records[1][9])

	c, rec = newContext(http.MethodGet, "/api/admin/orders/export", "", uuid.New(), models.RoleAdmin)
	require.NoError(t, h.ExportOrders(c))
	assert.Equal(t, services.ExportXLSX.ContentType(), rec.Header().Get(echo.HeaderContentType))
	assert.True(t, strings.HasPrefix(rec.Body.String(), "PK"), "xlsx is a zip archive")

	c, _ = newContext(http.MethodGet, "/api/admin/orders/export?format=pdf", "", uuid.New(), models.RoleAdmin)
	requireHTTPError(t, h.ExportOrders(c), http.StatusBadRequest)
}

func TestAdminHandler_Stats(t *testing.T) {
	h := newAdminHandler(&mockOrderService{})
	c, rec := newContext(http.MethodGet, "/api/admin/stats", "", uuid.New(), models.RoleAdmin)
	require.NoError(t, h.Stats(c))
	assert.Contains(t, rec.Body.String(), `"total_orders":3`)

	h.stats = statsFunc(func(context.Context) (*models.DashboardStats, error) { return nil, errors.New("db error") })
	c, _ = newContext(http.MethodGet, "/api/admin/stats", "", uuid.New(), models.RoleAdmin)
	requireHTTPError(t, h.Stats(c), http.StatusInternalServerError)
}

func TestAdminHandler_Customers(t *testing.T) {
	users := &mockUserService{
		CustomersFunc: func(context.Context) ([]*models.User, error) {
			return []*models.User{{ID: uuid.New(), Login: "ravi"}}, nil
		},
		UpdateMeasurementFunc: func(_ context.Context, id uuid.UUID, req *models.UpdateMeasurementRequest) (*models.User, error) {
			if !req.MeasurementStatus.Valid() {
				return nil, services.ErrInvalidMeasurement
			}
			return &models.User{ID: id, MeasurementStatus: req.MeasurementStatus, MeasurementPhoto: req.MeasurementPhoto}, nil
		},
	}
	h := NewAdminHandler(&mockOrderService{}, users, nil, nil)

	c, rec := newContext(http.MethodGet, "/api/admin/customers", "", uuid.New(), models.RoleAdmin)
	require.NoError(t, h.Customers(c))
	assert.Contains(t, rec.Body.String(), `"login":"ravi"`)

	customer := uuid.New()
	body := `{"measurement_status":"completed","measurement_photo":"https://img/1.jpg"}`
	c, rec = newContext(http.MethodPatch, "/", body, uuid.New(), models.RoleAdmin)
	withParams(c, map[string]string{"id": customer.String()})
	require.NoError(t, h.UpdateMeasurement(c))
	assert.Contains(t, rec.Body.String(), fmt.Sprintf(`"id":"%s"`, customer))
	assert.Contains(t, rec.Body.String(), `"measurement_status":"completed"`)

	c, _ = newContext(http.MethodPatch, "/", `{"measurement_status":"done"}`, uuid.New(), models.RoleAdmin)
	withParams(c, map[string]string{"id": customer.String()})
	requireHTTPError(t, h.UpdateMeasurement(c), http.StatusBadRequest)
}

func TestAdminHandler_Feed(t *testing.T) {
	feed := &fakeFeed{}
	h := NewAdminHandler(&mockOrderService{}, &mockUserService{}, nil, feed)

	c, rec := newContext(http.MethodGet, "/api/admin/ws", "", uuid.New(), models.RoleAdmin)
	require.NoError(t, h.Feed(c))
	assert.Equal(t, 1, feed.served)
	assert.Equal(t, http.StatusSwitchingProtocols, rec.Code)
}
