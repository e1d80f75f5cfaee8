package rest

import (
	"bytes"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"

	log "github.com/sirupsen/logrus"
	"github.com/stretchr/testify/require"

	"github.com/vladislavdragonenkov/storefront/internal/service/orders"
	"github.com/vladislavdragonenkov/storefront/internal/service/products"
	"github.com/vladislavdragonenkov/storefront/internal/service/users"
	"github.com/vladislavdragonenkov/storefront/internal/storage/memory"
)

func newTestServer(t *testing.T) *Server {
	t.Helper()

	logger := log.New()
	logger.SetLevel(log.PanicLevel)
	entry := logger.WithField("component", "rest-test")

	return NewServer(Config{
		Users:    users.NewService(memory.NewUserRepository(), entry),
		Products: products.NewService(memory.NewProductRepository(), entry),
		Orders:   orders.NewService(memory.NewOrderRepository(), memory.NewTimelineRepository(), nil, nil, entry),
		Logger:   entry,
	})
}

func doJSON(t *testing.T, server *Server, method, path string, body interface{}) *httptest.ResponseRecorder {
	t.Helper()

	var reader *bytes.Reader
	if body != nil {
		payload, err := json.Marshal(body)
		require.NoError(t, err)
		reader = bytes.NewReader(payload)
	} else {
		reader = bytes.NewReader(nil)
	}

	req := httptest.NewRequest(method, path, reader)
	req.Header.Set("Content-Type", "application/json")
	w := httptest.NewRecorder()
	server.Handler().ServeHTTP(w, req)
	return w
}

func decode(t *testing.T, w *httptest.ResponseRecorder, out interface{}) {
	t.Helper()
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), out))
}

func createTestUser(t *testing.T, server *Server) userResponse {
	t.Helper()

	w := doJSON(t, server, http.MethodPost, "/api/users", createUserRequest{
		Username:  "jdoe",
		Email:     "jdoe@example.com",
		FirstName: "John",
		LastName:  "Doe",
	})
	require.Equal(t, http.StatusCreated, w.Code)

	var user userResponse
	decode(t, w, &user)
	return user
}

func createTestOrder(t *testing.T, server *Server, userID, number string, amount int64) orderResponse {
	t.Helper()

	w := doJSON(t, server, http.MethodPost, "/api/orders", createOrderRequest{
		UserID:      userID,
		OrderNumber: number,
		AmountMinor: amount,
	})
	require.Equal(t, http.StatusCreated, w.Code)

	var order orderResponse
	decode(t, w, &order)
	return order
}

func TestHealthEndpoint(t *testing.T) {
	server := newTestServer(t)

	w := doJSON(t, server, http.MethodGet, "/api/health", nil)
	require.Equal(t, http.StatusOK, w.Code)

	var body map[string]interface{}
	decode(t, w, &body)
	require.Equal(t, "ok", body["status"])
	require.Equal(t, "storefront", body["service"])
}

func TestUserEndpoints(t *testing.T) {
	server := newTestServer(t)
	user := createTestUser(t, server)

	t.Run("get by id", func(t *testing.T) {
		w := doJSON(t, server, http.MethodGet, "/api/users/"+user.ID, nil)
		require.Equal(t, http.StatusOK, w.Code)

		var got userResponse
		decode(t, w, &got)
		require.Equal(t, "jdoe", got.Username)
	})

	t.Run("get by username", func(t *testing.T) {
		w := doJSON(t, server, http.MethodGet, "/api/users/username/jdoe", nil)
		require.Equal(t, http.StatusOK, w.Code)
	})

	t.Run("missing user is 404", func(t *testing.T) {
		w := doJSON(t, server, http.MethodGet, "/api/users/missing", nil)
		require.Equal(t, http.StatusNotFound, w.Code)
	})

	t.Run("invalid body is 400", func(t *testing.T) {
		req := httptest.NewRequest(http.MethodPost, "/api/users", bytes.NewReader([]byte("{broken")))
		w := httptest.NewRecorder()
		server.Handler().ServeHTTP(w, req)
		require.Equal(t, http.StatusBadRequest, w.Code)
	})

	t.Run("malformed email is 400", func(t *testing.T) {
		w := doJSON(t, server, http.MethodPost, "/api/users", createUserRequest{
			Username:  "asmith",
			Email:     "not-an-email",
			FirstName: "Alice",
			LastName:  "Smith",
		})
		require.Equal(t, http.StatusBadRequest, w.Code)
	})

	t.Run("duplicate username is 409", func(t *testing.T) {
		w := doJSON(t, server, http.MethodPost, "/api/users", createUserRequest{
			Username:  "jdoe",
			Email:     "other@example.com",
			FirstName: "John",
			LastName:  "Doe",
		})
		require.Equal(t, http.StatusConflict, w.Code)
	})

	t.Run("update email occupied by another user is 400", func(t *testing.T) {
		second := doJSON(t, server, http.MethodPost, "/api/users", createUserRequest{
			Username:  "asmith",
			Email:     "asmith@example.com",
			FirstName: "Alice",
			LastName:  "Smith",
		})
		require.Equal(t, http.StatusCreated, second.Code)

		w := doJSON(t, server, http.MethodPatch, "/api/users/"+user.ID+"/email", updateEmailRequest{
			Email: "asmith@example.com",
		})
		require.Equal(t, http.StatusBadRequest, w.Code)
	})

	t.Run("missing body field is 400", func(t *testing.T) {
		w := doJSON(t, server, http.MethodPost, "/api/users", createUserRequest{
			Username:  "noname",
			Email:     "noname@example.com",
			FirstName: "No",
		})
		require.Equal(t, http.StatusBadRequest, w.Code)
	})

	t.Run("validate candidate", func(t *testing.T) {
		w := doJSON(t, server, http.MethodPost, "/api/users/validate", validateUserRequest{
			Username:  "newbie",
			Email:     "newbie@example.com",
			FirstName: "New",
			LastName:  "Bie",
		})
		require.Equal(t, http.StatusOK, w.Code)

		var body map[string]bool
		decode(t, w, &body)
		require.True(t, body["valid"])

		// Кандидат, нарушающий все правила полей, отклоняется ответом,
		// а не статусом.
		w = doJSON(t, server, http.MethodPost, "/api/users/validate", validateUserRequest{
			Username: "ab",
			Email:    "not-an-email",
		})
		require.Equal(t, http.StatusOK, w.Code)
		decode(t, w, &body)
		require.False(t, body["valid"])

		// Занятый username — тоже отрицательный ответ.
		w = doJSON(t, server, http.MethodPost, "/api/users/validate", validateUserRequest{
			Username:  "jdoe",
			Email:     "fresh@example.com",
			FirstName: "John",
			LastName:  "Doe",
		})
		require.Equal(t, http.StatusOK, w.Code)
		decode(t, w, &body)
		require.False(t, body["valid"])
	})

	t.Run("deactivate and reactivate", func(t *testing.T) {
		w := doJSON(t, server, http.MethodPatch, "/api/users/"+user.ID+"/deactivate", nil)
		require.Equal(t, http.StatusOK, w.Code)

		// Повторная деактивация — конфликт состояния.
		w = doJSON(t, server, http.MethodPatch, "/api/users/"+user.ID+"/deactivate", nil)
		require.Equal(t, http.StatusConflict, w.Code)

		// Полная перезапись профиля возвращает пользователя в строй.
		w = doJSON(t, server, http.MethodPut, "/api/users/"+user.ID, updateUserRequest{
			FirstName: "John",
			LastName:  "Doe",
			Active:    true,
		})
		require.Equal(t, http.StatusOK, w.Code)

		var got userResponse
		decode(t, w, &got)
		require.True(t, got.Active)
	})

	t.Run("delete", func(t *testing.T) {
		w := doJSON(t, server, http.MethodDelete, "/api/users/"+user.ID, nil)
		require.Equal(t, http.StatusNoContent, w.Code)

		w = doJSON(t, server, http.MethodDelete, "/api/users/"+user.ID, nil)
		require.Equal(t, http.StatusNotFound, w.Code)
	})
}

func TestProductEndpoints(t *testing.T) {
	server := newTestServer(t)

	w := doJSON(t, server, http.MethodPost, "/api/products", createProductRequest{
		Name:          "Keyboard",
		PriceMinor:    450000,
		StockQuantity: 2,
		Category:      "peripherals",
	})
	require.Equal(t, http.StatusCreated, w.Code)

	var product productResponse
	decode(t, w, &product)

	t.Run("negative price is 400", func(t *testing.T) {
		w := doJSON(t, server, http.MethodPost, "/api/products", createProductRequest{
			Name:       "Bad",
			PriceMinor: -1,
		})
		require.Equal(t, http.StatusBadRequest, w.Code)
	})

	t.Run("stock update", func(t *testing.T) {
		w := doJSON(t, server, http.MethodPatch, "/api/products/"+product.ID+"/stock", updateStockRequest{StockQuantity: 0})
		require.Equal(t, http.StatusOK, w.Code)

		var got productResponse
		decode(t, w, &got)
		require.False(t, got.Available)

		w = doJSON(t, server, http.MethodPatch, "/api/products/"+product.ID+"/stock", updateStockRequest{StockQuantity: -5})
		require.Equal(t, http.StatusBadRequest, w.Code)
	})

	t.Run("price range validation", func(t *testing.T) {
		w := doJSON(t, server, http.MethodGet, "/api/products/price-range?min=500&max=100", nil)
		require.Equal(t, http.StatusBadRequest, w.Code)

		w = doJSON(t, server, http.MethodGet, "/api/products/price-range?min=0&max=1000000", nil)
		require.Equal(t, http.StatusOK, w.Code)

		var list []productResponse
		decode(t, w, &list)
		require.Len(t, list, 1)
	})

	t.Run("low stock threshold must be integer", func(t *testing.T) {
		w := doJSON(t, server, http.MethodGet, "/api/products/low-stock?threshold=abc", nil)
		require.Equal(t, http.StatusBadRequest, w.Code)
	})

	t.Run("categories", func(t *testing.T) {
		w := doJSON(t, server, http.MethodGet, "/api/products/categories", nil)
		require.Equal(t, http.StatusOK, w.Code)

		var categories []string
		decode(t, w, &categories)
		require.Equal(t, []string{"peripherals"}, categories)
	})
}

func TestOrderEndpoints(t *testing.T) {
	server := newTestServer(t)
	user := createTestUser(t, server)

	order := createTestOrder(t, server, user.ID, "ORD-1001", 15000)
	require.Equal(t, "pending", order.Status)

	t.Run("zero amount is 400", func(t *testing.T) {
		w := doJSON(t, server, http.MethodPost, "/api/orders", createOrderRequest{
			UserID:      user.ID,
			OrderNumber: "ORD-1002",
			AmountMinor: 0,
		})
		require.Equal(t, http.StatusBadRequest, w.Code)
	})

	t.Run("duplicate number is 409", func(t *testing.T) {
		w := doJSON(t, server, http.MethodPost, "/api/orders", createOrderRequest{
			UserID:      user.ID,
			OrderNumber: "ORD-1001",
			AmountMinor: 100,
		})
		require.Equal(t, http.StatusConflict, w.Code)
	})

	t.Run("get by number", func(t *testing.T) {
		w := doJSON(t, server, http.MethodGet, "/api/orders/number/ORD-1001", nil)
		require.Equal(t, http.StatusOK, w.Code)
	})

	t.Run("unknown status is 400", func(t *testing.T) {
		w := doJSON(t, server, http.MethodGet, "/api/orders/status/unknown", nil)
		require.Equal(t, http.StatusBadRequest, w.Code)
	})

	t.Run("status update and guarded cancel", func(t *testing.T) {
		w := doJSON(t, server, http.MethodPatch, "/api/orders/"+order.ID+"/status", updateOrderStatusRequest{Status: "shipped"})
		require.Equal(t, http.StatusOK, w.Code)

		var got orderResponse
		decode(t, w, &got)
		require.Equal(t, "shipped", got.Status)

		// Отмена из shipped отклоняется guard-ом жизненного цикла.
		w = doJSON(t, server, http.MethodPatch, "/api/orders/"+order.ID+"/cancel", nil)
		require.Equal(t, http.StatusConflict, w.Code)

		var body map[string]string
		decode(t, w, &body)
		require.Contains(t, body["error"], "shipped")

		w = doJSON(t, server, http.MethodPatch, "/api/orders/"+order.ID+"/status", updateOrderStatusRequest{Status: "confirmed"})
		require.Equal(t, http.StatusOK, w.Code)

		w = doJSON(t, server, http.MethodPatch, "/api/orders/"+order.ID+"/cancel", nil)
		require.Equal(t, http.StatusOK, w.Code)
		decode(t, w, &got)
		require.Equal(t, "cancelled", got.Status)
	})

	t.Run("timeline", func(t *testing.T) {
		w := doJSON(t, server, http.MethodGet, "/api/orders/"+order.ID+"/timeline", nil)
		require.Equal(t, http.StatusOK, w.Code)

		var events []timelineEventResponse
		decode(t, w, &events)
		require.NotEmpty(t, events)
	})

	t.Run("recent orders", func(t *testing.T) {
		createTestOrder(t, server, user.ID, "ORD-2001", 100)
		createTestOrder(t, server, user.ID, "ORD-2002", 200)

		w := doJSON(t, server, http.MethodGet, "/api/orders/user/"+user.ID+"/recent?limit=2", nil)
		require.Equal(t, http.StatusOK, w.Code)

		var list []orderResponse
		decode(t, w, &list)
		require.Len(t, list, 2)

		w = doJSON(t, server, http.MethodGet, "/api/orders/user/"+user.ID+"/recent?limit=0", nil)
		require.Equal(t, http.StatusBadRequest, w.Code)
	})

	t.Run("count by user and status", func(t *testing.T) {
		w := doJSON(t, server, http.MethodGet, "/api/orders/user/"+user.ID+"/count?status=pending", nil)
		require.Equal(t, http.StatusOK, w.Code)

		var body map[string]int64
		decode(t, w, &body)
		require.Equal(t, int64(2), body["count"])
	})

	t.Run("date range requires parseable bounds", func(t *testing.T) {
		w := doJSON(t, server, http.MethodGet, "/api/orders/date-range?start=garbage&end=2025-03-02", nil)
		require.Equal(t, http.StatusBadRequest, w.Code)

		w = doJSON(t, server, http.MethodGet, "/api/orders/date-range?start=2025-03-01&end=2025-03-02", nil)
		require.Equal(t, http.StatusOK, w.Code)
	})

	t.Run("inverted revenue range is 400", func(t *testing.T) {
		w := doJSON(t, server, http.MethodGet, "/api/orders/revenue?start=2025-03-02&end=2025-03-01", nil)
		require.Equal(t, http.StatusBadRequest, w.Code)
	})

	t.Run("minimum amount filter", func(t *testing.T) {
		w := doJSON(t, server, http.MethodGet, "/api/orders/min-amount?amount=150", nil)
		require.Equal(t, http.StatusOK, w.Code)

		var list []orderResponse
		decode(t, w, &list)
		for _, item := range list {
			require.GreaterOrEqual(t, item.AmountMinor, int64(150))
		}

		w = doJSON(t, server, http.MethodGet, "/api/orders/min-amount?amount=abc", nil)
		require.Equal(t, http.StatusBadRequest, w.Code)
	})
}

func TestRevenueEndpoint(t *testing.T) {
	server := newTestServer(t)
	user := createTestUser(t, server)

	first := createTestOrder(t, server, user.ID, "ORD-1", 100)
	second := createTestOrder(t, server, user.ID, "ORD-2", 50)
	createTestOrder(t, server, user.ID, "ORD-3", 999)

	for _, id := range []string{first.ID, second.ID} {
		w := doJSON(t, server, http.MethodPatch, "/api/orders/"+id+"/status", updateOrderStatusRequest{Status: "delivered"})
		require.Equal(t, http.StatusOK, w.Code)
	}

	w := doJSON(t, server, http.MethodGet, "/api/orders/revenue?start=2000-01-01&end=2100-01-01", nil)
	require.Equal(t, http.StatusOK, w.Code)

	var body struct {
		RevenueMinor int64 `json:"revenue_minor"`
	}
	decode(t, w, &body)
	require.Equal(t, int64(150), body.RevenueMinor)
}
