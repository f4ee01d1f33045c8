package routes

import (
	"bytes"
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/golang-jwt/jwt/v5"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"veggie-shop/config"
	"veggie-shop/middleware"
	"veggie-shop/models"
	"veggie-shop/storage"
	"veggie-shop/utils"
)

func init() {
	gin.SetMode(gin.TestMode)
}

type envelope struct {
	Success bool              `json:"success"`
	Message string            `json:"message"`
	Data    json.RawMessage   `json:"data"`
	Fields  map[string]string `json:"fields"`
}

type testServer struct {
	t      *testing.T
	router *gin.Engine
	svc    *Services
	store  *storage.MemoryStorage
}

func testConfig() *config.Config {
	return &config.Config{
		AppEnv:             "test",
		SessionSecret:      "session-secret",
		SessionTTL:         time.Hour,
		AuthProviderURL:    "http://idp.test/authorize",
		AuthProviderSecret: "provider-secret",
		AuthLogoutURL:      "http://idp.test/logout",
		AdminEmails:        []string{"admin@example.com"},
		LoginRateLimit:     100,
		MaxUploadSize:      5 << 20,
	}
}

func newTestServer(t *testing.T) *testServer {
	cfg := testConfig()
	store := storage.NewMemoryStorage()
	svc := NewServices(cfg, store, nil, nil, nil, nil)
	return &testServer{t: t, router: NewRouter(cfg, svc), svc: svc, store: store}
}

func (s *testServer) login(id, email, role string) string {
	user, err := s.store.UpsertUser(context.Background(), models.User{ID: id, Email: email, Role: role})
	require.NoError(s.t, err)
	token, err := s.svc.Auth.IssueSession(user)
	require.NoError(s.t, err)
	return token
}

func (s *testServer) do(method, path, token string, body interface{}) (*httptest.ResponseRecorder, envelope) {
	var reader *bytes.Reader
	if body != nil {
		raw, err := json.Marshal(body)
		require.NoError(s.t, err)
		reader = bytes.NewReader(raw)
	} else {
		reader = bytes.NewReader(nil)
	}

	req := httptest.NewRequest(method, path, reader)
	req.Header.Set("Content-Type", "application/json")
	if token != "" {
		req.Header.Set("Authorization", "Bearer "+token)
	}
	w := httptest.NewRecorder()
	s.router.ServeHTTP(w, req)

	var env envelope
	if strings.HasPrefix(w.Header().Get("Content-Type"), "application/json") {
		require.NoError(s.t, json.Unmarshal(w.Body.Bytes(), &env))
	}
	return w, env
}

func decode[T any](t *testing.T, raw json.RawMessage) T {
	var v T
	require.NoError(t, json.Unmarshal(raw, &v))
	return v
}

func TestProtectedRoutesRequireSession(t *testing.T) {
	s := newTestServer(t)

	for _, tc := range []struct{ method, path string }{
		{http.MethodGet, "/api/cart"},
		{http.MethodPost, "/api/cart"},
		{http.MethodGet, "/api/cart/summary"},
		{http.MethodPost, "/api/orders"},
		{http.MethodGet, "/api/orders"},
		{http.MethodGet, "/api/wishlist"},
		{http.MethodGet, "/api/auth/user"},
		{http.MethodGet, "/api/admin/stats"},
		{http.MethodPost, "/api/products"},
	} {
		w, env := s.do(tc.method, tc.path, "", nil)
		assert.Equal(t, http.StatusUnauthorized, w.Code, "%s %s", tc.method, tc.path)
		assert.False(t, env.Success)
		assert.Equal(t, "Unauthorized", env.Message)
	}
}

func TestAdminRoutesRejectCustomers(t *testing.T) {
	s := newTestServer(t)
	token := s.login("u1", "u1@example.com", models.RoleCustomer)

	for _, tc := range []struct{ method, path string }{
		{http.MethodGet, "/api/admin/stats"},
		{http.MethodGet, "/api/orders/all"},
		{http.MethodPost, "/api/products"},
		{http.MethodPut, "/api/products/1"},
		{http.MethodDelete, "/api/products/1"},
		{http.MethodPut, "/api/orders/x/status"},
	} {
		w, _ := s.do(tc.method, tc.path, token, map[string]string{})
		assert.Equal(t, http.StatusForbidden, w.Code, "%s %s", tc.method, tc.path)
	}
}

func TestCatalog(t *testing.T) {
	s := newTestServer(t)

	w, env := s.do(http.MethodGet, "/api/products", "", nil)
	require.Equal(t, http.StatusOK, w.Code)
	products := decode[[]models.Product](t, env.Data)
	require.Len(t, products, 6)
	assert.Equal(t, "1", products[0].ID)

	w, env = s.do(http.MethodGet, "/api/products?category=seasonal", "", nil)
	require.Equal(t, http.StatusOK, w.Code)
	for _, p := range decode[[]models.Product](t, env.Data) {
		assert.Equal(t, "seasonal", p.Category)
	}

	w, env = s.do(http.MethodGet, "/api/products/1", "", nil)
	require.Equal(t, http.StatusOK, w.Code)
	assert.Contains(t, string(env.Data), `"price":"45"`)

	w, _ = s.do(http.MethodGet, "/api/products/missing", "", nil)
	assert.Equal(t, http.StatusNotFound, w.Code)
}

func TestCheckoutFlow(t *testing.T) {
	s := newTestServer(t)
	token := s.login("u1", "u1@example.com", models.RoleCustomer)

	w, env := s.do(http.MethodPost, "/api/cart", token, map[string]interface{}{"productId": "1", "quantity": 1, "cutStyle": "Chopped"})
	require.Equal(t, http.StatusCreated, w.Code, w.Body.String())
	first := decode[models.CartItem](t, env.Data)

	w, env = s.do(http.MethodPost, "/api/cart", token, map[string]interface{}{"productId": "1", "quantity": 1, "cutStyle": "Chopped"})
	require.Equal(t, http.StatusCreated, w.Code)
	merged := decode[models.CartItem](t, env.Data)
	assert.Equal(t, first.ID, merged.ID)
	assert.Equal(t, 2, merged.Quantity)

	w, _ = s.do(http.MethodPost, "/api/cart", token, map[string]interface{}{"productId": "2", "quantity": 1})
	require.Equal(t, http.StatusCreated, w.Code)

	w, env = s.do(http.MethodGet, "/api/cart/summary", token, nil)
	require.Equal(t, http.StatusOK, w.Code)
	summary := decode[models.CartSummary](t, env.Data)
	assert.Len(t, summary.Items, 2)
	assert.Equal(t, "122", summary.Totals.Subtotal.String())
	assert.Equal(t, "22", summary.Totals.Tax.String())
	assert.Equal(t, "50", summary.Totals.DeliveryFee.String())
	assert.Equal(t, "194", summary.Totals.Total.String())

	w, env = s.do(http.MethodPost, "/api/orders", token, map[string]interface{}{
		"deliveryAddress": map[string]string{
			"firstName": "Asha", "lastName": "Rao", "street": "12 MG Road",
			"city": "Bengaluru", "state": "Karnataka", "pinCode": "560001",
		},
		"deliverySlot":  "Today 2:00 PM - 6:00 PM",
		"paymentMethod": "cod",
	})
	require.Equal(t, http.StatusCreated, w.Code, w.Body.String())
	order := decode[models.Order](t, env.Data)
	assert.Len(t, order.OrderItems, 2)
	assert.Equal(t, "194", order.TotalAmount.String())
	assert.Equal(t, models.OrderStatusPending, order.Status)

	w, env = s.do(http.MethodGet, "/api/cart", token, nil)
	require.Equal(t, http.StatusOK, w.Code)
	assert.Empty(t, decode[[]models.CartItem](t, env.Data))

	w, env = s.do(http.MethodGet, "/api/orders/"+order.ID, token, nil)
	require.Equal(t, http.StatusOK, w.Code)
	assert.Equal(t, order.ID, decode[models.Order](t, env.Data).ID)

	other := s.login("u2", "u2@example.com", models.RoleCustomer)
	w, _ = s.do(http.MethodGet, "/api/orders/"+order.ID, other, nil)
	assert.Equal(t, http.StatusNotFound, w.Code)

	admin := s.login("a1", "admin@example.com", models.RoleAdmin)
	w, env = s.do(http.MethodPut, "/api/orders/"+order.ID+"/status", admin, map[string]string{"status": "delivered"})
	require.Equal(t, http.StatusOK, w.Code)
	assert.Equal(t, models.OrderStatusDelivered, decode[models.Order](t, env.Data).Status)

	w, env = s.do(http.MethodGet, "/api/admin/stats", admin, nil)
	require.Equal(t, http.StatusOK, w.Code)
	stats := decode[models.DashboardStats](t, env.Data)
	assert.Equal(t, 1, stats.TotalOrders)
	assert.Equal(t, "194", stats.TotalRevenue.String())
	assert.Equal(t, 1, stats.TotalCustomers)
}

func TestPlaceOrderValidation(t *testing.T) {
	s := newTestServer(t)
	token := s.login("u1", "u1@example.com", models.RoleCustomer)

	w, env := s.do(http.MethodPost, "/api/orders", token, map[string]interface{}{})
	assert.Equal(t, http.StatusBadRequest, w.Code)
	assert.Contains(t, env.Fields, "paymentMethod")

	w, env = s.do(http.MethodPost, "/api/orders", token, map[string]interface{}{
		"deliveryAddress": map[string]string{
			"firstName": "Asha", "lastName": "Rao", "street": "12 MG Road",
			"city": "Bengaluru", "state": "Karnataka", "pinCode": "5600",
		},
		"paymentMethod": "cod",
	})
	assert.Equal(t, http.StatusBadRequest, w.Code)
	assert.Contains(t, env.Fields, "deliveryAddress.pinCode")

	w, _ = s.do(http.MethodPost, "/api/orders", token, map[string]interface{}{
		"deliveryAddress": map[string]string{
			"firstName": "Asha", "lastName": "Rao", "street": "12 MG Road",
			"city": "Bengaluru", "state": "Karnataka", "pinCode": "560001",
		},
		"paymentMethod": "cod",
	})
	assert.Equal(t, http.StatusBadRequest, w.Code, "empty cart")
}

func TestCartValidation(t *testing.T) {
	s := newTestServer(t)
	token := s.login("u1", "u1@example.com", models.RoleCustomer)

	w, env := s.do(http.MethodPost, "/api/cart", token, map[string]interface{}{"productId": "1", "quantity": 0})
	assert.Equal(t, http.StatusBadRequest, w.Code)
	assert.Contains(t, env.Fields, "quantity")

	w, _ = s.do(http.MethodPost, "/api/cart", token, map[string]interface{}{"productId": "nope", "quantity": 1})
	assert.Equal(t, http.StatusNotFound, w.Code)

	w, _ = s.do(http.MethodPut, "/api/cart/nope", token, map[string]interface{}{"quantity": 2})
	assert.Equal(t, http.StatusNotFound, w.Code)
}

func TestWishlist(t *testing.T) {
	s := newTestServer(t)
	token := s.login("u1", "u1@example.com", models.RoleCustomer)

	w, _ := s.do(http.MethodPost, "/api/wishlist", token, map[string]string{"productId": "3"})
	require.Equal(t, http.StatusCreated, w.Code)

	w, env := s.do(http.MethodGet, "/api/wishlist", token, nil)
	require.Equal(t, http.StatusOK, w.Code)
	items := decode[[]models.Wishlist](t, env.Data)
	require.Len(t, items, 1)
	assert.Equal(t, "3", items[0].ProductID)

	w, _ = s.do(http.MethodDelete, "/api/wishlist/3", token, nil)
	assert.Equal(t, http.StatusOK, w.Code)
	w, _ = s.do(http.MethodDelete, "/api/wishlist/3", token, nil)
	assert.Equal(t, http.StatusNotFound, w.Code)
}

func TestAdminProductLifecycle(t *testing.T) {
	s := newTestServer(t)
	admin := s.login("a1", "admin@example.com", models.RoleAdmin)

	w, env := s.do(http.MethodPost, "/api/products", admin, map[string]interface{}{
		"name": "Curry Leaves", "category": "herbs", "price": "15", "stock": 20, "cutStyles": []string{"Sprig"},
	})
	require.Equal(t, http.StatusCreated, w.Code, w.Body.String())
	created := decode[models.Product](t, env.Data)

	w, env = s.do(http.MethodPut, "/api/products/"+created.ID, admin, map[string]interface{}{"price": "18.5"})
	require.Equal(t, http.StatusOK, w.Code)
	assert.Equal(t, "18.5", decode[models.Product](t, env.Data).Price.String())

	w, _ = s.do(http.MethodPost, "/api/products", admin, map[string]interface{}{"name": "Bad", "category": "herbs", "price": "0"})
	assert.Equal(t, http.StatusBadRequest, w.Code)

	w, _ = s.do(http.MethodDelete, "/api/products/"+created.ID, admin, nil)
	require.Equal(t, http.StatusOK, w.Code)
	w, _ = s.do(http.MethodGet, "/api/products/"+created.ID, "", nil)
	assert.Equal(t, http.StatusNotFound, w.Code)
}

func TestLoginFlow(t *testing.T) {
	s := newTestServer(t)

	w, _ := s.do(http.MethodGet, "/api/login", "", nil)
	require.Equal(t, http.StatusFound, w.Code)
	assert.Contains(t, w.Header().Get("Location"), "http://idp.test/authorize?redirect_uri=")
	assert.Contains(t, w.Header().Get("Location"), "%2Fapi%2Fcallback")

	claims := utils.ProviderClaims{
		Email:     "admin@example.com",
		FirstName: "Root",
		RegisteredClaims: jwt.RegisteredClaims{
			Subject:   "idp-42",
			ExpiresAt: jwt.NewNumericDate(time.Now().Add(time.Minute)),
		},
	}
	assertion, err := jwt.NewWithClaims(jwt.SigningMethodHS256, claims).SignedString([]byte("provider-secret"))
	require.NoError(t, err)

	w, _ = s.do(http.MethodGet, "/api/callback?token="+assertion, "", nil)
	require.Equal(t, http.StatusFound, w.Code)
	assert.Equal(t, "/", w.Header().Get("Location"))

	var session *http.Cookie
	for _, c := range w.Result().Cookies() {
		if c.Name == middleware.SessionCookie {
			session = c
		}
	}
	require.NotNil(t, session)
	assert.True(t, session.HttpOnly)

	req := httptest.NewRequest(http.MethodGet, "/api/auth/user", nil)
	req.AddCookie(session)
	rec := httptest.NewRecorder()
	s.router.ServeHTTP(rec, req)
	require.Equal(t, http.StatusOK, rec.Code)
	var env envelope
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &env))
	user := decode[models.User](t, env.Data)
	assert.Equal(t, "idp-42", user.ID)
	assert.Equal(t, models.RoleAdmin, user.Role)

	w, _ = s.do(http.MethodGet, "/api/callback?token=forged", "", nil)
	assert.Equal(t, http.StatusUnauthorized, w.Code)

	w, _ = s.do(http.MethodGet, "/api/logout", "", nil)
	require.Equal(t, http.StatusFound, w.Code)
	assert.Equal(t, "http://idp.test/logout", w.Header().Get("Location"))
}

func TestOpsEndpoints(t *testing.T) {
	s := newTestServer(t)

	w, _ := s.do(http.MethodGet, "/health", "", nil)
	assert.Equal(t, http.StatusOK, w.Code)

	req := httptest.NewRequest(http.MethodGet, "/metrics", nil)
	rec := httptest.NewRecorder()
	s.router.ServeHTTP(rec, req)
	assert.Equal(t, http.StatusOK, rec.Code)
	assert.Contains(t, rec.Body.String(), "veggie_shop_http_requests_total")
}
