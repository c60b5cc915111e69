package handler

import (
	"bytes"
	"encoding/json"
	"net/http"
	"net/http/cookiejar"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"

	"github.com/mmeshcher/lanchonete/internal/auth"
	"github.com/mmeshcher/lanchonete/internal/catalog"
	"github.com/mmeshcher/lanchonete/internal/ledger"
	"github.com/mmeshcher/lanchonete/internal/middleware"
	"github.com/mmeshcher/lanchonete/internal/repository"
	"github.com/mmeshcher/lanchonete/internal/service"
)

type apiClient struct {
	t       *testing.T
	baseURL string
	http    *http.Client
}

func newAPI(t *testing.T) *apiClient {
	t.Helper()

	svc := service.NewService(
		auth.NewLocalProvider(repository.NewMemoryRepository()),
		catalog.Default(),
		ledger.New(),
	)
	h := NewHandler(svc, zap.NewNop(), middleware.NewAuthMiddleware("e2e-secret", time.Hour))

	ts := httptest.NewServer(h.SetupRouter())
	t.Cleanup(ts.Close)

	jar, err := cookiejar.New(nil)
	require.NoError(t, err)

	return &apiClient{
		t:       t,
		baseURL: ts.URL,
		http:    &http.Client{Jar: jar},
	}
}

func (c *apiClient) do(method, path string, body any, out any) int {
	c.t.Helper()

	var buf bytes.Buffer
	if body != nil {
		require.NoError(c.t, json.NewEncoder(&buf).Encode(body))
	}

	req, err := http.NewRequest(method, c.baseURL+path, &buf)
	require.NoError(c.t, err)
	req.Header.Set("Content-Type", "application/json")

	res, err := c.http.Do(req)
	require.NoError(c.t, err)
	defer res.Body.Close()

	if out != nil && res.StatusCode < 300 && res.StatusCode != http.StatusNoContent {
		require.NoError(c.t, json.NewDecoder(res.Body).Decode(out))
	}
	return res.StatusCode
}

func TestCheckoutFlow_EndToEnd(t *testing.T) {
	api := newAPI(t)
	creds := map[string]string{"email": "ana@example.com", "password": "segredo"}

	require.Equal(t, http.StatusOK, api.do(http.MethodPost, "/api/user/register", creds, nil))
	require.Equal(t, http.StatusConflict, api.do(http.MethodPost, "/api/user/register", creds, nil))

	var menu []productResponse
	require.Equal(t, http.StatusOK, api.do(http.MethodGet, "/api/menu", nil, &menu))
	require.Len(t, menu, 3)

	var c cartResponse
	require.Equal(t, http.StatusOK, api.do(http.MethodPost, "/api/cart/items", map[string]string{"product_id": "1"}, &c))
	require.Equal(t, http.StatusOK, api.do(http.MethodPost, "/api/cart/items", map[string]string{"product_id": "2"}, &c))
	assert.Equal(t, 12.0, c.Total)
	assert.Len(t, c.Items, 2)

	require.Equal(t, http.StatusNotFound, api.do(http.MethodPost, "/api/cart/items", map[string]string{"product_id": "99"}, nil))

	require.Equal(t, http.StatusOK, api.do(http.MethodDelete, "/api/cart/items/0", nil, &c))
	assert.Equal(t, 7.0, c.Total)
	require.Len(t, c.Items, 1)
	assert.Equal(t, "Batatinha Frita", c.Items[0].Name)

	require.Equal(t, http.StatusNotFound, api.do(http.MethodDelete, "/api/cart/items/5", nil, nil))

	require.Equal(t, http.StatusConflict, api.do(http.MethodPost, "/api/checkout/pay", map[string]string{"payment_method": "PIX"}, nil))

	require.Equal(t, http.StatusOK, api.do(http.MethodPost, "/api/checkout/review", nil, &c))
	assert.Equal(t, "REVIEWING", c.State)

	var opts paymentOptionsResponse
	require.Equal(t, http.StatusOK, api.do(http.MethodPost, "/api/checkout/payment", nil, &opts))
	assert.Equal(t, "PAYING_SELECTING", opts.State)
	assert.Equal(t, []string{"Credit Card", "PIX", "Cash"}, opts.Methods)

	var order orderResponse
	require.Equal(t, http.StatusCreated, api.do(http.MethodPost, "/api/checkout/pay", map[string]string{"payment_method": "PIX"}, &order))
	assert.Equal(t, 7.0, order.Total)
	assert.Equal(t, "PIX", order.PaymentMethod)
	require.Len(t, order.Items, 1)

	require.Equal(t, http.StatusOK, api.do(http.MethodGet, "/api/cart", nil, &c))
	assert.Empty(t, c.Items)
	assert.Equal(t, "BROWSING", c.State)

	var orders []orderResponse
	require.Equal(t, http.StatusOK, api.do(http.MethodGet, "/api/orders", nil, &orders))
	require.Len(t, orders, 1)
	assert.Equal(t, order.ID, orders[0].ID)
}

func TestEmptyCartCheckout_EndToEnd(t *testing.T) {
	api := newAPI(t)
	creds := map[string]string{"email": "bia@example.com", "password": "segredo"}

	require.Equal(t, http.StatusOK, api.do(http.MethodPost, "/api/user/register", creds, nil))
	require.Equal(t, http.StatusOK, api.do(http.MethodPost, "/api/checkout/review", nil, nil))
	require.Equal(t, http.StatusUnprocessableEntity, api.do(http.MethodPost, "/api/checkout/payment", nil, nil))

	var c cartResponse
	require.Equal(t, http.StatusOK, api.do(http.MethodGet, "/api/cart", nil, &c))
	assert.Empty(t, c.Items)
	assert.Equal(t, "REVIEWING", c.State)

	require.Equal(t, http.StatusNoContent, api.do(http.MethodGet, "/api/orders", nil, nil))
}

func TestLogoutResetsCart_EndToEnd(t *testing.T) {
	api := newAPI(t)
	creds := map[string]string{"email": "caio@example.com", "password": "segredo"}

	require.Equal(t, http.StatusOK, api.do(http.MethodPost, "/api/user/register", creds, nil))
	require.Equal(t, http.StatusOK, api.do(http.MethodPost, "/api/cart/items", map[string]string{"product_id": "3"}, nil))

	require.Equal(t, http.StatusOK, api.do(http.MethodPost, "/api/user/logout", nil, nil))
	require.Equal(t, http.StatusUnauthorized, api.do(http.MethodGet, "/api/cart", nil, nil))

	require.Equal(t, http.StatusUnauthorized, api.do(http.MethodPost, "/api/user/login",
		map[string]string{"email": "caio@example.com", "password": "errado"}, nil))
	require.Equal(t, http.StatusOK, api.do(http.MethodPost, "/api/user/login", creds, nil))

	var c cartResponse
	require.Equal(t, http.StatusOK, api.do(http.MethodGet, "/api/cart", nil, &c))
	assert.Empty(t, c.Items)
}
