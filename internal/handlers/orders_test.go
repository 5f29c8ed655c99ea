package handlers

import (
	"bytes"
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/cuddles47/electroshop/internal/models"
)

func TestCreateOrderValidatesRequiredFields(t *testing.T) {
	env := newTestEnv(t)
	p := env.seedProduct(t, "Laptop", 120000, 5)

	cases := map[string]func(body map[string]any){
		"missing name":       func(b map[string]any) { delete(b, "name") },
		"missing lastname":   func(b map[string]any) { delete(b, "lastname") },
		"missing phone":      func(b map[string]any) { delete(b, "phone") },
		"missing email":      func(b map[string]any) { delete(b, "email") },
		"missing adress":     func(b map[string]any) { delete(b, "adress") },
		"missing postalCode": func(b map[string]any) { delete(b, "postalCode") },
		"missing city":       func(b map[string]any) { delete(b, "city") },
		"missing country":    func(b map[string]any) { delete(b, "country") },
		"missing total":      func(b map[string]any) { delete(b, "total") },
		"empty products":     func(b map[string]any) { b["products"] = []any{} },
	}
	for name, mutate := range cases {
		t.Run(name, func(t *testing.T) {
			body := checkoutBody(120000, item(p.ID, 1))
			mutate(body)
			rec := env.do(t, http.MethodPost, "/orders", body, nil)
			assert.Equal(t, http.StatusBadRequest, rec.Code)
		})
	}

	t.Run("zero quantity", func(t *testing.T) {
		rec := env.do(t, http.MethodPost, "/orders", checkoutBody(120000, item(p.ID, 0)), nil)
		assert.Equal(t, http.StatusBadRequest, rec.Code)
	})

	// Nothing may be persisted by rejected submissions.
	orders, err := env.store.GetAllOrders(context.Background())
	require.NoError(t, err)
	assert.Empty(t, orders)
}

func TestGuestCheckoutCreatesOrderGraph(t *testing.T) {
	env := newTestEnv(t)
	laptop := env.seedProduct(t, "Laptop", 120000, 5)
	mouse := env.seedProduct(t, "Mouse", 2500, 10)

	rec := env.do(t, http.MethodPost, "/orders",
		checkoutBody(120000+2*2500, item(laptop.ID, 1), item(mouse.ID, 2)), nil)
	require.Equal(t, http.StatusOK, rec.Code, rec.Body.String())

	order := decodeBody[models.Order](t, rec)
	assert.Nil(t, order.UserID, "guest checkout must leave the order unowned")
	assert.Equal(t, models.StatusPending, order.Status)
	assert.Equal(t, "card", order.PaymentMethod, "payment method defaults to card")
	require.Len(t, order.Products, 2)
	require.NotNil(t, order.Products[0].Product)

	stocked, err := env.store.GetProductByID(mouse.ID)
	require.NoError(t, err)
	assert.Equal(t, 8, stocked.InStock)
}

func TestCreateOrderOwnedByLoggedInUser(t *testing.T) {
	env := newTestEnv(t)
	p := env.seedProduct(t, "Desk", 30000, 2)
	cookies, userID := env.login(t, "owner@example.com", models.RoleUser)

	rec := env.do(t, http.MethodPost, "/orders", checkoutBody(30000, item(p.ID, 1)), cookies)
	require.Equal(t, http.StatusOK, rec.Code, rec.Body.String())

	order := decodeBody[models.Order](t, rec)
	require.NotNil(t, order.UserID)
	assert.Equal(t, userID, *order.UserID)
}

func TestCreateOrderInsufficientStock(t *testing.T) {
	env := newTestEnv(t)
	p := env.seedProduct(t, "GPU", 80000, 3)

	rec := env.do(t, http.MethodPost, "/orders", checkoutBody(5*80000, item(p.ID, 5)), nil)
	assert.Equal(t, http.StatusConflict, rec.Code)

	got, err := env.store.GetProductByID(p.ID)
	require.NoError(t, err)
	assert.Equal(t, 3, got.InStock)
}

func TestCreateOrderUnknownProductIs404(t *testing.T) {
	env := newTestEnv(t)
	rec := env.do(t, http.MethodPost, "/orders", checkoutBody(100, item("ghost", 1)), nil)
	assert.Equal(t, http.StatusNotFound, rec.Code)
}

func TestCreateOrderRejectsTamperedTotal(t *testing.T) {
	env := newTestEnv(t)
	p := env.seedProduct(t, "Phone", 90000, 4)

	rec := env.do(t, http.MethodPost, "/orders", checkoutBody(1, item(p.ID, 1)), nil)
	assert.Equal(t, http.StatusBadRequest, rec.Code)
}

func TestCreateOrderIdempotentReplay(t *testing.T) {
	env := newTestEnv(t)
	p := env.seedProduct(t, "Tablet", 40000, 10)

	body := checkoutBody(40000, item(p.ID, 1))

	first := httptestPost(t, env, body, "replay-key")
	require.Equal(t, http.StatusOK, first.Code, first.Body.String())
	firstOrder := decodeBody[models.Order](t, first)

	second := httptestPost(t, env, body, "replay-key")
	require.Equal(t, http.StatusOK, second.Code, second.Body.String())
	secondOrder := decodeBody[models.Order](t, second)

	assert.Equal(t, firstOrder.ID, secondOrder.ID)

	orders, err := env.store.GetAllOrders(context.Background())
	require.NoError(t, err)
	assert.Len(t, orders, 1)

	got, err := env.store.GetProductByID(p.ID)
	require.NoError(t, err)
	assert.Equal(t, 9, got.InStock, "replay must not take stock twice")
}

func TestGetOrderAccessControl(t *testing.T) {
	env := newTestEnv(t)
	p := env.seedProduct(t, "Camera", 50000, 8)

	ownerCookies, _ := env.login(t, "owner@example.com", models.RoleUser)
	rec := env.do(t, http.MethodPost, "/orders", checkoutBody(50000, item(p.ID, 1)), ownerCookies)
	require.Equal(t, http.StatusOK, rec.Code)
	order := decodeBody[models.Order](t, rec)

	t.Run("unauthenticated", func(t *testing.T) {
		rec := env.do(t, http.MethodGet, "/orders/"+order.ID, nil, nil)
		assert.Equal(t, http.StatusUnauthorized, rec.Code)
	})
	t.Run("owner", func(t *testing.T) {
		rec := env.do(t, http.MethodGet, "/orders/"+order.ID, nil, ownerCookies)
		assert.Equal(t, http.StatusOK, rec.Code)
	})
	t.Run("other user", func(t *testing.T) {
		otherCookies, _ := env.login(t, "stranger@example.com", models.RoleUser)
		rec := env.do(t, http.MethodGet, "/orders/"+order.ID, nil, otherCookies)
		assert.Equal(t, http.StatusForbidden, rec.Code)
	})
	t.Run("admin", func(t *testing.T) {
		adminCookies, _ := env.login(t, "admin@example.com", models.RoleAdmin)
		rec := env.do(t, http.MethodGet, "/orders/"+order.ID, nil, adminCookies)
		assert.Equal(t, http.StatusOK, rec.Code)
	})
	t.Run("missing order", func(t *testing.T) {
		rec := env.do(t, http.MethodGet, "/orders/does-not-exist", nil, ownerCookies)
		assert.Equal(t, http.StatusNotFound, rec.Code)
	})
}

func TestListOrdersScoping(t *testing.T) {
	env := newTestEnv(t)
	p := env.seedProduct(t, "Printer", 20000, 20)

	aliceCookies, _ := env.login(t, "alice@example.com", models.RoleUser)
	bobCookies, _ := env.login(t, "bob@example.com", models.RoleUser)

	for _, cookies := range [][]*http.Cookie{aliceCookies, bobCookies, aliceCookies} {
		rec := env.do(t, http.MethodPost, "/orders", checkoutBody(20000, item(p.ID, 1)), cookies)
		require.Equal(t, http.StatusOK, rec.Code)
	}

	t.Run("unauthenticated", func(t *testing.T) {
		rec := env.do(t, http.MethodGet, "/orders", nil, nil)
		assert.Equal(t, http.StatusUnauthorized, rec.Code)
	})
	t.Run("user sees own", func(t *testing.T) {
		rec := env.do(t, http.MethodGet, "/orders", nil, aliceCookies)
		require.Equal(t, http.StatusOK, rec.Code)
		orders := decodeBody[[]models.Order](t, rec)
		assert.Len(t, orders, 2)
	})
	t.Run("admin sees all, userId param ignored", func(t *testing.T) {
		adminCookies, _ := env.login(t, "admin@example.com", models.RoleAdmin)
		rec := env.do(t, http.MethodGet, "/orders?userId=whatever", nil, adminCookies)
		require.Equal(t, http.StatusOK, rec.Code)
		orders := decodeBody[[]models.Order](t, rec)
		assert.Len(t, orders, 3)
	})
}

func TestUpdateOrderIsAdminOnly(t *testing.T) {
	env := newTestEnv(t)
	p := env.seedProduct(t, "Scanner", 15000, 5)

	userCookies, _ := env.login(t, "user@example.com", models.RoleUser)
	rec := env.do(t, http.MethodPost, "/orders", checkoutBody(15000, item(p.ID, 1)), userCookies)
	require.Equal(t, http.StatusOK, rec.Code)
	order := decodeBody[models.Order](t, rec)

	patch := map[string]string{"status": "processing"}

	rec = env.do(t, http.MethodPatch, "/orders/"+order.ID, patch, nil)
	assert.Equal(t, http.StatusUnauthorized, rec.Code)

	rec = env.do(t, http.MethodPatch, "/orders/"+order.ID, patch, userCookies)
	assert.Equal(t, http.StatusForbidden, rec.Code)

	adminCookies, _ := env.login(t, "admin@example.com", models.RoleAdmin)
	rec = env.do(t, http.MethodPatch, "/orders/"+order.ID, patch, adminCookies)
	require.Equal(t, http.StatusOK, rec.Code, rec.Body.String())
	updated := decodeBody[models.Order](t, rec)
	assert.Equal(t, models.StatusProcessing, updated.Status)

	t.Run("illegal jump", func(t *testing.T) {
		rec := env.do(t, http.MethodPatch, "/orders/"+order.ID,
			map[string]string{"status": "delivered"}, adminCookies)
		assert.Equal(t, http.StatusBadRequest, rec.Code)
	})
	t.Run("unknown status", func(t *testing.T) {
		rec := env.do(t, http.MethodPatch, "/orders/"+order.ID,
			map[string]string{"status": "teleported"}, adminCookies)
		assert.Equal(t, http.StatusBadRequest, rec.Code)
	})
	t.Run("tracking number", func(t *testing.T) {
		rec := env.do(t, http.MethodPatch, "/orders/"+order.ID,
			map[string]string{"trackingNumber": "TN-1", "paymentStatus": "paid"}, adminCookies)
		require.Equal(t, http.StatusOK, rec.Code)
		updated := decodeBody[models.Order](t, rec)
		assert.Equal(t, "TN-1", updated.TrackingNumber)
		assert.Equal(t, "paid", updated.PaymentStatus)
	})
}

func TestDeleteOrderIsAdminOnly(t *testing.T) {
	env := newTestEnv(t)
	p := env.seedProduct(t, "Headset", 8000, 5)

	userCookies, _ := env.login(t, "user@example.com", models.RoleUser)
	rec := env.do(t, http.MethodPost, "/orders", checkoutBody(8000, item(p.ID, 1)), userCookies)
	require.Equal(t, http.StatusOK, rec.Code)
	order := decodeBody[models.Order](t, rec)

	rec = env.do(t, http.MethodDelete, "/orders/"+order.ID, nil, userCookies)
	assert.Equal(t, http.StatusForbidden, rec.Code)

	// The denied delete must leave the order intact.
	rec = env.do(t, http.MethodGet, "/orders/"+order.ID, nil, userCookies)
	require.Equal(t, http.StatusOK, rec.Code)

	adminCookies, _ := env.login(t, "admin@example.com", models.RoleAdmin)
	rec = env.do(t, http.MethodDelete, "/orders/"+order.ID, nil, adminCookies)
	require.Equal(t, http.StatusOK, rec.Code)

	rec = env.do(t, http.MethodGet, "/orders/"+order.ID, nil, adminCookies)
	assert.Equal(t, http.StatusNotFound, rec.Code)
}

// httptestPost posts a checkout with an Idempotency-Key header.
func httptestPost(t *testing.T, env *testEnv, body map[string]any, key string) *httptest.ResponseRecorder {
	t.Helper()
	var buf bytes.Buffer
	require.NoError(t, json.NewEncoder(&buf).Encode(body))
	req := httptest.NewRequest(http.MethodPost, "/orders", &buf)
	req.Header.Set("Content-Type", "application/json")
	req.Header.Set("Idempotency-Key", key)
	rec := httptest.NewRecorder()
	env.mux.ServeHTTP(rec, req)
	return rec
}
