package handlers

import (
	"bytes"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"path/filepath"
	"testing"

	"github.com/google/uuid"
	"github.com/gorilla/sessions"
	"github.com/stretchr/testify/require"
	"golang.org/x/crypto/bcrypt"

	"github.com/cuddles47/electroshop/internal/models"
	"github.com/cuddles47/electroshop/internal/store"
)

// testEnv runs the full router against a real SQLite store, without the
// CSRF/metrics/rate-limit layers main adds.
type testEnv struct {
	store *store.Store
	mux   *http.ServeMux
}

func newTestEnv(t *testing.T) *testEnv {
	t.Helper()
	st, err := store.NewStore(filepath.Join(t.TempDir(), "test.db"))
	require.NoError(t, err)
	require.NoError(t, st.InitSchema())
	t.Cleanup(func() { st.DB.Close() })

	ss := sessions.NewCookieStore([]byte("test-session-key-0123456789abcdef"))
	return &testEnv{
		store: st,
		mux:   Routes(st, ss, nil, nil),
	}
}

func (e *testEnv) do(t *testing.T, method, path string, body any, cookies []*http.Cookie) *httptest.ResponseRecorder {
	t.Helper()
	var buf bytes.Buffer
	if body != nil {
		require.NoError(t, json.NewEncoder(&buf).Encode(body))
	}
	req := httptest.NewRequest(method, path, &buf)
	req.Header.Set("Content-Type", "application/json")
	for _, c := range cookies {
		req.AddCookie(c)
	}
	rec := httptest.NewRecorder()
	e.mux.ServeHTTP(rec, req)
	return rec
}

// login seeds a user with the given role and returns its session
// cookies and user id.
func (e *testEnv) login(t *testing.T, email, role string) ([]*http.Cookie, string) {
	t.Helper()
	hash, err := bcrypt.GenerateFromPassword([]byte("swordfish123"), bcrypt.MinCost)
	require.NoError(t, err)
	user := &models.User{ID: uuid.NewString(), Email: email, Password: string(hash), Role: role}
	require.NoError(t, e.store.CreateUser(user))

	rec := e.do(t, http.MethodPost, "/auth/login",
		map[string]string{"email": email, "password": "swordfish123"}, nil)
	require.Equal(t, http.StatusOK, rec.Code, "login failed: %s", rec.Body.String())
	return rec.Result().Cookies(), user.ID
}

func (e *testEnv) seedProduct(t *testing.T, title string, price int64, stock int) *models.Product {
	t.Helper()
	p := &models.Product{ID: uuid.NewString(), Title: title, Price: price, InStock: stock}
	require.NoError(t, e.store.CreateProduct(p))
	return p
}

func decodeBody[T any](t *testing.T, rec *httptest.ResponseRecorder) T {
	t.Helper()
	var v T
	require.NoError(t, json.NewDecoder(rec.Body).Decode(&v))
	return v
}

func checkoutBody(total int64, products ...map[string]any) map[string]any {
	return map[string]any{
		"name":       "Grace",
		"lastname":   "Hopper",
		"phone":      "+1 555 0100",
		"email":      "grace@example.com",
		"adress":     "1 Navy Way",
		"postalCode": "22217",
		"city":       "Arlington",
		"country":    "USA",
		"total":      total,
		"products":   products,
	}
}

func item(productID string, qty int) map[string]any {
	return map[string]any{"productId": productID, "quantity": qty}
}
