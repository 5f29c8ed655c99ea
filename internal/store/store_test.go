package store

import (
	"path/filepath"
	"testing"

	"github.com/google/uuid"
	"github.com/stretchr/testify/require"

	"github.com/cuddles47/electroshop/internal/models"
)

func newTestStore(t *testing.T) *Store {
	t.Helper()
	s, err := NewStore(filepath.Join(t.TempDir(), "test.db"))
	require.NoError(t, err)
	require.NoError(t, s.InitSchema())
	t.Cleanup(func() { s.DB.Close() })
	return s
}

func seedProduct(t *testing.T, s *Store, title string, price int64, stock int) *models.Product {
	t.Helper()
	p := &models.Product{
		ID:      uuid.NewString(),
		Title:   title,
		Price:   price,
		InStock: stock,
	}
	require.NoError(t, s.CreateProduct(p))
	return p
}

func seedUser(t *testing.T, s *Store, email, role string) *models.User {
	t.Helper()
	u := &models.User{
		ID:       uuid.NewString(),
		Email:    email,
		Password: "not-a-real-hash",
		Role:     role,
	}
	require.NoError(t, s.CreateUser(u))
	return u
}

func testOrder(total int64, userID *string) *models.Order {
	return &models.Order{
		Name:          "Ada",
		Lastname:      "Lovelace",
		Phone:         "+44 20 7946 0000",
		Email:         "ada@example.com",
		Address:       "12 St James Square",
		PostalCode:    "SW1Y 4JH",
		City:          "London",
		Country:       "UK",
		PaymentMethod: "card",
		Total:         total,
		UserID:        userID,
	}
}
