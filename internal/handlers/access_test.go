package handlers

import (
	"net/http"
	"testing"

	"github.com/stretchr/testify/assert"

	"github.com/cuddles47/electroshop/internal/models"
)

func TestAuthorizeOrder(t *testing.T) {
	ownerID := "user-1"
	owned := &models.Order{ID: "o1", UserID: &ownerID}
	guest := &models.Order{ID: "o2", UserID: nil}

	anon := Identity{}
	owner := Identity{UserID: "user-1", Role: models.RoleUser, Authenticated: true}
	other := Identity{UserID: "user-2", Role: models.RoleUser, Authenticated: true}
	admin := Identity{UserID: "root", Role: models.RoleAdmin, Authenticated: true}

	cases := []struct {
		name       string
		id         Identity
		action     Action
		order      *models.Order
		allowed    bool
		wantStatus int
	}{
		{"anon read", anon, ActionRead, owned, false, http.StatusUnauthorized},
		{"owner reads own", owner, ActionRead, owned, true, 0},
		{"other user reads", other, ActionRead, owned, false, http.StatusForbidden},
		{"admin reads", admin, ActionRead, owned, true, 0},
		{"user reads guest order", owner, ActionRead, guest, false, http.StatusForbidden},
		{"owner updates own", owner, ActionUpdate, owned, false, http.StatusForbidden},
		{"admin updates", admin, ActionUpdate, nil, true, 0},
		{"owner deletes own", owner, ActionDelete, owned, false, http.StatusForbidden},
		{"admin deletes", admin, ActionDelete, nil, true, 0},
		{"anon update pre-fetch", anon, ActionUpdate, nil, false, http.StatusUnauthorized},
	}

	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			d := AuthorizeOrder(tc.id, tc.action, tc.order)
			assert.Equal(t, tc.allowed, d.Allowed)
			if !tc.allowed {
				assert.Equal(t, tc.wantStatus, d.Status)
				assert.NotEmpty(t, d.Reason)
			}
		})
	}
}

func TestAuthorizeAdmin(t *testing.T) {
	d := AuthorizeAdmin(Identity{})
	assert.False(t, d.Allowed)
	assert.Equal(t, http.StatusUnauthorized, d.Status)

	d = AuthorizeAdmin(Identity{Role: models.RoleUser, Authenticated: true})
	assert.False(t, d.Allowed)
	assert.Equal(t, http.StatusForbidden, d.Status)

	assert.True(t, AuthorizeAdmin(Identity{Role: models.RoleAdmin, Authenticated: true}).Allowed)
}
