package handlers

import (
	"net/http"

	"github.com/cuddles47/electroshop/internal/models"
)

type Action int

const (
	ActionRead Action = iota
	ActionUpdate
	ActionDelete
)

// Decision is a capability check result. Status and Reason are only
// meaningful when Allowed is false.
type Decision struct {
	Allowed bool
	Status  int
	Reason  string
}

var allowed = Decision{Allowed: true}

func deny(status int, reason string) Decision {
	return Decision{Status: status, Reason: reason}
}

// AuthorizeOrder is the single authorization gate for order access.
// Admins may do anything; an authenticated user may only read an order
// they own. Pass a nil order for checks that precede the fetch.
func AuthorizeOrder(id Identity, action Action, order *models.Order) Decision {
	if !id.Authenticated {
		return deny(http.StatusUnauthorized, "Unauthorized")
	}
	if id.Role == models.RoleAdmin {
		return allowed
	}
	if action == ActionRead && order != nil && order.UserID != nil && *order.UserID == id.UserID {
		return allowed
	}
	return deny(http.StatusForbidden, "Access denied")
}

// AuthorizeAdmin gates admin-only surfaces that are not tied to a
// single order.
func AuthorizeAdmin(id Identity) Decision {
	if !id.Authenticated {
		return deny(http.StatusUnauthorized, "Unauthorized")
	}
	if id.Role != models.RoleAdmin {
		return deny(http.StatusForbidden, "Access denied")
	}
	return allowed
}
