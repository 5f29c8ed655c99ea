package handlers

import (
	"net/http"

	"github.com/gorilla/sessions"

	"github.com/cuddles47/electroshop/internal/store"
)

type AdminHandler struct {
	Store        *store.Store
	SessionStore *sessions.CookieStore
}

func (h *AdminHandler) Stats(w http.ResponseWriter, r *http.Request) {
	id := currentIdentity(h.SessionStore, r)
	if d := AuthorizeAdmin(id); !d.Allowed {
		writeError(w, d.Status, d.Reason)
		return
	}

	stats, err := h.Store.GetDashboardStats()
	if err != nil {
		writeStoreError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, stats)
}
