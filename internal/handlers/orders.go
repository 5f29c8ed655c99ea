package handlers

import (
	"encoding/json"
	"errors"
	"net/http"
	"strings"

	"github.com/gorilla/sessions"

	"github.com/cuddles47/electroshop/internal/models"
	"github.com/cuddles47/electroshop/internal/store"
)

const idempotencyHeader = "Idempotency-Key"

type OrderHandler struct {
	Store        *store.Store
	SessionStore *sessions.CookieStore
}

// createOrderRequest mirrors the checkout payload, original wire names
// included.
type createOrderRequest struct {
	Name          string `json:"name"`
	Lastname      string `json:"lastname"`
	Phone         string `json:"phone"`
	Email         string `json:"email"`
	Company       string `json:"company"`
	Address       string `json:"adress"`
	Apartment     string `json:"apartment"`
	PostalCode    string `json:"postalCode"`
	City          string `json:"city"`
	Country       string `json:"country"`
	OrderNotice   string `json:"orderNotice"`
	Total         int64  `json:"total"`
	PaymentMethod string `json:"paymentMethod"`
	Products      []struct {
		ProductID string `json:"productId"`
		Quantity  int    `json:"quantity"`
	} `json:"products"`
}

func (req *createOrderRequest) validate() string {
	switch {
	case req.Name == "", req.Lastname == "", req.Phone == "", req.Email == "",
		req.Address == "", req.PostalCode == "", req.City == "", req.Country == "",
		req.Total <= 0, len(req.Products) == 0:
		return "Missing required fields"
	}
	for _, p := range req.Products {
		if p.ProductID == "" || p.Quantity <= 0 {
			return "Each product entry needs a productId and a positive quantity"
		}
	}
	return ""
}

func (h *OrderHandler) Create(w http.ResponseWriter, r *http.Request) {
	var req createOrderRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeError(w, http.StatusBadRequest, "Invalid JSON body")
		return
	}
	if msg := req.validate(); msg != "" {
		writeError(w, http.StatusBadRequest, msg)
		return
	}
	if req.PaymentMethod == "" {
		req.PaymentMethod = "card"
	}

	ctx := r.Context()

	// Replays with a known idempotency key short-circuit to the order
	// the first attempt created.
	idemKey := strings.TrimSpace(r.Header.Get(idempotencyHeader))
	if idemKey != "" {
		existingID, err := h.Store.GetOrderIDByIdempotencyKey(ctx, idemKey)
		if err != nil {
			writeStoreError(w, err)
			return
		}
		if existingID != "" {
			existing, err := h.Store.GetOrderByID(ctx, existingID)
			if err != nil {
				writeStoreError(w, err)
				return
			}
			writeJSON(w, http.StatusOK, existing)
			return
		}
	}

	// Guest checkout is allowed; the order only gets an owner when the
	// caller has a session.
	var userID *string
	if id := currentIdentity(h.SessionStore, r); id.Authenticated {
		userID = &id.UserID
	}

	order := &models.Order{
		Name:          req.Name,
		Lastname:      req.Lastname,
		Phone:         req.Phone,
		Email:         req.Email,
		Company:       req.Company,
		Address:       req.Address,
		Apartment:     req.Apartment,
		PostalCode:    req.PostalCode,
		City:          req.City,
		Country:       req.Country,
		OrderNotice:   req.OrderNotice,
		PaymentMethod: req.PaymentMethod,
		Total:         req.Total,
		UserID:        userID,
	}
	items := make([]store.LineItemInput, 0, len(req.Products))
	for _, p := range req.Products {
		items = append(items, store.LineItemInput{ProductID: p.ProductID, Quantity: p.Quantity})
	}

	created, err := h.Store.CreateOrder(ctx, order, items, idemKey)
	if errors.Is(err, store.ErrIdempotencyConflict) {
		// A concurrent request with the same key won; serve its order.
		existingID, qerr := h.Store.GetOrderIDByIdempotencyKey(ctx, idemKey)
		if qerr == nil && existingID != "" {
			if existing, gerr := h.Store.GetOrderByID(ctx, existingID); gerr == nil {
				writeJSON(w, http.StatusOK, existing)
				return
			}
		}
		writeError(w, http.StatusConflict, "Idempotency key already used")
		return
	}
	if err != nil {
		writeStoreError(w, err)
		return
	}

	writeJSON(w, http.StatusOK, created)
}

// List returns all orders for admins, own orders otherwise. The legacy
// userId query parameter is accepted and ignored; scoping comes from
// the session.
func (h *OrderHandler) List(w http.ResponseWriter, r *http.Request) {
	id := currentIdentity(h.SessionStore, r)
	if !id.Authenticated {
		writeError(w, http.StatusUnauthorized, "Unauthorized")
		return
	}

	var (
		orders []models.Order
		err    error
	)
	if id.IsAdmin() {
		orders, err = h.Store.GetAllOrders(r.Context())
	} else {
		orders, err = h.Store.GetOrdersByUser(r.Context(), id.UserID)
	}
	if err != nil {
		writeStoreError(w, err)
		return
	}
	if orders == nil {
		orders = []models.Order{}
	}
	writeJSON(w, http.StatusOK, orders)
}

func (h *OrderHandler) Get(w http.ResponseWriter, r *http.Request) {
	id := currentIdentity(h.SessionStore, r)
	if !id.Authenticated {
		writeError(w, http.StatusUnauthorized, "Unauthorized")
		return
	}

	order, err := h.Store.GetOrderByID(r.Context(), r.PathValue("id"))
	if err != nil {
		writeStoreError(w, err)
		return
	}

	if d := AuthorizeOrder(id, ActionRead, order); !d.Allowed {
		writeError(w, d.Status, d.Reason)
		return
	}
	writeJSON(w, http.StatusOK, order)
}

type updateOrderRequest struct {
	Status         string `json:"status"`
	PaymentStatus  string `json:"paymentStatus"`
	TrackingNumber string `json:"trackingNumber"`
}

func (h *OrderHandler) Update(w http.ResponseWriter, r *http.Request) {
	id := currentIdentity(h.SessionStore, r)
	if d := AuthorizeOrder(id, ActionUpdate, nil); !d.Allowed {
		writeError(w, d.Status, d.Reason)
		return
	}

	var req updateOrderRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeError(w, http.StatusBadRequest, "Invalid JSON body")
		return
	}

	var upd store.OrderUpdate
	if req.Status != "" {
		status := models.OrderStatus(req.Status)
		if !status.Valid() {
			writeError(w, http.StatusBadRequest, "Unknown order status: "+req.Status)
			return
		}
		upd.Status = &status
	}
	if req.PaymentStatus != "" {
		upd.PaymentStatus = &req.PaymentStatus
	}
	if req.TrackingNumber != "" {
		upd.TrackingNumber = &req.TrackingNumber
	}

	order, err := h.Store.UpdateOrder(r.Context(), r.PathValue("id"), upd)
	if err != nil {
		writeStoreError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, order)
}

func (h *OrderHandler) Delete(w http.ResponseWriter, r *http.Request) {
	id := currentIdentity(h.SessionStore, r)
	if d := AuthorizeOrder(id, ActionDelete, nil); !d.Allowed {
		writeError(w, d.Status, d.Reason)
		return
	}

	if err := h.Store.DeleteOrder(r.Context(), r.PathValue("id")); err != nil {
		writeStoreError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, map[string]string{"message": "Order deleted successfully"})
}
