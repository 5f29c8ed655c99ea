package handlers

import (
	"encoding/json"
	"net/http"

	"github.com/google/uuid"
	"github.com/gorilla/sessions"

	"github.com/cuddles47/electroshop/internal/models"
	"github.com/cuddles47/electroshop/internal/store"
)

type ProductHandler struct {
	Store        *store.Store
	SessionStore *sessions.CookieStore
}

func (h *ProductHandler) List(w http.ResponseWriter, r *http.Request) {
	products, err := h.Store.GetAllProducts()
	if err != nil {
		writeStoreError(w, err)
		return
	}
	if products == nil {
		products = []models.Product{}
	}
	writeJSON(w, http.StatusOK, products)
}

func (h *ProductHandler) Get(w http.ResponseWriter, r *http.Request) {
	product, err := h.Store.GetProductByID(r.PathValue("id"))
	if err != nil {
		writeStoreError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, product)
}

type productRequest struct {
	Title   string `json:"title"`
	Price   int64  `json:"price"`
	InStock int    `json:"inStock"`
}

func (h *ProductHandler) Create(w http.ResponseWriter, r *http.Request) {
	id := currentIdentity(h.SessionStore, r)
	if d := AuthorizeAdmin(id); !d.Allowed {
		writeError(w, d.Status, d.Reason)
		return
	}

	var req productRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeError(w, http.StatusBadRequest, "Invalid JSON body")
		return
	}
	if req.Title == "" || req.Price <= 0 || req.InStock < 0 {
		writeError(w, http.StatusBadRequest, "title, a positive price, and a non-negative inStock are required")
		return
	}

	product := &models.Product{
		ID:      uuid.NewString(),
		Title:   req.Title,
		Price:   req.Price,
		InStock: req.InStock,
	}
	if err := h.Store.CreateProduct(product); err != nil {
		writeStoreError(w, err)
		return
	}
	writeJSON(w, http.StatusCreated, product)
}

func (h *ProductHandler) Update(w http.ResponseWriter, r *http.Request) {
	id := currentIdentity(h.SessionStore, r)
	if d := AuthorizeAdmin(id); !d.Allowed {
		writeError(w, d.Status, d.Reason)
		return
	}

	product, err := h.Store.GetProductByID(r.PathValue("id"))
	if err != nil {
		writeStoreError(w, err)
		return
	}

	// Pointer fields so an absent key and an explicit zero can be told
	// apart; inStock = 0 is a legitimate write.
	var req struct {
		Title   *string `json:"title"`
		Price   *int64  `json:"price"`
		InStock *int    `json:"inStock"`
	}
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeError(w, http.StatusBadRequest, "Invalid JSON body")
		return
	}
	if req.Title != nil && *req.Title != "" {
		product.Title = *req.Title
	}
	if req.Price != nil && *req.Price > 0 {
		product.Price = *req.Price
	}
	if req.InStock != nil && *req.InStock >= 0 {
		product.InStock = *req.InStock
	}

	if err := h.Store.UpdateProduct(product); err != nil {
		writeStoreError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, product)
}
