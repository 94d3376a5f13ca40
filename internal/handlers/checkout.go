package handlers

import (
	"net/http"
	"strings"

	"github.com/shopspring/decimal"

	"github.com/kmcdade/finboard/internal/common"
	"github.com/kmcdade/finboard/internal/models"
	"github.com/kmcdade/finboard/internal/store"
)

// CheckoutHandler handles shopping cart and checkout requests.
type CheckoutHandler struct {
	logger       *common.Logger
	cart         *store.Cart
	transactions *store.Transactions
}

// NewCheckoutHandler creates a new checkout handler.
func NewCheckoutHandler(logger *common.Logger, cart *store.Cart, transactions *store.Transactions) *CheckoutHandler {
	return &CheckoutHandler{
		logger:       logger,
		cart:         cart,
		transactions: transactions,
	}
}

// List handles GET /api/cart.
func (h *CheckoutHandler) List(w http.ResponseWriter, r *http.Request) {
	items := h.cart.Load()
	WriteJSON(w, http.StatusOK, map[string]interface{}{
		"items":    items,
		"subtotal": h.cart.Subtotal().StringFixed(2),
	})
}

type cartItemRequest struct {
	Name     string          `json:"name"`
	Price    decimal.Decimal `json:"price"`
	Quantity int             `json:"quantity"`
}

// AddItem handles POST /api/cart. Adding an item already in the cart
// merges quantities instead of duplicating the line.
func (h *CheckoutHandler) AddItem(w http.ResponseWriter, r *http.Request) {
	var req cartItemRequest
	if err := DecodeJSON(r, &req); err != nil {
		WriteError(w, http.StatusBadRequest, "invalid request body")
		return
	}
	if req.Quantity == 0 {
		req.Quantity = 1
	}

	item, err := h.cart.AddItem(models.CartItem{
		Name:     req.Name,
		Price:    req.Price,
		Quantity: req.Quantity,
	})
	if err != nil {
		WriteError(w, http.StatusBadRequest, err.Error())
		return
	}

	WriteJSON(w, http.StatusCreated, item)
}

type quantityRequest struct {
	Quantity int `json:"quantity"`
}

// UpdateQuantity handles PUT /api/cart/{id}. Setting quantity to zero
// removes the line.
func (h *CheckoutHandler) UpdateQuantity(w http.ResponseWriter, r *http.Request) {
	id := strings.TrimPrefix(r.URL.Path, "/api/cart/")
	if id == "" {
		WriteError(w, http.StatusBadRequest, "missing item id")
		return
	}

	var req quantityRequest
	if err := DecodeJSON(r, &req); err != nil {
		WriteError(w, http.StatusBadRequest, "invalid request body")
		return
	}
	if req.Quantity < 0 {
		WriteError(w, http.StatusBadRequest, "quantity must not be negative")
		return
	}

	if !h.cart.UpdateQuantity(id, req.Quantity) {
		WriteError(w, http.StatusNotFound, "item not found")
		return
	}

	h.List(w, r)
}

// RemoveItem handles DELETE /api/cart/{id}.
func (h *CheckoutHandler) RemoveItem(w http.ResponseWriter, r *http.Request) {
	id := strings.TrimPrefix(r.URL.Path, "/api/cart/")
	if id == "" {
		WriteError(w, http.StatusBadRequest, "missing item id")
		return
	}

	if !h.cart.RemoveItem(id) {
		WriteError(w, http.StatusNotFound, "item not found")
		return
	}

	w.WriteHeader(http.StatusNoContent)
}

// Checkout handles POST /api/cart/checkout. The cart total is recorded as
// one expense transaction and the cart is emptied.
func (h *CheckoutHandler) Checkout(w http.ResponseWriter, r *http.Request) {
	tx, err := h.cart.Checkout(h.transactions)
	if err != nil {
		WriteError(w, http.StatusBadRequest, err.Error())
		return
	}

	h.logger.Info().Str("transaction_id", tx.ID).Str("amount", tx.Amount.StringFixed(2)).Msg("cart checked out")
	WriteJSON(w, http.StatusOK, tx)
}
