package handlers

import (
	"errors"
	"log/slog"
	"net/http"
	"strings"

	"github.com/Pratham-Dabhane/Smart-Coupons/internal/api/dto"
	"github.com/Pratham-Dabhane/Smart-Coupons/internal/domain/cart"
)

// CartHandler handles cart-related HTTP requests.
type CartHandler struct {
	*Base
	carts CartService
}

// NewCartHandler creates a new cart handler.
func NewCartHandler(carts CartService, logger *slog.Logger) *CartHandler {
	return &CartHandler{
		Base:  NewBase(logger),
		carts: carts,
	}
}

// Get handles GET /cart.
func (h *CartHandler) Get(w http.ResponseWriter, r *http.Request) {
	h.WriteJSON(w, http.StatusOK, h.carts.Snapshot())
}

// Add handles POST /cart/add.
func (h *CartHandler) Add(w http.ResponseWriter, r *http.Request) {
	var req dto.AddItemRequest
	if err := h.DecodeJSON(w, r, &req); err != nil {
		h.WriteError(w, http.StatusBadRequest, dto.BadRequestError(err.Error()))
		return
	}
	if strings.TrimSpace(req.ProductID) == "" {
		h.WriteError(w, http.StatusBadRequest, dto.ValidationError("productId is required"))
		return
	}

	c, err := h.carts.AddItem(req.ProductID, req.Quantity())
	if err != nil {
		h.writeCartError(w, err)
		return
	}
	h.WriteJSON(w, http.StatusOK, c)
}

// Remove handles POST /cart/remove.
func (h *CartHandler) Remove(w http.ResponseWriter, r *http.Request) {
	var req dto.RemoveItemRequest
	if err := h.DecodeJSON(w, r, &req); err != nil {
		h.WriteError(w, http.StatusBadRequest, dto.BadRequestError(err.Error()))
		return
	}
	if strings.TrimSpace(req.ProductID) == "" {
		h.WriteError(w, http.StatusBadRequest, dto.ValidationError("productId is required"))
		return
	}

	c, err := h.carts.RemoveItem(req.ProductID, req.Qty)
	if err != nil {
		h.writeCartError(w, err)
		return
	}
	h.WriteJSON(w, http.StatusOK, c)
}

// ApplyCoupon handles POST /cart/apply-coupon. A rejected coupon is still a
// 200; the outcome is in the body.
func (h *CartHandler) ApplyCoupon(w http.ResponseWriter, r *http.Request) {
	var req dto.ApplyCouponRequest
	if err := h.DecodeJSON(w, r, &req); err != nil {
		h.WriteError(w, http.StatusBadRequest, dto.BadRequestError(err.Error()))
		return
	}

	c, ev := h.carts.ApplyCoupon(strings.TrimSpace(req.Code))
	h.WriteJSON(w, http.StatusOK, dto.NewApplyCouponResponse(c, ev))
}

// Clear handles POST /cart/clear.
func (h *CartHandler) Clear(w http.ResponseWriter, r *http.Request) {
	h.WriteJSON(w, http.StatusOK, h.carts.Clear())
}

func (h *CartHandler) writeCartError(w http.ResponseWriter, err error) {
	switch {
	case errors.Is(err, cart.ErrProductNotFound):
		h.WriteError(w, http.StatusNotFound, dto.NewAPIError(dto.ErrCodeProductNotFound, err.Error()))
	case errors.Is(err, cart.ErrItemNotInCart):
		h.WriteError(w, http.StatusNotFound, dto.NewAPIError(dto.ErrCodeItemNotInCart, err.Error()))
	case errors.Is(err, cart.ErrInvalidQuantity):
		h.WriteError(w, http.StatusBadRequest, dto.NewAPIError(dto.ErrCodeInvalidQuantity, err.Error()))
	default:
		h.logger.Error("cart operation failed", "error", err)
		h.WriteError(w, http.StatusInternalServerError, dto.InternalError())
	}
}
