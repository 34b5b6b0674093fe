package handlers

import (
	"log/slog"
	"net/http"

	"github.com/Pratham-Dabhane/Smart-Coupons/internal/api/dto"
	"github.com/Pratham-Dabhane/Smart-Coupons/internal/domain/coupon"
)

// CouponsHandler serves the coupon registry and local recommendations.
type CouponsHandler struct {
	*Base
	registry *coupon.Registry
	advisor  Advisor
}

// NewCouponsHandler creates a new coupons handler.
func NewCouponsHandler(registry *coupon.Registry, advisor Advisor, logger *slog.Logger) *CouponsHandler {
	return &CouponsHandler{
		Base:     NewBase(logger),
		registry: registry,
		advisor:  advisor,
	}
}

// List handles GET /coupons.
func (h *CouponsHandler) List(w http.ResponseWriter, r *http.Request) {
	h.WriteJSON(w, http.StatusOK, dto.NewCouponListResponse(h.registry.All()))
}

// Best handles GET /coupons/best. It answers null when no coupon applies.
func (h *CouponsHandler) Best(w http.ResponseWriter, r *http.Request) {
	s, ok := h.advisor.Suggest()
	if !ok {
		h.WriteJSON(w, http.StatusOK, nil)
		return
	}
	h.WriteJSON(w, http.StatusOK, s)
}
