package handlers

import (
	"log/slog"
	"net/http"

	"github.com/Pratham-Dabhane/Smart-Coupons/internal/api/dto"
	"github.com/Pratham-Dabhane/Smart-Coupons/internal/application/advisory"
	"github.com/Pratham-Dabhane/Smart-Coupons/internal/infrastructure/storage"
)

// AdvisoryHandler exposes the advisory bridge for operators and the advisor.
type AdvisoryHandler struct {
	*Base
	advisor Advisor
	carts   CartService
	calls   storage.AdvisoryCallRepository
	session string
}

// NewAdvisoryHandler creates a new advisory handler.
func NewAdvisoryHandler(advisor Advisor, carts CartService, calls storage.AdvisoryCallRepository, sessionID string, logger *slog.Logger) *AdvisoryHandler {
	return &AdvisoryHandler{
		Base:    NewBase(logger),
		advisor: advisor,
		carts:   carts,
		calls:   calls,
		session: sessionID,
	}
}

// Simulate handles POST /advisory/simulate. It runs one advisory round for
// the current cart and returns the suggestion, or null when nothing applies.
func (h *AdvisoryHandler) Simulate(w http.ResponseWriter, r *http.Request) {
	s, ok := h.advisor.Simulate(r.Context())
	if !ok {
		h.WriteJSON(w, http.StatusOK, nil)
		return
	}
	h.WriteJSON(w, http.StatusOK, s)
}

// CartUpdated handles POST /events/cart-updated by queueing an event for the
// current cart.
func (h *AdvisoryHandler) CartUpdated(w http.ResponseWriter, r *http.Request) {
	ev := advisory.NewCartEvent(h.session, "manual", h.carts.Snapshot())
	if !h.advisor.Notify(ev) {
		h.WriteError(w, http.StatusServiceUnavailable, dto.NewAPIError(dto.ErrCodeQueueFull, "advisory queue is not accepting events"))
		return
	}
	h.WriteJSON(w, http.StatusAccepted, dto.EventAcceptedResponse{Accepted: true, EventID: ev.EventID})
}

// Calls handles GET /advisory/calls.
func (h *AdvisoryHandler) Calls(w http.ResponseWriter, r *http.Request) {
	params := dto.DefaultCallListParams()
	params.Limit = ParseIntParam(r, "limit", params.Limit)

	calls, err := h.calls.ListAdvisoryCalls(params.Limit)
	if err != nil {
		h.logger.Error("failed to list advisory calls", "error", err)
		h.WriteError(w, http.StatusInternalServerError, dto.InternalError())
		return
	}
	h.WriteJSON(w, http.StatusOK, dto.NewAdvisoryCallListResponse(calls))
}
