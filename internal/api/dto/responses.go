package dto

import (
	"time"

	"github.com/Pratham-Dabhane/Smart-Coupons/internal/domain/cart"
	"github.com/Pratham-Dabhane/Smart-Coupons/internal/domain/catalog"
	"github.com/Pratham-Dabhane/Smart-Coupons/internal/domain/coupon"
	"github.com/Pratham-Dabhane/Smart-Coupons/internal/infrastructure/storage"
)

// HealthResponse is returned by the health check endpoint.
type HealthResponse struct {
	Status            string `json:"status"`
	Timestamp         string `json:"timestamp"`
	AdvisoryTransport string `json:"advisoryTransport,omitempty"`
}

// ProductListResponse is returned when listing the catalog.
type ProductListResponse struct {
	Products []catalog.Product `json:"products"`
	Count    int               `json:"count"`
}

// ApplyCouponResponse is returned by POST /cart/apply-coupon whether or not
// the coupon was accepted.
type ApplyCouponResponse struct {
	Success  bool      `json:"success"`
	Message  string    `json:"message"`
	Discount *int64    `json:"discount,omitempty"`
	NewTotal *int64    `json:"newTotal,omitempty"`
	Cart     cart.Cart `json:"cart"`
}

// NewApplyCouponResponse converts an evaluation into the response body.
func NewApplyCouponResponse(c cart.Cart, ev coupon.Evaluation) ApplyCouponResponse {
	resp := ApplyCouponResponse{
		Success: ev.OK(),
		Message: ev.Message,
		Cart:    c,
	}
	if ev.OK() {
		discount, total := ev.Discount, ev.NewTotal
		resp.Discount = &discount
		resp.NewTotal = &total
	}
	return resp
}

// CouponResponse describes one coupon in the registry.
type CouponResponse struct {
	Code              string   `json:"code"`
	Type              string   `json:"type"`
	Value             int64    `json:"value"`
	MinCartValue      int64    `json:"minCartValue"`
	MaxDiscount       int64    `json:"maxDiscount,omitempty"`
	AllowedCategories []string `json:"allowedCategories,omitempty"`
	Description       string   `json:"description"`
}

// CouponListResponse is returned when listing coupons.
type CouponListResponse struct {
	Coupons []CouponResponse `json:"coupons"`
	Count   int              `json:"count"`
}

// NewCouponListResponse converts registry entries in order.
func NewCouponListResponse(coupons []coupon.Coupon) CouponListResponse {
	resp := CouponListResponse{
		Coupons: make([]CouponResponse, 0, len(coupons)),
		Count:   len(coupons),
	}
	for _, c := range coupons {
		resp.Coupons = append(resp.Coupons, CouponResponse{
			Code:              c.Code,
			Type:              string(c.Kind),
			Value:             c.Value,
			MinCartValue:      c.MinCartValue,
			MaxDiscount:       c.MaxDiscount,
			AllowedCategories: c.AllowedCategories,
			Description:       c.Description,
		})
	}
	return resp
}

// AdvisoryCallResponse represents one outbound advisory attempt.
type AdvisoryCallResponse struct {
	ID         int64  `json:"id"`
	EventID    string `json:"eventId"`
	SessionID  string `json:"sessionId"`
	Transport  string `json:"transport"`
	Subtotal   int64  `json:"subtotal"`
	ItemCount  int64  `json:"itemCount"`
	Status     string `json:"status"`
	Error      string `json:"error,omitempty"`
	DurationMs int64  `json:"durationMs"`
	CreatedAt  string `json:"createdAt"`
}

// AdvisoryCallListResponse is returned when listing advisory calls.
type AdvisoryCallListResponse struct {
	Calls []AdvisoryCallResponse `json:"calls"`
	Count int                    `json:"count"`
}

// NewAdvisoryCallListResponse converts stored calls, newest first.
func NewAdvisoryCallListResponse(calls []storage.AdvisoryCall) AdvisoryCallListResponse {
	resp := AdvisoryCallListResponse{
		Calls: make([]AdvisoryCallResponse, 0, len(calls)),
		Count: len(calls),
	}
	for _, c := range calls {
		resp.Calls = append(resp.Calls, AdvisoryCallResponse{
			ID:         c.ID,
			EventID:    c.EventID,
			SessionID:  c.SessionID,
			Transport:  c.Transport,
			Subtotal:   c.Subtotal,
			ItemCount:  c.ItemCount,
			Status:     c.Status,
			Error:      c.Error,
			DurationMs: c.DurationMs,
			CreatedAt:  c.CreatedAt.Format(time.RFC3339),
		})
	}
	return resp
}

// EventAcceptedResponse is returned when a cart event is queued.
type EventAcceptedResponse struct {
	Accepted bool   `json:"accepted"`
	EventID  string `json:"eventId"`
}

// NewHealthResponse creates a health response with the current timestamp.
func NewHealthResponse(transport string) HealthResponse {
	return HealthResponse{
		Status:            "ok",
		Timestamp:         time.Now().UTC().Format(time.RFC3339),
		AdvisoryTransport: transport,
	}
}
