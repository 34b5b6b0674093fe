package dto

// AddItemRequest is the body of POST /cart/add.
type AddItemRequest struct {
	ProductID string `json:"productId"`
	Qty       *int64 `json:"qty"`
}

// Quantity returns the requested quantity, 1 when omitted.
func (r AddItemRequest) Quantity() int64 {
	if r.Qty == nil {
		return 1
	}
	return *r.Qty
}

// RemoveItemRequest is the body of POST /cart/remove. A missing qty removes
// the whole line.
type RemoveItemRequest struct {
	ProductID string `json:"productId"`
	Qty       int64  `json:"qty"`
}

// ApplyCouponRequest is the body of POST /cart/apply-coupon.
type ApplyCouponRequest struct {
	Code string `json:"code"`
}

// CallListParams represents query parameters for listing advisory calls.
type CallListParams struct {
	Limit int `json:"limit"`
}

// DefaultCallListParams returns default values for call list params.
func DefaultCallListParams() CallListParams {
	return CallListParams{
		Limit: 50,
	}
}
