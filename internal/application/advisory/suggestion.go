// Package advisory connects the cart to the external coupon advisor.
//
// Cart changes are queued as CartEvents and published by a single worker;
// suggestions coming back, inline or through the inbound webhook, are checked
// by the coupon evaluator before they reach the Box that clients read from.
package advisory

import (
	"encoding/json"
	"fmt"
	"math"
	"strconv"
	"time"

	"github.com/Pratham-Dabhane/Smart-Coupons/internal/domain/cart"
	"github.com/Pratham-Dabhane/Smart-Coupons/internal/domain/coupon"
)

// Suggestion sources
const (
	SourceAdvisor       = "advisor"
	SourceLocal         = "local"
	SourceLocalFallback = "local-fallback"
)

// RecommendedCoupon is the coupon a suggestion tells the shopper to use.
type RecommendedCoupon struct {
	Code           string `json:"code"`
	Discount       int64  `json:"discount"`
	Reason         string `json:"reason"`
	SavingsPercent int64  `json:"savingsPercent,omitempty"`
}

// UpsellSuggestion points at a coupon the cart is close to unlocking.
type UpsellSuggestion struct {
	TargetCode   string `json:"targetCode"`
	AmountNeeded int64  `json:"amountNeeded"`
	ExtraSavings int64  `json:"extraSavings"`
	Message      string `json:"message,omitempty"`
}

// Suggestion is a coupon recommendation for one cart snapshot.
type Suggestion struct {
	RecommendedCoupon RecommendedCoupon `json:"recommendedCoupon"`
	UpsellSuggestion  *UpsellSuggestion `json:"upsellSuggestion,omitempty"`
	CartSnapshot      cart.Cart         `json:"cartSnapshot"`
	Source            string            `json:"source"`
	Timestamp         time.Time         `json:"timestamp"`
}

// FromRecommendation builds a suggestion from the local evaluator's output.
func FromRecommendation(rec coupon.Recommendation, snapshot cart.Cart, source string) Suggestion {
	s := Suggestion{
		RecommendedCoupon: RecommendedCoupon{
			Code:           rec.Best.Code,
			Discount:       rec.Best.Discount,
			Reason:         rec.Best.Reason,
			SavingsPercent: rec.Best.SavingsPercent,
		},
		CartSnapshot: snapshot,
		Source:       source,
		Timestamp:    time.Now().UTC(),
	}
	if rec.Upsell != nil {
		s.UpsellSuggestion = &UpsellSuggestion{
			TargetCode:   rec.Upsell.TargetCode,
			AmountNeeded: rec.Upsell.AmountNeeded,
			ExtraSavings: rec.Upsell.ExtraSavings,
			Message:      rec.Upsell.Message,
		}
	}
	return s
}

// amount decodes a monetary value sent by the advisor. Integers, floats and
// numeric strings are accepted; fractions are floored. Negative values and
// values outside the int64 range are rejected.
type amount int64

func (a *amount) UnmarshalJSON(data []byte) error {
	if string(data) == "null" {
		*a = 0
		return nil
	}
	var raw any
	if err := json.Unmarshal(data, &raw); err != nil {
		return err
	}
	var f float64
	switch v := raw.(type) {
	case float64:
		f = v
	case string:
		parsed, err := strconv.ParseFloat(v, 64)
		if err != nil {
			return fmt.Errorf("invalid amount %q", v)
		}
		f = parsed
	default:
		return fmt.Errorf("invalid amount %s", data)
	}
	// float64(math.MaxInt64) rounds up to 2^63, so >= excludes it.
	if math.IsNaN(f) || math.IsInf(f, 0) || f < 0 || f >= math.MaxInt64 {
		return fmt.Errorf("invalid amount %s", data)
	}
	*a = amount(math.Floor(f))
	return nil
}

type wireSuggestion struct {
	RecommendedCoupon *struct {
		Code           string `json:"code"`
		Discount       amount `json:"discount"`
		Reason         string `json:"reason"`
		SavingsPercent amount `json:"savingsPercent"`
	} `json:"recommendedCoupon"`
	UpsellSuggestion *struct {
		TargetCode   string `json:"targetCode"`
		AmountNeeded amount `json:"amountNeeded"`
		ExtraSavings amount `json:"extraSavings"`
		Message      string `json:"message"`
	} `json:"upsellSuggestion"`
	Source string `json:"source"`
}

// DecodeSuggestion parses a suggestion sent by the advisor. It returns nil
// without error for an empty body, JSON null, or a body with no recommended
// coupon. The cart snapshot sent by the advisor is ignored.
func DecodeSuggestion(data []byte) (*Suggestion, error) {
	if len(data) == 0 || string(data) == "null" {
		return nil, nil
	}

	var w wireSuggestion
	if err := json.Unmarshal(data, &w); err != nil {
		return nil, fmt.Errorf("decode suggestion: %w", err)
	}
	if w.RecommendedCoupon == nil || w.RecommendedCoupon.Code == "" {
		return nil, nil
	}

	s := &Suggestion{
		RecommendedCoupon: RecommendedCoupon{
			Code:           w.RecommendedCoupon.Code,
			Discount:       int64(w.RecommendedCoupon.Discount),
			Reason:         w.RecommendedCoupon.Reason,
			SavingsPercent: int64(w.RecommendedCoupon.SavingsPercent),
		},
		Source: w.Source,
	}
	if u := w.UpsellSuggestion; u != nil && u.TargetCode != "" {
		s.UpsellSuggestion = &UpsellSuggestion{
			TargetCode:   u.TargetCode,
			AmountNeeded: int64(u.AmountNeeded),
			ExtraSavings: int64(u.ExtraSavings),
			Message:      u.Message,
		}
	}
	return s, nil
}
