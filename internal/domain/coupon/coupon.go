// Package coupon evaluates discount coupons against a cart.
//
// Coupons are immutable and live in a Registry whose order is significant:
// FindBest breaks ties by registry order and FindUpsell returns the first
// qualifying candidate in registry order.
package coupon

import (
	"fmt"
	"strings"

	"github.com/Pratham-Dabhane/Smart-Coupons/internal/domain/catalog"
)

// Kind is the discount formula of a coupon.
type Kind string

const (
	KindPercent Kind = "percent"
	KindFlat    Kind = "flat"
)

// Coupon is a named discount rule with eligibility conditions and a cap.
// All amounts are in minor currency units.
type Coupon struct {
	Code              string   `json:"code"`
	Kind              Kind     `json:"type"`
	Value             int64    `json:"value"`
	MinCartValue      int64    `json:"min_cart_value"`
	MaxDiscount       int64    `json:"max_discount"`
	AllowedCategories []string `json:"allowed_categories"`
	Description       string   `json:"description"`
}

// Allows reports whether the coupon accepts items of category.
// An empty category list accepts everything.
func (c Coupon) Allows(category string) bool {
	if len(c.AllowedCategories) == 0 {
		return true
	}
	for _, allowed := range c.AllowedCategories {
		if allowed == category {
			return true
		}
	}
	return false
}

// rawDiscount is the uncapped discount for subtotal. Percent coupons floor.
func (c Coupon) rawDiscount(subtotal int64) int64 {
	switch c.Kind {
	case KindPercent:
		// Split so large subtotals cannot overflow: floor(s*v/100) with s = 100q + r.
		return subtotal/100*c.Value + subtotal%100*c.Value/100
	case KindFlat:
		return c.Value
	default:
		return 0
	}
}

// DiscountFor floors first and caps second.
func (c Coupon) DiscountFor(subtotal int64) int64 {
	return min(c.rawDiscount(subtotal), c.MaxDiscount)
}

func (c Coupon) validate() error {
	if c.Code == "" {
		return fmt.Errorf("coupon code is required")
	}
	if c.Kind != KindPercent && c.Kind != KindFlat {
		return fmt.Errorf("coupon %s: unknown type %q", c.Code, c.Kind)
	}
	if c.Value < 0 || c.MinCartValue < 0 || c.MaxDiscount < 0 {
		return fmt.Errorf("coupon %s: amounts must not be negative", c.Code)
	}
	if c.Kind == KindPercent && c.Value > 100 {
		return fmt.Errorf("coupon %s: percent value must be 0-100", c.Code)
	}
	return nil
}

// Registry is the ordered, read-only set of known coupons.
type Registry struct {
	coupons []Coupon
	byCode  map[string]int
}

// NewRegistry validates coupons and indexes them by code.
func NewRegistry(coupons []Coupon) (*Registry, error) {
	r := &Registry{
		coupons: make([]Coupon, 0, len(coupons)),
		byCode:  make(map[string]int, len(coupons)),
	}
	for _, c := range coupons {
		if err := c.validate(); err != nil {
			return nil, err
		}
		if _, dup := r.byCode[c.Code]; dup {
			return nil, fmt.Errorf("duplicate coupon code %s", c.Code)
		}
		c.AllowedCategories = append([]string(nil), c.AllowedCategories...)
		r.byCode[c.Code] = len(r.coupons)
		r.coupons = append(r.coupons, c)
	}
	return r, nil
}

// DefaultRegistry returns the demo storefront coupons.
func DefaultRegistry() *Registry {
	r, err := NewRegistry(defaultCoupons)
	if err != nil {
		panic(err)
	}
	return r
}

// Lookup finds a coupon by exact, case-sensitive code.
func (r *Registry) Lookup(code string) (Coupon, bool) {
	i, ok := r.byCode[code]
	if !ok {
		return Coupon{}, false
	}
	return r.coupons[i], true
}

// All returns the coupons in registry order.
func (r *Registry) All() []Coupon {
	out := make([]Coupon, len(r.coupons))
	copy(out, r.coupons)
	return out
}

// Currency is prefixed to amounts in user-facing messages.
const Currency = "₹"

// FormatAmount renders an amount for messages, e.g. "₹200".
func FormatAmount(amount int64) string {
	return fmt.Sprintf("%s%d", Currency, amount)
}

func joinCategories(categories []string) string {
	return strings.Join(categories, ", ")
}

var defaultCoupons = []Coupon{
	{
		Code: "WELCOME50", Kind: KindPercent, Value: 50, MinCartValue: 100, MaxDiscount: 200,
		Description: "50% off on orders above ₹100",
	},
	{
		Code: "FLAT200", Kind: KindFlat, Value: 200, MinCartValue: 1000, MaxDiscount: 200,
		AllowedCategories: []string{catalog.CategoryElectronics},
		Description:       "Flat ₹200 off on electronics",
	},
	{
		Code: "FOOD10", Kind: KindPercent, Value: 10, MinCartValue: 200, MaxDiscount: 100,
		AllowedCategories: []string{catalog.CategoryGrocery, catalog.CategoryFood},
		Description:       "10% off on grocery items",
	},
	{
		Code: "FASHION15", Kind: KindPercent, Value: 15, MinCartValue: 500, MaxDiscount: 300,
		AllowedCategories: []string{catalog.CategoryFashion},
		Description:       "15% off on fashion items",
	},
	{
		Code: "GROCERY20", Kind: KindPercent, Value: 20, MinCartValue: 800, MaxDiscount: 250,
		AllowedCategories: []string{catalog.CategoryGrocery},
		Description:       "20% off on grocery orders above ₹800",
	},
	{
		Code: "TECH100", Kind: KindFlat, Value: 100, MinCartValue: 2500, MaxDiscount: 100,
		AllowedCategories: []string{catalog.CategoryElectronics},
		Description:       "Flat ₹100 off on electronics above ₹2500",
	},
	{
		Code: "MEGA500", Kind: KindFlat, Value: 500, MinCartValue: 5000, MaxDiscount: 500,
		Description: "Flat ₹500 off on orders above ₹5000",
	},
}
