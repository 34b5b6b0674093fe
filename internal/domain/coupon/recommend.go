package coupon

import (
	"fmt"
	"math/bits"

	"github.com/Pratham-Dabhane/Smart-Coupons/internal/domain/catalog"
)

// Best is the coupon granting the largest discount for a basket.
type Best struct {
	Code           string
	Discount       int64
	Reason         string
	SavingsPercent int64
}

// Upsell is a coupon the basket is close to unlocking.
type Upsell struct {
	TargetCode   string
	AmountNeeded int64
	ExtraSavings int64
	Message      string
}

// Recommendation pairs the best coupon with an optional upsell.
type Recommendation struct {
	Best   Best
	Upsell *Upsell
}

// SavingsPercent is floor(discount*100/subtotal), or 0 for an empty subtotal.
func SavingsPercent(discount, subtotal int64) int64 {
	if subtotal <= 0 || discount <= 0 {
		return 0
	}
	hi, lo := bits.Mul64(uint64(discount), 100)
	if hi >= uint64(subtotal) {
		return 100
	}
	q, _ := bits.Div64(hi, lo, uint64(subtotal))
	return int64(q)
}

// FindBest returns the eligible coupon with the strictly greatest discount.
// Ties keep the coupon that comes first in the registry.
func (e *Evaluator) FindBest(b Basket) (Best, bool) {
	var (
		best  Coupon
		top   int64
		found bool
	)
	for _, c := range e.registry.coupons {
		if _, ok := eligibility(c, b); !ok {
			continue
		}
		d := c.DiscountFor(b.Subtotal)
		if !found || d > top {
			best, top, found = c, d, true
		}
	}
	if !found {
		return Best{}, false
	}

	pct := SavingsPercent(top, b.Subtotal)
	return Best{
		Code:           best.Code,
		Discount:       top,
		Reason:         reasonFor(b, top, pct),
		SavingsPercent: pct,
	}, true
}

// FindUpsell returns the first coupon in registry order that the basket does
// not meet the minimum for yet, is within UpsellThreshold of unlocking, and
// would beat currentBest once unlocked. Category restrictions must already be
// satisfied by the basket.
func (e *Evaluator) FindUpsell(b Basket, currentBest int64) (Upsell, bool) {
	if b.Empty() {
		return Upsell{}, false
	}
	for _, c := range e.registry.coupons {
		shortfall := c.MinCartValue - b.Subtotal
		if shortfall <= 0 || shortfall > UpsellThreshold {
			continue
		}
		if len(c.AllowedCategories) > 0 && !b.HasCategory(c.AllowedCategories...) {
			continue
		}
		potential := c.DiscountFor(c.MinCartValue)
		if potential <= currentBest {
			continue
		}
		extra := potential - currentBest
		return Upsell{
			TargetCode:   c.Code,
			AmountNeeded: shortfall,
			ExtraSavings: extra,
			Message: fmt.Sprintf("Add %s more to unlock %s and save %s extra!",
				FormatAmount(shortfall), c.Code, FormatAmount(extra)),
		}, true
	}
	return Upsell{}, false
}

// Suggest is the local recommendation path: the best coupon plus an upsell
// measured against it. It reports false when no coupon applies.
func (e *Evaluator) Suggest(b Basket) (Recommendation, bool) {
	best, ok := e.FindBest(b)
	if !ok {
		return Recommendation{}, false
	}
	rec := Recommendation{Best: best}
	if up, ok := e.FindUpsell(b, best.Discount); ok {
		rec.Upsell = &up
	}
	return rec, true
}

func reasonFor(b Basket, discount, savingsPercent int64) string {
	var reason string
	switch {
	case b.HasCategory(catalog.CategoryElectronics):
		reason = fmt.Sprintf("Save %s on your electronics purchase!", FormatAmount(discount))
	case b.HasCategory(catalog.CategoryGrocery, catalog.CategoryFood):
		reason = fmt.Sprintf("Stock up on groceries and save %s!", FormatAmount(discount))
	case b.HasCategory(catalog.CategoryFashion):
		reason = fmt.Sprintf("Refresh your wardrobe and save %s!", FormatAmount(discount))
	default:
		reason = fmt.Sprintf("Get %s off your order!", FormatAmount(discount))
	}
	if savingsPercent >= 20 {
		reason += " Limited time offer!"
	}
	return reason
}
