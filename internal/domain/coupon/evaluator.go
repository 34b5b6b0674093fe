package coupon

import "fmt"

// Basket is the part of a cart the evaluator needs: its subtotal and the
// category of every line item.
type Basket struct {
	Subtotal   int64
	Categories []string
}

// Empty reports whether the basket has no line items.
func (b Basket) Empty() bool {
	return len(b.Categories) == 0
}

// HasCategory reports whether any line item belongs to one of categories.
func (b Basket) HasCategory(categories ...string) bool {
	for _, have := range b.Categories {
		for _, want := range categories {
			if have == want {
				return true
			}
		}
	}
	return false
}

// Outcome classifies an Evaluation.
type Outcome string

const (
	OutcomeApplied    Outcome = "applied"
	OutcomeInvalid    Outcome = "invalid_coupon"
	OutcomeIneligible Outcome = "ineligible"
)

// Evaluation is the result of checking one code against a basket.
// Rejections are ordinary values with a user-facing message.
type Evaluation struct {
	Code     string
	Outcome  Outcome
	Discount int64
	NewTotal int64
	Message  string
}

// OK reports whether the coupon can be applied.
func (e Evaluation) OK() bool {
	return e.Outcome == OutcomeApplied
}

// UpsellThreshold is the largest shortfall worth suggesting to the user.
const UpsellThreshold int64 = 1000

// Evaluator applies the registry's coupons to baskets. It holds no cart
// state and is safe for concurrent use.
type Evaluator struct {
	registry *Registry
}

// NewEvaluator creates an evaluator over registry.
func NewEvaluator(registry *Registry) *Evaluator {
	return &Evaluator{registry: registry}
}

// Registry returns the registry the evaluator reads from.
func (e *Evaluator) Registry() *Registry {
	return e.registry
}

// Evaluate checks code against b and computes the discount it would grant.
func (e *Evaluator) Evaluate(b Basket, code string) Evaluation {
	c, ok := e.registry.Lookup(code)
	if !ok {
		return Evaluation{Code: code, Outcome: OutcomeInvalid, Message: "Invalid coupon code"}
	}
	if reason, eligible := eligibility(c, b); !eligible {
		return Evaluation{Code: code, Outcome: OutcomeIneligible, Message: reason}
	}

	discount := c.DiscountFor(b.Subtotal)
	return Evaluation{
		Code:     code,
		Outcome:  OutcomeApplied,
		Discount: discount,
		NewTotal: b.Subtotal - discount,
		Message:  fmt.Sprintf("Coupon applied! You saved %s", FormatAmount(discount)),
	}
}

// eligibility returns the rejection message when c does not apply to b.
func eligibility(c Coupon, b Basket) (string, bool) {
	if b.Empty() {
		return "Cart is empty", false
	}
	if b.Subtotal < c.MinCartValue {
		return fmt.Sprintf("Minimum cart value of %s required (add %s more)",
			FormatAmount(c.MinCartValue), FormatAmount(c.MinCartValue-b.Subtotal)), false
	}
	if len(c.AllowedCategories) > 0 && !b.HasCategory(c.AllowedCategories...) {
		return fmt.Sprintf("Coupon only applicable to %s items", joinCategories(c.AllowedCategories)), false
	}
	return "", true
}
