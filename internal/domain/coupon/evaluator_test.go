package coupon

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func basket(subtotal int64, categories ...string) Basket {
	return Basket{Subtotal: subtotal, Categories: categories}
}

func TestEvaluate(t *testing.T) {
	e := NewEvaluator(DefaultRegistry())

	tests := []struct {
		name         string
		basket       Basket
		code         string
		wantOutcome  Outcome
		wantDiscount int64
		wantMessage  string
	}{
		{
			name:         "flat coupon on electronics",
			basket:       basket(1200, "electronics"),
			code:         "FLAT200",
			wantOutcome:  OutcomeApplied,
			wantDiscount: 200,
			wantMessage:  "Coupon applied! You saved ₹200",
		},
		{
			name:        "below minimum",
			basket:      basket(50, "grocery"),
			code:        "WELCOME50",
			wantOutcome: OutcomeIneligible,
			wantMessage: "Minimum cart value of ₹100 required (add ₹50 more)",
		},
		{
			name:         "percent under cap",
			basket:       basket(900, "grocery"),
			code:         "GROCERY20",
			wantOutcome:  OutcomeApplied,
			wantDiscount: 180,
		},
		{
			name:         "minimum is inclusive",
			basket:       basket(100, "fashion"),
			code:         "WELCOME50",
			wantOutcome:  OutcomeApplied,
			wantDiscount: 50,
		},
		{
			name:         "discount is capped",
			basket:       basket(1000, "fashion"),
			code:         "WELCOME50",
			wantOutcome:  OutcomeApplied,
			wantDiscount: 200,
		},
		{
			name:         "percent floors before capping",
			basket:       basket(333, "grocery"),
			code:         "FOOD10",
			wantOutcome:  OutcomeApplied,
			wantDiscount: 33,
		},
		{
			name:        "category mismatch",
			basket:      basket(1500, "fashion"),
			code:        "FLAT200",
			wantOutcome: OutcomeIneligible,
			wantMessage: "Coupon only applicable to electronics items",
		},
		{
			name:        "codes are case sensitive",
			basket:      basket(1500, "fashion"),
			code:        "welcome50",
			wantOutcome: OutcomeInvalid,
			wantMessage: "Invalid coupon code",
		},
		{
			name:        "empty cart",
			basket:      basket(0),
			code:        "WELCOME50",
			wantOutcome: OutcomeIneligible,
			wantMessage: "Cart is empty",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := e.Evaluate(tt.basket, tt.code)

			assert.Equal(t, tt.wantOutcome, got.Outcome)
			assert.Equal(t, tt.wantOutcome == OutcomeApplied, got.OK())
			assert.Equal(t, tt.wantDiscount, got.Discount)
			if got.OK() {
				assert.Equal(t, tt.basket.Subtotal-tt.wantDiscount, got.NewTotal)
			}
			if tt.wantMessage != "" {
				assert.Equal(t, tt.wantMessage, got.Message)
			}
		})
	}
}

func TestEvaluate_MultiCategoryMessage(t *testing.T) {
	e := NewEvaluator(DefaultRegistry())

	got := e.Evaluate(basket(500, "fashion"), "FOOD10")

	assert.Equal(t, OutcomeIneligible, got.Outcome)
	assert.Equal(t, "Coupon only applicable to grocery, food items", got.Message)
}

func TestNewRegistry_RejectsDuplicates(t *testing.T) {
	_, err := NewRegistry([]Coupon{
		{Code: "A", Kind: KindFlat, Value: 10, MaxDiscount: 10},
		{Code: "A", Kind: KindFlat, Value: 20, MaxDiscount: 20},
	})
	require.Error(t, err)
	assert.Contains(t, err.Error(), "duplicate")
}

func TestNewRegistry_RejectsUnknownKind(t *testing.T) {
	_, err := NewRegistry([]Coupon{{Code: "A", Kind: "bogo"}})
	assert.Error(t, err)
}

func TestRegistry_AllKeepsOrder(t *testing.T) {
	codes := make([]string, 0, 7)
	for _, c := range DefaultRegistry().All() {
		codes = append(codes, c.Code)
	}
	assert.Equal(t, []string{"WELCOME50", "FLAT200", "FOOD10", "FASHION15", "GROCERY20", "TECH100", "MEGA500"}, codes)
}
