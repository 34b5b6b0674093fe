// Package cart holds the single storefront cart and its mutation rules.
package cart

import (
	"errors"
	"math"

	"github.com/Pratham-Dabhane/Smart-Coupons/internal/domain/coupon"
)

var (
	ErrProductNotFound = errors.New("product not found")
	ErrItemNotInCart   = errors.New("item not in cart")
	ErrInvalidQuantity = errors.New("invalid quantity")
)

// MaxQuantity bounds the units of a single product in the cart.
const MaxQuantity int64 = 10_000

// LineItem is one product in the cart. Name, price and category are copied
// from the catalog when the product is first added.
type LineItem struct {
	ProductID string `json:"productId"`
	Name      string `json:"name"`
	Price     int64  `json:"price"`
	Quantity  int64  `json:"qty"`
	Category  string `json:"category"`
}

// LineTotal is price times quantity.
func (l LineItem) LineTotal() int64 {
	return l.Price * l.Quantity
}

// Cart is a value snapshot of the cart. Items keep insertion order.
type Cart struct {
	Items         []LineItem `json:"items"`
	Subtotal      int64      `json:"subtotal"`
	Discount      int64      `json:"discount,omitempty"`
	AppliedCoupon string     `json:"appliedCoupon,omitempty"`
	Total         int64      `json:"total"`
}

// Empty reports whether the cart has no line items.
func (c Cart) Empty() bool {
	return len(c.Items) == 0
}

// ItemCount is the sum of all quantities.
func (c Cart) ItemCount() int64 {
	var n int64
	for _, it := range c.Items {
		n += it.Quantity
	}
	return n
}

// Basket projects the cart for coupon evaluation.
func (c Cart) Basket() coupon.Basket {
	cats := make([]string, 0, len(c.Items))
	for _, it := range c.Items {
		cats = append(cats, it.Category)
	}
	return coupon.Basket{Subtotal: c.Subtotal, Categories: cats}
}

// Clone returns a deep copy. Items is never nil so it encodes as [].
func (c Cart) Clone() Cart {
	out := c
	out.Items = make([]LineItem, len(c.Items))
	copy(out.Items, c.Items)
	return out
}

func (c *Cart) find(productID string) int {
	for i, it := range c.Items {
		if it.ProductID == productID {
			return i
		}
	}
	return -1
}

// checkedSubtotal sums items, reporting false if any line total or the sum
// overflows int64.
func checkedSubtotal(items []LineItem) (int64, bool) {
	var subtotal int64
	for _, it := range items {
		if it.Price < 0 || it.Quantity < 0 {
			return 0, false
		}
		if it.Quantity != 0 && it.Price > math.MaxInt64/it.Quantity {
			return 0, false
		}
		line := it.Price * it.Quantity
		if subtotal > math.MaxInt64-line {
			return 0, false
		}
		subtotal += line
	}
	return subtotal, true
}

func (c *Cart) recompute() {
	var subtotal int64
	for _, it := range c.Items {
		subtotal += it.LineTotal()
	}
	c.Subtotal = subtotal
	c.Total = subtotal - c.Discount
}

func (c *Cart) dropCoupon() {
	c.Discount = 0
	c.AppliedCoupon = ""
	c.Total = c.Subtotal
}
