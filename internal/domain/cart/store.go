package cart

import (
	"fmt"
	"log/slog"
	"sync"

	"github.com/Pratham-Dabhane/Smart-Coupons/internal/domain/catalog"
	"github.com/Pratham-Dabhane/Smart-Coupons/internal/domain/coupon"
)

// ChangeKind names the mutation that produced a Change.
type ChangeKind string

const (
	ChangeItemAdded     ChangeKind = "item_added"
	ChangeItemRemoved   ChangeKind = "item_removed"
	ChangeCouponApplied ChangeKind = "coupon_applied"
	ChangeCleared       ChangeKind = "cleared"
)

// Change is emitted after every successful mutation. Seq increases by one per
// mutation, so a listener can tell the newest change apart from one that was
// delivered late.
type Change struct {
	Seq  uint64
	Kind ChangeKind
	Cart Cart
}

// Listener receives changes. It is called outside the store lock and must
// not block. Concurrent mutations may deliver changes out of Seq order.
type Listener func(Change)

// Store owns the one shared cart. All mutations are serialized.
type Store struct {
	catalog   *catalog.Catalog
	evaluator *coupon.Evaluator
	logger    *slog.Logger

	mu       sync.Mutex
	cart     Cart
	seq      uint64
	listener Listener
}

// NewStore creates an empty cart over catalog and evaluator.
func NewStore(cat *catalog.Catalog, evaluator *coupon.Evaluator, logger *slog.Logger) *Store {
	if logger == nil {
		logger = slog.Default()
	}
	return &Store{
		catalog:   cat,
		evaluator: evaluator,
		logger:    logger,
		cart:      Cart{Items: []LineItem{}},
	}
}

// OnChange registers the listener for cart changes, replacing any previous one.
func (s *Store) OnChange(l Listener) {
	s.mu.Lock()
	s.listener = l
	s.mu.Unlock()
}

// Snapshot returns a copy of the current cart.
func (s *Store) Snapshot() Cart {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.cart.Clone()
}

// AddItem adds quantity units of productID. Adding a product already in the
// cart increases its quantity and keeps the original price. A line may hold
// at most MaxQuantity units; an add that would exceed it, or overflow the
// subtotal, fails with ErrInvalidQuantity and leaves the cart unchanged.
func (s *Store) AddItem(productID string, quantity int64) (Cart, error) {
	if quantity <= 0 || quantity > MaxQuantity {
		return Cart{}, fmt.Errorf("add %s: %w: %d", productID, ErrInvalidQuantity, quantity)
	}
	p, ok := s.catalog.Lookup(productID)
	if !ok {
		return Cart{}, fmt.Errorf("add %s: %w", productID, ErrProductNotFound)
	}

	s.mu.Lock()
	items := s.cart.Clone().Items
	if i := s.cart.find(productID); i >= 0 {
		items[i].Quantity += quantity
		if items[i].Quantity > MaxQuantity {
			s.mu.Unlock()
			return Cart{}, fmt.Errorf("add %s: %w: line would hold %d, max %d",
				productID, ErrInvalidQuantity, items[i].Quantity, MaxQuantity)
		}
	} else {
		items = append(items, LineItem{
			ProductID: p.ID,
			Name:      p.Name,
			Price:     p.Price,
			Quantity:  quantity,
			Category:  p.Category,
		})
	}
	if _, ok := checkedSubtotal(items); !ok {
		s.mu.Unlock()
		return Cart{}, fmt.Errorf("add %s: %w: subtotal out of range", productID, ErrInvalidQuantity)
	}
	s.cart.Items = items
	s.settle()
	ch, l := s.change(ChangeItemAdded), s.listener
	s.mu.Unlock()

	s.logger.Debug("item added", "product_id", productID, "qty", quantity, "subtotal", ch.Cart.Subtotal)
	emit(l, ch)
	return ch.Cart, nil
}

// RemoveItem takes quantity units of productID out of the cart. A quantity of
// zero removes the whole line, as does decrementing to zero or below.
func (s *Store) RemoveItem(productID string, quantity int64) (Cart, error) {
	if quantity < 0 {
		return Cart{}, fmt.Errorf("remove %s: %w: %d", productID, ErrInvalidQuantity, quantity)
	}

	s.mu.Lock()
	i := s.cart.find(productID)
	if i < 0 {
		s.mu.Unlock()
		return Cart{}, fmt.Errorf("remove %s: %w", productID, ErrItemNotInCart)
	}
	if quantity == 0 || s.cart.Items[i].Quantity <= quantity {
		s.cart.Items = append(s.cart.Items[:i], s.cart.Items[i+1:]...)
	} else {
		s.cart.Items[i].Quantity -= quantity
	}
	s.settle()
	ch, l := s.change(ChangeItemRemoved), s.listener
	s.mu.Unlock()

	s.logger.Debug("item removed", "product_id", productID, "qty", quantity, "subtotal", ch.Cart.Subtotal)
	emit(l, ch)
	return ch.Cart, nil
}

// ApplyCoupon evaluates code against the cart and applies it on success.
// A rejected code leaves the cart untouched; the rejection is in the returned
// Evaluation, not an error.
func (s *Store) ApplyCoupon(code string) (Cart, coupon.Evaluation) {
	s.mu.Lock()
	ev := s.evaluator.Evaluate(s.cart.Basket(), code)
	if !ev.OK() {
		snap := s.cart.Clone()
		s.mu.Unlock()
		s.logger.Debug("coupon rejected", "code", code, "outcome", ev.Outcome, "reason", ev.Message)
		return snap, ev
	}
	s.cart.Discount = ev.Discount
	s.cart.AppliedCoupon = ev.Code
	s.cart.recompute()
	ch, l := s.change(ChangeCouponApplied), s.listener
	s.mu.Unlock()

	s.logger.Info("coupon applied", "code", code, "discount", ev.Discount, "total", ch.Cart.Total)
	emit(l, ch)
	return ch.Cart, ev
}

// Clear empties the cart and drops any applied coupon.
func (s *Store) Clear() Cart {
	s.mu.Lock()
	s.cart = Cart{Items: []LineItem{}}
	ch, l := s.change(ChangeCleared), s.listener
	s.mu.Unlock()

	s.logger.Debug("cart cleared")
	emit(l, ch)
	return ch.Cart
}

// Evaluate runs code against the current cart without changing it.
func (s *Store) Evaluate(code string) coupon.Evaluation {
	return s.evaluator.Evaluate(s.Snapshot().Basket(), code)
}

// settle recomputes totals after a structural change and re-validates the
// applied coupon against the new contents. Caller holds s.mu.
func (s *Store) settle() {
	s.cart.recompute()
	if s.cart.AppliedCoupon == "" {
		return
	}
	code := s.cart.AppliedCoupon
	ev := s.evaluator.Evaluate(s.cart.Basket(), code)
	if !ev.OK() {
		s.cart.dropCoupon()
		s.logger.Info("coupon removed after cart change", "code", code, "reason", ev.Message)
		return
	}
	s.cart.Discount = ev.Discount
	s.cart.recompute()
}

// change stamps the next sequence number on a snapshot. Caller holds s.mu.
func (s *Store) change(kind ChangeKind) Change {
	s.seq++
	return Change{Seq: s.seq, Kind: kind, Cart: s.cart.Clone()}
}

func emit(l Listener, ch Change) {
	if l != nil {
		l(ch)
	}
}
