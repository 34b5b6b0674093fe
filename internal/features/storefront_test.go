// Package features runs the storefront acceptance scenarios.
package features

import (
	"context"
	"errors"
	"fmt"
	"strconv"
	"testing"

	"github.com/cucumber/godog"

	"github.com/Pratham-Dabhane/Smart-Coupons/internal/domain/cart"
	"github.com/Pratham-Dabhane/Smart-Coupons/internal/domain/catalog"
	"github.com/Pratham-Dabhane/Smart-Coupons/internal/domain/coupon"
	"github.com/Pratham-Dabhane/Smart-Coupons/internal/infrastructure/logging"
)

type storefrontTestContext struct {
	products  []catalog.Product
	evaluator *coupon.Evaluator
	store     *cart.Store
	last      coupon.Evaluation
	err       error
}

func (c *storefrontTestContext) reset() {
	c.products = nil
	c.evaluator = coupon.NewEvaluator(coupon.DefaultRegistry())
	c.store = nil
	c.last = coupon.Evaluation{}
	c.err = nil
}

func (c *storefrontTestContext) theCatalog(table *godog.Table) error {
	for i, row := range table.Rows {
		if i == 0 {
			continue
		}
		if len(row.Cells) != 4 {
			return fmt.Errorf("catalog row %d: want 4 cells, got %d", i, len(row.Cells))
		}
		price, err := strconv.ParseInt(row.Cells[2].Value, 10, 64)
		if err != nil {
			return fmt.Errorf("catalog row %d: %w", i, err)
		}
		c.products = append(c.products, catalog.Product{
			ID:       row.Cells[0].Value,
			Name:     row.Cells[1].Value,
			Price:    price,
			Category: row.Cells[3].Value,
		})
	}
	return nil
}

func (c *storefrontTestContext) anEmptyCart() error {
	c.store = cart.NewStore(catalog.New(c.products), c.evaluator, logging.Discard())
	return nil
}

func (c *storefrontTestContext) iAddOf(qty int, productID string) error {
	_, c.err = c.store.AddItem(productID, int64(qty))
	return c.err
}

func (c *storefrontTestContext) iRemove(productID string) error {
	_, c.err = c.store.RemoveItem(productID, 0)
	return c.err
}

func (c *storefrontTestContext) iApplyCoupon(code string) error {
	_, c.last = c.store.ApplyCoupon(code)
	return nil
}

func (c *storefrontTestContext) theCouponIsAppliedWithDiscount(discount int) error {
	if !c.last.OK() {
		return fmt.Errorf("expected coupon to apply, got %q", c.last.Message)
	}
	if c.last.Discount != int64(discount) {
		return fmt.Errorf("expected discount %d, got %d", discount, c.last.Discount)
	}
	if got := c.store.Snapshot().Discount; got != int64(discount) {
		return fmt.Errorf("expected cart discount %d, got %d", discount, got)
	}
	return nil
}

func (c *storefrontTestContext) theCouponIsRejectedWithMessage(message string) error {
	if c.last.OK() {
		return errors.New("expected coupon to be rejected but it applied")
	}
	if c.last.Message != message {
		return fmt.Errorf("expected message %q, got %q", message, c.last.Message)
	}
	return nil
}

func (c *storefrontTestContext) theCartSubtotalIs(subtotal int) error {
	if got := c.store.Snapshot().Subtotal; got != int64(subtotal) {
		return fmt.Errorf("expected subtotal %d, got %d", subtotal, got)
	}
	return nil
}

func (c *storefrontTestContext) theCartTotalIs(total int) error {
	if got := c.store.Snapshot().Total; got != int64(total) {
		return fmt.Errorf("expected total %d, got %d", total, got)
	}
	return nil
}

func (c *storefrontTestContext) theCartHasNoAppliedCoupon() error {
	snap := c.store.Snapshot()
	if snap.AppliedCoupon != "" || snap.Discount != 0 {
		return fmt.Errorf("expected no coupon, got %q with discount %d", snap.AppliedCoupon, snap.Discount)
	}
	return nil
}

func (c *storefrontTestContext) theAppliedCouponIs(code string) error {
	if got := c.store.Snapshot().AppliedCoupon; got != code {
		return fmt.Errorf("expected applied coupon %q, got %q", code, got)
	}
	return nil
}

func (c *storefrontTestContext) theBestCouponIsWithDiscount(code string, discount int) error {
	best, ok := c.evaluator.FindBest(c.store.Snapshot().Basket())
	if !ok {
		return errors.New("expected an eligible coupon, got none")
	}
	if best.Code != code || best.Discount != int64(discount) {
		return fmt.Errorf("expected %s saving %d, got %s saving %d", code, discount, best.Code, best.Discount)
	}
	return nil
}

func (c *storefrontTestContext) thereIsNoEligibleCoupon() error {
	if best, ok := c.evaluator.FindBest(c.store.Snapshot().Basket()); ok {
		return fmt.Errorf("expected no eligible coupon, got %s", best.Code)
	}
	return nil
}

func (c *storefrontTestContext) upsell() (coupon.Upsell, bool) {
	basket := c.store.Snapshot().Basket()
	var current int64
	if best, ok := c.evaluator.FindBest(basket); ok {
		current = best.Discount
	}
	return c.evaluator.FindUpsell(basket, current)
}

func (c *storefrontTestContext) theUpsellSuggestsNeedingMoreForExtra(code string, needed, extra int) error {
	up, ok := c.upsell()
	if !ok {
		return errors.New("expected an upsell, got none")
	}
	if up.TargetCode != code || up.AmountNeeded != int64(needed) || up.ExtraSavings != int64(extra) {
		return fmt.Errorf("expected %s needing %d for %d extra, got %s needing %d for %d extra",
			code, needed, extra, up.TargetCode, up.AmountNeeded, up.ExtraSavings)
	}
	return nil
}

func (c *storefrontTestContext) thereIsNoUpsell() error {
	if up, ok := c.upsell(); ok {
		return fmt.Errorf("expected no upsell, got %s", up.TargetCode)
	}
	return nil
}

func InitializeScenario(ctx *godog.ScenarioContext) {
	tc := &storefrontTestContext{}

	ctx.Before(func(ctx context.Context, sc *godog.Scenario) (context.Context, error) {
		tc.reset()
		return ctx, nil
	})

	// Given steps
	ctx.Step(`^the catalog:$`, tc.theCatalog)
	ctx.Step(`^an empty cart$`, tc.anEmptyCart)

	// When steps
	ctx.Step(`^I add (\d+) of "([^"]*)"$`, tc.iAddOf)
	ctx.Step(`^I remove "([^"]*)"$`, tc.iRemove)
	ctx.Step(`^I apply coupon "([^"]*)"$`, tc.iApplyCoupon)

	// Then steps
	ctx.Step(`^the coupon is applied with discount (\d+)$`, tc.theCouponIsAppliedWithDiscount)
	ctx.Step(`^the coupon is rejected with message "([^"]*)"$`, tc.theCouponIsRejectedWithMessage)
	ctx.Step(`^the cart subtotal is (\d+)$`, tc.theCartSubtotalIs)
	ctx.Step(`^the cart total is (\d+)$`, tc.theCartTotalIs)
	ctx.Step(`^the cart has no applied coupon$`, tc.theCartHasNoAppliedCoupon)
	ctx.Step(`^the applied coupon is "([^"]*)"$`, tc.theAppliedCouponIs)
	ctx.Step(`^the best coupon is "([^"]*)" with discount (\d+)$`, tc.theBestCouponIsWithDiscount)
	ctx.Step(`^there is no eligible coupon$`, tc.thereIsNoEligibleCoupon)
	ctx.Step(`^the upsell suggests "([^"]*)" needing (\d+) more for (\d+) extra$`, tc.theUpsellSuggestsNeedingMoreForExtra)
	ctx.Step(`^there is no upsell$`, tc.thereIsNoUpsell)
}

func TestFeatures(t *testing.T) {
	suite := godog.TestSuite{
		ScenarioInitializer: InitializeScenario,
		Options: &godog.Options{
			Format:   "pretty",
			Paths:    []string{"storefront.feature"},
			TestingT: t,
		},
	}

	if suite.Run() != 0 {
		t.Fatal("non-zero status returned, failed to run feature tests")
	}
}
