package handlers_test

import (
	"net/http"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/Pratham-Dabhane/Smart-Coupons/internal/api/dto"
	"github.com/Pratham-Dabhane/Smart-Coupons/internal/api/handlers"
	"github.com/Pratham-Dabhane/Smart-Coupons/internal/domain/cart"
	"github.com/Pratham-Dabhane/Smart-Coupons/internal/infrastructure/logging"
)

func TestCartHandler_Get(t *testing.T) {
	f := newFixture(t)
	h := handlers.NewCartHandler(f.store, logging.Discard())

	rec := serve(h.Get, http.MethodGet, "/cart", nil)

	assert.Equal(t, http.StatusOK, rec.Code)
	assert.JSONEq(t, `{"items":[],"subtotal":0,"total":0}`, rec.Body.String())
}

func TestCartHandler_Add(t *testing.T) {
	t.Run("adds product with default quantity", func(t *testing.T) {
		f := newFixture(t)
		h := handlers.NewCartHandler(f.store, logging.Discard())

		rec := serve(h.Add, http.MethodPost, "/cart/add", jsonBody(t, map[string]string{"productId": "p1"}))

		assert.Equal(t, http.StatusOK, rec.Code)
		c := decode[cart.Cart](t, rec)
		require.Len(t, c.Items, 1)
		assert.Equal(t, int64(1), c.Items[0].Quantity)
		assert.Equal(t, int64(1499), c.Subtotal)
		assert.Equal(t, int64(1499), c.Total)
	})

	t.Run("adds explicit quantity", func(t *testing.T) {
		f := newFixture(t)
		h := handlers.NewCartHandler(f.store, logging.Discard())

		rec := serve(h.Add, http.MethodPost, "/cart/add", jsonBody(t, map[string]interface{}{"productId": "p13", "qty": 3}))

		assert.Equal(t, http.StatusOK, rec.Code)
		assert.Equal(t, int64(897), decode[cart.Cart](t, rec).Subtotal)
	})

	t.Run("returns 404 for unknown product", func(t *testing.T) {
		f := newFixture(t)
		h := handlers.NewCartHandler(f.store, logging.Discard())

		rec := serve(h.Add, http.MethodPost, "/cart/add", jsonBody(t, map[string]string{"productId": "nope"}))

		assert.Equal(t, http.StatusNotFound, rec.Code)
		assert.Equal(t, dto.ErrCodeProductNotFound, decode[dto.APIError](t, rec).Code)
	})

	t.Run("returns 400 for zero quantity", func(t *testing.T) {
		f := newFixture(t)
		h := handlers.NewCartHandler(f.store, logging.Discard())

		rec := serve(h.Add, http.MethodPost, "/cart/add", jsonBody(t, map[string]interface{}{"productId": "p1", "qty": 0}))

		assert.Equal(t, http.StatusBadRequest, rec.Code)
		assert.Equal(t, dto.ErrCodeInvalidQuantity, decode[dto.APIError](t, rec).Code)
	})

	t.Run("returns 400 for a quantity that would overflow the subtotal", func(t *testing.T) {
		f := newFixture(t)
		h := handlers.NewCartHandler(f.store, logging.Discard())

		rec := serve(h.Add, http.MethodPost, "/cart/add", jsonBody(t, map[string]interface{}{"productId": "p1", "qty": int64(9223372036854775)}))

		assert.Equal(t, http.StatusBadRequest, rec.Code)
		assert.Equal(t, dto.ErrCodeInvalidQuantity, decode[dto.APIError](t, rec).Code)
		assert.True(t, f.store.Snapshot().Empty())
	})

	t.Run("returns 400 without productId", func(t *testing.T) {
		f := newFixture(t)
		h := handlers.NewCartHandler(f.store, logging.Discard())

		rec := serve(h.Add, http.MethodPost, "/cart/add", strings.NewReader(`{}`))

		assert.Equal(t, http.StatusBadRequest, rec.Code)
		assert.Equal(t, dto.ErrCodeValidation, decode[dto.APIError](t, rec).Code)
	})

	t.Run("returns 400 for malformed JSON", func(t *testing.T) {
		f := newFixture(t)
		h := handlers.NewCartHandler(f.store, logging.Discard())

		rec := serve(h.Add, http.MethodPost, "/cart/add", strings.NewReader(`{"productId":`))

		assert.Equal(t, http.StatusBadRequest, rec.Code)
		assert.Equal(t, dto.ErrCodeBadRequest, decode[dto.APIError](t, rec).Code)
	})
}

func TestCartHandler_Remove(t *testing.T) {
	t.Run("decrements quantity", func(t *testing.T) {
		f := newFixture(t)
		_, err := f.store.AddItem("p13", 3)
		require.NoError(t, err)
		h := handlers.NewCartHandler(f.store, logging.Discard())

		rec := serve(h.Remove, http.MethodPost, "/cart/remove", jsonBody(t, map[string]interface{}{"productId": "p13", "qty": 1}))

		assert.Equal(t, http.StatusOK, rec.Code)
		c := decode[cart.Cart](t, rec)
		require.Len(t, c.Items, 1)
		assert.Equal(t, int64(2), c.Items[0].Quantity)
	})

	t.Run("missing qty removes the line", func(t *testing.T) {
		f := newFixture(t)
		_, err := f.store.AddItem("p13", 3)
		require.NoError(t, err)
		h := handlers.NewCartHandler(f.store, logging.Discard())

		rec := serve(h.Remove, http.MethodPost, "/cart/remove", jsonBody(t, map[string]string{"productId": "p13"}))

		assert.Equal(t, http.StatusOK, rec.Code)
		assert.Empty(t, decode[cart.Cart](t, rec).Items)
	})

	t.Run("returns 404 when item is not in cart", func(t *testing.T) {
		f := newFixture(t)
		h := handlers.NewCartHandler(f.store, logging.Discard())

		rec := serve(h.Remove, http.MethodPost, "/cart/remove", jsonBody(t, map[string]string{"productId": "p1"}))

		assert.Equal(t, http.StatusNotFound, rec.Code)
		assert.Equal(t, dto.ErrCodeItemNotInCart, decode[dto.APIError](t, rec).Code)
	})
}

func TestCartHandler_ApplyCoupon(t *testing.T) {
	t.Run("applies eligible coupon", func(t *testing.T) {
		f := newFixture(t)
		_, err := f.store.AddItem("p1", 1)
		require.NoError(t, err)
		h := handlers.NewCartHandler(f.store, logging.Discard())

		rec := serve(h.ApplyCoupon, http.MethodPost, "/cart/apply-coupon", jsonBody(t, map[string]string{"code": "FLAT200"}))

		assert.Equal(t, http.StatusOK, rec.Code)
		resp := decode[dto.ApplyCouponResponse](t, rec)
		assert.True(t, resp.Success)
		assert.Equal(t, "Coupon applied! You saved ₹200", resp.Message)
		require.NotNil(t, resp.Discount)
		require.NotNil(t, resp.NewTotal)
		assert.Equal(t, int64(200), *resp.Discount)
		assert.Equal(t, int64(1299), *resp.NewTotal)
		assert.Equal(t, "FLAT200", resp.Cart.AppliedCoupon)
		assert.Equal(t, int64(1299), resp.Cart.Total)
	})

	tests := []struct {
		name     string
		products []string
		code     string
		message  string
	}{
		{name: "unknown code", products: []string{"p1"}, code: "BOGUS", message: "Invalid coupon code"},
		{name: "empty cart", code: "WELCOME50", message: "Cart is empty"},
		{name: "below minimum", products: []string{"p13"}, code: "FLAT200", message: "Minimum cart value of ₹1000 required (add ₹701 more)"},
		{name: "wrong category", products: []string{"p4"}, code: "FLAT200", message: "Coupon only applicable to electronics items"},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			f := newFixture(t)
			for _, id := range tt.products {
				_, err := f.store.AddItem(id, 1)
				require.NoError(t, err)
			}
			before := f.store.Snapshot()
			h := handlers.NewCartHandler(f.store, logging.Discard())

			rec := serve(h.ApplyCoupon, http.MethodPost, "/cart/apply-coupon", jsonBody(t, map[string]string{"code": tt.code}))

			assert.Equal(t, http.StatusOK, rec.Code)
			resp := decode[dto.ApplyCouponResponse](t, rec)
			assert.False(t, resp.Success)
			assert.Equal(t, tt.message, resp.Message)
			assert.Nil(t, resp.Discount)
			assert.Nil(t, resp.NewTotal)
			assert.Equal(t, before, f.store.Snapshot())
		})
	}
}

func TestCartHandler_Clear(t *testing.T) {
	f := newFixture(t)
	_, err := f.store.AddItem("p1", 2)
	require.NoError(t, err)
	f.store.ApplyCoupon("WELCOME50")
	h := handlers.NewCartHandler(f.store, logging.Discard())

	rec := serve(h.Clear, http.MethodPost, "/cart/clear", nil)

	assert.Equal(t, http.StatusOK, rec.Code)
	c := decode[cart.Cart](t, rec)
	assert.Empty(t, c.Items)
	assert.Zero(t, c.Total)
	assert.Empty(t, c.AppliedCoupon)
}
