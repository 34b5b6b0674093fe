package handlers

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"log/slog"
	"net/http"
	"strconv"

	"github.com/Pratham-Dabhane/Smart-Coupons/internal/api/dto"
	"github.com/Pratham-Dabhane/Smart-Coupons/internal/application/advisory"
	"github.com/Pratham-Dabhane/Smart-Coupons/internal/domain/cart"
	"github.com/Pratham-Dabhane/Smart-Coupons/internal/domain/coupon"
)

// maxBodyBytes caps request bodies read by the handlers.
const maxBodyBytes = 1 << 20

// CartService is the cart the handlers operate on.
type CartService interface {
	Snapshot() cart.Cart
	AddItem(productID string, quantity int64) (cart.Cart, error)
	RemoveItem(productID string, quantity int64) (cart.Cart, error)
	ApplyCoupon(code string) (cart.Cart, coupon.Evaluation)
	Clear() cart.Cart
}

// Advisor is the advisory side of the storefront.
type Advisor interface {
	Latest() (advisory.Suggestion, bool)
	Subscribe() (<-chan advisory.Suggestion, func())
	Receive(s advisory.Suggestion) (advisory.Suggestion, error)
	Suggest() (advisory.Suggestion, bool)
	Simulate(ctx context.Context) (advisory.Suggestion, bool)
	Notify(ev advisory.CartEvent) bool
	Transport() string
}

// Base provides shared functionality for all handlers.
type Base struct {
	logger *slog.Logger
}

// NewBase creates a new base handler with the given logger.
func NewBase(logger *slog.Logger) *Base {
	if logger == nil {
		logger = slog.Default()
	}
	return &Base{logger: logger}
}

// WriteJSON writes a JSON response with the given status code.
func (b *Base) WriteJSON(w http.ResponseWriter, status int, data interface{}) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	_ = json.NewEncoder(w).Encode(data)
}

// WriteError writes an error response with the given status code.
func (b *Base) WriteError(w http.ResponseWriter, status int, err dto.APIError) {
	b.WriteJSON(w, status, err)
}

// DecodeJSON reads a JSON request body into v. An empty body leaves v as is.
func (b *Base) DecodeJSON(w http.ResponseWriter, r *http.Request, v interface{}) error {
	body, err := io.ReadAll(http.MaxBytesReader(w, r.Body, maxBodyBytes))
	if err != nil {
		return fmt.Errorf("read body: %w", err)
	}
	if len(body) == 0 {
		return nil
	}
	if err := json.Unmarshal(body, v); err != nil {
		var syntaxErr *json.SyntaxError
		var typeErr *json.UnmarshalTypeError
		switch {
		case errors.As(err, &syntaxErr):
			return fmt.Errorf("malformed JSON at offset %d", syntaxErr.Offset)
		case errors.As(err, &typeErr):
			return fmt.Errorf("invalid value for field %q", typeErr.Field)
		default:
			return errors.New("invalid JSON body")
		}
	}
	return nil
}

// ParseIntParam parses an integer query parameter with a default value.
func ParseIntParam(r *http.Request, name string, defaultVal int) int {
	val := r.URL.Query().Get(name)
	if val == "" {
		return defaultVal
	}
	parsed, err := strconv.Atoi(val)
	if err != nil {
		return defaultVal
	}
	return parsed
}
