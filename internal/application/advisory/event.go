package advisory

import (
	"time"

	"github.com/google/uuid"

	"github.com/Pratham-Dabhane/Smart-Coupons/internal/domain/cart"
)

// EventSource identifies this service in outbound events.
const EventSource = "smart-coupons-app"

// SecretHeader carries the shared webhook secret in both directions.
const SecretHeader = "X-Webhook-Secret"

// User segments
const (
	SegmentVIP = "vip"
	SegmentNew = "new"
)

// vipThreshold is the subtotal above which a shopper counts as VIP.
const vipThreshold int64 = 5000

// CartEvent is the outbound "cart changed" message.
type CartEvent struct {
	EventID     string    `json:"eventId"`
	Seq         uint64    `json:"seq,omitempty"`
	SessionID   string    `json:"sessionId"`
	Reason      string    `json:"reason"`
	UserSegment string    `json:"userSegment"`
	Source      string    `json:"source"`
	Cart        cart.Cart `json:"cart"`
	Timestamp   time.Time `json:"timestamp"`
}

// NewCartEvent wraps a cart snapshot in an event with a fresh ID.
func NewCartEvent(sessionID, reason string, c cart.Cart) CartEvent {
	return CartEvent{
		EventID:     uuid.NewString(),
		SessionID:   sessionID,
		Reason:      reason,
		UserSegment: SegmentFor(c),
		Source:      EventSource,
		Cart:        c,
		Timestamp:   time.Now().UTC(),
	}
}

// SegmentFor classifies the shopper by cart size.
func SegmentFor(c cart.Cart) string {
	if c.Subtotal > vipThreshold {
		return SegmentVIP
	}
	return SegmentNew
}
