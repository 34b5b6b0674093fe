package advisory

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"sync"
	"time"

	"github.com/Pratham-Dabhane/Smart-Coupons/internal/domain/cart"
	"github.com/Pratham-Dabhane/Smart-Coupons/internal/domain/coupon"
	"github.com/Pratham-Dabhane/Smart-Coupons/internal/infrastructure/storage"
)

var (
	// ErrSuggestionRejected means the suggested coupon does not apply to the
	// current cart.
	ErrSuggestionRejected = errors.New("suggestion rejected")
	// ErrEmptySuggestion means the payload carried no recommended coupon.
	ErrEmptySuggestion = errors.New("suggestion has no recommended coupon")
)

// Publisher delivers a cart event to the advisor. Implementations that get a
// suggestion back synchronously return it; others return nil and the advisor
// answers through the inbound webhook.
type Publisher interface {
	Name() string
	Publish(ctx context.Context, ev CartEvent) (*Suggestion, error)
}

// Snapshotter gives read access to the current cart.
type Snapshotter interface {
	Snapshot() cart.Cart
}

// Config controls the bridge worker.
type Config struct {
	SessionID     string
	QueueSize     int
	Timeout       time.Duration
	LocalFallback bool
}

// Bridge queues cart events for the advisor and validates what comes back.
// A nil Publisher disables outbound calls; suggestions are then computed
// locally when LocalFallback is set.
type Bridge struct {
	cfg       Config
	publisher Publisher
	evaluator *coupon.Evaluator
	carts     Snapshotter
	calls     storage.AdvisoryCallRepository
	logger    *slog.Logger
	box       *Box

	queue  chan CartEvent
	ctx    context.Context
	cancel context.CancelFunc
	wg     sync.WaitGroup

	mu      sync.RWMutex
	closed  bool
	started bool

	seqMu   sync.Mutex
	lastSeq uint64
}

// NewBridge creates a bridge. Call Start to run the worker.
func NewBridge(
	cfg Config,
	publisher Publisher,
	evaluator *coupon.Evaluator,
	carts Snapshotter,
	calls storage.AdvisoryCallRepository,
	logger *slog.Logger,
) *Bridge {
	if cfg.QueueSize <= 0 {
		cfg.QueueSize = 64
	}
	if cfg.Timeout <= 0 {
		cfg.Timeout = 10 * time.Second
	}
	if logger == nil {
		logger = slog.Default()
	}
	ctx, cancel := context.WithCancel(context.Background())
	return &Bridge{
		cfg:       cfg,
		publisher: publisher,
		evaluator: evaluator,
		carts:     carts,
		calls:     calls,
		logger:    logger,
		box:       NewBox(),
		queue:     make(chan CartEvent, cfg.QueueSize),
		ctx:       ctx,
		cancel:    cancel,
	}
}

// Start runs the worker. Calling it more than once has no effect.
func (b *Bridge) Start() {
	b.mu.Lock()
	defer b.mu.Unlock()
	if b.started || b.closed {
		return
	}
	b.started = true

	b.wg.Add(1)
	go b.run()
}

// Close stops accepting events and waits for queued ones to finish. If ctx
// expires first, in-flight publishes are cancelled and the rest are dropped.
func (b *Bridge) Close(ctx context.Context) error {
	b.mu.Lock()
	if b.closed {
		b.mu.Unlock()
		return nil
	}
	b.closed = true
	close(b.queue)
	b.mu.Unlock()

	done := make(chan struct{})
	go func() {
		b.wg.Wait()
		close(done)
	}()

	select {
	case <-done:
		b.cancel()
		return nil
	case <-ctx.Done():
		b.cancel()
		<-done
		return ctx.Err()
	}
}

// OnCartChange is a cart.Listener. It never blocks. A change older than one
// already queued is dropped so the last event queued always carries the
// newest cart.
func (b *Bridge) OnCartChange(ch cart.Change) {
	b.seqMu.Lock()
	defer b.seqMu.Unlock()
	if ch.Seq != 0 && ch.Seq <= b.lastSeq {
		b.logger.Debug("stale cart change dropped", "seq", ch.Seq, "last_seq", b.lastSeq)
		return
	}
	b.lastSeq = ch.Seq

	ev := NewCartEvent(b.cfg.SessionID, string(ch.Kind), ch.Cart)
	ev.Seq = ch.Seq
	b.Notify(ev)
}

// Notify queues ev for the worker. It reports false if the event was
// dropped because the queue is full or the bridge is closed.
func (b *Bridge) Notify(ev CartEvent) bool {
	b.mu.RLock()
	defer b.mu.RUnlock()
	if b.closed {
		return false
	}

	select {
	case b.queue <- ev:
		b.logger.Debug("cart event queued", "event_id", ev.EventID, "reason", ev.Reason)
		return true
	default:
		b.logger.Warn("advisory queue full, dropping cart event", "event_id", ev.EventID, "queue_size", cap(b.queue))
		return false
	}
}

// Latest returns the current suggestion, if any.
func (b *Bridge) Latest() (Suggestion, bool) {
	return b.box.Latest()
}

// Subscribe streams suggestions as they are stored.
func (b *Bridge) Subscribe() (<-chan Suggestion, func()) {
	return b.box.Subscribe()
}

// Transport names the outbound transport, "none" when there is no publisher.
func (b *Bridge) Transport() string {
	if b.publisher == nil {
		return "none"
	}
	return b.publisher.Name()
}

// Receive validates s against the current cart and stores it. The stored
// discount is the one the evaluator grants, not the one claimed in s.
func (b *Bridge) Receive(s Suggestion) (Suggestion, error) {
	code := s.RecommendedCoupon.Code
	if code == "" {
		return Suggestion{}, ErrEmptySuggestion
	}

	snap := b.carts.Snapshot()
	ev := b.evaluator.Evaluate(snap.Basket(), code)
	if !ev.OK() {
		b.logger.Info("advisor suggestion rejected", "code", code, "reason", ev.Message)
		return Suggestion{}, fmt.Errorf("%w: %s: %s", ErrSuggestionRejected, code, ev.Message)
	}

	if s.RecommendedCoupon.Discount != ev.Discount {
		b.logger.Debug("advisor discount corrected",
			"code", code,
			"claimed", s.RecommendedCoupon.Discount,
			"actual", ev.Discount,
		)
	}
	s.RecommendedCoupon.Discount = ev.Discount
	s.RecommendedCoupon.SavingsPercent = coupon.SavingsPercent(ev.Discount, snap.Subtotal)
	if s.RecommendedCoupon.Reason == "" {
		s.RecommendedCoupon.Reason = ev.Message
	}
	if s.UpsellSuggestion != nil {
		if _, known := b.evaluator.Registry().Lookup(s.UpsellSuggestion.TargetCode); !known {
			s.UpsellSuggestion = nil
		}
	}
	if s.Source == "" {
		s.Source = SourceAdvisor
	}
	s.CartSnapshot = snap
	s.Timestamp = time.Now().UTC()

	b.box.Store(s)
	return s, nil
}

// Suggest computes a local suggestion for the current cart without storing it.
func (b *Bridge) Suggest() (Suggestion, bool) {
	snap := b.carts.Snapshot()
	rec, ok := b.evaluator.Suggest(snap.Basket())
	if !ok {
		return Suggestion{}, false
	}
	return FromRecommendation(rec, snap, SourceLocal), true
}

// Simulate runs one advisory round for the current cart synchronously and
// returns the suggestion it produced.
func (b *Bridge) Simulate(ctx context.Context) (Suggestion, bool) {
	ev := NewCartEvent(b.cfg.SessionID, "simulate", b.carts.Snapshot())
	return b.dispatch(ctx, ev)
}

func (b *Bridge) run() {
	defer b.wg.Done()
	for ev := range b.queue {
		if b.ctx.Err() != nil {
			b.logger.Debug("bridge closing, dropping cart event", "event_id", ev.EventID)
			continue
		}
		b.dispatch(b.ctx, ev)
	}
}

// dispatch publishes ev once, records the attempt and stores the resulting
// suggestion, falling back to a local one when configured.
func (b *Bridge) dispatch(ctx context.Context, ev CartEvent) (Suggestion, bool) {
	if b.publisher == nil {
		return b.storeLocal(SourceLocal)
	}

	start := time.Now()
	pctx, cancel := context.WithTimeout(ctx, b.cfg.Timeout)
	inline, err := b.publisher.Publish(pctx, ev)
	cancel()

	call := &storage.AdvisoryCall{
		EventID:    ev.EventID,
		SessionID:  ev.SessionID,
		Transport:  b.publisher.Name(),
		Subtotal:   ev.Cart.Subtotal,
		ItemCount:  ev.Cart.ItemCount(),
		DurationMs: time.Since(start).Milliseconds(),
	}

	var (
		stored Suggestion
		ok     bool
	)
	switch {
	case err != nil:
		call.Status = storage.CallStatusFailed
		call.Error = err.Error()
		b.logger.Warn("advisory publish failed",
			"event_id", ev.EventID,
			"transport", call.Transport,
			"error", err,
		)
	case inline == nil:
		call.Status = storage.CallStatusEmpty
	default:
		stored, err = b.Receive(*inline)
		if err != nil {
			call.Status = storage.CallStatusRejected
			call.Error = err.Error()
		} else {
			call.Status = storage.CallStatusSuccess
			ok = true
		}
	}
	b.record(call)

	if !ok && b.cfg.LocalFallback {
		return b.storeLocal(SourceLocalFallback)
	}
	return stored, ok
}

// storeLocal stores a locally computed suggestion. When the current cart
// has none, the stored suggestion is cleared.
func (b *Bridge) storeLocal(source string) (Suggestion, bool) {
	s, ok := b.Suggest()
	if !ok {
		b.box.Reset()
		return Suggestion{}, false
	}
	s.Source = source
	b.box.Store(s)
	return s, true
}

func (b *Bridge) record(call *storage.AdvisoryCall) {
	if b.calls == nil {
		return
	}
	if err := b.calls.LogAdvisoryCall(call); err != nil {
		b.logger.Warn("failed to record advisory call", "event_id", call.EventID, "error", err)
	}
}
