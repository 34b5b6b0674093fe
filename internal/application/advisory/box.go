package advisory

import "sync"

// Box keeps the latest suggestion. Pollers read it with Latest; push clients
// Subscribe and receive only the newest value they have not consumed. A zero
// Suggestion on a subscription means the value was cleared.
type Box struct {
	mu     sync.RWMutex
	latest *Suggestion
	subs   map[int]chan Suggestion
	nextID int
}

// NewBox creates an empty box.
func NewBox() *Box {
	return &Box{subs: make(map[int]chan Suggestion)}
}

// Latest returns the most recent suggestion, if any.
func (b *Box) Latest() (Suggestion, bool) {
	b.mu.RLock()
	defer b.mu.RUnlock()
	if b.latest == nil {
		return Suggestion{}, false
	}
	return *b.latest, true
}

// Store replaces the latest suggestion and notifies subscribers.
func (b *Box) Store(s Suggestion) {
	b.mu.Lock()
	defer b.mu.Unlock()

	b.latest = &s
	b.broadcast(s)
}

// Reset clears the latest suggestion. Subscribers are sent a zero Suggestion
// unless the box was already empty.
func (b *Box) Reset() {
	b.mu.Lock()
	defer b.mu.Unlock()

	if b.latest == nil {
		return
	}
	b.latest = nil
	b.broadcast(Suggestion{})
}

// broadcast pushes s to every subscriber. Caller holds b.mu.
func (b *Box) broadcast(s Suggestion) {
	for _, ch := range b.subs {
		// Replace an undelivered value so slow readers only see the newest.
		select {
		case <-ch:
		default:
		}
		select {
		case ch <- s:
		default:
		}
	}
}

// Subscribe returns a channel of suggestions and a cancel func that closes it.
// The current value, if any, is delivered first.
func (b *Box) Subscribe() (<-chan Suggestion, func()) {
	b.mu.Lock()
	defer b.mu.Unlock()

	ch := make(chan Suggestion, 1)
	if b.latest != nil {
		ch <- *b.latest
	}
	id := b.nextID
	b.nextID++
	b.subs[id] = ch

	var once sync.Once
	cancel := func() {
		once.Do(func() {
			b.mu.Lock()
			delete(b.subs, id)
			b.mu.Unlock()
			close(ch)
		})
	}
	return ch, cancel
}

// Subscribers reports the number of active subscriptions.
func (b *Box) Subscribers() int {
	b.mu.RLock()
	defer b.mu.RUnlock()
	return len(b.subs)
}
