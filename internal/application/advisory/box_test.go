package advisory

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func suggestionFor(code string) Suggestion {
	return Suggestion{RecommendedCoupon: RecommendedCoupon{Code: code}}
}

func TestBox_Latest(t *testing.T) {
	b := NewBox()

	_, ok := b.Latest()
	assert.False(t, ok)

	b.Store(suggestionFor("A"))
	b.Store(suggestionFor("B"))

	got, ok := b.Latest()
	require.True(t, ok)
	assert.Equal(t, "B", got.RecommendedCoupon.Code)
}

func TestBox_SubscribeDeliversCurrentValue(t *testing.T) {
	b := NewBox()
	b.Store(suggestionFor("A"))

	ch, cancel := b.Subscribe()
	defer cancel()

	got := <-ch
	assert.Equal(t, "A", got.RecommendedCoupon.Code)
}

func TestBox_SlowSubscriberSeesOnlyNewest(t *testing.T) {
	b := NewBox()
	ch, cancel := b.Subscribe()
	defer cancel()

	b.Store(suggestionFor("A"))
	b.Store(suggestionFor("B"))
	b.Store(suggestionFor("C"))

	got := <-ch
	assert.Equal(t, "C", got.RecommendedCoupon.Code)

	select {
	case extra := <-ch:
		t.Fatalf("unexpected extra value %q", extra.RecommendedCoupon.Code)
	default:
	}
}

func TestBox_Reset(t *testing.T) {
	b := NewBox()
	ch, cancel := b.Subscribe()
	defer cancel()

	b.Reset()
	assert.Empty(t, ch, "resetting an empty box sends nothing")

	b.Store(suggestionFor("A"))
	<-ch
	b.Reset()

	_, ok := b.Latest()
	assert.False(t, ok)

	got := <-ch
	assert.Empty(t, got.RecommendedCoupon.Code)

	b.Store(suggestionFor("B"))
	got, ok = b.Latest()
	require.True(t, ok)
	assert.Equal(t, "B", got.RecommendedCoupon.Code)
}

func TestBox_CancelClosesChannel(t *testing.T) {
	b := NewBox()
	ch, cancel := b.Subscribe()
	assert.Equal(t, 1, b.Subscribers())

	cancel()
	cancel()

	_, open := <-ch
	assert.False(t, open)
	assert.Equal(t, 0, b.Subscribers())

	// Storing after cancel must not panic
	b.Store(suggestionFor("A"))
}
