package handlers_test

import (
	"bytes"
	"encoding/json"
	"io"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/stretchr/testify/require"

	"github.com/Pratham-Dabhane/Smart-Coupons/internal/application/advisory"
	"github.com/Pratham-Dabhane/Smart-Coupons/internal/domain/cart"
	"github.com/Pratham-Dabhane/Smart-Coupons/internal/domain/catalog"
	"github.com/Pratham-Dabhane/Smart-Coupons/internal/domain/coupon"
	"github.com/Pratham-Dabhane/Smart-Coupons/internal/infrastructure/logging"
	"github.com/Pratham-Dabhane/Smart-Coupons/internal/infrastructure/storage"
)

type fixture struct {
	catalog  *catalog.Catalog
	registry *coupon.Registry
	store    *cart.Store
	bridge   *advisory.Bridge
	repo     *storage.MockRepository
}

// newFixture wires a cart and a bridge without an outbound publisher. The
// bridge worker is not started.
func newFixture(t *testing.T) *fixture {
	t.Helper()
	cat := catalog.Default()
	registry := coupon.DefaultRegistry()
	evaluator := coupon.NewEvaluator(registry)
	store := cart.NewStore(cat, evaluator, logging.Discard())
	repo := storage.NewMockRepository()
	bridge := advisory.NewBridge(advisory.Config{SessionID: "session-1", QueueSize: 4}, nil, evaluator, store, repo, logging.Discard())
	return &fixture{catalog: cat, registry: registry, store: store, bridge: bridge, repo: repo}
}

func jsonBody(t *testing.T, v interface{}) *bytes.Reader {
	t.Helper()
	b, err := json.Marshal(v)
	require.NoError(t, err)
	return bytes.NewReader(b)
}

func serve(h http.HandlerFunc, method, target string, body io.Reader) *httptest.ResponseRecorder {
	req := httptest.NewRequest(method, target, body)
	rec := httptest.NewRecorder()
	h(rec, req)
	return rec
}

func decode[T any](t *testing.T, rec *httptest.ResponseRecorder) T {
	t.Helper()
	var v T
	require.NoError(t, json.NewDecoder(rec.Body).Decode(&v))
	return v
}
