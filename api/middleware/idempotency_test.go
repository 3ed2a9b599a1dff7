package middleware

import (
	"context"
	"encoding/json"
	"io"
	"net/http"
	"net/http/httptest"
	"strconv"
	"strings"
	"testing"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/google/uuid"
	"github.com/redis/go-redis/v9"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	pkgerrors "github.com/angelmondragon/buybuddy-backend/pkg/errors"
)

type fakeStore struct {
	data map[string]string
	ttls map[string]time.Duration
}

func newFakeStore() *fakeStore {
	return &fakeStore{data: map[string]string{}, ttls: map[string]time.Duration{}}
}

func (f *fakeStore) Get(_ context.Context, key string) (string, error) {
	if v, ok := f.data[key]; ok {
		return v, nil
	}
	return "", redis.Nil
}

func (f *fakeStore) Set(_ context.Context, key string, value any, ttl time.Duration) error {
	f.data[key] = value.(string)
	f.ttls[key] = ttl
	return nil
}

func (f *fakeStore) SetNX(ctx context.Context, key string, value any, ttl time.Duration) (bool, error) {
	if _, ok := f.data[key]; ok {
		return false, nil
	}
	return true, f.Set(ctx, key, value, ttl)
}

func (f *fakeStore) Del(_ context.Context, keys ...string) error {
	for _, k := range keys {
		delete(f.data, k)
	}
	return nil
}

func (f *fakeStore) IdempotencyKey(scope, id string) string {
	return "idem:" + scope + ":" + id
}

func patternRequest(method, pattern, key string, body io.Reader) *http.Request {
	req := httptest.NewRequest(method, pattern, body)
	if key != "" {
		req.Header.Set(idempotencyHeader, key)
	}
	rc := chi.NewRouteContext()
	rc.RoutePatterns = []string{pattern}
	return req.WithContext(context.WithValue(req.Context(), chi.RouteCtxKey, rc))
}

func errorCode(t *testing.T, body []byte) string {
	t.Helper()
	var payload struct {
		Error struct {
			Code string `json:"code"`
		} `json:"error"`
	}
	require.NoError(t, json.Unmarshal(body, &payload))
	return payload.Error.Code
}

func TestRouteTTL(t *testing.T) {
	cases := []struct {
		method, pattern string
		want            time.Duration
		ok              bool
	}{
		{http.MethodPost, "/place-order/", longTTL, true},
		{http.MethodPost, "/place-order", longTTL, true},
		{http.MethodPost, "/payment", time.Hour, true},
		{http.MethodPost, "/order/{orderID}/cancel/", longTTL, true},
		{http.MethodPost, "/order/{orderID}/return/", time.Hour, true},
		{http.MethodPost, "/admin/orders/{orderID}/status/", time.Hour, true},
		{http.MethodGet, "/order/{orderID}/cancel/", 0, false},
		{http.MethodPost, "/auth/login", 0, false},
	}
	for _, tc := range cases {
		ttl, ok := routeTTL(tc.method, tc.pattern, time.Hour)
		assert.Equal(t, tc.ok, ok, tc.pattern)
		assert.Equal(t, tc.want, ttl, tc.pattern)
	}
}

func TestIdempotencyWithoutKeyPassesThrough(t *testing.T) {
	store := newFakeStore()
	calls := 0
	h := Idempotency(store, time.Hour, nil)(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		calls++
		w.WriteHeader(http.StatusCreated)
	}))

	for range 2 {
		resp := httptest.NewRecorder()
		h.ServeHTTP(resp, patternRequest(http.MethodPost, "/place-order/", "", strings.NewReader(`{}`)))
		assert.Equal(t, http.StatusCreated, resp.Code)
	}
	assert.Equal(t, 2, calls)
	assert.Empty(t, store.data)
}

func TestIdempotencyReplaysRecordedResponse(t *testing.T) {
	store := newFakeStore()
	calls := 0
	h := Idempotency(store, time.Hour, nil)(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		calls++
		w.Header().Set("Content-Type", "application/json")
		w.WriteHeader(http.StatusCreated)
		_, _ = w.Write([]byte(`{"ok":true}`))
	}))

	first := httptest.NewRecorder()
	h.ServeHTTP(first, patternRequest(http.MethodPost, "/place-order/", "abc", strings.NewReader(`{"a":1}`)))
	require.Equal(t, http.StatusCreated, first.Code)
	assert.Empty(t, first.Header().Get(replayHeader))

	second := httptest.NewRecorder()
	h.ServeHTTP(second, patternRequest(http.MethodPost, "/place-order/", "abc", strings.NewReader(`{"a":1}`)))
	assert.Equal(t, http.StatusCreated, second.Code)
	assert.Equal(t, "application/json", second.Header().Get("Content-Type"))
	assert.Equal(t, "true", second.Header().Get(replayHeader))
	assert.JSONEq(t, `{"ok":true}`, second.Body.String())
	assert.Equal(t, 1, calls)

	for _, ttl := range store.ttls {
		assert.Equal(t, longTTL, ttl)
	}
}

func TestIdempotencyRejectsDifferentBody(t *testing.T) {
	store := newFakeStore()
	h := Idempotency(store, time.Hour, nil)(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusOK)
	}))

	h.ServeHTTP(httptest.NewRecorder(), patternRequest(http.MethodPost, "/payment/", "xyz", strings.NewReader(`{"card":"1"}`)))

	resp := httptest.NewRecorder()
	h.ServeHTTP(resp, patternRequest(http.MethodPost, "/payment/", "xyz", strings.NewReader(`{"card":"2"}`)))
	assert.Equal(t, http.StatusConflict, resp.Code)
	assert.Equal(t, string(pkgerrors.CodeIdempotency), errorCode(t, resp.Body.Bytes()))
}

func TestIdempotencyRejectsConcurrentDuplicate(t *testing.T) {
	store := newFakeStore()
	mw := Idempotency(store, time.Hour, nil)
	duplicate := mw(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		t.Error("duplicate request reached the handler")
	}))

	first := mw(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		// A duplicate arrives while the first request still runs.
		dup := httptest.NewRecorder()
		duplicate.ServeHTTP(dup, patternRequest(http.MethodPost, "/place-order/", "k", strings.NewReader(`{}`)))
		assert.Equal(t, http.StatusConflict, dup.Code)
		assert.Contains(t, dup.Body.String(), "in progress")
		w.WriteHeader(http.StatusCreated)
	}))

	resp := httptest.NewRecorder()
	first.ServeHTTP(resp, patternRequest(http.MethodPost, "/place-order/", "k", strings.NewReader(`{}`)))
	assert.Equal(t, http.StatusCreated, resp.Code)
}

func TestIdempotencyThroughChiRouter(t *testing.T) {
	store := newFakeStore()
	calls := 0
	handler := http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		calls++
		w.WriteHeader(http.StatusCreated)
		_, _ = w.Write([]byte(`{"n":` + strconv.Itoa(calls) + `}`))
	})

	r := chi.NewRouter()
	idempotent := Idempotency(store, time.Hour, nil)
	r.With(idempotent).Post("/place-order/", handler)
	r.Route("/order/{orderID}", func(r chi.Router) {
		r.With(idempotent).Post("/cancel/", handler)
	})

	for _, path := range []string{"/place-order/", "/order/" + uuid.NewString() + "/cancel/"} {
		calls = 0
		var bodies []string
		for range 2 {
			req := httptest.NewRequest(http.MethodPost, path, strings.NewReader(`{}`))
			req.Header.Set(idempotencyHeader, "k1")
			resp := httptest.NewRecorder()
			r.ServeHTTP(resp, req)
			require.Equal(t, http.StatusCreated, resp.Code, path)
			bodies = append(bodies, resp.Body.String())
		}
		assert.Equal(t, 1, calls, path)
		assert.Equal(t, bodies[0], bodies[1], path)
	}
	assert.Len(t, store.data, 2)
	for _, ttl := range store.ttls {
		assert.Equal(t, longTTL, ttl)
	}
}

func TestIdempotencyReleasesKeyOnServerError(t *testing.T) {
	store := newFakeStore()
	status := http.StatusInternalServerError
	calls := 0
	h := Idempotency(store, time.Hour, nil)(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		calls++
		w.WriteHeader(status)
	}))

	resp := httptest.NewRecorder()
	h.ServeHTTP(resp, patternRequest(http.MethodPost, "/order/{orderID}/return/", "r1", strings.NewReader(`{}`)))
	assert.Equal(t, http.StatusInternalServerError, resp.Code)
	assert.Empty(t, store.data)

	status = http.StatusOK
	resp = httptest.NewRecorder()
	h.ServeHTTP(resp, patternRequest(http.MethodPost, "/order/{orderID}/return/", "r1", strings.NewReader(`{}`)))
	assert.Equal(t, http.StatusOK, resp.Code)
	assert.Equal(t, 2, calls)
	assert.Len(t, store.data, 1)
}
