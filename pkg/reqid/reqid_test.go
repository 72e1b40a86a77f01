package reqid

import (
	"context"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestNew(t *testing.T) {
	a := New()
	b := New()
	assert.NotEmpty(t, a)
	assert.NotEqual(t, a, b)
}

func TestFromCtx(t *testing.T) {
	ctx := WithValue(context.Background(), "req-123")
	assert.Equal(t, "req-123", FromCtx(ctx))

	assert.Empty(t, FromCtx(context.Background()))
}

func TestMiddlewareGeneratesID(t *testing.T) {
	var seen string
	handler := Middleware()(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		seen = FromCtx(r.Context())
	}))

	rec := httptest.NewRecorder()
	handler.ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/", nil))

	assert.NotEmpty(t, seen)
	assert.Equal(t, seen, rec.Header().Get(Header))
}

func TestMiddlewareHonoursUpstreamID(t *testing.T) {
	var seen string
	handler := Middleware()(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		seen = FromCtx(r.Context())
	}))

	req := httptest.NewRequest(http.MethodGet, "/", nil)
	req.Header.Set(Header, "upstream-id")

	rec := httptest.NewRecorder()
	handler.ServeHTTP(rec, req)

	assert.Equal(t, "upstream-id", seen)
	assert.Equal(t, "upstream-id", rec.Header().Get(Header))
}
