package middleware

import (
	"net/http"
	"net/http/httptest"
	"strings"
	"sync/atomic"
	"testing"
	"time"

	"github.com/alicebob/miniredis/v2"
	"github.com/gin-gonic/gin"
	goredis "github.com/redis/go-redis/v9"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func newIdempotentRouter(t *testing.T, status int) (*gin.Engine, *atomic.Int32, *miniredis.Miniredis) {
	t.Helper()
	mr := miniredis.RunT(t)
	rdb := goredis.NewClient(&goredis.Options{Addr: mr.Addr()})
	t.Cleanup(func() { _ = rdb.Close() })

	var calls atomic.Int32
	r := gin.New()
	r.Use(Idempotency(rdb, time.Minute))
	r.POST("/checkout", func(c *gin.Context) {
		n := calls.Add(1)
		c.JSON(status, gin.H{"call": n})
	})
	r.GET("/checkout", func(c *gin.Context) {
		calls.Add(1)
		c.Status(http.StatusOK)
	})
	return r, &calls, mr
}

func post(r *gin.Engine, key string) *httptest.ResponseRecorder {
	return postBody(r, key, `{}`)
}

func postBody(r *gin.Engine, key, body string) *httptest.ResponseRecorder {
	req := httptest.NewRequest(http.MethodPost, "/checkout", strings.NewReader(body))
	if key != "" {
		req.Header.Set(IdempotencyKeyHeader, key)
	}
	w := httptest.NewRecorder()
	r.ServeHTTP(w, req)
	return w
}

func TestIdempotency(t *testing.T) {
	t.Run("replays the first successful response", func(t *testing.T) {
		r, calls, _ := newIdempotentRouter(t, http.StatusOK)

		first := post(r, "abc")
		second := post(r, "abc")

		assert.Equal(t, int32(1), calls.Load())
		assert.Equal(t, http.StatusOK, second.Code)
		assert.JSONEq(t, first.Body.String(), second.Body.String())
		assert.Equal(t, "true", second.Header().Get(IdempotentReplayHeader))
		assert.Contains(t, second.Header().Get("Content-Type"), "application/json")
	})

	t.Run("different keys run the handler", func(t *testing.T) {
		r, calls, _ := newIdempotentRouter(t, http.StatusOK)

		post(r, "one")
		post(r, "two")
		assert.Equal(t, int32(2), calls.Load())
	})

	t.Run("requests without a key are not cached", func(t *testing.T) {
		r, calls, _ := newIdempotentRouter(t, http.StatusOK)

		post(r, "")
		post(r, "")
		assert.Equal(t, int32(2), calls.Load())
	})

	t.Run("failed responses are retryable", func(t *testing.T) {
		r, calls, _ := newIdempotentRouter(t, http.StatusBadGateway)

		post(r, "retry")
		w := post(r, "retry")
		assert.Equal(t, int32(2), calls.Load())
		assert.Empty(t, w.Header().Get(IdempotentReplayHeader))
	})

	t.Run("in-flight key conflicts", func(t *testing.T) {
		r, calls, mr := newIdempotentRouter(t, http.StatusOK)

		require.NoError(t, mr.Set(checkoutCacheKey("busy")+":lock", requestBodyHash([]byte(`{}`))))

		w := post(r, "busy")
		assert.Equal(t, http.StatusConflict, w.Code)
		assert.Equal(t, int32(0), calls.Load())

		w = postBody(r, "busy", `{"amount":"99"}`)
		assert.Equal(t, http.StatusUnprocessableEntity, w.Code)
		assert.Equal(t, int32(0), calls.Load())
	})

	t.Run("key reused with a different body is rejected", func(t *testing.T) {
		r, calls, _ := newIdempotentRouter(t, http.StatusOK)

		first := postBody(r, "reuse", `{"amount":"50","guest_name":"Ana"}`)
		require.Equal(t, http.StatusOK, first.Code)

		w := postBody(r, "reuse", `{"amount":"500","guest_name":"Ana"}`)
		assert.Equal(t, http.StatusUnprocessableEntity, w.Code)
		assert.Contains(t, w.Body.String(), "IDEMPOTENCY_KEY_REUSED")
		assert.Empty(t, w.Header().Get(IdempotentReplayHeader))
		assert.Equal(t, int32(1), calls.Load())

		w = postBody(r, "reuse", `{"amount":"50","guest_name":"Ana"}`)
		assert.Equal(t, http.StatusOK, w.Code)
		assert.Equal(t, "true", w.Header().Get(IdempotentReplayHeader))
		assert.Equal(t, int32(1), calls.Load())
	})

	t.Run("reads pass through", func(t *testing.T) {
		r, calls, _ := newIdempotentRouter(t, http.StatusOK)

		for i := 0; i < 2; i++ {
			req := httptest.NewRequest(http.MethodGet, "/checkout", nil)
			req.Header.Set(IdempotencyKeyHeader, "get")
			r.ServeHTTP(httptest.NewRecorder(), req)
		}
		assert.Equal(t, int32(2), calls.Load())
	})

	t.Run("nil client disables the check", func(t *testing.T) {
		r := gin.New()
		r.Use(Idempotency(nil, 0))
		var calls int
		r.POST("/checkout", func(c *gin.Context) { calls++; c.Status(http.StatusOK) })

		post(r, "k")
		post(r, "k")
		assert.Equal(t, 2, calls)
	})
}

// checkoutCacheKey computes the key a POST /checkout from the default
// httptest client address would use.
func checkoutCacheKey(key string) string {
	var out string
	r := gin.New()
	r.POST("/checkout", func(c *gin.Context) { out = idempotencyCacheKey(c, key) })
	r.ServeHTTP(httptest.NewRecorder(), httptest.NewRequest(http.MethodPost, "/checkout", nil))
	return out
}
