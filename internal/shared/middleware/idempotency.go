package middleware

import (
	"bytes"
	"crypto/sha256"
	"encoding/hex"
	"encoding/json"
	"io"
	"net/http"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/giftregistry/server/internal/shared/response"
	goredis "github.com/redis/go-redis/v9"
)

const (
	// IdempotencyKeyHeader carries the client's retry token.
	IdempotencyKeyHeader = "Idempotency-Key"
	// IdempotentReplayHeader marks a response served from the replay cache.
	IdempotentReplayHeader = "Idempotent-Replayed"

	idempotencyKeyPrefix  = "idempotency:"
	defaultIdempotencyTTL = time.Hour
	idempotencyLockTTL    = 30 * time.Second
	maxIdempotencyKeyLen  = 255
)

type storedResponse struct {
	BodyHash    string `json:"body_hash"`
	Status      int    `json:"status"`
	ContentType string `json:"content_type"`
	Body        []byte `json:"body"`
}

type captureWriter struct {
	gin.ResponseWriter
	body *bytes.Buffer
}

func (w *captureWriter) Write(b []byte) (int, error) {
	w.body.Write(b)
	return w.ResponseWriter.Write(b)
}

// Idempotency replays the first successful response to a write carrying
// an Idempotency-Key header, so a guest who submits twice gets the same
// checkout session back. Requests without the header, reads and a nil
// client pass straight through. Only 2xx responses are stored; a failed
// attempt can be retried with the same key. Reusing a key with a different
// request body is rejected with 422.
func Idempotency(rdb goredis.UniversalClient, ttl time.Duration) gin.HandlerFunc {
	if ttl <= 0 {
		ttl = defaultIdempotencyTTL
	}

	return func(c *gin.Context) {
		if rdb == nil || !isWrite(c.Request.Method) {
			c.Next()
			return
		}

		key := c.GetHeader(IdempotencyKeyHeader)
		if key == "" {
			c.Next()
			return
		}
		if len(key) > maxIdempotencyKeyLen {
			response.AbortWithCode(c, http.StatusBadRequest, "INVALID_IDEMPOTENCY_KEY", "idempotency key is too long")
			return
		}

		body, err := io.ReadAll(c.Request.Body)
		if err != nil {
			response.AbortWithCode(c, http.StatusBadRequest, "INVALID_INPUT", "could not read request body")
			return
		}
		c.Request.Body = io.NopCloser(bytes.NewReader(body))
		bodyHash := requestBodyHash(body)

		ctx := c.Request.Context()
		cacheKey := idempotencyCacheKey(c, key)

		if data, err := rdb.Get(ctx, cacheKey).Bytes(); err == nil {
			var stored storedResponse
			if json.Unmarshal(data, &stored) == nil {
				if stored.BodyHash != bodyHash {
					abortKeyReused(c)
					return
				}
				c.Header(IdempotentReplayHeader, "true")
				c.Data(stored.Status, stored.ContentType, stored.Body)
				c.Abort()
				return
			}
		}

		lockKey := cacheKey + ":lock"
		locked, err := rdb.SetNX(ctx, lockKey, bodyHash, idempotencyLockTTL).Result()
		if err != nil {
			// Fail open like the rate limiter.
			_ = c.Error(err)
			c.Next()
			return
		}
		if !locked {
			if held, err := rdb.Get(ctx, lockKey).Result(); err == nil && held != bodyHash {
				abortKeyReused(c)
				return
			}
			response.AbortWithCode(c, http.StatusConflict, "REQUEST_IN_PROGRESS",
				"a request with this idempotency key is already being processed")
			return
		}
		defer rdb.Del(ctx, lockKey)

		w := &captureWriter{ResponseWriter: c.Writer, body: &bytes.Buffer{}}
		c.Writer = w

		c.Next()

		status := w.Status()
		if status < 200 || status >= 300 {
			return
		}
		data, err := json.Marshal(storedResponse{
			BodyHash:    bodyHash,
			Status:      status,
			ContentType: w.Header().Get("Content-Type"),
			Body:        w.body.Bytes(),
		})
		if err != nil {
			return
		}
		if err := rdb.Set(ctx, cacheKey, data, ttl).Err(); err != nil {
			_ = c.Error(err)
		}
	}
}

func abortKeyReused(c *gin.Context) {
	response.AbortWithCode(c, http.StatusUnprocessableEntity, "IDEMPOTENCY_KEY_REUSED",
		"idempotency key was already used with a different request body")
}

func requestBodyHash(body []byte) string {
	sum := sha256.Sum256(body)
	return hex.EncodeToString(sum[:])
}

func isWrite(method string) bool {
	switch method {
	case http.MethodPost, http.MethodPut, http.MethodPatch:
		return true
	}
	return false
}

// Keys are scoped to route and client so one guest cannot replay another's response.
func idempotencyCacheKey(c *gin.Context, key string) string {
	sum := sha256.Sum256([]byte(c.Request.Method + ":" + c.FullPath() + ":" + c.ClientIP() + ":" + key))
	return idempotencyKeyPrefix + hex.EncodeToString(sum[:])
}
