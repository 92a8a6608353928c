package middleware

import (
	"bytes"
	"encoding/json"
	"fmt"
	"net/http"
	"time"

	"github.com/gin-gonic/gin"
	"go.uber.org/zap"
	domainerrors "teamhub.backend/internal/domain/errors"
	"teamhub.backend/internal/interfaces/http/response"
	"teamhub.backend/pkg/logger"
	"teamhub.backend/pkg/redis"
)

const (
	IdempotencyHeader    = "Idempotency-Key"
	IdempotencyHitHeader = "X-Idempotency-Hit"
	// LockDuration bounds how long an in-flight request holds its key.
	LockDuration = 30 * time.Second
	// RetentionDuration is how long a completed response can be replayed.
	RetentionDuration = 24 * time.Hour

	CodeIdempotencyConflict = "ERR_IDEMPOTENCY_CONFLICT"

	idempotencyProcessing = "processing"
)

var (
	redisGet   = redis.Get
	redisSet   = redis.Set
	redisSetNX = redis.SetNX
	redisDel   = redis.Del
)

// storedResponse is what a completed request leaves behind for replays.
type storedResponse struct {
	Status int             `json:"status"`
	Body   json.RawMessage `json:"body"`
}

type responseWriter struct {
	gin.ResponseWriter
	body *bytes.Buffer
}

func (w responseWriter) Write(b []byte) (int, error) {
	w.body.Write(b)
	return w.ResponseWriter.Write(b)
}

func idempotencyConflict(message string) error {
	return domainerrors.NewAppError(http.StatusConflict, CodeIdempotencyConflict, message, domainerrors.ErrConflict)
}

// IdempotencyKey scopes a client key to the caller and the route.
func IdempotencyKey(userID interface{}, route, key string) string {
	return fmt.Sprintf("idempotency:%v:%s:%s", userID, route, key)
}

// IdempotencyMiddleware replays the stored status and body for a repeated Idempotency-Key.
// Requests without the header pass through, and so do all requests while Redis is unreachable.
func IdempotencyMiddleware() gin.HandlerFunc {
	return func(c *gin.Context) {
		key := c.GetHeader(IdempotencyHeader)
		if key == "" {
			c.Next()
			return
		}

		userID, _ := c.Get(UserIDKey)
		storageKey := IdempotencyKey(userID, c.Request.Method+" "+c.FullPath(), key)
		ctx := c.Request.Context()

		val, err := redisGet(ctx, storageKey)
		switch {
		case err == nil:
			if val == idempotencyProcessing {
				response.Abort(c, idempotencyConflict("Request already in progress"))
				return
			}
			var stored storedResponse
			if err := json.Unmarshal([]byte(val), &stored); err != nil || stored.Status == 0 {
				logger.Warn(ctx, "Discarding unreadable idempotency record", zap.String("key", storageKey))
				_ = redisDel(ctx, storageKey)
				c.Next()
				return
			}
			c.Header(IdempotencyHitHeader, "true")
			c.Data(stored.Status, "application/json; charset=utf-8", stored.Body)
			c.Abort()
			return
		case !redis.IsNil(err):
			logger.Warn(ctx, "Idempotency store unavailable", zap.Error(err))
			c.Next()
			return
		}

		acquired, err := redisSetNX(ctx, storageKey, idempotencyProcessing, LockDuration)
		if err != nil || !acquired {
			response.Abort(c, idempotencyConflict("Request in progress"))
			return
		}

		w := &responseWriter{body: &bytes.Buffer{}, ResponseWriter: c.Writer}
		c.Writer = w

		c.Next()

		status := c.Writer.Status()
		if status < 200 || status >= 300 || !json.Valid(w.body.Bytes()) {
			// failed attempts release the key so the client can retry
			_ = redisDel(ctx, storageKey)
			return
		}
		record, err := json.Marshal(storedResponse{Status: status, Body: w.body.Bytes()})
		if err == nil {
			err = redisSet(ctx, storageKey, string(record), RetentionDuration)
		}
		if err != nil {
			logger.Warn(ctx, "Failed to store idempotent response", zap.Error(err))
			_ = redisDel(ctx, storageKey)
		}
	}
}
