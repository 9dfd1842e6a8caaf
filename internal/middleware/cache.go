package middleware

import (
	"bytes"
	"context"
	"net/http"
	"time"

	"github.com/labstack/echo/v4"
	"github.com/redis/go-redis/v9"
)

// captureWriter captures the response body/status while forwarding to the
// client, so a successful response can be stored after the handler ran.
type captureWriter struct {
	http.ResponseWriter
	status int
	buf    bytes.Buffer
}

func (cw *captureWriter) WriteHeader(code int) {
	cw.status = code
	cw.ResponseWriter.WriteHeader(code)
}

func (cw *captureWriter) Write(b []byte) (int, error) {
	cw.buf.Write(b)
	return cw.ResponseWriter.Write(b)
}

// CacheJSON returns middleware that serves GET responses for the wrapped
// route from Redis. Only 200 responses are stored and entries share the
// given key, so this suits listings whose output does not vary per caller.
// A nil client disables caching entirely.
func CacheJSON(rdb *redis.Client, key string, ttl time.Duration) echo.MiddlewareFunc {
	if rdb == nil {
		return func(next echo.HandlerFunc) echo.HandlerFunc { return next }
	}
	return func(next echo.HandlerFunc) echo.HandlerFunc {
		return func(c echo.Context) error {
			if c.Request().Method != http.MethodGet {
				return next(c)
			}
			if body, err := rdb.Get(c.Request().Context(), key).Bytes(); err == nil {
				return c.JSONBlob(http.StatusOK, body)
			}

			cw := &captureWriter{ResponseWriter: c.Response().Writer, status: http.StatusOK}
			c.Response().Writer = cw
			if err := next(c); err != nil {
				return err
			}
			if cw.status == http.StatusOK {
				// Best effort; a write failure only costs the cache hit.
				_ = rdb.Set(c.Request().Context(), key, cw.buf.Bytes(), ttl).Err()
			}
			return nil
		}
	}
}

// InvalidateCache drops a cached entry. Mutating handlers call this after a
// successful write so the next listing reflects the change.
func InvalidateCache(ctx context.Context, rdb *redis.Client, key string) {
	if rdb == nil {
		return
	}
	_ = rdb.Del(ctx, key).Err()
}
