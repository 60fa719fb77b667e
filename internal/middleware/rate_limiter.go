package middleware

import (
	"fmt"
	"net/http"
	"strconv"
	"time"

	"fertilabel/internal/apierror"

	"github.com/gin-gonic/gin"
	"github.com/redis/go-redis/v9"
	"github.com/rs/zerolog/log"
)

// RateLimiter is a fixed-window limiter per client IP kept in Redis, so every
// API instance shares the same counters. name separates independent limits.
// When Redis is unreachable requests pass through.
func RateLimiter(rdb *redis.Client, name string, limit int, window time.Duration) gin.HandlerFunc {
	return func(c *gin.Context) {
		ctx := c.Request.Context()
		slot := time.Now().UnixNano() / int64(window)
		key := fmt.Sprintf("ratelimit:%s:%s:%d", name, c.ClientIP(), slot)

		pipe := rdb.TxPipeline()
		incr := pipe.Incr(ctx, key)
		pipe.Expire(ctx, key, window)
		if _, err := pipe.Exec(ctx); err != nil {
			log.Warn().Err(err).Str("limiter", name).Msg("rate limiter unavailable, allowing request")
			c.Next()
			return
		}

		if incr.Val() > int64(limit) {
			retry := time.Duration(slot+1)*window - time.Duration(time.Now().UnixNano())
			c.Header("Retry-After", strconv.Itoa(int(retry.Seconds())+1))
			c.AbortWithStatusJSON(http.StatusTooManyRequests, apierror.New("Muitas solicitações. Tente novamente em instantes."))
			return
		}
		c.Next()
	}
}

// LoginRateLimiter allows 20 login attempts per minute per IP.
func LoginRateLimiter(rdb *redis.Client) gin.HandlerFunc {
	return RateLimiter(rdb, "login", 20, time.Minute)
}
