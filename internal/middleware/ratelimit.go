package middleware

import (
	"context"
	"fmt"
	"strconv"
	"time"

	"github.com/gofiber/fiber/v2"
	"github.com/redis/go-redis/v9"
)

// RateLimits holds the per-client request budgets
type RateLimits struct {
	PerSecond int
	PerDay    int
}

// DefaultRateLimits is generous enough for a browsing session while
// stopping scripted hammering of the search endpoint
var DefaultRateLimits = RateLimits{
	PerSecond: 10,
	PerDay:    10000,
}

// RateLimitMiddleware limits requests per client IP using Redis counters,
// checked per second and per day
func RateLimitMiddleware(rdb *redis.Client, limits RateLimits) fiber.Handler {
	return func(c *fiber.Ctx) error {
		clientIP := c.IP()
		ctx := context.Background()
		now := time.Now()

		keySecond := fmt.Sprintf("rl:ip:%s:second:%d", clientIP, now.Unix())
		keyDay := fmt.Sprintf("rl:ip:%s:day:%s", clientIP, now.Format("2006-01-02"))

		if limits.PerSecond > 0 {
			countSecond, err := rdb.Incr(ctx, keySecond).Result()
			if err == nil {
				rdb.Expire(ctx, keySecond, 2*time.Second)

				if countSecond > int64(limits.PerSecond) {
					c.Set("X-RateLimit-Limit-Second", strconv.Itoa(limits.PerSecond))
					c.Set("X-RateLimit-Remaining-Second", "0")
					c.Set("Retry-After", "1")

					return c.Status(429).JSON(fiber.Map{
						"error":       "rate_limit_exceeded",
						"message":     "Too many requests per second",
						"limit_type":  "per_second",
						"limit":       limits.PerSecond,
						"retry_after": 1,
					})
				}
			}
		}

		if limits.PerDay > 0 {
			countDay, err := rdb.Incr(ctx, keyDay).Result()
			if err == nil {
				// 25 hours so the counter survives timezone skew
				rdb.Expire(ctx, keyDay, 25*time.Hour)

				if countDay > int64(limits.PerDay) {
					tomorrow := now.AddDate(0, 0, 1)
					midnight := time.Date(tomorrow.Year(), tomorrow.Month(), tomorrow.Day(), 0, 0, 0, 0, tomorrow.Location())
					retryAfter := int64(midnight.Sub(now).Seconds())

					c.Set("X-RateLimit-Limit-Day", strconv.Itoa(limits.PerDay))
					c.Set("X-RateLimit-Remaining-Day", "0")
					c.Set("Retry-After", strconv.FormatInt(retryAfter, 10))

					return c.Status(429).JSON(fiber.Map{
						"error":       "daily_quota_exceeded",
						"message":     "Daily quota exceeded",
						"limit_type":  "per_day",
						"limit":       limits.PerDay,
						"used":        countDay,
						"retry_after": retryAfter,
						"reset_at":    midnight.Format(time.RFC3339),
					})
				}

				c.Set("X-RateLimit-Remaining-Day", strconv.FormatInt(int64(limits.PerDay)-countDay, 10))
			}
		}

		c.Set("X-RateLimit-Limit-Second", strconv.Itoa(limits.PerSecond))
		c.Set("X-RateLimit-Limit-Day", strconv.Itoa(limits.PerDay))

		return c.Next()
	}
}
