package middleware

import (
	"context"
	"strings"
	"time"

	"github.com/gofiber/fiber/v2"
	"github.com/redis/go-redis/v9"
)

// Funnel step counters, keyed per day: how far users get through the
// booking flow. Read back by the stats endpoint.
const (
	StepSearch   = "search"
	StepFares    = "fares"
	StepExtras   = "extras"
	StepSessions = "sessions"
	StepSummary  = "summary"
	StepPayments = "payments"
)

// counterTTL keeps roughly three months of daily funnel history
const counterTTL = 92 * 24 * time.Hour

// AnalyticsMiddleware counts booking-funnel steps in Redis. Counting is
// fire-and-forget; a Redis hiccup never affects the request.
func AnalyticsMiddleware(rdb *redis.Client) fiber.Handler {
	return func(c *fiber.Ctx) error {
		step := funnelStep(c.Method(), c.Path())

		err := c.Next()

		if step != "" && c.Response().StatusCode() < 400 {
			go func() {
				ctx, cancel := context.WithTimeout(context.Background(), 2*time.Second)
				defer cancel()
				key := funnelKey(step, time.Now())
				if incErr := rdb.Incr(ctx, key).Err(); incErr == nil {
					rdb.Expire(ctx, key, counterTTL)
				}
			}()
		}

		return err
	}
}

// FunnelCounts reads today's counters for every funnel step
func FunnelCounts(ctx context.Context, rdb *redis.Client) map[string]int64 {
	now := time.Now()
	counts := make(map[string]int64)
	for _, step := range []string{StepSearch, StepFares, StepExtras, StepSessions, StepSummary, StepPayments} {
		val, err := rdb.Get(ctx, funnelKey(step, now)).Int64()
		if err != nil {
			val = 0
		}
		counts[step] = val
	}
	return counts
}

func funnelKey(step string, t time.Time) string {
	return "funnel:" + step + ":" + t.Format("2006-01-02")
}

// funnelStep maps a request to the booking step it represents; empty when
// the request is not part of the funnel
func funnelStep(method, path string) string {
	switch {
	case strings.HasPrefix(path, "/v1/journeys/search"):
		return StepSearch
	case path == "/v1/fares":
		return StepFares
	case path == "/v1/extras":
		return StepExtras
	case method == fiber.MethodPost && path == "/v1/sessions":
		return StepSessions
	case strings.HasSuffix(path, "/summary"):
		return StepSummary
	case strings.HasSuffix(path, "/payment"):
		return StepPayments
	default:
		return ""
	}
}
