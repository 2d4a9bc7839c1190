package api

import (
	"log"
	"strings"
	"time"

	"github.com/gofiber/fiber/v2"
	"github.com/railbook/railbook_core/internal/cache"
	"github.com/railbook/railbook_core/internal/catalog"
	"github.com/railbook/railbook_core/internal/db"
	"github.com/railbook/railbook_core/internal/filter"
	"github.com/railbook/railbook_core/internal/models"
	"github.com/railbook/railbook_core/internal/pricing"
)

// JourneyResult is one row of the results page
type JourneyResult struct {
	models.Journey
	DepartureTime string `json:"departure_time"`
	ArrivalTime   string `json:"arrival_time"`
	PriceDisplay  string `json:"price_display"`
}

// JourneySearchResponse is the response for the search endpoint
type JourneySearchResponse struct {
	Journeys []JourneyResult `json:"journeys"`
	Total    int             `json:"total"`
	Date     string          `json:"date"`
	Sort     string          `json:"sort"`
}

// JourneySearch handles GET /v1/journeys/search
//
// origin/destination/date narrow the candidate list; the remaining query
// parameters form the filter configuration. Malformed filter values are
// permissive (that clause restricts nothing), never an error.
func JourneySearch(c *fiber.Ctx) error {
	dateStr := c.Query("date")
	if dateStr == "" {
		return c.Status(400).JSON(fiber.Map{
			"error": "missing required parameter: date",
		})
	}
	if _, err := time.Parse("2006-01-02", dateStr); err != nil {
		return c.Status(400).JSON(fiber.Map{
			"error": "invalid date format (use YYYY-MM-DD)",
		})
	}

	sortName := c.Query("sort", "recommended")
	ctx := c.Context()

	// Identical searches share one computation via the cache lock.
	cacheKey := cache.SearchKey(dateStr, string(c.Request().URI().QueryString()))
	var cached JourneySearchResponse
	if err := cache.GetJSON(ctx, cacheKey, &cached); err == nil {
		return c.JSON(cached)
	}

	lockKey := cache.LockKey(cacheKey)
	acquired, err := cache.AcquireLock(ctx, lockKey, 5*time.Second)
	if err != nil {
		log.Printf("Failed to acquire lock: %v", err)
		// Continue without lock (degrade gracefully)
	} else if !acquired {
		if err := cache.WaitForLock(ctx, cacheKey, &cached, 3*time.Second); err == nil {
			return c.JSON(cached)
		}
		// If waiting failed, compute anyway
	}
	defer func() {
		if acquired {
			cache.ReleaseLock(ctx, lockKey)
		}
	}()

	journeys := catalog.GetCatalog().JourneysOn(dateStr)
	journeys = matchRoute(journeys, c.Query("origin"), c.Query("destination"))

	cfg := filter.FromQuery(func(key string) string { return c.Query(key) })
	journeys = filter.Apply(journeys, cfg)

	strategy := filter.GetStrategy(sortName)
	filter.Sort(journeys, strategy)

	results := make([]JourneyResult, 0, len(journeys))
	for _, j := range journeys {
		results = append(results, JourneyResult{
			Journey:       j,
			DepartureTime: catalog.FormatClockTime(j.DepartureMinutes),
			ArrivalTime:   catalog.FormatClockTime(j.ArrivalMinutes),
			PriceDisplay:  pricing.FormatAmount(j.Price),
		})
	}

	resp := JourneySearchResponse{
		Journeys: results,
		Total:    len(results),
		Date:     dateStr,
		Sort:     strategy.Name(),
	}

	if err := cache.SetJSON(ctx, cacheKey, resp, cache.LoadConfigFromEnv().SearchTTL); err != nil {
		log.Printf("Failed to cache search results: %v", err)
	}

	return c.JSON(resp)
}

// matchRoute keeps journeys on the requested corridor; empty criteria
// match everything
func matchRoute(journeys []models.Journey, origin, destination string) []models.Journey {
	if origin == "" && destination == "" {
		return journeys
	}
	out := make([]models.Journey, 0, len(journeys))
	for _, j := range journeys {
		if origin != "" && !strings.EqualFold(j.Origin, origin) {
			continue
		}
		if destination != "" && !strings.EqualFold(j.Destination, destination) {
			continue
		}
		out = append(out, j)
	}
	return out
}

// FaresResponse is the response for the fares endpoint
type FaresResponse struct {
	Fares []FareInfo `json:"fares"`
}

// FareInfo is a fare tier with its display surcharge
type FareInfo struct {
	models.Fare
	SurchargeDisplay string `json:"surcharge_display"`
}

// FaresList handles GET /v1/fares
func FaresList(c *fiber.Ctx) error {
	fares := catalog.GetCatalog().Fares()

	out := make([]FareInfo, 0, len(fares))
	for _, f := range fares {
		out = append(out, FareInfo{
			Fare:             f,
			SurchargeDisplay: pricing.FormatAmount(f.Surcharge),
		})
	}

	return c.JSON(FaresResponse{Fares: out})
}

// ExtrasResponse is the response for the extras endpoint
type ExtrasResponse struct {
	Extras []ExtraInfo `json:"extras"`
}

// ExtraInfo is an add-on with its display price
type ExtraInfo struct {
	models.Extra
	PriceDisplay string `json:"price_display"`
}

// ExtrasList handles GET /v1/extras
func ExtrasList(c *fiber.Ctx) error {
	extras := catalog.GetCatalog().Extras()

	out := make([]ExtraInfo, 0, len(extras))
	for _, e := range extras {
		out = append(out, ExtraInfo{
			Extra:        e,
			PriceDisplay: pricing.FormatAmount(e.Price),
		})
	}

	return c.JSON(ExtrasResponse{Extras: out})
}

// Health handles the /health endpoint
func Health(c *fiber.Ctx) error {
	ctx := c.Context()

	dbErr := db.HealthCheck(ctx)
	dbStatus := "ok"
	if dbErr != nil {
		dbStatus = dbErr.Error()
	}

	redisErr := cache.HealthCheck(ctx)
	redisStatus := "ok"
	if redisErr != nil {
		redisStatus = redisErr.Error()
	}

	catalogStatus := "ok"
	if !catalog.GetCatalog().IsLoaded() {
		catalogStatus = "not loaded"
	}

	status := "healthy"
	httpStatus := 200
	if dbErr != nil || redisErr != nil || catalogStatus != "ok" {
		status = "unhealthy"
		httpStatus = 503
	}

	return c.Status(httpStatus).JSON(fiber.Map{
		"status": status,
		"checks": fiber.Map{
			"database": dbStatus,
			"redis":    redisStatus,
			"catalog":  catalogStatus,
		},
	})
}
