package catalog

import (
	"context"
	"fmt"
	"log"
	"sort"
	"sync"
	"time"

	"github.com/jackc/pgx/v5/pgxpool"
	"github.com/railbook/railbook_core/internal/models"
)

// Catalog holds the bookable reference data in memory so the results page
// filters over plain slices without touching the database per request
type Catalog struct {
	mu       sync.RWMutex
	journeys map[string]models.Journey   // journey id -> journey
	byDate   map[string][]models.Journey // date -> journeys in departure order
	fares    map[string]models.Fare
	fareIDs  []string // insertion order for listing
	extras   map[string]models.Extra
	extraIDs []string
	loaded   bool
}

var (
	globalCatalog     *Catalog
	globalCatalogOnce sync.Once
)

// GetCatalog returns the singleton in-memory catalog
func GetCatalog() *Catalog {
	globalCatalogOnce.Do(func() {
		globalCatalog = &Catalog{
			journeys: make(map[string]models.Journey),
			byDate:   make(map[string][]models.Journey),
			fares:    make(map[string]models.Fare),
			extras:   make(map[string]models.Extra),
		}
	})
	return globalCatalog
}

// LoadFromDB loads journeys, fares and extras from PostgreSQL into memory,
// swapping the new data in atomically
func (c *Catalog) LoadFromDB(ctx context.Context, pool *pgxpool.Pool) error {
	startTime := time.Now()
	log.Println("Loading booking catalog into memory...")

	journeys := make(map[string]models.Journey)
	var all []models.Journey

	rows, err := pool.Query(ctx, `
		SELECT id, to_char(date, 'YYYY-MM-DD'), origin, destination, train_type,
		       departure_minutes, arrival_minutes, duration_minutes,
		       direct, transfers, connection_minutes, price,
		       wifi, power, quiet_zone, cafe,
		       accessible_seat, staff_assistance, companion_seat, adjacent_seat,
		       pet_friendly, pet_small, pet_medium, pet_large
		FROM journey
		ORDER BY date, departure_minutes
	`)
	if err != nil {
		return fmt.Errorf("failed to load journeys: %w", err)
	}
	defer rows.Close()

	for rows.Next() {
		var j models.Journey
		if err := rows.Scan(&j.ID, &j.Date, &j.Origin, &j.Destination, &j.TrainType,
			&j.DepartureMinutes, &j.ArrivalMinutes, &j.DurationMinutes,
			&j.Direct, &j.Transfers, &j.ConnectionMinutes, &j.Price,
			&j.Wifi, &j.Power, &j.QuietZone, &j.Cafe,
			&j.AccessibleSeat, &j.StaffAssistance, &j.CompanionSeat, &j.AdjacentSeat,
			&j.PetFriendly, &j.PetSmall, &j.PetMedium, &j.PetLarge); err != nil {
			log.Printf("Warning: failed to scan journey: %v", err)
			continue
		}
		all = append(all, j)
	}
	rows.Close()

	all = NormalizeJourneys(all)
	byDate := make(map[string][]models.Journey)
	for _, j := range all {
		journeys[j.ID] = j
		byDate[j.Date] = append(byDate[j.Date], j)
	}
	log.Printf("  Loaded %d journeys across %d dates", len(journeys), len(byDate))

	fares := make(map[string]models.Fare)
	var fareIDs []string

	fareRows, err := pool.Query(ctx, `SELECT id, name, surcharge, features FROM fare ORDER BY surcharge, id`)
	if err != nil {
		return fmt.Errorf("failed to load fares: %w", err)
	}
	defer fareRows.Close()

	for fareRows.Next() {
		var f models.Fare
		if err := fareRows.Scan(&f.ID, &f.Name, &f.Surcharge, &f.Features); err != nil {
			log.Printf("Warning: failed to scan fare: %v", err)
			continue
		}
		fares[f.ID] = f
		fareIDs = append(fareIDs, f.ID)
	}
	log.Printf("  Loaded %d fares", len(fares))

	extras := make(map[string]models.Extra)
	var extraIDs []string

	extraRows, err := pool.Query(ctx, `SELECT id, name, description, price FROM extra ORDER BY id`)
	if err != nil {
		return fmt.Errorf("failed to load extras: %w", err)
	}
	defer extraRows.Close()

	for extraRows.Next() {
		var e models.Extra
		if err := extraRows.Scan(&e.ID, &e.Name, &e.Description, &e.Price); err != nil {
			log.Printf("Warning: failed to scan extra: %v", err)
			continue
		}
		extras[e.ID] = e
		extraIDs = append(extraIDs, e.ID)
	}
	log.Printf("  Loaded %d extras", len(extras))

	c.mu.Lock()
	c.journeys = journeys
	c.byDate = byDate
	c.fares = fares
	c.fareIDs = fareIDs
	c.extras = extras
	c.extraIDs = extraIDs
	c.loaded = true
	c.mu.Unlock()

	log.Printf("Catalog loaded in %v", time.Since(startTime))
	return nil
}

// IsLoaded returns true if the catalog has been loaded
func (c *Catalog) IsLoaded() bool {
	c.mu.RLock()
	defer c.mu.RUnlock()
	return c.loaded
}

// JourneysOn returns the journeys for a calendar date in departure order.
// The returned slice is a copy; callers may filter and sort it freely.
func (c *Catalog) JourneysOn(date string) []models.Journey {
	c.mu.RLock()
	defer c.mu.RUnlock()
	src := c.byDate[date]
	out := make([]models.Journey, len(src))
	copy(out, src)
	return out
}

// Dates returns the calendar dates with at least one journey, sorted
func (c *Catalog) Dates() []string {
	c.mu.RLock()
	defer c.mu.RUnlock()
	dates := make([]string, 0, len(c.byDate))
	for d := range c.byDate {
		dates = append(dates, d)
	}
	sort.Strings(dates)
	return dates
}

// JourneyByID returns a journey by id (in-memory lookup)
func (c *Catalog) JourneyByID(id string) (models.Journey, bool) {
	c.mu.RLock()
	defer c.mu.RUnlock()
	j, ok := c.journeys[id]
	return j, ok
}

// FareByID returns a fare by id
func (c *Catalog) FareByID(id string) (models.Fare, bool) {
	c.mu.RLock()
	defer c.mu.RUnlock()
	f, ok := c.fares[id]
	return f, ok
}

// ExtraByID returns an extra by id
func (c *Catalog) ExtraByID(id string) (models.Extra, bool) {
	c.mu.RLock()
	defer c.mu.RUnlock()
	e, ok := c.extras[id]
	return e, ok
}

// Fares lists all fare tiers, cheapest surcharge first
func (c *Catalog) Fares() []models.Fare {
	c.mu.RLock()
	defer c.mu.RUnlock()
	out := make([]models.Fare, 0, len(c.fareIDs))
	for _, id := range c.fareIDs {
		out = append(out, c.fares[id])
	}
	return out
}

// Extras lists all add-ons
func (c *Catalog) Extras() []models.Extra {
	c.mu.RLock()
	defer c.mu.RUnlock()
	out := make([]models.Extra, 0, len(c.extraIDs))
	for _, id := range c.extraIDs {
		out = append(out, c.extras[id])
	}
	return out
}
