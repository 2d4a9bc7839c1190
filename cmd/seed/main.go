package main

import (
	"context"
	"flag"
	"fmt"
	"log"
	"math/rand"
	"os"
	"strings"
	"time"

	"github.com/jackc/pgx/v5/pgxpool"
	"github.com/joho/godotenv"
	"github.com/railbook/railbook_core/internal/catalog"
	"github.com/railbook/railbook_core/internal/db"
	"github.com/railbook/railbook_core/internal/models"
)

// corridor is one origin/destination pair served by the mock timetable
type corridor struct {
	origin      string
	destination string
	basePrice   float64
	baseMinutes int
	trainTypes  []models.TrainType
}

var corridors = []corridor{
	{"Madrid", "Barcelona", 58, 150, []models.TrainType{models.TrainAVE, models.TrainAVLO}},
	{"Madrid", "Sevilla", 47, 160, []models.TrainType{models.TrainAVE, models.TrainAVLO}},
	{"Madrid", "Valencia", 39, 110, []models.TrainType{models.TrainAVE, models.TrainALVIA}},
	{"Barcelona", "Valencia", 32, 180, []models.TrainType{models.TrainALVIA, models.TrainMD}},
	{"Madrid", "Zaragoza", 28, 85, []models.TrainType{models.TrainAVE, models.TrainMD}},
}

func main() {
	fromStr := flag.String("from", time.Now().Format("2006-01-02"), "First timetable date (YYYY-MM-DD)")
	days := flag.Int("days", 14, "Number of days to generate")
	seed := flag.Int64("seed", 42, "PRNG seed (same seed, same timetable)")
	perDay := flag.Int("per-day", 8, "Journeys per corridor direction per day")
	reset := flag.Bool("reset", false, "Delete existing journeys before seeding")

	flag.Parse()

	_ = godotenv.Load()

	from, err := time.Parse("2006-01-02", *fromStr)
	if err != nil {
		fmt.Println("Usage: railbook-seed [--from=YYYY-MM-DD] [--days=14] [--seed=42] [--per-day=8] [--reset]")
		flag.PrintDefaults()
		os.Exit(1)
	}
	if *days < 1 {
		log.Fatalf("--days must be at least 1")
	}

	log.Println("Starting timetable seed...")
	log.Printf("From: %s, days: %d, seed: %d", *fromStr, *days, *seed)

	pool, err := db.GetDB()
	if err != nil {
		log.Fatalf("Failed to connect to database: %v", err)
	}
	defer db.Close()

	ctx := context.Background()

	log.Println("Step 1/4: Ensuring schema...")
	if err := db.EnsureSchema(ctx, pool); err != nil {
		log.Fatalf("Failed to ensure schema: %v", err)
	}

	logID, err := createSeedLog(ctx, pool, *seed, *days)
	if err != nil {
		log.Fatalf("Failed to create seed log: %v", err)
	}

	rows, err := runSeed(ctx, pool, from, *days, *seed, *perDay, *reset)
	if err != nil {
		updateSeedLog(ctx, pool, logID, "failed", 0, err.Error())
		log.Fatalf("Seed failed: %v", err)
	}

	updateSeedLog(ctx, pool, logID, "completed", rows, "")
	log.Printf("Seed completed successfully! (%d journeys)", rows)
}

func runSeed(ctx context.Context, pool *pgxpool.Pool, from time.Time, days int, seed int64, perDay int, reset bool) (int, error) {
	if reset {
		log.Println("Step 2/4: Removing existing journeys...")
		if _, err := pool.Exec(ctx, `DELETE FROM journey`); err != nil {
			return 0, fmt.Errorf("failed to delete journeys: %w", err)
		}
	} else {
		log.Println("Step 2/4: Keeping existing journeys (--reset not set)")
	}

	log.Println("Step 3/4: Seeding fares and extras...")
	if err := seedReferenceData(ctx, pool); err != nil {
		return 0, fmt.Errorf("failed to seed reference data: %w", err)
	}

	log.Println("Step 4/4: Generating journey timetable...")
	journeys := generateTimetable(from, days, seed, perDay)
	journeys = catalog.NormalizeJourneys(journeys)

	if err := insertJourneysChunked(ctx, pool, journeys); err != nil {
		return 0, fmt.Errorf("failed to insert journeys: %w", err)
	}

	return len(journeys), nil
}

// seedReferenceData upserts the fare tiers and add-ons shown by the fares
// and extras pages
func seedReferenceData(ctx context.Context, pool *pgxpool.Pool) error {
	fares := []models.Fare{
		{ID: "basic", Name: "Básico", Surcharge: 0, Features: []string{
			"Standard seat", "No changes or refunds"}},
		{ID: "elige", Name: "Elige", Surcharge: 8, Features: []string{
			"Seat selection", "Changes with fee"}},
		{ID: "comfort", Name: "Confort", Surcharge: 15, Features: []string{
			"XL seat", "Seat selection", "Free changes"}},
		{ID: "premium", Name: "Premium", Surcharge: 25, Features: []string{
			"XL seat", "Seat selection", "Free changes", "Full refund", "Meal included"}},
	}

	extras := []models.Extra{
		{ID: "meal", Name: "Onboard meal", Description: "Hot meal served at your seat", Price: 12},
		{ID: "pet", Name: "Pet transport", Description: "Travel with your pet (up to 10kg)", Price: 10},
		{ID: "seat", Name: "Seat selection", Description: "Choose your exact seat", Price: 5},
		{ID: "luggage", Name: "Extra luggage", Description: "One additional checked bag", Price: 8},
		{ID: "magazine", Name: "Travel magazine", Description: "Complimentary onboard magazine", Price: 0},
	}

	tx, err := pool.Begin(ctx)
	if err != nil {
		return fmt.Errorf("failed to begin transaction: %w", err)
	}
	defer tx.Rollback(ctx)

	for _, f := range fares {
		_, err := tx.Exec(ctx, `
			INSERT INTO fare (id, name, surcharge, features)
			VALUES ($1, $2, $3, $4)
			ON CONFLICT (id) DO UPDATE
			SET name = EXCLUDED.name, surcharge = EXCLUDED.surcharge, features = EXCLUDED.features
		`, f.ID, f.Name, f.Surcharge, f.Features)
		if err != nil {
			return fmt.Errorf("failed to upsert fare %s: %w", f.ID, err)
		}
	}

	for _, e := range extras {
		_, err := tx.Exec(ctx, `
			INSERT INTO extra (id, name, description, price)
			VALUES ($1, $2, $3, $4)
			ON CONFLICT (id) DO UPDATE
			SET name = EXCLUDED.name, description = EXCLUDED.description, price = EXCLUDED.price
		`, e.ID, e.Name, e.Description, e.Price)
		if err != nil {
			return fmt.Errorf("failed to upsert extra %s: %w", e.ID, err)
		}
	}

	return tx.Commit(ctx)
}

// generateTimetable produces a deterministic mock timetable: same seed,
// same journeys
func generateTimetable(from time.Time, days int, seed int64, perDay int) []models.Journey {
	rng := rand.New(rand.NewSource(seed))
	var journeys []models.Journey

	for d := 0; d < days; d++ {
		date := from.AddDate(0, 0, d).Format("2006-01-02")

		for _, cor := range corridors {
			for _, dir := range [][2]string{
				{cor.origin, cor.destination},
				{cor.destination, cor.origin},
			} {
				for i := 0; i < perDay; i++ {
					journeys = append(journeys, randomJourney(rng, date, dir[0], dir[1], cor, len(journeys)))
				}
			}
		}
	}

	return journeys
}

func randomJourney(rng *rand.Rand, date, origin, destination string, cor corridor, seq int) models.Journey {
	j := models.Journey{
		ID:          fmt.Sprintf("J%s-%05d", strings.ReplaceAll(date, "-", ""), seq),
		Date:        date,
		Origin:      origin,
		Destination: destination,
		TrainType:   cor.trainTypes[rng.Intn(len(cor.trainTypes))],
	}

	// Departures spread between 06:00 and 21:30
	j.DepartureMinutes = 6*60 + rng.Intn(32)*30

	j.DurationMinutes = cor.baseMinutes + rng.Intn(30)
	j.Direct = rng.Float64() < 0.7
	if !j.Direct {
		j.Transfers = 1 + rng.Intn(2)
		j.ConnectionMinutes = 15 + rng.Intn(60)
		j.DurationMinutes += j.Transfers * j.ConnectionMinutes
	}
	j.ArrivalMinutes = j.DepartureMinutes + j.DurationMinutes
	if j.ArrivalMinutes > 24*60 {
		// Keep journeys within the service day
		j.ArrivalMinutes = 24 * 60
		j.DurationMinutes = j.ArrivalMinutes - j.DepartureMinutes
	}

	// AVLO is the budget service, AVE the premium one
	price := cor.basePrice * (0.8 + rng.Float64()*0.6)
	switch j.TrainType {
	case models.TrainAVLO:
		price *= 0.6
	case models.TrainAVE:
		price *= 1.2
	}
	j.Price = float64(int(price*100)) / 100

	j.Wifi = rng.Float64() < 0.8
	j.Power = rng.Float64() < 0.9
	j.QuietZone = rng.Float64() < 0.4
	j.Cafe = j.TrainType == models.TrainAVE || rng.Float64() < 0.3

	j.AccessibleSeat = rng.Float64() < 0.75
	j.StaffAssistance = rng.Float64() < 0.6
	j.CompanionSeat = j.AccessibleSeat && rng.Float64() < 0.5
	j.AdjacentSeat = j.AccessibleSeat && rng.Float64() < 0.5

	j.PetFriendly = rng.Float64() < 0.65
	if j.PetFriendly {
		j.PetSmall = true
		j.PetMedium = rng.Float64() < 0.5
		j.PetLarge = rng.Float64() < 0.2
	}

	return j
}

// insertJourneysChunked writes journeys in transaction chunks so one huge
// timetable does not hold a single transaction open
func insertJourneysChunked(ctx context.Context, pool *pgxpool.Pool, journeys []models.Journey) error {
	const chunkSize = 500

	for start := 0; start < len(journeys); start += chunkSize {
		end := start + chunkSize
		if end > len(journeys) {
			end = len(journeys)
		}

		tx, err := pool.Begin(ctx)
		if err != nil {
			return fmt.Errorf("failed to begin transaction: %w", err)
		}

		for _, j := range journeys[start:end] {
			_, err := tx.Exec(ctx, `
				INSERT INTO journey (
					id, date, origin, destination, train_type,
					departure_minutes, arrival_minutes, duration_minutes,
					direct, transfers, connection_minutes, price,
					wifi, power, quiet_zone, cafe,
					accessible_seat, staff_assistance, companion_seat, adjacent_seat,
					pet_friendly, pet_small, pet_medium, pet_large
				) VALUES (
					$1, $2, $3, $4, $5, $6, $7, $8, $9, $10, $11, $12,
					$13, $14, $15, $16, $17, $18, $19, $20, $21, $22, $23, $24
				)
				ON CONFLICT (id) DO NOTHING
			`,
				j.ID, j.Date, j.Origin, j.Destination, j.TrainType,
				j.DepartureMinutes, j.ArrivalMinutes, j.DurationMinutes,
				j.Direct, j.Transfers, j.ConnectionMinutes, j.Price,
				j.Wifi, j.Power, j.QuietZone, j.Cafe,
				j.AccessibleSeat, j.StaffAssistance, j.CompanionSeat, j.AdjacentSeat,
				j.PetFriendly, j.PetSmall, j.PetMedium, j.PetLarge)
			if err != nil {
				tx.Rollback(ctx)
				return fmt.Errorf("failed to insert journey %s: %w", j.ID, err)
			}
		}

		if err := tx.Commit(ctx); err != nil {
			return fmt.Errorf("failed to commit chunk: %w", err)
		}

		log.Printf("  Inserted %d/%d journeys", end, len(journeys))
	}

	return nil
}

func createSeedLog(ctx context.Context, pool *pgxpool.Pool, seed int64, days int) (int64, error) {
	var id int64
	err := pool.QueryRow(ctx, `
		INSERT INTO seed_log (status, seed, days)
		VALUES ('running', $1, $2)
		RETURNING id
	`, seed, days).Scan(&id)
	return id, err
}

func updateSeedLog(ctx context.Context, pool *pgxpool.Pool, id int64, status string, rows int, errMsg string) {
	_, err := pool.Exec(ctx, `
		UPDATE seed_log
		SET completed_at = now(), status = $2, journey_rows = $3, error_msg = $4
		WHERE id = $1
	`, id, status, rows, errMsg)
	if err != nil {
		log.Printf("Warning: failed to update seed log: %v", err)
	}
}
