package filter

import (
	"testing"

	"github.com/railbook/railbook_core/internal/models"
	"github.com/stretchr/testify/assert"
)

// baseJourney returns a journey that passes a default config
func baseJourney() models.Journey {
	return models.Journey{
		ID:               "J1",
		Date:             "2026-09-01",
		Origin:           "Madrid",
		Destination:      "Barcelona",
		TrainType:        models.TrainAVE,
		DepartureMinutes: 8 * 60,
		ArrivalMinutes:   10*60 + 30,
		DurationMinutes:  150,
		Direct:           true,
		Price:            62.50,
		PetFriendly:      true,
		AccessibleSeat:   true,
		StaffAssistance:  true,
	}
}

func TestMatches(t *testing.T) {
	t.Run("default config retains everything", func(t *testing.T) {
		assert.True(t, Matches(baseJourney(), DefaultConfig()))

		// Long journeys included: without a duration level there is no
		// duration ceiling at all.
		j := baseJourney()
		j.DurationMinutes = 300
		assert.True(t, Matches(j, DefaultConfig()))
		assert.Len(t, Apply([]models.Journey{j}, DefaultConfig()), 1)
	})

	t.Run("direct only excludes any non-direct journey", func(t *testing.T) {
		j := baseJourney()
		j.Direct = false
		j.Transfers = 1
		j.ConnectionMinutes = 45

		cfg := DefaultConfig()
		cfg.DirectOnly = true
		assert.False(t, Matches(j, cfg))

		cfg.DirectOnly = false
		assert.True(t, Matches(j, cfg))
	})

	t.Run("max transfers zero excludes one transfer regardless of connection", func(t *testing.T) {
		j := baseJourney()
		j.Direct = false
		j.Transfers = 1
		j.ConnectionMinutes = 120

		cfg := DefaultConfig()
		cfg.MaxTransfers = 0
		assert.False(t, Matches(j, cfg))
	})

	t.Run("connections below minimum tolerance are rejected", func(t *testing.T) {
		j := baseJourney()
		j.Direct = false
		j.Transfers = 1
		j.ConnectionMinutes = 15

		cfg := DefaultConfig()
		cfg.MinConnection = 30
		assert.False(t, Matches(j, cfg))

		j.ConnectionMinutes = 30
		assert.True(t, Matches(j, cfg))
	})

	t.Run("min connection does not apply to direct journeys", func(t *testing.T) {
		cfg := DefaultConfig()
		cfg.MinConnection = 30
		assert.True(t, Matches(baseJourney(), cfg))
	})

	t.Run("price ceiling", func(t *testing.T) {
		cfg := DefaultConfig()
		cfg.MaxPrice = 62.50
		assert.True(t, Matches(baseJourney(), cfg))

		cfg.MaxPrice = 62.49
		assert.False(t, Matches(baseJourney(), cfg))
	})

	t.Run("duration buckets", func(t *testing.T) {
		j := baseJourney()
		j.DurationMinutes = 150

		cfg := DefaultConfig()
		cfg.DurationLevel = "2" // 120 min ceiling
		assert.False(t, Matches(j, cfg))

		cfg.DurationLevel = "3" // 180 min ceiling
		assert.True(t, Matches(j, cfg))
	})

	t.Run("unknown duration level falls back to permissive 240", func(t *testing.T) {
		j := baseJourney()
		j.DurationMinutes = 240

		cfg := DefaultConfig()
		cfg.DurationLevel = "bogus"
		assert.True(t, Matches(j, cfg))

		j.DurationMinutes = 241
		assert.False(t, Matches(j, cfg))

		// The fallback applies only to explicitly supplied levels; the
		// empty default keeps the journey.
		cfg.DurationLevel = ""
		assert.True(t, Matches(j, cfg))
	})

	t.Run("departure window is inclusive on both ends", func(t *testing.T) {
		j := baseJourney()
		j.DepartureMinutes = 8 * 60

		cfg := DefaultConfig()
		cfg.DepartStart = 8
		cfg.DepartEnd = 8
		assert.True(t, Matches(j, cfg))

		j.DepartureMinutes = 8*60 + 1
		assert.False(t, Matches(j, cfg))
	})

	t.Run("arrival window", func(t *testing.T) {
		cfg := DefaultConfig()
		cfg.ArriveEnd = 10
		assert.False(t, Matches(baseJourney(), cfg)) // arrives 10:30

		cfg.ArriveEnd = 11
		assert.True(t, Matches(baseJourney(), cfg))
	})

	t.Run("time of day bands", func(t *testing.T) {
		j := baseJourney()

		cfg := DefaultConfig()
		cfg.Afternoon = true
		assert.False(t, Matches(j, cfg)) // departs 08:00

		cfg.Morning = true
		assert.True(t, Matches(j, cfg))
	})

	t.Run("band start is inclusive and end exclusive", func(t *testing.T) {
		j := baseJourney()
		cfg := DefaultConfig()
		cfg.Morning = true

		j.DepartureMinutes = 6 * 60
		assert.True(t, Matches(j, cfg))

		j.DepartureMinutes = 12 * 60
		assert.False(t, Matches(j, cfg))
	})

	t.Run("pet friendly requirement", func(t *testing.T) {
		j := baseJourney()
		j.PetFriendly = false

		cfg := DefaultConfig()
		cfg.PetFriendly = true
		assert.False(t, Matches(j, cfg))
	})

	t.Run("size toggle alone implies pet friendly requirement", func(t *testing.T) {
		j := baseJourney()
		j.PetFriendly = false

		cfg := DefaultConfig()
		cfg.PetSmall = true
		assert.False(t, Matches(j, cfg))

		j.PetFriendly = true
		j.PetSmall = false // journey size flags are not consulted
		assert.True(t, Matches(j, cfg))
	})

	t.Run("accessibility toggles", func(t *testing.T) {
		j := baseJourney()
		j.StaffAssistance = false

		cfg := DefaultConfig()
		cfg.StaffAssistance = true
		assert.False(t, Matches(j, cfg))

		cfg = DefaultConfig()
		cfg.AccessibleSeat = true
		assert.True(t, Matches(j, cfg))
	})

	t.Run("train type toggles", func(t *testing.T) {
		j := baseJourney()
		j.TrainType = models.TrainAVLO

		cfg := DefaultConfig()
		cfg.TrainTypes = []models.TrainType{models.TrainAVE, models.TrainALVIA}
		assert.False(t, Matches(j, cfg))

		cfg.TrainTypes = append(cfg.TrainTypes, models.TrainAVLO)
		assert.True(t, Matches(j, cfg))
	})
}

func TestApply(t *testing.T) {
	a := baseJourney()
	a.ID = "A"
	a.Price = 30

	b := baseJourney()
	b.ID = "B"
	b.Direct = false
	b.Transfers = 1
	b.ConnectionMinutes = 20
	b.Price = 25

	c := baseJourney()
	c.ID = "C"
	c.Price = 80

	journeys := []models.Journey{a, b, c}

	t.Run("retains only matching journeys in input order", func(t *testing.T) {
		cfg := DefaultConfig()
		cfg.DirectOnly = true

		got := Apply(journeys, cfg)
		assert.Equal(t, []string{"A", "C"}, ids(got))
	})

	t.Run("single journey kept iff it matches", func(t *testing.T) {
		cfg := DefaultConfig()
		cfg.MaxPrice = 50

		assert.Len(t, Apply([]models.Journey{a}, cfg), 1)
		assert.Len(t, Apply([]models.Journey{c}, cfg), 0)
	})

	t.Run("idempotent", func(t *testing.T) {
		cfg := DefaultConfig()
		cfg.MaxPrice = 50

		once := Apply(journeys, cfg)
		twice := Apply(once, cfg)
		assert.Equal(t, once, twice)
	})

	t.Run("empty input yields empty non-nil result", func(t *testing.T) {
		got := Apply(nil, DefaultConfig())
		assert.NotNil(t, got)
		assert.Len(t, got, 0)
	})

	t.Run("input slice is not mutated", func(t *testing.T) {
		before := ids(journeys)
		cfg := DefaultConfig()
		cfg.MaxPrice = 28
		Apply(journeys, cfg)
		assert.Equal(t, before, ids(journeys))
	})
}

func TestFromQuery(t *testing.T) {
	get := func(params map[string]string) QueryGetter {
		return func(key string) string { return params[key] }
	}

	t.Run("absent params keep unrestricted defaults", func(t *testing.T) {
		cfg := FromQuery(get(map[string]string{}))
		assert.Equal(t, DefaultConfig(), cfg)
	})

	t.Run("parses numeric thresholds", func(t *testing.T) {
		cfg := FromQuery(get(map[string]string{
			"max_transfers":  "1",
			"min_connection": "30",
			"max_price":      "75.5",
			"depart_start":   "6",
			"depart_end":     "14",
		}))
		assert.Equal(t, 1, cfg.MaxTransfers)
		assert.Equal(t, 30, cfg.MinConnection)
		assert.Equal(t, 75.5, cfg.MaxPrice)
		assert.Equal(t, 6, cfg.DepartStart)
		assert.Equal(t, 14, cfg.DepartEnd)
	})

	t.Run("malformed numbers are permissive, never an error", func(t *testing.T) {
		cfg := FromQuery(get(map[string]string{
			"max_transfers": "abc",
			"max_price":     "NaN",
			"depart_start":  "25",
		}))
		assert.Equal(t, DefaultConfig(), cfg)
	})

	t.Run("inverted windows restrict nothing", func(t *testing.T) {
		cfg := FromQuery(get(map[string]string{
			"depart_start": "14",
			"depart_end":   "6",
			"arrive_start": "20",
			"arrive_end":   "10",
		}))
		assert.Equal(t, DefaultConfig(), cfg)
	})

	t.Run("negative thresholds are ignored", func(t *testing.T) {
		cfg := FromQuery(get(map[string]string{
			"max_transfers": "-1",
			"max_price":     "-10",
		}))
		assert.Equal(t, DefaultConfig(), cfg)
	})

	t.Run("parses toggles and train types", func(t *testing.T) {
		cfg := FromQuery(get(map[string]string{
			"direct_only": "true",
			"morning":     "1",
			"pet_small":   "true",
			"train_types": "ave, md,unknown",
		}))
		assert.True(t, cfg.DirectOnly)
		assert.True(t, cfg.Morning)
		assert.True(t, cfg.PetSmall)
		assert.Equal(t, []models.TrainType{models.TrainAVE, models.TrainMD}, cfg.TrainTypes)
	})
}

func ids(journeys []models.Journey) []string {
	out := make([]string, len(journeys))
	for i, j := range journeys {
		out[i] = j.ID
	}
	return out
}
