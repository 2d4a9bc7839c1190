package catalog

import (
	"testing"

	"github.com/railbook/railbook_core/internal/models"
	"github.com/stretchr/testify/assert"
)

func TestParseClockTime(t *testing.T) {
	t.Run("valid times", func(t *testing.T) {
		tests := []struct {
			in       string
			expected int
		}{
			{"00:00", 0},
			{"06:30", 390},
			{"18:05", 1085},
			{"24:00", 1440},
		}
		for _, tt := range tests {
			got, err := ParseClockTime(tt.in)
			assert.NoError(t, err)
			assert.Equal(t, tt.expected, got)
		}
	})

	t.Run("invalid times", func(t *testing.T) {
		for _, in := range []string{"", "7", "7:5:0", "25:00", "24:01", "12:60", "ab:cd"} {
			_, err := ParseClockTime(in)
			assert.Error(t, err, "input %q", in)
		}
	})
}

func TestFormatClockTime(t *testing.T) {
	assert.Equal(t, "06:05", FormatClockTime(365))
	assert.Equal(t, "00:00", FormatClockTime(0))
	assert.Equal(t, "23:59", FormatClockTime(1439))
}

func validJourney(id string) models.Journey {
	return models.Journey{
		ID:               id,
		Date:             "2026-09-01",
		Origin:           "Madrid",
		Destination:      "Sevilla",
		TrainType:        models.TrainAVE,
		DepartureMinutes: 540,
		ArrivalMinutes:   690,
		DurationMinutes:  150,
		Direct:           true,
		Price:            45,
	}
}

func TestNormalizeJourneys(t *testing.T) {
	t.Run("keeps valid journeys in order", func(t *testing.T) {
		in := []models.Journey{validJourney("a"), validJourney("b")}
		out := NormalizeJourneys(in)
		assert.Len(t, out, 2)
		assert.Equal(t, "a", out[0].ID)
		assert.Equal(t, "b", out[1].ID)
	})

	t.Run("drops empty and duplicate ids", func(t *testing.T) {
		dup := validJourney("a")
		empty := validJourney("")
		out := NormalizeJourneys([]models.Journey{validJourney("a"), dup, empty})
		assert.Len(t, out, 1)
	})

	t.Run("direct flag clears transfer fields", func(t *testing.T) {
		j := validJourney("a")
		j.Transfers = 2
		j.ConnectionMinutes = 30

		out := NormalizeJourneys([]models.Journey{j})
		assert.Len(t, out, 1)
		assert.Equal(t, 0, out[0].Transfers)
		assert.Equal(t, 0, out[0].ConnectionMinutes)
	})

	t.Run("non-direct journey gets at least one transfer", func(t *testing.T) {
		j := validJourney("a")
		j.Direct = false
		j.Transfers = 0

		out := NormalizeJourneys([]models.Journey{j})
		assert.Len(t, out, 1)
		assert.Equal(t, 1, out[0].Transfers)
	})

	t.Run("drops out-of-day times and bad numbers", func(t *testing.T) {
		badTime := validJourney("t")
		badTime.DepartureMinutes = 24 * 60

		badDuration := validJourney("d")
		badDuration.DurationMinutes = 0

		badPrice := validJourney("p")
		badPrice.Price = -1

		out := NormalizeJourneys([]models.Journey{badTime, badDuration, badPrice, validJourney("ok")})
		assert.Len(t, out, 1)
		assert.Equal(t, "ok", out[0].ID)
	})

	t.Run("pet size flags cleared when not pet friendly", func(t *testing.T) {
		j := validJourney("a")
		j.PetFriendly = false
		j.PetSmall = true
		j.PetLarge = true

		out := NormalizeJourneys([]models.Journey{j})
		assert.False(t, out[0].PetSmall)
		assert.False(t, out[0].PetLarge)
	})
}
