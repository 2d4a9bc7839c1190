package catalog

import (
	"fmt"
	"log"
	"strings"

	"github.com/railbook/railbook_core/internal/models"
)

// ParseClockTime converts "HH:MM" to minutes since midnight.
// 24:00 is accepted as the end-of-day boundary.
func ParseClockTime(s string) (int, error) {
	parts := strings.Split(s, ":")
	if len(parts) != 2 {
		return 0, fmt.Errorf("invalid time format: %s", s)
	}

	var hours, minutes int
	if _, err := fmt.Sscanf(parts[0], "%d", &hours); err != nil {
		return 0, fmt.Errorf("invalid time format: %s", s)
	}
	if _, err := fmt.Sscanf(parts[1], "%d", &minutes); err != nil {
		return 0, fmt.Errorf("invalid time format: %s", s)
	}

	if hours < 0 || hours > 24 || minutes < 0 || minutes > 59 || (hours == 24 && minutes != 0) {
		return 0, fmt.Errorf("time out of range: %s", s)
	}

	return hours*60 + minutes, nil
}

// FormatClockTime renders minutes since midnight as "HH:MM"
func FormatClockTime(minutes int) string {
	return fmt.Sprintf("%02d:%02d", minutes/60, minutes%60)
}

// NormalizeJourneys repairs or drops journeys that violate the data
// invariants before they enter the in-memory catalog:
//
//   - transfers == 0 iff direct; connection_minutes == 0 when direct
//   - clock times within a day, duration and price non-negative
//   - pet size flags cleared when the journey is not pet friendly
//   - duplicate ids keep the first occurrence
//
// Relative order of retained journeys is preserved.
func NormalizeJourneys(journeys []models.Journey) []models.Journey {
	cleaned := make([]models.Journey, 0, len(journeys))
	seen := make(map[string]bool, len(journeys))

	for _, j := range journeys {
		if j.ID == "" {
			log.Printf("Warning: dropping journey with empty id (%s -> %s)", j.Origin, j.Destination)
			continue
		}
		if seen[j.ID] {
			log.Printf("Warning: dropping duplicate journey id %s", j.ID)
			continue
		}

		if j.DepartureMinutes < 0 || j.DepartureMinutes >= 24*60 ||
			j.ArrivalMinutes < 0 || j.ArrivalMinutes > 24*60 {
			log.Printf("Warning: dropping journey %s with out-of-day clock times", j.ID)
			continue
		}
		if j.DurationMinutes <= 0 {
			log.Printf("Warning: dropping journey %s with non-positive duration", j.ID)
			continue
		}
		if j.Price < 0 {
			log.Printf("Warning: dropping journey %s with negative price", j.ID)
			continue
		}

		// Reconcile connectivity flags rather than dropping: the direct
		// flag is authoritative.
		if j.Direct {
			if j.Transfers != 0 || j.ConnectionMinutes != 0 {
				log.Printf("Warning: journey %s is direct, clearing transfer fields", j.ID)
				j.Transfers = 0
				j.ConnectionMinutes = 0
			}
		} else if j.Transfers <= 0 {
			log.Printf("Warning: journey %s is non-direct without transfers, assuming one", j.ID)
			j.Transfers = 1
		}

		if !j.PetFriendly && (j.PetSmall || j.PetMedium || j.PetLarge) {
			j.PetSmall = false
			j.PetMedium = false
			j.PetLarge = false
		}

		seen[j.ID] = true
		cleaned = append(cleaned, j)
	}

	if len(cleaned) < len(journeys) {
		log.Printf("Normalized journeys: removed %d invalid rows", len(journeys)-len(cleaned))
	}

	return cleaned
}
