package filter

import "github.com/railbook/railbook_core/internal/models"

// Time-of-day bands in minutes since midnight. Inclusive start, exclusive end.
const (
	morningStart   = 6 * 60
	afternoonStart = 12 * 60
	nightStart     = 18 * 60
	dayEnd         = 24 * 60
)

// Apply returns the subsequence of journeys matching every constraint in cfg.
// The relative order of the input is preserved and the input is never
// mutated; sorting is the caller's concern.
func Apply(journeys []models.Journey, cfg Config) []models.Journey {
	result := make([]models.Journey, 0, len(journeys))
	for _, j := range journeys {
		if Matches(j, cfg) {
			result = append(result, j)
		}
	}
	return result
}

// Matches reports whether a single journey satisfies every predicate in cfg
func Matches(j models.Journey, cfg Config) bool {
	if cfg.DirectOnly {
		if !j.Direct {
			return false
		}
	} else {
		if j.Transfers > cfg.MaxTransfers {
			return false
		}
		// Connections shorter than the user's minimum tolerance are
		// rejected even when the transfer count is acceptable.
		if j.Transfers > 0 && cfg.MinConnection > j.ConnectionMinutes {
			return false
		}
	}

	if j.Price > cfg.MaxPrice {
		return false
	}

	if j.DurationMinutes > cfg.DurationCeiling() {
		return false
	}

	if !withinWindow(j.DepartureMinutes, cfg.DepartStart, cfg.DepartEnd) {
		return false
	}
	if !withinWindow(j.ArrivalMinutes, cfg.ArriveStart, cfg.ArriveEnd) {
		return false
	}

	if !matchesBands(j.DepartureMinutes, cfg) {
		return false
	}

	if wantsPetFriendly(cfg) && !j.PetFriendly {
		return false
	}

	if cfg.AccessibleSeat && !j.AccessibleSeat {
		return false
	}
	if cfg.StaffAssistance && !j.StaffAssistance {
		return false
	}

	if len(cfg.TrainTypes) > 0 && !containsType(cfg.TrainTypes, j.TrainType) {
		return false
	}

	return true
}

// withinWindow checks a clock time against an hour range, inclusive on
// both ends
func withinWindow(minutes, startHour, endHour int) bool {
	return minutes >= startHour*60 && minutes <= endHour*60
}

// matchesBands requires the departure to fall in at least one selected
// time-of-day band; with no band selected every departure passes
func matchesBands(departure int, cfg Config) bool {
	if !cfg.Morning && !cfg.Afternoon && !cfg.Night {
		return true
	}
	if cfg.Morning && departure >= morningStart && departure < afternoonStart {
		return true
	}
	if cfg.Afternoon && departure >= afternoonStart && departure < nightStart {
		return true
	}
	if cfg.Night && departure >= nightStart && departure < dayEnd {
		return true
	}
	return false
}

// wantsPetFriendly reports whether any pet toggle implies the general
// pet-friendly requirement. Size toggles do not further narrow by the
// journey's own size flags.
func wantsPetFriendly(cfg Config) bool {
	return cfg.PetFriendly || cfg.PetSmall || cfg.PetMedium || cfg.PetLarge
}

func containsType(types []models.TrainType, t models.TrainType) bool {
	for _, candidate := range types {
		if candidate == t {
			return true
		}
	}
	return false
}
