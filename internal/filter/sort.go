package filter

import (
	"sort"

	"github.com/railbook/railbook_core/internal/models"
)

// Strategy defines an ordering applied to a result list after filtering
type Strategy interface {
	Name() string
	Less(a, b models.Journey) bool
}

// RecommendedStrategy puts direct journeys first, then cheaper ones
// Default ordering for the results page.
type RecommendedStrategy struct{}

func (s *RecommendedStrategy) Name() string {
	return "recommended"
}

func (s *RecommendedStrategy) Less(a, b models.Journey) bool {
	if a.Direct != b.Direct {
		return a.Direct
	}
	if a.Price != b.Price {
		return a.Price < b.Price
	}
	return a.DepartureMinutes < b.DepartureMinutes
}

// CheapestStrategy orders purely by price
type CheapestStrategy struct{}

func (s *CheapestStrategy) Name() string {
	return "cheapest"
}

func (s *CheapestStrategy) Less(a, b models.Journey) bool {
	if a.Price != b.Price {
		return a.Price < b.Price
	}
	return a.DepartureMinutes < b.DepartureMinutes
}

// FastestStrategy orders by total travel time
type FastestStrategy struct{}

func (s *FastestStrategy) Name() string {
	return "fastest"
}

func (s *FastestStrategy) Less(a, b models.Journey) bool {
	if a.DurationMinutes != b.DurationMinutes {
		return a.DurationMinutes < b.DurationMinutes
	}
	return a.Price < b.Price
}

// EarliestStrategy orders by departure time
type EarliestStrategy struct{}

func (s *EarliestStrategy) Name() string {
	return "earliest"
}

func (s *EarliestStrategy) Less(a, b models.Journey) bool {
	if a.DepartureMinutes != b.DepartureMinutes {
		return a.DepartureMinutes < b.DepartureMinutes
	}
	return a.Price < b.Price
}

// GetStrategy returns a sort strategy by name
func GetStrategy(name string) Strategy {
	switch name {
	case "cheapest":
		return &CheapestStrategy{}
	case "fastest":
		return &FastestStrategy{}
	case "earliest":
		return &EarliestStrategy{}
	default:
		return &RecommendedStrategy{}
	}
}

// GetAllStrategies returns all available sort strategies
func GetAllStrategies() []Strategy {
	return []Strategy{
		&RecommendedStrategy{},
		&CheapestStrategy{},
		&FastestStrategy{},
		&EarliestStrategy{},
	}
}

// Sort orders journeys in place using the given strategy, keeping the
// original relative order of equal elements
func Sort(journeys []models.Journey, strategy Strategy) {
	sort.SliceStable(journeys, func(i, k int) bool {
		return strategy.Less(journeys[i], journeys[k])
	})
}
