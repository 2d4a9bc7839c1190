package pricing

import (
	"testing"

	"github.com/railbook/railbook_core/internal/models"
	"github.com/stretchr/testify/assert"
)

// fakeLookup is an in-memory catalog for aggregator tests
type fakeLookup struct {
	journeys map[string]models.Journey
	fares    map[string]models.Fare
	extras   map[string]models.Extra
}

func (f *fakeLookup) JourneyByID(id string) (models.Journey, bool) {
	j, ok := f.journeys[id]
	return j, ok
}

func (f *fakeLookup) FareByID(id string) (models.Fare, bool) {
	fare, ok := f.fares[id]
	return fare, ok
}

func (f *fakeLookup) ExtraByID(id string) (models.Extra, bool) {
	e, ok := f.extras[id]
	return e, ok
}

func testLookup() *fakeLookup {
	return &fakeLookup{
		journeys: map[string]models.Journey{
			"out-1": {ID: "out-1", Price: 50},
			"ret-1": {ID: "ret-1", Price: 40},
		},
		fares: map[string]models.Fare{
			"basic":   {ID: "basic", Name: "Basic", Surcharge: 0},
			"comfort": {ID: "comfort", Name: "Comfort", Surcharge: 12},
		},
		extras: map[string]models.Extra{
			"meal": {ID: "meal", Price: 5},
			"pet":  {ID: "pet", Price: 10},
			"mag":  {ID: "mag", Price: 0}, // free marketing item
		},
	}
}

func TestComputeTotals(t *testing.T) {
	t.Run("empty selection is all zeros", func(t *testing.T) {
		sel := &models.TripSelection{TripType: models.TripOneWay}
		assert.Equal(t, Totals{}, ComputeTotals(sel, testLookup()))
	})

	t.Run("nil selection never fails", func(t *testing.T) {
		assert.Equal(t, Totals{}, ComputeTotals(nil, testLookup()))
	})

	t.Run("outbound with basic fare and one extra", func(t *testing.T) {
		sel := &models.TripSelection{
			TripType:   models.TripOneWay,
			OutboundID: "out-1",
			FareID:     "basic",
			Extras: map[string]map[string]bool{
				"out-1": {"meal": true},
			},
		}
		got := ComputeTotals(sel, testLookup())
		assert.Equal(t, Totals{Base: 50, Fare: 0, Extras: 5, Total: 55}, got)
	})

	t.Run("return price counts only on a round trip", func(t *testing.T) {
		sel := &models.TripSelection{
			TripType:   models.TripOneWay,
			OutboundID: "out-1",
			ReturnID:   "ret-1",
		}
		assert.Equal(t, 50.0, ComputeTotals(sel, testLookup()).Base)

		sel.TripType = models.TripRoundTrip
		assert.Equal(t, 90.0, ComputeTotals(sel, testLookup()).Base)
	})

	t.Run("extras follow the active combination key", func(t *testing.T) {
		sel := &models.TripSelection{
			TripType:   models.TripRoundTrip,
			OutboundID: "out-1",
			ReturnID:   "ret-1",
			Extras: map[string]map[string]bool{
				"out-1":       {"meal": true}, // different combination, must not leak
				"out-1|ret-1": {"pet": true, "mag": true},
			},
		}
		got := ComputeTotals(sel, testLookup())
		assert.Equal(t, 10.0, got.Extras)
	})

	t.Run("toggled-off extras contribute nothing", func(t *testing.T) {
		sel := &models.TripSelection{
			TripType:   models.TripOneWay,
			OutboundID: "out-1",
			Extras: map[string]map[string]bool{
				"out-1": {"meal": false, "pet": true},
			},
		}
		assert.Equal(t, 10.0, ComputeTotals(sel, testLookup()).Extras)
	})

	t.Run("unknown ids degrade to zero contribution", func(t *testing.T) {
		sel := &models.TripSelection{
			TripType:   models.TripOneWay,
			OutboundID: "missing",
			FareID:     "missing",
			Extras: map[string]map[string]bool{
				"missing": {"missing": true},
			},
		}
		assert.Equal(t, Totals{}, ComputeTotals(sel, testLookup()))
	})

	t.Run("total is always the sum of its parts", func(t *testing.T) {
		sel := &models.TripSelection{
			TripType:   models.TripRoundTrip,
			OutboundID: "out-1",
			ReturnID:   "ret-1",
			FareID:     "comfort",
			Extras: map[string]map[string]bool{
				"out-1|ret-1": {"meal": true, "pet": true},
			},
		}
		got := ComputeTotals(sel, testLookup())
		assert.Equal(t, got.Base+got.Fare+got.Extras, got.Total)
		assert.Equal(t, Totals{Base: 90, Fare: 12, Extras: 15, Total: 117}, got)
	})

	// Pins the canonical formula: the fare surcharge and the total are
	// flat, never silently multiplied by passenger count.
	t.Run("total does not vary with passenger count", func(t *testing.T) {
		sel := &models.TripSelection{
			TripType:   models.TripOneWay,
			OutboundID: "out-1",
			FareID:     "comfort",
			Passengers: models.PassengerCounts{Adults: 3, Children: 1},
		}
		got := ComputeTotals(sel, testLookup())
		assert.Equal(t, 62.0, got.Total)
		assert.Equal(t, 248.0, PerPassengerTotal(got, sel.Passengers))
	})
}

func TestBuildBreakdown(t *testing.T) {
	totals := Totals{Base: 90, Fare: 12, Extras: 15, Total: 117}
	items := BuildBreakdown(totals, models.PassengerCounts{Adults: 2, Infants: 1})

	assert.Equal(t, []BreakdownItem{
		{Label: "Base fare", Value: "90,00 €"},
		{Label: "Tariff", Value: "12,00 €"},
		{Label: "Extras", Value: "15,00 €"},
		{Label: "Passengers", Value: "3"},
	}, items)
}
