package pricing

import (
	"strconv"

	"github.com/railbook/railbook_core/internal/models"
)

// Lookup resolves ids against the booking catalog. Lookups that miss
// contribute nothing to a total; the aggregator never fails.
type Lookup interface {
	JourneyByID(id string) (models.Journey, bool)
	FareByID(id string) (models.Fare, bool)
	ExtraByID(id string) (models.Extra, bool)
}

// Totals is the monetary summary of a trip selection
type Totals struct {
	Base   float64 `json:"base"`
	Fare   float64 `json:"fare"`
	Extras float64 `json:"extras"`
	Total  float64 `json:"total"`
}

// BreakdownItem is one formatted line of the summary display
type BreakdownItem struct {
	Label string `json:"label"`
	Value string `json:"value"`
}

// ComputeTotals derives the monetary summary from the current selection.
//
// Base covers the outbound price plus, only for a round trip with a return
// journey chosen, the return price. The fare surcharge applies once per
// booking, not per passenger. Extras sum the add-ons toggled on for the
// active journey combination. Total is always Base + Fare + Extras; when a
// page needs a per-passenger figure it must call PerPassengerTotal
// explicitly rather than folding the multiplication in here.
//
// Incomplete selections degrade to zero contributions. Validation such as
// "a fare must be chosen before continuing" belongs to the calling page.
func ComputeTotals(sel *models.TripSelection, lookup Lookup) Totals {
	var t Totals
	if sel == nil || lookup == nil {
		return t
	}

	if j, ok := lookup.JourneyByID(sel.OutboundID); ok {
		t.Base += j.Price
	}
	if sel.TripType == models.TripRoundTrip && sel.ReturnID != "" {
		if j, ok := lookup.JourneyByID(sel.ReturnID); ok {
			t.Base += j.Price
		}
	}

	if f, ok := lookup.FareByID(sel.FareID); ok {
		t.Fare = f.Surcharge
	}

	for _, id := range sel.SelectedExtras() {
		if e, ok := lookup.ExtraByID(id); ok {
			t.Extras += e.Price
		}
	}

	t.Total = t.Base + t.Fare + t.Extras
	return t
}

// PerPassengerTotal multiplies the flat total by the passenger count.
// Deliberately a separate step: the canonical total stays flat.
func PerPassengerTotal(t Totals, passengers models.PassengerCounts) float64 {
	return t.Total * float64(passengers.Total())
}

// BuildBreakdown produces the ordered line items shown in the sticky
// summary bar and the payment step
func BuildBreakdown(t Totals, passengers models.PassengerCounts) []BreakdownItem {
	return []BreakdownItem{
		{Label: "Base fare", Value: FormatAmount(t.Base)},
		{Label: "Tariff", Value: FormatAmount(t.Fare)},
		{Label: "Extras", Value: FormatAmount(t.Extras)},
		{Label: "Passengers", Value: strconv.Itoa(passengers.Total())},
	}
}
