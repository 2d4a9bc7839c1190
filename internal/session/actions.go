package session

import (
	"fmt"

	"github.com/railbook/railbook_core/internal/models"
)

// Action is one dispatch against a trip selection. Every page mutation in
// the booking flow goes through here; the stored state is written back
// immediately after a successful apply.
type Action struct {
	Type       string                  `json:"type"`
	JourneyID  string                  `json:"journey_id,omitempty"`
	FareID     string                  `json:"fare_id,omitempty"`
	ExtraID    string                  `json:"extra_id,omitempty"`
	TripType   models.TripType         `json:"trip_type,omitempty"`
	Passengers *models.PassengerCounts `json:"passengers,omitempty"`
}

// Action types
const (
	ActionSelectOutbound    = "select_outbound"
	ActionSelectReturn      = "select_return"
	ActionSelectFare        = "select_fare"
	ActionToggleExtra       = "toggle_extra"
	ActionSetTripType       = "set_trip_type"
	ActionSetPassengers     = "set_passengers"
	ActionClearPaymentError = "clear_payment_error"
	ActionReset             = "reset"
)

// Apply mutates the selection according to the action. The selection is
// left untouched when an error is returned.
func Apply(sel *models.TripSelection, a Action) error {
	switch a.Type {
	case ActionSelectOutbound:
		if a.JourneyID == "" {
			return fmt.Errorf("select_outbound requires journey_id")
		}
		sel.OutboundID = a.JourneyID

	case ActionSelectReturn:
		// An empty journey_id clears the return leg.
		sel.ReturnID = a.JourneyID

	case ActionSelectFare:
		if a.FareID == "" {
			return fmt.Errorf("select_fare requires fare_id")
		}
		sel.FareID = a.FareID

	case ActionToggleExtra:
		if a.ExtraID == "" {
			return fmt.Errorf("toggle_extra requires extra_id")
		}
		key := sel.ActiveCombinationKey()
		if key == "" {
			return fmt.Errorf("cannot toggle extras before selecting a journey")
		}
		if sel.Extras == nil {
			sel.Extras = make(map[string]map[string]bool)
		}
		if sel.Extras[key] == nil {
			sel.Extras[key] = make(map[string]bool)
		}
		sel.Extras[key][a.ExtraID] = !sel.Extras[key][a.ExtraID]

	case ActionSetTripType:
		switch a.TripType {
		case models.TripOneWay:
			sel.TripType = models.TripOneWay
			sel.ReturnID = ""
		case models.TripRoundTrip:
			sel.TripType = models.TripRoundTrip
		default:
			return fmt.Errorf("unknown trip type: %s", a.TripType)
		}

	case ActionSetPassengers:
		if a.Passengers == nil {
			return fmt.Errorf("set_passengers requires passengers")
		}
		p := *a.Passengers
		if p.Adults < 0 || p.Children < 0 || p.Infants < 0 {
			return fmt.Errorf("passenger counts must be non-negative")
		}
		if p.Total() < 1 {
			return fmt.Errorf("at least one passenger is required")
		}
		sel.Passengers = p

	case ActionClearPaymentError:
		sel.PaymentError = false

	case ActionReset:
		// Back to a fresh selection, keeping identity and creation time.
		sel.TripType = models.TripOneWay
		sel.OutboundID = ""
		sel.ReturnID = ""
		sel.FareID = ""
		sel.Extras = nil
		sel.Passengers = models.PassengerCounts{Adults: 1}
		sel.PaymentError = false

	default:
		return fmt.Errorf("unknown action type: %s", a.Type)
	}

	return nil
}
