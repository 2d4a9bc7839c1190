package models

import "time"

// TrainType represents the train service family operating a journey
type TrainType string

const (
	TrainAVE   TrainType = "AVE"
	TrainAVLO  TrainType = "AVLO"
	TrainALVIA TrainType = "ALVIA"
	TrainMD    TrainType = "MD"
)

// TripType represents whether the booking covers one or two legs
type TripType string

const (
	TripOneWay    TripType = "one_way"
	TripRoundTrip TripType = "round_trip"
)

// Journey represents a candidate train trip for one calendar day
//
// Invariants (enforced by catalog normalization):
//   - Transfers == 0 if and only if Direct == true
//   - ConnectionMinutes == 0 when Direct == true
type Journey struct {
	ID          string    `json:"id"`
	Date        string    `json:"date"` // YYYY-MM-DD
	Origin      string    `json:"origin"`
	Destination string    `json:"destination"`
	TrainType   TrainType `json:"train_type"`

	// Timing. Clock times are minutes since midnight.
	DepartureMinutes int `json:"departure_minutes"`
	ArrivalMinutes   int `json:"arrival_minutes"`
	DurationMinutes  int `json:"duration_minutes"`

	// Connectivity
	Direct            bool `json:"direct"`
	Transfers         int  `json:"transfers"`
	ConnectionMinutes int  `json:"connection_minutes"`

	Price float64 `json:"price"`

	// Onboard services
	Wifi      bool `json:"wifi"`
	Power     bool `json:"power"`
	QuietZone bool `json:"quiet_zone"`
	Cafe      bool `json:"cafe"`

	// Accessibility
	AccessibleSeat  bool `json:"accessible_seat"`
	StaffAssistance bool `json:"staff_assistance"`
	CompanionSeat   bool `json:"companion_seat"`
	AdjacentSeat    bool `json:"adjacent_seat"`

	// Pets
	PetFriendly bool `json:"pet_friendly"`
	PetSmall    bool `json:"pet_small"`
	PetMedium   bool `json:"pet_medium"`
	PetLarge    bool `json:"pet_large"`
}

// Fare represents a named upsell tier with a flat surcharge per booking
// Immutable reference data.
type Fare struct {
	ID        string   `json:"id"`
	Name      string   `json:"name"`
	Surcharge float64  `json:"surcharge"`
	Features  []string `json:"features"`
}

// Extra represents an optional add-on purchase
// A zero price means a free/included marketing item.
type Extra struct {
	ID          string  `json:"id"`
	Name        string  `json:"name"`
	Description string  `json:"description"`
	Price       float64 `json:"price"`
}

// PassengerCounts holds the traveler composition of a booking
type PassengerCounts struct {
	Adults   int `json:"adults"`
	Children int `json:"children"`
	Infants  int `json:"infants"`
}

// Total returns the combined passenger count
func (p PassengerCounts) Total() int {
	return p.Adults + p.Children + p.Infants
}

// TripSelection is the user's in-progress booking state for one session
//
// Extras are keyed per journey combination (outbound id, or
// "outboundID|returnID" for round trips) so extras chosen for one trip
// don't leak into another. See CombinationKey.
type TripSelection struct {
	ID           string                     `json:"id"`
	TripType     TripType                   `json:"trip_type"`
	OutboundID   string                     `json:"outbound_id,omitempty"`
	ReturnID     string                     `json:"return_id,omitempty"`
	FareID       string                     `json:"fare_id,omitempty"`
	Extras       map[string]map[string]bool `json:"extras,omitempty"` // combination key -> extra id -> selected
	Passengers   PassengerCounts            `json:"passengers"`
	PaymentError bool                       `json:"payment_error"`
	CreatedAt    time.Time                  `json:"created_at"`
	UpdatedAt    time.Time                  `json:"updated_at"`
}

// SeedLog represents one run of the timetable seeder
type SeedLog struct {
	ID          int64
	StartedAt   time.Time
	CompletedAt *time.Time
	Status      string
	Seed        int64
	Days        int
	JourneyRows int
	ErrorMsg    string
}
