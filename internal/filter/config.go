package filter

import (
	"math"
	"strconv"
	"strings"

	"github.com/railbook/railbook_core/internal/models"
)

// Unrestricted defaults. Every field of Config carries an explicit value;
// there are no optional/missing fields at this boundary.
const (
	NoTransferLimit  = 99
	NoDurationLevel  = ""
	DayStartHour     = 0
	DayEndHour       = 24
	maxDurationFloor = 240 // permissive ceiling for unrecognized duration levels
)

// Config is the full set of user-chosen constraints narrowing a journey list
// A freshly created Config (via DefaultConfig) restricts nothing.
type Config struct {
	DirectOnly    bool
	MaxTransfers  int
	MinConnection int // minutes; connections shorter than this are rejected
	MaxPrice      float64

	// DurationLevel is a symbolic bucket: "2" -> 120 min, "3" -> 180,
	// "4" -> 240. Empty means no ceiling at all; any other unrecognized
	// value falls back to the permissive 240 ceiling.
	DurationLevel string

	// Departure/arrival windows in whole hours, inclusive on both ends.
	DepartStart int
	DepartEnd   int
	ArriveStart int
	ArriveEnd   int

	// Time-of-day bands over the departure time. When at least one band is
	// on, the departure must fall inside a selected band ([start, end)).
	Morning   bool // 06:00-12:00
	Afternoon bool // 12:00-18:00
	Night     bool // 18:00-24:00

	// Pet toggles. Size toggles only imply the general pet-friendly
	// requirement; they do not narrow by the journey's own size flags.
	PetFriendly bool
	PetSmall    bool
	PetMedium   bool
	PetLarge    bool

	// Accessibility
	AccessibleSeat  bool
	StaffAssistance bool

	// TrainTypes restricts the service label when non-empty.
	TrainTypes []models.TrainType
}

// DefaultConfig returns a configuration that retains every journey
func DefaultConfig() Config {
	return Config{
		MaxTransfers:  NoTransferLimit,
		MinConnection: 0,
		MaxPrice:      math.MaxFloat64,
		DurationLevel: NoDurationLevel,
		DepartStart:   DayStartHour,
		DepartEnd:     DayEndHour,
		ArriveStart:   DayStartHour,
		ArriveEnd:     DayEndHour,
	}
}

// QueryGetter reads a raw query parameter; empty string means absent.
// fiber's Ctx.Query satisfies this shape via a closure.
type QueryGetter func(key string) string

// FromQuery builds a Config from HTTP query parameters.
//
// Malformed numeric values leave the field at its unrestricted default:
// a threshold the client failed to express restricts nothing. This is the
// permissive resolution of coercing unparseable input, and it never fails.
func FromQuery(get QueryGetter) Config {
	cfg := DefaultConfig()

	cfg.DirectOnly = parseBool(get("direct_only"))
	if v, ok := parseInt(get("max_transfers")); ok && v >= 0 {
		cfg.MaxTransfers = v
	}
	if v, ok := parseInt(get("min_connection")); ok && v >= 0 {
		cfg.MinConnection = v
	}
	if v, ok := parseFloat(get("max_price")); ok && v >= 0 {
		cfg.MaxPrice = v
	}
	if lvl := get("duration_level"); lvl != "" {
		cfg.DurationLevel = lvl
	}
	if v, ok := parseInt(get("depart_start")); ok && v >= 0 && v <= 24 {
		cfg.DepartStart = v
	}
	if v, ok := parseInt(get("depart_end")); ok && v >= 0 && v <= 24 {
		cfg.DepartEnd = v
	}
	if v, ok := parseInt(get("arrive_start")); ok && v >= 0 && v <= 24 {
		cfg.ArriveStart = v
	}
	if v, ok := parseInt(get("arrive_end")); ok && v >= 0 && v <= 24 {
		cfg.ArriveEnd = v
	}

	// An inverted window can never match; treat it like other malformed
	// input and restrict nothing.
	if cfg.DepartEnd < cfg.DepartStart {
		cfg.DepartStart, cfg.DepartEnd = DayStartHour, DayEndHour
	}
	if cfg.ArriveEnd < cfg.ArriveStart {
		cfg.ArriveStart, cfg.ArriveEnd = DayStartHour, DayEndHour
	}

	cfg.Morning = parseBool(get("morning"))
	cfg.Afternoon = parseBool(get("afternoon"))
	cfg.Night = parseBool(get("night"))

	cfg.PetFriendly = parseBool(get("pet_friendly"))
	cfg.PetSmall = parseBool(get("pet_small"))
	cfg.PetMedium = parseBool(get("pet_medium"))
	cfg.PetLarge = parseBool(get("pet_large"))

	cfg.AccessibleSeat = parseBool(get("accessible_seat"))
	cfg.StaffAssistance = parseBool(get("staff_assistance"))

	if raw := get("train_types"); raw != "" {
		for _, part := range strings.Split(raw, ",") {
			switch models.TrainType(strings.ToUpper(strings.TrimSpace(part))) {
			case models.TrainAVE:
				cfg.TrainTypes = append(cfg.TrainTypes, models.TrainAVE)
			case models.TrainAVLO:
				cfg.TrainTypes = append(cfg.TrainTypes, models.TrainAVLO)
			case models.TrainALVIA:
				cfg.TrainTypes = append(cfg.TrainTypes, models.TrainALVIA)
			case models.TrainMD:
				cfg.TrainTypes = append(cfg.TrainTypes, models.TrainMD)
			}
		}
	}

	return cfg
}

// DurationCeiling maps the symbolic duration level to a minute ceiling.
// No level means no ceiling; a level the engine does not recognize falls
// back to the widest bucket rather than hiding journeys entirely.
func (c Config) DurationCeiling() int {
	switch c.DurationLevel {
	case NoDurationLevel:
		return math.MaxInt
	case "2":
		return 120
	case "3":
		return 180
	case "4":
		return 240
	default:
		return maxDurationFloor
	}
}

func parseBool(s string) bool {
	return s == "true" || s == "1"
}

func parseInt(s string) (int, bool) {
	if s == "" {
		return 0, false
	}
	v, err := strconv.Atoi(s)
	if err != nil {
		return 0, false
	}
	return v, true
}

func parseFloat(s string) (float64, bool) {
	if s == "" {
		return 0, false
	}
	v, err := strconv.ParseFloat(s, 64)
	if err != nil || math.IsNaN(v) || math.IsInf(v, 0) {
		return 0, false
	}
	return v, true
}
