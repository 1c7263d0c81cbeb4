package models

import (
	"fmt"
	"strings"
	"time"
)

// SearchRequest identifies a single one-way flight search. It is immutable
// once built and doubles as the record-store key.
type SearchRequest struct {
	Origin      string `json:"origin"`      // 3-letter IATA code, e.g. TUN
	Destination string `json:"destination"` // 3-letter IATA code, e.g. ORY
	Date        string `json:"date"`        // YYYY-MM-DD
}

func NewSearchRequest(origin, destination, date string) SearchRequest {
	return SearchRequest{
		Origin:      strings.ToUpper(strings.TrimSpace(origin)),
		Destination: strings.ToUpper(strings.TrimSpace(destination)),
		Date:        strings.TrimSpace(date),
	}
}

// Key is the normalized store key for this request.
func (r SearchRequest) Key() string {
	return fmt.Sprintf("%s-%s-%s", r.Origin, r.Destination, r.Date)
}

func (r SearchRequest) String() string {
	return fmt.Sprintf("%s -> %s on %s", r.Origin, r.Destination, r.Date)
}

// FlightRecord is one rendered result row. Every field is kept as the raw
// text read off the page; parsing to numbers/times happens at filter time.
// Rows have no identity beyond their order in the result sequence.
type FlightRecord struct {
	DepartureTime      string `json:"departure_time"`
	ArrivalTime        string `json:"arrival_time"`
	Airline            string `json:"airline"`
	Duration           string `json:"duration"`
	Stops              string `json:"stops"`
	Price              string `json:"price"`
	CO2Emissions       string `json:"co2_emissions"`
	EmissionsVariation string `json:"emissions_variation"`
}

// TimeBucket classifies a departure hour into a part of the day.
type TimeBucket string

const (
	BucketAny       TimeBucket = "any"
	BucketMorning   TimeBucket = "morning"   // [00:00, 12:00)
	BucketAfternoon TimeBucket = "afternoon" // [12:00, 18:00)
	BucketEvening   TimeBucket = "evening"   // [18:00, 24:00)
)

// ParseTimeBucket normalizes and validates a user-supplied bucket name.
// Empty means "any"; anything outside the known set is rejected rather
// than silently matching nothing.
func ParseTimeBucket(s string) (TimeBucket, error) {
	switch b := TimeBucket(strings.ToLower(strings.TrimSpace(s))); b {
	case "":
		return BucketAny, nil
	case BucketAny, BucketMorning, BucketAfternoon, BucketEvening:
		return b, nil
	default:
		return "", fmt.Errorf("invalid time bucket %q (want any, morning, afternoon or evening)", s)
	}
}

// StopoverPref expresses the user's stopover constraint.
type StopoverPref string

const (
	StopoverAny      StopoverPref = "any"
	StopoverNone     StopoverPref = "none"
	StopoverRequired StopoverPref = "required"
)

// ParseStopoverPref normalizes and validates a user-supplied stopover
// preference. Empty means "any".
func ParseStopoverPref(s string) (StopoverPref, error) {
	switch p := StopoverPref(strings.ToLower(strings.TrimSpace(s))); p {
	case "":
		return StopoverAny, nil
	case StopoverAny, StopoverNone, StopoverRequired:
		return p, nil
	default:
		return "", fmt.Errorf("invalid stopover preference %q (want any, none or required)", s)
	}
}

// FilterCriteria are the user-supplied constraints applied to a record set.
// A nil MaxPrice means no budget cap.
type FilterCriteria struct {
	MaxPrice *float64     `json:"max_price,omitempty"`
	Bucket   TimeBucket   `json:"bucket"`
	Stopover StopoverPref `json:"stopover"`
}

// Normalize fills zero values with the permissive defaults.
func (c FilterCriteria) Normalize() FilterCriteria {
	if c.Bucket == "" {
		c.Bucket = BucketAny
	}
	if c.Stopover == "" {
		c.Stopover = StopoverAny
	}
	return c
}

// SearchResult is the outcome of one full pipeline pass.
type SearchResult struct {
	RunID          string        `json:"run_id"`
	Request        SearchRequest `json:"request"`
	Rows           int           `json:"rows"`
	FromCache      bool          `json:"from_cache"`
	Best           FlightRecord  `json:"best"`
	Recommendation string        `json:"recommendation"`
	CheckedAt      time.Time     `json:"checked_at"`
}
