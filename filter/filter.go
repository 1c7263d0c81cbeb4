// Package filter applies user constraints to extracted flight rows and
// picks the best candidate.
package filter

import (
	"fmt"
	"sort"
	"strconv"
	"strings"
	"time"

	"github.com/hmansouri/flightscout/models"
)

// clockLayout parses the page's 12-hour departure/arrival strings once the
// UTC-offset suffix ("+1") and no-break spaces are stripped.
const clockLayout = "3:04 PM"

var spaceNormalizer = strings.NewReplacer(" ", " ", " ", " ")

// Row is a FlightRecord with its derived filterable fields. Rows whose
// price cannot be parsed never become a Row; rows whose departure time
// cannot be parsed keep HasDeparture=false and are excluded only from
// time-bucket filtering, not dropped.
type Row struct {
	Record       models.FlightRecord
	Price        float64
	Departure    time.Time
	HasDeparture bool
	HasStopover  bool
}

// ParsePrice reduces a currency-formatted string ("€1,234.50", "1234€",
// "$1234") to a non-negative number by stripping every character that is
// not a digit or decimal point.
func ParsePrice(s string) (float64, error) {
	var b strings.Builder
	for _, r := range s {
		if (r >= '0' && r <= '9') || r == '.' {
			b.WriteRune(r)
		}
	}
	if b.Len() == 0 {
		return 0, fmt.Errorf("no digits in price %q", s)
	}
	v, err := strconv.ParseFloat(b.String(), 64)
	if err != nil {
		return 0, fmt.Errorf("parse price %q: %w", s, err)
	}
	if v < 0 {
		return 0, fmt.Errorf("negative price %q", s)
	}
	return v, nil
}

// ParseClock parses a rendered time such as "11:20 PM+1" or
// "8:15 AM". Everything from the first '+' on is a next-day marker
// and is dropped.
func ParseClock(s string) (time.Time, error) {
	s = spaceNormalizer.Replace(s)
	if i := strings.IndexByte(s, '+'); i >= 0 {
		s = s[:i]
	}
	t, err := time.Parse(clockLayout, strings.TrimSpace(s))
	if err != nil {
		return time.Time{}, fmt.Errorf("parse time %q: %w", s, err)
	}
	return t, nil
}

// BucketOf classifies an hour into a time-of-day bucket.
func BucketOf(hour int) models.TimeBucket {
	switch {
	case hour < 12:
		return models.BucketMorning
	case hour < 18:
		return models.BucketAfternoon
	default:
		return models.BucketEvening
	}
}

// HasStopover reports whether the stops text carries a one-stop marker,
// case-insensitively. Zero-stop ("Nonstop") and multi-stop ("2 stops")
// phrasings do not match; the flag deliberately collapses nothing else.
func HasStopover(stops string) bool {
	return strings.Contains(strings.ToLower(stops), "1 stop")
}

// Normalize derives filterable fields for every record, dropping records
// with unparsable prices.
func Normalize(records []models.FlightRecord) []Row {
	rows := make([]Row, 0, len(records))
	for _, rec := range records {
		price, err := ParsePrice(rec.Price)
		if err != nil {
			continue
		}
		row := Row{Record: rec, Price: price, HasStopover: HasStopover(rec.Stops)}
		if dep, err := ParseClock(rec.DepartureTime); err == nil {
			row.Departure = dep
			row.HasDeparture = true
		}
		rows = append(rows, row)
	}
	return rows
}

// Apply filters rows against the criteria, preserving input order.
func Apply(rows []Row, c models.FilterCriteria) []Row {
	c = c.Normalize()
	out := make([]Row, 0, len(rows))
	for _, row := range rows {
		if c.MaxPrice != nil && row.Price > *c.MaxPrice {
			continue
		}
		if c.Bucket != models.BucketAny {
			if !row.HasDeparture || BucketOf(row.Departure.Hour()) != c.Bucket {
				continue
			}
		}
		switch c.Stopover {
		case models.StopoverNone:
			if row.HasStopover {
				continue
			}
		case models.StopoverRequired:
			if !row.HasStopover {
				continue
			}
		}
		out = append(out, row)
	}
	return out
}

// Sort orders rows ascending by (price, departure time), stably. Rows
// without a parsed departure sort after same-priced rows that have one.
func Sort(rows []Row) {
	sort.SliceStable(rows, func(i, j int) bool {
		if rows[i].Price != rows[j].Price {
			return rows[i].Price < rows[j].Price
		}
		if rows[i].HasDeparture != rows[j].HasDeparture {
			return rows[i].HasDeparture
		}
		return rows[i].Departure.Before(rows[j].Departure)
	})
}

// Select applies the criteria and returns the cheapest, earliest-departing
// record, or ok=false when nothing survives filtering.
func Select(records []models.FlightRecord, c models.FilterCriteria) (models.FlightRecord, bool) {
	rows := Apply(Normalize(records), c)
	if len(rows) == 0 {
		return models.FlightRecord{}, false
	}
	Sort(rows)
	return rows[0].Record, true
}
