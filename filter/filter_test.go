package filter

import (
	"testing"

	"github.com/hmansouri/flightscout/models"
)

func TestParsePrice(t *testing.T) {
	cases := []struct {
		in   string
		want float64
	}{
		{"€1,234.50", 1234.5},
		{"1234€", 1234},
		{"$1234", 1234},
		{"TND 350", 350},
		{"95", 95},
	}
	for _, c := range cases {
		got, err := ParsePrice(c.in)
		if err != nil {
			t.Errorf("ParsePrice(%q): %v", c.in, err)
			continue
		}
		if got != c.want {
			t.Errorf("ParsePrice(%q) = %v, want %v", c.in, got, c.want)
		}
	}
}

func TestParsePriceUnparsable(t *testing.T) {
	for _, in := range []string{"", "N/A", "Price unavailable"} {
		if _, err := ParsePrice(in); err == nil {
			t.Errorf("ParsePrice(%q) should fail", in)
		}
	}
}

func TestParseClock(t *testing.T) {
	cases := []struct {
		in       string
		wantHour int
	}{
		{"8:15 AM", 8},
		{"11:20 PM+1", 23},
		{"12:05 PM", 12},
		{"12:30 AM", 0},
	}
	for _, c := range cases {
		got, err := ParseClock(c.in)
		if err != nil {
			t.Errorf("ParseClock(%q): %v", c.in, err)
			continue
		}
		if got.Hour() != c.wantHour {
			t.Errorf("ParseClock(%q).Hour() = %d, want %d", c.in, got.Hour(), c.wantHour)
		}
	}
}

func TestBucketOf(t *testing.T) {
	cases := map[int]models.TimeBucket{
		0:  models.BucketMorning,
		11: models.BucketMorning,
		12: models.BucketAfternoon,
		17: models.BucketAfternoon,
		18: models.BucketEvening,
		23: models.BucketEvening,
	}
	for hour, want := range cases {
		if got := BucketOf(hour); got != want {
			t.Errorf("BucketOf(%d) = %s, want %s", hour, got, want)
		}
	}
}

func TestHasStopover(t *testing.T) {
	for _, s := range []string{"1 Stop", "1 stop", "1 STOP"} {
		if !HasStopover(s) {
			t.Errorf("HasStopover(%q) = false, want true", s)
		}
	}
	for _, s := range []string{"Nonstop", "2 stops", "3 stops", ""} {
		if HasStopover(s) {
			t.Errorf("HasStopover(%q) = true, want false", s)
		}
	}
}

func rec(dep, stops, price string) models.FlightRecord {
	return models.FlightRecord{DepartureTime: dep, Stops: stops, Price: price, Airline: "Testair"}
}

func TestSelectCheapestEarliest(t *testing.T) {
	records := []models.FlightRecord{
		rec("10:00 AM", "Nonstop", "€300"),
		rec("9:00 AM", "Nonstop", "€150"),
		rec("8:00 AM", "Nonstop", "€150"),
	}
	best, ok := Select(records, models.FilterCriteria{})
	if !ok {
		t.Fatal("Select returned no record")
	}
	if best.DepartureTime != "8:00 AM" {
		t.Fatalf("best = %s, want the 150-priced 8:00 AM flight", best.DepartureTime)
	}
}

func TestSelectHonorsMaxPrice(t *testing.T) {
	records := []models.FlightRecord{
		rec("8:00 AM", "Nonstop", "€300"),
		rec("9:00 AM", "Nonstop", "€120"),
	}
	max := 200.0
	best, ok := Select(records, models.FilterCriteria{MaxPrice: &max})
	if !ok {
		t.Fatal("Select returned no record")
	}
	if p, _ := ParsePrice(best.Price); p > max {
		t.Fatalf("selected price %v exceeds max %v", p, max)
	}
}

func TestSelectHonorsBucket(t *testing.T) {
	records := []models.FlightRecord{
		rec("8:00 AM", "Nonstop", "€90"),
		rec("2:00 PM", "Nonstop", "€200"),
		rec("9:00 PM", "Nonstop", "€110"),
	}
	best, ok := Select(records, models.FilterCriteria{Bucket: models.BucketEvening})
	if !ok {
		t.Fatal("Select returned no record")
	}
	if best.DepartureTime != "9:00 PM" {
		t.Fatalf("best = %s, want the evening flight", best.DepartureTime)
	}
}

func TestSelectStopoverNone(t *testing.T) {
	records := []models.FlightRecord{
		rec("8:00 AM", "1 Stop", "€50"),
		rec("9:00 AM", "1 stop", "€60"),
		rec("10:00 AM", "1 STOP", "€70"),
		rec("11:00 AM", "Nonstop", "€500"),
	}
	best, ok := Select(records, models.FilterCriteria{Stopover: models.StopoverNone})
	if !ok {
		t.Fatal("Select returned no record")
	}
	if best.Stops != "Nonstop" {
		t.Fatalf("best.Stops = %q, one-stop rows must be excluded", best.Stops)
	}
}

func TestSelectStopoverRequired(t *testing.T) {
	records := []models.FlightRecord{
		rec("8:00 AM", "Nonstop", "€50"),
		rec("9:00 AM", "1 stop", "€400"),
	}
	best, ok := Select(records, models.FilterCriteria{Stopover: models.StopoverRequired})
	if !ok {
		t.Fatal("Select returned no record")
	}
	if best.Stops != "1 stop" {
		t.Fatalf("best.Stops = %q, want the one-stop row", best.Stops)
	}
}

func TestSelectEmptyAfterFilter(t *testing.T) {
	records := []models.FlightRecord{rec("8:00 AM", "Nonstop", "€300")}
	max := 100.0
	if _, ok := Select(records, models.FilterCriteria{MaxPrice: &max}); ok {
		t.Fatal("Select should report no match")
	}
}

func TestNormalizeDropsUnparsablePrice(t *testing.T) {
	records := []models.FlightRecord{
		rec("8:00 AM", "Nonstop", "N/A"),
		rec("9:00 AM", "Nonstop", "€100"),
	}
	rows := Normalize(records)
	if len(rows) != 1 {
		t.Fatalf("rows = %d, want 1 (unparsable price dropped)", len(rows))
	}
}

func TestUnparsableDepartureSurvivesUnlessBucketed(t *testing.T) {
	records := []models.FlightRecord{rec("soon", "Nonstop", "€100")}

	if _, ok := Select(records, models.FilterCriteria{}); !ok {
		t.Fatal("row without departure time must survive when no bucket is requested")
	}
	if _, ok := Select(records, models.FilterCriteria{Bucket: models.BucketMorning}); ok {
		t.Fatal("row without departure time must be excluded from bucket filtering")
	}
}
