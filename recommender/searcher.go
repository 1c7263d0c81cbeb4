package recommender

import (
	"context"
	"fmt"
	"strings"

	"github.com/hmansouri/flightscout/filter"
	"github.com/hmansouri/flightscout/models"
)

// RecordSearcher is the default Searcher: it loads the rows for the
// current search, filters them, and renders the survivors as text for the
// model.
type RecordSearcher struct {
	Load func(ctx context.Context) ([]models.FlightRecord, error)
}

func (s RecordSearcher) Search(ctx context.Context, c models.FilterCriteria) (string, error) {
	records, err := s.Load(ctx)
	if err != nil {
		return "", fmt.Errorf("load flight data: %w", err)
	}

	rows := filter.Apply(filter.Normalize(records), c)
	if len(rows) == 0 {
		return "No flights matched the requested criteria.", nil
	}
	filter.Sort(rows)

	var b strings.Builder
	b.WriteString("Flights found:\n")
	for _, row := range rows {
		rec := row.Record
		fmt.Fprintf(&b, "- %s | dep %s | arr %s | %s | %s | %s | CO2 %s\n",
			rec.Airline, rec.DepartureTime, rec.ArrivalTime, rec.Duration, rec.Stops, rec.Price, rec.CO2Emissions)
	}
	return b.String(), nil
}
