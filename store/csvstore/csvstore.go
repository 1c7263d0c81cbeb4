// Package csvstore persists flight rows as one CSV file per search,
// compatible with the eight-column results-file format.
package csvstore

import (
	"context"
	"encoding/csv"
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"github.com/hmansouri/flightscout/models"
	"github.com/hmansouri/flightscout/store"
)

// Header is the exact column order of the results file.
var Header = []string{
	"Departure Time",
	"Arrival Time",
	"Airline Company",
	"Flight Duration",
	"Stops",
	"Price",
	"co2 emissions",
	"emissions variation",
}

// cellCleaner strips mojibake and normalizes the narrow/no-break spaces the
// page renders between time and meridiem.
var cellCleaner = strings.NewReplacer("Â", "", " ", " ", " ", " ")

// Store keeps one flights_<KEY>.csv per search under Dir. Files are never
// expired; a stale file is reused until deleted externally.
type Store struct {
	Dir string
}

func New(dir string) (*Store, error) {
	if err := os.MkdirAll(dir, 0o755); err != nil {
		return nil, fmt.Errorf("create data dir: %w", err)
	}
	return &Store{Dir: dir}, nil
}

func (s *Store) path(req models.SearchRequest) string {
	return filepath.Join(s.Dir, fmt.Sprintf("flights_%s.csv", req.Key()))
}

func (s *Store) Get(_ context.Context, req models.SearchRequest) ([]models.FlightRecord, error) {
	f, err := os.Open(s.path(req))
	if err != nil {
		if os.IsNotExist(err) {
			return nil, store.ErrMiss
		}
		return nil, fmt.Errorf("open %s: %w", s.path(req), err)
	}
	defer f.Close()

	r := csv.NewReader(f)
	r.FieldsPerRecord = len(Header)
	all, err := r.ReadAll()
	if err != nil {
		return nil, fmt.Errorf("read %s: %w", s.path(req), err)
	}
	if len(all) == 0 {
		return nil, store.ErrMiss
	}

	rows := make([]models.FlightRecord, 0, len(all)-1)
	for _, rec := range all[1:] { // skip header
		rows = append(rows, models.FlightRecord{
			DepartureTime:      rec[0],
			ArrivalTime:        rec[1],
			Airline:            rec[2],
			Duration:           rec[3],
			Stops:              rec[4],
			Price:              rec[5],
			CO2Emissions:       rec[6],
			EmissionsVariation: rec[7],
		})
	}
	return rows, nil
}

func (s *Store) Put(_ context.Context, req models.SearchRequest, rows []models.FlightRecord) error {
	f, err := os.Create(s.path(req))
	if err != nil {
		return fmt.Errorf("create %s: %w", s.path(req), err)
	}
	defer f.Close()

	w := csv.NewWriter(f)
	if err := w.Write(Header); err != nil {
		return fmt.Errorf("write header: %w", err)
	}
	for _, row := range rows {
		rec := []string{
			clean(row.DepartureTime),
			clean(row.ArrivalTime),
			clean(row.Airline),
			clean(row.Duration),
			clean(row.Stops),
			clean(row.Price),
			clean(row.CO2Emissions),
			clean(row.EmissionsVariation),
		}
		if err := w.Write(rec); err != nil {
			return fmt.Errorf("write row: %w", err)
		}
	}
	w.Flush()
	if err := w.Error(); err != nil {
		return fmt.Errorf("flush %s: %w", s.path(req), err)
	}
	return nil
}

func clean(cell string) string {
	return strings.TrimSpace(cellCleaner.Replace(cell))
}
