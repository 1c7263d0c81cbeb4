// Package store persists extracted flight rows keyed by the normalized
// search request. The store is a write-once memoization layer: a stored
// result is reused indefinitely until evicted by the backend's own policy
// (the CSV backend never evicts; the redis backend can attach a TTL).
// There is no freshness re-validation and no locking; two concurrent
// searches for the same key race to last-writer-wins.
package store

import (
	"context"
	"errors"

	"github.com/hmansouri/flightscout/models"
	"github.com/hmansouri/flightscout/scraper"
)

// ErrMiss is returned by Get when no rows are stored for the key.
var ErrMiss = errors.New("no stored result for request")

// Store is a keyed record store. Implementations must preserve row order
// and round-trip non-ASCII carrier names.
type Store interface {
	Get(ctx context.Context, req models.SearchRequest) ([]models.FlightRecord, error)
	Put(ctx context.Context, req models.SearchRequest, rows []models.FlightRecord) error
}

// LoadOrFetch returns the stored rows for req if present, otherwise runs
// the extractor once and stores its output. The bool reports whether the
// rows came from the store.
func LoadOrFetch(ctx context.Context, s Store, ex scraper.Extractor, req models.SearchRequest) ([]models.FlightRecord, bool, error) {
	rows, err := s.Get(ctx, req)
	if err == nil {
		return rows, true, nil
	}
	if !errors.Is(err, ErrMiss) {
		return nil, false, err
	}

	rows, err = ex.Extract(ctx, req)
	if err != nil {
		return nil, false, err
	}
	if err := s.Put(ctx, req, rows); err != nil {
		return nil, false, err
	}
	return rows, false, nil
}
