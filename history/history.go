// Package history is an optional Postgres log of completed searches: one
// row per pipeline run with the request triple, extraction stats and the
// chosen flight. Disabled entirely when no DSN is configured.
package history

import (
	"context"
	"database/sql"
	"fmt"

	_ "github.com/lib/pq"

	"github.com/hmansouri/flightscout/filter"
	"github.com/hmansouri/flightscout/models"
)

type Store struct {
	DB *sql.DB
}

// Open connects to Postgres and verifies the connection.
func Open(ctx context.Context, dsn string) (*Store, error) {
	db, err := sql.Open("postgres", dsn)
	if err != nil {
		return nil, fmt.Errorf("open postgres: %w", err)
	}
	if err := db.PingContext(ctx); err != nil {
		db.Close()
		return nil, fmt.Errorf("ping postgres: %w", err)
	}
	return &Store{DB: db}, nil
}

// Record persists one completed search. The best price is stored as the
// parsed number so history queries can aggregate without re-parsing
// currency strings.
func (s *Store) Record(ctx context.Context, res models.SearchResult) error {
	var price sql.NullFloat64
	if v, err := filter.ParsePrice(res.Best.Price); err == nil {
		price = sql.NullFloat64{Float64: v, Valid: true}
	}

	_, err := s.DB.ExecContext(ctx, `
		INSERT INTO searches (id, origin, destination, flight_date, rows_extracted, from_cache,
		                      best_airline, best_departure, best_price, recommendation, created_at)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10, $11)`,
		res.RunID, res.Request.Origin, res.Request.Destination, res.Request.Date,
		res.Rows, res.FromCache,
		res.Best.Airline, res.Best.DepartureTime, price, res.Recommendation, res.CheckedAt,
	)
	if err != nil {
		return fmt.Errorf("insert search %s: %w", res.RunID, err)
	}
	return nil
}

// Recent returns the latest n completed searches, newest first.
func (s *Store) Recent(ctx context.Context, n int) ([]models.SearchResult, error) {
	if n <= 0 {
		n = 20
	}
	rows, err := s.DB.QueryContext(ctx, `
		SELECT id, origin, destination, flight_date, rows_extracted, from_cache,
		       best_airline, best_departure, recommendation, created_at
		FROM searches ORDER BY created_at DESC LIMIT $1`, n)
	if err != nil {
		return nil, fmt.Errorf("query searches: %w", err)
	}
	defer rows.Close()

	var out []models.SearchResult
	for rows.Next() {
		var r models.SearchResult
		if err := rows.Scan(&r.RunID, &r.Request.Origin, &r.Request.Destination, &r.Request.Date,
			&r.Rows, &r.FromCache, &r.Best.Airline, &r.Best.DepartureTime,
			&r.Recommendation, &r.CheckedAt); err != nil {
			return nil, fmt.Errorf("scan search row: %w", err)
		}
		out = append(out, r)
	}
	return out, rows.Err()
}

func (s *Store) Close() error { return s.DB.Close() }
