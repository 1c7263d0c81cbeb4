// Package scraper extracts rendered flight offers from the results page.
package scraper

import (
	"context"
	"errors"
	"time"

	"github.com/hmansouri/flightscout/config"
	"github.com/hmansouri/flightscout/models"
	chromedpscraper "github.com/hmansouri/flightscout/scraper/chromedp"
)

// ErrExtraction covers every way the page can fail to yield rows:
// navigation failure, selector timeout (layout changed or no flights), or
// a page that renders with zero result rows. Never retried.
var ErrExtraction = chromedpscraper.ErrExtraction

const DefaultNavTimeout = 60 * time.Second

// Extractor pulls the flight rows for one search. Implementations own the
// browser session for the duration of the call and release it on every
// exit path.
type Extractor interface {
	Extract(ctx context.Context, req models.SearchRequest) ([]models.FlightRecord, error)
}

type ExtractorType string

const (
	ChromedpExtractorType ExtractorType = "chromedp"
)

// NewExtractor builds an extractor of the given type from the scraper
// configuration.
func NewExtractor(extractorType ExtractorType, cfg config.ScraperConfig) (Extractor, error) {
	if cfg.NavTimeout <= 0 {
		cfg.NavTimeout = DefaultNavTimeout
	}

	switch extractorType {
	case ChromedpExtractorType:
		return &chromedpscraper.Scraper{
			Headless:   cfg.Headless,
			NavTimeout: cfg.NavTimeout,
			UserAgent:  cfg.UserAgent,
			Proxy:      cfg.Proxy,
		}, nil
	default:
		return nil, errors.New("unsupported extractor type")
	}
}
