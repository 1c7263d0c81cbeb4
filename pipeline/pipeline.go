// Package pipeline runs one search end to end: encode, load-or-fetch,
// filter, recommend. One sequential flow per search with no fan-out; the
// browser-driven extraction is the single suspension point and carries the
// only timeout.
package pipeline

import (
	"context"
	"errors"
	"log"
	"time"

	"github.com/google/uuid"

	"github.com/hmansouri/flightscout/filter"
	"github.com/hmansouri/flightscout/history"
	"github.com/hmansouri/flightscout/models"
	"github.com/hmansouri/flightscout/recommender"
	"github.com/hmansouri/flightscout/scraper"
	"github.com/hmansouri/flightscout/store"
)

// ErrNoMatch means the filter criteria eliminated every extracted row.
// Distinct from scraper.ErrExtraction: data existed, nothing satisfied the
// constraints.
var ErrNoMatch = errors.New("no flight matches the criteria")

// Pipeline wires the components for one search flow. History may be nil.
type Pipeline struct {
	Store     store.Store
	Extractor scraper.Extractor
	Agent     *recommender.Agent
	History   *history.Store
	Logger    *log.Logger
}

// Run executes the full flow and returns the recommendation for the best
// matching flight. Failures map onto the fixed taxonomy:
// scraper.ErrExtraction, ErrNoMatch, recommender.ErrRecommendation. All
// are terminal for this search.
func (p *Pipeline) Run(ctx context.Context, req models.SearchRequest, criteria models.FilterCriteria) (models.SearchResult, error) {
	res := models.SearchResult{
		RunID:     uuid.NewString(),
		Request:   req,
		CheckedAt: time.Now().UTC(),
	}
	criteria = criteria.Normalize()
	p.logf("run %s: %s", res.RunID, req)

	rows, cached, err := store.LoadOrFetch(ctx, p.Store, p.Extractor, req)
	if err != nil {
		return res, err
	}
	res.Rows = len(rows)
	res.FromCache = cached
	p.logf("run %s: %d rows (cached=%t)", res.RunID, len(rows), cached)

	best, ok := filter.Select(rows, criteria)
	if !ok {
		return res, ErrNoMatch
	}
	res.Best = best

	text, err := p.Agent.SummarizeBest(ctx, req, best)
	if err != nil {
		return res, err
	}
	res.Recommendation = text

	if p.History != nil {
		if err := p.History.Record(ctx, res); err != nil {
			p.logf("run %s: history write failed: %v", res.RunID, err)
		}
	}
	return res, nil
}

// Answer handles a free-text query against the rows of the given request,
// loading or fetching them first so the search capability has data.
func (p *Pipeline) Answer(ctx context.Context, req models.SearchRequest, query string) (string, error) {
	searcher := recommender.RecordSearcher{Load: func(ctx context.Context) ([]models.FlightRecord, error) {
		rows, _, err := store.LoadOrFetch(ctx, p.Store, p.Extractor, req)
		return rows, err
	}}
	agent := recommender.New(p.Agent.Provider, searcher)
	return agent.Answer(ctx, query)
}

func (p *Pipeline) logf(format string, args ...interface{}) {
	if p.Logger != nil {
		p.Logger.Printf(format, args...)
	}
}
