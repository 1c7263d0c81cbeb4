package pipeline

import (
	"context"
	"fmt"
	"log"

	"github.com/hmansouri/flightscout/config"
	"github.com/hmansouri/flightscout/history"
	"github.com/hmansouri/flightscout/provider"
	"github.com/hmansouri/flightscout/recommender"
	"github.com/hmansouri/flightscout/scraper"
	"github.com/hmansouri/flightscout/store"
	"github.com/hmansouri/flightscout/store/csvstore"
	"github.com/hmansouri/flightscout/store/redisstore"
)

// Build wires a pipeline from configuration. The returned cleanup closes
// whatever backends were opened and is safe to call exactly once.
func Build(ctx context.Context, cfg *config.Config) (*Pipeline, func(), error) {
	var closers []func() error
	cleanup := func() {
		for _, c := range closers {
			_ = c()
		}
	}

	var recordStore store.Store
	switch cfg.Store.Backend {
	case "redis":
		rs, err := redisstore.Conn(ctx, cfg.Store.Redis)
		if err != nil {
			return nil, nil, fmt.Errorf("connect record store: %w", err)
		}
		closers = append(closers, rs.Close)
		recordStore = rs
	default:
		cs, err := csvstore.New(cfg.Store.DataDir)
		if err != nil {
			return nil, nil, fmt.Errorf("open record store: %w", err)
		}
		recordStore = cs
	}

	extractor, err := scraper.NewExtractor(scraper.ChromedpExtractorType, cfg.Scraper)
	if err != nil {
		cleanup()
		return nil, nil, fmt.Errorf("create extractor: %w", err)
	}

	llm, err := provider.NewProvider(cfg.LLM)
	if err != nil {
		cleanup()
		return nil, nil, fmt.Errorf("create provider: %w", err)
	}

	var hist *history.Store
	if cfg.History.PostgresURL != "" {
		hist, err = history.Open(ctx, cfg.History.PostgresURL)
		if err != nil {
			cleanup()
			return nil, nil, fmt.Errorf("open history: %w", err)
		}
		closers = append(closers, hist.Close)
	}

	return &Pipeline{
		Store:     recordStore,
		Extractor: extractor,
		Agent:     recommender.New(llm, nil),
		History:   hist,
		Logger:    log.New(log.Writer(), "[Pipeline] ", log.LstdFlags),
	}, cleanup, nil
}
