package server

import (
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

var (
	searchesTotal = promauto.NewCounterVec(prometheus.CounterOpts{
		Name: "flightscout_searches_total",
		Help: "Completed search requests by outcome.",
	}, []string{"outcome"})

	storeHitsTotal = promauto.NewCounter(prometheus.CounterOpts{
		Name: "flightscout_store_hits_total",
		Help: "Searches served from the record store without extraction.",
	})

	extractedRows = promauto.NewHistogram(prometheus.HistogramOpts{
		Name:    "flightscout_extracted_rows",
		Help:    "Rows extracted per non-cached search.",
		Buckets: prometheus.LinearBuckets(0, 5, 10),
	})
)
