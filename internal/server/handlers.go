package server

import (
	"errors"
	"net/http"
	"strconv"

	"github.com/labstack/echo/v4"

	"github.com/hmansouri/flightscout/filter"
	"github.com/hmansouri/flightscout/history"
	"github.com/hmansouri/flightscout/models"
	"github.com/hmansouri/flightscout/pipeline"
	"github.com/hmansouri/flightscout/recommender"
	"github.com/hmansouri/flightscout/scraper"
	"github.com/hmansouri/flightscout/store"
)

type handlers struct {
	pipe *pipeline.Pipeline
	hist *history.Store
}

// searchRequest is the one form the API collects: the route plus the
// filter constraints, or a free-text query over the same route.
type searchRequest struct {
	Origin      string   `json:"origin" form:"origin"`
	Destination string   `json:"destination" form:"destination"`
	Date        string   `json:"date" form:"date"`
	Bucket      string   `json:"bucket" form:"bucket"`
	Stopover    string   `json:"stopover" form:"stopover"`
	MaxPrice    *float64 `json:"max_price" form:"max_price"`
	Query       string   `json:"query" form:"query"`
}

func (r searchRequest) criteria() (models.FilterCriteria, error) {
	bucket, err := models.ParseTimeBucket(r.Bucket)
	if err != nil {
		return models.FilterCriteria{}, err
	}
	stopover, err := models.ParseStopoverPref(r.Stopover)
	if err != nil {
		return models.FilterCriteria{}, err
	}
	return models.FilterCriteria{
		MaxPrice: r.MaxPrice,
		Bucket:   bucket,
		Stopover: stopover,
	}, nil
}

func (h *handlers) search(c echo.Context) error {
	var body searchRequest
	if err := c.Bind(&body); err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, "invalid request body")
	}
	if body.Origin == "" || body.Destination == "" || body.Date == "" {
		return echo.NewHTTPError(http.StatusBadRequest, "origin, destination and date are required")
	}
	req := models.NewSearchRequest(body.Origin, body.Destination, body.Date)
	ctx := c.Request().Context()

	if body.Query != "" {
		answer, err := h.pipe.Answer(ctx, req, body.Query)
		if err != nil {
			return searchError(err)
		}
		searchesTotal.WithLabelValues("ok").Inc()
		return c.JSON(http.StatusOK, map[string]string{"recommendation": answer})
	}

	criteria, err := body.criteria()
	if err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, err.Error())
	}

	res, err := h.pipe.Run(ctx, req, criteria)
	if err != nil {
		return searchError(err)
	}
	searchesTotal.WithLabelValues("ok").Inc()
	if res.FromCache {
		storeHitsTotal.Inc()
	} else {
		extractedRows.Observe(float64(res.Rows))
	}
	return c.JSON(http.StatusOK, res)
}

// flights returns the raw filtered rows without invoking the model. It
// only reads the record store: a GET never launches a browser scrape, so
// a route that was never searched yields 404 instead of a slow side
// effect.
func (h *handlers) flights(c echo.Context) error {
	origin := c.QueryParam("origin")
	destination := c.QueryParam("destination")
	date := c.QueryParam("date")
	if origin == "" || destination == "" || date == "" {
		return echo.NewHTTPError(http.StatusBadRequest, "origin, destination and date are required")
	}
	req := models.NewSearchRequest(origin, destination, date)

	bucket, err := models.ParseTimeBucket(c.QueryParam("bucket"))
	if err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, err.Error())
	}
	stopover, err := models.ParseStopoverPref(c.QueryParam("stopover"))
	if err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, err.Error())
	}
	criteria := models.FilterCriteria{Bucket: bucket, Stopover: stopover}
	if raw := c.QueryParam("max_price"); raw != "" {
		v, err := strconv.ParseFloat(raw, 64)
		if err != nil {
			return echo.NewHTTPError(http.StatusBadRequest, "max_price must be a number")
		}
		criteria.MaxPrice = &v
	}

	rows, err := h.pipe.Store.Get(c.Request().Context(), req)
	if err != nil {
		if errors.Is(err, store.ErrMiss) {
			return echo.NewHTTPError(http.StatusNotFound, "no stored flight data for this search; run a search first")
		}
		return err
	}

	filtered := filter.Apply(filter.Normalize(rows), criteria)
	filter.Sort(filtered)
	out := make([]models.FlightRecord, 0, len(filtered))
	for _, row := range filtered {
		out = append(out, row.Record)
	}
	return c.JSON(http.StatusOK, out)
}

func (h *handlers) history(c echo.Context) error {
	if h.hist == nil {
		return echo.NewHTTPError(http.StatusNotFound, "history is not configured")
	}
	limit, _ := strconv.Atoi(c.QueryParam("limit"))
	recent, err := h.hist.Recent(c.Request().Context(), limit)
	if err != nil {
		return err
	}
	return c.JSON(http.StatusOK, recent)
}

// searchError maps the pipeline's failure taxonomy onto HTTP statuses,
// keeping "no match" distinct from "no data available".
func searchError(err error) error {
	switch {
	case errors.Is(err, pipeline.ErrNoMatch):
		searchesTotal.WithLabelValues("no_match").Inc()
		return echo.NewHTTPError(http.StatusNotFound, "no flight matches the given criteria")
	case errors.Is(err, scraper.ErrExtraction):
		searchesTotal.WithLabelValues("extraction_failed").Inc()
		return echo.NewHTTPError(http.StatusBadGateway, "no flight data available for this search")
	case errors.Is(err, recommender.ErrRecommendation):
		searchesTotal.WithLabelValues("recommendation_failed").Inc()
		return echo.NewHTTPError(http.StatusBadGateway, "could not produce a recommendation")
	default:
		searchesTotal.WithLabelValues("error").Inc()
		return err
	}
}
