// Package server exposes the search pipeline over HTTP.
package server

import (
	"context"
	"fmt"
	"log"
	"net/http"

	"github.com/labstack/echo/v4"
	"github.com/labstack/echo/v4/middleware"
	"github.com/prometheus/client_golang/prometheus/promhttp"

	"github.com/hmansouri/flightscout/config"
	"github.com/hmansouri/flightscout/history"
	"github.com/hmansouri/flightscout/pipeline"
)

// Run wires the configured backends into a pipeline and serves the API.
func Run(cfg *config.Config) error {
	pipe, cleanup, err := pipeline.Build(context.Background(), cfg)
	if err != nil {
		return err
	}
	defer cleanup()

	e := newEcho(pipe, pipe.History)
	log.Printf("[HTTP] listening on %s", cfg.Server.Address)
	return e.Start(cfg.Server.Address)
}

// newEcho builds the router; split out so handler tests can inject stub
// pipelines.
func newEcho(pipe *pipeline.Pipeline, hist *history.Store) *echo.Echo {
	e := echo.New()
	e.HideBanner = true
	e.Use(middleware.Recover())

	baseLogger := log.New(log.Writer(), "[HTTP] ", log.LstdFlags)
	e.HTTPErrorHandler = func(err error, c echo.Context) {
		code := http.StatusInternalServerError
		msg := err.Error()
		if he, ok := err.(*echo.HTTPError); ok {
			code = he.Code
			if he.Message != nil {
				msg = fmt.Sprint(he.Message)
			}
		}
		req := c.Request()
		baseLogger.Printf("%d %s %s from %s: %v", code, req.Method, req.URL.Path, c.RealIP(), err)
		if !c.Response().Committed {
			_ = c.JSON(code, map[string]interface{}{"error": msg})
		}
	}

	e.GET("/healthz", func(c echo.Context) error { return c.String(http.StatusOK, "ok") })
	e.GET("/metrics", echo.WrapHandler(promhttp.Handler()))

	h := &handlers{pipe: pipe, hist: hist}
	api := e.Group("/api")
	api.POST("/search", h.search)
	api.GET("/flights", h.flights)
	api.GET("/history", h.history)

	return e
}
