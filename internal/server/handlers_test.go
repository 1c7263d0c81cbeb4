package server

import (
	"context"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/hmansouri/flightscout/models"
	"github.com/hmansouri/flightscout/pipeline"
	"github.com/hmansouri/flightscout/recommender"
	"github.com/hmansouri/flightscout/scraper"
	"github.com/hmansouri/flightscout/store"
)

type memStore struct {
	data map[string][]models.FlightRecord
}

func (m *memStore) Get(_ context.Context, req models.SearchRequest) ([]models.FlightRecord, error) {
	rows, ok := m.data[req.Key()]
	if !ok {
		return nil, store.ErrMiss
	}
	return rows, nil
}

func (m *memStore) Put(_ context.Context, req models.SearchRequest, rows []models.FlightRecord) error {
	m.data[req.Key()] = rows
	return nil
}

type stubExtractor struct {
	rows  []models.FlightRecord
	err   error
	calls int
}

func (s *stubExtractor) Extract(_ context.Context, _ models.SearchRequest) ([]models.FlightRecord, error) {
	s.calls++
	return s.rows, s.err
}

type stubProvider struct{ reply string }

func (p *stubProvider) Complete(_ context.Context, _, _ string) (string, error) {
	return p.reply, nil
}

func testPipeline(ex *stubExtractor) *pipeline.Pipeline {
	return &pipeline.Pipeline{
		Store:     &memStore{data: map[string][]models.FlightRecord{}},
		Extractor: ex,
		Agent:     recommender.New(&stubProvider{reply: "Take this flight."}, nil),
	}
}

func postSearch(t *testing.T, pipe *pipeline.Pipeline, body string) *httptest.ResponseRecorder {
	t.Helper()
	e := newEcho(pipe, nil)
	req := httptest.NewRequest(http.MethodPost, "/api/search", strings.NewReader(body))
	req.Header.Set("Content-Type", "application/json")
	rec := httptest.NewRecorder()
	e.ServeHTTP(rec, req)
	return rec
}

func TestSearchHappyPath(t *testing.T) {
	pipe := testPipeline(&stubExtractor{rows: []models.FlightRecord{
		{Airline: "Tunisair", DepartureTime: "8:15 AM", Stops: "Nonstop", Price: "€184"},
	}})
	rec := postSearch(t, pipe, `{"origin":"TUN","destination":"ORY","date":"2025-08-29"}`)
	if rec.Code != http.StatusOK {
		t.Fatalf("status = %d, body = %s", rec.Code, rec.Body.String())
	}
	if !strings.Contains(rec.Body.String(), "Take this flight.") {
		t.Errorf("recommendation missing: %s", rec.Body.String())
	}
}

func TestSearchMissingFields(t *testing.T) {
	pipe := testPipeline(&stubExtractor{})
	rec := postSearch(t, pipe, `{"origin":"TUN"}`)
	if rec.Code != http.StatusBadRequest {
		t.Fatalf("status = %d, want 400", rec.Code)
	}
}

func TestSearchNoMatchDistinctFromExtractionFailure(t *testing.T) {
	// Rows exist but the budget eliminates them all: 404, not 502.
	pipe := testPipeline(&stubExtractor{rows: []models.FlightRecord{
		{Airline: "Tunisair", DepartureTime: "8:15 AM", Stops: "Nonstop", Price: "€184"},
	}})
	rec := postSearch(t, pipe, `{"origin":"TUN","destination":"ORY","date":"2025-08-29","max_price":50}`)
	if rec.Code != http.StatusNotFound {
		t.Fatalf("no-match status = %d, want 404", rec.Code)
	}

	// Extraction itself fails: 502.
	pipe = testPipeline(&stubExtractor{err: scraper.ErrExtraction})
	rec = postSearch(t, pipe, `{"origin":"TUN","destination":"ORY","date":"2025-08-29"}`)
	if rec.Code != http.StatusBadGateway {
		t.Fatalf("extraction-failure status = %d, want 502", rec.Code)
	}
}

func TestSearchFreeTextQuery(t *testing.T) {
	pipe := testPipeline(&stubExtractor{rows: []models.FlightRecord{
		{Airline: "Nouvelair", DepartureTime: "9:00 AM", Stops: "Nonstop", Price: "€120"},
	}})
	rec := postSearch(t, pipe, `{"origin":"TUN","destination":"ORY","date":"2025-08-29","query":"nonstop morning flight under 200 euros"}`)
	if rec.Code != http.StatusOK {
		t.Fatalf("status = %d, body = %s", rec.Code, rec.Body.String())
	}
	if !strings.Contains(rec.Body.String(), "recommendation") {
		t.Errorf("missing recommendation field: %s", rec.Body.String())
	}
}

func TestFlightsEndpointFilters(t *testing.T) {
	pipe := testPipeline(&stubExtractor{})
	req := models.NewSearchRequest("TUN", "ORY", "2025-08-29")
	pipe.Store.(*memStore).data[req.Key()] = []models.FlightRecord{
		{Airline: "Nouvelair", DepartureTime: "9:00 AM", Stops: "Nonstop", Price: "€120"},
		{Airline: "Air France", DepartureTime: "7:00 PM", Stops: "1 stop", Price: "€90"},
	}
	e := newEcho(pipe, nil)
	hreq := httptest.NewRequest(http.MethodGet, "/api/flights?origin=TUN&destination=ORY&date=2025-08-29&stopover=none", nil)
	rec := httptest.NewRecorder()
	e.ServeHTTP(rec, hreq)

	if rec.Code != http.StatusOK {
		t.Fatalf("status = %d, body = %s", rec.Code, rec.Body.String())
	}
	body := rec.Body.String()
	if !strings.Contains(body, "Nouvelair") {
		t.Errorf("nonstop row missing: %s", body)
	}
	if strings.Contains(body, "Air France") {
		t.Errorf("one-stop row should be filtered: %s", body)
	}
}

func TestFlightsEndpointNeverScrapes(t *testing.T) {
	// A GET must not launch a browser session: an unsearched route is a
	// plain 404, and the extractor stays untouched.
	ex := &stubExtractor{rows: []models.FlightRecord{
		{Airline: "Tunisair", DepartureTime: "8:15 AM", Stops: "Nonstop", Price: "€184"},
	}}
	e := newEcho(testPipeline(ex), nil)
	req := httptest.NewRequest(http.MethodGet, "/api/flights?origin=TUN&destination=ORY&date=2025-08-29", nil)
	rec := httptest.NewRecorder()
	e.ServeHTTP(rec, req)

	if rec.Code != http.StatusNotFound {
		t.Fatalf("status = %d, want 404 on store miss", rec.Code)
	}
	if ex.calls != 0 {
		t.Fatalf("extractor calls = %d, GET must not extract", ex.calls)
	}
}

func TestSearchBucketCaseInsensitive(t *testing.T) {
	// "Morning" must match an 8:15 AM flight, not turn into a bucket no
	// row can ever satisfy.
	pipe := testPipeline(&stubExtractor{rows: []models.FlightRecord{
		{Airline: "Tunisair", DepartureTime: "8:15 AM", Stops: "Nonstop", Price: "€184"},
	}})
	rec := postSearch(t, pipe, `{"origin":"TUN","destination":"ORY","date":"2025-08-29","bucket":"Morning"}`)
	if rec.Code != http.StatusOK {
		t.Fatalf("status = %d, body = %s", rec.Code, rec.Body.String())
	}
}

func TestSearchRejectsUnknownEnums(t *testing.T) {
	pipe := testPipeline(&stubExtractor{rows: []models.FlightRecord{
		{Airline: "Tunisair", DepartureTime: "8:15 AM", Stops: "Nonstop", Price: "€184"},
	}})

	rec := postSearch(t, pipe, `{"origin":"TUN","destination":"ORY","date":"2025-08-29","bucket":"noonish"}`)
	if rec.Code != http.StatusBadRequest {
		t.Fatalf("bad bucket status = %d, want 400", rec.Code)
	}

	rec = postSearch(t, pipe, `{"origin":"TUN","destination":"ORY","date":"2025-08-29","stopover":"maybe"}`)
	if rec.Code != http.StatusBadRequest {
		t.Fatalf("bad stopover status = %d, want 400", rec.Code)
	}
}

func TestHistoryNotConfigured(t *testing.T) {
	e := newEcho(testPipeline(&stubExtractor{}), nil)
	req := httptest.NewRequest(http.MethodGet, "/api/history", nil)
	rec := httptest.NewRecorder()
	e.ServeHTTP(rec, req)
	if rec.Code != http.StatusNotFound {
		t.Fatalf("status = %d, want 404", rec.Code)
	}
}
