// Package recommender turns a selected flight, or a free-text travel
// query, into a natural-language recommendation via an LLM provider.
package recommender

import (
	"context"
	"errors"
	"fmt"
	"html"
	"regexp"
	"strconv"
	"strings"

	"github.com/hmansouri/flightscout/models"
	"github.com/hmansouri/flightscout/provider"
)

// ErrRecommendation is surfaced when the model call fails or returns
// nothing usable. Never retried; no fallback model.
var ErrRecommendation = errors.New("could not produce a recommendation")

// Searcher is the one capability the agent may invoke while answering a
// free-text query: run a structured filter query, return formatted text.
// It is injected so the agent stays substitutable and testable with a
// stub.
type Searcher interface {
	Search(ctx context.Context, c models.FilterCriteria) (string, error)
}

const systemPrompt = `You are a flight-booking assistant. You are given flight data that has ` +
	`already been searched and filtered for the user. Explain the recommendation clearly ` +
	`and concisely: carrier, departure and arrival times, duration, price and stops. ` +
	`Do not invent flights that are not in the data.`

// Agent composes the final prose answer.
type Agent struct {
	Provider provider.Provider
	Searcher Searcher
}

func New(p provider.Provider, s Searcher) *Agent {
	return &Agent{Provider: p, Searcher: s}
}

// SummarizeBest renders the pre-selected best flight into a short fixed
// template and asks the model to present it.
func (a *Agent) SummarizeBest(ctx context.Context, req models.SearchRequest, best models.FlightRecord) (string, error) {
	summary := fmt.Sprintf(`Recommended flight for %s:
- Carrier: %s
- Departure: %s
- Arrival: %s
- Duration: %s
- Price: %s
- Stops: %s`,
		req, best.Airline, best.DepartureTime, best.ArrivalTime, best.Duration, best.Price, best.Stops)

	out, err := a.Provider.Complete(ctx, systemPrompt, summary)
	if err != nil {
		return "", fmt.Errorf("%w: %v", ErrRecommendation, err)
	}
	out = NormalizeOutput(out)
	if out == "" {
		return "", ErrRecommendation
	}
	return out, nil
}

// Answer handles a free-text query: budget, time-of-day and stopover hints
// are parsed out of the text, the injected search capability is invoked,
// and the model composes the reply from its output.
func (a *Agent) Answer(ctx context.Context, query string) (string, error) {
	if a.Searcher == nil {
		return "", fmt.Errorf("%w: no search capability injected", ErrRecommendation)
	}
	results, err := a.Searcher.Search(ctx, ParseQuery(query))
	if err != nil {
		return "", fmt.Errorf("%w: %v", ErrRecommendation, err)
	}

	user := fmt.Sprintf("User asked: %s\n\nFlight search results:\n%s", query, results)
	out, err := a.Provider.Complete(ctx, systemPrompt, user)
	if err != nil {
		return "", fmt.Errorf("%w: %v", ErrRecommendation, err)
	}
	out = NormalizeOutput(out)
	if out == "" {
		return "", ErrRecommendation
	}
	return out, nil
}

var (
	budgetRe    = regexp.MustCompile(`(?i)(\d+(?:\.\d+)?)\s?(tnd|€|eur|euros?|usd|\$|dollars?)`)
	noStopRe    = regexp.MustCompile(`(?i)\b(nonstop|non-stop|direct|no stopover|without stopover|sans escale)\b`)
	withStopRe  = regexp.MustCompile(`(?i)\b(with (a )?stopover|1 stop|one stop|avec escale)\b`)
	morningRe   = regexp.MustCompile(`(?i)\b(morning|matin)\b`)
	afternoonRe = regexp.MustCompile(`(?i)\b(afternoon|apr[eè]s-midi|apm)\b`)
	eveningRe   = regexp.MustCompile(`(?i)\b(evening|night|soir)\b`)
)

// ParseQuery extracts filter criteria from free text via keyword and
// numeric-pattern matching. Unmatched dimensions stay permissive.
func ParseQuery(query string) models.FilterCriteria {
	c := models.FilterCriteria{Bucket: models.BucketAny, Stopover: models.StopoverAny}

	if m := budgetRe.FindStringSubmatch(query); m != nil {
		if v, err := strconv.ParseFloat(m[1], 64); err == nil {
			c.MaxPrice = &v
		}
	}

	switch {
	case noStopRe.MatchString(query):
		c.Stopover = models.StopoverNone
	case withStopRe.MatchString(query):
		c.Stopover = models.StopoverRequired
	}

	switch {
	case morningRe.MatchString(query):
		c.Bucket = models.BucketMorning
	case afternoonRe.MatchString(query):
		c.Bucket = models.BucketAfternoon
	case eveningRe.MatchString(query):
		c.Bucket = models.BucketEvening
	}

	return c
}

var escapeRe = regexp.MustCompile(`\\[nrt]`)

// NormalizeOutput unescapes HTML entities and turns literal escape
// sequences in the model's reply into real line breaks before display.
func NormalizeOutput(s string) string {
	s = html.UnescapeString(s)
	s = escapeRe.ReplaceAllStringFunc(s, func(m string) string {
		switch m {
		case `\n`, `\r`:
			return "\n"
		default:
			return "\t"
		}
	})
	return strings.TrimSpace(s)
}
