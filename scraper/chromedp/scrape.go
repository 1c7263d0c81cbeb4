package chromedp

import (
	"context"
	"errors"
	"fmt"
	"log"
	"time"

	"github.com/chromedp/cdproto/cdp"
	"github.com/chromedp/cdproto/fetch"
	"github.com/chromedp/chromedp"

	"github.com/hmansouri/flightscout/config"
	"github.com/hmansouri/flightscout/flighturl"
	"github.com/hmansouri/flightscout/models"
)

// ErrExtraction is the single failure condition for the extraction step.
var ErrExtraction = errors.New("flight extraction failed")

// CSS selectors on the results page. Centralising them makes future layout
// updates trivial.
const (
	resultRowSelector = `.pIav2d`

	departureSelector = `span[aria-label*="Departure time"]`
	arrivalSelector   = `span[aria-label*="Arrival time"]`
	airlineSelector   = `.sSHqwe`
	durationSelector  = `div.gvkrdb`
	stopsSelector     = `div.EfT7Ae span.ogfYpf`
	priceSelector     = `div.FpEdX span`
	co2Selector       = `div.O7CXue`
	variationSelector = `div.N6PNV`
)

// rowsJS reads the eight named fields out of every result row in one
// round-trip. Absent fields come back as "N/A" (some carriers omit
// emissions data; nonstop flights have no stopover badge).
const rowsJS = `
(() => {
	const text = (root, sel) => {
		const el = root.querySelector(sel);
		return el ? el.innerText.trim() : 'N/A';
	};
	return Array.from(document.querySelectorAll('` + resultRowSelector + `')).map(row => ({
		departure_time:      text(row, '` + departureSelector + `'),
		arrival_time:        text(row, '` + arrivalSelector + `'),
		airline:             text(row, '` + airlineSelector + `'),
		duration:            text(row, '` + durationSelector + `'),
		stops:               text(row, '` + stopsSelector + `'),
		price:               text(row, '` + priceSelector + `'),
		co2_emissions:       text(row, '` + co2Selector + `'),
		emissions_variation: text(row, '` + variationSelector + `'),
	}));
})();
`

// Scraper drives a headless browser session per call. Sessions are never
// pooled or reused across searches.
type Scraper struct {
	Headless   bool
	NavTimeout time.Duration
	UserAgent  string
	Proxy      config.ProxyConfig
}

// Extract navigates to the results URL for req, waits for the result rows
// to render, and returns them in page order. The browser session is owned
// exclusively by this call and released on all exit paths.
func (s *Scraper) Extract(ctx context.Context, req models.SearchRequest) ([]models.FlightRecord, error) {
	url := flighturl.SearchURL(req.Origin, req.Destination, req.Date)

	ctx, cancel := context.WithTimeout(ctx, s.NavTimeout)
	defer cancel()

	opts := append(chromedp.DefaultExecAllocatorOptions[:],
		chromedp.Flag("headless", s.Headless),
		chromedp.Flag("no-sandbox", true),
		chromedp.Flag("disable-gpu", true),
		chromedp.Flag("disable-blink-features", "AutomationControlled"),
		chromedp.WindowSize(1440, 900),
	)
	if s.UserAgent != "" {
		opts = append(opts, chromedp.UserAgent(s.UserAgent))
	}
	if s.Proxy.IsConfigured() {
		opts = append(opts, chromedp.ProxyServer(s.Proxy.Server))
		if s.Proxy.Bypass != "" {
			opts = append(opts, chromedp.Flag("proxy-bypass-list", s.Proxy.Bypass))
		}
	}

	actx, cancelAlloc := chromedp.NewExecAllocator(ctx, opts...)
	defer cancelAlloc()
	bctx, cancelBrowser := chromedp.NewContext(actx)
	defer cancelBrowser()

	actions := []chromedp.Action{}
	if s.Proxy.IsConfigured() && s.Proxy.Username != "" {
		answerProxyAuth(bctx, s.Proxy.Username, s.Proxy.Password)
		actions = append(actions, fetch.Enable().WithHandleAuthRequests(true))
	}

	log.Printf("[Scraper] navigating to %s", url)
	var rows []models.FlightRecord
	actions = append(actions,
		chromedp.Navigate(url),
		chromedp.WaitVisible(resultRowSelector, chromedp.ByQuery),
		chromedp.Evaluate(rowsJS, &rows),
	)
	if err := chromedp.Run(bctx, actions...); err != nil {
		return nil, fmt.Errorf("%w: %v", ErrExtraction, err)
	}
	if len(rows) == 0 {
		return nil, ErrExtraction
	}
	log.Printf("[Scraper] extracted %d flights for %s", len(rows), req)
	return rows, nil
}

// answerProxyAuth answers the DevTools auth challenge for an authenticated
// upstream proxy. Chrome will not take credentials on the --proxy-server
// flag.
func answerProxyAuth(ctx context.Context, username, password string) {
	chromedp.ListenTarget(ctx, func(ev interface{}) {
		go func() {
			switch e := ev.(type) {
			case *fetch.EventAuthRequired:
				c := chromedp.FromContext(ctx)
				execCtx := cdp.WithExecutor(ctx, c.Target)
				resp := &fetch.AuthChallengeResponse{
					Response: fetch.AuthChallengeResponseResponseProvideCredentials,
					Username: username,
					Password: password,
				}
				_ = fetch.ContinueWithAuth(e.RequestID, resp).Do(execCtx)
			case *fetch.EventRequestPaused:
				c := chromedp.FromContext(ctx)
				execCtx := cdp.WithExecutor(ctx, c.Target)
				_ = fetch.ContinueRequest(e.RequestID).Do(execCtx)
			}
		}()
	})
}
