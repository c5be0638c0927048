package fetcher

import (
	"bytes"
	"fmt"
	"time"

	"github.com/PuerkitoBio/goquery"
	"github.com/charmbracelet/log"
	"github.com/gocolly/colly/v2"
)

// CollyFetcher implements the Fetcher interface using colly
type CollyFetcher struct {
	collector *colly.Collector
	logger    *log.Logger
}

// NewCollyFetcher creates a new CollyFetcher instance.
// A zero timeout means requests never time out.
func NewCollyFetcher(userAgent string, timeout time.Duration, logger *log.Logger) *CollyFetcher {
	c := colly.NewCollector(
		colly.UserAgent(userAgent),
		// Revisits are the walker's business, not the collector's
		colly.AllowURLRevisit(),
	)

	// One request in flight at a time
	c.Limit(&colly.LimitRule{
		DomainGlob:  "*",
		Parallelism: 1,
	})
	c.SetRequestTimeout(timeout)

	return &CollyFetcher{
		collector: c,
		logger:    logger,
	}
}

// Fetch implements the Fetcher interface
func (cf *CollyFetcher) Fetch(url string) (*goquery.Document, error) {
	c := cf.collector.Clone()
	// Every status reaches OnResponse; checkStatus decides what is a failure
	c.ParseHTTPErrorResponse = true

	var (
		doc       *goquery.Document
		parseErr  error
		statusErr error
	)

	c.OnResponse(func(r *colly.Response) {
		if statusErr = checkStatus(url, r.StatusCode); statusErr != nil {
			return
		}
		doc, parseErr = goquery.NewDocumentFromReader(bytes.NewReader(r.Body))
		if doc != nil {
			doc.Url = r.Request.URL
		}
	})

	cf.logger.Debug("Fetching page", "url", url)

	if err := c.Visit(url); err != nil {
		return nil, fmt.Errorf("failed to fetch %s: %w", url, err)
	}
	c.Wait()

	if statusErr != nil {
		return nil, statusErr
	}
	if parseErr != nil {
		return nil, fmt.Errorf("failed to parse HTML from %s: %w", url, parseErr)
	}
	if doc == nil {
		return nil, fmt.Errorf("failed to fetch %s: no response received", url)
	}

	return doc, nil
}
