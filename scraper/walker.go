package scraper

import (
	"fmt"
	"net/url"

	"turbomaster-scraper/fetcher"
	"turbomaster-scraper/models"
	"turbomaster-scraper/parser"

	"github.com/charmbracelet/log"
)

// Walker follows a sub-series table across its "next" pages
type Walker struct {
	fetcher  fetcher.Fetcher
	parser   *parser.Parser
	maxPages int
	logger   *log.Logger
}

// NewWalker creates a Walker that fetches at most maxPages pages per chain
func NewWalker(f fetcher.Fetcher, p *parser.Parser, maxPages int, logger *log.Logger) *Walker {
	return &Walker{
		fetcher:  f,
		parser:   p,
		maxPages: maxPages,
		logger:   logger,
	}
}

// Walk scrapes the table on startURL and on every page reachable through the
// next control, and returns the rows of all pages under the headers of the
// first table found. A page with no table counts as zero rows. A fetch
// failure aborts the walk.
func (w *Walker) Walk(startURL string) (models.Table, error) {
	var (
		result     models.Table
		foundTable bool
		visited    = make(map[string]bool)
		currentURL = startURL
	)

	for page := 1; ; page++ {
		if visited[currentURL] {
			w.logger.Warn("Pagination loops back to a visited page, stopping", "start", startURL, "url", currentURL)
			break
		}
		if page > w.maxPages {
			w.logger.Warn("Page limit reached, stopping", "start", startURL, "limit", w.maxPages)
			break
		}
		visited[currentURL] = true

		doc, err := w.fetcher.Fetch(currentURL)
		if err != nil {
			return models.Table{}, err
		}

		table, found, err := w.parser.Table(doc)
		switch {
		case err != nil:
			w.logger.Warn("Skipping page with malformed table", "url", currentURL, "err", err)
		case !found:
			w.logger.Warn("Table not found on the page", "url", currentURL)
		default:
			foundTable = true
			w.merge(&result, table, currentURL)
		}

		href, ok := w.parser.NextPage(doc)
		if !ok {
			break
		}
		next, err := resolveReference(currentURL, href)
		if err != nil {
			w.logger.Warn("Unusable next page link, stopping", "url", currentURL, "href", href, "err", err)
			break
		}
		currentURL = next
	}

	if !foundTable {
		w.logger.Warn("No data found", "url", startURL)
		return models.Table{}, nil
	}
	return result, nil
}

// merge appends a page's rows to the accumulated result
func (w *Walker) merge(result *models.Table, table models.Table, pageURL string) {
	if len(table.Headers) == 0 {
		return
	}
	if result.Headers == nil {
		result.Headers = table.Headers
		result.Rows = append(result.Rows, table.Rows...)
		return
	}

	if len(table.Headers) != len(result.Headers) {
		w.logger.Warn("Skipping page whose column count differs from the first page",
			"url", pageURL, "columns", len(table.Headers), "expected", len(result.Headers))
		return
	}
	for i := range table.Headers {
		if table.Headers[i] != result.Headers[i] {
			// First page headers win
			w.logger.Debug("Page headers differ from first page", "url", pageURL, "headers", table.Headers)
			break
		}
	}
	result.Rows = append(result.Rows, table.Rows...)
}

func resolveReference(base, href string) (string, error) {
	baseURL, err := url.Parse(base)
	if err != nil {
		return "", fmt.Errorf("failed to parse page URL: %w", err)
	}
	ref, err := url.Parse(href)
	if err != nil {
		return "", fmt.Errorf("failed to parse link: %w", err)
	}
	return baseURL.ResolveReference(ref).String(), nil
}
