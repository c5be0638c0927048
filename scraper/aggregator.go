package scraper

import (
	"fmt"
	"net/url"
	"regexp"
	"strings"
	"unicode"
	"unicode/utf8"

	"turbomaster-scraper/fetcher"
	"turbomaster-scraper/models"
	"turbomaster-scraper/parser"

	"github.com/charmbracelet/log"
)

// UnknownBrand labels rows from a URL that has no /catalogs/<brand>/ segment
const UnknownBrand = "Unknown"

var brandPattern = regexp.MustCompile(`/catalogs/([^/]+)/`)

// Aggregator collects every sub-series of one brand into a single table
type Aggregator struct {
	fetcher    fetcher.Fetcher
	parser     *parser.Parser
	walker     *Walker
	siteOrigin string
	logger     *log.Logger
}

// NewAggregator creates an Aggregator. An empty siteOrigin means relative
// sub-series links resolve against the landing page's scheme and host.
func NewAggregator(f fetcher.Fetcher, p *parser.Parser, w *Walker, siteOrigin string, logger *log.Logger) *Aggregator {
	return &Aggregator{
		fetcher:    f,
		parser:     p,
		walker:     w,
		siteOrigin: siteOrigin,
		logger:     logger,
	}
}

// Aggregate scrapes the brand landing page at brandURL. Each non-empty
// sub-series becomes a marker row carrying the brand name followed by that
// sub-series's rows, in link order.
func (a *Aggregator) Aggregate(brandURL string) (models.Table, error) {
	brand := BrandName(brandURL)

	doc, err := a.fetcher.Fetch(brandURL)
	if err != nil {
		return models.Table{}, fmt.Errorf("failed to fetch %s landing page: %w", brand, err)
	}

	links := a.parser.SubseriesLinks(doc)
	a.logger.Info("Found subseries links", "brand", brand, "count", len(links))

	origin := a.siteOrigin
	if origin == "" && len(links) > 0 {
		origin, err = Origin(brandURL)
		if err != nil {
			return models.Table{}, err
		}
	}

	var sections []models.Table
	for _, link := range links {
		fullLink := ResolveLink(origin, link)
		a.logger.Info("Scraping data from subseries link", "url", fullLink)

		data, err := a.walker.Walk(fullLink)
		if err != nil {
			return models.Table{}, fmt.Errorf("failed to scrape %s subseries %s: %w", brand, fullLink, err)
		}
		if data.Empty() {
			continue
		}

		rows := make([]models.Row, 0, len(data.Rows)+1)
		rows = append(rows, models.MarkerRow(brand, len(data.Headers)))
		rows = append(rows, data.Rows...)
		sections = append(sections, models.Table{Headers: data.Headers, Rows: rows})
	}

	return models.Concat(sections...), nil
}

// BrandName extracts the brand from a catalog URL: ".../catalogs/garrett/" is
// "Garrett". The first letter is upper-cased and the rest lower-cased.
func BrandName(catalogURL string) string {
	match := brandPattern.FindStringSubmatch(catalogURL)
	if match == nil {
		return UnknownBrand
	}
	return capitalize(match[1])
}

func capitalize(s string) string {
	r, size := utf8.DecodeRuneInString(s)
	if r == utf8.RuneError {
		return s
	}
	return string(unicode.ToUpper(r)) + strings.ToLower(s[size:])
}

// Origin returns the scheme://host part of an absolute URL
func Origin(rawURL string) (string, error) {
	u, err := url.Parse(rawURL)
	if err != nil {
		return "", fmt.Errorf("failed to parse URL %s: %w", rawURL, err)
	}
	if u.Scheme == "" || u.Host == "" {
		return "", fmt.Errorf("URL %s is not absolute", rawURL)
	}
	return u.Scheme + "://" + u.Host, nil
}

// ResolveLink turns a sub-series href into an absolute URL by prefixing the
// site origin. Absolute hrefs are returned unchanged; protocol-relative ones
// take the origin's scheme.
func ResolveLink(origin, href string) string {
	if u, err := url.Parse(href); err == nil {
		if u.IsAbs() {
			return href
		}
		if u.Host != "" {
			scheme := "https"
			if o, err := url.Parse(origin); err == nil && o.Scheme != "" {
				scheme = o.Scheme
			}
			return scheme + ":" + href
		}
	}
	if !strings.HasPrefix(href, "/") {
		href = "/" + href
	}
	return strings.TrimSuffix(origin, "/") + href
}
