package scraper

import (
	"fmt"
	"io"
	"strings"

	"turbomaster-scraper/fetcher"
	"turbomaster-scraper/models"
	"turbomaster-scraper/parser"

	"github.com/PuerkitoBio/goquery"
	"github.com/charmbracelet/log"
)

// fakeFetcher serves canned HTML by URL and records every request
type fakeFetcher struct {
	pages   map[string]string
	fetched []string
}

func (f *fakeFetcher) Fetch(url string) (*goquery.Document, error) {
	f.fetched = append(f.fetched, url)
	html, ok := f.pages[url]
	if !ok {
		return nil, fmt.Errorf("%w: %s returned 404", fetcher.ErrBadStatus, url)
	}
	return goquery.NewDocumentFromReader(strings.NewReader(html))
}

// recordingWriter keeps what it was asked to write
type recordingWriter struct {
	tables []models.Table
	err    error
}

func (w *recordingWriter) Write(table models.Table) error {
	w.tables = append(w.tables, table)
	return w.err
}

func discardLogger() *log.Logger {
	return log.New(io.Discard)
}

func newTestWalker(f fetcher.Fetcher, maxPages int) *Walker {
	return NewWalker(f, parser.NewParser(), maxPages, discardLogger())
}

func newTestAggregator(f fetcher.Fetcher) *Aggregator {
	return NewAggregator(f, parser.NewParser(), newTestWalker(f, 50), "", discardLogger())
}

// nextControl renders the pagination "next" anchor; an empty href renders none
func nextControl(href string, disabled bool) string {
	if href == "" {
		return ""
	}
	class := "paginate_button next"
	if disabled {
		class += " disabled"
	}
	return fmt.Sprintf(`<a class="%s" id="table_id_next" href="%s">Next</a>`, class, href)
}

// tablePage renders a catalog page with one data table
func tablePage(headers []string, rows [][]string, next string) string {
	var sb strings.Builder
	sb.WriteString(`<html><body><table id="table_id"><thead><tr>`)
	for _, h := range headers {
		sb.WriteString("<th>" + h + "</th>")
	}
	sb.WriteString("</tr></thead><tbody>")
	for _, row := range rows {
		sb.WriteString("<tr>")
		for _, cell := range row {
			sb.WriteString("<td>" + cell + "</td>")
		}
		sb.WriteString("</tr>")
	}
	sb.WriteString("</tbody></table>")
	sb.WriteString(next)
	sb.WriteString("</body></html>")
	return sb.String()
}

// landingPage renders a brand page listing sub-series links
func landingPage(hrefs ...string) string {
	var sb strings.Builder
	sb.WriteString("<html><body>")
	for _, href := range hrefs {
		sb.WriteString(`<div class="elementor-column elementor-col-10 elementor-md-15 elementor-sm-33 csubseries">`)
		sb.WriteString(`<a href="` + href + `">series</a></div>`)
	}
	sb.WriteString("</body></html>")
	return sb.String()
}
