package parser

import (
	"errors"
	"fmt"
	"strings"

	"turbomaster-scraper/models"

	"github.com/PuerkitoBio/goquery"
)

// Page structure of the catalog site. Extraction silently yields nothing
// when the markup drifts away from these.
const (
	SubseriesSelector = "div.elementor-column.elementor-col-10.elementor-md-15.elementor-sm-33.csubseries"
	TableSelector     = "table#table_id"
	NextPageSelector  = "a#table_id_next.paginate_button.next"

	disabledClass = "disabled"
)

// ErrColumnMismatch is returned when a table row does not have one cell per header
var ErrColumnMismatch = errors.New("row cell count does not match header count")

// Parser extracts catalog links and table data from HTML
type Parser struct{}

// NewParser creates a new Parser instance
func NewParser() *Parser {
	return &Parser{}
}

// SubseriesLinks returns the href of the first anchor inside every sub-series
// element, in document order. Duplicates are kept; anchors without an href
// are skipped.
func (p *Parser) SubseriesLinks(doc *goquery.Document) []string {
	links := []string{}

	doc.Find(SubseriesSelector).Each(func(i int, s *goquery.Selection) {
		href, ok := s.Find("a[href]").First().Attr("href")
		if !ok {
			return
		}
		links = append(links, href)
	})

	return links
}

// Table extracts the catalog data table.
// found is false when the page has no table at all, which is different from
// a table that has headers but no data rows.
func (p *Parser) Table(doc *goquery.Document) (table models.Table, found bool, err error) {
	sel := doc.Find(TableSelector).First()
	if sel.Length() == 0 {
		return models.Table{}, false, nil
	}

	headers := []string{}
	sel.Find("th").Each(func(i int, th *goquery.Selection) {
		headers = append(headers, strings.TrimSpace(th.Text()))
	})
	table.Headers = headers

	sel.Find("tr").EachWithBreak(func(i int, tr *goquery.Selection) bool {
		cells := tr.Find("td")
		if cells.Length() == 0 {
			// Header or separator row
			return true
		}
		if cells.Length() != len(headers) {
			err = fmt.Errorf("%w: row %d has %d cells, table has %d headers",
				ErrColumnMismatch, i, cells.Length(), len(headers))
			return false
		}

		row := make(models.Row, 0, cells.Length())
		cells.Each(func(j int, td *goquery.Selection) {
			row = append(row, strings.TrimSpace(td.Text()))
		})
		table.Rows = append(table.Rows, row)
		return true
	})
	if err != nil {
		return models.Table{}, true, err
	}

	return table, true, nil
}

// NextPage returns the href of the pagination "next" control.
// ok is false on the last page: the control is missing, disabled, or has no target.
func (p *Parser) NextPage(doc *goquery.Document) (href string, ok bool) {
	next := doc.Find(NextPageSelector).First()
	if next.Length() == 0 || next.HasClass(disabledClass) {
		return "", false
	}

	href = strings.TrimSpace(next.AttrOr("href", ""))
	if href == "" || strings.HasPrefix(href, "#") {
		return "", false
	}
	return href, true
}
