package fetcher

import (
	"errors"
	"fmt"

	"github.com/PuerkitoBio/goquery"
)

// ErrBadStatus is returned when the server answers with a non-success status
var ErrBadStatus = errors.New("unexpected HTTP status")

// Fetcher interface defines the contract for fetching implementations
type Fetcher interface {
	// Fetch retrieves the page at url and returns it parsed.
	// Network failures and non-success statuses are errors.
	Fetch(url string) (*goquery.Document, error)
}

// checkStatus reports any status outside the 2xx range as ErrBadStatus
func checkStatus(url string, status int) error {
	if status < 200 || status > 299 {
		return fmt.Errorf("%w: %s returned %d", ErrBadStatus, url, status)
	}
	return nil
}
