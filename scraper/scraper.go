package scraper

import "turbomaster-scraper/models"

// Writer persists the final dataset
type Writer interface {
	Write(table models.Table) error
}

// Summary describes a finished run
type Summary struct {
	Brands  int
	Rows    int
	Written bool
}
