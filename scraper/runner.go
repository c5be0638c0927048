package scraper

import (
	"fmt"

	"turbomaster-scraper/models"

	"github.com/charmbracelet/log"
)

// Runner drives the aggregator over the brand list and writes the result once
type Runner struct {
	aggregator *Aggregator
	output     Writer
	mirrors    []Writer
	logger     *log.Logger
}

// NewRunner creates a Runner. A failure writing to output fails the run;
// mirrors are best-effort copies whose failures are only logged.
func NewRunner(aggregator *Aggregator, output Writer, logger *log.Logger, mirrors ...Writer) *Runner {
	return &Runner{
		aggregator: aggregator,
		output:     output,
		mirrors:    mirrors,
		logger:     logger,
	}
}

// Run aggregates every brand in order and persists the combined table.
// Any fetch failure aborts the run before anything is written. When no brand
// yields data nothing is written and Summary.Written is false.
func (r *Runner) Run(brandURLs []string) (Summary, error) {
	brandTables := make([]models.Table, 0, len(brandURLs))

	for _, brandURL := range brandURLs {
		r.logger.Info("Processing URL", "url", brandURL)

		table, err := r.aggregator.Aggregate(brandURL)
		if err != nil {
			return Summary{}, err
		}
		brandTables = append(brandTables, table)
	}

	final := models.Concat(brandTables...)
	summary := Summary{Brands: len(brandURLs), Rows: len(final.Rows)}

	if final.Empty() {
		r.logger.Warn("No data was scraped from any URL")
		return summary, nil
	}

	if err := r.output.Write(final); err != nil {
		return summary, fmt.Errorf("failed to save data: %w", err)
	}
	summary.Written = true

	for _, mirror := range r.mirrors {
		if err := mirror.Write(final); err != nil {
			r.logger.Warn("Failed to write copy of the data", "err", err)
		}
	}

	return summary, nil
}
