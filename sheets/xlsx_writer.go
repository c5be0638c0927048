package sheets

import (
	"fmt"

	"turbomaster-scraper/models"

	"github.com/charmbracelet/log"
	"github.com/xuri/excelize/v2"
)

// defaultSheet is the sheet excelize creates with every new workbook
const defaultSheet = "Sheet1"

// XLSXWriter writes the dataset to a local Excel workbook
type XLSXWriter struct {
	path      string
	sheetName string
	logger    *log.Logger
}

// NewXLSXWriter creates a writer for the workbook at path.
// An empty sheetName keeps the default "Sheet1".
func NewXLSXWriter(path, sheetName string, logger *log.Logger) *XLSXWriter {
	if sheetName == "" {
		sheetName = defaultSheet
	}
	return &XLSXWriter{
		path:      path,
		sheetName: sanitizeSheetName(sheetName),
		logger:    logger,
	}
}

// Write replaces the workbook with a single sheet: the header row followed by
// every data row, all as text.
func (w *XLSXWriter) Write(table models.Table) error {
	f := excelize.NewFile()
	defer f.Close()

	if w.sheetName != defaultSheet {
		if err := f.SetSheetName(defaultSheet, w.sheetName); err != nil {
			return fmt.Errorf("failed to name sheet: %w", err)
		}
	}

	sw, err := f.NewStreamWriter(w.sheetName)
	if err != nil {
		return fmt.Errorf("failed to open sheet writer: %w", err)
	}

	if err := sw.SetRow("A1", toCells(table.Headers)); err != nil {
		return fmt.Errorf("failed to write header row: %w", err)
	}
	for i, row := range table.Rows {
		cell, err := excelize.CoordinatesToCellName(1, i+2)
		if err != nil {
			return fmt.Errorf("failed to address row %d: %w", i+2, err)
		}
		if err := sw.SetRow(cell, toCells(row)); err != nil {
			return fmt.Errorf("failed to write row %d: %w", i+2, err)
		}
	}
	if err := sw.Flush(); err != nil {
		return fmt.Errorf("failed to flush sheet: %w", err)
	}

	if err := f.SaveAs(w.path); err != nil {
		return fmt.Errorf("failed to save %s: %w", w.path, err)
	}

	w.logger.Info("Data saved", "path", w.path, "rows", len(table.Rows))
	return nil
}

func toCells(values []string) []interface{} {
	cells := make([]interface{}, len(values))
	for i, v := range values {
		cells[i] = v
	}
	return cells
}
