package sheets

import (
	"context"
	"encoding/json"
	"fmt"
	"os"
	"strings"
	"time"

	"turbomaster-scraper/models"

	"github.com/charmbracelet/log"
	"google.golang.org/api/option"
	"google.golang.org/api/sheets/v4"
)

// Writer handles writing the dataset to Google Sheets
type Writer struct {
	service       *sheets.Service
	spreadsheetID string
	logger        *log.Logger
	now           func() time.Time
}

// NewWriter creates a new Google Sheets writer
func NewWriter(spreadsheetID string, credentialsPath string, logger *log.Logger) (*Writer, error) {
	// Read credentials from file or environment variable
	var credsJSON []byte
	var err error

	if credentialsPath != "" {
		credsJSON, err = os.ReadFile(credentialsPath)
		if err != nil {
			return nil, fmt.Errorf("failed to read credentials file: %w", err)
		}
	} else {
		credsEnv := strings.TrimSpace(os.Getenv("GOOGLE_SHEETS_CREDENTIALS"))
		if credsEnv == "" {
			return nil, fmt.Errorf("credentials not found: GOOGLE_SHEETS_CREDENTIALS environment variable is empty or not set")
		}
		logger.Debug("Reading credentials from GOOGLE_SHEETS_CREDENTIALS", "bytes", len(credsEnv))
		credsJSON = []byte(credsEnv)
	}

	var creds map[string]interface{}
	if err := json.Unmarshal(credsJSON, &creds); err != nil {
		return nil, fmt.Errorf("invalid credentials JSON (check if JSON is properly formatted): %w", err)
	}
	if creds["type"] != "service_account" {
		return nil, fmt.Errorf("credentials must be a service account JSON file (type: service_account), got type: %v", creds["type"])
	}

	return newWriter(context.Background(), spreadsheetID, logger, option.WithCredentialsJSON(credsJSON))
}

func newWriter(ctx context.Context, spreadsheetID string, logger *log.Logger, opts ...option.ClientOption) (*Writer, error) {
	service, err := sheets.NewService(ctx, opts...)
	if err != nil {
		return nil, fmt.Errorf("failed to create sheets service: %w", err)
	}

	return &Writer{
		service:       service,
		spreadsheetID: spreadsheetID,
		logger:        logger,
		now:           time.Now,
	}, nil
}

// Write adds a new tab named after the current time at the front of the
// spreadsheet and writes the header row and all data rows to it.
func (w *Writer) Write(table models.Table) error {
	sheetName := sanitizeSheetName("Catalog_" + w.now().Format("20060102_150405"))
	if _, err := w.CreateSheetAndWriteTable(sheetName, table); err != nil {
		return err
	}
	return nil
}

// CreateSheetAndWriteTable creates a new sheet at index 0 and writes the table to it.
// Returns the sheet ID (gid) that was created.
func (w *Writer) CreateSheetAndWriteTable(sheetName string, table models.Table) (int64, error) {
	sheetName = sanitizeSheetName(sheetName)
	if len(sheetName) > 100 {
		sheetName = sheetName[:100]
	}

	batchUpdateRequest := &sheets.BatchUpdateSpreadsheetRequest{
		Requests: []*sheets.Request{
			{
				AddSheet: &sheets.AddSheetRequest{
					Properties: &sheets.SheetProperties{
						Title: sheetName,
						Index: 0,
					},
				},
			},
		},
	}

	batchUpdateResp, err := w.service.Spreadsheets.BatchUpdate(w.spreadsheetID, batchUpdateRequest).Do()
	if err != nil {
		return 0, fmt.Errorf("failed to create sheet: %w", err)
	}

	var sheetID int64
	if len(batchUpdateResp.Replies) > 0 && batchUpdateResp.Replies[0].AddSheet != nil {
		sheetID = batchUpdateResp.Replies[0].AddSheet.Properties.SheetId
	}
	w.logger.Info("Created sheet", "name", sheetName, "id", sheetID)

	values := make([][]interface{}, 0, len(table.Rows)+1)
	values = append(values, toCells(table.Headers))
	for _, row := range table.Rows {
		values = append(values, toCells(row))
	}

	valueRange := &sheets.ValueRange{
		Values: values,
	}
	_, err = w.service.Spreadsheets.Values.Update(w.spreadsheetID, fmt.Sprintf("%s!A1", sheetName), valueRange).
		ValueInputOption("RAW").
		Do()
	if err != nil {
		return 0, fmt.Errorf("failed to write to sheet: %w", err)
	}

	w.logger.Info("Data saved to Google Sheets", "sheet", sheetName, "rows", len(table.Rows))
	return sheetID, nil
}

// sanitizeSheetName removes invalid characters from sheet name
func sanitizeSheetName(name string) string {
	// Sheet names cannot contain: / \ ? * [ ] :
	invalidChars := []string{"/", "\\", "?", "*", "[", "]", ":"}
	result := name
	for _, char := range invalidChars {
		result = strings.ReplaceAll(result, char, "_")
	}
	result = strings.TrimSpace(result)
	if result == "" {
		result = defaultSheet
	}
	return result
}

// ExtractSpreadsheetID extracts the spreadsheet ID from a Google Sheets URL
func ExtractSpreadsheetID(url string) string {
	// https://docs.google.com/spreadsheets/d/SPREADSHEET_ID/edit?usp=sharing
	parts := strings.Split(url, "/d/")
	if len(parts) < 2 {
		return ""
	}

	idPart := parts[1]
	if idx := strings.Index(idPart, "/"); idx != -1 {
		idPart = idPart[:idx]
	}
	if idx := strings.Index(idPart, "?"); idx != -1 {
		idPart = idPart[:idx]
	}

	return strings.TrimSpace(idPart)
}
