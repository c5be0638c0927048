package main

import (
	"errors"
	"flag"
	"io/fs"
	"os"
	"time"

	"turbomaster-scraper/config"
	"turbomaster-scraper/fetcher"
	"turbomaster-scraper/notify"
	"turbomaster-scraper/parser"
	"turbomaster-scraper/scraper"
	"turbomaster-scraper/sheets"

	"github.com/charmbracelet/log"
)

func main() {
	configPath := flag.String("config", "config.yaml", "Path to configuration file")
	output := flag.String("output", "", "Output spreadsheet file (overrides config)")
	verbose := flag.Bool("verbose", false, "Enable debug logging")
	flag.Parse()

	logger := newLogger(*verbose)

	cfg := loadConfig(*configPath, logger)
	if *output != "" {
		cfg.Output = *output
	}

	notifier := newNotifier(cfg, logger)

	summary, err := run(cfg, logger)
	if err != nil {
		if notifier != nil {
			if nerr := notifier.Notify(notify.FailureMessage(err)); nerr != nil {
				logger.Warn("Failed to send failure notification", "err", nerr)
			}
		}
		logger.Fatal("Scraping failed", "err", err)
	}

	if notifier != nil {
		if err := notifier.Notify(notify.SummaryMessage(summary, cfg.Output)); err != nil {
			logger.Warn("Failed to send summary notification", "err", err)
		}
	}
}

// newLogger builds the process-wide logger handed to every component
func newLogger(verbose bool) *log.Logger {
	level := log.InfoLevel
	if verbose {
		level = log.DebugLevel
	}
	return log.NewWithOptions(os.Stderr, log.Options{
		ReportTimestamp: true,
		TimeFormat:      time.DateTime,
		Level:           level,
	})
}

// loadConfig loads configuration from file or returns defaults
func loadConfig(configPath string, logger *log.Logger) *config.Config {
	cfg, err := config.LoadConfig(configPath)
	switch {
	case err == nil:
		logger.Info("Loaded configuration", "path", configPath, "brands", len(cfg.BrandURLs))
	case errors.Is(err, fs.ErrNotExist):
		logger.Debug("Config file not found, using default configuration", "path", configPath)
		cfg = config.GetDefaultConfig()
	default:
		logger.Warn("Failed to load config file, using defaults", "path", configPath, "err", err)
		cfg = config.GetDefaultConfig()
	}
	return cfg
}

// run wires the pipeline from the configuration and crawls every brand
func run(cfg *config.Config, logger *log.Logger) (scraper.Summary, error) {
	var f fetcher.Fetcher
	switch cfg.Fetcher {
	case config.FetcherBrowser:
		rodFetcher, err := fetcher.NewRodFetcher(cfg.RequestTimeout, logger)
		if err != nil {
			return scraper.Summary{}, err
		}
		defer func() {
			if err := rodFetcher.Close(); err != nil {
				logger.Warn("Failed to close browser", "err", err)
			}
		}()
		f = rodFetcher
	default:
		f = fetcher.NewCollyFetcher(cfg.UserAgent, cfg.RequestTimeout, logger)
	}

	p := parser.NewParser()
	walker := scraper.NewWalker(f, p, cfg.MaxPages, logger)
	aggregator := scraper.NewAggregator(f, p, walker, cfg.SiteOrigin, logger)
	output := sheets.NewXLSXWriter(cfg.Output, cfg.SheetName, logger)

	var mirrors []scraper.Writer
	if sheetsWriter := newSheetsWriter(cfg, logger); sheetsWriter != nil {
		mirrors = append(mirrors, sheetsWriter)
	}

	runner := scraper.NewRunner(aggregator, output, logger, mirrors...)
	return runner.Run(cfg.BrandURLs)
}

// newSheetsWriter returns nil when no Google Sheets copy is configured
func newSheetsWriter(cfg *config.Config, logger *log.Logger) *sheets.Writer {
	if cfg.SpreadsheetURL == "" {
		return nil
	}

	spreadsheetID := sheets.ExtractSpreadsheetID(cfg.SpreadsheetURL)
	if spreadsheetID == "" {
		logger.Warn("Could not extract spreadsheet ID from URL", "url", cfg.SpreadsheetURL)
		return nil
	}

	writer, err := sheets.NewWriter(spreadsheetID, cfg.CredentialsPath, logger)
	if err != nil {
		logger.Warn("Failed to initialize Google Sheets writer", "err", err)
		return nil
	}
	return writer
}

// newNotifier returns nil when Telegram reporting is not configured
func newNotifier(cfg *config.Config, logger *log.Logger) *notify.TelegramNotifier {
	if cfg.Telegram.Token == "" || cfg.Telegram.ChatID == 0 {
		return nil
	}

	notifier, err := notify.NewTelegramNotifier(cfg.Telegram.Token, cfg.Telegram.ChatID, logger)
	if err != nil {
		logger.Warn("Failed to initialize Telegram notifier", "err", err)
		return nil
	}
	return notifier
}
