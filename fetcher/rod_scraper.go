package fetcher

import (
	"fmt"
	"os"
	"strings"
	"time"

	"github.com/PuerkitoBio/goquery"
	"github.com/charmbracelet/log"
	"github.com/go-rod/rod"
	"github.com/go-rod/rod/lib/launcher"
	"github.com/go-rod/rod/lib/proto"
)

// RodFetcher implements the Fetcher interface using rod (headless browser).
// Use it when the catalog table is rendered client-side.
type RodFetcher struct {
	browser *rod.Browser
	timeout time.Duration
	logger  *log.Logger
}

// NewRodFetcher launches a headless browser and connects to it
func NewRodFetcher(timeout time.Duration, logger *log.Logger) (*RodFetcher, error) {
	l := launcher.New().
		Headless(true).
		NoSandbox(true).
		Leakless(false). // Disable leakless to avoid antivirus issues
		Set("disable-dev-shm-usage").
		Set("disable-gpu").
		Set("no-first-run").
		Set("no-default-browser-check").
		Set("disable-extensions").
		Set("mute-audio")

	// Prefer a system Chrome/Chromium over downloading one
	for _, path := range []string{
		"/usr/bin/google-chrome",
		"/usr/bin/google-chrome-stable",
		"/usr/bin/chromium",
		"/usr/bin/chromium-browser",
		"/snap/bin/chromium",
	} {
		if _, err := os.Stat(path); err == nil {
			l = l.Bin(path)
			break
		}
	}

	browserURL, err := l.Launch()
	if err != nil {
		return nil, fmt.Errorf("failed to launch browser: %w", err)
	}

	browser := rod.New().ControlURL(browserURL)
	if err := browser.Connect(); err != nil {
		l.Kill()
		return nil, fmt.Errorf("failed to connect to browser: %w", err)
	}

	return &RodFetcher{
		browser: browser,
		timeout: timeout,
		logger:  logger,
	}, nil
}

// Close closes the browser
func (rf *RodFetcher) Close() error {
	if rf.browser != nil {
		return rf.browser.Close()
	}
	return nil
}

// Fetch implements the Fetcher interface
func (rf *RodFetcher) Fetch(url string) (*goquery.Document, error) {
	page, err := rf.browser.Page(proto.TargetCreateTarget{})
	if err != nil {
		return nil, fmt.Errorf("failed to open page: %w", err)
	}
	defer page.Close()

	if rf.timeout > 0 {
		page = page.Timeout(rf.timeout)
		defer page.CancelTimeout()
	}

	rf.logger.Debug("Fetching page with browser", "url", url)

	// Subscribe before navigating so the main document's response is not missed
	status := 0
	waitDocument := page.EachEvent(func(e *proto.NetworkResponseReceived) bool {
		if e.Type != proto.NetworkResourceTypeDocument {
			return false
		}
		status = e.Response.Status
		return true
	})

	if err := page.Navigate(url); err != nil {
		return nil, fmt.Errorf("failed to navigate to %s: %w", url, err)
	}
	waitDocument()
	if status == 0 {
		rf.logger.Warn("No document response observed, status unchecked", "url", url)
	} else if err := checkStatus(url, status); err != nil {
		return nil, err
	}
	if err := page.WaitLoad(); err != nil {
		return nil, fmt.Errorf("failed to load %s: %w", url, err)
	}
	if err := page.WaitStable(500 * time.Millisecond); err != nil {
		rf.logger.Warn("Page did not stabilize, continuing anyway", "url", url, "err", err)
	}

	html, err := page.HTML()
	if err != nil {
		return nil, fmt.Errorf("failed to get HTML from %s: %w", url, err)
	}

	doc, err := goquery.NewDocumentFromReader(strings.NewReader(html))
	if err != nil {
		return nil, fmt.Errorf("failed to parse HTML from %s: %w", url, err)
	}
	return doc, nil
}
