package scraper

import (
	"fmt"
	"log"
	"time"

	"github.com/go-rod/rod"
	"github.com/go-rod/rod/lib/launcher"
	"github.com/go-rod/rod/lib/proto"

	"dealscout/config"
)

// Element is one rendered DOM element handle. Lookups that find nothing
// report ok=false or an error; callers treat both as "field absent".
type Element interface {
	Text() (string, error)
	Attribute(name string) (*string, error)
	Has(selector string) (bool, Element, error)
	HasX(xpath string) (bool, Element, error)
}

// Page is the narrow rendered-page capability the pipeline consumes: fetch a
// page, load more content by scrolling, and query elements. One Page maps to
// one exclusive browser tab; calls must stay on a single goroutine.
type Page interface {
	Navigate(url string) error
	ScrollToBottom(settle time.Duration) (float64, error)
	Elements(selector string) ([]Element, error)
	Has(selector string) (bool, Element, error)
	HasX(xpath string) (bool, Element, error)
}

// Session owns the browser process and a single page, and implements Page on
// top of rod. Construction failure is fatal to the run; Close must always be
// called, success or failure.
type Session struct {
	browser *rod.Browser
	page    *rod.Page
}

// NewSession launches the browser described by cfg and opens a blank page.
func NewSession(cfg *config.BrowserConfig) (*Session, error) {
	l := launcher.New().
		Headless(cfg.Headless).
		NoSandbox(true).
		Leakless(false)

	if cfg.Environment == config.EnvironmentManaged {
		l = l.Bin(cfg.BinaryPath)
		log.Printf("Using system browser at %s", cfg.BinaryPath)
	} else {
		log.Printf("Using auto-detected browser (local environment)")
	}

	controlURL, err := l.Launch()
	if err != nil {
		return nil, fmt.Errorf("failed to launch browser: %w", err)
	}

	browser := rod.New().ControlURL(controlURL)
	if err := browser.Connect(); err != nil {
		return nil, fmt.Errorf("failed to connect to browser: %w", err)
	}

	page, err := browser.Page(proto.TargetCreateTarget{})
	if err != nil {
		_ = browser.Close()
		return nil, fmt.Errorf("failed to open page: %w", err)
	}

	if err := page.SetUserAgent(&proto.NetworkSetUserAgentOverride{UserAgent: cfg.UserAgent}); err != nil {
		log.Printf("Warning: could not set user agent: %v", err)
	}
	if err := page.SetViewport(&proto.EmulationSetDeviceMetricsOverride{
		Width:             cfg.WindowW,
		Height:            cfg.WindowH,
		DeviceScaleFactor: 1,
	}); err != nil {
		log.Printf("Warning: could not set viewport: %v", err)
	}

	return &Session{browser: browser, page: page}, nil
}

// Close releases the page and the browser process.
func (s *Session) Close() {
	if s.page != nil {
		_ = s.page.Close()
	}
	if s.browser != nil {
		if err := s.browser.Close(); err != nil {
			log.Printf("Warning: browser close failed: %v", err)
		}
	}
}

// Navigate loads a URL and blocks until the load event fires. Rendering may
// still be in flight afterwards; callers add their own settle delay.
func (s *Session) Navigate(url string) error {
	if err := s.page.Navigate(url); err != nil {
		return fmt.Errorf("navigate %s: %w", url, err)
	}
	if err := s.page.WaitLoad(); err != nil {
		return fmt.Errorf("wait load %s: %w", url, err)
	}
	return nil
}

// ScrollToBottom scrolls to the page bottom, waits the settle delay for
// lazily loaded content, and returns the new scroll height.
func (s *Session) ScrollToBottom(settle time.Duration) (float64, error) {
	if _, err := s.page.Eval(`window.scrollTo(0, document.body.scrollHeight)`); err != nil {
		return 0, err
	}
	time.Sleep(settle)

	res, err := s.page.Eval(`document.body.scrollHeight`)
	if err != nil {
		return 0, err
	}
	return res.Value.Num(), nil
}

// Elements returns all current matches for a CSS selector without waiting.
func (s *Session) Elements(selector string) ([]Element, error) {
	els, err := s.page.Elements(selector)
	if err != nil {
		return nil, err
	}
	wrapped := make([]Element, len(els))
	for i, el := range els {
		wrapped[i] = rodElement{el}
	}
	return wrapped, nil
}

// Has checks for a CSS selector match without waiting for it to appear.
func (s *Session) Has(selector string) (bool, Element, error) {
	ok, el, err := s.page.Has(selector)
	if err != nil || !ok {
		return false, nil, err
	}
	return true, rodElement{el}, nil
}

// HasX checks for an XPath match without waiting for it to appear.
func (s *Session) HasX(xpath string) (bool, Element, error) {
	ok, el, err := s.page.HasX(xpath)
	if err != nil || !ok {
		return false, nil, err
	}
	return true, rodElement{el}, nil
}

// rodElement adapts *rod.Element to the Element interface.
type rodElement struct {
	el *rod.Element
}

func (e rodElement) Text() (string, error) {
	return e.el.Text()
}

func (e rodElement) Attribute(name string) (*string, error) {
	return e.el.Attribute(name)
}

func (e rodElement) Has(selector string) (bool, Element, error) {
	ok, el, err := e.el.Has(selector)
	if err != nil || !ok {
		return false, nil, err
	}
	return true, rodElement{el}, nil
}

func (e rodElement) HasX(xpath string) (bool, Element, error) {
	ok, el, err := e.el.HasX(xpath)
	if err != nil || !ok {
		return false, nil, err
	}
	return true, rodElement{el}, nil
}
