package scraper

import (
	"context"
	"fmt"
	"log"
	"net/url"
	"strings"
	"time"

	"dealscout/config"
	"dealscout/models"
)

// Scraper drives a rendered page through keyword searches and detail-page
// visits. It owns no browser state beyond the Page handle, which is an
// exclusive resource: one fetch at a time, single goroutine.
type Scraper struct {
	page       Page
	cfg        *config.SearchConfig
	normalizer *Normalizer
}

// NewScraper creates a scraper over an open page.
func NewScraper(page Page, cfg *config.SearchConfig) *Scraper {
	return &Scraper{
		page:       page,
		cfg:        cfg,
		normalizer: NewNormalizer(cfg.ProductURL),
	}
}

// SearchProducts fetches the search page for a keyword, scrolls until the
// result list stops growing, and normalizes every item found. Items that fail
// normalization are skipped; maxItems <= 0 means no cap. An error here means
// the whole keyword yielded nothing, which callers treat as an empty batch.
func (s *Scraper) SearchProducts(ctx context.Context, keyword string, maxItems int) ([]*models.Product, error) {
	searchURL := fmt.Sprintf(s.cfg.SearchURL, url.QueryEscape(keyword))

	log.Printf("Searching for %q...", keyword)
	if err := s.page.Navigate(searchURL); err != nil {
		return nil, err
	}
	if err := sleepCtx(ctx, s.cfg.PageSettle); err != nil {
		return nil, err
	}

	if err := s.scrollUntilSettled(ctx); err != nil {
		return nil, err
	}

	anchors, err := s.page.Elements(s.cfg.ItemSelector)
	if err != nil {
		return nil, fmt.Errorf("item lookup failed: %w", err)
	}
	log.Printf("Found %d product links for %q", len(anchors), keyword)

	var products []*models.Product
	for _, anchor := range anchors {
		if maxItems > 0 && len(products) >= maxItems {
			break
		}
		raw, ok := s.rawItem(anchor)
		if !ok {
			continue
		}
		if p := s.normalizer.Normalize(raw); p != nil {
			products = append(products, p)
		}
	}

	log.Printf("Collected %d products for %q", len(products), keyword)
	return products, nil
}

// scrollUntilSettled scrolls to the bottom until the scroll height converges
// or the iteration bound is hit. Lazy-loaded result pages grow on each scroll;
// an unchanged height means there is nothing more to load.
func (s *Scraper) scrollUntilSettled(ctx context.Context) error {
	lastHeight := 0.0

	for i := 0; i < s.cfg.MaxScrolls; i++ {
		if err := ctx.Err(); err != nil {
			return err
		}
		height, err := s.page.ScrollToBottom(s.cfg.ScrollSettle)
		if err != nil {
			return fmt.Errorf("scroll failed: %w", err)
		}
		if height == lastHeight {
			break
		}
		lastHeight = height
	}
	return nil
}

// rawItem reads the embedded payload and display name off one result anchor.
// A missing payload attribute makes the item unusable; a missing name does
// not, the normalizer has fallbacks for it.
func (s *Scraper) rawItem(anchor Element) (RawItem, bool) {
	attr, err := anchor.Attribute(s.cfg.PayloadAttr)
	if err != nil || attr == nil || *attr == "" {
		return RawItem{}, false
	}

	raw := RawItem{LogBody: *attr}
	if ok, nameEl, err := anchor.Has(s.cfg.NameSelector); err == nil && ok {
		if text, err := nameEl.Text(); err == nil {
			raw.DisplayName = strings.TrimSpace(text)
		}
	}
	return raw, true
}

// sleepCtx sleeps for the settle delay unless the context ends first.
func sleepCtx(ctx context.Context, d time.Duration) error {
	if d <= 0 {
		return ctx.Err()
	}
	timer := time.NewTimer(d)
	defer timer.Stop()
	select {
	case <-ctx.Done():
		return ctx.Err()
	case <-timer.C:
		return nil
	}
}
