package scraper

import (
	"context"
	"log"
	"regexp"
	"strconv"
	"strings"

	"dealscout/models"
)

var (
	reMetaRating  = regexp.MustCompile(`평점:\s*(\d+\.?\d*)`)
	reMetaReviews = regexp.MustCompile(`리뷰수:\s*(\d+)`)
	reStarRating  = regexp.MustCompile(`(\d+\.?\d+)개`)
	reSalesScore  = regexp.MustCompile(`score(\d+)`)
)

// FetchProductDetails visits at most maxCount products, in current order, and
// fills in rating, review count and seller fields from each detail page. Every
// field is independently best-effort: one field failing never blocks the
// others, one item failing never blocks the rest, and nothing here adds or
// removes records.
func (s *Scraper) FetchProductDetails(ctx context.Context, products []*models.Product, maxCount int) {
	count := len(products)
	if maxCount > 0 && maxCount < count {
		count = maxCount
	}
	if count == 0 {
		return
	}

	log.Printf("Fetching details for top %d products...", count)

	for i, p := range products[:count] {
		if ctx.Err() != nil {
			return
		}

		log.Printf("  %d/%d: %s", i+1, count, truncateRunes(p.Name, 40))
		if err := s.page.Navigate(p.Link); err != nil {
			log.Printf("  detail fetch failed: %v", err)
			continue
		}
		if err := sleepCtx(ctx, s.cfg.DetailSettle); err != nil {
			return
		}

		s.enrich(p)
	}
}

// enrich runs the per-field extractors against the currently loaded detail
// page and stores whatever they produce.
func (s *Scraper) enrich(p *models.Product) {
	if rating, ok := extractRating(s.page); ok {
		p.SetRating(rating)
	}
	if count, ok := extractReviewCount(s.page); ok {
		p.SetReviewCount(count)
	}

	satisfaction, response, sales := extractSellerInfo(s.page)
	if satisfaction != "" {
		p.SellerSatisfaction = models.StringPtr(satisfaction)
	}
	if response != "" {
		p.SellerResponse = models.StringPtr(response)
	}
	if sales != "" {
		p.SellerSales = models.StringPtr(sales)
	}
}

// Each field has an ordered list of extraction strategies; the first one that
// produces a value wins.

var ratingExtractors = []func(Page) (float64, bool){
	ratingFromMeta,
	ratingFromStarElement,
}

func extractRating(page Page) (float64, bool) {
	for _, extract := range ratingExtractors {
		if rating, ok := extract(page); ok && rating >= 0 && rating <= 5 {
			return rating, true
		}
	}
	return 0, false
}

func ratingFromMeta(page Page) (float64, bool) {
	return floatFromPattern(metaDescription(page), reMetaRating)
}

func ratingFromStarElement(page Page) (float64, bool) {
	ok, el, err := page.Has("#prdReviewStar")
	if err != nil || !ok {
		return 0, false
	}
	text, err := el.Text()
	if err != nil {
		return 0, false
	}
	return floatFromPattern(text, reStarRating)
}

var reviewCountExtractors = []func(Page) (int, bool){
	reviewCountFromMeta,
	reviewCountFromElement,
}

func extractReviewCount(page Page) (int, bool) {
	for _, extract := range reviewCountExtractors {
		if count, ok := extract(page); ok && count >= 0 {
			return count, true
		}
	}
	return 0, false
}

func reviewCountFromMeta(page Page) (int, bool) {
	match := reMetaReviews.FindStringSubmatch(metaDescription(page))
	if match == nil {
		return 0, false
	}
	count, err := strconv.Atoi(match[1])
	if err != nil {
		return 0, false
	}
	return count, true
}

func reviewCountFromElement(page Page) (int, bool) {
	ok, el, err := page.Has("strong.text_num")
	if err != nil || !ok {
		return 0, false
	}
	text, err := el.Text()
	if err != nil {
		return 0, false
	}
	clean := strings.ReplaceAll(strings.TrimSpace(text), ",", "")
	count, err := strconv.Atoi(clean)
	if err != nil {
		return 0, false
	}
	return count, true
}

// extractSellerInfo scans the seller info list for known labels and reads the
// value element that follows each one.
func extractSellerInfo(page Page) (satisfaction, response, sales string) {
	labels, err := page.Elements("dl.info_cont dt")
	if err != nil {
		return
	}

	for _, dt := range labels {
		label, err := dt.Text()
		if err != nil {
			continue
		}
		ok, dd, err := dt.HasX("./following-sibling::dd")
		if err != nil || !ok {
			continue
		}

		switch {
		case strings.Contains(label, "판매자만족"):
			if v, err := dd.Text(); err == nil {
				satisfaction = strings.TrimSpace(v)
			}
		case strings.Contains(label, "응답률"):
			if v, err := dd.Text(); err == nil {
				response = strings.TrimSpace(v)
			}
		case strings.Contains(label, "판매량"):
			sales = salesFromValue(dd)
		}
	}
	return
}

// salesFromValue prefers the graded score marker over the raw value text. The
// grade is encoded in a class name like "score4" and rendered as "4/5".
func salesFromValue(dd Element) string {
	if ok, em, err := dd.Has("em[class*='score']"); err == nil && ok {
		if class, err := em.Attribute("class"); err == nil && class != nil {
			if match := reSalesScore.FindStringSubmatch(*class); match != nil {
				return match[1] + "/5"
			}
		}
	}
	if v, err := dd.Text(); err == nil {
		return strings.TrimSpace(v)
	}
	return ""
}

func metaDescription(page Page) string {
	ok, el, err := page.Has(`meta[name="description"]`)
	if err != nil || !ok {
		return ""
	}
	content, err := el.Attribute("content")
	if err != nil || content == nil {
		return ""
	}
	return *content
}

func floatFromPattern(text string, re *regexp.Regexp) (float64, bool) {
	match := re.FindStringSubmatch(text)
	if match == nil {
		return 0, false
	}
	value, err := strconv.ParseFloat(match[1], 64)
	if err != nil {
		return 0, false
	}
	return value, true
}

func truncateRunes(s string, n int) string {
	runes := []rune(s)
	if len(runes) <= n {
		return s
	}
	return string(runes[:n])
}
