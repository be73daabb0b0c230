package config

import "time"

// SearchConfig holds the knobs for search-page fetching and detail
// enrichment. Settle delays are fixed sleeps: the marketplace renders results
// asynchronously and offers no readiness signal worth trusting, so we wait a
// fixed amount and bound the scroll loop instead.
type SearchConfig struct {
	SearchURL     string
	ProductURL    string
	MaxItems      int
	MaxScrolls    int
	PageSettle    time.Duration
	ScrollSettle  time.Duration
	DetailSettle  time.Duration
	DetailLimit   int
	ItemSelector  string
	NameSelector  string
	PayloadAttr   string
	KeywordPause  time.Duration
}

// LoadSearchConfig builds a SearchConfig from environment variables with
// defaults matching the 11st search page layout.
func LoadSearchConfig() *SearchConfig {
	return &SearchConfig{
		SearchURL:    getEnv("SEARCH_URL", "https://search.11st.co.kr/Search.tmall?kwd=%s"),
		ProductURL:   getEnv("PRODUCT_URL", "https://www.11st.co.kr/products/%s"),
		MaxItems:     getEnvInt("SEARCH_MAX_ITEMS", 50),
		MaxScrolls:   getEnvInt("SEARCH_MAX_SCROLLS", 10),
		PageSettle:   getEnvDuration("SEARCH_PAGE_SETTLE", 5*time.Second),
		ScrollSettle: getEnvDuration("SEARCH_SCROLL_SETTLE", 2*time.Second),
		DetailSettle: getEnvDuration("DETAIL_PAGE_SETTLE", 2*time.Second),
		DetailLimit:  getEnvInt("DETAIL_LIMIT", 20),
		ItemSelector: getEnv("SEARCH_ITEM_SELECTOR", "a.c-card-item__anchor"),
		NameSelector: getEnv("SEARCH_NAME_SELECTOR", "span.sr-only"),
		PayloadAttr:  getEnv("SEARCH_PAYLOAD_ATTR", "data-log-body"),
		KeywordPause: getEnvDuration("SEARCH_KEYWORD_PAUSE", 1*time.Second),
	}
}
