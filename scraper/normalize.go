package scraper

import (
	"encoding/json"
	"fmt"
	"html"
	"strconv"
	"strings"
	"unicode/utf8"

	"dealscout/models"
)

// RawItem is one search-result entry before normalization: the HTML-escaped
// JSON payload from the anchor's tracking attribute plus the DOM display name
// when one could be read.
type RawItem struct {
	LogBody     string
	DisplayName string
}

// Normalizer converts raw items into canonical products. Every step is
// fallible per item; a nil return means the item is dropped and the batch
// continues.
type Normalizer struct {
	productURL string
}

// NewNormalizer creates a normalizer that synthesizes product links from the
// given format string (one %s verb for the content identifier).
func NewNormalizer(productURL string) *Normalizer {
	return &Normalizer{productURL: productURL}
}

// Normalize maps one raw item to a Product, or nil when the payload is
// malformed, the content identifier or price is missing, the price is zero,
// or no usable name can be resolved.
func (n *Normalizer) Normalize(raw RawItem) *models.Product {
	if strings.TrimSpace(raw.LogBody) == "" {
		return nil
	}

	var payload map[string]interface{}
	if err := json.Unmarshal([]byte(html.UnescapeString(raw.LogBody)), &payload); err != nil {
		return nil
	}

	contentNo := stringField(payload, "content_no")
	if contentNo == "" {
		return nil
	}

	price, ok := intField(payload, "last_discount_price")
	if !ok || price <= 0 {
		return nil
	}

	snippet, _ := payload["snippet_object"].(map[string]interface{})

	name := strings.TrimSpace(raw.DisplayName)
	if utf8.RuneCountInString(name) < 2 {
		name = stringField(snippet, "advert")
		if name == "" {
			name = stringField(snippet, "11talk")
		}
		if name == "" {
			name = "상품번호 " + contentNo
		}
	}
	if utf8.RuneCountInString(name) < 2 {
		return nil
	}

	delivery := stringField(snippet, "delivery_price")
	if delivery == "" {
		delivery = "배송비 확인필요"
	}

	return &models.Product{
		Name:     name,
		Price:    price,
		Quantity: ExtractQuantity(name),
		Link:     fmt.Sprintf(n.productURL, contentNo),
		Delivery: delivery,
		IsAd:     stringField(payload, "ad_yn") == "Y",
	}
}

// stringField reads a string-ish value from a decoded JSON object. Numeric
// identifiers are rendered without an exponent or fraction.
func stringField(m map[string]interface{}, key string) string {
	if m == nil {
		return ""
	}
	switch v := m[key].(type) {
	case string:
		return strings.TrimSpace(v)
	case float64:
		return strconv.FormatFloat(v, 'f', -1, 64)
	case json.Number:
		return v.String()
	}
	return ""
}

// intField reads an integer that may arrive as a JSON number or a digit
// string, tolerating thousands separators.
func intField(m map[string]interface{}, key string) (int, bool) {
	if m == nil {
		return 0, false
	}
	switch v := m[key].(type) {
	case float64:
		return int(v), true
	case string:
		clean := strings.ReplaceAll(strings.TrimSpace(v), ",", "")
		if clean == "" {
			return 0, false
		}
		if i, err := strconv.Atoi(clean); err == nil {
			return i, true
		}
	case json.Number:
		if i, err := v.Int64(); err == nil {
			return int(i), true
		}
	}
	return 0, false
}
