package scraper

import (
	"regexp"
	"strconv"
	"strings"
)

// Bundle-count markers in the order they are tried. The first pattern whose
// captured number lands in the accepted range wins; an out-of-range match
// falls through to the next pattern.
var quantityPatterns = []*regexp.Regexp{
	regexp.MustCompile(`(\d+)개`),
	regexp.MustCompile(`(\d+)입`),
	regexp.MustCompile(`(\d+)팩`),
	regexp.MustCompile(`(\d+)박스`),
	regexp.MustCompile(`(\d+)묶음`),
	regexp.MustCompile(`(\d+)병`),
	regexp.MustCompile(`(\d+)캔`),
	regexp.MustCompile(`(\d+)ea`),
	regexp.MustCompile(`(\d+)p`),
	regexp.MustCompile(`x\s*(\d+)`),
}

// ExtractQuantity infers the bundle size from a free-text product name. Only
// values with 1 < q < 1000 are accepted, which guards against model numbers
// and capacity figures; anything else means a single item. This is a
// heuristic: missing a real bundle is acceptable, returning a non-positive
// quantity is not.
func ExtractQuantity(name string) int {
	lower := strings.ToLower(name)

	for _, re := range quantityPatterns {
		match := re.FindStringSubmatch(lower)
		if match == nil {
			continue
		}
		quantity, err := strconv.Atoi(match[1])
		if err != nil {
			continue
		}
		if quantity > 1 && quantity < 1000 {
			return quantity
		}
	}

	return 1
}
