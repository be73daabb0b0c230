package format

import (
	"fmt"
	"strings"

	"golang.org/x/text/language"
	"golang.org/x/text/message"

	"dealscout/models"
)

const (
	// Display truncation for product names in message blocks. Export files
	// keep full names.
	nameDisplayLimit = 70

	// DefaultChunkLimit is the message size bound used when chunking for
	// Telegram.
	DefaultChunkLimit = 4000
)

// Formatter renders products and result summaries as display text. Prices and
// counts are grouped with thousands separators and always re-parse to the
// original integers when the commas are stripped.
type Formatter struct {
	printer *message.Printer
}

// NewFormatter creates a formatter with Korean number grouping.
func NewFormatter() *Formatter {
	return &Formatter{printer: message.NewPrinter(language.Korean)}
}

// SortText names the active ranking for headers, e.g. "총 가격 낮은 순".
func SortText(byUnit, ascending bool) string {
	key := "총 가격"
	if byUnit {
		key = "개당 가격"
	}
	order := "낮은 순"
	if !ascending {
		order = "높은 순"
	}
	return key + " " + order
}

// ProductBlock renders one product as a multi-line block with a 1-based index.
// Optional fields only appear when present.
func (f *Formatter) ProductBlock(p *models.Product, index int) string {
	var b strings.Builder

	fmt.Fprintf(&b, "\n%d. %s...\n", index, truncateRunes(p.Name, nameDisplayLimit))

	if p.Quantity > 1 {
		fmt.Fprintf(&b, "💰 총 %s원 (개당 약 %s원 x %d개)\n",
			f.groupInt(p.Price), f.groupInt(int(p.UnitPrice())), p.Quantity)
	} else {
		fmt.Fprintf(&b, "💰 %s원\n", f.groupInt(p.Price))
	}

	adMark := ""
	if p.IsAd {
		adMark = "🔴광고"
	}
	fmt.Fprintf(&b, "🚚 배송: %s %s", p.Delivery, adMark)

	if p.HasRating() {
		rating := *p.Rating
		fmt.Fprintf(&b, "\n⭐ 별점: %.1f %s", rating, strings.Repeat("⭐", int(rating)))
	}
	if p.HasReviewCount() {
		fmt.Fprintf(&b, "\n💬 리뷰: %s개", f.groupInt(*p.ReviewCount))
	}
	if p.SellerSatisfaction != nil {
		fmt.Fprintf(&b, "\n👍 판매자 만족: %s", *p.SellerSatisfaction)
	}
	if p.SellerResponse != nil {
		fmt.Fprintf(&b, "\n⚡ 응답률: %s", *p.SellerResponse)
	}
	if p.SellerSales != nil {
		fmt.Fprintf(&b, "\n📊 판매량: %s", *p.SellerSales)
	}

	fmt.Fprintf(&b, "\n🔗 %s\n", p.Link)
	return b.String()
}

// MessageHeader renders the Telegram message title block. The title goes in
// bold HTML; sortDesc may be empty for sections that are not sorted displays.
func (f *Formatter) MessageHeader(title string, keywords []string, sortDesc string, count int) string {
	var b strings.Builder
	fmt.Fprintf(&b, "<b>%s</b>\n", title)
	fmt.Fprintf(&b, "검색어: %s\n", strings.Join(keywords, ", "))
	if sortDesc != "" {
		fmt.Fprintf(&b, "정렬: %s\n", sortDesc)
	}
	fmt.Fprintf(&b, "총 %d개\n", count)
	b.WriteString(strings.Repeat("=", 40) + "\n\n")
	return b.String()
}

// Messages builds a complete chunked Telegram message set: header, then up to
// limit product blocks separated by rule lines, split into chunks of at most
// chunkLimit runes. Chunks break on block boundaries; a single oversized block
// is hard-split. Concatenating the chunks reproduces the full message exactly.
func (f *Formatter) Messages(title string, keywords []string, sortDesc string, products []*models.Product, limit, chunkLimit int) []string {
	if len(products) == 0 {
		return nil
	}
	shown := products
	if limit > 0 && limit < len(shown) {
		shown = shown[:limit]
	}

	blocks := make([]string, 0, len(shown)+1)
	blocks = append(blocks, f.MessageHeader(title, keywords, sortDesc, len(products)))
	for i, p := range shown {
		blocks = append(blocks, f.ProductBlock(p, i+1)+strings.Repeat("-", 40)+"\n")
	}

	return ChunkBlocks(blocks, chunkLimit)
}

// ChunkBlocks packs blocks into chunks of at most limit runes each, flushing
// the current chunk before a block would push it over. Blocks longer than the
// limit on their own are split mid-block.
func ChunkBlocks(blocks []string, limit int) []string {
	if limit <= 0 {
		limit = DefaultChunkLimit
	}

	var chunks []string
	var current strings.Builder
	currentLen := 0

	flush := func() {
		if currentLen > 0 {
			chunks = append(chunks, current.String())
			current.Reset()
			currentLen = 0
		}
	}

	for _, block := range blocks {
		runes := []rune(block)
		if currentLen+len(runes) > limit {
			flush()
		}
		for len(runes) > limit {
			chunks = append(chunks, string(runes[:limit]))
			runes = runes[limit:]
		}
		current.WriteString(string(runes))
		currentLen += len(runes)
	}
	flush()
	return chunks
}

// Export renders the plain-text report written to disk: a titled header, the
// organic section with full product details, and a separate ad section.
// Names are not truncated here.
func (f *Formatter) Export(keywords []string, sortDesc string, organic, ads []*models.Product) string {
	rule := strings.Repeat("=", 70)

	var b strings.Builder
	b.WriteString(rule + "\n")
	b.WriteString("11번가 검색 결과\n")
	b.WriteString(rule + "\n\n")
	fmt.Fprintf(&b, "검색어: %s\n", strings.Join(keywords, ", "))
	fmt.Fprintf(&b, "정렬: %s\n", sortDesc)
	fmt.Fprintf(&b, "총 %d개 발견 (일반 %d개 + 광고 %d개)\n", len(organic)+len(ads), len(organic), len(ads))
	b.WriteString(rule + "\n\n")

	f.writeExportSection(&b, organic)

	if len(ads) > 0 {
		b.WriteString(rule + "\n")
		b.WriteString("광고 상품\n")
		b.WriteString(rule + "\n\n")
		f.writeExportSection(&b, ads)
	}

	return b.String()
}

func (f *Formatter) writeExportSection(b *strings.Builder, products []*models.Product) {
	for i, p := range products {
		fmt.Fprintf(b, "%d. %s\n", i+1, p.Name)
		if p.Quantity > 1 {
			fmt.Fprintf(b, "   총 가격: %s원\n", f.groupInt(p.Price))
			fmt.Fprintf(b, "   개당 가격: 약 %s원 (%d개)\n", f.groupInt(int(p.UnitPrice())), p.Quantity)
		} else {
			fmt.Fprintf(b, "   가격: %s원\n", f.groupInt(p.Price))
		}
		fmt.Fprintf(b, "   배송: %s\n", p.Delivery)
		if p.HasRating() {
			fmt.Fprintf(b, "   별점: %.1f\n", *p.Rating)
		}
		if p.HasReviewCount() {
			fmt.Fprintf(b, "   리뷰: %s개\n", f.groupInt(*p.ReviewCount))
		}
		fmt.Fprintf(b, "   링크: %s\n", p.Link)
		if p.IsAd {
			b.WriteString("   [광고]\n")
		}
		b.WriteString("\n")
	}
}

// NoResults renders the message sent when a run finds nothing.
func NoResults(keywords []string) string {
	return fmt.Sprintf("🔍 '%s' 검색 결과가 없습니다 😢", strings.Join(keywords, ", "))
}

func (f *Formatter) groupInt(n int) string {
	return f.printer.Sprintf("%d", n)
}

func truncateRunes(s string, n int) string {
	runes := []rune(s)
	if len(runes) <= n {
		return s
	}
	return string(runes[:n])
}
