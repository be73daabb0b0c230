package format

import (
	"strconv"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"dealscout/models"
)

func TestSortText(t *testing.T) {
	assert.Equal(t, "총 가격 낮은 순", SortText(false, true))
	assert.Equal(t, "총 가격 높은 순", SortText(false, false))
	assert.Equal(t, "개당 가격 낮은 순", SortText(true, true))
	assert.Equal(t, "개당 가격 높은 순", SortText(true, false))
}

func TestProductBlockSingleItem(t *testing.T) {
	f := NewFormatter()
	p := &models.Product{
		Name:     "유기농 세제",
		Price:    12000,
		Quantity: 1,
		Delivery: "무료배송",
		Link:     "https://example.com/p/1",
	}

	block := f.ProductBlock(p, 1)
	assert.Contains(t, block, "1. 유기농 세제...")
	assert.Contains(t, block, "💰 12,000원")
	assert.NotContains(t, block, "개당")
	assert.Contains(t, block, "🚚 배송: 무료배송")
	assert.NotContains(t, block, "🔴광고")
	assert.Contains(t, block, "🔗 https://example.com/p/1")
}

func TestProductBlockBundle(t *testing.T) {
	f := NewFormatter()
	p := &models.Product{
		Name:     "유기농 세제 4개입",
		Price:    12000,
		Quantity: 4,
		Delivery: "배송비 확인필요",
		Link:     "https://example.com/p/2",
		IsAd:     true,
	}

	block := f.ProductBlock(p, 3)
	assert.Contains(t, block, "💰 총 12,000원 (개당 약 3,000원 x 4개)")
	assert.Contains(t, block, "🔴광고")
}

func TestProductBlockOptionalFields(t *testing.T) {
	f := NewFormatter()
	p := &models.Product{
		Name:     "상품",
		Price:    1000,
		Quantity: 1,
		Delivery: "무료배송",
		Link:     "https://example.com/p/3",
	}
	p.SetRating(4.5)
	p.SetReviewCount(12345)
	p.SellerSatisfaction = models.StringPtr("매우만족")
	p.SellerResponse = models.StringPtr("98%")
	p.SellerSales = models.StringPtr("4/5")

	block := f.ProductBlock(p, 1)
	assert.Contains(t, block, "⭐ 별점: 4.5 ⭐⭐⭐⭐")
	assert.Contains(t, block, "💬 리뷰: 12,345개")
	assert.Contains(t, block, "👍 판매자 만족: 매우만족")
	assert.Contains(t, block, "⚡ 응답률: 98%")
	assert.Contains(t, block, "📊 판매량: 4/5")
}

func TestProductBlockTruncatesLongNames(t *testing.T) {
	f := NewFormatter()
	p := &models.Product{
		Name:     strings.Repeat("가", 100),
		Price:    1000,
		Quantity: 1,
		Link:     "https://example.com/p/4",
	}

	block := f.ProductBlock(p, 1)
	assert.Contains(t, block, strings.Repeat("가", 70)+"...")
	assert.NotContains(t, block, strings.Repeat("가", 71))
}

func TestChunkBlocksLossless(t *testing.T) {
	blocks := []string{
		strings.Repeat("a", 1500),
		strings.Repeat("b", 1500),
		strings.Repeat("c", 1500),
	}

	chunks := ChunkBlocks(blocks, 4000)
	require.Equal(t, 2, len(chunks))
	for _, chunk := range chunks {
		assert.LessOrEqual(t, len([]rune(chunk)), 4000)
	}
	assert.Equal(t, strings.Join(blocks, ""), strings.Join(chunks, ""))

	// Block boundaries are respected: the third block starts a new chunk.
	assert.Equal(t, 3000, len(chunks[0]))
}

func TestChunkBlocksHardSplitsOversized(t *testing.T) {
	blocks := []string{strings.Repeat("한", 9000)}

	chunks := ChunkBlocks(blocks, 4000)
	require.Equal(t, 3, len(chunks))
	for _, chunk := range chunks {
		assert.LessOrEqual(t, len([]rune(chunk)), 4000)
	}
	assert.Equal(t, blocks[0], strings.Join(chunks, ""))
}

func TestMessagesChunked(t *testing.T) {
	f := NewFormatter()

	var products []*models.Product
	for i := 0; i < 15; i++ {
		products = append(products, &models.Product{
			Name:     "긴 이름의 상품 " + strings.Repeat("상세설명", 30) + strconv.Itoa(i),
			Price:    1000 * (i + 1),
			Quantity: 1,
			Delivery: "무료배송",
			Link:     "https://example.com/p/" + strconv.Itoa(i),
		})
	}

	chunks := f.Messages("🛒 검색 결과", []string{"세제"}, "총 가격 낮은 순", products, 15, 4000)
	require.Greater(t, len(chunks), 1)

	full := strings.Join(chunks, "")
	assert.Contains(t, full, "<b>🛒 검색 결과</b>")
	assert.Contains(t, full, "검색어: 세제")
	assert.Contains(t, full, "정렬: 총 가격 낮은 순")
	for i := range products {
		assert.Contains(t, full, "https://example.com/p/"+strconv.Itoa(i))
	}
	for _, chunk := range chunks {
		assert.LessOrEqual(t, len([]rune(chunk)), 4000)
	}
}

func TestMessagesEmpty(t *testing.T) {
	f := NewFormatter()
	assert.Nil(t, f.Messages("제목", []string{"세제"}, "", nil, 15, 4000))
}

func TestExportRoundTrip(t *testing.T) {
	f := NewFormatter()

	organic := []*models.Product{
		{Name: "일반 상품 4개입", Price: 12000, Quantity: 4, Delivery: "무료배송", Link: "https://example.com/p/1"},
		{Name: "단품 상품", Price: 987654, Quantity: 1, Delivery: "배송비 2,500원", Link: "https://example.com/p/2"},
	}
	ads := []*models.Product{
		{Name: "광고 상품", Price: 500, Quantity: 1, Delivery: "무료배송", Link: "https://example.com/p/3", IsAd: true},
	}

	out := f.Export([]string{"세제", "물티슈"}, "총 가격 낮은 순", organic, ads)

	assert.Contains(t, out, "11번가 검색 결과")
	assert.Contains(t, out, "검색어: 세제, 물티슈")
	assert.Contains(t, out, "총 3개 발견 (일반 2개 + 광고 1개)")
	assert.Contains(t, out, strings.Repeat("=", 70))

	// Full names, not truncated ones.
	assert.Contains(t, out, "1. 일반 상품 4개입\n")
	assert.Contains(t, out, "   총 가격: 12,000원")
	assert.Contains(t, out, "   개당 가격: 약 3,000원 (4개)")
	assert.Contains(t, out, "   가격: 987,654원")
	assert.Contains(t, out, "   [광고]")

	// Name, price and link re-parse from the rendered block to the original
	// values exactly.
	block := out[strings.Index(out, "2. "):]
	lines := strings.Split(block, "\n")
	require.GreaterOrEqual(t, len(lines), 4)

	assert.Equal(t, "단품 상품", strings.TrimPrefix(lines[0], "2. "))

	priceLine := strings.TrimSpace(lines[1])
	priceText := strings.TrimSuffix(strings.TrimPrefix(priceLine, "가격: "), "원")
	reparsed, err := strconv.Atoi(strings.ReplaceAll(priceText, ",", ""))
	require.NoError(t, err)
	assert.Equal(t, 987654, reparsed)

	var link string
	for _, line := range lines {
		if trimmed := strings.TrimSpace(line); strings.HasPrefix(trimmed, "링크: ") {
			link = strings.TrimPrefix(trimmed, "링크: ")
			break
		}
	}
	assert.Equal(t, "https://example.com/p/2", link)
}

func TestNoResults(t *testing.T) {
	msg := NoResults([]string{"세제", "물티슈"})
	assert.Contains(t, msg, "세제, 물티슈")
	assert.Contains(t, msg, "검색 결과가 없습니다")
}
