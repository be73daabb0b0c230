package scraper

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestExtractQuantity(t *testing.T) {
	tests := []struct {
		name     string
		expected int
	}{
		{"유기농 세제 4개입", 4},
		{"생수 500ml 24병", 24},
		{"물티슈 10팩", 10},
		{"라면 5입", 5},
		{"음료 2박스", 2},
		{"휴지 3묶음", 3},
		{"참치캔 6캔", 6},
		{"마스크 50EA", 50},
		{"양말 12P", 12},
		{"칫솔 x 8", 8},
		{"칫솔 X4", 4},
		{"그냥 상품명", 1},
		{"", 1},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.expected, ExtractQuantity(tt.name))
		})
	}
}

func TestExtractQuantityRejectsOutOfRange(t *testing.T) {
	// 1 and huge counts read like model numbers, not bundles.
	assert.Equal(t, 1, ExtractQuantity("프리미엄 1개"))
	assert.Equal(t, 1, ExtractQuantity("전구 1000개"))
	assert.Equal(t, 1, ExtractQuantity("부품 5000p"))
}

func TestExtractQuantityFallsThroughPatterns(t *testing.T) {
	// The 개 match (1) is out of range, so the 팩 match is used instead.
	assert.Equal(t, 3, ExtractQuantity("세척 1개월분 물티슈 3팩"))
}
