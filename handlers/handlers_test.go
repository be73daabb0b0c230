package handlers

import (
	"bytes"
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"dealscout/config"
	"dealscout/models"
	"dealscout/services"
)

type stubSearcher struct {
	batches map[string][]*models.Product
}

func (s *stubSearcher) SearchProducts(ctx context.Context, keyword string, maxItems int) ([]*models.Product, error) {
	return s.batches[keyword], nil
}

func (s *stubSearcher) FetchProductDetails(ctx context.Context, products []*models.Product, maxCount int) {
}

func newTestHandlers(batches map[string][]*models.Product) *Handlers {
	svc := services.NewSearchService(&stubSearcher{batches: batches}, &config.SearchConfig{MaxItems: 50})
	return NewHandlers(svc, services.RunOptions{MaxItems: 50, Ascending: true, DetailLimit: 20})
}

func TestHealthCheck(t *testing.T) {
	h := newTestHandlers(nil)

	req := httptest.NewRequest("GET", "/health", nil)
	rec := httptest.NewRecorder()
	h.HealthCheck(rec, req)

	assert.Equal(t, http.StatusOK, rec.Code)

	var body map[string]interface{}
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &body))
	assert.Equal(t, "healthy", body["status"])
}

func TestSearchRequiresKeywords(t *testing.T) {
	h := newTestHandlers(nil)

	req := httptest.NewRequest("POST", "/api/v1/search", bytes.NewBufferString(`{"keywords": []}`))
	rec := httptest.NewRecorder()
	h.Search(rec, req)

	assert.Equal(t, http.StatusBadRequest, rec.Code)
}

func TestSearchRejectsBadBody(t *testing.T) {
	h := newTestHandlers(nil)

	req := httptest.NewRequest("POST", "/api/v1/search", bytes.NewBufferString(`{broken`))
	rec := httptest.NewRecorder()
	h.Search(rec, req)

	assert.Equal(t, http.StatusBadRequest, rec.Code)
}

func TestSearchReturnsRankedResults(t *testing.T) {
	h := newTestHandlers(map[string][]*models.Product{
		"세제": {
			{Name: "비싼 상품", Price: 3000, Quantity: 1, Link: "l1"},
			{Name: "싼 상품", Price: 1000, Quantity: 1, Link: "l2"},
			{Name: "광고 상품", Price: 2000, Quantity: 1, Link: "l3", IsAd: true},
		},
	})

	req := httptest.NewRequest("POST", "/api/v1/search",
		bytes.NewBufferString(`{"keywords": ["세제"]}`))
	rec := httptest.NewRecorder()
	h.Search(rec, req)

	require.Equal(t, http.StatusOK, rec.Code)

	var resp SearchResponse
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &resp))

	assert.Equal(t, []string{"세제"}, resp.Keywords)
	assert.Equal(t, "총 가격 낮은 순", resp.Sort)
	assert.Equal(t, 3, resp.Stats.Total)
	assert.Equal(t, 2, resp.Stats.Organic)
	assert.Equal(t, 1, resp.Stats.Ads)

	require.Equal(t, 2, len(resp.Products))
	assert.Equal(t, "싼 상품", resp.Products[0].Name)
	assert.Equal(t, "비싼 상품", resp.Products[1].Name)
	require.Equal(t, 1, len(resp.Ads))
	assert.Equal(t, "광고 상품", resp.Ads[0].Name)
}

func TestSearchEmptyResultIsValid(t *testing.T) {
	h := newTestHandlers(map[string][]*models.Product{})

	req := httptest.NewRequest("POST", "/api/v1/search",
		bytes.NewBufferString(`{"keywords": ["없는 검색어"]}`))
	rec := httptest.NewRecorder()
	h.Search(rec, req)

	require.Equal(t, http.StatusOK, rec.Code)

	var resp SearchResponse
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &resp))
	assert.Equal(t, 0, resp.Stats.Total)
	assert.NotNil(t, resp.Products)
	assert.NotNil(t, resp.Ads)
}
