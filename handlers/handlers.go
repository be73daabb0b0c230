package handlers

import (
	"encoding/json"
	"log"
	"net/http"
	"sync"
	"time"

	"dealscout/format"
	"dealscout/models"
	"dealscout/services"
)

// SearchRequest is the body of POST /api/v1/search.
type SearchRequest struct {
	Keywords     []string `json:"keywords"`
	MaxItems     int      `json:"max_items,omitempty"`
	Descending   bool     `json:"descending,omitempty"`
	ByUnit       bool     `json:"by_unit,omitempty"`
	FetchDetails bool     `json:"fetch_details,omitempty"`
	MaxDetails   int      `json:"max_details,omitempty"`
}

// SearchResponse is the result of one pipeline run: ranked organic and ad
// products split out, plus aggregate stats.
type SearchResponse struct {
	Keywords []string          `json:"keywords"`
	Sort     string            `json:"sort"`
	Stats    models.Stats      `json:"stats"`
	Products []*models.Product `json:"products"`
	Ads      []*models.Product `json:"ads"`
}

// Handlers serves the HTTP API over one search service. The underlying
// browser session handles one search at a time, so runs are serialized with a
// mutex; concurrent requests queue rather than fail.
type Handlers struct {
	svc      *services.SearchService
	defaults services.RunOptions
	mu       sync.Mutex
}

// NewHandlers creates the API handlers over a search service with defaults
// applied to request fields left unset.
func NewHandlers(svc *services.SearchService, defaults services.RunOptions) *Handlers {
	return &Handlers{svc: svc, defaults: defaults}
}

// HealthCheck returns a simple health check response
func (h *Handlers) HealthCheck(w http.ResponseWriter, r *http.Request) {
	response := map[string]interface{}{
		"status":    "healthy",
		"timestamp": time.Now(),
		"service":   "dealscout",
	}
	writeJSON(w, http.StatusOK, response)
}

// Search runs the full pipeline for the requested keywords and returns the
// ranked result set.
func (h *Handlers) Search(w http.ResponseWriter, r *http.Request) {
	var req SearchRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeError(w, http.StatusBadRequest, "Invalid request body")
		return
	}
	if len(req.Keywords) == 0 {
		writeError(w, http.StatusBadRequest, "At least one keyword is required")
		return
	}

	opts := h.defaults
	opts.Keywords = req.Keywords
	opts.Ascending = !req.Descending
	opts.ByUnit = req.ByUnit
	opts.FetchDetails = req.FetchDetails
	if req.MaxItems > 0 {
		opts.MaxItems = req.MaxItems
	}
	if req.MaxDetails > 0 {
		opts.DetailLimit = req.MaxDetails
	}

	// One browser, one search at a time.
	h.mu.Lock()
	defer h.mu.Unlock()

	results, err := h.svc.Run(r.Context(), opts)
	if err != nil {
		log.Printf("Search run failed: %v", err)
		writeError(w, http.StatusInternalServerError, "Search failed")
		return
	}

	organic, ads := results.Partition()
	if organic == nil {
		organic = []*models.Product{}
	}
	if ads == nil {
		ads = []*models.Product{}
	}

	writeJSON(w, http.StatusOK, SearchResponse{
		Keywords: req.Keywords,
		Sort:     format.SortText(opts.ByUnit, opts.Ascending),
		Stats:    results.Stats(),
		Products: organic,
		Ads:      ads,
	})
}

func writeJSON(w http.ResponseWriter, status int, data interface{}) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	json.NewEncoder(w).Encode(data)
}

func writeError(w http.ResponseWriter, status int, message string) {
	writeJSON(w, status, map[string]string{"error": message})
}
