package services

import (
	"context"
	"log"
	"time"

	"dealscout/config"
	"dealscout/format"
	"dealscout/models"
)

// Searcher is the collection side of the pipeline: keyword searches and
// detail-page enrichment over one exclusive browser session.
type Searcher interface {
	SearchProducts(ctx context.Context, keyword string, maxItems int) ([]*models.Product, error)
	FetchProductDetails(ctx context.Context, products []*models.Product, maxCount int)
}

// Notifier delivers chunked result messages. Failures are reported per chunk
// and never abort the run.
type Notifier interface {
	Send(ctx context.Context, text string) bool
	SendChunks(ctx context.Context, chunks []string) int
	ChunkLimit() int
}

// RunOptions selects what one pipeline run collects and how it is ranked.
type RunOptions struct {
	Keywords     []string
	MaxItems     int
	Ascending    bool
	ByUnit       bool
	FetchDetails bool
	DetailLimit  int
}

// SearchService runs the full search pipeline: collect per keyword,
// deduplicate, rank, and optionally enrich the top of the ranking.
type SearchService struct {
	searcher  Searcher
	formatter *format.Formatter
	cfg       *config.SearchConfig
}

// NewSearchService creates the pipeline service over a searcher.
func NewSearchService(searcher Searcher, cfg *config.SearchConfig) *SearchService {
	return &SearchService{
		searcher:  searcher,
		formatter: format.NewFormatter(),
		cfg:       cfg,
	}
}

// Run executes one pipeline pass. A keyword whose search fails contributes an
// empty batch; cancellation returns whatever was accumulated so far together
// with the context error.
func (s *SearchService) Run(ctx context.Context, opts RunOptions) (*models.ResultSet, error) {
	results := models.NewResultSet()

	for i, keyword := range opts.Keywords {
		if err := ctx.Err(); err != nil {
			return results, err
		}

		products, err := s.searcher.SearchProducts(ctx, keyword, opts.MaxItems)
		if err != nil {
			log.Printf("Warning: search for %q failed: %v", keyword, err)
			continue
		}

		added := results.AddBatch(products)
		log.Printf("Keyword %q: %d collected, %d new after dedup", keyword, len(products), added)

		if i < len(opts.Keywords)-1 {
			if err := pause(ctx, s.cfg.KeywordPause); err != nil {
				return results, err
			}
		}
	}

	results.SortByPrice(opts.Ascending, opts.ByUnit)

	if opts.FetchDetails && results.Len() > 0 {
		s.searcher.FetchProductDetails(ctx, results.Products(), opts.DetailLimit)
	}

	return results, nil
}

// Notify sends the ranked results to a notifier: one message set for organic
// products, a separate one for ads, both capped at the top 15. An empty result
// set produces a single no-results message.
func (s *SearchService) Notify(ctx context.Context, notifier Notifier, results *models.ResultSet, opts RunOptions) {
	if results.Len() == 0 {
		notifier.Send(ctx, format.NoResults(opts.Keywords))
		return
	}

	sortDesc := format.SortText(opts.ByUnit, opts.Ascending)
	organic, ads := results.Partition()
	chunkLimit := notifier.ChunkLimit()

	if len(organic) > 0 {
		chunks := s.formatter.Messages(
			"🛒 11번가 검색 결과 (일반 상품)", opts.Keywords, sortDesc,
			organic, 15, chunkLimit)
		sent := notifier.SendChunks(ctx, chunks)
		log.Printf("Telegram: sent %d/%d organic chunks", sent, len(chunks))
	}

	if len(ads) > 0 {
		chunks := s.formatter.Messages(
			"🔴 11번가 검색 결과 (광고 상품)", opts.Keywords, "",
			ads, 15, chunkLimit)
		sent := notifier.SendChunks(ctx, chunks)
		log.Printf("Telegram: sent %d/%d ad chunks", sent, len(chunks))
	}
}

// Export renders the plain-text report for the ranked results.
func (s *SearchService) Export(results *models.ResultSet, opts RunOptions) string {
	organic, ads := results.Partition()
	return s.formatter.Export(opts.Keywords, format.SortText(opts.ByUnit, opts.Ascending), organic, ads)
}

// Formatter exposes the service's formatter for terminal display.
func (s *SearchService) Formatter() *format.Formatter {
	return s.formatter
}

func pause(ctx context.Context, d time.Duration) error {
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
