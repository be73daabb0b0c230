package main

import (
	"context"
	"flag"
	"fmt"
	"log"
	"net/http"
	"os"
	"os/signal"
	"strings"
	"syscall"
	"time"

	"github.com/gorilla/mux"
	"github.com/joho/godotenv"
	"github.com/rs/cors"

	"dealscout/config"
	"dealscout/format"
	"dealscout/handlers"
	"dealscout/middleware"
	"dealscout/models"
	"dealscout/notifier"
	"dealscout/scraper"
	"dealscout/services"
)

func main() {
	// Load environment variables
	if err := godotenv.Load(); err != nil {
		log.Println("No .env file found, using environment variables")
	}

	var (
		keywordsFlag = flag.String("keywords", "", "Comma-separated search keywords")
		maxItems     = flag.Int("max", 0, "Max items per keyword (0 uses the configured default)")
		descending   = flag.Bool("desc", false, "Sort by highest price first")
		byUnit       = flag.Bool("by-unit", false, "Sort by per-unit price instead of total price")
		details      = flag.Bool("details", false, "Fetch detail pages for the top ranked products")
		detailLimit  = flag.Int("detail-limit", 0, "Max detail pages to visit (0 uses the configured default)")
		sendTelegram = flag.Bool("telegram", false, "Send results to Telegram")
		showBrowser  = flag.Bool("show-browser", false, "Run the browser with a visible window")
		outFile      = flag.String("out", "", "Write the full result report to this file")
		serve        = flag.Bool("serve", false, "Run as an HTTP API server instead of a one-shot search")
	)
	flag.Parse()

	if err := run(*keywordsFlag, *maxItems, *descending, *byUnit, *details, *detailLimit,
		*sendTelegram, *showBrowser, *outFile, *serve); err != nil {
		log.Fatalf("Fatal: %v", err)
	}
}

// run owns the session lifecycle so deferred cleanup happens on every exit
// path, including failures.
func run(keywordsFlag string, maxItems int, descending, byUnit, details bool, detailLimit int,
	sendTelegram, showBrowser bool, outFile string, serve bool) error {

	browserCfg := config.LoadBrowserConfig()
	searchCfg := config.LoadSearchConfig()
	telegramCfg := config.LoadTelegramConfig()

	if showBrowser {
		browserCfg.Headless = false
	}

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	session, err := scraper.NewSession(browserCfg)
	if err != nil {
		return fmt.Errorf("failed to start browser session: %w", err)
	}
	defer session.Close()

	sc := scraper.NewScraper(session, searchCfg)
	svc := services.NewSearchService(sc, searchCfg)

	defaults := services.RunOptions{
		MaxItems:    searchCfg.MaxItems,
		Ascending:   true,
		DetailLimit: searchCfg.DetailLimit,
	}

	if serve {
		return runServer(ctx, svc, defaults)
	}

	keywords := splitKeywords(keywordsFlag)
	if len(keywords) == 0 {
		return fmt.Errorf("no keywords given, use -keywords or -serve")
	}

	opts := defaults
	opts.Keywords = keywords
	opts.Ascending = !descending
	opts.ByUnit = byUnit
	opts.FetchDetails = details
	if maxItems > 0 {
		opts.MaxItems = maxItems
	}
	if detailLimit > 0 {
		opts.DetailLimit = detailLimit
	}

	return runOnce(ctx, svc, telegramCfg, opts, sendTelegram, outFile)
}

// runOnce executes a single pipeline pass and delivers the results to the
// terminal, an optional export file and optionally Telegram.
func runOnce(ctx context.Context, svc *services.SearchService, telegramCfg *config.TelegramConfig,
	opts services.RunOptions, sendTelegram bool, outFile string) error {

	results, err := svc.Run(ctx, opts)
	if err != nil && results.Len() == 0 {
		return err
	}
	if err != nil {
		log.Printf("Warning: run interrupted, reporting %d partial results", results.Len())
	}

	printResults(svc, results, opts)

	if outFile != "" && results.Len() > 0 {
		if err := os.WriteFile(outFile, []byte(svc.Export(results, opts)), 0644); err != nil {
			log.Printf("Warning: could not write %s: %v", outFile, err)
		} else {
			log.Printf("Results saved to %s", outFile)
		}
	}

	if sendTelegram {
		tg, err := notifier.NewTelegram(telegramCfg)
		if err != nil {
			log.Printf("Warning: telegram disabled: %v", err)
		} else {
			svc.Notify(ctx, tg, results, opts)
		}
	}

	return nil
}

// printResults writes the top of the ranking to the terminal.
func printResults(svc *services.SearchService, results *models.ResultSet, opts services.RunOptions) {
	rule := strings.Repeat("=", 70)

	if results.Len() == 0 {
		fmt.Println("\n" + rule)
		fmt.Println("No results found.")
		fmt.Println(rule)
		return
	}

	stats := results.Stats()
	fmt.Println("\n" + rule)
	fmt.Printf("총 %d개 제품 발견! (%s)\n", stats.Total, format.SortText(opts.ByUnit, opts.Ascending))
	fmt.Printf("일반 %d개 + 광고 %d개, 무료배송 %d개\n", stats.Organic, stats.Ads, stats.FreeDelivery)
	fmt.Println(rule)

	products := results.Products()
	shown := len(products)
	if shown > 20 {
		shown = 20
	}
	fmtr := svc.Formatter()
	for i, p := range products[:shown] {
		fmt.Print(fmtr.ProductBlock(p, i+1))
		fmt.Println(strings.Repeat("-", 70))
	}
	if results.Len() > shown {
		fmt.Printf("\n(... 외 %d개 상품 더 있음)\n", results.Len()-shown)
	}
}

func splitKeywords(s string) []string {
	var keywords []string
	for _, part := range strings.Split(s, ",") {
		if kw := strings.TrimSpace(part); kw != "" {
			keywords = append(keywords, kw)
		}
	}
	return keywords
}

// runServer exposes the pipeline as an HTTP API until the context ends.
func runServer(ctx context.Context, svc *services.SearchService, defaults services.RunOptions) error {
	h := handlers.NewHandlers(svc, defaults)

	r := mux.NewRouter()
	r.Use(middleware.LoggingMiddleware)
	r.Use(middleware.RateLimitMiddleware(1))

	r.HandleFunc("/health", h.HealthCheck).Methods("GET")

	apiV1 := r.PathPrefix("/api/v1").Subrouter()
	apiV1.HandleFunc("/search", h.Search).Methods("POST")

	allowedOrigins := os.Getenv("ALLOWED_ORIGINS")
	if allowedOrigins == "" {
		allowedOrigins = "http://localhost:3000"
	}
	c := cors.New(cors.Options{
		AllowedOrigins: strings.Split(allowedOrigins, ","),
		AllowedMethods: []string{"GET", "POST", "OPTIONS"},
		AllowedHeaders: []string{"*"},
	})

	port := os.Getenv("PORT")
	if port == "" {
		port = "8080"
	}
	host := os.Getenv("HOST")
	if host == "" {
		host = "0.0.0.0"
	}

	srv := &http.Server{
		Addr:    host + ":" + port,
		Handler: c.Handler(r),
	}

	errCh := make(chan error, 1)
	go func() {
		log.Printf("Server starting on %s", srv.Addr)
		log.Printf("   GET  /health - Health check")
		log.Printf("   POST /api/v1/search - Run a keyword search")
		errCh <- srv.ListenAndServe()
	}()

	select {
	case err := <-errCh:
		return err
	case <-ctx.Done():
		log.Println("Shutting down...")
		shutdownCtx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
		defer cancel()
		return srv.Shutdown(shutdownCtx)
	}
}
