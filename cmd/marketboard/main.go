package main

import (
	"context"
	"log"
	"time"

	"github.com/joho/godotenv"
	"go.uber.org/zap"

	"marketboard/pkg/board"
	"marketboard/pkg/config"
	"marketboard/pkg/fetch"
	"marketboard/pkg/market"
	"marketboard/pkg/news"
	"marketboard/pkg/snapshot"
	"marketboard/pkg/stocks"
)

func main() {
	if err := godotenv.Load(); err != nil {
		log.Println("Warning: .env file not found")
	}

	logger, err := zap.NewProduction()
	if err != nil {
		log.Fatalf("init logger: %v", err)
	}
	defer logger.Sync()

	cfg := config.Load()
	window := market.TrailingWindow(time.Now(), cfg.WindowDays)

	client := fetch.NewClient(cfg.HTTPTimeout, logger)

	var provider stocks.Provider
	switch {
	case cfg.AlpacaKey != "" && cfg.AlpacaSecret != "":
		logger.Info("using alpaca market data provider")
		provider = stocks.NewAlpacaProvider(cfg.AlpacaKey, cfg.AlpacaSecret, logger)
	case cfg.HistoryURL != "":
		logger.Info("using history endpoint provider", zap.String("url", cfg.HistoryURL))
		provider = stocks.NewHistoryClient(client, cfg.HistoryURL, logger)
	default:
		logger.Fatal("no market data provider configured: set MARKET_HISTORY_URL or Alpaca credentials")
	}

	builder := board.NewBuilder(
		news.NewDiscovery(client, cfg.SearchURL, logger),
		news.NewCoordinator(news.NewExtractor(client, logger), cfg.Workers, cfg.ChunkSize, logger),
		stocks.NewFetcher(provider, logger),
		snapshot.NewStore(cfg.SnapshotDir, logger),
		cfg.CompanyKeys(),
		cfg.SearchTerms(),
		cfg.CompanySymbols(),
		window,
		logger,
	)

	b := builder.Build(context.Background())

	// The dashboard renders from these two accessors; log the same view so
	// a headless run is inspectable.
	for _, company := range b.Companies() {
		headlines := b.NewsForCompany(company)
		series := b.SeriesForCompany(company)

		fields := []zap.Field{
			zap.String("company", string(company)),
			zap.Int("headlines", len(headlines)),
			zap.Int("price_rows", len(series)),
		}
		if len(series) > 0 {
			last := series[len(series)-1]
			fields = append(fields,
				zap.String("last_date", last.Date.Format("2006-01-02")),
				zap.String("last_close", last.Close.String()),
			)
		}
		for _, h := range headlines {
			if h.Title != nil {
				fields = append(fields, zap.String("headline", *h.Title))
			}
		}
		logger.Info("company summary", fields...)
	}
}
