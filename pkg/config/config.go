// Package config carries the fixed company set and the knobs of the
// acquisition pipeline. Defaults match the braziljournal/B3 deployment;
// a .env file (or the environment) overrides them.
package config

import (
	"os"
	"strconv"
	"time"

	"marketboard/pkg/market"
	"marketboard/pkg/news"
	"marketboard/pkg/stocks"
)

// Company binds one configured company to its search term and its
// market-data ticker symbol.
type Company struct {
	Key    market.Company
	Term   string
	Symbol string
}

type Config struct {
	// Companies is the fixed set joining news and stock data, in selector
	// order.
	Companies []Company

	// SearchURL is the news site's search endpoint; the encoded term is
	// appended directly.
	SearchURL string

	// HistoryURL is the market-data provider's base URL for the
	// /history endpoint.
	HistoryURL string

	// Alpaca credentials. When both are set the Alpaca provider is used
	// instead of the history endpoint.
	AlpacaKey    string
	AlpacaSecret string

	// WindowDays is the trailing lookback for stock series requests.
	WindowDays int

	// Workers bounds the metadata-extraction pool; 0 means the host's
	// available concurrency.
	Workers int

	// ChunkSize groups extraction fan-out into flushed units.
	ChunkSize int

	// HTTPTimeout applies to every outbound request.
	HTTPTimeout time.Duration

	// SnapshotDir holds the last-known-good CSV tables.
	SnapshotDir string
}

// Load builds the configuration from defaults plus environment overrides.
// Call godotenv.Load first if a .env file should be honored.
func Load() Config {
	cfg := Config{
		Companies: []Company{
			{Key: "PETR4", Term: "petrobras", Symbol: "PETR4.SA"},
			{Key: "C&A", Term: "C&A", Symbol: "CEAB3.SA"},
			{Key: "WEG", Term: "WEG", Symbol: "WEGE3.SA"},
		},
		SearchURL:    "https://braziljournal.com/?s=",
		HistoryURL:   envOr("MARKET_HISTORY_URL", ""),
		AlpacaKey:    os.Getenv("ALPACA_API_KEY"),
		AlpacaSecret: os.Getenv("ALPACA_SECRET_KEY"),
		WindowDays:   365,
		Workers:      envInt("NEWS_WORKERS", 0),
		ChunkSize:    envInt("NEWS_CHUNK_SIZE", news.DefaultChunkSize),
		HTTPTimeout:  30 * time.Second,
		SnapshotDir:  envOr("SNAPSHOT_DIR", "data"),
	}
	if v := os.Getenv("NEWS_SEARCH_URL"); v != "" {
		cfg.SearchURL = v
	}
	if v := envInt("WINDOW_DAYS", 0); v > 0 {
		cfg.WindowDays = v
	}
	return cfg
}

// SearchTerms returns the discovery input in configured order.
func (c Config) SearchTerms() []news.SearchTerm {
	terms := make([]news.SearchTerm, 0, len(c.Companies))
	for _, company := range c.Companies {
		terms = append(terms, news.SearchTerm{Term: company.Term, Company: company.Key})
	}
	return terms
}

// CompanySymbols returns the stock-fetch input in configured order.
func (c Config) CompanySymbols() []stocks.CompanySymbol {
	symbols := make([]stocks.CompanySymbol, 0, len(c.Companies))
	for _, company := range c.Companies {
		symbols = append(symbols, stocks.CompanySymbol{Company: company.Key, Symbol: company.Symbol})
	}
	return symbols
}

// CompanyKeys returns the configured company identifiers for the selector
// control.
func (c Config) CompanyKeys() []market.Company {
	keys := make([]market.Company, 0, len(c.Companies))
	for _, company := range c.Companies {
		keys = append(keys, company.Key)
	}
	return keys
}

func envOr(key, fallback string) string {
	if v := os.Getenv(key); v != "" {
		return v
	}
	return fallback
}

func envInt(key string, fallback int) int {
	v := os.Getenv(key)
	if v == "" {
		return fallback
	}
	n, err := strconv.Atoi(v)
	if err != nil {
		return fallback
	}
	return n
}
