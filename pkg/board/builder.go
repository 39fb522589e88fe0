package board

import (
	"context"
	"errors"

	"go.uber.org/zap"

	"marketboard/pkg/market"
	"marketboard/pkg/news"
	"marketboard/pkg/snapshot"
	"marketboard/pkg/stocks"
)

// LinkDiscoverer finds candidate article links for the configured terms.
type LinkDiscoverer interface {
	Links(ctx context.Context, terms []news.SearchTerm) []market.ArticleLink
}

// ArticleFetcher turns discovered links into extracted Articles.
type ArticleFetcher interface {
	FetchAll(ctx context.Context, links []market.ArticleLink) ([]market.Article, error)
}

// SeriesFetcher assembles the stock table for the configured symbols.
type SeriesFetcher interface {
	FetchAll(ctx context.Context, symbols []stocks.CompanySymbol, w market.Window) ([]market.PricePoint, error)
}

// Cache is the snapshot store the builder falls back to.
type Cache interface {
	WriteNews([]market.Article) error
	ReadNews() ([]market.Article, error)
	WriteStocks([]market.PricePoint) error
	ReadStocks() ([]market.PricePoint, error)
}

// Builder runs one batch acquisition and produces the Board. A batch-level
// failure on either source degrades to the snapshot cache, then to an empty
// table; Build never fails the process over a data-source outage.
type Builder struct {
	discovery LinkDiscoverer
	fetcher   ArticleFetcher
	series    SeriesFetcher
	cache     Cache

	companies []market.Company
	terms     []news.SearchTerm
	symbols   []stocks.CompanySymbol
	window    market.Window

	logger *zap.Logger
}

func NewBuilder(
	discovery LinkDiscoverer,
	fetcher ArticleFetcher,
	series SeriesFetcher,
	cache Cache,
	companies []market.Company,
	terms []news.SearchTerm,
	symbols []stocks.CompanySymbol,
	window market.Window,
	logger *zap.Logger,
) *Builder {
	return &Builder{
		discovery: discovery,
		fetcher:   fetcher,
		series:    series,
		cache:     cache,
		companies: companies,
		terms:     terms,
		symbols:   symbols,
		window:    window,
		logger:    logger,
	}
}

// Build acquires both tables and returns the assembled Board.
func (b *Builder) Build(ctx context.Context) *Board {
	return New(b.companies, b.buildNews(ctx), b.buildStocks(ctx))
}

func (b *Builder) buildNews(ctx context.Context) []market.Article {
	links := b.discovery.Links(ctx, b.terms)
	articles, err := b.fetcher.FetchAll(ctx, links)
	if err != nil {
		b.logger.Warn("news acquisition failed, trying snapshot", zap.Error(err))
		return b.cachedNews()
	}

	if err := b.cache.WriteNews(articles); err != nil {
		// A broken cache write costs the next fallback, not this batch.
		b.logger.Error("news snapshot write failed", zap.Error(err))
	}
	return articles
}

func (b *Builder) cachedNews() []market.Article {
	articles, err := b.cache.ReadNews()
	if err != nil {
		if !errors.Is(err, snapshot.ErrNoSnapshot) {
			b.logger.Error("news snapshot read failed", zap.Error(err))
		}
		b.logger.Warn("serving empty news table")
		return nil
	}
	b.logger.Info("serving news from snapshot", zap.Int("rows", len(articles)))
	return articles
}

func (b *Builder) buildStocks(ctx context.Context) []market.PricePoint {
	table, err := b.series.FetchAll(ctx, b.symbols, b.window)
	if err != nil {
		b.logger.Warn("stock acquisition failed, trying snapshot", zap.Error(err))
		return b.cachedStocks()
	}

	if err := b.cache.WriteStocks(table); err != nil {
		b.logger.Error("stock snapshot write failed", zap.Error(err))
	}
	return table
}

func (b *Builder) cachedStocks() []market.PricePoint {
	table, err := b.cache.ReadStocks()
	if err != nil {
		if !errors.Is(err, snapshot.ErrNoSnapshot) {
			b.logger.Error("stock snapshot read failed", zap.Error(err))
		}
		b.logger.Warn("serving empty stock table")
		return nil
	}
	b.logger.Info("serving stocks from snapshot", zap.Int("rows", len(table)))
	return table
}
