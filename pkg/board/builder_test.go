package board

import (
	"context"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"

	"marketboard/pkg/market"
	"marketboard/pkg/news"
	"marketboard/pkg/snapshot"
	"marketboard/pkg/stocks"
)

type stubDiscovery struct{ links []market.ArticleLink }

func (s *stubDiscovery) Links(ctx context.Context, terms []news.SearchTerm) []market.ArticleLink {
	return s.links
}

type stubArticles struct {
	articles []market.Article
	err      error
}

func (s *stubArticles) FetchAll(ctx context.Context, links []market.ArticleLink) ([]market.Article, error) {
	return s.articles, s.err
}

type stubSeries struct {
	points []market.PricePoint
	err    error
}

func (s *stubSeries) FetchAll(ctx context.Context, symbols []stocks.CompanySymbol, w market.Window) ([]market.PricePoint, error) {
	return s.points, s.err
}

var testCompanies = []market.Company{"PETR4", "C&A", "WEG"}

func newTestBuilder(t *testing.T, fetcher ArticleFetcher, series SeriesFetcher, cache Cache) *Builder {
	t.Helper()
	if cache == nil {
		cache = snapshot.NewStore(t.TempDir(), zap.NewNop())
	}
	return NewBuilder(
		&stubDiscovery{links: []market.ArticleLink{{Company: "PETR4", URL: "https://news.test/a"}}},
		fetcher,
		series,
		cache,
		testCompanies,
		nil,
		nil,
		market.TrailingWindow(time.Now(), 365),
		zap.NewNop(),
	)
}

func TestBuildSuccessPersistsSnapshot(t *testing.T) {
	store := snapshot.NewStore(t.TempDir(), zap.NewNop())
	articles := []market.Article{
		article("PETR4", "https://news.test/p0"),
		article("C&A", "https://news.test/c0"),
	}
	points := []market.PricePoint{pricePoint("PETR4", "2026-08-20")}

	builder := newTestBuilder(t, &stubArticles{articles: articles}, &stubSeries{points: points}, store)
	b := builder.Build(context.Background())

	assert.Len(t, b.NewsForCompany("PETR4"), 1)
	assert.Len(t, b.SeriesForCompany("PETR4"), 1)

	// Both tables must be on disk for the next run's fallback.
	gotNews, err := store.ReadNews()
	require.NoError(t, err)
	assert.Len(t, gotNews, 2)
	gotStocks, err := store.ReadStocks()
	require.NoError(t, err)
	assert.Len(t, gotStocks, 1)
}

func TestBuildFallsBackToSnapshot(t *testing.T) {
	store := snapshot.NewStore(t.TempDir(), zap.NewNop())
	require.NoError(t, store.WriteNews([]market.Article{article("WEG", "https://news.test/w")}))
	require.NoError(t, store.WriteStocks([]market.PricePoint{pricePoint("WEG", "2026-08-19")}))

	builder := newTestBuilder(t,
		&stubArticles{err: news.ErrNoLinks},
		&stubSeries{err: stocks.ErrEmptyResult},
		store,
	)
	b := builder.Build(context.Background())

	assert.Len(t, b.NewsForCompany("WEG"), 1)
	assert.Len(t, b.SeriesForCompany("WEG"), 1)
}

func TestBuildEmptyWhenNoSnapshot(t *testing.T) {
	builder := newTestBuilder(t,
		&stubArticles{err: news.ErrNoLinks},
		&stubSeries{err: stocks.ErrEmptyResult},
		nil,
	)
	b := builder.Build(context.Background())

	// No crash, no error: every company just renders empty.
	for _, c := range testCompanies {
		assert.Empty(t, b.NewsForCompany(c))
		assert.Empty(t, b.SeriesForCompany(c))
	}
}

func TestBuildMixedCompanyCounts(t *testing.T) {
	// Discovery found 5 petrobras links and 2 C&A links; one petrobras
	// extraction failed, WEG found nothing.
	var articles []market.Article
	for i := 0; i < 4; i++ {
		articles = append(articles, article("PETR4", "https://news.test/p"+string(rune('0'+i))))
	}
	articles = append(articles,
		article("C&A", "https://news.test/c0"),
		article("C&A", "https://news.test/c1"),
	)

	builder := newTestBuilder(t, &stubArticles{articles: articles}, &stubSeries{err: stocks.ErrEmptyResult}, nil)
	b := builder.Build(context.Background())

	assert.Len(t, b.NewsForCompany("PETR4"), 3) // capped view over 4 rows
	assert.Len(t, b.NewsForCompany("C&A"), 2)
	assert.Empty(t, b.NewsForCompany("WEG"))
}
