package news

import (
	"context"
	"errors"
	"runtime"
	"sync"

	"go.uber.org/zap"
	"golang.org/x/sync/errgroup"

	"marketboard/pkg/market"
)

// ErrNoLinks means discovery produced nothing to fetch, so there is no news
// batch at all and the caller should fall back to the snapshot cache.
var ErrNoLinks = errors.New("no article links discovered")

// DefaultChunkSize caps how many extractions are in flight as one flushed
// unit. The value is a tunable, not a contract; it tracks the remote site's
// tolerance for bursts.
const DefaultChunkSize = 8

// Coordinator fans article links out across a bounded worker pool and
// collects the successfully extracted Articles. An individual link failure
// is logged and dropped; it never aborts the batch.
type Coordinator struct {
	extractor *Extractor
	workers   int
	chunkSize int
	logger    *zap.Logger
}

// NewCoordinator sizes the pool to the host's available concurrency when
// workers <= 0 and uses DefaultChunkSize when chunkSize <= 0.
func NewCoordinator(extractor *Extractor, workers, chunkSize int, logger *zap.Logger) *Coordinator {
	if workers <= 0 {
		workers = runtime.NumCPU()
	}
	if chunkSize <= 0 {
		chunkSize = DefaultChunkSize
	}
	return &Coordinator{
		extractor: extractor,
		workers:   workers,
		chunkSize: chunkSize,
		logger:    logger,
	}
}

// FetchAll extracts metadata for every link and returns one Article per
// link that fetched successfully, in arrival order. Result order is not
// related to input order. Returns ErrNoLinks when links is empty.
func (c *Coordinator) FetchAll(ctx context.Context, links []market.ArticleLink) ([]market.Article, error) {
	if len(links) == 0 {
		return nil, ErrNoLinks
	}

	articles := make([]market.Article, 0, len(links))
	var mu sync.Mutex

	for start := 0; start < len(links); start += c.chunkSize {
		end := start + c.chunkSize
		if end > len(links) {
			end = len(links)
		}
		chunk := links[start:end]

		g, gctx := errgroup.WithContext(ctx)
		g.SetLimit(c.workers)
		for _, link := range chunk {
			link := link
			g.Go(func() error {
				article, err := c.extractor.Extract(gctx, link)
				if err != nil {
					c.logger.Warn("article extraction failed",
						zap.String("url", link.URL),
						zap.String("company", string(link.Company)),
						zap.Error(err))
					return nil // drop this link, keep the batch going
				}
				mu.Lock()
				articles = append(articles, article)
				mu.Unlock()
				return nil
			})
		}
		// Workers only ever return nil; Wait is a chunk barrier.
		_ = g.Wait()
	}

	c.logger.Info("news batch assembled",
		zap.Int("links", len(links)),
		zap.Int("articles", len(articles)))
	return articles, nil
}
