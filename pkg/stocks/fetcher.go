package stocks

import (
	"context"
	"errors"

	"go.uber.org/zap"

	"marketboard/pkg/market"
)

// ErrEmptyResult means the whole stock batch produced zero rows; the caller
// should fall back to the snapshot cache.
var ErrEmptyResult = errors.New("stock fetch produced no rows")

// CompanySymbol pairs a company key with its provider ticker symbol
// (PETR4 -> PETR4.SA).
type CompanySymbol struct {
	Company market.Company
	Symbol  string
}

// Fetcher drives the per-company series requests. Companies run
// sequentially on purpose: the provider endpoints are burst-sensitive, and
// sequential iteration throttles naturally.
type Fetcher struct {
	provider Provider
	logger   *zap.Logger
}

func NewFetcher(provider Provider, logger *zap.Logger) *Fetcher {
	return &Fetcher{provider: provider, logger: logger}
}

// FetchAll concatenates every company's normalized series into one table.
// A single company's failure (or an empty series) is logged and skipped;
// only a batch that yields no rows at all returns ErrEmptyResult.
func (f *Fetcher) FetchAll(ctx context.Context, symbols []CompanySymbol, w market.Window) ([]market.PricePoint, error) {
	var table []market.PricePoint
	for _, cs := range symbols {
		points, err := f.provider.Daily(ctx, cs.Company, cs.Symbol, w)
		if err != nil {
			f.logger.Warn("stock series fetch failed",
				zap.String("company", string(cs.Company)),
				zap.String("symbol", cs.Symbol),
				zap.Error(err))
			continue
		}
		if len(points) == 0 {
			f.logger.Info("no rows for symbol", zap.String("symbol", cs.Symbol))
			continue
		}
		table = append(table, points...)
	}
	if len(table) == 0 {
		return nil, ErrEmptyResult
	}
	return table, nil
}
