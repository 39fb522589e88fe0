package stocks

import (
	"context"
	"fmt"
	"time"

	"github.com/alpacahq/alpaca-trade-api-go/v3/marketdata"
	"github.com/shopspring/decimal"
	"go.uber.org/zap"

	"marketboard/pkg/market"
)

// AlpacaProvider serves daily bars through the Alpaca market-data SDK.
// An alternate Provider for deployments with Alpaca credentials; symbols
// must be in Alpaca's namespace rather than the .SA-suffixed one.
type AlpacaProvider struct {
	client *marketdata.Client
	logger *zap.Logger
}

func NewAlpacaProvider(apiKey, apiSecret string, logger *zap.Logger) *AlpacaProvider {
	return &AlpacaProvider{
		client: marketdata.NewClient(marketdata.ClientOpts{
			APIKey:    apiKey,
			APISecret: apiSecret,
		}),
		logger: logger,
	}
}

func (a *AlpacaProvider) Daily(ctx context.Context, company market.Company, symbol string, w market.Window) ([]market.PricePoint, error) {
	bars, err := a.client.GetBars(symbol, marketdata.GetBarsRequest{
		TimeFrame: marketdata.OneDay,
		Start:     w.Start,
		End:       w.End,
	})
	if err != nil {
		return nil, fmt.Errorf("alpaca bars for %s: %w", symbol, err)
	}

	points := make([]market.PricePoint, 0, len(bars))
	for _, b := range bars {
		date := b.Timestamp.UTC().Truncate(24 * time.Hour)
		if !w.Contains(date) {
			continue
		}
		points = append(points, market.PricePoint{
			Company: company,
			Date:    date,
			Open:    decimal.NewFromFloat(b.Open),
			High:    decimal.NewFromFloat(b.High),
			Low:     decimal.NewFromFloat(b.Low),
			Close:   decimal.NewFromFloat(b.Close),
			Volume:  int64(b.Volume),
		})
	}
	return points, nil
}
