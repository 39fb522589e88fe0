package stocks

import (
	"context"
	"encoding/json"
	"fmt"
	"net/url"

	"github.com/kaptinlin/jsonrepair"
	"go.uber.org/zap"

	"marketboard/pkg/fetch"
	"marketboard/pkg/market"
)

// Provider fetches one symbol's daily OHLCV series over a date window and
// returns it normalized and tagged with the owning company.
type Provider interface {
	Daily(ctx context.Context, company market.Company, symbol string, w market.Window) ([]market.PricePoint, error)
}

// historyResponse is the pandas split-orient table the history endpoint
// serves: a header row plus positional data rows.
type historyResponse struct {
	Columns []string `json:"columns"`
	Data    [][]any  `json:"data"`
}

// HistoryClient pulls daily series from a history endpoint
// (GET <base>/history?symbol=&start=&end=). Column names may embed the
// symbol ("Open_PETR4.SA"); normalization collapses them to the canonical
// schema.
type HistoryClient struct {
	client  *fetch.Client
	baseURL string
	logger  *zap.Logger
}

func NewHistoryClient(client *fetch.Client, baseURL string, logger *zap.Logger) *HistoryClient {
	return &HistoryClient{client: client, baseURL: baseURL, logger: logger}
}

func (h *HistoryClient) Daily(ctx context.Context, company market.Company, symbol string, w market.Window) ([]market.PricePoint, error) {
	q := url.Values{}
	q.Set("symbol", symbol)
	q.Set("start", w.Start.Format("2006-01-02"))
	q.Set("end", w.End.Format("2006-01-02"))

	body, err := h.client.Get(ctx, fmt.Sprintf("%s/history?%s", h.baseURL, q.Encode()))
	if err != nil {
		return nil, err
	}

	var resp historyResponse
	if err := json.Unmarshal(body, &resp); err != nil {
		// Pandas-backed endpoints leak bare NaN tokens into the JSON.
		// Repair and retry once before giving up.
		repaired, repairErr := jsonrepair.JSONRepair(string(body))
		if repairErr != nil {
			return nil, &ParseError{Symbol: symbol, Reason: err.Error()}
		}
		h.logger.Debug("repaired malformed history JSON", zap.String("symbol", symbol))
		if err := json.Unmarshal([]byte(repaired), &resp); err != nil {
			return nil, &ParseError{Symbol: symbol, Reason: err.Error()}
		}
	}

	if len(resp.Columns) == 0 {
		return nil, &ParseError{Symbol: symbol, Reason: "response has no columns"}
	}
	return normalizeRows(company, symbol, resp.Columns, resp.Data, w)
}
