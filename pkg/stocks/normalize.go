package stocks

import (
	"fmt"
	"sort"
	"strings"
	"time"

	"github.com/shopspring/decimal"

	"marketboard/pkg/market"
)

// ParseError reports a provider response whose shape is not one of the
// known column layouts. Unrecognized shapes fail loudly instead of
// silently producing wrong columns.
type ParseError struct {
	Symbol string
	Reason string
}

func (e *ParseError) Error() string {
	return fmt.Sprintf("parse series for %s: %s", e.Symbol, e.Reason)
}

// canonical column keys in a daily OHLCV table.
const (
	colDate   = "date"
	colOpen   = "open"
	colHigh   = "high"
	colLow    = "low"
	colClose  = "close"
	colVolume = "volume"
)

// columnAliases maps known provider column names (lower-cased) to canonical
// keys. "adj close" is recognized so yfinance-shaped tables pass validation,
// but it is not carried into the output schema.
var columnAliases = map[string]string{
	"date":      colDate,
	"open":      colOpen,
	"high":      colHigh,
	"low":       colLow,
	"close":     colClose,
	"volume":    colVolume,
	"adj close": "",
	"adj_close": "",
}

// mapColumns resolves a provider header row to canonical column indexes.
// Providers that embed the symbol in a two-level name ("Open_PETR4.SA")
// are collapsed to the canonical field as long as the suffix matches the
// requested symbol. A column nobody recognizes, or a missing required
// column, yields a *ParseError.
func mapColumns(columns []string, symbol string) (map[string]int, error) {
	index := make(map[string]int, 6)
	for i, raw := range columns {
		name := strings.ToLower(strings.TrimSpace(raw))
		if suffix := "_" + strings.ToLower(symbol); strings.HasSuffix(name, suffix) {
			name = strings.TrimSuffix(name, suffix)
		}
		canonical, known := columnAliases[name]
		if !known {
			return nil, &ParseError{Symbol: symbol, Reason: fmt.Sprintf("unrecognized column %q", raw)}
		}
		if canonical == "" {
			continue // recognized but unused
		}
		if _, dup := index[canonical]; dup {
			return nil, &ParseError{Symbol: symbol, Reason: fmt.Sprintf("duplicate column %q", raw)}
		}
		index[canonical] = i
	}
	for _, required := range []string{colDate, colOpen, colHigh, colLow, colClose, colVolume} {
		if _, ok := index[required]; !ok {
			return nil, &ParseError{Symbol: symbol, Reason: fmt.Sprintf("missing column %q", required)}
		}
	}
	return index, nil
}

// normalizeRows converts raw provider rows into company-tagged PricePoints,
// dropping rows with null cells (non-trading days are absent, never
// synthesized) and anything outside the trailing window, sorted by strictly
// ascending date.
func normalizeRows(company market.Company, symbol string, columns []string, rows [][]any, w market.Window) ([]market.PricePoint, error) {
	index, err := mapColumns(columns, symbol)
	if err != nil {
		return nil, err
	}

	points := make([]market.PricePoint, 0, len(rows))
	for _, row := range rows {
		if len(row) != len(columns) {
			return nil, &ParseError{Symbol: symbol, Reason: fmt.Sprintf("row has %d cells, header has %d", len(row), len(columns))}
		}

		date, ok := parseDateCell(row[index[colDate]])
		if !ok {
			continue
		}
		open, okO := parsePriceCell(row[index[colOpen]])
		high, okH := parsePriceCell(row[index[colHigh]])
		low, okL := parsePriceCell(row[index[colLow]])
		closing, okC := parsePriceCell(row[index[colClose]])
		volume, okV := parseVolumeCell(row[index[colVolume]])
		if !okO || !okH || !okL || !okC || !okV {
			continue // null/NaN cell, skip the day
		}
		if !w.Contains(date) {
			continue
		}

		points = append(points, market.PricePoint{
			Company: company,
			Date:    date,
			Open:    open,
			High:    high,
			Low:     low,
			Close:   closing,
			Volume:  volume,
		})
	}

	sort.Slice(points, func(i, j int) bool { return points[i].Date.Before(points[j].Date) })

	// Strictly increasing dates: keep the first row per trading day.
	deduped := points[:0]
	for _, p := range points {
		if len(deduped) > 0 && !p.Date.After(deduped[len(deduped)-1].Date) {
			continue
		}
		deduped = append(deduped, p)
	}
	return deduped, nil
}

func parseDateCell(cell any) (time.Time, bool) {
	s, ok := cell.(string)
	if !ok || s == "" {
		return time.Time{}, false
	}
	for _, layout := range []string{"2006-01-02", time.RFC3339} {
		if t, err := time.Parse(layout, s); err == nil {
			return time.Date(t.Year(), t.Month(), t.Day(), 0, 0, 0, 0, time.UTC), true
		}
	}
	return time.Time{}, false
}

func parsePriceCell(cell any) (decimal.Decimal, bool) {
	f, ok := cell.(float64)
	if !ok {
		return decimal.Decimal{}, false
	}
	return decimal.NewFromFloat(f), true
}

func parseVolumeCell(cell any) (int64, bool) {
	f, ok := cell.(float64)
	if !ok {
		return 0, false
	}
	return int64(f), true
}
