package market

import (
	"time"

	"github.com/shopspring/decimal"
)

// Company is the canonical identifier joining news articles and price rows.
// Every article and every price row carries exactly one Company drawn from
// the configured set.
type Company string

// ArticleLink is a discovered article URL tagged with its owning company,
// pending metadata extraction. Links are consumed immediately by the fetch
// coordinator and never persisted.
type ArticleLink struct {
	Company Company
	URL     string
}

// Article holds the metadata extracted from one article page. All fields
// except Company and URL depend on meta tags that may be absent on a given
// page; a nil pointer means the tag was not present.
type Article struct {
	Company       Company
	URL           string
	Title         *string
	Author        *string
	Section       *string
	Tags          []string
	PublishedTime *string
	Description   *string
	LectureTime   *string
}

// PricePoint is one trading day of a company's OHLCV series.
type PricePoint struct {
	Company Company
	Date    time.Time
	Open    decimal.Decimal
	High    decimal.Decimal
	Low     decimal.Decimal
	Close   decimal.Decimal
	Volume  int64
}

// Window is the trailing date range requested from the market-data
// provider, computed once per run.
type Window struct {
	Start time.Time
	End   time.Time
}

// TrailingWindow returns the window ending at now and starting the given
// number of days earlier.
func TrailingWindow(now time.Time, days int) Window {
	return Window{Start: now.AddDate(0, 0, -days), End: now}
}

// Contains reports whether t falls inside the window (inclusive).
func (w Window) Contains(t time.Time) bool {
	return !t.Before(w.Start) && !t.After(w.End)
}

// String returns a pointer to s. Convenience for building Articles with
// optional fields.
func String(s string) *string {
	return &s
}
