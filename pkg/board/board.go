// Package board owns the two process-wide tables and exposes the read-only
// accessors the presentation layer renders from.
package board

import (
	"sort"

	"marketboard/pkg/market"
)

// MaxHeadlines is how many articles NewsForCompany returns at most.
const MaxHeadlines = 3

// Board is an immutable snapshot of one acquisition run: the news table and
// the stock table, keyed by company. It is built once and never mutated; a
// re-acquisition replaces the whole Board.
type Board struct {
	companies []market.Company
	news      []market.Article
	stocks    []market.PricePoint
}

// New assembles a Board from one batch's tables. Stock rows are ordered by
// ascending date within each company; news rows keep arrival order.
func New(companies []market.Company, news []market.Article, stocks []market.PricePoint) *Board {
	sorted := make([]market.PricePoint, len(stocks))
	copy(sorted, stocks)
	sort.SliceStable(sorted, func(i, j int) bool { return sorted[i].Date.Before(sorted[j].Date) })

	return &Board{
		companies: companies,
		news:      news,
		stocks:    sorted,
	}
}

// Companies returns the configured company set in selector order.
func (b *Board) Companies() []market.Company {
	return b.companies
}

// NewsForCompany returns up to MaxHeadlines articles for the company in
// stored order, or an empty slice when there are none.
func (b *Board) NewsForCompany(c market.Company) []market.Article {
	var out []market.Article
	for _, a := range b.news {
		if a.Company != c {
			continue
		}
		out = append(out, a)
		if len(out) == MaxHeadlines {
			break
		}
	}
	return out
}

// SeriesForCompany returns all price rows for the company ordered by
// ascending date, or an empty slice when there are none.
func (b *Board) SeriesForCompany(c market.Company) []market.PricePoint {
	var out []market.PricePoint
	for _, p := range b.stocks {
		if p.Company == c {
			out = append(out, p)
		}
	}
	return out
}
