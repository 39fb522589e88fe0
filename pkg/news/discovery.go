package news

import (
	"bytes"
	"context"
	"net/url"

	"github.com/PuerkitoBio/goquery"
	"go.uber.org/zap"

	"marketboard/pkg/fetch"
	"marketboard/pkg/market"
)

// titleSelector matches the heading element braziljournal uses for article
// titles on search-result pages.
const titleSelector = "h2.boxarticle-infos-title"

// SearchTerm maps one search query to the company its results belong to.
// The term may differ lexically from the company key ("petrobras" -> PETR4).
type SearchTerm struct {
	Term    string
	Company market.Company
}

// Discovery finds candidate article links by running each configured search
// term through the news site's search page.
type Discovery struct {
	client    *fetch.Client
	searchURL string
	logger    *zap.Logger
}

func NewDiscovery(client *fetch.Client, searchURL string, logger *zap.Logger) *Discovery {
	return &Discovery{client: client, searchURL: searchURL, logger: logger}
}

// Links fetches the search page for every term sequentially and returns all
// article links found, tagged with the term's company. A term whose request
// or parse fails contributes zero links without aborting the remaining
// terms.
func (d *Discovery) Links(ctx context.Context, terms []SearchTerm) []market.ArticleLink {
	var links []market.ArticleLink
	for _, st := range terms {
		found, err := d.search(ctx, st)
		if err != nil {
			d.logger.Warn("search term failed",
				zap.String("term", st.Term),
				zap.String("company", string(st.Company)),
				zap.Error(err))
			continue
		}
		links = append(links, found...)
	}
	return links
}

func (d *Discovery) search(ctx context.Context, st SearchTerm) ([]market.ArticleLink, error) {
	body, err := d.client.Get(ctx, d.searchURL+url.QueryEscape(st.Term))
	if err != nil {
		return nil, err
	}

	doc, err := goquery.NewDocumentFromReader(bytes.NewReader(body))
	if err != nil {
		return nil, err
	}

	var links []market.ArticleLink
	doc.Find(titleSelector).Each(func(i int, s *goquery.Selection) {
		href, exists := s.Find("a").First().Attr("href")
		if !exists || href == "" {
			return
		}
		links = append(links, market.ArticleLink{Company: st.Company, URL: href})
	})

	d.logger.Info("discovered links",
		zap.String("term", st.Term),
		zap.String("company", string(st.Company)),
		zap.Int("count", len(links)))
	return links, nil
}
