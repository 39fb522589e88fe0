package news

import (
	"bytes"
	"context"
	"fmt"

	"github.com/PuerkitoBio/goquery"
	"go.uber.org/zap"

	"marketboard/pkg/fetch"
	"marketboard/pkg/market"
)

// Extractor pulls a fixed set of metadata fields out of an article page's
// document head.
type Extractor struct {
	client *fetch.Client
	logger *zap.Logger
}

func NewExtractor(client *fetch.Client, logger *zap.Logger) *Extractor {
	return &Extractor{client: client, logger: logger}
}

// Extract fetches the page behind link and reads its head meta tags. A
// missing tag leaves the corresponding field nil; a failed fetch returns the
// *fetch.FetchError and no Article.
func (e *Extractor) Extract(ctx context.Context, link market.ArticleLink) (market.Article, error) {
	body, err := e.client.Get(ctx, link.URL)
	if err != nil {
		return market.Article{}, err
	}

	doc, err := goquery.NewDocumentFromReader(bytes.NewReader(body))
	if err != nil {
		return market.Article{}, fmt.Errorf("parse %s: %w", link.URL, err)
	}
	head := doc.Find("head")

	var tags []string
	head.Find(`meta[property="article:tag"]`).Each(func(i int, s *goquery.Selection) {
		if content, ok := s.Attr("content"); ok {
			tags = append(tags, content)
		}
	})

	return market.Article{
		Company:       link.Company,
		URL:           link.URL,
		Title:         metaContent(head, "property", "og:title"),
		Author:        metaContent(head, "name", "twitter:data1"),
		Section:       metaContent(head, "property", "article:section"),
		Tags:          tags,
		PublishedTime: metaContent(head, "property", "article:published_time"),
		Description:   metaContent(head, "name", "twitter:description"),
		LectureTime:   metaContent(head, "name", "twitter:data2"),
	}, nil
}

// metaContent looks up a single head meta tag by attribute name and value
// and returns its content, or nil when the tag is absent or empty.
func metaContent(head *goquery.Selection, attr, value string) *string {
	sel := head.Find(fmt.Sprintf(`meta[%s="%s"]`, attr, value)).First()
	content, ok := sel.Attr("content")
	if !ok || content == "" {
		return nil
	}
	return &content
}
