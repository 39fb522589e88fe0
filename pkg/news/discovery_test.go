package news

import (
	"context"
	"fmt"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"go.uber.org/zap"

	"marketboard/pkg/fetch"
	"marketboard/pkg/market"
)

const searchPage = `<html><body>
<h2 class="boxarticle-infos-title"><a href="https://news.test/a1">Petrobras anuncia</a></h2>
<h2 class="boxarticle-infos-title"><a href="https://news.test/a2">Petrobras investe</a></h2>
<h2 class="some-other-class"><a href="https://news.test/ignored">Nao e noticia</a></h2>
<h2 class="boxarticle-infos-title"><span>sem link</span></h2>
</body></html>`

func newTestClient(t *testing.T) *fetch.Client {
	t.Helper()
	return fetch.NewClient(5*time.Second, zap.NewNop())
}

func TestDiscoveryLinks(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		switch r.URL.Query().Get("s") {
		case "petrobras":
			fmt.Fprint(w, searchPage)
		case "C&A":
			fmt.Fprint(w, `<html><body><h2 class="boxarticle-infos-title"><a href="https://news.test/cea">CEA</a></h2></body></html>`)
		default:
			fmt.Fprint(w, `<html><body>nothing here</body></html>`)
		}
	}))
	defer server.Close()

	d := NewDiscovery(newTestClient(t), server.URL+"/?s=", zap.NewNop())
	links := d.Links(context.Background(), []SearchTerm{
		{Term: "petrobras", Company: "PETR4"},
		{Term: "C&A", Company: "C&A"},
		{Term: "WEG", Company: "WEG"},
	})

	assert.Equal(t, []market.ArticleLink{
		{Company: "PETR4", URL: "https://news.test/a1"},
		{Company: "PETR4", URL: "https://news.test/a2"},
		{Company: "C&A", URL: "https://news.test/cea"},
	}, links)
}

func TestDiscoveryLinksEncodesTerm(t *testing.T) {
	var gotQuery string
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		gotQuery = r.URL.RawQuery
		fmt.Fprint(w, "<html></html>")
	}))
	defer server.Close()

	d := NewDiscovery(newTestClient(t), server.URL+"/?s=", zap.NewNop())
	d.Links(context.Background(), []SearchTerm{{Term: "C&A", Company: "C&A"}})

	// A literal & in the term must not split the query parameter.
	assert.Equal(t, "s=C%26A", gotQuery)
}

func TestDiscoveryLinksPartialFailure(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if r.URL.Query().Get("s") == "petrobras" {
			http.Error(w, "overloaded", http.StatusServiceUnavailable)
			return
		}
		fmt.Fprint(w, `<html><body><h2 class="boxarticle-infos-title"><a href="https://news.test/weg">WEG</a></h2></body></html>`)
	}))
	defer server.Close()

	d := NewDiscovery(newTestClient(t), server.URL+"/?s=", zap.NewNop())
	links := d.Links(context.Background(), []SearchTerm{
		{Term: "petrobras", Company: "PETR4"},
		{Term: "WEG", Company: "WEG"},
	})

	// The failing term contributes zero links but does not abort discovery.
	assert.Equal(t, []market.ArticleLink{{Company: "WEG", URL: "https://news.test/weg"}}, links)
}
