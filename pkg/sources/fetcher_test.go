package sources

import (
	"context"
	"errors"
	"net/http"
	"strings"
	"testing"

	"github.com/samvad-hq/samvad-detector-client/pkg/httpclient"
)

// fakeResponse lets us stub the httpclient.Client interface.
type fakeResponse struct {
	body       []byte
	statusCode int
}

func (f fakeResponse) Body() []byte    { return f.body }
func (f fakeResponse) StatusCode() int { return f.statusCode }
func (f fakeResponse) Status() string  { return httpclient.StatusLine(f.statusCode) }

// fakeHTTPClient returns canned responses per URL to avoid network calls.
type fakeHTTPClient struct {
	responses map[string]fakeResponse
	headers   map[string]string
	calls     []string
}

func (f *fakeHTTPClient) Get(_ context.Context, url string, headers map[string]string) (httpclient.Response, error) {
	f.calls = append(f.calls, url)
	f.headers = headers
	resp, ok := f.responses[url]
	if !ok {
		return nil, errors.New("not found")
	}
	return resp, nil
}

func (f *fakeHTTPClient) PostJSON(context.Context, string, []byte) (httpclient.Response, error) {
	return nil, errors.New("unexpected post")
}

const sampleSitemap = `<?xml version="1.0" encoding="UTF-8"?>
<urlset xmlns="http://www.sitemaps.org/schemas/sitemap/0.9"
        xmlns:news="http://www.google.com/schemas/sitemap-news/0.9">
  <url>
    <loc>https://news.example.com/article-1</loc>
    <news:news><news:title>Headline 1</news:title></news:news>
  </url>
  <url>
    <loc>   </loc>
  </url>
  <url>
    <loc>https://news.example.com/article-2</loc>
  </url>
</urlset>`

func TestSitemapFetcherFetch(t *testing.T) {
	client := &fakeHTTPClient{responses: map[string]fakeResponse{
		"https://news.example.com/sitemap.xml": {body: []byte(sampleSitemap), statusCode: http.StatusOK},
	}}

	articles, err := NewSitemapFetcher(client).Fetch(context.Background(), Source{
		ID:     "news",
		Type:   TypeSitemap,
		URL:    "https://news.example.com/sitemap.xml",
		Config: map[string]any{ConfigUserAgentKey: "UA"},
	})
	if err != nil {
		t.Fatalf("Fetch: %v", err)
	}
	if len(articles) != 2 {
		t.Fatalf("expected 2 articles, got %d", len(articles))
	}
	if articles[0].URL != "https://news.example.com/article-1" || articles[0].ID != HashID(articles[0].URL) {
		t.Fatalf("unexpected article %#v", articles[0])
	}
	if client.headers["User-Agent"] != "UA" {
		t.Fatalf("expected User-Agent header, got %#v", client.headers)
	}
}

func TestSitemapFetcherNon200(t *testing.T) {
	client := &fakeHTTPClient{responses: map[string]fakeResponse{
		"https://news.example.com/sitemap.xml": {body: []byte("gone"), statusCode: http.StatusGone},
	}}

	_, err := NewSitemapFetcher(client).Fetch(context.Background(), Source{
		ID:   "news",
		Type: TypeSitemap,
		URL:  "https://news.example.com/sitemap.xml",
	})
	if err == nil || !strings.Contains(err.Error(), "410") {
		t.Fatalf("expected status error, got %v", err)
	}
}

func TestDefaultFetcherRegistryResolvesTypes(t *testing.T) {
	reg := DefaultFetcherRegistry(&fakeHTTPClient{})

	for _, typ := range []string{TypeText, TypeURL, TypeSitemap} {
		f, err := reg.FetcherFor(Source{ID: "s", Type: typ})
		if err != nil {
			t.Fatalf("FetcherFor(%s): %v", typ, err)
		}
		if f.Type() != typ {
			t.Fatalf("FetcherFor(%s) returned %s fetcher", typ, f.Type())
		}
	}

	if _, err := reg.FetcherFor(Source{ID: "s", Type: "rss"}); err == nil {
		t.Fatalf("expected error for unknown type")
	}
}

func TestTextAndURLFetchers(t *testing.T) {
	ctx := context.Background()

	text, err := textFetcher{}.Fetch(ctx, Source{ID: "t", Name: "Sample", Text: "some claim"})
	if err != nil {
		t.Fatalf("text Fetch: %v", err)
	}
	if len(text) != 1 || text[0].Text != "some claim" || text[0].ID != HashID("some claim") {
		t.Fatalf("unexpected text articles %#v", text)
	}

	urls, err := urlFetcher{}.Fetch(ctx, Source{ID: "u", URL: "https://example.com/a"})
	if err != nil {
		t.Fatalf("url Fetch: %v", err)
	}
	if len(urls) != 1 || urls[0].URL != "https://example.com/a" || urls[0].Text != "" {
		t.Fatalf("unexpected url articles %#v", urls)
	}
}
