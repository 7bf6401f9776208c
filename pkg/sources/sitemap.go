package sources

import (
	"context"
	"fmt"
	"strings"

	"github.com/samvad-hq/samvad-detector-client/internal/domain"
)

// sitemapFetcher lists the article urls of a Google News sitemap.
type sitemapFetcher struct {
	client HTTPClient
}

func NewSitemapFetcher(client HTTPClient) Fetcher {
	if client == nil {
		client = DefaultHTTPClient()
	}
	return &sitemapFetcher{client: client}
}

func (f *sitemapFetcher) Type() string {
	return TypeSitemap
}

func (f *sitemapFetcher) Fetch(ctx context.Context, src Source) ([]domain.Article, error) {
	if !strings.EqualFold(src.Type, TypeSitemap) {
		return nil, fmt.Errorf("sitemap fetcher received incompatible source type %q", src.Type)
	}
	if strings.TrimSpace(src.URL) == "" {
		return nil, fmt.Errorf("source %q url is empty", src.ID)
	}

	raw, err := fetchDocument(ctx, f.client, src.URL, src.ID, Headers(src))
	if err != nil {
		return nil, err
	}

	urls, err := parseSitemap(raw)
	if err != nil {
		return nil, fmt.Errorf("decode sitemap: %w", err)
	}
	articles := buildArticlesFromSitemap(urls)
	if len(articles) == 0 {
		return nil, fmt.Errorf("%s sitemap returned no records", src.ID)
	}
	return articles, nil
}
