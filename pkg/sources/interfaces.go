package sources

import (
	"context"

	"github.com/samvad-hq/samvad-detector-client/internal/domain"
	"github.com/samvad-hq/samvad-detector-client/pkg/httpclient"
)

// Fetcher resolves the articles a source currently offers. Articles may come
// back without Text; the relay extracts it from URL before analysis.
type Fetcher interface {
	Type() string
	Fetch(ctx context.Context, src Source) ([]domain.Article, error)
}

// FetcherRegistry resolves the fetcher implementation for a given source.
type FetcherRegistry interface {
	FetcherFor(src Source) (Fetcher, error)
}

// HTTPClient aliases the shared httpclient.Client interface for clarity within sources.
type HTTPClient = httpclient.Client
