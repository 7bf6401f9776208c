package sources

import (
	"context"
	"fmt"
	"strings"
	"sync"
	"time"

	"github.com/samvad-hq/samvad-detector-client/internal/domain"
	"github.com/samvad-hq/samvad-detector-client/pkg/httpclient"
)

// fetcherRegistry implements FetcherRegistry.
type fetcherRegistry struct {
	fetchersByType map[string]Fetcher
	mu             sync.RWMutex
}

// NewFetcherRegistry builds a registry keyed by each fetcher's source type.
func NewFetcherRegistry(fetchers ...Fetcher) FetcherRegistry {
	reg := &fetcherRegistry{
		fetchersByType: make(map[string]Fetcher),
	}
	for _, f := range fetchers {
		reg.register(f)
	}
	return reg
}

func (r *fetcherRegistry) register(f Fetcher) {
	if f == nil {
		return
	}
	key := strings.ToLower(strings.TrimSpace(f.Type()))
	if key == "" {
		return
	}

	r.mu.Lock()
	r.fetchersByType[key] = f
	r.mu.Unlock()
}

// FetcherFor selects the fetcher for the given source type.
func (r *fetcherRegistry) FetcherFor(src Source) (Fetcher, error) {
	if r == nil {
		return nil, fmt.Errorf("fetcher registry is nil")
	}
	if strings.TrimSpace(src.ID) == "" {
		return nil, fmt.Errorf("source id is empty")
	}

	r.mu.RLock()
	defer r.mu.RUnlock()

	if f, ok := r.fetchersByType[strings.ToLower(strings.TrimSpace(src.Type))]; ok {
		return f, nil
	}
	return nil, fmt.Errorf("no fetcher registered for source %q (type %q)", src.ID, src.Type)
}

// DefaultHTTPClient returns the resty client used for source documents.
func DefaultHTTPClient() HTTPClient { return httpclient.NewRestyClient(15 * time.Second) }

// DefaultFetcherRegistry wires up the built-in source types.
func DefaultFetcherRegistry(client HTTPClient) FetcherRegistry {
	if client == nil {
		client = DefaultHTTPClient()
	}
	return NewFetcherRegistry(
		textFetcher{},
		urlFetcher{},
		NewSitemapFetcher(client),
	)
}

// textFetcher serves the inline text of a source as a single article.
type textFetcher struct{}

func (textFetcher) Type() string { return TypeText }

func (textFetcher) Fetch(_ context.Context, src Source) ([]domain.Article, error) {
	if strings.TrimSpace(src.Text) == "" {
		return nil, fmt.Errorf("source %q text is empty", src.ID)
	}
	return []domain.Article{{
		ID:    HashID(src.Text),
		Title: src.Name,
		Text:  src.Text,
	}}, nil
}

// urlFetcher yields the source url as a single article awaiting extraction.
type urlFetcher struct{}

func (urlFetcher) Type() string { return TypeURL }

func (urlFetcher) Fetch(_ context.Context, src Source) ([]domain.Article, error) {
	if strings.TrimSpace(src.URL) == "" {
		return nil, fmt.Errorf("source %q url is empty", src.ID)
	}
	return []domain.Article{{
		ID:  HashID(src.URL),
		URL: src.URL,
	}}, nil
}
