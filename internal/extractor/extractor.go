package extractor

import (
	"bytes"
	"context"
	"errors"
	"fmt"
	"net/http"
	"strings"
	"time"

	"github.com/PuerkitoBio/goquery"
	"github.com/samvad-hq/samvad-detector-client/internal/domain"
	"github.com/samvad-hq/samvad-detector-client/internal/logger"
	"github.com/samvad-hq/samvad-detector-client/pkg/httpclient"
	"github.com/samvad-hq/samvad-detector-client/pkg/sources"
)

const (
	maxHTMLBodyBytes = 1 << 20 // 1 MiB
	maxSnippetBytes  = 1024
)

// ErrNoText is returned when a page yields no article text.
var ErrNoText = errors.New("no article text found")

// Extractor fetches article pages and pulls out their title and body text.
type Extractor struct {
	client httpclient.Client
	log    logger.Logger
}

// DefaultHTTPClient returns the page client, which refuses bodies larger than
// the HTML limit instead of buffering them.
func DefaultHTTPClient() httpclient.Client {
	return httpclient.NewRestyClient(15 * time.Second).WithResponseBodyLimit(maxHTMLBodyBytes)
}

// New constructs an extractor with the provided HTTP client (or default).
func New(client httpclient.Client, log logger.Logger) *Extractor {
	if client == nil {
		client = DefaultHTTPClient()
	}
	return &Extractor{client: client, log: logger.Ensure(log)}
}

// ExtractAll fills in Text for every article that lacks it, pausing for the
// source's request delay between page fetches. Articles whose page cannot be
// extracted are dropped; those whose page loaded but held no article text are
// also returned in textless. On cancellation it returns what it has so far.
func (e *Extractor) ExtractAll(ctx context.Context, src sources.Source, articles []domain.Article) (out, textless []domain.Article) {
	delay := src.RequestDelay()
	out = make([]domain.Article, 0, len(articles))

	fetched := 0
	for _, art := range articles {
		if strings.TrimSpace(art.Text) != "" {
			out = append(out, art)
			continue
		}

		if fetched > 0 && delay > 0 {
			timer := time.NewTimer(delay)
			select {
			case <-ctx.Done():
				timer.Stop()
				return out, textless
			case <-timer.C:
			}
		}
		select {
		case <-ctx.Done():
			return out, textless
		default:
		}

		fetched++
		extracted, err := e.Extract(ctx, src, art)
		if err != nil {
			e.log.WarnObj("article extraction failed", "extract_error", map[string]any{
				"source_id": src.ID,
				"url":       art.URL,
				"error":     err.Error(),
			})
			if errors.Is(err, ErrNoText) {
				textless = append(textless, art)
			}
			continue
		}
		out = append(out, extracted)
	}

	return out, textless
}

// Extract downloads art.URL and returns art with Title and Text filled in.
func (e *Extractor) Extract(ctx context.Context, src sources.Source, art domain.Article) (domain.Article, error) {
	if strings.TrimSpace(art.URL) == "" {
		return art, fmt.Errorf("article %s has no url", art.ID)
	}

	resp, err := e.client.Get(ctx, art.URL, sources.Headers(src))
	if err != nil {
		return art, fmt.Errorf("http fetch: %w", err)
	}

	if resp.StatusCode() != http.StatusOK {
		snippet := strings.TrimSpace(string(resp.Body()))
		if len(snippet) > maxSnippetBytes {
			snippet = snippet[:maxSnippetBytes]
		}
		return art, fmt.Errorf("status %d body: %s", resp.StatusCode(), snippet)
	}

	// Injected clients may not enforce the limit on their own.
	body := resp.Body()
	if len(body) > maxHTMLBodyBytes {
		body = body[:maxHTMLBodyBytes]
	}

	page, err := parsePage(body)
	if err != nil {
		return art, err
	}
	if page.Text == "" {
		return art, ErrNoText
	}

	updated := art
	if page.Title != "" {
		updated.Title = page.Title
	}
	updated.Text = page.Text
	return updated, nil
}

type pageContent struct {
	Title string
	Text  string
}

func parsePage(body []byte) (pageContent, error) {
	doc, err := goquery.NewDocumentFromReader(bytes.NewReader(body))
	if err != nil {
		return pageContent{}, fmt.Errorf("parse html: %w", err)
	}

	doc.Find("script, style, noscript, nav, header, footer, aside").Remove()

	pc := pageContent{}
	if node := doc.Find(`meta[property="og:title"]`).First(); node.Length() > 0 {
		if val, ok := node.Attr("content"); ok {
			pc.Title = strings.TrimSpace(val)
		}
	}
	if pc.Title == "" {
		pc.Title = strings.TrimSpace(doc.Find("title").First().Text())
	}

	paragraphs := doc.Find("article p")
	if paragraphs.Length() == 0 {
		paragraphs = doc.Find("p")
	}

	parts := make([]string, 0, paragraphs.Length())
	paragraphs.Each(func(_ int, s *goquery.Selection) {
		if text := normalizeSpace(s.Text()); text != "" {
			parts = append(parts, text)
		}
	})
	pc.Text = strings.Join(parts, "\n\n")

	return pc, nil
}

func normalizeSpace(s string) string {
	return strings.Join(strings.Fields(s), " ")
}
