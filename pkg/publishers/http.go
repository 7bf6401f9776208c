package publishers

import (
	"context"
	"fmt"
	"strings"
	"time"

	"github.com/go-resty/resty/v2"
	"github.com/samvad-hq/samvad-detector-client/internal/logger"
	"github.com/samvad-hq/samvad-detector-client/pkg/httpclient"
)

const maxWebhookSnippet = 512

// webhookHeaders maps event attributes onto request headers so receivers can
// route or dedupe without parsing the body.
var webhookHeaders = map[string]string{
	"event_id":   "X-Event-ID",
	"source_id":  "X-Source-ID",
	"article_id": "X-Article-ID",
}

// httpPublisher delivers analysis events to a webhook as JSON.
type httpPublisher struct {
	id      string
	typ     string
	method  string
	url     string
	headers map[string]string
	client  *resty.Client
	log     Logger
}

func newHTTPPublisher(_ context.Context, cfg PublisherConfig, log Logger) (Publisher, error) {
	if cfg.HTTP == nil {
		return nil, fmt.Errorf("publisher %q missing http configuration", cfg.ID)
	}
	method := cfg.HTTP.Method
	if method == "" {
		method = httpDefaultMethod
	}

	return &httpPublisher{
		id:      cfg.ID,
		typ:     TypeHTTP,
		method:  method,
		url:     cfg.HTTP.URL,
		headers: cfg.HTTP.Headers,
		client:  httpclient.NewRestyHTTPClient(time.Duration(cfg.HTTP.TimeoutSeconds) * time.Second),
		log:     logger.Ensure(log),
	}, nil
}

func (h *httpPublisher) ID() string   { return h.id }
func (h *httpPublisher) Type() string { return h.typ }

// Publish sends evt and treats any non-2xx answer as a failed delivery.
func (h *httpPublisher) Publish(ctx context.Context, evt Event) error {
	req := h.client.R().
		SetContext(ctx).
		SetHeaders(h.headers).
		SetHeader("Content-Type", "application/json").
		SetBody(evt)
	for attr, value := range evt.attributes() {
		if value != "" {
			req.SetHeader(webhookHeaders[attr], value)
		}
	}

	resp, err := req.Execute(h.method, h.url)
	if err != nil {
		return fmt.Errorf("deliver event %s: %w", evt.ID, err)
	}
	if resp.IsError() {
		return fmt.Errorf("webhook answered %s: %s", resp.Status(), webhookSnippet(resp.Body()))
	}

	h.log.DebugObj("webhook delivered event", "publisher_http_delivery", map[string]any{
		"publisher_id": h.id,
		"event_id":     evt.ID,
		"article_id":   evt.Article.ID,
		"status":       resp.StatusCode(),
	})
	return nil
}

func webhookSnippet(body []byte) string {
	s := strings.TrimSpace(string(body))
	if len(s) > maxWebhookSnippet {
		s = s[:maxWebhookSnippet]
	}
	return s
}
