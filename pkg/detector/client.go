// Package detector talks to the fake-news detection backend. Every call posts
// the text as {"text": ...} to one backend route and hands back the JSON the
// backend produced without interpreting it.
package detector

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"net/url"
	"strings"

	"github.com/samvad-hq/samvad-detector-client/pkg/httpclient"
)

// Endpoint is a backend route segment.
type Endpoint string

const (
	EndpointPredict   Endpoint = "predict"
	EndpointHighlight Endpoint = "highlight"
	EndpointFactCheck Endpoint = "fact-check"
)

// Logger is the diagnostic channel failures are reported to.
type Logger interface {
	ErrorObj(msg, key string, obj interface{})
}

type nopLogger struct{}

func (nopLogger) ErrorObj(string, string, interface{}) {}

// Client calls the detector backend rooted at a fixed base URL.
type Client struct {
	baseURL string
	http    httpclient.Client
	log     Logger
}

// Option customizes a Client.
type Option func(*Client)

// WithHTTPClient replaces the default resty transport.
func WithHTTPClient(c httpclient.Client) Option {
	return func(cl *Client) {
		if c != nil {
			cl.http = c
		}
	}
}

// WithLogger sets the logger failures are written to.
func WithLogger(l Logger) Option {
	return func(cl *Client) {
		if l != nil {
			cl.log = l
		}
	}
}

// New builds a Client for the backend at baseURL.
func New(baseURL string, opts ...Option) (*Client, error) {
	baseURL = strings.TrimRight(strings.TrimSpace(baseURL), "/")
	if baseURL == "" {
		return nil, errors.New("detector base url is empty")
	}
	u, err := url.Parse(baseURL)
	if err != nil {
		return nil, fmt.Errorf("parse detector base url: %w", err)
	}
	if u.Scheme == "" || u.Host == "" {
		return nil, fmt.Errorf("detector base url %q must be absolute", baseURL)
	}

	c := &Client{
		baseURL: baseURL,
		log:     nopLogger{},
	}
	for _, opt := range opts {
		opt(c)
	}
	if c.http == nil {
		c.http = httpclient.NewRestyClient(0)
	}
	return c, nil
}

// BaseURL returns the normalized base URL requests are sent to.
func (c *Client) BaseURL() string { return c.baseURL }

// Call posts text to endpoint and returns the decoded JSON body.
//
// A non-2xx status yields an *HTTPError. Transport and decode errors are
// returned as produced. Each failure is logged once before it is returned.
func (c *Client) Call(ctx context.Context, endpoint Endpoint, text string) (json.RawMessage, error) {
	resp, err := c.post(ctx, endpoint, text)
	if err == nil {
		err = checkStatus(endpoint, resp)
	}
	if err != nil {
		c.logFailure(err)
		return nil, err
	}

	result, err := decode(resp.Body())
	if err != nil {
		c.logFailure(err)
		return nil, err
	}
	return result, nil
}

// Predict calls the predict route.
func (c *Client) Predict(ctx context.Context, text string) (json.RawMessage, error) {
	return c.Call(ctx, EndpointPredict, text)
}

// Highlight calls the highlight route.
func (c *Client) Highlight(ctx context.Context, text string) (json.RawMessage, error) {
	return c.Call(ctx, EndpointHighlight, text)
}

// FactCheck calls the fact-check route.
func (c *Client) FactCheck(ctx context.Context, text string) (json.RawMessage, error) {
	return c.Call(ctx, EndpointFactCheck, text)
}

func (c *Client) post(ctx context.Context, endpoint Endpoint, text string) (httpclient.Response, error) {
	body, err := json.Marshal(textRequest{Text: text})
	if err != nil {
		return nil, err
	}
	return c.http.PostJSON(ctx, c.endpointURL(endpoint), body)
}

func (c *Client) endpointURL(endpoint Endpoint) string {
	return c.baseURL + "/" + string(endpoint)
}

func (c *Client) logFailure(err error) {
	c.log.ErrorObj("detector request failed", "error", err.Error())
}

type textRequest struct {
	Text string `json:"text"`
}

func checkStatus(endpoint Endpoint, resp httpclient.Response) error {
	code := resp.StatusCode()
	if code >= 200 && code < 300 {
		return nil
	}
	return &HTTPError{
		Endpoint:   endpoint,
		StatusCode: code,
		Status:     resp.Status(),
	}
}

// decode validates body as JSON and returns a private copy of it.
func decode(body []byte) (json.RawMessage, error) {
	var raw json.RawMessage
	if err := json.Unmarshal(body, &raw); err != nil {
		return nil, err
	}
	return raw, nil
}
