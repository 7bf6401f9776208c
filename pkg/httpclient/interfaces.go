package httpclient

import "context"

// Response is a minimal HTTP response contract.
type Response interface {
	Body() []byte
	StatusCode() int
	// Status is the status line text, e.g. "500 Internal Server Error".
	Status() string
}

// Client abstracts HTTP calls so callers can inject mocks or different transports.
type Client interface {
	Get(ctx context.Context, url string, headers map[string]string) (Response, error)
	PostJSON(ctx context.Context, url string, body []byte) (Response, error)
}
