package publishers

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
)

func TestHTTPPublisherDeliversEventWithHeaders(t *testing.T) {
	evt := sampleEvent()

	var (
		received Event
		header   http.Header
		method   string
	)
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		method = r.Method
		header = r.Header.Clone()
		if err := json.NewDecoder(r.Body).Decode(&received); err != nil {
			t.Errorf("decode body: %v", err)
		}
		w.WriteHeader(http.StatusNoContent)
	}))
	defer srv.Close()

	pub, err := newHTTPPublisher(context.Background(), PublisherConfig{
		ID:   "hook",
		Type: TypeHTTP,
		HTTP: &HTTPPublisherConfig{
			URL:            srv.URL,
			Method:         http.MethodPut,
			Headers:        map[string]string{"Authorization": "Bearer token"},
			TimeoutSeconds: 2,
		},
	}, nil)
	if err != nil {
		t.Fatalf("newHTTPPublisher: %v", err)
	}

	if err := pub.Publish(context.Background(), evt); err != nil {
		t.Fatalf("Publish: %v", err)
	}
	if method != http.MethodPut {
		t.Fatalf("method = %s", method)
	}
	checks := map[string]string{
		"Authorization": "Bearer token",
		"Content-Type":  "application/json",
		"X-Event-ID":    evt.ID,
		"X-Source-ID":   "source-1",
		"X-Article-ID":  "a1",
	}
	for name, want := range checks {
		if got := header.Get(name); got != want {
			t.Fatalf("header %s = %q, want %q", name, got, want)
		}
	}
	if received.ID != evt.ID || string(received.Analysis.Highlight) != `{"highlights":[]}` {
		t.Fatalf("server received unexpected event %#v", received)
	}
}

func TestHTTPPublisherErrorOnNon2xx(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, _ *http.Request) {
		http.Error(w, "queue full", http.StatusServiceUnavailable)
	}))
	defer srv.Close()

	pub, err := newHTTPPublisher(context.Background(), PublisherConfig{
		ID:   "hook",
		Type: TypeHTTP,
		HTTP: &HTTPPublisherConfig{URL: srv.URL, TimeoutSeconds: 1},
	}, nil)
	if err != nil {
		t.Fatalf("newHTTPPublisher: %v", err)
	}

	err = pub.Publish(context.Background(), sampleEvent())
	if err == nil || !strings.Contains(err.Error(), "503") || !strings.Contains(err.Error(), "queue full") {
		t.Fatalf("expected 503 error with body snippet, got %v", err)
	}
}
