package app

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"os"
	"path/filepath"
	"sync"
	"testing"
	"time"

	"github.com/samvad-hq/samvad-detector-client/internal/config"
	"github.com/samvad-hq/samvad-detector-client/pkg/publishers"
)

func writeFile(t *testing.T, dir, name, content string) string {
	t.Helper()
	path := filepath.Join(dir, name)
	if err := os.WriteFile(path, []byte(content), 0o644); err != nil {
		t.Fatalf("write %s: %v", name, err)
	}
	return path
}

func TestRelayRunOncePublishesAnalysis(t *testing.T) {
	backend := http.NewServeMux()
	backend.HandleFunc("/api/predict", func(w http.ResponseWriter, _ *http.Request) {
		_, _ = w.Write([]byte(`{"prediction_result":{"label":"fake","score":0.8}}`))
	})
	backend.HandleFunc("/api/highlight", func(w http.ResponseWriter, _ *http.Request) {
		_, _ = w.Write([]byte(`{"highlights":[{"token":"Moon","score":0.4,"score_normalized":1}]}`))
	})
	api := httptest.NewServer(backend)
	defer api.Close()

	var (
		mu     sync.Mutex
		events []publishers.Event
	)
	sink := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		var evt publishers.Event
		if err := json.NewDecoder(r.Body).Decode(&evt); err != nil {
			t.Errorf("decode event: %v", err)
		}
		mu.Lock()
		events = append(events, evt)
		mu.Unlock()
		w.WriteHeader(http.StatusAccepted)
	}))
	defer sink.Close()

	dir := t.TempDir()
	cfg := &config.Config{
		APIURL: api.URL + "/api/",
		SourcesFile: writeFile(t, dir, "sources.yaml", `
sources:
  - id: inline
    type: text
    text: "The Moon is made of cheese"
`),
		PublishersFile: writeFile(t, dir, "publishers.yaml", `
publishers:
  - id: sink
    type: http
    http:
      url: `+sink.URL+`
`),
		RelayInterval:          time.Minute,
		StorageType:            "bbolt",
		BBoltPath:              filepath.Join(dir, "analyzed.db"),
		StorageTTL:             time.Hour,
		StorageCleanupInterval: time.Hour,
	}

	r, err := NewRelay(context.Background(), cfg, nil)
	if err != nil {
		t.Fatalf("NewRelay: %v", err)
	}
	defer r.closeStore()

	srcs := r.sourceReg.All()
	if err := r.runOnce(context.Background(), srcs); err != nil {
		t.Fatalf("runOnce: %v", err)
	}
	// The second pass sees the article as already analyzed.
	if err := r.runOnce(context.Background(), srcs); err != nil {
		t.Fatalf("second runOnce: %v", err)
	}

	mu.Lock()
	defer mu.Unlock()
	if len(events) != 1 {
		t.Fatalf("expected 1 event, got %d", len(events))
	}
	evt := events[0]
	if evt.SourceID != "inline" || evt.Article.Text != "The Moon is made of cheese" {
		t.Fatalf("unexpected event %+v", evt)
	}
	if string(evt.Analysis.Prediction) != `{"prediction_result":{"label":"fake","score":0.8}}` {
		t.Fatalf("prediction not relayed verbatim: %s", evt.Analysis.Prediction)
	}
}

func TestNewRelayRequiresPublishers(t *testing.T) {
	dir := t.TempDir()
	cfg := &config.Config{
		APIURL: "http://localhost:8000/api",
		SourcesFile: writeFile(t, dir, "sources.yaml", `
sources:
  - id: inline
    type: text
    text: hello
`),
		PublishersFile: writeFile(t, dir, "publishers.yaml", `
publishers:
  - id: off
    type: http
    enabled: false
    http:
      url: https://example.com
`),
		RelayInterval: time.Minute,
	}

	if _, err := NewRelay(context.Background(), cfg, nil); err == nil {
		t.Fatalf("expected error when all publishers are disabled")
	}
}

func TestNewRelayRejectsNilConfig(t *testing.T) {
	if _, err := NewRelay(context.Background(), nil, nil); err == nil {
		t.Fatalf("expected error for nil config")
	}
}
