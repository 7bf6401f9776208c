package publishers

import (
	"encoding/json"

	"github.com/samvad-hq/samvad-detector-client/internal/domain"
	"github.com/samvad-hq/samvad-detector-client/pkg/detector"
)

func sampleEvent() Event {
	return NewEvent("source-1", "Source One", domain.Article{ID: "a1", URL: "https://example.com/a1", Text: "claim"}, detector.Analysis{
		Prediction: json.RawMessage(`{"prediction_result":{"label":"fake","score":0.9}}`),
		Highlight:  json.RawMessage(`{"highlights":[]}`),
	})
}
