package publishers

import (
	"time"

	"github.com/google/uuid"
	"github.com/samvad-hq/samvad-detector-client/internal/domain"
	"github.com/samvad-hq/samvad-detector-client/pkg/detector"
)

// Event is the analysis result published downstream for one article.
type Event struct {
	ID         string            `json:"event_id"`
	SourceID   string            `json:"source_id"`
	SourceName string            `json:"source_name"`
	Article    domain.Article    `json:"article"`
	Analysis   detector.Analysis `json:"analysis"`
	AnalyzedAt time.Time         `json:"analyzed_at"`
}

// NewEvent constructs an Event for the given source, article and analysis.
func NewEvent(sourceID, sourceName string, article domain.Article, analysis detector.Analysis) Event {
	return Event{
		ID:         uuid.NewString(),
		SourceID:   sourceID,
		SourceName: sourceName,
		Article:    article,
		Analysis:   analysis,
		AnalyzedAt: time.Now().UTC(),
	}
}

// attributes are attached to queue and topic messages for subscriber filtering.
func (e Event) attributes() map[string]string {
	return map[string]string{
		"event_id":   e.ID,
		"source_id":  e.SourceID,
		"article_id": e.Article.ID,
	}
}
