package relay

import (
	"context"

	"github.com/samvad-hq/samvad-detector-client/internal/domain"
	"github.com/samvad-hq/samvad-detector-client/pkg/detector"
	"github.com/samvad-hq/samvad-detector-client/pkg/publishers"
	"github.com/samvad-hq/samvad-detector-client/pkg/sources"
)

// Analyzer runs the combined prediction and highlight analysis on a text.
type Analyzer interface {
	PredictAndHighlight(ctx context.Context, text string) (*detector.Analysis, error)
}

// TextExtractor fills in article text from the article page. textless lists
// articles whose page loaded but contained no article text.
type TextExtractor interface {
	ExtractAll(ctx context.Context, src sources.Source, articles []domain.Article) (out, textless []domain.Article)
}

// EventPublisher publishes analysis events downstream.
type EventPublisher interface {
	Publish(ctx context.Context, evt publishers.Event) (int, error)
}

// Deduper remembers analyzed article IDs.
type Deduper interface {
	Analyzed(id string) (bool, error)
	MarkAnalyzed(id string) error
}
