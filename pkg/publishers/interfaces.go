package publishers

import (
	"context"

	"github.com/samvad-hq/samvad-detector-client/internal/logger"
)

// Publisher sends events to a downstream sink (SQS, SNS, Pub/Sub, HTTP).
type Publisher interface {
	ID() string
	Type() string
	Publish(ctx context.Context, evt Event) error
}

// Logger is the logging surface publishers report delivery through.
type Logger = logger.Logger

// closer is implemented by publishers holding client connections.
type closer interface {
	Close() error
}
