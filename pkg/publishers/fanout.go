package publishers

import (
	"context"
	"errors"
	"fmt"

	"github.com/sourcegraph/conc"
)

// Fanout delivers each event to every configured sink.
type Fanout struct {
	publishers []Publisher
}

// NewFanout drops nil entries and keeps the rest in order.
func NewFanout(pubs []Publisher) *Fanout {
	cp := make([]Publisher, 0, len(pubs))
	for _, p := range pubs {
		if p != nil {
			cp = append(cp, p)
		}
	}
	return &Fanout{publishers: cp}
}

// Publish sends evt to all publishers concurrently and waits for every one of
// them. It reports how many accepted the event; failures are joined in
// publisher order.
func (f *Fanout) Publish(ctx context.Context, evt Event) (int, error) {
	if f.Size() == 0 {
		return 0, nil
	}

	results := make([]error, len(f.publishers))
	var wg conc.WaitGroup
	for i, p := range f.publishers {
		wg.Go(func() {
			if err := p.Publish(ctx, evt); err != nil {
				results[i] = fmt.Errorf("%s publisher[%s]: %w", p.Type(), p.ID(), err)
			}
		})
	}
	wg.Wait()

	delivered := 0
	for _, err := range results {
		if err == nil {
			delivered++
		}
	}
	return delivered, errors.Join(results...)
}

// Size returns the number of active publishers.
func (f *Fanout) Size() int {
	if f == nil {
		return 0
	}
	return len(f.publishers)
}

// Close releases publishers that hold client connections.
func (f *Fanout) Close() error {
	if f == nil {
		return nil
	}
	var errs []error
	for _, p := range f.publishers {
		c, ok := p.(closer)
		if !ok {
			continue
		}
		if err := c.Close(); err != nil {
			errs = append(errs, fmt.Errorf("close %s publisher[%s]: %w", p.Type(), p.ID(), err))
		}
	}
	return errors.Join(errs...)
}
