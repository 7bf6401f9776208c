package detector

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"

	"github.com/samvad-hq/samvad-detector-client/pkg/httpclient"
	"github.com/sourcegraph/conc"
)

// Analysis carries the predict and highlight results for one text.
type Analysis struct {
	Prediction json.RawMessage `json:"prediction"`
	Highlight  json.RawMessage `json:"highlight"`
}

type outcome struct {
	resp httpclient.Response
	err  error
}

// PredictAndHighlight issues the predict and highlight requests concurrently
// and waits for both to settle before judging either. A request fails on a
// transport error or a non-2xx status; the returned error wraps
// ErrBothFailed, ErrPredictFailed or ErrHighlightFailed plus the causes.
func (c *Client) PredictAndHighlight(ctx context.Context, text string) (*Analysis, error) {
	var predict, highlight outcome

	var wg conc.WaitGroup
	wg.Go(func() { predict = c.settle(ctx, EndpointPredict, text) })
	wg.Go(func() { highlight = c.settle(ctx, EndpointHighlight, text) })
	wg.Wait()

	var err error
	switch {
	case predict.err != nil && highlight.err != nil:
		err = fmt.Errorf("%w: %w", ErrBothFailed, errors.Join(predict.err, highlight.err))
	case predict.err != nil:
		err = fmt.Errorf("%w: %w", ErrPredictFailed, predict.err)
	case highlight.err != nil:
		err = fmt.Errorf("%w: %w", ErrHighlightFailed, highlight.err)
	}
	if err != nil {
		c.logFailure(err)
		return nil, err
	}

	var (
		out                      Analysis
		predictErr, highlightErr error
		decodeWG                 conc.WaitGroup
	)
	decodeWG.Go(func() { out.Prediction, predictErr = decode(predict.resp.Body()) })
	decodeWG.Go(func() { out.Highlight, highlightErr = decode(highlight.resp.Body()) })
	decodeWG.Wait()

	if err := errors.Join(predictErr, highlightErr); err != nil {
		c.logFailure(err)
		return nil, err
	}
	return &out, nil
}

func (c *Client) settle(ctx context.Context, endpoint Endpoint, text string) outcome {
	resp, err := c.post(ctx, endpoint, text)
	if err != nil {
		return outcome{err: err}
	}
	if err := checkStatus(endpoint, resp); err != nil {
		return outcome{err: err}
	}
	return outcome{resp: resp}
}
