package detector

import (
	"errors"
	"fmt"
	"strconv"
	"strings"
)

// HTTPError reports a non-2xx answer from the backend.
type HTTPError struct {
	Endpoint   Endpoint
	StatusCode int
	// Status is the full status line, e.g. "500 Internal Server Error".
	Status string
}

func (e *HTTPError) Error() string {
	return fmt.Sprintf("failed to fetch %s: %d %s", e.Endpoint, e.StatusCode, e.StatusText())
}

// StatusText returns the reason phrase without the numeric code.
func (e *HTTPError) StatusText() string {
	return strings.TrimSpace(strings.TrimPrefix(e.Status, strconv.Itoa(e.StatusCode)))
}

// Aggregate outcomes for PredictAndHighlight.
var (
	ErrBothFailed      = errors.New("predict and highlight requests failed")
	ErrPredictFailed   = errors.New("predict request failed")
	ErrHighlightFailed = errors.New("highlight request failed")
)
