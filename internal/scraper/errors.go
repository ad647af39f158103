package scraper

import (
	"errors"
	"fmt"

	"github.com/communityforge/ingest/internal/models"
)

// ConfigError means no scrapeable source identity could be derived from
// the configured URL. Fatal to that one platform invocation only.
type ConfigError struct {
	Platform  models.Platform
	SourceURL string
	Reason    string
}

func (e *ConfigError) Error() string {
	return fmt.Sprintf("invalid %s source URL %q: %s", e.Platform, e.SourceURL, e.Reason)
}

// NetworkError covers timeouts, connection failures and non-2xx responses
// other than 429. Not retried.
type NetworkError struct {
	URL        string
	StatusCode int
	Err        error
}

func (e *NetworkError) Error() string {
	if e.Err != nil {
		return fmt.Sprintf("fetch %s: %v", e.URL, e.Err)
	}
	return fmt.Sprintf("fetch %s: status code %d", e.URL, e.StatusCode)
}

func (e *NetworkError) Unwrap() error { return e.Err }

// RateLimitError is an HTTP 429. It triggers exactly one backoff-and-retry
// of the same page; a second 429 surfaces as the final error.
type RateLimitError struct {
	URL string
}

func (e *RateLimitError) Error() string {
	return fmt.Sprintf("rate limited fetching %s", e.URL)
}

// Classify maps a scrape error to its report kind.
func Classify(err error) models.ErrorKind {
	var configErr *ConfigError
	var rateErr *RateLimitError
	var netErr *NetworkError
	switch {
	case errors.As(err, &configErr):
		return models.ErrKindConfig
	case errors.As(err, &rateErr):
		return models.ErrKindRateLimit
	case errors.As(err, &netErr):
		return models.ErrKindNetwork
	default:
		return models.ErrKindInternal
	}
}
