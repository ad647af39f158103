package scraper

import (
	"errors"
	"net/url"
	"strings"

	"github.com/communityforge/ingest/internal/config"
	"github.com/communityforge/ingest/internal/models"
)

// NewTwitter builds the microblog scraper. Timelines are fetched as HTML;
// tweet text doubles as both title and content.
func NewTwitter(cfg *config.Config, selectors PlatformSelectors) Scraper {
	return &htmlScraper{
		platform:      models.PlatformTwitter,
		fetcher:       newFetcher(cfg, models.PlatformTwitter),
		selectors:     selectors,
		perPage:       20,
		defaultAuthor: "Twitter User",
		estimate:      cfg.EstimateMissingMetrics,
		parseSource:   twitterSource,
		pageURL:       queryPagination,
	}
}

// twitterSource extracts the handle from a profile URL, with or without
// the leading @.
func twitterSource(sourceURL string) (string, error) {
	parsedURL, err := url.Parse(sourceURL)
	if err != nil {
		return "", err
	}
	segment := firstPathSegment(parsedURL.Path)
	if segment == "" {
		return "", errors.New("could not extract handle")
	}
	return strings.TrimPrefix(segment, "@"), nil
}
