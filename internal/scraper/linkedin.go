package scraper

import (
	"errors"
	"net/url"
	"strings"

	"github.com/communityforge/ingest/internal/config"
	"github.com/communityforge/ingest/internal/models"
)

// NewLinkedIn builds the professional-network scraper over public company
// and profile feed pages.
func NewLinkedIn(cfg *config.Config, selectors PlatformSelectors) Scraper {
	return &htmlScraper{
		platform:      models.PlatformLinkedIn,
		fetcher:       newFetcher(cfg, models.PlatformLinkedIn),
		selectors:     selectors,
		perPage:       10,
		defaultAuthor: "LinkedIn Member",
		estimate:      cfg.EstimateMissingMetrics,
		parseSource:   linkedInSource,
		pageURL:       queryPagination,
	}
}

// linkedInSource extracts the company or member identity from URLs shaped
// like linkedin.com/company/<name> or linkedin.com/in/<name>.
func linkedInSource(sourceURL string) (string, error) {
	parsedURL, err := url.Parse(sourceURL)
	if err != nil {
		return "", err
	}

	segments := strings.Split(strings.Trim(parsedURL.Path, "/"), "/")
	switch {
	case len(segments) >= 2 && (segments[0] == "company" || segments[0] == "in" || segments[0] == "school" || segments[0] == "showcase"):
		return segments[1], nil
	case len(segments) == 1 && segments[0] != "":
		return segments[0], nil
	}
	return "", errors.New("could not extract company or member")
}
