package scraper

import (
	"errors"
	"net/url"
	"strconv"
	"strings"

	"github.com/communityforge/ingest/internal/config"
	"github.com/communityforge/ingest/internal/models"
)

// NewMedium builds the Medium scraper. Medium has no public API, so posts
// come from publication and profile pages (~10 posts per page).
func NewMedium(cfg *config.Config, selectors PlatformSelectors) Scraper {
	return &htmlScraper{
		platform:      models.PlatformMedium,
		fetcher:       newFetcher(cfg, models.PlatformMedium),
		selectors:     selectors,
		perPage:       10,
		defaultAuthor: "Medium Author",
		estimate:      cfg.EstimateMissingMetrics,
		parseSource:   mediumSource,
		pageURL:       queryPagination,
	}
}

// mediumSource extracts the publication or user identity from a source URL.
// Accepted shapes: medium.com/@user, medium.com/publication, and
// publication.medium.com subdomains.
func mediumSource(sourceURL string) (string, error) {
	parsedURL, err := url.Parse(sourceURL)
	if err != nil {
		return "", err
	}

	host := strings.TrimPrefix(parsedURL.Hostname(), "www.")
	if strings.HasSuffix(host, ".medium.com") {
		return strings.TrimSuffix(host, ".medium.com"), nil
	}

	if segment := firstPathSegment(parsedURL.Path); segment != "" {
		return segment, nil
	}
	return "", errors.New("could not extract publication or user")
}

func firstPathSegment(path string) string {
	for _, segment := range strings.Split(strings.Trim(path, "/"), "/") {
		if segment != "" {
			return segment
		}
	}
	return ""
}

// queryPagination appends ?page=N for every page after the first.
func queryPagination(sourceURL string, page int) string {
	if page == 0 {
		return sourceURL
	}
	parsedURL, err := url.Parse(sourceURL)
	if err != nil {
		return sourceURL
	}
	query := parsedURL.Query()
	query.Set("page", strconv.Itoa(page))
	parsedURL.RawQuery = query.Encode()
	return parsedURL.String()
}
