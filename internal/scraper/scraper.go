package scraper

import (
	"context"
	"errors"
	"io"
	"net/http"
	"strings"
	"time"

	"golang.org/x/time/rate"

	"github.com/communityforge/ingest/internal/config"
	"github.com/communityforge/ingest/internal/models"
)

// DefaultMaxPosts bounds a scrape when the community config leaves
// maxPosts unset.
const DefaultMaxPosts = 50

// Config is the per-invocation scraping configuration for one platform.
type Config struct {
	SourceURL string
	Keywords  []string
	MaxPosts  int
}

// Scraper is the uniform contract every platform implementation satisfies.
// ScrapeContent returns at most cfg.MaxPosts raw posts, already filtered
// by keywords.
type Scraper interface {
	Platform() models.Platform
	ScrapeContent(ctx context.Context, cfg Config) ([]models.RawPost, error)
}

// NewAll builds one scraper per supported platform.
func NewAll(cfg *config.Config, selectors SelectorConfig) map[models.Platform]Scraper {
	return map[models.Platform]Scraper{
		models.PlatformMedium:   NewMedium(cfg, selectors.Medium),
		models.PlatformTwitter:  NewTwitter(cfg, selectors.Twitter),
		models.PlatformLinkedIn: NewLinkedIn(cfg, selectors.LinkedIn),
		models.PlatformReddit:   NewReddit(cfg),
	}
}

// fetcher is the shared HTTP layer: browser-like headers, bounded timeout,
// politeness pacing, and the single bounded 429 retry. One fetcher belongs
// to one scraper instance; page fetches through it are sequential.
type fetcher struct {
	httpClient       *http.Client
	userAgent        string
	limiter          *rate.Limiter
	rateLimitBackoff time.Duration
}

func newFetcher(cfg *config.Config, platform models.Platform) *fetcher {
	delay := cfg.RateLimitDelays[platform]
	return &fetcher{
		httpClient: &http.Client{
			Timeout: cfg.RequestTimeout,
		},
		userAgent:        cfg.UserAgent,
		limiter:          rate.NewLimiter(rate.Every(delay), 1),
		rateLimitBackoff: 3 * delay,
	}
}

// get fetches one URL after waiting out the politeness delay. A 429
// response triggers exactly one extended backoff and retry of the same
// URL; a second 429 is returned as-is.
func (f *fetcher) get(ctx context.Context, url string) ([]byte, error) {
	body, err := f.fetch(ctx, url)
	if err == nil {
		return body, nil
	}

	var rateErr *RateLimitError
	if !errors.As(err, &rateErr) {
		return nil, err
	}

	select {
	case <-ctx.Done():
		return nil, ctx.Err()
	case <-time.After(f.rateLimitBackoff):
	}
	return f.fetch(ctx, url)
}

func (f *fetcher) fetch(ctx context.Context, url string) ([]byte, error) {
	if err := f.limiter.Wait(ctx); err != nil {
		return nil, err
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, url, nil)
	if err != nil {
		return nil, &NetworkError{URL: url, Err: err}
	}
	req.Header.Set("User-Agent", f.userAgent)
	req.Header.Set("Accept", "text/html,application/xhtml+xml,application/xml;q=0.9,image/webp,*/*;q=0.8")

	res, err := f.httpClient.Do(req)
	if err != nil {
		return nil, &NetworkError{URL: url, Err: err}
	}
	defer res.Body.Close()

	switch {
	case res.StatusCode == http.StatusTooManyRequests:
		return nil, &RateLimitError{URL: url}
	case res.StatusCode != http.StatusOK:
		return nil, &NetworkError{URL: url, StatusCode: res.StatusCode}
	}

	body, err := io.ReadAll(res.Body)
	if err != nil {
		return nil, &NetworkError{URL: url, Err: err}
	}
	return body, nil
}

// matchesKeywords reports whether a post contains any of the keywords in
// its title, content or tags. OR across keywords, case-insensitive.
func matchesKeywords(post models.RawPost, keywords []string) bool {
	searchText := strings.ToLower(post.Title + " " + post.Content + " " + strings.Join(post.Tags, " "))
	for _, keyword := range keywords {
		if strings.Contains(searchText, strings.ToLower(keyword)) {
			return true
		}
	}
	return false
}

// filterByKeywords keeps all posts when keywords is empty.
func filterByKeywords(posts []models.RawPost, keywords []string) []models.RawPost {
	if len(keywords) == 0 {
		return posts
	}
	var kept []models.RawPost
	for _, post := range posts {
		if matchesKeywords(post, keywords) {
			kept = append(kept, post)
		}
	}
	return kept
}

// pageCeiling bounds how many pages a scrape may walk for a given target.
func pageCeiling(maxPosts, perPage int) int {
	return (maxPosts + perPage - 1) / perPage
}
