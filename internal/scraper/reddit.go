package scraper

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"log/slog"
	"net/url"
	"strings"
	"time"

	"github.com/communityforge/ingest/internal/config"
	"github.com/communityforge/ingest/internal/models"
	"github.com/communityforge/ingest/internal/util"
)

// redditScraper consumes the public JSON listing endpoint instead of HTML.
// Pagination uses the listing's "after" cursor; pacing, keyword filtering
// and the maxPosts cap behave exactly like the HTML platforms.
type redditScraper struct {
	fetcher  *fetcher
	perPage  int
	estimate bool
}

func NewReddit(cfg *config.Config) Scraper {
	return &redditScraper{
		fetcher:  newFetcher(cfg, models.PlatformReddit),
		perPage:  25,
		estimate: cfg.EstimateMissingMetrics,
	}
}

func (s *redditScraper) Platform() models.Platform {
	return models.PlatformReddit
}

type redditListing struct {
	Data struct {
		After    string `json:"after"`
		Children []struct {
			Data struct {
				ID            string  `json:"id"`
				Title         string  `json:"title"`
				Selftext      string  `json:"selftext"`
				Author        string  `json:"author"`
				Permalink     string  `json:"permalink"`
				Score         int     `json:"score"`
				NumComments   int     `json:"num_comments"`
				CreatedUTC    float64 `json:"created_utc"`
				Thumbnail     string  `json:"thumbnail"`
				LinkFlairText string  `json:"link_flair_text"`
			} `json:"data"`
		} `json:"children"`
	} `json:"data"`
}

func (s *redditScraper) ScrapeContent(ctx context.Context, cfg Config) ([]models.RawPost, error) {
	if cfg.MaxPosts <= 0 {
		cfg.MaxPosts = DefaultMaxPosts
	}

	base, subreddit, err := redditSource(cfg.SourceURL)
	if err != nil {
		return nil, &ConfigError{Platform: models.PlatformReddit, SourceURL: cfg.SourceURL, Reason: err.Error()}
	}
	slog.Info("Scraping source", "platform", models.PlatformReddit, "source", subreddit)

	maxPages := pageCeiling(cfg.MaxPosts, s.perPage)
	var posts []models.RawPost
	after := ""
	for page := 0; len(posts) < cfg.MaxPosts && page < maxPages; page++ {
		pagePosts, next, err := s.scrapeListing(ctx, base, subreddit, after)
		if err != nil {
			return nil, err
		}
		if len(pagePosts) == 0 {
			break
		}
		posts = append(posts, filterByKeywords(pagePosts, cfg.Keywords)...)
		if next == "" {
			break
		}
		after = next
	}

	if len(posts) > cfg.MaxPosts {
		posts = posts[:cfg.MaxPosts]
	}
	slog.Info("Scraped posts", "platform", models.PlatformReddit, "count", len(posts))
	return posts, nil
}

func (s *redditScraper) scrapeListing(ctx context.Context, base, subreddit, after string) ([]models.RawPost, string, error) {
	listingURL := fmt.Sprintf("%s/r/%s/new.json?limit=%d", base, subreddit, s.perPage)
	if after != "" {
		listingURL += "&after=" + url.QueryEscape(after)
	}

	body, err := s.fetcher.get(ctx, listingURL)
	if err != nil {
		return nil, "", err
	}

	var listing redditListing
	if err := json.Unmarshal(body, &listing); err != nil {
		return nil, "", &NetworkError{URL: listingURL, Err: err}
	}

	var posts []models.RawPost
	for _, child := range listing.Data.Children {
		d := child.Data
		if strings.TrimSpace(d.Title) == "" || d.Permalink == "" {
			continue
		}

		postURL := util.ResolveURL(base, d.Permalink)
		content := d.Selftext
		if content == "" {
			content = d.Title
		}

		thumbnail := d.Thumbnail
		if !util.IsImageURL(thumbnail) {
			// Reddit uses sentinel values like "self" and "default" here.
			thumbnail = ""
		}

		id := "reddit_" + d.ID
		post := models.RawPost{
			ID:        id,
			Title:     d.Title,
			Content:   content,
			URL:       postURL,
			Author:    d.Author,
			CreatedAt: time.Unix(int64(d.CreatedUTC), 0).UTC(),
			Likes:     d.Score,
			Comments:  d.NumComments,
			Thumbnail: thumbnail,
			Tags:      mergeTags(flairTags(d.LinkFlairText), content),
			Platform:  models.PlatformReddit,
		}
		if s.estimate {
			post.Shares = estimateCount(id, 10)
			post.Views = estimateCount(id, 1000)
		}
		posts = append(posts, post)
	}
	return posts, listing.Data.After, nil
}

func flairTags(flair string) []string {
	if strings.TrimSpace(flair) == "" {
		return nil
	}
	return []string{flair}
}

// redditSource splits a source URL like https://www.reddit.com/r/golang
// into its origin and subreddit name.
func redditSource(sourceURL string) (string, string, error) {
	parsedURL, err := url.Parse(sourceURL)
	if err != nil {
		return "", "", err
	}

	segments := strings.Split(strings.Trim(parsedURL.Path, "/"), "/")
	if len(segments) < 2 || segments[0] != "r" || segments[1] == "" {
		return "", "", errors.New("expected a /r/<subreddit> URL")
	}
	return parsedURL.Scheme + "://" + parsedURL.Host, segments[1], nil
}
