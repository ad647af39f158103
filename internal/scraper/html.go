package scraper

import (
	"bytes"
	"context"
	"log/slog"
	"strings"
	"time"

	"github.com/PuerkitoBio/goquery"

	"github.com/communityforge/ingest/internal/models"
	"github.com/communityforge/ingest/internal/util"
)

// htmlScraper is the shared engine behind every HTML platform. A variant
// supplies its selector set, source-identity parser and pagination rule;
// the engine owns fetching, extraction and filtering.
type htmlScraper struct {
	platform      models.Platform
	fetcher       *fetcher
	selectors     PlatformSelectors
	perPage       int
	defaultAuthor string
	estimate      bool

	parseSource func(sourceURL string) (string, error)
	pageURL     func(sourceURL string, page int) string
}

func (s *htmlScraper) Platform() models.Platform {
	return s.platform
}

func (s *htmlScraper) ScrapeContent(ctx context.Context, cfg Config) ([]models.RawPost, error) {
	if cfg.MaxPosts <= 0 {
		cfg.MaxPosts = DefaultMaxPosts
	}

	source, err := s.parseSource(cfg.SourceURL)
	if err != nil {
		return nil, &ConfigError{Platform: s.platform, SourceURL: cfg.SourceURL, Reason: err.Error()}
	}
	slog.Info("Scraping source", "platform", s.platform, "source", source)

	maxPages := pageCeiling(cfg.MaxPosts, s.perPage)
	var posts []models.RawPost
	for page := 0; len(posts) < cfg.MaxPosts && page < maxPages; page++ {
		pagePosts, err := s.scrapePage(ctx, cfg.SourceURL, page)
		if err != nil {
			return nil, err
		}
		if len(pagePosts) == 0 {
			break
		}
		posts = append(posts, filterByKeywords(pagePosts, cfg.Keywords)...)
	}

	if len(posts) > cfg.MaxPosts {
		posts = posts[:cfg.MaxPosts]
	}
	slog.Info("Scraped posts", "platform", s.platform, "count", len(posts))
	return posts, nil
}

func (s *htmlScraper) scrapePage(ctx context.Context, sourceURL string, page int) ([]models.RawPost, error) {
	pageURL := s.pageURL(sourceURL, page)
	body, err := s.fetcher.get(ctx, pageURL)
	if err != nil {
		return nil, err
	}

	doc, err := goquery.NewDocumentFromReader(bytes.NewReader(body))
	if err != nil {
		return nil, &NetworkError{URL: pageURL, Err: err}
	}

	var posts []models.RawPost
	doc.Find(s.selectors.Item).Each(func(_ int, sel *goquery.Selection) {
		// Elements that fail extraction are dropped, not errors.
		if post, ok := s.extractPost(sel, sourceURL); ok {
			posts = append(posts, post)
		}
	})
	return posts, nil
}

// extractPost walks the selector strategies for one element. A non-empty
// title and a resolvable absolute URL are mandatory; everything else
// degrades to a platform default.
func (s *htmlScraper) extractPost(sel *goquery.Selection, sourceURL string) (models.RawPost, bool) {
	title := firstText(sel, s.selectors.Title)
	if title == "" {
		return models.RawPost{}, false
	}

	href := firstAttr(sel, s.selectors.Link, "href")
	postURL := util.ResolveURL(sourceURL, href)
	if postURL == "" {
		return models.RawPost{}, false
	}

	content := firstText(sel, s.selectors.Content)
	if content == "" {
		content = title
	}

	author := firstText(sel, s.selectors.Author)
	if author == "" {
		author = s.defaultAuthor
	}

	id := util.StableIDFromURL(string(s.platform), postURL)

	post := models.RawPost{
		ID:          id,
		Title:       title,
		Content:     content,
		URL:         postURL,
		Author:      author,
		CreatedAt:   s.extractCreatedAt(sel),
		Likes:       s.extractCount(sel, s.selectors.Likes, id, 100),
		Comments:    s.extractCount(sel, s.selectors.Comments, id, 20),
		Shares:      s.extractCount(sel, s.selectors.Shares, id, 10),
		Views:       s.extractCount(sel, s.selectors.Views, id, 1000),
		Thumbnail:   util.ResolveURL(sourceURL, firstAttr(sel, s.selectors.Thumbnail, "src")),
		MediaURLs:   extractMediaURLs(sel, sourceURL),
		Tags:        mergeTags(explicitTags(sel, s.selectors.Tags), content),
		Platform:    s.platform,
		ReadingTime: util.ParseLeadingInt(firstText(sel, s.selectors.ReadingTime)),
	}
	return post, true
}

func (s *htmlScraper) extractCreatedAt(sel *goquery.Selection) time.Time {
	for _, strategy := range s.selectors.Time {
		timeSel := sel.Find(strategy).First()
		if timeSel.Length() == 0 {
			continue
		}
		if datetime, exists := timeSel.Attr("datetime"); exists {
			if parsed, err := time.Parse(time.RFC3339, datetime); err == nil {
				return parsed
			}
		}
		if parsed, err := time.Parse("Jan 2, 2006", strings.TrimSpace(timeSel.Text())); err == nil {
			return parsed
		}
	}
	return time.Time{}
}

// extractCount reads a counter via the selector strategies. Absent values
// are zero unless the reproducible estimator is enabled.
func (s *htmlScraper) extractCount(sel *goquery.Selection, strategies []string, id string, bound int) int {
	text := firstText(sel, strategies)
	if text != "" {
		return util.ParseCompactNumber(text)
	}
	if s.estimate {
		return estimateCount(id, bound)
	}
	return 0
}

func firstText(sel *goquery.Selection, strategies []string) string {
	for _, strategy := range strategies {
		if text := strings.TrimSpace(sel.Find(strategy).First().Text()); text != "" {
			return text
		}
	}
	return ""
}

func firstAttr(sel *goquery.Selection, strategies []string, attr string) string {
	for _, strategy := range strategies {
		if val, exists := sel.Find(strategy).First().Attr(attr); exists && strings.TrimSpace(val) != "" {
			return strings.TrimSpace(val)
		}
	}
	return ""
}

func extractMediaURLs(sel *goquery.Selection, sourceURL string) []string {
	var mediaURLs []string
	sel.Find("img").Each(func(_ int, img *goquery.Selection) {
		src, exists := img.Attr("src")
		if !exists {
			return
		}
		resolved := util.ResolveURL(sourceURL, src)
		if resolved != "" && util.IsImageURL(resolved) {
			mediaURLs = append(mediaURLs, resolved)
		}
	})
	return mediaURLs
}

func explicitTags(sel *goquery.Selection, strategies []string) []string {
	var tags []string
	for _, strategy := range strategies {
		sel.Find(strategy).Each(func(_ int, tagSel *goquery.Selection) {
			if tag := strings.ToLower(strings.TrimSpace(tagSel.Text())); tag != "" {
				tags = append(tags, tag)
			}
		})
	}
	return tags
}
