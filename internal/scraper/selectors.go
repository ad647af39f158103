package scraper

import (
	"encoding/json"
	"fmt"
	"os"
)

// PlatformSelectors holds the ordered selector strategies for one HTML
// platform. Each list is tried in order; the first selector that yields a
// non-empty result wins. Item is the container selector for one post.
type PlatformSelectors struct {
	Item        string   `json:"item"`
	Title       []string `json:"title"`
	Content     []string `json:"content"`
	Link        []string `json:"link"`
	Author      []string `json:"author"`
	Time        []string `json:"time"`
	Likes       []string `json:"likes"`
	Comments    []string `json:"comments"`
	Shares      []string `json:"shares"`
	Views       []string `json:"views"`
	ReadingTime []string `json:"reading_time"`
	Tags        []string `json:"tags"`
	Thumbnail   []string `json:"thumbnail"`
}

// SelectorConfig bundles the selector sets for every HTML-scraped platform.
type SelectorConfig struct {
	Medium   PlatformSelectors `json:"medium"`
	Twitter  PlatformSelectors `json:"twitter"`
	LinkedIn PlatformSelectors `json:"linkedin"`
}

// LoadSelectors loads the selector configuration from a JSON file.
func LoadSelectors(path string) (SelectorConfig, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return SelectorConfig{}, fmt.Errorf("failed to read selector config file: %w", err)
	}
	return LoadSelectorsFromBytes(data)
}

// LoadSelectorsFromBytes parses selector configuration from raw JSON bytes.
// This supports loading from embedded data via go:embed.
func LoadSelectorsFromBytes(data []byte) (SelectorConfig, error) {
	var config SelectorConfig
	if err := json.Unmarshal(data, &config); err != nil {
		return SelectorConfig{}, fmt.Errorf("failed to parse selector config JSON: %w", err)
	}
	return config, nil
}

// DefaultSelectors returns the fallback configuration if no JSON file is
// loaded. The embedded selectors.json should be preferred.
func DefaultSelectors() SelectorConfig {
	return SelectorConfig{
		Medium: PlatformSelectors{
			Item:        `article, .postArticle, [data-testid="post-preview"]`,
			Title:       []string{`h1, h2, h3, .graf--title, [data-testid="post-preview-title"]`, "a"},
			Content:     []string{`.graf--subtitle, .postArticle-content p, [data-testid="post-preview-content"]`, "p"},
			Link:        []string{"a"},
			Author:      []string{`.postMetaInline-authorLockup a, [data-testid="post-preview-author"]`, ".author"},
			Time:        []string{`time, .postMetaInline time, [data-testid="post-preview-date"]`},
			Likes:       []string{`.clapCount, [data-testid="clap-count"]`},
			ReadingTime: []string{`.readingTime, [data-testid="reading-time"]`},
			Tags:        []string{`.tag, .postTags a, [data-testid="tag"]`},
			Thumbnail:   []string{"img"},
		},
		Twitter: PlatformSelectors{
			Item:      `article, [data-testid="tweet"], .timeline-item`,
			Title:     []string{`[data-testid="tweetText"], .tweet-content`, "p"},
			Content:   []string{`[data-testid="tweetText"], .tweet-content`, "p"},
			Link:      []string{`a[href*="/status/"]`, ".tweet-link", "a"},
			Author:    []string{`[data-testid="User-Name"] span`, ".fullname", ".username"},
			Time:      []string{"time"},
			Likes:     []string{`[data-testid="like"] span`, ".icon-heart-container"},
			Comments:  []string{`[data-testid="reply"] span`, ".icon-comment-container"},
			Shares:    []string{`[data-testid="retweet"] span`, ".icon-retweet-container"},
			Thumbnail: []string{".attachment-image img", "img.media-img"},
		},
		LinkedIn: PlatformSelectors{
			Item:      "article, .feed-shared-update-v2, .update-components-actor",
			Title:     []string{".update-components-text span", ".feed-shared-text", "h2, h3"},
			Content:   []string{".update-components-text", ".feed-shared-text", "p"},
			Link:      []string{`a[href*="/posts/"]`, `a[href*="/pulse/"]`, "a"},
			Author:    []string{".update-components-actor__name", ".feed-shared-actor__name"},
			Time:      []string{"time", ".update-components-actor__sub-description"},
			Likes:     []string{".social-counts-reactions__count", ".social-details-social-counts__reactions-count"},
			Comments:  []string{".social-counts-comments", ".social-details-social-counts__comments"},
			Tags:      []string{`a[href*="hashtag"]`},
			Thumbnail: []string{".update-components-image img", "img"},
		},
	}
}
