// Package normalize maps platform-shaped raw posts into the canonical
// post record.
package normalize

import (
	"time"

	"github.com/communityforge/ingest/internal/models"
)

// Post builds a canonical post from one raw post and its owning community.
// Content fields are copied verbatim; local engagement and promotion state
// start at their defaults because they belong to this system, not the
// source platform. Platform counters can be negative (downvoted Reddit
// posts) and are clamped to zero. The quality score is assigned afterwards
// by the scorer.
func Post(raw models.RawPost, community *models.Community) models.Post {
	return models.Post{
		Title:       raw.Title,
		Content:     raw.Content,
		SourceURL:   raw.URL,
		Platform:    raw.Platform,
		OriginalID:  raw.ID,
		CommunityID: community.ID,
		OwnerID:     community.OwnerID,
		EngagementMetrics: models.EngagementMetrics{
			Likes:    nonNegative(raw.Likes),
			Comments: nonNegative(raw.Comments),
			Shares:   nonNegative(raw.Shares),
			Views:    nonNegative(raw.Views),
		},
		ScrapingMetadata: models.ScrapingMetadata{
			ScrapedAt:         time.Now().UTC(),
			OriginalAuthor:    raw.Author,
			OriginalCreatedAt: raw.CreatedAt,
			Tags:              raw.Tags,
			ReadingTime:       nonNegative(raw.ReadingTime),
		},
		Status:    models.StatusActive,
		Thumbnail: raw.Thumbnail,
		MediaURLs: raw.MediaURLs,
	}
}

func nonNegative(n int) int {
	if n < 0 {
		return 0
	}
	return n
}
