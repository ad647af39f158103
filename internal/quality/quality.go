// Package quality scores canonical posts on extraction confidence and
// content richness. The score is a pure function of the post so that
// re-scoring is reproducible.
package quality

import "github.com/communityforge/ingest/internal/models"

const neutralScore = 0.5

// platformWeights nudge scores per platform: long-form article sources
// tend to carry richer content than microblogs.
var platformWeights = map[models.Platform]float64{
	models.PlatformMedium:   0.10,
	models.PlatformLinkedIn: 0.05,
	models.PlatformReddit:   0.0,
	models.PlatformTwitter:  -0.05,
}

// Score returns a quality signal in [0,1]. Very short content with no
// tags carries too little signal and gets the neutral default.
func Score(post *models.Post) float64 {
	contentLen := len(post.Content)
	tagCount := len(post.ScrapingMetadata.Tags)

	if contentLen < 40 && tagCount == 0 {
		return neutralScore
	}

	score := 0.2

	switch {
	case contentLen >= 2000:
		score += 0.35
	case contentLen >= 500:
		score += 0.25
	case contentLen >= 100:
		score += 0.15
	default:
		score += 0.05
	}

	switch {
	case tagCount >= 5:
		score += 0.15
	case tagCount >= 1:
		score += 0.10
	}

	if post.Thumbnail != "" || len(post.MediaURLs) > 0 {
		score += 0.10
	}

	// A stated reading time of a few minutes signals substantive long-form
	// content even when the preview text is short.
	if post.ScrapingMetadata.ReadingTime >= 3 {
		score += 0.05
	}

	m := post.EngagementMetrics
	if m.Likes > 0 || m.Comments > 0 || m.Shares > 0 || m.Views > 0 {
		score += 0.10
	}

	score += platformWeights[post.Platform]

	return clamp(score)
}

func clamp(score float64) float64 {
	if score < 0 {
		return 0
	}
	if score > 1 {
		return 1
	}
	return score
}
