package pipeline

import (
	"context"
	"time"

	"github.com/communityforge/ingest/internal/models"
)

// PostStore is the persistence gateway for canonical posts.
type PostStore interface {
	ExistsByKey(ctx context.Context, platform models.Platform, originalID string) (bool, error)
	ExistsByURL(ctx context.Context, sourceURL string) (bool, error)
	// UpsertPost creates the post, or merges engagement counters into the
	// stored record when the dedup key already exists. Content fields are
	// never overwritten.
	UpsertPost(ctx context.Context, post models.Post) (models.Post, error)
	// MergeEngagementByURL merges the candidate's engagement counters into
	// the post stored under the given sourceUrl, for duplicates whose dedup
	// key differs from the stored one.
	MergeEngagementByURL(ctx context.Context, sourceURL string, post models.Post) error
}

// CommunityStore exposes the community records the scheduler and
// orchestrator consume.
type CommunityStore interface {
	ListActiveCommunities(ctx context.Context) ([]models.Community, error)
	UpdateCommunityLastScraped(ctx context.Context, communityID string, t time.Time) error
}
