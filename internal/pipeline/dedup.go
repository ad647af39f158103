package pipeline

import (
	"context"
	"fmt"

	"github.com/communityforge/ingest/internal/models"
)

// Outcome is the deduplicator's verdict for one candidate post.
type Outcome int

const (
	OutcomeCreated Outcome = iota
	OutcomeUpdated
)

// Deduplicator decides whether a candidate is new or a re-ingestion of
// stored content. Identity is (platform, originalId) first, sourceUrl
// second. Duplicates only ever update engagement counters.
type Deduplicator struct {
	store PostStore
}

func NewDeduplicator(store PostStore) *Deduplicator {
	return &Deduplicator{store: store}
}

func (d *Deduplicator) Ingest(ctx context.Context, post models.Post) (Outcome, error) {
	exists, err := d.store.ExistsByKey(ctx, post.Platform, post.OriginalID)
	if err != nil {
		return OutcomeCreated, fmt.Errorf("existence check for %s/%s: %w", post.Platform, post.OriginalID, err)
	}
	if !exists {
		urlExists, err := d.store.ExistsByURL(ctx, post.SourceURL)
		if err != nil {
			return OutcomeCreated, fmt.Errorf("existence check for %s: %w", post.SourceURL, err)
		}
		if urlExists {
			// Same content surfaced under a different extracted id. Upserting
			// under the new key would store the URL twice, so merge the
			// engagement into the record that already owns the URL.
			if err := d.store.MergeEngagementByURL(ctx, post.SourceURL, post); err != nil {
				return OutcomeUpdated, fmt.Errorf("merge engagement for %s: %w", post.SourceURL, err)
			}
			return OutcomeUpdated, nil
		}
	}

	if _, err := d.store.UpsertPost(ctx, post); err != nil {
		return OutcomeCreated, fmt.Errorf("upsert %s/%s: %w", post.Platform, post.OriginalID, err)
	}

	if exists {
		return OutcomeUpdated, nil
	}
	return OutcomeCreated, nil
}
