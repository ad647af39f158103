package storage

import (
	"context"
	"crypto/sha256"
	"encoding/hex"
	"fmt"
	"time"

	"cloud.google.com/go/firestore"
	"google.golang.org/api/iterator"
	"google.golang.org/grpc/codes"
	"google.golang.org/grpc/status"

	"github.com/communityforge/ingest/internal/models"
)

const (
	postsCollection       = "posts"
	communitiesCollection = "communities"
)

// Client implements the persistence gateway on Firestore.
type Client struct {
	client *firestore.Client
}

func New(ctx context.Context, projectID string) (*Client, error) {
	client, err := firestore.NewClient(ctx, projectID)
	if err != nil {
		return nil, fmt.Errorf("firestore.NewClient: %w", err)
	}
	return &Client{client: client}, nil
}

func (c *Client) Close() error {
	return c.client.Close()
}

// PostDocID derives the document ID from the dedup key, so the
// (platform, originalId) uniqueness invariant is enforced by the store
// itself.
func PostDocID(platform models.Platform, originalID string) string {
	hash := sha256.Sum256([]byte(string(platform) + "|" + originalID))
	return hex.EncodeToString(hash[:])
}

func (c *Client) ExistsByKey(ctx context.Context, platform models.Platform, originalID string) (bool, error) {
	doc, err := c.client.Collection(postsCollection).Doc(PostDocID(platform, originalID)).Get(ctx)
	if err != nil {
		if status.Code(err) == codes.NotFound {
			return false, nil
		}
		return false, fmt.Errorf("failed to check post %s/%s: %w", platform, originalID, err)
	}
	return doc.Exists(), nil
}

func (c *Client) ExistsByURL(ctx context.Context, sourceURL string) (bool, error) {
	iter := c.client.Collection(postsCollection).
		Where("sourceUrl", "==", sourceURL).
		Limit(1).
		Documents(ctx)
	defer iter.Stop()

	_, err := iter.Next()
	if err == iterator.Done {
		return false, nil
	}
	if err != nil {
		return false, fmt.Errorf("failed to check post URL %s: %w", sourceURL, err)
	}
	return true, nil
}

// UpsertPost creates the post, or, when the dedup key already exists,
// updates only the scraped engagement counters. Content, tags and
// thumbnail are immutable after creation; local engagement belongs to
// this system and is never touched by ingestion.
func (c *Client) UpsertPost(ctx context.Context, post models.Post) (models.Post, error) {
	docRef := c.client.Collection(postsCollection).Doc(PostDocID(post.Platform, post.OriginalID))

	_, err := docRef.Create(ctx, post)
	if err == nil {
		post.DocID = docRef.ID
		return post, nil
	}
	if status.Code(err) != codes.AlreadyExists {
		return models.Post{}, fmt.Errorf("failed to create post %s: %w", post.SourceURL, err)
	}

	_, err = docRef.Update(ctx, engagementUpdates(post))
	if err != nil {
		return models.Post{}, fmt.Errorf("failed to merge engagement for post %s: %w", post.SourceURL, err)
	}

	doc, err := docRef.Get(ctx)
	if err != nil {
		return models.Post{}, fmt.Errorf("failed to re-read post %s: %w", post.SourceURL, err)
	}
	var stored models.Post
	if err := doc.DataTo(&stored); err != nil {
		return models.Post{}, fmt.Errorf("failed to unmarshal post data: %w", err)
	}
	stored.DocID = doc.Ref.ID
	return stored, nil
}

// engagementUpdates is the field-path patch a re-ingested duplicate is
// allowed to apply. Content, tags and local engagement stay untouched.
func engagementUpdates(post models.Post) []firestore.Update {
	return []firestore.Update{
		{Path: "engagementMetrics.likes", Value: post.EngagementMetrics.Likes},
		{Path: "engagementMetrics.comments", Value: post.EngagementMetrics.Comments},
		{Path: "engagementMetrics.shares", Value: post.EngagementMetrics.Shares},
		{Path: "engagementMetrics.views", Value: post.EngagementMetrics.Views},
		{Path: "scrapingMetadata.scrapedAt", Value: post.ScrapingMetadata.ScrapedAt},
	}
}

// MergeEngagementByURL applies the engagement patch to the post stored
// under the given sourceUrl. Used when a duplicate arrives under a
// different extracted id, where the key-derived document ID cannot be used.
func (c *Client) MergeEngagementByURL(ctx context.Context, sourceURL string, post models.Post) error {
	iter := c.client.Collection(postsCollection).
		Where("sourceUrl", "==", sourceURL).
		Limit(1).
		Documents(ctx)
	defer iter.Stop()

	doc, err := iter.Next()
	if err == iterator.Done {
		return fmt.Errorf("no post stored for URL %s", sourceURL)
	}
	if err != nil {
		return fmt.Errorf("failed to look up post by URL %s: %w", sourceURL, err)
	}

	if _, err := doc.Ref.Update(ctx, engagementUpdates(post)); err != nil {
		return fmt.Errorf("failed to merge engagement for post %s: %w", sourceURL, err)
	}
	return nil
}

func (c *Client) ListActiveCommunities(ctx context.Context) ([]models.Community, error) {
	iter := c.client.Collection(communitiesCollection).
		Where("isActive", "==", true).
		Documents(ctx)
	defer iter.Stop()

	var communities []models.Community
	for {
		doc, err := iter.Next()
		if err == iterator.Done {
			break
		}
		if err != nil {
			return nil, fmt.Errorf("failed to iterate communities: %w", err)
		}

		var community models.Community
		if err := doc.DataTo(&community); err != nil {
			return nil, fmt.Errorf("failed to unmarshal community %s: %w", doc.Ref.ID, err)
		}
		community.ID = doc.Ref.ID
		communities = append(communities, community)
	}
	return communities, nil
}

// GetCommunityByID returns nil when the community does not exist.
func (c *Client) GetCommunityByID(ctx context.Context, communityID string) (*models.Community, error) {
	doc, err := c.client.Collection(communitiesCollection).Doc(communityID).Get(ctx)
	if err != nil {
		if status.Code(err) == codes.NotFound {
			return nil, nil
		}
		return nil, fmt.Errorf("failed to get community %s: %w", communityID, err)
	}

	var community models.Community
	if err := doc.DataTo(&community); err != nil {
		return nil, fmt.Errorf("failed to unmarshal community data: %w", err)
	}
	community.ID = doc.Ref.ID
	return &community, nil
}

func (c *Client) UpdateCommunityLastScraped(ctx context.Context, communityID string, t time.Time) error {
	_, err := c.client.Collection(communitiesCollection).Doc(communityID).Update(ctx, []firestore.Update{
		{Path: "lastScrapedAt", Value: t},
	})
	if err != nil {
		return fmt.Errorf("failed to update lastScrapedAt for community %s: %w", communityID, err)
	}
	return nil
}
