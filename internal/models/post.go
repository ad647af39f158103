package models

import "time"

// PostStatus is the moderation state of a stored post.
type PostStatus string

const (
	StatusActive  PostStatus = "active"
	StatusHidden  PostStatus = "hidden"
	StatusFlagged PostStatus = "flagged"
	StatusDeleted PostStatus = "deleted"
)

// EngagementMetrics are the platform-reported counters scraped with the post.
type EngagementMetrics struct {
	Likes    int `firestore:"likes" validate:"gte=0"`
	Comments int `firestore:"comments" validate:"gte=0"`
	Shares   int `firestore:"shares" validate:"gte=0"`
	Views    int `firestore:"views" validate:"gte=0"`
}

// LocalEngagement tracks interactions that happen inside this system,
// never scraped. All zero at ingestion time.
type LocalEngagement struct {
	Likes     int `firestore:"likes" validate:"gte=0"`
	Comments  int `firestore:"comments" validate:"gte=0"`
	Bookmarks int `firestore:"bookmarks" validate:"gte=0"`
}

// ScrapingMetadata records provenance of a scraped post.
type ScrapingMetadata struct {
	ScrapedAt         time.Time `firestore:"scrapedAt"`
	OriginalAuthor    string    `firestore:"originalAuthor"`
	OriginalCreatedAt time.Time `firestore:"originalCreatedAt"`
	QualityScore      float64   `firestore:"qualityScore" validate:"gte=0,lte=1"`
	Tags              []string  `firestore:"tags"`
	ReadingTime       int       `firestore:"readingTime,omitempty" validate:"gte=0"`
}

// Post is the canonical, durable content record.
//
// Invariants: SourceURL is unique across all posts, (Platform, OriginalID)
// is unique across all posts, and content fields are immutable once the
// post is created. Only engagement counters may change on re-ingestion.
type Post struct {
	Title             string            `firestore:"title" validate:"required"`
	Content           string            `firestore:"content" validate:"required"`
	SourceURL         string            `firestore:"sourceUrl" validate:"required,url"`
	Platform          Platform          `firestore:"platform" validate:"required"`
	OriginalID        string            `firestore:"originalId" validate:"required"`
	CommunityID       string            `firestore:"community" validate:"required"`
	OwnerID           string            `firestore:"owner"`
	EngagementMetrics EngagementMetrics `firestore:"engagementMetrics"`
	ScrapingMetadata  ScrapingMetadata  `firestore:"scrapingMetadata"`
	Status            PostStatus        `firestore:"status"`
	Thumbnail         string            `firestore:"thumbnail,omitempty" validate:"omitempty,url"`
	MediaURLs         []string          `firestore:"mediaUrls"`
	LocalEngagement   LocalEngagement   `firestore:"localEngagement"`
	IsPromoted        bool              `firestore:"isPromoted"`

	// DocID holds the storage document ID, not stored in the document itself.
	DocID string `firestore:"-"`
}

// DedupKey is the primary identity used by the deduplicator.
type DedupKey struct {
	Platform   Platform
	OriginalID string
}

func (p *Post) Key() DedupKey {
	return DedupKey{Platform: p.Platform, OriginalID: p.OriginalID}
}
