package models

import "time"

// ScrapeTarget is the per-platform scraping configuration a community holds.
type ScrapeTarget struct {
	SourceURL string   `firestore:"sourceUrl" validate:"required,url"`
	Keywords  []string `firestore:"keywords,omitempty"`
	MaxPosts  int      `firestore:"maxPosts,omitempty" validate:"gte=0"`
}

// Community is an administrative grouping that owns a scraping
// configuration and the posts ingested under it. It is created and
// managed outside this core; the pipeline reads it and only ever writes
// LastScrapedAt back.
type Community struct {
	ID                string                    `firestore:"-"`
	Name              string                    `firestore:"name"`
	OwnerID           string                    `firestore:"owner"`
	ScrapingPlatforms []Platform                `firestore:"scrapingPlatforms"`
	ScrapingConfig    map[Platform]ScrapeTarget `firestore:"scrapingConfig"`
	LastScrapedAt     time.Time                 `firestore:"lastScrapedAt"`
	IsActive          bool                      `firestore:"isActive"`
}

// EnabledTargets resolves the platforms that are both enabled and configured.
// Unknown platform names in stored config are ignored.
func (c *Community) EnabledTargets() map[Platform]ScrapeTarget {
	targets := make(map[Platform]ScrapeTarget)
	for _, p := range c.ScrapingPlatforms {
		if !p.Valid() {
			continue
		}
		if t, ok := c.ScrapingConfig[p]; ok {
			targets[p] = t
		}
	}
	return targets
}
