package pipeline

import (
	"context"
	"fmt"
	"log/slog"
	"sort"
	"sync"
	"time"

	"golang.org/x/sync/errgroup"

	"github.com/communityforge/ingest/internal/models"
	"github.com/communityforge/ingest/internal/normalize"
	"github.com/communityforge/ingest/internal/quality"
	"github.com/communityforge/ingest/internal/scraper"
	"github.com/communityforge/ingest/internal/validator"
)

// Orchestrator runs the full ingestion pipeline for one community:
// scrape each enabled platform, then normalize, score, deduplicate and
// persist everything that was extracted. A failing platform is recorded
// in the run report and never blocks the others.
type Orchestrator struct {
	scrapers        map[models.Platform]scraper.Scraper
	posts           PostStore
	communities     CommunityStore
	dedup           *Deduplicator
	validate        *validator.Validator
	defaultMaxPosts int
}

func New(scrapers map[models.Platform]scraper.Scraper, posts PostStore, communities CommunityStore, defaultMaxPosts int) *Orchestrator {
	return &Orchestrator{
		scrapers:        scrapers,
		posts:           posts,
		communities:     communities,
		dedup:           NewDeduplicator(posts),
		validate:        validator.New(),
		defaultMaxPosts: defaultMaxPosts,
	}
}

// RunCommunity executes one scrape run. It always returns a report;
// partial failure is the normal outcome, not an error.
func (o *Orchestrator) RunCommunity(ctx context.Context, community *models.Community) *models.RunReport {
	report := &models.RunReport{
		CommunityID: community.ID,
		StartedAt:   time.Now().UTC(),
	}

	targets := community.EnabledTargets()
	slog.Info("Starting community run", "community", community.ID, "platforms", len(targets))

	var mu sync.Mutex
	g, gctx := errgroup.WithContext(ctx)
	for platform, target := range targets {
		platform, target := platform, target
		g.Go(func() error {
			result := o.runPlatform(gctx, community, platform, target)
			mu.Lock()
			report.PlatformResults = append(report.PlatformResults, result)
			mu.Unlock()
			// Platform failures live in the result, never here.
			return nil
		})
	}
	_ = g.Wait()

	sort.Slice(report.PlatformResults, func(i, j int) bool {
		return report.PlatformResults[i].Platform < report.PlatformResults[j].Platform
	})

	// lastScrapedAt advances even when some platforms failed.
	if err := o.communities.UpdateCommunityLastScraped(ctx, community.ID, time.Now().UTC()); err != nil {
		slog.Warn("Failed to update lastScrapedAt", "community", community.ID, "error", err)
	}

	report.FinishedAt = time.Now().UTC()
	created, updated, errs := report.Totals()
	slog.Info("Finished community run", "community", community.ID, "created", created, "updated", updated, "errors", errs)
	return report
}

func (o *Orchestrator) runPlatform(ctx context.Context, community *models.Community, platform models.Platform, target models.ScrapeTarget) (result models.PlatformResult) {
	result.Platform = platform

	defer func() {
		if r := recover(); r != nil {
			slog.Error("Panic in platform scrape", "platform", platform, "panic", r)
			result.Errors = append(result.Errors, models.RunError{
				Kind:    models.ErrKindInternal,
				Message: fmt.Sprintf("panic: %v", r),
			})
		}
	}()

	s, ok := o.scrapers[platform]
	if !ok {
		result.Errors = append(result.Errors, models.RunError{
			Kind:    models.ErrKindConfig,
			Message: fmt.Sprintf("no scraper registered for platform %q", platform),
		})
		return result
	}

	maxPosts := target.MaxPosts
	if maxPosts <= 0 {
		maxPosts = o.defaultMaxPosts
	}

	rawPosts, err := s.ScrapeContent(ctx, scraper.Config{
		SourceURL: target.SourceURL,
		Keywords:  target.Keywords,
		MaxPosts:  maxPosts,
	})
	if err != nil {
		slog.Warn("Platform scrape failed", "community", community.ID, "platform", platform, "error", err)
		result.Errors = append(result.Errors, models.RunError{
			Kind:    scraper.Classify(err),
			Message: err.Error(),
		})
		return result
	}

	for _, raw := range rawPosts {
		post := normalize.Post(raw, community)
		post.ScrapingMetadata.QualityScore = quality.Score(&post)

		if err := o.validate.ValidateStruct(post); err != nil {
			slog.Warn("Dropping invalid post", "platform", platform, "url", post.SourceURL, "error", err)
			result.Errors = append(result.Errors, models.RunError{
				Kind:    models.ErrKindInternal,
				Message: fmt.Sprintf("invalid post %s: %v", post.SourceURL, err),
			})
			continue
		}

		outcome, err := o.dedup.Ingest(ctx, post)
		if err != nil {
			result.Errors = append(result.Errors, models.RunError{
				Kind:    models.ErrKindPersist,
				Message: err.Error(),
			})
			continue
		}
		switch outcome {
		case OutcomeCreated:
			result.Created++
		case OutcomeUpdated:
			result.Updated++
		}
	}
	return result
}
