// Package scheduler triggers community scrape runs on a cron cadence,
// guaranteeing at most one in-flight run per community.
package scheduler

import (
	"context"
	"log/slog"
	"sync"
	"time"

	"github.com/robfig/cron/v3"

	"github.com/communityforge/ingest/internal/models"
	"github.com/communityforge/ingest/internal/pipeline"
	"github.com/communityforge/ingest/internal/util"
)

// runTimeout bounds one community's run so a wedged platform cannot hold
// its in-progress flag forever.
const runTimeout = 10 * time.Minute

// CommunityRunner abstracts the orchestrator.
type CommunityRunner interface {
	RunCommunity(ctx context.Context, community *models.Community) *models.RunReport
}

type Scheduler struct {
	orchestrator CommunityRunner
	communities  pipeline.CommunityStore
	cronSpec     string
	cron         *cron.Cron

	mu         sync.Mutex
	inProgress map[string]bool
}

func New(orchestrator CommunityRunner, communities pipeline.CommunityStore, cronSpec string) *Scheduler {
	return &Scheduler{
		orchestrator: orchestrator,
		communities:  communities,
		cronSpec:     cronSpec,
		inProgress:   make(map[string]bool),
	}
}

// Start registers the cron job and begins triggering runs.
func (s *Scheduler) Start() error {
	s.cron = cron.New()
	if _, err := s.cron.AddFunc(s.cronSpec, s.RunAll); err != nil {
		return err
	}
	s.cron.Start()
	slog.Info("Scheduler started", "schedule", s.cronSpec)
	return nil
}

func (s *Scheduler) Stop() {
	if s.cron != nil {
		s.cron.Stop()
		slog.Info("Scheduler stopped")
	}
}

// RunAll triggers a run for every active community. Communities with a
// run still in flight are skipped, not queued.
func (s *Scheduler) RunAll() {
	ctx := context.Background()

	var communities []models.Community
	err := util.RetryWithBackoff(ctx, 2, time.Second, func(int) error {
		var listErr error
		communities, listErr = s.communities.ListActiveCommunities(ctx)
		return listErr
	})
	if err != nil {
		slog.Error("Failed to list active communities", "error", err)
		return
	}

	var wg sync.WaitGroup
	for i := range communities {
		community := communities[i]
		if !s.tryAcquire(community.ID) {
			slog.Info("Skipping community, previous run still in progress", "community", community.ID)
			continue
		}

		wg.Add(1)
		go func() {
			defer wg.Done()
			defer s.release(community.ID)
			defer func() {
				if r := recover(); r != nil {
					slog.Error("Panic in community run", "community", community.ID, "panic", r)
				}
			}()

			runCtx, cancel := context.WithTimeout(ctx, runTimeout)
			defer cancel()
			s.orchestrator.RunCommunity(runCtx, &community)
		}()
	}
	wg.Wait()
}

// RunCommunity triggers one community immediately, honoring the same
// exclusivity rule. Returns false when a run is already in flight.
func (s *Scheduler) RunCommunity(ctx context.Context, community *models.Community) (*models.RunReport, bool) {
	if !s.tryAcquire(community.ID) {
		return nil, false
	}
	defer s.release(community.ID)

	runCtx, cancel := context.WithTimeout(ctx, runTimeout)
	defer cancel()
	return s.orchestrator.RunCommunity(runCtx, community), true
}

func (s *Scheduler) tryAcquire(communityID string) bool {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.inProgress[communityID] {
		return false
	}
	s.inProgress[communityID] = true
	return true
}

// release always clears the flag, so no failure can starve a community
// out of future triggers.
func (s *Scheduler) release(communityID string) {
	s.mu.Lock()
	defer s.mu.Unlock()
	delete(s.inProgress, communityID)
}
