package models

import "time"

// ErrorKind classifies failures captured during a scrape run.
type ErrorKind string

const (
	ErrKindConfig    ErrorKind = "config"
	ErrKindNetwork   ErrorKind = "network"
	ErrKindRateLimit ErrorKind = "rate_limit"
	ErrKindPersist   ErrorKind = "persistence"
	ErrKindInternal  ErrorKind = "internal"
)

// PlatformResult summarizes one platform's contribution to a run.
type PlatformResult struct {
	Platform Platform
	Created  int
	Updated  int
	Errors   []RunError
}

// RunError pairs an error classification with its message for the report.
type RunError struct {
	Kind    ErrorKind
	Message string
}

// RunReport is the per-community, per-trigger summary handed to
// operational tooling. Failures land here instead of propagating.
type RunReport struct {
	CommunityID     string
	PlatformResults []PlatformResult
	StartedAt       time.Time
	FinishedAt      time.Time
}

// Totals sums created and updated counts across platforms.
func (r *RunReport) Totals() (created, updated, errs int) {
	for _, pr := range r.PlatformResults {
		created += pr.Created
		updated += pr.Updated
		errs += len(pr.Errors)
	}
	return created, updated, errs
}
