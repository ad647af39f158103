package config

import (
	"fmt"
	"log/slog"
	"os"
	"strconv"
	"strings"
	"time"

	"github.com/communityforge/ingest/internal/models"
)

const (
	defaultRateLimitDelay = 3 * time.Second
	defaultRequestTimeout = 15 * time.Second
	defaultMaxPosts       = 50
	defaultCronSpec       = "@hourly"

	// Browser-like identity for outbound requests. Basic header spoofing
	// is the extent of anti-bot handling here.
	defaultUserAgent = "Mozilla/5.0 (Windows NT 10.0; Win64; x64) AppleWebKit/537.36 (KHTML, like Gecko) Chrome/120.0.0.0 Safari/537.36"
)

type Config struct {
	ProjectID       string
	Port            string
	CronSpec        string
	DefaultMaxPosts int
	RequestTimeout  time.Duration
	UserAgent       string

	// RateLimitDelays holds the minimum inter-request delay per platform.
	RateLimitDelays map[models.Platform]time.Duration

	// EstimateMissingMetrics opts into the reproducible engagement
	// estimator for platforms that do not expose counters. Off by
	// default so re-runs stay byte-identical.
	EstimateMissingMetrics bool
}

func Load() (*Config, error) {
	projectID := os.Getenv("GOOGLE_CLOUD_PROJECT")
	if projectID == "" {
		return nil, fmt.Errorf("GOOGLE_CLOUD_PROJECT environment variable is required but not set")
	}

	port := os.Getenv("PORT")
	if port == "" {
		port = "8080"
		slog.Info("Defaulting to port", "port", port)
	}

	cronSpec := os.Getenv("SCRAPE_SCHEDULE")
	if cronSpec == "" {
		cronSpec = defaultCronSpec
		slog.Info("Defaulting scrape schedule", "schedule", cronSpec)
	}

	maxPosts := defaultMaxPosts
	if v := os.Getenv("DEFAULT_MAX_POSTS"); v != "" {
		parsed, err := strconv.Atoi(v)
		if err != nil || parsed <= 0 {
			return nil, fmt.Errorf("invalid DEFAULT_MAX_POSTS %q", v)
		}
		maxPosts = parsed
	}

	requestTimeout := defaultRequestTimeout
	if v := os.Getenv("REQUEST_TIMEOUT"); v != "" {
		parsed, err := time.ParseDuration(v)
		if err != nil {
			return nil, fmt.Errorf("invalid REQUEST_TIMEOUT %q: %w", v, err)
		}
		requestTimeout = parsed
	}

	userAgent := os.Getenv("SCRAPER_USER_AGENT")
	if userAgent == "" {
		userAgent = defaultUserAgent
	}

	delays, err := loadRateLimitDelays()
	if err != nil {
		return nil, err
	}

	return &Config{
		ProjectID:              projectID,
		Port:                   port,
		CronSpec:               cronSpec,
		DefaultMaxPosts:        maxPosts,
		RequestTimeout:         requestTimeout,
		UserAgent:              userAgent,
		RateLimitDelays:        delays,
		EstimateMissingMetrics: os.Getenv("ESTIMATE_MISSING_METRICS") == "true",
	}, nil
}

// loadRateLimitDelays reads the global RATE_LIMIT_DELAY_MS default and any
// per-platform overrides such as MEDIUM_RATE_LIMIT_DELAY_MS.
func loadRateLimitDelays() (map[models.Platform]time.Duration, error) {
	base := defaultRateLimitDelay
	if v := os.Getenv("RATE_LIMIT_DELAY_MS"); v != "" {
		ms, err := strconv.Atoi(v)
		if err != nil || ms < 0 {
			return nil, fmt.Errorf("invalid RATE_LIMIT_DELAY_MS %q", v)
		}
		base = time.Duration(ms) * time.Millisecond
	}

	delays := make(map[models.Platform]time.Duration, len(models.AllPlatforms))
	for _, p := range models.AllPlatforms {
		delays[p] = base
		key := strings.ToUpper(string(p)) + "_RATE_LIMIT_DELAY_MS"
		if v := os.Getenv(key); v != "" {
			ms, err := strconv.Atoi(v)
			if err != nil || ms < 0 {
				return nil, fmt.Errorf("invalid %s %q", key, v)
			}
			delays[p] = time.Duration(ms) * time.Millisecond
		}
	}
	return delays, nil
}
