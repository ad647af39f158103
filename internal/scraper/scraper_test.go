package scraper

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"net/http/httptest"
	"strings"
	"sync"
	"testing"
	"time"

	"github.com/communityforge/ingest/internal/config"
	"github.com/communityforge/ingest/internal/models"
)

func testConfig(delay time.Duration) *config.Config {
	delays := make(map[models.Platform]time.Duration, len(models.AllPlatforms))
	for _, p := range models.AllPlatforms {
		delays[p] = delay
	}
	return &config.Config{
		RequestTimeout:  5 * time.Second,
		UserAgent:       "test-agent",
		DefaultMaxPosts: 50,
		RateLimitDelays: delays,
	}
}

func mediumArticle(slug, title, subtitle string) string {
	return fmt.Sprintf(`<article>
		<h3 class="graf--title">%s</h3>
		<p class="graf--subtitle">%s</p>
		<a href="/@acme/%s"></a>
		<div class="postMetaInline-authorLockup"><a href="/@jane">Jane Doe</a></div>
		<time datetime="2024-03-10T12:00:00Z">Mar 10, 2024</time>
		<span class="clapCount">1.2K</span>
		<span class="readingTime">7 min read</span>
	</article>`, title, subtitle, slug)
}

func mediumPage(articles ...string) string {
	return "<html><body>" + strings.Join(articles, "\n") + "</body></html>"
}

func TestMediumScraper_ExtractsSignals(t *testing.T) {
	page := mediumPage(mediumArticle("scaling-go-1a2b3c4d5e6f", "Scaling Go Services", "How our #golang startup scaled ingestion"))
	ts := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		fmt.Fprint(w, page)
	}))
	defer ts.Close()

	s := NewMedium(testConfig(0), DefaultSelectors().Medium)
	posts, err := s.ScrapeContent(context.Background(), Config{SourceURL: ts.URL + "/@acme", MaxPosts: 10})
	if err != nil {
		t.Fatalf("ScrapeContent() error = %v", err)
	}
	if len(posts) != 1 {
		t.Fatalf("expected 1 post, got %d", len(posts))
	}

	post := posts[0]
	if post.Title != "Scaling Go Services" {
		t.Errorf("Title = %q", post.Title)
	}
	if post.Likes != 1200 {
		t.Errorf("Likes = %d, want 1200", post.Likes)
	}
	if post.ReadingTime != 7 {
		t.Errorf("ReadingTime = %d, want 7", post.ReadingTime)
	}
	if post.Author != "Jane Doe" {
		t.Errorf("Author = %q", post.Author)
	}
	if post.ID != "medium_scaling-go-1a2b3c4d5e6f" {
		t.Errorf("ID = %q, want segment-derived id", post.ID)
	}
	if post.Platform != models.PlatformMedium {
		t.Errorf("Platform = %q", post.Platform)
	}
	if post.CreatedAt.IsZero() {
		t.Error("CreatedAt not parsed from datetime attribute")
	}

	wantTags := map[string]bool{"golang": true, "startup": true}
	for _, tag := range post.Tags {
		delete(wantTags, tag)
	}
	if len(wantTags) != 0 {
		t.Errorf("missing tags %v in %v", wantTags, post.Tags)
	}
}

func TestMediumScraper_ResolvesRelativeThumbnail(t *testing.T) {
	page := mediumPage(`<article>
		<h3 class="graf--title">Post With Banner</h3>
		<a href="/@acme/banner-post-aabbccdd0001"></a>
		<img src="/banner.png"/>
	</article>`)
	ts := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		fmt.Fprint(w, page)
	}))
	defer ts.Close()

	s := NewMedium(testConfig(0), DefaultSelectors().Medium)
	posts, err := s.ScrapeContent(context.Background(), Config{SourceURL: ts.URL + "/@acme", MaxPosts: 5})
	if err != nil {
		t.Fatalf("ScrapeContent() error = %v", err)
	}
	if len(posts) != 1 {
		t.Fatalf("expected 1 post, got %d", len(posts))
	}
	if posts[0].Thumbnail != ts.URL+"/banner.png" {
		t.Errorf("Thumbnail = %q, want absolute URL against the page origin", posts[0].Thumbnail)
	}
}

func TestMediumScraper_MaxPostsCap(t *testing.T) {
	var articles []string
	for i := 0; i < 10; i++ {
		articles = append(articles, mediumArticle(fmt.Sprintf("post-%d-aabbccdd%04d", i, i), fmt.Sprintf("Post %d", i), "body"))
	}
	page := mediumPage(articles...)
	ts := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		fmt.Fprint(w, page)
	}))
	defer ts.Close()

	s := NewMedium(testConfig(0), DefaultSelectors().Medium)
	posts, err := s.ScrapeContent(context.Background(), Config{SourceURL: ts.URL + "/@acme", MaxPosts: 5})
	if err != nil {
		t.Fatalf("ScrapeContent() error = %v", err)
	}
	if len(posts) != 5 {
		t.Errorf("expected 5 posts with MaxPosts=5, got %d", len(posts))
	}
}

func TestMediumScraper_KeywordFilter(t *testing.T) {
	page := mediumPage(
		mediumArticle("one-aabbccdd0001", "Launching a Startup", "funding rounds explained"),
		mediumArticle("two-aabbccdd0002", "Weekend Recipes", "ten pasta dishes"),
		mediumArticle("three-aabbccdd0003", "Engineering Culture", "how STARTUP teams hire"),
	)
	ts := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		fmt.Fprint(w, page)
	}))
	defer ts.Close()

	s := NewMedium(testConfig(0), DefaultSelectors().Medium)
	posts, err := s.ScrapeContent(context.Background(), Config{
		SourceURL: ts.URL + "/@acme",
		Keywords:  []string{"startup"},
		MaxPosts:  10,
	})
	if err != nil {
		t.Fatalf("ScrapeContent() error = %v", err)
	}
	if len(posts) != 2 {
		t.Fatalf("expected 2 matching posts, got %d", len(posts))
	}
	for _, post := range posts {
		text := strings.ToLower(post.Title + " " + post.Content + " " + strings.Join(post.Tags, " "))
		if !strings.Contains(text, "startup") {
			t.Errorf("post %q retained without keyword match", post.Title)
		}
	}
}

func TestMediumScraper_DropsElementsWithoutTitle(t *testing.T) {
	page := mediumPage(
		mediumArticle("keep-aabbccdd0001", "Kept Post", "body"),
		`<article><img src="/banner.png"/></article>`,
	)
	ts := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		fmt.Fprint(w, page)
	}))
	defer ts.Close()

	s := NewMedium(testConfig(0), DefaultSelectors().Medium)
	posts, err := s.ScrapeContent(context.Background(), Config{SourceURL: ts.URL + "/@acme", MaxPosts: 10})
	if err != nil {
		t.Fatalf("unextractable element should not be an error, got %v", err)
	}
	if len(posts) != 1 {
		t.Fatalf("expected 1 post, got %d", len(posts))
	}
	if posts[0].Title != "Kept Post" {
		t.Errorf("wrong post kept: %q", posts[0].Title)
	}
}

func TestMediumScraper_RateLimitRetriesOnce(t *testing.T) {
	var mu sync.Mutex
	requests := 0
	page := mediumPage(mediumArticle("post-aabbccdd0001", "After Backoff", "body"))
	ts := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		mu.Lock()
		requests++
		first := requests == 1
		mu.Unlock()
		if first {
			w.WriteHeader(http.StatusTooManyRequests)
			return
		}
		fmt.Fprint(w, page)
	}))
	defer ts.Close()

	s := NewMedium(testConfig(10*time.Millisecond), DefaultSelectors().Medium)
	posts, err := s.ScrapeContent(context.Background(), Config{SourceURL: ts.URL + "/@acme", MaxPosts: 5})
	if err != nil {
		t.Fatalf("expected retry to succeed, got %v", err)
	}
	if len(posts) != 1 {
		t.Errorf("expected 1 post after retry, got %d", len(posts))
	}
	mu.Lock()
	defer mu.Unlock()
	if requests != 2 {
		t.Errorf("expected exactly 2 requests (429 then 200), got %d", requests)
	}
}

func TestMediumScraper_SustainedRateLimitSurfaces(t *testing.T) {
	ts := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusTooManyRequests)
	}))
	defer ts.Close()

	s := NewMedium(testConfig(time.Millisecond), DefaultSelectors().Medium)
	_, err := s.ScrapeContent(context.Background(), Config{SourceURL: ts.URL + "/@acme", MaxPosts: 5})
	var rateErr *RateLimitError
	if !errors.As(err, &rateErr) {
		t.Fatalf("expected RateLimitError after second 429, got %v", err)
	}
}

func TestMediumScraper_PacingBetweenPages(t *testing.T) {
	delay := 80 * time.Millisecond
	var mu sync.Mutex
	var fetchTimes []time.Time

	var firstPageArticles []string
	for i := 0; i < 10; i++ {
		firstPageArticles = append(firstPageArticles, mediumArticle(fmt.Sprintf("p0-%d-aabbccdd%04d", i, i), fmt.Sprintf("First %d", i), "body"))
	}
	secondPage := mediumPage(mediumArticle("p1-aabbccddeeff", "Second Page", "body"))

	ts := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		mu.Lock()
		fetchTimes = append(fetchTimes, time.Now())
		mu.Unlock()
		if r.URL.Query().Get("page") == "" {
			fmt.Fprint(w, mediumPage(firstPageArticles...))
			return
		}
		fmt.Fprint(w, secondPage)
	}))
	defer ts.Close()

	s := NewMedium(testConfig(delay), DefaultSelectors().Medium)
	if _, err := s.ScrapeContent(context.Background(), Config{SourceURL: ts.URL + "/@acme", MaxPosts: 20}); err != nil {
		t.Fatalf("ScrapeContent() error = %v", err)
	}

	mu.Lock()
	defer mu.Unlock()
	if len(fetchTimes) != 2 {
		t.Fatalf("expected 2 page fetches, got %d", len(fetchTimes))
	}
	if gap := fetchTimes[1].Sub(fetchTimes[0]); gap < delay-5*time.Millisecond {
		t.Errorf("page fetches %v apart, want >= %v", gap, delay)
	}
}

func TestMediumScraper_ConfigError(t *testing.T) {
	s := NewMedium(testConfig(0), DefaultSelectors().Medium)
	_, err := s.ScrapeContent(context.Background(), Config{SourceURL: "https://medium.com", MaxPosts: 5})
	var configErr *ConfigError
	if !errors.As(err, &configErr) {
		t.Fatalf("expected ConfigError for sourceless URL, got %v", err)
	}
}

func TestMediumScraper_NetworkError(t *testing.T) {
	ts := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusInternalServerError)
	}))
	defer ts.Close()

	s := NewMedium(testConfig(0), DefaultSelectors().Medium)
	_, err := s.ScrapeContent(context.Background(), Config{SourceURL: ts.URL + "/@acme", MaxPosts: 5})
	var netErr *NetworkError
	if !errors.As(err, &netErr) {
		t.Fatalf("expected NetworkError for 500, got %v", err)
	}
	if netErr.StatusCode != http.StatusInternalServerError {
		t.Errorf("StatusCode = %d, want 500", netErr.StatusCode)
	}
}

func TestMediumScraper_StopsOnEmptyPage(t *testing.T) {
	var mu sync.Mutex
	requests := 0
	var articles []string
	for i := 0; i < 10; i++ {
		articles = append(articles, mediumArticle(fmt.Sprintf("p-%d-aabbccdd%04d", i, i), fmt.Sprintf("Post %d", i), "body"))
	}
	ts := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		mu.Lock()
		requests++
		mu.Unlock()
		if r.URL.Query().Get("page") == "" {
			fmt.Fprint(w, mediumPage(articles...))
			return
		}
		fmt.Fprint(w, mediumPage())
	}))
	defer ts.Close()

	s := NewMedium(testConfig(0), DefaultSelectors().Medium)
	posts, err := s.ScrapeContent(context.Background(), Config{SourceURL: ts.URL + "/@acme", MaxPosts: 30})
	if err != nil {
		t.Fatalf("ScrapeContent() error = %v", err)
	}
	if len(posts) != 10 {
		t.Errorf("expected 10 posts, got %d", len(posts))
	}
	mu.Lock()
	defer mu.Unlock()
	if requests != 2 {
		t.Errorf("expected scraping to stop after empty page (2 fetches), got %d", requests)
	}
}

func TestSourceParsers(t *testing.T) {
	tests := []struct {
		name    string
		fn      func(string) (string, error)
		input   string
		want    string
		wantErr bool
	}{
		{name: "Medium user", fn: mediumSource, input: "https://medium.com/@acme", want: "@acme"},
		{name: "Medium publication", fn: mediumSource, input: "https://medium.com/better-programming", want: "better-programming"},
		{name: "Medium subdomain", fn: mediumSource, input: "https://engineering.medium.com", want: "engineering"},
		{name: "Medium root", fn: mediumSource, input: "https://medium.com", wantErr: true},
		{name: "Twitter handle", fn: twitterSource, input: "https://twitter.com/@acme", want: "acme"},
		{name: "Twitter bare handle", fn: twitterSource, input: "https://x.com/acme", want: "acme"},
		{name: "Twitter root", fn: twitterSource, input: "https://twitter.com/", wantErr: true},
		{name: "LinkedIn company", fn: linkedInSource, input: "https://www.linkedin.com/company/acme", want: "acme"},
		{name: "LinkedIn member", fn: linkedInSource, input: "https://www.linkedin.com/in/jane-doe", want: "jane-doe"},
		{name: "LinkedIn root", fn: linkedInSource, input: "https://www.linkedin.com/", wantErr: true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, err := tt.fn(tt.input)
			if (err != nil) != tt.wantErr {
				t.Fatalf("error = %v, wantErr %v", err, tt.wantErr)
			}
			if got != tt.want {
				t.Errorf("got %q, want %q", got, tt.want)
			}
		})
	}
}
