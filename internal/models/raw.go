package models

import "time"

// RawPost is the platform-shaped record produced by one scrape call.
// It is ephemeral: it lives only between extraction and normalization and
// has no persistence identity of its own.
type RawPost struct {
	ID          string
	Title       string
	Content     string
	URL         string
	Author      string
	CreatedAt   time.Time
	Likes       int
	Comments    int
	Shares      int
	Views       int
	Thumbnail   string
	MediaURLs   []string
	Tags        []string
	Platform    Platform
	ReadingTime int // minutes, article platforms only
}
