package scraper

import (
	"regexp"
	"strings"
)

var hashtagRegex = regexp.MustCompile(`#(\w+)`)

// topicalVocabulary is the fixed set of keywords matched against content
// to enrich sparse tag markup.
var topicalVocabulary = []string{
	"business", "startup", "entrepreneur", "technology", "innovation",
	"leadership", "management", "strategy", "growth", "marketing",
	"productivity", "success", "career", "professional", "development",
}

// mergeTags combines explicit tag markup, hashtag tokens found in the
// content, and topical-vocabulary matches into one deduplicated set.
func mergeTags(explicit []string, content string) []string {
	seen := make(map[string]bool)
	var tags []string
	add := func(tag string) {
		tag = strings.ToLower(strings.TrimSpace(tag))
		if tag != "" && !seen[tag] {
			seen[tag] = true
			tags = append(tags, tag)
		}
	}

	for _, tag := range explicit {
		add(tag)
	}
	for _, match := range hashtagRegex.FindAllStringSubmatch(content, -1) {
		add(match[1])
	}
	contentLower := strings.ToLower(content)
	for _, keyword := range topicalVocabulary {
		if strings.Contains(contentLower, keyword) {
			add(keyword)
		}
	}
	return tags
}
