package util

import (
	"crypto/sha256"
	"encoding/hex"
	"net/url"
	"regexp"
	"strings"
)

// ResolveURL turns a possibly relative href into an absolute URL against
// the given base. Already-absolute URLs pass through unchanged.
func ResolveURL(baseURL, href string) string {
	href = strings.TrimSpace(href)
	if href == "" {
		return ""
	}
	if strings.HasPrefix(href, "http://") || strings.HasPrefix(href, "https://") {
		return href
	}

	base, err := url.Parse(baseURL)
	if err != nil {
		return ""
	}
	ref, err := url.Parse(href)
	if err != nil {
		return ""
	}
	return base.ResolveReference(ref).String()
}

var trackingParams = []string{
	"utm_source", "utm_medium", "utm_campaign", "utm_term", "utm_content",
	"ref", "source", "gi",
}

// NormalizeURL canonicalizes a post URL so the same content always maps to
// the same string: https scheme, no www prefix, no trailing slash, no
// tracking query params, no fragment.
func NormalizeURL(rawURL string) (string, error) {
	parsedURL, err := url.Parse(rawURL)
	if err != nil {
		return rawURL, err
	}

	if parsedURL.Scheme == "http" {
		parsedURL.Scheme = "https"
	}
	parsedURL.Host = strings.TrimPrefix(parsedURL.Host, "www.")
	if len(parsedURL.Path) > 1 && strings.HasSuffix(parsedURL.Path, "/") {
		parsedURL.Path = strings.TrimSuffix(parsedURL.Path, "/")
		parsedURL.RawPath = ""
	}
	parsedURL.Fragment = ""

	queryParams := parsedURL.Query()
	for _, param := range trackingParams {
		queryParams.Del(param)
	}
	parsedURL.RawQuery = queryParams.Encode()
	return parsedURL.String(), nil
}

var imageExtensions = map[string]bool{
	".jpg": true, ".jpeg": true, ".png": true, ".gif": true,
	".webp": true, ".avif": true, ".svg": true,
}

// IsImageURL reports whether a URL plausibly points at an image, by
// extension or by a recognizable image-CDN path.
func IsImageURL(rawURL string) bool {
	parsedURL, err := url.Parse(rawURL)
	if err != nil {
		return false
	}
	path := strings.ToLower(parsedURL.Path)
	for ext := range imageExtensions {
		if strings.HasSuffix(path, ext) {
			return true
		}
	}
	return strings.Contains(parsedURL.Host, "cdn-images") ||
		strings.Contains(path, "/image/") ||
		strings.Contains(path, "/img/")
}

// idSegmentRegex matches trailing path segments that look like stable
// content identifiers: hex hashes or long alphanumeric slug suffixes.
var idSegmentRegex = regexp.MustCompile(`^[a-zA-Z0-9_-]*[a-f0-9]{8,}$`)

// StableIDFromURL derives a deterministic content identity from a URL.
// When the trailing path segment looks like a content identifier it is
// used directly; otherwise the identity is a hash of the normalized URL,
// so repeated scrapes of the same content always agree.
func StableIDFromURL(platform, rawURL string) string {
	normalized, err := NormalizeURL(rawURL)
	if err != nil {
		normalized = rawURL
	}

	if parsedURL, err := url.Parse(normalized); err == nil {
		segments := strings.Split(strings.Trim(parsedURL.Path, "/"), "/")
		last := segments[len(segments)-1]
		if idSegmentRegex.MatchString(last) {
			return platform + "_" + last
		}
	}

	hash := sha256.Sum256([]byte(normalized))
	return platform + "_" + hex.EncodeToString(hash[:8])
}
