package models

import "fmt"

// Platform identifies an external content source.
type Platform string

const (
	PlatformReddit   Platform = "reddit"
	PlatformTwitter  Platform = "twitter"
	PlatformLinkedIn Platform = "linkedin"
	PlatformMedium   Platform = "medium"
)

// AllPlatforms is the closed set of supported platforms.
var AllPlatforms = []Platform{PlatformReddit, PlatformTwitter, PlatformLinkedIn, PlatformMedium}

// ParsePlatform validates a platform string against the supported set.
func ParsePlatform(s string) (Platform, error) {
	for _, p := range AllPlatforms {
		if string(p) == s {
			return p, nil
		}
	}
	return "", fmt.Errorf("unsupported platform %q", s)
}

func (p Platform) Valid() bool {
	_, err := ParsePlatform(string(p))
	return err == nil
}
