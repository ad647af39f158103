package util

import (
	"math"
	"regexp"
	"strconv"
	"strings"
)

func SafeAtoi(s string) int {
	i, err := strconv.Atoi(strings.TrimSpace(s))
	if err != nil {
		return 0
	}
	return i
}

var nonNumericRegex = regexp.MustCompile(`[^\d]`)

func CleanNumericString(s string) string {
	return nonNumericRegex.ReplaceAllString(s, "")
}

var compactNumberRegex = regexp.MustCompile(`([\d.]+)\s*([KMBkmb]?)`)

// ParseCompactNumber parses platform shorthand counters such as "1.2K",
// "3M" or "87" into an integer, flooring fractional values. Returns 0
// when no number is present.
func ParseCompactNumber(s string) int {
	match := compactNumberRegex.FindStringSubmatch(strings.TrimSpace(s))
	if match == nil {
		return 0
	}

	num, err := strconv.ParseFloat(match[1], 64)
	if err != nil {
		return 0
	}

	switch strings.ToUpper(match[2]) {
	case "K":
		num *= 1e3
	case "M":
		num *= 1e6
	case "B":
		num *= 1e9
	}
	return int(math.Floor(num))
}

var leadingIntRegex = regexp.MustCompile(`\d+`)

// ParseLeadingInt extracts the first integer from free text, e.g. the "7"
// in "7 min read". Returns 0 when none is found.
func ParseLeadingInt(s string) int {
	match := leadingIntRegex.FindString(s)
	if match == "" {
		return 0
	}
	return SafeAtoi(match)
}
