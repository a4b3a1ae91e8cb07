package planner

import (
	"fmt"
	"regexp"
	"strings"
)

// NormalizeSelector returns the playlist item selector exactly as given.
// yt-dlp is the authority on selector syntax; see ValidateSelector for an
// optional early check.
func NormalizeSelector(raw string) string {
	return raw
}

// selectorItem is yt-dlp's grammar for one comma-separated element of
// --playlist-items: [start][(:|-)[end|inf][:step]]. Every part is optional.
var selectorItem = regexp.MustCompile(`^([+-]?\d+)?(?:[:-]([+-]?\d+|inf(?:inite)?)?(?::([+-]?\d+))?)?$`)

// ValidateSelector rejects selectors yt-dlp would refuse, and nothing else.
// Elements are not trimmed because yt-dlp does not trim them either. An empty
// selector means "all items" and is valid.
func ValidateSelector(raw string) error {
	if raw == "" {
		return nil
	}
	for i, item := range strings.Split(raw, ",") {
		if item == "" {
			return fmt.Errorf("invalid item selector %q: empty element at position %d", raw, i+1)
		}
		m := selectorItem.FindStringSubmatch(item)
		if m == nil {
			return fmt.Errorf("invalid item selector %q: bad element %q", raw, item)
		}
		if step := m[3]; step != "" && strings.Trim(step, "+-0") == "" {
			return fmt.Errorf("invalid item selector %q: step in %q cannot be zero", raw, item)
		}
	}
	return nil
}
