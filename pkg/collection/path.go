package collection

import "strings"

// PathSeparator delimits the segments of an item path.
const PathSeparator = "/"

// ParsePath splits a slash-delimited item path into its segments. Leading and
// trailing separators are ignored and empty or blank segments are dropped,
// so "", "/" and "  " all yield no segments.
func ParsePath(path string) []string {
	var segments []string
	for _, part := range strings.Split(strings.Trim(path, PathSeparator), PathSeparator) {
		if strings.TrimSpace(part) == "" {
			continue
		}
		segments = append(segments, part)
	}
	return segments
}

// JoinPath is the inverse of ParsePath.
func JoinPath(segments []string) string {
	return strings.Join(segments, PathSeparator)
}
