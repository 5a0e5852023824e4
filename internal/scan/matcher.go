// Package scan implements the file selection engine: pattern, extension, and
// size predicates, the traversal that applies them, and the tree renderer that
// shares their rules.
package scan

import (
	"strings"

	doublestar "github.com/bmatcuk/doublestar/v4"
)

// pathSegmentSeparator is the single separator convention for relative paths.
const pathSegmentSeparator = "/"

// MatchesAnyPattern reports whether any pattern matches the slash-separated
// relative path using shell-style glob semantics. A pattern matches when it
// matches the full relative path or any individual path segment, so a bare
// name such as "tests" excludes a directory of that name at any depth and
// "config.yaml" includes the file wherever it is nested.
func MatchesAnyPattern(relativePath string, patterns []string) bool {
	if relativePath == "" || len(patterns) == 0 {
		return false
	}
	normalizedPath := strings.ReplaceAll(relativePath, "\\", pathSegmentSeparator)
	pathSegments := strings.Split(normalizedPath, pathSegmentSeparator)

	for _, patternValue := range patterns {
		normalizedPattern := strings.ReplaceAll(patternValue, "\\", pathSegmentSeparator)
		if normalizedPattern == "" {
			continue
		}
		if matched, matchError := doublestar.Match(normalizedPattern, normalizedPath); matchError == nil && matched {
			return true
		}
		for _, pathSegment := range pathSegments {
			if matched, matchError := doublestar.Match(normalizedPattern, pathSegment); matchError == nil && matched {
				return true
			}
		}
	}
	return false
}
