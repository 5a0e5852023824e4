// Package config holds the scan configuration surface and its file-based loader.
package config

import (
	"errors"
	"strings"

	"github.com/projectlens/projectlens/internal/utils"
)

// ErrNoExtensions is returned when a scan is configured without any extension.
var ErrNoExtensions = errors.New("at least one file extension must be configured")

// defaultExcludedDirectories lists directory names pruned from every scan:
// version-control metadata, dependency trees, caches, virtual environments,
// and build output.
var defaultExcludedDirectories = []string{
	".git",
	".hg",
	".svn",
	"__pycache__",
	".mypy_cache",
	".pytest_cache",
	".ruff_cache",
	".tox",
	".venv",
	"venv",
	"node_modules",
	"vendor",
	".idea",
	".vscode",
	"dist",
	"build",
	"target",
	".cache",
}

// ScanOptions is the immutable configuration consumed by the traversal engine.
// Construct it through NewScanOptions so extensions are validated and
// normalized and default directory exclusions are merged in.
type ScanOptions struct {
	// Extensions holds normalized (lowercase, dot-free) extension tokens.
	Extensions []string
	// Include holds glob patterns forcing file inclusion regardless of extension.
	Include []string
	// Exclude holds glob patterns evaluated against file and directory names and
	// relative paths, merged with the built-in directory exclusions.
	Exclude []string
	// MaxFileSizeKB caps scanned file size in kilobytes. Zero means unlimited.
	MaxFileSizeKB int64
}

// NewScanOptions validates and normalizes the configuration surface.
// It fails with ErrNoExtensions when the extension set normalizes to empty.
func NewScanOptions(extensions []string, include []string, exclude []string, maxFileSizeKB int64) (*ScanOptions, error) {
	normalizedExtensions := NormalizeExtensions(extensions)
	if len(normalizedExtensions) == 0 {
		return nil, ErrNoExtensions
	}

	mergedExclude := make([]string, 0, len(defaultExcludedDirectories)+len(exclude))
	mergedExclude = append(mergedExclude, defaultExcludedDirectories...)
	for _, pattern := range exclude {
		trimmedPattern := strings.TrimSpace(pattern)
		if trimmedPattern == "" {
			continue
		}
		mergedExclude = append(mergedExclude, trimmedPattern)
	}

	return &ScanOptions{
		Extensions:    normalizedExtensions,
		Include:       utils.DeduplicatePatterns(trimPatterns(include)),
		Exclude:       utils.DeduplicatePatterns(mergedExclude),
		MaxFileSizeKB: maxFileSizeKB,
	}, nil
}

// NormalizeExtensions lowercases extension tokens, strips leading dots and
// whitespace, and removes duplicates and empty entries while preserving order.
// The inputs "py", ".py", and ".PY" all normalize to "py".
func NormalizeExtensions(extensions []string) []string {
	normalized := make([]string, 0, len(extensions))
	for _, extensionToken := range extensions {
		cleanedToken := strings.ToLower(strings.TrimSpace(extensionToken))
		cleanedToken = strings.TrimPrefix(cleanedToken, ".")
		if cleanedToken == "" {
			continue
		}
		normalized = append(normalized, cleanedToken)
	}
	return utils.DeduplicatePatterns(normalized)
}

// DefaultExcludedDirectories returns a copy of the built-in directory exclusions.
func DefaultExcludedDirectories() []string {
	return append([]string{}, defaultExcludedDirectories...)
}

// trimPatterns removes surrounding whitespace and drops empty patterns.
func trimPatterns(patterns []string) []string {
	trimmed := make([]string, 0, len(patterns))
	for _, pattern := range patterns {
		trimmedPattern := strings.TrimSpace(pattern)
		if trimmedPattern == "" {
			continue
		}
		trimmed = append(trimmed, trimmedPattern)
	}
	return trimmed
}
