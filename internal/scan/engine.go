package scan

import (
	"fmt"
	"io/fs"
	"os"
	"path/filepath"

	"github.com/projectlens/projectlens/internal/config"
	"github.com/projectlens/projectlens/internal/logging"
	"github.com/projectlens/projectlens/internal/utils"
)

const (
	// debugSkipPatternFormat reports entries excluded by a pattern match.
	debugSkipPatternFormat = "Skipping %s: matched exclude pattern"
	// debugSkipSizeFormat reports eligible files rejected by the size ceiling.
	debugSkipSizeFormat = "Skipping %s: exceeds maximum file size"
	// warningAccessFormat reports unreadable entries that are skipped.
	warningAccessFormat = "Skipping %s: %v"
	// infoScanCompleteFormat summarizes a finished scan.
	infoScanCompleteFormat = "Scan complete: %d files scanned, %d directories skipped, %d files skipped"

	// errorAbsolutePathFormat reports failure to resolve the scan root.
	errorAbsolutePathFormat = "getting absolute path for %s: %w"
)

// Engine walks a directory tree once, applying the exclude, include,
// extension, and size rules in precedence order and recording every decision
// in a Metadata accumulator.
type Engine struct {
	options *config.ScanOptions
	logger  logging.Logger
}

// NewEngine constructs a traversal engine for the given options. A nil logger
// is replaced with a no-op implementation.
func NewEngine(options *config.ScanOptions, logger logging.Logger) *Engine {
	if logger == nil {
		logger = logging.NewNopLogger()
	}
	return &Engine{options: options, logger: logger}
}

// Scan walks rootPath top-down and returns the populated accumulator.
//
// Directories matching an exclude pattern are pruned: they are recorded in
// SkippedDirectories and nothing beneath them is evaluated. Files are tested
// exclude first, then include, then extension; eligible files additionally
// pass the size ceiling before landing in ScannedFiles. Unreadable entries
// are logged and skipped, never fatal; symbolic links are not followed.
func (engine *Engine) Scan(rootPath string) (*Metadata, error) {
	absoluteRootPath, absolutePathError := filepath.Abs(rootPath)
	if absolutePathError != nil {
		return nil, fmt.Errorf(errorAbsolutePathFormat, rootPath, absolutePathError)
	}
	cleanedRootPath := filepath.Clean(absoluteRootPath)

	metadata := NewMetadata()

	directoryWalkError := filepath.WalkDir(cleanedRootPath, func(walkedPath string, directoryEntry fs.DirEntry, accessError error) error {
		if accessError != nil {
			engine.logger.Warnf(warningAccessFormat, walkedPath, accessError)
			if directoryEntry != nil && directoryEntry.IsDir() {
				return filepath.SkipDir
			}
			return nil
		}

		relativePath := utils.RelativePathOrSelf(walkedPath, cleanedRootPath)
		if relativePath == "." {
			// The scan root itself is never excluded.
			return nil
		}

		if directoryEntry.IsDir() {
			if MatchesAnyPattern(relativePath, engine.options.Exclude) {
				metadata.AddSkippedDirectory(relativePath)
				engine.logger.Debugf(debugSkipPatternFormat, relativePath)
				return filepath.SkipDir
			}
			return nil
		}

		if MatchesAnyPattern(relativePath, engine.options.Exclude) {
			metadata.AddSkippedFile(SkipReasonPattern, relativePath)
			engine.logger.Debugf(debugSkipPatternFormat, relativePath)
			return nil
		}

		forcedInclude := MatchesAnyPattern(relativePath, engine.options.Include)
		if !forcedInclude && !MatchesExtension(directoryEntry.Name(), engine.options.Extensions) {
			// Not eligible; silently omitted without a metadata record.
			return nil
		}

		entryInfo, infoError := directoryEntry.Info()
		if infoError != nil {
			engine.logger.Warnf(warningAccessFormat, relativePath, infoError)
			return nil
		}
		if ExceedsSizeLimit(entryInfo.Size(), engine.options.MaxFileSizeKB) {
			metadata.AddSkippedFile(SkipReasonSize, relativePath)
			engine.logger.Debugf(debugSkipSizeFormat, relativePath)
			return nil
		}

		metadata.AddScannedFile(relativePath)
		return nil
	})
	if directoryWalkError != nil {
		return nil, directoryWalkError
	}

	skippedFileCount := 0
	for _, skippedPaths := range metadata.SkippedFiles {
		skippedFileCount += len(skippedPaths)
	}
	engine.logger.Infof(infoScanCompleteFormat, len(metadata.ScannedFiles), len(metadata.SkippedDirectories), skippedFileCount)

	return metadata, nil
}

// Options returns the configuration the engine was constructed with.
func (engine *Engine) Options() *config.ScanOptions {
	return engine.options
}

// statDirectory reports whether rootPath exists and is a directory.
func statDirectory(rootPath string) (string, error) {
	absoluteRootPath, absolutePathError := filepath.Abs(rootPath)
	if absolutePathError != nil {
		return "", fmt.Errorf(errorAbsolutePathFormat, rootPath, absolutePathError)
	}
	cleanedRootPath := filepath.Clean(absoluteRootPath)
	rootInfo, statError := os.Stat(cleanedRootPath)
	if statError != nil {
		return "", statError
	}
	if !rootInfo.IsDir() {
		return "", fmt.Errorf("path %s is not a directory", cleanedRootPath)
	}
	return cleanedRootPath, nil
}
