package scan

import (
	"bytes"
	"os"
	"path/filepath"

	"github.com/projectlens/projectlens/internal/utils"
)

// Tree connectors and continuation guides.
const (
	treeBranchConnector = "├── "
	treeLastConnector   = "└── "
	treeBranchPadding   = "│   "
	treeLastPadding     = "    "
)

// warningReadDirectoryFormat reports a directory whose entries cannot be listed.
const warningReadDirectoryFormat = "Skipping contents of %s: %v"

// RenderTree renders an indented ASCII tree of the directory structure rooted
// at rootPath. Pruned directories are omitted exactly as during a scan, and
// files appear whenever they pass the exclude, include, and extension rules.
// The size ceiling is deliberately not applied: the tree is a structural
// preview, not an export manifest.
func (engine *Engine) RenderTree(rootPath string) (string, error) {
	cleanedRootPath, rootError := statDirectory(rootPath)
	if rootError != nil {
		return "", rootError
	}

	var buffer bytes.Buffer
	buffer.WriteString(filepath.Base(cleanedRootPath) + "\n")
	engine.renderTreeLevel(&buffer, cleanedRootPath, cleanedRootPath, "")
	return buffer.String(), nil
}

// renderTreeLevel writes one directory level and recurses into subdirectories.
func (engine *Engine) renderTreeLevel(buffer *bytes.Buffer, currentDirectoryPath string, rootDirectoryPath string, linePrefix string) {
	directoryEntries, readDirectoryError := os.ReadDir(currentDirectoryPath)
	if readDirectoryError != nil {
		engine.logger.Warnf(warningReadDirectoryFormat, currentDirectoryPath, readDirectoryError)
		return
	}

	visibleEntries := make([]os.DirEntry, 0, len(directoryEntries))
	for _, directoryEntry := range directoryEntries {
		childPath := filepath.Join(currentDirectoryPath, directoryEntry.Name())
		relativeChildPath := utils.RelativePathOrSelf(childPath, rootDirectoryPath)
		if engine.treeEntryVisible(directoryEntry, relativeChildPath) {
			visibleEntries = append(visibleEntries, directoryEntry)
		}
	}

	for entryIndex, directoryEntry := range visibleEntries {
		isLastSibling := entryIndex == len(visibleEntries)-1
		connector := treeBranchConnector
		childPrefix := linePrefix + treeBranchPadding
		if isLastSibling {
			connector = treeLastConnector
			childPrefix = linePrefix + treeLastPadding
		}
		buffer.WriteString(linePrefix + connector + directoryEntry.Name() + "\n")
		if directoryEntry.IsDir() {
			engine.renderTreeLevel(buffer, filepath.Join(currentDirectoryPath, directoryEntry.Name()), rootDirectoryPath, childPrefix)
		}
	}
}

// treeEntryVisible applies the shared selection rules, minus the size ceiling.
func (engine *Engine) treeEntryVisible(directoryEntry os.DirEntry, relativePath string) bool {
	if MatchesAnyPattern(relativePath, engine.options.Exclude) {
		return false
	}
	if directoryEntry.IsDir() {
		return true
	}
	if MatchesAnyPattern(relativePath, engine.options.Include) {
		return true
	}
	return MatchesExtension(directoryEntry.Name(), engine.options.Extensions)
}
