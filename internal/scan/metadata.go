package scan

import (
	"bytes"
	"fmt"
)

// Skip reasons recorded in Metadata.SkippedFiles.
const (
	// SkipReasonPattern marks files excluded by a pattern match.
	SkipReasonPattern = "pattern_matching"
	// SkipReasonSize marks eligible files rejected by the size ceiling.
	SkipReasonSize = "exceeded_size"
)

// skipReasonLabels maps skip reasons to the human-readable report labels.
var skipReasonLabels = map[string]string{
	SkipReasonPattern: "Pattern matching",
	SkipReasonSize:    "Exceed file size",
}

// reportedReasonOrder fixes the order skip reasons appear in reports.
var reportedReasonOrder = []string{SkipReasonPattern, SkipReasonSize}

const reportRuleLine = "----------------------------------------"

// Metadata accumulates the outcome of a single scan. One instance belongs to
// exactly one scan invocation: the traversal engine mutates it during the walk
// and afterwards it is read-only for reporting. A relative path appears in at
// most one of ScannedFiles and the SkippedFiles lists.
type Metadata struct {
	// ScannedFiles lists eligible files that passed the size check, in
	// traversal order.
	ScannedFiles []string
	// SkippedDirectories lists directories pruned from the traversal, in
	// traversal order.
	SkippedDirectories []string
	// SkippedFiles maps a skip reason to the relative paths rejected for it.
	SkippedFiles map[string][]string

	recordedPaths map[string]struct{}
}

// NewMetadata constructs an empty accumulator for one scan invocation.
func NewMetadata() *Metadata {
	return &Metadata{
		SkippedFiles:  map[string][]string{},
		recordedPaths: map[string]struct{}{},
	}
}

// AddScannedFile appends relativePath to the scanned file sequence.
// Paths already recorded anywhere are ignored, keeping the collections disjoint.
func (metadata *Metadata) AddScannedFile(relativePath string) {
	if !metadata.recordPath(relativePath) {
		return
	}
	metadata.ScannedFiles = append(metadata.ScannedFiles, relativePath)
}

// AddSkippedDirectory records a pruned directory.
func (metadata *Metadata) AddSkippedDirectory(relativePath string) {
	if !metadata.recordPath(relativePath) {
		return
	}
	metadata.SkippedDirectories = append(metadata.SkippedDirectories, relativePath)
}

// AddSkippedFile records a file skipped for the given reason.
func (metadata *Metadata) AddSkippedFile(skipReason string, relativePath string) {
	if !metadata.recordPath(relativePath) {
		return
	}
	if metadata.SkippedFiles == nil {
		metadata.SkippedFiles = map[string][]string{}
	}
	metadata.SkippedFiles[skipReason] = append(metadata.SkippedFiles[skipReason], relativePath)
}

// recordPath marks relativePath as seen and reports whether it was new.
func (metadata *Metadata) recordPath(relativePath string) bool {
	if metadata.recordedPaths == nil {
		metadata.recordedPaths = map[string]struct{}{}
	}
	if _, alreadyRecorded := metadata.recordedPaths[relativePath]; alreadyRecorded {
		return false
	}
	metadata.recordedPaths[relativePath] = struct{}{}
	return true
}

// StatisticsReport renders the fixed-format scan summary.
func (metadata *Metadata) StatisticsReport() string {
	var buffer bytes.Buffer
	buffer.WriteString("Scan Statistics\n")
	buffer.WriteString(reportRuleLine + "\n")
	fmt.Fprintf(&buffer, "Scanned files: %d\n", len(metadata.ScannedFiles))
	fmt.Fprintf(&buffer, "Skipped directories: %d\n", len(metadata.SkippedDirectories))
	buffer.WriteString("Skipped files:\n")
	for _, skipReason := range reportedReasonOrder {
		fmt.Fprintf(&buffer, "  %s: %d\n", skipReasonLabels[skipReason], len(metadata.SkippedFiles[skipReason]))
	}
	return buffer.String()
}

// InspectionReport renders a detailed listing of every scanned file, skipped
// directory, and skipped file grouped by reason.
func (metadata *Metadata) InspectionReport() string {
	var buffer bytes.Buffer
	buffer.WriteString("Scan Inspection\n")
	buffer.WriteString(reportRuleLine + "\n")

	buffer.WriteString("Scanned files:\n")
	writeIndentedList(&buffer, metadata.ScannedFiles)

	buffer.WriteString("Skipped directories:\n")
	writeIndentedList(&buffer, metadata.SkippedDirectories)

	for _, skipReason := range reportedReasonOrder {
		fmt.Fprintf(&buffer, "Skipped files (%s):\n", skipReasonLabels[skipReason])
		writeIndentedList(&buffer, metadata.SkippedFiles[skipReason])
	}
	return buffer.String()
}

// writeIndentedList writes each entry on its own indented line, or a none
// marker when the list is empty.
func writeIndentedList(buffer *bytes.Buffer, entries []string) {
	if len(entries) == 0 {
		buffer.WriteString("  (none)\n")
		return
	}
	for _, entry := range entries {
		buffer.WriteString("  " + entry + "\n")
	}
}
