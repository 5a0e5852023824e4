package scan_test

import (
	"strings"
	"testing"

	"github.com/projectlens/projectlens/internal/scan"
)

// TestStatisticsReport verifies the fixed-format summary counts.
func TestStatisticsReport(testingHandle *testing.T) {
	metadata := scan.NewMetadata()
	metadata.AddScannedFile("file1.py")
	metadata.AddScannedFile("file2.py")
	metadata.AddSkippedDirectory("dir1")
	metadata.AddSkippedDirectory("dir2")
	metadata.AddSkippedFile(scan.SkipReasonPattern, "skip1.txt")
	metadata.AddSkippedFile(scan.SkipReasonSize, "large.bin")

	statisticsReport := metadata.StatisticsReport()
	for _, expectedLine := range []string{
		"Scanned files: 2",
		"Skipped directories: 2",
		"Pattern matching: 1",
		"Exceed file size: 1",
	} {
		if !strings.Contains(statisticsReport, expectedLine) {
			testingHandle.Errorf("statistics report missing %q:\n%s", expectedLine, statisticsReport)
		}
	}
}

// TestInspectionReport verifies the detailed listing enumerates every record.
func TestInspectionReport(testingHandle *testing.T) {
	metadata := scan.NewMetadata()
	metadata.AddScannedFile("file1.py")
	metadata.AddScannedFile("file2.py")
	metadata.AddSkippedDirectory("dir1")
	metadata.AddSkippedFile(scan.SkipReasonPattern, "skip1.txt")
	metadata.AddSkippedFile(scan.SkipReasonSize, "large.bin")

	inspectionReport := metadata.InspectionReport()
	for _, expectedFragment := range []string{"Inspection", "file1.py", "dir1", "skip1.txt", "large.bin"} {
		if !strings.Contains(inspectionReport, expectedFragment) {
			testingHandle.Errorf("inspection report missing %q:\n%s", expectedFragment, inspectionReport)
		}
	}
}

// TestMetadataRejectsDuplicatePaths verifies that a path is recorded at most once across all collections.
func TestMetadataRejectsDuplicatePaths(testingHandle *testing.T) {
	metadata := scan.NewMetadata()
	metadata.AddScannedFile("src/main.py")
	metadata.AddScannedFile("src/main.py")
	metadata.AddSkippedFile(scan.SkipReasonPattern, "src/main.py")
	metadata.AddSkippedDirectory("src/main.py")

	if len(metadata.ScannedFiles) != 1 {
		testingHandle.Errorf("expected one scanned file, got %v", metadata.ScannedFiles)
	}
	if len(metadata.SkippedFiles[scan.SkipReasonPattern]) != 0 {
		testingHandle.Errorf("expected no pattern skips, got %v", metadata.SkippedFiles[scan.SkipReasonPattern])
	}
	if len(metadata.SkippedDirectories) != 0 {
		testingHandle.Errorf("expected no skipped directories, got %v", metadata.SkippedDirectories)
	}
}

// TestMetadataPreservesInsertionOrder verifies that scanned files keep traversal order.
func TestMetadataPreservesInsertionOrder(testingHandle *testing.T) {
	metadata := scan.NewMetadata()
	orderedPaths := []string{"a.py", "sub/b.py", "sub/c.py", "z.py"}
	for _, orderedPath := range orderedPaths {
		metadata.AddScannedFile(orderedPath)
	}
	for pathIndex, orderedPath := range orderedPaths {
		if metadata.ScannedFiles[pathIndex] != orderedPath {
			testingHandle.Fatalf("expected %s at position %d, got %v", orderedPath, pathIndex, metadata.ScannedFiles)
		}
	}
}
