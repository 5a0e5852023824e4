package export_test

import (
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/projectlens/projectlens/internal/export"
	"github.com/projectlens/projectlens/internal/logging"
	"github.com/projectlens/projectlens/internal/scan"
)

// writeExportTestFile creates a file with the specified content, failing the test on error.
func writeExportTestFile(testingHandle *testing.T, filePath string, content []byte) {
	testingHandle.Helper()
	if writeError := os.WriteFile(filePath, content, 0o644); writeError != nil {
		testingHandle.Fatalf("failed to write %s: %v", filePath, writeError)
	}
}

// buildExportFixture creates a project with two text files and one binary file
// and returns the root plus a metadata accumulator listing them in order.
func buildExportFixture(testingHandle *testing.T) (string, *scan.Metadata) {
	testingHandle.Helper()
	rootDirectory := testingHandle.TempDir()
	writeExportTestFile(testingHandle, filepath.Join(rootDirectory, "setup.py"), []byte("from setuptools import setup\n"))
	sourceDirectory := filepath.Join(rootDirectory, "src")
	if makeDirError := os.MkdirAll(sourceDirectory, 0o755); makeDirError != nil {
		testingHandle.Fatalf("failed to create %s: %v", sourceDirectory, makeDirError)
	}
	writeExportTestFile(testingHandle, filepath.Join(sourceDirectory, "main.py"), []byte("def main():\n    pass\n"))
	writeExportTestFile(testingHandle, filepath.Join(rootDirectory, "blob.bin"), []byte{0x00, 0x01, 0xFF})

	metadata := scan.NewMetadata()
	metadata.AddScannedFile("setup.py")
	metadata.AddScannedFile("src/main.py")
	metadata.AddScannedFile("blob.bin")
	return rootDirectory, metadata
}

// TestRenderArtifactFormat verifies the banner, ordered file sections, and summary line.
func TestRenderArtifactFormat(testingHandle *testing.T) {
	rootDirectory, metadata := buildExportFixture(testingHandle)
	artifactWriter := export.NewWriter(logging.NewNopLogger(), nil)

	artifactText, renderError := artifactWriter.Render(rootDirectory, metadata, "root\n└── setup.py\n")
	if renderError != nil {
		testingHandle.Fatalf("Render failed: %v", renderError)
	}

	if !strings.Contains(artifactText, "Project Content Export") {
		testingHandle.Errorf("artifact missing export header:\n%s", artifactText)
	}
	if !strings.Contains(artifactText, "Project Tree:") {
		testingHandle.Errorf("artifact missing tree section:\n%s", artifactText)
	}
	for _, expectedFragment := range []string{
		"File: setup.py",
		"from setuptools import setup",
		"End of file: setup.py",
		"File: src/main.py",
	} {
		if !strings.Contains(artifactText, expectedFragment) {
			testingHandle.Errorf("artifact missing %q:\n%s", expectedFragment, artifactText)
		}
	}

	setupIndex := strings.Index(artifactText, "File: setup.py")
	mainIndex := strings.Index(artifactText, "File: src/main.py")
	if setupIndex < 0 || mainIndex < 0 || setupIndex > mainIndex {
		testingHandle.Errorf("file sections out of scanned order")
	}

	if !strings.Contains(artifactText, "Summary: 3 files") {
		testingHandle.Errorf("artifact missing summary line:\n%s", artifactText)
	}
}

// TestRenderOmitsBinaryContent verifies binary file content is replaced with a note.
func TestRenderOmitsBinaryContent(testingHandle *testing.T) {
	rootDirectory, metadata := buildExportFixture(testingHandle)
	artifactWriter := export.NewWriter(logging.NewNopLogger(), nil)

	artifactText, renderError := artifactWriter.Render(rootDirectory, metadata, "")
	if renderError != nil {
		testingHandle.Fatalf("Render failed: %v", renderError)
	}

	if !strings.Contains(artifactText, "(binary content omitted)") {
		testingHandle.Errorf("artifact missing binary omission note:\n%s", artifactText)
	}
	if strings.Contains(artifactText, "\x00") {
		testingHandle.Errorf("artifact contains raw binary bytes")
	}
}

// TestWriteProjectCreatesArtifact verifies the artifact lands at the requested path.
func TestWriteProjectCreatesArtifact(testingHandle *testing.T) {
	rootDirectory, metadata := buildExportFixture(testingHandle)
	outputPath := filepath.Join(testingHandle.TempDir(), "custom_output.txt")
	artifactWriter := export.NewWriter(logging.NewNopLogger(), nil)

	if _, writeError := artifactWriter.WriteProject(rootDirectory, outputPath, metadata, ""); writeError != nil {
		testingHandle.Fatalf("WriteProject failed: %v", writeError)
	}

	outputInfo, statError := os.Stat(outputPath)
	if statError != nil {
		testingHandle.Fatalf("expected artifact at %s: %v", outputPath, statError)
	}
	if outputInfo.Size() == 0 {
		testingHandle.Errorf("expected non-empty artifact")
	}
}

// TestWriteProjectSurfacesWriteErrors verifies a failed write returns an error
// while the scan metadata remains valid and inspectable.
func TestWriteProjectSurfacesWriteErrors(testingHandle *testing.T) {
	rootDirectory, metadata := buildExportFixture(testingHandle)
	invalidOutputPath := filepath.Join(testingHandle.TempDir(), "missing", "nested", "out.txt")
	artifactWriter := export.NewWriter(logging.NewNopLogger(), nil)

	if _, writeError := artifactWriter.WriteProject(rootDirectory, invalidOutputPath, metadata, ""); writeError == nil {
		testingHandle.Fatalf("expected write error for %s", invalidOutputPath)
	}
	if len(metadata.ScannedFiles) != 3 {
		testingHandle.Errorf("metadata should remain valid after a failed write, got %v", metadata.ScannedFiles)
	}
	if !strings.Contains(metadata.StatisticsReport(), "Scanned files: 3") {
		testingHandle.Errorf("statistics report should remain usable after a failed write")
	}
}

// TestRenderSkipsVanishedFiles verifies files deleted after the scan are noted, not fatal.
func TestRenderSkipsVanishedFiles(testingHandle *testing.T) {
	rootDirectory, metadata := buildExportFixture(testingHandle)
	if removeError := os.Remove(filepath.Join(rootDirectory, "setup.py")); removeError != nil {
		testingHandle.Fatalf("failed to remove fixture file: %v", removeError)
	}
	artifactWriter := export.NewWriter(logging.NewNopLogger(), nil)

	artifactText, renderError := artifactWriter.Render(rootDirectory, metadata, "")
	if renderError != nil {
		testingHandle.Fatalf("Render failed: %v", renderError)
	}
	if strings.Contains(artifactText, "File: setup.py") {
		testingHandle.Errorf("artifact should not contain a section for a vanished file")
	}
	if !strings.Contains(artifactText, "File: src/main.py") {
		testingHandle.Errorf("artifact missing surviving file section:\n%s", artifactText)
	}
}
