// Package export writes the concatenated project artifact produced from a scan.
package export

import (
	"bytes"
	"fmt"
	"os"
	"path/filepath"
	"time"

	"github.com/projectlens/projectlens/internal/logging"
	"github.com/projectlens/projectlens/internal/scan"
	"github.com/projectlens/projectlens/internal/tokenizer"
	"github.com/projectlens/projectlens/internal/utils"
)

const (
	bannerLine    = "========================================"
	separatorLine = "----------------------------------------"

	// exportHeaderTitle is the first header line of every artifact.
	exportHeaderTitle = "Project Content Export"

	treeSectionHeader    = "Project Tree:"
	binaryContentOmitted = "(binary content omitted)"

	fileHeaderFormat    = "File: %s\n"
	fileFooterFormat    = "End of file: %s\n"
	generatedLineFormat = "Generated: %s\n"
	rootLineFormat      = "Root: %s\n"
	summaryFormat       = "Summary: %d %s, %s"

	warningReadFileFormat  = "Skipping content of %s: %v"
	warningTokenizerFormat = "Token counting failed for %s: %v"
	successExportFormat    = "Exported %d files to %s"
)

// Writer renders the export artifact from a scan's metadata. The token counter
// is optional; when present a token total is appended to the summary line.
type Writer struct {
	logger       logging.Logger
	tokenCounter tokenizer.Counter
}

// NewWriter constructs an artifact writer. A nil logger is replaced with a
// no-op implementation.
func NewWriter(logger logging.Logger, tokenCounter tokenizer.Counter) *Writer {
	if logger == nil {
		logger = logging.NewNopLogger()
	}
	return &Writer{logger: logger, tokenCounter: tokenCounter}
}

// Render builds the artifact text: a banner containing the export title, the
// rendered project tree, then one section per scanned file in traversal order.
// Files that became unreadable since the scan are noted and skipped. Binary
// content is replaced with an omission note.
func (writer *Writer) Render(rootPath string, metadata *scan.Metadata, renderedTree string) (string, error) {
	absoluteRootPath, absolutePathError := filepath.Abs(rootPath)
	if absolutePathError != nil {
		return "", fmt.Errorf("getting absolute path for %s: %w", rootPath, absolutePathError)
	}

	var buffer bytes.Buffer
	buffer.WriteString(bannerLine + "\n")
	buffer.WriteString(exportHeaderTitle + "\n")
	fmt.Fprintf(&buffer, rootLineFormat, filepath.Base(absoluteRootPath))
	fmt.Fprintf(&buffer, generatedLineFormat, time.Now().UTC().Format(time.RFC3339))
	buffer.WriteString(bannerLine + "\n\n")

	if renderedTree != "" {
		buffer.WriteString(treeSectionHeader + "\n")
		buffer.WriteString(renderedTree)
		buffer.WriteString("\n")
	}

	var totalBytes int64
	var totalTokens int
	tokensCounted := false

	for _, relativePath := range metadata.ScannedFiles {
		fullPath := filepath.Join(absoluteRootPath, filepath.FromSlash(relativePath))
		fileBytes, readError := os.ReadFile(fullPath)
		if readError != nil {
			writer.logger.Warnf(warningReadFileFormat, relativePath, readError)
			continue
		}
		totalBytes += int64(len(fileBytes))

		fmt.Fprintf(&buffer, fileHeaderFormat, relativePath)
		if utils.IsBinary(fileBytes) {
			buffer.WriteString(binaryContentOmitted + "\n")
		} else {
			buffer.Write(fileBytes)
			if len(fileBytes) > 0 && fileBytes[len(fileBytes)-1] != '\n' {
				buffer.WriteString("\n")
			}
			if writer.tokenCounter != nil {
				countResult, countError := tokenizer.CountBytes(writer.tokenCounter, fileBytes)
				if countError != nil {
					writer.logger.Warnf(warningTokenizerFormat, relativePath, countError)
				} else if countResult.Counted {
					totalTokens += countResult.Tokens
					tokensCounted = true
				}
			}
		}
		fmt.Fprintf(&buffer, fileFooterFormat, relativePath)
		buffer.WriteString(separatorLine + "\n")
	}

	fileCountLabel := "files"
	if len(metadata.ScannedFiles) == 1 {
		fileCountLabel = "file"
	}
	fmt.Fprintf(&buffer, summaryFormat, len(metadata.ScannedFiles), fileCountLabel, utils.FormatFileSize(totalBytes))
	if tokensCounted {
		fmt.Fprintf(&buffer, ", %d tokens (model: %s)", totalTokens, writer.tokenCounter.Name())
	}
	buffer.WriteString("\n")

	return buffer.String(), nil
}

// WriteProject renders the artifact and writes it to outputPath. Write errors
// are surfaced to the caller; the scan metadata remains valid and inspectable
// even when the write fails.
func (writer *Writer) WriteProject(rootPath string, outputPath string, metadata *scan.Metadata, renderedTree string) (string, error) {
	artifactText, renderError := writer.Render(rootPath, metadata, renderedTree)
	if renderError != nil {
		return "", renderError
	}
	if writeError := os.WriteFile(outputPath, []byte(artifactText), 0o644); writeError != nil {
		return "", fmt.Errorf("writing export artifact to %s: %w", outputPath, writeError)
	}
	writer.logger.Successf(successExportFormat, len(metadata.ScannedFiles), outputPath)
	return artifactText, nil
}
