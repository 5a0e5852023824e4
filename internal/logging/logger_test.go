package logging

import (
	"encoding/json"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"go.uber.org/zap"
	"go.uber.org/zap/zapcore"
	"go.uber.org/zap/zaptest/observer"
)

// newObservedLogger returns a Logger backed by an observer core plus the
// captured log stream for assertions.
func newObservedLogger(minimumLevel zapcore.Level) (Logger, *observer.ObservedLogs) {
	observerCore, observedLogs := observer.New(minimumLevel)
	return NewLoggerFromZap(zap.New(observerCore)), observedLogs
}

// TestZapLoggerLevels verifies each capability maps to the expected zap level.
func TestZapLoggerLevels(testingHandle *testing.T) {
	observedLogger, observedLogs := newObservedLogger(zapcore.DebugLevel)

	observedLogger.Debugf("debug %d", 1)
	observedLogger.Infof("info %d", 2)
	observedLogger.Warnf("warn %d", 3)
	observedLogger.Errorf("error %d", 4)

	expectedEntries := []struct {
		level   zapcore.Level
		message string
	}{
		{level: zapcore.DebugLevel, message: "debug 1"},
		{level: zapcore.InfoLevel, message: "info 2"},
		{level: zapcore.WarnLevel, message: "warn 3"},
		{level: zapcore.ErrorLevel, message: "error 4"},
	}

	capturedEntries := observedLogs.All()
	if len(capturedEntries) != len(expectedEntries) {
		testingHandle.Fatalf("captured %d entries, want %d", len(capturedEntries), len(expectedEntries))
	}
	for entryIndex, expectedEntry := range expectedEntries {
		capturedEntry := capturedEntries[entryIndex]
		if capturedEntry.Level != expectedEntry.level {
			testingHandle.Errorf("entry %d level = %v, want %v", entryIndex, capturedEntry.Level, expectedEntry.level)
		}
		if capturedEntry.Message != expectedEntry.message {
			testingHandle.Errorf("entry %d message = %q, want %q", entryIndex, capturedEntry.Message, expectedEntry.message)
		}
	}
}

// TestSuccessfMarksMessage verifies success messages carry the marker at info level.
func TestSuccessfMarksMessage(testingHandle *testing.T) {
	observedLogger, observedLogs := newObservedLogger(zapcore.InfoLevel)

	observedLogger.Successf("Exported %d files to %s", 3, "out.txt")

	capturedEntries := observedLogs.All()
	if len(capturedEntries) != 1 {
		testingHandle.Fatalf("captured %d entries, want 1", len(capturedEntries))
	}
	if capturedEntries[0].Level != zapcore.InfoLevel {
		testingHandle.Errorf("success level = %v, want info", capturedEntries[0].Level)
	}
	if !strings.HasPrefix(capturedEntries[0].Message, successPrefix) {
		testingHandle.Errorf("success message missing marker: %q", capturedEntries[0].Message)
	}
	if !strings.Contains(capturedEntries[0].Message, "Exported 3 files to out.txt") {
		testingHandle.Errorf("success message not formatted: %q", capturedEntries[0].Message)
	}
}

// TestTeeLoggerForwardsToAllDestinations verifies the tee fans out every message.
func TestTeeLoggerForwardsToAllDestinations(testingHandle *testing.T) {
	firstLogger, firstLogs := newObservedLogger(zapcore.DebugLevel)
	secondLogger, secondLogs := newObservedLogger(zapcore.DebugLevel)

	combinedLogger := NewTeeLogger(firstLogger, secondLogger)
	combinedLogger.Infof("shared message")
	combinedLogger.Warnf("shared warning")

	for destinationIndex, observedLogs := range []*observer.ObservedLogs{firstLogs, secondLogs} {
		if observedLogs.Len() != 2 {
			testingHandle.Errorf("destination %d captured %d entries, want 2", destinationIndex, observedLogs.Len())
		}
	}
}

// TestNopLoggerDiscardsEverything verifies the nop implementation never panics.
func TestNopLoggerDiscardsEverything(testingHandle *testing.T) {
	silentLogger := NewNopLogger()
	silentLogger.Debugf("dropped %s", "debug")
	silentLogger.Infof("dropped")
	silentLogger.Warnf("dropped")
	silentLogger.Errorf("dropped")
	silentLogger.Successf("dropped")
}

// TestFileLoggerWritesJSONEntries verifies the rotating sink produces decodable JSON lines.
func TestFileLoggerWritesJSONEntries(testingHandle *testing.T) {
	logFilePath := filepath.Join(testingHandle.TempDir(), "projectlens.log")
	fileLogger := NewFileLogger(FileLoggerOptions{FilePath: logFilePath})

	fileLogger.Infof("scan finished with %d files", 7)
	fileLogger.Debugf("suppressed below info")

	logContent, readError := os.ReadFile(logFilePath)
	if readError != nil {
		testingHandle.Fatalf("expected log file at %s: %v", logFilePath, readError)
	}

	logLines := strings.Split(strings.TrimSpace(string(logContent)), "\n")
	if len(logLines) != 1 {
		testingHandle.Fatalf("captured %d log lines, want 1: %q", len(logLines), logContent)
	}
	var decodedEntry map[string]any
	if decodeError := json.Unmarshal([]byte(logLines[0]), &decodedEntry); decodeError != nil {
		testingHandle.Fatalf("log line is not JSON: %v", decodeError)
	}
	if decodedEntry["msg"] != "scan finished with 7 files" {
		testingHandle.Errorf("unexpected log message: %v", decodedEntry["msg"])
	}
}

// TestFileLoggerVerboseKeepsDebug verifies verbose mode lowers the file sink threshold.
func TestFileLoggerVerboseKeepsDebug(testingHandle *testing.T) {
	logFilePath := filepath.Join(testingHandle.TempDir(), "projectlens.log")
	fileLogger := NewFileLogger(FileLoggerOptions{FilePath: logFilePath, Verbose: true})

	fileLogger.Debugf("verbose detail")

	logContent, readError := os.ReadFile(logFilePath)
	if readError != nil {
		testingHandle.Fatalf("expected log file at %s: %v", logFilePath, readError)
	}
	if !strings.Contains(string(logContent), "verbose detail") {
		testingHandle.Errorf("verbose file logger dropped a debug entry: %q", logContent)
	}
}
