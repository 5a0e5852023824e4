// Package logging defines the diagnostic capability set consumed by the scan
// engine and provides zap-backed implementations of it.
package logging

import (
	"go.uber.org/zap"
	"go.uber.org/zap/zapcore"
	"gopkg.in/natefinch/lumberjack.v2"
)

// Logger is the capability set the scanner and exporter emit diagnostics
// through. Any conforming implementation may be substituted, which keeps the
// core free of a hardwired process-wide singleton.
type Logger interface {
	Debugf(messageFormat string, arguments ...any)
	Infof(messageFormat string, arguments ...any)
	Warnf(messageFormat string, arguments ...any)
	Errorf(messageFormat string, arguments ...any)
	Successf(messageFormat string, arguments ...any)
}

// successPrefix marks success messages, which zap has no dedicated level for.
const successPrefix = "✓ "

// zapLogger adapts a zap sugared logger to the Logger capability set.
type zapLogger struct {
	sugaredLogger *zap.SugaredLogger
}

// Debugf logs a debug-level diagnostic message.
func (adapter *zapLogger) Debugf(messageFormat string, arguments ...any) {
	adapter.sugaredLogger.Debugf(messageFormat, arguments...)
}

// Infof logs an informational message.
func (adapter *zapLogger) Infof(messageFormat string, arguments ...any) {
	adapter.sugaredLogger.Infof(messageFormat, arguments...)
}

// Warnf logs a warning message.
func (adapter *zapLogger) Warnf(messageFormat string, arguments ...any) {
	adapter.sugaredLogger.Warnf(messageFormat, arguments...)
}

// Errorf logs an error message.
func (adapter *zapLogger) Errorf(messageFormat string, arguments ...any) {
	adapter.sugaredLogger.Errorf(messageFormat, arguments...)
}

// Successf logs a completion message at info level with a success marker.
func (adapter *zapLogger) Successf(messageFormat string, arguments ...any) {
	adapter.sugaredLogger.Infof(successPrefix+messageFormat, arguments...)
}

// NewLoggerFromZap wraps an existing zap logger in the Logger capability set.
// Tests use this with an observer core to capture emitted diagnostics.
func NewLoggerFromZap(zapInstance *zap.Logger) Logger {
	return &zapLogger{sugaredLogger: zapInstance.Sugar()}
}

// NewApplicationLogger constructs a zap logger configured for human-readable
// console output and wraps it in the Logger capability set.
func NewApplicationLogger(verbose bool) (Logger, error) {
	config := zap.NewProductionConfig()
	config.Encoding = "console"
	config.DisableCaller = true
	config.DisableStacktrace = true
	config.EncoderConfig.EncodeLevel = zapcore.CapitalLevelEncoder
	config.EncoderConfig.TimeKey = ""
	config.EncoderConfig.LevelKey = ""
	config.EncoderConfig.NameKey = ""
	config.EncoderConfig.CallerKey = ""
	config.EncoderConfig.MessageKey = "message"
	config.EncoderConfig.StacktraceKey = ""
	if verbose {
		config.Level = zap.NewAtomicLevelAt(zapcore.DebugLevel)
	}
	zapInstance, buildError := config.Build()
	if buildError != nil {
		return nil, buildError
	}
	return NewLoggerFromZap(zapInstance), nil
}

// FileLoggerOptions configures the rotating log file sink.
type FileLoggerOptions struct {
	FilePath   string
	MaxSizeMB  int
	MaxBackups int
	Verbose    bool
}

// defaultLogFileSizeMB caps a single rotated log file.
const defaultLogFileSizeMB = 10

// NewFileLogger constructs a Logger that appends JSON-encoded entries to a
// rotating log file.
func NewFileLogger(options FileLoggerOptions) Logger {
	maxSizeMB := options.MaxSizeMB
	if maxSizeMB <= 0 {
		maxSizeMB = defaultLogFileSizeMB
	}
	rotatingSink := &lumberjack.Logger{
		Filename:   options.FilePath,
		MaxSize:    maxSizeMB,
		MaxBackups: options.MaxBackups,
	}
	minimumLevel := zapcore.InfoLevel
	if options.Verbose {
		minimumLevel = zapcore.DebugLevel
	}
	encoderConfig := zap.NewProductionEncoderConfig()
	core := zapcore.NewCore(
		zapcore.NewJSONEncoder(encoderConfig),
		zapcore.AddSync(rotatingSink),
		minimumLevel,
	)
	return NewLoggerFromZap(zap.New(core))
}

// nopLogger discards every message.
type nopLogger struct{}

func (nopLogger) Debugf(string, ...any)   {}
func (nopLogger) Infof(string, ...any)    {}
func (nopLogger) Warnf(string, ...any)    {}
func (nopLogger) Errorf(string, ...any)   {}
func (nopLogger) Successf(string, ...any) {}

// NewNopLogger returns a Logger that discards all diagnostics.
func NewNopLogger() Logger {
	return nopLogger{}
}

// teeLogger forwards every message to each wrapped logger.
type teeLogger struct {
	loggers []Logger
}

func (tee teeLogger) Debugf(messageFormat string, arguments ...any) {
	for _, wrappedLogger := range tee.loggers {
		wrappedLogger.Debugf(messageFormat, arguments...)
	}
}

func (tee teeLogger) Infof(messageFormat string, arguments ...any) {
	for _, wrappedLogger := range tee.loggers {
		wrappedLogger.Infof(messageFormat, arguments...)
	}
}

func (tee teeLogger) Warnf(messageFormat string, arguments ...any) {
	for _, wrappedLogger := range tee.loggers {
		wrappedLogger.Warnf(messageFormat, arguments...)
	}
}

func (tee teeLogger) Errorf(messageFormat string, arguments ...any) {
	for _, wrappedLogger := range tee.loggers {
		wrappedLogger.Errorf(messageFormat, arguments...)
	}
}

func (tee teeLogger) Successf(messageFormat string, arguments ...any) {
	for _, wrappedLogger := range tee.loggers {
		wrappedLogger.Successf(messageFormat, arguments...)
	}
}

// NewTeeLogger combines loggers so diagnostics reach every destination, such
// as the console and a rotating log file at once.
func NewTeeLogger(loggers ...Logger) Logger {
	return teeLogger{loggers: loggers}
}
