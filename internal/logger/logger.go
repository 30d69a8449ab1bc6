package logger

import (
	"github.com/hsdfat/go-zlog/logger"
	"go.uber.org/zap"
)

// Log is the global logger instance for the labwise project
var Log logger.LoggerI = logger.NewLogger()

func init() {
	Log.(*logger.Logger).SugaredLogger = Log.(*logger.Logger).SugaredLogger.WithOptions(zap.AddCallerSkip(1))
}

// Logger is an alias for the underlying logger interface
type Logger = logger.LoggerI

// SetLevel sets the global log level
// Valid levels: "debug", "info", "warn", "error", "fatal"
func SetLevel(level string) {
	logger.SetLevel(level)
}

// WithFields creates a new logger with contextual fields
// Example: logger.WithFields("equipment_id", "abc123", "rule", "calibration_due")
func WithFields(args ...any) Logger {
	return Log.With(args...).(logger.LoggerI)
}

// New creates a new logger with a name and level
func New(name, level string) Logger {
	if level != "" {
		logger.SetLevel(level)
	}
	return Log.With("component", name).(logger.LoggerI)
}
