package utils

import (
	"fmt"
	"os"
	"path/filepath"
	"time"

	"go.uber.org/zap"
	"go.uber.org/zap/zapcore"
)

var (
	logger = zap.NewNop()
	sugar  = logger.Sugar()
)

// InitLogger initializes the application logger.
// format is "json" or "console"; when logsDir is set, entries are also appended
// to a daily file in that directory.
func InitLogger(level, format, logsDir string) error {
	var config zap.Config
	if format == "json" {
		config = zap.NewProductionConfig()
		config.EncoderConfig.TimeKey = "timestamp"
		config.EncoderConfig.EncodeTime = zapcore.ISO8601TimeEncoder
	} else {
		config = zap.NewDevelopmentConfig()
	}

	lvl, err := zapcore.ParseLevel(level)
	if err != nil {
		lvl = zapcore.InfoLevel
	}
	config.Level = zap.NewAtomicLevelAt(lvl)

	config.OutputPaths = []string{"stdout"}
	config.ErrorOutputPaths = []string{"stderr"}
	if logsDir != "" {
		if err := os.MkdirAll(logsDir, 0755); err != nil {
			return fmt.Errorf("failed to create logs directory: %w", err)
		}
		timestamp := time.Now().Format("2006-01-02")
		logFile := filepath.Join(logsDir, fmt.Sprintf("app-%s.log", timestamp))
		config.OutputPaths = append(config.OutputPaths, logFile)
		config.ErrorOutputPaths = append(config.ErrorOutputPaths, logFile)
	}

	built, err := config.Build(zap.AddCallerSkip(1))
	if err != nil {
		return fmt.Errorf("failed to build logger: %w", err)
	}
	SetLogger(built)
	return nil
}

// SetLogger replaces the application logger
func SetLogger(l *zap.Logger) {
	logger = l
	sugar = l.Sugar()
}

// Logger returns the structured logger
func Logger() *zap.Logger {
	return logger
}

// SyncLogger flushes buffered log entries
func SyncLogger() error {
	return logger.Sync()
}

// LogInfo logs an informational message
func LogInfo(format string, v ...interface{}) {
	sugar.Infof(format, v...)
}

// LogWarn logs a warning message
func LogWarn(format string, v ...interface{}) {
	sugar.Warnf(format, v...)
}

// LogError logs an error message
func LogError(format string, v ...interface{}) {
	sugar.Errorf(format, v...)
}

// LogDebug logs a debug message
func LogDebug(format string, v ...interface{}) {
	sugar.Debugf(format, v...)
}

// LogRequest logs HTTP request details
func LogRequest(method, path, ip, requestID string, status int, duration time.Duration) {
	logger.Info("request",
		zap.String("method", method),
		zap.String("path", path),
		zap.String("ip", ip),
		zap.String("request_id", requestID),
		zap.Int("status", status),
		zap.Duration("duration", duration),
	)
}

// LogErrorWithStack logs an error with stack trace
func LogErrorWithStack(err error, stack []byte) {
	logger.Error("panic recovered", zap.Error(err), zap.ByteString("stack", stack))
}
