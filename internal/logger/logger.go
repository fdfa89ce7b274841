package logger

import (
	"fmt"
	"os"
	"path/filepath"
	"strings"
	"sync"
	"time"

	"go.uber.org/zap"
	"go.uber.org/zap/zapcore"
)

// Logger interface defines the logging methods we need.
type Logger interface {
	Debugf(template string, args ...interface{})
	Infof(template string, args ...interface{})
	Warnf(template string, args ...interface{})
	Errorf(template string, args ...interface{})
	Fatalf(template string, args ...interface{})
	Close() error
}

type zapLogger struct {
	logger  *zap.SugaredLogger
	closers []func() error
	mu      sync.Mutex
}

// logFileName builds a timestamped log file path inside dir.
func logFileName(dir string, now time.Time) string {
	return filepath.Join(dir, fmt.Sprintf("app_%s.log", now.Format("2006-01-02_15-04-05")))
}

// New creates a console logger with the specified level. When logDir is not
// empty every entry is mirrored into a timestamped file in that directory.
func New(logLevel, logDir string) (Logger, error) {
	level, err := parseLogLevel(logLevel)
	if err != nil {
		level = zapcore.InfoLevel
	}

	// Console encoder
	encoderConfig := zapcore.EncoderConfig{
		TimeKey:        "ts",
		LevelKey:       "level",
		NameKey:        "logger",
		CallerKey:      "caller",
		FunctionKey:    zapcore.OmitKey,
		MessageKey:     "msg",
		StacktraceKey:  "stacktrace",
		LineEnding:     zapcore.DefaultLineEnding,
		EncodeLevel:    zapcore.LowercaseLevelEncoder,
		EncodeTime:     zapcore.ISO8601TimeEncoder,
		EncodeDuration: zapcore.SecondsDurationEncoder,
		EncodeCaller:   zapcore.ShortCallerEncoder,
	}

	// Setup output syncers
	writers := []zapcore.WriteSyncer{zapcore.AddSync(os.Stdout)}
	var closers []func() error

	if logDir != "" {
		if err := os.MkdirAll(logDir, 0750); err != nil {
			return nil, fmt.Errorf("failed to create logs directory: %w", err)
		}
		file, err := os.OpenFile(logFileName(logDir, time.Now()), os.O_CREATE|os.O_WRONLY|os.O_APPEND, 0600)
		if err != nil {
			return nil, fmt.Errorf("failed to open log file: %w", err)
		}
		writers = append(writers, zapcore.AddSync(file))
		closers = append(closers, file.Close)
	}

	// Create logger
	core := zapcore.NewCore(
		zapcore.NewConsoleEncoder(encoderConfig),
		zapcore.NewMultiWriteSyncer(writers...),
		level,
	)

	logger := zap.New(
		core,
		zap.AddCaller(),
		zap.AddCallerSkip(1),
		zap.AddStacktrace(zapcore.ErrorLevel),
	)

	return &zapLogger{
		logger:  logger.Sugar(),
		closers: closers,
	}, nil
}

func (l *zapLogger) Debugf(template string, args ...interface{}) {
	l.logger.Debugf(template, args...)
}

func (l *zapLogger) Infof(template string, args ...interface{}) {
	l.logger.Infof(template, args...)
}

func (l *zapLogger) Warnf(template string, args ...interface{}) {
	l.logger.Warnf(template, args...)
}

func (l *zapLogger) Errorf(template string, args ...interface{}) {
	l.logger.Errorf(template, args...)
}

func (l *zapLogger) Fatalf(template string, args ...interface{}) {
	l.logger.Fatalf(template, args...)
}

// Close flushes buffered entries and closes any log files.
func (l *zapLogger) Close() error {
	l.mu.Lock()
	defer l.mu.Unlock()

	// Sync on stdout fails on some terminals; the error carries no information.
	_ = l.logger.Sync()

	var lastErr error
	for _, closer := range l.closers {
		if err := closer(); err != nil {
			lastErr = err
		}
	}
	l.closers = nil

	return lastErr
}

// parseLogLevel converts a string level to zapcore.Level.
func parseLogLevel(level string) (zapcore.Level, error) {
	switch strings.ToLower(level) {
	case "debug":
		return zapcore.DebugLevel, nil
	case "info":
		return zapcore.InfoLevel, nil
	case "warn":
		return zapcore.WarnLevel, nil
	case "error":
		return zapcore.ErrorLevel, nil
	case "dpanic":
		return zapcore.DPanicLevel, nil
	case "panic":
		return zapcore.PanicLevel, nil
	case "fatal":
		return zapcore.FatalLevel, nil
	default:
		return zapcore.InfoLevel, fmt.Errorf("unknown log level: %s", level)
	}
}
