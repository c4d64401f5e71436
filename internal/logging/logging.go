// Package logging wraps zap with the level taxonomy the original RESP
// store used: Trace, Debug, Info, Warning, Error, Critical.
package logging

import (
	"os"
	"sync"
	"time"

	"go.uber.org/zap"
	"go.uber.org/zap/zapcore"
)

// Level mirrors xin::base::LogLevel from the reference implementation.
type Level int

const (
	LevelTrace Level = iota
	LevelDebug
	LevelInfo
	LevelWarning
	LevelError
	LevelCritical
)

func (l Level) zapLevel() zapcore.Level {
	switch l {
	case LevelTrace, LevelDebug:
		return zapcore.DebugLevel
	case LevelInfo:
		return zapcore.InfoLevel
	case LevelWarning:
		return zapcore.WarnLevel
	case LevelError:
		return zapcore.ErrorLevel
	case LevelCritical:
		return zapcore.DPanicLevel
	default:
		return zapcore.InfoLevel
	}
}

// Logger is a thin facade over a zap.SugaredLogger that exposes the six
// named levels directly instead of zap's own level set.
type Logger struct {
	mu     sync.Mutex
	atom   zap.AtomicLevel
	sugar  *zap.SugaredLogger
	level  Level
}

// New builds a Logger writing to stdout with a console encoder, the
// way packetd's logger.New configures zap for a single-process CLI tool.
func New(level Level) *Logger {
	encoderConfig := zap.NewProductionEncoderConfig()
	encoderConfig.EncodeTime = func(t time.Time, enc zapcore.PrimitiveArrayEncoder) {
		enc.AppendString(t.Local().Format("2006-01-02 15:04:05.000"))
	}
	encoderConfig.EncodeLevel = zapcore.CapitalLevelEncoder

	atom := zap.NewAtomicLevelAt(level.zapLevel())
	core := zapcore.NewCore(zapcore.NewConsoleEncoder(encoderConfig), zapcore.AddSync(os.Stdout), atom)

	return &Logger{
		atom:  atom,
		sugar: zap.New(core).Sugar(),
		level: level,
	}
}

// SetLevel changes the active log level, mirroring xin::base::log::set_level.
func (l *Logger) SetLevel(level Level) {
	l.mu.Lock()
	defer l.mu.Unlock()
	l.level = level
	l.atom.SetLevel(level.zapLevel())
}

// Level returns the currently active level.
func (l *Logger) Level() Level {
	l.mu.Lock()
	defer l.mu.Unlock()
	return l.level
}

func (l *Logger) Trace(template string, args ...any)    { l.sugar.Debugf("[trace] "+template, args...) }
func (l *Logger) Debug(template string, args ...any)     { l.sugar.Debugf(template, args...) }
func (l *Logger) Info(template string, args ...any)      { l.sugar.Infof(template, args...) }
func (l *Logger) Warning(template string, args ...any)   { l.sugar.Warnf(template, args...) }
func (l *Logger) Error(template string, args ...any)     { l.sugar.Errorf(template, args...) }
func (l *Logger) Critical(template string, args ...any)  { l.sugar.Errorf("[critical] "+template, args...) }

// Sync flushes any buffered log entries, matching the reference's AOF-style
// flush-on-shutdown discipline applied to the logging sink instead.
func (l *Logger) Sync() error {
	return l.sugar.Sync()
}

// default_ is the process-wide logger, analogous to xin::base::log's
// function-local static default_logger.
var (
	defaultMu sync.RWMutex
	default_  = New(LevelWarning)
)

// Default returns the process-wide logger instance.
func Default() *Logger {
	defaultMu.RLock()
	defer defaultMu.RUnlock()
	return default_
}

// SetDefault replaces the process-wide logger instance.
func SetDefault(l *Logger) {
	defaultMu.Lock()
	defer defaultMu.Unlock()
	default_ = l
}
