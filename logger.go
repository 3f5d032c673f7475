package rowset

import (
	"context"
	"fmt"
	"io"
	"log/slog"
	"os"
	"strings"
)

// LogLevel is the verbosity of a Logger.
type LogLevel int8

const (
	LogLevelTrace LogLevel = iota
	LogLevelDebug
	LogLevelInfo
	LogLevelWarn
	LogLevelError
	LogLevelOff
)

// levelTrace sits below slog.LevelDebug the same way Debug sits below Info.
const levelTrace = slog.LevelDebug - 4

var _logLevelNames = [...]string{"trace", "debug", "info", "warn", "error", "off"}

func (l LogLevel) String() string {
	if l < LogLevelTrace || l > LogLevelOff {
		return fmt.Sprintf("LogLevel(%d)", int8(l))
	}

	return _logLevelNames[l]
}

// Valid reports whether l is one of the declared levels.
func (l LogLevel) Valid() bool {
	return l >= LogLevelTrace && l <= LogLevelOff
}

// SlogLevel maps l onto a slog level. LogLevelOff maps to a level no record
// can reach.
func (l LogLevel) SlogLevel() slog.Level {
	switch l {
	case LogLevelTrace:
		return levelTrace
	case LogLevelDebug:
		return slog.LevelDebug
	case LogLevelInfo:
		return slog.LevelInfo
	case LogLevelWarn:
		return slog.LevelWarn
	case LogLevelError:
		return slog.LevelError
	default:
		return slog.Level(1000)
	}
}

// ParseLogLevel parses one of "trace", "debug", "info", "warn", "error" or
// "off" (case-insensitive).
func ParseLogLevel(s string) (LogLevel, error) {
	name := strings.ToLower(strings.TrimSpace(s))
	for i, n := range _logLevelNames {
		if n == name {
			return LogLevel(i), nil
		}
	}

	return LogLevelInfo, fmt.Errorf("invalid log level '%s'", s)
}

// Logger wraps slog.Logger with the messages emitted by the row store and
// cursors.
type Logger struct {
	*slog.Logger
}

// NewLogger creates a Logger with the given handler.
// If handler is nil, a text handler writing to stderr at info level is used.
func NewLogger(handler slog.Handler) *Logger {
	if handler == nil {
		handler = slog.NewTextHandler(os.Stderr, &slog.HandlerOptions{
			Level: slog.LevelInfo,
		})
	}

	return &Logger{
		Logger: slog.New(handler),
	}
}

// NewTextLogger creates a Logger writing human-readable text to w.
func NewTextLogger(w io.Writer, level LogLevel) *Logger {
	return NewLogger(slog.NewTextHandler(w, &slog.HandlerOptions{
		Level: level.SlogLevel(),
	}))
}

// NoopLogger creates a Logger that discards all output.
func NoopLogger() *Logger {
	return NewTextLogger(io.Discard, LogLevelOff)
}

// Trace logs at the trace level.
func (l *Logger) Trace(msg string, args ...any) {
	l.Log(context.Background(), levelTrace, msg, args...)
}

// LogLoad logs the outcome of a bulk load.
func (l *Logger) LogLoad(result LoadResult) {
	total := result.Accepted + result.Rejected
	switch {
	case total == 0:
		l.Info("no data rows found")
	case result.Accepted == 0:
		l.Info("no valid data rows found", "total", total)
	case result.Rejected > 0:
		l.Info(fmt.Sprintf("%d of %d data rows were invalid", result.Rejected, total),
			"accepted", result.Accepted,
			"rejected", result.Rejected,
		)
	default:
		l.Debug("data rows loaded", "count", result.Accepted)
	}
}

// LogRuleRejected logs a rule dropped by one of the chainable shorthands.
func (l *Logger) LogRuleRejected(kind RuleKind, err error) {
	l.Error("an invalid rule definition was rejected",
		"kind", string(kind),
		"error", err,
	)
}
