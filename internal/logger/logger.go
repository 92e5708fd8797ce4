// Package logger is the process-wide leveled logger used by the server and
// the terminal client. It is backed by charmbracelet/log.
package logger

import (
	"fmt"
	"io"
	"os"
	"strings"
	"sync/atomic"

	"github.com/charmbracelet/log"
)

// Level is a logging verbosity threshold.
type Level int32

const (
	LevelTrace Level = iota
	LevelDebug
	LevelInfo
	LevelWarn
	LevelError
)

var (
	std   = log.NewWithOptions(os.Stderr, log.Options{ReportTimestamp: true})
	level atomic.Int32
)

func init() {
	SetLevel(LevelInfo)
}

// SetLevel sets the minimum level that will be written.
func SetLevel(l Level) {
	level.Store(int32(l))
	std.SetLevel(charmLevel(l))
}

// GetLevel returns the current threshold.
func GetLevel() Level {
	return Level(level.Load())
}

// Enabled reports whether messages at l are written.
func Enabled(l Level) bool {
	return l >= GetLevel()
}

// SetOutput redirects log output. A nil writer restores stderr.
func SetOutput(w io.Writer) {
	if w == nil {
		w = os.Stderr
	}
	std.SetOutput(w)
}

// ParseLevel maps a level name to a Level.
func ParseLevel(s string) (Level, error) {
	switch strings.ToLower(strings.TrimSpace(s)) {
	case "trace":
		return LevelTrace, nil
	case "debug":
		return LevelDebug, nil
	case "", "info":
		return LevelInfo, nil
	case "warn", "warning":
		return LevelWarn, nil
	case "error":
		return LevelError, nil
	default:
		return LevelInfo, fmt.Errorf("unknown log level %q", s)
	}
}

func (l Level) String() string {
	switch l {
	case LevelTrace:
		return "trace"
	case LevelDebug:
		return "debug"
	case LevelInfo:
		return "info"
	case LevelWarn:
		return "warn"
	case LevelError:
		return "error"
	default:
		return fmt.Sprintf("level(%d)", int32(l))
	}
}

func charmLevel(l Level) log.Level {
	switch l {
	case LevelTrace, LevelDebug:
		return log.DebugLevel
	case LevelWarn:
		return log.WarnLevel
	case LevelError:
		return log.ErrorLevel
	default:
		return log.InfoLevel
	}
}

// Tracef logs very verbose diagnostics. Trace lines are written at debug
// severity and only when the threshold is LevelTrace.
func Tracef(format string, args ...any) {
	if !Enabled(LevelTrace) {
		return
	}
	std.Debugf("TRACE "+format, args...)
}

func Debugf(format string, args ...any) { std.Debugf(format, args...) }

func Infof(format string, args ...any) { std.Infof(format, args...) }

func Warnf(format string, args ...any) { std.Warnf(format, args...) }

func Errorf(format string, args ...any) { std.Errorf(format, args...) }
