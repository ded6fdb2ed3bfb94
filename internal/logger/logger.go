// Package logger provides the process-wide structured logger.
package logger

import (
	"io"
	"os"
	"strings"

	"github.com/charmbracelet/log"
)

var (
	// Logger is the shared logger instance. Daemon, CLI and IPC code all log
	// through it so verbosity is controlled in one place.
	Logger        *log.Logger
	currentWriter io.Writer = os.Stderr
)

func init() {
	Logger = log.New(os.Stderr)
	SetLevel(os.Getenv("GESTURESD_LOG_LEVEL"))
}

// SetLevel sets the log level from a string ("debug", "info", "warn",
// "error"); anything else (including "") falls back to info.
func SetLevel(level string) {
	switch strings.ToLower(level) {
	case "debug":
		Logger.SetLevel(log.DebugLevel)
	case "warn", "warning":
		Logger.SetLevel(log.WarnLevel)
	case "error":
		Logger.SetLevel(log.ErrorLevel)
	default:
		Logger.SetLevel(log.InfoLevel)
	}
}

// SetVerbosity maps the CLI's -v/-vv/-d flags onto a log level: 0 is info,
// 1 is debug, 2+ is debug with caller reporting for deeper troubleshooting.
func SetVerbosity(count int) {
	if count <= 0 {
		SetLevel("info")
		return
	}
	SetLevel("debug")
	if count >= 2 {
		Logger.SetReportCaller(true)
	}
}

// SetOutput redirects the logger to w, preserving the current level.
func SetOutput(w io.Writer) {
	currentWriter = w
	level := Logger.GetLevel()
	Logger = log.NewWithOptions(w, log.Options{
		ReportTimestamp: true,
		TimeFormat:      "15:04:05",
	})
	Logger.SetLevel(level)
}

// Output returns the writer the logger currently writes to.
func Output() io.Writer {
	return currentWriter
}

func Info(msg interface{}, keyvals ...interface{})  { Logger.Info(msg, keyvals...) }
func Debug(msg interface{}, keyvals ...interface{}) { Logger.Debug(msg, keyvals...) }
func Warn(msg interface{}, keyvals ...interface{})  { Logger.Warn(msg, keyvals...) }
func Error(msg interface{}, keyvals ...interface{}) { Logger.Error(msg, keyvals...) }
func Fatal(msg interface{}, keyvals ...interface{}) { Logger.Fatal(msg, keyvals...) }

func Infof(format string, args ...interface{})  { Logger.Infof(format, args...) }
func Debugf(format string, args ...interface{}) { Logger.Debugf(format, args...) }
func Warnf(format string, args ...interface{})  { Logger.Warnf(format, args...) }
func Errorf(format string, args ...interface{}) { Logger.Errorf(format, args...) }

// DebugEnabled reports whether debug-level messages are currently emitted;
// useful to skip building an expensive message on the hot path.
func DebugEnabled() bool {
	return Logger.GetLevel() <= log.DebugLevel
}
