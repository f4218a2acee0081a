// dsklog package is just a simple wrapper around logrus
package dsklog

import (
	"fmt"
	"io"
	"os"
	"strings"

	"github.com/natefinch/lumberjack"
	"github.com/sirupsen/logrus"
	prefixed "github.com/x-cray/logrus-prefixed-formatter"
)

const logLevelEnvVar = "FINDDUPES_LOG_LEVEL"

// Global logger instance
var Dlogger = newDiscardLogger()

func newDiscardLogger() *logrus.Logger {
	l := logrus.New()
	l.Out = io.Discard
	return l
}

// InitializeDlogger initializes or resets the global logger (Dlogger).
// An empty logFile or os.DevNull discards output instead of opening a file.
func InitializeDlogger(logFile string) {
	Dlogger = logrus.New()

	if logFile == "" || logFile == os.DevNull {
		Dlogger.Out = io.Discard
	} else {
		Dlogger.Out = &lumberjack.Logger{
			Filename:   logFile,
			MaxSize:    10, // megabytes
			MaxBackups: 3,
			MaxAge:     28, // days
		}
	}

	Dlogger.SetLevel(levelFromEnv())
	Dlogger.SetFormatter(&logrus.TextFormatter{
		FullTimestamp: true,
	})
}

func levelFromEnv() logrus.Level {
	lvl, err := logrus.ParseLevel(strings.TrimSpace(os.Getenv(logLevelEnvVar)))
	if err != nil {
		return logrus.InfoLevel
	}
	return lvl
}

// SetLevel changes the level of the global logger. The current level is kept
// when name is not a valid logrus level.
func SetLevel(name string) error {
	lvl, err := logrus.ParseLevel(strings.TrimSpace(name))
	if err != nil {
		return fmt.Errorf("invalid log level %q: %w", name, err)
	}
	Dlogger.SetLevel(lvl)
	return nil
}

// EnableConsole mirrors log entries to w using a prefixed, human friendly format.
func EnableConsole(w io.Writer) {
	Dlogger.AddHook(&consoleHook{
		w: w,
		formatter: &prefixed.TextFormatter{
			FullTimestamp:   true,
			TimestampFormat: "15:04:05",
			ForceFormatting: true,
		},
	})
}

// WithPrefix returns an entry whose console output is tagged with component.
func WithPrefix(component string) *logrus.Entry {
	return Dlogger.WithField("prefix", component)
}

type consoleHook struct {
	w         io.Writer
	formatter logrus.Formatter
}

func (h *consoleHook) Levels() []logrus.Level {
	return logrus.AllLevels
}

func (h *consoleHook) Fire(entry *logrus.Entry) error {
	b, err := h.formatter.Format(entry)
	if err != nil {
		return err
	}
	_, err = h.w.Write(b)
	return err
}
