package log

import (
	"log/slog"
	"os"
	"sync"
	"time"

	"github.com/lmittmann/tint"
)

var (
	logger     *slog.Logger
	loggerOnce sync.Once
	minLevel   = new(slog.LevelVar)
)

// initLogger initializes the global logger to write to stderr with a
// compact, colorized line format.
func initLogger() {
	loggerOnce.Do(func() {
		logger = slog.New(tint.NewHandler(os.Stderr, &tint.Options{
			Level:      minLevel,
			TimeFormat: time.RFC1123Z,
		}))
	})
}

// SetLevel adjusts the minimum level for all subsequent log calls.
// The default is slog.LevelInfo.
func SetLevel(l slog.Level) {
	initLogger()
	minLevel.Set(l)
}

func Debug(msg string, kv ...any) {
	initLogger()
	logger.Debug(msg, kv...)
}

func Info(msg string, kv ...any) {
	initLogger()
	logger.Info(msg, kv...)
}

func Warn(msg string, kv ...any) {
	initLogger()
	logger.Warn(msg, kv...)
}

// Error logs msg at error level with err prepended to the key-value list.
func Error(msg string, err error, kv ...any) {
	initLogger()
	extended := append([]any{"err", err}, kv...)
	logger.Error(msg, extended...)
}
