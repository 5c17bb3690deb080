package logger

import (
	"fmt"
	"io"
	"log/slog"
	"os"
	"sync"
	"time"

	"github.com/lmittmann/tint"
)

var (
	once   sync.Once
	logger *slog.Logger
)

// Init installs the default console logger on first use.
func Init() {
	once.Do(func() {
		logger = New(os.Stdout, slog.LevelInfo, "dev")
	})
}

// Configure replaces the package logger. Call it from main before any goroutines start.
func Configure(w io.Writer, level slog.Level, env string) {
	once.Do(func() {})
	logger = New(w, level, env)
}

// New builds a slog logger: coloured console output for dev, JSON for prod.
func New(w io.Writer, level slog.Level, env string) *slog.Logger {
	if env == "prod" {
		return slog.New(slog.NewJSONHandler(w, &slog.HandlerOptions{Level: level}))
	}
	return slog.New(tint.NewHandler(w, &tint.Options{
		Level:      level,
		TimeFormat: time.DateTime,
	}))
}

// Slog exposes the underlying logger for libraries that accept one.
func Slog() *slog.Logger {
	if logger == nil {
		Init()
	}
	return logger
}

func Info(message string, v ...interface{}) {
	Slog().Info(fmt.Sprintf(message, v...))
}

func Warn(message string, v ...interface{}) {
	Slog().Warn(fmt.Sprintf(message, v...))
}

func Error(message string, v ...interface{}) {
	Slog().Error(fmt.Sprintf(message, v...))
}

func Debug(message string, v ...interface{}) {
	Slog().Debug(fmt.Sprintf(message, v...))
}

// Exception logs err at error level together with its stack trace, if it carries one.
func Exception(err error, message string, v ...interface{}) {
	if err == nil {
		Error(message, v...)
		return
	}
	Slog().Error(fmt.Sprintf(message, v...),
		"error", err.Error(),
		"trace", fmt.Sprintf("%+v", err),
	)
}
