package logger

import (
	"github.com/PayRam/go-collection/internal/config"
	gormlogger "gorm.io/gorm/logger"
	"io"
	"log"
	"log/slog"
	"os"
	"strings"
	"time"
)

// New builds a slog logger writing to w (stdout when nil).
func New(cfg config.LogConfig, w io.Writer) *slog.Logger {
	if w == nil {
		w = os.Stdout
	}
	opts := &slog.HandlerOptions{Level: Level(cfg.Level)}

	var handler slog.Handler
	if strings.EqualFold(cfg.Format, "json") {
		handler = slog.NewJSONHandler(w, opts)
	} else {
		handler = slog.NewTextHandler(w, opts)
	}
	return slog.New(handler)
}

func Level(level string) slog.Level {
	switch strings.ToUpper(level) {
	case "DEBUG":
		return slog.LevelDebug
	case "WARN":
		return slog.LevelWarn
	case "ERROR":
		return slog.LevelError
	default:
		return slog.LevelInfo
	}
}

// Gorm returns a gorm logger whose verbosity follows the configured level.
// SQL statements are only traced at debug level.
func Gorm(cfg config.LogConfig, w io.Writer) gormlogger.Interface {
	if w == nil {
		w = os.Stdout
	}
	level := gormlogger.Warn
	switch Level(cfg.Level) {
	case slog.LevelDebug:
		level = gormlogger.Info
	case slog.LevelError:
		level = gormlogger.Error
	}
	return gormlogger.New(log.New(w, "", log.LstdFlags), gormlogger.Config{
		SlowThreshold:             200 * time.Millisecond,
		LogLevel:                  level,
		IgnoreRecordNotFoundError: true,
		Colorful:                  false,
	})
}
