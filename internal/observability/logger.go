package observability

import (
	"io"
	"log/slog"
	"os"
	"strings"

	"gopkg.in/natefinch/lumberjack.v2"
)

// Options описывает куда и как писать логи
type Options struct {
	LogPath    string
	LogLevel   string
	LogFormat  string // "text" или "json"
	MaxSizeMB  int
	MaxBackups int
	MaxAgeDays int
}

type Logger struct {
	slog   *slog.Logger
	closer io.Closer
}

// NewLogger создаёт логгер. Если LogPath пустой — пишем в stderr,
// иначе в файл с ротацией через lumberjack.
func NewLogger(opts Options) *Logger {
	var (
		w      io.Writer = os.Stderr
		closer io.Closer
	)

	if opts.LogPath != "" {
		rotator := &lumberjack.Logger{
			Filename:   opts.LogPath,
			MaxSize:    opts.MaxSizeMB,
			MaxBackups: opts.MaxBackups,
			MaxAge:     opts.MaxAgeDays,
			Compress:   true,
		}
		w = rotator
		closer = rotator
	}

	l := newLogger(w, opts.LogLevel, opts.LogFormat)
	l.closer = closer
	return l
}

// NewLoggerWithWriter пишет текстовые записи в w (используется в тестах)
func NewLoggerWithWriter(w io.Writer, logLevel string) *Logger {
	return newLogger(w, logLevel, "text")
}

// Nop возвращает логгер, который всё отбрасывает
func Nop() *Logger {
	return newLogger(io.Discard, "error", "text")
}

func newLogger(w io.Writer, logLevel, format string) *Logger {
	handlerOpts := &slog.HandlerOptions{Level: ParseLevel(logLevel)}

	var handler slog.Handler
	if strings.EqualFold(format, "json") {
		handler = slog.NewJSONHandler(w, handlerOpts)
	} else {
		handler = slog.NewTextHandler(w, handlerOpts)
	}

	return &Logger{slog: slog.New(handler)}
}

// ParseLevel переводит строку из конфига в slog.Level, по умолчанию info
func ParseLevel(level string) slog.Level {
	switch strings.ToLower(strings.TrimSpace(level)) {
	case "debug":
		return slog.LevelDebug
	case "warn", "warning":
		return slog.LevelWarn
	case "error":
		return slog.LevelError
	default:
		return slog.LevelInfo
	}
}

// With возвращает логгер с постоянными полями
func (l *Logger) With(fields ...any) *Logger {
	return &Logger{slog: l.slog.With(fields...), closer: l.closer}
}

func (l *Logger) Debug(msg string, fields ...any) {
	l.slog.Debug(msg, fields...)
}

func (l *Logger) Info(msg string, fields ...any) {
	l.slog.Info(msg, fields...)
}

func (l *Logger) Warn(msg string, fields ...any) {
	l.slog.Warn(msg, fields...)
}

func (l *Logger) Error(msg string, fields ...any) {
	l.slog.Error(msg, fields...)
}

// Close закрывает файл лога, если он был открыт
func (l *Logger) Close() error {
	if l.closer == nil {
		return nil
	}
	return l.closer.Close()
}
