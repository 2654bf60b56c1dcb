package logging

import (
	"fmt"
	"io"
	"log/slog"
	"os"
	"strings"

	"go.uber.org/zap"
	"go.uber.org/zap/zapcore"
	"gopkg.in/natefinch/lumberjack.v2"
)

const (
	BackendSlog = "slog"
	BackendZap  = "zap"
)

// Options selects the backend, level and destination of the application logger.
type Options struct {
	Backend string
	Level   string
	// File enables a size-rotated log file; stderr is used when empty.
	File string
}

// New builds a Logger from opts. The returned closer flushes and releases the
// destination and must be called on shutdown.
func New(opts Options) (Logger, io.Closer, error) {
	var w io.Writer = os.Stderr
	var closer io.Closer = nopCloser{}
	if opts.File != "" {
		lj := &lumberjack.Logger{
			Filename:   opts.File,
			MaxSize:    10,
			MaxBackups: 3,
			MaxAge:     14,
		}
		w, closer = lj, lj
	}

	switch strings.ToLower(opts.Backend) {
	case "", BackendSlog:
		h := slog.NewTextHandler(w, &slog.HandlerOptions{Level: slogLevel(opts.Level)})
		return NewSlogLogger(slog.New(h)), closer, nil
	case BackendZap:
		encCfg := zap.NewProductionEncoderConfig()
		encCfg.EncodeTime = zapcore.ISO8601TimeEncoder
		core := zapcore.NewCore(zapcore.NewJSONEncoder(encCfg), zapcore.AddSync(w), zapLevel(opts.Level))
		zl := NewZapLogger(zap.New(core))
		return zl, zapCloser{zl: zl, next: closer}, nil
	default:
		return nil, nil, fmt.Errorf("unknown log backend %q", opts.Backend)
	}
}

func slogLevel(level string) slog.Level {
	switch strings.ToLower(level) {
	case "debug":
		return slog.LevelDebug
	case "warn":
		return slog.LevelWarn
	case "error":
		return slog.LevelError
	default:
		return slog.LevelInfo
	}
}

func zapLevel(level string) zapcore.Level {
	switch strings.ToLower(level) {
	case "debug":
		return zapcore.DebugLevel
	case "warn":
		return zapcore.WarnLevel
	case "error":
		return zapcore.ErrorLevel
	default:
		return zapcore.InfoLevel
	}
}

type nopCloser struct{}

func (nopCloser) Close() error { return nil }

type zapCloser struct {
	zl   *ZapLogger
	next io.Closer
}

func (c zapCloser) Close() error {
	_ = c.zl.Sync()
	return c.next.Close()
}
