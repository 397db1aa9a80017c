// Package logger provides process-wide structured logging built on log/slog.
package logger

import (
	"context"
	"fmt"
	"io"
	"log/slog"
	"os"
	"strings"
	"sync"
	"sync/atomic"
)

// Level represents a logging level.
type Level int

const (
	LevelDebug Level = iota
	LevelInfo
	LevelWarn
	LevelError
)

func (l Level) String() string {
	switch l {
	case LevelDebug:
		return "DEBUG"
	case LevelInfo:
		return "INFO"
	case LevelWarn:
		return "WARN"
	case LevelError:
		return "ERROR"
	default:
		return "UNKNOWN"
	}
}

// Config holds logger configuration, decoded from the top-level config file.
type Config struct {
	Level  string // DEBUG, INFO, WARN, ERROR
	Format string // text, json
	Output string // stdout, stderr, or a file path
}

var (
	currentLevel  atomic.Int32
	currentFormat atomic.Value

	mu       sync.RWMutex
	handler  slog.Handler
	slogger  *slog.Logger
	output   io.Writer = os.Stdout
	useColor bool      = true
)

func init() {
	currentLevel.Store(int32(LevelInfo))
	currentFormat.Store("text")
	if f, ok := output.(*os.File); ok {
		useColor = isTerminal(f.Fd())
	}
	reconfigure()
}

func toSlogLevel(l Level) slog.Level {
	switch l {
	case LevelDebug:
		return slog.LevelDebug
	case LevelInfo:
		return slog.LevelInfo
	case LevelWarn:
		return slog.LevelWarn
	case LevelError:
		return slog.LevelError
	default:
		return slog.LevelInfo
	}
}

func reconfigure() {
	mu.Lock()
	defer mu.Unlock()

	level := Level(currentLevel.Load())
	format, _ := currentFormat.Load().(string)

	levelVar := new(slog.LevelVar)
	levelVar.Set(toSlogLevel(level))
	opts := &slog.HandlerOptions{Level: levelVar}

	if format == "json" {
		handler = slog.NewJSONHandler(output, opts)
	} else {
		handler = NewColorTextHandler(output, opts, useColor)
	}
	slogger = slog.New(handler)
}

// Init configures the package-level logger from cfg. Output may be "stdout",
// "stderr", or a file path.
func Init(cfg Config) error {
	if cfg.Output != "" {
		mu.Lock()
		var newOutput io.Writer
		var newUseColor bool
		switch strings.ToLower(cfg.Output) {
		case "stdout":
			newOutput = os.Stdout
			newUseColor = isTerminal(os.Stdout.Fd())
		case "stderr":
			newOutput = os.Stderr
			newUseColor = isTerminal(os.Stderr.Fd())
		default:
			f, err := os.OpenFile(cfg.Output, os.O_APPEND|os.O_CREATE|os.O_WRONLY, 0644)
			if err != nil {
				mu.Unlock()
				return fmt.Errorf("open log output %q: %w", cfg.Output, err)
			}
			newOutput = f
			newUseColor = false
		}
		output = newOutput
		useColor = newUseColor
		mu.Unlock()
	}

	if cfg.Level != "" {
		switch strings.ToUpper(cfg.Level) {
		case "DEBUG":
			currentLevel.Store(int32(LevelDebug))
		case "INFO":
			currentLevel.Store(int32(LevelInfo))
		case "WARN":
			currentLevel.Store(int32(LevelWarn))
		case "ERROR":
			currentLevel.Store(int32(LevelError))
		default:
			return fmt.Errorf("unknown log level %q", cfg.Level)
		}
	}

	if cfg.Format != "" {
		f := strings.ToLower(cfg.Format)
		if f != "text" && f != "json" {
			return fmt.Errorf("unknown log format %q", cfg.Format)
		}
		currentFormat.Store(f)
	}

	reconfigure()
	return nil
}

func get() *slog.Logger {
	mu.RLock()
	defer mu.RUnlock()
	return slogger
}

func Debug(msg string, args ...any) { get().Debug(msg, args...) }
func Info(msg string, args ...any)  { get().Info(msg, args...) }
func Warn(msg string, args ...any)  { get().Warn(msg, args...) }
func Error(msg string, args ...any) { get().Error(msg, args...) }

// DebugContext/InfoContext/... thread LogContext fields onto the record when present.
func DebugContext(ctx context.Context, msg string, args ...any) {
	get().Log(ctx, slog.LevelDebug, msg, withLogContext(ctx, args)...)
}

func InfoContext(ctx context.Context, msg string, args ...any) {
	get().Log(ctx, slog.LevelInfo, msg, withLogContext(ctx, args)...)
}

func WarnContext(ctx context.Context, msg string, args ...any) {
	get().Log(ctx, slog.LevelWarn, msg, withLogContext(ctx, args)...)
}

func ErrorContext(ctx context.Context, msg string, args ...any) {
	get().Log(ctx, slog.LevelError, msg, withLogContext(ctx, args)...)
}

func withLogContext(ctx context.Context, args []any) []any {
	lc := FromContext(ctx)
	if lc == nil {
		return args
	}
	extra := []any{KeyRegistry, lc.RegistryID}
	if lc.ClientTxnID != "" {
		extra = append(extra, KeyClientTxnID, lc.ClientTxnID)
	}
	if lc.ServerTxnID != "" {
		extra = append(extra, KeyServerTxnID, lc.ServerTxnID)
	}
	if lc.Command != "" {
		extra = append(extra, KeyCommand, lc.Command)
	}
	if lc.TraceID != "" {
		extra = append(extra, KeyTraceID, lc.TraceID)
	}
	return append(extra, args...)
}
