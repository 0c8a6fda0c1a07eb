/*
Copyright 2026 The Vitess Authors.

Licensed under the Apache License, Version 2.0 (the "License");
you may not use this file except in compliance with the License.
You may obtain a copy of the License at

    http://www.apache.org/licenses/LICENSE-2.0

Unless required by applicable law or agreed to in writing, software
distributed under the License is distributed on an "AS IS" BASIS,
WITHOUT WARRANTIES OR CONDITIONS OF ANY KIND, either express or implied.
See the License for the specific language governing permissions and
limitations under the License.
*/

package log

import (
	"context"
	"fmt"
	"io"
	"log/slog"
	"os"
	"runtime"
	"strings"
	"sync/atomic"
	"time"

	"github.com/golang/glog"
	"github.com/lmittmann/tint"
	"github.com/mattn/go-isatty"
	"github.com/spf13/pflag"
)

// structured is the logger records are written to. nil means glog.
var structured atomic.Pointer[slog.Logger]

// Init switches to structured logging when --log-fmt was set in fs.
func Init(fs *pflag.FlagSet) error {
	if fs == nil {
		return nil
	}
	if f := fs.Lookup("log-fmt"); f == nil || !f.Changed {
		return nil
	}

	logger, err := NewLogger(os.Stderr, flagValues.format, flagValues.level)
	if err != nil {
		return err
	}
	structured.Store(logger)
	return nil
}

// NewLogger returns a logger writing records of at least the given level to w.
// The text format is meant for people and is colored when w is a terminal.
func NewLogger(w io.Writer, format, level string) (*slog.Logger, error) {
	var lvl slog.Level
	if err := lvl.UnmarshalText([]byte(strings.TrimSpace(level))); err != nil {
		return nil, fmt.Errorf("invalid log-level %q: expected debug, info, warn or error", level)
	}

	opts := &slog.HandlerOptions{AddSource: lvl <= slog.LevelDebug, Level: lvl}
	var handler slog.Handler
	switch strings.ToLower(strings.TrimSpace(format)) {
	case "json":
		handler = slog.NewJSONHandler(w, opts)
	case "logfmt":
		handler = slog.NewTextHandler(w, opts)
	case "text":
		handler = tint.NewHandler(w, &tint.Options{
			AddSource:  opts.AddSource,
			Level:      lvl,
			TimeFormat: time.TimeOnly,
			NoColor:    !isTerminal(w),
		})
	default:
		return nil, fmt.Errorf("invalid log-fmt %q: expected json, logfmt or text", format)
	}
	return slog.New(handler).With("component", "planrewrite"), nil
}

func isTerminal(w io.Writer) bool {
	f, ok := w.(*os.File)
	return ok && isatty.IsTerminal(f.Fd())
}

// SetLogger makes logger the destination of all records until the returned
// function is called. Used for testing.
func SetLogger(logger *slog.Logger) (restore func()) {
	previous := structured.Swap(logger)
	return func() { structured.Store(previous) }
}

// Enabled reports whether a record of the given level would be written.
func Enabled(level slog.Level) bool {
	if logger := structured.Load(); logger != nil {
		return logger.Enabled(context.Background(), level)
	}
	return level >= slog.LevelInfo || V(1)
}

func InfoS(msg string, args ...any)  { write(slog.LevelInfo, msg, args) }
func WarnS(msg string, args ...any)  { write(slog.LevelWarn, msg, args) }
func DebugS(msg string, args ...any) { write(slog.LevelDebug, msg, args) }
func ErrorS(msg string, args ...any) { write(slog.LevelError, msg, args) }

// callerDepth is the number of frames between the caller of an exported
// function and the logging call: write and the exported function.
const callerDepth = 2

func write(level slog.Level, msg string, args []any) {
	logger := structured.Load()
	if logger == nil {
		writeGlog(level, glogLine(msg, args))
		return
	}

	ctx := context.Background()
	if !logger.Enabled(ctx, level) {
		return
	}
	var pcs [1]uintptr
	runtime.Callers(callerDepth+1, pcs[:])
	record := slog.NewRecord(time.Now(), level, msg, pcs[0])
	record.Add(args...)
	_ = logger.Handler().Handle(ctx, record)
}

func writeGlog(level slog.Level, line string) {
	depth := callerDepth + 1
	switch {
	case level >= slog.LevelError:
		glog.ErrorDepth(depth, line)
	case level >= slog.LevelWarn:
		glog.WarningDepth(depth, line)
	case level >= slog.LevelInfo || bool(glog.V(1)):
		glog.InfoDepth(depth, line)
	}
}

// glogLine renders a record as `msg key=value ...` for glog
func glogLine(msg string, args []any) string {
	var sb strings.Builder
	sb.WriteString(msg)
	r := slog.NewRecord(time.Time{}, slog.LevelInfo, "", 0)
	r.Add(args...)
	r.Attrs(func(attr slog.Attr) bool {
		fmt.Fprintf(&sb, " %s=%v", attr.Key, attr.Value)
		return true
	})
	return sb.String()
}
