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

// Package log writes the planrewrite logs. Records go to glog unless --log-fmt
// is set on the command line, in which case they are written by a slog logger
// in the requested format.
package log

import (
	"strconv"

	"github.com/golang/glog"
	"github.com/spf13/pflag"
)

// Flush ensures any pending I/O is written.
var Flush = glog.Flush

// Level is the glog verbosity level.
type Level = glog.Level

// V reports whether verbosity at the call site is at least the requested level.
func V(level Level) bool {
	return bool(glog.V(level))
}

// options are the values of the log flags of a process
type options struct {
	format string
	level  string
}

var flagValues = options{format: "json", level: "info"}

// RegisterFlags installs log flags on the given FlagSet.
func RegisterFlags(fs *pflag.FlagSet) {
	fs.StringVar(&flagValues.format, "log-fmt", flagValues.format, "format of structured logs: json, logfmt or text. Setting it switches from glog to structured logging")
	fs.StringVar(&flagValues.level, "log-level", flagValues.level, "minimum level of structured logs: debug, info, warn or error")
	fs.Var(maxSize{}, "log-rotate-max-size", "size in bytes at which glog files are rotated")
}

// maxSize exposes glog.MaxSize as a flag
type maxSize struct{}

func (maxSize) Set(s string) error {
	n, err := strconv.ParseUint(s, 10, 64)
	if err != nil {
		return err
	}
	glog.MaxSize = n
	return nil
}

func (maxSize) String() string { return strconv.FormatUint(glog.MaxSize, 10) }
func (maxSize) Type() string   { return "uint64" }
