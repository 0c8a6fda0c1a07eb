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
	"bytes"
	"log/slog"
	"testing"

	"github.com/spf13/pflag"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestSetLoggerCapturesStructuredOutput(t *testing.T) {
	var buf bytes.Buffer
	logger, err := NewLogger(&buf, "logfmt", "debug")
	require.NoError(t, err)

	restore := SetLogger(logger)
	defer restore()

	DebugS("rule applied", "rule", "MergeFilters")
	WarnS("iteration cap reached", "max_iterations", 3)

	out := buf.String()
	assert.Contains(t, out, `msg="rule applied"`)
	assert.Contains(t, out, "rule=MergeFilters")
	assert.Contains(t, out, "level=WARN")
	assert.Contains(t, out, "max_iterations=3")
	assert.Contains(t, out, "component=planrewrite")
	assert.True(t, Enabled(slog.LevelDebug))
}

func TestLevelFiltering(t *testing.T) {
	var buf bytes.Buffer
	logger, err := NewLogger(&buf, "json", "warn")
	require.NoError(t, err)

	restore := SetLogger(logger)
	defer restore()

	InfoS("dropped")
	ErrorS("kept")
	assert.NotContains(t, buf.String(), "dropped")
	assert.Contains(t, buf.String(), `"msg":"kept"`)
	assert.False(t, Enabled(slog.LevelInfo))
}

func TestTextFormat(t *testing.T) {
	var buf bytes.Buffer
	logger, err := NewLogger(&buf, "text", "info")
	require.NoError(t, err)

	restore := SetLogger(logger)
	defer restore()

	InfoS("optimized plan", "nodes", 3)
	out := buf.String()
	assert.Contains(t, out, "optimized plan")
	assert.Contains(t, out, "nodes=3")
	assert.NotContains(t, out, "\x1b[", "no colors when not writing to a terminal")
}

func TestNewLoggerRejectsBadInput(t *testing.T) {
	_, err := NewLogger(&bytes.Buffer{}, "xml", "info")
	assert.ErrorContains(t, err, "invalid log-fmt")

	_, err = NewLogger(&bytes.Buffer{}, "json", "loud")
	assert.ErrorContains(t, err, "invalid log-level")
}

func TestInitWithoutFormatFlagKeepsGlog(t *testing.T) {
	fs := pflag.NewFlagSet("test", pflag.ContinueOnError)
	RegisterFlags(fs)
	require.NoError(t, fs.Parse([]string{"--log-level", "debug"}))
	require.NoError(t, Init(fs))
	assert.Nil(t, structured.Load())
}

func TestInitWithFormatFlag(t *testing.T) {
	defer SetLogger(nil)()

	fs := pflag.NewFlagSet("test", pflag.ContinueOnError)
	RegisterFlags(fs)
	require.NoError(t, fs.Parse([]string{"--log-fmt", "logfmt", "--log-level", "warn"}))
	require.NoError(t, Init(fs))
	require.NotNil(t, structured.Load())
	assert.False(t, Enabled(slog.LevelInfo))
	assert.True(t, Enabled(slog.LevelWarn))
}

func TestGlogFallback(t *testing.T) {
	defer SetLogger(nil)()
	SetLogger(nil)

	assert.False(t, Enabled(slog.LevelDebug), "debug records need -v 1 under glog")
	assert.True(t, Enabled(slog.LevelInfo))
	assert.NotPanics(t, func() {
		DebugS("skipped rule", "rule", "MergeFilters")
		InfoS("optimized plan", "nodes", 2)
		WarnS("iteration cap reached", "max_iterations", 3)
	})
}

func TestGlogLine(t *testing.T) {
	assert.Equal(t, "optimizer stopped", glogLine("optimizer stopped", nil))
	assert.Equal(t, "rule applied rule=MergeFilters before=Filter after=Collect",
		glogLine("rule applied", []any{"rule", "MergeFilters", "before", "Filter", "after", "Collect"}))
	assert.Equal(t, "planned SELECT operators=[Eval Collect]",
		glogLine("planned SELECT", []any{"operators", []string{"Eval", "Collect"}}))
}

func TestRotateMaxSizeFlag(t *testing.T) {
	fs := pflag.NewFlagSet("test", pflag.ContinueOnError)
	RegisterFlags(fs)
	require.NoError(t, fs.Parse([]string{"--log-rotate-max-size", "4096"}))
	assert.Equal(t, "4096", fs.Lookup("log-rotate-max-size").Value.String())
	assert.Error(t, fs.Parse([]string{"--log-rotate-max-size", "big"}))
}
