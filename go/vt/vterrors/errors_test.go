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

package vterrors

import (
	"errors"
	"io"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"google.golang.org/grpc/codes"
)

func TestWrapNil(t *testing.T) {
	assert.Nil(t, Wrap(nil, "no error"))
	assert.Nil(t, Wrapf(nil, "no error %d", 1))
}

func TestWrap(t *testing.T) {
	tests := []struct {
		err         error
		message     string
		wantMessage string
		wantCode    codes.Code
	}{
		{io.EOF, "read error", "read error: EOF", codes.Unknown},
		{New(codes.AlreadyExists, "oops"), "client error", "client error: oops", codes.AlreadyExists},
		{VT12001("table functions inside aggregates"), "planning", "planning: VT12001: unsupported: table functions inside aggregates", codes.Unimplemented},
	}

	for _, tt := range tests {
		t.Run(tt.wantMessage, func(t *testing.T) {
			got := Wrap(tt.err, tt.message)
			assert.EqualError(t, got, tt.wantMessage)
			assert.Equal(t, tt.wantCode, Code(got))
		})
	}
}

func TestRootCause(t *testing.T) {
	x := New(codes.FailedPrecondition, "error")
	tests := []struct {
		err  error
		want error
	}{
		{err: nil, want: nil},
		{err: io.EOF, want: io.EOF},
		{err: Wrap(io.EOF, "ignored"), want: io.EOF},
		{err: Wrapf(Wrap(io.EOF, "inner"), "outer %d", 2), want: io.EOF},
		{err: x, want: x},
	}

	for i, tt := range tests {
		assert.Equal(t, tt.want, RootCause(tt.err), "test %d", i+1)
	}
}

func TestCodeAndState(t *testing.T) {
	assert.Equal(t, codes.OK, Code(nil))
	assert.Equal(t, codes.Unknown, Code(errors.New("plain")))

	err := VT12001("x")
	assert.Equal(t, codes.Unimplemented, Code(err))
	assert.Equal(t, NotSupportedYet, ErrState(err))
	assert.Equal(t, "VT12001", ID(err))

	wrapped := Wrap(err, "context")
	assert.Equal(t, NotSupportedYet, ErrState(wrapped))
	assert.Equal(t, "VT12001", ID(wrapped))
	assert.True(t, errors.Is(wrapped, err))

	bug := VT13002(7)
	assert.EqualError(t, bug, "VT13002: [BUG] optimizer did not reach a fixpoint after 7 iterations")
	assert.Equal(t, codes.Internal, Code(bug))
	assert.Equal(t, Undefined, ErrState(bug))
	assert.NotEmpty(t, Description("VT13002"))
}

func TestGRPCRoundTrip(t *testing.T) {
	require.Nil(t, ToGRPC(nil))
	require.Nil(t, FromGRPC(nil))
	assert.Equal(t, io.EOF, FromGRPC(io.EOF))

	err := FromGRPC(ToGRPC(VT13001("broken invariant")))
	assert.Equal(t, codes.Internal, Code(err))
	assert.Contains(t, err.Error(), "VT13001: [BUG] broken invariant")
}

func TestTruncateError(t *testing.T) {
	long := make([]byte, grpcErrorLimit+100)
	for i := range long {
		long[i] = 'a'
	}
	msg := truncateError(New(codes.Internal, string(long)))
	assert.Contains(t, msg, "remainder of the error is truncated")
	assert.Less(t, len(msg), len(long)+100)
}
