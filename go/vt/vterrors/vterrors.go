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

// Package vterrors provides error values carrying a status code and an
// optional MySQL-style error state.
//
// Errors created here are what the planner returns to its callers. A caller
// that needs to decide whether a failure is the user's fault or an engine bug
// inspects Code(err): codes.Unimplemented and codes.InvalidArgument reject the
// statement, codes.Internal means the planner hit an invariant violation.
package vterrors

import (
	"errors"
	"fmt"

	"google.golang.org/grpc/codes"
)

// VitessError is the concrete error type used throughout the planner.
type VitessError struct {
	Code  codes.Code
	State State
	// ID is the VT error identifier, e.g. VT12001. Empty for errors created with New or Errorf.
	ID  string
	Msg string
	err error
}

func (e *VitessError) Error() string {
	return e.Msg
}

// ErrorCode implements ErrorWithCode
func (e *VitessError) ErrorCode() codes.Code {
	return e.Code
}

// ErrorState implements ErrorWithState
func (e *VitessError) ErrorState() State {
	return e.State
}

// Unwrap returns the wrapped cause, if any
func (e *VitessError) Unwrap() error {
	return e.err
}

// Cause is kept for callers that walk error chains manually
func (e *VitessError) Cause() error {
	return e.err
}

// New returns an error with the supplied message and code.
func New(code codes.Code, message string) error {
	return &VitessError{Code: code, Msg: message}
}

// Errorf formats according to a format specifier and returns the string
// as a value that satisfies error.
func Errorf(code codes.Code, format string, args ...any) error {
	return &VitessError{Code: code, Msg: fmt.Sprintf(format, args...)}
}

// NewErrorf also takes an error state as well as an error code
func NewErrorf(code codes.Code, state State, format string, args ...any) error {
	return &VitessError{Code: code, State: state, Msg: fmt.Sprintf(format, args...)}
}

// Wrap returns an error annotating err with message.
// If err is nil, Wrap returns nil.
func Wrap(err error, message string) error {
	if err == nil {
		return nil
	}
	return &VitessError{
		Code:  Code(err),
		State: ErrState(err),
		ID:    ID(err),
		Msg:   fmt.Sprintf("%s: %s", message, err.Error()),
		err:   err,
	}
}

// Wrapf returns an error annotating err with the format specifier.
// If err is nil, Wrapf returns nil.
func Wrapf(err error, format string, args ...any) error {
	if err == nil {
		return nil
	}
	return Wrap(err, fmt.Sprintf(format, args...))
}

// Code returns the error code if it's a VitessError.
// If err is nil, it returns codes.OK.
// Otherwise it returns codes.Unknown.
func Code(err error) codes.Code {
	if err == nil {
		return codes.OK
	}
	var withCode ErrorWithCode
	if errors.As(err, &withCode) {
		return withCode.ErrorCode()
	}
	return codes.Unknown
}

// ErrState returns the error state if it's a VitessError.
func ErrState(err error) State {
	var withState ErrorWithState
	if errors.As(err, &withState) {
		return withState.ErrorState()
	}
	return Undefined
}

// ID returns the VT identifier of err, or the empty string.
func ID(err error) string {
	var vterr *VitessError
	if errors.As(err, &vterr) {
		return vterr.ID
	}
	return ""
}

// Cause returns the immediate cause of err, or nil if it has none.
func Cause(err error) error {
	if err == nil {
		return nil
	}
	return errors.Unwrap(err)
}

// RootCause returns the innermost error of the chain.
// An error that wraps nothing is its own root cause.
func RootCause(err error) error {
	for {
		cause := Cause(err)
		if cause == nil {
			return err
		}
		err = cause
	}
}
