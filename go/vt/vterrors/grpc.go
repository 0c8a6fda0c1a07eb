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
	"fmt"
	"io"

	"google.golang.org/grpc/codes"
	"google.golang.org/grpc/status"
)

// This file contains functions to convert errors to and from gRPC codes.
// The physical planner receives compilation failures over gRPC, so the code
// has to survive the trip.

// grpcErrorLimit keeps us under the 8 KiB header limit gRPC clients may enforce.
const grpcErrorLimit = 8*1024 - 512

func truncateError(err error) string {
	msg := err.Error()
	if len(msg) <= grpcErrorLimit {
		return msg
	}
	return fmt.Sprintf("%v [...] [remainder of the error is truncated because gRPC has a size limit on errors.]", msg[:grpcErrorLimit])
}

// ToGRPC returns an error as a gRPC error, with the appropriate error code.
func ToGRPC(err error) error {
	if err == nil {
		return nil
	}
	return status.Errorf(Code(err), "%v", truncateError(err))
}

// FromGRPC returns a gRPC error as a VitessError, translating between error codes.
// io.EOF is passed through untouched since callers compare against it.
func FromGRPC(err error) error {
	if err == nil {
		return nil
	}
	if err == io.EOF {
		return err
	}
	code := codes.Unknown
	if s, ok := status.FromError(err); ok {
		code = s.Code()
	}
	return New(code, err.Error())
}
