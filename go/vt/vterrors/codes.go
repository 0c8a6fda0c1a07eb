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

	"google.golang.org/grpc/codes"
)

var (
	VT03001 = errorWithoutState("VT03001", codes.InvalidArgument, "invalid query description: %s", "The query description could not be decoded. Check the file against the documented format.")
	VT03002 = errorWithoutState("VT03002", codes.InvalidArgument, "invalid value for --%s: %s", "The flag does not accept the given value. Run the command with --help to list the accepted values.")
	VT03019 = errorWithState("VT03019", codes.InvalidArgument, BadFieldError, "column '%s' not found", "The given column was not found in any relation of the query.")
	VT03021 = errorWithState("VT03021", codes.InvalidArgument, NonUniqError, "ambiguous column reference: %s", "The column is present in more than one relation of the query. Qualify it with the relation name.")

	VT05004 = errorWithState("VT05004", codes.NotFound, NoSuchTable, "table '%s' does not exist", "The referenced table is not part of the schema.")

	VT12001 = errorWithState("VT12001", codes.Unimplemented, NotSupportedYet, "unsupported: %s", "This statement is unsupported by the planner. Rewrite the query or file a feature request.")

	VT13001 = errorWithoutState("VT13001", codes.Internal, "[BUG] %s", "This error should not happen and is a bug. Please file an issue on GitHub.")
	VT13002 = errorWithoutState("VT13002", codes.Internal, "[BUG] optimizer did not reach a fixpoint after %d iterations", "The rule catalog kept rewriting the plan. This indicates rules that undo each other.")

	// Errors is the list of all VT codes, used to generate documentation
	Errors = []func(args ...any) *VitessError{
		VT03001,
		VT03002,
		VT03019,
		VT03021,
		VT05004,
		VT12001,
		VT13001,
		VT13002,
	}
)

type codeDescription struct {
	id          string
	description string
}

var descriptions = map[string]codeDescription{}

// Description returns the long form description for a VT identifier.
func Description(id string) string {
	return descriptions[id].description
}

func errorWithoutState(id string, code codes.Code, short, long string) func(args ...any) *VitessError {
	return errorWithState(id, code, Undefined, short, long)
}

func errorWithState(id string, code codes.Code, state State, short, long string) func(args ...any) *VitessError {
	descriptions[id] = codeDescription{id: id, description: long}
	return func(args ...any) *VitessError {
		s := short
		if len(args) != 0 {
			s = fmt.Sprintf(s, args...)
		}

		return &VitessError{
			Code:  code,
			State: state,
			ID:    id,
			Msg:   id + ": " + s,
		}
	}
}
