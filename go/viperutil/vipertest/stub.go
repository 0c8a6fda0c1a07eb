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

package vipertest

import (
	"testing"

	"vitess.io/planrewrite/go/viperutil"
)

// Stub sets val to v for the duration of the test and restores the previous
// value on cleanup.
func Stub[T any](t *testing.T, val *viperutil.Value[T], v T) {
	t.Helper()

	old := val.Get()
	val.Set(v)
	t.Cleanup(func() {
		val.Set(old)
	})
}
