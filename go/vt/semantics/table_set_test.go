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

package semantics

import (
	"fmt"
	"testing"

	"github.com/stretchr/testify/assert"
)

const F3 = 8

func TestTableSet_IsOverlapping(t *testing.T) {
	tcases := []struct {
		a, b       TableSet
		overlaps   bool
		aSolvedByB bool
	}{
		{a: TableSetFromIds(1), b: TableSetFromIds(1, 2), overlaps: true, aSolvedByB: true},
		{a: TableSetFromIds(3), b: TableSetFromIds(1, 2), overlaps: false, aSolvedByB: false},
		{a: TableSetFromIds(1, 2), b: TableSetFromIds(2), overlaps: true, aSolvedByB: false},
		{a: EmptyTableSet(), b: TableSetFromIds(2), overlaps: false, aSolvedByB: true},
		{a: SingleTableSet(70), b: TableSetFromIds(2, 70), overlaps: true, aSolvedByB: true},
	}

	for _, tc := range tcases {
		t.Run(fmt.Sprintf("%v-%v", tc.a, tc.b), func(t *testing.T) {
			assert.Equal(t, tc.overlaps, tc.a.IsOverlapping(tc.b))
			assert.Equal(t, tc.overlaps, tc.b.IsOverlapping(tc.a))
			assert.Equal(t, tc.aSolvedByB, tc.a.IsSolvedBy(tc.b))
		})
	}
}

func TestTableSet_Immutable(t *testing.T) {
	a := SingleTableSet(1)
	b := a.WithTable(F3)
	merged := a.Merge(SingleTableSet(5))

	assert.Equal(t, 1, a.NumberOfTables())
	assert.Equal(t, 2, b.NumberOfTables())
	assert.Equal(t, 2, merged.NumberOfTables())
	assert.Equal(t, []int{1}, a.IDs())
	assert.Equal(t, []int{1, F3}, b.IDs())
}

func TestTableSet_Operations(t *testing.T) {
	ts := TableSetFromIds(0, 3, 9)

	assert.True(t, ts.Remove(SingleTableSet(3)).Equals(TableSetFromIds(0, 9)))
	assert.True(t, MergeTableSets(SingleTableSet(0), SingleTableSet(3), SingleTableSet(9)).Equals(ts))
	assert.Equal(t, []int{0, 3, 9}, ts.IDs())
	assert.Empty(t, EmptyTableSet().IDs())
	assert.True(t, TableSetFromIds(0, 70).Remove(SingleTableSet(70)).Equals(SingleTableSet(0)))
	assert.Equal(t, "TableSet{0,3,9}", fmt.Sprintf("%v", ts))
	assert.Equal(t, "TableSet{}", fmt.Sprintf("%v", EmptyTableSet()))
	assert.True(t, EmptyTableSet().IsEmpty())
	assert.True(t, TableSet{}.Equals(EmptyTableSet()))
}

func TestParseRelationName(t *testing.T) {
	assert.Equal(t, RelationName{Schema: "sys", Name: "summits"}, ParseRelationName("sys.summits"))
	assert.Equal(t, "doc.t1", ParseRelationName("t1").String())
}
