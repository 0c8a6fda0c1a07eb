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
	"strconv"
	"strings"

	"github.com/bits-and-blooms/bitset"
)

// TableSet is a set of relation ids. The analyzer hands out the ids, one per
// relation in a query, and every plan node reports the relations it covers as
// a TableSet. A TableSet is never modified; operations return a new set.
type TableSet struct {
	bits *bitset.BitSet
}

func (ts TableSet) set() *bitset.BitSet {
	if ts.bits == nil {
		return bitset.New(0)
	}
	return ts.bits
}

// SingleTableSet returns the set holding only id
func SingleTableSet(id int) TableSet {
	return TableSet{bits: bitset.New(uint(id + 1)).Set(uint(id))}
}

// EmptyTableSet returns the set without relations
func EmptyTableSet() TableSet {
	return TableSet{}
}

// TableSetFromIds returns the set holding the given ids
func TableSetFromIds(ids ...int) TableSet {
	b := bitset.New(0)
	for _, id := range ids {
		b.Set(uint(id))
	}
	return TableSet{bits: b}
}

// MergeTableSets returns the union of all sets
func MergeTableSets(sets ...TableSet) TableSet {
	b := bitset.New(0)
	for _, ts := range sets {
		b.InPlaceUnion(ts.set())
	}
	return TableSet{bits: b}
}

// IDs returns the relation ids in ascending order
func (ts TableSet) IDs() []int {
	b := ts.set()
	ids := make([]int, 0, b.Count())
	for i, ok := b.NextSet(0); ok; i, ok = b.NextSet(i + 1) {
		ids = append(ids, int(i))
	}
	return ids
}

func (ts TableSet) Format(f fmt.State, _ rune) {
	ids := ts.IDs()
	parts := make([]string, len(ids))
	for i, id := range ids {
		parts[i] = strconv.Itoa(id)
	}
	fmt.Fprintf(f, "TableSet{%s}", strings.Join(parts, ","))
}

// IsOverlapping reports whether a relation is in both sets
func (ts TableSet) IsOverlapping(other TableSet) bool {
	return ts.set().IntersectionCardinality(other.set()) > 0
}

// IsSolvedBy reports whether every relation of ts is covered by other. A
// predicate over ts can be evaluated by a node covering other.
func (ts TableSet) IsSolvedBy(other TableSet) bool {
	return other.set().IsSuperSet(ts.set())
}

func (ts TableSet) NumberOfTables() int {
	return int(ts.set().Count())
}

func (ts TableSet) IsEmpty() bool {
	return ts.set().None()
}

// Equals compares the relations only. The bitsets of equal sets can differ in length.
func (ts TableSet) Equals(other TableSet) bool {
	return ts.IsSolvedBy(other) && other.IsSolvedBy(ts)
}

// Merge returns the union of ts and other
func (ts TableSet) Merge(other TableSet) TableSet {
	return TableSet{bits: ts.set().Union(other.set())}
}

// Remove returns ts without the relations of other
func (ts TableSet) Remove(other TableSet) TableSet {
	return TableSet{bits: ts.set().Difference(other.set())}
}

// WithTable returns ts with id added
func (ts TableSet) WithTable(id int) TableSet {
	return TableSet{bits: ts.set().Clone().Set(uint(id))}
}
