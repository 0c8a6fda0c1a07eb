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

package symbol

import (
	"encoding/binary"
	"fmt"
	"math"

	"github.com/cespare/xxhash/v2"
)

// Children returns the direct sub expressions of a symbol.
// OuterColumn and SelectSymbol are leaves: what they point to belongs to another scope.
func Children(s Symbol) []Symbol {
	switch s := s.(type) {
	case *Function:
		if s.Filter == nil {
			return s.Args
		}
		return append(append([]Symbol{}, s.Args...), s.Filter)
	case *WindowFunction:
		children := append([]Symbol{}, s.Args...)
		if s.Filter != nil {
			children = append(children, s.Filter)
		}
		children = append(children, s.Partitions...)
		return append(children, s.OrderBy.symbols()...)
	case *Reference, *Literal, *OuterColumn, *SelectSymbol, nil:
		return nil
	default:
		panic(fmt.Sprintf("BUG: unknown symbol type %T", s))
	}
}

// Visit walks the symbol tree in pre-order. Returning false from the visitor
// skips the children of the visited node.
func Visit(s Symbol, visitor func(Symbol) bool) {
	if s == nil {
		return
	}
	if !visitor(s) {
		return
	}
	for _, child := range Children(s) {
		Visit(child, visitor)
	}
}

// Any returns true if any node of the tree satisfies the predicate
func Any(s Symbol, pred func(Symbol) bool) (found bool) {
	Visit(s, func(node Symbol) bool {
		if found {
			return false
		}
		if pred(node) {
			found = true
			return false
		}
		return true
	})
	return
}

// IsCorrelatedSubquery is true for correlated SelectSymbols
func IsCorrelatedSubquery(s Symbol) bool {
	sel, ok := s.(*SelectSymbol)
	return ok && sel.Correlated
}

// ContainsCorrelatedSubquery returns true if the tree contains a correlated subquery
func ContainsCorrelatedSubquery(s Symbol) bool {
	return Any(s, IsCorrelatedSubquery)
}

// Equal compares two symbol trees structurally. Subqueries are equal only if
// they are placeholders for the same relation.
func Equal(a, b Symbol) bool {
	if a == nil || b == nil {
		return a == nil && b == nil
	}
	switch a := a.(type) {
	case *Reference:
		b, ok := b.(*Reference)
		return ok && *a == *b
	case *Literal:
		b, ok := b.(*Literal)
		return ok && a.Value == b.Value
	case *Function:
		b, ok := b.(*Function)
		return ok && a.Kind == b.Kind && a.Name == b.Name && Equal(a.Filter, b.Filter) && equalSlices(a.Args, b.Args)
	case *WindowFunction:
		b, ok := b.(*WindowFunction)
		return ok && a.Name == b.Name &&
			equalSlices(a.Args, b.Args) &&
			Equal(a.Filter, b.Filter) &&
			equalSlices(a.Partitions, b.Partitions) &&
			equalOrderBy(a.OrderBy, b.OrderBy)
	case *OuterColumn:
		b, ok := b.(*OuterColumn)
		return ok && a.Relation == b.Relation && Equal(a.Symbol, b.Symbol)
	case *SelectSymbol:
		b, ok := b.(*SelectSymbol)
		return ok && a.Relation == b.Relation && a.Correlated == b.Correlated && a.ResultType == b.ResultType
	default:
		panic(fmt.Sprintf("BUG: unknown symbol type %T", a))
	}
}

func equalSlices(a, b []Symbol) bool {
	if len(a) != len(b) {
		return false
	}
	for i := range a {
		if !Equal(a[i], b[i]) {
			return false
		}
	}
	return true
}

func equalOrderBy(a, b *OrderBy) bool {
	if a == nil || b == nil {
		return a == nil && b == nil
	}
	if len(a.Descending) != len(b.Descending) {
		return false
	}
	for i := range a.Descending {
		if a.Descending[i] != b.Descending[i] {
			return false
		}
	}
	return equalSlices(a.Symbols, b.Symbols)
}

// Hash returns a structural hash of the tree, consistent with Equal
func Hash(s Symbol) uint64 {
	h := xxhash.New()
	hashInto(h, s)
	return h.Sum64()
}

func hashInto(h *xxhash.Digest, s Symbol) {
	var buf [8]byte
	writeInt := func(i uint64) {
		binary.LittleEndian.PutUint64(buf[:], i)
		_, _ = h.Write(buf[:])
	}
	writeString := func(str string) {
		writeInt(uint64(len(str)))
		_, _ = h.WriteString(str)
	}

	switch s := s.(type) {
	case nil:
		writeInt(0)
	case *Reference:
		writeInt(1)
		writeInt(uint64(s.TableID))
		writeString(s.Column)
	case *Literal:
		writeInt(2)
		switch v := s.Value.(type) {
		case nil:
			writeInt(0)
		case bool:
			if v {
				writeInt(1)
			} else {
				writeInt(2)
			}
		case int64:
			writeInt(uint64(v))
		case float64:
			writeInt(math.Float64bits(v))
		case string:
			writeString(v)
		default:
			writeString(fmt.Sprintf("%v", v))
		}
	case *Function:
		writeInt(3)
		writeInt(uint64(s.Kind))
		writeString(s.Name)
		for _, arg := range s.Args {
			hashInto(h, arg)
		}
		hashInto(h, s.Filter)
	case *WindowFunction:
		writeInt(4)
		writeString(s.Name)
		for _, child := range Children(s) {
			hashInto(h, child)
		}
	case *OuterColumn:
		writeInt(5)
		writeString(s.Relation.String())
		hashInto(h, s.Symbol)
	case *SelectSymbol:
		writeInt(6)
		for _, out := range s.Relation.Outputs() {
			hashInto(h, out)
		}
	default:
		panic(fmt.Sprintf("BUG: unknown symbol type %T", s))
	}
}

// Set is an insertion ordered set of symbols, de-duplicated by structural equality.
type Set[S Symbol] struct {
	items []S
	index map[uint64][]int
}

// NewSet creates a set with the given symbols.
func NewSet[S Symbol](symbols ...S) *Set[S] {
	set := &Set[S]{index: map[uint64][]int{}}
	set.Add(symbols...)
	return set
}

// Add appends the symbols not yet in the set
func (s *Set[S]) Add(symbols ...S) {
	for _, sym := range symbols {
		key := Hash(sym)
		if s.find(key, sym) >= 0 {
			continue
		}
		s.index[key] = append(s.index[key], len(s.items))
		s.items = append(s.items, sym)
	}
}

// Contains returns true if a structurally equal symbol is in the set
func (s *Set[S]) Contains(sym S) bool {
	return s.find(Hash(sym), sym) >= 0
}

// Remove removes all the given symbols, keeping the order of the rest
func (s *Set[S]) Remove(symbols ...S) {
	if len(symbols) == 0 {
		return
	}
	drop := NewSet(symbols...)
	old := s.items
	s.items = nil
	s.index = map[uint64][]int{}
	for _, sym := range old {
		if !drop.Contains(sym) {
			s.Add(sym)
		}
	}
}

func (s *Set[S]) find(key uint64, sym S) int {
	for _, idx := range s.index[key] {
		if Equal(s.items[idx], sym) {
			return idx
		}
	}
	return -1
}

// Len returns the number of symbols in the set
func (s *Set[S]) Len() int {
	return len(s.items)
}

// Symbols returns the content of the set in insertion order.
func (s *Set[S]) Symbols() []S {
	return append([]S(nil), s.items...)
}
