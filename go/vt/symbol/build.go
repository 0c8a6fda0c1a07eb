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
	"strings"

	"vitess.io/planrewrite/go/vt/semantics"
)

// Lit creates a literal. Ints are normalized to int64.
func Lit(v any) *Literal {
	if i, ok := v.(int); ok {
		v = int64(i)
	}
	return &Literal{Value: v}
}

// True is the literal TRUE
func True() *Literal {
	return &Literal{Value: true}
}

// IsTrue returns true if the symbol is the literal TRUE
func IsTrue(s Symbol) bool {
	lit, ok := s.(*Literal)
	return ok && lit.Value == true
}

// NewScalar creates a scalar function call
func NewScalar(name string, args ...Symbol) *Function {
	return &Function{Kind: Scalar, Name: name, Args: args}
}

// NewAggregate creates an aggregate call with an optional filter
func NewAggregate(name string, filter Symbol, args ...Symbol) *Function {
	return &Function{Kind: Aggregate, Name: name, Args: args, Filter: filter}
}

// NewTableFunction creates a table function call
func NewTableFunction(name string, args ...Symbol) *Function {
	return &Function{Kind: Table, Name: name, Args: args}
}

func Eq(a, b Symbol) *Function {
	return NewScalar(EqualOp, a, b)
}

func Not(a Symbol) *Function {
	return NewScalar(NotOp, a)
}

func Or(a, b Symbol) *Function {
	return NewScalar(OrOp, a, b)
}

func isAnd(s Symbol) (*Function, bool) {
	f, ok := s.(*Function)
	if ok && f.Kind == Scalar && f.Name == AndOp && len(f.Args) == 2 {
		return f, true
	}
	return nil, false
}

// SplitConjuncts breaks up the predicate into its AND separated parts.
// A nil predicate has no conjuncts.
func SplitConjuncts(s Symbol) []Symbol {
	if s == nil {
		return nil
	}
	if and, ok := isAnd(s); ok {
		return append(SplitConjuncts(and.Args[0]), SplitConjuncts(and.Args[1])...)
	}
	return []Symbol{s}
}

// And joins the predicates into one left deep AND chain.
// Nested ANDs are flattened, TRUE literals are removed, and the empty conjunction
// is TRUE. Duplicate conjuncts are removed unless they are non-deterministic.
func And(predicates ...Symbol) Symbol {
	seen := NewSet[Symbol]()
	var conjuncts []Symbol
	for _, p := range predicates {
		for _, c := range SplitConjuncts(p) {
			if IsTrue(c) {
				continue
			}
			if Deterministic(c) {
				if seen.Contains(c) {
					continue
				}
				seen.Add(c)
			}
			conjuncts = append(conjuncts, c)
		}
	}
	if len(conjuncts) == 0 {
		return True()
	}
	result := conjuncts[0]
	for _, c := range conjuncts[1:] {
		result = NewScalar(AndOp, result, c)
	}
	return result
}

// volatileFunctions return a new value on every call
var volatileFunctions = map[string]bool{
	"random":               true,
	"gen_random_text_uuid": true,
}

// Deterministic returns false if evaluating the tree twice over the same row can
// give different results.
func Deterministic(s Symbol) bool {
	return !Any(s, func(node Symbol) bool {
		fn, ok := node.(*Function)
		return ok && fn.Kind == Scalar && volatileFunctions[strings.ToLower(fn.Name)]
	})
}

// ExtractColumns returns the distinct column references of the given trees, in encounter order
func ExtractColumns(symbols ...Symbol) []Symbol {
	set := NewSet[Symbol]()
	for _, s := range symbols {
		Visit(s, func(node Symbol) bool {
			if ref, ok := node.(*Reference); ok {
				set.Add(ref)
			}
			return true
		})
	}
	return set.Symbols()
}

// Relations returns the relations whose columns the tree references directly
func Relations(s Symbol) (result semantics.TableSet) {
	Visit(s, func(node Symbol) bool {
		if ref, ok := node.(*Reference); ok {
			result = result.WithTable(ref.TableID)
		}
		return true
	})
	return
}
