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

// Package symbol contains the expression trees the planner works on.
//
// A Symbol is one of Reference, Literal, Function, WindowFunction, OuterColumn or SelectSymbol.
// Symbols are immutable once built, so subtrees are freely shared between plans.
package symbol

import (
	"vitess.io/planrewrite/go/vt/semantics"
)

type (
	// Symbol is a node in an expression tree. The set of implementations is closed.
	Symbol interface {
		String() string
		iSymbol()
	}

	// Reference is a column of a relation in the current scope.
	Reference struct {
		// TableID is the analyzer assigned identity of the relation the column belongs to
		TableID int
		Table   string
		Column  string
		Type    string

		Nullable  bool
		Generated bool
		Indexed   bool
	}

	// Literal is a constant value. A nil Value is SQL NULL.
	// Supported value types are bool, int64, float64 and string.
	Literal struct {
		Value any
	}

	// Function is a scalar, aggregate or table function call.
	Function struct {
		Kind   FunctionKind
		Name   string
		Args   []Symbol
		Filter Symbol // optional FILTER (WHERE ...) of an aggregate
	}

	// WindowFunction is a function evaluated over a window of rows.
	WindowFunction struct {
		Name       string
		Args       []Symbol
		Filter     Symbol
		Partitions []Symbol
		OrderBy    *OrderBy
	}

	// OuterColumn is a reference, inside a subquery, to a column of an enclosing relation.
	// The enclosing relation provides the value once per row through a correlated join.
	OuterColumn struct {
		Relation semantics.RelationName
		Symbol   Symbol
	}

	// SelectSymbol is a placeholder for the result of a subquery.
	// The subquery itself is not part of the symbol tree.
	SelectSymbol struct {
		Relation   Relation
		Correlated bool
		ResultType ResultType
	}

	// Relation is the view of an analyzed relation that symbols need.
	Relation interface {
		Outputs() []Symbol
		// VisitSymbols calls fn with every top level symbol tree of the relation,
		// including the ones of nested relations in its FROM clause
		VisitSymbols(fn func(Symbol))
		// SourceNames lists the relations in the FROM clause, used for display only
		SourceNames() []string
	}

	// OrderBy is a sort specification. Descending is aligned with Symbols.
	OrderBy struct {
		Symbols    []Symbol
		Descending []bool
	}

	FunctionKind int
	ResultType   int
)

const (
	Scalar FunctionKind = iota
	Aggregate
	Table
)

const (
	// SingleValue subqueries produce one value and fail on more than one row
	SingleValue ResultType = iota
	// Exists subqueries only report whether a row exists
	Exists
)

func (k FunctionKind) String() string {
	switch k {
	case Scalar:
		return "scalar"
	case Aggregate:
		return "aggregate"
	case Table:
		return "table"
	}
	return "unknown"
}

func (*Reference) iSymbol()      {}
func (*Literal) iSymbol()        {}
func (*Function) iSymbol()       {}
func (*WindowFunction) iSymbol() {}
func (*OuterColumn) iSymbol()    {}
func (*SelectSymbol) iSymbol()   {}

var (
	_ Symbol = (*Reference)(nil)
	_ Symbol = (*Literal)(nil)
	_ Symbol = (*Function)(nil)
	_ Symbol = (*WindowFunction)(nil)
	_ Symbol = (*OuterColumn)(nil)
	_ Symbol = (*SelectSymbol)(nil)
)

// Operator names of the scalar functions that have special meaning to the planner.
const (
	AndOp       = "AND"
	OrOp        = "OR"
	NotOp       = "NOT"
	EqualOp     = "="
	NotEqOp     = "<>"
	LessOp      = "<"
	LessEqOp    = "<="
	GreaterOp   = ">"
	GreaterEqOp = ">="
	PlusOp      = "+"
	MinusOp     = "-"
	MultOp      = "*"
	ExistsOp    = "exists"
	IsNullOp    = "is_null"
)

func (ob *OrderBy) symbols() []Symbol {
	if ob == nil {
		return nil
	}
	return ob.Symbols
}
