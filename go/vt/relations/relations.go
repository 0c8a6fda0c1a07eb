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

// Package relations models the analyzed relation tree that the classifier and the plan builder consume.
package relations

import (
	"vitess.io/planrewrite/go/vt/semantics"
	"vitess.io/planrewrite/go/vt/symbol"
)

type (
	// Relation is any node of the analyzed relation tree
	Relation interface {
		symbol.Relation
		iRelation()
	}

	// QueriedSelect is a SELECT with all its clauses analyzed.
	// A nil Where means TRUE. An empty From selects from a single empty row.
	QueriedSelect struct {
		From        []Relation
		SelectExprs []symbol.Symbol
		Where       symbol.Symbol
		GroupBy     []symbol.Symbol
		Having      symbol.Symbol
		OrderBy     *symbol.OrderBy
		Limit       symbol.Symbol
		Offset      symbol.Symbol
	}

	// TableRelation is a table read directly. Columns of the table reference it through ID.
	TableRelation struct {
		ID    int
		Table *semantics.TableInfo
		Alias string
	}

	// AliasedRelation gives a name to a relation, e.g. a subquery in the FROM clause.
	// Outputs are new references owned by the alias, aligned with the inner relation outputs.
	AliasedRelation struct {
		ID       int
		Alias    string
		Relation Relation
		Columns  []symbol.Symbol
	}

	// JoinRelation joins two relations
	JoinRelation struct {
		Left, Right Relation
		Type        JoinType
		Condition   symbol.Symbol
	}

	// UnionSelect is a UNION of two relations. Columns are owned by the union.
	UnionSelect struct {
		ID          int
		Left, Right Relation
		Distinct    bool
		Columns     []symbol.Symbol
	}

	// TableFunctionRelation is a table function used in FROM, e.g. generate_series(1, 10)
	TableFunctionRelation struct {
		ID       int
		Function *symbol.Function
		Columns  []symbol.Symbol
	}

	JoinType int
)

const (
	CrossJoin JoinType = iota
	InnerJoin
	LeftJoin
	RightJoin
	FullJoin
)

func (jt JoinType) String() string {
	switch jt {
	case CrossJoin:
		return "CROSS"
	case InnerJoin:
		return "INNER"
	case LeftJoin:
		return "LEFT"
	case RightJoin:
		return "RIGHT"
	case FullJoin:
		return "FULL"
	}
	return "UNKNOWN"
}

func (*QueriedSelect) iRelation()         {}
func (*TableRelation) iRelation()         {}
func (*AliasedRelation) iRelation()       {}
func (*JoinRelation) iRelation()          {}
func (*UnionSelect) iRelation()           {}
func (*TableFunctionRelation) iRelation() {}

// Outputs implements the symbol.Relation interface
func (qs *QueriedSelect) Outputs() []symbol.Symbol {
	return qs.SelectExprs
}

// WhereOrTrue returns the where clause, TRUE if there is none
func (qs *QueriedSelect) WhereOrTrue() symbol.Symbol {
	if qs.Where == nil {
		return symbol.True()
	}
	return qs.Where
}

// VisitSymbols implements the symbol.Relation interface
func (qs *QueriedSelect) VisitSymbols(fn func(symbol.Symbol)) {
	for _, s := range qs.SelectExprs {
		fn(s)
	}
	if qs.Where != nil {
		fn(qs.Where)
	}
	for _, s := range qs.GroupBy {
		fn(s)
	}
	if qs.Having != nil {
		fn(qs.Having)
	}
	if qs.OrderBy != nil {
		for _, s := range qs.OrderBy.Symbols {
			fn(s)
		}
	}
	for _, rel := range qs.From {
		rel.VisitSymbols(fn)
	}
}

// SourceNames implements the symbol.Relation interface
func (qs *QueriedSelect) SourceNames() []string {
	var names []string
	for _, rel := range qs.From {
		names = append(names, rel.SourceNames()...)
	}
	return names
}

// Outputs implements the symbol.Relation interface
func (tr *TableRelation) Outputs() []symbol.Symbol {
	outputs := make([]symbol.Symbol, 0, len(tr.Table.Columns))
	for _, col := range tr.Table.Columns {
		outputs = append(outputs, tr.Column(col.Name))
	}
	return outputs
}

// Column returns the reference to the named column of this table, nil if the column does not exist
func (tr *TableRelation) Column(name string) *symbol.Reference {
	info, ok := tr.Table.Column(name)
	if !ok {
		return nil
	}
	return &symbol.Reference{
		TableID:   tr.ID,
		Table:     tr.Name(),
		Column:    info.Name,
		Type:      info.Type,
		Nullable:  info.Nullable,
		Generated: info.Generated,
		Indexed:   info.Indexed,
	}
}

// Name is the name the relation is known by in its query
func (tr *TableRelation) Name() string {
	if tr.Alias != "" {
		return tr.Alias
	}
	return tr.Table.Name.Name
}

func (tr *TableRelation) VisitSymbols(func(symbol.Symbol)) {}

func (tr *TableRelation) SourceNames() []string {
	return []string{tr.Table.Name.String()}
}

func (ar *AliasedRelation) Outputs() []symbol.Symbol {
	return ar.Columns
}

func (ar *AliasedRelation) VisitSymbols(fn func(symbol.Symbol)) {
	ar.Relation.VisitSymbols(fn)
}

func (ar *AliasedRelation) SourceNames() []string {
	return []string{ar.Alias}
}

func (jr *JoinRelation) Outputs() []symbol.Symbol {
	return append(append([]symbol.Symbol{}, jr.Left.Outputs()...), jr.Right.Outputs()...)
}

func (jr *JoinRelation) VisitSymbols(fn func(symbol.Symbol)) {
	if jr.Condition != nil {
		fn(jr.Condition)
	}
	jr.Left.VisitSymbols(fn)
	jr.Right.VisitSymbols(fn)
}

func (jr *JoinRelation) SourceNames() []string {
	return append(jr.Left.SourceNames(), jr.Right.SourceNames()...)
}

func (us *UnionSelect) Outputs() []symbol.Symbol {
	return us.Columns
}

func (us *UnionSelect) VisitSymbols(fn func(symbol.Symbol)) {
	us.Left.VisitSymbols(fn)
	us.Right.VisitSymbols(fn)
}

func (us *UnionSelect) SourceNames() []string {
	return append(us.Left.SourceNames(), us.Right.SourceNames()...)
}

func (tf *TableFunctionRelation) Outputs() []symbol.Symbol {
	return tf.Columns
}

func (tf *TableFunctionRelation) VisitSymbols(fn func(symbol.Symbol)) {
	fn(tf.Function)
}

func (tf *TableFunctionRelation) SourceNames() []string {
	return []string{tf.Function.Name}
}

// JoinConditions returns the join conditions found in the FROM clause of the relation,
// in depth first, left to right order. Aliases are looked through and both sides of
// unions are visited. Structurally equal conditions are only returned once.
func JoinConditions(rel *QueriedSelect) []symbol.Symbol {
	conditions := symbol.NewSet[symbol.Symbol]()
	var visit func(Relation)
	visit = func(r Relation) {
		switch r := r.(type) {
		case *AliasedRelation:
			visit(r.Relation)
		case *UnionSelect:
			visit(r.Left)
			visit(r.Right)
		case *JoinRelation:
			if r.Condition != nil {
				conditions.Add(r.Condition)
			}
			visit(r.Left)
			visit(r.Right)
		case *QueriedSelect:
			for _, from := range r.From {
				visit(from)
			}
		}
	}
	visit(rel)
	return conditions.Symbols()
}

// IDs returns the relation identities introduced by this relation tree
func IDs(rel Relation) semantics.TableSet {
	switch rel := rel.(type) {
	case *TableRelation:
		return semantics.SingleTableSet(rel.ID)
	case *AliasedRelation:
		return semantics.SingleTableSet(rel.ID)
	case *UnionSelect:
		return semantics.SingleTableSet(rel.ID)
	case *TableFunctionRelation:
		return semantics.SingleTableSet(rel.ID)
	case *JoinRelation:
		return IDs(rel.Left).Merge(IDs(rel.Right))
	case *QueriedSelect:
		var result semantics.TableSet
		for _, from := range rel.From {
			result = result.Merge(IDs(from))
		}
		return result
	}
	return semantics.EmptyTableSet()
}
