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

// Package planbuilder turns an analyzed relation into its initial logical plan.
// The plan is deliberately naive: predicates sit where the query wrote them and the
// optimizer moves them to the operators that can use them.
package planbuilder

import (
	"fmt"
	"strings"

	"vitess.io/planrewrite/go/vt/log"
	"vitess.io/planrewrite/go/vt/operators"
	"vitess.io/planrewrite/go/vt/relations"
	"vitess.io/planrewrite/go/vt/splitpoints"
	"vitess.io/planrewrite/go/vt/symbol"
	"vitess.io/planrewrite/go/vt/vterrors"
)

// Build creates the logical plan of a relation
func Build(rel relations.Relation) (operators.LogicalPlan, error) {
	switch rel := rel.(type) {
	case *relations.QueriedSelect:
		return buildSelect(rel)
	case *relations.TableRelation:
		return operators.NewCollect(rel, rel.Outputs(), nil), nil
	case *relations.AliasedRelation:
		src, err := Build(rel.Relation)
		if err != nil {
			return nil, err
		}
		return &operators.Rename{ID: rel.ID, Alias: rel.Alias, Columns: rel.Columns, Source: src}, nil
	case *relations.JoinRelation:
		return buildJoin(rel, nil)
	case *relations.UnionSelect:
		lhs, err := Build(rel.Left)
		if err != nil {
			return nil, err
		}
		rhs, err := Build(rel.Right)
		if err != nil {
			return nil, err
		}
		return &operators.Union{ID: rel.ID, Left: lhs, Right: rhs, Distinct: rel.Distinct, Columns: rel.Columns}, nil
	case *relations.TableFunctionRelation:
		return &operators.TableFunction{ID: rel.ID, Function: rel.Function, Columns: rel.Columns, Where: symbol.True()}, nil
	}
	return nil, vterrors.VT13001(fmt.Sprintf("cannot plan relation %T", rel))
}

func buildSelect(sel *relations.QueriedSelect) (operators.LogicalPlan, error) {
	sp, err := splitpoints.Create(sel)
	if err != nil {
		return nil, err
	}

	op, err := buildSource(sel.From, sp.ToCollect)
	if err != nil {
		return nil, err
	}
	extracted := []string{operators.Name(op)}

	op, err = addCorrelatedJoins(op, sel, sp)
	if err != nil {
		return nil, err
	}
	if _, ok := op.(*operators.CorrelatedJoin); ok {
		extracted = append(extracted, "CorrelatedJoin")
	}

	if sel.Where != nil {
		op = &operators.Filter{Source: op, Query: sel.Where}
		extracted = append(extracted, "Filter")
	}

	if len(sp.GroupByTableFunctions) > 0 {
		op = projectSet(op, sp.GroupByTableFunctions)
		extracted = append(extracted, "ProjectSet")
	}

	switch {
	case len(sel.GroupBy) > 0:
		op = &operators.GroupHashAggregate{Source: op, GroupKeys: sel.GroupBy, Aggregates: sp.Aggregates}
		extracted = append(extracted, "GroupHashAggregate")
	case len(sp.Aggregates) > 0:
		op = &operators.HashAggregate{Source: op, Aggregates: sp.Aggregates}
		extracted = append(extracted, "HashAggregate")
	}

	if sel.Having != nil {
		op = &operators.Filter{Source: op, Query: sel.Having}
		extracted = append(extracted, "Filter")
	}

	if len(sp.WindowFunctions) > 0 {
		op = &operators.WindowAgg{Source: op, WindowFunctions: sp.WindowFunctions}
		extracted = append(extracted, "WindowAgg")
	}

	if len(sp.TableFunctions) > 0 {
		op = projectSet(op, sp.TableFunctions)
		extracted = append(extracted, "ProjectSet")
	}

	if sel.OrderBy != nil && len(sel.OrderBy.Symbols) > 0 {
		op = &operators.Order{Source: op, OrderBy: sel.OrderBy}
		extracted = append(extracted, "OrderBy")
	}

	if sel.Limit != nil || sel.Offset != nil {
		limit := sel.Limit
		if limit == nil {
			limit = symbol.Lit(nil)
		}
		op = &operators.Limit{Source: op, Limit: limit, Offset: sel.Offset}
		extracted = append(extracted, "Limit")
	}

	if !operators.SameOutputs(op.Outputs(), sel.SelectExprs) {
		op = &operators.Eval{Source: op, Columns: sel.SelectExprs}
		extracted = append(extracted, "Eval")
	}

	log.DebugS("planned SELECT", "operators", strings.Join(extracted, ", "))
	return op, nil
}

// buildSource plans the FROM clause. A single table collects what the operators
// above need; an empty FROM selects from one empty row.
func buildSource(from []relations.Relation, toCollect []symbol.Symbol) (operators.LogicalPlan, error) {
	switch len(from) {
	case 0:
		return operators.EmptyRow(toCollect), nil
	case 1:
		if tbl, ok := from[0].(*relations.TableRelation); ok {
			return operators.NewCollect(tbl, toCollect, nil), nil
		}
		if join, ok := from[0].(*relations.JoinRelation); ok {
			return buildJoin(join, toCollect)
		}
		return Build(from[0])
	}

	// comma separated relations are cross joined from left to right
	op, err := buildInput(from[0], toCollect)
	if err != nil {
		return nil, err
	}
	for _, rel := range from[1:] {
		rhs, err := buildInput(rel, toCollect)
		if err != nil {
			return nil, err
		}
		op = &operators.Join{Left: op, Right: rhs, Type: relations.CrossJoin}
	}
	return op, nil
}

func buildJoin(join *relations.JoinRelation, toCollect []symbol.Symbol) (operators.LogicalPlan, error) {
	needed := toCollect
	if join.Condition != nil {
		needed = append(append([]symbol.Symbol{}, toCollect...), join.Condition)
	}
	lhs, err := buildInput(join.Left, needed)
	if err != nil {
		return nil, err
	}
	rhs, err := buildInput(join.Right, needed)
	if err != nil {
		return nil, err
	}
	return &operators.Join{Left: lhs, Right: rhs, Type: join.Type, Condition: join.Condition}, nil
}

// buildInput plans one side of a join. Tables only collect the columns of theirs
// that are used above the join.
func buildInput(rel relations.Relation, needed []symbol.Symbol) (operators.LogicalPlan, error) {
	switch rel := rel.(type) {
	case *relations.TableRelation:
		var columns []symbol.Symbol
		for _, col := range symbol.ExtractColumns(needed...) {
			if ref := col.(*symbol.Reference); ref.TableID == rel.ID {
				columns = append(columns, ref)
			}
		}
		if len(columns) == 0 {
			columns = rel.Outputs()
		}
		return operators.NewCollect(rel, columns, nil), nil
	case *relations.JoinRelation:
		return buildJoin(rel, needed)
	}
	return Build(rel)
}

// addCorrelatedJoins puts one correlated join per correlated subquery on top of the source.
// The sub plan returns at most two rows for scalar subqueries, so that more than one
// row can be reported, and one row for EXISTS.
func addCorrelatedJoins(op operators.LogicalPlan, sel *relations.QueriedSelect, sp *splitpoints.SplitPoints) (operators.LogicalPlan, error) {
	seen := map[*symbol.SelectSymbol]bool{}
	for _, sub := range sp.CorrelatedQueries {
		if seen[sub] {
			continue
		}
		seen[sub] = true

		if (len(sp.Aggregates) > 0 || len(sel.GroupBy) > 0) && !usedInWhere(sel, sub) {
			return nil, vterrors.VT12001("correlated subqueries in the outputs of an aggregation")
		}
		inner, ok := sub.Relation.(relations.Relation)
		if !ok {
			return nil, vterrors.VT13001(fmt.Sprintf("cannot plan subquery over %T", sub.Relation))
		}
		subPlan, err := Build(inner)
		if err != nil {
			return nil, err
		}
		limit := symbol.Lit(2)
		if sub.ResultType == symbol.Exists {
			limit = symbol.Lit(1)
		}
		op = &operators.CorrelatedJoin{
			Input:    op,
			SubQuery: sub,
			SubPlan:  &operators.Limit{Source: subPlan, Limit: limit},
		}
	}
	return op, nil
}

func usedInWhere(sel *relations.QueriedSelect, sub *symbol.SelectSymbol) bool {
	if sel.Where == nil {
		return false
	}
	return symbol.Any(sel.Where, func(s symbol.Symbol) bool {
		return s == symbol.Symbol(sub)
	})
}

// projectSet evaluates table functions, passing the source outputs through
func projectSet(op operators.LogicalPlan, tableFunctions []*symbol.Function) operators.LogicalPlan {
	var standalone []symbol.Symbol
	for _, s := range op.Outputs() {
		if !containsTableFunction(s) {
			standalone = append(standalone, s)
		}
	}
	return &operators.ProjectSet{Source: op, TableFunctions: tableFunctions, Standalone: standalone}
}

func containsTableFunction(s symbol.Symbol) bool {
	return symbol.Any(s, func(node symbol.Symbol) bool {
		f, ok := node.(*symbol.Function)
		return ok && f.Kind == symbol.Table
	})
}
