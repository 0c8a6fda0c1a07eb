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

package rules

import (
	"fmt"
	"sort"
	"strings"
	"testing"

	"github.com/stretchr/testify/require"

	"vitess.io/planrewrite/go/vt/operators"
	"vitess.io/planrewrite/go/vt/relations"
	"vitess.io/planrewrite/go/vt/symbol"
)

// database holds the rows of the test tables, keyed by relation id.
// A row maps column names to values, a missing or nil value is NULL.
type database map[int][]map[string]any

// scope binds the outer columns of a subquery to the current row of the correlated join input
type scope struct {
	outputs []symbol.Symbol
	row     []any
	parent  *scope
}

// executor is a small row based interpreter for logical plans. It only exists to
// check that rewrites do not change query results.
type executor struct {
	t  *testing.T
	db database
}

func run(t *testing.T, db database, plan operators.LogicalPlan) [][]any {
	t.Helper()
	e := &executor{t: t, db: db}
	return e.exec(plan, nil)
}

// sameRows compares two results as multisets
func sameRows(t *testing.T, expected, actual [][]any) {
	t.Helper()
	format := func(rows [][]any) []string {
		var out []string
		for _, r := range rows {
			out = append(out, fmt.Sprintf("%v", r))
		}
		sort.Strings(out)
		return out
	}
	require.Equal(t, format(expected), format(actual))
}

func (e *executor) tableRows(rel *relations.TableRelation) ([]symbol.Symbol, [][]any) {
	outputs := rel.Outputs()
	var rows [][]any
	for _, stored := range e.db[rel.ID] {
		row := make([]any, len(rel.Table.Columns))
		for i, col := range rel.Table.Columns {
			row[i] = stored[col.Name]
		}
		rows = append(rows, row)
	}
	return outputs, rows
}

func (e *executor) exec(plan operators.LogicalPlan, sc *scope) [][]any {
	switch plan := plan.(type) {
	case *operators.Collect:
		outputs, rows := e.tableRows(plan.Relation)
		var result [][]any
		for _, row := range rows {
			if e.eval(plan.Where, outputs, row, sc) == true {
				result = append(result, e.project(plan.Columns, outputs, row, sc))
			}
		}
		return result
	case *operators.Count:
		outputs, rows := e.tableRows(plan.Relation)
		var count int64
		for _, row := range rows {
			if e.eval(plan.Where, outputs, row, sc) == true {
				count++
			}
		}
		return [][]any{{count}}
	case *operators.TableFunction:
		require.Equal(e.t, "empty_row", plan.Function.Name, "only empty_row is supported")
		return [][]any{e.project(plan.Columns, nil, nil, sc)}
	case *operators.Filter:
		outputs := plan.Source.Outputs()
		var result [][]any
		for _, row := range e.exec(plan.Source, sc) {
			if e.eval(plan.Query, outputs, row, sc) == true {
				result = append(result, row)
			}
		}
		return result
	case *operators.Eval:
		outputs := plan.Source.Outputs()
		var result [][]any
		for _, row := range e.exec(plan.Source, sc) {
			result = append(result, e.project(plan.Columns, outputs, row, sc))
		}
		return result
	case *operators.Rename:
		return e.exec(plan.Source, sc)
	case *operators.Limit:
		rows := e.exec(plan.Source, sc)
		limit := e.eval(plan.Limit, nil, nil, sc).(int64)
		if int64(len(rows)) > limit {
			rows = rows[:limit]
		}
		return rows
	case *operators.HashAggregate:
		outputs := plan.Source.Outputs()
		rows := e.exec(plan.Source, sc)
		result := make([]any, len(plan.Aggregates))
		for i, agg := range plan.Aggregates {
			result[i] = e.aggregate(agg, outputs, rows, sc)
		}
		return [][]any{result}
	case *operators.Join:
		leftOutputs, rightOutputs := plan.Left.Outputs(), plan.Right.Outputs()
		outputs := plan.Outputs()
		require.Contains(e.t, []relations.JoinType{relations.CrossJoin, relations.InnerJoin}, plan.Type)
		var result [][]any
		rights := e.exec(plan.Right, sc)
		for _, l := range e.exec(plan.Left, sc) {
			for _, r := range rights {
				require.Len(e.t, l, len(leftOutputs))
				require.Len(e.t, r, len(rightOutputs))
				row := append(append([]any{}, l...), r...)
				if plan.Condition == nil || e.eval(plan.Condition, outputs, row, sc) == true {
					result = append(result, row)
				}
			}
		}
		return result
	case *operators.CorrelatedJoin:
		outputs := plan.Input.Outputs()
		var result [][]any
		for _, row := range e.exec(plan.Input, sc) {
			inner := &scope{outputs: outputs, row: row, parent: sc}
			subRows := e.exec(plan.SubPlan, inner)
			var value any
			switch plan.SubQuery.ResultType {
			case symbol.Exists:
				value = len(subRows) > 0
			default:
				require.LessOrEqual(e.t, len(subRows), 1, "subquery returned more than one row")
				if len(subRows) == 1 {
					value = subRows[0][0]
				}
			}
			result = append(result, append(append([]any{}, row...), value))
		}
		return result
	}
	e.t.Fatalf("cannot execute %T", plan)
	return nil
}

func (e *executor) aggregate(agg *symbol.Function, outputs []symbol.Symbol, rows [][]any, sc *scope) any {
	var count, sum int64
	for _, row := range rows {
		if agg.Filter != nil && e.eval(agg.Filter, outputs, row, sc) != true {
			continue
		}
		if len(agg.Args) == 0 {
			count++
			continue
		}
		v := e.eval(agg.Args[0], outputs, row, sc)
		if v == nil {
			continue
		}
		count++
		if i, ok := v.(int64); ok {
			sum += i
		}
	}
	switch agg.Name {
	case "count":
		return count
	case "sum":
		if count == 0 {
			return nil
		}
		return sum
	}
	e.t.Fatalf("unknown aggregate %s", agg.Name)
	return nil
}

func (e *executor) project(columns, outputs []symbol.Symbol, row []any, sc *scope) []any {
	result := make([]any, len(columns))
	for i, c := range columns {
		result[i] = e.eval(c, outputs, row, sc)
	}
	return result
}

// eval evaluates s against a row with the given outputs, with SQL three valued logic
func (e *executor) eval(s symbol.Symbol, outputs []symbol.Symbol, row []any, sc *scope) any {
	for i, out := range outputs {
		if symbol.Equal(out, s) {
			return row[i]
		}
	}
	switch s := s.(type) {
	case *symbol.Literal:
		return s.Value
	case *symbol.OuterColumn:
		for cur := sc; cur != nil; cur = cur.parent {
			for i, out := range cur.outputs {
				if symbol.Equal(out, s.Symbol) {
					return cur.row[i]
				}
			}
		}
		e.t.Fatalf("outer column %s is not bound", s)
	case *symbol.Function:
		if s.Kind != symbol.Scalar {
			e.t.Fatalf("%s must be computed by a dedicated operator", s)
		}
		args := make([]any, len(s.Args))
		for i, arg := range s.Args {
			args[i] = e.eval(arg, outputs, row, sc)
		}
		return e.scalar(s.Name, args)
	}
	e.t.Fatalf("%s (%T) is not available in [%s]", s, s, symbol.Join(outputs, ", "))
	return nil
}

func (e *executor) scalar(name string, args []any) any {
	switch name {
	case symbol.AndOp:
		if args[0] == false || args[1] == false {
			return false
		}
		if args[0] == nil || args[1] == nil {
			return nil
		}
		return true
	case symbol.OrOp:
		if args[0] == true || args[1] == true {
			return true
		}
		if args[0] == nil || args[1] == nil {
			return nil
		}
		return false
	case symbol.NotOp:
		if args[0] == nil {
			return nil
		}
		return !args[0].(bool)
	case symbol.IsNullOp:
		return args[0] == nil
	case symbol.ExistsOp:
		return args[0]
	}

	if args[0] == nil || args[1] == nil {
		return nil
	}
	cmp := compare(args[0], args[1])
	switch name {
	case symbol.EqualOp:
		return cmp == 0
	case symbol.NotEqOp:
		return cmp != 0
	case symbol.LessOp:
		return cmp < 0
	case symbol.LessEqOp:
		return cmp <= 0
	case symbol.GreaterOp:
		return cmp > 0
	case symbol.GreaterEqOp:
		return cmp >= 0
	case symbol.PlusOp:
		return args[0].(int64) + args[1].(int64)
	}
	e.t.Fatalf("unknown function %s", name)
	return nil
}

func compare(a, b any) int {
	switch a := a.(type) {
	case int64:
		b := b.(int64)
		switch {
		case a < b:
			return -1
		case a > b:
			return 1
		}
		return 0
	case string:
		return strings.Compare(a, b.(string))
	case bool:
		if a == b.(bool) {
			return 0
		}
		if !a {
			return -1
		}
		return 1
	}
	panic(fmt.Sprintf("cannot compare %T", a))
}
