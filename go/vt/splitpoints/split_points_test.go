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

package splitpoints

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"google.golang.org/grpc/codes"

	"vitess.io/planrewrite/go/vt/relations"
	"vitess.io/planrewrite/go/vt/semantics"
	"vitess.io/planrewrite/go/vt/symbol"
	"vitess.io/planrewrite/go/vt/vterrors"
)

func newTable(id int, name string, cols ...string) *relations.TableRelation {
	info := &semantics.TableInfo{Name: semantics.ParseRelationName(name)}
	for _, c := range cols {
		info.Columns = append(info.Columns, semantics.ColumnInfo{Name: c, Nullable: true})
	}
	return &relations.TableRelation{ID: id, Table: info}
}

func names[S symbol.Symbol](symbols []S) string {
	return symbol.Join(symbols, ", ")
}

func TestClassifyOutputs(t *testing.T) {
	tbl := newTable(0, "t1", "a", "b", "c")
	a, b, c := tbl.Column("a"), tbl.Column("b"), tbl.Column("c")
	unnest := func(args ...symbol.Symbol) *symbol.Function { return symbol.NewTableFunction("unnest", args...) }
	plus := func(x, y symbol.Symbol) *symbol.Function { return symbol.NewScalar(symbol.PlusOp, x, y) }

	tcases := []struct {
		name           string
		outputs        []symbol.Symbol
		groupBy        []symbol.Symbol
		where          symbol.Symbol
		toCollect      string
		aggregates     string
		tableFunctions string
		groupByTF      string
		windows        string
	}{{
		name:           "table function and aggregate",
		outputs:        []symbol.Symbol{plus(symbol.NewTableFunction("f", a), symbol.Lit(1)), symbol.NewAggregate("count", nil, b)},
		toCollect:      "a, b",
		aggregates:     "count(b)",
		tableFunctions: "f(a)",
	}, {
		name:      "plain columns",
		outputs:   []symbol.Symbol{a, plus(b, symbol.Lit(1))},
		where:     symbol.Eq(c, symbol.Lit(3)),
		toCollect: "a, (b + 1), c",
	}, {
		name:           "structurally equal table functions are registered once",
		outputs:        []symbol.Symbol{unnest(a), plus(unnest(a), symbol.Lit(1)), unnest(unnest(b))},
		toCollect:      "a, b",
		tableFunctions: "unnest(a), unnest(unnest(b))",
	}, {
		name:           "column beside a table function is standalone",
		outputs:        []symbol.Symbol{plus(unnest(a), b)},
		toCollect:      "a, b",
		tableFunctions: "unnest(a)",
	}, {
		name:       "aggregate filter is collected",
		outputs:    []symbol.Symbol{symbol.NewAggregate("count", symbol.Eq(b, symbol.Lit(2)), a)},
		toCollect:  "a, (b = 2)",
		aggregates: "count(a) FILTER (WHERE (b = 2))",
	}, {
		name:       "group by table function is moved below the grouping",
		outputs:    []symbol.Symbol{unnest(a), symbol.NewAggregate("count", nil)},
		groupBy:    []symbol.Symbol{unnest(a)},
		toCollect:  "a",
		aggregates: "count(*)",
		groupByTF:  "unnest(a)",
	}, {
		name:       "group by columns",
		outputs:    []symbol.Symbol{c, symbol.NewAggregate("sum", nil, a)},
		groupBy:    []symbol.Symbol{c},
		where:      symbol.Eq(b, symbol.Lit(1)),
		toCollect:  "a, c, b",
		aggregates: "sum(a)",
	}, {
		name: "window function",
		outputs: []symbol.Symbol{
			&symbol.WindowFunction{
				Name:       "row_number",
				Partitions: []symbol.Symbol{a},
				OrderBy:    &symbol.OrderBy{Symbols: []symbol.Symbol{b}, Descending: []bool{false}},
			},
			c,
		},
		toCollect: "a, b, c",
		windows:   "row_number() OVER (PARTITION BY a ORDER BY b ASC)",
	}, {
		name: "aggregates in a window definition are split points",
		outputs: []symbol.Symbol{
			&symbol.WindowFunction{
				Name:    "rank",
				OrderBy: &symbol.OrderBy{Symbols: []symbol.Symbol{symbol.NewAggregate("sum", nil, a)}, Descending: []bool{true}},
			},
		},
		groupBy:    []symbol.Symbol{c},
		toCollect:  "a, c",
		aggregates: "sum(a)",
		windows:    "rank() OVER (ORDER BY sum(a) DESC)",
	}}

	for _, tc := range tcases {
		t.Run(tc.name, func(t *testing.T) {
			rel := &relations.QueriedSelect{
				From:        []relations.Relation{tbl},
				SelectExprs: tc.outputs,
				Where:       tc.where,
				GroupBy:     tc.groupBy,
			}
			sp, err := Create(rel)
			require.NoError(t, err)
			assert.Equal(t, tc.toCollect, names(sp.ToCollect), "toCollect")
			assert.Equal(t, tc.aggregates, names(sp.Aggregates), "aggregates")
			assert.Equal(t, tc.tableFunctions, names(sp.TableFunctions), "table functions")
			assert.Equal(t, tc.groupByTF, names(sp.GroupByTableFunctions), "group by table functions")
			assert.Equal(t, tc.windows, names(sp.WindowFunctions), "window functions")
		})
	}
}

func TestCorrelatedSubquery(t *testing.T) {
	summits := newTable(0, "sys.summits", "mountain", "region", "height")
	summits.Alias = "t"
	mountain := summits.Column("mountain")

	inner := &relations.QueriedSelect{
		SelectExprs: []symbol.Symbol{&symbol.OuterColumn{Relation: semantics.RelationName{Name: "t"}, Symbol: mountain}},
	}
	sub := &symbol.SelectSymbol{Relation: inner, Correlated: true}
	outer := &relations.QueriedSelect{
		From:        []relations.Relation{summits},
		SelectExprs: []symbol.Symbol{symbol.Lit(1), sub},
	}

	sp, err := Create(outer)
	require.NoError(t, err)
	require.Len(t, sp.CorrelatedQueries, 1)
	assert.Same(t, sub, sp.CorrelatedQueries[0])
	assert.Equal(t, "1, mountain", names(sp.ToCollect))
	assert.Empty(t, sp.OuterColumns)

	innerSP, err := Create(inner)
	require.NoError(t, err)
	require.Len(t, innerSP.OuterColumns, 1)
	assert.Equal(t, "mountain", innerSP.OuterColumns[0].String())
	assert.Equal(t, "mountain", names(innerSP.ToCollect))
}

func TestCorrelatedSubqueryInWhere(t *testing.T) {
	summits := newTable(0, "sys.summits", "mountain", "region", "height")
	inner := &relations.QueriedSelect{
		SelectExprs: []symbol.Symbol{&symbol.OuterColumn{Symbol: summits.Column("height")}},
	}
	rel := &relations.QueriedSelect{
		From:        []relations.Relation{summits},
		SelectExprs: []symbol.Symbol{summits.Column("region")},
		Where:       symbol.Eq(summits.Column("mountain"), &symbol.SelectSymbol{Relation: inner, Correlated: true}),
	}

	sp, err := Create(rel)
	require.NoError(t, err)
	assert.Len(t, sp.CorrelatedQueries, 1)
	assert.Equal(t, "region, height, mountain", names(sp.ToCollect))
}

func TestErrors(t *testing.T) {
	tbl := newTable(0, "t1", "a")
	a := tbl.Column("a")

	_, err := Create(&relations.QueriedSelect{
		From:        []relations.Relation{tbl},
		SelectExprs: []symbol.Symbol{symbol.NewAggregate("sum", nil, symbol.NewTableFunction("unnest", a))},
	})
	require.Error(t, err)
	assert.Equal(t, codes.Unimplemented, vterrors.Code(err))
	assert.Equal(t, vterrors.NotSupportedYet, vterrors.ErrState(err))
	assert.Equal(t, "VT12001", vterrors.ID(err))

	_, err = Create(&relations.QueriedSelect{
		From:        []relations.Relation{tbl},
		SelectExprs: []symbol.Symbol{&symbol.Function{Kind: symbol.FunctionKind(42), Name: "mystery", Args: []symbol.Symbol{a}}},
	})
	require.Error(t, err)
	assert.Equal(t, codes.Internal, vterrors.Code(err))
	assert.Equal(t, "VT13001", vterrors.ID(err))
}

func TestJoinConditionsAreClassified(t *testing.T) {
	t1 := newTable(0, "t1", "a")
	t2 := newTable(1, "t2", "b")
	cond := symbol.Eq(t1.Column("a"), t2.Column("b"))
	rel := &relations.QueriedSelect{
		From:        []relations.Relation{&relations.JoinRelation{Left: t1, Right: t2, Type: relations.InnerJoin, Condition: cond}},
		SelectExprs: []symbol.Symbol{t1.Column("a")},
	}

	sp, err := Create(rel)
	require.NoError(t, err)
	assert.Equal(t, "a, (a = b)", names(sp.Standalone))
	assert.Equal(t, "a, (a = b)", names(sp.ToCollect))
}

func TestString(t *testing.T) {
	summits := newTable(0, "sys.summits", "mountain")
	inner := &relations.QueriedSelect{
		SelectExprs: []symbol.Symbol{&symbol.OuterColumn{Symbol: summits.Column("mountain")}},
	}
	sp, err := Create(&relations.QueriedSelect{
		From:        []relations.Relation{summits},
		SelectExprs: []symbol.Symbol{symbol.Lit(1), &symbol.SelectSymbol{Relation: inner, Correlated: true}},
	})
	require.NoError(t, err)

	expected := "toCollect: [1, mountain]\n" +
		"outerColumns: []\n" +
		"aggregates: []\n" +
		"tableFunctions: []\n" +
		"groupByTableFunctions: []\n" +
		"windowFunctions: []\n" +
		"correlatedQueries: [(SELECT mountain FROM (empty_row))]\n" +
		"standalone: [1, (SELECT mountain FROM (empty_row))]\n"
	assert.Equal(t, expected, sp.String())
}
