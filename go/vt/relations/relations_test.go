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

package relations

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"vitess.io/planrewrite/go/vt/semantics"
	"vitess.io/planrewrite/go/vt/symbol"
)

func table(id int, name string, cols ...string) *TableRelation {
	info := &semantics.TableInfo{Name: semantics.ParseRelationName(name)}
	for _, c := range cols {
		info.Columns = append(info.Columns, semantics.ColumnInfo{Name: c, Nullable: true})
	}
	return &TableRelation{ID: id, Table: info}
}

func TestJoinConditions(t *testing.T) {
	t1 := table(0, "t1", "a")
	t2 := table(1, "t2", "b")
	t3 := table(2, "t3", "c")
	inner := &JoinRelation{Left: t1, Right: t2, Type: InnerJoin, Condition: symbol.Eq(t1.Column("a"), t2.Column("b"))}
	aliased := &AliasedRelation{ID: 3, Alias: "j", Relation: &QueriedSelect{From: []Relation{inner}}}
	outer := &JoinRelation{Left: aliased, Right: t3, Type: LeftJoin, Condition: symbol.Eq(t2.Column("b"), t3.Column("c"))}
	union := &UnionSelect{ID: 4, Left: outer, Right: &QueriedSelect{From: []Relation{inner}}}

	conditions := JoinConditions(&QueriedSelect{From: []Relation{union}})
	require.Len(t, conditions, 2)
	assert.Equal(t, "(b = c)", conditions[0].String())
	assert.Equal(t, "(a = b)", conditions[1].String())
}

func TestOutputsAndIDs(t *testing.T) {
	t1 := table(0, "doc.t1", "a", "b")
	t2 := table(5, "sys.summits", "mountain")
	join := &JoinRelation{Left: t1, Right: t2}

	assert.Equal(t, "a, b, mountain", symbol.Join(join.Outputs(), ", "))
	assert.Equal(t, []string{"doc.t1", "sys.summits"}, join.SourceNames())
	assert.True(t, IDs(&QueriedSelect{From: []Relation{join}}).Equals(semantics.TableSetFromIds(0, 5)))
	assert.Nil(t, t1.Column("missing"))

	qs := &QueriedSelect{}
	assert.True(t, symbol.IsTrue(qs.WhereOrTrue()))
	assert.Empty(t, qs.SourceNames())
}
