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

package querydesc

import (
	"bytes"
	"encoding/json"
	"fmt"
	"strings"

	"vitess.io/planrewrite/go/vt/relations"
	"vitess.io/planrewrite/go/vt/semantics"
	"vitess.io/planrewrite/go/vt/symbol"
	"vitess.io/planrewrite/go/vt/vterrors"
)

// analyzer binds the names of a description to the tables of its schema.
// Every relation gets an id that is unique in the whole query, subqueries included.
type analyzer struct {
	tables map[string]*semantics.TableInfo
	nextID int
}

// scope holds the relations visible to the expressions of one query
type scope struct {
	parent  *scope
	sources []*source

	// correlated is set once an expression of the query uses a column of the parent scope
	correlated bool
}

type source struct {
	// name qualifies the columns of the source in expressions, the alias if there is one
	name     string
	fqn      string
	relation semantics.RelationName
	columns  []*symbol.Reference
}

// Analyze binds the query of the description to its tables
func (d *Description) Analyze() (*relations.QueriedSelect, error) {
	a := &analyzer{tables: map[string]*semantics.TableInfo{}}
	for i := range d.Tables {
		info, err := tableInfo(&d.Tables[i])
		if err != nil {
			return nil, err
		}
		fqn := info.Name.String()
		if _, exists := a.tables[fqn]; exists {
			return nil, vterrors.VT03001(fmt.Sprintf("table %s is defined twice", fqn))
		}
		a.tables[fqn] = info
	}
	return a.query(&d.Query, nil)
}

func tableInfo(tbl *Table) (*semantics.TableInfo, error) {
	if tbl.Name == "" {
		return nil, vterrors.VT03001("table without a name")
	}
	info := &semantics.TableInfo{Name: semantics.ParseRelationName(tbl.Name)}
	switch strings.ToLower(tbl.Kind) {
	case "", "base":
		info.Kind = semantics.BaseTable
	case "system":
		info.Kind = semantics.SystemTable
	case "blob":
		info.Kind = semantics.BlobTable
	default:
		return nil, vterrors.VT03001(fmt.Sprintf("unknown table kind %q", tbl.Kind))
	}
	for _, col := range tbl.Columns {
		info.Columns = append(info.Columns, semantics.ColumnInfo{
			Name:      col.Name,
			Type:      col.Type,
			Nullable:  col.Nullable,
			Generated: col.Generated,
			Indexed:   col.Indexed,
		})
	}
	return info, nil
}

func (a *analyzer) newID() int {
	id := a.nextID
	a.nextID++
	return id
}

func (a *analyzer) query(q *Query, parent *scope) (*relations.QueriedSelect, error) {
	sc := &scope{parent: parent}
	return a.queryIn(q, sc)
}

func (a *analyzer) queryIn(q *Query, sc *scope) (*relations.QueriedSelect, error) {
	if len(q.Select) == 0 {
		return nil, vterrors.VT03001("query without outputs")
	}
	sel := &relations.QueriedSelect{}
	for i := range q.From {
		rel, err := a.from(&q.From[i], sc)
		if err != nil {
			return nil, err
		}
		sel.From = append(sel.From, rel)
	}

	var err error
	if sel.SelectExprs, err = a.exprs(q.Select, sc); err != nil {
		return nil, err
	}
	if sel.Where, err = a.optionalExpr(q.Where, sc); err != nil {
		return nil, err
	}
	if sel.GroupBy, err = a.exprs(q.GroupBy, sc); err != nil {
		return nil, err
	}
	if sel.Having, err = a.optionalExpr(q.Having, sc); err != nil {
		return nil, err
	}
	if sel.OrderBy, err = a.orderBy(q.OrderBy, sc); err != nil {
		return nil, err
	}
	if sel.Limit, err = a.optionalExpr(q.Limit, sc); err != nil {
		return nil, err
	}
	if sel.Offset, err = a.optionalExpr(q.Offset, sc); err != nil {
		return nil, err
	}
	return sel, nil
}

func (a *analyzer) from(f *From, sc *scope) (relations.Relation, error) {
	switch {
	case f.Table != "":
		info, ok := a.tables[semantics.ParseRelationName(f.Table).String()]
		if !ok {
			return nil, vterrors.VT05004(f.Table)
		}
		rel := &relations.TableRelation{ID: a.newID(), Table: info, Alias: f.Alias}
		src := &source{name: rel.Name(), fqn: info.Name.String(), relation: info.Name}
		if f.Alias != "" {
			src.relation = semantics.RelationName{Name: f.Alias}
		}
		for _, col := range info.Columns {
			src.columns = append(src.columns, rel.Column(col.Name))
		}
		sc.sources = append(sc.sources, src)
		return rel, nil

	case f.Join != nil:
		lhs, err := a.from(&f.Join.Left, sc)
		if err != nil {
			return nil, err
		}
		rhs, err := a.from(&f.Join.Right, sc)
		if err != nil {
			return nil, err
		}
		join := &relations.JoinRelation{Left: lhs, Right: rhs}
		if join.Condition, err = a.optionalExpr(f.Join.On, sc); err != nil {
			return nil, err
		}
		if join.Type, err = joinType(f.Join.Type, join.Condition != nil); err != nil {
			return nil, err
		}
		return join, nil

	case f.Subquery != nil:
		if f.Alias == "" {
			return nil, vterrors.VT03001("subquery in FROM without an alias")
		}
		// derived tables do not see the relations beside them
		inner, err := a.query(f.Subquery, nil)
		if err != nil {
			return nil, err
		}
		id := a.newID()
		rel := &relations.AliasedRelation{ID: id, Alias: f.Alias, Relation: inner}
		rel.Columns = a.addDerived(sc, id, f.Alias, inner.Outputs(), nil)
		return rel, nil

	case f.Union != nil:
		if f.Alias == "" {
			return nil, vterrors.VT03001("union in FROM without an alias")
		}
		lhs, err := a.query(&f.Union.Left, nil)
		if err != nil {
			return nil, err
		}
		rhs, err := a.query(&f.Union.Right, nil)
		if err != nil {
			return nil, err
		}
		if len(lhs.Outputs()) != len(rhs.Outputs()) {
			return nil, vterrors.VT03001(fmt.Sprintf("union sides have %d and %d columns", len(lhs.Outputs()), len(rhs.Outputs())))
		}
		id := a.newID()
		rel := &relations.UnionSelect{ID: id, Left: lhs, Right: rhs, Distinct: f.Union.Distinct}
		rel.Columns = a.addDerived(sc, id, f.Alias, lhs.Outputs(), nil)
		return rel, nil

	case f.Function != nil:
		fn, err := a.expr(f.Function, sc)
		if err != nil {
			return nil, err
		}
		tf, ok := fn.(*symbol.Function)
		if !ok || tf.Kind != symbol.Table {
			return nil, vterrors.VT03001(fmt.Sprintf("%s is not a table function", fn))
		}
		alias := f.Alias
		if alias == "" {
			alias = tf.Name
		}
		names := f.Columns
		if len(names) == 0 {
			names = []string{tf.Name}
		}
		id := a.newID()
		rel := &relations.TableFunctionRelation{ID: id, Function: tf}
		rel.Columns = a.addDerived(sc, id, alias, nil, names)
		return rel, nil
	}
	return nil, vterrors.VT03001("FROM entry must set one of table, join, subquery, union or function")
}

// addDerived registers a relation whose columns are new references owned by it.
// The columns are named after the given names, or after the outputs they stand for.
func (a *analyzer) addDerived(sc *scope, id int, alias string, outputs []symbol.Symbol, names []string) []symbol.Symbol {
	src := &source{name: alias, fqn: alias, relation: semantics.RelationName{Name: alias}}
	if names == nil {
		for _, out := range outputs {
			names = append(names, outputName(out))
		}
	}
	columns := make([]symbol.Symbol, len(names))
	for i, name := range names {
		ref := &symbol.Reference{TableID: id, Table: alias, Column: name, Nullable: true}
		if i < len(outputs) {
			if inner, ok := outputs[i].(*symbol.Reference); ok {
				ref.Type, ref.Nullable = inner.Type, inner.Nullable
			}
		}
		src.columns = append(src.columns, ref)
		columns[i] = ref
	}
	sc.sources = append(sc.sources, src)
	return columns
}

func outputName(s symbol.Symbol) string {
	if ref, ok := s.(*symbol.Reference); ok {
		return ref.Column
	}
	return s.String()
}

func joinType(name string, hasCondition bool) (relations.JoinType, error) {
	switch strings.ToLower(name) {
	case "":
		if hasCondition {
			return relations.InnerJoin, nil
		}
		return relations.CrossJoin, nil
	case "cross":
		return relations.CrossJoin, nil
	case "inner":
		return relations.InnerJoin, nil
	case "left":
		return relations.LeftJoin, nil
	case "right":
		return relations.RightJoin, nil
	case "full":
		return relations.FullJoin, nil
	}
	return 0, vterrors.VT03001(fmt.Sprintf("unknown join type %q", name))
}

func (a *analyzer) exprs(exprs []Expr, sc *scope) ([]symbol.Symbol, error) {
	if len(exprs) == 0 {
		return nil, nil
	}
	result := make([]symbol.Symbol, 0, len(exprs))
	for i := range exprs {
		s, err := a.expr(&exprs[i], sc)
		if err != nil {
			return nil, err
		}
		result = append(result, s)
	}
	return result, nil
}

func (a *analyzer) optionalExpr(e *Expr, sc *scope) (symbol.Symbol, error) {
	if e == nil {
		return nil, nil
	}
	return a.expr(e, sc)
}

func (a *analyzer) orderBy(orders []Order, sc *scope) (*symbol.OrderBy, error) {
	if len(orders) == 0 {
		return nil, nil
	}
	ob := &symbol.OrderBy{}
	for i := range orders {
		s, err := a.expr(&orders[i].Expr, sc)
		if err != nil {
			return nil, err
		}
		ob.Symbols = append(ob.Symbols, s)
		ob.Descending = append(ob.Descending, orders[i].Desc)
	}
	return ob, nil
}

var operatorNames = map[string]string{
	"and":     symbol.AndOp,
	"or":      symbol.OrOp,
	"not":     symbol.NotOp,
	"is null": symbol.IsNullOp,
	"is_null": symbol.IsNullOp,
}

func (e *Expr) kinds() int {
	n := 0
	for _, set := range []bool{
		e.Column != "", e.Outer != "", len(e.Literal) > 0, e.Null, e.Op != "", e.Aggregate != "",
		e.TableFunction != "", e.Window != nil, e.Subquery != nil, e.Exists != nil,
	} {
		if set {
			n++
		}
	}
	return n
}

func (a *analyzer) expr(e *Expr, sc *scope) (symbol.Symbol, error) {
	if n := e.kinds(); n != 1 {
		return nil, vterrors.VT03001(fmt.Sprintf("an expression must have exactly one kind, got %d", n))
	}

	switch {
	case e.Column != "":
		return sc.resolve(e.Column)
	case e.Outer != "":
		if sc.parent == nil {
			return nil, vterrors.VT03019(e.Outer)
		}
		return sc.resolveOuter(e.Outer)
	case e.Null:
		return symbol.Lit(nil), nil
	case len(e.Literal) > 0:
		return literal(e.Literal)
	case e.Subquery != nil, e.Exists != nil:
		return a.subquery(e, sc)
	case e.Window != nil:
		return a.window(e, sc)
	}

	args, err := a.exprs(e.Args, sc)
	if err != nil {
		return nil, err
	}
	filter, err := a.optionalExpr(e.Filter, sc)
	if err != nil {
		return nil, err
	}
	switch {
	case e.Aggregate != "":
		return symbol.NewAggregate(strings.ToLower(e.Aggregate), filter, args...), nil
	case e.TableFunction != "":
		return symbol.NewTableFunction(e.TableFunction, args...), nil
	}
	if filter != nil {
		return nil, vterrors.VT03001(fmt.Sprintf("FILTER is only allowed on aggregates, got %s", e.Op))
	}
	name := e.Op
	if op, ok := operatorNames[strings.ToLower(name)]; ok {
		name = op
	}
	if name == symbol.AndOp {
		return symbol.And(args...), nil
	}
	return symbol.NewScalar(name, args...), nil
}

func (a *analyzer) window(e *Expr, sc *scope) (symbol.Symbol, error) {
	args, err := a.exprs(e.Args, sc)
	if err != nil {
		return nil, err
	}
	filter, err := a.optionalExpr(e.Filter, sc)
	if err != nil {
		return nil, err
	}
	partitions, err := a.exprs(e.Window.PartitionBy, sc)
	if err != nil {
		return nil, err
	}
	ob, err := a.orderBy(e.Window.OrderBy, sc)
	if err != nil {
		return nil, err
	}
	return &symbol.WindowFunction{
		Name:       strings.ToLower(e.Window.Name),
		Args:       args,
		Filter:     filter,
		Partitions: partitions,
		OrderBy:    ob,
	}, nil
}

func (a *analyzer) subquery(e *Expr, sc *scope) (symbol.Symbol, error) {
	q, resultType := e.Subquery, symbol.SingleValue
	if e.Exists != nil {
		q, resultType = e.Exists, symbol.Exists
	}
	inner := &scope{parent: sc}
	rel, err := a.queryIn(q, inner)
	if err != nil {
		return nil, err
	}
	if resultType == symbol.SingleValue && len(rel.Outputs()) != 1 {
		return nil, vterrors.VT03001(fmt.Sprintf("a scalar subquery must have one output, got %d", len(rel.Outputs())))
	}
	sel := &symbol.SelectSymbol{Relation: rel, Correlated: inner.correlated, ResultType: resultType}
	if resultType == symbol.Exists {
		return symbol.NewScalar(symbol.ExistsOp, sel), nil
	}
	return sel, nil
}

func literal(raw json.RawMessage) (symbol.Symbol, error) {
	dec := json.NewDecoder(bytes.NewReader(raw))
	dec.UseNumber()
	var v any
	if err := dec.Decode(&v); err != nil {
		return nil, vterrors.VT03001(err.Error())
	}
	switch v := v.(type) {
	case json.Number:
		if i, err := v.Int64(); err == nil {
			return symbol.Lit(i), nil
		}
		f, err := v.Float64()
		if err != nil {
			return nil, vterrors.VT03001(err.Error())
		}
		return symbol.Lit(f), nil
	case nil, string, bool:
		return symbol.Lit(v), nil
	}
	return nil, vterrors.VT03001(fmt.Sprintf("literals must be scalars, got %s", raw))
}

// resolve binds a column of this scope. Columns that are not found here are looked
// up in the parent scope and become outer columns.
func (sc *scope) resolve(name string) (symbol.Symbol, error) {
	ref, _, err := sc.find(name)
	if err != nil {
		return nil, err
	}
	if ref != nil {
		return ref, nil
	}
	if sc.parent == nil {
		return nil, vterrors.VT03019(name)
	}
	return sc.resolveOuter(name)
}

func (sc *scope) resolveOuter(name string) (symbol.Symbol, error) {
	ref, src, err := sc.parent.find(name)
	if err != nil {
		return nil, err
	}
	if ref == nil {
		// TODO: support columns of queries more than one level up, the split points of
		// the queries in between would have to pass them through.
		return nil, vterrors.VT03019(name)
	}
	sc.correlated = true
	return &symbol.OuterColumn{Relation: src.relation, Symbol: ref}, nil
}

// find returns the column with the given name, nil if no source has it
func (sc *scope) find(name string) (*symbol.Reference, *source, error) {
	qualifier, column := "", name
	if i := strings.LastIndexByte(name, '.'); i >= 0 {
		qualifier, column = name[:i], name[i+1:]
	}

	var (
		found    *symbol.Reference
		foundSrc *source
	)
	for _, src := range sc.sources {
		if qualifier != "" && qualifier != src.name && qualifier != src.fqn {
			continue
		}
		for _, col := range src.columns {
			if col.Column != column {
				continue
			}
			if found != nil {
				return nil, nil, vterrors.VT03021(name)
			}
			found, foundSrc = col, src
		}
	}
	return found, foundSrc, nil
}
