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

package operators

import (
	"fmt"

	"vitess.io/planrewrite/go/vt/semantics"
	"vitess.io/planrewrite/go/vt/symbol"
	"vitess.io/planrewrite/go/vt/vterrors"
)

// Filter keeps the rows for which Query evaluates to TRUE. NULL and FALSE rows are dropped.
type Filter struct {
	Source LogicalPlan
	Query  symbol.Symbol
}

func (f *Filter) Sources() []LogicalPlan {
	return []LogicalPlan{f.Source}
}

func (f *Filter) Outputs() []symbol.Symbol {
	return f.Source.Outputs()
}

func (f *Filter) RelationNames() semantics.TableSet {
	return f.Source.RelationNames()
}

func (f *Filter) ReplaceSources(sources []LogicalPlan) LogicalPlan {
	checkSize(sources, 1)
	return &Filter{Source: sources[0], Query: f.Query}
}

func (f *Filter) ShortDescription() string {
	return f.Query.String()
}

func (f *Filter) checkValid() error {
	if f.Query == nil {
		return vterrors.VT13001("Filter without a query")
	}
	return nil
}

// Eval projects the rows of its source to Columns
type Eval struct {
	Source  LogicalPlan
	Columns []symbol.Symbol
}

func (e *Eval) Sources() []LogicalPlan {
	return []LogicalPlan{e.Source}
}

func (e *Eval) Outputs() []symbol.Symbol {
	return e.Columns
}

func (e *Eval) RelationNames() semantics.TableSet {
	return e.Source.RelationNames()
}

func (e *Eval) ReplaceSources(sources []LogicalPlan) LogicalPlan {
	checkSize(sources, 1)
	return &Eval{Source: sources[0], Columns: e.Columns}
}

func (e *Eval) ShortDescription() string {
	return symbol.Join(e.Columns, ", ")
}

// Limit returns at most Limit rows after skipping Offset rows
type Limit struct {
	Source LogicalPlan
	Limit  symbol.Symbol
	Offset symbol.Symbol
}

func (l *Limit) Sources() []LogicalPlan {
	return []LogicalPlan{l.Source}
}

func (l *Limit) Outputs() []symbol.Symbol {
	return l.Source.Outputs()
}

func (l *Limit) RelationNames() semantics.TableSet {
	return l.Source.RelationNames()
}

func (l *Limit) ReplaceSources(sources []LogicalPlan) LogicalPlan {
	checkSize(sources, 1)
	return &Limit{Source: sources[0], Limit: l.Limit, Offset: l.Offset}
}

func (l *Limit) ShortDescription() string {
	offset := l.Offset
	if offset == nil {
		offset = symbol.Lit(0)
	}
	return fmt.Sprintf("%s;%s", l.Limit, offset)
}

// Order sorts the rows of its source
type Order struct {
	Source  LogicalPlan
	OrderBy *symbol.OrderBy
}

func (o *Order) Sources() []LogicalPlan {
	return []LogicalPlan{o.Source}
}

func (o *Order) Outputs() []symbol.Symbol {
	return o.Source.Outputs()
}

func (o *Order) RelationNames() semantics.TableSet {
	return o.Source.RelationNames()
}

func (o *Order) ReplaceSources(sources []LogicalPlan) LogicalPlan {
	checkSize(sources, 1)
	return &Order{Source: sources[0], OrderBy: o.OrderBy}
}

func (o *Order) ShortDescription() string {
	return o.OrderBy.String()
}
