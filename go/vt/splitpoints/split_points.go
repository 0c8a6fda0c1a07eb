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

// Package splitpoints classifies the symbols of a query into the parts that must be
// computed by dedicated operators (aggregates, window functions and table functions)
// and the columns the source relation has to produce for them.
package splitpoints

import (
	"fmt"
	"strings"

	"vitess.io/planrewrite/go/vt/relations"
	"vitess.io/planrewrite/go/vt/symbol"
	"vitess.io/planrewrite/go/vt/vterrors"
)

// SplitPoints describes the operator pipeline needed to compute a query
type SplitPoints struct {
	// ToCollect is what the source relation must emit. Ordered and de-duplicated.
	ToCollect []symbol.Symbol

	// OuterColumns are the outer columns found in the relation itself. They are only
	// non-empty when the relation is the inner side of a correlation.
	OuterColumns []*symbol.OuterColumn

	Aggregates            []*symbol.Function
	TableFunctions        []*symbol.Function
	GroupByTableFunctions []*symbol.Function
	WindowFunctions       []*symbol.WindowFunction

	// CorrelatedQueries are the correlated subqueries; each needs a correlated join
	CorrelatedQueries []*symbol.SelectSymbol
	Standalone        []symbol.Symbol
}

type context struct {
	aggregates        *symbol.Set[*symbol.Function]
	tableFunctions    *symbol.Set[*symbol.Function]
	windowFunctions   *symbol.Set[*symbol.WindowFunction]
	standalone        []symbol.Symbol
	correlatedQueries []*symbol.SelectSymbol
	outerColumns      []*symbol.OuterColumn

	insideAggregate    bool
	insideWindow       bool
	tableFunctionLevel int

	// set while processing a top level symbol; references found after a split point
	// in the same symbol are standalone
	processing      bool
	foundSplitPoint bool
}

func newContext() *context {
	return &context{
		aggregates:      symbol.NewSet[*symbol.Function](),
		tableFunctions:  symbol.NewSet[*symbol.Function](),
		windowFunctions: symbol.NewSet[*symbol.WindowFunction](),
	}
}

// Create classifies the symbols of the relation.
func Create(rel *relations.QueriedSelect) (*SplitPoints, error) {
	ctx := newContext()
	if err := ctx.processAll(rel.SelectExprs); err != nil {
		return nil, err
	}
	if rel.OrderBy != nil {
		if err := ctx.processAll(rel.OrderBy.Symbols); err != nil {
			return nil, err
		}
	}
	if rel.Having != nil {
		if err := ctx.visit(rel.Having); err != nil {
			return nil, err
		}
	}
	where := rel.WhereOrTrue()
	if err := ctx.visit(where); err != nil {
		return nil, err
	}
	if err := ctx.processAll(relations.JoinConditions(rel)); err != nil {
		return nil, err
	}

	toCollect := symbol.NewSet[symbol.Symbol]()
	for _, tf := range ctx.tableFunctions.Symbols() {
		toCollect.Add(symbol.ExtractColumns(tf.Args...)...)
	}
	for _, agg := range ctx.aggregates.Symbols() {
		toCollect.Add(agg.Args...)
		if agg.Filter != nil {
			toCollect.Add(agg.Filter)
		}
	}
	for _, wf := range ctx.windowFunctions.Symbols() {
		toCollect.Add(symbol.ExtractColumns(wf.Args...)...)
		if wf.Filter != nil {
			toCollect.Add(wf.Filter)
		}
		for _, s := range wf.Partitions {
			if !containsSplitPoint(s) {
				toCollect.Add(s)
			}
		}
		if wf.OrderBy != nil {
			for _, s := range wf.OrderBy.Symbols {
				if !containsSplitPoint(s) {
					toCollect.Add(s)
				}
			}
		}
	}

	// group by symbols are classified on their own, table functions found there
	// are evaluated below the grouping operator
	groupByCtx := newContext()
	if len(rel.GroupBy) > 0 {
		if err := groupByCtx.processAll(rel.GroupBy); err != nil {
			return nil, err
		}
		for _, tf := range groupByCtx.tableFunctions.Symbols() {
			toCollect.Add(symbol.ExtractColumns(tf.Args...)...)
		}
		toCollect.Add(groupByCtx.standalone...)
		ctx.tableFunctions.Remove(groupByCtx.tableFunctions.Symbols()...)
	} else if ctx.aggregates.Len() == 0 {
		toCollect.Add(ctx.standalone...)
	}

	for _, sel := range ctx.correlatedQueries {
		sel.Relation.VisitSymbols(func(tree symbol.Symbol) {
			symbol.Visit(tree, func(node symbol.Symbol) bool {
				if oc, ok := node.(*symbol.OuterColumn); ok {
					toCollect.Add(oc.Symbol)
				}
				return true
			})
		})
	}
	toCollect.Add(symbol.ExtractColumns(where)...)

	// a correlated subquery can only be evaluated by a correlated join,
	// so the source only provides the columns it needs
	outputs := symbol.NewSet[symbol.Symbol]()
	for _, s := range toCollect.Symbols() {
		if symbol.ContainsCorrelatedSubquery(s) {
			outputs.Add(symbol.ExtractColumns(s)...)
		} else {
			outputs.Add(s)
		}
	}

	return &SplitPoints{
		ToCollect:             outputs.Symbols(),
		OuterColumns:          ctx.outerColumns,
		Aggregates:            ctx.aggregates.Symbols(),
		TableFunctions:        ctx.tableFunctions.Symbols(),
		GroupByTableFunctions: groupByCtx.tableFunctions.Symbols(),
		WindowFunctions:       ctx.windowFunctions.Symbols(),
		CorrelatedQueries:     ctx.correlatedQueries,
		Standalone:            ctx.standalone,
	}, nil
}

// String lists the classified symbols, one group per line
func (sp *SplitPoints) String() string {
	var sb strings.Builder
	line := func(name, symbols string) {
		sb.WriteString(name + ": [" + symbols + "]\n")
	}
	line("toCollect", symbol.Join(sp.ToCollect, ", "))
	line("outerColumns", symbol.Join(sp.OuterColumns, ", "))
	line("aggregates", symbol.Join(sp.Aggregates, ", "))
	line("tableFunctions", symbol.Join(sp.TableFunctions, ", "))
	line("groupByTableFunctions", symbol.Join(sp.GroupByTableFunctions, ", "))
	line("windowFunctions", symbol.Join(sp.WindowFunctions, ", "))
	line("correlatedQueries", symbol.Join(sp.CorrelatedQueries, ", "))
	line("standalone", symbol.Join(sp.Standalone, ", "))
	return sb.String()
}

func containsSplitPoint(s symbol.Symbol) bool {
	return symbol.Any(s, func(node symbol.Symbol) bool {
		switch node := node.(type) {
		case *symbol.WindowFunction:
			return true
		case *symbol.Function:
			return node.Kind != symbol.Scalar
		}
		return false
	})
}

func (ctx *context) processAll(symbols []symbol.Symbol) error {
	for _, s := range symbols {
		if err := ctx.process(s); err != nil {
			return err
		}
	}
	return nil
}

func (ctx *context) process(s symbol.Symbol) error {
	ctx.processing = true
	ctx.foundSplitPoint = false
	defer func() {
		ctx.processing = false
		ctx.foundSplitPoint = false
	}()
	if err := ctx.visit(s); err != nil {
		return err
	}
	if !ctx.foundSplitPoint {
		ctx.standalone = append(ctx.standalone, s)
	}
	return nil
}

func (ctx *context) visitAll(symbols []symbol.Symbol) error {
	for _, s := range symbols {
		if err := ctx.visit(s); err != nil {
			return err
		}
	}
	return nil
}

func (ctx *context) visit(s symbol.Symbol) error {
	switch s := s.(type) {
	case nil, *symbol.Literal:
		return nil
	case *symbol.Reference:
		if ctx.processing && ctx.foundSplitPoint && ctx.tableFunctionLevel == 0 && !ctx.insideAggregate && !ctx.insideWindow {
			// the reference is used beside a split point in an output,
			// e.g. a scalar taking a table function and a column
			ctx.standalone = append(ctx.standalone, s)
		}
		return nil
	case *symbol.Function:
		return ctx.visitFunction(s)
	case *symbol.WindowFunction:
		return ctx.visitWindowFunction(s)
	case *symbol.OuterColumn:
		ctx.outerColumns = append(ctx.outerColumns, s)
		return nil
	case *symbol.SelectSymbol:
		if s.Correlated {
			ctx.correlatedQueries = append(ctx.correlatedQueries, s)
		}
		return nil
	default:
		return vterrors.VT13001(fmt.Sprintf("unexpected symbol type %T", s))
	}
}

func (ctx *context) visitFunction(f *symbol.Function) error {
	switch f.Kind {
	case symbol.Scalar:
		return ctx.visitArgs(f)
	case symbol.Aggregate:
		ctx.foundSplitPoint = true
		ctx.aggregates.Add(f)
		wasInside := ctx.insideAggregate
		ctx.insideAggregate = true
		defer func() { ctx.insideAggregate = wasInside }()
		return ctx.visitArgs(f)
	case symbol.Table:
		if ctx.insideAggregate {
			return vterrors.VT12001("table functions inside aggregates")
		}
		ctx.foundSplitPoint = true
		if ctx.tableFunctionLevel == 0 {
			ctx.tableFunctions.Add(f)
		}
		ctx.tableFunctionLevel++
		defer func() { ctx.tableFunctionLevel-- }()
		return ctx.visitArgs(f)
	default:
		return vterrors.VT13001(fmt.Sprintf("invalid function type: %d", f.Kind))
	}
}

func (ctx *context) visitArgs(f *symbol.Function) error {
	if err := ctx.visitAll(f.Args); err != nil {
		return err
	}
	return ctx.visit(f.Filter)
}

func (ctx *context) visitWindowFunction(wf *symbol.WindowFunction) error {
	ctx.foundSplitPoint = true
	ctx.windowFunctions.Add(wf)
	wasInside := ctx.insideWindow
	ctx.insideWindow = true
	defer func() { ctx.insideWindow = wasInside }()

	if err := ctx.visitAll(wf.Args); err != nil {
		return err
	}
	if err := ctx.visit(wf.Filter); err != nil {
		return err
	}
	// split points nested in the window definition become split points of this query
	if err := ctx.visitAll(wf.Partitions); err != nil {
		return err
	}
	if wf.OrderBy != nil {
		return ctx.visitAll(wf.OrderBy.Symbols)
	}
	return nil
}
