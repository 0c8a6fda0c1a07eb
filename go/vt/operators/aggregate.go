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
	"strings"

	"vitess.io/planrewrite/go/vt/semantics"
	"vitess.io/planrewrite/go/vt/symbol"
)

// HashAggregate computes global aggregates over all rows of its source
type HashAggregate struct {
	Source     LogicalPlan
	Aggregates []*symbol.Function
}

func (h *HashAggregate) Sources() []LogicalPlan {
	return []LogicalPlan{h.Source}
}

func (h *HashAggregate) Outputs() []symbol.Symbol {
	return asSymbols(h.Aggregates)
}

func (h *HashAggregate) RelationNames() semantics.TableSet {
	return h.Source.RelationNames()
}

func (h *HashAggregate) ReplaceSources(sources []LogicalPlan) LogicalPlan {
	checkSize(sources, 1)
	return &HashAggregate{Source: sources[0], Aggregates: h.Aggregates}
}

func (h *HashAggregate) ShortDescription() string {
	return symbol.Join(h.Aggregates, ", ")
}

// GroupHashAggregate computes aggregates per group
type GroupHashAggregate struct {
	Source     LogicalPlan
	GroupKeys  []symbol.Symbol
	Aggregates []*symbol.Function
}

func (g *GroupHashAggregate) Sources() []LogicalPlan {
	return []LogicalPlan{g.Source}
}

func (g *GroupHashAggregate) Outputs() []symbol.Symbol {
	return append(append([]symbol.Symbol{}, g.GroupKeys...), asSymbols(g.Aggregates)...)
}

func (g *GroupHashAggregate) RelationNames() semantics.TableSet {
	return g.Source.RelationNames()
}

func (g *GroupHashAggregate) ReplaceSources(sources []LogicalPlan) LogicalPlan {
	checkSize(sources, 1)
	return &GroupHashAggregate{Source: sources[0], GroupKeys: g.GroupKeys, Aggregates: g.Aggregates}
}

func (g *GroupHashAggregate) ShortDescription() string {
	return symbol.Join(g.GroupKeys, ", ") + " | " + symbol.Join(g.Aggregates, ", ")
}

// ProjectSet evaluates table functions, producing one row per row of the longest function result.
// Standalone symbols are repeated for every produced row.
type ProjectSet struct {
	Source         LogicalPlan
	TableFunctions []*symbol.Function
	Standalone     []symbol.Symbol
}

func (p *ProjectSet) Sources() []LogicalPlan {
	return []LogicalPlan{p.Source}
}

func (p *ProjectSet) Outputs() []symbol.Symbol {
	return append(asSymbols(p.TableFunctions), p.Standalone...)
}

func (p *ProjectSet) RelationNames() semantics.TableSet {
	return p.Source.RelationNames()
}

func (p *ProjectSet) ReplaceSources(sources []LogicalPlan) LogicalPlan {
	checkSize(sources, 1)
	return &ProjectSet{Source: sources[0], TableFunctions: p.TableFunctions, Standalone: p.Standalone}
}

func (p *ProjectSet) ShortDescription() string {
	parts := []string{symbol.Join(p.TableFunctions, ", ")}
	if len(p.Standalone) > 0 {
		parts = append(parts, symbol.Join(p.Standalone, ", "))
	}
	return strings.Join(parts, " | ")
}

// WindowAgg computes window functions over the rows of its source.
// The source outputs are passed through, followed by the window functions.
type WindowAgg struct {
	Source          LogicalPlan
	WindowFunctions []*symbol.WindowFunction
}

func (w *WindowAgg) Sources() []LogicalPlan {
	return []LogicalPlan{w.Source}
}

func (w *WindowAgg) Outputs() []symbol.Symbol {
	return append(append([]symbol.Symbol{}, w.Source.Outputs()...), asSymbols(w.WindowFunctions)...)
}

func (w *WindowAgg) RelationNames() semantics.TableSet {
	return w.Source.RelationNames()
}

func (w *WindowAgg) ReplaceSources(sources []LogicalPlan) LogicalPlan {
	checkSize(sources, 1)
	return &WindowAgg{Source: sources[0], WindowFunctions: w.WindowFunctions}
}

func (w *WindowAgg) ShortDescription() string {
	return symbol.Join(w.Outputs(), ", ")
}
