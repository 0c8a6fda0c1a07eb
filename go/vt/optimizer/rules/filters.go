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
	"vitess.io/planrewrite/go/vt/operators"
	"vitess.io/planrewrite/go/vt/optimizer"
	"vitess.io/planrewrite/go/vt/optimizer/matcher"
	"vitess.io/planrewrite/go/vt/symbol"
)

// MoveFilterBeneathCorrelatedJoin pushes the conjuncts of a filter that only use
// the input of a correlated join below the join:
//
//	Filter[P1 AND P2]                   Filter[P2]
//	  └ CorrelatedJoin         =>         └ CorrelatedJoin
//	    └ input                             └ Filter[P1]
//	                                          └ input
//
// Conjuncts that contain a correlated subquery stay above the join, their value
// only exists once the join ran the subquery for the row.
type MoveFilterBeneathCorrelatedJoin struct {
	join    *matcher.Capture[*operators.CorrelatedJoin]
	pattern *matcher.Pattern[*operators.Filter]
}

var _ optimizer.Rule[*operators.Filter] = (*MoveFilterBeneathCorrelatedJoin)(nil)

func NewMoveFilterBeneathCorrelatedJoin() *MoveFilterBeneathCorrelatedJoin {
	join := matcher.NewCapture[*operators.CorrelatedJoin]("join")
	pattern := matcher.With(
		matcher.TypeOf[*operators.Filter](),
		optimizer.Source,
		matcher.TypeOf[*operators.CorrelatedJoin]().
			CapturedAs(join).
			Matching(func(j *operators.CorrelatedJoin) bool {
				return len(j.Sources()) == 1
			}),
	)
	return &MoveFilterBeneathCorrelatedJoin{join: join, pattern: pattern}
}

func (r *MoveFilterBeneathCorrelatedJoin) Name() string {
	return "MoveFilterBeneathCorrelatedJoin"
}

func (r *MoveFilterBeneathCorrelatedJoin) Pattern() *matcher.Pattern[*operators.Filter] {
	return r.pattern
}

func (r *MoveFilterBeneathCorrelatedJoin) Apply(filter *operators.Filter, captures matcher.Captures, _ *optimizer.Context) (operators.LogicalPlan, error) {
	join := r.join.Get(captures)
	input := join.Sources()[0]
	inputRelations := input.RelationNames()

	var pushed, remaining []symbol.Symbol
	for _, conjunct := range symbol.SplitConjuncts(filter.Query) {
		if symbol.Relations(conjunct).IsSolvedBy(inputRelations) && !symbol.ContainsCorrelatedSubquery(conjunct) {
			pushed = append(pushed, conjunct)
		} else {
			remaining = append(remaining, conjunct)
		}
	}
	if len(pushed) == 0 {
		return nil, nil
	}

	newJoin := join.ReplaceSources([]operators.LogicalPlan{
		&operators.Filter{Source: input, Query: symbol.And(pushed...)},
	})
	if len(remaining) == 0 {
		return newJoin, nil
	}
	return &operators.Filter{Source: newJoin, Query: symbol.And(remaining...)}, nil
}

// MergeFilters merges a filter into the filter below it
type MergeFilters struct {
	pattern *matcher.Pattern[*operators.Filter]
}

var _ optimizer.Rule[*operators.Filter] = (*MergeFilters)(nil)

func NewMergeFilters() *MergeFilters {
	return &MergeFilters{
		pattern: matcher.With(matcher.TypeOf[*operators.Filter](), optimizer.Source, matcher.TypeOf[*operators.Filter]()),
	}
}

func (r *MergeFilters) Name() string {
	return "MergeFilters"
}

func (r *MergeFilters) Pattern() *matcher.Pattern[*operators.Filter] {
	return r.pattern
}

func (r *MergeFilters) Apply(filter *operators.Filter, _ matcher.Captures, _ *optimizer.Context) (operators.LogicalPlan, error) {
	inner := filter.Source.(*operators.Filter)
	return &operators.Filter{
		Source: inner.Source,
		Query:  symbol.And(inner.Query, filter.Query),
	}, nil
}

// RemoveRedundantFilter removes filters on the literal TRUE
type RemoveRedundantFilter struct {
	pattern *matcher.Pattern[*operators.Filter]
}

var _ optimizer.Rule[*operators.Filter] = (*RemoveRedundantFilter)(nil)

func NewRemoveRedundantFilter() *RemoveRedundantFilter {
	return &RemoveRedundantFilter{
		pattern: matcher.TypeOf[*operators.Filter]().Matching(func(f *operators.Filter) bool {
			return symbol.IsTrue(f.Query)
		}),
	}
}

func (r *RemoveRedundantFilter) Name() string {
	return "RemoveRedundantFilter"
}

func (r *RemoveRedundantFilter) Pattern() *matcher.Pattern[*operators.Filter] {
	return r.pattern
}

func (r *RemoveRedundantFilter) Apply(filter *operators.Filter, _ matcher.Captures, _ *optimizer.Context) (operators.LogicalPlan, error) {
	return filter.Source, nil
}

// MergeFilterAndCollect moves the predicate of a filter into the where clause of the
// collect below it, where the storage layer can use it as an index query.
// Predicates with subqueries are left alone: the storage layer cannot evaluate them.
type MergeFilterAndCollect struct {
	collect *matcher.Capture[*operators.Collect]
	pattern *matcher.Pattern[*operators.Filter]
}

var _ optimizer.Rule[*operators.Filter] = (*MergeFilterAndCollect)(nil)

func NewMergeFilterAndCollect() *MergeFilterAndCollect {
	collect := matcher.NewCapture[*operators.Collect]("collect")
	pattern := matcher.With(
		matcher.TypeOf[*operators.Filter]().Matching(func(f *operators.Filter) bool {
			return !containsSubquery(f.Query)
		}),
		optimizer.Source,
		matcher.TypeOf[*operators.Collect]().CapturedAs(collect),
	)
	return &MergeFilterAndCollect{collect: collect, pattern: pattern}
}

func containsSubquery(s symbol.Symbol) bool {
	return symbol.Any(s, func(node symbol.Symbol) bool {
		_, ok := node.(*symbol.SelectSymbol)
		return ok
	})
}

func (r *MergeFilterAndCollect) Name() string {
	return "MergeFilterAndCollect"
}

func (r *MergeFilterAndCollect) Pattern() *matcher.Pattern[*operators.Filter] {
	return r.pattern
}

func (r *MergeFilterAndCollect) Apply(filter *operators.Filter, captures matcher.Captures, _ *optimizer.Context) (operators.LogicalPlan, error) {
	collect := r.collect.Get(captures)
	return operators.NewCollect(collect.Relation, collect.Columns, symbol.And(collect.Where, filter.Query)), nil
}
