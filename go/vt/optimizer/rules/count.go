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
	"vitess.io/planrewrite/go/vt/semantics"
	"vitess.io/planrewrite/go/vt/symbol"
)

// MergeAggregateAndCollectToCount turns
//
//	HashAggregate[count(*)]
//	  └ Collect[doc.t | [...] | where]
//
// into Count[doc.t | where]. Only count(*) and count of a non-nullable column
// qualify, and only over base tables.
type MergeAggregateAndCollectToCount struct {
	collect *matcher.Capture[*operators.Collect]
	pattern *matcher.Pattern[*operators.HashAggregate]
}

var _ optimizer.Rule[*operators.HashAggregate] = (*MergeAggregateAndCollectToCount)(nil)

func NewMergeAggregateAndCollectToCount() *MergeAggregateAndCollectToCount {
	collect := matcher.NewCapture[*operators.Collect]("collect")
	pattern := matcher.With(
		matcher.TypeOf[*operators.HashAggregate](),
		optimizer.Source,
		matcher.TypeOf[*operators.Collect]().
			CapturedAs(collect).
			Matching(func(c *operators.Collect) bool {
				return c.Relation.Table.Kind == semantics.BaseTable
			}),
	).Matching(func(agg *operators.HashAggregate) bool {
		return isCountAggregate(agg.Aggregates)
	})
	return &MergeAggregateAndCollectToCount{collect: collect, pattern: pattern}
}

func isCountAggregate(aggregates []*symbol.Function) bool {
	if len(aggregates) != 1 {
		return false
	}
	agg := aggregates[0]
	if agg.Kind != symbol.Aggregate || agg.Name != "count" {
		return false
	}
	switch len(agg.Args) {
	case 0:
		return true
	case 1:
		ref, ok := agg.Args[0].(*symbol.Reference)
		return ok && !ref.Nullable
	}
	return false
}

func (r *MergeAggregateAndCollectToCount) Name() string {
	return "MergeAggregateAndCollectToCount"
}

func (r *MergeAggregateAndCollectToCount) Pattern() *matcher.Pattern[*operators.HashAggregate] {
	return r.pattern
}

func (r *MergeAggregateAndCollectToCount) Apply(agg *operators.HashAggregate, captures matcher.Captures, _ *optimizer.Context) (operators.LogicalPlan, error) {
	collect := r.collect.Get(captures)
	count := agg.Aggregates[0]
	where := collect.Where
	if count.Filter != nil {
		where = symbol.And(collect.Where, count.Filter)
	}
	return &operators.Count{
		Aggregate: count,
		Relation:  collect.Relation,
		Where:     where,
	}, nil
}
