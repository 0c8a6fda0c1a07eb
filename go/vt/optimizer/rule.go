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

package optimizer

import (
	"vitess.io/planrewrite/go/vt/operators"
	"vitess.io/planrewrite/go/vt/optimizer/matcher"
)

type (
	// Rule rewrites plan nodes of type T that match its pattern.
	// Rules are created once and must not keep state between applications.
	Rule[T operators.LogicalPlan] interface {
		Name() string
		Pattern() *matcher.Pattern[T]

		// Apply returns the replacement for a matched node. A nil plan means the rule
		// declines to rewrite this node, which is not an error. Any error aborts the optimization.
		Apply(plan T, captures matcher.Captures, ctx *Context) (operators.LogicalPlan, error)
	}

	// CatalogEntry is a rule whose node type has been erased, so rules for
	// different node types can be kept in one ordered catalog
	CatalogEntry interface {
		Name() string
		apply(plan operators.LogicalPlan, ctx *Context) (operators.LogicalPlan, bool, error)
	}

	entry[T operators.LogicalPlan] struct {
		rule Rule[T]
	}
)

// Entry turns a rule into a catalog entry
func Entry[T operators.LogicalPlan](rule Rule[T]) CatalogEntry {
	return entry[T]{rule: rule}
}

func (e entry[T]) Name() string {
	return e.rule.Name()
}

func (e entry[T]) apply(plan operators.LogicalPlan, ctx *Context) (operators.LogicalPlan, bool, error) {
	matched, captures, ok := e.rule.Pattern().Match(plan)
	if !ok {
		return plan, false, nil
	}
	result, err := e.rule.Apply(matched, captures, ctx)
	if err != nil {
		return nil, false, err
	}
	if result == nil || result == plan {
		return plan, false, nil
	}
	return result, true, nil
}

// Source is the single source of a plan node. It is undefined for nodes with zero or several sources.
var Source = matcher.NewProperty("source", func(plan operators.LogicalPlan) (operators.LogicalPlan, bool) {
	sources := plan.Sources()
	if len(sources) != 1 {
		return nil, false
	}
	return sources[0], true
})

// LeftSource is the first source of a node with two sources
var LeftSource = matcher.NewProperty("left source", func(plan operators.LogicalPlan) (operators.LogicalPlan, bool) {
	sources := plan.Sources()
	if len(sources) != 2 {
		return nil, false
	}
	return sources[0], true
})

// RightSource is the second source of a node with two sources
var RightSource = matcher.NewProperty("right source", func(plan operators.LogicalPlan) (operators.LogicalPlan, bool) {
	sources := plan.Sources()
	if len(sources) != 2 {
		return nil, false
	}
	return sources[1], true
})
