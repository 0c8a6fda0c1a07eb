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

// Package operators contains the logical plan nodes.
/*
A logical plan is a tree of immutable nodes. Every node declares the symbols it outputs,
which is its contract with its parent: rewriting the internals of a subtree never changes
what the subtree outputs. A rewrite that replaces the sources of a node creates a new node,
unmodified subtrees are shared between the old and the new tree.
*/
package operators

import (
	"fmt"

	"github.com/gammazero/deque"

	"vitess.io/planrewrite/go/vt/semantics"
	"vitess.io/planrewrite/go/vt/symbol"
)

type (
	// LogicalPlan is a node in the logical plan tree.
	LogicalPlan interface {
		// Sources are the child plans, in order
		Sources() []LogicalPlan

		// Outputs are the symbols this node produces, in order
		Outputs() []symbol.Symbol

		// RelationNames is the set of relations this plan covers
		RelationNames() semantics.TableSet

		// ReplaceSources returns a copy of this node with new sources.
		// It panics if the number of sources does not match.
		ReplaceSources(sources []LogicalPlan) LogicalPlan

		ShortDescription() string
	}

	// subPlanHolder is implemented by nodes that own plans that are not sources,
	// like the plan of a correlated subquery
	subPlanHolder interface {
		SubPlans() []LogicalPlan
		ReplaceSubPlans(plans []LogicalPlan) LogicalPlan
	}

	checkable interface {
		// checkValid allows nodes to verify their own invariants
		checkValid() error
	}

	// helper type that implements Sources() returning nil
	noSources struct{}
)

// NoRelation is the relation id of nodes that produce rows without reading a relation
const NoRelation = -1

// Sources implements the LogicalPlan interface
func (noSources) Sources() []LogicalPlan {
	return nil
}

// SubPlans returns the plans owned by the node that are not sources
func SubPlans(plan LogicalPlan) []LogicalPlan {
	if holder, ok := plan.(subPlanHolder); ok {
		return holder.SubPlans()
	}
	return nil
}

// ReplaceSubPlans returns the node with new sub plans. Nodes without sub plans are returned as is.
func ReplaceSubPlans(plan LogicalPlan, subPlans []LogicalPlan) LogicalPlan {
	if holder, ok := plan.(subPlanHolder); ok {
		return holder.ReplaceSubPlans(subPlans)
	}
	return plan
}

// VisitTopDown visits the plan breadth first, including sub plans.
func VisitTopDown(root LogicalPlan, visitor func(LogicalPlan) error) error {
	var queue deque.Deque[LogicalPlan]
	queue.PushBack(root)
	for queue.Len() > 0 {
		this := queue.PopFront()
		for _, src := range this.Sources() {
			queue.PushBack(src)
		}
		for _, sub := range SubPlans(this) {
			queue.PushBack(sub)
		}
		err := visitor(this)
		if err != nil {
			return err
		}
	}
	return nil
}

// CountNodes returns how many nodes the plan has, sub plans included
func CountNodes(root LogicalPlan) (count int) {
	_ = VisitTopDown(root, func(LogicalPlan) error {
		count++
		return nil
	})
	return
}

// CheckValid runs the validation of every node in the plan
func CheckValid(root LogicalPlan) error {
	return VisitTopDown(root, func(this LogicalPlan) error {
		if chk, ok := this.(checkable); ok {
			return chk.checkValid()
		}
		return nil
	})
}

// SameOutputs returns true if both lists contain structurally equal symbols in the same order
func SameOutputs(a, b []symbol.Symbol) bool {
	if len(a) != len(b) {
		return false
	}
	for i := range a {
		if !symbol.Equal(a[i], b[i]) {
			return false
		}
	}
	return true
}

func checkSize(sources []LogicalPlan, shouldBe int) {
	if len(sources) != shouldBe {
		panic(fmt.Sprintf("BUG: got the wrong number of sources: got %d, expected %d", len(sources), shouldBe))
	}
}

func whereOrTrue(s symbol.Symbol) symbol.Symbol {
	if s == nil {
		return symbol.True()
	}
	return s
}

func asSymbols[S symbol.Symbol](in []S) []symbol.Symbol {
	out := make([]symbol.Symbol, len(in))
	for i, s := range in {
		out[i] = s
	}
	return out
}
