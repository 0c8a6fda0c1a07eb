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
	"encoding/json"
	"fmt"
	"reflect"
	"strings"

	"github.com/xlab/treeprint"
)

// Name returns the name of the node as shown by EXPLAIN
func Name(plan LogicalPlan) string {
	switch plan.(type) {
	case *Join:
		return "NestedLoopJoin"
	case *Order:
		return "OrderBy"
	}
	return reflect.TypeOf(plan).Elem().Name()
}

func explainLine(plan LogicalPlan) string {
	line := Name(plan) + "[" + plan.ShortDescription() + "]"
	if r, ok := plan.(*Rename); ok && r.Alias != "" {
		line += " AS " + r.Alias
	}
	return line
}

// Explain prints the plan the way EXPLAIN (COSTS FALSE) shows it:
//
//	Eval[x]
//	  └ Filter[(x > 1)]
//	    └ Collect[doc.t | [x] | true]
func Explain(plan LogicalPlan) string {
	var sb strings.Builder
	sb.WriteString(explainLine(plan))
	sb.WriteString("\n")
	explainChildren(&sb, plan, 1)
	return sb.String()
}

func explainChildren(sb *strings.Builder, plan LogicalPlan, level int) {
	indent := strings.Repeat("  ", level)
	sources := plan.Sources()
	for i, src := range sources {
		prefix := "├ "
		if i == len(sources)-1 {
			prefix = "└ "
		}
		sb.WriteString(indent + prefix + explainLine(src) + "\n")
		explainChildren(sb, src, level+1)
	}
	for _, sub := range SubPlans(plan) {
		sb.WriteString(indent + "└ SubPlan\n")
		sb.WriteString(indent + "  └ " + explainLine(sub) + "\n")
		explainChildren(sb, sub, level+2)
	}
}

// ToTree renders the plan as a tree, for debugging
func ToTree(plan LogicalPlan) string {
	tree := asTree(plan, nil)
	return tree.String()
}

func opDescr(plan LogicalPlan) string {
	typ := reflect.TypeOf(plan).Elem().Name()
	shortDescription := plan.ShortDescription()
	if shortDescription == "" {
		return typ
	}
	return fmt.Sprintf("%s (%s)", typ, shortDescription)
}

func asTree(plan LogicalPlan, root treeprint.Tree) treeprint.Tree {
	txt := opDescr(plan)
	var branch treeprint.Tree
	if root == nil {
		branch = treeprint.NewWithRoot(txt)
	} else {
		branch = root.AddBranch(txt)
	}
	for _, child := range plan.Sources() {
		asTree(child, branch)
	}
	for _, sub := range SubPlans(plan) {
		asTree(sub, branch.AddBranch("SubPlan"))
	}
	return branch
}

// OpDescription is the JSON shape of a plan node
type OpDescription struct {
	OperatorType string
	Description  string          `json:",omitempty"`
	Outputs      []string        `json:",omitempty"`
	Inputs       []OpDescription `json:",omitempty"`
	SubPlans     []OpDescription `json:",omitempty"`
}

// ToJSON returns a JSON description of the plan. It can panic, so do not use this in production code
func ToJSON(plan LogicalPlan) string {
	descr := buildDescriptionTree(plan)
	out, err := json.MarshalIndent(descr, "", "  ")
	if err != nil {
		panic(err)
	}
	return string(out)
}

func buildDescriptionTree(plan LogicalPlan) OpDescription {
	descr := OpDescription{
		OperatorType: Name(plan),
		Description:  plan.ShortDescription(),
	}
	for _, out := range plan.Outputs() {
		descr.Outputs = append(descr.Outputs, out.String())
	}
	for _, in := range plan.Sources() {
		descr.Inputs = append(descr.Inputs, buildDescriptionTree(in))
	}
	for _, sub := range SubPlans(plan) {
		descr.SubPlans = append(descr.SubPlans, buildDescriptionTree(sub))
	}
	return descr
}
