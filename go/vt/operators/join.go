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
	"vitess.io/planrewrite/go/vt/relations"
	"vitess.io/planrewrite/go/vt/semantics"
	"vitess.io/planrewrite/go/vt/symbol"
	"vitess.io/planrewrite/go/vt/vterrors"
)

// Join is a nested loop join of two plans
type Join struct {
	Left, Right LogicalPlan
	Type        relations.JoinType
	Condition   symbol.Symbol
}

func (j *Join) Sources() []LogicalPlan {
	return []LogicalPlan{j.Left, j.Right}
}

func (j *Join) Outputs() []symbol.Symbol {
	return append(append([]symbol.Symbol{}, j.Left.Outputs()...), j.Right.Outputs()...)
}

func (j *Join) RelationNames() semantics.TableSet {
	return j.Left.RelationNames().Merge(j.Right.RelationNames())
}

func (j *Join) ReplaceSources(sources []LogicalPlan) LogicalPlan {
	checkSize(sources, 2)
	return &Join{Left: sources[0], Right: sources[1], Type: j.Type, Condition: j.Condition}
}

func (j *Join) ShortDescription() string {
	if j.Condition == nil {
		return j.Type.String()
	}
	return j.Type.String() + " | " + j.Condition.String()
}

// CorrelatedJoin evaluates SubPlan once per row of Input, binding the outer columns
// the subquery uses to the values of the current row.
// The value of the subquery is appended to the input outputs.
type CorrelatedJoin struct {
	Input    LogicalPlan
	SubQuery *symbol.SelectSymbol
	SubPlan  LogicalPlan
}

func (c *CorrelatedJoin) Sources() []LogicalPlan {
	return []LogicalPlan{c.Input}
}

func (c *CorrelatedJoin) Outputs() []symbol.Symbol {
	return append(append([]symbol.Symbol{}, c.Input.Outputs()...), c.SubQuery)
}

func (c *CorrelatedJoin) RelationNames() semantics.TableSet {
	return c.Input.RelationNames()
}

func (c *CorrelatedJoin) ReplaceSources(sources []LogicalPlan) LogicalPlan {
	checkSize(sources, 1)
	return &CorrelatedJoin{Input: sources[0], SubQuery: c.SubQuery, SubPlan: c.SubPlan}
}

func (c *CorrelatedJoin) SubPlans() []LogicalPlan {
	return []LogicalPlan{c.SubPlan}
}

func (c *CorrelatedJoin) ReplaceSubPlans(plans []LogicalPlan) LogicalPlan {
	checkSize(plans, 1)
	return &CorrelatedJoin{Input: c.Input, SubQuery: c.SubQuery, SubPlan: plans[0]}
}

func (c *CorrelatedJoin) ShortDescription() string {
	return symbol.Join(c.Outputs(), ", ")
}

func (c *CorrelatedJoin) checkValid() error {
	if c.SubPlan == nil {
		return vterrors.VT13001("CorrelatedJoin without a sub plan")
	}
	if !c.SubQuery.Correlated {
		return vterrors.VT13001("CorrelatedJoin over an uncorrelated subquery")
	}
	return nil
}

// Rename gives the outputs of its source the names of an aliased relation.
// Columns are aligned with the source outputs.
type Rename struct {
	ID      int
	Alias   string
	Columns []symbol.Symbol
	Source  LogicalPlan
}

func (r *Rename) Sources() []LogicalPlan {
	return []LogicalPlan{r.Source}
}

func (r *Rename) Outputs() []symbol.Symbol {
	return r.Columns
}

func (r *Rename) RelationNames() semantics.TableSet {
	return semantics.SingleTableSet(r.ID)
}

func (r *Rename) ReplaceSources(sources []LogicalPlan) LogicalPlan {
	checkSize(sources, 1)
	return &Rename{ID: r.ID, Alias: r.Alias, Columns: r.Columns, Source: sources[0]}
}

func (r *Rename) ShortDescription() string {
	return symbol.Join(r.Columns, ", ")
}

func (r *Rename) checkValid() error {
	if len(r.Columns) != len(r.Source.Outputs()) {
		return vterrors.VT13001("Rename columns do not match the source outputs")
	}
	return nil
}

// Union concatenates the rows of both sources, removing duplicates when Distinct is set
type Union struct {
	ID          int
	Left, Right LogicalPlan
	Distinct    bool
	Columns     []symbol.Symbol
}

func (u *Union) Sources() []LogicalPlan {
	return []LogicalPlan{u.Left, u.Right}
}

func (u *Union) Outputs() []symbol.Symbol {
	return u.Columns
}

func (u *Union) RelationNames() semantics.TableSet {
	return semantics.SingleTableSet(u.ID)
}

func (u *Union) ReplaceSources(sources []LogicalPlan) LogicalPlan {
	checkSize(sources, 2)
	return &Union{ID: u.ID, Left: sources[0], Right: sources[1], Distinct: u.Distinct, Columns: u.Columns}
}

func (u *Union) ShortDescription() string {
	if u.Distinct {
		return "DISTINCT | " + symbol.Join(u.Columns, ", ")
	}
	return symbol.Join(u.Columns, ", ")
}
