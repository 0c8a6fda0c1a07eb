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

	"vitess.io/planrewrite/go/vt/relations"
	"vitess.io/planrewrite/go/vt/semantics"
	"vitess.io/planrewrite/go/vt/symbol"
	"vitess.io/planrewrite/go/vt/vterrors"
)

// Collect reads the given columns of the rows matching Where from a table.
// The where clause is handed to the storage layer as an index query.
type Collect struct {
	noSources

	Relation *relations.TableRelation
	Columns  []symbol.Symbol
	Where    symbol.Symbol
}

// NewCollect creates a Collect, a nil where means TRUE
func NewCollect(rel *relations.TableRelation, columns []symbol.Symbol, where symbol.Symbol) *Collect {
	return &Collect{Relation: rel, Columns: columns, Where: whereOrTrue(where)}
}

func (c *Collect) Outputs() []symbol.Symbol {
	return c.Columns
}

func (c *Collect) RelationNames() semantics.TableSet {
	return semantics.SingleTableSet(c.Relation.ID)
}

func (c *Collect) ReplaceSources(sources []LogicalPlan) LogicalPlan {
	checkSize(sources, 0)
	return c
}

func (c *Collect) ShortDescription() string {
	return fmt.Sprintf("%s | [%s] | %s", c.Relation.Table.Name, symbol.Join(c.Columns, ", "), c.Where)
}

func (c *Collect) checkValid() error {
	if c.Relation == nil || c.Relation.Table == nil {
		return vterrors.VT13001("Collect without a table")
	}
	return nil
}

// Count returns the number of rows of a table that match Where, without reading them.
type Count struct {
	noSources

	Aggregate *symbol.Function
	Relation  *relations.TableRelation
	Where     symbol.Symbol
}

func (c *Count) Outputs() []symbol.Symbol {
	return []symbol.Symbol{c.Aggregate}
}

func (c *Count) RelationNames() semantics.TableSet {
	return semantics.SingleTableSet(c.Relation.ID)
}

func (c *Count) ReplaceSources(sources []LogicalPlan) LogicalPlan {
	checkSize(sources, 0)
	return c
}

func (c *Count) ShortDescription() string {
	return fmt.Sprintf("%s | %s", c.Relation.Table.Name, c.Where)
}

func (c *Count) checkValid() error {
	if c.Relation == nil || c.Relation.Table == nil {
		return vterrors.VT13001("Count without a table")
	}
	if c.Relation.Table.Kind != semantics.BaseTable {
		return vterrors.VT13001(fmt.Sprintf("Count over a %s table", c.Relation.Table.Kind))
	}
	return nil
}

// TableFunction produces the rows of a table function, e.g. generate_series or empty_row.
type TableFunction struct {
	noSources

	// ID is the relation the rows belong to, NoRelation for empty_row
	ID       int
	Function *symbol.Function
	Columns  []symbol.Symbol
	Where    symbol.Symbol
}

// EmptyRow returns the single empty row used for queries without a FROM clause
func EmptyRow(columns []symbol.Symbol) *TableFunction {
	return &TableFunction{
		ID:       NoRelation,
		Function: symbol.NewTableFunction("empty_row"),
		Columns:  columns,
		Where:    symbol.True(),
	}
}

func (tf *TableFunction) Outputs() []symbol.Symbol {
	return tf.Columns
}

func (tf *TableFunction) RelationNames() semantics.TableSet {
	if tf.ID == NoRelation {
		return semantics.EmptyTableSet()
	}
	return semantics.SingleTableSet(tf.ID)
}

func (tf *TableFunction) ReplaceSources(sources []LogicalPlan) LogicalPlan {
	checkSize(sources, 0)
	return tf
}

func (tf *TableFunction) ShortDescription() string {
	return fmt.Sprintf("%s | [%s] | %s", tf.Function.Name, symbol.Join(tf.Columns, ", "), whereOrTrue(tf.Where))
}
