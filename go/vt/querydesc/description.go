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

// Package querydesc decodes YAML query descriptions: the table schemas a query uses and the
// analyzed shape of the query. A description takes the place of the SQL analyzer when
// plans are built from the command line or from test fixtures.
package querydesc

import (
	"bytes"
	"encoding/json"
	"os"

	"sigs.k8s.io/yaml"

	"vitess.io/planrewrite/go/vt/vterrors"
)

type (
	// Description is the root of a description file
	Description struct {
		Tables []Table `json:"tables"`
		Query  Query   `json:"query"`
	}

	// Table is the schema of a table
	Table struct {
		Name    string   `json:"name"`
		Kind    string   `json:"kind,omitempty"`
		Columns []Column `json:"columns"`
	}

	Column struct {
		Name      string `json:"name"`
		Type      string `json:"type,omitempty"`
		Nullable  bool   `json:"nullable,omitempty"`
		Generated bool   `json:"generated,omitempty"`
		Indexed   bool   `json:"indexed,omitempty"`
	}

	// Query is a SELECT
	Query struct {
		From    []From  `json:"from,omitempty"`
		Select  []Expr  `json:"select"`
		Where   *Expr   `json:"where,omitempty"`
		GroupBy []Expr  `json:"groupBy,omitempty"`
		Having  *Expr   `json:"having,omitempty"`
		OrderBy []Order `json:"orderBy,omitempty"`
		Limit   *Expr   `json:"limit,omitempty"`
		Offset  *Expr   `json:"offset,omitempty"`
	}

	// From is one relation of a FROM clause. Exactly one of Table, Join, Subquery,
	// Union and Function is set.
	From struct {
		Table    string `json:"table,omitempty"`
		Join     *Join  `json:"join,omitempty"`
		Subquery *Query `json:"subquery,omitempty"`
		Union    *Union `json:"union,omitempty"`
		Function *Expr  `json:"function,omitempty"`
		Alias    string `json:"alias,omitempty"`
		// Columns names the outputs of a table function
		Columns []string `json:"columns,omitempty"`
	}

	Join struct {
		Type  string `json:"type,omitempty"`
		Left  From   `json:"left"`
		Right From   `json:"right"`
		On    *Expr  `json:"condition,omitempty"`
	}

	Union struct {
		Left     Query `json:"left"`
		Right    Query `json:"right"`
		Distinct bool  `json:"distinct,omitempty"`
	}

	// Expr is an expression tree. Exactly one of its kinds is set.
	Expr struct {
		// Column is a column of the current query, either "name" or "relation.name"
		Column string `json:"column,omitempty"`
		// Outer is a column of the enclosing query
		Outer   string          `json:"outer,omitempty"`
		Literal json.RawMessage `json:"literal,omitempty"`
		Null    bool            `json:"nullLiteral,omitempty"`

		// Op is a scalar operator or function, e.g. "=", "AND", "abs"
		Op            string  `json:"op,omitempty"`
		Aggregate     string  `json:"aggregate,omitempty"`
		TableFunction string  `json:"tableFunction,omitempty"`
		Window        *Window `json:"window,omitempty"`
		Args          []Expr  `json:"args,omitempty"`
		Filter        *Expr   `json:"filter,omitempty"`

		Subquery *Query `json:"subquery,omitempty"`
		Exists   *Query `json:"exists,omitempty"`
	}

	Window struct {
		Name        string  `json:"name"`
		PartitionBy []Expr  `json:"partitionBy,omitempty"`
		OrderBy     []Order `json:"orderBy,omitempty"`
	}

	Order struct {
		Expr
		Desc bool `json:"desc,omitempty"`
	}
)

// Decode parses a YAML description. Unknown fields are rejected.
func Decode(data []byte) (*Description, error) {
	var desc Description
	if err := yaml.UnmarshalStrict(bytes.TrimSpace(data), &desc); err != nil {
		return nil, vterrors.VT03001(err.Error())
	}
	return &desc, nil
}

// ReadFile decodes the description stored in the file
func ReadFile(path string) (*Description, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, err
	}
	return Decode(data)
}

