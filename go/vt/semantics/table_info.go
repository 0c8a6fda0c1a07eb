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

package semantics

import "strings"

// TableKind tells the planner what kind of storage backs a relation.
type TableKind int

const (
	// BaseTable is a user table stored in shards; it has exact row counts per shard.
	BaseTable TableKind = iota
	// SystemTable is a virtual table computed on the node (sys.*, information_schema.*).
	SystemTable
	// BlobTable stores binary objects and does not support aggregation fast paths.
	BlobTable
)

func (k TableKind) String() string {
	switch k {
	case BaseTable:
		return "base"
	case SystemTable:
		return "system"
	case BlobTable:
		return "blob"
	}
	return "unknown"
}

// RelationName is the fully qualified name of a relation.
type RelationName struct {
	Schema string
	Name   string
}

// ParseRelationName splits "schema.name". A missing schema defaults to "doc".
func ParseRelationName(fqn string) RelationName {
	if schema, name, ok := strings.Cut(fqn, "."); ok {
		return RelationName{Schema: schema, Name: name}
	}
	return RelationName{Schema: "doc", Name: fqn}
}

func (rn RelationName) String() string {
	if rn.Schema == "" {
		return rn.Name
	}
	return rn.Schema + "." + rn.Name
}

// ColumnInfo is the metadata of one column, as seen by the planner.
type ColumnInfo struct {
	Name      string
	Type      string
	Nullable  bool
	Generated bool
	Indexed   bool
}

// TableInfo is an immutable snapshot of a table's metadata.
type TableInfo struct {
	Name    RelationName
	Kind    TableKind
	Columns []ColumnInfo
}

// Column returns the metadata for the named column.
func (ti *TableInfo) Column(name string) (ColumnInfo, bool) {
	for _, col := range ti.Columns {
		if col.Name == name {
			return col, true
		}
	}
	return ColumnInfo{}, false
}
