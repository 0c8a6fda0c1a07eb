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

package symbol

import (
	"strconv"
	"strings"
)

var infixOperators = map[string]bool{
	AndOp:       true,
	OrOp:        true,
	EqualOp:     true,
	NotEqOp:     true,
	LessOp:      true,
	LessEqOp:    true,
	GreaterOp:   true,
	GreaterEqOp: true,
	PlusOp:      true,
	MinusOp:     true,
	MultOp:      true,
}

func (r *Reference) String() string {
	return r.Column
}

func (l *Literal) String() string {
	switch v := l.Value.(type) {
	case nil:
		return "NULL"
	case bool:
		return strconv.FormatBool(v)
	case int64:
		return strconv.FormatInt(v, 10)
	case float64:
		return strconv.FormatFloat(v, 'g', -1, 64)
	case string:
		return "'" + strings.ReplaceAll(v, "'", "''") + "'"
	}
	return "?"
}

func (f *Function) String() string {
	var sb strings.Builder
	switch {
	case f.Kind == Scalar && infixOperators[f.Name] && len(f.Args) == 2:
		sb.WriteString("(")
		sb.WriteString(f.Args[0].String())
		sb.WriteString(" " + f.Name + " ")
		sb.WriteString(f.Args[1].String())
		sb.WriteString(")")
	case f.Kind == Scalar && f.Name == NotOp && len(f.Args) == 1:
		sb.WriteString("(NOT " + f.Args[0].String() + ")")
	case f.Kind == Scalar && f.Name == ExistsOp && len(f.Args) == 1:
		sb.WriteString("EXISTS " + f.Args[0].String())
	case f.Kind == Scalar && f.Name == IsNullOp && len(f.Args) == 1:
		sb.WriteString("(" + f.Args[0].String() + " IS NULL)")
	case f.Kind == Aggregate && len(f.Args) == 0:
		sb.WriteString(f.Name + "(*)")
	default:
		sb.WriteString(f.Name + "(" + Join(f.Args, ", ") + ")")
	}
	if f.Filter != nil {
		sb.WriteString(" FILTER (WHERE " + f.Filter.String() + ")")
	}
	return sb.String()
}

func (w *WindowFunction) String() string {
	var sb strings.Builder
	sb.WriteString(w.Name + "(" + Join(w.Args, ", ") + ")")
	if w.Filter != nil {
		sb.WriteString(" FILTER (WHERE " + w.Filter.String() + ")")
	}
	sb.WriteString(" OVER (")
	if len(w.Partitions) > 0 {
		sb.WriteString("PARTITION BY " + Join(w.Partitions, ", "))
	}
	if w.OrderBy != nil && len(w.OrderBy.Symbols) > 0 {
		if len(w.Partitions) > 0 {
			sb.WriteString(" ")
		}
		sb.WriteString("ORDER BY " + w.OrderBy.String())
	}
	sb.WriteString(")")
	return sb.String()
}

func (oc *OuterColumn) String() string {
	return oc.Symbol.String()
}

func (s *SelectSymbol) String() string {
	if s.Relation == nil {
		return "(SELECT)"
	}
	sources := s.Relation.SourceNames()
	if len(sources) == 0 {
		sources = []string{"empty_row"}
	}
	return "(SELECT " + Join(s.Relation.Outputs(), ", ") + " FROM (" + strings.Join(sources, ", ") + "))"
}

// String renders the ordering the way EXPLAIN shows it, e.g. "a ASC b DESC"
func (ob *OrderBy) String() string {
	parts := make([]string, 0, len(ob.Symbols))
	for i, s := range ob.Symbols {
		dir := "ASC"
		if i < len(ob.Descending) && ob.Descending[i] {
			dir = "DESC"
		}
		parts = append(parts, s.String()+" "+dir)
	}
	return strings.Join(parts, " ")
}

// Join formats the symbols and joins them with sep.
func Join[S Symbol](symbols []S, sep string) string {
	parts := make([]string, len(symbols))
	for i, s := range symbols {
		parts[i] = s.String()
	}
	return strings.Join(parts, sep)
}
