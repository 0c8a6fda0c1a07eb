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

// Package rules contains the rewrite rules of the optimizer catalog.
package rules

import (
	"vitess.io/planrewrite/go/vt/optimizer"
	"vitess.io/planrewrite/go/vt/operators"
)

// DefaultCatalog returns all rules in priority order.
// Cheap clean up rules come first so that the rules after them see compact plans.
func DefaultCatalog() []optimizer.CatalogEntry {
	return []optimizer.CatalogEntry{
		optimizer.Entry[*operators.Filter](NewRemoveRedundantFilter()),
		optimizer.Entry[*operators.Filter](NewMergeFilters()),
		optimizer.Entry[*operators.Filter](NewMoveFilterBeneathCorrelatedJoin()),
		optimizer.Entry[*operators.Filter](NewMergeFilterAndCollect()),
		optimizer.Entry[*operators.HashAggregate](NewMergeAggregateAndCollectToCount()),
	}
}
