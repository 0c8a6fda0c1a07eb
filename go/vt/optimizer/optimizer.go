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

// Package optimizer rewrites logical plans to a fixpoint using a catalog of rules.
/*
The driver visits the plan bottom up, so the sources of a node are stable before the node
itself is looked at. At every node the enabled rules are tried in catalog order; when a rule
rewrites the node, the whole catalog is tried again on the replacement. Whole tree passes are
repeated until a pass changes nothing.

Termination rests on the rules: none of them moves a predicate upward, and each either removes
a node or moves a conjunct below a correlated join. MaxIterations caps the number of passes
regardless. With Strict set, reaching the cap is an error, otherwise the plan of the last
pass is returned and the condition is logged and counted.
*/
package optimizer

import (
	"fmt"
	"log/slog"

	"vitess.io/planrewrite/go/vt/log"
	"vitess.io/planrewrite/go/vt/operators"
	"vitess.io/planrewrite/go/vt/symbol"
	"vitess.io/planrewrite/go/vt/vterrors"
)

// Optimizer applies a rule catalog to plans. It is safe for concurrent use.
type Optimizer struct {
	cfg     Config
	rules   []CatalogEntry
	metrics *Metrics
}

// New creates an optimizer with the rules, in priority order
func New(cfg Config, rules ...CatalogEntry) *Optimizer {
	return &Optimizer{cfg: cfg, rules: rules}
}

// WithMetrics returns a copy of the optimizer that records into m
func (o *Optimizer) WithMetrics(m *Metrics) *Optimizer {
	cp := *o
	cp.metrics = m
	return &cp
}

// RuleNames returns the names of the catalog, in priority order
func (o *Optimizer) RuleNames() []string {
	names := make([]string, len(o.rules))
	for i, r := range o.rules {
		names[i] = r.Name()
	}
	return names
}

// Optimize rewrites the plan until no rule applies anymore.
// A failing rule aborts the optimization, a partially rewritten plan is never returned.
func (o *Optimizer) Optimize(plan operators.LogicalPlan, ctx *Context) (result operators.LogicalPlan, err error) {
	defer func() {
		if r := recover(); r != nil {
			result = nil
			err = vterrors.VT13001(fmt.Sprintf("optimizer failed: %v", r))
		}
	}()

	rules := o.enabledRules(ctx)
	if len(rules) == 0 {
		return plan, nil
	}

	maxIterations := o.cfg.maxIterations()
	current := plan
	for i := 0; i < maxIterations; i++ {
		next, changed, err := o.rewriteBottomUp(current, rules, ctx)
		if err != nil {
			return nil, err
		}
		o.metrics.pass()
		if !changed {
			return current, nil
		}
		if o.cfg.Strict {
			if err := o.verify(current, next, "pass"); err != nil {
				return nil, err
			}
		}
		current = next
	}

	o.metrics.iterationCapReached()
	if o.cfg.Strict {
		return nil, vterrors.VT13002(maxIterations)
	}
	log.WarnS("optimizer stopped before reaching a fixpoint", "iterations", maxIterations)
	return current, nil
}

// enabledRules are checked once per optimization: a disabled rule is never matched
func (o *Optimizer) enabledRules(ctx *Context) []CatalogEntry {
	var rules []CatalogEntry
	for _, r := range o.rules {
		if ctx.ruleEnabled(r.Name()) {
			rules = append(rules, r)
		}
	}
	return rules
}

func (o *Optimizer) rewriteBottomUp(root operators.LogicalPlan, rules []CatalogEntry, ctx *Context) (operators.LogicalPlan, bool, error) {
	oldSources := root.Sources()
	anythingChanged := false
	newSources := make([]operators.LogicalPlan, len(oldSources))
	for i, source := range oldSources {
		in, changed, err := o.rewriteBottomUp(source, rules, ctx)
		if err != nil {
			return nil, false, err
		}
		if changed {
			anythingChanged = true
		}
		newSources[i] = in
	}
	if anythingChanged {
		root = root.ReplaceSources(newSources)
	}

	// sub plans are independent trees, optimized with the same catalog
	if oldSubPlans := operators.SubPlans(root); len(oldSubPlans) > 0 {
		subChanged := false
		newSubPlans := make([]operators.LogicalPlan, len(oldSubPlans))
		for i, sub := range oldSubPlans {
			in, changed, err := o.rewriteBottomUp(sub, rules, ctx)
			if err != nil {
				return nil, false, err
			}
			subChanged = subChanged || changed
			newSubPlans[i] = in
		}
		if subChanged {
			root = operators.ReplaceSubPlans(root, newSubPlans)
			anythingChanged = true
		}
	}

	newPlan, changed, err := o.applyRules(root, rules, ctx)
	if err != nil {
		return nil, false, err
	}
	return newPlan, anythingChanged || changed, nil
}

func (o *Optimizer) applyRules(plan operators.LogicalPlan, rules []CatalogEntry, ctx *Context) (operators.LogicalPlan, bool, error) {
	changed := false
	for attempt := 0; attempt < o.cfg.maxIterations(); attempt++ {
		applied := false
		for _, rule := range rules {
			newPlan, ok, err := rule.apply(plan, ctx)
			if err != nil {
				return nil, false, vterrors.Wrapf(err, "rule %s failed", rule.Name())
			}
			if !ok {
				continue
			}
			if o.cfg.Strict {
				if err := o.verify(plan, newPlan, rule.Name()); err != nil {
					return nil, false, err
				}
			}
			if log.Enabled(slog.LevelDebug) {
				log.DebugS("rule applied", "rule", rule.Name(), "node", operators.Name(plan), "replacement", operators.Name(newPlan))
			}
			o.metrics.ruleApplied(rule.Name())
			plan = newPlan
			changed, applied = true, true
			break
		}
		if !applied {
			break
		}
	}
	return plan, changed, nil
}

// verify checks that a rewrite kept the output contract and produced a valid plan
func (o *Optimizer) verify(before, after operators.LogicalPlan, rewrite string) error {
	if !operators.SameOutputs(before.Outputs(), after.Outputs()) {
		return vterrors.VT13001(fmt.Sprintf("%s changed the outputs of %s from [%s] to [%s]",
			rewrite, operators.Name(before), symbol.Join(before.Outputs(), ", "), symbol.Join(after.Outputs(), ", ")))
	}
	if err := operators.CheckValid(after); err != nil {
		return vterrors.Wrapf(err, "%s produced an invalid plan", rewrite)
	}
	return nil
}
