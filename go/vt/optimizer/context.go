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
	"strings"
	"unicode"
)

// Context is what a rule can see of the compilation it runs in
type Context struct {
	Session SessionSettings
}

// SessionSettings exposes the per session optimizer flags
type SessionSettings interface {
	// RuleEnabled returns false when the rule with the given name was switched off
	RuleEnabled(name string) bool
}

// AllRulesEnabled is the default session: every rule is enabled
type AllRulesEnabled struct{}

func (AllRulesEnabled) RuleEnabled(string) bool { return true }

// DisabledRules is a session that switches off the named rules
type DisabledRules map[string]bool

// NewDisabledRules accepts rule names (MergeFilters) as well as
// session setting names (optimizer_merge_filters)
func NewDisabledRules(names ...string) DisabledRules {
	d := DisabledRules{}
	for _, name := range names {
		name = strings.TrimSpace(name)
		if name == "" {
			continue
		}
		d[SessionSettingName(name)] = true
	}
	return d
}

func (d DisabledRules) RuleEnabled(name string) bool {
	return !d[SessionSettingName(name)]
}

const settingPrefix = "optimizer_"

// SessionSettingName returns the name of the session setting that enables the rule,
// e.g. optimizer_move_filter_beneath_correlated_join
func SessionSettingName(ruleName string) string {
	if strings.HasPrefix(ruleName, settingPrefix) {
		return ruleName
	}
	var sb strings.Builder
	sb.WriteString(settingPrefix)
	for i, r := range ruleName {
		if unicode.IsUpper(r) {
			if i > 0 {
				sb.WriteByte('_')
			}
			r = unicode.ToLower(r)
		}
		sb.WriteRune(r)
	}
	return sb.String()
}

func (ctx *Context) ruleEnabled(name string) bool {
	if ctx == nil || ctx.Session == nil {
		return true
	}
	return ctx.Session.RuleEnabled(name)
}
