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

package cli

import (
	"io"

	"github.com/olekukonko/tablewriter"
	"github.com/spf13/cobra"

	"vitess.io/planrewrite/go/vt/optimizer"
	"vitess.io/planrewrite/go/vt/optimizer/rules"
)

func rulesCommand(e *env) *cobra.Command {
	return &cobra.Command{
		Use:   "rules",
		Short: "Lists the optimizer rules in priority order, with their session setting and state.",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			return runRules(cmd.OutOrStdout(), e)
		},
	}
}

func runRules(w io.Writer, e *env) error {
	session := e.optimizer.Session()
	var rows [][]string
	for _, name := range optimizer.New(e.optimizer.Config(), rules.DefaultCatalog()...).RuleNames() {
		state := "enabled"
		if !session.RuleEnabled(name) {
			state = "disabled"
		}
		rows = append(rows, []string{name, optimizer.SessionSettingName(name), state})
	}

	table := tablewriter.NewWriter(w)
	table.Header("Rule", "Session setting", "State")
	if err := table.Bulk(rows); err != nil {
		return err
	}
	return table.Render()
}
