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

// Package cli contains the planrewrite commands.
package cli

import (
	"github.com/spf13/cobra"

	"vitess.io/planrewrite/go/viperutil"
	"vitess.io/planrewrite/go/vt/log"
	"vitess.io/planrewrite/go/vt/optimizer"
)

// env is the state shared by the commands of one root command
type env struct {
	registry   *viperutil.Registry
	optimizer  *optimizer.Flags
	configFile string
}

// NewRoot returns the planrewrite command. Every call returns a command with its own
// configuration registry.
func NewRoot() *cobra.Command {
	e := &env{registry: viperutil.NewRegistry()}
	e.optimizer = optimizer.NewFlags(e.registry)

	root := &cobra.Command{
		Use:   "planrewrite",
		Short: "planrewrite builds and optimizes the logical plans of query descriptions.",
		Long: "`planrewrite` reads a query description, builds the initial logical plan of the query\n" +
			"and rewrites it with the optimizer rule catalog until no rule applies anymore.",
		SilenceUsage:  true,
		SilenceErrors: true,
		PersistentPreRunE: func(cmd *cobra.Command, args []string) error {
			if err := log.Init(cmd.Flags()); err != nil {
				return err
			}
			return e.registry.LoadConfig(e.configFile)
		},
		PersistentPostRun: func(cmd *cobra.Command, args []string) {
			log.Flush()
		},
	}

	log.RegisterFlags(root.PersistentFlags())
	root.PersistentFlags().StringVar(&e.configFile, "config", "", "configuration file for the optimizer values (yaml, json or toml)")
	root.MarkPersistentFlagFilename("config")
	e.optimizer.RegisterFlags(root.PersistentFlags())

	root.AddCommand(explainCommand(e))
	root.AddCommand(rulesCommand(e))
	return root
}
