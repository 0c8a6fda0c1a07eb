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
	"fmt"
	"io"
	"runtime"
	"strings"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/common/expfmt"
	"github.com/spf13/cobra"
	"golang.org/x/sync/errgroup"

	"vitess.io/planrewrite/go/vt/log"
	"vitess.io/planrewrite/go/vt/operators"
	"vitess.io/planrewrite/go/vt/optimizer"
	"vitess.io/planrewrite/go/vt/optimizer/rules"
	"vitess.io/planrewrite/go/vt/planbuilder"
	"vitess.io/planrewrite/go/vt/querydesc"
	"vitess.io/planrewrite/go/vt/splitpoints"
	"vitess.io/planrewrite/go/vt/vterrors"
)

type explainOptions struct {
	NoOptimize      bool
	ShowSplitPoints bool
	Format          string
	Metrics         bool
}

func explainCommand(e *env) *cobra.Command {
	opts := &explainOptions{Format: "text"}
	cmd := &cobra.Command{
		Use:   "explain [--no-optimize] [--show-split-points] [--format text|tree|json] [--metrics] <file> [<file>...]",
		Short: "Prints the logical plan of the query descriptions in the files.",
		Long: "Prints the logical plan of every query description. Files are planned concurrently\n" +
			"and printed in the order given, each under a `== <file>` line when there is more than one.",
		Example: `planrewrite explain --show-split-points testdata/correlated.yaml
planrewrite explain --optimizer-disabled-rules=MergeFilterAndCollect query.yaml
planrewrite explain --metrics testdata/*.yaml`,
		DisableFlagsInUseLine: true,
		Args:                  cobra.MinimumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			return runExplain(cmd.OutOrStdout(), e, opts, args)
		},
	}

	cmd.Flags().BoolVar(&opts.NoOptimize, "no-optimize", false, "print the initial plan without running the optimizer")
	cmd.Flags().BoolVar(&opts.ShowSplitPoints, "show-split-points", false, "print the split points of the query before the plan")
	cmd.Flags().StringVar(&opts.Format, "format", opts.Format, "output format of the plan: text, tree or json")
	cmd.Flags().BoolVar(&opts.Metrics, "metrics", false, "print the optimizer metrics after the plans")
	return cmd
}

// explainer plans one file. It is shared by the goroutines of one explain command.
type explainer struct {
	opts      *explainOptions
	format    func(operators.LogicalPlan) string
	optimizer *optimizer.Optimizer
	ctx       *optimizer.Context
}

func runExplain(w io.Writer, e *env, opts *explainOptions, paths []string) error {
	format, err := planFormatter(opts.Format)
	if err != nil {
		return err
	}

	reg := prometheus.NewRegistry()
	ex := &explainer{
		opts:      opts,
		format:    format,
		optimizer: optimizer.New(e.optimizer.Config(), rules.DefaultCatalog()...).WithMetrics(optimizer.NewMetrics(reg)),
		ctx:       &optimizer.Context{Session: e.optimizer.Session()},
	}

	outputs := make([]string, len(paths))
	var eg errgroup.Group
	eg.SetLimit(runtime.GOMAXPROCS(0))
	for i, path := range paths {
		eg.Go(func() error {
			out, err := ex.explain(path)
			if err != nil {
				return vterrors.Wrapf(err, "%s", path)
			}
			outputs[i] = out
			return nil
		})
	}
	if err := eg.Wait(); err != nil {
		return err
	}

	for i, out := range outputs {
		if len(paths) > 1 {
			if i > 0 {
				fmt.Fprintln(w)
			}
			fmt.Fprintf(w, "== %s\n", paths[i])
		}
		fmt.Fprint(w, out)
	}

	if opts.Metrics {
		return writeMetrics(w, reg)
	}
	return nil
}

func (ex *explainer) explain(path string) (string, error) {
	desc, err := querydesc.ReadFile(path)
	if err != nil {
		return "", err
	}
	rel, err := desc.Analyze()
	if err != nil {
		return "", err
	}

	var sb strings.Builder
	if ex.opts.ShowSplitPoints {
		sp, err := splitpoints.Create(rel)
		if err != nil {
			return "", err
		}
		fmt.Fprintf(&sb, "%s\n", sp)
	}

	plan, err := planbuilder.Build(rel)
	if err != nil {
		return "", err
	}
	if !ex.opts.NoOptimize {
		plan, err = ex.optimizer.Optimize(plan, ex.ctx)
		if err != nil {
			return "", err
		}
		log.InfoS("optimized plan", "file", path, "nodes", operators.CountNodes(plan))
	}

	sb.WriteString(ex.format(plan))
	return sb.String(), nil
}

func planFormatter(name string) (func(operators.LogicalPlan) string, error) {
	switch name {
	case "text":
		return operators.Explain, nil
	case "tree":
		return operators.ToTree, nil
	case "json":
		return func(plan operators.LogicalPlan) string { return operators.ToJSON(plan) + "\n" }, nil
	}
	return nil, vterrors.VT03002("format", fmt.Sprintf("unknown format %q, expected text, tree or json", name))
}

func writeMetrics(w io.Writer, reg *prometheus.Registry) error {
	families, err := reg.Gather()
	if err != nil {
		return err
	}
	fmt.Fprintln(w)
	enc := expfmt.NewEncoder(w, expfmt.NewFormat(expfmt.TypeTextPlain))
	for _, mf := range families {
		if err := enc.Encode(mf); err != nil {
			return err
		}
	}
	return nil
}
