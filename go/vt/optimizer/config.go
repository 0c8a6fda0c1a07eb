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
	"github.com/spf13/pflag"

	"vitess.io/planrewrite/go/viperutil"
)

// DefaultMaxIterations is used when the configuration does not set a positive cap
const DefaultMaxIterations = 100

// Config controls the driver loop
type Config struct {
	// MaxIterations caps the number of whole tree passes, and the number of rule
	// applications on a single node within one pass
	MaxIterations int

	// Strict makes reaching the cap an error, and checks that every rewrite keeps
	// the outputs of the node it replaces. Used in tests.
	Strict bool
}

func (c Config) maxIterations() int {
	if c.MaxIterations <= 0 {
		return DefaultMaxIterations
	}
	return c.MaxIterations
}

// Flags are the configurable optimizer values of one registry
type Flags struct {
	MaxIterations *viperutil.Value[int]
	Strict        *viperutil.Value[bool]
	DisabledRules *viperutil.Value[[]string]
}

// NewFlags configures the optimizer values in the registry
func NewFlags(reg *viperutil.Registry) *Flags {
	return &Flags{
		MaxIterations: viperutil.Configure(reg, "optimizer.max-iterations", viperutil.Options[int]{
			Default:  DefaultMaxIterations,
			FlagName: "optimizer-max-iterations",
			EnvVars:  []string{"PLANREWRITE_OPTIMIZER_MAX_ITERATIONS"},
		}),
		Strict: viperutil.Configure(reg, "optimizer.strict", viperutil.Options[bool]{
			FlagName: "optimizer-strict",
			EnvVars:  []string{"PLANREWRITE_OPTIMIZER_STRICT"},
		}),
		DisabledRules: viperutil.Configure(reg, "optimizer.disabled-rules", viperutil.Options[[]string]{
			FlagName: "optimizer-disabled-rules",
			EnvVars:  []string{"PLANREWRITE_OPTIMIZER_DISABLED_RULES"},
		}),
	}
}

// RegisterFlags defines the optimizer flags on fs and binds them
func (f *Flags) RegisterFlags(fs *pflag.FlagSet) {
	fs.Int("optimizer-max-iterations", f.MaxIterations.Default(), "maximum number of optimizer passes over a plan")
	fs.Bool("optimizer-strict", f.Strict.Default(), "fail when the optimizer does not reach a fixpoint, and verify rule outputs")
	fs.StringSlice("optimizer-disabled-rules", f.DisabledRules.Default(), "comma separated list of optimizer rules to disable")

	viperutil.BindFlags(fs, f.MaxIterations, f.Strict, f.DisabledRules)
}

// Config returns the driver configuration
func (f *Flags) Config() Config {
	return Config{
		MaxIterations: f.MaxIterations.Get(),
		Strict:        f.Strict.Get(),
	}
}

// Session returns the session settings with the configured rules disabled
func (f *Flags) Session() DisabledRules {
	return NewDisabledRules(f.DisabledRules.Get()...)
}
