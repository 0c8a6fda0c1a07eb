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

/*
Package viperutil provides typed configuration values backed by viper.

A value is declared once with a key, a default, and the flag and environment
variables it can be set from:

	maxIterations := viperutil.Configure(reg, "optimizer.max-iterations", viperutil.Options[int]{
		Default:  100,
		FlagName: "optimizer-max-iterations",
		EnvVars:  []string{"PLANREWRITE_OPTIMIZER_MAX_ITERATIONS"},
	})

Flags are bound with BindFlags after the flag set is defined; the value then
resolves, in order of precedence, from an explicitly set flag, the
environment, the config file loaded with Registry.LoadConfig, and finally the
flag default.

Values are attached to a Registry rather than to a package-level viper so that
tests and concurrently running tools never observe each other's settings.
*/
package viperutil

import (
	"fmt"

	"github.com/spf13/pflag"
	"github.com/spf13/viper"

	"google.golang.org/grpc/codes"

	"vitess.io/planrewrite/go/vt/vterrors"
)

// Registry is a set of configured values sharing one viper instance.
type Registry struct {
	v *viper.Viper
}

// NewRegistry returns an empty registry.
func NewRegistry() *Registry {
	return &Registry{v: viper.New()}
}

// Viper exposes the underlying viper, for callers that need raw access.
func (r *Registry) Viper() *viper.Viper {
	return r.v
}

// LoadConfig reads the config file at path. The format is inferred from the extension.
func (r *Registry) LoadConfig(path string) error {
	if path == "" {
		return nil
	}
	r.v.SetConfigFile(path)
	if err := r.v.ReadInConfig(); err != nil {
		return vterrors.Wrapf(err, "failed to read config file %s", path)
	}
	return nil
}

// Registerable is the subset of Value used by BindFlags. The separate
// interface lets BindFlags take values of different T.
type Registerable interface {
	Key() string
	Flag(fs *pflag.FlagSet) (*pflag.Flag, error)
	registry() *Registry
}

// Options configures a Value.
type Options[T any] struct {
	Default  T
	FlagName string
	Aliases  []string
	EnvVars  []string

	// GetFunc overrides how the value is read out of viper. When nil, a getter
	// is chosen from the type of T.
	GetFunc func(v *viper.Viper) func(key string) T
}

// Value is a typed configuration value.
type Value[T any] struct {
	key  string
	opts Options[T]
	reg  *Registry

	get func(key string) T
}

// ErrNoFlagDefined is returned from Flag when the value names a flag that the
// given flag set does not define.
var ErrNoFlagDefined = vterrors.New(codes.InvalidArgument, "flag not defined")

// Configure declares a value in reg and binds its default, aliases and environment variables.
func Configure[T any](reg *Registry, key string, opts Options[T]) *Value[T] {
	if opts.GetFunc == nil {
		opts.GetFunc = getFuncForType[T]()
	}

	reg.v.SetDefault(key, opts.Default)
	for _, alias := range opts.Aliases {
		reg.v.RegisterAlias(alias, key)
	}
	if len(opts.EnvVars) > 0 {
		_ = reg.v.BindEnv(append([]string{key}, opts.EnvVars...)...)
	}

	return &Value[T]{
		key:  key,
		opts: opts,
		reg:  reg,
		get:  opts.GetFunc(reg.v),
	}
}

func (val *Value[T]) Key() string { return val.key }
func (val *Value[T]) Default() T  { return val.opts.Default }
func (val *Value[T]) Get() T      { return val.get(val.key) }

// Set overrides the value in its registry.
func (val *Value[T]) Set(v T) {
	val.reg.v.Set(val.key, v)
}

func (val *Value[T]) registry() *Registry { return val.reg }

// Flag returns the flag this value is bound to. A value without a FlagName
// returns (nil, nil).
func (val *Value[T]) Flag(fs *pflag.FlagSet) (*pflag.Flag, error) {
	if val.opts.FlagName == "" {
		return nil, nil
	}

	flag := fs.Lookup(val.opts.FlagName)
	if flag == nil {
		return nil, vterrors.Wrapf(ErrNoFlagDefined, "%s with name %s (for key %s)", ErrNoFlagDefined.Error(), val.opts.FlagName, val.key)
	}
	return flag, nil
}

// BindFlags creates bindings between each value's registry and the given flag
// set. It panics if a value names a flag that the flag set does not define.
func BindFlags(fs *pflag.FlagSet, values ...Registerable) {
	for _, val := range values {
		flag, err := val.Flag(fs)
		switch {
		case err != nil:
			panic(fmt.Errorf("failed to load flag for %s: %w", val.Key(), err))
		case flag == nil:
			continue
		}

		_ = val.registry().v.BindPFlag(val.Key(), flag)
		if flag.Name != val.Key() {
			val.registry().v.RegisterAlias(flag.Name, val.Key())
		}
	}
}
