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

package viperutil

import (
	"fmt"
	"strings"
	"time"

	"github.com/spf13/viper"
)

func getFuncForType[T any]() func(v *viper.Viper) func(key string) T {
	var (
		t T
		f any
	)

	switch t := any(t).(type) {
	case bool:
		f = func(v *viper.Viper) func(key string) bool { return v.GetBool }
	case int:
		f = func(v *viper.Viper) func(key string) int { return v.GetInt }
	case int64:
		f = func(v *viper.Viper) func(key string) int64 { return v.GetInt64 }
	case float64:
		f = func(v *viper.Viper) func(key string) float64 { return v.GetFloat64 }
	case string:
		f = func(v *viper.Viper) func(key string) string { return v.GetString }
	case []string:
		f = func(v *viper.Viper) func(key string) []string { return getStringSlice(v) }
	case time.Duration:
		f = func(v *viper.Viper) func(key string) time.Duration { return v.GetDuration }
	default:
		panic(fmt.Sprintf("unsupported type %T for viperutil value", t))
	}

	return f.(func(v *viper.Viper) func(key string) T)
}

// getStringSlice also accepts a single comma separated string, which is how
// string slices arrive from environment variables.
func getStringSlice(v *viper.Viper) func(key string) []string {
	return func(key string) []string {
		if s, ok := v.Get(key).(string); ok {
			if s == "" {
				return nil
			}
			parts := strings.Split(s, ",")
			for i := range parts {
				parts[i] = strings.TrimSpace(parts[i])
			}
			return parts
		}
		return v.GetStringSlice(key)
	}
}
