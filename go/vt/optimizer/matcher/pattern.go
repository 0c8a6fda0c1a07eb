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

// Package matcher is a small combinator library to match the shape of values,
// typically plan nodes, and bind parts of a matched value to captures.
//
//	collect := matcher.NewCapture[*operators.Collect]("collect")
//	pattern := matcher.With(
//		matcher.TypeOf[*operators.HashAggregate](),
//		optimizer.Source,
//		matcher.TypeOf[*operators.Collect]().CapturedAs(collect),
//	)
//
// Patterns are immutable and hold no state about the values they were matched against.
package matcher

import (
	"fmt"
)

type (
	// Pattern matches values of type T. Builder methods return new patterns.
	Pattern[T any] struct {
		stages []stage[T]
	}

	// a stage refines a match, returning the captures with what it bound
	stage[T any] func(value T, captures Captures) (Captures, bool)

	// Property is a named extractor. It is not defined for values of other types than
	// the one it was created for, or when its function returns false, e.g. the single
	// source of a node with two sources.
	Property[P any] struct {
		name string
		fn   func(any) (P, bool)
	}
)

// TypeOf returns a pattern that matches any value of type T
func TypeOf[T any]() *Pattern[T] {
	return &Pattern[T]{}
}

func (p *Pattern[T]) with(s stage[T]) *Pattern[T] {
	stages := make([]stage[T], len(p.stages), len(p.stages)+1)
	copy(stages, p.stages)
	return &Pattern[T]{stages: append(stages, s)}
}

// Matching refines the pattern with a predicate
func (p *Pattern[T]) Matching(predicate func(T) bool) *Pattern[T] {
	return p.with(func(value T, captures Captures) (Captures, bool) {
		return captures, predicate(value)
	})
}

// CapturedAs binds the matched value to the capture when the whole match succeeds
func (p *Pattern[T]) CapturedAs(capture *Capture[T]) *Pattern[T] {
	return p.with(func(value T, captures Captures) (Captures, bool) {
		return captures.add(capture, value), true
	})
}

// With refines the pattern: the property must be defined for the value,
// and what it extracts must match sub.
func With[T, P, U any](p *Pattern[T], property Property[P], sub *Pattern[U]) *Pattern[T] {
	return p.with(func(value T, captures Captures) (Captures, bool) {
		extracted, ok := property.fn(value)
		if !ok {
			return captures, false
		}
		_, captures, ok = sub.match(extracted, captures)
		return captures, ok
	})
}

// Match matches the pattern against the value. The captures are only returned on success.
func (p *Pattern[T]) Match(value any) (T, Captures, bool) {
	typed, captures, ok := p.match(value, Captures{})
	if !ok {
		var zero T
		return zero, Captures{}, false
	}
	return typed, captures, true
}

func (p *Pattern[T]) match(value any, captures Captures) (T, Captures, bool) {
	typed, ok := value.(T)
	if !ok {
		return typed, captures, false
	}
	for _, s := range p.stages {
		captures, ok = s(typed, captures)
		if !ok {
			return typed, captures, false
		}
	}
	return typed, captures, true
}

// NewProperty creates a named property defined for values of type T
func NewProperty[T, P any](name string, fn func(T) (P, bool)) Property[P] {
	return Property[P]{name: name, fn: func(v any) (P, bool) {
		typed, ok := v.(T)
		if !ok {
			var zero P
			return zero, false
		}
		return fn(typed)
	}}
}

func (p Property[P]) String() string {
	return p.name
}

// Capture is a typed slot that a successful match binds a value to.
// Captures are compared by identity, two captures with the same name are different slots.
type Capture[T any] struct {
	name string
}

// NewCapture creates a new capture slot
func NewCapture[T any](name string) *Capture[T] {
	return &Capture[T]{name: name}
}

func (c *Capture[T]) String() string {
	return c.name
}

// Get returns the value bound to the capture. It panics when the capture is not bound,
// which means the pattern did not use it.
func (c *Capture[T]) Get(captures Captures) T {
	v, ok := c.Lookup(captures)
	if !ok {
		panic(fmt.Sprintf("BUG: capture %s is not bound", c.name))
	}
	return v
}

// Lookup returns the value bound to the capture, if any
func (c *Capture[T]) Lookup(captures Captures) (T, bool) {
	for n := captures.head; n != nil; n = n.next {
		if n.key == any(c) {
			return n.value.(T), true
		}
	}
	var zero T
	return zero, false
}

// Captures holds the values bound by a match. It is a persistent list: adding
// a binding returns a new value and never changes the captures it was created from.
type Captures struct {
	head *binding
	size int
}

type binding struct {
	key   any
	value any
	next  *binding
}

func (c Captures) add(key, value any) Captures {
	return Captures{head: &binding{key: key, value: value, next: c.head}, size: c.size + 1}
}

// Len returns the number of bound captures
func (c Captures) Len() int {
	return c.size
}
