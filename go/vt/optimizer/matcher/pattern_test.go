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

package matcher

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type node interface {
	children() []node
}

type leaf struct{ value int }

type unary struct {
	child node
	label string
}

type binaryNode struct{ left, right node }

func (*leaf) children() []node         { return nil }
func (u *unary) children() []node      { return []node{u.child} }
func (b *binaryNode) children() []node { return []node{b.left, b.right} }

var single = NewProperty("source", func(n node) (node, bool) {
	if c := n.children(); len(c) == 1 && c[0] != nil {
		return c[0], true
	}
	return nil, false
})

func TestTypeOf(t *testing.T) {
	p := TypeOf[*leaf]()

	l, captures, ok := p.Match(&leaf{value: 1})
	require.True(t, ok)
	assert.Equal(t, 1, l.value)
	assert.Equal(t, 0, captures.Len())

	_, _, ok = p.Match(&unary{})
	assert.False(t, ok)
	_, _, ok = p.Match(nil)
	assert.False(t, ok)
}

func TestWithAndCaptures(t *testing.T) {
	leafCapture := NewCapture[*leaf]("leaf")
	unaryCapture := NewCapture[*unary]("unary")
	p := With(
		TypeOf[*unary]().CapturedAs(unaryCapture),
		single,
		TypeOf[*leaf]().CapturedAs(leafCapture).Matching(func(l *leaf) bool { return l.value > 10 }),
	)

	in := &unary{child: &leaf{value: 42}, label: "x"}
	matched, captures, ok := p.Match(in)
	require.True(t, ok)
	assert.Same(t, in, matched)
	assert.Same(t, in.child, leafCapture.Get(captures))
	assert.Same(t, in, unaryCapture.Get(captures))
	assert.Equal(t, 2, captures.Len())

	// matching twice gives identical results
	matched2, captures2, ok := p.Match(in)
	require.True(t, ok)
	assert.Same(t, matched, matched2)
	assert.Same(t, leafCapture.Get(captures), leafCapture.Get(captures2))
}

func TestFailingStageHasNoCaptures(t *testing.T) {
	leafCapture := NewCapture[*leaf]("leaf")
	unaryCapture := NewCapture[*unary]("unary")
	p := With(
		TypeOf[*unary]().CapturedAs(unaryCapture),
		single,
		TypeOf[*leaf]().CapturedAs(leafCapture).Matching(func(l *leaf) bool { return l.value > 10 }),
	)

	tcases := []struct {
		name string
		in   node
	}{
		{name: "sub pattern predicate fails", in: &unary{child: &leaf{value: 1}}},
		{name: "sub pattern type fails", in: &unary{child: &unary{child: &leaf{value: 42}}}},
		{name: "property undefined", in: &unary{}},
		{name: "type fails", in: &binaryNode{left: &leaf{value: 42}, right: &leaf{value: 42}}},
	}
	for _, tc := range tcases {
		t.Run(tc.name, func(t *testing.T) {
			_, captures, ok := p.Match(tc.in)
			assert.False(t, ok)
			assert.Equal(t, 0, captures.Len())
			_, found := leafCapture.Lookup(captures)
			assert.False(t, found)
			_, found = unaryCapture.Lookup(captures)
			assert.False(t, found)
		})
	}
}

func TestPatternsAreImmutable(t *testing.T) {
	base := TypeOf[*leaf]()
	big := base.Matching(func(l *leaf) bool { return l.value > 10 })
	small := base.Matching(func(l *leaf) bool { return l.value < 10 })

	_, _, ok := base.Match(&leaf{value: 5})
	assert.True(t, ok)
	_, _, ok = big.Match(&leaf{value: 5})
	assert.False(t, ok)
	_, _, ok = small.Match(&leaf{value: 5})
	assert.True(t, ok)
}

func TestPredicateShortCircuits(t *testing.T) {
	calls := 0
	p := TypeOf[*leaf]().
		Matching(func(l *leaf) bool { return l.value > 0 }).
		Matching(func(*leaf) bool { calls++; return true })

	_, _, ok := p.Match(&leaf{value: -1})
	assert.False(t, ok)
	assert.Zero(t, calls)
}

func TestCapturesAreIdentityKeyed(t *testing.T) {
	first := NewCapture[*leaf]("same")
	second := NewCapture[*leaf]("same")
	p := TypeOf[*leaf]().CapturedAs(first)

	_, captures, ok := p.Match(&leaf{value: 1})
	require.True(t, ok)
	_, found := second.Lookup(captures)
	assert.False(t, found)
	assert.Panics(t, func() { second.Get(captures) })
	assert.Equal(t, "same", first.String())
	assert.Equal(t, "source", single.String())
}
