// Copyright 2025 The Rivaas Authors
//
// Licensed under the Apache License, Version 2.0 (the "License");
// you may not use this file except in compliance with the License.
// You may obtain a copy of the License at
//
//     http://www.apache.org/licenses/LICENSE-2.0
//
// Unless required by applicable law or agreed to in writing, software
// distributed under the License is distributed on an "AS IS" BASIS,
// WITHOUT WARRANTIES OR CONDITIONS OF ANY KIND, either express or implied.
// See the License for the specific language governing permissions and
// limitations under the License.

package pathmatch

import (
	"fmt"
	"strings"

	"rivaas.dev/pathmatch/route"
)

// terminal marks a node where a concrete path ends.
type terminal struct {
	path *route.Path
}

// trieNode is one level of the matching trie.
//
// Literal and separator tokens descend through the children map; variable
// and glob segments share the single explicit variable child, which avoids
// sentinel keys in the map. Condition levels sit at the front of every
// inserted sequence and use their own children so condition values can never
// collide with path literals.
//
// Nodes are written only during registration, behind the router's write
// lock, and are immutable once a state snapshot is published.
type trieNode struct {
	children  map[string]*trieNode // literal or separator token -> child
	condExact map[string]*trieNode // "kind=value" -> child
	condAny   *trieNode            // condition level accepting any value
	variable  *trieNode            // the single variable/glob child
	varSeg    *route.Segment       // segment describing the variable child
	leaf      *terminal
}

// insert threads one concrete path through the trie, creating nodes as
// needed. Shared prefixes reuse existing nodes; an incompatible variable
// segment at an occupied variable position is a structural conflict.
func (n *trieNode) insert(segments []route.Segment, p *route.Path) error {
	cur := n
	for i := range segments {
		seg := &segments[i]
		switch seg.Kind {
		case route.KindCondition:
			if seg.Value == "" {
				if cur.condAny == nil {
					cur.condAny = &trieNode{}
				}
				cur = cur.condAny
				continue
			}
			key := seg.Name + "=" + seg.Value
			if cur.condExact == nil {
				cur.condExact = make(map[string]*trieNode)
			}
			child := cur.condExact[key]
			if child == nil {
				child = &trieNode{}
				cur.condExact[key] = child
			}
			cur = child

		case route.KindLiteral, route.KindSeparator:
			if cur.children == nil {
				cur.children = make(map[string]*trieNode)
			}
			child := cur.children[seg.Value]
			if child == nil {
				child = &trieNode{}
				cur.children[seg.Value] = child
			}
			cur = child

		case route.KindVariable, route.KindGlob:
			if cur.variable == nil {
				cur.variable = &trieNode{}
				cur.varSeg = seg
			} else if !compatibleVarSegs(cur.varSeg, seg) {
				return fmt.Errorf("%w: variable %q conflicts with %q registered at the same position",
					ErrAmbiguousPattern, seg.Name, cur.varSeg.Name)
			}
			cur = cur.variable
		}
	}

	// First-registered terminal wins; a duplicate expanded sequence from a
	// later route is unreachable rather than an error.
	if cur.leaf == nil {
		cur.leaf = &terminal{path: p}
	}
	return nil
}

// compatibleVarSegs reports whether an incoming variable segment can share
// the trie position claimed by an existing one.
func compatibleVarSegs(a, b *route.Segment) bool {
	return a.Kind == b.Kind &&
		a.Name == b.Name &&
		a.Greedy == b.Greedy &&
		route.ValidatorsEqual(a.Validator, b.Validator)
}

// clone deep-copies the node structure. Segments, paths and terminals are
// immutable and shared between the copies.
func (n *trieNode) clone() *trieNode {
	c := &trieNode{varSeg: n.varSeg, leaf: n.leaf}
	if n.children != nil {
		c.children = make(map[string]*trieNode, len(n.children))
		for k, child := range n.children {
			c.children[k] = child.clone()
		}
	}
	if n.condExact != nil {
		c.condExact = make(map[string]*trieNode, len(n.condExact))
		for k, child := range n.condExact {
			c.condExact[k] = child.clone()
		}
	}
	if n.condAny != nil {
		c.condAny = n.condAny.clone()
	}
	if n.variable != nil {
		c.variable = n.variable.clone()
	}
	return c
}

// matcher runs the recursive-descent search over a trie snapshot. It holds
// only per-router configuration; all per-match state travels in arguments.
type matcher struct {
	sp      *splitter
	primary string
}

// globState accumulates an active glob run. parts holds the bound
// non-separator tokens; raw holds every consumed token including separators,
// so a greedy validator sees the exact substring the glob swallowed.
type globState struct {
	seg   *route.Segment
	parts []string
	raw   []string
}

func (g *globState) value(primary string) string {
	if g.seg.Greedy {
		return strings.Join(g.raw, "")
	}
	return strings.Join(g.parts, primary)
}

func (g *globState) accepted(primary string) bool {
	if g.seg.Validator == nil {
		return true
	}
	return g.seg.Validator.Accepts(g.value(primary))
}

// finalizeGlob validates and binds an active glob run at the moment matching
// moves past its continuation point. The returned params extend the input;
// ok is false when the run fails its validator, which fails only the branch
// under exploration.
func (m *matcher) finalizeGlob(glob *globState, params Params) (Params, bool) {
	if glob == nil {
		return params, true
	}
	if !glob.accepted(m.primary) {
		return nil, false
	}
	return append(params, Param{Name: glob.seg.Name, Value: glob.value(m.primary), Parts: glob.parts}), true
}

// search explores the subtree at n against tokens[i:] and returns the first
// terminal reached, or nil for not-found.
//
// Priority at each node: condition-exact, condition-any, exact literal or
// separator child, variable child, then letting an active glob swallow the
// token and stay put. A failed descent backtracks into the lower-priority
// alternatives, so a glob prefers to stop at the earliest boundary that lets
// the rest of the path match and grows only when it must.
//
// glob is non-nil exactly while n is the continuation point of an active
// glob run; any descent away from n finalizes the run.
func (m *matcher) search(n *trieNode, tokens []string, i int, glob *globState, params Params) (*route.Path, Params) {
	if i == len(tokens) {
		if n.leaf == nil {
			return nil, nil
		}
		final, ok := m.finalizeGlob(glob, params)
		if !ok {
			return nil, nil
		}
		return n.leaf.path, final
	}

	tok := tokens[i]

	if child := n.condExact[tok]; child != nil {
		if p, ps := m.search(child, tokens, i+1, glob, params); p != nil {
			return p, ps
		}
	}
	if n.condAny != nil {
		if p, ps := m.search(n.condAny, tokens, i+1, glob, params); p != nil {
			return p, ps
		}
	}

	if child := n.children[tok]; child != nil {
		if next, ok := m.finalizeGlob(glob, params); ok {
			if p, ps := m.search(child, tokens, i+1, nil, next); p != nil {
				return p, ps
			}
		}
	}

	// A variable never consumes a separator token; globs cross separators
	// only through the continuation step below, which consumes without
	// binding them.
	if n.variable != nil && !m.sp.isSeparator(tok) {
		seg := n.varSeg
		if seg.Kind == route.KindVariable {
			if seg.Validator == nil || seg.Validator.Accepts(tok) {
				if next, ok := m.finalizeGlob(glob, params); ok {
					next = append(next, Param{Name: seg.Name, Value: tok})
					if p, ps := m.search(n.variable, tokens, i+1, nil, next); p != nil {
						return p, ps
					}
				}
			}
		} else {
			if next, ok := m.finalizeGlob(glob, params); ok {
				g := &globState{seg: seg, parts: []string{tok}, raw: []string{tok}}
				if p, ps := m.search(n.variable, tokens, i+1, g, next); p != nil {
					return p, ps
				}
			}
		}
	}

	if glob != nil {
		// Nothing below this node but its terminal and the glob has no
		// literal boundary ahead of it: swallow the rest of the path in one
		// step instead of recursing per token.
		if n.leaf != nil && len(n.children) == 0 && n.variable == nil && glob.seg.Lookahead == "" {
			savedRaw, savedParts := len(glob.raw), len(glob.parts)
			for _, t := range tokens[i:] {
				glob.raw = append(glob.raw, t)
				if !m.sp.isSeparator(t) {
					glob.parts = append(glob.parts, t)
				}
			}
			if final, ok := m.finalizeGlob(glob, params); ok {
				return n.leaf.path, final
			}
			glob.raw = glob.raw[:savedRaw]
			glob.parts = glob.parts[:savedParts]
			return nil, nil
		}

		glob.raw = append(glob.raw, tok)
		bound := !m.sp.isSeparator(tok)
		if bound {
			glob.parts = append(glob.parts, tok)
		}
		if p, ps := m.search(n, tokens, i+1, glob, params); p != nil {
			return p, ps
		}
		glob.raw = glob.raw[:len(glob.raw)-1]
		if bound {
			glob.parts = glob.parts[:len(glob.parts)-1]
		}
	}

	return nil, nil
}
