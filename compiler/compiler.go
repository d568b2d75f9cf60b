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

package compiler

import (
	"errors"
	"fmt"

	"rivaas.dev/pathmatch/route"
)

// ErrSyntax indicates a malformed pattern: unbalanced grouping, an empty
// variable name, or an invalid inline constraint expression.
var ErrSyntax = errors.New("malformed pattern syntax")

// Config controls pattern compilation.
type Config struct {
	// Delimiters are the single-character delimiters the pattern is split
	// on. The first delimiter is the primary one, used as the lookahead for
	// path-final single variables. Defaults to "/" and ".".
	Delimiters []string
}

// DefaultDelimiters returns the delimiter set used when none is configured.
func DefaultDelimiters() []string {
	return []string{"/", "."}
}

// Result is the output of compiling one pattern string.
type Result struct {
	// Paths holds the expanded concrete segment sequences. One pattern
	// expands into 1..N sequences, N being the product of alternation branch
	// counts times 2^(independent optional sections). Duplicate sequences
	// are permitted and become redundant terminals in the trie.
	Paths [][]route.Segment

	// Variables is the set of variable names appearing anywhere in the
	// pattern, across all branches.
	Variables map[string]struct{}
}

// Compile parses a pattern string into its grouped syntax tree and expands
// the tree into concrete segment sequences.
//
// Grammar, informally: the pattern is delimiter-split while respecting
// nested braces and parentheses. Each chunk is a literal, a ":name" single
// variable, a "*name" glob variable, a "{:name,regex}" constrained single
// variable, a "{!name,regex}" greedy glob (whose regex may match across
// delimiters, so its body is never pre-split), an optional "( ... )"
// section, or a "( a | b )" alternation whose branches parse recursively.
func Compile(pattern string, cfg Config) (*Result, error) {
	delims := cfg.Delimiters
	if len(delims) == 0 {
		delims = DefaultDelimiters()
	}

	p := &parser{
		src:    pattern,
		delims: make(map[byte]bool, len(delims)),
		vars:   make(map[string]struct{}),
	}
	for _, d := range delims {
		if len(d) != 1 {
			return nil, fmt.Errorf("%w: delimiter %q is not a single character", ErrSyntax, d)
		}
		p.delims[d[0]] = true
	}

	root, err := p.parseGroup(true)
	if err != nil {
		return nil, err
	}

	paths := root.expand()
	for i := range paths {
		applyLookahead(paths[i], delims[0])
	}

	return &Result{Paths: paths, Variables: p.vars}, nil
}

// parser is a single-pass scanner over the pattern bytes. Position state is
// shared across the recursive group parse.
type parser struct {
	src    string
	delims map[byte]bool
	pos    int
	vars   map[string]struct{}
}

// parseGroup parses a sequence until end of input (top level) or the closing
// parenthesis of the group opened by the caller. Pipe characters split the
// group into alternation branches.
func (p *parser) parseGroup(top bool) (*group, error) {
	branches := []*group{{kind: groupAll}}

	for p.pos < len(p.src) {
		cur := branches[len(branches)-1]
		c := p.src[p.pos]

		switch {
		case c == '(':
			p.pos++
			inner, err := p.parseGroup(false)
			if err != nil {
				return nil, err
			}
			cur.elems = append(cur.elems, element{group: inner})

		case c == ')':
			if top {
				return nil, fmt.Errorf("%w: unbalanced %q in %q", ErrSyntax, ")", p.src)
			}
			p.pos++
			return closeParen(branches), nil

		case c == '|':
			if top {
				return nil, fmt.Errorf("%w: alternation outside group in %q", ErrSyntax, p.src)
			}
			p.pos++
			branches = append(branches, &group{kind: groupAll})

		case p.delims[c]:
			cur.elems = append(cur.elems, element{seg: route.Separator(string(c))})
			p.pos++

		case c == ':' || c == '*':
			seg, err := p.parseVariable()
			if err != nil {
				return nil, err
			}
			cur.elems = append(cur.elems, element{seg: seg})

		case c == '{':
			seg, err := p.parseBraced()
			if err != nil {
				return nil, err
			}
			cur.elems = append(cur.elems, element{seg: seg})

		default:
			cur.elems = append(cur.elems, element{seg: route.Literal(p.scanLiteral())})
		}
	}

	if !top {
		return nil, fmt.Errorf("%w: unbalanced %q in %q", ErrSyntax, "(", p.src)
	}
	return branches[0], nil
}

// closeParen turns a parenthesized group into its compiled form: a single
// branch is an optional section, multiple branches are an alternation.
func closeParen(branches []*group) *group {
	if len(branches) == 1 {
		return &group{kind: groupOptional, elems: branches[0].elems}
	}
	return &group{kind: groupOneOf, branches: branches}
}

// parseVariable parses ":name" or "*name" at the current position.
func (p *parser) parseVariable() (route.Segment, error) {
	marker := p.src[p.pos]
	p.pos++

	name := p.scanName()
	if name == "" {
		return route.Segment{}, fmt.Errorf("%w: empty variable name at offset %d in %q", ErrSyntax, p.pos, p.src)
	}
	p.vars[name] = struct{}{}

	if marker == '*' {
		return route.Glob(name, false), nil
	}
	return route.Variable(name), nil
}

// parseBraced parses "{:name,regex}", "{*name,regex}" or "{!name,regex}".
// The body is scanned with brace-depth counting so regex quantifiers like
// {2,4} and delimiter characters inside the expression survive intact.
func (p *parser) parseBraced() (route.Segment, error) {
	open := p.pos
	p.pos++ // consume '{'
	if p.pos >= len(p.src) {
		return route.Segment{}, fmt.Errorf("%w: unterminated %q at offset %d in %q", ErrSyntax, "{", open, p.src)
	}

	marker := p.src[p.pos]
	if marker != ':' && marker != '*' && marker != '!' {
		return route.Segment{}, fmt.Errorf("%w: expected ':', '*' or '!' after '{' at offset %d in %q", ErrSyntax, open, p.src)
	}
	p.pos++

	name := p.scanName()
	if name == "" {
		return route.Segment{}, fmt.Errorf("%w: empty variable name at offset %d in %q", ErrSyntax, p.pos, p.src)
	}

	var expr string
	hasExpr := false
	if p.pos < len(p.src) && p.src[p.pos] == ',' {
		p.pos++
		start := p.pos
		depth := 1
		for p.pos < len(p.src) {
			switch p.src[p.pos] {
			case '{':
				depth++
			case '}':
				depth--
			}
			if depth == 0 {
				break
			}
			p.pos++
		}
		if depth != 0 {
			return route.Segment{}, fmt.Errorf("%w: unterminated %q at offset %d in %q", ErrSyntax, "{", open, p.src)
		}
		expr = p.src[start:p.pos]
		hasExpr = true
	}
	if p.pos >= len(p.src) || p.src[p.pos] != '}' {
		return route.Segment{}, fmt.Errorf("%w: unterminated %q at offset %d in %q", ErrSyntax, "{", open, p.src)
	}
	p.pos++ // consume '}'

	p.vars[name] = struct{}{}

	var seg route.Segment
	switch marker {
	case ':':
		seg = route.Variable(name)
	case '*':
		seg = route.Glob(name, false)
	case '!':
		seg = route.Glob(name, true)
	}

	if hasExpr {
		v, err := route.Regex(expr)
		if err != nil {
			return route.Segment{}, fmt.Errorf("%w: %v", ErrSyntax, err)
		}
		seg.Validator = v
	}
	return seg, nil
}

// scanName consumes a variable name: letters, digits and underscores.
func (p *parser) scanName() string {
	start := p.pos
	for p.pos < len(p.src) && isNameByte(p.src[p.pos]) {
		p.pos++
	}
	return p.src[start:p.pos]
}

// scanLiteral consumes literal text up to the next structural character.
func (p *parser) scanLiteral() string {
	start := p.pos
	for p.pos < len(p.src) {
		c := p.src[p.pos]
		if p.delims[c] || c == '(' || c == ')' || c == '|' || c == '{' || c == ':' || c == '*' {
			break
		}
		p.pos++
	}
	return p.src[start:p.pos]
}

func isNameByte(c byte) bool {
	return c == '_' ||
		(c >= 'a' && c <= 'z') ||
		(c >= 'A' && c <= 'Z') ||
		(c >= '0' && c <= '9')
}
