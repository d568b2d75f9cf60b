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

import "rivaas.dev/pathmatch/route"

// groupKind identifies the variant of a compiler-time grouping node.
type groupKind uint8

const (
	// groupAll is an ordered sequence; expansion is the cross-product
	// concatenation of its children's expansions.
	groupAll groupKind = iota

	// groupOptional is a zero-or-one section; expansion is the body's
	// expansion plus the single empty sequence.
	groupOptional

	// groupOneOf is exactly-one-of N branches; expansion is the union of the
	// branch expansions.
	groupOneOf
)

// element is one child of a group: either a segment or a nested group.
type element struct {
	seg   route.Segment
	group *group
}

// group is a node of the grouped syntax tree produced by parsing. Groups
// exist only at compile time; expansion eliminates them.
type group struct {
	kind     groupKind
	elems    []element // sequence body for groupAll and groupOptional
	branches []*group  // alternatives for groupOneOf
}

// expand returns the list of concrete segment sequences the group denotes.
func (g *group) expand() [][]route.Segment {
	switch g.kind {
	case groupOptional:
		body := (&group{kind: groupAll, elems: g.elems}).expand()
		return append(body, nil)

	case groupOneOf:
		var out [][]route.Segment
		for _, b := range g.branches {
			out = append(out, b.expand()...)
		}
		return out

	default: // groupAll
		out := [][]route.Segment{nil}
		for _, el := range g.elems {
			if el.group == nil {
				for i := range out {
					out[i] = appendSegment(out[i], el.seg)
				}
				continue
			}
			subs := el.group.expand()
			next := make([][]route.Segment, 0, len(out)*len(subs))
			for _, head := range out {
				for _, tail := range subs {
					next = append(next, concatSegments(head, tail))
				}
			}
			out = next
		}
		return out
	}
}

// appendSegment appends into a freshly sized slice so sequences produced by
// a cross-product never share backing arrays.
func appendSegment(seq []route.Segment, seg route.Segment) []route.Segment {
	out := make([]route.Segment, len(seq), len(seq)+1)
	copy(out, seq)
	return append(out, seg)
}

func concatSegments(head, tail []route.Segment) []route.Segment {
	out := make([]route.Segment, 0, len(head)+len(tail))
	out = append(out, head...)
	return append(out, tail...)
}

// applyLookahead computes, for every variable segment, the first literal
// boundary that follows it in this particular sequence. Matching uses the
// lookahead to decide where a glob's consumption should prefer to stop.
func applyLookahead(seq []route.Segment, primaryDelim string) {
	for i := range seq {
		switch seq[i].Kind {
		case route.KindVariable:
			la := primaryDelim
			for j := i + 1; j < len(seq); j++ {
				if seq[j].Kind == route.KindSeparator {
					la = seq[j].Value
					break
				}
			}
			seq[i].Lookahead = la

		case route.KindGlob:
			la := ""
			for j := i + 1; j < len(seq); j++ {
				if seq[j].Kind == route.KindLiteral {
					la = seq[j].Value
					break
				}
			}
			seq[i].Lookahead = la
		}
	}
}
