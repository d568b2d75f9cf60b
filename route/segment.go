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

package route

// Kind identifies the variant of a Segment.
//
// The segment model is a closed sum type: every consumer switches over Kind
// exhaustively instead of performing runtime type checks. Adding a new kind
// requires touching every switch, which is intentional.
type Kind uint8

const (
	// KindLiteral matches exactly one token with an exact string compare.
	KindLiteral Kind = iota

	// KindSeparator matches a delimiter token (e.g. "/" or ".").
	// Separators are modeled as segments so they participate in trie
	// structure and so glob bindings can reconstruct the consumed substring.
	KindSeparator

	// KindVariable binds exactly one non-separator token.
	KindVariable

	// KindGlob binds one or more consecutive tokens. Separators crossed by
	// the glob are consumed but not bound.
	KindGlob

	// KindCondition matches a request attribute (e.g. HTTP method) supplied
	// as a leading token, logically before the path tokens.
	KindCondition
)

// String returns a short name for the kind, used in error messages.
func (k Kind) String() string {
	switch k {
	case KindLiteral:
		return "literal"
	case KindSeparator:
		return "separator"
	case KindVariable:
		return "variable"
	case KindGlob:
		return "glob"
	case KindCondition:
		return "condition"
	default:
		return "unknown"
	}
}

// Segment is one element of a concrete path sequence.
//
// Segments are created during pattern compilation and are immutable
// afterward. Field usage by kind:
//
//   - KindLiteral:   Value is the token text.
//   - KindSeparator: Value is the delimiter character.
//   - KindVariable:  Name is the variable name; Validator, Default and
//     Lookahead are optional.
//   - KindGlob:      as KindVariable, plus Greedy for globs whose validator
//     is applied across delimiter boundaries.
//   - KindCondition: Name is the condition kind (e.g. "method"), Value the
//     required value. An empty Value means "any value accepted".
type Segment struct {
	Kind Kind

	// Value holds the literal text, separator character, or condition value.
	Value string

	// Name holds the variable name or condition kind.
	Name string

	// Validator, when set, must accept a candidate token (or, for globs, the
	// accumulated run) before a binding is accepted. A rejection fails the
	// branch being explored, never the whole match.
	Validator Validator

	// Default is the fallback value used by reverse routing when the
	// parameter is omitted. Only meaningful when HasDefault is true.
	Default    string
	HasDefault bool

	// Greedy marks a glob whose validator may match across delimiter
	// boundaries ({!name,regex} syntax). The accumulated run for a greedy
	// glob includes the separators it consumed.
	Greedy bool

	// Lookahead is the first literal boundary known to follow this variable
	// in its own concrete path: the nearest following separator for a single
	// variable (or the primary delimiter if the variable is path-final), and
	// the nearest following non-separator literal for a glob ("" if the glob
	// runs to the end of the path). Computed once at registration time.
	Lookahead string
}

// Literal returns a literal segment matching text exactly.
func Literal(text string) Segment {
	return Segment{Kind: KindLiteral, Value: text}
}

// Separator returns a separator segment for the given delimiter.
func Separator(delim string) Segment {
	return Segment{Kind: KindSeparator, Value: delim}
}

// Variable returns a single-token variable segment.
func Variable(name string) Segment {
	return Segment{Kind: KindVariable, Name: name}
}

// Glob returns a multi-token glob segment. Greedy globs apply their
// validator to the accumulated run including consumed separators.
func Glob(name string, greedy bool) Segment {
	return Segment{Kind: KindGlob, Name: name, Greedy: greedy}
}

// Condition returns a condition segment for the given kind and required
// value. An empty value matches any incoming value for that kind.
func Condition(kind, value string) Segment {
	return Segment{Kind: KindCondition, Name: kind, Value: value}
}

// Dynamic reports whether the segment binds a parameter.
func (s Segment) Dynamic() bool {
	return s.Kind == KindVariable || s.Kind == KindGlob
}
