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

import (
	"errors"
	"fmt"
	"net/url"
	"strings"
)

// ErrMissingParameter is returned by Path.Build when a required parameter is
// absent from the supplied values and has no default.
var ErrMissingParameter = errors.New("missing required parameter")

// Options carries the registration options attached to a route. All fields
// are optional.
type Options struct {
	// Requirements maps variable names to validators applied before binding.
	// Inline pattern constraints ({:name,regex}) take precedence over a
	// requirement for the same name.
	Requirements map[string]Validator

	// Conditions maps condition kinds (e.g. "method") to required values.
	Conditions map[string]string

	// Defaults maps variable names to fallback values used by reverse
	// routing when the parameter is omitted.
	Defaults map[string]string

	// Destination is an opaque payload returned verbatim on a successful
	// match. The engine never inspects it.
	Destination any

	// Name is an optional unique route name for reverse routing by name.
	Name string
}

// Route represents one registered pattern after compilation.
//
// A route owns the list of concrete paths its pattern expands to. All paths
// of one route share the same requirements, conditions, defaults and
// destination; they differ only in which optional and alternation branches
// are present. Routes are immutable after registration.
type Route struct {
	pattern     string
	name        string
	paths       []*Path
	conditions  map[string]string
	defaults    map[string]string
	destination any
}

// New creates a route for the given pattern string and options. Paths are
// attached separately once the compiler has expanded the pattern.
func New(pattern string, opts Options) *Route {
	return &Route{
		pattern:     pattern,
		name:        opts.Name,
		conditions:  opts.Conditions,
		defaults:    opts.Defaults,
		destination: opts.Destination,
	}
}

// Pattern returns the original pattern string.
func (r *Route) Pattern() string { return r.pattern }

// Name returns the route name (empty if not named).
func (r *Route) Name() string { return r.name }

// Paths returns the concrete paths this route expands to.
func (r *Route) Paths() []*Path { return r.paths }

// Conditions returns the required condition values by kind.
func (r *Route) Conditions() map[string]string { return r.conditions }

// Defaults returns the default values by variable name.
func (r *Route) Defaults() map[string]string { return r.defaults }

// Default returns the default value for a variable, if configured.
func (r *Route) Default(name string) (string, bool) {
	v, ok := r.defaults[name]
	return v, ok
}

// Destination returns the opaque payload attached at registration.
func (r *Route) Destination() any { return r.destination }

// AttachPaths builds the route's Path values from expanded segment
// sequences. Called exactly once during registration, after the segments
// have been decorated with validators and defaults.
func (r *Route) AttachPaths(sequences [][]Segment) {
	r.paths = make([]*Path, 0, len(sequences))
	for _, seq := range sequences {
		r.paths = append(r.paths, newPath(r, seq))
	}
}

// Info describes a registered route for introspection and documentation
// tooling.
type Info struct {
	Pattern    string            // Original pattern string
	Name       string            // Route name, empty if unnamed
	Variables  []string          // Dynamic variable names across all paths
	Defaults   map[string]string // Default values by variable name
	Conditions map[string]string // Required condition values by kind
	PathCount  int               // Number of expanded concrete paths
	Static     bool              // True if no path binds a variable
}

// Info returns introspection data for the route.
func (r *Route) Info() Info {
	seen := make(map[string]bool)
	var vars []string
	for _, p := range r.paths {
		for _, name := range p.dynamic {
			if !seen[name] {
				seen[name] = true
				vars = append(vars, name)
			}
		}
	}
	return Info{
		Pattern:    r.pattern,
		Name:       r.name,
		Variables:  vars,
		Defaults:   r.defaults,
		Conditions: r.conditions,
		PathCount:  len(r.paths),
		Static:     len(vars) == 0,
	}
}

// Path is one fully expanded, group-free segment sequence belonging to a
// route. Paths are the unit inserted into the matching trie and registered
// with the reverse-lookup index.
type Path struct {
	route    *Route
	segments []Segment

	// Derived variable-name views, computed eagerly at construction so that
	// concurrent readers never race on lazy initialization.
	dynamic    []string            // ordered, deduplicated dynamic names
	dynamicSet map[string]struct{} // set view of dynamic
	nonDefault map[string]struct{} // dynamic names without a default value
}

func newPath(r *Route, segments []Segment) *Path {
	p := &Path{
		route:      r,
		segments:   segments,
		dynamicSet: make(map[string]struct{}),
		nonDefault: make(map[string]struct{}),
	}
	for _, seg := range segments {
		if !seg.Dynamic() {
			continue
		}
		if _, ok := p.dynamicSet[seg.Name]; ok {
			continue
		}
		p.dynamicSet[seg.Name] = struct{}{}
		p.dynamic = append(p.dynamic, seg.Name)
		if !seg.HasDefault {
			p.nonDefault[seg.Name] = struct{}{}
		}
	}
	return p
}

// Route returns the owning route.
func (p *Path) Route() *Route { return p.route }

// Segments returns the segment sequence.
func (p *Path) Segments() []Segment { return p.segments }

// DynamicNames returns the path's dynamic variable names in first-appearance
// order, deduplicated.
func (p *Path) DynamicNames() []string { return p.dynamic }

// Uses reports whether the path binds a variable with the given name.
func (p *Path) Uses(name string) bool {
	_, ok := p.dynamicSet[name]
	return ok
}

// DefaultedNames returns the dynamic names that carry a default value.
func (p *Path) DefaultedNames() []string {
	var out []string
	for _, name := range p.dynamic {
		if _, required := p.nonDefault[name]; !required {
			out = append(out, name)
		}
	}
	return out
}

// CanGenerateFrom reports whether the path can generate a URL from exactly
// the given parameter names: every non-default dynamic variable must be
// present, and no supplied name may be unknown to the path. A name the path
// does not use at all disqualifies it.
func (p *Path) CanGenerateFrom(names map[string]struct{}) bool {
	for name := range p.nonDefault {
		if _, ok := names[name]; !ok {
			return false
		}
	}
	for name := range names {
		if _, ok := p.dynamicSet[name]; !ok {
			return false
		}
	}
	return true
}

// Build renders the path into a URL string. Variable values are taken from
// params, falling back to the route's defaults; single-variable values are
// path-escaped, glob values are inserted verbatim since they may span
// delimiters. A query string is appended when query is non-empty.
func (p *Path) Build(params map[string]string, query url.Values) (string, error) {
	var buf strings.Builder

	for _, seg := range p.segments {
		switch seg.Kind {
		case KindLiteral, KindSeparator:
			buf.WriteString(seg.Value)
		case KindVariable:
			val, ok := params[seg.Name]
			if !ok {
				if !seg.HasDefault {
					return "", fmt.Errorf("%w: %s", ErrMissingParameter, seg.Name)
				}
				val = seg.Default
			}
			buf.WriteString(url.PathEscape(val))
		case KindGlob:
			val, ok := params[seg.Name]
			if !ok {
				if !seg.HasDefault {
					return "", fmt.Errorf("%w: %s", ErrMissingParameter, seg.Name)
				}
				val = seg.Default
			}
			buf.WriteString(val)
		case KindCondition:
			// Conditions do not render into the path.
		}
	}

	if len(query) > 0 {
		buf.WriteByte('?')
		buf.WriteString(query.Encode())
	}

	return buf.String(), nil
}
