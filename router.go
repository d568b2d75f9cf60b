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
	"sync"
	"sync/atomic"
	"time"

	"rivaas.dev/pathmatch/compiler"
	"rivaas.dev/pathmatch/route"
)

// Router is the engine facade: it owns the pattern compiler configuration,
// the matching trie and the reverse-lookup index.
//
// Reads (Match, Generate, URLFor, Routes) are lock-free: they load an
// immutable state snapshot and never observe a half-applied registration.
// Writes (Add, Reset) serialize on an internal mutex and publish a new
// snapshot wholesale, so a failed Add contributes nothing and a Reset leaves
// concurrent readers on the snapshot they already hold.
type Router struct {
	delims    []string
	condKinds []string
	split     *splitter
	match     matcher
	metrics   *Recorder

	mu    sync.Mutex // serializes Add and Reset
	state atomic.Pointer[routerState]
}

// routerState is one immutable registration snapshot.
type routerState struct {
	root   *trieNode
	index  *reverseIndex
	routes []*route.Route
	byName map[string]*route.Route
}

func newRouterState() *routerState {
	return &routerState{
		root:   &trieNode{},
		index:  newReverseIndex(nil),
		byName: make(map[string]*route.Route),
	}
}

// Option configures a Router at construction time.
type Option func(*Router)

// New creates a router with the given options. The zero configuration
// splits on "/" and "." and matches without condition levels.
func New(opts ...Option) (*Router, error) {
	r := &Router{delims: compiler.DefaultDelimiters()}
	for _, opt := range opts {
		opt(r)
	}

	if len(r.delims) == 0 {
		return nil, fmt.Errorf("%w: at least one delimiter is required", ErrConfig)
	}
	seenDelim := make(map[string]bool, len(r.delims))
	for _, d := range r.delims {
		if len(d) != 1 {
			return nil, fmt.Errorf("%w: delimiter %q must be a single character", ErrConfig, d)
		}
		if seenDelim[d] {
			return nil, fmt.Errorf("%w: duplicate delimiter %q", ErrConfig, d)
		}
		seenDelim[d] = true
	}

	seenKind := make(map[string]bool, len(r.condKinds))
	for _, kind := range r.condKinds {
		if kind == "" {
			return nil, fmt.Errorf("%w: condition kind cannot be empty", ErrConfig)
		}
		if seenKind[kind] {
			return nil, fmt.Errorf("%w: duplicate condition kind %q", ErrConfig, kind)
		}
		seenKind[kind] = true
	}

	r.split = newSplitter(r.delims)
	r.match = matcher{sp: r.split, primary: r.delims[0]}
	r.state.Store(newRouterState())
	return r, nil
}

// MustNew is like New but panics on invalid configuration. Intended for
// routers built from options known at compile time.
func MustNew(opts ...Option) *Router {
	r, err := New(opts...)
	if err != nil {
		panic(err.Error())
	}
	return r
}

// Add compiles and registers a pattern. On success the returned route is
// immediately matchable and generatable; on any error the router is left
// exactly as it was.
func (r *Router) Add(pattern string, opts ...AddOption) (*route.Route, error) {
	var ro route.Options
	for _, opt := range opts {
		if err := opt(&ro); err != nil {
			return nil, fmt.Errorf("%w: %v", ErrRouteConfig, err)
		}
	}

	res, err := compiler.Compile(pattern, compiler.Config{Delimiters: r.delims})
	if err != nil {
		return nil, err
	}

	for name := range ro.Requirements {
		if _, ok := res.Variables[name]; !ok {
			return nil, fmt.Errorf("%w: requirement for variable %q absent from pattern %q", ErrRouteConfig, name, pattern)
		}
	}
	for name := range ro.Defaults {
		if _, ok := res.Variables[name]; !ok {
			return nil, fmt.Errorf("%w: default for variable %q absent from pattern %q", ErrRouteConfig, name, pattern)
		}
	}
	for kind := range ro.Conditions {
		if !r.hasConditionKind(kind) {
			return nil, fmt.Errorf("%w: condition kind %q is not configured on the router", ErrRouteConfig, kind)
		}
	}

	rt := route.New(pattern, ro)
	sequences := make([][]route.Segment, 0, len(res.Paths))
	for _, seq := range res.Paths {
		sequences = append(sequences, r.decorate(seq, &ro))
	}
	rt.AttachPaths(sequences)

	r.mu.Lock()
	defer r.mu.Unlock()

	cur := r.state.Load()
	if rt.Name() != "" {
		if _, exists := cur.byName[rt.Name()]; exists {
			return nil, fmt.Errorf("%w: %q", ErrDuplicateRouteName, rt.Name())
		}
	}

	root := cur.root.clone()
	for _, p := range rt.Paths() {
		if err := root.insert(p.Segments(), p); err != nil {
			return nil, err
		}
	}

	// The index is rebuilt in registration order; memoized reverse-lookup
	// results survive the rebuild, so a key set resolved before this Add
	// keeps the answer it resolved to.
	index := newReverseIndex(cur.index.cache)
	for _, existing := range cur.routes {
		for _, p := range existing.Paths() {
			index.register(p)
		}
	}
	for _, p := range rt.Paths() {
		index.register(p)
	}

	routes := make([]*route.Route, len(cur.routes), len(cur.routes)+1)
	copy(routes, cur.routes)
	routes = append(routes, rt)

	byName := make(map[string]*route.Route, len(cur.byName)+1)
	for k, v := range cur.byName {
		byName[k] = v
	}
	if rt.Name() != "" {
		byName[rt.Name()] = rt
	}

	r.state.Store(&routerState{root: root, index: index, routes: routes, byName: byName})
	r.metrics.recordRoutes(1)
	return rt, nil
}

// MustAdd is like Add but panics on error. Intended for route tables known
// at compile time.
func (r *Router) MustAdd(pattern string, opts ...AddOption) *route.Route {
	rt, err := r.Add(pattern, opts...)
	if err != nil {
		panic(err.Error())
	}
	return rt
}

// decorate prepends the router's condition levels and attaches requirement
// validators and default values to the dynamic segments of one expanded
// sequence. An inline pattern constraint wins over a requirement for the
// same name.
func (r *Router) decorate(seq []route.Segment, opts *route.Options) []route.Segment {
	out := make([]route.Segment, 0, len(r.condKinds)+len(seq))
	for _, kind := range r.condKinds {
		out = append(out, route.Condition(kind, opts.Conditions[kind]))
	}
	for _, seg := range seq {
		if seg.Dynamic() {
			if seg.Validator == nil {
				seg.Validator = opts.Requirements[seg.Name]
			}
			if def, ok := opts.Defaults[seg.Name]; ok {
				seg.Default = def
				seg.HasDefault = true
			}
		}
		out = append(out, seg)
	}
	return out
}

func (r *Router) hasConditionKind(kind string) bool {
	for _, k := range r.condKinds {
		if k == kind {
			return true
		}
	}
	return false
}

// Match looks up a path against the live snapshot. conditions supplies the
// request attributes for the router's configured condition kinds; kinds
// absent from the map match only routes that accept any value for them.
//
// A nil result means no route matched. Match never returns an error: an
// unmatched path is an expected outcome, not a failure. A panicking
// validator propagates to the caller.
func (r *Router) Match(path string, conditions map[string]string) *Match {
	start := time.Now()
	st := r.state.Load()

	tokens := make([]string, 0, len(r.condKinds)+8)
	for _, kind := range r.condKinds {
		tokens = append(tokens, kind+"="+conditions[kind])
	}
	tokens = append(tokens, r.split.split(path)...)

	p, params := r.match.search(st.root, tokens, 0, nil, nil)
	if p == nil {
		r.metrics.recordMatch(time.Since(start), false)
		return nil
	}
	r.metrics.recordMatch(time.Since(start), true)
	return &Match{
		Route:       p.Route(),
		Path:        p,
		Params:      params,
		Destination: p.Route().Destination(),
	}
}

// Reset discards every registered route, replacing the live snapshot with an
// empty one. Readers holding the prior snapshot finish against it
// undisturbed; the reverse-lookup cache starts empty.
func (r *Router) Reset() {
	r.mu.Lock()
	defer r.mu.Unlock()

	old := r.state.Load()
	r.state.Store(newRouterState())
	r.metrics.recordRoutes(-int64(len(old.routes)))
}

// Routes returns the registered routes in registration order.
func (r *Router) Routes() []*route.Route {
	st := r.state.Load()
	out := make([]*route.Route, len(st.routes))
	copy(out, st.routes)
	return out
}

// RouteByName returns the route registered under the given name.
func (r *Router) RouteByName(name string) (*route.Route, bool) {
	rt, ok := r.state.Load().byName[name]
	return rt, ok
}

// Len returns the number of registered routes.
func (r *Router) Len() int {
	return len(r.state.Load().routes)
}

// Info returns introspection data for every registered route, in
// registration order.
func (r *Router) Info() []route.Info {
	st := r.state.Load()
	out := make([]route.Info, 0, len(st.routes))
	for _, rt := range st.routes {
		out = append(out, rt.Info())
	}
	return out
}
