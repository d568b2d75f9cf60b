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

import "rivaas.dev/pathmatch/route"

// Param is a single variable binding produced by a match.
//
// A glob variable binds a run of tokens: Parts holds the bound tokens in
// order and Value holds their rendered form (the raw consumed substring for
// a greedy glob, the tokens joined by the primary delimiter otherwise). For
// a single variable Parts is nil and Value is the one bound token.
type Param struct {
	Name  string
	Value string
	Parts []string
}

// Params is the ordered list of bindings from one match, in the order the
// variables were consumed along the path. A variable appearing more than once
// in a pattern contributes one entry per occurrence.
type Params []Param

// Get returns the value bound to name. The second return is false when the
// name was not bound.
func (ps Params) Get(name string) (string, bool) {
	for _, p := range ps {
		if p.Name == name {
			return p.Value, true
		}
	}
	return "", false
}

// Map returns the bindings as a name-to-value map. Later occurrences of a
// repeated name win.
func (ps Params) Map() map[string]string {
	m := make(map[string]string, len(ps))
	for _, p := range ps {
		m[p.Name] = p.Value
	}
	return m
}

// Match is the result of a successful lookup: the winning route and concrete
// path, the variable bindings, and the destination payload attached at
// registration. Match values are snapshots; mutating Params does not affect
// the router.
type Match struct {
	Route       *route.Route
	Path        *route.Path
	Params      Params
	Destination any
}

// Param returns the value bound to name, or "" if unbound.
func (m *Match) Param(name string) string {
	v, _ := m.Params.Get(name)
	return v
}
