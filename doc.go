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

// Package pathmatch is a bidirectional route-matching engine: it matches
// delimited paths against registered patterns, binding variables as it goes,
// and generates URLs back from parameter sets.
//
// The engine performs no I/O and dispatches to nothing: a successful match
// returns the winning route, its bindings and the opaque destination payload
// attached at registration, leaving invocation to the caller. This makes it
// embeddable anywhere tokenized lookup with variables is needed, HTTP or
// not.
//
// # Patterns
//
// Patterns mix literal text with variables, split on the configured
// delimiters (default "/" and "."):
//
//	/users/:id                 single variable, one token
//	/files/*path               glob variable, one or more tokens
//	/product/{:id,\d+}         regex-constrained variable
//	/archive/{!rest,\d+/\d+}   greedy glob, regex applied across delimiters
//	/posts/:id(.:format)       optional section
//	/feed(.xml|.json)          alternation
//
// Optional sections and alternations expand at registration time into
// concrete alternatives; matching sees only flat sequences.
//
// # Matching and generating
//
//	r := pathmatch.MustNew()
//	r.MustAdd("/users/:id", pathmatch.Where("id", `\d+`), pathmatch.Named("user"))
//
//	if m := r.Match("/users/42", nil); m != nil {
//	    fmt.Println(m.Param("id")) // "42"
//	}
//
//	u, _ := r.Generate(map[string]string{"id": "42"}) // "/users/42"
//	u, _ = r.URLFor("user", map[string]string{"id": "42", "ref": "nav"})
//	// "/users/42?ref=nav"
//
// Generate picks the registered path that uses the most of the supplied
// names; names no route uses become the query string. An unmatched path or
// parameter set is an expected outcome, reported as a value (nil Match,
// ErrNoGeneratablePath), not a failure of the call.
//
// # Conditions
//
// Routers may dispatch on request attributes beyond the path, such as the
// HTTP method, via condition kinds declared at construction:
//
//	r := pathmatch.MustNew(pathmatch.WithConditions("method"))
//	r.MustAdd("/users/:id", pathmatch.When("method", "GET"))
//	m := r.Match("/users/7", map[string]string{"method": "GET"})
//
// # Concurrency
//
// Registration publishes immutable snapshots: Match, Generate and URLFor are
// lock-free and safe to call concurrently with Add and Reset, and each Add
// is atomic. The intended shape is to register routes at startup and match
// from any number of goroutines.
package pathmatch
