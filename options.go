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

// WithDelimiters sets the delimiter characters paths and patterns are split
// on. The first delimiter is the primary one, used when rendering multi-token
// glob bindings and as the default boundary for path-final variables.
//
// Defaults to "/" and ".".
//
// Example:
//
//	r := pathmatch.MustNew(pathmatch.WithDelimiters("/", ".", ";"))
func WithDelimiters(delims ...string) Option {
	return func(r *Router) {
		r.delims = delims
	}
}

// WithConditions declares the condition kinds routes may constrain on, e.g.
// the request method. Each kind adds one dispatch level in front of the path
// tokens; a route that does not constrain a kind accepts any value for it.
//
// Example:
//
//	r := pathmatch.MustNew(pathmatch.WithConditions("method"))
//	r.MustAdd("/users/:id", pathmatch.When("method", "GET"))
//	m := r.Match("/users/7", map[string]string{"method": "GET"})
func WithConditions(kinds ...string) Option {
	return func(r *Router) {
		r.condKinds = kinds
	}
}

// WithMetrics attaches a metrics recorder. Without one the router records
// nothing.
func WithMetrics(rec *Recorder) Option {
	return func(r *Router) {
		r.metrics = rec
	}
}
