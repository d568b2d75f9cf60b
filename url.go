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
	"net/url"
	"sort"

	"rivaas.dev/pathmatch/route"
)

// Generate resolves the parameter set to the most specific registered path
// and renders it. Parameter names no registered route binds are appended as
// a query string; names some route binds steer the path selection.
//
// Selection prefers the path generatable from the most of the supplied
// names; ties fall to the first-registered route. Results per name set are
// memoized until Reset, so a set resolved before later registrations keeps
// resolving to its first answer.
func (r *Router) Generate(params map[string]string) (string, error) {
	st := r.state.Load()

	relevant := make([]string, 0, len(params))
	for name := range params {
		if st.index.significant(name) {
			relevant = append(relevant, name)
		}
	}
	if len(relevant) == 0 {
		r.metrics.recordGenerate(false, false)
		return "", fmt.Errorf("%w: no known parameter names supplied", ErrNoGeneratablePath)
	}
	sort.Strings(relevant)

	p, cached := st.index.find(relevant)
	if p == nil {
		r.metrics.recordGenerate(false, cached)
		return "", fmt.Errorf("%w: parameters %v", ErrNoGeneratablePath, relevant)
	}

	built, err := p.Build(params, queryValues(params, p))
	if err != nil {
		r.metrics.recordGenerate(false, cached)
		return "", err
	}
	r.metrics.recordGenerate(true, cached)
	return built, nil
}

// URLFor renders a URL for the route registered under name. Among the
// route's expanded paths, the first one generatable from the supplied
// parameter names wins; extra names become the query string.
func (r *Router) URLFor(name string, params map[string]string) (string, error) {
	st := r.state.Load()
	rt, ok := st.byName[name]
	if !ok {
		return "", fmt.Errorf("%w: %q", ErrUnknownRouteName, name)
	}

	for _, p := range rt.Paths() {
		bound := make(map[string]struct{}, len(params))
		for n := range params {
			if p.Uses(n) {
				bound[n] = struct{}{}
			}
		}
		if !p.CanGenerateFrom(bound) {
			continue
		}
		return p.Build(params, queryValues(params, p))
	}
	return "", fmt.Errorf("%w: route %q cannot generate from the given parameters", ErrNoGeneratablePath, name)
}

// queryValues collects the supplied names the chosen path does not bind.
// Returns nil when everything was bound, so Build skips the query string.
func queryValues(params map[string]string, p *route.Path) url.Values {
	var q url.Values
	for name, value := range params {
		if p.Uses(name) {
			continue
		}
		if q == nil {
			q = url.Values{}
		}
		q.Set(name, value)
	}
	return q
}
