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
	"errors"

	"rivaas.dev/pathmatch/compiler"
)

// Registration-time errors. Each Add is atomic: a pattern that fails with
// any of these contributes nothing to the trie or the reverse index, and
// previously registered routes remain matchable.
//
// An unmatched path or parameter set is never an error; Match and Generate
// report not-found as an explicit value.
var (
	// ErrPatternSyntax indicates malformed grouping or variable syntax in a
	// pattern string. Alias of the compiler's sentinel so callers can test
	// against either package.
	ErrPatternSyntax = compiler.ErrSyntax

	// ErrConfig indicates invalid router construction options: a
	// multi-character delimiter, a duplicate delimiter, or a duplicate or
	// empty condition kind.
	ErrConfig = errors.New("invalid router configuration")

	// ErrRouteConfig indicates invalid registration options: a requirement
	// or default referencing a variable absent from the pattern, a condition
	// for a kind the router is not configured with, or an invalid constraint
	// expression.
	ErrRouteConfig = errors.New("invalid route configuration")

	// ErrAmbiguousPattern indicates a structural conflict detected while
	// inserting into the trie: two incompatible variable segments competing
	// for the same position.
	ErrAmbiguousPattern = errors.New("ambiguous pattern")

	// ErrDuplicateRouteName indicates the requested route name is taken.
	ErrDuplicateRouteName = errors.New("duplicate route name")

	// ErrUnknownRouteName indicates no registered route carries the name.
	ErrUnknownRouteName = errors.New("unknown route name")

	// ErrNoGeneratablePath indicates no registered path can generate a URL
	// from the supplied parameters.
	ErrNoGeneratablePath = errors.New("no route can generate a path from the given parameters")
)
