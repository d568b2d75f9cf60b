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

// Package route provides the shared vocabulary of the pathmatch engine:
// the segment model, validators, and the Route/Path types produced by
// pattern compilation.
//
// This package contains:
//   - Segment: the closed sum type over literal, separator, variable, glob
//     and condition segments
//   - Validator: opaque token predicates (regex, exact, function) plus the
//     typed constraint kinds (int, float, UUID, enum, date, date-time)
//   - Route: a registered pattern with its expanded concrete paths,
//     conditions, defaults and destination payload
//   - Path: one group-free segment sequence, the unit inserted into the
//     matching trie and the reverse-lookup index
//
// All types in this package are created during route registration and are
// immutable afterward, which is what makes concurrent matching and URL
// generation lock-free.
package route
