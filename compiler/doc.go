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

// Package compiler turns pattern strings into concrete segment sequences.
//
// Compilation is two phases. Parsing builds a grouped syntax tree out of
// sequence, optional and alternation nodes while splitting on the configured
// delimiters; brace and parenthesis nesting is respected, so a greedy-regex
// body like {!rest,.+} is never pre-split even when it contains delimiter
// characters. Expansion then eliminates the groups: optionals contribute
// their body and the empty sequence, alternations contribute each branch,
// and a sequence is the cross-product of its children. A final pass computes
// each variable's lookahead boundary.
//
// Compilation happens once per pattern at registration time; the sequences
// it produces are immutable.
package compiler
