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
	"fmt"
	"reflect"
	"regexp"
	"strings"
)

// Validator is the predicate applied to a candidate token (or, for globs,
// the accumulated run) before a binding is accepted.
//
// Validators are evaluated opaquely: a rejection is not an error, it simply
// means the branch under exploration does not match. A panicking validator
// propagates to the Match caller, signaling a misbehaving predicate rather
// than a routing failure.
//
// Key is an identity string used to decide whether two variable segments
// competing for the same trie position carry the same constraint. Validators
// with equal keys are interchangeable.
type Validator interface {
	Accepts(candidate string) bool
	Key() string
}

// ConstraintKind represents the type of constraint applied to a variable.
// Typed kinds compile to anchored regular expressions.
type ConstraintKind uint8

const (
	ConstraintRegex ConstraintKind = iota
	ConstraintInt
	ConstraintFloat
	ConstraintUUID
	ConstraintEnum
	ConstraintDate     // RFC3339 full-date
	ConstraintDateTime // RFC3339 date-time
)

// regexValidator anchors a user pattern and accepts tokens it fully matches.
type regexValidator struct {
	source string
	re     *regexp.Regexp
}

func (v *regexValidator) Accepts(candidate string) bool {
	return v.re.MatchString(candidate)
}

func (v *regexValidator) Key() string {
	return "regex:" + v.source
}

// exactValidator accepts only one exact value.
type exactValidator struct {
	value string
}

func (v *exactValidator) Accepts(candidate string) bool {
	return candidate == v.value
}

func (v *exactValidator) Key() string {
	return "exact:" + v.value
}

// predicateValidator wraps a caller-supplied function. Its identity key is
// derived from the function pointer, so two distinct predicates never
// compare equal even if they behave identically.
type predicateValidator struct {
	fn func(string) bool
}

func (v *predicateValidator) Accepts(candidate string) bool {
	return v.fn(candidate)
}

func (v *predicateValidator) Key() string {
	return fmt.Sprintf("predicate:%#x", reflect.ValueOf(v.fn).Pointer())
}

// Regex compiles a user pattern into a Validator. The pattern is anchored so
// it must match the entire candidate.
func Regex(pattern string) (Validator, error) {
	re, err := regexp.Compile("^(?:" + pattern + ")$")
	if err != nil {
		return nil, fmt.Errorf("invalid constraint pattern %q: %w", pattern, err)
	}
	return &regexValidator{source: pattern, re: re}, nil
}

// MustRegex is like Regex but panics on an invalid pattern. Intended for
// patterns known at compile time, following the early-detection convention
// used for startup-time configuration.
func MustRegex(pattern string) Validator {
	v, err := Regex(pattern)
	if err != nil {
		panic(err.Error())
	}
	return v
}

// Exact returns a Validator accepting only the given value.
func Exact(value string) Validator {
	return &exactValidator{value: value}
}

// Predicate wraps a boolean function as a Validator.
func Predicate(fn func(string) bool) Validator {
	return &predicateValidator{fn: fn}
}

// ValidatorFor builds a Validator for a typed constraint kind. The pattern
// argument is used for ConstraintRegex; values for ConstraintEnum.
func ValidatorFor(kind ConstraintKind, pattern string, values ...string) (Validator, error) {
	switch kind {
	case ConstraintInt:
		pattern = `\d+`
	case ConstraintFloat:
		pattern = `-?(?:\d+\.?\d*|\.\d+)(?:[eE][+-]?\d+)?`
	case ConstraintUUID:
		pattern = `[0-9a-fA-F]{8}-[0-9a-fA-F]{4}-[1-5][0-9a-fA-F]{3}-[89abAB][0-9a-fA-F]{3}-[0-9a-fA-F]{12}`
	case ConstraintRegex:
		// pattern used as supplied
	case ConstraintEnum:
		escaped := make([]string, 0, len(values))
		for _, v := range values {
			escaped = append(escaped, regexp.QuoteMeta(v))
		}
		pattern = "(" + strings.Join(escaped, "|") + ")"
	case ConstraintDate:
		pattern = `\d{4}-\d{2}-\d{2}`
	case ConstraintDateTime:
		pattern = `\d{4}-\d{2}-\d{2}T\d{2}:\d{2}:\d{2}(?:\.\d+)?(?:Z|[+-]\d{2}:\d{2})`
	default:
		return nil, fmt.Errorf("unknown constraint kind %d", kind)
	}

	return Regex(pattern)
}

// ValidatorsEqual reports whether two validators are interchangeable for
// trie-sharing purposes. Nil validators are equal only to nil.
func ValidatorsEqual(a, b Validator) bool {
	if a == nil || b == nil {
		return a == nil && b == nil
	}
	return a.Key() == b.Key()
}
