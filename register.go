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

	"rivaas.dev/pathmatch/route"
)

// AddOption configures one route at registration time. Options are applied
// in order before the pattern is compiled; an option error aborts the Add
// with ErrRouteConfig and registers nothing.
type AddOption func(*route.Options) error

// Where constrains a variable with a regular expression. The expression is
// anchored and must match the variable's entire bound value.
//
// Example:
//
//	r.MustAdd("/users/:id", pathmatch.Where("id", `\d+`))
func Where(name, pattern string) AddOption {
	return func(o *route.Options) error {
		v, err := route.Regex(pattern)
		if err != nil {
			return err
		}
		return setRequirement(o, name, v)
	}
}

// WhereValidator constrains a variable with a caller-supplied validator.
// See route.Exact and route.Predicate for the non-regex validator forms.
func WhereValidator(name string, v route.Validator) AddOption {
	return func(o *route.Options) error {
		if v == nil {
			return fmt.Errorf("validator for %q is nil", name)
		}
		return setRequirement(o, name, v)
	}
}

// WhereInt constrains a variable to decimal digits.
func WhereInt(name string) AddOption { return whereKind(name, route.ConstraintInt) }

// WhereFloat constrains a variable to a floating point literal, with
// optional sign, fraction and exponent.
func WhereFloat(name string) AddOption { return whereKind(name, route.ConstraintFloat) }

// WhereUUID constrains a variable to the canonical hyphenated UUID form.
func WhereUUID(name string) AddOption { return whereKind(name, route.ConstraintUUID) }

// WhereDate constrains a variable to an RFC3339 full-date (YYYY-MM-DD).
func WhereDate(name string) AddOption { return whereKind(name, route.ConstraintDate) }

// WhereDateTime constrains a variable to an RFC3339 date-time.
func WhereDateTime(name string) AddOption { return whereKind(name, route.ConstraintDateTime) }

// WhereEnum constrains a variable to one of the given values.
//
// Example:
//
//	r.MustAdd("/posts/:status", pathmatch.WhereEnum("status", "draft", "published"))
func WhereEnum(name string, values ...string) AddOption {
	return func(o *route.Options) error {
		if len(values) == 0 {
			return fmt.Errorf("enum constraint for %q has no values", name)
		}
		v, err := route.ValidatorFor(route.ConstraintEnum, "", values...)
		if err != nil {
			return err
		}
		return setRequirement(o, name, v)
	}
}

func whereKind(name string, kind route.ConstraintKind) AddOption {
	return func(o *route.Options) error {
		v, err := route.ValidatorFor(kind, "")
		if err != nil {
			return err
		}
		return setRequirement(o, name, v)
	}
}

func setRequirement(o *route.Options, name string, v route.Validator) error {
	if name == "" {
		return fmt.Errorf("requirement has an empty variable name")
	}
	if o.Requirements == nil {
		o.Requirements = make(map[string]route.Validator)
	}
	if _, dup := o.Requirements[name]; dup {
		return fmt.Errorf("duplicate requirement for %q", name)
	}
	o.Requirements[name] = v
	return nil
}

// Default supplies a fallback value for a variable. Defaults feed reverse
// routing: a path whose only missing variables are defaulted can still
// generate a URL. Matching never injects defaults into bindings; read them
// via Route.Default for names absent from the match.
func Default(name, value string) AddOption {
	return func(o *route.Options) error {
		if name == "" {
			return fmt.Errorf("default has an empty variable name")
		}
		if o.Defaults == nil {
			o.Defaults = make(map[string]string)
		}
		if _, dup := o.Defaults[name]; dup {
			return fmt.Errorf("duplicate default for %q", name)
		}
		o.Defaults[name] = value
		return nil
	}
}

// When requires a condition value for one of the router's configured
// condition kinds. A route may constrain several kinds; each kind at most
// once.
func When(kind, value string) AddOption {
	return func(o *route.Options) error {
		if kind == "" {
			return fmt.Errorf("condition has an empty kind")
		}
		if value == "" {
			return fmt.Errorf("condition %q has an empty value", kind)
		}
		if o.Conditions == nil {
			o.Conditions = make(map[string]string)
		}
		if _, dup := o.Conditions[kind]; dup {
			return fmt.Errorf("duplicate condition for kind %q", kind)
		}
		o.Conditions[kind] = value
		return nil
	}
}

// To attaches an opaque destination payload, returned verbatim on every
// match of the route. The engine never inspects it.
func To(destination any) AddOption {
	return func(o *route.Options) error {
		o.Destination = destination
		return nil
	}
}

// Named gives the route a unique name for reverse routing via URLFor.
func Named(name string) AddOption {
	return func(o *route.Options) error {
		if name == "" {
			return fmt.Errorf("route name cannot be empty")
		}
		if o.Name != "" {
			return fmt.Errorf("route name set twice (%q and %q)", o.Name, name)
		}
		o.Name = name
		return nil
	}
}
