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
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"rivaas.dev/pathmatch/route"
)

func TestNew_Defaults(t *testing.T) {
	t.Parallel()

	r, err := New()
	require.NoError(t, err)
	assert.Equal(t, 0, r.Len())
}

func TestNew_ConfigErrors(t *testing.T) {
	t.Parallel()

	tests := []struct {
		name string
		opts []Option
	}{
		{"no delimiters", []Option{WithDelimiters()}},
		{"multi-character delimiter", []Option{WithDelimiters("//")}},
		{"duplicate delimiter", []Option{WithDelimiters("/", "/")}},
		{"empty condition kind", []Option{WithConditions("")}},
		{"duplicate condition kind", []Option{WithConditions("method", "method")}},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()

			_, err := New(tt.opts...)
			require.Error(t, err)
			assert.ErrorIs(t, err, ErrConfig)
		})
	}
}

func TestMustNew_PanicsOnBadConfig(t *testing.T) {
	t.Parallel()

	assert.Panics(t, func() { MustNew(WithDelimiters("ab")) })
}

func TestMatch_LiteralRoundTrip(t *testing.T) {
	t.Parallel()

	r := MustNew()
	r.MustAdd("/users/all")

	m := r.Match("/users/all", nil)
	require.NotNil(t, m)
	assert.Equal(t, "/users/all", m.Route.Pattern())
	assert.Empty(t, m.Params)

	assert.Nil(t, r.Match("/users", nil))
	assert.Nil(t, r.Match("/users/all/x", nil))
	assert.Nil(t, r.Match("/users.all", nil))
	assert.Nil(t, r.Match("users/all", nil))
}

func TestMatch_SingleVariableBinding(t *testing.T) {
	t.Parallel()

	r := MustNew()
	r.MustAdd("/path/:v/path")

	m := r.Match("/path/X/path", nil)
	require.NotNil(t, m)
	assert.Equal(t, "X", m.Param("v"))

	// A single variable never crosses a delimiter.
	assert.Nil(t, r.Match("/path/X/Y/path", nil))
	assert.Nil(t, r.Match("/path//path", nil))
}

func TestMatch_GlobBindingWithLookahead(t *testing.T) {
	t.Parallel()

	r := MustNew()
	r.MustAdd("/path/*v/path")

	m := r.Match("/path/a/b/c/path", nil)
	require.NotNil(t, m)

	v, ok := m.Params.Get("v")
	assert.True(t, ok)
	assert.Equal(t, "a/b/c", v)
	assert.Equal(t, []string{"a", "b", "c"}, m.Params[0].Parts)

	// The trailing literal is required.
	assert.Nil(t, r.Match("/path/a/b", nil))
}

func TestMatch_GlobStopsAtEarliestViableBoundary(t *testing.T) {
	t.Parallel()

	r := MustNew()
	r.MustAdd("/files/*rest/end")

	// The first "end" token also completes the pattern, so the glob stops
	// there rather than swallowing it.
	m := r.Match("/files/a/end", nil)
	require.NotNil(t, m)
	assert.Equal(t, []string{"a"}, m.Params[0].Parts)

	// When stopping early cannot complete the match, backtracking grows the
	// glob over the inner "end".
	m = r.Match("/files/a/end/end", nil)
	require.NotNil(t, m)
	assert.Equal(t, []string{"a", "end"}, m.Params[0].Parts)
}

func TestMatch_PathFinalGlobSwallowsRest(t *testing.T) {
	t.Parallel()

	r := MustNew()
	r.MustAdd("/files/*rest")

	m := r.Match("/files/docs/2025/report.pdf", nil)
	require.NotNil(t, m)
	assert.Equal(t, []string{"docs", "2025", "report", "pdf"}, m.Params[0].Parts)

	// A glob binds at least one token.
	assert.Nil(t, r.Match("/files", nil))
	assert.Nil(t, r.Match("/files/", nil))
}

func TestMatch_GreedyGlobValidatorSeesSeparators(t *testing.T) {
	t.Parallel()

	r := MustNew()
	r.MustAdd(`/archive/{!range,\d+/\d+}`)

	m := r.Match("/archive/2024/2025", nil)
	require.NotNil(t, m)
	assert.Equal(t, "2024/2025", m.Param("range"))

	assert.Nil(t, r.Match("/archive/2024/x", nil))
	assert.Nil(t, r.Match("/archive/2024", nil))
}

func TestMatch_RegexConstraintMissIsNotFound(t *testing.T) {
	t.Parallel()

	r := MustNew()
	r.MustAdd(`/product/{:id,\d+}`)

	m := r.Match("/product/123", nil)
	require.NotNil(t, m)
	assert.Equal(t, "123", m.Param("id"))

	assert.NotPanics(t, func() {
		assert.Nil(t, r.Match("/product/AE-35", nil))
	})
}

func TestMatch_RequirementOption(t *testing.T) {
	t.Parallel()

	r := MustNew()
	r.MustAdd("/users/:id", Where("id", `\d+`))

	require.NotNil(t, r.Match("/users/42", nil))
	assert.Nil(t, r.Match("/users/forty-two", nil))
}

func TestMatch_InlineConstraintWinsOverRequirement(t *testing.T) {
	t.Parallel()

	r := MustNew()
	r.MustAdd(`/product/{:id,\d+}`, Where("id", "[a-z]+"))

	assert.NotNil(t, r.Match("/product/123", nil))
	assert.Nil(t, r.Match("/product/abc", nil))
}

func TestMatch_TypedConstraints(t *testing.T) {
	t.Parallel()

	r := MustNew()
	r.MustAdd("/i/:v", WhereInt("v"), To("int"))
	r.MustAdd("/u/:v", WhereUUID("v"), To("uuid"))
	r.MustAdd("/e/:v", WhereEnum("v", "xml", "json"), To("enum"))
	r.MustAdd("/d/:v", WhereDate("v"), To("date"))

	assert.NotNil(t, r.Match("/i/42", nil))
	assert.Nil(t, r.Match("/i/x", nil))
	assert.NotNil(t, r.Match("/u/550e8400-e29b-41d4-a716-446655440000", nil))
	assert.Nil(t, r.Match("/u/xyz", nil))
	assert.NotNil(t, r.Match("/e/json", nil))
	assert.Nil(t, r.Match("/e/yaml", nil))
	assert.NotNil(t, r.Match("/d/2025-08-23", nil))
	assert.Nil(t, r.Match("/d/23-08-2025", nil))
}

func TestMatch_OptionalSection(t *testing.T) {
	t.Parallel()

	r := MustNew()
	r.MustAdd("/path/something(.html)")

	assert.NotNil(t, r.Match("/path/something", nil))
	assert.NotNil(t, r.Match("/path/something.html", nil))
	assert.Nil(t, r.Match("/path/something.json", nil))
}

func TestMatch_AlternationIsExact(t *testing.T) {
	t.Parallel()

	r := MustNew()
	r.MustAdd("/path/something(.xml|.html)")

	assert.NotNil(t, r.Match("/path/something.xml", nil))
	assert.NotNil(t, r.Match("/path/something.html", nil))
	assert.Nil(t, r.Match("/path/something.json", nil))
	assert.Nil(t, r.Match("/path/something", nil))
}

func TestMatch_OptionalVariableNotInjected(t *testing.T) {
	t.Parallel()

	r := MustNew()
	rt := r.MustAdd("/posts/:id(.:format)", Default("format", "html"))

	m := r.Match("/posts/7", nil)
	require.NotNil(t, m)
	assert.Equal(t, "7", m.Param("id"))

	// The binding list holds only what was matched; the default is read
	// from the route.
	_, bound := m.Params.Get("format")
	assert.False(t, bound)
	def, ok := rt.Default("format")
	assert.True(t, ok)
	assert.Equal(t, "html", def)

	m = r.Match("/posts/7.json", nil)
	require.NotNil(t, m)
	assert.Equal(t, "json", m.Param("format"))
}

func TestMatch_ExactBeatsVariable(t *testing.T) {
	t.Parallel()

	r := MustNew()
	r.MustAdd("/users/:id", To("variable"))
	r.MustAdd("/users/all", To("literal"))

	m := r.Match("/users/all", nil)
	require.NotNil(t, m)
	assert.Equal(t, "literal", m.Destination)

	m = r.Match("/users/42", nil)
	require.NotNil(t, m)
	assert.Equal(t, "variable", m.Destination)
}

func TestMatch_BacktracksFromExactToVariable(t *testing.T) {
	t.Parallel()

	r := MustNew()
	r.MustAdd("/a/static/x")
	r.MustAdd("/a/:v/y")

	// "static" descends the literal branch first; when that branch cannot
	// finish, the variable must still get its chance.
	m := r.Match("/a/static/y", nil)
	require.NotNil(t, m)
	assert.Equal(t, "static", m.Param("v"))
}

func TestMatch_Conditions(t *testing.T) {
	t.Parallel()

	r := MustNew(WithConditions("method"))
	r.MustAdd("/users/:id", When("method", "GET"), To("show"))
	r.MustAdd("/users/:id", When("method", "DELETE"), To("destroy"))
	r.MustAdd("/health", To("health")) // any method

	m := r.Match("/users/7", map[string]string{"method": "GET"})
	require.NotNil(t, m)
	assert.Equal(t, "show", m.Destination)

	m = r.Match("/users/7", map[string]string{"method": "DELETE"})
	require.NotNil(t, m)
	assert.Equal(t, "destroy", m.Destination)

	assert.Nil(t, r.Match("/users/7", map[string]string{"method": "POST"}))
	assert.Nil(t, r.Match("/users/7", nil))

	for _, method := range []string{"GET", "POST", ""} {
		m = r.Match("/health", map[string]string{"method": method})
		require.NotNil(t, m)
		assert.Equal(t, "health", m.Destination)
	}
}

func TestMatch_ConditionExactBeatsAny(t *testing.T) {
	t.Parallel()

	r := MustNew(WithConditions("method"))
	r.MustAdd("/x", To("any"))
	r.MustAdd("/x", When("method", "GET"), To("get-only"))

	m := r.Match("/x", map[string]string{"method": "GET"})
	require.NotNil(t, m)
	assert.Equal(t, "get-only", m.Destination)

	m = r.Match("/x", map[string]string{"method": "POST"})
	require.NotNil(t, m)
	assert.Equal(t, "any", m.Destination)
}

func TestMatch_DuplicateSequenceFirstRegisteredWins(t *testing.T) {
	t.Parallel()

	r := MustNew()
	r.MustAdd("/dup", To("first"))
	r.MustAdd("/dup", To("second"))

	m := r.Match("/dup", nil)
	require.NotNil(t, m)
	assert.Equal(t, "first", m.Destination)
}

func TestMatch_SetInvariantToRegistrationOrder(t *testing.T) {
	t.Parallel()

	patterns := []string{
		"/users/all",
		"/users/:id",
		"/files/*rest",
		"/posts/:id(.:format)",
		`/product/{:id,\d+}`,
	}
	inputs := []string{
		"/users/all", "/users/7", "/files/a/b", "/posts/1.json",
		"/posts/1", "/product/9", "/product/x", "/nope",
	}

	forward := MustNew()
	for _, p := range patterns {
		forward.MustAdd(p)
	}
	reverse := MustNew()
	for i := len(patterns) - 1; i >= 0; i-- {
		reverse.MustAdd(patterns[i])
	}

	for _, in := range inputs {
		a, b := forward.Match(in, nil), reverse.Match(in, nil)
		if a == nil {
			assert.Nil(t, b, "input %q", in)
			continue
		}
		require.NotNil(t, b, "input %q", in)
		assert.Equal(t, a.Route.Pattern(), b.Route.Pattern(), "input %q", in)
	}
}

func TestMatch_ValidatorPanicPropagates(t *testing.T) {
	t.Parallel()

	r := MustNew()
	r.MustAdd("/x/:v", WhereValidator("v", route.Predicate(func(string) bool {
		panic("misbehaving validator")
	})))

	assert.PanicsWithValue(t, "misbehaving validator", func() {
		r.Match("/x/anything", nil)
	})
}

func TestAdd_SyntaxError(t *testing.T) {
	t.Parallel()

	r := MustNew()
	_, err := r.Add("/a(/b")
	require.Error(t, err)
	assert.ErrorIs(t, err, ErrPatternSyntax)
	assert.Equal(t, 0, r.Len())
}

func TestAdd_ConfigErrors(t *testing.T) {
	t.Parallel()

	r := MustNew(WithConditions("method"))

	tests := []struct {
		name    string
		pattern string
		opts    []AddOption
	}{
		{"requirement for unknown variable", "/a/:x", []AddOption{Where("y", `\d+`)}},
		{"default for unknown variable", "/a/:x", []AddOption{Default("y", "1")}},
		{"unconfigured condition kind", "/a", []AddOption{When("host", "example.com")}},
		{"invalid requirement regex", "/a/:x", []AddOption{Where("x", "[")}},
		{"nil validator", "/a/:x", []AddOption{WhereValidator("x", nil)}},
		{"empty enum", "/a/:x", []AddOption{WhereEnum("x")}},
		{"duplicate requirement", "/a/:x", []AddOption{Where("x", `\d`), WhereInt("x")}},
		{"empty condition value", "/a", []AddOption{When("method", "")}},
		{"empty route name", "/a", []AddOption{Named("")}},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()

			_, err := r.Add(tt.pattern, tt.opts...)
			require.Error(t, err)
			assert.ErrorIs(t, err, ErrRouteConfig)
		})
	}
	assert.Equal(t, 0, r.Len())
}

func TestAdd_AmbiguousVariablePosition(t *testing.T) {
	t.Parallel()

	r := MustNew()
	r.MustAdd("/a/:x")

	_, err := r.Add("/a/:y")
	require.Error(t, err)
	assert.ErrorIs(t, err, ErrAmbiguousPattern)

	_, err = r.Add(`/a/{:x,\d+}`)
	require.Error(t, err)
	assert.ErrorIs(t, err, ErrAmbiguousPattern)

	// The identical variable segment shares the node instead.
	_, err = r.Add("/a/:x/more")
	require.NoError(t, err)
}

func TestAdd_FailedAddRegistersNothing(t *testing.T) {
	t.Parallel()

	r := MustNew()
	r.MustAdd("/a/:x")

	// The first branch inserts cleanly, the second conflicts; the whole
	// registration must roll back.
	_, err := r.Add("(/b/c|/a/:y)")
	require.Error(t, err)
	assert.ErrorIs(t, err, ErrAmbiguousPattern)

	assert.Nil(t, r.Match("/b/c", nil))
	assert.Equal(t, 1, r.Len())
}

func TestAdd_DuplicateRouteName(t *testing.T) {
	t.Parallel()

	r := MustNew()
	r.MustAdd("/a", Named("home"))

	_, err := r.Add("/b", Named("home"))
	require.Error(t, err)
	assert.ErrorIs(t, err, ErrDuplicateRouteName)
	assert.Equal(t, 1, r.Len())
}

func TestRouter_RoutesAndIntrospection(t *testing.T) {
	t.Parallel()

	r := MustNew()
	r.MustAdd("/users/:id", Named("user"), Default("id", "0"))
	r.MustAdd("/about")

	assert.Equal(t, 2, r.Len())

	routes := r.Routes()
	require.Len(t, routes, 2)
	assert.Equal(t, "/users/:id", routes[0].Pattern())

	rt, ok := r.RouteByName("user")
	require.True(t, ok)
	assert.Equal(t, "/users/:id", rt.Pattern())

	_, ok = r.RouteByName("missing")
	assert.False(t, ok)

	info := r.Info()
	require.Len(t, info, 2)
	assert.Equal(t, []string{"id"}, info[0].Variables)
	assert.False(t, info[0].Static)
	assert.True(t, info[1].Static)
}

func TestRouter_Reset(t *testing.T) {
	t.Parallel()

	r := MustNew()
	r.MustAdd("/users/:id", Named("user"))

	r.Reset()

	assert.Equal(t, 0, r.Len())
	assert.Nil(t, r.Match("/users/7", nil))
	_, ok := r.RouteByName("user")
	assert.False(t, ok)

	// The router stays usable after a reset.
	r.MustAdd("/users/:id")
	assert.NotNil(t, r.Match("/users/7", nil))
}

func TestRouter_ConcurrentMatchAndAdd(t *testing.T) {
	t.Parallel()

	r := MustNew()
	r.MustAdd("/stable/:id")

	var wg sync.WaitGroup
	for g := 0; g < 8; g++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			for i := 0; i < 200; i++ {
				m := r.Match("/stable/7", nil)
				if assert.NotNil(t, m) {
					assert.Equal(t, "7", m.Param("id"))
				}
			}
		}()
	}

	wg.Add(1)
	go func() {
		defer wg.Done()
		for i := 0; i < 50; i++ {
			_, err := r.Add(fmt.Sprintf("/generated/%d/:v", i))
			assert.NoError(t, err)
		}
	}()

	wg.Wait()
	assert.Equal(t, 51, r.Len())
}

func TestParams_Accessors(t *testing.T) {
	t.Parallel()

	ps := Params{
		{Name: "a", Value: "1"},
		{Name: "b", Value: "2"},
		{Name: "a", Value: "3"},
	}

	v, ok := ps.Get("a")
	assert.True(t, ok)
	assert.Equal(t, "1", v)

	_, ok = ps.Get("z")
	assert.False(t, ok)

	assert.Equal(t, map[string]string{"a": "3", "b": "2"}, ps.Map())
}
