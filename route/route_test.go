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
	"net/url"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// seg builders for hand-assembled sequences.

func defaulted(s Segment, value string) Segment {
	s.Default = value
	s.HasDefault = true
	return s
}

func userShowSegments() []Segment {
	return []Segment{
		Separator("/"),
		Literal("users"),
		Separator("/"),
		Variable("id"),
	}
}

func TestRoute_AttachPathsAndAccessors(t *testing.T) {
	t.Parallel()

	r := New("/users/:id", Options{
		Name:        "user",
		Defaults:    map[string]string{"id": "0"},
		Conditions:  map[string]string{"method": "GET"},
		Destination: "users#show",
	})
	r.AttachPaths([][]Segment{userShowSegments()})

	assert.Equal(t, "/users/:id", r.Pattern())
	assert.Equal(t, "user", r.Name())
	assert.Equal(t, "users#show", r.Destination())
	assert.Equal(t, "GET", r.Conditions()["method"])
	require.Len(t, r.Paths(), 1)

	def, ok := r.Default("id")
	assert.True(t, ok)
	assert.Equal(t, "0", def)

	_, ok = r.Default("missing")
	assert.False(t, ok)
}

func TestRoute_Info(t *testing.T) {
	t.Parallel()

	r := New("/users/:id(.:format)", Options{Name: "user"})
	r.AttachPaths([][]Segment{
		{Separator("/"), Literal("users"), Separator("/"), Variable("id"), Separator("."), Variable("format")},
		{Separator("/"), Literal("users"), Separator("/"), Variable("id")},
	})

	info := r.Info()
	assert.Equal(t, "/users/:id(.:format)", info.Pattern)
	assert.Equal(t, "user", info.Name)
	assert.Equal(t, []string{"id", "format"}, info.Variables)
	assert.Equal(t, 2, info.PathCount)
	assert.False(t, info.Static)
}

func TestRoute_InfoStatic(t *testing.T) {
	t.Parallel()

	r := New("/about", Options{})
	r.AttachPaths([][]Segment{{Separator("/"), Literal("about")}})

	assert.True(t, r.Info().Static)
}

func TestPath_DynamicNames(t *testing.T) {
	t.Parallel()

	r := New("x", Options{})
	r.AttachPaths([][]Segment{{
		Variable("a"),
		Separator("/"),
		Glob("rest", false),
		Separator("/"),
		Variable("a"), // repeated name counts once
	}})

	p := r.Paths()[0]
	assert.Equal(t, []string{"a", "rest"}, p.DynamicNames())
	assert.True(t, p.Uses("a"))
	assert.True(t, p.Uses("rest"))
	assert.False(t, p.Uses("b"))
}

func TestPath_DefaultedNames(t *testing.T) {
	t.Parallel()

	r := New("x", Options{})
	r.AttachPaths([][]Segment{{
		Variable("controller"),
		Separator("/"),
		defaulted(Variable("action"), "index"),
	}})

	p := r.Paths()[0]
	assert.Equal(t, []string{"action"}, p.DefaultedNames())
}

func names(list ...string) map[string]struct{} {
	out := make(map[string]struct{}, len(list))
	for _, n := range list {
		out[n] = struct{}{}
	}
	return out
}

func TestPath_CanGenerateFrom(t *testing.T) {
	t.Parallel()

	r := New("x", Options{})
	r.AttachPaths([][]Segment{{
		Variable("controller"),
		Separator("/"),
		Variable("action"),
		Separator("/"),
		defaulted(Variable("id"), "1"),
	}})
	p := r.Paths()[0]

	tests := []struct {
		name string
		set  map[string]struct{}
		want bool
	}{
		{"all names", names("controller", "action", "id"), true},
		{"defaulted omitted", names("controller", "action"), true},
		{"required missing", names("controller", "id"), false},
		{"unknown name disqualifies", names("controller", "action", "id", "format"), false},
		{"empty set", names(), false},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()
			assert.Equal(t, tt.want, p.CanGenerateFrom(tt.set))
		})
	}
}

func TestPath_Build(t *testing.T) {
	t.Parallel()

	r := New("/users/:id", Options{})
	r.AttachPaths([][]Segment{userShowSegments()})
	p := r.Paths()[0]

	built, err := p.Build(map[string]string{"id": "42"}, nil)
	require.NoError(t, err)
	assert.Equal(t, "/users/42", built)
}

func TestPath_BuildEscapesSingleVariables(t *testing.T) {
	t.Parallel()

	r := New("/users/:id", Options{})
	r.AttachPaths([][]Segment{userShowSegments()})
	p := r.Paths()[0]

	built, err := p.Build(map[string]string{"id": "a b/c"}, nil)
	require.NoError(t, err)
	assert.Equal(t, "/users/a%20b%2Fc", built)
}

func TestPath_BuildGlobVerbatim(t *testing.T) {
	t.Parallel()

	r := New("/files/*path", Options{})
	r.AttachPaths([][]Segment{{
		Separator("/"), Literal("files"), Separator("/"), Glob("path", false),
	}})
	p := r.Paths()[0]

	built, err := p.Build(map[string]string{"path": "docs/2025/report.pdf"}, nil)
	require.NoError(t, err)
	assert.Equal(t, "/files/docs/2025/report.pdf", built)
}

func TestPath_BuildUsesDefault(t *testing.T) {
	t.Parallel()

	r := New("x", Options{})
	r.AttachPaths([][]Segment{{
		Separator("/"),
		Variable("controller"),
		Separator("/"),
		defaulted(Variable("action"), "index"),
	}})
	p := r.Paths()[0]

	built, err := p.Build(map[string]string{"controller": "posts"}, nil)
	require.NoError(t, err)
	assert.Equal(t, "/posts/index", built)
}

func TestPath_BuildMissingParameter(t *testing.T) {
	t.Parallel()

	r := New("/users/:id", Options{})
	r.AttachPaths([][]Segment{userShowSegments()})
	p := r.Paths()[0]

	_, err := p.Build(nil, nil)
	require.Error(t, err)
	assert.ErrorIs(t, err, ErrMissingParameter)
}

func TestPath_BuildAppendsQuery(t *testing.T) {
	t.Parallel()

	r := New("/users/:id", Options{})
	r.AttachPaths([][]Segment{userShowSegments()})
	p := r.Paths()[0]

	built, err := p.Build(map[string]string{"id": "7"}, url.Values{"ref": {"nav"}})
	require.NoError(t, err)
	assert.Equal(t, "/users/7?ref=nav", built)
}

func TestPath_BuildSkipsConditionSegments(t *testing.T) {
	t.Parallel()

	r := New("/users/:id", Options{})
	r.AttachPaths([][]Segment{append([]Segment{Condition("method", "GET")}, userShowSegments()...)})
	p := r.Paths()[0]

	built, err := p.Build(map[string]string{"id": "7"}, nil)
	require.NoError(t, err)
	assert.Equal(t, "/users/7", built)
}
