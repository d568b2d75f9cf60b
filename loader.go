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
	"bytes"
	"fmt"
	"io"
	"os"

	"gopkg.in/yaml.v3"
)

// RouteTable is a declarative route configuration, typically loaded from a
// YAML document:
//
//	routes:
//	  - pattern: /users/:id(.:format)
//	    name: user
//	    requirements:
//	      id: '\d+'
//	    defaults:
//	      format: html
//	    conditions:
//	      method: GET
//	    destination: users#show
type RouteTable struct {
	Routes []RouteEntry `yaml:"routes"`
}

// RouteEntry is one declarative route. Destination is limited to a string
// payload; routes carrying richer payloads are registered through Add.
type RouteEntry struct {
	Pattern      string            `yaml:"pattern"`
	Name         string            `yaml:"name,omitempty"`
	Requirements map[string]string `yaml:"requirements,omitempty"`
	Defaults     map[string]string `yaml:"defaults,omitempty"`
	Conditions   map[string]string `yaml:"conditions,omitempty"`
	Destination  string            `yaml:"destination,omitempty"`
}

// ParseRouteTable decodes a YAML route table. Unknown fields are rejected so
// a typo in a table fails loudly instead of silently dropping an option.
func ParseRouteTable(data []byte) (*RouteTable, error) {
	dec := yaml.NewDecoder(bytes.NewReader(data))
	dec.KnownFields(true)

	var table RouteTable
	if err := dec.Decode(&table); err != nil {
		if err == io.EOF {
			return &RouteTable{}, nil
		}
		return nil, fmt.Errorf("parse route table: %w", err)
	}
	for i, entry := range table.Routes {
		if entry.Pattern == "" {
			return nil, fmt.Errorf("parse route table: route %d has no pattern", i)
		}
	}
	return &table, nil
}

// LoadTable registers every entry of the table, in order. Registration stops
// at the first failing entry; entries registered before it stay registered,
// matching Add's per-route atomicity.
func (r *Router) LoadTable(table *RouteTable) error {
	for _, entry := range table.Routes {
		opts := make([]AddOption, 0, 4)
		for name, pattern := range entry.Requirements {
			opts = append(opts, Where(name, pattern))
		}
		for name, value := range entry.Defaults {
			opts = append(opts, Default(name, value))
		}
		for kind, value := range entry.Conditions {
			opts = append(opts, When(kind, value))
		}
		if entry.Name != "" {
			opts = append(opts, Named(entry.Name))
		}
		if entry.Destination != "" {
			opts = append(opts, To(entry.Destination))
		}
		if _, err := r.Add(entry.Pattern, opts...); err != nil {
			return fmt.Errorf("route %q: %w", entry.Pattern, err)
		}
	}
	return nil
}

// LoadYAML parses a YAML route table and registers its routes.
func (r *Router) LoadYAML(data []byte) error {
	table, err := ParseRouteTable(data)
	if err != nil {
		return err
	}
	return r.LoadTable(table)
}

// LoadFile reads a YAML route table from disk and registers its routes.
func (r *Router) LoadFile(path string) error {
	data, err := os.ReadFile(path)
	if err != nil {
		return fmt.Errorf("read route table: %w", err)
	}
	return r.LoadYAML(data)
}
