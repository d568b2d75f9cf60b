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

// splitter tokenizes incoming paths on the router's delimiter set.
//
// Tokenization is lossless: delimiters become their own single-character
// tokens instead of being discarded, so glob bindings can reconstruct the
// exact consumed substring, separators included. "/foo/bar.xml" with the
// default delimiters yields ["/", "foo", "/", "bar", ".", "xml"].
type splitter struct {
	delims map[byte]bool
}

func newSplitter(delims []string) *splitter {
	s := &splitter{delims: make(map[byte]bool, len(delims))}
	for _, d := range delims {
		s.delims[d[0]] = true
	}
	return s
}

// split returns the path's tokens. Adjacent delimiters produce adjacent
// single-character tokens; there are no empty tokens.
func (s *splitter) split(path string) []string {
	if path == "" {
		return nil
	}

	tokens := make([]string, 0, 8)

	start := 0
	for i := 0; i < len(path); i++ {
		if !s.delims[path[i]] {
			continue
		}
		if i > start {
			tokens = append(tokens, path[start:i])
		}
		tokens = append(tokens, path[i:i+1])
		start = i + 1
	}
	if start < len(path) {
		tokens = append(tokens, path[start:])
	}
	return tokens
}

// isSeparator reports whether a token is a single-character delimiter token.
func (s *splitter) isSeparator(token string) bool {
	return len(token) == 1 && s.delims[token[0]]
}
