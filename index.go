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
	"strings"
	"sync"

	"rivaas.dev/pathmatch/route"
)

// reverseIndex resolves a set of parameter names to the concrete path that
// should generate a URL from them.
//
// Paths are bucketed by key-set size and, within a size, listed per key name
// in registration order. A path is indexed under every key set it can be
// generated from: its non-default variable names unioned with each non-empty
// subset of its defaulted names. A key set that omits every defaulted name is
// deliberately not indexed for that path; it belongs to a pattern that does
// not declare those variables at all.
//
// buckets and usage are built during registration and immutable once the
// owning state snapshot is published. The result cache is filled by
// concurrent readers and carried forward when registration extends the
// index: a key set resolved once keeps its answer, including a resolved
// not-found, until Reset. A racing double-compute stores the same answer
// twice and is harmless.
type reverseIndex struct {
	buckets map[int]map[string][]*route.Path
	usage   map[string]int
	cache   *sync.Map // sorted key-set string -> cacheEntry
}

// cacheEntry is a memoized lookup result. A nil path records a resolved
// not-found, so repeated misses skip the bucket scan too.
type cacheEntry struct {
	path *route.Path
}

// newReverseIndex creates an index. A non-nil cache carries memoized results
// over from the index this one supersedes.
func newReverseIndex(cache *sync.Map) *reverseIndex {
	if cache == nil {
		cache = &sync.Map{}
	}
	return &reverseIndex{
		buckets: make(map[int]map[string][]*route.Path),
		usage:   make(map[string]int),
		cache:   cache,
	}
}

// register indexes one concrete path under all of its generatable key sets
// and counts its variable names toward the significant-name set.
func (ix *reverseIndex) register(p *route.Path) {
	for _, name := range p.DynamicNames() {
		ix.usage[name]++
	}

	defaulted := p.DefaultedNames()
	defaultedSet := make(map[string]bool, len(defaulted))
	for _, name := range defaulted {
		defaultedSet[name] = true
	}
	var required []string
	for _, name := range p.DynamicNames() {
		if !defaultedSet[name] {
			required = append(required, name)
		}
	}

	if len(defaulted) == 0 {
		ix.add(required, p)
		return
	}
	for mask := 1; mask < 1<<len(defaulted); mask++ {
		keys := make([]string, len(required), len(required)+len(defaulted))
		copy(keys, required)
		for bit := 0; bit < len(defaulted); bit++ {
			if mask&(1<<bit) != 0 {
				keys = append(keys, defaulted[bit])
			}
		}
		ix.add(keys, p)
	}
}

// add records the path once per (size, name) slot of one key set.
func (ix *reverseIndex) add(keys []string, p *route.Path) {
	if len(keys) == 0 {
		return
	}
	byName := ix.buckets[len(keys)]
	if byName == nil {
		byName = make(map[string][]*route.Path)
		ix.buckets[len(keys)] = byName
	}
	for _, name := range keys {
		list := byName[name]
		// Sibling key sets of the same size slot the path consecutively.
		if len(list) > 0 && list[len(list)-1] == p {
			continue
		}
		byName[name] = append(list, p)
	}
}

// significant reports whether any registered path binds the name.
func (ix *reverseIndex) significant(name string) bool {
	return ix.usage[name] > 0
}

// find resolves a sorted set of significant names to a concrete path,
// consulting and populating the memoized cache. The path is nil for
// not-found; cached reports whether the answer was memoized.
func (ix *reverseIndex) find(relevant []string) (path *route.Path, cached bool) {
	key := strings.Join(relevant, "\x1f")
	if v, ok := ix.cache.Load(key); ok {
		return v.(cacheEntry).path, true
	}
	p := ix.lookup(relevant)
	ix.cache.Store(key, cacheEntry{path: p})
	return p, false
}

// lookup scans buckets from the most specific size downward. A path needing
// more of the caller's names is preferred over one that also happens to work
// with fewer; ties within a bucket fall to the first-registered path.
func (ix *reverseIndex) lookup(relevant []string) *route.Path {
	set := make(map[string]struct{}, len(relevant))
	for _, name := range relevant {
		set[name] = struct{}{}
	}
	for size := len(relevant); size >= 1; size-- {
		byName := ix.buckets[size]
		if byName == nil {
			continue
		}
		for _, name := range relevant {
			for _, p := range byName[name] {
				if p.CanGenerateFrom(set) {
					return p
				}
			}
		}
	}
	return nil
}
