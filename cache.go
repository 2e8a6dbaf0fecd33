// Copyright 2015 Google Inc. All rights reserved
//
// Licensed under the Apache License, Version 2.0 (the "License");
// you may not use this file except in compliance with the License.
// You may obtain a copy of the License at
//
//      http://www.apache.org/licenses/LICENSE-2.0
//
// Unless required by applicable law or agreed to in writing, software
// distributed under the License is distributed on an "AS IS" BASIS,
// WITHOUT WARRANTIES OR CONDITIONS OF ANY KIND, either express or implied.
// See the License for the specific language governing permissions and
// limitations under the License.

package pkgconfig

import "github.com/golang/glog"

// packageCache is the per-client package cache of spec.md section 4.7:
// an ordered list looked up by case-sensitive id equality. Grounded on
// the teacher's symtab.go (a flat, linearly-scanned symbol table) rather
// than a map, since the cache also needs ordered bulk teardown (walk
// every entry to null match back-pointers before freeing).
type packageCache struct {
	entries dlist[*Package]
}

func newPackageCache() *packageCache {
	return &packageCache{}
}

// lookup performs the linear, case-sensitive scan spec.md section 4.7
// specifies (ids are already filename-stem normalized, so no folding is
// needed).
func (c *packageCache) lookup(id string) *Package {
	var found *Package
	c.entries.Each(func(n *dnode[*Package]) {
		if found != nil {
			return
		}
		if n.value.ID == id {
			found = n.value
		}
	})
	return found
}

// insert adds p to the cache, marks it cached, and takes a reference.
func (c *packageCache) insert(p *Package) {
	p.cached = true
	p.Ref()
	c.entries.PushBack(p)
	glog.V(2).Infof("pkgconfig: cached %s", p.ID)
}

// remove drops p from the cache, clearing the cached flag and releasing
// the reference taken by insert. It reports whether p was found.
func (c *packageCache) remove(p *Package) bool {
	var target *dnode[*Package]
	c.entries.Each(func(n *dnode[*Package]) {
		if target == nil && n.value == p {
			target = n
		}
	})
	if target == nil {
		return false
	}
	c.entries.Remove(target)
	p.cached = false
	p.Unref()
	return true
}

// freeAll implements the bulk-free sequence of spec.md section 4.7:
// first null every match back-pointer reachable from a cached package's
// dependency lists (so the reference graph has no dangling cycles once
// packages start being released), then release every package, then
// empty the list.
func (c *packageCache) freeAll() {
	c.entries.Each(func(n *dnode[*Package]) {
		unbindMatches(n.value)
	})
	c.entries.Each(func(n *dnode[*Package]) {
		n.value.cached = false
		n.value.Unref()
	})
	c.entries = dlist[*Package]{}
}

func unbindMatches(p *Package) {
	for i := range p.Requires {
		p.Requires[i].match = nil
	}
	for i := range p.RequiresPrivate {
		p.RequiresPrivate[i].match = nil
	}
	for i := range p.Conflicts {
		p.Conflicts[i].match = nil
	}
}
