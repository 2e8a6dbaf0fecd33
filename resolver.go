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

import (
	"os"
	"path/filepath"
	"strings"

	"github.com/golang/glog"
)

// Find resolves name to a Package following the five-step procedure of
// spec.md section 4.8, grounded on the teacher's dep.go buildPlan
// traversal generalized from a build-rule graph to a package dependency
// graph.
func (c *Client) Find(name string) (*Package, ErrorFlags) {
	if strings.HasSuffix(name, ".pc") {
		p, errs := c.parseFile(name, strings.TrimSuffix(filepath.Base(name), ".pc"))
		if errs == ErrOK {
			c.SearchPath.Add(filepath.Dir(name), true)
		}
		return p, errs
	}

	if b, ok := c.builtins[name]; ok {
		return b, ErrOK
	}

	if !c.Flags.Has(NoCache) {
		if p := c.cache.lookup(name); p != nil {
			glog.V(2).Infof("pkgconfig: cache hit for %s", name)
			return p, ErrOK
		}
	}

	for _, dir := range c.SearchPath.Dirs() {
		if c.Flags.Has(ConsiderUninstalled) {
			path := filepath.Join(dir, name+"-uninstalled.pc")
			if p, errs := c.tryParse(path, name); p != nil {
				p.uninstalled = true
				return c.afterFind(p, errs)
			}
		}
		path := filepath.Join(dir, name+".pc")
		if p, errs := c.tryParse(path, name); p != nil {
			return c.afterFind(p, errs)
		}
	}

	return nil, ErrPackageNotFound
}

func (c *Client) afterFind(p *Package, errs ErrorFlags) (*Package, ErrorFlags) {
	if errs == ErrOK && !c.Flags.Has(NoCache) {
		c.cache.insert(p)
	}
	return p, errs
}

// tryParse attempts to parse path as id, returning (nil, ErrOK) if the
// file does not exist (not an error, just a miss for this search
// directory) rather than surfacing a not-found condition for every
// directory probed.
func (c *Client) tryParse(path, id string) (*Package, ErrorFlags) {
	if _, err := os.Stat(path); err != nil {
		return nil, ErrOK
	}
	return c.parseFile(path, id)
}

// parseFile is the "per-package parse entry point" of spec.md section
// 4.8: it opens filename, pre-binds pcfiledir, runs the parser and
// required-field validator, and forwards every diagnostic event to this
// client's sinks.
func (c *Client) parseFile(filename, id string) (*Package, ErrorFlags) {
	f, err := os.Open(filename)
	if err != nil {
		c.dispatch(Event{Severity: SeverityError, Code: ErrPackageNotFound, Filename: filename, Message: err.Error()})
		return nil, ErrPackageNotFound
	}
	defer f.Close()

	pcfiledir := filepath.Dir(filename)
	c.trace(filename, 0, "parsing %s", filename)
	p, errs, events := parsePackage(f, id, filename, pcfiledir, c.Globals, c.parseOptionsFor())
	for _, ev := range events {
		c.dispatch(ev)
	}
	return p, errs
}

// traverseState threads per-call-tree configuration through Traverse
// without reaching for client-wide mutable flags (spec.md section 9's
// "thread state explicitly" design note), and accumulates the conflict-
// checking "resolved set" described in spec.md section 4.8.
type traverseState struct {
	client         *Client
	resolved       map[string]*Package
	visited        []*Package
	errs           ErrorFlags
	filterInternal bool
}

// Traverse walks the dependency DAG rooted at root, in pre-order,
// left-to-right within each Requires/Requires.private list, per spec.md section
// 4.8 and the ordering guarantees of section 5. visit is called once per
// package reached, with private indicating whether this frame was
// reached through a Requires.private edge.
func (c *Client) Traverse(root *Package, visit func(pkg *Package, private bool), maxdepth int) ErrorFlags {
	return c.traverse(root, visit, maxdepth, false)
}

func (c *Client) traverse(root *Package, visit func(pkg *Package, private bool), maxdepth int, filterInternal bool) ErrorFlags {
	st := &traverseState{client: c, resolved: map[string]*Package{root.ID: root}, filterInternal: filterInternal}
	st.walk(root, visit, maxdepth, false)

	// Conflict checking runs once the whole graph has been resolved
	// (spec.md section 4.8): a conflict named anywhere in the graph must
	// be caught even if the conflicting package is only reached by a
	// sibling Requires entry visited later than the package declaring
	// the conflict.
	if !c.Flags.Has(SkipConflicts) {
		for _, p := range st.visited {
			st.checkConflicts(p)
		}
	}
	return st.errs
}

func (st *traverseState) walk(p *Package, visit func(*Package, bool), maxdepth int, private bool) {
	if maxdepth == 0 {
		return
	}
	if p != nil && p.seen && !p.isBuiltin {
		return
	}
	if p.isBuiltin {
		visit(p, private)
		return
	}
	p.seen = true
	defer func() { p.seen = false }()

	visit(p, private)
	st.visited = append(st.visited, p)

	st.walkDeps(ptrSlice(p.Requires), visit, maxdepth, private)

	// Requires.private is only walked wholesale when SEARCH_PRIVATE is
	// set (static-link mode). Requires.internal deps are an exception:
	// they exist specifically so a package can expose extra cflags
	// regardless of linkage mode, so they are always offered to
	// walkDeps; filterInternal (set by Cflags per the "don't filter
	// internal cflags" flag) is what actually decides whether they get
	// walked.
	if st.client.Flags.Has(SearchPrivate) {
		st.walkDeps(ptrSlice(p.RequiresPrivate), visit, maxdepth, true)
	} else {
		st.walkDeps(internalDepsOnly(p.RequiresPrivate), visit, maxdepth, true)
	}
}

func ptrSlice(deps []Dependency) []*Dependency {
	out := make([]*Dependency, len(deps))
	for i := range deps {
		out[i] = &deps[i]
	}
	return out
}

func internalDepsOnly(deps []Dependency) []*Dependency {
	var out []*Dependency
	for i := range deps {
		if deps[i].Internal {
			out = append(out, &deps[i])
		}
	}
	return out
}

func (st *traverseState) checkConflicts(p *Package) {
	for _, conflict := range p.Conflicts {
		target, ok := st.resolved[conflict.Atom]
		if !ok {
			continue
		}
		if conflict.Comparator.Satisfies(target.Version, conflict.Version) {
			st.errs |= ErrPackageConflict
			st.client.dispatch(Event{
				Severity: SeverityError,
				Code:     ErrPackageConflict,
				Filename: p.Filename,
				Message:  "package " + p.ID + " conflicts with " + target.ID,
			})
		}
	}
}

func (st *traverseState) walkDeps(deps []*Dependency, visit func(*Package, bool), maxdepth int, private bool) {
	for _, dep := range deps {
		if dep.Internal && st.filterInternal {
			continue
		}
		target := dep.match
		if target == nil {
			found, errs := st.client.Find(dep.Atom)
			if found == nil {
				st.errs |= ErrPackageNotFound
				if !st.client.Flags.Has(SkipErrors) {
					return
				}
				continue
			}
			if !dep.Comparator.Satisfies(found.Version, dep.Version) {
				st.errs |= ErrPackageVerMismatch
				if !st.client.Flags.Has(SkipErrors) {
					return
				}
			}
			_ = errs
			dep.match = found
			target = found
		}
		st.resolved[dep.Atom] = target
		st.walk(target, visit, maxdepth-1, private)
	}
}

// Cflags collects the public (and, on a private branch when
// AddPrivateFragments is set, private) compile flags of root and its
// full dependency closure, per spec.md section 4.8.
func (c *Client) Cflags(root *Package, maxdepth int) (FragmentList, ErrorFlags) {
	var out FragmentList
	errs := c.traverse(root, func(p *Package, private bool) {
		if p.isBuiltin {
			return
		}
		out.CopyFrom(&p.Cflags, private)
		if private && c.Flags.Has(AddPrivateFragments) {
			out.CopyFrom(&p.CflagsPrivate, private)
		}
	}, maxdepth, !c.Flags.Has(DontFilterInternalCflags))
	return out, errs
}

// Libs collects the link flags of root and its full dependency closure,
// per spec.md section 4.8.
func (c *Client) Libs(root *Package, maxdepth int) (FragmentList, ErrorFlags) {
	var out FragmentList
	errs := c.Traverse(root, func(p *Package, private bool) {
		if p.isBuiltin {
			return
		}
		out.CopyFrom(&p.Libs, private)
		if c.Flags.Has(AddPrivateFragments) {
			out.CopyFrom(&p.LibsPrivate, private)
		}
	}, maxdepth)
	return out, errs
}
