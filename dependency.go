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

// Dependency is one (package-atom, comparator, version?) entry parsed
// from a Requires/Requires.private/Requires.internal/Conflicts value
// (spec.md section 4.6).
type Dependency struct {
	Atom       string
	Comparator Comparator
	Version    string
	Internal   bool

	// match memoizes the package this dependency resolved to, so a
	// repeated encounter during traversal doesn't re-run Find. It is a
	// weak reference in spirit: cache teardown must null every match
	// slot before releasing packages (spec.md section 9's "Reference-
	// counted packages with cycles through match" design note).
	match *Package
}

// dep parser states, spec.md section 4.6's deterministic state machine.
type depParseState int

const (
	stateOutside depParseState = iota
	stateInName
	stateBeforeOp
	stateInOp
	stateAfterOp
	stateInVersion
)

func isDepSep(c byte) bool { return isWhitespace(c) || c == ',' }

func isOpChar(c byte) bool {
	switch c {
	case '<', '>', '!', '=':
		return true
	}
	return false
}

// parseDependencyList parses the grammar of spec.md section 4.6:
//
//	modules := (SEP* module)*
//	module  := atom (op version)?
//
// internal marks every produced Dependency as Requires.internal-sourced.
// existing is the destination list the parsed dependencies are appended
// onto (the same slice a package's Requires/Requires.private/Conflicts
// field already holds from earlier keyword lines): the collision rule
// in appendDependency must run against that whole running list, not just
// against the tokens parsed from this one line, matching
// original_source/libpkg-config/libpkg-config/pkg.c's
// pkg_config_pkg_parser_dependency_func, which always parses into the
// same `dest` list across every line naming that keyword (Requires.private
// and Requires.internal share one list, the `requires_private`
// destination).
func parseDependencyList(existing []Dependency, s string, internal bool) []Dependency {
	deps := existing
	state := stateOutside
	var atom, op, version string

	flush := func() {
		if atom == "" {
			return
		}
		cmp := ComparatorAny
		if op != "" {
			cmp = parseComparator(op)
		}
		d := Dependency{Atom: atom, Comparator: cmp, Internal: internal}
		if cmp != ComparatorAny {
			d.Version = version
		}
		deps = appendDependency(deps, d)
		atom, op, version = "", "", ""
	}

	i := 0
	n := len(s)
	for i < n {
		c := s[i]
		switch state {
		case stateOutside:
			if isDepSep(c) {
				i++
				continue
			}
			state = stateInName
		case stateInName:
			if isWhitespace(c) {
				state = stateBeforeOp
				i++
				continue
			}
			if c == ',' {
				flush()
				state = stateOutside
				i++
				continue
			}
			atom += string(c)
			i++
		case stateBeforeOp:
			if isWhitespace(c) {
				i++
				continue
			}
			if c == ',' {
				flush()
				state = stateOutside
				i++
				continue
			}
			if isOpChar(c) {
				state = stateInOp
				continue
			}
			// Another atom starts: finish the previous module with no
			// version constraint.
			flush()
			state = stateInName
		case stateInOp:
			if isOpChar(c) {
				op += string(c)
				i++
				continue
			}
			state = stateAfterOp
		case stateAfterOp:
			if isWhitespace(c) {
				i++
				continue
			}
			state = stateInVersion
		case stateInVersion:
			if isDepSep(c) {
				flush()
				state = stateOutside
				i++
				continue
			}
			version += string(c)
			i++
		}
	}
	flush()
	return deps
}

// appendDependency applies the collision rule of spec.md section 4.6,
// grounded on original_source/libpkg-config/dependency.c's
// find_colliding_dependency/add_or_replace_dependency_node: a collision
// is keyed purely on the Requires.internal tag ("flags" in the C
// source), never on the comparator. Two same-atom dependencies collide
// only when exactly one of them is Internal; the non-internal
// ("uncoloured") one always wins, regardless of which was inserted
// first. Two same-atom dependencies with the same Internal-ness never
// collide and are both kept unconditionally; that is what actually
// makes "Requires: foo > 1, foo < 3" keep both entries, not anything
// about the comparator.
func appendDependency(deps []Dependency, d Dependency) []Dependency {
	for i, existing := range deps {
		if existing.Atom != d.Atom || existing.Internal == d.Internal {
			continue
		}
		if d.Internal {
			// The new, internal-tagged dependency loses to the existing
			// uncoloured one: drop it.
			return deps
		}
		// The new dependency is uncoloured; it replaces the existing
		// internal-tagged one.
		deps = append(deps[:i:i], deps[i+1:]...)
		return append(deps, d)
	}
	return append(deps, d)
}
