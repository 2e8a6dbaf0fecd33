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

// builtinRefcount is the negative refcount sentinel spec.md section 3
// assigns to static/built-in packages: reference and release are no-ops
// and mutation is forbidden.
const builtinRefcount = -1

// Package is the parsed representation of one .pc file (spec.md
// section 3).
type Package struct {
	ID          string // filename stem, case-preserved
	Name        string // "realname" from the Name: keyword
	Description string
	Version     string

	Filename  string
	PCFileDir string

	Requires        []Dependency
	RequiresPrivate []Dependency
	Conflicts       []Dependency

	Cflags        FragmentList
	CflagsPrivate FragmentList
	Libs          FragmentList
	LibsPrivate   FragmentList

	Vars VarTable

	refcount    int
	cached      bool
	uninstalled bool
	seen        bool
	isBuiltin   bool
}

// NewPackage returns an empty, heap-owned package with refcount 1.
func NewPackage(id string) *Package {
	return &Package{ID: id, Vars: NewVarTable(), refcount: 1}
}

// NewBuiltinPackage returns an immutable package with the negative
// refcount sentinel of spec.md section 3 ("Built-in package").
func NewBuiltinPackage(id string) *Package {
	p := NewPackage(id)
	p.refcount = builtinRefcount
	p.isBuiltin = true
	return p
}

// Ref increments the reference count. It is a no-op for built-in
// packages, per spec.md section 5's "reference and release operations
// are no-ops for them".
func (p *Package) Ref() *Package {
	if p == nil || p.isBuiltin {
		return p
	}
	p.refcount++
	return p
}

// Unref decrements the reference count, returning true if this call
// dropped the package to zero references (the caller should then
// discard it). Again a no-op for built-ins.
func (p *Package) Unref() bool {
	if p == nil || p.isBuiltin {
		return false
	}
	p.refcount--
	return p.refcount <= 0
}

// Refcount reports the current reference count.
func (p *Package) Refcount() int { return p.refcount }

// IsComplete reports whether the required fields of spec.md section 4.6
// ("Required fields after parsing: Name, Description, Version") are all
// present.
func (p *Package) IsComplete() bool {
	return p.Name != "" && p.Description != "" && p.Version != ""
}
