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
	"strings"

	"github.com/golang/glog"
)

// VarTable is the "tuple list" of spec.md section 4.3: a
// key-to-value mapping (unordered) that supports ${name} interpolation of both
// package-local and client-global variables. Unlike the teacher's Vars
// (var.go), which tracks multiple make "origins" for precedence, a
// pkg-config tuple list only ever has one writer per key (later
// insertions replace earlier ones), so a plain map gives the same
// observable behavior as the original's list-based representation
// without needing origin bookkeeping.
type VarTable map[string]string

// NewVarTable returns an empty table.
func NewVarTable() VarTable { return make(VarTable) }

// Add stores value under key, replacing any prior binding. The value is
// dequoted first; if parse is set it is also interpolated immediately
// against globals (against which it will be re-interpolated lazily
// anyway, but eager parse matches the "parse?" flag of section 4.3 for
// callers who want the value fixed at assignment time). cfg carries the
// sysroot munging this client has configured, applied the same way
// Parse applies it.
func (vt VarTable) Add(globals VarTable, key, value string, parse bool, cfg sysrootConfig) {
	value = dequote(value)
	if parse {
		value = vt.parse(globals, value, nil, cfg)
	}
	vt[key] = value
}

// Raw stores value verbatim (already dequoted) without interpolating.
func (vt VarTable) Raw(key, value string) {
	vt[key] = value
}

// Parse performs the single-pass ${name} expansion of spec.md section
// 4.3: for each ${name} occurrence, prefer the client global named name,
// else use the local binding (itself interpolated recursively).
// Unresolved names expand to empty; literal text other than ${...}
// passes through unchanged. Per section 4.3's sysroot rules (and the
// original_source/libpkg-config tuple.c pkg_config_tuple_parse this is
// grounded on), cfg's sysroot munging is applied to every value this
// function produces, not just to flag arguments split out downstream in
// fragment.go: under traditional mode a value that itself begins with
// "/" is sysroot-prefixed before substitution runs (so the prefix
// recurses through nested ${name} lookups the same way the original's
// self-recursive pkg_config_tuple_parse does); under freedesktop mode a
// doubled sysroot left by substitution is stripped once substitution
// completes.
func (vt VarTable) Parse(globals VarTable, value string, cfg sysrootConfig) string {
	return vt.parse(globals, value, nil, cfg)
}

func (vt VarTable) parse(globals VarTable, value string, seen map[string]bool, cfg sysrootConfig) string {
	value = prependSysrootIfTraditional(value, cfg)

	var b strings.Builder
	i := 0
	for i < len(value) {
		if value[i] == '$' && i+1 < len(value) && value[i+1] == '{' {
			end := strings.IndexByte(value[i+2:], '}')
			if end < 0 {
				b.WriteString(value[i:])
				break
			}
			name := value[i+2 : i+2+end]
			b.WriteString(vt.resolve(globals, name, seen, cfg))
			i += 2 + end + 1
			continue
		}
		b.WriteByte(value[i])
		i++
	}
	result := b.String()

	if cfg.sysroot != "" && cfg.mode == sysrootFreedesktop {
		result = stripDoubledSysroot(result, cfg.sysroot)
	}
	if cfg.relocatePaths && cfg.sysroot != "" {
		result = relocate(result)
	}
	return result
}

func (vt VarTable) resolve(globals VarTable, name string, seen map[string]bool, cfg sysrootConfig) string {
	if seen == nil {
		seen = map[string]bool{}
	}
	if seen[name] {
		glog.Warningf("pkgconfig: variable %q recursively references itself", name)
		return ""
	}
	seen[name] = true
	defer delete(seen, name)

	// global wins: it represents the host overriding the package.
	if globals != nil {
		if v, ok := globals[name]; ok {
			return globals.parse(globals, v, seen, cfg)
		}
	}
	if v, ok := vt[name]; ok {
		return vt.parse(globals, v, seen, cfg)
	}
	return ""
}

// sysrootMode selects how interpolated absolute paths are relocated
// under a configured sysroot (spec.md section 4.3).
type sysrootMode int

const (
	sysrootTraditional sysrootMode = iota
	sysrootFreedesktop
)

// prependSysrootIfTraditional implements the traditional-mode half of
// spec.md section 4.3's sysroot rules: a value that begins with "/" and
// doesn't already start with the configured sysroot gets the sysroot
// prepended. A no-op under freedesktop mode, where the original instead
// relies on ${pc_sysrootdir} expansion and strips a doubled prefix after
// the fact (stripDoubledSysroot).
func prependSysrootIfTraditional(value string, cfg sysrootConfig) string {
	if cfg.sysroot == "" || cfg.mode != sysrootTraditional {
		return value
	}
	if strings.HasPrefix(value, "/") && !strings.HasPrefix(value, cfg.sysroot) {
		return cfg.sysroot + value
	}
	return value
}

// stripDoubledSysroot implements the freedesktop-mode half: if sysroot
// appears twice in sequence at the start of value, one copy is removed.
func stripDoubledSysroot(value, sysroot string) string {
	doubled := sysroot + sysroot
	if strings.HasPrefix(value, doubled) {
		return value[len(sysroot):]
	}
	return value
}

// applySysroot implements the two sysroot prepending modes. value is the
// already-interpolated string; sysroot is empty when the client has none
// configured. Used by fragment.go's mungeSysroot to re-apply the same
// munging to individual flag arguments once they've been split out of
// an interpolated Cflags/Libs value, matching the original's
// fragment.c, which munges sysroot independently of tuple.c's
// variable-level munging (both layers are harmless to apply together,
// since prepending is a no-op once the prefix is already present).
func applySysroot(value, sysroot string, mode sysrootMode, relocatePaths bool) string {
	if sysroot == "" {
		return value
	}
	cfg := sysrootConfig{sysroot: sysroot, mode: mode}
	switch mode {
	case sysrootTraditional:
		value = prependSysrootIfTraditional(value, cfg)
	case sysrootFreedesktop:
		value = stripDoubledSysroot(value, sysroot)
	}
	if relocatePaths {
		value = relocate(value)
	}
	return value
}
