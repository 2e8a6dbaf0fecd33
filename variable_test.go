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
	"testing"

	"github.com/stretchr/testify/require"
)

func TestVarTableInterpolation(t *testing.T) {
	vt := NewVarTable()
	vt.Add(nil, "prefix", "/usr", false, sysrootConfig{})
	vt.Add(nil, "includedir", "${prefix}/include", false, sysrootConfig{})
	require.Equal(t, "/usr/include", vt.Parse(nil, "${includedir}", sysrootConfig{}))
}

func TestVarTableGlobalWinsOverLocal(t *testing.T) {
	vt := NewVarTable()
	vt.Add(nil, "prefix", "/usr", false, sysrootConfig{})
	globals := NewVarTable()
	globals.Add(nil, "prefix", "/opt/override", false, sysrootConfig{})
	require.Equal(t, "/opt/override", vt.Parse(globals, "${prefix}", sysrootConfig{}))
}

func TestVarTableUnresolvedExpandsEmpty(t *testing.T) {
	vt := NewVarTable()
	require.Equal(t, "x--y", vt.Parse(nil, "x-${missing}-y", sysrootConfig{}))
}

func TestVarTableIdentityWithoutExpansion(t *testing.T) {
	vt := NewVarTable()
	require.Equal(t, "no vars here", vt.Parse(nil, "no vars here", sysrootConfig{}))
}

func TestDequoteOnAdd(t *testing.T) {
	vt := NewVarTable()
	vt.Add(nil, "x", "'quoted value'", false, sysrootConfig{})
	require.Equal(t, "quoted value", vt["x"])
}

// TestVarTableParseTraditionalSysroot exercises spec.md section 8's
// round-trip invariant directly through VarTable.Parse ("interpolating a
// value with no ${...} occurrences is the identity ... up to sysroot
// prepending under traditional mode"), which previously only had
// coverage through the standalone applySysroot unit tests and
// fragment.go's post-split munging, never through the variable-table
// path spec.md section 4.3 requires it on.
func TestVarTableParseTraditionalSysroot(t *testing.T) {
	cfg := sysrootConfig{sysroot: "/sysroot", mode: sysrootTraditional, relocatePaths: true}
	vt := NewVarTable()
	require.Equal(t, "/sysroot/usr/lib64", vt.Parse(nil, "/usr/lib64", cfg))

	// Already prefixed: no double-prepend.
	require.Equal(t, "/sysroot/usr/lib64", vt.Parse(nil, "/sysroot/usr/lib64", cfg))
}

// TestVarTableParseSysrootThroughInterpolation verifies the sysroot
// prepend reaches a value that only becomes absolute after ${...}
// substitution resolves to a variable whose own raw definition is
// absolute, mirroring pkg_config_tuple_parse's recursive re-application
// on every nested variable lookup (spec.md section 4.3).
func TestVarTableParseSysrootThroughInterpolation(t *testing.T) {
	cfg := sysrootConfig{sysroot: "/sysroot", mode: sysrootTraditional, relocatePaths: true}
	vt := NewVarTable()
	vt.Add(nil, "prefix", "/usr", false, cfg)
	vt.Add(nil, "libdir", "${prefix}/lib", false, cfg)
	require.Equal(t, "/sysroot/usr/lib", vt.Parse(nil, "${libdir}", cfg))
}

// TestVarTableParseFreedesktopSysroot exercises the freedesktop-mode
// half of the same invariant: no prepending happens up front, but a
// doubled sysroot left over from ${pc_sysrootdir}-style expansion is
// stripped once substitution completes.
func TestVarTableParseFreedesktopSysroot(t *testing.T) {
	cfg := sysrootConfig{sysroot: "/sysroot", mode: sysrootFreedesktop, relocatePaths: true}
	vt := NewVarTable()
	vt.Add(nil, "sysrootdir", "/sysroot", false, cfg)
	require.Equal(t, "/sysroot/usr/include", vt.Parse(nil, "${sysrootdir}/sysroot/usr/include", cfg))
}

func TestApplySysrootTraditional(t *testing.T) {
	got := applySysroot("/usr/include", "/sysroot", sysrootTraditional, true)
	require.Equal(t, "/sysroot/usr/include", got)

	got = applySysroot("/sysroot/usr/include", "/sysroot", sysrootTraditional, true)
	require.Equal(t, "/sysroot/usr/include", got)

	got = applySysroot("relative", "/sysroot", sysrootTraditional, true)
	require.Equal(t, "relative", got)
}

func TestApplySysrootFreedesktopStripsDoubled(t *testing.T) {
	got := applySysroot("/sysroot/sysroot/usr/include", "/sysroot", sysrootFreedesktop, true)
	require.Equal(t, "/sysroot/usr/include", got)

	got = applySysroot("/sysroot/usr/include", "/sysroot", sysrootFreedesktop, true)
	require.Equal(t, "/sysroot/usr/include", got)
}

func TestApplySysrootNoSysroot(t *testing.T) {
	require.Equal(t, "/usr/include", applySysroot("/usr/include", "", sysrootTraditional, true))
}
