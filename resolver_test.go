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
	"testing"

	"github.com/stretchr/testify/require"
)

func writePC(t *testing.T, dir, name, content string) {
	t.Helper()
	require.NoError(t, os.WriteFile(filepath.Join(dir, name), []byte(content), 0o644))
}

func newTestClient(t *testing.T, dir string) *Client {
	t.Helper()
	c := NewClient()
	c.SearchPath.Add(dir, true)
	return c
}

func TestResolverFindMinimal(t *testing.T) {
	dir := t.TempDir()
	writePC(t, dir, "foo.pc", "Name: Foo\nDescription: d\nVersion: 1.0\n")
	c := newTestClient(t, dir)

	p, errs := c.Find("foo")
	require.Equal(t, ErrOK, errs)
	require.Equal(t, "Foo", p.Name)
}

func TestResolverFindCaches(t *testing.T) {
	dir := t.TempDir()
	writePC(t, dir, "foo.pc", "Name: Foo\nDescription: d\nVersion: 1.0\n")
	c := newTestClient(t, dir)

	p1, _ := c.Find("foo")
	p2, _ := c.Find("foo")
	require.Same(t, p1, p2)
}

func TestResolverFindNotFound(t *testing.T) {
	c := newTestClient(t, t.TempDir())
	p, errs := c.Find("nope")
	require.Nil(t, p)
	require.True(t, errs.Has(ErrPackageNotFound))
}

func TestResolverFindLiteralPCFile(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, "foo.pc")
	writePC(t, dir, "foo.pc", "Name: Foo\nDescription: d\nVersion: 1.0\n")
	c := NewClient()

	p, errs := c.Find(path)
	require.Equal(t, ErrOK, errs)
	require.Equal(t, "Foo", p.Name)
	require.True(t, c.SearchPath.Match(dir))
}

func TestResolverDependencyResolutionWithVersion(t *testing.T) {
	dir := t.TempDir()
	writePC(t, dir, "a.pc", "Name: A\nDescription: d\nVersion: 1.0\nRequires: b >= 2.0\n")
	writePC(t, dir, "b.pc", "Name: B\nDescription: d\nVersion: 2.5\nCflags: -I/b/include\n")
	c := newTestClient(t, dir)

	root, errs := c.Find("a")
	require.Equal(t, ErrOK, errs)

	cflags, errs := c.Cflags(root, 64)
	require.Equal(t, ErrOK, errs)
	require.Equal(t, "-I/b/include", cflags.Render())
}

func TestResolverDependencyVersionMismatch(t *testing.T) {
	dir := t.TempDir()
	writePC(t, dir, "a.pc", "Name: A\nDescription: d\nVersion: 1.0\nRequires: b >= 3.0\n")
	writePC(t, dir, "b.pc", "Name: B\nDescription: d\nVersion: 2.5\n")
	c := newTestClient(t, dir)

	root, _ := c.Find("a")
	_, errs := c.Cflags(root, 64)
	require.True(t, errs.Has(ErrPackageVerMismatch))
}

func TestResolverConflictDetection(t *testing.T) {
	dir := t.TempDir()
	writePC(t, dir, "a.pc", "Name: A\nDescription: d\nVersion: 1.0\nRequires: b\nConflicts: b < 2\n")
	writePC(t, dir, "b.pc", "Name: B\nDescription: d\nVersion: 1.5\n")
	c := newTestClient(t, dir)

	root, _ := c.Find("a")
	_, errs := c.Cflags(root, 64)
	require.True(t, errs.Has(ErrPackageConflict))
}

func TestResolverSkipConflicts(t *testing.T) {
	dir := t.TempDir()
	writePC(t, dir, "a.pc", "Name: A\nDescription: d\nVersion: 1.0\nRequires: b\nConflicts: b < 2\n")
	writePC(t, dir, "b.pc", "Name: B\nDescription: d\nVersion: 1.5\n")
	c := newTestClient(t, dir)
	c.SetFlags(SkipConflicts)

	root, _ := c.Find("a")
	_, errs := c.Cflags(root, 64)
	require.False(t, errs.Has(ErrPackageConflict))
}

func TestResolverPrivateLinkage(t *testing.T) {
	dir := t.TempDir()
	writePC(t, dir, "a.pc", "Name: A\nDescription: d\nVersion: 1.0\nRequires.private: b\nLibs: -la\n")
	writePC(t, dir, "b.pc", "Name: B\nDescription: d\nVersion: 1.0\nLibs: -lb\n")
	c := newTestClient(t, dir)
	c.SetFlags(SearchPrivate)

	root, _ := c.Find("a")
	libs, errs := c.Cflags(root, 64)
	_ = libs
	require.Equal(t, ErrOK, errs)

	libsOut, errs := c.Libs(root, 64)
	require.Equal(t, ErrOK, errs)
	require.Equal(t, "-la -lb", libsOut.Render())
}

func TestResolverPrivateLinkageRequiresSearchPrivateFlag(t *testing.T) {
	dir := t.TempDir()
	writePC(t, dir, "a.pc", "Name: A\nDescription: d\nVersion: 1.0\nRequires.private: b\nLibs: -la\n")
	writePC(t, dir, "b.pc", "Name: B\nDescription: d\nVersion: 1.0\nLibs: -lb\n")
	c := newTestClient(t, dir)

	root, _ := c.Find("a")
	libs, errs := c.Libs(root, 64)
	require.Equal(t, ErrOK, errs)
	require.Equal(t, "-la", libs.Render())
}

func TestResolverBuiltinPkgConfigPackage(t *testing.T) {
	c := NewClient()
	p, errs := c.Find("pkg-config")
	require.Equal(t, ErrOK, errs)
	require.Equal(t, builtinRefcount, p.Refcount())
}

func TestResolverInternalDepsFilteredFromCflagsByDefault(t *testing.T) {
	dir := t.TempDir()
	writePC(t, dir, "a.pc", "Name: A\nDescription: d\nVersion: 1.0\nRequires.internal: b\n")
	writePC(t, dir, "b.pc", "Name: B\nDescription: d\nVersion: 1.0\nCflags: -I/b\n")
	c := newTestClient(t, dir)

	root, _ := c.Find("a")
	cflags, errs := c.Cflags(root, 64)
	require.Equal(t, ErrOK, errs)
	require.Equal(t, "", cflags.Render())
}

func TestResolverInternalDepsIncludedWhenFlagSet(t *testing.T) {
	dir := t.TempDir()
	writePC(t, dir, "a.pc", "Name: A\nDescription: d\nVersion: 1.0\nRequires.internal: b\n")
	writePC(t, dir, "b.pc", "Name: B\nDescription: d\nVersion: 1.0\nCflags: -I/b\n")
	c := newTestClient(t, dir)
	c.SetFlags(DontFilterInternalCflags)

	root, _ := c.Find("a")
	cflags, errs := c.Cflags(root, 64)
	require.Equal(t, ErrOK, errs)
	require.Equal(t, "-I/b", cflags.Render())
}
