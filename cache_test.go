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

func TestPackageCacheInsertLookup(t *testing.T) {
	c := newPackageCache()
	p := NewPackage("foo")
	c.insert(p)
	require.True(t, p.cached)
	require.Equal(t, 2, p.Refcount())
	require.Same(t, p, c.lookup("foo"))
	require.Nil(t, c.lookup("bar"))
}

func TestPackageCaseSensitiveLookup(t *testing.T) {
	c := newPackageCache()
	c.insert(NewPackage("Foo"))
	require.NotNil(t, c.lookup("Foo"))
	require.Nil(t, c.lookup("foo"))
}

func TestPackageCacheRemove(t *testing.T) {
	c := newPackageCache()
	p := NewPackage("foo")
	c.insert(p)
	require.True(t, c.remove(p))
	require.False(t, p.cached)
	require.Nil(t, c.lookup("foo"))
	require.False(t, c.remove(p))
}

func TestPackageCacheFreeAllUnbindsMatches(t *testing.T) {
	c := newPackageCache()
	target := NewPackage("bar")
	root := NewPackage("foo")
	root.Requires = []Dependency{{Atom: "bar", match: target}}
	c.insert(root)
	c.insert(target)

	c.freeAll()

	require.Nil(t, root.Requires[0].match)
	require.Equal(t, 0, c.entries.Len())
}
