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
	"runtime"
	"strings"

	"github.com/golang/glog"
)

// pathSeparator is the platform path-list separator: ';' on Windows,
// ':' everywhere else (spec.md section 6).
func pathSeparator() byte {
	if runtime.GOOS == "windows" {
		return ';'
	}
	return ':'
}

// fileid identifies a directory by device+inode, the same key the
// teacher's fsCacheT uses to dedupe directory entries (pathutil.go).
// PathList uses it to catch two different-looking paths that are really
// the same directory (e.g. one reached through a symlink).
type fileid struct {
	dev, ino uint64
}

var invalidFileid = fileid{}

func statFileid(path string) (fileid, bool) {
	info, err := os.Stat(path)
	if err != nil {
		return invalidFileid, false
	}
	id, ok := sameFileID(info)
	return id, ok
}

// PathEntry is one directory in a PathList.
type PathEntry struct {
	Dir string
	id  fileid
	has bool
}

// PathList is the cross-platform directory-list primitive of spec.md
// section 4.2: an ordered sequence of directories with duplicate
// suppression by literal string and, where stat is available, by
// device/inode.
type PathList struct {
	entries []PathEntry
}

// relocate collapses duplicate separators and trims surrounding
// whitespace, mirroring the relocate step spec.md section 4.2 requires
// on every path-list input.
func relocate(text string) string {
	text = strings.TrimSpace(text)
	var b strings.Builder
	lastSlash := false
	for i := 0; i < len(text); i++ {
		c := text[i]
		if c == '/' || c == '\\' {
			if lastSlash {
				continue
			}
			lastSlash = true
		} else {
			lastSlash = false
		}
		b.WriteByte(c)
	}
	return b.String()
}

// Add appends text as one directory. When filter is true, text is
// skipped if an equivalent directory (by string, or by device/inode when
// stat succeeds for both) is already present.
func (pl *PathList) Add(text string, filter bool) {
	dir := relocate(text)
	if dir == "" {
		return
	}
	if filter && pl.Match(dir) {
		glog.V(2).Infof("pathlist: skip duplicate %q", dir)
		return
	}
	id, has := statFileid(dir)
	pl.entries = append(pl.entries, PathEntry{Dir: dir, id: id, has: has})
}

// Split adds every directory in text, separated by the platform path
// separator, applying the same filtering Add does.
func (pl *PathList) Split(text string, filter bool) {
	sep := string(pathSeparator())
	for _, part := range strings.Split(text, sep) {
		if part == "" {
			continue
		}
		pl.Add(part, filter)
	}
}

// BuildFromEnv populates the list by splitting the named environment
// variable, or falling back to the supplied default list if the
// variable is unset.
func (pl *PathList) BuildFromEnv(name, fallback string, filter bool) {
	if v, ok := os.LookupEnv(name); ok {
		pl.Split(v, filter)
		return
	}
	if fallback != "" {
		pl.Split(fallback, filter)
	}
}

// Match reports whether path names a directory already present in the
// list, comparing literal strings and, where available, device/inode.
func (pl *PathList) Match(path string) bool {
	dir := relocate(path)
	id, has := statFileid(dir)
	for _, e := range pl.entries {
		if e.Dir == dir {
			return true
		}
		if has && e.has && id == e.id {
			return true
		}
	}
	return false
}

// Dirs returns the directories in insertion order.
func (pl *PathList) Dirs() []string {
	out := make([]string, len(pl.entries))
	for i, e := range pl.entries {
		out[i] = e.Dir
	}
	return out
}

// Copy returns an independent copy of the list.
func (pl *PathList) Copy() *PathList {
	cp := &PathList{entries: make([]PathEntry, len(pl.entries))}
	copy(cp.entries, pl.entries)
	return cp
}

// Len reports the number of directories in the list.
func (pl *PathList) Len() int { return len(pl.entries) }
