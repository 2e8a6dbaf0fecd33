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

// specialType is the sentinel fragment type for "opaque"/unmergeable
// arguments (spec.md section 4.4).
const specialType = 0

// Fragment is one (type, data) compiler or linker argument, or a merged
// group of such arguments (spec.md section 4.4).
type Fragment struct {
	Type   byte
	Data   string
	Merged bool
}

func (f Fragment) isPathType() bool {
	switch f.Type {
	case 'I', 'L', 'F':
		return true
	}
	return false
}

// isPathFlagType reports the flag letters whose second token, when given
// as a separate argument ("-I /path"), is reattached to the flag instead
// of becoming its own fragment.
func isPathFlagType(t byte) bool {
	switch t {
	case 'I', 'L', 'F', 'l':
		return true
	}
	return false
}

// explicitlySpecial recognizes the literal flag forms spec.md section
// 4.4 calls out by name. In practice every one of these has a second
// character outside {I, L, F, l}, so isPathFlagType already routes them
// to the special bucket; this check exists to keep that fact explicit
// and tested rather than incidental.
func explicitlySpecial(s string) bool {
	if strings.Contains(s, " ") {
		return true
	}
	switch {
	case s == "-pthread", s == "-trigraphs", s == "-pedantic", s == "-ansi":
		return true
	case strings.HasPrefix(s, "-Wl,"),
		strings.HasPrefix(s, "-std="),
		strings.HasPrefix(s, "-stdlib="),
		strings.HasPrefix(s, "-framework"),
		strings.HasPrefix(s, "-isystem"),
		strings.HasPrefix(s, "-idirafter"),
		strings.HasPrefix(s, "-include"),
		strings.HasPrefix(s, "-nostdinc"):
		return true
	}
	return false
}

// FragmentList is the ordered sequence of compiler/linker fragments of
// spec.md section 4.4.
type FragmentList struct {
	list dlist[*Fragment]
}

// sysrootConfig carries the client state fragment munging needs, per the
// "model as a struct of configuration passed explicitly" design note in
// spec.md section 9 (no package-level globals for pc_sysrootdir etc.).
type sysrootConfig struct {
	sysroot       string
	mode          sysrootMode
	relocatePaths bool
	mergeSpecial  bool
}

func mungeSysroot(data string, cfg sysrootConfig) string {
	if data == "" {
		return data
	}
	if !strings.HasPrefix(data, "/") {
		return data
	}
	return applySysroot(data, cfg.sysroot, cfg.mode, cfg.relocatePaths)
}

// Add classifies s and appends it to fl following the rules of spec.md
// section 4.4: empty strings are ignored, a pending path-flag with no
// argument yet consumes the next token whole, "-<letter>rest" splits
// into a fragment when letter is one of I/L/F/l, and everything else is
// an unmergeable "special" fragment (optionally concatenated onto an
// immediately preceding special fragment when merging is enabled).
func (fl *FragmentList) Add(s string, cfg sysrootConfig) {
	if s == "" {
		return
	}

	if last := fl.list.Back(); last != nil {
		lf := last.value
		if isPathFlagType(lf.Type) && lf.Data == "" {
			lf.Data = mungeSysroot(s, cfg)
			glog.V(2).Infof("fragment: %q completes pending -%c", s, lf.Type)
			return
		}
	}

	if len(s) > 1 && s[0] == '-' && isPathFlagType(s[1]) && !explicitlySpecial(s) {
		t := s[1]
		data := s[2:]
		if data != "" {
			data = mungeSysroot(data, cfg)
		}
		fl.list.PushBack(&Fragment{Type: t, Data: data})
		return
	}

	text := mungeSysroot(s, cfg)
	if cfg.mergeSpecial {
		if last := fl.list.Back(); last != nil && last.value.Type == specialType {
			last.value.Data = last.value.Data + " " + text
			last.value.Merged = true
			return
		}
	}
	fl.list.PushBack(&Fragment{Type: specialType, Data: text})
}

// Fragments returns the fragments in order.
func (fl *FragmentList) Fragments() []Fragment {
	nodes := fl.list.Slice()
	out := make([]Fragment, len(nodes))
	for i, n := range nodes {
		out[i] = *n
	}
	return out
}

// Len reports the number of fragments.
func (fl *FragmentList) Len() int { return fl.list.Len() }

// CopyFrom copies every fragment of src onto dst, applying the
// de-duplication/merge-back rule of spec.md section 4.4 when an
// equivalent (same type, same data) fragment is already in dst: for F/L/I
// fragments and private-context 'l' fragments the new copy is dropped
// (first occurrence wins, never reordered), while every other type
// deletes the earlier occurrence and re-appends the new one at the tail.
func (dst *FragmentList) CopyFrom(src *FragmentList, isPrivate bool) {
	src.list.Each(func(n *dnode[*Fragment]) {
		dst.copyOne(*n.value, isPrivate)
	})
}

func (dst *FragmentList) copyOne(f Fragment, isPrivate bool) {
	var dup *dnode[*Fragment]
	dst.list.Each(func(n *dnode[*Fragment]) {
		if dup != nil {
			return
		}
		if n.value.Type == f.Type && n.value.Data == f.Data {
			dup = n
		}
	})
	if dup != nil {
		if f.isPathType() {
			return
		}
		if isPrivate && f.Type == 'l' {
			return
		}
		dst.list.Remove(dup)
	}
	cp := f
	dst.list.PushBack(&cp)
}

// Render produces the single space-separated, shell-escaped string
// spec.md section 4.4 defines: "-T" + escaped data when Type is set,
// escaped data alone (space preserved for merged fragments) otherwise.
func (fl *FragmentList) Render() string {
	var b strings.Builder
	first := true
	fl.list.Each(func(n *dnode[*Fragment]) {
		f := n.value
		if !first {
			b.WriteByte(' ')
		}
		first = false
		if f.Type != specialType {
			b.WriteByte('-')
			b.WriteByte(f.Type)
			b.WriteString(escapeArg(f.Data, false))
			return
		}
		b.WriteString(escapeArg(f.Data, f.Merged))
	})
	return b.String()
}
