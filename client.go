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
	"fmt"
	"os"
	"runtime"

	"github.com/golang/glog"
)

// ClientFlags is the stable flag-bit contract of spec.md section 4.9.
type ClientFlags uint32

const (
	SearchPrivate ClientFlags = 1 << iota
	EnvOnly
	ConsiderUninstalled
	AddPrivateFragments
	SkipConflicts
	NoCache
	SkipErrors
	IterPkgIsPrivate
	RedefinePrefixFlag
	DontRelocatePaths
	DontFilterInternalCflags
	MergeSpecialFragments
	FdoSysrootRules
)

// Has reports whether every bit in want is set.
func (f ClientFlags) Has(want ClientFlags) bool { return f&want == want }

// defaultSearchDirs is the compile-time fallback search path consulted
// by dir_list_build when PKG_CONFIG_LIBDIR is unset, grounded on the
// conventional pkg-config install layout.
var defaultSearchDirs = []string{
	"/usr/local/lib/pkgconfig",
	"/usr/local/share/pkgconfig",
	"/usr/lib/pkgconfig",
	"/usr/share/pkgconfig",
}

// Client holds one engine's global configuration (spec.md section 4.9).
// It is not safe for concurrent use by multiple goroutines, matching the
// single-threaded, single-owner contract of spec.md section 5.
type Client struct {
	Flags ClientFlags

	sysrootDir    string
	buildrootDir  string
	prefixVarname string

	SearchPath       PathList
	SystemLibraryDir PathList
	SystemIncludeDir PathList

	Globals VarTable

	warnHandler  EventSink
	errorHandler EventSink
	traceHandler EventSink

	cache    *packageCache
	builtins map[string]*Package
}

// NewClient returns an initialized Client with compile-time defaults for
// the sysroot and buildroot variables, per spec.md section 4.9's
// "new/init" responsibilities.
func NewClient() *Client {
	c := &Client{
		prefixVarname: "prefix",
		Globals:       NewVarTable(),
		cache:         newPackageCache(),
	}
	c.Globals.Raw("pc_sysrootdir", "/")
	c.Globals.Raw("pc_top_builddir", "$(top_builddir)")
	c.builtins = map[string]*Package{
		"pkg-config": c.newBuiltinPkgConfigPackage(),
	}
	return c
}

// newBuiltinPkgConfigPackage builds the single static entry of spec.md
// section 4.8 step 2: a negative-refcount package exposing compile-time
// defaults as variables (supplemented from original_source/libpkgconf,
// per SPEC_FULL.md).
func (c *Client) newBuiltinPkgConfigPackage() *Package {
	p := NewBuiltinPackage("pkg-config")
	p.Name = "pkg-config"
	p.Description = "pkg-config compatible build metadata resolver"
	p.Version = "1"
	p.Vars.Raw("pc_path", "")
	p.Vars.Raw("pc_system_includedirs", "")
	p.Vars.Raw("pc_system_libdirs", "")
	return p
}

// SetSysrootDir sets the sysroot and mirrors it into the pc_sysrootdir
// global variable, or resets it to "/" when cleared.
func (c *Client) SetSysrootDir(path string) {
	c.sysrootDir = path
	if path == "" {
		c.Globals.Raw("pc_sysrootdir", "/")
		return
	}
	c.Globals.Raw("pc_sysrootdir", path)
}

// SetBuildrootDir sets the buildroot and mirrors it into
// pc_top_builddir, or resets it to the literal "$(top_builddir)" when
// cleared.
func (c *Client) SetBuildrootDir(path string) {
	c.buildrootDir = path
	if path == "" {
		c.Globals.Raw("pc_top_builddir", "$(top_builddir)")
		return
	}
	c.Globals.Raw("pc_top_builddir", path)
}

// SetPrefixVarname sets the variable name the "redefine prefix" parse
// option looks for; an empty name resets it to the default "prefix".
func (c *Client) SetPrefixVarname(name string) {
	if name == "" {
		name = "prefix"
	}
	c.prefixVarname = name
}

func (c *Client) SetFlags(f ClientFlags) { c.Flags = f }
func (c *Client) GetFlags() ClientFlags  { return c.Flags }

func (c *Client) SetWarnHandler(s EventSink)  { c.warnHandler = s }
func (c *Client) SetErrorHandler(s EventSink) { c.errorHandler = s }
func (c *Client) SetTraceHandler(s EventSink) { c.traceHandler = s }

func (c *Client) dispatch(ev Event) {
	var sink EventSink
	switch ev.Severity {
	case SeverityError:
		sink = c.errorHandler
	case SeverityTrace:
		sink = c.traceHandler
	default:
		sink = c.warnHandler
	}
	if sink != nil {
		sink(ev)
	}
}

func (c *Client) trace(filename string, line int, format string, args ...interface{}) {
	if c.traceHandler == nil {
		return
	}
	c.dispatch(Event{Severity: SeverityTrace, Filename: filename, Line: line, Message: fmt.Sprintf(format, args...)})
}

// DirListBuild populates SearchPath from PKG_CONFIG_PATH and, unless
// EnvOnly is set, from PKG_CONFIG_LIBDIR (an explicitly empty value
// suppresses the compiled-in defaults) or the compile-time default list.
// When initFilters is set it additionally seeds SystemLibraryDir and
// SystemIncludeDir from PKG_CONFIG_SYSTEM_LIBRARY_PATH/
// PKG_CONFIG_SYSTEM_INCLUDE_PATH and the compiler-conventional env vars,
// per spec.md section 4.9.
func (c *Client) DirListBuild(initFilters bool) {
	c.SearchPath = PathList{}
	c.SearchPath.BuildFromEnv("PKG_CONFIG_PATH", "", true)

	if !c.Flags.Has(EnvOnly) {
		if v, ok := os.LookupEnv("PKG_CONFIG_LIBDIR"); ok {
			c.SearchPath.Split(v, true)
		} else {
			for _, d := range defaultSearchDirs {
				c.SearchPath.Add(d, true)
			}
		}
	}

	if !initFilters {
		return
	}

	c.SystemLibraryDir = PathList{}
	c.SystemLibraryDir.BuildFromEnv("PKG_CONFIG_SYSTEM_LIBRARY_PATH", "", true)
	c.SystemLibraryDir.BuildFromEnv("LIBRARY_PATH", "", true)

	c.SystemIncludeDir = PathList{}
	c.SystemIncludeDir.BuildFromEnv("PKG_CONFIG_SYSTEM_INCLUDE_PATH", "", true)
	for _, name := range []string{"CPATH", "C_INCLUDE_PATH", "CPLUS_INCLUDE_PATH", "OBJC_INCLUDE_PATH"} {
		c.SystemIncludeDir.BuildFromEnv(name, "", true)
	}
	if runtime.GOOS == "windows" {
		c.SystemIncludeDir.BuildFromEnv("INCLUDE", "", true)
	}
	glog.V(1).Infof("pkgconfig: search path built: %v", c.SearchPath.Dirs())
}

// sysrootConfigFor derives the sysroot munging configuration fragment.go
// needs from this client's current flags.
func (c *Client) sysrootConfigFor(private bool) sysrootConfig {
	mode := sysrootTraditional
	if c.Flags.Has(FdoSysrootRules) {
		mode = sysrootFreedesktop
	}
	return sysrootConfig{
		sysroot:       c.sysrootDir,
		mode:          mode,
		relocatePaths: !c.Flags.Has(DontRelocatePaths),
		mergeSpecial:  c.Flags.Has(MergeSpecialFragments),
	}
}

func (c *Client) parseOptionsFor() ParseOptions {
	return ParseOptions{
		PrefixVarname:  c.prefixVarname,
		RedefinePrefix: c.Flags.Has(RedefinePrefixFlag),
		Sysroot:        c.sysrootConfigFor(false),
	}
}

// Free releases every cached package, per spec.md section 4.7's bulk
// free sequence.
func (c *Client) Free() {
	c.cache.freeAll()
}
