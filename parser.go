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
	"io"
	"path/filepath"
	"strings"

	"github.com/golang/glog"
)

// ParseOptions carries the subset of client configuration (spec.md
// section 4.9) the parser needs, threaded in explicitly rather than read
// from a package global, following the teacher's cmdline.go pattern of
// passing configuration structs rather than reaching for package state.
type ParseOptions struct {
	PrefixVarname  string // default "prefix"
	RedefinePrefix bool
	Sysroot        sysrootConfig
}

func (o ParseOptions) prefixVarname() string {
	if o.PrefixVarname == "" {
		return "prefix"
	}
	return o.PrefixVarname
}

// keywordHandler dispatches one ':'-separated keyword line. value is
// already the raw trimmed field text; handlers interpolate it themselves.
type keywordHandler func(p *Package, globals VarTable, value string, opts ParseOptions, sink *eventCollector)

var keywordTable = map[string]keywordHandler{
	"Name": func(p *Package, globals VarTable, value string, opts ParseOptions, sink *eventCollector) {
		p.Name = p.Vars.Parse(globals, value, opts.Sysroot)
	},
	"Description": func(p *Package, globals VarTable, value string, opts ParseOptions, sink *eventCollector) {
		p.Description = p.Vars.Parse(globals, value, opts.Sysroot)
	},
	"Version": func(p *Package, globals VarTable, value string, opts ParseOptions, sink *eventCollector) {
		v := p.Vars.Parse(globals, value, opts.Sysroot)
		if i := strings.IndexAny(v, " \t"); i >= 0 {
			sink.warnf(p.Filename, 0, "Version field %q has embedded whitespace, truncating", v)
			v = v[:i]
		}
		p.Version = v
	},
	"CFLAGS": func(p *Package, globals VarTable, value string, opts ParseOptions, sink *eventCollector) {
		appendFragments(&p.Cflags, p.Vars.Parse(globals, value, opts.Sysroot), opts, sink, p.Filename)
	},
	"CFLAGS.private": func(p *Package, globals VarTable, value string, opts ParseOptions, sink *eventCollector) {
		appendFragments(&p.CflagsPrivate, p.Vars.Parse(globals, value, opts.Sysroot), opts, sink, p.Filename)
	},
	"LIBS": func(p *Package, globals VarTable, value string, opts ParseOptions, sink *eventCollector) {
		appendFragments(&p.Libs, p.Vars.Parse(globals, value, opts.Sysroot), opts, sink, p.Filename)
	},
	"LIBS.private": func(p *Package, globals VarTable, value string, opts ParseOptions, sink *eventCollector) {
		appendFragments(&p.LibsPrivate, p.Vars.Parse(globals, value, opts.Sysroot), opts, sink, p.Filename)
	},
	"Requires": func(p *Package, globals VarTable, value string, opts ParseOptions, sink *eventCollector) {
		p.Requires = parseDependencyList(p.Requires, p.Vars.Parse(globals, value, opts.Sysroot), false)
	},
	"Requires.private": func(p *Package, globals VarTable, value string, opts ParseOptions, sink *eventCollector) {
		p.RequiresPrivate = parseDependencyList(p.RequiresPrivate, p.Vars.Parse(globals, value, opts.Sysroot), false)
	},
	"Requires.internal": func(p *Package, globals VarTable, value string, opts ParseOptions, sink *eventCollector) {
		p.RequiresPrivate = parseDependencyList(p.RequiresPrivate, p.Vars.Parse(globals, value, opts.Sysroot), true)
	},
	"Conflicts": func(p *Package, globals VarTable, value string, opts ParseOptions, sink *eventCollector) {
		p.Conflicts = parseDependencyList(p.Conflicts, p.Vars.Parse(globals, value, opts.Sysroot), false)
	},
}

func appendFragments(fl *FragmentList, value string, opts ParseOptions, sink *eventCollector, filename string) {
	args, ok := argvSplit(value)
	if !ok {
		sink.warnf(filename, 0, "unterminated quote or escape in flag list %q", value)
		return
	}
	for _, a := range args {
		fl.Add(a, opts.Sysroot)
	}
}

// eventCollector accumulates sink-bound diagnostics during one parse, so
// parsePackage stays testable without a full Client (spec.md section 6's
// sinks are wired up by client.go; Client.parseFile in resolver.go
// forwards these events to them).
type eventCollector struct {
	events []Event
}

func (c *eventCollector) push(sev Severity, code ErrorFlags, filename string, line int, msg string) {
	c.events = append(c.events, Event{Severity: sev, Code: code, Filename: filename, Line: line, Message: msg})
}

func (c *eventCollector) warnf(filename string, line int, format string, args ...interface{}) {
	msg := fmt.Sprintf(format, args...)
	glog.V(1).Infof("pkgconfig: %s", msg)
	c.push(SeverityWarning, ErrOK, filename, line, msg)
}

func (c *eventCollector) errorf(code ErrorFlags, filename string, line int, format string, args ...interface{}) {
	c.push(SeverityError, code, filename, line, fmt.Sprintf(format, args...))
}

// isKeyByte reports membership in the key alphabet of spec.md section
// 4.6: [A-Za-z0-9_.]+.
func isKeyByte(c byte) bool {
	switch {
	case c >= 'A' && c <= 'Z', c >= 'a' && c <= 'z', c >= '0' && c <= '9', c == '_', c == '.':
		return true
	}
	return false
}

func isAlnumByte(c byte) bool {
	switch {
	case c >= 'A' && c <= 'Z', c >= 'a' && c <= 'z', c >= '0' && c <= '9':
		return true
	}
	return false
}

// parsePackage parses one .pc logical record stream into a Package,
// grounded on the teacher's parser.go statement dispatch (readLine loop
// -> classify -> handler table) generalized from make's directive set to
// the keyword/variable table of spec.md section 4.6.
//
// pcfiledir is pre-bound into the variable table (escaped for value
// syntax) before any line is parsed, per spec.md section 4.8's "per-
// package parse entry point".
func parsePackage(r io.Reader, id, filename, pcfiledir string, globals VarTable, opts ParseOptions) (*Package, ErrorFlags, []Event) {
	p := NewPackage(id)
	p.Filename = filename
	p.PCFileDir = pcfiledir
	p.Vars.Raw("pcfiledir", escapeArg(pcfiledir, true))

	sink := &eventCollector{}
	lr := newLineReader(r)

	var originalPrefix, newPrefix string
	havePrefixRewrite := false

	for {
		raw, ok := lr.Next()
		if !ok {
			break
		}
		line := trimRightSpace(raw)
		if line == "" {
			continue
		}
		if !isAlnumByte(line[0]) {
			continue
		}

		i := 0
		for i < len(line) && isKeyByte(line[i]) {
			i++
		}
		key := line[:i]
		rest := trimLeftSpace(line[i:])
		if rest == "" {
			continue
		}
		sep := rest[0]
		value := trimLeftSpace(rest[1:])
		trimmed := trimRightSpace(value)
		if sep == '=' && trimmed != value {
			sink.warnf(filename, lr.Lineno(), "trailing whitespace in assignment to %q", key)
		}
		value = trimmed

		switch sep {
		case ':':
			h, known := keywordTable[key]
			if !known {
				// Keywords match case-insensitively ("Cflags" selects CFLAGS).
				for k, kh := range keywordTable {
					if strings.EqualFold(k, key) {
						h, known = kh, true
						break
					}
				}
			}
			if !known {
				glog.V(2).Infof("pkgconfig: %s:%d: ignoring unknown keyword %q", filename, lr.Lineno(), key)
				continue
			}
			h(p, globals, value, opts, sink)
		case '=':
			resolved := p.Vars.Parse(globals, value, opts.Sysroot)
			if opts.RedefinePrefix && key == opts.prefixVarname() {
				if dir, ok := redefinedPrefixDir(filename); ok {
					originalPrefix = resolved
					newPrefix = dir
					havePrefixRewrite = true
					resolved = newPrefix
				}
			} else if havePrefixRewrite && originalPrefix != "" && strings.HasPrefix(resolved, originalPrefix) {
				resolved = newPrefix + resolved[len(originalPrefix):]
			}
			p.Vars.Raw(key, resolved)
		default:
			sink.errorf(ErrFileInvalidSyntax, filename, lr.Lineno(), "unknown separator %q after key %q", string(sep), key)
			return nil, ErrFileInvalidSyntax, sink.events
		}
	}

	if !p.IsComplete() {
		sink.errorf(ErrFileMissingField, filename, 0, "%s: missing required field (Name, Description, or Version)", filename)
		return nil, ErrFileMissingField, sink.events
	}
	return p, ErrOK, sink.events
}

// redefinedPrefixDir implements the "two levels up, immediate parent
// literally named pkgconfig" rule of spec.md section 4.6.
func redefinedPrefixDir(filename string) (string, bool) {
	pcDir := filepath.Dir(filename)
	if filepath.Base(pcDir) != "pkgconfig" {
		return "", false
	}
	return filepath.Dir(filepath.Dir(pcDir)), true
}
