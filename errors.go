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

import "fmt"

// ErrorFlags is the bitmask error-code space of spec.md section 6, used
// so SKIP_ERRORS can accumulate multiple non-fatal conditions across one
// compound operation.
type ErrorFlags uint32

const (
	ErrOK ErrorFlags = 0

	ErrMemory ErrorFlags = 1 << (iota - 1)
	ErrPackageNotFound
	ErrPackageInvalid
	ErrPackageVerMismatch
	ErrPackageConflict
	ErrFileInvalidSyntax
	ErrFileMissingField
)

func (e ErrorFlags) String() string {
	if e == ErrOK {
		return "OK"
	}
	var names []string
	for flag, name := range map[ErrorFlags]string{
		ErrMemory:             "MEMORY",
		ErrPackageNotFound:    "PACKAGE_NOT_FOUND",
		ErrPackageInvalid:     "PACKAGE_INVALID",
		ErrPackageVerMismatch: "PACKAGE_VER_MISMATCH",
		ErrPackageConflict:    "PACKAGE_CONFLICT",
		ErrFileInvalidSyntax:  "FILE_INVALID_SYNTAX",
		ErrFileMissingField:   "FILE_MISSING_FIELD",
	} {
		if e&flag != 0 {
			names = append(names, name)
		}
	}
	if len(names) == 0 {
		return fmt.Sprintf("ErrorFlags(%#x)", uint32(e))
	}
	out := names[0]
	for _, n := range names[1:] {
		out += "|" + n
	}
	return out
}

// Has reports whether every bit in want is set in e.
func (e ErrorFlags) Has(want ErrorFlags) bool { return e&want == want }

// Severity classifies a diagnostic Event (spec.md section 9's "model as
// a single event emitter" design note, generalizing the teacher's
// separate Warn/Error/Trace printf-style calls in log.go).
type Severity int

const (
	SeverityTrace Severity = iota
	SeverityWarning
	SeverityError
)

// Event is the structured diagnostic the client's sinks receive, per
// spec.md section 6: "(error-code, filename?, line?, message, client,
// user-data)".
type Event struct {
	Severity Severity
	Code     ErrorFlags
	Filename string
	Line     int
	Message  string
}

func (ev Event) String() string {
	if ev.Filename == "" {
		return ev.Message
	}
	if ev.Line > 0 {
		return fmt.Sprintf("%s:%d: %s", ev.Filename, ev.Line, ev.Message)
	}
	return fmt.Sprintf("%s: %s", ev.Filename, ev.Message)
}

// EventSink receives diagnostics. Every sink return is advisory per
// spec.md section 5 ("the library must treat every error-sink return as
// advisory; flow is driven by explicit error flags"): sinks observe,
// they do not steer control flow.
type EventSink func(Event)
