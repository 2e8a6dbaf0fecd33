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

// CompareVersions implements the RPM-style version comparator of
// spec.md section 4.8. No dependency in the retrieval pack models this
// algorithm (see SPEC_FULL.md's DOMAIN STACK table for why
// blang/semver was rejected: pkg-config versions like "1.0a" or
// "2011k" are not SemVer and the tokenization rules below differ from
// it in ways that would silently misorder real .pc files), so it is
// implemented from the spec text directly.
//
// It returns a negative number if a < b, zero if a == b, and positive
// if a > b.
func CompareVersions(a, b string) int {
	for {
		a = skipNonAlnum(a)
		b = skipNonAlnum(b)

		// A leading '~' sorts below everything, including the empty
		// string (pre-release marker).
		aTilde := len(a) > 0 && a[0] == '~'
		bTilde := len(b) > 0 && b[0] == '~'
		if aTilde || bTilde {
			if aTilde && !bTilde {
				return -1
			}
			if !aTilde && bTilde {
				return 1
			}
			a = a[1:]
			b = b[1:]
			continue
		}

		if a == "" && b == "" {
			return 0
		}
		if a == "" {
			return -1
		}
		if b == "" {
			return 1
		}

		var aTok, bTok string
		aTok, a = nextToken(a)
		bTok, b = nextToken(b)

		aDigits := isDigitToken(aTok)
		bDigits := isDigitToken(bTok)

		var cmp int
		switch {
		case aDigits && bDigits:
			cmp = compareNumericTokens(aTok, bTok)
		case aDigits && !bDigits:
			// A digit run always counts as newer than an alpha run,
			// matching the RPM/rpmvercmp convention.
			cmp = 1
		case !aDigits && bDigits:
			cmp = -1
		default:
			cmp = compareLexical(aTok, bTok)
		}
		if cmp != 0 {
			return cmp
		}
	}
}

func skipNonAlnum(s string) string {
	i := 0
	for i < len(s) && !isAlnum(s[i]) && s[i] != '~' {
		i++
	}
	return s[i:]
}

func isAlnum(c byte) bool {
	return (c >= '0' && c <= '9') || (c >= 'a' && c <= 'z') || (c >= 'A' && c <= 'Z')
}

func isDigit(c byte) bool { return c >= '0' && c <= '9' }

// nextToken consumes one run of digits or one run of letters (whichever
// the string starts with) and returns it along with the remainder.
func nextToken(s string) (tok, rest string) {
	if s == "" {
		return "", ""
	}
	digit := isDigit(s[0])
	i := 1
	for i < len(s) && isAlnum(s[i]) && isDigit(s[i]) == digit {
		i++
	}
	return s[:i], s[i:]
}

func isDigitToken(tok string) bool {
	return len(tok) > 0 && isDigit(tok[0])
}

func compareNumericTokens(a, b string) int {
	a = stripLeadingZeros(a)
	b = stripLeadingZeros(b)
	if len(a) != len(b) {
		if len(a) < len(b) {
			return -1
		}
		return 1
	}
	return compareLexical(a, b)
}

func stripLeadingZeros(s string) string {
	i := 0
	for i < len(s)-1 && s[i] == '0' {
		i++
	}
	return s[i:]
}

func compareLexical(a, b string) int {
	n := len(a)
	if len(b) < n {
		n = len(b)
	}
	for i := 0; i < n; i++ {
		if a[i] != b[i] {
			if a[i] < b[i] {
				return -1
			}
			return 1
		}
	}
	switch {
	case len(a) < len(b):
		return -1
	case len(a) > len(b):
		return 1
	}
	return 0
}

// Comparator is a dependency version comparator (spec.md section 4.8).
type Comparator int

const (
	ComparatorAny Comparator = iota
	ComparatorEqual
	ComparatorNotEqual
	ComparatorLess
	ComparatorLessEqual
	ComparatorGreater
	ComparatorGreaterEqual
)

// Satisfies reports whether candidate satisfies this comparator against
// want. An absent version (candidate == "") always compares as lower
// than any present version, per spec.md section 4.8.
func (c Comparator) Satisfies(candidate, want string) bool {
	if c == ComparatorAny {
		return true
	}
	cmp := CompareVersions(candidate, want)
	if candidate == "" && want != "" {
		cmp = -1
	}
	switch c {
	case ComparatorEqual:
		return cmp == 0
	case ComparatorNotEqual:
		return cmp != 0
	case ComparatorLess:
		return cmp < 0
	case ComparatorLessEqual:
		return cmp <= 0
	case ComparatorGreater:
		return cmp > 0
	case ComparatorGreaterEqual:
		return cmp >= 0
	}
	return false
}

func parseComparator(s string) Comparator {
	switch s {
	case "=":
		return ComparatorEqual
	case "!=":
		return ComparatorNotEqual
	case "<":
		return ComparatorLess
	case "<=":
		return ComparatorLessEqual
	case ">":
		return ComparatorGreater
	case ">=":
		return ComparatorGreaterEqual
	}
	return ComparatorAny
}
