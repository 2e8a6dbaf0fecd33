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
	"reflect"
	"testing"

	"github.com/stretchr/testify/require"
)

func TestArgvSplit(t *testing.T) {
	for _, tc := range []struct {
		in   string
		want []string
		ok   bool
	}{
		{in: "a 'b  c' d", want: []string{"a", "b  c", "d"}, ok: true},
		{in: `"a\"b"`, want: []string{`a"b`}, ok: true},
		{in: "", want: nil, ok: true},
		{in: "   ", want: nil, ok: true},
		{in: "-I/usr/include -DFOO", want: []string{"-I/usr/include", "-DFOO"}, ok: true},
		{in: `a\ b`, want: []string{"a b"}, ok: true},
		{in: "'unterminated", want: nil, ok: false},
		{in: `"also unterminated`, want: nil, ok: false},
		{in: `trailing\`, want: nil, ok: false},
		{in: `"keeps \q backslash"`, want: []string{`keeps \q backslash`}, ok: true},
	} {
		got, ok := argvSplit(tc.in)
		if ok != tc.ok {
			t.Errorf("argvSplit(%q) ok=%v, want %v", tc.in, ok, tc.ok)
			continue
		}
		if !tc.ok {
			continue
		}
		if !reflect.DeepEqual(got, tc.want) {
			t.Errorf("argvSplit(%q)=%q, want %q", tc.in, got, tc.want)
		}
	}
}

func TestEscapeArgRoundTrip(t *testing.T) {
	for _, data := range []string{"/usr/include", "-DFOO", "has space", "weird'chars\""} {
		escaped := escapeArg(data, false)
		got, ok := argvSplit(escaped)
		require.True(t, ok)
		require.Len(t, got, 1)
		require.Equal(t, data, got[0])
	}
}

func TestDequote(t *testing.T) {
	require.Equal(t, "abc", dequote("'abc'"))
	require.Equal(t, `a"b`, dequote(`"a\"b"`))
	require.Equal(t, "plain", dequote("plain"))
}
