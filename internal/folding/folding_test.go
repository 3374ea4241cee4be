// Copyright 2026 Ian Lewis
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

package folding

import (
	"testing"

	"golang.org/x/text/transform"
)

// TestWhitespace tests Whitespace.
func TestWhitespace(t *testing.T) {
	t.Parallel()

	tests := []struct {
		name     string
		input    string
		expected string
	}{
		{"empty", "", ""},
		{"only spaces", " \t\n ", ""},
		{"single word", "word", "word"},
		{"leading and trailing", "  word \n", "word"},
		{"internal", "a \t\n b", "a b"},
		{"ideographic space", "　こんにちは　　世界　", "こんにちは 世界"},
	}

	for _, test := range tests {
		t.Run(test.name, func(t *testing.T) {
			t.Parallel()

			got, _, err := transform.String(&Whitespace{}, test.input)
			if err != nil {
				t.Fatalf("transform.String: %v", err)
			}
			if got != test.expected {
				t.Fatalf("unexpected output; want: %q, got: %q", test.expected, got)
			}
		})
	}
}

// TestString tests String.
func TestString(t *testing.T) {
	t.Parallel()

	tests := []struct {
		name     string
		input    string
		expected string
	}{
		{"case", "Hoge", "hoge"},
		{"german", "grüßen", "grussen"},
		{"accents", "Élodie", "elodie"},
		{"whitespace", "　 こんにちは \t 世界 　 ", "こんにちは 世界"},
		{"punctuation", "foo. bar?", "foo bar"},
	}

	for _, test := range tests {
		t.Run(test.name, func(t *testing.T) {
			t.Parallel()

			got, err := String(test.input)
			if err != nil {
				t.Fatalf("String: %v", err)
			}
			if got != test.expected {
				t.Fatalf("String(%q); want: %q, got: %q", test.input, test.expected, got)
			}
		})
	}
}
