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

package memstore_test

import (
	"context"
	"errors"
	"testing"

	"github.com/google/go-cmp/cmp"
	"github.com/google/go-cmp/cmp/cmpopts"

	"github.com/ianlewis/go-dictimport"
	"github.com/ianlewis/go-dictimport/format"
	"github.com/ianlewis/go-dictimport/store/memstore"
)

var ignoreFolded = cmpopts.IgnoreUnexported(memstore.Record{})

// TestStore_BulkInsert tests Store.BulkInsert.
func TestStore_BulkInsert(t *testing.T) {
	t.Parallel()

	tests := []struct {
		name     string
		mapping  *dictimport.Mapping
		expected []*memstore.Record
	}{
		{
			name: "definitions",
			mapping: &dictimport.Mapping{
				Kind: format.JSON,
				Definitions: map[string]string{
					"b": "beta",
					"A": "alpha",
				},
			},
			expected: []*memstore.Record{
				{Headword: "A", Value: "alpha"},
				{Headword: "b", Value: "beta"},
			},
		},
		{
			name: "ranks",
			mapping: &dictimport.Mapping{
				Kind: format.Frequency,
				Ranks: map[string]int{
					"the": 1,
					"of":  2,
				},
			},
			expected: []*memstore.Record{
				{Headword: "of", Value: "2"},
				{Headword: "the", Value: "1"},
			},
		},
		{
			name: "audio",
			mapping: &dictimport.Mapping{
				Kind: format.Audio,
				Audio: map[string][]string{
					"cat": {"cat.mp3", "Cat.wav"},
				},
			},
			expected: []*memstore.Record{
				{Headword: "cat", Value: `["cat.mp3","Cat.wav"]`},
			},
		},
	}

	for _, test := range tests {
		t.Run(test.name, func(t *testing.T) {
			t.Parallel()

			s := memstore.New(nil)
			if err := s.BulkInsert(context.Background(), test.mapping, "en", "test"); err != nil {
				t.Fatalf("BulkInsert: %v", err)
			}

			d, ok := s.Dictionary("test")
			if !ok {
				t.Fatal("Dictionary: not found")
			}
			if want, got := "en", d.Language; want != got {
				t.Errorf("Language; want: %q, got: %q", want, got)
			}
			if want, got := test.mapping.Kind, d.Kind; want != got {
				t.Errorf("Kind; want: %v, got: %v", want, got)
			}
			if diff := cmp.Diff(test.expected, d.Records(), ignoreFolded); diff != "" {
				t.Errorf("Records (-want, +got):\n%s", diff)
			}
		})
	}
}

// TestStore_Replace tests that re-importing a dictionary replaces it.
func TestStore_Replace(t *testing.T) {
	t.Parallel()

	ctx := context.Background()
	s := memstore.New(nil)

	first := &dictimport.Mapping{
		Kind:        format.JSON,
		Definitions: map[string]string{"a": "1", "b": "2"},
	}
	second := &dictimport.Mapping{
		Kind:        format.JSON,
		Definitions: map[string]string{"c": "3"},
	}
	if err := s.BulkInsert(ctx, first, "en", "test"); err != nil {
		t.Fatalf("BulkInsert: %v", err)
	}
	if err := s.BulkInsert(ctx, second, "de", "test"); err != nil {
		t.Fatalf("BulkInsert: %v", err)
	}

	d, ok := s.Dictionary("test")
	if !ok {
		t.Fatal("Dictionary: not found")
	}
	want := []*memstore.Record{{Headword: "c", Value: "3"}}
	if diff := cmp.Diff(want, d.Records(), ignoreFolded); diff != "" {
		t.Errorf("Records (-want, +got):\n%s", diff)
	}
	if want, got := "de", d.Language; want != got {
		t.Errorf("Language; want: %q, got: %q", want, got)
	}
}

// TestStore_DeleteDictionary tests Store.DeleteDictionary.
func TestStore_DeleteDictionary(t *testing.T) {
	t.Parallel()

	ctx := context.Background()
	s := memstore.New(nil)

	m := &dictimport.Mapping{
		Kind:        format.JSON,
		Definitions: map[string]string{"a": "1"},
	}
	for _, name := range []string{"one", "two"} {
		if err := s.BulkInsert(ctx, m, "en", name); err != nil {
			t.Fatalf("BulkInsert: %v", err)
		}
	}

	if err := s.DeleteDictionary(ctx, "one"); err != nil {
		t.Fatalf("DeleteDictionary: %v", err)
	}
	if err := s.DeleteDictionary(ctx, "missing"); err != nil {
		t.Fatalf("DeleteDictionary(missing): %v", err)
	}

	var names []string
	for _, d := range s.Dictionaries() {
		names = append(names, d.Name)
	}
	if diff := cmp.Diff([]string{"two"}, names); diff != "" {
		t.Fatalf("Dictionaries (-want, +got):\n%s", diff)
	}
}

// TestStore_Canceled tests that a canceled context stores nothing.
func TestStore_Canceled(t *testing.T) {
	t.Parallel()

	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	s := memstore.New(nil)
	err := s.BulkInsert(ctx, &dictimport.Mapping{Kind: format.JSON}, "en", "test")
	if !errors.Is(err, context.Canceled) {
		t.Fatalf("BulkInsert; want: %v, got: %v", context.Canceled, err)
	}
	if _, ok := s.Dictionary("test"); ok {
		t.Fatal("Dictionary: unexpectedly stored")
	}
}

// TestDictionary_Lookup tests Dictionary.Lookup.
func TestDictionary_Lookup(t *testing.T) {
	t.Parallel()

	s := memstore.New(nil)
	m := &dictimport.Mapping{
		Kind: format.JSON,
		Definitions: map[string]string{
			"bar":          "1",
			"Hoge":         "2",
			"hoge":         "3",
			"grüßen":       "4",
			"こんにちは　世界": "5",
			"foo bar":      "6",
		},
	}
	if err := s.BulkInsert(context.Background(), m, "en", "test"); err != nil {
		t.Fatalf("BulkInsert: %v", err)
	}
	d, _ := s.Dictionary("test")

	tests := []struct {
		name     string
		query    string
		expected []*memstore.Record
	}{
		{
			name:     "no match",
			query:    "pico",
			expected: nil,
		},
		{
			name:  "case",
			query: "HOGE",
			expected: []*memstore.Record{
				{Headword: "Hoge", Value: "2"},
				{Headword: "hoge", Value: "3"},
			},
		},
		{
			name:     "german",
			query:    "grussen",
			expected: []*memstore.Record{{Headword: "grüßen", Value: "4"}},
		},
		{
			name:     "whitespace",
			query:    "　 こんにちは \t 世界 　 ",
			expected: []*memstore.Record{{Headword: "こんにちは　世界", Value: "5"}},
		},
		{
			name:     "punctuation",
			query:    "foo. bar?",
			expected: []*memstore.Record{{Headword: "foo bar", Value: "6"}},
		},
	}

	for _, test := range tests {
		t.Run(test.name, func(t *testing.T) {
			t.Parallel()

			got, err := d.Lookup(test.query)
			if err != nil {
				t.Fatalf("Lookup: %v", err)
			}
			if diff := cmp.Diff(test.expected, got, ignoreFolded); diff != "" {
				t.Fatalf("Lookup (-want, +got):\n%s", diff)
			}
		})
	}
}
