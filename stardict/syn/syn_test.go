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

package syn_test

import (
	"bytes"
	"errors"
	"io"
	"os"
	"path/filepath"
	"testing"

	"github.com/google/go-cmp/cmp"
	"github.com/klauspost/compress/gzip"

	"github.com/ianlewis/go-dictimport/internal/testutil"
	"github.com/ianlewis/go-dictimport/stardict/syn"
)

var testWords = []*syn.Word{
	{
		Word:              "hoge",
		OriginalWordIndex: 5,
	},
	{
		Word:              "fuga pico",
		OriginalWordIndex: 3,
	},
	{
		Word:              "grüßen",
		OriginalWordIndex: 0,
	},
}

// TestScanner tests the Scanner type.
func TestScanner(t *testing.T) {
	t.Parallel()

	b := testutil.MakeSyn(t, testWords)
	s := syn.NewScanner(io.NopCloser(bytes.NewReader(b)))
	defer s.Close()

	var words []*syn.Word
	for s.Scan() {
		words = append(words, s.Word())
	}
	if err := s.Err(); err != nil {
		t.Fatalf("Err: %v", err)
	}

	if diff := cmp.Diff(testWords, words); diff != "" {
		t.Errorf("Scan (-want, +got):\n%s", diff)
	}
}

// TestReadAll_Truncated tests that a partial trailing entry is an error.
func TestReadAll_Truncated(t *testing.T) {
	t.Parallel()

	b := testutil.MakeSyn(t, testWords)
	_, err := syn.ReadAll(io.NopCloser(bytes.NewReader(b[:len(b)-2])))
	if !errors.Is(err, syn.ErrTruncated) {
		t.Fatalf("ReadAll; want: %v, got: %v", syn.ErrTruncated, err)
	}
}

// TestReadFromIfoPath tests reading the .syn file next to an .ifo file.
func TestReadFromIfoPath(t *testing.T) {
	t.Parallel()

	gz := func(t *testing.T, b []byte) []byte {
		t.Helper()
		var buf bytes.Buffer
		z := gzip.NewWriter(&buf)
		if _, err := z.Write(b); err != nil {
			t.Fatal(err)
		}
		if err := z.Close(); err != nil {
			t.Fatal(err)
		}
		return buf.Bytes()
	}

	tests := []struct {
		name string
		ext  string
		gzip bool
	}{
		{
			name: "syn",
			ext:  ".syn",
		},
		{
			name: "upper case",
			ext:  ".SYN",
		},
		{
			name: "gzip",
			ext:  ".syn.gz",
			gzip: true,
		},
		{
			name: "dictzip",
			ext:  ".syn.dz",
			gzip: true,
		},
	}

	for _, test := range tests {
		t.Run(test.name, func(t *testing.T) {
			t.Parallel()

			dir := t.TempDir()
			b := testutil.MakeSyn(t, testWords)
			if test.gzip {
				b = gz(t, b)
			}
			if err := os.WriteFile(filepath.Join(dir, "dict"+test.ext), b, 0o600); err != nil {
				t.Fatal(err)
			}

			words, err := syn.ReadFromIfoPath(filepath.Join(dir, "dict.ifo"))
			if err != nil {
				t.Fatalf("ReadFromIfoPath: %v", err)
			}
			if diff := cmp.Diff(testWords, words); diff != "" {
				t.Errorf("ReadFromIfoPath (-want, +got):\n%s", diff)
			}
		})
	}
}

// TestOpen_NotFound tests a missing .syn file.
func TestOpen_NotFound(t *testing.T) {
	t.Parallel()

	_, err := syn.Open(filepath.Join(t.TempDir(), "dict.ifo"))
	if !errors.Is(err, syn.ErrNotFound) {
		t.Fatalf("Open; want: %v, got: %v", syn.ErrNotFound, err)
	}
}
