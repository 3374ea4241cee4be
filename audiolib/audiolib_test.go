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

package audiolib_test

import (
	"errors"
	"os"
	"path/filepath"
	"sort"
	"testing"

	"github.com/google/go-cmp/cmp"

	"github.com/ianlewis/go-dictimport/audiolib"
	"github.com/ianlewis/go-dictimport/format"
)

func touch(t *testing.T, path string) {
	t.Helper()

	if err := os.MkdirAll(filepath.Dir(path), 0o755); err != nil {
		t.Fatal(err)
	}
	if err := os.WriteFile(path, []byte("x"), 0o600); err != nil {
		t.Fatal(err)
	}
}

// TestScan tests Scan.
func TestScan(t *testing.T) {
	t.Parallel()

	root := t.TempDir()
	touch(t, filepath.Join(root, "cat.mp3"))
	touch(t, filepath.Join(root, "Cat.wav"))
	touch(t, filepath.Join(root, "animals", "DOG.ogg"))
	touch(t, filepath.Join(root, "animals", "big", "cat.opus"))
	touch(t, filepath.Join(root, "a.b.mp3"))
	touch(t, filepath.Join(root, "noext"))
	if err := os.MkdirAll(filepath.Join(root, "empty"), 0o755); err != nil {
		t.Fatal(err)
	}

	got, err := audiolib.Scan(root)
	if err != nil {
		t.Fatalf("Scan: %v", err)
	}
	for _, paths := range got {
		sort.Strings(paths)
	}

	want := map[string][]string{
		"cat": {
			"Cat.wav",
			filepath.Join("animals", "big", "cat.opus"),
			"cat.mp3",
		},
		"dog":   {filepath.Join("animals", "DOG.ogg")},
		"a.b":   {"a.b.mp3"},
		"noext": {"noext"},
	}
	if diff := cmp.Diff(want, got); diff != "" {
		t.Fatalf("Scan (-want, +got):\n%s", diff)
	}
}

// TestScan_Symlink tests that symlinks are not indexed.
func TestScan_Symlink(t *testing.T) {
	t.Parallel()

	root := t.TempDir()
	touch(t, filepath.Join(root, "cat.mp3"))
	if err := os.Symlink(filepath.Join(root, "cat.mp3"), filepath.Join(root, "kitten.mp3")); err != nil {
		t.Skipf("symlinks unsupported: %v", err)
	}

	got, err := audiolib.Scan(root)
	if err != nil {
		t.Fatalf("Scan: %v", err)
	}
	want := map[string][]string{
		"cat": {"cat.mp3"},
	}
	if diff := cmp.Diff(want, got); diff != "" {
		t.Fatalf("Scan (-want, +got):\n%s", diff)
	}
}

// TestScan_Errors tests Scan failures.
func TestScan_Errors(t *testing.T) {
	t.Parallel()

	root := t.TempDir()
	file := filepath.Join(root, "cat.mp3")
	touch(t, file)

	if _, err := audiolib.Scan(filepath.Join(root, "missing")); !errors.Is(err, format.ErrIO) {
		t.Errorf("Scan(missing); want: %v, got: %v", format.ErrIO, err)
	}
	if _, err := audiolib.Scan(file); !errors.Is(err, format.ErrUnsupportedFormat) {
		t.Errorf("Scan(file); want: %v, got: %v", format.ErrUnsupportedFormat, err)
	}
}

// TestHeadword tests Headword.
func TestHeadword(t *testing.T) {
	t.Parallel()

	tests := []struct {
		name     string
		expected string
	}{
		{"cat.mp3", "cat"},
		{"Cat.WAV", "cat"},
		{"ice cream.ogg", "ice cream"},
		{"a.b.mp3", "a.b"},
		{".hidden", ".hidden"},
		{".hidden.mp3", ".hidden"},
		{"Éclair.mp3", "éclair"},
	}
	for _, test := range tests {
		if got := audiolib.Headword(test.name); got != test.expected {
			t.Errorf("Headword(%q); want: %q, got: %q", test.name, test.expected, got)
		}
	}
}
